package classifier

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/solacelabs/solace/backend/internal/config"
	"github.com/solacelabs/solace/backend/internal/model/emotion"
)

// HostedBackend calls a hosted-inference classification endpoint. The endpoint
// returns per-label scores for the native emotion set.
type HostedBackend struct {
	cfg    config.ClassifierConfig
	client *http.Client
}

// NewHostedBackend builds the backend; Scores reports ErrUnavailable until a
// credential is configured.
func NewHostedBackend(cfg config.ClassifierConfig) *HostedBackend {
	return &HostedBackend{
		cfg:    cfg,
		client: &http.Client{Timeout: cfg.Timeout},
	}
}

type hostedScore struct {
	Label string  `json:"label"`
	Score float64 `json:"score"`
}

// Scores posts the text and decodes the ranked label list.
func (b *HostedBackend) Scores(ctx context.Context, text string) (map[emotion.NativeLabel]float64, error) {
	if !b.cfg.Enabled() {
		return nil, ErrUnavailable
	}

	payload, err := json.Marshal(map[string]string{"inputs": text})
	if err != nil {
		return nil, fmt.Errorf("encode request: %w", err)
	}

	url := fmt.Sprintf("%s/models/%s", strings.TrimRight(b.cfg.BaseURL, "/"), b.cfg.Model)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+b.cfg.APIKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := b.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("call classifier endpoint: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read classifier response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("classifier endpoint returned %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	// The endpoint nests the ranked list one level deep for single inputs.
	var nested [][]hostedScore
	if err := json.Unmarshal(body, &nested); err != nil {
		var flat []hostedScore
		if err := json.Unmarshal(body, &flat); err != nil {
			return nil, fmt.Errorf("decode classifier response: %w", err)
		}
		nested = [][]hostedScore{flat}
	}
	if len(nested) == 0 || len(nested[0]) == 0 {
		return nil, fmt.Errorf("classifier returned no scores")
	}

	scores := make(map[emotion.NativeLabel]float64, len(nested[0]))
	for _, entry := range nested[0] {
		scores[emotion.NativeLabel(strings.ToLower(entry.Label))] = entry.Score
	}
	return scores, nil
}
