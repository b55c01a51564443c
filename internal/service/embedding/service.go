package embedding

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cloudwego/eino/components/embedding"
)

var (
	// ErrUnavailable means no embedder is configured (missing credential).
	ErrUnavailable = errors.New("embedding provider unavailable")
	// ErrEmbedding wraps transient call failures.
	ErrEmbedding = errors.New("embedding failed")
)

// Service turns text into a fixed-length vector via a remote embedder. It is
// stateless and performs no retries; the caller owns degradation policy.
type Service struct {
	embedder embedding.Embedder
	timeout  time.Duration
}

// NewService wraps the given embedder. A nil embedder yields a service whose
// Embed always reports ErrUnavailable. A positive timeout bounds every call.
func NewService(embedder embedding.Embedder, timeout time.Duration) *Service {
	return &Service{embedder: embedder, timeout: timeout}
}

// Embed produces the embedding vector for a single text.
func (s *Service) Embed(ctx context.Context, text string) ([]float64, error) {
	if s == nil || s.embedder == nil {
		return nil, ErrUnavailable
	}

	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	vectors, err := s.embedder.EmbedStrings(ctx, []string{text})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrEmbedding, err)
	}
	if len(vectors) == 0 || len(vectors[0]) == 0 {
		return nil, fmt.Errorf("%w: empty vector", ErrEmbedding)
	}
	return vectors[0], nil
}
