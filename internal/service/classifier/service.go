package classifier

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/sirupsen/logrus"

	"github.com/solacelabs/solace/backend/internal/model/emotion"
)

var (
	// ErrUnavailable means the underlying capability cannot be reached at all
	// (missing credential, endpoint not configured).
	ErrUnavailable = errors.New("classifier unavailable")
	// ErrClassification wraps any other invocation failure.
	ErrClassification = errors.New("classification failed")
)

// TopK is the number of ranked entries exposed on every result.
const TopK = 3

// Backend produces raw per-label scores from the underlying capability.
// Implementations must not share mutable state across invocations.
type Backend interface {
	Scores(ctx context.Context, text string) (map[emotion.NativeLabel]float64, error)
}

// Service adapts a native-label backend to the canonical emotion set.
type Service struct {
	backend Backend
	log     *logrus.Entry
}

// NewService wraps the given backend.
func NewService(backend Backend) *Service {
	return &Service{
		backend: backend,
		log:     logrus.WithField("component", "classifier"),
	}
}

// Classify runs the backend and remaps its native distribution onto the
// canonical label set. The distribution is freshly computed from the single
// input text; nothing is smoothed across calls. A uniform or low-confidence
// distribution is a valid result, not an error.
func (s *Service) Classify(ctx context.Context, text string) (emotion.Result, error) {
	if s == nil || s.backend == nil {
		return emotion.Result{}, ErrUnavailable
	}

	native, err := s.backend.Scores(ctx, text)
	if err != nil {
		if errors.Is(err, ErrUnavailable) {
			return emotion.Result{}, err
		}
		return emotion.Result{}, fmt.Errorf("%w: %v", ErrClassification, err)
	}

	dist := make(map[emotion.Label]float64, len(emotion.Canonical))
	for _, label := range emotion.Canonical {
		dist[label] = 0
	}
	for nativeLabel, score := range native {
		canonical, ok := emotion.MapNative(nativeLabel)
		if !ok {
			s.log.WithField("label", nativeLabel).Warn("backend emitted unknown label, skipping")
			continue
		}
		dist[canonical] += score
	}

	var total float64
	for _, p := range dist {
		total += p
	}
	if total > 0 {
		for label, p := range dist {
			dist[label] = p / total
		}
	}

	topK := rank(dist)
	primary := topK[0]

	return emotion.Result{
		Primary:      primary.Label,
		Confidence:   primary.Probability,
		Distribution: dist,
		TopK:         topK[:TopK],
	}, nil
}

// rank orders the full distribution descending by probability, breaking ties
// by the fixed canonical priority order.
func rank(dist map[emotion.Label]float64) []emotion.Score {
	priority := make(map[emotion.Label]int, len(emotion.Canonical))
	for i, label := range emotion.Canonical {
		priority[label] = i
	}

	ranked := make([]emotion.Score, 0, len(emotion.Canonical))
	for _, label := range emotion.Canonical {
		ranked = append(ranked, emotion.Score{Label: label, Probability: dist[label]})
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].Probability != ranked[j].Probability {
			return ranked[i].Probability > ranked[j].Probability
		}
		return priority[ranked[i].Label] < priority[ranked[j].Label]
	})
	return ranked
}
