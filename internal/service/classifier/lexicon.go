package classifier

import (
	"context"

	analysis "github.com/solacelabs/solace/backend/internal/analysis/emotion"
	"github.com/solacelabs/solace/backend/internal/model/emotion"
)

// LexiconBackend scores text with the built-in keyword lexicon. It needs no
// credential and cannot fail, which makes it the offline default.
type LexiconBackend struct{}

// NewLexiconBackend returns the offline backend.
func NewLexiconBackend() *LexiconBackend {
	return &LexiconBackend{}
}

// Scores delegates to the lexicon analyzer.
func (b *LexiconBackend) Scores(_ context.Context, text string) (map[emotion.NativeLabel]float64, error) {
	return analysis.Score(text), nil
}
