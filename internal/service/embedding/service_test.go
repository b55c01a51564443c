package embedding

import (
	"context"
	"errors"
	"testing"
	"time"

	einoembedding "github.com/cloudwego/eino/components/embedding"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubEmbedder struct {
	vectors [][]float64
	err     error
}

func (s *stubEmbedder) EmbedStrings(_ context.Context, texts []string, _ ...einoembedding.Option) ([][]float64, error) {
	return s.vectors, s.err
}

func TestEmbedReturnsVector(t *testing.T) {
	svc := NewService(&stubEmbedder{vectors: [][]float64{{0.1, 0.2, 0.3}}}, time.Second)

	vec, err := svc.Embed(context.Background(), "hello")
	require.NoError(t, err)
	assert.Equal(t, []float64{0.1, 0.2, 0.3}, vec)
}

func TestEmbedNilEmbedderIsUnavailable(t *testing.T) {
	svc := NewService(nil, time.Second)

	_, err := svc.Embed(context.Background(), "hello")
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestEmbedCallFailure(t *testing.T) {
	svc := NewService(&stubEmbedder{err: errors.New("rate limited")}, time.Second)

	_, err := svc.Embed(context.Background(), "hello")
	assert.ErrorIs(t, err, ErrEmbedding)
}

func TestEmbedEmptyVectorIsAnError(t *testing.T) {
	svc := NewService(&stubEmbedder{vectors: [][]float64{}}, time.Second)

	_, err := svc.Embed(context.Background(), "hello")
	assert.ErrorIs(t, err, ErrEmbedding)
}
