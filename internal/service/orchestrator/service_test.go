package orchestrator_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/solacelabs/solace/backend/internal/model/chat"
	"github.com/solacelabs/solace/backend/internal/model/emotion"
	"github.com/solacelabs/solace/backend/internal/service/classifier"
	"github.com/solacelabs/solace/backend/internal/service/orchestrator"
	"github.com/solacelabs/solace/backend/internal/service/suggestion"
)

type fixedClassifier struct {
	result emotion.Result
	err    error
}

func (f *fixedClassifier) Classify(context.Context, string) (emotion.Result, error) {
	return f.result, f.err
}

type failingEmbedder struct{ calls int }

func (f *failingEmbedder) Embed(context.Context, string) ([]float64, error) {
	f.calls++
	return nil, errors.New("credential rejected")
}

func newService(t *testing.T, cls orchestrator.Classifier, embedder orchestrator.Embedder) *orchestrator.Service {
	t.Helper()
	pipeline, err := suggestion.NewPipeline(context.Background(), suggestion.Config{ContextTurns: 4}, nil, nil)
	require.NoError(t, err)
	if cls == nil {
		cls = classifier.NewService(classifier.NewLexiconBackend())
	}
	return orchestrator.NewService(cls, embedder, pipeline)
}

func TestProcessTurnLostJobScenario(t *testing.T) {
	cls := classifier.NewService(&nativeStub{scores: map[emotion.NativeLabel]float64{
		emotion.NativeSadness: 0.82,
		emotion.NativeFear:    0.10,
		emotion.NativeJoy:     0.08,
	}})
	svc := newService(t, cls, nil)
	ctx := context.Background()

	sess, err := svc.CreateSession(ctx)
	require.NoError(t, err)

	result, err := svc.ProcessTurn(ctx, sess.ID, "I lost my job today and I don't know what to do")
	require.NoError(t, err)

	assert.Equal(t, emotion.Sadness, result.Emotion.Primary)
	assert.Equal(t, chat.TierFallbackRule, result.Suggestion.Source, "no credentials configured")
	assert.NotEmpty(t, result.Suggestion.Text)
	assert.Equal(t, 1, result.Stats.TotalTurns)
	assert.Equal(t, 1, result.Stats.ByEmotion[string(emotion.Sadness)])
}

type nativeStub struct {
	scores map[emotion.NativeLabel]float64
}

func (n *nativeStub) Scores(context.Context, string) (map[emotion.NativeLabel]float64, error) {
	return n.scores, nil
}

func TestTwoTurnsAppendFourAlternatingTurns(t *testing.T) {
	svc := newService(t, nil, nil)
	ctx := context.Background()

	sess, err := svc.CreateSession(ctx)
	require.NoError(t, err)

	_, err = svc.ProcessTurn(ctx, sess.ID, "I had a rough day")
	require.NoError(t, err)
	_, err = svc.ProcessTurn(ctx, sess.ID, "and it's not getting better")
	require.NoError(t, err)

	turns, err := svc.Transcript(ctx, sess.ID)
	require.NoError(t, err)
	require.Len(t, turns, 4)

	expected := []chat.Role{chat.RoleUser, chat.RoleAssistant, chat.RoleUser, chat.RoleAssistant}
	for i, turn := range turns {
		assert.Equal(t, expected[i], turn.Role, "turn %d", i)
		assert.Equal(t, i, turn.Seq, "turn %d", i)
	}
}

func TestClassifierFailureYieldsNeutralDefault(t *testing.T) {
	svc := newService(t, &fixedClassifier{err: classifier.ErrUnavailable}, nil)
	ctx := context.Background()

	sess, err := svc.CreateSession(ctx)
	require.NoError(t, err)

	result, err := svc.ProcessTurn(ctx, sess.ID, "hello")
	require.NoError(t, err, "a classification failure must not abort the turn")

	assert.Equal(t, emotion.Neutral, result.Emotion.Primary)
	assert.Zero(t, result.Emotion.Confidence)
	assert.NotEmpty(t, result.Suggestion.Text)
}

func TestEmbeddingFailureIsNonBlocking(t *testing.T) {
	embedder := &failingEmbedder{}
	svc := newService(t, nil, embedder)
	ctx := context.Background()

	sess, err := svc.CreateSession(ctx)
	require.NoError(t, err)

	result, err := svc.ProcessTurn(ctx, sess.ID, "just checking in")
	require.NoError(t, err)

	assert.Equal(t, 1, embedder.calls, "embedding attempted exactly once, no retries")
	assert.NotEmpty(t, result.Suggestion.Text)
}

func TestResetSessionBehavesLikeFresh(t *testing.T) {
	svc := newService(t, nil, nil)
	ctx := context.Background()

	sess, err := svc.CreateSession(ctx)
	require.NoError(t, err)

	input := "I'm worried about tomorrow"
	first, err := svc.ProcessTurn(ctx, sess.ID, input)
	require.NoError(t, err)
	_, err = svc.ProcessTurn(ctx, sess.ID, "still worried")
	require.NoError(t, err)

	require.NoError(t, svc.ResetSession(ctx, sess.ID))

	stats, err := svc.Stats(ctx, sess.ID)
	require.NoError(t, err)
	assert.Zero(t, stats.TotalTurns)
	assert.Empty(t, stats.ByEmotion)

	turns, err := svc.Transcript(ctx, sess.ID)
	require.NoError(t, err)
	assert.Empty(t, turns)

	// identical input after reset behaves exactly like a fresh first turn
	again, err := svc.ProcessTurn(ctx, sess.ID, input)
	require.NoError(t, err)
	assert.Equal(t, first.Emotion, again.Emotion)
	assert.Equal(t, first.Suggestion, again.Suggestion)
	assert.Equal(t, 1, again.Stats.TotalTurns)
}

func TestProcessTurnUnknownSession(t *testing.T) {
	svc := newService(t, nil, nil)

	_, err := svc.ProcessTurn(context.Background(), "missing", "hello")
	assert.ErrorIs(t, err, orchestrator.ErrSessionNotFound)
}

func TestStatsAreRecomputedFromLogs(t *testing.T) {
	svc := newService(t, nil, nil)
	ctx := context.Background()

	sess, err := svc.CreateSession(ctx)
	require.NoError(t, err)

	_, err = svc.ProcessTurn(ctx, sess.ID, "I'm so happy today!")
	require.NoError(t, err)
	_, err = svc.ProcessTurn(ctx, sess.ID, "now I'm sad and lonely")
	require.NoError(t, err)

	stats, err := svc.Stats(ctx, sess.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, stats.TotalTurns)

	total := 0
	for _, count := range stats.ByEmotion {
		total += count
	}
	assert.Equal(t, 2, total)
}
