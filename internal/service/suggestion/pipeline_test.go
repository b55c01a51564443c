package suggestion_test

import (
	"context"
	"errors"
	"testing"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/solacelabs/solace/backend/internal/model/chat"
	"github.com/solacelabs/solace/backend/internal/model/emotion"
	"github.com/solacelabs/solace/backend/internal/service/suggestion"
)

// stubChatModel records the message sequence it was invoked with and returns
// a fixed reply or error.
type stubChatModel struct {
	reply string
	err   error
	seen  [][]*schema.Message
}

func (s *stubChatModel) Generate(_ context.Context, in []*schema.Message, _ ...model.Option) (*schema.Message, error) {
	s.seen = append(s.seen, in)
	if s.err != nil {
		return nil, s.err
	}
	return schema.AssistantMessage(s.reply, nil), nil
}

func (s *stubChatModel) Stream(context.Context, []*schema.Message, ...model.Option) (*schema.StreamReader[*schema.Message], error) {
	return nil, errors.New("streaming not supported")
}

func (s *stubChatModel) BindTools([]*schema.ToolInfo) error { return nil }

func sadResult() emotion.Result {
	return emotion.Result{
		Primary:    emotion.Sadness,
		Confidence: 0.82,
		Distribution: map[emotion.Label]float64{
			emotion.Sadness: 0.82, emotion.Anxiety: 0.1, emotion.Happiness: 0.08,
		},
	}
}

func newPipeline(t *testing.T, primary, secondary model.ChatModel) *suggestion.Pipeline {
	t.Helper()
	p, err := suggestion.NewPipeline(context.Background(), suggestion.Config{ContextTurns: 4}, primary, secondary)
	require.NoError(t, err)
	return p
}

func TestGenerateUsesPrimaryTierFirst(t *testing.T) {
	primary := &stubChatModel{reply: "primary reply"}
	secondary := &stubChatModel{reply: "secondary reply"}
	p := newPipeline(t, primary, secondary)

	result := p.Generate(context.Background(), "I feel lost", sadResult(), nil)

	assert.Equal(t, chat.TierPrimaryAPI, result.Source)
	assert.Equal(t, "primary reply", result.Text)
	assert.Empty(t, secondary.seen, "secondary must not be attempted when primary succeeds")
}

func TestGenerateFallsBackToSecondaryOnPrimaryFailure(t *testing.T) {
	primary := &stubChatModel{err: errors.New("503 from provider")}
	secondary := &stubChatModel{reply: "secondary reply"}
	p := newPipeline(t, primary, secondary)

	result := p.Generate(context.Background(), "I feel lost", sadResult(), nil)

	assert.Equal(t, chat.TierSecondaryAPI, result.Source)
	assert.Equal(t, "secondary reply", result.Text)
	require.Len(t, primary.seen, 1, "primary is attempted exactly once")
}

func TestGenerateEmptyCompletionTriggersNextTier(t *testing.T) {
	primary := &stubChatModel{reply: "   "}
	secondary := &stubChatModel{reply: "secondary reply"}
	p := newPipeline(t, primary, secondary)

	result := p.Generate(context.Background(), "I feel lost", sadResult(), nil)

	assert.Equal(t, chat.TierSecondaryAPI, result.Source)
}

func TestGenerateRuleTierWhenNoCredentials(t *testing.T) {
	p := newPipeline(t, nil, nil)

	result := p.Generate(context.Background(), "I lost my job today and I don't know what to do", sadResult(), nil)

	assert.Equal(t, chat.TierFallbackRule, result.Source)
	assert.NotEmpty(t, result.Text)
}

func TestGenerateRuleTierNeverFailsAcrossEmotions(t *testing.T) {
	p := newPipeline(t, nil, nil)

	labels := append([]emotion.Label{emotion.Neutral, emotion.Label("unknown")}, emotion.Canonical...)
	for _, label := range labels {
		result := p.Generate(context.Background(), "anything at all", emotion.Result{Primary: label}, nil)
		assert.Equal(t, chat.TierFallbackRule, result.Source, "label %s", label)
		assert.NotEmpty(t, result.Text, "label %s", label)
	}
}

func TestGenerateRuleTierKeywordVariant(t *testing.T) {
	p := newPipeline(t, nil, nil)

	frustrated := emotion.Result{Primary: emotion.Frustration, Confidence: 0.7}
	tired := p.Generate(context.Background(), "I'm exhausted and can't keep going", frustrated, nil)
	stuck := p.Generate(context.Background(), "I'm just stuck", frustrated, nil)

	assert.NotEqual(t, tired.Text, stuck.Text, "keyword scan should pick different variants")
}

func TestGeneratePresentsAlternatingContext(t *testing.T) {
	primary := &stubChatModel{reply: "ok"}
	p := newPipeline(t, primary, nil)

	// history with a dangling user turn from an aborted exchange
	history := []chat.Turn{
		{Role: chat.RoleUser, Text: "hello"},
		{Role: chat.RoleAssistant, Text: "hi there"},
		{Role: chat.RoleUser, Text: "never answered"},
	}

	p.Generate(context.Background(), "how about now", sadResult(), history)

	require.Len(t, primary.seen, 1)
	messages := primary.seen[0]
	require.NotEmpty(t, messages)

	assert.Equal(t, schema.System, messages[0].Role)
	assert.Equal(t, schema.User, messages[len(messages)-1].Role, "sequence must end with the new user turn")
	for i := 2; i < len(messages); i++ {
		assert.NotEqual(t, messages[i-1].Role, messages[i].Role, "roles must alternate at %d", i)
	}
	assert.Equal(t, schema.User, messages[1].Role, "first turn after the system instruction must be the user")
}

func TestGenerateEmptyInputStillProducesReply(t *testing.T) {
	p := newPipeline(t, nil, nil)

	result := p.Generate(context.Background(), "   ", emotion.NeutralResult(), nil)

	assert.Equal(t, chat.TierFallbackRule, result.Source)
	assert.NotEmpty(t, result.Text)
}
