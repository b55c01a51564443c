package suggestion

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/components/prompt"
	"github.com/cloudwego/eino/compose"
	"github.com/cloudwego/eino/schema"
	"github.com/sirupsen/logrus"

	"github.com/solacelabs/solace/backend/internal/model/chat"
	"github.com/solacelabs/solace/backend/internal/model/emotion"
)

const systemPrompt = "You are an empathetic, supportive companion. You are not a medical " +
	"professional and you never give clinical advice or diagnoses.\n\n" +
	"Guidelines:\n" +
	"- Respond in a natural, conversational tone and reference what the user actually said.\n" +
	"- Offer a few specific, practical suggestions that fit their situation.\n" +
	"- Be warm and encouraging without being dismissive or generic.\n" +
	"- Keep the reply focused, roughly four to eight sentences."

// Config tunes the pipeline.
type Config struct {
	// ContextTurns is the number of recent history turns offered to the
	// remote tiers before alternation repair.
	ContextTurns int
	// PrimaryTimeout and SecondaryTimeout bound each remote call. A tier
	// whose deadline expires simply yields to the next tier.
	PrimaryTimeout   time.Duration
	SecondaryTimeout time.Duration
}

// request carries everything one tier needs for a single attempt.
type request struct {
	text    string
	emotion emotion.Result
	history []*schema.Message
}

// tier is one fallback stage: a pure attempt that either returns reply text
// or signals failure so the next stage runs.
type tier struct {
	source  chat.Tier
	timeout time.Duration
	attempt func(ctx context.Context, req request) (string, error)
}

// Pipeline produces one supportive reply per turn by walking an ordered tier
// list and stopping at the first success. The final rule-based tier has no
// external dependency and cannot fail, so Generate never returns an error.
type Pipeline struct {
	tiers        []tier
	contextTurns int
	log          *logrus.Entry
}

// NewPipeline assembles the tier list. A nil chat model disables its tier, so
// an absent credential deterministically routes turns to the tiers below it.
func NewPipeline(ctx context.Context, cfg Config, primary, secondary model.ChatModel) (*Pipeline, error) {
	contextTurns := cfg.ContextTurns
	if contextTurns < 0 {
		contextTurns = 0
	}

	p := &Pipeline{
		contextTurns: contextTurns,
		log:          logrus.WithField("component", "suggestion"),
	}

	if primary != nil {
		attempt, err := newChainAttempt(ctx, primary)
		if err != nil {
			return nil, fmt.Errorf("compile primary tier: %w", err)
		}
		p.tiers = append(p.tiers, tier{source: chat.TierPrimaryAPI, timeout: cfg.PrimaryTimeout, attempt: attempt})
	}
	if secondary != nil {
		attempt, err := newChainAttempt(ctx, secondary)
		if err != nil {
			return nil, fmt.Errorf("compile secondary tier: %w", err)
		}
		p.tiers = append(p.tiers, tier{source: chat.TierSecondaryAPI, timeout: cfg.SecondaryTimeout, attempt: attempt})
	}
	p.tiers = append(p.tiers, tier{source: chat.TierFallbackRule, attempt: ruleAttempt})

	return p, nil
}

// Generate walks the tiers for one turn. Each tier runs at most once; the
// first non-empty reply wins. History is windowed and alternation-repaired
// before any remote tier sees it.
func (p *Pipeline) Generate(ctx context.Context, text string, emotionResult emotion.Result, history []chat.Turn) chat.Suggestion {
	req := request{
		text:    text,
		emotion: emotionResult,
		history: toSchemaMessages(p.contextWindow(history)),
	}

	for _, t := range p.tiers {
		reply, err := runTier(ctx, t, req)
		if err != nil {
			p.log.WithFields(logrus.Fields{"tier": t.source, "error": err}).Warn("tier failed, falling through")
			continue
		}
		return chat.Suggestion{Text: reply, Source: t.source}
	}

	// Unreachable while the rule tier holds its no-failure contract; kept as
	// the safety net demanded of a turn that must always produce a reply.
	return chat.Suggestion{Text: safetyNetReply, Source: chat.TierFallbackRule}
}

// runTier executes one attempt under its deadline, converting a panic from a
// defective tier into an ordinary failure signal.
func runTier(ctx context.Context, t tier, req request) (reply string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("tier panic: %v", r)
		}
	}()

	if t.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, t.timeout)
		defer cancel()
	}

	reply, err = t.attempt(ctx, req)
	if err != nil {
		return "", err
	}
	reply = strings.TrimSpace(reply)
	if reply == "" {
		return "", fmt.Errorf("empty completion")
	}
	return reply, nil
}

// newChainAttempt compiles the prompt chain for one remote provider.
func newChainAttempt(ctx context.Context, chatModel model.ChatModel) (func(context.Context, request) (string, error), error) {
	promptTemplate := prompt.FromMessages(
		schema.FString,
		schema.SystemMessage("{system}"),
		schema.MessagesPlaceholder("history", true),
		schema.UserMessage("{query}"),
	)

	chain := compose.NewChain[map[string]any, *schema.Message]()
	chain.AppendChatTemplate(promptTemplate)
	chain.AppendChatModel(chatModel)

	runnable, err := chain.Compile(ctx)
	if err != nil {
		return nil, err
	}

	return func(ctx context.Context, req request) (string, error) {
		msg, err := runnable.Invoke(ctx, map[string]any{
			"system":  systemPrompt,
			"history": req.history,
			"query":   buildQuery(req),
		})
		if err != nil {
			return "", err
		}
		if msg == nil {
			return "", fmt.Errorf("nil completion")
		}
		return msg.Content, nil
	}, nil
}

// ruleAttempt is the offline tier: a pure function of the detected emotion and
// a keyword scan of the message.
func ruleAttempt(_ context.Context, req request) (string, error) {
	return selectTemplate(req.emotion.Primary, req.text), nil
}

// buildQuery embeds the detected emotion alongside the user's message so the
// provider can match its phrasing to the user's state.
func buildQuery(req request) string {
	return fmt.Sprintf("User message: %s\n\nDetected emotion: %s\n\nNow speak to the user:", req.text, req.emotion.Primary)
}

// contextWindow selects the recent turns offered to remote tiers and repairs
// their alternation.
func (p *Pipeline) contextWindow(history []chat.Turn) []chat.Turn {
	if p.contextTurns == 0 || len(history) == 0 {
		return nil
	}
	if len(history) > p.contextTurns {
		history = history[len(history)-p.contextTurns:]
	}
	return repairAlternation(history)
}

func toSchemaMessages(turns []chat.Turn) []*schema.Message {
	if len(turns) == 0 {
		return nil
	}
	messages := make([]*schema.Message, 0, len(turns))
	for _, turn := range turns {
		switch turn.Role {
		case chat.RoleUser:
			messages = append(messages, schema.UserMessage(turn.Text))
		case chat.RoleAssistant:
			messages = append(messages, schema.AssistantMessage(turn.Text, nil))
		}
	}
	return messages
}
