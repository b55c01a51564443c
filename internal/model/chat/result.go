package chat

import "github.com/solacelabs/solace/backend/internal/model/emotion"

// Tier records which suggestion stage produced a reply.
type Tier string

const (
	TierPrimaryAPI   Tier = "primary_api"
	TierSecondaryAPI Tier = "secondary_api"
	TierFallbackRule Tier = "fallback_rule"
)

// Suggestion is the reply produced for one turn together with its origin tier.
type Suggestion struct {
	Text   string `json:"text"`
	Source Tier   `json:"source"`
}

// SessionStats is a derived view over the session history. It carries no state
// of its own and can be recomputed at any time from the turn and emotion logs.
type SessionStats struct {
	TotalTurns int            `json:"totalTurns"`
	ByEmotion  map[string]int `json:"byEmotion"`
}

// TurnResult is what the caller receives for each processed user message.
type TurnResult struct {
	SessionID  string         `json:"sessionId"`
	Emotion    emotion.Result `json:"emotion"`
	Suggestion Suggestion     `json:"suggestion"`
	Stats      SessionStats   `json:"stats"`
}
