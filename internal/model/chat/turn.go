package chat

import "time"

// Role identifies which side of the conversation produced a turn.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Turn is one immutable exchange entry. Ordering within a session follows
// insertion order; Seq is the monotonic marker.
type Turn struct {
	ID        string    `json:"id"`
	SessionID string    `json:"sessionId"`
	Role      Role      `json:"role"`
	Text      string    `json:"text"`
	Seq       int       `json:"seq"`
	CreatedAt time.Time `json:"createdAt"`
}
