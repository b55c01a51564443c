package chat

import "time"

// Session captures a transient anonymous conversation. The greeting is shown
// by the client before the first user turn and never enters the turn log.
type Session struct {
	ID        string    `json:"id"`
	Greeting  string    `json:"greeting"`
	CreatedAt time.Time `json:"createdAt"`
}
