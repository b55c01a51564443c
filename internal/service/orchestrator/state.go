package orchestrator

import (
	"time"

	"github.com/google/uuid"

	"github.com/solacelabs/solace/backend/internal/model/chat"
)

// conversationState is the append-only turn log for one session. Turns are
// immutable once appended; the only removal is a full reset.
type conversationState struct {
	turns []chat.Turn
}

func newConversationState() *conversationState {
	return &conversationState{turns: make([]chat.Turn, 0, 16)}
}

// append creates and stores a new turn, returning it.
func (s *conversationState) append(sessionID string, role chat.Role, text string) chat.Turn {
	turn := chat.Turn{
		ID:        uuid.NewString(),
		SessionID: sessionID,
		Role:      role,
		Text:      text,
		Seq:       len(s.turns),
		CreatedAt: time.Now().UTC(),
	}
	s.turns = append(s.turns, turn)
	return turn
}

// snapshot copies the current log so callers never alias internal storage.
func (s *conversationState) snapshot() []chat.Turn {
	copied := make([]chat.Turn, len(s.turns))
	copy(copied, s.turns)
	return copied
}

// window returns a copy of all turns before index end.
func (s *conversationState) window(end int) []chat.Turn {
	if end > len(s.turns) {
		end = len(s.turns)
	}
	copied := make([]chat.Turn, end)
	copy(copied, s.turns[:end])
	return copied
}

// reset clears the log to the fresh-session state.
func (s *conversationState) reset() {
	s.turns = s.turns[:0]
}

// userTurns counts user-role entries; stats are derived from the log rather
// than tracked separately.
func (s *conversationState) userTurns() int {
	count := 0
	for _, turn := range s.turns {
		if turn.Role == chat.RoleUser {
			count++
		}
	}
	return count
}
