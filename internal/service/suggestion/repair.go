package suggestion

import (
	"strings"

	"github.com/solacelabs/solace/backend/internal/model/chat"
)

// repairAlternation trims a raw context window so that the sequence handed to
// a chat-completion provider strictly alternates user/assistant and ends with
// an assistant turn (the new user message is appended after it). Turns are
// only ever dropped, never fabricated or merged, and when two same-role turns
// collide the older one goes. A turn log left with a dangling user turn by an
// aborted exchange is healed here on the next turn. The function is
// idempotent: a valid window passes through unchanged.
func repairAlternation(turns []chat.Turn) []chat.Turn {
	kept := make([]chat.Turn, 0, len(turns))

	expected := chat.RoleAssistant
	for i := len(turns) - 1; i >= 0; i-- {
		turn := turns[i]
		if strings.TrimSpace(turn.Text) == "" {
			continue
		}
		if turn.Role != expected {
			continue
		}
		kept = append(kept, turn)
		if expected == chat.RoleAssistant {
			expected = chat.RoleUser
		} else {
			expected = chat.RoleAssistant
		}
	}

	// kept was collected newest-first
	for i, j := 0, len(kept)-1; i < j; i, j = i+1, j-1 {
		kept[i], kept[j] = kept[j], kept[i]
	}

	// history presented after the system instruction must open with a user turn
	if len(kept) > 0 && kept[0].Role == chat.RoleAssistant {
		kept = kept[1:]
	}

	return kept
}
