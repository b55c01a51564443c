package suggestion

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/solacelabs/solace/backend/internal/model/chat"
)

func turn(role chat.Role, text string) chat.Turn {
	return chat.Turn{Role: role, Text: text}
}

func assertValidHistory(t *testing.T, turns []chat.Turn) {
	t.Helper()
	if len(turns) == 0 {
		return
	}
	assert.Equal(t, chat.RoleUser, turns[0].Role, "history must open with a user turn")
	assert.Equal(t, chat.RoleAssistant, turns[len(turns)-1].Role, "history must close with an assistant turn")
	for i := 1; i < len(turns); i++ {
		assert.NotEqual(t, turns[i-1].Role, turns[i].Role, "roles must alternate at %d", i)
	}
}

func TestRepairValidSequenceIsUntouched(t *testing.T) {
	history := []chat.Turn{
		turn(chat.RoleUser, "hi"),
		turn(chat.RoleAssistant, "hello"),
		turn(chat.RoleUser, "I'm struggling"),
		turn(chat.RoleAssistant, "tell me more"),
	}

	repaired := repairAlternation(history)
	require.Equal(t, history, repaired)
}

func TestRepairDropsOlderOfConsecutiveUserTurns(t *testing.T) {
	history := []chat.Turn{
		turn(chat.RoleUser, "first attempt"),
		turn(chat.RoleUser, "second attempt"),
		turn(chat.RoleAssistant, "got it"),
	}

	repaired := repairAlternation(history)
	assertValidHistory(t, repaired)
	require.Len(t, repaired, 2)
	assert.Equal(t, "second attempt", repaired[0].Text)
}

func TestRepairHandlesDanglingUserTurn(t *testing.T) {
	// an aborted turn leaves a user message with no assistant reply
	history := []chat.Turn{
		turn(chat.RoleUser, "hi"),
		turn(chat.RoleAssistant, "hello"),
		turn(chat.RoleUser, "this one never got answered"),
	}

	repaired := repairAlternation(history)
	assertValidHistory(t, repaired)
	require.Len(t, repaired, 2)
	assert.Equal(t, "hello", repaired[1].Text)
}

func TestRepairDropsLeadingAssistantTurn(t *testing.T) {
	history := []chat.Turn{
		turn(chat.RoleAssistant, "welcome"),
		turn(chat.RoleUser, "hi"),
		turn(chat.RoleAssistant, "hello"),
	}

	repaired := repairAlternation(history)
	assertValidHistory(t, repaired)
	require.Len(t, repaired, 2)
	assert.Equal(t, "hi", repaired[0].Text)
}

func TestRepairSkipsBlankTurns(t *testing.T) {
	history := []chat.Turn{
		turn(chat.RoleUser, "hi"),
		turn(chat.RoleAssistant, "   "),
		turn(chat.RoleAssistant, "hello"),
	}

	repaired := repairAlternation(history)
	assertValidHistory(t, repaired)
	require.Len(t, repaired, 2)
}

func TestRepairIsIdempotent(t *testing.T) {
	histories := [][]chat.Turn{
		{},
		{turn(chat.RoleUser, "alone")},
		{turn(chat.RoleUser, "a"), turn(chat.RoleUser, "b"), turn(chat.RoleAssistant, "c"), turn(chat.RoleUser, "d")},
		{turn(chat.RoleAssistant, "a"), turn(chat.RoleAssistant, "b")},
	}

	for i, history := range histories {
		once := repairAlternation(history)
		twice := repairAlternation(once)
		assert.Equal(t, once, twice, "case %d", i)
		assertValidHistory(t, once)
	}
}
