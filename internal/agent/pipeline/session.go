package pipeline

import (
	"github.com/carllama/server/internal/agent/conversations"
	"github.com/carllama/server/internal/agent/dialogue"
)

// Session scopes the mutable conversation state to one user session: its
// tracker registry and bounded turn history. Sessions are never shared; a
// parallel deployment must give each session its own pair.
type Session struct {
	ID       string
	Registry *dialogue.Registry
	History  *conversations.TurnHistory
}

func NewSession(id string, historyMaxTurns int) *Session {
	return &Session{
		ID:       id,
		Registry: dialogue.NewRegistry(),
		History:  conversations.NewTurnHistory(historyMaxTurns),
	}
}
