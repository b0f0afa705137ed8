package conversations

import (
	"fmt"
	"strings"

	logx "github.com/carllama/server/pkg/logger"
)

// Sender identifies who produced a history entry.
type Sender string

const (
	SenderUser   Sender = "user"
	SenderSystem Sender = "system"
)

type entry struct {
	sender Sender
	text   string
}

// TurnHistory is the bounded recent-message log fed to collaborators as
// conversational context. Append-only with oldest-eviction; consumed
// read-only via Snapshot. One history per session, mutated only by that
// session's orchestrator.
type TurnHistory struct {
	maxTurns int
	entries  []entry
}

const defaultMaxTurns = 5

func NewTurnHistory(maxTurns int) *TurnHistory {
	if maxTurns <= 0 {
		maxTurns = defaultMaxTurns
	}
	return &TurnHistory{maxTurns: maxTurns}
}

// Append records a message, evicting the oldest entry past the bound.
func (h *TurnHistory) Append(sender Sender, text string) error {
	if sender != SenderUser && sender != SenderSystem {
		logx.Error().Str("sender", string(sender)).Msg("Rejected history entry with invalid sender")
		return fmt.Errorf("sender must be %q or %q, got %q", SenderUser, SenderSystem, sender)
	}
	h.entries = append(h.entries, entry{sender: sender, text: text})
	if len(h.entries) > h.maxTurns {
		h.entries = h.entries[len(h.entries)-h.maxTurns:]
	}
	return nil
}

// Snapshot renders the retained entries oldest-first as "Sender: text" lines.
func (h *TurnHistory) Snapshot() string {
	var b strings.Builder
	for _, e := range h.entries {
		b.WriteString(capitalize(string(e.sender)))
		b.WriteString(": ")
		b.WriteString(e.text)
		b.WriteString("\n")
	}
	return b.String()
}

// Len reports the number of retained entries.
func (h *TurnHistory) Len() int {
	return len(h.entries)
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
