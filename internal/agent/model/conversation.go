package model

import (
	"context"

	"github.com/cloudwego/eino/schema"
)

// TranscriptRepository persists the full session transcript. The bounded
// in-memory TurnHistory feeds collaborators; this repository is the durable
// record of the whole conversation.
type TranscriptRepository interface {
	// AddMessage appends a message to the transcript of the given session.
	AddMessage(ctx context.Context, sessionID string, message *schema.Message) error

	// LoadTranscript retrieves the transcript for a session.
	LoadTranscript(ctx context.Context, sessionID string) (*Transcript, error)

	// ClearTranscript removes all stored messages for a session.
	ClearTranscript(ctx context.Context, sessionID string) error

	// MessageCount returns the number of stored messages for a session.
	MessageCount(ctx context.Context, sessionID string) (int, error)
}

// Transcript represents loaded conversation data with metadata.
type Transcript struct {
	SessionID string
	Messages  []*schema.Message
}
