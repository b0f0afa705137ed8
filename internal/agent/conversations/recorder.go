package conversations

import (
	"context"

	"github.com/cloudwego/eino/schema"

	"github.com/carllama/server/internal/agent/model"
	logx "github.com/carllama/server/pkg/logger"
)

// Recorder mirrors turn messages into the durable transcript repository.
// Persistence is best-effort: a failed write is logged but never fails the
// turn, since the in-memory TurnHistory already carries what collaborators
// need.
type Recorder struct {
	repo model.TranscriptRepository
}

func NewRecorder(repo model.TranscriptRepository) *Recorder {
	return &Recorder{repo: repo}
}

// RecordUser persists the raw user utterance for a session.
func (r *Recorder) RecordUser(ctx context.Context, sessionID, text string) {
	r.record(ctx, sessionID, schema.UserMessage(text))
}

// RecordSystem persists the final system response for a session.
func (r *Recorder) RecordSystem(ctx context.Context, sessionID, text string) {
	r.record(ctx, sessionID, schema.AssistantMessage(text, nil))
}

func (r *Recorder) record(ctx context.Context, sessionID string, msg *schema.Message) {
	if r == nil || r.repo == nil {
		return
	}
	if err := r.repo.AddMessage(ctx, sessionID, msg); err != nil {
		logx.Error().Err(err).Str("session_id", sessionID).Msg("Failed to persist transcript message")
	}
}
