package repo

import (
	"context"
	"sync"

	"github.com/cloudwego/eino/schema"

	"github.com/carllama/server/internal/agent/model"
)

// MemoryTranscriptRepository keeps transcripts in process memory. Used when
// no Redis is configured and in tests.
type MemoryTranscriptRepository struct {
	mu       sync.RWMutex
	sessions map[string][]*schema.Message
}

func NewMemoryTranscriptRepository() *MemoryTranscriptRepository {
	return &MemoryTranscriptRepository{sessions: make(map[string][]*schema.Message)}
}

func (r *MemoryTranscriptRepository) AddMessage(_ context.Context, sessionID string, message *schema.Message) error {
	r.mu.Lock()
	r.sessions[sessionID] = append(r.sessions[sessionID], message)
	r.mu.Unlock()
	return nil
}

func (r *MemoryTranscriptRepository) LoadTranscript(_ context.Context, sessionID string) (*model.Transcript, error) {
	r.mu.RLock()
	stored := r.sessions[sessionID]
	msgs := make([]*schema.Message, len(stored))
	copy(msgs, stored)
	r.mu.RUnlock()
	return &model.Transcript{SessionID: sessionID, Messages: msgs}, nil
}

func (r *MemoryTranscriptRepository) ClearTranscript(_ context.Context, sessionID string) error {
	r.mu.Lock()
	delete(r.sessions, sessionID)
	r.mu.Unlock()
	return nil
}

func (r *MemoryTranscriptRepository) MessageCount(_ context.Context, sessionID string) (int, error) {
	r.mu.RLock()
	n := len(r.sessions[sessionID])
	r.mu.RUnlock()
	return n, nil
}

var _ model.TranscriptRepository = (*MemoryTranscriptRepository)(nil)
