package dialogue

import (
	"github.com/carllama/server/internal/agent/model"
	errx "github.com/carllama/server/internal/core/error"
	logx "github.com/carllama/server/pkg/logger"
)

// Registry holds the active per-intent dialogue states of one session. At
// most one tracker exists per intent kind; insertion order is preserved so
// multi-intent turns respond in the order intents first appeared. The
// registry exclusively owns its trackers and is mutated only by the session's
// orchestrator.
type Registry struct {
	order  []model.IntentKind
	states map[model.IntentKind]*model.DialogueState
}

func NewRegistry() *Registry {
	return &Registry{
		states: make(map[model.IntentKind]*model.DialogueState),
	}
}

// Resolve merges the extracted slots into the tracker for the extraction's
// intent kind, creating the tracker from its static schema on first mention,
// and returns the fully merged state. An unrecognized intent label is a
// contract violation and aborts the turn.
func (r *Registry) Resolve(extraction *model.Extraction) (*model.DialogueState, error) {
	kind, ok := model.ParseIntentKind(extraction.Intent)
	if !ok {
		logx.Error().Str("intent", extraction.Intent).Msg("Intent label outside the closed intent set")
		return nil, errx.UnknownIntent(extraction.Intent)
	}

	state, exists := r.states[kind]
	if !exists {
		logx.Info().Str("intent", string(kind)).Msg("Creating new state tracker")
		state = newState(kind)
		r.states[kind] = state
		r.order = append(r.order, kind)
	}

	state.Slots = Merge(state.Slots, Clean(extraction.Slots))
	logx.Debug().Str("intent", string(kind)).Interface("slots", Clean(state.Slots)).Msg("Dialogue state after update")
	return state, nil
}

// Remove retires the tracker for a kind after its transaction closed. A
// missing tracker is a logged no-op: the decision collaborator may confirm a
// transaction whose tracker already vanished, which must never halt the turn.
func (r *Registry) Remove(kind model.IntentKind) bool {
	if _, exists := r.states[kind]; !exists {
		logx.Debug().Str("intent", string(kind)).Msg("No state tracker to remove")
		return false
	}
	delete(r.states, kind)
	for i, k := range r.order {
		if k == kind {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	logx.Info().Str("intent", string(kind)).Msg("State tracker removed")
	return true
}

// Lookup returns the tracker for a kind without creating one.
func (r *Registry) Lookup(kind model.IntentKind) (*model.DialogueState, bool) {
	state, ok := r.states[kind]
	return state, ok
}

// Kinds returns the active intent kinds in insertion order.
func (r *Registry) Kinds() []model.IntentKind {
	out := make([]model.IntentKind, len(r.order))
	copy(out, r.order)
	return out
}

// Len reports the number of active trackers.
func (r *Registry) Len() int {
	return len(r.states)
}
