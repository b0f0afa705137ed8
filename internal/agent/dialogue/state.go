package dialogue

import (
	"github.com/carllama/server/internal/agent/model"
)

// Merge deep-merges incoming into existing and returns existing. A nil
// incoming value means "unspecified by this turn" and never overwrites or
// deletes; nested maps merge recursively (an absent or non-map destination is
// replaced by a fresh map first); any other value wins unconditionally.
func Merge(existing, incoming map[string]any) map[string]any {
	if existing == nil {
		existing = map[string]any{}
	}
	for key, value := range incoming {
		if value == nil {
			continue
		}
		if nested, ok := value.(map[string]any); ok {
			current, ok := existing[key].(map[string]any)
			if !ok {
				current = map[string]any{}
			}
			existing[key] = Merge(current, nested)
			continue
		}
		existing[key] = value
	}
	return existing
}

// Clean returns a copy of m with nil-valued keys stripped and nested maps
// that become empty after their own cleaning removed. Used to keep all-nil
// noise out of logs and prompts; merging does not depend on it.
func Clean(m map[string]any) map[string]any {
	out := make(map[string]any, len(m))
	for key, value := range m {
		if value == nil {
			continue
		}
		if nested, ok := value.(map[string]any); ok {
			cleaned := Clean(nested)
			if len(cleaned) == 0 {
				continue
			}
			out[key] = cleaned
			continue
		}
		out[key] = value
	}
	return out
}

// newState builds a fresh all-nil dialogue state from the static schema for
// the given kind. Callers must have validated the kind.
func newState(kind model.IntentKind) *model.DialogueState {
	keys, _ := model.SlotSchema(kind)
	slots := make(model.Slots, len(keys))
	for _, key := range keys {
		slots[key] = nil
	}
	return &model.DialogueState{Intent: kind, Slots: slots}
}
