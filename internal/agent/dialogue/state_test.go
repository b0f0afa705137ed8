package dialogue

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carllama/server/internal/agent/model"
)

func TestMergeSkipsNilValues(t *testing.T) {
	existing := map[string]any{"brand": "BMW", "budget": 20000.0}
	merged := Merge(existing, map[string]any{"brand": nil, "budget": nil, "year": nil})

	assert.Equal(t, map[string]any{"brand": "BMW", "budget": 20000.0}, merged)
}

func TestMergeOverwritesScalars(t *testing.T) {
	existing := map[string]any{"brand": "BMW"}
	merged := Merge(existing, map[string]any{"brand": "Audi", "budget": 15000.0})

	assert.Equal(t, "Audi", merged["brand"])
	assert.Equal(t, 15000.0, merged["budget"])
}

func TestMergeRecursesIntoNestedMaps(t *testing.T) {
	existing := map[string]any{
		"intent": "buying_car",
		"slots":  map[string]any{"brand": "BMW", "budget": nil},
	}
	merged := Merge(existing, map[string]any{
		"slots": map[string]any{"budget": 20000.0, "brand": nil},
	})

	slots, ok := merged["slots"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "BMW", slots["brand"])
	assert.Equal(t, 20000.0, slots["budget"])
}

func TestMergeReplacesNonMapWithMapDestination(t *testing.T) {
	existing := map[string]any{"slots": "bogus"}
	merged := Merge(existing, map[string]any{"slots": map[string]any{"brand": "Fiat"}})

	slots, ok := merged["slots"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "Fiat", slots["brand"])
}

func TestMergeIdempotentOverOwnCleanedSelf(t *testing.T) {
	state := map[string]any{
		"intent": "buying_car",
		"slots": map[string]any{
			"brand":  "BMW",
			"budget": 20000.0,
			"year":   nil,
		},
	}

	merged := Merge(state, Clean(state))

	slots := merged["slots"].(map[string]any)
	assert.Equal(t, "BMW", slots["brand"])
	assert.Equal(t, 20000.0, slots["budget"])
	assert.Nil(t, slots["year"])
	assert.Len(t, slots, 3)
}

func TestMergeAllNilDeltaIsIdentity(t *testing.T) {
	state := map[string]any{"brand": "BMW", "model": nil}
	merged := Merge(state, map[string]any{"brand": nil, "model": nil, "year": nil})

	assert.Equal(t, map[string]any{"brand": "BMW", "model": nil}, merged)
}

func TestCleanStripsNilsAndEmptiedNestedMaps(t *testing.T) {
	in := map[string]any{
		"intent": "order_car",
		"slots":  map[string]any{"car_id": nil, "price": nil},
		"extra":  map[string]any{"note": "keep"},
	}

	cleaned := Clean(in)

	assert.Equal(t, map[string]any{
		"intent": "order_car",
		"extra":  map[string]any{"note": "keep"},
	}, cleaned)
	// input untouched
	assert.Contains(t, in, "slots")
}

func TestNewStateInitializesFullSchemaToNil(t *testing.T) {
	state := newState(model.IntentBuyingCar)

	keys, ok := model.SlotSchema(model.IntentBuyingCar)
	require.True(t, ok)
	require.Len(t, state.Slots, len(keys))
	for _, key := range keys {
		value, present := state.Slots[key]
		assert.True(t, present, "missing slot %s", key)
		assert.Nil(t, value)
	}
}
