package dialogue

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carllama/server/internal/agent/model"
	errx "github.com/carllama/server/internal/core/error"
)

func TestResolveCreatesTrackerOnFirstUse(t *testing.T) {
	r := NewRegistry()

	state, err := r.Resolve(&model.Extraction{
		Intent: "buying_car",
		Slots:  model.Slots{"brand": "BMW", "budget": 20000.0},
	})
	require.NoError(t, err)

	assert.Equal(t, model.IntentBuyingCar, state.Intent)
	assert.Equal(t, "BMW", state.Slot("brand"))
	assert.Equal(t, 20000.0, state.Slot("budget"))
	assert.Nil(t, state.Slot("transmission"))
	assert.Equal(t, 1, r.Len())
}

func TestResolveMergesInPlaceOnLaterTurns(t *testing.T) {
	r := NewRegistry()

	first, err := r.Resolve(&model.Extraction{
		Intent: "buying_car",
		Slots:  model.Slots{"brand": "BMW"},
	})
	require.NoError(t, err)

	second, err := r.Resolve(&model.Extraction{
		Intent: "buying_car",
		Slots:  model.Slots{"budget": 20000.0, "brand": nil},
	})
	require.NoError(t, err)

	assert.Same(t, first, second)
	assert.Equal(t, "BMW", second.Slot("brand"))
	assert.Equal(t, 20000.0, second.Slot("budget"))
}

func TestResolveKeepsSlotKeySetStable(t *testing.T) {
	r := NewRegistry()

	keySet := func(s *model.DialogueState) []string {
		keys := make([]string, 0, len(s.Slots))
		for k := range s.Slots {
			keys = append(keys, k)
		}
		return keys
	}

	state, err := r.Resolve(&model.Extraction{Intent: "book_appointment", Slots: model.Slots{"date": "01/06/2025"}})
	require.NoError(t, err)
	initial := keySet(state)

	for _, delta := range []model.Slots{
		{"time": "10:00"},
		{"name": "Ada", "surname": "Lovelace"},
		{"id": "AB123", "date": nil},
	} {
		state, err = r.Resolve(&model.Extraction{Intent: "book_appointment", Slots: delta})
		require.NoError(t, err)
		assert.ElementsMatch(t, initial, keySet(state))
	}
}

func TestResolveUnknownIntentIsFatal(t *testing.T) {
	r := NewRegistry()

	_, err := r.Resolve(&model.Extraction{Intent: "sell_boat", Slots: model.Slots{}})

	require.Error(t, err)
	assert.True(t, errors.Is(err, errx.ErrUnknownIntent))
	assert.Equal(t, 0, r.Len())
}

func TestRemoveMissingTrackerIsNoOp(t *testing.T) {
	r := NewRegistry()

	assert.False(t, r.Remove(model.IntentOrderCar))
	assert.Equal(t, 0, r.Len())
}

func TestResolveAfterRemoveYieldsFreshState(t *testing.T) {
	r := NewRegistry()

	_, err := r.Resolve(&model.Extraction{
		Intent: "negotiate_price",
		Slots:  model.Slots{"car_id": 7.0, "proposed_price": 13000.0},
	})
	require.NoError(t, err)
	require.True(t, r.Remove(model.IntentNegotiatePrice))

	fresh, err := r.Resolve(&model.Extraction{Intent: "negotiate_price", Slots: model.Slots{}})
	require.NoError(t, err)

	assert.Nil(t, fresh.Slot("car_id"))
	assert.Nil(t, fresh.Slot("proposed_price"))
}

func TestKindsPreservesInsertionOrder(t *testing.T) {
	r := NewRegistry()

	for _, intent := range []string{"buying_car", "get_car_info", "give_feedback"} {
		_, err := r.Resolve(&model.Extraction{Intent: intent, Slots: model.Slots{}})
		require.NoError(t, err)
	}
	r.Remove(model.IntentGetCarInfo)

	assert.Equal(t, []model.IntentKind{model.IntentBuyingCar, model.IntentGiveFeedback}, r.Kinds())
}
