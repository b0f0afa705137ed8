package pipeline

import (
	"fmt"
	"strings"

	"github.com/bytedance/sonic"

	"github.com/carllama/server/internal/agent/model"
	"github.com/carllama/server/internal/store"
	logx "github.com/carllama/server/pkg/logger"
)

// ground resolves a confirmed transaction against the inventory. It may
// override decision.Action to no_results_found when the store cannot satisfy
// the state. Only confirmations of buying, info, negotiation and order
// intents touch the store; appointment confirmations just pick up the clock.
func (o *Orchestrator) ground(decision *model.Decision, state *model.DialogueState) *model.Grounding {
	if decision.Action != model.ActionConfirmation {
		return nil
	}

	switch model.IntentKind(decision.Parameter) {
	case model.IntentBuyingCar:
		return o.groundPurchase(decision, state)
	case model.IntentGetCarInfo:
		return o.groundCarInfo(decision, state)
	case model.IntentNegotiatePrice:
		return o.groundNegotiation(decision, state)
	case model.IntentOrderCar:
		return o.groundOrder(decision, state)
	case model.IntentBookAppointment:
		// The renderer needs the wall clock to phrase the booking back.
		return &model.Grounding{
			Data: o.now().Format("Current date: 02/01/2006, Time: 3:04 PM"),
		}
	default:
		return nil
	}
}

// groundPurchase runs the filtered scan and, on an empty result, iteratively
// relaxes constraints: walk the configured least-to-most-important slot
// order, null the first non-nil slot, re-query. Stops after the configured
// cap; still-empty results override the action to no_results_found with the
// relaxed slots attached as explanatory data.
func (o *Orchestrator) groundPurchase(decision *model.Decision, state *model.DialogueState) *model.Grounding {
	slots := make(map[string]any, len(state.Slots))
	for k, v := range state.Slots {
		slots[k] = v
	}

	var relaxed []string
	results := o.inventory.FindForPurchase(slots)
	for len(results) == 0 && len(relaxed) < o.cfg.RelaxationCap {
		slot, ok := nextRelaxable(slots, o.cfg.RelaxationOrder)
		if !ok {
			break
		}
		slots[slot] = nil
		relaxed = append(relaxed, slot)
		logx.Info().Str("slot", slot).Msg("Constraint relaxed")
		results = o.inventory.FindForPurchase(slots)
	}

	data := fmt.Sprintf("Database results: %s", marshalRecords(results))
	if len(relaxed) > 0 {
		data += fmt.Sprintf("\nConstraints relaxed: %s", strings.Join(relaxed, ", "))
	}
	if len(results) == 0 {
		decision.Action = model.ActionNoResultsFound
	}
	return &model.Grounding{Data: data, Relaxed: relaxed}
}

func (o *Orchestrator) groundCarInfo(decision *model.Decision, state *model.DialogueState) *model.Grounding {
	infoType, _ := state.Slot("info_type").(string)
	info, ok := o.inventory.CarInfo(state.Slot("car_id"), infoType)
	if !ok {
		logx.Debug().Interface("car_id", state.Slot("car_id")).Str("info_type", infoType).Msg("Car info lookup missed")
		decision.Action = model.ActionNoResultsFound
		return nil
	}
	return &model.Grounding{Data: info}
}

func (o *Orchestrator) groundNegotiation(decision *model.Decision, state *model.DialogueState) *model.Grounding {
	car, ok := o.inventory.FindByID(state.Slot("car_id"))
	if !ok {
		decision.Action = model.ActionNoResultsFound
		return nil
	}
	price, discount, negotiable := store.NegotiationTerms(car)
	systemPrice := price
	if negotiable {
		systemPrice = price - discount
	}
	data := fmt.Sprintf("\nCar: %v %v\nUser price: %v\nSystem price: %v\n",
		car["brand"], car["model"], state.Slot("proposed_price"), systemPrice)
	return &model.Grounding{Data: data}
}

func (o *Orchestrator) groundOrder(decision *model.Decision, state *model.DialogueState) *model.Grounding {
	car, ok := o.inventory.FindByID(state.Slot("car_id"))
	if !ok {
		decision.Action = model.ActionNoResultsFound
		return nil
	}
	return &model.Grounding{Data: fmt.Sprintf("Car ordered: %s", marshalRecords(car))}
}

// nextRelaxable returns the first slot in the priority order that currently
// holds a value. Already-nil slots are never relaxed.
func nextRelaxable(slots map[string]any, order []string) (string, bool) {
	for _, slot := range order {
		if slots[slot] != nil {
			return slot, true
		}
	}
	return "", false
}

func marshalRecords(v any) string {
	b, err := sonic.Marshal(v)
	if err != nil {
		logx.Error().Err(err).Msg("Failed to marshal grounding data")
		return fmt.Sprintf("%v", v)
	}
	return string(b)
}
