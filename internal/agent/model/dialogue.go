package model

// IntentKind enumerates the closed set of dialogue purposes the assistant
// understands. The set is closed by contract: collaborators must only emit
// these labels, and an unrecognized label is a contract violation upstream,
// not a recoverable runtime condition.
type IntentKind string

const (
	IntentBuyingCar       IntentKind = "buying_car"
	IntentRentingCar      IntentKind = "renting_car"
	IntentGetCarInfo      IntentKind = "get_car_info"
	IntentNegotiatePrice  IntentKind = "negotiate_price"
	IntentOrderCar        IntentKind = "order_car"
	IntentBookAppointment IntentKind = "book_appointment"
	IntentGiveFeedback    IntentKind = "give_feedback"
	IntentOutOfDomain     IntentKind = "out_of_domain"
)

// slotSchemas maps each intent kind to its fixed slot key set. The key set of
// a tracker never changes after creation; only values move from nil to
// non-nil or are overwritten.
var slotSchemas = map[IntentKind][]string{
	IntentBuyingCar:       {"car_type", "budget", "brand", "model", "year", "fuel_type", "transmission"},
	IntentRentingCar:      {"car_type", "budget", "brand", "model", "pickup_date", "return_date"},
	IntentGetCarInfo:      {"car_id", "info_type"},
	IntentNegotiatePrice:  {"car_id", "proposed_price"},
	IntentOrderCar:        {"car_id", "price", "name", "surname", "id"},
	IntentBookAppointment: {"date", "time", "name", "surname", "id"},
	IntentGiveFeedback:    {"feedback", "comment"},
	IntentOutOfDomain:     {},
}

// ParseIntentKind validates a collaborator-supplied label against the closed
// intent set.
func ParseIntentKind(label string) (IntentKind, bool) {
	kind := IntentKind(label)
	_, ok := slotSchemas[kind]
	return kind, ok
}

// SlotSchema returns the slot key set for a kind, or false for an unknown kind.
func SlotSchema(kind IntentKind) ([]string, bool) {
	keys, ok := slotSchemas[kind]
	return keys, ok
}

// Slots is a nullable slot-name to value mapping. A nil value means
// "unspecified so far", never "cleared".
type Slots = map[string]any

// DialogueState is the live slot-filling state for one intent kind.
type DialogueState struct {
	Intent IntentKind `json:"intent"`
	Slots  Slots      `json:"slots"`
}

// Slot returns the named slot value, or nil when unset or absent.
func (s *DialogueState) Slot(name string) any {
	if s == nil || s.Slots == nil {
		return nil
	}
	return s.Slots[name]
}

// Segment is one intent-tagged piece of a user utterance, produced by the
// segmenter.
type Segment struct {
	Intent string `json:"intent"`
	Text   string `json:"text"`
}

// Extraction is the slot extractor's structured view of one segment. Slots
// must match the static schema for the intent kind exactly.
type Extraction struct {
	Intent string `json:"intent"`
	Slots  Slots  `json:"slots"`
}

// Actions the decision collaborator may emit.
const (
	ActionConfirmation   = "confirmation"
	ActionRequestInfo    = "request_info"
	ActionNoResultsFound = "no_results_found"
)

// Decision is the decision collaborator's next-action output. Parameter is an
// intent-kind name when Action is confirmation, and a slot name when Action
// is request_info.
type Decision struct {
	Action    string `json:"action"`
	Parameter string `json:"parameter"`
}

// Grounding carries concrete data resolved from the inventory store for the
// renderer, plus the list of constraints relaxed while searching.
type Grounding struct {
	Data    string
	Relaxed []string
}
