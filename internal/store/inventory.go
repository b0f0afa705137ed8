package store

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"

	logx "github.com/carllama/server/pkg/logger"
)

//go:embed cars.json
var embeddedCars []byte

// Record is one flat car entry. The field schema is whatever superset of keys
// the loaded dataset happens to contain; it is derived from the first record.
type Record = map[string]any

// Inventory is the fixed record set the pipeline grounds dialogue states
// against. Lookups are filtered scans; the dataset is small and immutable for
// the process lifetime.
type Inventory struct {
	cars   []Record
	fields []string
}

// Load reads the inventory from path, or from the embedded dataset when path
// is empty.
func Load(path string) (*Inventory, error) {
	data := embeddedCars
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read inventory %s: %w", path, err)
		}
		data = b
	}

	var cars []Record
	if err := json.Unmarshal(data, &cars); err != nil {
		return nil, fmt.Errorf("decode inventory: %w", err)
	}

	inv := &Inventory{cars: cars}
	if len(cars) > 0 {
		for field := range cars[0] {
			inv.fields = append(inv.fields, field)
		}
	}
	logx.Debug().Int("cars", len(cars)).Msg("Inventory loaded")
	return inv, nil
}

// Fields returns the field schema derived from the first loaded record.
func (inv *Inventory) Fields() []string {
	out := make([]string, len(inv.fields))
	copy(out, inv.fields)
	return out
}

// Len reports the number of records.
func (inv *Inventory) Len() int {
	return len(inv.cars)
}

// FindForPurchase scans the whole set against the non-nil slot values.
// budget is an upper bound (the car's price must not exceed it), year a lower
// bound (the car must be at least that recent); every other field compares as
// case-insensitive exact match. Nil slots impose no filter.
func (inv *Inventory) FindForPurchase(slots map[string]any) []Record {
	var result []Record
	for _, car := range inv.cars {
		if matchesPurchase(car, slots) {
			result = append(result, car)
		}
	}
	logx.Debug().Int("matches", len(result)).Msg("Purchase query finished")
	return result
}

func matchesPurchase(car Record, slots map[string]any) bool {
	for field, value := range slots {
		if value == nil {
			continue
		}
		carValue, ok := car[field]
		if !ok || carValue == nil {
			return false
		}

		switch field {
		case "budget":
			price, perr := toFloat(carValue)
			target, terr := toFloat(value)
			if perr != nil || terr != nil {
				logx.Warn().Interface("car_id", car["car_id"]).Interface("value", value).Msg("Unparseable budget, excluding car")
				return false
			}
			if price > target {
				return false
			}
		case "year":
			year, yerr := toInt(carValue)
			target, terr := toInt(value)
			if yerr != nil || terr != nil {
				logx.Warn().Interface("car_id", car["car_id"]).Interface("value", value).Msg("Unparseable year, excluding car")
				return false
			}
			if year < target {
				return false
			}
		default:
			cs, cok := carValue.(string)
			vs, vok := value.(string)
			if cok && vok {
				if !strings.EqualFold(cs, vs) {
					return false
				}
			} else if carValue != value {
				return false
			}
		}
	}
	return true
}

// FindByID returns the car with the given id. Absence is a sentinel, not an
// error: a missing id propagates to the no-results path.
func (inv *Inventory) FindByID(carID any) (Record, bool) {
	target, err := toInt(carID)
	if err != nil {
		logx.Error().Interface("car_id", carID).Msg("Invalid car id")
		return nil, false
	}
	for _, car := range inv.cars {
		id, err := toInt(car["car_id"])
		if err == nil && id == target {
			return car, true
		}
	}
	return nil, false
}

// CarInfo returns one formatted field of the identified car, e.g.
// "fuel_type: diesel". The second result is false when either the car or the
// requested field is missing.
func (inv *Inventory) CarInfo(carID any, infoType string) (string, bool) {
	car, ok := inv.FindByID(carID)
	if !ok {
		return "", false
	}
	value, ok := car[infoType]
	if !ok {
		logx.Error().Interface("car_id", carID).Str("info_type", infoType).Msg("Info type not present on car")
		return "", false
	}
	return fmt.Sprintf("%s: %v", infoType, value), true
}

// NegotiationTerms extracts the sticker price and negotiation leeway from a
// record. The dataset encodes negotiability as a ["Yes"|"No", discount] pair.
func NegotiationTerms(car Record) (price float64, discount float64, negotiable bool) {
	price, _ = toFloat(car["budget"])
	pair, ok := car["negotiable"].([]any)
	if !ok || len(pair) != 2 {
		return price, 0, false
	}
	flag, _ := pair[0].(string)
	if !strings.EqualFold(flag, "Yes") {
		return price, 0, false
	}
	discount, err := toFloat(pair[1])
	if err != nil {
		return price, 0, false
	}
	return price, discount, true
}

func toFloat(v any) (float64, error) {
	switch n := v.(type) {
	case float64:
		return n, nil
	case int:
		return float64(n), nil
	case string:
		return strconv.ParseFloat(strings.TrimSpace(n), 64)
	default:
		return 0, fmt.Errorf("not a number: %v", v)
	}
}

func toInt(v any) (int, error) {
	switch n := v.(type) {
	case float64:
		return int(n), nil
	case int:
		return n, nil
	case string:
		return strconv.Atoi(strings.TrimSpace(n))
	default:
		return 0, fmt.Errorf("not an integer: %v", v)
	}
}
