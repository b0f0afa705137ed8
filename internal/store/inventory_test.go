package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func loadEmbedded(t *testing.T) *Inventory {
	t.Helper()
	inv, err := Load("")
	require.NoError(t, err)
	require.NotZero(t, inv.Len())
	return inv
}

func TestLoadDerivesFieldsFromFirstRecord(t *testing.T) {
	inv := loadEmbedded(t)

	fields := inv.Fields()
	for _, want := range []string{"car_id", "brand", "model", "year", "budget", "negotiable"} {
		assert.Contains(t, fields, want)
	}
}

func TestFindForPurchaseBudgetIsUpperBound(t *testing.T) {
	inv := loadEmbedded(t)

	results := inv.FindForPurchase(map[string]any{"budget": 15000.0})
	require.NotEmpty(t, results)
	for _, car := range results {
		price := car["budget"].(float64)
		assert.LessOrEqual(t, price, 15000.0)
	}
}

func TestFindForPurchaseYearIsLowerBound(t *testing.T) {
	inv := loadEmbedded(t)

	results := inv.FindForPurchase(map[string]any{"year": 2022.0})
	require.NotEmpty(t, results)
	for _, car := range results {
		assert.GreaterOrEqual(t, car["year"].(float64), 2022.0)
	}
}

func TestFindForPurchaseStringsCompareCaseInsensitive(t *testing.T) {
	inv := loadEmbedded(t)

	results := inv.FindForPurchase(map[string]any{"brand": "bmw", "car_type": "SUV"})
	require.Len(t, results, 1)
	assert.Equal(t, "X3", results[0]["model"])
}

func TestFindForPurchaseNilSlotsImposeNoFilter(t *testing.T) {
	inv := loadEmbedded(t)

	all := inv.FindForPurchase(map[string]any{"brand": nil, "budget": nil})
	assert.Len(t, all, inv.Len())
}

func TestFindByID(t *testing.T) {
	inv := loadEmbedded(t)

	car, ok := inv.FindByID(7.0)
	require.True(t, ok)
	assert.Equal(t, "Ford", car["brand"])

	// string ids from slot extraction coerce too
	car, ok = inv.FindByID("7")
	require.True(t, ok)
	assert.Equal(t, "Focus", car["model"])

	_, ok = inv.FindByID(999)
	assert.False(t, ok)

	_, ok = inv.FindByID("not-a-number")
	assert.False(t, ok)
}

func TestCarInfo(t *testing.T) {
	inv := loadEmbedded(t)

	info, ok := inv.CarInfo(4, "fuel_type")
	require.True(t, ok)
	assert.Equal(t, "fuel_type: diesel", info)

	_, ok = inv.CarInfo(4, "horsepower")
	assert.False(t, ok)

	_, ok = inv.CarInfo(999, "fuel_type")
	assert.False(t, ok)
}

func TestNegotiationTerms(t *testing.T) {
	price, discount, negotiable := NegotiationTerms(Record{
		"budget":     15000.0,
		"negotiable": []any{"Yes", 1000.0},
	})
	assert.Equal(t, 15000.0, price)
	assert.Equal(t, 1000.0, discount)
	assert.True(t, negotiable)

	price, discount, negotiable = NegotiationTerms(Record{
		"budget":     15000.0,
		"negotiable": []any{"No", 0.0},
	})
	assert.Equal(t, 15000.0, price)
	assert.Zero(t, discount)
	assert.False(t, negotiable)
}
