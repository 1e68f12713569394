package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestItemVariationLookup(t *testing.T) {
	item := Item{
		Variations: []ItemVariation{
			{Color: "red", Size: "M", Stock: 3},
			{Color: "red", Size: "L", Stock: 4},
		},
	}

	v, ok := item.Variation("red", "L")
	assert.True(t, ok)
	assert.Equal(t, 4, v.Stock)

	_, ok = item.Variation("blue", "M")
	assert.False(t, ok)

	_, ok = item.Variation("", "")
	assert.False(t, ok)
}

func TestItemWithoutVariations(t *testing.T) {
	item := Item{Stock: 7}

	v, ok := item.Variation("", "")
	assert.True(t, ok)
	assert.Equal(t, 7, v.Stock)

	_, ok = item.Variation("red", "M")
	assert.False(t, ok)
}

func TestRecalculateStock(t *testing.T) {
	item := Item{
		Stock: 100,
		Variations: []ItemVariation{
			{Color: "red", Size: "M", Stock: 3},
			{Color: "blue", Size: "M", Stock: 5},
		},
	}
	item.RecalculateStock()
	assert.Equal(t, 8, item.Stock)

	standalone := Item{Stock: 9}
	standalone.RecalculateStock()
	assert.Equal(t, 9, standalone.Stock)
}
