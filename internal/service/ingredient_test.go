package service

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/pantryledger/pantryledger/internal/domain"
)

func TestParseIngredientLine(t *testing.T) {
	tests := []struct {
		line string
		want domain.ParsedIngredient
	}{
		{"2 cups flour", domain.ParsedIngredient{Name: "flour", Quantity: 2, Unit: "cups"}},
		{"3 Tomatoes", domain.ParsedIngredient{Name: "Tomatoes", Quantity: 3, Unit: "piece"}},
		{"Salt to taste", domain.ParsedIngredient{Name: "Salt to taste", Quantity: 1, Unit: "piece"}},
		{"1.5 lb ground beef", domain.ParsedIngredient{Name: "ground beef", Quantity: 1.5, Unit: "lb"}},
		{"1/2 cup  brown   sugar", domain.ParsedIngredient{Name: "brown sugar", Quantity: 0.5, Unit: "cup"}},
		{"  2 piece Tomatoes ", domain.ParsedIngredient{Name: "Tomatoes", Quantity: 2, Unit: "piece"}},
		{"Eggs", domain.ParsedIngredient{Name: "Eggs", Quantity: 1, Unit: "piece"}},
		{"4", domain.ParsedIngredient{Name: "4", Quantity: 1, Unit: "piece"}},
		{"0 cups water", domain.ParsedIngredient{Name: "water", Quantity: 0, Unit: "cups"}},
		{"0 eggs", domain.ParsedIngredient{Name: "eggs", Quantity: 0, Unit: "piece"}},
		{"-2 eggs", domain.ParsedIngredient{Name: "eggs", Quantity: -2, Unit: "piece"}},
		{"  Salt to taste ", domain.ParsedIngredient{Name: "  Salt to taste ", Quantity: 1, Unit: "piece"}},
		{"NaN cups milk", domain.ParsedIngredient{Name: "NaN cups milk", Quantity: 1, Unit: "piece"}},
		{"Inf cups milk", domain.ParsedIngredient{Name: "Inf cups milk", Quantity: 1, Unit: "piece"}},
		{"1/0 cup rice", domain.ParsedIngredient{Name: "1/0 cup rice", Quantity: 1, Unit: "piece"}},
	}
	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			got := ParseIngredientLine(tt.line)
			assert.Equal(t, tt.want.Name, got.Name)
			assert.InDelta(t, tt.want.Quantity, got.Quantity, 1e-9)
			assert.Equal(t, tt.want.Unit, got.Unit)
		})
	}
}

func TestMatchesName(t *testing.T) {
	tests := []struct {
		record, ingredient string
		want               bool
	}{
		{"Ground Beef", "beef", true},
		{"Ground Beef", "Ground Beef Patties", true},
		{"Tomatoes", "TOMATOES", true},
		{"Rice", "Basmati Rice", true},
		{"Milk", "flour", false},
		{"Milk", "", false},
		{"", "milk", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, matchesName(tt.record, tt.ingredient), "%q vs %q", tt.record, tt.ingredient)
	}
}
