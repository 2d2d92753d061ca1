package service

import (
	"math"
	"strconv"
	"strings"

	"github.com/pantryledger/pantryledger/internal/domain"
)

// ParseIngredientLine splits a recipe line such as "2 cups flour" into
// quantity, unit and name. It never fails: a line without a leading number,
// or with a single token, becomes one piece named after the line exactly as
// given, surrounding whitespace included. A leading zero or negative number
// is still the quantity.
func ParseIngredientLine(line string) domain.ParsedIngredient {
	fallback := domain.ParsedIngredient{
		Name:     line,
		Quantity: 1,
		Unit:     domain.DefaultUnit,
	}

	tokens := strings.Fields(line)
	if len(tokens) < 2 {
		return fallback
	}
	qty, ok := parseQuantity(tokens[0])
	if !ok {
		return fallback
	}

	if len(tokens) == 2 {
		return domain.ParsedIngredient{Name: tokens[1], Quantity: qty, Unit: domain.DefaultUnit}
	}
	return domain.ParsedIngredient{
		Name:     strings.Join(tokens[2:], " "),
		Quantity: qty,
		Unit:     tokens[1],
	}
}

// parseQuantity accepts decimals and simple fractions like "1/2". NaN and
// infinities are not quantities.
func parseQuantity(token string) (float64, bool) {
	if num, den, found := strings.Cut(token, "/"); found {
		n, err := strconv.ParseFloat(num, 64)
		if err != nil {
			return 0, false
		}
		d, err := strconv.ParseFloat(den, 64)
		if err != nil || d == 0 {
			return 0, false
		}
		return finite(n / d)
	}

	v, err := strconv.ParseFloat(token, 64)
	if err != nil {
		return 0, false
	}
	return finite(v)
}

func finite(v float64) (float64, bool) {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

// matchesName reports whether either name contains the other, ignoring case.
// An empty name never matches.
func matchesName(recordName, ingredientName string) bool {
	a := strings.ToLower(strings.TrimSpace(recordName))
	b := strings.ToLower(strings.TrimSpace(ingredientName))
	if a == "" || b == "" {
		return false
	}
	return strings.Contains(a, b) || strings.Contains(b, a)
}
