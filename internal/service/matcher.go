package service

import (
	"context"
	"math"
	"strings"

	"github.com/pantryledger/pantryledger/internal/domain"
)

// MatchAndConsume resolves each ingredient line against the owner's pantry
// and takes what it can from the first matching record. Lines are handled in
// order and each sees what earlier lines already used up. Unmatched lines are
// reported by parsed name; blank lines are skipped.
func (s *PantryService) MatchAndConsume(ctx context.Context, ownerID string, lines []string) (*domain.MatchResult, error) {
	if err := requireOwner(ownerID); err != nil {
		return nil, err
	}
	owner, err := s.users.GetByID(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	if owner == nil {
		return nil, domain.NotFound("owner", ownerID)
	}

	items, err := s.pantry.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	result := &domain.MatchResult{
		Consumed:  []domain.ConsumedIngredient{},
		Unmatched: []string{},
	}

	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		parsed := ParseIngredientLine(line)

		idx := findMatch(items, parsed.Name)
		if idx < 0 {
			result.Unmatched = append(result.Unmatched, parsed.Name)
			continue
		}

		record := items[idx]
		// A zero or negative amount matches but takes nothing.
		if parsed.Quantity <= 0 {
			result.Consumed = append(result.Consumed, domain.ConsumedIngredient{
				ID:   record.ID,
				Name: record.Name,
				Unit: record.Unit,
			})
			continue
		}
		outcome, err := s.ConsumeUpTo(ctx, ownerID, record.ID, math.Min(parsed.Quantity, record.Quantity))
		if domain.IsNotFound(err) {
			// Removed by another writer since the list was read.
			items = append(items[:idx], items[idx+1:]...)
			result.Unmatched = append(result.Unmatched, parsed.Name)
			continue
		}
		if err != nil {
			return nil, err
		}

		result.Consumed = append(result.Consumed, domain.ConsumedIngredient{
			ID:             record.ID,
			Name:           record.Name,
			ConsumedAmount: outcome.Consumed,
			Unit:           record.Unit,
		})

		if outcome.Remaining != nil {
			items[idx] = outcome.Remaining
		} else {
			items = append(items[:idx], items[idx+1:]...)
		}
	}

	s.logger.Info("ingredients matched", "owner_id", ownerID,
		"consumed", len(result.Consumed), "unmatched", len(result.Unmatched))
	return result, nil
}

// findMatch returns the index of the first record whose name matches, in
// list order, or -1.
func findMatch(items []*domain.PantryItem, name string) int {
	for i, item := range items {
		if matchesName(item.Name, name) {
			return i
		}
	}
	return -1
}
