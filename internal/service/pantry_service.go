package service

import (
	"context"
	"errors"
	"log/slog"
	"math"
	"strings"

	"github.com/pantryledger/pantryledger/internal/domain"
)

const (
	// maxWriteAttempts bounds the optimistic retry of read-modify-write
	// sequences that lose a version race.
	maxWriteAttempts = 3

	// quantityEpsilon absorbs float residue when a record is used up.
	quantityEpsilon = 1e-9
)

// pantryRepository is the subset of store.PantryStore that PantryService requires.
type pantryRepository interface {
	Add(ctx context.Context, item *domain.PantryItem) (*domain.PantryItem, error)
	GetByID(ctx context.Context, id string) (*domain.PantryItem, error)
	ListByOwner(ctx context.Context, ownerID string) ([]*domain.PantryItem, error)
	Search(ctx context.Context, ownerID, term, category string) ([]*domain.PantryItem, error)
	Update(ctx context.Context, item *domain.PantryItem) (*domain.PantryItem, error)
	Remove(ctx context.Context, id string) (bool, error)
	RemoveVersion(ctx context.Context, id string, version int64) error
	Stats(ctx context.Context, ownerID string) (domain.PantryStats, error)
}

// userLookup is the subset of store.UserStore needed to confirm an owner exists.
type userLookup interface {
	GetByID(ctx context.Context, id string) (*domain.User, error)
}

type PantryService struct {
	pantry pantryRepository
	users  userLookup
	logger *slog.Logger
}

func NewPantryService(pantry pantryRepository, users userLookup, logger *slog.Logger) *PantryService {
	return &PantryService{pantry: pantry, users: users, logger: logger}
}

func (s *PantryService) List(ctx context.Context, ownerID string) ([]*domain.PantryItem, error) {
	if err := requireOwner(ownerID); err != nil {
		return nil, err
	}
	return s.pantry.ListByOwner(ctx, ownerID)
}

func (s *PantryService) Search(ctx context.Context, ownerID, term, category string) ([]*domain.PantryItem, error) {
	if err := requireOwner(ownerID); err != nil {
		return nil, err
	}
	return s.pantry.Search(ctx, ownerID, term, category)
}

func (s *PantryService) Get(ctx context.Context, ownerID, id string) (*domain.PantryItem, error) {
	return s.owned(ctx, ownerID, id)
}

func (s *PantryService) Add(ctx context.Context, ownerID string, item *domain.PantryItem) (*domain.PantryItem, error) {
	if err := requireOwner(ownerID); err != nil {
		return nil, err
	}
	in := *item
	in.OwnerID = ownerID

	created, err := s.pantry.Add(ctx, &in)
	if err != nil {
		return nil, err
	}
	s.logger.Debug("pantry item added", "owner_id", ownerID, "id", created.ID, "name", created.Name)
	return created, nil
}

// ApplyPatch merges the supplied fields onto the stored record and writes
// the result back as a full overwrite.
func (s *PantryService) ApplyPatch(ctx context.Context, ownerID, id string, patch domain.PantryPatch) (*domain.PantryItem, error) {
	var updated *domain.PantryItem
	err := s.retryOnConflict(ctx, "patch", func() error {
		item, err := s.owned(ctx, ownerID, id)
		if err != nil {
			return err
		}
		merged := mergePatch(*item, patch)
		updated, err = s.pantry.Update(ctx, &merged)
		return err
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (s *PantryService) Remove(ctx context.Context, ownerID, id string) error {
	if _, err := s.owned(ctx, ownerID, id); err != nil {
		return err
	}
	removed, err := s.pantry.Remove(ctx, id)
	if err != nil {
		return err
	}
	if !removed {
		return domain.NotFound("pantry item", id)
	}
	s.logger.Debug("pantry item removed", "owner_id", ownerID, "id", id)
	return nil
}

func (s *PantryService) Stats(ctx context.Context, ownerID string) (domain.PantryStats, error) {
	if err := requireOwner(ownerID); err != nil {
		return domain.PantryStats{}, err
	}
	return s.pantry.Stats(ctx, ownerID)
}

// Consume takes exactly amount from the record. Asking for more than is
// available fails without touching the record.
func (s *PantryService) Consume(ctx context.Context, ownerID, id string, amount float64) (*domain.ConsumeResult, error) {
	return s.consume(ctx, ownerID, id, amount, false)
}

// ConsumeUpTo takes min(amount, available) and never fails for lack of stock.
func (s *PantryService) ConsumeUpTo(ctx context.Context, ownerID, id string, amount float64) (*domain.ConsumeResult, error) {
	return s.consume(ctx, ownerID, id, amount, true)
}

func (s *PantryService) consume(ctx context.Context, ownerID, id string, amount float64, clamp bool) (*domain.ConsumeResult, error) {
	if !(amount > 0) {
		return nil, domain.Invalid("amount must be positive")
	}
	if math.IsInf(amount, 1) {
		return nil, domain.Invalid("amount must be finite")
	}

	var result *domain.ConsumeResult
	err := s.retryOnConflict(ctx, "consume", func() error {
		item, err := s.owned(ctx, ownerID, id)
		if err != nil {
			return err
		}

		// Float residue from earlier decrements must not make "all of it" look
		// like more than is stored.
		if !clamp && amount > item.Quantity+quantityEpsilon {
			return domain.Invalid("cannot consume more than available")
		}
		taken := math.Min(amount, item.Quantity)

		remaining := item.Quantity - taken
		if remaining <= quantityEpsilon {
			if err := s.pantry.RemoveVersion(ctx, item.ID, item.Version); err != nil {
				return err
			}
			result = &domain.ConsumeResult{Removed: item.Name, Consumed: taken}
			return nil
		}

		next := *item
		next.Quantity = remaining
		updated, err := s.pantry.Update(ctx, &next)
		if err != nil {
			return err
		}
		result = &domain.ConsumeResult{Remaining: updated, Consumed: taken}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Debug("pantry item consumed", "owner_id", ownerID, "id", id,
		"amount", result.Consumed, "removed", result.Removed != "")
	return result, nil
}

// owned loads a record and hides records that belong to someone else.
func (s *PantryService) owned(ctx context.Context, ownerID, id string) (*domain.PantryItem, error) {
	if err := requireOwner(ownerID); err != nil {
		return nil, err
	}
	item, err := s.pantry.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if item == nil || item.OwnerID != ownerID {
		return nil, domain.NotFound("pantry item", id)
	}
	return item, nil
}

func (s *PantryService) retryOnConflict(ctx context.Context, op string, fn func() error) error {
	var err error
	for attempt := 1; attempt <= maxWriteAttempts; attempt++ {
		if err = fn(); !errors.Is(err, domain.ErrConflict) {
			return err
		}
		s.logger.Debug("version conflict", "op", op, "attempt", attempt)
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
	}
	return err
}

func mergePatch(item domain.PantryItem, patch domain.PantryPatch) domain.PantryItem {
	if patch.Name != nil && strings.TrimSpace(*patch.Name) != "" {
		item.Name = *patch.Name
	}
	if patch.Quantity != nil {
		item.Quantity = *patch.Quantity
	}
	if patch.Unit != nil && strings.TrimSpace(*patch.Unit) != "" {
		item.Unit = *patch.Unit
	}
	if patch.Category != nil && strings.TrimSpace(*patch.Category) != "" {
		item.Category = *patch.Category
	}
	switch {
	case patch.ClearExpiry:
		item.ExpiresAt = nil
	case patch.ExpiresAt != nil:
		t := *patch.ExpiresAt
		item.ExpiresAt = &t
	}
	return item
}

func requireOwner(ownerID string) error {
	if strings.TrimSpace(ownerID) == "" {
		return domain.Invalid("owner id is required")
	}
	return nil
}
