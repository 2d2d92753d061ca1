package store

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/pantryledger/pantryledger/internal/domain"
)

const pantryColumns = `id, owner_id, name, quantity, unit, category, added_at, expires_at, version`

type PantryStore struct {
	db  *sql.DB
	now func() time.Time
}

func NewPantryStore(db *sql.DB) *PantryStore {
	return &PantryStore{db: db, now: time.Now}
}

// Add validates and inserts a new record. ID, AddedAt and Version are
// assigned here; blank unit and category fall back to their defaults.
func (s *PantryStore) Add(ctx context.Context, in *domain.PantryItem) (*domain.PantryItem, error) {
	item := *in
	if strings.TrimSpace(item.OwnerID) == "" {
		return nil, domain.Invalid("owner id is required")
	}
	if err := normalize(&item); err != nil {
		return nil, err
	}

	item.ID = uuid.NewString()
	item.AddedAt = s.now().UTC()
	item.Version = 1

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO pantry_items (id, owner_id, name, quantity, unit, category, added_at, expires_at, version)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, item.ID, item.OwnerID, item.Name, item.Quantity, item.Unit, item.Category, item.AddedAt, nullTime(item.ExpiresAt), item.Version)
	if err != nil {
		return nil, &domain.StorageError{Op: "create pantry item", Err: err}
	}

	return s.GetByID(ctx, item.ID)
}

func (s *PantryStore) GetByID(ctx context.Context, id string) (*domain.PantryItem, error) {
	item, err := scanPantryItem(s.db.QueryRowContext(ctx, `
		SELECT `+pantryColumns+` FROM pantry_items WHERE id = ?
	`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, &domain.StorageError{Op: "get pantry item", Err: err}
	}
	return item, nil
}

func (s *PantryStore) ListByOwner(ctx context.Context, ownerID string) ([]*domain.PantryItem, error) {
	return s.query(ctx, "list pantry items", `
		SELECT `+pantryColumns+` FROM pantry_items
		WHERE owner_id = ? ORDER BY name COLLATE NOCASE ASC, id ASC
	`, ownerID)
}

// Search matches term case-insensitively against name, category and unit.
// A category other than "" or "All" must match exactly.
func (s *PantryStore) Search(ctx context.Context, ownerID, term, category string) ([]*domain.PantryItem, error) {
	query := `SELECT ` + pantryColumns + ` FROM pantry_items WHERE owner_id = ?`
	args := []any{ownerID}

	if term = strings.TrimSpace(term); term != "" {
		query += ` AND (instr(LOWER(name), LOWER(?)) > 0 OR instr(LOWER(category), LOWER(?)) > 0 OR instr(LOWER(unit), LOWER(?)) > 0)`
		args = append(args, term, term, term)
	}
	if category = strings.TrimSpace(category); category != "" && category != domain.AllCategories {
		query += ` AND category = ?`
		args = append(args, category)
	}
	query += ` ORDER BY name COLLATE NOCASE ASC, id ASC`

	return s.query(ctx, "search pantry items", query, args...)
}

// Update overwrites name, quantity, unit, category and expiry of the record
// with item.ID, provided its stored version still equals item.Version.
func (s *PantryStore) Update(ctx context.Context, in *domain.PantryItem) (*domain.PantryItem, error) {
	item := *in
	if err := normalize(&item); err != nil {
		return nil, err
	}

	result, err := s.db.ExecContext(ctx, `
		UPDATE pantry_items
		SET name = ?, quantity = ?, unit = ?, category = ?, expires_at = ?, version = version + 1
		WHERE id = ? AND version = ?
	`, item.Name, item.Quantity, item.Unit, item.Category, nullTime(item.ExpiresAt), item.ID, item.Version)
	if err != nil {
		return nil, &domain.StorageError{Op: "update pantry item", Err: err}
	}

	if err := s.checkVersionedWrite(ctx, result, item.ID); err != nil {
		return nil, err
	}
	return s.GetByID(ctx, item.ID)
}

// Remove deletes the record and reports whether it existed.
func (s *PantryStore) Remove(ctx context.Context, id string) (bool, error) {
	result, err := s.db.ExecContext(ctx, `DELETE FROM pantry_items WHERE id = ?`, id)
	if err != nil {
		return false, &domain.StorageError{Op: "delete pantry item", Err: err}
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, &domain.StorageError{Op: "get rows affected", Err: err}
	}
	return rowsAffected > 0, nil
}

// RemoveVersion deletes the record only if its version still matches.
func (s *PantryStore) RemoveVersion(ctx context.Context, id string, version int64) error {
	result, err := s.db.ExecContext(ctx, `
		DELETE FROM pantry_items WHERE id = ? AND version = ?
	`, id, version)
	if err != nil {
		return &domain.StorageError{Op: "delete pantry item", Err: err}
	}
	return s.checkVersionedWrite(ctx, result, id)
}

// Stats computes the owner's snapshot with a single captured "now".
func (s *PantryStore) Stats(ctx context.Context, ownerID string) (domain.PantryStats, error) {
	items, err := s.ListByOwner(ctx, ownerID)
	if err != nil {
		return domain.PantryStats{}, err
	}
	return domain.ComputeStats(items, s.now()), nil
}

// checkVersionedWrite distinguishes a missing record from a stale version
// when a versioned statement touched no rows.
func (s *PantryStore) checkVersionedWrite(ctx context.Context, result sql.Result, id string) error {
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return &domain.StorageError{Op: "get rows affected", Err: err}
	}
	if rowsAffected > 0 {
		return nil
	}

	current, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if current == nil {
		return domain.NotFound("pantry item", id)
	}
	return domain.ErrConflict
}

func (s *PantryStore) query(ctx context.Context, op, query string, args ...any) ([]*domain.PantryItem, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, &domain.StorageError{Op: op, Err: err}
	}
	defer func() {
		if err := rows.Close(); err != nil {
			slog.Error("failed to close rows", "error", err)
		}
	}()

	items := []*domain.PantryItem{}
	for rows.Next() {
		item, err := scanPantryItem(rows)
		if err != nil {
			return nil, &domain.StorageError{Op: "scan pantry item", Err: err}
		}
		items = append(items, item)
	}

	if err := rows.Err(); err != nil {
		return nil, &domain.StorageError{Op: op, Err: err}
	}

	return items, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPantryItem(row rowScanner) (*domain.PantryItem, error) {
	item := &domain.PantryItem{}
	var expiresAt sql.NullTime
	err := row.Scan(&item.ID, &item.OwnerID, &item.Name, &item.Quantity, &item.Unit,
		&item.Category, &item.AddedAt, &expiresAt, &item.Version)
	if err != nil {
		return nil, err
	}
	if expiresAt.Valid {
		t := expiresAt.Time
		item.ExpiresAt = &t
	}
	return item, nil
}

// normalize enforces the at-rest invariants shared by Add and Update.
func normalize(item *domain.PantryItem) error {
	item.Name = strings.TrimSpace(item.Name)
	if item.Name == "" {
		return domain.Invalid("name is required")
	}
	if math.IsNaN(item.Quantity) || math.IsInf(item.Quantity, 0) || item.Quantity <= 0 {
		return domain.Invalid("quantity must be positive")
	}

	item.Unit = strings.TrimSpace(item.Unit)
	if item.Unit == "" {
		item.Unit = domain.DefaultUnit
	}
	item.Category = strings.TrimSpace(item.Category)
	if item.Category == "" {
		item.Category = domain.DefaultCategory
	}
	if item.ExpiresAt != nil {
		t := item.ExpiresAt.UTC()
		item.ExpiresAt = &t
	}
	return nil
}

func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}
