package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/pantryledger/pantryledger/internal/domain"
)

// SessionStore records each time an owner cooks a recipe and what it used up.
type SessionStore struct {
	db  *sql.DB
	now func() time.Time
}

func NewSessionStore(db *sql.DB) *SessionStore {
	return &SessionStore{db: db, now: time.Now}
}

func (s *SessionStore) Create(ctx context.Context, ownerID, recipeID string, result *domain.MatchResult) (*domain.CookingSession, error) {
	session := &domain.CookingSession{
		ID:        uuid.NewString(),
		OwnerID:   ownerID,
		RecipeID:  recipeID,
		CookedAt:  s.now().UTC(),
		Consumed:  result.Consumed,
		Unmatched: result.Unmatched,
	}

	consumed, err := marshalList(session.Consumed)
	if err != nil {
		return nil, err
	}
	unmatched, err := marshalList(session.Unmatched)
	if err != nil {
		return nil, err
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO cooking_sessions (id, owner_id, recipe_id, cooked_at, consumed, unmatched)
		VALUES (?, ?, ?, ?, ?, ?)
	`, session.ID, ownerID, sql.NullString{String: recipeID, Valid: recipeID != ""}, session.CookedAt, consumed, unmatched)
	if err != nil {
		return nil, &domain.StorageError{Op: "create cooking session", Err: err}
	}

	return session, nil
}

// ListByOwner returns the owner's sessions, most recent first.
func (s *SessionStore) ListByOwner(ctx context.Context, ownerID string) ([]*domain.CookingSession, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, owner_id, recipe_id, cooked_at, consumed, unmatched FROM cooking_sessions
		WHERE owner_id = ? ORDER BY cooked_at DESC
	`, ownerID)
	if err != nil {
		return nil, &domain.StorageError{Op: "list cooking sessions", Err: err}
	}
	defer func() {
		if err := rows.Close(); err != nil {
			slog.Error("failed to close rows", "error", err)
		}
	}()

	sessions := []*domain.CookingSession{}
	for rows.Next() {
		session := &domain.CookingSession{}
		var recipeID sql.NullString
		var consumed, unmatched string
		if err := rows.Scan(&session.ID, &session.OwnerID, &recipeID, &session.CookedAt, &consumed, &unmatched); err != nil {
			return nil, &domain.StorageError{Op: "scan cooking session", Err: err}
		}
		session.RecipeID = recipeID.String
		if err := json.Unmarshal([]byte(consumed), &session.Consumed); err != nil {
			return nil, fmt.Errorf("failed to decode consumed ingredients: %w", err)
		}
		if err := json.Unmarshal([]byte(unmatched), &session.Unmatched); err != nil {
			return nil, fmt.Errorf("failed to decode unmatched ingredients: %w", err)
		}
		sessions = append(sessions, session)
	}

	if err := rows.Err(); err != nil {
		return nil, &domain.StorageError{Op: "list cooking sessions", Err: err}
	}

	return sessions, nil
}
