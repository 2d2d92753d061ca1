package store

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/pantryledger/pantryledger/internal/domain"
)

type UserStore struct {
	db  *sql.DB
	now func() time.Time
}

func NewUserStore(db *sql.DB) *UserStore {
	return &UserStore{db: db, now: time.Now}
}

func (s *UserStore) Create(ctx context.Context, email, displayName, passwordHash string) (*domain.User, error) {
	existing, err := s.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.Invalid("email already registered")
	}

	id := uuid.NewString()
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO users (id, email, display_name, password_hash, created_at) VALUES (?, ?, ?, ?, ?)
	`, id, strings.TrimSpace(email), displayName, passwordHash, s.now().UTC())
	if err != nil {
		return nil, &domain.StorageError{Op: "create user", Err: err}
	}

	return s.GetByID(ctx, id)
}

func (s *UserStore) GetByID(ctx context.Context, id string) (*domain.User, error) {
	return s.get(ctx, `SELECT id, email, display_name, password_hash, created_at FROM users WHERE id = ?`, id)
}

// GetByEmail looks the user up case-insensitively.
func (s *UserStore) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return s.get(ctx, `SELECT id, email, display_name, password_hash, created_at FROM users WHERE email = ?`, strings.TrimSpace(email))
}

func (s *UserStore) get(ctx context.Context, query string, arg any) (*domain.User, error) {
	user := &domain.User{}
	err := s.db.QueryRowContext(ctx, query, arg).
		Scan(&user.ID, &user.Email, &user.DisplayName, &user.PasswordHash, &user.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, &domain.StorageError{Op: "get user", Err: err}
	}
	return user, nil
}
