package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/pantryledger/pantryledger/internal/auth"
	"github.com/pantryledger/pantryledger/internal/domain"
)

// ErrInvalidCredentials is returned by Login for an unknown email or a wrong
// password. Callers cannot tell the two cases apart.
var ErrInvalidCredentials = errors.New("invalid credentials")

// userRepository is the subset of store.UserStore that AuthService requires.
type userRepository interface {
	Create(ctx context.Context, email, displayName, passwordHash string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByID(ctx context.Context, id string) (*domain.User, error)
}

type tokenIssuer interface {
	Issue(userID, email string) (string, time.Time, error)
}

// Session is the result of a successful login.
type Session struct {
	Token     string
	ExpiresAt time.Time
	User      *domain.User
}

type AuthService struct {
	users  userRepository
	tokens tokenIssuer
	logger *slog.Logger
}

func NewAuthService(users userRepository, tokens tokenIssuer, logger *slog.Logger) *AuthService {
	return &AuthService{users: users, tokens: tokens, logger: logger}
}

func (s *AuthService) Register(ctx context.Context, email, password, displayName string) (*domain.User, error) {
	email = strings.TrimSpace(email)
	displayName = strings.TrimSpace(displayName)
	if email == "" {
		return nil, domain.Invalid("email is required")
	}
	if len(password) < auth.MinPasswordLength {
		return nil, domain.Invalid("password must be at least %d characters", auth.MinPasswordLength)
	}
	if displayName == "" {
		displayName = email
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, err
	}

	user, err := s.users.Create(ctx, email, displayName, hash)
	if err != nil {
		return nil, err
	}
	s.logger.Info("user registered", "user_id", user.ID)
	return user, nil
}

func (s *AuthService) Login(ctx context.Context, email, password string) (*Session, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if user == nil || !auth.CheckPassword(user.PasswordHash, password) {
		s.logger.Warn("login failed", "email", email)
		return nil, ErrInvalidCredentials
	}

	token, expires, err := s.tokens.Issue(user.ID, user.Email)
	if err != nil {
		return nil, err
	}
	s.logger.Info("user logged in", "user_id", user.ID)
	return &Session{Token: token, ExpiresAt: expires, User: user}, nil
}

// Profile returns the user behind an authenticated owner id.
func (s *AuthService) Profile(ctx context.Context, userID string) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.NotFound("user", userID)
	}
	return user, nil
}
