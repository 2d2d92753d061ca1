package service

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/pantryledger/pantryledger/internal/auth"
	"github.com/pantryledger/pantryledger/internal/db"
	"github.com/pantryledger/pantryledger/internal/domain"
	"github.com/pantryledger/pantryledger/internal/imagegen"
	"github.com/pantryledger/pantryledger/internal/recipegen"
	"github.com/pantryledger/pantryledger/internal/store"
)

// stubRecipes is a minimal recipegen.Generator for tests.
type stubRecipes struct {
	recipes []recipegen.GeneratedRecipe
	err     error
	lastReq recipegen.Request
}

func (s *stubRecipes) Generate(_ context.Context, req recipegen.Request) ([]recipegen.GeneratedRecipe, error) {
	s.lastReq = req
	return s.recipes, s.err
}

// stubImages is a minimal imagegen.Generator for tests.
type stubImages struct {
	url string
	err error
}

func (s *stubImages) Generate(_ context.Context, _ imagegen.Prompt) (string, error) {
	return s.url, s.err
}

type testEnv struct {
	pantryStore *store.PantryStore
	users       *store.UserStore
	pantry      *PantryService
	recipes     *RecipeService
	auth        *AuthService
	text        *stubRecipes
	images      *stubImages
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	d, err := db.OpenForTesting()
	require.NoError(t, err)
	t.Cleanup(func() { _ = d.Close() })

	logger := discardLogger()
	env := &testEnv{
		pantryStore: store.NewPantryStore(d),
		users:       store.NewUserStore(d),
		text:        &stubRecipes{},
		images:      &stubImages{url: "https://img.example.com/dish.png"},
	}
	env.pantry = NewPantryService(env.pantryStore, env.users, logger)
	env.recipes = NewRecipeService(store.NewRecipeStore(d), store.NewSessionStore(d), env.pantry, env.text, env.images, logger)
	env.auth = NewAuthService(env.users, auth.NewIssuer("test-secret", 0), logger)
	return env
}

func (e *testEnv) owner(t *testing.T, email string) string {
	t.Helper()
	user, err := e.users.Create(context.Background(), email, "Cook", "hash")
	require.NoError(t, err)
	return user.ID
}

func (e *testEnv) add(t *testing.T, ownerID, name string, qty float64, unit string) *domain.PantryItem {
	t.Helper()
	item, err := e.pantry.Add(context.Background(), ownerID, &domain.PantryItem{Name: name, Quantity: qty, Unit: unit})
	require.NoError(t, err)
	return item
}
