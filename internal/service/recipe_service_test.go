package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pantryledger/pantryledger/internal/domain"
	"github.com/pantryledger/pantryledger/internal/recipegen"
	"github.com/pantryledger/pantryledger/internal/store"
)

var soup = recipegen.GeneratedRecipe{
	Name:         "Tomato Soup",
	Description:  "Warm and simple",
	Cuisine:      "Italian",
	Difficulty:   "easy",
	PrepMinutes:  5,
	CookMinutes:  20,
	Servings:     2,
	Ingredients:  []string{"3 Tomatoes", "1 cup stock", "Salt to taste"},
	Instructions: []string{"Simmer", "Blend"},
}

func TestRecipeServiceGenerate_UsesPantryByDefault(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	owner := env.owner(t, "cook@example.com")
	env.add(t, owner, "Tomatoes", 5, "")
	env.add(t, owner, "Basil", 1, "bunch")
	env.text.recipes = []recipegen.GeneratedRecipe{soup}

	recipes, err := env.recipes.Generate(ctx, owner, GenerateRequest{Cuisine: "Italian"})
	require.NoError(t, err)
	require.Len(t, recipes, 1)
	assert.NotEmpty(t, recipes[0].ID)
	assert.Equal(t, owner, recipes[0].OwnerID)
	assert.Equal(t, soup.Ingredients, recipes[0].Ingredients)

	assert.ElementsMatch(t, []string{"Tomatoes", "Basil"}, env.text.lastReq.Ingredients)
	assert.Equal(t, "Italian", env.text.lastReq.Cuisine)

	list, err := env.recipes.List(ctx, owner)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestRecipeServiceGenerate_ExplicitIngredients(t *testing.T) {
	env := newTestEnv(t)
	owner := env.owner(t, "cook@example.com")
	env.text.recipes = []recipegen.GeneratedRecipe{soup}

	_, err := env.recipes.Generate(context.Background(), owner, GenerateRequest{Ingredients: []string{"leeks"}})
	require.NoError(t, err)
	assert.Equal(t, []string{"leeks"}, env.text.lastReq.Ingredients)
}

func TestRecipeServiceGenerate_EmptyPantry(t *testing.T) {
	env := newTestEnv(t)
	owner := env.owner(t, "cook@example.com")

	_, err := env.recipes.Generate(context.Background(), owner, GenerateRequest{})
	assert.True(t, domain.IsValidation(err))
}

func TestRecipeServiceGenerate_BackendError(t *testing.T) {
	env := newTestEnv(t)
	owner := env.owner(t, "cook@example.com")
	env.text.err = &recipegen.ParseError{Reason: "no JSON array in response"}

	_, err := env.recipes.Generate(context.Background(), owner, GenerateRequest{Ingredients: []string{"rice"}})
	var parseErr *recipegen.ParseError
	assert.True(t, errors.As(err, &parseErr))
	assert.ErrorIs(t, err, ErrUpstream)

	list, err := env.recipes.List(context.Background(), owner)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func generateOne(t *testing.T, env *testEnv, owner string) *domain.Recipe {
	t.Helper()
	env.text.recipes = []recipegen.GeneratedRecipe{soup}
	recipes, err := env.recipes.Generate(context.Background(), owner, GenerateRequest{Ingredients: []string{"tomatoes"}})
	require.NoError(t, err)
	return recipes[0]
}

func TestRecipeService_OwnerScoping(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice := env.owner(t, "alice@example.com")
	bob := env.owner(t, "bob@example.com")
	recipe := generateOne(t, env, alice)

	_, err := env.recipes.Get(ctx, bob, recipe.ID)
	assert.True(t, domain.IsNotFound(err))
	_, err = env.recipes.Cook(ctx, bob, recipe.ID)
	assert.True(t, domain.IsNotFound(err))
	assert.True(t, domain.IsNotFound(env.recipes.Delete(ctx, bob, recipe.ID)))
}

func TestRecipeServiceFavorites(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	owner := env.owner(t, "cook@example.com")
	recipe := generateOne(t, env, owner)

	updated, err := env.recipes.SetFavorite(ctx, owner, recipe.ID, true)
	require.NoError(t, err)
	assert.True(t, updated.Favorite)

	favorites, err := env.recipes.ListFavorites(ctx, owner)
	require.NoError(t, err)
	require.Len(t, favorites, 1)
	assert.Equal(t, recipe.ID, favorites[0].ID)
}

func TestRecipeServiceDelete(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	owner := env.owner(t, "cook@example.com")
	recipe := generateOne(t, env, owner)

	require.NoError(t, env.recipes.Delete(ctx, owner, recipe.ID))
	_, err := env.recipes.Get(ctx, owner, recipe.ID)
	assert.True(t, domain.IsNotFound(err))
}

func TestRecipeServiceGenerateImage(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	owner := env.owner(t, "cook@example.com")
	recipe := generateOne(t, env, owner)

	updated, err := env.recipes.GenerateImage(ctx, owner, recipe.ID)
	require.NoError(t, err)
	assert.Equal(t, "https://img.example.com/dish.png", updated.ImageURL)

	stored, err := env.recipes.Get(ctx, owner, recipe.ID)
	require.NoError(t, err)
	assert.Equal(t, "https://img.example.com/dish.png", stored.ImageURL)
}

func TestRecipeServiceGenerateImage_Disabled(t *testing.T) {
	env := newTestEnv(t)
	owner := env.owner(t, "cook@example.com")
	recipe := generateOne(t, env, owner)

	svc := NewRecipeService(nil, nil, env.pantry, env.text, nil, discardLogger())
	_, err := svc.GenerateImage(context.Background(), owner, recipe.ID)
	assert.ErrorIs(t, err, ErrImagesDisabled)
}

func TestRecipeServiceCook(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	owner := env.owner(t, "cook@example.com")
	tomatoes := env.add(t, owner, "Tomatoes", 5, "")
	recipe := generateOne(t, env, owner)

	session, err := env.recipes.Cook(ctx, owner, recipe.ID)
	require.NoError(t, err)
	assert.Equal(t, recipe.ID, session.RecipeID)
	require.Len(t, session.Consumed, 1)
	assert.Equal(t, tomatoes.ID, session.Consumed[0].ID)
	assert.InDelta(t, 3.0, session.Consumed[0].ConsumedAmount, 1e-9)
	assert.Equal(t, []string{"stock", "Salt to taste"}, session.Unmatched)

	stored, err := env.pantryStore.GetByID(ctx, tomatoes.ID)
	require.NoError(t, err)
	assert.InDelta(t, 2.0, stored.Quantity, 1e-9)

	sessions, err := env.recipes.ListSessions(ctx, owner)
	require.NoError(t, err)
	require.Len(t, sessions, 1)
	assert.Equal(t, session.ID, sessions[0].ID)
}

// Guard against store drift: the service interfaces must stay satisfied by the real stores.
var (
	_ pantryRepository  = (*store.PantryStore)(nil)
	_ userLookup        = (*store.UserStore)(nil)
	_ userRepository    = (*store.UserStore)(nil)
	_ recipeRepository  = (*store.RecipeStore)(nil)
	_ sessionRepository = (*store.SessionStore)(nil)
)
