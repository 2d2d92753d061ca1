package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/pantryledger/pantryledger/internal/domain"
)

const recipeColumns = `id, owner_id, name, description, cuisine, difficulty, prep_minutes, cook_minutes,
	servings, ingredients, instructions, image_url, favorite, created_at`

type RecipeStore struct {
	db  *sql.DB
	now func() time.Time
}

func NewRecipeStore(db *sql.DB) *RecipeStore {
	return &RecipeStore{db: db, now: time.Now}
}

func (s *RecipeStore) Create(ctx context.Context, in *domain.Recipe) (*domain.Recipe, error) {
	recipe := *in
	recipe.ID = uuid.NewString()
	recipe.CreatedAt = s.now().UTC()

	ingredients, err := marshalList(recipe.Ingredients)
	if err != nil {
		return nil, err
	}
	instructions, err := marshalList(recipe.Instructions)
	if err != nil {
		return nil, err
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO recipes (`+recipeColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, recipe.ID, recipe.OwnerID, recipe.Name, recipe.Description, recipe.Cuisine, recipe.Difficulty,
		recipe.PrepMinutes, recipe.CookMinutes, recipe.Servings, ingredients, instructions,
		recipe.ImageURL, recipe.Favorite, recipe.CreatedAt)
	if err != nil {
		return nil, &domain.StorageError{Op: "create recipe", Err: err}
	}

	return s.GetByID(ctx, recipe.ID)
}

func (s *RecipeStore) GetByID(ctx context.Context, id string) (*domain.Recipe, error) {
	recipe, err := scanRecipe(s.db.QueryRowContext(ctx, `SELECT `+recipeColumns+` FROM recipes WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, &domain.StorageError{Op: "get recipe", Err: err}
	}
	return recipe, nil
}

// ListByOwner returns the owner's recipes, newest first.
func (s *RecipeStore) ListByOwner(ctx context.Context, ownerID string) ([]*domain.Recipe, error) {
	return s.list(ctx, `
		SELECT `+recipeColumns+` FROM recipes WHERE owner_id = ? ORDER BY created_at DESC, name ASC
	`, ownerID)
}

func (s *RecipeStore) ListFavorites(ctx context.Context, ownerID string) ([]*domain.Recipe, error) {
	return s.list(ctx, `
		SELECT `+recipeColumns+` FROM recipes WHERE owner_id = ? AND favorite = 1 ORDER BY name ASC
	`, ownerID)
}

func (s *RecipeStore) SetFavorite(ctx context.Context, id string, favorite bool) error {
	return s.exec(ctx, "update recipe favorite", `UPDATE recipes SET favorite = ? WHERE id = ?`, favorite, id)
}

func (s *RecipeStore) SetImageURL(ctx context.Context, id, imageURL string) error {
	return s.exec(ctx, "update recipe image", `UPDATE recipes SET image_url = ? WHERE id = ?`, imageURL, id)
}

func (s *RecipeStore) Delete(ctx context.Context, id string) error {
	return s.exec(ctx, "delete recipe", `DELETE FROM recipes WHERE id = ?`, id)
}

func (s *RecipeStore) exec(ctx context.Context, op, query string, args ...any) error {
	result, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return &domain.StorageError{Op: op, Err: err}
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return &domain.StorageError{Op: "get rows affected", Err: err}
	}
	if rowsAffected == 0 {
		return domain.NotFound("recipe", fmt.Sprint(args[len(args)-1]))
	}
	return nil
}

func (s *RecipeStore) list(ctx context.Context, query string, args ...any) ([]*domain.Recipe, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, &domain.StorageError{Op: "list recipes", Err: err}
	}
	defer func() {
		if err := rows.Close(); err != nil {
			slog.Error("failed to close rows", "error", err)
		}
	}()

	recipes := []*domain.Recipe{}
	for rows.Next() {
		recipe, err := scanRecipe(rows)
		if err != nil {
			return nil, &domain.StorageError{Op: "scan recipe", Err: err}
		}
		recipes = append(recipes, recipe)
	}

	if err := rows.Err(); err != nil {
		return nil, &domain.StorageError{Op: "list recipes", Err: err}
	}

	return recipes, nil
}

func scanRecipe(row rowScanner) (*domain.Recipe, error) {
	recipe := &domain.Recipe{}
	var ingredients, instructions string
	err := row.Scan(&recipe.ID, &recipe.OwnerID, &recipe.Name, &recipe.Description, &recipe.Cuisine,
		&recipe.Difficulty, &recipe.PrepMinutes, &recipe.CookMinutes, &recipe.Servings,
		&ingredients, &instructions, &recipe.ImageURL, &recipe.Favorite, &recipe.CreatedAt)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(ingredients), &recipe.Ingredients); err != nil {
		return nil, fmt.Errorf("failed to decode ingredients: %w", err)
	}
	if err := json.Unmarshal([]byte(instructions), &recipe.Instructions); err != nil {
		return nil, fmt.Errorf("failed to decode instructions: %w", err)
	}
	return recipe, nil
}

func marshalList[T any](list []T) (string, error) {
	if list == nil {
		list = []T{}
	}
	data, err := json.Marshal(list)
	if err != nil {
		return "", fmt.Errorf("failed to encode list: %w", err)
	}
	return string(data), nil
}
