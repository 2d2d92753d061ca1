package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/pantryledger/pantryledger/internal/domain"
	"github.com/pantryledger/pantryledger/internal/imagegen"
	"github.com/pantryledger/pantryledger/internal/recipegen"
)

var (
	// ErrImagesDisabled is returned by GenerateImage when no image backend is configured.
	ErrImagesDisabled = errors.New("image generation is not configured")

	// ErrUpstream wraps failures of the text or image generation backends.
	ErrUpstream = errors.New("generation backend failed")
)

// recipeRepository is the subset of store.RecipeStore that RecipeService requires.
type recipeRepository interface {
	Create(ctx context.Context, recipe *domain.Recipe) (*domain.Recipe, error)
	GetByID(ctx context.Context, id string) (*domain.Recipe, error)
	ListByOwner(ctx context.Context, ownerID string) ([]*domain.Recipe, error)
	ListFavorites(ctx context.Context, ownerID string) ([]*domain.Recipe, error)
	SetFavorite(ctx context.Context, id string, favorite bool) error
	SetImageURL(ctx context.Context, id, imageURL string) error
	Delete(ctx context.Context, id string) error
}

// sessionRepository is the subset of store.SessionStore that RecipeService requires.
type sessionRepository interface {
	Create(ctx context.Context, ownerID, recipeID string, result *domain.MatchResult) (*domain.CookingSession, error)
	ListByOwner(ctx context.Context, ownerID string) ([]*domain.CookingSession, error)
}

// GenerateRequest holds the optional filters for recipe generation. Empty
// Ingredients means "use what is in the pantry".
type GenerateRequest struct {
	Ingredients []string
	Cuisine     string
	Difficulty  string
	Count       int
}

type RecipeService struct {
	recipes  recipeRepository
	sessions sessionRepository
	pantry   *PantryService
	text     recipegen.Generator
	images   imagegen.Generator
	logger   *slog.Logger
}

// NewRecipeService wires the recipe workflow. images may be nil, in which
// case GenerateImage returns ErrImagesDisabled.
func NewRecipeService(
	recipes recipeRepository,
	sessions sessionRepository,
	pantry *PantryService,
	text recipegen.Generator,
	images imagegen.Generator,
	logger *slog.Logger,
) *RecipeService {
	return &RecipeService{
		recipes:  recipes,
		sessions: sessions,
		pantry:   pantry,
		text:     text,
		images:   images,
		logger:   logger,
	}
}

// Generate asks the text backend for recipes and stores every one of them
// for the owner.
func (s *RecipeService) Generate(ctx context.Context, ownerID string, req GenerateRequest) ([]*domain.Recipe, error) {
	if err := requireOwner(ownerID); err != nil {
		return nil, err
	}

	ingredients := req.Ingredients
	if len(ingredients) == 0 {
		items, err := s.pantry.List(ctx, ownerID)
		if err != nil {
			return nil, err
		}
		for _, item := range items {
			ingredients = append(ingredients, item.Name)
		}
	}
	if len(ingredients) == 0 {
		return nil, domain.Invalid("no ingredients given and the pantry is empty")
	}

	s.logger.Info("recipe generation started", "owner_id", ownerID, "ingredients", len(ingredients))
	generated, err := s.text.Generate(ctx, recipegen.Request{
		Ingredients: ingredients,
		Cuisine:     req.Cuisine,
		Difficulty:  req.Difficulty,
		Count:       req.Count,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: failed to generate recipes: %w", ErrUpstream, err)
	}

	stored := make([]*domain.Recipe, 0, len(generated))
	for _, g := range generated {
		recipe, err := s.recipes.Create(ctx, &domain.Recipe{
			OwnerID:      ownerID,
			Name:         g.Name,
			Description:  g.Description,
			Cuisine:      g.Cuisine,
			Difficulty:   g.Difficulty,
			PrepMinutes:  g.PrepMinutes,
			CookMinutes:  g.CookMinutes,
			Servings:     g.Servings,
			Ingredients:  g.Ingredients,
			Instructions: g.Instructions,
		})
		if err != nil {
			return nil, err
		}
		stored = append(stored, recipe)
	}

	s.logger.Info("recipe generation complete", "owner_id", ownerID, "recipes", len(stored))
	return stored, nil
}

func (s *RecipeService) List(ctx context.Context, ownerID string) ([]*domain.Recipe, error) {
	if err := requireOwner(ownerID); err != nil {
		return nil, err
	}
	return s.recipes.ListByOwner(ctx, ownerID)
}

func (s *RecipeService) ListFavorites(ctx context.Context, ownerID string) ([]*domain.Recipe, error) {
	if err := requireOwner(ownerID); err != nil {
		return nil, err
	}
	return s.recipes.ListFavorites(ctx, ownerID)
}

func (s *RecipeService) Get(ctx context.Context, ownerID, id string) (*domain.Recipe, error) {
	if err := requireOwner(ownerID); err != nil {
		return nil, err
	}
	recipe, err := s.recipes.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if recipe == nil || recipe.OwnerID != ownerID {
		return nil, domain.NotFound("recipe", id)
	}
	return recipe, nil
}

func (s *RecipeService) Delete(ctx context.Context, ownerID, id string) error {
	if _, err := s.Get(ctx, ownerID, id); err != nil {
		return err
	}
	return s.recipes.Delete(ctx, id)
}

func (s *RecipeService) SetFavorite(ctx context.Context, ownerID, id string, favorite bool) (*domain.Recipe, error) {
	recipe, err := s.Get(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}
	if err := s.recipes.SetFavorite(ctx, id, favorite); err != nil {
		return nil, err
	}
	recipe.Favorite = favorite
	return recipe, nil
}

// GenerateImage fetches an image URL for the recipe and stores it on the record.
func (s *RecipeService) GenerateImage(ctx context.Context, ownerID, id string) (*domain.Recipe, error) {
	if s.images == nil {
		return nil, ErrImagesDisabled
	}
	recipe, err := s.Get(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}

	url, err := s.images.Generate(ctx, imagegen.Prompt{
		Name:        recipe.Name,
		Description: recipe.Description,
		Cuisine:     recipe.Cuisine,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: failed to generate image: %w", ErrUpstream, err)
	}

	if err := s.recipes.SetImageURL(ctx, id, url); err != nil {
		return nil, err
	}
	recipe.ImageURL = url
	s.logger.Debug("recipe image generated", "recipe_id", id)
	return recipe, nil
}

// Cook takes the recipe's ingredients out of the pantry and records the
// session, including the lines nothing in the pantry matched.
func (s *RecipeService) Cook(ctx context.Context, ownerID, id string) (*domain.CookingSession, error) {
	recipe, err := s.Get(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}

	result, err := s.pantry.MatchAndConsume(ctx, ownerID, recipe.Ingredients)
	if err != nil {
		return nil, err
	}

	session, err := s.sessions.Create(ctx, ownerID, recipe.ID, result)
	if err != nil {
		return nil, err
	}
	s.logger.Info("recipe cooked", "owner_id", ownerID, "recipe_id", recipe.ID,
		"consumed", len(result.Consumed), "unmatched", len(result.Unmatched))
	return session, nil
}

func (s *RecipeService) ListSessions(ctx context.Context, ownerID string) ([]*domain.CookingSession, error) {
	if err := requireOwner(ownerID); err != nil {
		return nil, err
	}
	return s.sessions.ListByOwner(ctx, ownerID)
}
