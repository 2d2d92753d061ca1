package web

import (
	"strings"
	"time"

	"github.com/pantryledger/pantryledger/internal/domain"
)

// dateLayout is the short form accepted for expiry dates alongside RFC 3339.
const dateLayout = "2006-01-02"

type userResponse struct {
	ID          string    `json:"id"`
	Email       string    `json:"email"`
	DisplayName string    `json:"display_name"`
	CreatedAt   time.Time `json:"created_at"`
}

func toUserResponse(u *domain.User) userResponse {
	return userResponse{
		ID:          u.ID,
		Email:       u.Email,
		DisplayName: u.DisplayName,
		CreatedAt:   u.CreatedAt,
	}
}

type pantryItemResponse struct {
	ID        string     `json:"id"`
	Name      string     `json:"name"`
	Quantity  float64    `json:"quantity"`
	Unit      string     `json:"unit"`
	Category  string     `json:"category"`
	AddedAt   time.Time  `json:"added_at"`
	ExpiresAt *time.Time `json:"expires_at,omitempty"`
	Version   int64      `json:"version"`
}

func toPantryItemResponse(item *domain.PantryItem) pantryItemResponse {
	return pantryItemResponse{
		ID:        item.ID,
		Name:      item.Name,
		Quantity:  item.Quantity,
		Unit:      item.Unit,
		Category:  item.Category,
		AddedAt:   item.AddedAt,
		ExpiresAt: item.ExpiresAt,
		Version:   item.Version,
	}
}

func toPantryItemResponses(items []*domain.PantryItem) []pantryItemResponse {
	out := make([]pantryItemResponse, 0, len(items))
	for _, item := range items {
		out = append(out, toPantryItemResponse(item))
	}
	return out
}

type consumeResponse struct {
	Item     *pantryItemResponse `json:"item,omitempty"`
	Removed  string              `json:"removed,omitempty"`
	Consumed float64             `json:"consumed"`
}

func toConsumeResponse(result *domain.ConsumeResult) consumeResponse {
	resp := consumeResponse{Removed: result.Removed, Consumed: result.Consumed}
	if result.Remaining != nil {
		item := toPantryItemResponse(result.Remaining)
		resp.Item = &item
	}
	return resp
}

type recipeResponse struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Description  string    `json:"description"`
	Cuisine      string    `json:"cuisine"`
	Difficulty   string    `json:"difficulty"`
	PrepMinutes  int       `json:"prep_minutes"`
	CookMinutes  int       `json:"cook_minutes"`
	Servings     int       `json:"servings"`
	Ingredients  []string  `json:"ingredients"`
	Instructions []string  `json:"instructions"`
	ImageURL     string    `json:"image_url,omitempty"`
	Favorite     bool      `json:"favorite"`
	CreatedAt    time.Time `json:"created_at"`
}

func toRecipeResponse(r *domain.Recipe) recipeResponse {
	return recipeResponse{
		ID:           r.ID,
		Name:         r.Name,
		Description:  r.Description,
		Cuisine:      r.Cuisine,
		Difficulty:   r.Difficulty,
		PrepMinutes:  r.PrepMinutes,
		CookMinutes:  r.CookMinutes,
		Servings:     r.Servings,
		Ingredients:  r.Ingredients,
		Instructions: r.Instructions,
		ImageURL:     r.ImageURL,
		Favorite:     r.Favorite,
		CreatedAt:    r.CreatedAt,
	}
}

func toRecipeResponses(recipes []*domain.Recipe) []recipeResponse {
	out := make([]recipeResponse, 0, len(recipes))
	for _, r := range recipes {
		out = append(out, toRecipeResponse(r))
	}
	return out
}

type sessionResponse struct {
	ID        string                      `json:"id"`
	RecipeID  string                      `json:"recipe_id,omitempty"`
	CookedAt  time.Time                   `json:"cooked_at"`
	Consumed  []domain.ConsumedIngredient `json:"consumed"`
	Unmatched []string                    `json:"unmatched"`
}

func toSessionResponse(cs *domain.CookingSession) sessionResponse {
	resp := sessionResponse{
		ID:        cs.ID,
		RecipeID:  cs.RecipeID,
		CookedAt:  cs.CookedAt,
		Consumed:  cs.Consumed,
		Unmatched: cs.Unmatched,
	}
	if resp.Consumed == nil {
		resp.Consumed = []domain.ConsumedIngredient{}
	}
	if resp.Unmatched == nil {
		resp.Unmatched = []string{}
	}
	return resp
}

// parseExpiry accepts either a bare date or a full RFC 3339 timestamp. A
// blank value means "no expiry".
func parseExpiry(value string) (*time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil, nil
	}
	if t, err := time.Parse(dateLayout, value); err == nil {
		return &t, nil
	}
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return nil, domain.Invalid("expires_at must be a date (YYYY-MM-DD) or RFC 3339 timestamp")
	}
	return &t, nil
}
