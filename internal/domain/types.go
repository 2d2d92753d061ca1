package domain

import "time"

const (
	DefaultUnit     = "piece"
	DefaultCategory = "Other"

	// AllCategories is the search sentinel meaning "no category filter".
	AllCategories = "All"
)

type User struct {
	ID           string
	Email        string
	DisplayName  string
	PasswordHash string
	CreatedAt    time.Time
}

// PantryItem is one owner-scoped pantry record. Quantity is always > 0 at
// rest; a record that would reach zero is deleted instead.
type PantryItem struct {
	ID        string
	OwnerID   string
	Name      string
	Quantity  float64
	Unit      string
	Category  string
	AddedAt   time.Time
	ExpiresAt *time.Time
	Version   int64
}

// PantryPatch carries the optional fields of a partial update. Nil fields
// (and blank strings) leave the stored value untouched.
type PantryPatch struct {
	Name        *string
	Quantity    *float64
	Unit        *string
	Category    *string
	ExpiresAt   *time.Time
	ClearExpiry bool
}

type PantryStats struct {
	TotalItems    int     `json:"total_items"`
	TotalQuantity float64 `json:"total_quantity"`
	Categories    int     `json:"categories"`
	ExpiringItems int     `json:"expiring_items"`
	ExpiredItems  int     `json:"expired_items"`
	RecentlyAdded int     `json:"recently_added"`
}

// ConsumeResult is either the remaining record or the name of the record
// that was removed because it was used up. Consumed is the amount taken.
type ConsumeResult struct {
	Remaining *PantryItem
	Removed   string
	Consumed  float64
}

type ParsedIngredient struct {
	Name     string
	Quantity float64
	Unit     string
}

type ConsumedIngredient struct {
	ID             string  `json:"id"`
	Name           string  `json:"name"`
	ConsumedAmount float64 `json:"consumed_amount"`
	Unit           string  `json:"unit"`
}

type MatchResult struct {
	Consumed  []ConsumedIngredient `json:"consumed"`
	Unmatched []string             `json:"unmatched"`
}

type Recipe struct {
	ID           string
	OwnerID      string
	Name         string
	Description  string
	Cuisine      string
	Difficulty   string
	PrepMinutes  int
	CookMinutes  int
	Servings     int
	Ingredients  []string
	Instructions []string
	ImageURL     string
	Favorite     bool
	CreatedAt    time.Time
}

type CookingSession struct {
	ID        string
	OwnerID   string
	RecipeID  string
	CookedAt  time.Time
	Consumed  []ConsumedIngredient
	Unmatched []string
}
