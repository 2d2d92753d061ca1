package recipegen

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// DefaultCount is the number of recipes requested when Request.Count is unset.
const DefaultCount = 3

type Generator interface {
	Generate(ctx context.Context, req Request) ([]GeneratedRecipe, error)
}

type Request struct {
	Ingredients []string
	Cuisine     string
	Difficulty  string
	Count       int
}

// GeneratedRecipe is one recipe as returned by the model, after validation.
type GeneratedRecipe struct {
	Name         string   `json:"name" validate:"required"`
	Description  string   `json:"description"`
	Cuisine      string   `json:"cuisine"`
	Difficulty   string   `json:"difficulty" validate:"omitempty,oneof=easy medium hard"`
	PrepMinutes  int      `json:"prep_minutes" validate:"gte=0"`
	CookMinutes  int      `json:"cook_minutes" validate:"gte=0"`
	Servings     int      `json:"servings" validate:"gte=1"`
	Ingredients  []string `json:"ingredients" validate:"required,min=1,dive,required"`
	Instructions []string `json:"instructions" validate:"required,min=1,dive,required"`
}

// ParseError reports a model response that could not be turned into recipes.
type ParseError struct {
	Reason string
	Err    error
}

func (e *ParseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("invalid recipe response: %s: %v", e.Reason, e.Err)
	}
	return "invalid recipe response: " + e.Reason
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// BuildPrompt renders the shared prompt used by all adapters.
func BuildPrompt(req Request) string {
	count := req.Count
	if count <= 0 {
		count = DefaultCount
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Suggest %d recipes that can be cooked mainly with these ingredients: %s.\n",
		count, strings.Join(req.Ingredients, ", "))
	if c := strings.TrimSpace(req.Cuisine); c != "" {
		fmt.Fprintf(&b, "Cuisine: %s.\n", c)
	}
	if d := strings.TrimSpace(req.Difficulty); d != "" {
		fmt.Fprintf(&b, "Difficulty: %s.\n", strings.ToLower(d))
	}
	b.WriteString(`Respond with only a JSON array. Each element must have the fields
name, description, cuisine, difficulty (easy, medium or hard), prep_minutes,
cook_minutes, servings, ingredients and instructions. Write each ingredient as
one line starting with the amount and unit, for example "2 cups flour".`)
	return b.String()
}

// ParseRecipes extracts the JSON array from raw model output and validates
// every element. Any malformed element fails the whole response.
func ParseRecipes(raw string) ([]GeneratedRecipe, error) {
	start := strings.Index(raw, "[")
	end := strings.LastIndex(raw, "]")
	if start < 0 || end < start {
		return nil, &ParseError{Reason: "no JSON array in response"}
	}

	var recipes []GeneratedRecipe
	if err := json.Unmarshal([]byte(raw[start:end+1]), &recipes); err != nil {
		return nil, &ParseError{Reason: "malformed JSON", Err: err}
	}
	if len(recipes) == 0 {
		return nil, &ParseError{Reason: "empty recipe list"}
	}

	for i := range recipes {
		recipes[i].Difficulty = strings.ToLower(strings.TrimSpace(recipes[i].Difficulty))
		if err := validate.Struct(recipes[i]); err != nil {
			return nil, &ParseError{Reason: fmt.Sprintf("recipe %d", i), Err: err}
		}
	}
	return recipes, nil
}
