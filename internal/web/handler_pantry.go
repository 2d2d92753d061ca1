package web

import (
	"net/http"
	"strings"

	"github.com/pantryledger/pantryledger/internal/domain"
)

type addPantryItemRequest struct {
	Name      string  `json:"name" validate:"required"`
	Quantity  float64 `json:"quantity" validate:"gt=0"`
	Unit      string  `json:"unit"`
	Category  string  `json:"category"`
	ExpiresAt string  `json:"expires_at"`
}

// patchPantryItemRequest uses pointers so that absent fields stay untouched.
type patchPantryItemRequest struct {
	Name        *string  `json:"name"`
	Quantity    *float64 `json:"quantity"`
	Unit        *string  `json:"unit"`
	Category    *string  `json:"category"`
	ExpiresAt   *string  `json:"expires_at"`
	ClearExpiry bool     `json:"clear_expiry"`
}

type consumeRequest struct {
	Amount float64 `json:"amount"`
}

type useIngredientsRequest struct {
	Ingredients []string `json:"ingredients" validate:"required"`
}

func (s *Server) handleListPantry(w http.ResponseWriter, r *http.Request) {
	owner := ownerID(r.Context())
	q := strings.TrimSpace(r.URL.Query().Get("q"))
	category := strings.TrimSpace(r.URL.Query().Get("category"))

	var (
		items []*domain.PantryItem
		err   error
	)
	if q == "" && (category == "" || category == domain.AllCategories) {
		items, err = s.pantry.List(r.Context(), owner)
	} else {
		items, err = s.pantry.Search(r.Context(), owner, q, category)
	}
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	jsonResponse(w, http.StatusOK, toPantryItemResponses(items))
}

func (s *Server) handleAddPantryItem(w http.ResponseWriter, r *http.Request) {
	var req addPantryItemRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	expires, err := parseExpiry(req.ExpiresAt)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	item, err := s.pantry.Add(r.Context(), ownerID(r.Context()), &domain.PantryItem{
		Name:      req.Name,
		Quantity:  req.Quantity,
		Unit:      req.Unit,
		Category:  req.Category,
		ExpiresAt: expires,
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	jsonResponse(w, http.StatusCreated, toPantryItemResponse(item))
}

func (s *Server) handleGetPantryItem(w http.ResponseWriter, r *http.Request) {
	item, err := s.pantry.Get(r.Context(), ownerID(r.Context()), r.PathValue("id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	jsonResponse(w, http.StatusOK, toPantryItemResponse(item))
}

func (s *Server) handlePatchPantryItem(w http.ResponseWriter, r *http.Request) {
	var req patchPantryItemRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	patch := domain.PantryPatch{
		Name:        req.Name,
		Quantity:    req.Quantity,
		Unit:        req.Unit,
		Category:    req.Category,
		ClearExpiry: req.ClearExpiry,
	}
	if req.ExpiresAt != nil {
		expires, err := parseExpiry(*req.ExpiresAt)
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		if expires == nil {
			patch.ClearExpiry = true
		}
		patch.ExpiresAt = expires
	}

	item, err := s.pantry.ApplyPatch(r.Context(), ownerID(r.Context()), r.PathValue("id"), patch)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	jsonResponse(w, http.StatusOK, toPantryItemResponse(item))
}

func (s *Server) handleDeletePantryItem(w http.ResponseWriter, r *http.Request) {
	if err := s.pantry.Remove(r.Context(), ownerID(r.Context()), r.PathValue("id")); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handlePantryStats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.pantry.Stats(r.Context(), ownerID(r.Context()))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	jsonResponse(w, http.StatusOK, stats)
}

// handleConsume takes an exact amount; asking for more than is stored is a 400.
func (s *Server) handleConsume(w http.ResponseWriter, r *http.Request) {
	var req consumeRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	result, err := s.pantry.Consume(r.Context(), ownerID(r.Context()), r.PathValue("id"), req.Amount)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	jsonResponse(w, http.StatusOK, toConsumeResponse(result))
}

func (s *Server) handleUseIngredients(w http.ResponseWriter, r *http.Request) {
	var req useIngredientsRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	result, err := s.pantry.MatchAndConsume(r.Context(), ownerID(r.Context()), req.Ingredients)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if result.Consumed == nil {
		result.Consumed = []domain.ConsumedIngredient{}
	}
	if result.Unmatched == nil {
		result.Unmatched = []string{}
	}
	jsonResponse(w, http.StatusOK, result)
}
