package web

import (
	"net/http"

	"github.com/pantryledger/pantryledger/internal/service"
)

type generateRecipesRequest struct {
	Ingredients []string `json:"ingredients"`
	Cuisine     string   `json:"cuisine"`
	Difficulty  string   `json:"difficulty" validate:"omitempty,oneof=easy medium hard"`
	Count       int      `json:"count" validate:"gte=0,lte=10"`
}

func (s *Server) handleGenerateRecipes(w http.ResponseWriter, r *http.Request) {
	var req generateRecipesRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	recipes, err := s.recipes.Generate(r.Context(), ownerID(r.Context()), service.GenerateRequest{
		Ingredients: req.Ingredients,
		Cuisine:     req.Cuisine,
		Difficulty:  req.Difficulty,
		Count:       req.Count,
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	jsonResponse(w, http.StatusCreated, toRecipeResponses(recipes))
}

func (s *Server) handleListRecipes(w http.ResponseWriter, r *http.Request) {
	recipes, err := s.recipes.List(r.Context(), ownerID(r.Context()))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	jsonResponse(w, http.StatusOK, toRecipeResponses(recipes))
}

func (s *Server) handleListFavorites(w http.ResponseWriter, r *http.Request) {
	recipes, err := s.recipes.ListFavorites(r.Context(), ownerID(r.Context()))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	jsonResponse(w, http.StatusOK, toRecipeResponses(recipes))
}

func (s *Server) handleGetRecipe(w http.ResponseWriter, r *http.Request) {
	recipe, err := s.recipes.Get(r.Context(), ownerID(r.Context()), r.PathValue("id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	jsonResponse(w, http.StatusOK, toRecipeResponse(recipe))
}

func (s *Server) handleDeleteRecipe(w http.ResponseWriter, r *http.Request) {
	if err := s.recipes.Delete(r.Context(), ownerID(r.Context()), r.PathValue("id")); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleFavorite(favorite bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		recipe, err := s.recipes.SetFavorite(r.Context(), ownerID(r.Context()), r.PathValue("id"), favorite)
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		jsonResponse(w, http.StatusOK, toRecipeResponse(recipe))
	}
}

func (s *Server) handleRecipeImage(w http.ResponseWriter, r *http.Request) {
	recipe, err := s.recipes.GenerateImage(r.Context(), ownerID(r.Context()), r.PathValue("id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	jsonResponse(w, http.StatusOK, toRecipeResponse(recipe))
}

func (s *Server) handleCook(w http.ResponseWriter, r *http.Request) {
	session, err := s.recipes.Cook(r.Context(), ownerID(r.Context()), r.PathValue("id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	jsonResponse(w, http.StatusCreated, toSessionResponse(session))
}

func (s *Server) handleListSessions(w http.ResponseWriter, r *http.Request) {
	sessions, err := s.recipes.ListSessions(r.Context(), ownerID(r.Context()))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	out := make([]sessionResponse, 0, len(sessions))
	for _, cs := range sessions {
		out = append(out, toSessionResponse(cs))
	}
	jsonResponse(w, http.StatusOK, out)
}
