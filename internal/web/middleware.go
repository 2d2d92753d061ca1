package web

import (
	"context"
	"net/http"
	"strings"
)

type contextKey string

const ownerKey contextKey = "owner"

// requireAuth validates the bearer token and puts its subject in the
// request context as the owner id.
func (s *Server) requireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			jsonError(w, http.StatusUnauthorized, "missing or invalid authorization header")
			return
		}

		claims, err := s.tokens.Verify(strings.TrimPrefix(header, "Bearer "))
		if err != nil {
			s.logger.Debug("token rejected", "error", err)
			jsonError(w, http.StatusUnauthorized, "invalid token")
			return
		}

		ctx := context.WithValue(r.Context(), ownerKey, claims.Subject)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func ownerID(ctx context.Context) string {
	id, _ := ctx.Value(ownerKey).(string)
	return id
}
