package httpapi

import (
	"context"
	"net/http"
	"strings"

	"github.com/tejasharora/couture-backend/internal/common"
	"github.com/tejasharora/couture-backend/internal/server/auth"
)

type contextKey struct{}

var userIDKey contextKey = contextKey{}

// userIDFromContext returns the authenticated user's ID, or "" when the
// request did not pass the auth middleware.
func userIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(userIDKey).(string)
	return id
}

// requireAuth verifies the Bearer access token and stores the user ID in the
// request context.
func (s *Server) requireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			writeError(w, common.ErrUnauthorized)
			return
		}

		userID, err := auth.GetUserIDFromToken(token, s.jwtSecret)
		if err != nil {
			writeError(w, common.ErrUnauthorized)
			return
		}

		ctx := context.WithValue(r.Context(), userIDKey, userID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// requireAdmin loads the authenticated user and rejects non-administrators.
// The check runs server-side on every admin request; the flag carried by the
// login response is advisory only.
func (s *Server) requireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, err := s.users.CurrentUser(r.Context(), userIDFromContext(r.Context()))
		if err != nil {
			writeError(w, common.ErrUnauthorized)
			return
		}
		if !user.IsAdmin {
			writeError(w, common.ErrForbidden)
			return
		}
		next.ServeHTTP(w, r)
	})
}
