package identity

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/jwtauth/v5"
	"github.com/go-chi/render"
)

type errorResponse struct {
	Error string `json:"error"`
}

// Authenticator rejects requests without a valid bearer token with 401 {error}
// and stores the caller Identity in the request context.
func Authenticator(v Verifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := jwtauth.TokenFromHeader(r)
			if raw == "" {
				render.Status(r, http.StatusUnauthorized)
				render.JSON(w, r, errorResponse{Error: "Unauthorized, no token provided"})
				return
			}

			id, err := v.Verify(r.Context(), raw)
			if err != nil {
				slog.Warn("Bearer token verification failed", "err", err)
				render.Status(r, http.StatusUnauthorized)
				render.JSON(w, r, errorResponse{Error: "Unauthorized, invalid token"})
				return
			}

			next.ServeHTTP(w, r.WithContext(NewContext(r.Context(), id)))
		})
	}
}

type protectedResponse struct {
	Message string   `json:"message"`
	User    Identity `json:"user"`
}

// Protected handles GET /api/protected by echoing the caller
func Protected(w http.ResponseWriter, r *http.Request) {
	id, ok := FromContext(r.Context())
	if !ok {
		render.Status(r, http.StatusUnauthorized)
		render.JSON(w, r, errorResponse{Error: "Unauthorized"})
		return
	}
	render.JSON(w, r, protectedResponse{Message: "You are authorized", User: id})
}
