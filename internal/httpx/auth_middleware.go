package httpx

import (
	"net/http"
	"strings"

	"libraryapi/internal/platform/crypto"
)

// AuthMiddleware rejects requests that do not carry a valid Bearer token and
// stores the authenticated librarian id in the request context.
func AuthMiddleware(secret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if !strings.HasPrefix(authHeader, "Bearer ") {
				WriteError(w, http.StatusUnauthorized, "missing or invalid access token")
				return
			}
			token := strings.TrimPrefix(authHeader, "Bearer ")

			claims, err := crypto.ParseToken(secret, token)
			if err != nil {
				WriteError(w, http.StatusUnauthorized, "missing or invalid access token")
				return
			}

			librarianID, err := claims.LibrarianID()
			if err != nil {
				WriteError(w, http.StatusUnauthorized, "missing or invalid access token")
				return
			}

			ctx := ContextWithLibrarian(r.Context(), librarianID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
