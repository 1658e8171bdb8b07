package middleware

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/telbook/telbook/internal/auth"
	"github.com/telbook/telbook/internal/repository"
)

// Fixed 401 detail messages. Requests without credentials and requests with
// bad credentials get distinct messages, but nothing beyond that leaks.
const (
	DetailNoCredentials = "Authentication credentials were not provided."
	DetailInvalidToken  = "Invalid token."
	DetailInternalError = "Internal server error."
)

// RequireAuth authenticates every request via the Authorization bearer header
// and stores the resolved user on the request context. There is no anonymous
// fallback: requests that fail to resolve a user are rejected before any
// handler runs.
func RequireAuth(tokens *auth.Tokens, users repository.UserRepository) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenString, err := auth.BearerToken(r)
			if err != nil {
				if errors.Is(err, auth.ErrNoCredentials) {
					writeDetail(w, http.StatusUnauthorized, DetailNoCredentials)
				} else {
					writeDetail(w, http.StatusUnauthorized, DetailInvalidToken)
				}
				return
			}

			userID, err := tokens.Verify(tokenString)
			if err != nil {
				writeDetail(w, http.StatusUnauthorized, DetailInvalidToken)
				return
			}

			user, err := users.GetByID(r.Context(), userID)
			if err != nil {
				if errors.Is(err, repository.ErrUserNotFound) {
					writeDetail(w, http.StatusUnauthorized, DetailInvalidToken)
					return
				}
				log.Printf("error resolving user %d for %s %s: %v", userID, r.Method, r.URL.Path, err)
				writeDetail(w, http.StatusInternalServerError, DetailInternalError)
				return
			}

			if user.Disabled() {
				writeDetail(w, http.StatusUnauthorized, DetailInvalidToken)
				return
			}

			ctx := auth.WithUser(r.Context(), user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func writeDetail(w http.ResponseWriter, status int, detail string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"detail": detail})
}
