package server

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/telbook/telbook/internal/auth"
	"github.com/telbook/telbook/internal/middleware"
	"github.com/telbook/telbook/internal/repository"
)

// AuthHandlers serves token issuance and identity introspection.
type AuthHandlers struct {
	users  repository.UserRepository
	tokens *auth.Tokens
}

// NewAuthHandlers creates the authentication handler set.
func NewAuthHandlers(users repository.UserRepository, tokens *auth.Tokens) *AuthHandlers {
	return &AuthHandlers{users: users, tokens: tokens}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

type whoAmIResponse struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// HandleLogin exchanges email and password credentials for a bearer token.
// Unknown accounts, wrong passwords and disabled accounts all produce the
// same 401 so the response does not reveal which accounts exist.
func (h *AuthHandlers) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondDetail(w, http.StatusBadRequest, DetailMalformedBody)
		return
	}
	if req.Email == "" || req.Password == "" {
		respondDetail(w, http.StatusUnauthorized, DetailBadLogin)
		return
	}

	user, err := h.users.GetByEmail(r.Context(), req.Email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			respondDetail(w, http.StatusUnauthorized, DetailBadLogin)
			return
		}
		log.Printf("login lookup failed: %v", err)
		respondDetail(w, http.StatusInternalServerError, DetailInternalError)
		return
	}

	if user.Disabled() {
		respondDetail(w, http.StatusUnauthorized, DetailBadLogin)
		return
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		respondDetail(w, http.StatusUnauthorized, DetailBadLogin)
		return
	}

	token, expiresAt, err := h.tokens.Issue(user.ID)
	if err != nil {
		log.Printf("token issue failed for user %d: %v", user.ID, err)
		respondDetail(w, http.StatusInternalServerError, DetailInternalError)
		return
	}

	respondJSON(w, http.StatusOK, loginResponse{Token: token, ExpiresAt: expiresAt})
}

// HandleWhoAmI returns the identity resolved from the bearer token.
func (h *AuthHandlers) HandleWhoAmI(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok {
		respondDetail(w, http.StatusUnauthorized, middleware.DetailNoCredentials)
		return
	}

	respondJSON(w, http.StatusOK, whoAmIResponse{
		ID:    user.ID,
		Name:  user.Name,
		Email: user.Email,
	})
}
