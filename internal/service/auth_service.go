package service

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gastosfacil/backend/internal/auth"
	"github.com/gastosfacil/backend/internal/middleware"
	"github.com/gastosfacil/backend/internal/models"
	"github.com/gastosfacil/backend/internal/storage"
)

// TokenIssuer signs session tokens for authenticated users.
type TokenIssuer interface {
	Generate(user *models.User) (string, error)
}

// AuthService serves registration, login and token verification.
type AuthService struct {
	authenticator auth.Authenticator
	tokens        TokenIssuer
	users         auth.UserLookup
}

// NewAuthService creates a new authentication service.
func NewAuthService(authenticator auth.Authenticator, tokens TokenIssuer, users auth.UserLookup) *AuthService {
	return &AuthService{
		authenticator: authenticator,
		tokens:        tokens,
		users:         users,
	}
}

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type sessionResponse struct {
	Token string       `json:"token"`
	User  *models.User `json:"user"`
}

// Register creates a new account and returns a session token.
func (s *AuthService) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	slog.Info("Register request received", "email", req.Email)

	user, err := s.authenticator.Register(r.Context(), req.Email, req.Name, req.Password)
	if err != nil {
		slog.Warn("Register failed", "email", req.Email, "error", err)
		writeError(w, r, err)
		return
	}

	token, err := s.tokens.Generate(user)
	if err != nil {
		slog.Error("Failed to generate token", "user_id", user.ID, "error", err)
		writeError(w, r, err)
		return
	}

	slog.Info("User registered", "user_id", user.ID)
	writeJSON(w, http.StatusCreated, sessionResponse{Token: token, User: user})
}

// Login exchanges an email and password for a session token.
func (s *AuthService) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	if req.Email == "" || req.Password == "" {
		writeMessage(w, http.StatusBadRequest, "email and password are required")
		return
	}

	slog.Info("Login request received", "email", req.Email)

	user, err := s.authenticator.Authenticate(r.Context(), req.Email, req.Password)
	if err != nil {
		slog.Warn("Login failed", "email", req.Email, "error", err)
		writeError(w, r, err)
		return
	}

	token, err := s.tokens.Generate(user)
	if err != nil {
		slog.Error("Failed to generate token", "user_id", user.ID, "error", err)
		writeError(w, r, err)
		return
	}

	slog.Info("User logged in", "user_id", user.ID)
	writeJSON(w, http.StatusOK, sessionResponse{Token: token, User: user})
}

// Verify returns the account behind the request's token.
func (s *AuthService) Verify(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	user, err := s.users.GetUserByID(r.Context(), userID)
	if errors.Is(err, storage.ErrNotFound) {
		writeMessage(w, http.StatusNotFound, "user not found")
		return
	}
	if err != nil {
		slog.Error("Verify failed", "user_id", userID, "error", err)
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]*models.User{"user": user})
}
