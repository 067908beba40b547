// Package middleware provides the HTTP middleware chain: authentication,
// request logging, metrics and CORS.
package middleware

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/gastosfacil/backend/internal/auth"
)

// contextKey is a custom type for context keys to avoid collisions.
type contextKey string

const (
	// userIDKey is the context key for storing the authenticated user ID.
	userIDKey contextKey = "user_id"
	// emailKey is the context key for storing the authenticated user's email.
	emailKey contextKey = "email"
	// identityHolderKey lets outer middleware see who was authenticated.
	identityHolderKey contextKey = "identity_holder"
)

type identity struct {
	userID string
}

func withIdentityHolder(ctx context.Context, h *identity) context.Context {
	return context.WithValue(ctx, identityHolderKey, h)
}

func recordIdentity(ctx context.Context, userID string) {
	if h, ok := ctx.Value(identityHolderKey).(*identity); ok {
		h.userID = userID
	}
}

// TokenValidator verifies a bearer token.
type TokenValidator interface {
	Validate(token string) (*auth.Claims, error)
}

// GetUserID extracts the user ID from the context.
// Returns empty string if not found.
func GetUserID(ctx context.Context) string {
	userID, _ := ctx.Value(userIDKey).(string)
	return userID
}

// GetEmail extracts the user email from the context.
// Returns empty string if not found.
func GetEmail(ctx context.Context) string {
	email, _ := ctx.Value(emailKey).(string)
	return email
}

// WithUser returns a context carrying the given identity.
func WithUser(ctx context.Context, userID, email string) context.Context {
	ctx = context.WithValue(ctx, userIDKey, userID)
	return context.WithValue(ctx, emailKey, email)
}

// RequireAuth rejects requests without a valid bearer token and stores the
// verified identity in the request context.
func RequireAuth(validator TokenValidator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, err := auth.BearerToken(r.Header.Get("Authorization"))
			if err != nil {
				unauthorized(w, err)
				return
			}

			claims, err := validator.Validate(token)
			if err != nil {
				unauthorized(w, auth.ErrInvalidToken)
				return
			}

			recordIdentity(r.Context(), claims.UserID)
			next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), claims.UserID, claims.Email)))
		})
	}
}

func unauthorized(w http.ResponseWriter, err error) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("WWW-Authenticate", "Bearer")
	w.WriteHeader(http.StatusUnauthorized)
	_ = json.NewEncoder(w).Encode(map[string]string{"message": err.Error()})
}
