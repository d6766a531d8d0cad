package controllers

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"vibin_discovery/models"
	"vibin_discovery/services"
)

type contextKey struct{}

// TokenParser verifies a bearer token and returns the user id it was issued for
type TokenParser interface {
	Parse(token string) (string, error)
}

// ProfileLookup is the part of the store the middleware needs
type ProfileLookup interface {
	GetProfile(ctx context.Context, userID string) (*models.UserProfile, error)
}

// AuthMiddleware authenticates API requests. A missing or invalid token is
// rejected with 401, a valid token for a user that no longer exists with 403.
type AuthMiddleware struct {
	Tokens   TokenParser
	Profiles ProfileLookup
	Log      *zap.Logger
}

// BearerToken extracts the token from an "Authorization: Bearer <token>" header
func BearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	scheme, token, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}

func (m *AuthMiddleware) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := BearerToken(r)
		if token == "" {
			WriteError(w, http.StatusUnauthorized, CodeUnauthorized)
			return
		}
		userID, err := m.Tokens.Parse(token)
		if err != nil {
			m.Log.Debug("rejected bearer token", zap.Error(err))
			WriteError(w, http.StatusUnauthorized, CodeUnauthorized)
			return
		}

		if _, err := m.Profiles.GetProfile(r.Context(), userID); err != nil {
			if errors.Is(err, services.ErrNotFound) {
				WriteError(w, http.StatusForbidden, CodeForbidden)
				return
			}
			m.Log.Error("failed to load authenticated user", zap.String("user", userID), zap.Error(err))
			WriteError(w, http.StatusInternalServerError, CodeInternal)
			return
		}

		next.ServeHTTP(w, r.WithContext(WithUserID(r.Context(), userID)))
	})
}

// WithUserID stores the authenticated user id in ctx
func WithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, contextKey{}, userID)
}

// UserIDFrom returns the authenticated user id, or "" outside the middleware
func UserIDFrom(ctx context.Context) string {
	userID, _ := ctx.Value(contextKey{}).(string)
	return userID
}
