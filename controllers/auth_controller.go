package controllers

import (
	"errors"
	"net/http"

	"go.uber.org/zap"

	"vibin_discovery/services"
)

// TokenIssuer signs bearer tokens
type TokenIssuer interface {
	Issue(userID string) (string, error)
}

// TokenController hands out tokens for existing users. It is only mounted in dev mode.
type TokenController struct {
	Tokens   TokenIssuer
	Profiles ProfileLookup
	Log      *zap.Logger
}

type tokenRequest struct {
	UserID string `json:"user_id"`
}

type tokenResponse struct {
	Token  string `json:"token"`
	UserID string `json:"user_id"`
}

// IssueTokenHandler answers POST /api/auth/token
func (tc *TokenController) IssueTokenHandler(w http.ResponseWriter, r *http.Request) {
	var req tokenRequest
	if err := decodeJSON(w, r, &req); err != nil || req.UserID == "" {
		WriteError(w, http.StatusBadRequest, CodeInvalidRequest)
		return
	}
	if _, err := tc.Profiles.GetProfile(r.Context(), req.UserID); err != nil {
		if errors.Is(err, services.ErrNotFound) {
			WriteError(w, http.StatusNotFound, CodeNotFound)
			return
		}
		tc.Log.Error("failed to load user for token", zap.Error(err))
		WriteError(w, http.StatusInternalServerError, CodeInternal)
		return
	}

	token, err := tc.Tokens.Issue(req.UserID)
	if err != nil {
		tc.Log.Error("failed to issue token", zap.Error(err))
		WriteError(w, http.StatusInternalServerError, CodeInternal)
		return
	}
	tc.Log.Info("issued development token", zap.String("user", req.UserID))
	WriteJSONResponse(w, http.StatusOK, tokenResponse{Token: token, UserID: req.UserID})
}
