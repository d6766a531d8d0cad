package controllers

import (
	"context"
	"net/http"

	"go.uber.org/zap"

	"vibin_discovery/services"
)

// MatchController handles HTTP requests for match-related actions
type MatchController struct {
	MatchService *services.MatchService
	Log          *zap.Logger
}

// NewMatchController creates a new MatchController instance
func NewMatchController(matchService *services.MatchService, log *zap.Logger) *MatchController {
	return &MatchController{MatchService: matchService, Log: log}
}

// GetMatchesHandler lists the caller's matches
func (mc *MatchController) GetMatchesHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	matches, err := mc.MatchService.List(ctx, UserIDFrom(ctx))
	if err != nil {
		writeServiceError(w, mc.Log, "failed to list matches", err)
		return
	}
	WriteJSONResponse(w, http.StatusOK, map[string]interface{}{"matches": matches})
}
