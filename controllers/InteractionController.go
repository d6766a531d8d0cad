package controllers

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"vibin_discovery/models"
	"vibin_discovery/services"
)

// DiscoveryController serves the discovery deck: candidate pages, swipes, undo and seen markers
type DiscoveryController struct {
	Discovery    *services.DiscoveryService
	Interactions *services.InteractionService
	Log          *zap.Logger
}

// NewDiscoveryController creates a new DiscoveryController
func NewDiscoveryController(discovery *services.DiscoveryService, interactions *services.InteractionService, log *zap.Logger) *DiscoveryController {
	return &DiscoveryController{Discovery: discovery, Interactions: interactions, Log: log}
}

// parseDiscoveryQuery reads ?limit=&page=&exclude=a,b
func parseDiscoveryQuery(r *http.Request) (services.DiscoveryQuery, bool) {
	q := services.DiscoveryQuery{}
	values := r.URL.Query()
	for name, dst := range map[string]*int{"limit": &q.Limit, "page": &q.Page} {
		raw := values.Get(name)
		if raw == "" {
			continue
		}
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			return q, false
		}
		*dst = n
	}
	for _, id := range strings.Split(values.Get("exclude"), ",") {
		if id = strings.TrimSpace(id); id != "" {
			q.Exclude = append(q.Exclude, id)
		}
	}
	return q, true
}

// GetDiscoveryHandler returns one page of candidates
func (c *DiscoveryController) GetDiscoveryHandler(w http.ResponseWriter, r *http.Request) {
	query, ok := parseDiscoveryQuery(r)
	if !ok {
		WriteError(w, http.StatusBadRequest, CodeInvalidRequest)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	profiles, err := c.Discovery.Candidates(ctx, UserIDFrom(ctx), query)
	if err != nil {
		writeServiceError(w, c.Log, "failed to build discovery page", err)
		return
	}
	WriteJSONResponse(w, http.StatusOK, models.DiscoveryResponse{Profiles: profiles})
}

// SwipeHandler records a like, pass or super like
func (c *DiscoveryController) SwipeHandler(w http.ResponseWriter, r *http.Request) {
	var request models.SwipeRequest
	if err := decodeJSON(w, r, &request); err != nil {
		c.Log.Debug("invalid swipe payload", zap.Error(err))
		WriteError(w, http.StatusBadRequest, CodeInvalidRequest)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	response, err := c.Interactions.Swipe(ctx, UserIDFrom(ctx), request)
	if err != nil {
		writeServiceError(w, c.Log, "failed to process swipe", err)
		return
	}
	WriteJSONResponse(w, http.StatusOK, response)
}

// UndoHandler reverts the caller's last swipe once
func (c *DiscoveryController) UndoHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	undone, err := c.Interactions.Undo(ctx, UserIDFrom(ctx))
	if err != nil {
		writeServiceError(w, c.Log, "failed to undo swipe", err)
		return
	}
	WriteJSONResponse(w, http.StatusOK, models.UndoResponse{Undone: undone})
}

// SeenHandler records that a candidate was shown
func (c *DiscoveryController) SeenHandler(w http.ResponseWriter, r *http.Request) {
	var request models.SeenRequest
	if err := decodeJSON(w, r, &request); err != nil {
		WriteError(w, http.StatusBadRequest, CodeInvalidRequest)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	if err := c.Discovery.MarkSeen(ctx, UserIDFrom(ctx), request.UserID); err != nil {
		writeServiceError(w, c.Log, "failed to mark seen", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
