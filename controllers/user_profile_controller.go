package controllers

import (
	"context"
	"net/http"

	"go.uber.org/zap"

	"vibin_discovery/models"
	"vibin_discovery/services"
)

// UserProfileController handles the caller's preferences and location
type UserProfileController struct {
	UserProfileService *services.UserProfileService
	Log                *zap.Logger
}

// NewUserProfileController creates a new instance of UserProfileController
func NewUserProfileController(userProfileService *services.UserProfileService, log *zap.Logger) *UserProfileController {
	return &UserProfileController{UserProfileService: userProfileService, Log: log}
}

// GetPreferencesHandler returns the caller's discovery filters
func (c *UserProfileController) GetPreferencesHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	prefs, err := c.UserProfileService.GetPreferences(ctx, UserIDFrom(ctx))
	if err != nil {
		writeServiceError(w, c.Log, "failed to fetch preferences", err)
		return
	}
	WriteJSONResponse(w, http.StatusOK, prefs)
}

// UpdatePreferencesHandler replaces the caller's discovery filters
func (c *UserProfileController) UpdatePreferencesHandler(w http.ResponseWriter, r *http.Request) {
	var prefs models.Preferences
	if err := decodeJSON(w, r, &prefs); err != nil {
		WriteError(w, http.StatusBadRequest, CodeInvalidRequest)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	saved, err := c.UserProfileService.UpdatePreferences(ctx, UserIDFrom(ctx), prefs)
	if err != nil {
		writeServiceError(w, c.Log, "failed to update preferences", err)
		return
	}
	WriteJSONResponse(w, http.StatusOK, saved)
}

// UpdateLocationHandler stores the device location
func (c *UserProfileController) UpdateLocationHandler(w http.ResponseWriter, r *http.Request) {
	var loc models.LocationUpdate
	if err := decodeJSON(w, r, &loc); err != nil {
		WriteError(w, http.StatusBadRequest, CodeInvalidRequest)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	if _, err := c.UserProfileService.UpdateLocation(ctx, UserIDFrom(ctx), loc); err != nil {
		writeServiceError(w, c.Log, "failed to update location", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
