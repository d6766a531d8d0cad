package routes

import (
	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"vibin_discovery/controllers"
	"vibin_discovery/services"
)

// RegisterUserProfileRoutes sets up the caller's preferences and location routes
func RegisterUserProfileRoutes(api *mux.Router, userProfileService *services.UserProfileService, log *zap.Logger) {
	controller := controllers.NewUserProfileController(userProfileService, log)

	api.HandleFunc("/preferences", controller.GetPreferencesHandler).Methods("GET")
	api.HandleFunc("/preferences", controller.UpdatePreferencesHandler).Methods("PUT")
	api.HandleFunc("/profile/location", controller.UpdateLocationHandler).Methods("POST")
}
