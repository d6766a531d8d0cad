package routes

import (
	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"vibin_discovery/controllers"
	"vibin_discovery/services"
)

// RegisterS3Routes sets up the presigned photo redirect
func RegisterS3Routes(api *mux.Router, photos *services.PhotoService, log *zap.Logger) {
	controller := &controllers.PhotoController{Photos: photos, Log: log}
	api.HandleFunc("/photos/{key:.+}", controller.PhotoRedirectHandler).Methods("GET")
}
