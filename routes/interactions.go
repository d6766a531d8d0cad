package routes

import (
	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"vibin_discovery/controllers"
	"vibin_discovery/services"
)

// RegisterDiscoveryRoutes registers the deck routes under /api/discovery
func RegisterDiscoveryRoutes(api *mux.Router, discovery *services.DiscoveryService, interactions *services.InteractionService, log *zap.Logger) {
	controller := controllers.NewDiscoveryController(discovery, interactions, log)

	discoveryRouter := api.PathPrefix("/discovery").Subrouter()
	discoveryRouter.HandleFunc("", controller.GetDiscoveryHandler).Methods("GET")
	discoveryRouter.HandleFunc("/swipe", controller.SwipeHandler).Methods("POST")
	discoveryRouter.HandleFunc("/undo", controller.UndoHandler).Methods("POST")
	discoveryRouter.HandleFunc("/seen", controller.SeenHandler).Methods("POST")
}
