package routes

import (
	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"vibin_discovery/controllers"
	"vibin_discovery/services"
)

// RegisterMatchRoutes sets up /api/matches
func RegisterMatchRoutes(api *mux.Router, matchService *services.MatchService, log *zap.Logger) {
	controller := controllers.NewMatchController(matchService, log)
	api.HandleFunc("/matches", controller.GetMatchesHandler).Methods("GET")
}
