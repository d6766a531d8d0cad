package routes

import (
	"net/http"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"vibin_discovery/controllers"
	"vibin_discovery/metrics"
	"vibin_discovery/services"
)

// Dependencies are the services the router wires into controllers
type Dependencies struct {
	Store        services.Store
	Discovery    *services.DiscoveryService
	Interactions *services.InteractionService
	Profiles     *services.UserProfileService
	Matches      *services.MatchService
	Photos       *services.PhotoService
	Tokens       *services.TokenService
	Socket       http.Handler // optional Socket.IO endpoint
	DevMode      bool
	Log          *zap.Logger
}

// NewRouter sets up the routes for the application
func NewRouter(d Dependencies) *mux.Router {
	r := mux.NewRouter()

	r.HandleFunc("/health", controllers.HealthCheckHandler).Methods("GET")
	r.Handle("/metrics", metrics.Handler()).Methods("GET")
	if d.Socket != nil {
		r.PathPrefix("/socket.io/").Handler(d.Socket)
	}

	// registered before the authenticated subrouter so it stays public
	if d.DevMode {
		RegisterAuthRoutes(r, d.Tokens, d.Store, d.Log)
	}

	auth := &controllers.AuthMiddleware{Tokens: d.Tokens, Profiles: d.Store, Log: d.Log}
	api := r.PathPrefix("/api").Subrouter()
	api.Use(auth.Handler)

	RegisterDiscoveryRoutes(api, d.Discovery, d.Interactions, d.Log)
	RegisterUserProfileRoutes(api, d.Profiles, d.Log)
	RegisterMatchRoutes(api, d.Matches, d.Log)
	RegisterS3Routes(api, d.Photos, d.Log)

	return r
}

// RegisterAuthRoutes exposes development token issuance at /api/auth/token
func RegisterAuthRoutes(r *mux.Router, tokens *services.TokenService, store services.Store, log *zap.Logger) {
	controller := &controllers.TokenController{Tokens: tokens, Profiles: store, Log: log}
	r.HandleFunc("/api/auth/token", controller.IssueTokenHandler).Methods("POST")
}
