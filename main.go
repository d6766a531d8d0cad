package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/cors"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"vibin_discovery/config"
	"vibin_discovery/logging"
	"vibin_discovery/routes"
	"vibin_discovery/services"
	"vibin_discovery/socket"
)

func main() {
	cfg, err := config.LoadServer(os.Getenv("VIBIN_CONFIG"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	log, err := logging.New(cfg.Logging.Level, cfg.Logging.Format)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Fatal("server stopped", zap.Error(err))
	}
}

func run(ctx context.Context, cfg *config.ServerConfig, log *zap.Logger) error {
	store, err := initStore(ctx, cfg, log)
	if err != nil {
		return err
	}

	var presigner services.PresignAPI
	if cfg.AWS.PhotoBucket != "" {
		client, err := services.NewS3Presigner(ctx, cfg.AWS.Region)
		if err != nil {
			return err
		}
		presigner = client
	}
	photos := services.NewPhotoService(presigner, cfg.AWS.PhotoBucket, cfg.AWS.PhotoURLTTL, log)
	tokens := &services.TokenService{Secret: []byte(cfg.Auth.JWTSecret), TTL: cfg.Auth.TokenTTL}

	// Initialize Services
	hub := socket.NewHub(tokens, log)
	discoveryService := &services.DiscoveryService{Store: store, Photos: photos, Log: log}
	interactionService := &services.InteractionService{Store: store, Discovery: discoveryService, Publisher: hub, Log: log}
	userProfileService := &services.UserProfileService{Store: store}
	matchService := &services.MatchService{Store: store, Photos: photos, Log: log}

	router := routes.NewRouter(routes.Dependencies{
		Store:        store,
		Discovery:    discoveryService,
		Interactions: interactionService,
		Profiles:     userProfileService,
		Matches:      matchService,
		Photos:       photos,
		Tokens:       tokens,
		Socket:       hub,
		DevMode:      cfg.DevMode,
		Log:          log,
	})

	// Add CORS middleware
	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   cfg.CORS.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
	}).Handler(router)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           corsHandler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := hub.Serve(); err != nil && ctx.Err() == nil {
			return fmt.Errorf("socket server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		log.Info("starting server", zap.Int("port", cfg.Port), zap.String("store", cfg.Store), zap.Bool("dev_mode", cfg.DevMode))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		log.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		err := srv.Shutdown(shutdownCtx)
		_ = hub.Close()
		return err
	})
	return g.Wait()
}

func initStore(ctx context.Context, cfg *config.ServerConfig, log *zap.Logger) (services.Store, error) {
	if cfg.Store == "memory" {
		store := services.NewMemoryStore()
		if cfg.Seed != "" {
			f, err := os.Open(cfg.Seed)
			if err != nil {
				return nil, fmt.Errorf("opening seed file: %w", err)
			}
			defer f.Close()
			n, err := services.SeedProfiles(ctx, store, f)
			if err != nil {
				return nil, fmt.Errorf("seeding profiles: %w", err)
			}
			log.Info("seeded memory store", zap.Int("profiles", n))
		}
		return store, nil
	}

	log.Info("initializing DynamoDB client", zap.String("region", cfg.AWS.Region))
	client, err := services.InitializeDynamoDBClient(ctx, cfg.AWS.Region)
	if err != nil {
		return nil, err
	}
	return &services.DynamoStore{
		Dynamo: &services.DynamoService{Client: client, Log: log},
		Tables: services.TableNames{
			Profiles:     cfg.AWS.ProfilesTable,
			Interactions: cfg.AWS.InteractionsTable,
			Matches:      cfg.AWS.MatchesTable,
			Preferences:  cfg.AWS.PreferencesTable,
		},
	}, nil
}
