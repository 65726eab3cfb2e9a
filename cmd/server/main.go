package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"pagetree/internal/auth"
	"pagetree/internal/config"
	repo "pagetree/internal/domain/repositories/content"
	"pagetree/internal/handler"
	"pagetree/internal/middleware"
	"pagetree/internal/repository/fixtures"
	"pagetree/internal/repository/memory"
	"pagetree/internal/repository/postgres"
	postgresContent "pagetree/internal/repository/postgres/content"
	"pagetree/internal/schema"
	serviceContent "pagetree/internal/service/content"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"
)

func main() {
	// Load .env file (silently ignore if it doesn't exist - for production)
	_ = godotenv.Load()

	cfg := config.Load()

	logger, logCloser, err := config.NewLogger(cfg)
	if err != nil {
		log.Fatalf("Failed to setup logging: %v", err)
	}
	defer logCloser.Close()
	slog.SetDefault(logger)

	logger.Info("server starting",
		"environment", cfg.Environment,
		"port", cfg.Port,
		"store", cfg.Store,
		"table_prefix", cfg.TablePrefix,
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	registry, err := schema.NewRegistry()
	if err != nil {
		log.Fatalf("Failed to load content types: %v", err)
	}
	if cfg.SchemaDir != "" {
		if err := registry.LoadDir(cfg.SchemaDir); err != nil {
			log.Fatalf("Failed to load content types from %s: %v", cfg.SchemaDir, err)
		}
	}
	logger.Info("content types registered", "count", len(registry.All()))

	records, closeStore, err := openStore(ctx, cfg, registry, logger)
	if err != nil {
		log.Fatalf("Failed to open store: %v", err)
	}
	defer closeStore()

	opts, err := serviceContent.OptionsFromConfig(cfg)
	if err != nil {
		log.Fatalf("Invalid tree options: %v", err)
	}

	treeService := serviceContent.NewTreeService(registry, records, opts, logger)
	forestService := serviceContent.NewForestService(registry, records, opts, logger)
	archiveService := serviceContent.NewArchiveService(registry, records, opts, logger)
	publicationService := serviceContent.NewPublicationService(registry, records, logger)

	// Admin routes stay open without a JWKS, which is only acceptable locally
	var verifier auth.JWTVerifier
	if cfg.AdminJWKSURL != "" {
		jwks, err := auth.NewJWTVerifier(cfg.AdminJWKSURL, logger)
		if err != nil {
			log.Fatalf("Failed to create JWT verifier: %v", err)
		}
		defer jwks.Close()
		verifier = jwks
	} else {
		if cfg.Environment == "prod" {
			log.Fatalf("ADMIN_JWKS_URL is required in production")
		}
		logger.Warn("ADMIN_JWKS_URL not set: admin routes are unauthenticated")
	}

	logger.Info("services initialized")

	// Create HTTP router (Go 1.22+ enhanced patterns)
	mux := http.NewServeMux()
	handler.RegisterRoutes(mux, handler.Handlers{
		Health:      handler.NewHealthHandler(records, logger),
		Content:     handler.NewContentHandler(treeService, archiveService, cfg.ArchiveCacheControl, logger),
		Forest:      handler.NewForestHandler(forestService, logger),
		Publication: handler.NewPublicationHandler(publicationService, logger),
		Metrics:     promhttp.Handler(),
	}, middleware.RequireAdmin(verifier, logger))

	// Order: CORS → RequestID → Logging → Recovery → Routes
	root := middleware.Chain(mux,
		middleware.RequestID,
		middleware.Logging(logger),
		middleware.Recovery(logger),
	)

	// CORS - outermost so OPTIONS pre-flight never reaches auth
	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins(),
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Origin", "Content-Type", "Accept", "Authorization"},
		AllowCredentials: true,
	})

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           corsHandler.Handler(root),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		logger.Info("server listening", "addr", server.Addr)
		serveErr <- server.ListenAndServe()
	}()

	select {
	case err := <-serveErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Failed to start server: %v", err)
		}
	case <-ctx.Done():
		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("graceful shutdown failed", "error", err)
		}
	}
}

// openStore returns the configured record repository and its cleanup
func openStore(ctx context.Context, cfg *config.Config, registry *schema.Registry, logger *slog.Logger) (repo.RecordRepository, func(), error) {
	switch cfg.Store {
	case "memory":
		store := memory.NewStore()
		if cfg.FixturesPath != "" {
			n, err := fixtures.LoadFile(ctx, store, registry, cfg.FixturesPath)
			if err != nil {
				return nil, nil, err
			}
			logger.Info("fixtures loaded", "path", cfg.FixturesPath, "records", n)
		} else {
			logger.Warn("memory store started empty, set FIXTURES_PATH to load records")
		}
		return store, func() {}, nil

	case "postgres":
		pool, err := postgres.CreateConnectionPool(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, nil, err
		}
		stats := pool.Stat()
		logger.Info("database connected",
			"max_conns", stats.MaxConns(),
			"total_conns", stats.TotalConns(),
		)

		records := postgresContent.NewRecordRepository(&postgres.RepositoryConfig{
			Pool:   pool,
			Tables: postgres.NewTableNames(cfg.TablePrefix),
			Logger: logger,
		})
		return records, pool.Close, nil

	default:
		return nil, nil, errors.New("STORE must be postgres or memory, got " + cfg.Store)
	}
}
