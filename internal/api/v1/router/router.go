package router

import (
	"database/sql"
	"net/http"
	"strings"
	"time"

	"app/internal/api/v1/handler"
	"app/internal/billing"
	"app/internal/config"
	"app/internal/middleware"
	"app/internal/repository"
	"app/internal/service"

	"github.com/go-playground/validator/v10"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/rs/cors"
	"github.com/rs/zerolog"
)

func New(cfg *config.Config, logger zerolog.Logger) (http.Handler, *sql.DB, error) {
	logger.Info().Str("environment", cfg.Environment).Msg("Router initializing")

	// Open DB connection (connection pooling)
	dsn := cfg.DBConnectionString
	// In a development environment, ensure SSL is disabled for local testing.
	// In production, the connection string should carry the correct SSL
	// settings.
	if cfg.Environment == "development" && !strings.Contains(dsn, "sslmode") {
		separator := " "
		if strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://") {
			if strings.Contains(dsn, "?") {
				separator = "&"
			} else {
				separator = "?"
			}
		}
		dsn += separator + "sslmode=disable"
	}
	// Non-development environments sit behind a transaction pooler, so use
	// the simple query protocol to avoid server-side prepared statement
	// clashes.
	if cfg.Environment != "development" {
		if !strings.Contains(dsn, "prefer_simple_protocol") {
			separator := "&"
			if !strings.Contains(dsn, "?") {
				separator = "?"
			}
			dsn += separator + "prefer_simple_protocol=true"
		}
	}

	db, err := sql.Open("pgx", dsn)
	if err != nil {
		logger.Fatal().Msgf("Failed to open DB connection: %v", err)
		return nil, nil, err
	}
	if err := db.Ping(); err != nil {
		logger.Fatal().Msgf("Failed to ping DB: %v", err)
		return nil, nil, err
	}
	logger.Info().Msg("Database connection successful")

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(25)
	db.SetConnMaxIdleTime(5 * time.Minute)

	// Initialize validator
	validate := validator.New(validator.WithRequiredStructEnabled())

	// Price-ID/tier mapping from configuration
	prices := billing.NewPriceMap(cfg.StripePriceStarter, cfg.StripePriceGrowth, cfg.StripePricePro)

	// Initialize repositories & services & handlers
	profileRepo := repository.NewProfileRepo(db)
	jobRepo := repository.NewJobRepo(db)
	techRepo := repository.NewTechnicianRepo(db)
	snapshotRepo := repository.NewSnapshotRepo(db)
	recRepo := repository.NewRecommendationRepo(db)
	leadRepo := repository.NewLeadRepo(db)

	profileSvc := service.NewProfileService(profileRepo, logger)
	stripeSvc := service.NewStripeService(cfg, profileRepo, prices, logger)
	jobSvc := service.NewJobService(jobRepo, logger)
	techSvc := service.NewTechnicianService(techRepo, profileRepo, logger)
	analyticsSvc := service.NewAnalyticsService(jobRepo, techRepo, snapshotRepo, profileRepo, logger)
	recSvc := service.NewRecommendationService(recRepo, logger)
	leadSvc := service.NewLeadService(leadRepo, logger)
	demoSvc := service.NewDemoService(jobRepo, techRepo, snapshotRepo, recRepo, profileRepo, logger)

	profileHandler := handler.NewProfileHandler(profileSvc, validate, logger)
	billingHandler := handler.NewBillingHandler(stripeSvc, profileSvc, validate, logger)
	jobHandler := handler.NewJobHandler(jobSvc, validate, logger)
	techHandler := handler.NewTechnicianHandler(techSvc, analyticsSvc, validate, logger)
	analyticsHandler := handler.NewAnalyticsHandler(analyticsSvc, logger)
	recHandler := handler.NewRecommendationHandler(recSvc, validate, logger)
	leadHandler := handler.NewLeadHandler(leadSvc, validate, logger)
	demoHandler := handler.NewDemoHandler(demoSvc, logger)

	// Initialize middleware
	authMiddleware := middleware.AuthMiddleware(cfg.JWTSecret)

	// Create ServeMux router
	mux := http.NewServeMux()

	// Subrouter for API v1 with the /v1 prefix
	apiV1Mux := http.NewServeMux()
	profileHandler.RegisterRoutes(apiV1Mux, authMiddleware)
	billingHandler.RegisterRoutes(apiV1Mux, authMiddleware)
	jobHandler.RegisterRoutes(apiV1Mux, authMiddleware)
	techHandler.RegisterRoutes(apiV1Mux, authMiddleware)
	analyticsHandler.RegisterRoutes(apiV1Mux, authMiddleware)
	recHandler.RegisterRoutes(apiV1Mux, authMiddleware)
	demoHandler.RegisterRoutes(apiV1Mux, authMiddleware)
	leadHandler.RegisterRoutes(apiV1Mux)

	mux.Handle("/v1/", http.StripPrefix("/v1", apiV1Mux))

	// Redirect /api/* to /v1/* for backward compatibility
	mux.HandleFunc("/api/", func(w http.ResponseWriter, r *http.Request) {
		rest := strings.TrimPrefix(r.URL.Path, "/api/")
		http.Redirect(w, r, "/v1/"+rest, http.StatusMovedPermanently)
	})

	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	// Apply CORS middleware
	c := cors.New(cors.Options{
		AllowedOrigins:   []string{cfg.AppURL},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
	})

	return middleware.RequestIDMiddleware(middleware.LoggerMiddleware(c.Handler(mux))), db, nil
}
