// cmd/api/main.go
package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"runtime/debug"
	"time"

	"github.com/parlohq/licenser/internal/auth"
	"github.com/parlohq/licenser/internal/config"
	"github.com/parlohq/licenser/internal/crm"
	"github.com/parlohq/licenser/internal/deliverability"
	"github.com/parlohq/licenser/internal/directory"
	"github.com/parlohq/licenser/internal/email"
	"github.com/parlohq/licenser/internal/handler"
	"github.com/parlohq/licenser/internal/identity"
	"github.com/parlohq/licenser/internal/middleware"
	"github.com/parlohq/licenser/internal/repository"
	"github.com/parlohq/licenser/internal/service"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "startup error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// Initialize structured logger
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level:     slog.LevelInfo,
		AddSource: true,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if a.Key == slog.TimeKey {
				return slog.Attr{
					Key:   a.Key,
					Value: slog.StringValue(a.Value.Time().Format(time.RFC3339)),
				}
			}
			return a
		},
	}))
	slog.SetDefault(logger)

	// Load configuration
	cfg := config.Load()

	// Initialize database
	db, err := setupDatabase(cfg)
	if err != nil {
		return fmt.Errorf("setting up database: %w", err)
	}

	// Initialize repositories
	orgRepo := repository.NewOrganizationRepository(db)
	allocRepo := repository.NewAllocationRepository(db)
	logRepo := repository.NewVerificationLogRepository(db)

	// Initialize auth services
	tokenManager := auth.NewTokenManager(cfg.JWT.Secret)

	// Initialize email service
	emailService, err := email.NewEmailService(cfg, email.ProviderSendgrid)
	if err != nil {
		log.Fatalf("Failed to initialize email service: %v", err)
	}

	// Initialize external clients
	directoryClient := directory.NewClient(&directory.Config{
		BaseURL:       cfg.Directory.BaseURL,
		APIKey:        cfg.Directory.APIKey,
		SessionCookie: cfg.Directory.SessionCookie,
		Timeout:       cfg.Directory.Timeout,
	})
	deliverabilityClient := deliverability.NewClient(&deliverability.Config{
		BaseURL: cfg.Deliverability.BaseURL,
		APIKey:  cfg.Deliverability.APIKey,
		Timeout: cfg.Deliverability.Timeout,
	})
	crmClient := crm.NewClient(&crm.Config{
		BaseURL: cfg.CRM.BaseURL,
		APIKey:  cfg.CRM.APIKey,
		Timeout: cfg.CRM.Timeout,
	})

	// Initialize identity verification
	formatter := identity.NewFormatter(cfg.License.DefaultCountryCode)
	verifier := identity.NewVerifier(formatter, directoryClient, deliverabilityClient, cfg.Directory.Timeout)
	verificationService := service.NewVerificationService(verifier, logRepo)

	// Initialize domain services
	allocationService := service.NewAllocationService(
		orgRepo,
		allocRepo,
		verificationService,
		emailService,
		directoryClient,
		crmClient,
		cfg,
	)
	bulkService := service.NewBulkValidationService(orgRepo, allocRepo, verificationService, cfg)
	poolService := service.NewPoolService(orgRepo, allocRepo, crmClient, cfg)

	// Initialize handlers
	licenseHandler := handler.NewLicenseHandler(allocationService, bulkService)
	orgHandler := handler.NewOrganizationHandler(poolService, verificationService)

	// Create router
	r := chi.NewRouter()

	// Basic middleware stack
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(loggingMiddleware(logger))
	r.Use(recoveryMiddleware(logger))
	r.Use(chimw.Timeout(60 * time.Second))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"https://*", "http://*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Health check endpoint
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"healthy"}`))
	})

	// API routes
	r.Route("/api", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(chimw.AllowContentType("application/json"))
			r.Use(middleware.AuthMiddleware(tokenManager))

			// License routes
			r.Route("/licenses", func(r chi.Router) {
				r.Post("/allocations", licenseHandler.AllocateHandler)
				r.Delete("/allocations/{id}", licenseHandler.DeallocateHandler)
				r.Post("/batches/validate", licenseHandler.ValidateBatchHandler)
				r.Post("/batches/commit", licenseHandler.CommitBatchHandler)
			})

			// Organization pool routes
			r.Route("/organizations", func(r chi.Router) {
				r.Post("/", orgHandler.CreatePoolHandler)
				r.Get("/by-campaign/{code}/pool", orgHandler.CampaignPoolHandler)
				r.Route("/{id}", func(r chi.Router) {
					r.Delete("/", orgHandler.DisablePoolHandler)
					r.Get("/pool", orgHandler.PoolStatusHandler)
					r.Put("/pool/seats", orgHandler.SetSeatsHandler)
					r.Post("/pool/reconcile", orgHandler.ReconcileHandler)
					r.Get("/dashboard", orgHandler.DashboardHandler)
					r.Get("/verifications", orgHandler.RecentVerificationsHandler)
					r.Route("/managers", func(r chi.Router) {
						r.Get("/", orgHandler.ListManagersHandler)
						r.Post("/", orgHandler.AddManagerHandler)
						r.Delete("/{email}", orgHandler.RemoveManagerHandler)
					})
				})
			})
		})
	})

	// Create server
	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           r,
		ReadTimeout:       cfg.Server.ReadTimeout,
		WriteTimeout:      cfg.Server.WriteTimeout,
		IdleTimeout:       120 * time.Second,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Server error channel
	serverErrors := make(chan error, 1)

	// Start server
	go func() {
		logger.Info("server starting", "port", cfg.Server.Port)
		serverErrors <- srv.ListenAndServe()
	}()

	// Shutdown channel
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt)

	// Wait for shutdown or error
	select {
	case err := <-serverErrors:
		return fmt.Errorf("server error: %w", err)

	case sig := <-shutdown:
		logger.Info("shutdown started", "signal", sig)

		// Give outstanding requests a deadline for completion
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		// Gracefully shutdown the server
		if err := srv.Shutdown(ctx); err != nil {
			// If shutdown times out, forcefully close
			srv.Close()
			return fmt.Errorf("could not stop server gracefully: %w", err)
		}
	}

	return nil
}

func setupDatabase(cfg *config.Config) (*gorm.DB, error) {
	dsn := fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s search_path=%s",
		cfg.Database.Host,
		cfg.Database.Port,
		cfg.Database.User,
		cfg.Database.Password,
		cfg.Database.Name,
		cfg.Database.SSLMode,
		cfg.Database.SearchPath,
	)

	gormConfig := &gorm.Config{
		Logger: logger.Default.LogMode(logger.Info),
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	}

	db, err := gorm.Open(postgres.Open(dsn), gormConfig)
	if err != nil {
		return nil, fmt.Errorf("connecting to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("getting database instance: %w", err)
	}

	// Configure connection pool
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(25)
	sqlDB.SetConnMaxLifetime(5 * time.Minute)
	sqlDB.SetConnMaxIdleTime(5 * time.Minute)

	// Verify connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := sqlDB.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("pinging database: %w", err)
	}

	return db, nil
}

func loggingMiddleware(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)

			defer func() {
				logger.Info("request completed",
					"method", r.Method,
					"path", r.URL.Path,
					"duration", time.Since(start),
					"status", ww.Status(),
					"size", ww.BytesWritten(),
					"requestID", chimw.GetReqID(r.Context()),
				)
			}()

			next.ServeHTTP(ww, r)
		})
	}
}

func recoveryMiddleware(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rvr := recover(); rvr != nil {
					err := errors.New("panic recovered")
					logger.Error("panic recovered",
						"error", err,
						"panic", rvr,
						"stack", string(debug.Stack()),
						"requestID", chimw.GetReqID(r.Context()),
					)

					w.Write([]byte("{\"error\":\"error encountered\"}"))
					return
				}
			}()

			next.ServeHTTP(w, r)
		})
	}
}
