package cli

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"catalog-admin/internal/apiclient"
	"catalog-admin/internal/credentials"
	"catalog-admin/internal/dashboard"
	"catalog-admin/internal/database"
	"catalog-admin/internal/forms"
	"catalog-admin/internal/handlers"
	"catalog-admin/internal/pages"
	"catalog-admin/internal/repository"
	"catalog-admin/internal/routes"
	"catalog-admin/internal/services"
	"catalog-admin/internal/utils"
)

const version = "1.0.0"

func NewServeCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the admin console",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), rootOpts)
		},
	}
}

func runServe(ctx context.Context, opts *RootOptions) error {
	cfg, log := opts.Config, opts.Logger

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	rdb, err := database.NewRedisClient(database.RedisConfig{
		Addr:     cfg.RedisAddr(),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		return fmt.Errorf("failed to connect to redis: %w", err)
	}
	defer func() {
		if err := rdb.Close(); err != nil {
			log.Errorf("Error closing redis connection: %v", err)
		}
	}()
	sessionStore := credentials.NewSessionStore(rdb.Client, cfg.Session.TTL)

	checks := map[string]handlers.HealthCheck{"redis": rdb.Health}

	audit := services.NewAuditService(nil, log)
	if cfg.Database.Enabled {
		db, err := database.Connect(cfg.Database)
		if err != nil {
			return err
		}
		defer func() {
			if err := db.Close(); err != nil {
				log.Errorf("Error closing database connection: %v", err)
			}
		}()
		if err := db.Migrate(); err != nil {
			return err
		}
		audit = services.NewAuditService(repository.NewAuditRepository(db), log)
		checks["database"] = func(context.Context) error { return db.HealthCheck() }
	}

	var objects handlers.ObjectStore
	var stager forms.Uploader
	if cfg.MinIO.Enabled {
		minioService, err := services.NewMinIOService(&cfg.MinIO, log)
		if err != nil {
			return fmt.Errorf("failed to initialize MinIO service: %w", err)
		}
		objects = minioService
		checks["minio"] = minioService.Health
		if cfg.MinIO.StageVideos {
			stager = minioService
		}
	}

	workspaces := dashboard.NewWorkspaces(cfg.Session.WorkspaceTTL, func(sessionID string) dashboard.ScreenFactory {
		client := apiclient.New(cfg.BaseURL(), sessionStore.For(sessionID),
			apiclient.WithTimeout(cfg.API.HTTPTimeout),
			apiclient.WithLogger(log),
		)
		return &pages.Factory{
			Catalog:     apiclient.NewCatalog(client),
			Limit:       cfg.API.PageLimit,
			Logger:      log,
			Observer:    audit,
			VideoStager: stager,
		}
	}, log)

	nav, err := dashboard.LoadNavigation()
	if err != nil {
		return err
	}
	renderer, err := handlers.NewRenderer(log)
	if err != nil {
		return err
	}

	sessions := handlers.NewSessions(sessionStore, workspaces, handlers.SessionConfig{
		CookieName: cfg.Session.CookieName,
		TTL:        cfg.Session.TTL,
		Secure:     !cfg.IsDevelopment(),
	}, log)
	console := handlers.NewConsoleHandler(nav, renderer, log)

	app := fiber.New(fiber.Config{
		AppName:      "Catalog Admin",
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  120 * time.Second,
		BodyLimit:    cfg.Server.BodyLimit,
		ErrorHandler: utils.NewErrorHandler(log, console.ErrorPage),
	})

	setupMiddleware(app)

	routes.Setup(app, routes.Handlers{
		Sessions: sessions,
		Auth:     handlers.NewAuthHandler(sessions, renderer, log),
		Console:  console,
		Audit:    handlers.NewAuditHandler(audit, console, log),
		Upload:   handlers.NewUploadHandler(objects, nav, log),
		Health:   handlers.NewHealthHandler(checks, version, log),
	})

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go workspaces.Run(ctx, time.Minute)
	go gracefulShutdown(ctx, app, opts)

	log.WithFields(logrus.Fields{
		"port":    cfg.Server.Port,
		"api":     cfg.BaseURL(),
		"audit":   audit.Enabled(),
		"uploads": objects != nil,
	}).Info("Catalog admin console starting")

	if err := app.Listen(":" + cfg.Server.Port); err != nil {
		return fmt.Errorf("failed to start HTTP server: %w", err)
	}
	return nil
}

func setupMiddleware(app *fiber.App) {
	app.Use(recover.New(recover.Config{
		EnableStackTrace: true,
	}))

	// Logger middleware
	app.Use(logger.New(logger.Config{
		Format:     "${time} | ${status} | ${latency} | ${ip} | ${method} | ${path} | ${error}\n",
		TimeFormat: "15:04:05",
		TimeZone:   "Local",
	}))
}

func gracefulShutdown(ctx context.Context, app *fiber.App, opts *RootOptions) {
	<-ctx.Done()

	opts.Logger.Info("Shutting down server...")

	if err := app.ShutdownWithTimeout(30 * time.Second); err != nil {
		opts.Logger.Errorf("Error during shutdown: %v", err)
	}

	opts.Logger.Info("Server stopped")
}
