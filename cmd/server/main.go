package main

import (
	"context"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/sakshiot4/UrbanWatch-plus/internal/config"
	"github.com/sakshiot4/UrbanWatch-plus/internal/db"
	httpHandlers "github.com/sakshiot4/UrbanWatch-plus/internal/http/handlers"
	httpRouter "github.com/sakshiot4/UrbanWatch-plus/internal/http/router"
	"github.com/sakshiot4/UrbanWatch-plus/internal/logger"
	"github.com/sakshiot4/UrbanWatch-plus/internal/notify"
	"github.com/sakshiot4/UrbanWatch-plus/internal/repository"
	"github.com/sakshiot4/UrbanWatch-plus/internal/service"
	"github.com/sakshiot4/UrbanWatch-plus/internal/storage"
	"github.com/sakshiot4/UrbanWatch-plus/internal/ws"
)

func main() {
	// Context for graceful shutdown.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("main: cannot load configuration: %v", err)
	}

	if cfg.Env == "development" {
		logger.Init("debug")
		logger.SetTextFormatter()
	} else {
		logger.Init("info")
	}

	dbConn, err := db.NewPostgres(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("main: cannot connect to database: %v", err)
	}
	defer safeClose(dbConn)

	if err := db.RunMigrations(ctx, dbConn, cfg.MigrationsPath); err != nil {
		log.Fatalf("main: migrations failed: %v", err)
	}

	tokenManager := service.NewTokenManager(cfg.JWTSecret, cfg.RefreshSecret, cfg.AccessTokenTTL, cfg.RefreshTokenTTL)

	photoStorage, err := storage.NewPhotoStorage(cfg.MediaStoragePath, cfg.MaxUploadSizeMB)
	if err != nil {
		log.Fatalf("main: cannot prepare media storage: %v", err)
	}

	// Outgoing email. Without SMTP settings notifications land in the log.
	var sender notify.Sender
	if cfg.SMTPHost != "" {
		sender = notify.NewSMTPSender(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPassword, cfg.EmailFrom)
	} else {
		sender = &notify.LogSender{}
	}
	notifier := notify.New(sender, cfg.NotifyQueue, cfg.NotifyWorkers)

	// Repositories.
	userRepo := repository.NewUserRepository(dbConn)
	citizenRepo := repository.NewCitizenRepository(dbConn)
	officerRepo := repository.NewOfficerRepository(dbConn)
	contractorRepo := repository.NewContractorRepository(dbConn)
	complaintRepo := repository.NewComplaintRepository(dbConn)
	notificationRepo := repository.NewNotificationRepository(dbConn)

	// Websockets.
	hub := ws.NewHub(ctx)
	go hub.Run()

	// Services.
	authService := service.NewAuthService(userRepo, citizenRepo, officerRepo, contractorRepo, tokenManager)
	notificationService := service.NewNotificationService(notificationRepo)
	contractorService := service.NewContractorService(contractorRepo, notifier)
	complaintService := service.NewComplaintService(complaintRepo, contractorRepo, citizenRepo, officerRepo, userRepo, notifier, hub)
	trackingService := service.NewTrackingService(complaintRepo)
	seedService := service.NewSeedService(userRepo, citizenRepo, officerRepo, contractorRepo, complaintRepo)

	hub.SetNotificationSaver(ws.NewNotificationServiceAdapter(notificationService))

	// HTTP handlers.
	authHandler := httpHandlers.NewAuthHandler(authService)
	complaintHandler := httpHandlers.NewComplaintHandler(complaintService, authService)
	officerHandler := httpHandlers.NewOfficerHandler(complaintService, contractorService, authService)
	contractorHandler := httpHandlers.NewContractorHandler(complaintService, authService)
	trackingHandler := httpHandlers.NewTrackingHandler(trackingService)
	mediaHandler := httpHandlers.NewMediaHandler(photoStorage)
	notificationHandler := httpHandlers.NewNotificationHandler(notificationService)
	wsHandler := httpHandlers.NewWSHandler(hub, tokenManager)
	healthHandler := httpHandlers.NewHealthHandler(dbConn)
	seedHandler := httpHandlers.NewSeedHandler(seedService)

	engine := httpRouter.SetupRouter(
		cfg,
		authHandler,
		complaintHandler,
		officerHandler,
		contractorHandler,
		trackingHandler,
		mediaHandler,
		notificationHandler,
		wsHandler,
		healthHandler,
		seedHandler,
		tokenManager,
	)

	server := &http.Server{
		Addr:    ":" + cfg.HTTPPort,
		Handler: engine,
	}

	// Stop the server when a signal arrives.
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			log.Printf("main: http server shutdown error: %v", err)
		}
		notifier.Close(shutdownCtx)
	}()

	log.Printf("main: HTTP server listening on port %s", cfg.HTTPPort)

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("main: server exited with error: %v", err)
	}
}

// safeClose closes the database connection.
func safeClose(db *sqlx.DB) {
	if err := db.Close(); err != nil {
		log.Printf("main: error closing database: %v", err)
	}
}
