package main

import (
	"context"
	"database/sql"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/xavierca1/signature-campaign/internal/config"
	"github.com/xavierca1/signature-campaign/internal/entity"
	"github.com/xavierca1/signature-campaign/internal/infra/database"
	"github.com/xavierca1/signature-campaign/internal/infra/filestore"
	"github.com/xavierca1/signature-campaign/internal/infra/http/handlers"
	"github.com/xavierca1/signature-campaign/internal/infra/http/router"
	"github.com/xavierca1/signature-campaign/internal/infra/mail"
	"github.com/xavierca1/signature-campaign/internal/infra/queue"
	"github.com/xavierca1/signature-campaign/internal/infra/roster"
	"github.com/xavierca1/signature-campaign/internal/pkg/logger"
	"github.com/xavierca1/signature-campaign/internal/usecase"
)

func main() {
	godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logg, err := logger.New(cfg.AppEnv)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer logg.Sync()

	ctx := context.Background()

	// 1. Store
	repo, closeStore, err := openStore(ctx, cfg, logg)
	if err != nil {
		logg.Fatal("signature store unavailable", "driver", cfg.StoreDriver, "error", err)
	}
	defer closeStore()

	// 2. Roster
	rosterLoader := roster.NewFileLoader(cfg.EmployeesFile)
	if r, err := rosterLoader.Roster(ctx); err != nil {
		logg.Warn("roster not loaded yet", "file", cfg.EmployeesFile, "error", err)
	} else {
		logg.Info("roster loaded", "employees", r.Len(), "hr", len(r.HREmails()), "board", len(r.BoardEmails()))
	}

	// 3. Mail and events
	transport := mail.NewSMTPTransport(mail.SMTPConfig{
		Host:               cfg.Mail.Host,
		Port:               cfg.Mail.Port,
		User:               cfg.Mail.User,
		Password:           cfg.Mail.Password,
		SSL:                cfg.Mail.Secure,
		VerifyCertificates: cfg.Mail.VerifyCertificates,
		FromName:           cfg.AppName,
	})
	tmpl, err := mail.NewApprovalTemplate()
	if err != nil {
		logg.Fatal("approval template", "error", err)
	}

	var publisher usecase.EventPublisher = queue.NoopPublisher{}
	var broker handlers.BrokerStatus
	if cfg.RabbitMQURL != "" {
		rabbitMQ, err := queue.NewRabbitMQ(cfg.RabbitMQURL)
		if err != nil {
			logg.Warn("rabbitmq unavailable, campaign events disabled", "error", err)
		} else {
			defer rabbitMQ.Close()
			publisher = queue.NewProducer(rabbitMQ.Ch)
			broker = rabbitMQ
		}
	}

	// 4. UseCases
	gate := usecase.NewNotificationGate()
	tracker := usecase.NewCampaignTracker(repo, rosterLoader, gate)
	if state, err := tracker.Refresh(ctx); err == nil {
		logg.Info("campaign state", "signed", state.Snapshot.SignedCount, "roster", state.Snapshot.RosterCount, "complete", state.Snapshot.IsComplete)
	}

	saveUC := usecase.NewSaveSignatureUseCase(repo, tracker, publisher, logg)
	listUC := usecase.NewListSignaturesUseCase(repo)
	clearUC := usecase.NewClearSignaturesUseCase(repo, tracker, publisher, logg)
	statusUC := usecase.NewCampaignStatusUseCase(tracker)
	resolveUC := usecase.NewResolveRoleUseCase(rosterLoader)
	notifyUC := usecase.NewNotifyApproversUseCase(
		tracker, transport, tmpl, publisher, logg,
		cfg.AdminEmail, cfg.AppName, cfg.FrontendURL, cfg.Mail.Timeout,
	)

	// 5. Handlers
	saveLimiter := handlers.NewRateLimiter(cfg.SaveRateLimit, time.Minute)
	defer saveLimiter.Stop()

	opts := router.Options{
		Signatures:    handlers.NewSignatureHandler(saveUC, listUC, clearUC, logg),
		Notifications: handlers.NewNotificationHandler(notifyUC, logg),
		Campaign:      handlers.NewCampaignHandler(statusUC, resolveUC, rosterLoader, logg),
		Health:        handlers.NewHealthHandler(repo, broker, rosterLoader),
		SaveLimiter:   saveLimiter,
		CORSOrigins:   cfg.CORSOrigins,
	}
	if cfg.IsProduction() {
		opts.StaticDir = cfg.StaticDir
	}

	// 6. Server
	server := &http.Server{
		Addr:              ":" + strconv.Itoa(cfg.Port),
		Handler:           router.New(opts),
		ReadHeaderTimeout: 10 * time.Second,
	}

	// signal.Notify requires the channel to be buffered
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-stop
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logg.Error("graceful shutdown failed", "error", err)
		}
	}()

	logg.Info("server listening",
		"port", cfg.Port,
		"env", cfg.AppEnv,
		"store", cfg.StoreDriver,
		"roster", cfg.EmployeesFile,
		"smtp", cfg.Mail.Host,
	)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logg.Error("server closed", "error", err)
		return
	}
	logg.Info("server stopped")
}

func openStore(ctx context.Context, cfg config.Config, logg *logger.Logger) (entity.SignatureRepository, func(), error) {
	switch cfg.StoreDriver {
	case config.DriverSQLite:
		db, err := database.NewSQLiteConnection(cfg.SQLitePath)
		if err != nil {
			return nil, nil, err
		}
		if err := database.CreateSQLiteSchema(ctx, db); err != nil {
			db.Close()
			return nil, nil, err
		}
		return database.NewSQLiteSignatureRepository(db), closeDB(db), nil

	case config.DriverPostgres:
		db, err := database.NewPostgresConnection(cfg.DatabaseURL)
		if err != nil {
			return nil, nil, err
		}
		if err := database.CreatePostgresSchema(ctx, db); err != nil {
			db.Close()
			return nil, nil, err
		}
		return database.NewPostgresSignatureRepository(db), closeDB(db), nil

	default:
		repo, err := filestore.NewSignatureRepository(cfg.SignaturesDir, logg.With("store", "file"))
		if err != nil {
			return nil, nil, err
		}
		return repo, func() {}, nil
	}
}

func closeDB(db *sql.DB) func() {
	return func() { db.Close() }
}
