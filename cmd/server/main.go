package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"

	_ "github.com/notekeep/notes-system/docs" // swagger docs
	"github.com/notekeep/notes-system/internal/api"
	"github.com/notekeep/notes-system/internal/api/metrics"
	"github.com/notekeep/notes-system/internal/core/service"
	"github.com/notekeep/notes-system/internal/infrastructure/config"
	mongodb "github.com/notekeep/notes-system/internal/infrastructure/db/mongo"
	redisdb "github.com/notekeep/notes-system/internal/infrastructure/db/redis"
	"github.com/notekeep/notes-system/internal/infrastructure/http/handlers"
	"github.com/notekeep/notes-system/internal/infrastructure/queue"
	"github.com/notekeep/notes-system/pkg/logger"
)

// @title Notes System API
// @version 1.0
// @description Personal notes with per-user ownership, soft delete and admin user management.
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and the token.
func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		// the logger is not configured yet
		bootLog := logger.Init(logger.Options{})
		bootLog.Fatal().Err(err).Msg("load config")
	}

	log := logger.Init(logger.Options{
		Level:  cfg.LogLevel,
		Pretty: cfg.IsDevelopment(),
	})

	if err := run(ctx, cfg, log); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}

func run(ctx context.Context, cfg *config.Config, log zerolog.Logger) error {
	// --- Storage ---
	mongoClient, db, err := mongodb.Connect(ctx, mongodb.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
	if err != nil {
		return err
	}
	defer func() {
		if err := mongoClient.Disconnect(context.Background()); err != nil {
			log.Warn().Err(err).Msg("mongo disconnect")
		}
	}()

	rdb, err := redisdb.Connect(ctx, redisdb.Config{Addr: cfg.Redis.Addr, Password: cfg.Redis.Password, DB: cfg.Redis.DB})
	if err != nil {
		return err
	}
	defer rdb.Close()

	userRepo := mongodb.NewUserRepository(db)
	noteRepo := mongodb.NewNoteRepository(db)
	auditRepo := mongodb.NewAuditRepository(db)
	if err := mongodb.EnsureIndexes(ctx, userRepo, noteRepo, auditRepo); err != nil {
		return err
	}

	// --- Audit pipeline ---
	workersCtx, cancelWorkers := context.WithCancel(context.Background())
	defer cancelWorkers()
	auditLog := logger.Component("audit")
	dispatcher := queue.NewDispatcher(cfg.Audit.Workers, service.NewAuditService(auditRepo, auditLog), metrics.AuditEventsDroppedTotal, auditLog)
	dispatcher.Start(workersCtx)

	// --- Services ---
	hasher, err := service.NewPasswordHasher(cfg.Auth.PasswordHasher)
	if err != nil {
		return err
	}
	tokens := service.NewTokenService(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL, nil)
	sessions := redisdb.NewSessionStore(rdb)

	authService := service.NewAuthService(userRepo, hasher, tokens, sessions, dispatcher, log)
	noteService := service.NewNoteService(noteRepo, log)
	userService := service.NewUserService(userRepo, hasher, sessions, dispatcher, log)

	if cfg.BootstrapAdmin() {
		if err := userService.EnsureAdmin(ctx, cfg.Bootstrap.AdminUsername, cfg.Bootstrap.AdminPassword); err != nil {
			return err
		}
	}

	e := api.NewRouter(api.Deps{
		AuthService: authService,
		NoteService: noteService,
		UserService: userService,
		Readiness: map[string]handlers.Pinger{
			"mongodb": mongodb.Pinger{Client: mongoClient},
			"redis":   redisdb.Pinger{Client: rdb},
		},
		Log: logger.Component("http"),
	})

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("server starting")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	return e.Shutdown(shutdownCtx)
}
