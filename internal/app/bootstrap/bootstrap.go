package bootstrap

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	forumservice "moringadesk/contexts/community-qa/forum-service"
	forumpostgres "moringadesk/contexts/community-qa/forum-service/adapters/postgres"
	auth "moringadesk/contexts/identity-access/auth-service"
	"moringadesk/contexts/identity-access/auth-service/adapters/notify"
	authpostgres "moringadesk/contexts/identity-access/auth-service/adapters/postgres"
	"moringadesk/contexts/identity-access/auth-service/adapters/security"
	"moringadesk/internal/platform/config"
	"moringadesk/internal/platform/db"
	"moringadesk/internal/platform/httpserver"

	"golang.org/x/crypto/bcrypt"
)

// Package bootstrap is the composition root.
// Keep construction/wiring here so module code stays framework-agnostic.

type APIApp struct {
	server   *httpserver.Server
	database *db.Database
	logger   *slog.Logger
}

func BuildAPI() (*APIApp, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	logger := slog.Default().With("service", cfg.ServiceName, "process", "api")

	database, err := db.Connect(cfg, logger)
	if err != nil {
		return nil, err
	}
	if cfg.AutoMigrate {
		if err := migrate(database, logger); err != nil {
			_ = database.Close()
			return nil, err
		}
	}

	forum := forumservice.NewModule(forumservice.Dependencies{
		Store:  forumpostgres.NewStore(database.DB, logger),
		Clock:  forumpostgres.SystemClock{},
		IDGen:  forumpostgres.UUIDGenerator{},
		Logger: logger,
	})

	clock := authpostgres.SystemClock{}
	authModule := auth.NewModule(auth.Dependencies{
		Store:  authpostgres.NewStore(database.DB, logger),
		Hasher: security.BcryptHasher{Cost: bcrypt.DefaultCost},
		Tokens: security.JWTIssuer{
			Secret: []byte(cfg.JWTSecret),
			Issuer: cfg.JWTIssuer,
			TTL:    cfg.AccessTokenTTL,
			Clock:  clock,
		},
		ResetTokens: security.RandomResetTokens{},
		Sender:      notify.LogSender{Logger: logger},
		Content:     ForumContentBridge{Forum: forum},
		Clock:       clock,
		IDGen:       authpostgres.UUIDGenerator{},
		ResetTTL:    cfg.PasswordResetTTL,
		Logger:      logger,
	})

	// Read-only name lookups flow auth to forum; the forum never imports auth.
	forum.Handler.Authors = authModule.Handler.Identity

	if err := seedAdmin(authModule, cfg.SeedAdminEmail, logger); err != nil {
		_ = database.Close()
		return nil, err
	}

	server := httpserver.New(forum, authModule, logger, normalizeAddr(cfg.HTTPPort), httpserver.Options{
		CORSAllowedOrigins: cfg.CORSAllowedOrigins,
		PoolStats:          database.PoolStats,
	})
	return &APIApp{
		server:   server,
		database: database,
		logger:   logger,
	}, nil
}

func migrate(database *db.Database, logger *slog.Logger) error {
	if err := authpostgres.Migrate(database.DB); err != nil {
		return err
	}
	if err := forumpostgres.Migrate(database.DB); err != nil {
		return err
	}
	logger.Info("schema migrated",
		"event", "bootstrap_schema_migrated",
		"module", "internal/app/bootstrap",
		"layer", "platform",
		"driver", database.Driver,
	)
	return nil
}

// seedAdmin promotes an already registered account. A missing account is
// logged and skipped so the first boot does not depend on registration order.
func seedAdmin(module auth.Module, email string, logger *slog.Logger) error {
	if strings.TrimSpace(email) == "" {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	promoted, err := module.Handler.AdminUsers.PromoteAdmin(ctx, email)
	if err != nil {
		return err
	}
	logger.Info("seed admin checked",
		"event", "bootstrap_seed_admin",
		"module", "internal/app/bootstrap",
		"layer", "platform",
		"promoted", promoted,
	)
	return nil
}

// Run serves until ctx is cancelled, then drains in-flight requests.
func (a *APIApp) Run(ctx context.Context) error {
	if a.logger != nil {
		a.logger.Info("api app started",
			"event", "bootstrap_api_started",
			"module", "internal/app/bootstrap",
			"layer", "platform",
		)
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- a.server.Start()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := a.server.Shutdown(shutdownCtx); err != nil && !errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	return <-errCh
}

func (a *APIApp) Close() error {
	if a.database != nil {
		return a.database.Close()
	}
	return nil
}

func normalizeAddr(port string) string {
	value := strings.TrimSpace(port)
	if value == "" {
		return ":8080"
	}
	if strings.HasPrefix(value, ":") {
		return value
	}
	return ":" + value
}
