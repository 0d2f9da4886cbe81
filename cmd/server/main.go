package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	redisv9 "github.com/redis/go-redis/v9"

	"shop_backend/internal/app/di"
	"shop_backend/internal/app/router"
	"shop_backend/internal/config"
	authusecase "shop_backend/internal/feature/auth/usecase"
	platformdb "shop_backend/internal/platform/db"
	platformredis "shop_backend/internal/platform/redis"
)

func main() {
	if err := run(); err != nil {
		slog.Error("server exited with error", "error", err)
		os.Exit(1)
	}
}

func run() error {
	configPath := flag.String("config", "", "path to YAML config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		return err
	}
	setupLogger(cfg.Log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// db
	db, err := platformdb.OpenDB(cfg.Database)
	if err != nil {
		return err
	}
	defer func() {
		if err := platformdb.Close(db); err != nil {
			slog.Error("failed to close DB", "error", err)
		}
	}()
	if cfg.Database.RunMigrations || cfg.Database.Dialect == config.DialectSQLite {
		if err := di.Migrate(db); err != nil {
			return err
		}
		slog.Info("database migrated")
	}

	// Redis
	var rdb *redisv9.Client
	if cfg.Redis.Enabled() {
		if tmp, err := platformredis.NewRedisClient(ctx, cfg.Redis); err != nil {
			slog.Warn("Redis unavailable. Running without cache.", "error", err)
		} else {
			rdb = tmp
			defer func() {
				if err := rdb.Close(); err != nil {
					slog.Error("failed to close Redis client", "error", err)
				}
			}()
		}
	}

	c, err := di.Build(ctx, cfg, db, rdb)
	if err != nil {
		return err
	}

	if !cfg.IsProduction() && cfg.Admin.Seed {
		if _, err := c.AdminSeeder.EnsureDefaultAdmin(ctx, cfg.Admin.Username, cfg.Admin.Email, cfg.Admin.Password); err != nil {
			return err
		}
	}

	if cfg.Session.PurgeEvery > 0 {
		go purgeSessions(ctx, c.SessionManager, cfg.Session.PurgeEvery)
	}

	srv := &http.Server{
		Addr:         cfg.Server.Address(),
		Handler:      router.NewRouter(cfg, c),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("server listening", "address", srv.Addr, "environment", cfg.App.Environment)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	slog.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func setupLogger(cfg config.LogConfig) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
		level = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: level}

	var h slog.Handler
	if strings.EqualFold(cfg.Format, "text") {
		h = slog.NewTextHandler(os.Stdout, opts)
	} else {
		h = slog.NewJSONHandler(os.Stdout, opts)
	}
	slog.SetDefault(slog.New(h))
}

// purgeSessions は期限切れセッションを定期的に削除します。Redisの場合はTTLで消えるため実質何もしません。
func purgeSessions(ctx context.Context, sessions *authusecase.SessionManager, every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := sessions.PurgeExpired(ctx)
			if err != nil {
				slog.Warn("failed to purge expired sessions", "error", err)
				continue
			}
			if n > 0 {
				slog.Info("purged expired sessions", "count", n)
			}
		}
	}
}
