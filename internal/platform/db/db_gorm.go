// Package db opens the gorm connection for the configured SQL dialect.
package db

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	gmysql "gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"shop_backend/internal/config"
)

// retryInterval は接続リトライの待機時間です。
var retryInterval = 3 * time.Second

// Opener opens a gorm connection for a DSN. It is swapped out in tests.
type Opener func(dsn string) (*gorm.DB, error)

// BuildDSN はダイアレクトに応じた接続文字列を生成します。
// DATABASE_URL が設定されている場合はそれをそのまま使用します。
func BuildDSN(cfg config.DatabaseConfig) string {
	if cfg.Dialect == config.DialectSQLite {
		return cfg.SQLitePath
	}
	if cfg.URL != "" {
		return cfg.URL
	}

	switch cfg.Dialect {
	case config.DialectMySQL:
		if cfg.InstanceName != "" {
			return fmt.Sprintf("%s:%s@unix(/cloudsql/%s)/%s?charset=utf8mb4&parseTime=true&loc=Local",
				cfg.User, cfg.Password, cfg.InstanceName, cfg.Name)
		}
		return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=true&loc=Local",
			cfg.User, cfg.Password, cfg.Host, cfg.Port, cfg.Name)
	default:
		host := cfg.Host
		if cfg.InstanceName != "" {
			host = "/cloudsql/" + cfg.InstanceName
		}
		port := cfg.Port
		if port == "" {
			port = "5432"
		}
		return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s",
			host, cfg.User, cfg.Password, cfg.Name, port, cfg.SSLMode)
	}
}

// NewOpener returns the Opener for the configured dialect.
func NewOpener(cfg config.DatabaseConfig) (Opener, error) {
	gormCfg := &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Warn),
	}

	switch cfg.Dialect {
	case config.DialectPostgres:
		return func(dsn string) (*gorm.DB, error) { return gorm.Open(postgres.Open(dsn), gormCfg) }, nil
	case config.DialectMySQL:
		return func(dsn string) (*gorm.DB, error) { return gorm.Open(gmysql.Open(dsn), gormCfg) }, nil
	case config.DialectSQLite:
		return func(dsn string) (*gorm.DB, error) { return gorm.Open(sqlite.Open(dsn), gormCfg) }, nil
	default:
		return nil, fmt.Errorf("unsupported dialect %q", cfg.Dialect)
	}
}

// ConnectWithRetry は接続に成功するかタイムアウトするまで retryInterval 間隔で再試行します。
func ConnectWithRetry(dsn string, timeout time.Duration, open Opener) (*gorm.DB, error) {
	deadline := time.Now().Add(timeout)
	for {
		db, err := open(dsn)
		if err == nil {
			return db, nil
		}
		if time.Now().After(deadline) {
			return nil, fmt.Errorf("db connect failed after %s: %w", timeout, err)
		}
		slog.Warn("DB connect failed, retrying", "error", err, "retry_in", retryInterval)
		time.Sleep(retryInterval)
	}
}

// OpenDB connects to the configured database and applies pool settings.
func OpenDB(cfg config.DatabaseConfig) (*gorm.DB, error) {
	open, err := NewOpener(cfg)
	if err != nil {
		return nil, err
	}

	db, err := ConnectWithRetry(BuildDSN(cfg), cfg.ConnectTimeout, open)
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("get sql.DB: %w", err)
	}
	if cfg.Dialect == config.DialectSQLite {
		// SQLite allows a single writer.
		sqlDB.SetMaxOpenConns(1)
	} else {
		if cfg.MaxOpenConns > 0 {
			sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
		}
		if cfg.MaxIdleConns > 0 {
			sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
		}
	}

	slog.Info("DB connection successful", "dialect", cfg.Dialect)
	return db, nil
}

// Close releases the underlying connection pool.
func Close(db *gorm.DB) error {
	if db == nil {
		return errors.New("nil db")
	}
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
