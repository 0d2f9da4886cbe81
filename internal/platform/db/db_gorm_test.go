package db

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"shop_backend/internal/config"
)

// TestBuildDSN はダイアレクトごとの接続文字列が正しく生成されることを検証します。
func TestBuildDSN(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		cfg      config.DatabaseConfig
		expected string
	}{
		{
			name: "mysql tcp",
			cfg: config.DatabaseConfig{
				Dialect: config.DialectMySQL, User: "testuser", Password: "testpass",
				Name: "testdb", Host: "localhost", Port: "3306",
			},
			expected: "testuser:testpass@tcp(localhost:3306)/testdb?charset=utf8mb4&parseTime=true&loc=Local",
		},
		{
			name: "mysql cloud sql takes precedence",
			cfg: config.DatabaseConfig{
				Dialect: config.DialectMySQL, User: "testuser", Password: "testpass",
				Name: "testdb", Host: "localhost", Port: "3306", InstanceName: "project:region:instance",
			},
			expected: "testuser:testpass@unix(/cloudsql/project:region:instance)/testdb?charset=utf8mb4&parseTime=true&loc=Local",
		},
		{
			name: "postgres discrete fields",
			cfg: config.DatabaseConfig{
				Dialect: config.DialectPostgres, User: "shop", Password: "secret",
				Name: "shop", Host: "db", SSLMode: "disable",
			},
			expected: "host=db user=shop password=secret dbname=shop port=5432 sslmode=disable",
		},
		{
			name: "postgres url wins",
			cfg: config.DatabaseConfig{
				Dialect: config.DialectPostgres, URL: "postgres://u:p@h:5432/d", Host: "ignored",
			},
			expected: "postgres://u:p@h:5432/d",
		},
		{
			name:     "sqlite path",
			cfg:      config.DatabaseConfig{Dialect: config.DialectSQLite, SQLitePath: "./shop.db", URL: "ignored"},
			expected: "./shop.db",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.expected, BuildDSN(tt.cfg))
		})
	}
}

// TestNewOpener_UnsupportedDialect は未対応のダイアレクトでエラーが返されることを検証します。
func TestNewOpener_UnsupportedDialect(t *testing.T) {
	t.Parallel()

	_, err := NewOpener(config.DatabaseConfig{Dialect: "oracle"})
	assert.Error(t, err)
}

// TestConnectWithRetry_SuccessOnFirstTry は初回接続成功時にリトライせずDBを返すことを検証します。
func TestConnectWithRetry_SuccessOnFirstTry(t *testing.T) {
	mockDB := &gorm.DB{}
	opener := func(dsn string) (*gorm.DB, error) {
		return mockDB, nil
	}

	db, err := ConnectWithRetry("test-dsn", 5*time.Second, opener)

	require.NoError(t, err)
	assert.Same(t, mockDB, db)
}

// TestConnectWithRetry_RetriesOnFailure は接続失敗時にリトライして最終的に成功することを検証します。
func TestConnectWithRetry_RetriesOnFailure(t *testing.T) {
	orig := retryInterval
	retryInterval = 10 * time.Millisecond
	t.Cleanup(func() { retryInterval = orig })

	mockDB := &gorm.DB{}
	attemptCount := 0
	opener := func(dsn string) (*gorm.DB, error) {
		attemptCount++
		if attemptCount < 3 {
			return nil, errors.New("connection refused")
		}
		return mockDB, nil
	}

	db, err := ConnectWithRetry("test-dsn", time.Second, opener)

	require.NoError(t, err)
	assert.Same(t, mockDB, db)
	assert.Equal(t, 3, attemptCount)
}

// TestConnectWithRetry_TimeoutAfterRetries はタイムアウト後にエラーが返されることを検証します。
func TestConnectWithRetry_TimeoutAfterRetries(t *testing.T) {
	orig := retryInterval
	retryInterval = 10 * time.Millisecond
	t.Cleanup(func() { retryInterval = orig })

	attemptCount := 0
	opener := func(dsn string) (*gorm.DB, error) {
		attemptCount++
		return nil, errors.New("connection refused")
	}

	_, err := ConnectWithRetry("test-dsn", 50*time.Millisecond, opener)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "connection refused")
	assert.Positive(t, attemptCount)
}

// TestOpenDB_SQLite はSQLiteでの接続とプール設定が行われることを検証します。
func TestOpenDB_SQLite(t *testing.T) {
	db, err := OpenDB(config.DatabaseConfig{
		Dialect:        config.DialectSQLite,
		SQLitePath:     ":memory:",
		ConnectTimeout: time.Second,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = Close(db) })

	sqlDB, err := db.DB()
	require.NoError(t, err)
	assert.Equal(t, 1, sqlDB.Stats().MaxOpenConnections)
}

// TestIsDuplicateKey は各ダイアレクトの一意制約違反が検出されることを検証します。
func TestIsDuplicateKey(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		err      error
		expected bool
	}{
		{"nil", nil, false},
		{"gorm translated", gorm.ErrDuplicatedKey, true},
		{"wrapped gorm translated", fmt.Errorf("create: %w", gorm.ErrDuplicatedKey), true},
		{"mysql 1062", &mysql.MySQLError{Number: 1062, Message: "Duplicate entry"}, true},
		{"mysql other", &mysql.MySQLError{Number: 1045}, false},
		{"postgres 23505", &pgconn.PgError{Code: "23505"}, true},
		{"postgres other", &pgconn.PgError{Code: "23503"}, false},
		{"sqlite message", errors.New("UNIQUE constraint failed: registros.correo"), true},
		{"other", errors.New("connection reset"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.expected, IsDuplicateKey(tt.err))
		})
	}
}

type counterRow struct {
	ID    uint `gorm:"primaryKey"`
	Value int
}

func setupTxDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.AutoMigrate(&counterRow{}))
	return db
}

// TestTransactor_CommitAndRollback はエラー時にロールバックされ、成功時にコミットされることを検証します。
func TestTransactor_CommitAndRollback(t *testing.T) {
	db := setupTxDB(t)
	tr := NewTransactor(db)
	ctx := context.Background()

	err := tr.WithinTransaction(ctx, func(ctx context.Context) error {
		return Conn(ctx, db).Create(&counterRow{Value: 1}).Error
	})
	require.NoError(t, err)

	boom := errors.New("boom")
	err = tr.WithinTransaction(ctx, func(ctx context.Context) error {
		if err := Conn(ctx, db).Create(&counterRow{Value: 2}).Error; err != nil {
			return err
		}
		return boom
	})
	assert.ErrorIs(t, err, boom)

	var count int64
	require.NoError(t, db.Model(&counterRow{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

// TestTransactor_Nested はネストした呼び出しが外側のトランザクションに参加することを検証します。
func TestTransactor_Nested(t *testing.T) {
	db := setupTxDB(t)
	tr := NewTransactor(db)

	err := tr.WithinTransaction(context.Background(), func(ctx context.Context) error {
		if err := Conn(ctx, db).Create(&counterRow{Value: 1}).Error; err != nil {
			return err
		}
		return tr.WithinTransaction(ctx, func(inner context.Context) error {
			if err := Conn(inner, db).Create(&counterRow{Value: 2}).Error; err != nil {
				return err
			}
			return errors.New("inner failure")
		})
	})
	require.Error(t, err)

	var count int64
	require.NoError(t, db.Model(&counterRow{}).Count(&count).Error)
	assert.Zero(t, count)
}
