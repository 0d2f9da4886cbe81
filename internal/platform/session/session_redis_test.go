package session

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shop_backend/internal/feature/auth/domain/entity"
	"shop_backend/internal/feature/auth/usecase"
)

// setupTestRedis creates a miniredis instance for testing.
func setupTestRedis(t *testing.T) (*redis.Client, *miniredis.Miniredis) {
	t.Helper()

	mr, err := miniredis.Run()
	require.NoError(t, err, "failed to start miniredis")

	client := redis.NewClient(&redis.Options{
		Addr: mr.Addr(),
	})

	t.Cleanup(func() {
		_ = client.Close()
		mr.Close()
	})

	return client, mr
}

// createTestSession creates a session entity for testing.
func createTestSession(id string, kind entity.Kind, subjectID uint, expiresIn time.Duration) *entity.Session {
	now := time.Now()
	return &entity.Session{
		ID:        id,
		Kind:      kind,
		SubjectID: subjectID,
		Username:  "mario",
		Role:      entity.RoleUser,
		UserAgent: "test-agent",
		IPAddress: "127.0.0.1",
		CreatedAt: now,
		ExpiresAt: now.Add(expiresIn),
	}
}

func TestNewSessionRedis(t *testing.T) {
	client, _ := setupTestRedis(t)

	assert.Equal(t, "session", NewSessionRedis(client, "").prefix)
	assert.Equal(t, "custom", NewSessionRedis(client, "custom").prefix)
}

func TestSessionRedis_Create(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		session *entity.Session
		wantErr bool
	}{
		{
			name:    "success: create session",
			session: createTestSession("session-001", entity.KindUser, 1, 24*time.Hour),
			wantErr: false,
		},
		{
			name:    "failure: expired session",
			session: createTestSession("expired-session", entity.KindUser, 1, -1*time.Hour),
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			client, mr := setupTestRedis(t)
			repo := NewSessionRedis(client, "session")

			err := repo.Create(context.Background(), tt.session)

			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)

			// Verify session exists in Redis with a TTL
			assert.True(t, mr.Exists("session:session-001"))
			ttl := mr.TTL("session:session-001")
			assert.Greater(t, ttl, 23*time.Hour)

			// Verify session ID is in the account's session set
			isMember, err := client.SIsMember(context.Background(), "session:user:1", "session-001").Result()
			assert.NoError(t, err)
			assert.True(t, isMember)
		})
	}
}

func TestSessionRedis_FindByID(t *testing.T) {
	t.Parallel()

	client, _ := setupTestRedis(t)
	repo := NewSessionRedis(client, "session")
	ctx := context.Background()
	want := createTestSession("find-me", entity.KindAdmin, 3, time.Hour)
	require.NoError(t, repo.Create(ctx, want))

	got, err := repo.FindByID(ctx, "find-me")
	require.NoError(t, err)
	assert.Equal(t, want.Identity(), got.Identity())
	assert.WithinDuration(t, want.ExpiresAt, got.ExpiresAt, time.Millisecond)

	_, err = repo.FindByID(ctx, "missing")
	assert.ErrorIs(t, err, usecase.ErrSessionNotFound)
}

func TestSessionRedis_Expiry(t *testing.T) {
	t.Parallel()

	client, mr := setupTestRedis(t)
	repo := NewSessionRedis(client, "session")
	ctx := context.Background()
	require.NoError(t, repo.Create(ctx, createTestSession("short", entity.KindUser, 1, time.Minute)))

	mr.FastForward(2 * time.Minute)

	_, err := repo.FindByID(ctx, "short")
	assert.ErrorIs(t, err, usecase.ErrSessionNotFound)

	deleted, err := repo.DeleteExpired(ctx)
	assert.NoError(t, err)
	assert.Zero(t, deleted)
}

func TestSessionRedis_Delete(t *testing.T) {
	t.Parallel()

	client, mr := setupTestRedis(t)
	repo := NewSessionRedis(client, "session")
	ctx := context.Background()
	require.NoError(t, repo.Create(ctx, createTestSession("bye", entity.KindUser, 1, time.Hour)))

	require.NoError(t, repo.Delete(ctx, "bye"))
	assert.False(t, mr.Exists("session:bye"))

	isMember, err := client.SIsMember(ctx, "session:user:1", "bye").Result()
	require.NoError(t, err)
	assert.False(t, isMember)

	// idempotent
	assert.NoError(t, repo.Delete(ctx, "bye"))
}

func TestSessionRedis_DeleteAllBySubject(t *testing.T) {
	t.Parallel()

	client, mr := setupTestRedis(t)
	repo := NewSessionRedis(client, "session")
	ctx := context.Background()
	require.NoError(t, repo.Create(ctx, createTestSession("u1-a", entity.KindUser, 1, time.Hour)))
	require.NoError(t, repo.Create(ctx, createTestSession("u1-b", entity.KindUser, 1, time.Hour)))
	require.NoError(t, repo.Create(ctx, createTestSession("a1", entity.KindAdmin, 1, time.Hour)))

	require.NoError(t, repo.DeleteAllBySubject(ctx, entity.KindUser, 1))

	assert.False(t, mr.Exists("session:u1-a"))
	assert.False(t, mr.Exists("session:u1-b"))
	assert.False(t, mr.Exists("session:user:1"))
	assert.True(t, mr.Exists("session:a1"))

	// no sessions left is fine
	assert.NoError(t, repo.DeleteAllBySubject(ctx, entity.KindUser, 1))
}
