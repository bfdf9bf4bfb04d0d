package postgresql

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

func setupStorage(t *testing.T) *Storage {
	if testing.Short() {
		t.Skip("skipping postgres container test in short mode")
	}
	ctx := context.Background()

	pgContainer, err := postgres.Run(ctx,
		"postgres:15-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second)),
	)
	require.NoError(t, err)
	t.Cleanup(func() {
		if err := pgContainer.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %s", err)
		}
	})

	connStr, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	storage, err := New(ctx, connStr)
	require.NoError(t, err, "failed to connect test db")
	t.Cleanup(func() { _ = storage.Close() })
	return storage
}

func TestStorage_SetGetOverwrite(t *testing.T) {
	storage := setupStorage(t)
	ctx := context.Background()

	_, found, err := storage.Get(ctx, "profileVersion")
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, storage.Set(ctx, "profileVersion", "1"))
	require.NoError(t, storage.Set(ctx, "profileVersion", "2"))

	got, found, err := storage.Get(ctx, "profileVersion")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "2", got)
}

func TestStorage_DeleteMany(t *testing.T) {
	storage := setupStorage(t)
	ctx := context.Background()

	require.NoError(t, storage.Set(ctx, "token", "tok"))
	require.NoError(t, storage.Set(ctx, "profile", "{}"))
	require.NoError(t, storage.Set(ctx, "adminToken", "adm"))

	require.NoError(t, storage.Delete(ctx, "token", "profile"))

	_, found, err := storage.Get(ctx, "token")
	require.NoError(t, err)
	assert.False(t, found)

	_, found, err = storage.Get(ctx, "adminToken")
	require.NoError(t, err)
	assert.True(t, found)
}
