//go:build integration

package session_test

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/actionkit/pkg/db"
	"github.com/dmitrymomot/actionkit/pkg/logger"
	"github.com/dmitrymomot/actionkit/pkg/session"
)

func TestPostgresStore(t *testing.T) {
	url := os.Getenv("TEST_DATABASE_URL")
	if url == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	ctx := context.Background()
	pool, err := db.Connect(ctx, db.Config{ConnectionString: url, RetryAttempts: 1})
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	require.NoError(t, session.Migrate(ctx, pool, session.PostgresConfig{}, logger.NewNope()))
	_, err = pool.Exec(ctx, `TRUNCATE sessions`)
	require.NoError(t, err)

	store := session.NewPostgresStore(pool)
	testStore(t, store)

	n, err := store.DeleteExpired(ctx)
	require.NoError(t, err)
	require.GreaterOrEqual(t, n, int64(0))
}
