package db_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/actionkit/pkg/db"
)

func TestConnect_InvalidConfig(t *testing.T) {
	t.Parallel()

	_, err := db.Connect(context.Background(), db.Config{ConnectionString: "postgres://%zz"})
	require.ErrorIs(t, err, db.ErrFailedToParseDBConfig)
}

func TestHealthcheck_NilPool(t *testing.T) {
	t.Parallel()

	require.ErrorIs(t, db.Healthcheck(nil)(context.Background()), db.ErrHealthcheckFailed)
}
