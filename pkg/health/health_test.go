package health_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/actionkit/pkg/health"
	"github.com/dmitrymomot/actionkit/pkg/redis"
)

func TestRun(t *testing.T) {
	t.Parallel()

	t.Run("no checks", func(t *testing.T) {
		t.Parallel()
		rep := health.Run(context.Background(), nil)
		assert.True(t, rep.Healthy())
		require.NoError(t, rep.Err())
	})

	t.Run("one failure marks the report unhealthy", func(t *testing.T) {
		t.Parallel()
		rep := health.Run(context.Background(), health.Checks{
			"ok":  func(context.Context) error { return nil },
			"bad": func(context.Context) error { return errors.New("down") },
		})
		assert.False(t, rep.Healthy())
		assert.Equal(t, health.StatusHealthy, rep.Checks["ok"].Status)
		assert.Equal(t, "down", rep.Checks["bad"].Error)
		require.ErrorIs(t, rep.Err(), health.ErrCheckFailed)
		assert.Contains(t, rep.Err().Error(), "bad: down")
	})

	t.Run("timeout", func(t *testing.T) {
		t.Parallel()
		rep := health.Run(context.Background(), health.Checks{
			"slow": func(ctx context.Context) error {
				<-ctx.Done()
				return ctx.Err()
			},
		}, health.WithTimeout(10*time.Millisecond))
		assert.False(t, rep.Healthy())
		assert.Contains(t, rep.Checks["slow"].Error, "timed out")
	})
}

func TestReadiness(t *testing.T) {
	t.Parallel()

	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	h := health.Readiness(health.Checks{"redis": redis.Healthcheck(client)})

	rec := httptest.NewRecorder()
	h(rec, httptest.NewRequest(http.MethodGet, "/health/ready", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "OK", rec.Body.String())

	mr.SetError("LOADING")
	rec = httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/health/ready", nil)
	req.Header.Set("Accept", "application/json")
	h(rec, req)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	var rep health.Report
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&rep))
	assert.Equal(t, health.StatusUnhealthy, rep.Status)
	assert.Equal(t, health.StatusUnhealthy, rep.Checks["redis"].Status)
}

func TestLiveness(t *testing.T) {
	t.Parallel()

	rec := httptest.NewRecorder()
	health.Liveness()(rec, httptest.NewRequest(http.MethodGet, "/health/live?format=json", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"healthy"}`, rec.Body.String())
	assert.Equal(t, "no-store", rec.Header().Get("Cache-Control"))
}
