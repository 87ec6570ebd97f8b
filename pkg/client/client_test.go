package client_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chrono-timers/chrono-go/pkg/client"
	"github.com/chrono-timers/chrono-go/pkg/timer"
	"github.com/chrono-timers/chrono-go/pkg/version"
)

func newClient(t *testing.T, h http.HandlerFunc) *client.Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)

	c, err := client.New(client.Config{BaseURL: srv.URL + "/api/"})
	require.NoError(t, err)
	return c
}

func TestCreate(t *testing.T) {
	c := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/timers", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"id":"abc","status":"stopped","elapsed_seconds":0,"start_time":null}`))
	})

	got, err := c.Create(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "abc", got.ID)
	assert.Equal(t, timer.StatusStopped, got.Status)
	assert.Nil(t, got.StartTime)
}

func TestStartAndStopPaths(t *testing.T) {
	var paths []string
	c := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		paths = append(paths, r.Method+" "+r.URL.Path)
		w.Write([]byte(`{"id":"abc","status":"running","elapsed_seconds":4,"start_time":"2026-01-01T09:00:00Z"}`))
	})
	ctx := context.Background()

	started, err := c.Start(ctx, "abc")
	require.NoError(t, err)
	assert.Equal(t, timer.StatusRunning, started.Status)
	require.NotNil(t, started.StartTime)

	_, err = c.Stop(ctx, "abc")
	require.NoError(t, err)
	_, err = c.Get(ctx, "abc")
	require.NoError(t, err)

	assert.Equal(t, []string{
		"POST /api/timers/abc/start",
		"POST /api/timers/abc/stop",
		"GET /api/timers/abc",
	}, paths)
}

func TestNotFoundMapsToTimerError(t *testing.T) {
	c := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"error":"Timer not found","details":"abc"}`))
	})

	_, err := c.Get(context.Background(), "abc")
	assert.ErrorIs(t, err, timer.ErrNotFound)

	var apiErr *client.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "Timer not found", apiErr.Message)
	assert.Equal(t, "abc", apiErr.Details)
}

func TestErrorStatusMapping(t *testing.T) {
	status := http.StatusBadRequest
	c := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(status)
	})
	ctx := context.Background()

	_, err := c.Get(ctx, "bad")
	assert.ErrorIs(t, err, client.ErrBadRequest)

	status = http.StatusServiceUnavailable
	_, err = c.Start(ctx, "x")
	assert.ErrorIs(t, err, timer.ErrStorage)

	status = http.StatusInternalServerError
	_, err = c.Stop(ctx, "x")
	assert.EqualError(t, err, "chrono api: 500 Internal Server Error")
}

func TestDelete(t *testing.T) {
	c := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		w.WriteHeader(http.StatusNoContent)
	})
	assert.NoError(t, c.Delete(context.Background(), "abc"))
}

func TestListQuery(t *testing.T) {
	c := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "running", r.URL.Query().Get("status"))
		assert.Equal(t, "5", r.URL.Query().Get("limit"))
		assert.Equal(t, "", r.URL.Query().Get("offset"))
		w.Write([]byte(`{"timers":[{"id":"a","status":"running","elapsed_seconds":1,"start_time":"2026-01-01T09:00:00Z"}],"total":1}`))
	})

	running := timer.StatusRunning
	timers, err := c.List(context.Background(), client.ListOptions{Status: &running, Limit: 5})
	require.NoError(t, err)
	require.Len(t, timers, 1)
	assert.Equal(t, "a", timers[0].ID)
}

func TestHealth(t *testing.T) {
	c := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/health", r.URL.Path)
		w.Write([]byte(`{"status":"ok","version":"1.0.0"}`))
	})

	h, err := c.Health(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "ok", h.Status)
	assert.Equal(t, "1.0.0", h.Version)
}

func TestIncompatibleAPIVersion(t *testing.T) {
	c := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set(version.Header, "2.0")
		w.Write([]byte(`{"status":"ok","version":"9.0.0","api_version":"2.0"}`))
	})

	_, err := c.Health(context.Background())
	assert.ErrorIs(t, err, version.ErrIncompatible)
}

func TestCompatibleAPIVersionHeader(t *testing.T) {
	c := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set(version.Header, "1.4")
		w.Write([]byte(`{"status":"ok","version":"1.2.0","api_version":"1.4"}`))
	})

	h, err := c.Health(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "1.4", h.APIVersion)
}

func TestNewRejectsBadURL(t *testing.T) {
	_, err := client.New(client.Config{BaseURL: "localhost:3000"})
	assert.Error(t, err)

	c, err := client.New(client.Config{BaseURL: "http://localhost:3000/api/"})
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:3000/api", c.BaseURL())
}
