package server

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sakif/stagebook/internal/config"
)

func testConfig() *config.Config {
	return &config.Config{
		App: config.AppConfig{Env: "test", LogLevel: slog.LevelInfo, Location: time.UTC},
		Server: config.ServerConfig{
			Host:            "127.0.0.1",
			Port:            0,
			ReadTimeout:     5 * time.Second,
			WriteTimeout:    5 * time.Second,
			IdleTimeout:     5 * time.Second,
			ShutdownTimeout: time.Second,
		},
		Database: config.DatabaseConfig{Driver: config.DriverSQLite, URL: ":memory:"},
		Flash:    config.FlashConfig{Secret: "server-test-secret-0123456789"},
	}
}

func newTestServer(t *testing.T) *Server {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	now := func() time.Time { return time.Date(2026, 10, 17, 12, 0, 0, 0, time.UTC) }

	srv, err := New(context.Background(), testConfig(), logger, WithClock(now))
	require.NoError(t, err)
	t.Cleanup(func() { srv.Close() })
	return srv
}

func serve(srv *Server, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)
	return rec
}

func TestRoutes(t *testing.T) {
	srv := newTestServer(t)

	tests := []struct {
		name   string
		method string
		target string
		want   int
	}{
		{"home", http.MethodGet, "/", http.StatusOK},
		{"health", http.MethodGet, "/healthz", http.StatusOK},
		{"stylesheet", http.MethodGet, "/static/css/main.css", http.StatusOK},
		{"venues without trailing slash", http.MethodGet, "/venues", http.StatusOK},
		{"artists", http.MethodGet, "/artists", http.StatusOK},
		{"shows", http.MethodGet, "/shows", http.StatusOK},
		{"new venue form", http.MethodGet, "/venues/create", http.StatusOK},
		{"new artist form", http.MethodGet, "/artists/create", http.StatusOK},
		{"new show form", http.MethodGet, "/shows/create", http.StatusOK},
		{"unknown path", http.MethodGet, "/tickets", http.StatusNotFound},
		{"unknown venue", http.MethodGet, "/venues/5", http.StatusNotFound},
		{"wrong method", http.MethodPatch, "/shows", http.StatusNotFound},
		{"no artist delete", http.MethodDelete, "/artists/1", http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := serve(srv, httptest.NewRequest(tt.method, tt.target, nil))
			assert.Equal(t, tt.want, rec.Code)
		})
	}
}

func TestPanicRendersServerError(t *testing.T) {
	srv := newTestServer(t)
	srv.router.Get("/boom", func(http.ResponseWriter, *http.Request) { panic("kaboom") })

	rec := serve(srv, httptest.NewRequest(http.MethodGet, "/boom", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "500")
}

func TestBookingFlow(t *testing.T) {
	srv := newTestServer(t)

	post := func(target string, values url.Values) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(values.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		return serve(srv, req)
	}

	rec := post("/venues/create", url.Values{
		"name":    {"The Musical Hop"},
		"city":    {"San Francisco"},
		"state":   {"CA"},
		"address": {"1015 Folsom Street"},
		"genres":  {"Jazz", "Folk"},
	})
	require.Equal(t, http.StatusSeeOther, rec.Code)

	rec = post("/artists/create", url.Values{
		"name":   {"Guns N Petals"},
		"city":   {"San Francisco"},
		"state":  {"CA"},
		"genres": {"Rock n Roll"},
	})
	require.Equal(t, http.StatusSeeOther, rec.Code)

	rec = post("/shows/create", url.Values{
		"artist_id":  {"1"},
		"venue_id":   {"1"},
		"start_time": {"2027-01-01 20:00:00"},
	})
	require.Equal(t, http.StatusSeeOther, rec.Code)

	rec = serve(srv, httptest.NewRequest(http.MethodGet, "/venues", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "1 upcoming show")

	rec = serve(srv, httptest.NewRequest(http.MethodGet, "/artists/1", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "The Musical Hop")
	assert.Contains(t, rec.Body.String(), "1 Upcoming Show")

	// Deleting the venue takes its show with it.
	rec = post("/venues/1/delete", url.Values{})
	require.Equal(t, http.StatusSeeOther, rec.Code)

	rec = serve(srv, httptest.NewRequest(http.MethodGet, "/shows", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "No shows listed yet.")
}

func TestNew_RejectsBadConfig(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	cfg := testConfig()
	cfg.Database.Driver = "oracle"
	_, err := New(context.Background(), cfg, logger)
	assert.Error(t, err)

	cfg = testConfig()
	cfg.Flash.Secret = "short"
	_, err = New(context.Background(), cfg, logger)
	assert.Error(t, err)
}

func TestStart_StopsOnCancel(t *testing.T) {
	srv := newTestServer(t)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Start(ctx) }()

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Start did not return after cancel")
	}
}
