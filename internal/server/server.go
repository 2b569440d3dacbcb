// Package server is the composition root: it opens the store, builds the
// services and handlers, mounts the routes and runs the HTTP server.
//
// DEPENDENCY CHAIN:
//
//	config -> sqlstore.DB -> services -> handlers -> chi router
//
// Nothing below this package reaches for globals; each layer receives exactly
// what it needs. The Server owns the store and closes it when Start returns.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"golang.org/x/sync/errgroup"

	"github.com/sakif/stagebook/internal/config"
	"github.com/sakif/stagebook/internal/flash"
	"github.com/sakif/stagebook/internal/form"
	"github.com/sakif/stagebook/internal/handler"
	"github.com/sakif/stagebook/internal/middleware"
	"github.com/sakif/stagebook/internal/repository/sqlstore"
	"github.com/sakif/stagebook/internal/service"
	"github.com/sakif/stagebook/web"
)

// Server holds the router and the resources it owns.
type Server struct {
	router *chi.Mux
	cfg    *config.Config
	logger *slog.Logger
	db     *sqlstore.DB
	now    service.Clock
}

// Option adjusts a Server before its routes are built.
type Option func(*Server)

// WithClock replaces the system clock used to split past and upcoming shows.
func WithClock(now service.Clock) Option {
	return func(s *Server) { s.now = now }
}

// New opens the configured database and wires every route.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger, opts ...Option) (*Server, error) {
	if cfg.Database.Driver == config.DriverSQLite && cfg.Database.URL != ":memory:" {
		dir := filepath.Dir(cfg.Database.URL)
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating database directory %s: %w", dir, err)
		}
	}

	db, err := sqlstore.Open(ctx, cfg.Database.Driver, cfg.Database.URL)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Server{
		router: chi.NewRouter(),
		cfg:    cfg,
		logger: logger,
		db:     db,
		now:    defaultClock,
	}
	for _, opt := range opts {
		opt(s)
	}

	if err := s.setupRoutes(); err != nil {
		db.Close()
		return nil, fmt.Errorf("setting up routes: %w", err)
	}
	return s, nil
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Close releases the database. Start calls it on the way out.
func (s *Server) Close() error {
	return s.db.Close()
}

// setupRoutes builds the handler graph and mounts:
//
//	GET         /                      home
//	GET         /healthz               store ping
//	GET         /static/*              embedded css
//	GET         /venues                grouped by area
//	POST        /venues/search
//	GET|POST    /venues/create
//	GET         /venues/{id}
//	GET|POST    /venues/{id}/edit
//	DELETE      /venues/{id}           also POST /venues/{id}/delete
//	GET         /artists
//	POST        /artists/search
//	GET|POST    /artists/create
//	GET         /artists/{id}
//	GET|POST    /artists/{id}/edit
//	GET         /shows
//	GET|POST    /shows/create
func (s *Server) setupRoutes() error {
	flashes, err := flash.New(s.cfg.Flash.Secret, s.cfg.IsProduction())
	if err != nil {
		return err
	}

	views, err := handler.NewRenderer(web.Templates, flashes, s.logger, s.cfg.App.Location)
	if err != nil {
		return err
	}

	forms := form.New(s.cfg.App.Location)

	venueService := service.NewVenueService(s.db, s.db, s.logger, s.now)
	artistService := service.NewArtistService(s.db, s.db, s.logger, s.now)
	showService := service.NewShowService(s.db, s.db, s.db, s.logger)

	pages := handler.NewPageHandler(views, s.db, s.logger)
	venues := handler.NewVenueHandler(venueService, forms, views, s.logger)
	artists := handler.NewArtistHandler(artistService, forms, views, s.logger)
	shows := handler.NewShowHandler(showService, forms, views, s.logger, s.now, s.cfg.App.Location)

	// Order: request id first so every later log line carries it; the
	// recoverer sits inside the logger so a panic is logged as a 500.
	s.router.Use(chimiddleware.RequestID)
	s.router.Use(chimiddleware.RealIP)
	s.router.Use(middleware.Logger(s.logger))
	s.router.Use(middleware.Recoverer(s.logger, http.HandlerFunc(pages.HandleServerError)))

	s.router.NotFound(pages.HandleNotFound)
	s.router.MethodNotAllowed(pages.HandleNotFound)

	s.router.Handle("/static/*", http.StripPrefix("/static/", http.FileServerFS(web.Static())))

	s.router.Get("/", pages.HandleHome)
	s.router.Get("/healthz", pages.HandleHealth)

	s.router.Route("/venues", func(r chi.Router) {
		r.Get("/", venues.HandleList)
		r.Post("/search", venues.HandleSearch)
		r.Get("/create", venues.HandleNew)
		r.Post("/create", venues.HandleCreate)
		r.Get("/{id}", venues.HandleShow)
		r.Delete("/{id}", venues.HandleDelete)
		r.Post("/{id}/delete", venues.HandleDelete)
		r.Get("/{id}/edit", venues.HandleEdit)
		r.Post("/{id}/edit", venues.HandleUpdate)
	})

	s.router.Route("/artists", func(r chi.Router) {
		r.Get("/", artists.HandleList)
		r.Post("/search", artists.HandleSearch)
		r.Get("/create", artists.HandleNew)
		r.Post("/create", artists.HandleCreate)
		r.Get("/{id}", artists.HandleShow)
		r.Get("/{id}/edit", artists.HandleEdit)
		r.Post("/{id}/edit", artists.HandleUpdate)
	})

	s.router.Route("/shows", func(r chi.Router) {
		r.Get("/", shows.HandleList)
		r.Get("/create", shows.HandleNew)
		r.Post("/create", shows.HandleCreate)
	})

	return nil
}

// Start serves until ctx is cancelled or SIGINT/SIGTERM arrives, then drains
// in-flight requests for up to SHUTDOWN_TIMEOUT and closes the database.
func (s *Server) Start(ctx context.Context) error {
	defer s.Close()

	srv := &http.Server{
		Addr:         s.cfg.Server.Addr(),
		Handler:      s.router,
		ReadTimeout:  s.cfg.Server.ReadTimeout,
		WriteTimeout: s.cfg.Server.WriteTimeout,
		IdleTimeout:  s.cfg.Server.IdleTimeout,
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		s.logger.Info("server starting",
			slog.String("addr", srv.Addr),
			slog.String("database", s.db.Driver()),
			slog.String("env", s.cfg.App.Env),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		s.logger.Info("shutting down", slog.Duration("timeout", s.cfg.Server.ShutdownTimeout))

		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.Server.ShutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
		s.logger.Info("server stopped gracefully")
		return nil
	})

	return g.Wait()
}

// defaultClock is used when no WithClock option is given.
func defaultClock() time.Time { return time.Now().UTC() }
