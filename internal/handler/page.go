package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"
)

// Pinger reports whether the store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// PageHandler serves the pages that belong to no resource.
type PageHandler struct {
	views  *Renderer
	store  Pinger
	logger *slog.Logger
}

func NewPageHandler(views *Renderer, store Pinger, logger *slog.Logger) *PageHandler {
	return &PageHandler{views: views, store: store, logger: logger}
}

// HTTP: GET /
func (h *PageHandler) HandleHome(w http.ResponseWriter, r *http.Request) {
	h.views.Render(w, r, http.StatusOK, pageHome, View{Title: "Stagebook"})
}

// HandleHealth pings the store with a short deadline.
//
// HTTP: GET /healthz
func (h *PageHandler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	if err := h.store.Ping(ctx); err != nil {
		h.logger.WarnContext(r.Context(), "health check failed", "error", err)
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte("unavailable\n"))
		return
	}
	_, _ = w.Write([]byte("ok\n"))
}

// HandleNotFound renders the 404 view for unmatched routes and methods.
func (h *PageHandler) HandleNotFound(w http.ResponseWriter, r *http.Request) {
	h.views.NotFound(w, r)
}

// HandleServerError renders the 500 view. The panic recoverer calls it.
func (h *PageHandler) HandleServerError(w http.ResponseWriter, r *http.Request) {
	h.views.ServerError(w, r)
}
