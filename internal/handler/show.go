package handler

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/sakif/stagebook/internal/flash"
	"github.com/sakif/stagebook/internal/form"
	"github.com/sakif/stagebook/internal/service"
)

// ShowHandler serves /shows. Shows are listed and created; there is no edit
// or delete.
type ShowHandler struct {
	shows  *service.ShowService
	forms  *form.Processor
	views  *Renderer
	logger *slog.Logger
	now    func() time.Time
	loc    *time.Location
}

// NewShowHandler creates a ShowHandler. now and loc pick the default start
// time offered by a blank form.
func NewShowHandler(shows *service.ShowService, forms *form.Processor, views *Renderer, logger *slog.Logger, now func() time.Time, loc *time.Location) *ShowHandler {
	if now == nil {
		now = time.Now
	}
	if loc == nil {
		loc = time.UTC
	}
	return &ShowHandler{shows: shows, forms: forms, views: views, logger: logger, now: now, loc: loc}
}

// HTTP: GET /shows
func (h *ShowHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	shows, err := h.shows.List(r.Context())
	if err != nil {
		h.views.writeError(w, r, err)
		return
	}
	h.views.Render(w, r, http.StatusOK, pageShows, View{Title: "Shows", Section: "shows", Data: shows})
}

// HTTP: GET /shows/create
func (h *ShowHandler) HandleNew(w http.ResponseWriter, r *http.Request) {
	choices, err := h.shows.Choices(r.Context())
	if err != nil {
		h.views.writeError(w, r, err)
		return
	}
	fv := formView{Form: form.NewShow(h.now().In(h.loc)), Extra: choices}
	h.views.Render(w, r, http.StatusOK, pageNewShow, View{Title: "New Show", Section: "shows", Data: fv})
}

// HTTP: POST /shows/create
func (h *ShowHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var in form.Show
	err := parseForm(r, h.forms, &in)
	if err == nil {
		err = h.shows.Create(r.Context(), in.Model())
	}
	if err != nil {
		f := classifyFailure(err, "An error occurred. Show could not be listed.")

		// The pickers are best effort; the form still renders without them.
		choices, cerr := h.shows.Choices(r.Context())
		if cerr != nil {
			choices = &service.Choices{}
		}
		fv := formView{Form: &in, Errors: f.fields, Extra: choices}
		h.views.Render(w, r, f.status, pageNewShow, View{Title: "New Show", Section: "shows", Flashes: f.flashes, Data: fv})
		return
	}

	h.views.Flash(w, r, flash.Success, "Show was successfully listed!")
	redirect(w, r, "/")
}
