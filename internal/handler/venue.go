package handler

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/sakif/stagebook/internal/flash"
	"github.com/sakif/stagebook/internal/form"
	"github.com/sakif/stagebook/internal/service"
)

// VenueHandler serves /venues.
type VenueHandler struct {
	venues *service.VenueService
	forms  *form.Processor
	views  *Renderer
	logger *slog.Logger
}

func NewVenueHandler(venues *service.VenueService, forms *form.Processor, views *Renderer, logger *slog.Logger) *VenueHandler {
	return &VenueHandler{venues: venues, forms: forms, views: views, logger: logger}
}

// HandleList renders venues grouped by city and state.
//
// HTTP: GET /venues
func (h *VenueHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	areas, err := h.venues.Areas(r.Context())
	if err != nil {
		h.views.writeError(w, r, err)
		return
	}
	h.views.Render(w, r, http.StatusOK, pageVenues, View{Title: "Venues", Section: "venues", Data: areas})
}

// HandleSearch renders venues whose name, city or state contains the term.
//
// HTTP: POST /venues/search (search_term)
func (h *VenueHandler) HandleSearch(w http.ResponseWriter, r *http.Request) {
	term := r.PostFormValue("search_term")

	result, err := h.venues.Search(r.Context(), term)
	if err != nil {
		h.views.writeError(w, r, err)
		return
	}
	h.views.Render(w, r, http.StatusOK, pageSearchVenues, View{Title: "Search Venues", Section: "venues", Data: result})
}

// HandleShow renders one venue with its past and upcoming shows.
//
// HTTP: GET /venues/{id}
func (h *VenueHandler) HandleShow(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r)
	if !ok {
		h.views.NotFound(w, r)
		return
	}

	detail, err := h.venues.Detail(r.Context(), id)
	if err != nil {
		h.views.writeError(w, r, err)
		return
	}
	h.views.Render(w, r, http.StatusOK, pageShowVenue, View{Title: detail.Venue.Name, Section: "venues", Data: detail})
}

// HandleNew renders an empty venue form.
//
// HTTP: GET /venues/create
func (h *VenueHandler) HandleNew(w http.ResponseWriter, r *http.Request) {
	h.renderForm(w, r, http.StatusOK, pageNewVenue, formView{Form: &form.Venue{}}, nil)
}

// HandleCreate validates and stores a new venue.
//
// HTTP: POST /venues/create
func (h *VenueHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var in form.Venue
	err := parseForm(r, h.forms, &in)
	if err == nil {
		err = h.venues.Create(r.Context(), in.Model())
	}
	if err != nil {
		f := classifyFailure(err, fmt.Sprintf("An error occurred. Venue %s could not be listed.", in.Name))
		h.renderForm(w, r, f.status, pageNewVenue, formView{Form: &in, Errors: f.fields}, f.flashes)
		return
	}

	h.views.Flash(w, r, flash.Success, fmt.Sprintf("Venue %s was successfully listed!", in.Name))
	redirect(w, r, "/")
}

// HandleEdit renders the edit form pre-filled from the stored venue.
//
// HTTP: GET /venues/{id}/edit
func (h *VenueHandler) HandleEdit(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r)
	if !ok {
		h.views.NotFound(w, r)
		return
	}

	venue, err := h.venues.Get(r.Context(), id)
	if err != nil {
		h.views.writeError(w, r, err)
		return
	}
	h.renderForm(w, r, http.StatusOK, pageEditVenue, formView{ID: id, Form: form.FromVenue(venue)}, nil)
}

// HandleUpdate validates and stores changes to a venue.
//
// HTTP: POST /venues/{id}/edit
func (h *VenueHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r)
	if !ok {
		h.views.NotFound(w, r)
		return
	}

	var in form.Venue
	err := parseForm(r, h.forms, &in)
	if err == nil {
		err = h.venues.Update(r.Context(), id, in.Model())
	}
	if err != nil {
		if isNotFound(err) {
			h.views.NotFound(w, r)
			return
		}
		f := classifyFailure(err, fmt.Sprintf("An error occurred. Venue %s could not be updated.", in.Name))
		h.renderForm(w, r, f.status, pageEditVenue, formView{ID: id, Form: &in, Errors: f.fields}, f.flashes)
		return
	}

	h.views.Flash(w, r, flash.Success, fmt.Sprintf("Venue %s was successfully updated!", in.Name))
	redirect(w, r, fmt.Sprintf("/venues/%d", id))
}

// HandleDelete removes a venue and its shows.
//
// HTTP: DELETE /venues/{id}, POST /venues/{id}/delete
func (h *VenueHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r)
	if !ok {
		h.views.NotFound(w, r)
		return
	}

	name, err := h.venues.Delete(r.Context(), id)
	if err != nil {
		h.views.writeError(w, r, err)
		return
	}

	h.views.Flash(w, r, flash.Success, fmt.Sprintf("Venue %s was successfully deleted.", name))
	redirect(w, r, "/")
}

func (h *VenueHandler) renderForm(w http.ResponseWriter, r *http.Request, status int, page string, fv formView, flashes []flash.Message) {
	title := "New Venue"
	if fv.ID != 0 {
		title = "Edit Venue"
	}
	h.views.Render(w, r, status, page, View{Title: title, Section: "venues", Flashes: flashes, Data: fv})
}
