package handler

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/sakif/stagebook/internal/flash"
	"github.com/sakif/stagebook/internal/form"
	"github.com/sakif/stagebook/internal/service"
)

// ArtistHandler serves /artists. Artists can be created and edited but not
// deleted.
type ArtistHandler struct {
	artists *service.ArtistService
	forms   *form.Processor
	views   *Renderer
	logger  *slog.Logger
}

func NewArtistHandler(artists *service.ArtistService, forms *form.Processor, views *Renderer, logger *slog.Logger) *ArtistHandler {
	return &ArtistHandler{artists: artists, forms: forms, views: views, logger: logger}
}

// HTTP: GET /artists
func (h *ArtistHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	artists, err := h.artists.List(r.Context())
	if err != nil {
		h.views.writeError(w, r, err)
		return
	}
	h.views.Render(w, r, http.StatusOK, pageArtists, View{Title: "Artists", Section: "artists", Data: artists})
}

// HTTP: POST /artists/search (search_term)
func (h *ArtistHandler) HandleSearch(w http.ResponseWriter, r *http.Request) {
	result, err := h.artists.Search(r.Context(), r.PostFormValue("search_term"))
	if err != nil {
		h.views.writeError(w, r, err)
		return
	}
	h.views.Render(w, r, http.StatusOK, pageSearchArtists, View{Title: "Search Artists", Section: "artists", Data: result})
}

// HTTP: GET /artists/{id}
func (h *ArtistHandler) HandleShow(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r)
	if !ok {
		h.views.NotFound(w, r)
		return
	}

	detail, err := h.artists.Detail(r.Context(), id)
	if err != nil {
		h.views.writeError(w, r, err)
		return
	}
	h.views.Render(w, r, http.StatusOK, pageShowArtist, View{Title: detail.Artist.Name, Section: "artists", Data: detail})
}

// HTTP: GET /artists/create
func (h *ArtistHandler) HandleNew(w http.ResponseWriter, r *http.Request) {
	h.renderForm(w, r, http.StatusOK, pageNewArtist, formView{Form: &form.Artist{}}, nil)
}

// HTTP: POST /artists/create
func (h *ArtistHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var in form.Artist
	err := parseForm(r, h.forms, &in)
	if err == nil {
		err = h.artists.Create(r.Context(), in.Model())
	}
	if err != nil {
		f := classifyFailure(err, fmt.Sprintf("An error occurred. Artist %s could not be listed.", in.Name))
		h.renderForm(w, r, f.status, pageNewArtist, formView{Form: &in, Errors: f.fields}, f.flashes)
		return
	}

	h.views.Flash(w, r, flash.Success, fmt.Sprintf("Artist %s was successfully listed!", in.Name))
	redirect(w, r, "/")
}

// HTTP: GET /artists/{id}/edit
func (h *ArtistHandler) HandleEdit(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r)
	if !ok {
		h.views.NotFound(w, r)
		return
	}

	artist, err := h.artists.Get(r.Context(), id)
	if err != nil {
		h.views.writeError(w, r, err)
		return
	}
	h.renderForm(w, r, http.StatusOK, pageEditArtist, formView{ID: id, Form: form.FromArtist(artist)}, nil)
}

// HTTP: POST /artists/{id}/edit
func (h *ArtistHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r)
	if !ok {
		h.views.NotFound(w, r)
		return
	}

	var in form.Artist
	err := parseForm(r, h.forms, &in)
	if err == nil {
		err = h.artists.Update(r.Context(), id, in.Model())
	}
	if err != nil {
		if isNotFound(err) {
			h.views.NotFound(w, r)
			return
		}
		f := classifyFailure(err, fmt.Sprintf("An error occurred. Artist %s could not be updated.", in.Name))
		h.renderForm(w, r, f.status, pageEditArtist, formView{ID: id, Form: &in, Errors: f.fields}, f.flashes)
		return
	}

	h.views.Flash(w, r, flash.Success, fmt.Sprintf("Artist %s was successfully updated!", in.Name))
	redirect(w, r, fmt.Sprintf("/artists/%d", id))
}

func (h *ArtistHandler) renderForm(w http.ResponseWriter, r *http.Request, status int, page string, fv formView, flashes []flash.Message) {
	title := "New Artist"
	if fv.ID != 0 {
		title = "Edit Artist"
	}
	h.views.Render(w, r, status, page, View{Title: title, Section: "artists", Flashes: flashes, Data: fv})
}
