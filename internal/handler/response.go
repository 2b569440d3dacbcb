package handler

// ERROR MAPPING:
// Services return apperror kinds; this file is the only place they become
// HTTP. Read pages and write forms need different answers for the same kind:
//
//	kind            read page     write form
//	ErrNotFound     404 view      404 view
//	ErrValidation   -             re-render, 422, field messages
//	ErrIntegrity    -             re-render, 422, message flashed
//	ErrPersistence  500 view      re-render, 500
//	anything else   500 view      re-render, 500
//
// Raw driver text never reaches the page; it is logged by the service.

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/sakif/stagebook/internal/apperror"
	"github.com/sakif/stagebook/internal/flash"
	"github.com/sakif/stagebook/internal/form"
)

// writeError answers a failed read.
func (rd *Renderer) writeError(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, apperror.ErrNotFound) {
		rd.NotFound(w, r)
		return
	}
	rd.logger.ErrorContext(r.Context(), "request failed",
		"method", r.Method, "path", r.URL.Path, "error", err)
	rd.ServerError(w, r)
}

// formView is the data every create/edit form template receives.
type formView struct {
	ID     int64             // record being edited; zero on create
	Form   any               // *form.Venue, *form.Artist or *form.Show
	Errors map[string]string // field name -> message
	Extra  any               // page-specific data, e.g. show pickers
}

// formFailure describes how a failed submission is shown.
type formFailure struct {
	status  int
	fields  map[string]string
	flashes []flash.Message
}

// classifyFailure maps a decode/validate/store error onto a re-render.
// summary is the "An error occurred..." line shown above the form.
func classifyFailure(err error, summary string) formFailure {
	f := formFailure{
		status:  http.StatusInternalServerError,
		fields:  map[string]string{},
		flashes: []flash.Message{{Category: flash.Danger, Text: summary}},
	}

	var appErr *apperror.AppError
	if !errors.As(err, &appErr) {
		return f
	}

	switch {
	case errors.Is(err, apperror.ErrValidation):
		f.status = http.StatusUnprocessableEntity
		f.fields = appErr.FieldMessages()
	case errors.Is(err, apperror.ErrIntegrity):
		f.status = http.StatusUnprocessableEntity
		f.flashes = append(f.flashes, flash.Message{Category: flash.Danger, Text: appErr.Message})
	}
	return f
}

// idParam reads the {id} route parameter. A missing, non-numeric or
// non-positive id is reported as not ok and answered with the 404 view.
func idParam(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// redirect answers a successful write. 303 makes the browser follow up with
// a GET even when the request was a POST or DELETE.
func redirect(w http.ResponseWriter, r *http.Request, to string) {
	http.Redirect(w, r, to, http.StatusSeeOther)
}

func isNotFound(err error) bool {
	return errors.Is(err, apperror.ErrNotFound)
}

// parseForm reads the request body and decodes it into in. A body that cannot
// be parsed at all is reported as a validation failure.
func parseForm(r *http.Request, forms *form.Processor, in form.Input) error {
	if err := r.ParseForm(); err != nil {
		return apperror.ValidationFailed("", "the submitted form could not be read")
	}
	return forms.Decode(r.PostForm, in)
}
