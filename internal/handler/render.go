// Package handler turns HTTP requests into service calls and rendered pages.
//
// RENDERING:
// Every page is its own template set: the shared layout and partials plus one
// page file that defines "content". Sets are parsed once at
// startup from an fs.FS (the embedded web/ directory in production, the same
// one in tests), so a missing template fails New instead of a request.
//
// Pages are executed into a buffer first. Only when that succeeds are the
// status code and body written, so a template error can still become a
// clean 500 instead of half a page.
package handler

import (
	"bytes"
	"fmt"
	"html/template"
	"io/fs"
	"log/slog"
	"net/http"
	"path"
	"slices"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/dustin/go-humanize/english"

	"github.com/sakif/stagebook/internal/flash"
	"github.com/sakif/stagebook/internal/form"
)

// Page names, matching the template file names without ".html".
const (
	pageHome          = "home"
	pageVenues        = "venues"
	pageSearchVenues  = "search_venues"
	pageShowVenue     = "show_venue"
	pageNewVenue      = "new_venue"
	pageEditVenue     = "edit_venue"
	pageArtists       = "artists"
	pageSearchArtists = "search_artists"
	pageShowArtist    = "show_artist"
	pageNewArtist     = "new_artist"
	pageEditArtist    = "edit_artist"
	pageShows         = "shows"
	pageNewShow       = "new_show"
	pageNotFound      = "404"
	pageServerError   = "500"
)

// View is what every template receives.
type View struct {
	Title   string
	Section string // "venues", "artists" or "shows"; picks the nav search form
	Flashes []flash.Message
	Data    any
}

// Renderer executes page templates and owns the flash store, since showing a
// page is what consumes pending flashes.
type Renderer struct {
	pages   map[string]*template.Template
	flashes *flash.Store
	logger  *slog.Logger
}

// NewRenderer parses every page under templates/{pages,forms,errors} in fsys.
// loc is the zone used by the datetime template func.
func NewRenderer(fsys fs.FS, flashes *flash.Store, logger *slog.Logger, loc *time.Location) (*Renderer, error) {
	if loc == nil {
		loc = time.UTC
	}
	funcs := templateFuncs(loc)

	shared := []string{"templates/layouts/*.html", "templates/partials/*.html"}
	pages := make(map[string]*template.Template)

	for _, dir := range []string{"templates/pages", "templates/forms", "templates/errors"} {
		files, err := fs.Glob(fsys, dir+"/*.html")
		if err != nil {
			return nil, fmt.Errorf("handler: listing %s: %w", dir, err)
		}
		for _, file := range files {
			name := strings.TrimSuffix(path.Base(file), ".html")
			tmpl, err := template.New(name).Funcs(funcs).ParseFS(fsys, append(shared, file)...)
			if err != nil {
				return nil, fmt.Errorf("handler: parsing %s: %w", file, err)
			}
			pages[name] = tmpl
		}
	}

	for _, required := range []string{pageNotFound, pageServerError} {
		if _, ok := pages[required]; !ok {
			return nil, fmt.Errorf("handler: missing %s template", required)
		}
	}

	return &Renderer{pages: pages, flashes: flashes, logger: logger}, nil
}

// Render writes page with status. Pending flashes from the cookie are shown
// ahead of any already on v.
func (rd *Renderer) Render(w http.ResponseWriter, r *http.Request, status int, page string, v View) {
	tmpl, ok := rd.pages[page]
	if !ok {
		rd.logger.ErrorContext(r.Context(), "unknown page template", "page", page)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	if rd.flashes != nil {
		v.Flashes = append(rd.flashes.Pop(w, r), v.Flashes...)
	}

	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "base", v); err != nil {
		rd.logger.ErrorContext(r.Context(), "failed to render template",
			slog.String("page", page),
			slog.String("error", err.Error()),
		)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if _, err := buf.WriteTo(w); err != nil {
		rd.logger.DebugContext(r.Context(), "client went away mid-response", "error", err)
	}
}

// Flash queues a message for the next rendered page.
func (rd *Renderer) Flash(w http.ResponseWriter, r *http.Request, category, text string) {
	if rd.flashes == nil {
		return
	}
	if err := rd.flashes.Add(w, r, category, text); err != nil {
		rd.logger.ErrorContext(r.Context(), "failed to set flash", "error", err)
	}
}

// NotFound renders the 404 view. Also used for 405s.
func (rd *Renderer) NotFound(w http.ResponseWriter, r *http.Request) {
	rd.Render(w, r, http.StatusNotFound, pageNotFound, View{Title: "Not Found"})
}

// ServerError renders the 500 view.
func (rd *Renderer) ServerError(w http.ResponseWriter, r *http.Request) {
	rd.Render(w, r, http.StatusInternalServerError, pageServerError, View{Title: "Server Error"})
}

// Date layouts for the datetime template func.
const (
	layoutFull   = "Monday January, 2, 2006 at 3:04PM"
	layoutMedium = "Mon 01, 02, 2006 3:04PM"
)

func templateFuncs(loc *time.Location) template.FuncMap {
	return template.FuncMap{
		// datetime renders t in the site's zone: "full", "medium" or a Go layout.
		"datetime": func(format string, t time.Time) string {
			switch format {
			case "full":
				format = layoutFull
			case "medium":
				format = layoutMedium
			}
			return t.In(loc).Format(format)
		},
		"humanize": func(t time.Time) string { return humanize.Time(t) },
		"plural":   english.Plural,
		"join":     strings.Join,
		"has":      func(list []string, s string) bool { return slices.Contains(list, s) },
		"states":   func() []string { return form.States },
		"genres":   func() []string { return form.Genres },
	}
}
