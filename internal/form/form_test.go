package form

import (
	"errors"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sakif/stagebook/internal/apperror"
	"github.com/sakif/stagebook/internal/model"
)

func validVenueValues() url.Values {
	return url.Values{
		"name":                {"  The Musical Hop "},
		"city":                {"San Francisco"},
		"state":               {"CA"},
		"address":             {"1015 Folsom Street"},
		"phone":               {"123-123-1234"},
		"genres":              {"Jazz", "Reggae"},
		"facebook_link":       {"https://www.facebook.com/TheMusicalHop"},
		"website_link":        {"https://www.themusicalhop.com"},
		"image_link":          {"https://images.example.com/hop.jpg"},
		"seeking_talent":      {"y"},
		"seeking_description": {"We are on the lookout for a local artist."},
	}
}

func fieldMessages(t *testing.T, err error) map[string]string {
	t.Helper()
	require.Error(t, err)
	require.True(t, errors.Is(err, apperror.ErrValidation), "want ErrValidation, got %v", err)
	var appErr *apperror.AppError
	require.True(t, errors.As(err, &appErr))
	return appErr.FieldMessages()
}

func TestDecodeVenue_Valid(t *testing.T) {
	p := New(nil)
	values := validVenueValues()
	values["genres"] = []string{"Jazz", "Reggae", "Folk"}

	var v Venue
	require.NoError(t, p.Decode(values, &v))

	assert.Equal(t, "The Musical Hop", v.Name, "strings are trimmed")
	assert.True(t, v.SeekingTalent)

	m := v.Model()
	assert.Equal(t, "Jazz,Reggae,Folk", m.GenreList)
	assert.Equal(t, "1015 Folsom Street", m.Address)
	assert.Zero(t, m.ID)
}

func TestDecodeVenue_CheckboxUnticked(t *testing.T) {
	p := New(nil)
	values := validVenueValues()
	values["genres"] = []string{"Jazz"}
	values.Del("seeking_talent")

	var v Venue
	require.NoError(t, p.Decode(values, &v))
	assert.False(t, v.SeekingTalent)
}

func TestDecodeVenue_Rejections(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(url.Values)
		wantField string
		wantText  string
	}{
		{"missing name", func(v url.Values) { v.Del("name") }, "name", "name is required"},
		{"blank name", func(v url.Values) { v.Set("name", "   ") }, "name", "name is required"},
		{"missing address", func(v url.Values) { v.Del("address") }, "address", "address is required"},
		{"unknown state", func(v url.Values) { v.Set("state", "ZZ") }, "state", "state must be a valid state"},
		{"no genres", func(v url.Values) { v.Del("genres") }, "genres", "genres is required"},
		{"unknown genre", func(v url.Values) { v["genres"] = []string{"Jazz", "Polka"} }, "genres", `"Polka" is not a valid genre`},
		{"bad facebook link", func(v url.Values) { v.Set("facebook_link", "not a url") }, "facebook_link", "facebook_link must be a valid URL"},
		{"bad phone", func(v url.Values) { v.Set("phone", "call me") }, "phone", "phone must look like 123-456-7890"},
		{"long description", func(v url.Values) { v.Set("seeking_description", strings.Repeat("x", 501)) }, "seeking_description", "seeking_description must be at most 500 characters"},
		{"long city", func(v url.Values) { v.Set("city", strings.Repeat("x", 121)) }, "city", "city must be at most 120 characters"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			values := validVenueValues()
			values["genres"] = []string{"Jazz"}
			tt.mutate(values)

			var v Venue
			msgs := fieldMessages(t, New(nil).Decode(values, &v))
			assert.Equal(t, tt.wantText, msgs[tt.wantField])
		})
	}
}

func TestDecodeVenue_CollectsEveryField(t *testing.T) {
	var v Venue
	msgs := fieldMessages(t, New(nil).Decode(url.Values{}, &v))

	for _, field := range []string{"name", "city", "state", "address", "genres"} {
		assert.Contains(t, msgs, field)
	}
	assert.NotContains(t, msgs, "phone", "optional fields are not required")
}

func TestDecodeVenue_TooManyGenres(t *testing.T) {
	values := validVenueValues()
	values["genres"] = Genres

	var v Venue
	msgs := fieldMessages(t, New(nil).Decode(values, &v))
	assert.Equal(t, "too many genres selected", msgs["genres"])
}

func TestDecodeArtist(t *testing.T) {
	values := url.Values{
		"name":          {"Guns N Petals"},
		"city":          {"San Francisco"},
		"state":         {"CA"},
		"phone":         {"326-123-5000"},
		"genres":        {"Rock n Roll"},
		"seeking_venue": {"on"},
	}

	var a Artist
	require.NoError(t, New(nil).Decode(values, &a))

	m := a.Model()
	assert.Equal(t, "Rock n Roll", m.GenreList)
	assert.True(t, m.SeekingVenue)
}

func TestFromVenue_RoundTrip(t *testing.T) {
	stored := &model.Venue{
		ID:            4,
		Name:          "The Dueling Pianos Bar",
		City:          "New York",
		State:         "NY",
		Address:       "335 Delancey Street",
		GenreList:     "Classical,R&B,Hip-Hop",
		SeekingTalent: false,
	}

	f := FromVenue(stored)
	assert.Equal(t, []string{"Classical", "R&B", "Hip-Hop"}, f.Genres)

	m := f.Model()
	assert.Equal(t, stored.GenreList, m.GenreList)
	assert.Equal(t, stored.Address, m.Address)
}

func TestFromArtist(t *testing.T) {
	f := FromArtist(&model.Artist{Name: "Matt Quevedo", GenreList: "Jazz", SeekingVenue: true})
	assert.Equal(t, []string{"Jazz"}, f.Genres)
	assert.True(t, f.SeekingVenue)
}

func TestDecodeShow(t *testing.T) {
	loc := time.FixedZone("EST", -5*60*60)
	p := New(loc)

	tests := []struct {
		name  string
		value string
		want  time.Time
	}{
		{"space layout in configured zone", "2035-04-01 20:00:00", time.Date(2035, 4, 2, 1, 0, 0, 0, time.UTC)},
		{"datetime-local input", "2035-04-01T20:00", time.Date(2035, 4, 2, 1, 0, 0, 0, time.UTC)},
		{"rfc3339 keeps its offset", "2035-04-01T20:00:00Z", time.Date(2035, 4, 1, 20, 0, 0, 0, time.UTC)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			values := url.Values{"artist_id": {"1"}, "venue_id": {"2"}, "start_time": {tt.value}}

			var s Show
			require.NoError(t, p.Decode(values, &s))

			m := s.Model()
			assert.Equal(t, int64(1), m.ArtistID)
			assert.Equal(t, int64(2), m.VenueID)
			assert.True(t, m.StartTime.Equal(tt.want), "got %v want %v", m.StartTime, tt.want)
			assert.Equal(t, time.UTC, m.StartTime.Location())
		})
	}
}

func TestDecodeShow_Rejections(t *testing.T) {
	tests := []struct {
		name      string
		values    url.Values
		wantField string
	}{
		{"missing artist", url.Values{"venue_id": {"1"}, "start_time": {"2035-04-01 20:00:00"}}, "artist_id"},
		{"zero venue", url.Values{"artist_id": {"1"}, "venue_id": {"0"}, "start_time": {"2035-04-01 20:00:00"}}, "venue_id"},
		{"non-numeric artist", url.Values{"artist_id": {"abc"}, "venue_id": {"1"}, "start_time": {"2035-04-01 20:00:00"}}, "artist_id"},
		{"missing start time", url.Values{"artist_id": {"1"}, "venue_id": {"1"}}, "start_time"},
		{"garbled start time", url.Values{"artist_id": {"1"}, "venue_id": {"1"}, "start_time": {"next tuesday"}}, "start_time"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var s Show
			msgs := fieldMessages(t, New(nil).Decode(tt.values, &s))
			assert.Contains(t, msgs, tt.wantField)
		})
	}
}

func TestNewShow(t *testing.T) {
	s := NewShow(time.Date(2026, 10, 17, 9, 30, 0, 0, time.UTC))
	assert.Equal(t, "2026-10-17 09:30:00", s.StartTime)
}
