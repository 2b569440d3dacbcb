package service

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sakif/stagebook/internal/apperror"
	"github.com/sakif/stagebook/internal/model"
	"github.com/sakif/stagebook/internal/repository"
	"github.com/sakif/stagebook/internal/repository/sqlstore"
)

var fixedNow = time.Date(2026, 10, 17, 12, 0, 0, 0, time.UTC)

func fixedClock() time.Time { return fixedNow }

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type services struct {
	db      *sqlstore.DB
	venues  *VenueService
	artists *ArtistService
	shows   *ShowService
}

func newServices(t *testing.T) *services {
	t.Helper()
	db, err := sqlstore.New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	logger := discardLogger()
	return &services{
		db:      db,
		venues:  NewVenueService(db, db, logger, fixedClock),
		artists: NewArtistService(db, db, logger, fixedClock),
		shows:   NewShowService(db, db, db, logger),
	}
}

func (s *services) venue(t *testing.T, name, city, state string, genres ...string) *model.Venue {
	t.Helper()
	v := &model.Venue{Name: name, City: city, State: state, Address: "1 Main St", GenreList: model.JoinGenres(genres)}
	require.NoError(t, s.venues.Create(context.Background(), v))
	return v
}

func (s *services) artist(t *testing.T, name, city, state string) *model.Artist {
	t.Helper()
	a := &model.Artist{Name: name, City: city, State: state, GenreList: "Rock n Roll"}
	require.NoError(t, s.artists.Create(context.Background(), a))
	return a
}

func (s *services) show(t *testing.T, artistID, venueID int64, start time.Time) {
	t.Helper()
	require.NoError(t, s.shows.Create(context.Background(), &model.Show{ArtistID: artistID, VenueID: venueID, StartTime: start}))
}

func TestVenueDetail_PartitionsShows(t *testing.T) {
	s := newServices(t)
	ctx := context.Background()

	hop := s.venue(t, "The Musical Hop", "San Francisco", "CA", "Jazz")
	guns := s.artist(t, "Guns N Petals", "San Francisco", "CA")

	starts := []time.Time{
		fixedNow.Add(-48 * time.Hour),
		fixedNow,
		fixedNow.Add(time.Second),
		fixedNow.Add(30 * 24 * time.Hour),
	}
	for _, st := range starts {
		s.show(t, guns.ID, hop.ID, st)
	}

	d, err := s.venues.Detail(ctx, hop.ID)
	require.NoError(t, err)

	assert.Equal(t, 2, d.PastShowsCount, "earlier and exactly-now shows are past")
	assert.Equal(t, 2, d.UpcomingShowsCount)
	assert.Len(t, d.PastShows, d.PastShowsCount)
	assert.Len(t, d.UpcomingShows, d.UpcomingShowsCount)
	assert.Equal(t, len(starts), d.PastShowsCount+d.UpcomingShowsCount, "no show omitted or duplicated")

	for _, sh := range d.PastShows {
		assert.False(t, sh.StartsAt.After(fixedNow))
	}
	for _, sh := range d.UpcomingShows {
		assert.True(t, sh.StartsAt.After(fixedNow))
		assert.Equal(t, "Guns N Petals", sh.ArtistName)
	}
	assert.Equal(t, model.FormatStartTime(starts[0]), d.PastShows[0].StartTime)
	assert.Equal(t, []string{"Jazz"}, d.Genres)
}

func TestPastShowAppearsOnBothPages(t *testing.T) {
	s := newServices(t)
	ctx := context.Background()

	hop := s.venue(t, "The Musical Hop", "San Francisco", "CA", "Jazz")
	guns := s.artist(t, "Guns N Petals", "San Francisco", "CA")
	s.show(t, guns.ID, hop.ID, time.Date(2019, 5, 21, 21, 30, 0, 0, time.UTC))

	vd, err := s.venues.Detail(ctx, hop.ID)
	require.NoError(t, err)
	require.Len(t, vd.PastShows, 1)
	assert.Empty(t, vd.UpcomingShows)
	assert.Equal(t, "05/21/2019, 21:30:00", vd.PastShows[0].StartTime)

	ad, err := s.artists.Detail(ctx, guns.ID)
	require.NoError(t, err)
	require.Len(t, ad.PastShows, 1)
	assert.Empty(t, ad.UpcomingShows)
	assert.Equal(t, "The Musical Hop", ad.PastShows[0].VenueName)
}

func TestVenueCreate_GenresRoundTrip(t *testing.T) {
	s := newServices(t)

	hop := s.venue(t, "The Musical Hop", "San Francisco", "CA", "Jazz", "Reggae")

	got, err := s.venues.Get(context.Background(), hop.ID)
	require.NoError(t, err)
	assert.Equal(t, "Jazz,Reggae", got.GenreList)
	assert.Equal(t, []string{"Jazz", "Reggae"}, got.Genres())
}

func TestVenueSearch(t *testing.T) {
	s := newServices(t)
	ctx := context.Background()

	hop := s.venue(t, "The Musical Hop", "San Francisco", "CA", "Jazz")
	s.venue(t, "Park Square Live Music & Coffee", "San Francisco", "CA", "Folk")
	s.venue(t, "The Dueling Pianos Bar", "New York", "NY", "Classical")
	guns := s.artist(t, "Guns N Petals", "San Francisco", "CA")
	s.show(t, guns.ID, hop.ID, fixedNow.Add(time.Hour))
	s.show(t, guns.ID, hop.ID, fixedNow.Add(-time.Hour))

	res, err := s.venues.Search(ctx, "Hop")
	require.NoError(t, err)
	require.Equal(t, 1, res.Count)
	assert.Equal(t, "The Musical Hop", res.Data[0].Name)
	assert.Equal(t, 1, res.Data[0].NumUpcomingShows)
	assert.Equal(t, "Hop", res.Term)

	res, err = s.venues.Search(ctx, "Music")
	require.NoError(t, err)
	names := make([]string, 0, res.Count)
	for _, d := range res.Data {
		names = append(names, d.Name)
	}
	assert.ElementsMatch(t, []string{"The Musical Hop", "Park Square Live Music & Coffee"}, names)
}

func TestSearchResultsAllContainTerm(t *testing.T) {
	s := newServices(t)
	ctx := context.Background()

	for _, a := range [][3]string{
		{"Guns N Petals", "San Francisco", "CA"},
		{"Matt Quevedo", "New York", "NY"},
		{"The Wild Sax Band", "San Francisco", "CA"},
		{"Blues Traveler", "Austin", "TX"},
	} {
		s.artist(t, a[0], a[1], a[2])
	}
	all, err := s.db.ListArtists(ctx)
	require.NoError(t, err)

	for _, term := range []string{"a", "SAN", "ny", "x", "band", "zz", ""} {
		res, err := s.artists.Search(ctx, term)
		require.NoError(t, err)

		lower := strings.ToLower(term)
		want := 0
		for _, a := range all {
			if strings.Contains(strings.ToLower(a.Name), lower) ||
				strings.Contains(strings.ToLower(a.City), lower) ||
				strings.Contains(strings.ToLower(a.State), lower) {
				want++
			}
		}
		assert.Equal(t, want, res.Count, "term %q", term)
	}
}

func TestVenueAreas(t *testing.T) {
	s := newServices(t)
	ctx := context.Background()

	hop := s.venue(t, "The Musical Hop", "San Francisco", "CA")
	s.venue(t, "Park Square Live Music & Coffee", "San Francisco", "CA")
	s.venue(t, "The Dueling Pianos Bar", "New York", "NY")
	guns := s.artist(t, "Guns N Petals", "San Francisco", "CA")
	s.show(t, guns.ID, hop.ID, fixedNow.Add(24*time.Hour))

	areas, err := s.venues.Areas(ctx)
	require.NoError(t, err)
	require.Len(t, areas, 2)

	assert.Equal(t, "San Francisco", areas[0].City)
	assert.Equal(t, "CA", areas[0].State)
	require.Len(t, areas[0].Venues, 2)
	assert.Equal(t, "Park Square Live Music & Coffee", areas[0].Venues[0].Name)
	assert.Equal(t, "The Musical Hop", areas[0].Venues[1].Name)
	assert.Equal(t, 1, areas[0].Venues[1].NumUpcomingShows)

	assert.Equal(t, "New York", areas[1].City)
	assert.Len(t, areas[1].Venues, 1)
}

func TestVenueAreas_Empty(t *testing.T) {
	s := newServices(t)

	areas, err := s.venues.Areas(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, areas)
	assert.Empty(t, areas)
}

func TestShowCreate_MissingReferenceIsIntegrity(t *testing.T) {
	s := newServices(t)
	ctx := context.Background()

	hop := s.venue(t, "The Musical Hop", "San Francisco", "CA")

	err := s.shows.Create(ctx, &model.Show{ArtistID: 41, VenueID: hop.ID, StartTime: fixedNow})
	assert.True(t, errors.Is(err, apperror.ErrIntegrity), "got %v", err)

	listing, err := s.shows.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, listing)
}

func TestShowList_FormatsStartTime(t *testing.T) {
	s := newServices(t)

	hop := s.venue(t, "The Musical Hop", "San Francisco", "CA")
	guns := s.artist(t, "Guns N Petals", "San Francisco", "CA")
	s.show(t, guns.ID, hop.ID, time.Date(2035, 4, 1, 20, 0, 0, 0, time.UTC))

	listing, err := s.shows.List(context.Background())
	require.NoError(t, err)
	require.Len(t, listing, 1)
	assert.Equal(t, "04/01/2035, 20:00:00", listing[0].StartTime)
	assert.Equal(t, "The Musical Hop", listing[0].VenueName)
	assert.Equal(t, "Guns N Petals", listing[0].ArtistName)
}

func TestShowChoices(t *testing.T) {
	s := newServices(t)

	s.venue(t, "The Musical Hop", "San Francisco", "CA")
	s.artist(t, "Guns N Petals", "San Francisco", "CA")
	s.artist(t, "Matt Quevedo", "New York", "NY")

	c, err := s.shows.Choices(context.Background())
	require.NoError(t, err)
	assert.Len(t, c.Artists, 2)
	assert.Len(t, c.Venues, 1)
}

func TestVenueDelete(t *testing.T) {
	s := newServices(t)
	ctx := context.Background()

	hop := s.venue(t, "The Musical Hop", "San Francisco", "CA")

	name, err := s.venues.Delete(ctx, hop.ID)
	require.NoError(t, err)
	assert.Equal(t, "The Musical Hop", name)

	_, err = s.venues.Delete(ctx, hop.ID)
	assert.True(t, errors.Is(err, apperror.ErrNotFound))
}

func TestArtistUpdateAndList(t *testing.T) {
	s := newServices(t)
	ctx := context.Background()

	a := s.artist(t, "Guns N Petals", "San Francisco", "CA")
	edited := &model.Artist{Name: "Guns N Roses", City: "Los Angeles", State: "CA", GenreList: "Rock n Roll"}
	require.NoError(t, s.artists.Update(ctx, a.ID, edited))

	list, err := s.artists.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, model.Summary{ID: a.ID, Name: "Guns N Roses"}, list[0])

	err = s.artists.Update(ctx, 999, edited)
	assert.True(t, errors.Is(err, apperror.ErrNotFound))
}

// =========================================================================
// STORE FAILURES
// =========================================================================

// brokenStore fails every call, standing in for a database that went away.
type brokenStore struct{ err error }

func (b brokenStore) CreateVenue(context.Context, *model.Venue) error { return b.err }
func (b brokenStore) GetVenue(context.Context, int64) (*model.Venue, error) {
	return nil, b.err
}
func (b brokenStore) ListVenues(context.Context) ([]model.Venue, error) { return nil, b.err }
func (b brokenStore) SearchVenues(context.Context, string) ([]model.Venue, error) {
	return nil, b.err
}
func (b brokenStore) UpdateVenue(context.Context, *model.Venue) error { return b.err }
func (b brokenStore) DeleteVenue(context.Context, int64) error        { return b.err }
func (b brokenStore) CreateShow(context.Context, *model.Show) error   { return b.err }
func (b brokenStore) ListShows(context.Context, repository.ShowFilter) ([]model.ShowListing, error) {
	return nil, b.err
}

func TestStoreFailuresBecomePersistenceErrors(t *testing.T) {
	broken := brokenStore{err: errors.New("database is locked")}
	svc := NewVenueService(broken, broken, discardLogger(), fixedClock)
	ctx := context.Background()

	err := svc.Create(ctx, &model.Venue{Name: "x"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperror.ErrPersistence))
	assert.Equal(t, "creating venue failed", err.Error(), "driver text stays out of the message")

	_, err = svc.Areas(ctx)
	assert.True(t, errors.Is(err, apperror.ErrPersistence))
}

func TestStoreKindsPassThrough(t *testing.T) {
	notFound := brokenStore{err: apperror.NotFound("venue", "3")}
	svc := NewVenueService(notFound, notFound, discardLogger(), fixedClock)

	_, err := svc.Detail(context.Background(), 3)
	assert.True(t, errors.Is(err, apperror.ErrNotFound))
	assert.False(t, errors.Is(err, apperror.ErrPersistence))
}
