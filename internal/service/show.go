package service

import (
	"context"
	"log/slog"

	"github.com/sakif/stagebook/internal/model"
	"github.com/sakif/stagebook/internal/repository"
)

// ShowService serves the show listing and the new show form.
type ShowService struct {
	shows   repository.ShowRepository
	artists repository.ArtistRepository
	venues  repository.VenueRepository
	logger  *slog.Logger
}

func NewShowService(shows repository.ShowRepository, artists repository.ArtistRepository, venues repository.VenueRepository, logger *slog.Logger) *ShowService {
	return &ShowService{
		shows:   shows,
		artists: artists,
		venues:  venues,
		logger:  logger,
	}
}

// List returns every show, ordered by start time, with its start time
// formatted for display.
func (s *ShowService) List(ctx context.Context) ([]model.ShowListing, error) {
	shows, err := s.shows.ListShows(ctx, repository.ShowFilter{})
	if err != nil {
		return nil, storeErr(ctx, s.logger, "listing shows", err)
	}
	for i := range shows {
		shows[i].StartTime = model.FormatStartTime(shows[i].StartsAt)
	}
	return shows, nil
}

// Choices are the options for the new show form's pickers.
type Choices struct {
	Artists []model.Summary
	Venues  []model.Summary
}

// Choices lists every artist and venue by id and name.
func (s *ShowService) Choices(ctx context.Context) (*Choices, error) {
	artists, err := s.artists.ListArtists(ctx)
	if err != nil {
		return nil, storeErr(ctx, s.logger, "listing artists", err)
	}
	venues, err := s.venues.ListVenues(ctx)
	if err != nil {
		return nil, storeErr(ctx, s.logger, "listing venues", err)
	}

	c := &Choices{
		Artists: make([]model.Summary, 0, len(artists)),
		Venues:  make([]model.Summary, 0, len(venues)),
	}
	for _, a := range artists {
		c.Artists = append(c.Artists, model.Summary{ID: a.ID, Name: a.Name})
	}
	for _, v := range venues {
		c.Venues = append(c.Venues, model.Summary{ID: v.ID, Name: v.Name})
	}
	return c, nil
}

// Create stores an already validated show. A reference to a missing artist
// or venue comes back as apperror.ErrIntegrity.
func (s *ShowService) Create(ctx context.Context, show *model.Show) error {
	if err := s.shows.CreateShow(ctx, show); err != nil {
		return storeErr(ctx, s.logger, "creating show", err)
	}
	s.logger.InfoContext(ctx, "show created",
		"id", show.ID, "artist_id", show.ArtistID, "venue_id", show.VenueID, "start_time", show.StartTime)
	return nil
}
