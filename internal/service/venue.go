package service

import (
	"context"
	"log/slog"

	"github.com/sakif/stagebook/internal/model"
	"github.com/sakif/stagebook/internal/repository"
)

// VenueService serves the venue pages.
type VenueService struct {
	venues repository.VenueRepository
	shows  repository.ShowRepository
	logger *slog.Logger
	now    Clock
}

// NewVenueService creates a VenueService. A nil clock uses the system clock.
func NewVenueService(venues repository.VenueRepository, shows repository.ShowRepository, logger *slog.Logger, now Clock) *VenueService {
	return &VenueService{
		venues: venues,
		shows:  shows,
		logger: logger,
		now:    clockOrSystem(now),
	}
}

// Areas groups every venue by exact (city, state). Groups follow the store's
// state, city order; venues within a group are ordered by name.
func (s *VenueService) Areas(ctx context.Context) ([]model.Area, error) {
	now := s.now()

	venues, err := s.venues.ListVenues(ctx)
	if err != nil {
		return nil, storeErr(ctx, s.logger, "listing venues", err)
	}
	shows, err := allShows(ctx, s.shows)
	if err != nil {
		return nil, storeErr(ctx, s.logger, "listing shows", err)
	}
	counts := upcomingCounts(shows, now, byVenue)

	type areaKey struct{ city, state string }
	index := make(map[areaKey]int)
	areas := []model.Area{}

	for _, v := range venues {
		k := areaKey{v.City, v.State}
		i, ok := index[k]
		if !ok {
			i = len(areas)
			index[k] = i
			areas = append(areas, model.Area{City: v.City, State: v.State})
		}
		areas[i].Venues = append(areas[i].Venues, model.Summary{
			ID:               v.ID,
			Name:             v.Name,
			NumUpcomingShows: counts[v.ID],
		})
	}
	return areas, nil
}

// Search returns venues whose name, city or state contains term.
func (s *VenueService) Search(ctx context.Context, term string) (*model.SearchResult, error) {
	now := s.now()

	venues, err := s.venues.SearchVenues(ctx, term)
	if err != nil {
		return nil, storeErr(ctx, s.logger, "searching venues", err)
	}
	shows, err := allShows(ctx, s.shows)
	if err != nil {
		return nil, storeErr(ctx, s.logger, "listing shows", err)
	}
	counts := upcomingCounts(shows, now, byVenue)

	result := &model.SearchResult{Term: term, Count: len(venues), Data: make([]model.Summary, 0, len(venues))}
	for _, v := range venues {
		result.Data = append(result.Data, model.Summary{ID: v.ID, Name: v.Name, NumUpcomingShows: counts[v.ID]})
	}
	return result, nil
}

// Detail returns the venue with its shows split into past and upcoming.
func (s *VenueService) Detail(ctx context.Context, id int64) (*model.VenueDetail, error) {
	now := s.now()

	venue, err := s.venues.GetVenue(ctx, id)
	if err != nil {
		return nil, storeErr(ctx, s.logger, "getting venue", err)
	}
	shows, err := s.shows.ListShows(ctx, repository.ShowFilter{VenueID: id})
	if err != nil {
		return nil, storeErr(ctx, s.logger, "listing venue shows", err)
	}

	d := &model.VenueDetail{
		Venue:         *venue,
		Genres:        venue.Genres(),
		PastShows:     []model.VenueShow{},
		UpcomingShows: []model.VenueShow{},
	}
	for _, sh := range shows {
		vs := model.VenueShow{
			ArtistID:        sh.ArtistID,
			ArtistName:      sh.ArtistName,
			ArtistImageLink: sh.ArtistImageLink,
			StartsAt:        sh.StartsAt,
			StartTime:       model.FormatStartTime(sh.StartsAt),
		}
		if sh.IsUpcoming(now) {
			d.UpcomingShows = append(d.UpcomingShows, vs)
		} else {
			d.PastShows = append(d.PastShows, vs)
		}
	}
	d.PastShowsCount = len(d.PastShows)
	d.UpcomingShowsCount = len(d.UpcomingShows)
	return d, nil
}

// Get returns the stored venue, for pre-filling the edit form.
func (s *VenueService) Get(ctx context.Context, id int64) (*model.Venue, error) {
	v, err := s.venues.GetVenue(ctx, id)
	if err != nil {
		return nil, storeErr(ctx, s.logger, "getting venue", err)
	}
	return v, nil
}

// Create stores an already validated venue.
func (s *VenueService) Create(ctx context.Context, venue *model.Venue) error {
	if err := s.venues.CreateVenue(ctx, venue); err != nil {
		return storeErr(ctx, s.logger, "creating venue", err)
	}
	s.logger.InfoContext(ctx, "venue created", "id", venue.ID, "name", venue.Name)
	return nil
}

// Update overwrites venue id with the given values.
func (s *VenueService) Update(ctx context.Context, id int64, venue *model.Venue) error {
	venue.ID = id
	if err := s.venues.UpdateVenue(ctx, venue); err != nil {
		return storeErr(ctx, s.logger, "updating venue", err)
	}
	s.logger.InfoContext(ctx, "venue updated", "id", id)
	return nil
}

// Delete removes the venue and its shows. The deleted venue's name is
// returned for the confirmation message.
func (s *VenueService) Delete(ctx context.Context, id int64) (string, error) {
	venue, err := s.venues.GetVenue(ctx, id)
	if err != nil {
		return "", storeErr(ctx, s.logger, "getting venue", err)
	}
	if err := s.venues.DeleteVenue(ctx, id); err != nil {
		return "", storeErr(ctx, s.logger, "deleting venue", err)
	}
	s.logger.InfoContext(ctx, "venue deleted", "id", id, "name", venue.Name)
	return venue.Name, nil
}
