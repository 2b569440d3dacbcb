package service

import (
	"context"
	"log/slog"

	"github.com/sakif/stagebook/internal/model"
	"github.com/sakif/stagebook/internal/repository"
)

// ArtistService serves the artist pages.
type ArtistService struct {
	artists repository.ArtistRepository
	shows   repository.ShowRepository
	logger  *slog.Logger
	now     Clock
}

func NewArtistService(artists repository.ArtistRepository, shows repository.ShowRepository, logger *slog.Logger, now Clock) *ArtistService {
	return &ArtistService{
		artists: artists,
		shows:   shows,
		logger:  logger,
		now:     clockOrSystem(now),
	}
}

// List returns id and name of every artist, ordered by name.
func (s *ArtistService) List(ctx context.Context) ([]model.Summary, error) {
	artists, err := s.artists.ListArtists(ctx)
	if err != nil {
		return nil, storeErr(ctx, s.logger, "listing artists", err)
	}
	out := make([]model.Summary, 0, len(artists))
	for _, a := range artists {
		out = append(out, model.Summary{ID: a.ID, Name: a.Name})
	}
	return out, nil
}

// Search returns artists whose name, city or state contains term.
func (s *ArtistService) Search(ctx context.Context, term string) (*model.SearchResult, error) {
	now := s.now()

	artists, err := s.artists.SearchArtists(ctx, term)
	if err != nil {
		return nil, storeErr(ctx, s.logger, "searching artists", err)
	}
	shows, err := allShows(ctx, s.shows)
	if err != nil {
		return nil, storeErr(ctx, s.logger, "listing shows", err)
	}
	counts := upcomingCounts(shows, now, byArtist)

	result := &model.SearchResult{Term: term, Count: len(artists), Data: make([]model.Summary, 0, len(artists))}
	for _, a := range artists {
		result.Data = append(result.Data, model.Summary{ID: a.ID, Name: a.Name, NumUpcomingShows: counts[a.ID]})
	}
	return result, nil
}

// Detail returns the artist with its shows split into past and upcoming.
func (s *ArtistService) Detail(ctx context.Context, id int64) (*model.ArtistDetail, error) {
	now := s.now()

	artist, err := s.artists.GetArtist(ctx, id)
	if err != nil {
		return nil, storeErr(ctx, s.logger, "getting artist", err)
	}
	shows, err := s.shows.ListShows(ctx, repository.ShowFilter{ArtistID: id})
	if err != nil {
		return nil, storeErr(ctx, s.logger, "listing artist shows", err)
	}

	d := &model.ArtistDetail{
		Artist:        *artist,
		Genres:        artist.Genres(),
		PastShows:     []model.ArtistShow{},
		UpcomingShows: []model.ArtistShow{},
	}
	for _, sh := range shows {
		as := model.ArtistShow{
			VenueID:        sh.VenueID,
			VenueName:      sh.VenueName,
			VenueImageLink: sh.VenueImageLink,
			StartsAt:       sh.StartsAt,
			StartTime:      model.FormatStartTime(sh.StartsAt),
		}
		if sh.IsUpcoming(now) {
			d.UpcomingShows = append(d.UpcomingShows, as)
		} else {
			d.PastShows = append(d.PastShows, as)
		}
	}
	d.PastShowsCount = len(d.PastShows)
	d.UpcomingShowsCount = len(d.UpcomingShows)
	return d, nil
}

func (s *ArtistService) Get(ctx context.Context, id int64) (*model.Artist, error) {
	a, err := s.artists.GetArtist(ctx, id)
	if err != nil {
		return nil, storeErr(ctx, s.logger, "getting artist", err)
	}
	return a, nil
}

func (s *ArtistService) Create(ctx context.Context, artist *model.Artist) error {
	if err := s.artists.CreateArtist(ctx, artist); err != nil {
		return storeErr(ctx, s.logger, "creating artist", err)
	}
	s.logger.InfoContext(ctx, "artist created", "id", artist.ID, "name", artist.Name)
	return nil
}

func (s *ArtistService) Update(ctx context.Context, id int64, artist *model.Artist) error {
	artist.ID = id
	if err := s.artists.UpdateArtist(ctx, artist); err != nil {
		return storeErr(ctx, s.logger, "updating artist", err)
	}
	s.logger.InfoContext(ctx, "artist updated", "id", id)
	return nil
}
