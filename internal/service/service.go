// Package service holds the query/filter layer between handlers and storage.
//
//	Handler (HTTP)  -> parses the request, renders a view or redirects
//	Service         -> groups, searches, partitions shows, wraps store errors
//	Repository      -> reads/writes rows
//
// Services take repository interfaces, never *sqlstore.DB, so tests can use
// either the in-memory SQLite store or a hand-written fake.
//
// TIME:
// "Upcoming" depends on the current instant. Each service gets a clock
// (func() time.Time) and reads it once per call, so every show in one
// response is judged against the same instant and tests can pin it.
package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/sakif/stagebook/internal/apperror"
	"github.com/sakif/stagebook/internal/model"
	"github.com/sakif/stagebook/internal/repository"
)

// Clock returns the current instant.
type Clock func() time.Time

func systemClock() time.Time { return time.Now().UTC() }

func clockOrSystem(c Clock) Clock {
	if c == nil {
		return systemClock
	}
	return c
}

// storeErr passes apperror kinds through (NotFound, Integrity) and wraps
// anything else as ErrPersistence after logging the real cause.
func storeErr(ctx context.Context, logger *slog.Logger, op string, err error) error {
	if apperror.Is(err) {
		return err
	}
	logger.ErrorContext(ctx, "store operation failed", "op", op, "error", err)
	return apperror.PersistenceFailed(op, err)
}

// upcomingCounts counts upcoming shows per key.
func upcomingCounts(shows []model.ShowListing, now time.Time, key func(model.ShowListing) int64) map[int64]int {
	counts := make(map[int64]int)
	for _, s := range shows {
		if s.IsUpcoming(now) {
			counts[key(s)]++
		}
	}
	return counts
}

func byVenue(s model.ShowListing) int64  { return s.VenueID }
func byArtist(s model.ShowListing) int64 { return s.ArtistID }

// allShows lists every show; used for the upcoming counts on listing pages.
func allShows(ctx context.Context, shows repository.ShowRepository) ([]model.ShowListing, error) {
	return shows.ListShows(ctx, repository.ShowFilter{})
}
