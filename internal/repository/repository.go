// Package repository declares the storage contracts the service layer depends on.
// internal/repository/sqlstore implements all three on a database/sql pool.
package repository

import (
	"context"

	"github.com/sakif/stagebook/internal/model"
)

type VenueRepository interface {
	CreateVenue(ctx context.Context, venue *model.Venue) error
	GetVenue(ctx context.Context, id int64) (*model.Venue, error)
	ListVenues(ctx context.Context) ([]model.Venue, error)
	SearchVenues(ctx context.Context, term string) ([]model.Venue, error)
	UpdateVenue(ctx context.Context, venue *model.Venue) error
	// DeleteVenue removes the venue and every show booked at it.
	DeleteVenue(ctx context.Context, id int64) error
}

type ArtistRepository interface {
	CreateArtist(ctx context.Context, artist *model.Artist) error
	GetArtist(ctx context.Context, id int64) (*model.Artist, error)
	ListArtists(ctx context.Context) ([]model.Artist, error)
	SearchArtists(ctx context.Context, term string) ([]model.Artist, error)
	UpdateArtist(ctx context.Context, artist *model.Artist) error
}

// ShowFilter narrows ListShows. Zero values mean "any".
type ShowFilter struct {
	VenueID  int64
	ArtistID int64
}

type ShowRepository interface {
	CreateShow(ctx context.Context, show *model.Show) error
	// ListShows returns joined rows ordered by start time. StartTime (the
	// formatted string) is left empty for the caller to project.
	ListShows(ctx context.Context, filter ShowFilter) ([]model.ShowListing, error)
}
