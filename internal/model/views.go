package model

import "time"

// Summary is the short form of a venue or artist used by listings and
// search results.
type Summary struct {
	ID               int64
	Name             string
	NumUpcomingShows int
}

// Area groups the venues that share an exact (city, state) pair.
type Area struct {
	City   string
	State  string
	Venues []Summary
}

// SearchResult is what a venue or artist search hands to its view.
type SearchResult struct {
	Term  string
	Count int
	Data  []Summary
}

// ShowListing is one row of the shows/artists/venues join.
// StartTime holds StartsAt formatted with StartTimeLayout.
type ShowListing struct {
	ShowID          int64
	VenueID         int64
	VenueName       string
	VenueImageLink  string
	ArtistID        int64
	ArtistName      string
	ArtistImageLink string
	StartsAt        time.Time
	StartTime       string
}

// IsUpcoming reports whether the show starts strictly after now.
// A show starting exactly at now is already past.
func (s ShowListing) IsUpcoming(now time.Time) bool {
	return s.StartsAt.After(now)
}

// VenueShow is a show seen from its venue: the artist side is projected.
type VenueShow struct {
	ArtistID        int64
	ArtistName      string
	ArtistImageLink string
	StartsAt        time.Time
	StartTime       string
}

// ArtistShow is a show seen from its artist: the venue side is projected.
type ArtistShow struct {
	VenueID        int64
	VenueName      string
	VenueImageLink string
	StartsAt       time.Time
	StartTime      string
}

// VenueDetail is the venue page read model.
type VenueDetail struct {
	Venue              Venue
	Genres             []string
	PastShows          []VenueShow
	UpcomingShows      []VenueShow
	PastShowsCount     int
	UpcomingShowsCount int
}

// ArtistDetail is the artist page read model.
type ArtistDetail struct {
	Artist             Artist
	Genres             []string
	PastShows          []ArtistShow
	UpcomingShows      []ArtistShow
	PastShowsCount     int
	UpcomingShowsCount int
}
