package model

import "time"

// StartTimeLayout is the fixed pattern used when a show's start time is
// projected into a listing or detail page.
const StartTimeLayout = "01/02/2006, 15:04:05"

// Show books one artist at one venue. It has no fields of its own beyond
// the start time; both references are required.
type Show struct {
	ID        int64     `json:"id"`
	StartTime time.Time `json:"startTime"`
	ArtistID  int64     `json:"artistId"`
	VenueID   int64     `json:"venueId"`
}

// FormatStartTime renders t with StartTimeLayout.
func FormatStartTime(t time.Time) string {
	return t.Format(StartTimeLayout)
}
