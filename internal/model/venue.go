// Package model defines the records stored by the booking site and the read
// models handed to the templates.
//
// Persisted records (Venue, Artist, Show) mirror the table columns one to one.
// Anything computed at read time (show partitions, counts, split genre lists)
// lives on a separate view struct in views.go so a stored record is never
// mutated to carry derived data.
package model

import "time"

// Column limits shared by the schema and the form validation layer.
const (
	MaxShortText = 120
	MaxLongText  = 500
)

// Venue is a place that hosts shows.
//
// Genres is stored as a single comma-joined column; use Genres() to get the list.
type Venue struct {
	ID                 int64     `json:"id"`
	Name               string    `json:"name"`
	City               string    `json:"city"`
	State              string    `json:"state"`
	Address            string    `json:"address"`
	Phone              string    `json:"phone"`
	ImageLink          string    `json:"imageLink"`
	FacebookLink       string    `json:"facebookLink"`
	WebsiteLink        string    `json:"websiteLink"`
	GenreList          string    `json:"genres"`
	SeekingTalent      bool      `json:"seekingTalent"`
	SeekingDescription string    `json:"seekingDescription"`
	CreatedAt          time.Time `json:"createdAt"`
	UpdatedAt          time.Time `json:"updatedAt"`
}

// Genres splits the stored genre column.
func (v *Venue) Genres() []string {
	return SplitGenres(v.GenreList)
}
