package model

import "time"

// Artist is a performer that can be booked at a venue.
type Artist struct {
	ID                 int64     `json:"id"`
	Name               string    `json:"name"`
	City               string    `json:"city"`
	State              string    `json:"state"`
	Phone              string    `json:"phone"`
	ImageLink          string    `json:"imageLink"`
	FacebookLink       string    `json:"facebookLink"`
	WebsiteLink        string    `json:"websiteLink"`
	GenreList          string    `json:"genres"`
	SeekingVenue       bool      `json:"seekingVenue"`
	SeekingDescription string    `json:"seekingDescription"`
	CreatedAt          time.Time `json:"createdAt"`
	UpdatedAt          time.Time `json:"updatedAt"`
}

// Genres splits the stored genre column.
func (a *Artist) Genres() []string {
	return SplitGenres(a.GenreList)
}
