package form

import (
	"github.com/sakif/stagebook/internal/apperror"
	"github.com/sakif/stagebook/internal/model"
)

// Artist is the create/edit artist form.
type Artist struct {
	Name               string   `form:"name" validate:"required,max=120"`
	City               string   `form:"city" validate:"required,max=120"`
	State              string   `form:"state" validate:"required,usstate"`
	Phone              string   `form:"phone" validate:"omitempty,max=120,phone"`
	ImageLink          string   `form:"image_link" validate:"omitempty,max=500,url"`
	Genres             []string `form:"genres" validate:"required,min=1,dive,genre"`
	FacebookLink       string   `form:"facebook_link" validate:"omitempty,max=120,url"`
	WebsiteLink        string   `form:"website_link" validate:"omitempty,max=120,url"`
	SeekingVenue       bool     `form:"seeking_venue"`
	SeekingDescription string   `form:"seeking_description" validate:"max=500"`
}

func (a *Artist) normalize() {
	trim(&a.Name, &a.City, &a.State, &a.Phone, &a.ImageLink,
		&a.FacebookLink, &a.WebsiteLink, &a.SeekingDescription)
	a.Genres = trimGenres(a.Genres)
}

func (a *Artist) check(*Processor) []apperror.FieldError {
	return checkGenreLength(a.Genres)
}

func (a *Artist) Model() *model.Artist {
	return &model.Artist{
		Name:               a.Name,
		City:               a.City,
		State:              a.State,
		Phone:              a.Phone,
		ImageLink:          a.ImageLink,
		FacebookLink:       a.FacebookLink,
		WebsiteLink:        a.WebsiteLink,
		GenreList:          model.JoinGenres(a.Genres),
		SeekingVenue:       a.SeekingVenue,
		SeekingDescription: a.SeekingDescription,
	}
}

// FromArtist pre-fills an edit form.
func FromArtist(a *model.Artist) *Artist {
	return &Artist{
		Name:               a.Name,
		City:               a.City,
		State:              a.State,
		Phone:              a.Phone,
		ImageLink:          a.ImageLink,
		Genres:             a.Genres(),
		FacebookLink:       a.FacebookLink,
		WebsiteLink:        a.WebsiteLink,
		SeekingVenue:       a.SeekingVenue,
		SeekingDescription: a.SeekingDescription,
	}
}
