package form

import (
	"github.com/sakif/stagebook/internal/apperror"
	"github.com/sakif/stagebook/internal/model"
)

// Venue is the create/edit venue form.
type Venue struct {
	Name               string   `form:"name" validate:"required,max=120"`
	City               string   `form:"city" validate:"required,max=120"`
	State              string   `form:"state" validate:"required,usstate"`
	Address            string   `form:"address" validate:"required,max=120"`
	Phone              string   `form:"phone" validate:"omitempty,max=120,phone"`
	ImageLink          string   `form:"image_link" validate:"omitempty,max=500,url"`
	Genres             []string `form:"genres" validate:"required,min=1,dive,genre"`
	FacebookLink       string   `form:"facebook_link" validate:"omitempty,max=120,url"`
	WebsiteLink        string   `form:"website_link" validate:"omitempty,max=120,url"`
	SeekingTalent      bool     `form:"seeking_talent"`
	SeekingDescription string   `form:"seeking_description" validate:"max=500"`
}

func (v *Venue) normalize() {
	trim(&v.Name, &v.City, &v.State, &v.Address, &v.Phone, &v.ImageLink,
		&v.FacebookLink, &v.WebsiteLink, &v.SeekingDescription)
	v.Genres = trimGenres(v.Genres)
}

func (v *Venue) check(*Processor) []apperror.FieldError {
	return checkGenreLength(v.Genres)
}

// Model returns the venue record the form describes. ID and timestamps are
// left for the store.
func (v *Venue) Model() *model.Venue {
	return &model.Venue{
		Name:               v.Name,
		City:               v.City,
		State:              v.State,
		Address:            v.Address,
		Phone:              v.Phone,
		ImageLink:          v.ImageLink,
		FacebookLink:       v.FacebookLink,
		WebsiteLink:        v.WebsiteLink,
		GenreList:          model.JoinGenres(v.Genres),
		SeekingTalent:      v.SeekingTalent,
		SeekingDescription: v.SeekingDescription,
	}
}

// FromVenue pre-fills an edit form.
func FromVenue(v *model.Venue) *Venue {
	return &Venue{
		Name:               v.Name,
		City:               v.City,
		State:              v.State,
		Address:            v.Address,
		Phone:              v.Phone,
		ImageLink:          v.ImageLink,
		Genres:             v.Genres(),
		FacebookLink:       v.FacebookLink,
		WebsiteLink:        v.WebsiteLink,
		SeekingTalent:      v.SeekingTalent,
		SeekingDescription: v.SeekingDescription,
	}
}

func trimGenres(genres []string) []string {
	out := make([]string, 0, len(genres))
	for _, g := range genres {
		trim(&g)
		if g != "" {
			out = append(out, g)
		}
	}
	return out
}

func checkGenreLength(genres []string) []apperror.FieldError {
	if len(model.JoinGenres(genres)) > model.MaxShortText {
		return []apperror.FieldError{{Field: "genres", Message: "too many genres selected"}}
	}
	return nil
}
