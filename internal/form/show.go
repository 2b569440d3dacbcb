package form

import (
	"time"

	"github.com/sakif/stagebook/internal/apperror"
	"github.com/sakif/stagebook/internal/model"
)

// Show is the create show form. StartTime stays a string so a bad value can
// be shown back to the visitor unchanged.
type Show struct {
	ArtistID  int64  `form:"artist_id" validate:"gt=0"`
	VenueID   int64  `form:"venue_id" validate:"gt=0"`
	StartTime string `form:"start_time" validate:"required"`

	startsAt time.Time
}

// NewShow returns a blank form whose start time defaults to now.
func NewShow(now time.Time) *Show {
	return &Show{StartTime: now.Format(StartTimeInputLayout)}
}

func (s *Show) normalize() {
	trim(&s.StartTime)
}

func (s *Show) check(p *Processor) []apperror.FieldError {
	if s.StartTime == "" {
		return nil
	}
	t, ok := parseStartTime(s.StartTime, p.loc)
	if !ok {
		return []apperror.FieldError{{
			Field:   "start_time",
			Message: "start_time must look like " + StartTimeInputLayout,
		}}
	}
	s.startsAt = t
	return nil
}

// Model returns the show record. Only meaningful after a successful Decode.
func (s *Show) Model() *model.Show {
	return &model.Show{
		ArtistID:  s.ArtistID,
		VenueID:   s.VenueID,
		StartTime: s.startsAt.UTC(),
	}
}
