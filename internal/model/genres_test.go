package model

import (
	"reflect"
	"testing"
	"time"
)

func TestJoinSplitGenres(t *testing.T) {
	tests := []struct {
		name   string
		in     []string
		stored string
		back   []string
	}{
		{"two genres", []string{"Jazz", "Reggae"}, "Jazz,Reggae", []string{"Jazz", "Reggae"}},
		{"single", []string{"Folk"}, "Folk", []string{"Folk"}},
		{"trims and drops blanks", []string{" Jazz ", "", "  "}, "Jazz", []string{"Jazz"}},
		{"empty", nil, "", []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stored := JoinGenres(tt.in)
			if stored != tt.stored {
				t.Errorf("JoinGenres(%v) = %q, want %q", tt.in, stored, tt.stored)
			}
			back := SplitGenres(stored)
			if !reflect.DeepEqual(back, tt.back) {
				t.Errorf("SplitGenres(%q) = %v, want %v", stored, back, tt.back)
			}
		})
	}
}

func TestShowListingIsUpcoming(t *testing.T) {
	now := time.Date(2026, 5, 1, 20, 0, 0, 0, time.UTC)

	tests := []struct {
		name  string
		start time.Time
		want  bool
	}{
		{"later", now.Add(time.Second), true},
		{"exactly now is past", now, false},
		{"earlier", now.Add(-time.Hour), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := (ShowListing{StartsAt: tt.start}).IsUpcoming(now); got != tt.want {
				t.Errorf("IsUpcoming() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestFormatStartTime(t *testing.T) {
	got := FormatStartTime(time.Date(2035, 4, 1, 20, 0, 0, 0, time.UTC))
	if got != "04/01/2035, 20:00:00" {
		t.Errorf("FormatStartTime() = %q", got)
	}
}
