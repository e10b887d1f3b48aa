package session

import (
	"fmt"
	"time"
	_ "time/tzdata" // Asia/Kolkata without a system zoneinfo
)

// TimeOfDay is a wall-clock time in seconds since local midnight
type TimeOfDay int

// At builds a TimeOfDay from hour and minute
func At(hour, minute int) TimeOfDay {
	return TimeOfDay(hour*3600 + minute*60)
}

// ParseTimeOfDay parses "HH:MM"
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	t, err := time.Parse("15:04", s)
	if err != nil {
		return 0, fmt.Errorf("parse time of day %q: %w", s, err)
	}
	return At(t.Hour(), t.Minute()), nil
}

// Of returns the time of day of t in its own location
func Of(t time.Time) TimeOfDay {
	return TimeOfDay(t.Hour()*3600 + t.Minute()*60 + t.Second())
}

func (d TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", int(d)/3600, (int(d)%3600)/60)
}

// Schedule holds the session boundaries.
// NO_NEW_1 starts at Scalp1End and NO_NEW_2 starts at Scalp2End.
type Schedule struct {
	Location    *time.Location
	Open        TimeOfDay
	StudyEnd    TimeOfDay
	Scalp1Start TimeOfDay
	Scalp1End   TimeOfDay
	NoNew1End   TimeOfDay
	Scalp2Start TimeOfDay
	Scalp2End   TimeOfDay
	Close       TimeOfDay
}

// IST is the exchange timezone. Falls back to a fixed +05:30 zone.
func IST() *time.Location {
	loc, err := time.LoadLocation("Asia/Kolkata")
	if err != nil {
		return time.FixedZone("IST", 5*3600+1800)
	}
	return loc
}

// DefaultSchedule NSE 세션 기본값
func DefaultSchedule() Schedule {
	return Schedule{
		Location:    IST(),
		Open:        At(9, 15),
		StudyEnd:    At(10, 0),
		Scalp1Start: At(10, 0),
		Scalp1End:   At(11, 30),
		NoNew1End:   At(13, 30),
		Scalp2Start: At(13, 30),
		Scalp2End:   At(14, 45),
		Close:       At(15, 30),
	}
}

// Validate checks that boundaries are non-decreasing
func (s Schedule) Validate() error {
	if s.Location == nil {
		return fmt.Errorf("schedule location is required")
	}
	order := []struct {
		name string
		at   TimeOfDay
	}{
		{"open", s.Open},
		{"study_end", s.StudyEnd},
		{"scalp_1_start", s.Scalp1Start},
		{"scalp_1_end", s.Scalp1End},
		{"no_new_1_end", s.NoNew1End},
		{"scalp_2_start", s.Scalp2Start},
		{"scalp_2_end", s.Scalp2End},
		{"close", s.Close},
	}
	for i := 1; i < len(order); i++ {
		if order[i].at < order[i-1].at {
			return fmt.Errorf("%s (%s) is before %s (%s)", order[i].name, order[i].at, order[i-1].name, order[i-1].at)
		}
	}
	return nil
}
