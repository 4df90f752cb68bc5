// Package season maps calendar time onto the half-year seasons the game is
// scored in. Seasons are numbered from 1 starting at a fixed epoch and
// alternate between January and July starts. Season number 0 is the
// distinguished "all time" season spanning the whole timeline, and is
// always treated as still open.
package season

import (
	"fmt"
	"time"
)

// Season 1 starts here; every later season starts exactly half a year after
// the previous one.
var firstSeasonStart = time.Date(2013, time.January, 1, 0, 0, 0, 0, time.UTC)

const AllTimeNumber = 0

// Season is a value type; compare with ==.
type Season struct {
	Number int
}

var AllTime = Season{Number: AllTimeNumber}

func (s Season) IsAllTime() bool {
	return s.Number == AllTimeNumber
}

func (s Season) String() string {
	if s.IsAllTime() {
		return "All time"
	}
	return fmt.Sprintf("Season %d", s.Number)
}

// Start returns the first instant of the season. All time starts where
// season 1 does.
func (s Season) Start() time.Time {
	if s.IsAllTime() {
		return Season{Number: 1}.Start()
	}
	extraHalfYears := s.Number - 1
	year := firstSeasonStart.Year() + extraHalfYears/2
	month := firstSeasonStart.Month()
	if extraHalfYears%2 == 1 {
		month = time.July
	}
	return time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
}

// End returns the last instant of the season, one tick before the next
// season's start. The all-time season nominally ends with the current
// season, but IsOpen reports it as always open.
func (s Season) End() time.Time {
	if s.IsAllTime() {
		return Current().End()
	}
	return Season{Number: s.Number + 1}.Start().Add(-time.Nanosecond)
}

// Contains reports whether t falls inside the season's range.
func (s Season) Contains(t time.Time) bool {
	return !t.Before(s.Start()) && !t.After(s.End())
}

// IsOpen reports whether live results still count towards the season.
func (s Season) IsOpen() bool {
	return s.IsAllTime() || s == Current()
}

// FromDate returns the numbered season containing t.
func FromDate(t time.Time) Season {
	t = t.UTC()
	number := (t.Year()-firstSeasonStart.Year())*2 + 1
	if t.Month() >= time.July {
		number++
	}
	return Season{Number: number}
}

// Current returns the numbered season containing now.
func Current() Season {
	return FromDate(time.Now())
}

// IsValidNumber reports whether n names an existing numbered season.
func IsValidNumber(n int) bool {
	return 1 <= n && n <= Current().Number
}

// FromNumber validates n (0 for all time) and returns the season.
func FromNumber(n int) (Season, error) {
	if n == AllTimeNumber {
		return AllTime, nil
	}
	if !IsValidNumber(n) {
		return Season{}, fmt.Errorf("invalid season number %d", n)
	}
	return Season{Number: n}, nil
}
