// Package hours decides whether the restaurant is open at a given moment.
//
// All functions read the calendar fields of the value they are given and
// never convert between time zones: a 09:30 value is 09:30 regardless of
// its Location.
package hours

import (
	"fmt"
	"time"
)

const (
	WeekdayOpening = 11
	WeekendOpening = 10
	Closing        = 21
)

type DayKind string

const (
	Weekday DayKind = "weekday"
	Weekend DayKind = "weekend"
)

func IsWeekend(date time.Time) bool {
	wd := date.Weekday()
	return wd == time.Saturday || wd == time.Sunday
}

func KindOf(date time.Time) DayKind {
	if IsWeekend(date) {
		return Weekend
	}
	return Weekday
}

// Hours returns the opening and closing hour (24h clock) for date's day of week.
func Hours(date time.Time) (opening, closing int) {
	if IsWeekend(date) {
		return WeekendOpening, Closing
	}
	return WeekdayOpening, Closing
}

// IsWithin reports whether t falls in the half-open window [opening, closing).
// Minutes are ignored, so 20:59 is open and 21:00 is closed.
func IsWithin(t time.Time) bool {
	opening, closing := Hours(t)
	h := t.Hour()
	return opening <= h && h < closing
}

// Describe renders the window for date, e.g. "10:00 AM to 9:00 PM (10:00–21:00)".
func Describe(date time.Time) string {
	opening, closing := Hours(date)
	return fmt.Sprintf("%s to %s (%02d:00–%02d:00)", clock12(opening), clock12(closing), opening, closing)
}

func clock12(hour int) string {
	suffix := "AM"
	if hour >= 12 {
		suffix = "PM"
	}
	h := hour % 12
	if h == 0 {
		h = 12
	}
	return fmt.Sprintf("%d:00 %s", h, suffix)
}
