// Package timeutil provides minute-of-day arithmetic and HH:MM clock parsing.
//
// All values operate modulo 1440 in the process-local timezone. Wrap-around
// (e.g. a window anchored the previous evening) uses modular arithmetic, never
// calendar-date math, so daylight-saving discontinuities cannot shift results.
package timeutil

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
)

// MinutesPerDay is the size of the minute-of-day ring.
const MinutesPerDay = 24 * 60

// ParseClock parses a "HH:MM" string into minutes since midnight.
func ParseClock(s string) (int, error) {
	parts := strings.SplitN(strings.TrimSpace(s), ":", 2)
	if len(parts) != 2 {
		return 0, errors.Errorf("invalid clock time %q, expected HH:MM", s)
	}
	hour, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, errors.Wrapf(err, "invalid hour in clock time %q", s)
	}
	minute, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, errors.Wrapf(err, "invalid minute in clock time %q", s)
	}
	if hour < 0 || hour > 23 || minute < 0 || minute > 59 {
		return 0, errors.Errorf("clock time %q out of range", s)
	}
	return hour*60 + minute, nil
}

// FormatClock renders minutes since midnight as "HH:MM". The value is wrapped
// into [0, 1440) first, so FormatClock(-90) == "22:30".
func FormatClock(minutes int) string {
	m := WrapMinute(minutes)
	return fmt.Sprintf("%02d:%02d", m/60, m%60)
}

// WrapMinute maps any minute offset onto the [0, 1440) ring.
func WrapMinute(m int) int {
	m %= MinutesPerDay
	if m < 0 {
		m += MinutesPerDay
	}
	return m
}

// MinuteOfDay returns the minute-of-day for t in its own location.
func MinuteOfDay(t time.Time) int {
	return t.Hour()*60 + t.Minute()
}

// RingDistance returns the forward distance from a to b on the minute ring,
// i.e. how many minutes after a the minute b occurs.
func RingDistance(a, b int) int {
	return WrapMinute(b - a)
}

// DateHourKey renders t as the canonical "YYYY-MM-DD-HH" bucket key used for
// hourly usage samples.
func DateHourKey(t time.Time) string {
	return t.Format("2006-01-02-15")
}

var weekdays = map[string]time.Weekday{
	"sunday":    time.Sunday,
	"sun":       time.Sunday,
	"monday":    time.Monday,
	"mon":       time.Monday,
	"tuesday":   time.Tuesday,
	"tue":       time.Tuesday,
	"wednesday": time.Wednesday,
	"wed":       time.Wednesday,
	"thursday":  time.Thursday,
	"thu":       time.Thursday,
	"friday":    time.Friday,
	"fri":       time.Friday,
	"saturday":  time.Saturday,
	"sat":       time.Saturday,
}

// ParseWeekday parses a weekday name or three-letter abbreviation, case
// insensitively.
func ParseWeekday(s string) (time.Weekday, error) {
	day, ok := weekdays[strings.ToLower(strings.TrimSpace(s))]
	if !ok {
		return 0, errors.Errorf("invalid weekday %q", s)
	}
	return day, nil
}
