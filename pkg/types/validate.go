package types

import (
	"regexp"
	"strconv"
	"time"
)

// Layouts for date keys and times of day.
const (
	DateLayout = "2006-01-02"
	TimeLayout = "15:04"
)

// LegacyTimeOfDay is assigned to the single entry of a legacy day when it is
// migrated to the modern shape.
const LegacyTimeOfDay = "12:00"

var (
	dateRe  = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
	timeRe  = regexp.MustCompile(`^\d{2}:\d{2}$`)
	colorRe = regexp.MustCompile(`^#[0-9A-Fa-f]{6}$`)
	yearRe  = regexp.MustCompile(`^\d{4}$`)
)

// ValidateDate checks that s is a real calendar date in YYYY-MM-DD form.
func ValidateDate(s string) error {
	if !dateRe.MatchString(s) {
		return &ValidationError{Field: "date", Value: s, Reason: "expected YYYY-MM-DD"}
	}
	if _, err := time.Parse(DateLayout, s); err != nil {
		return &ValidationError{Field: "date", Value: s, Reason: "not a calendar date"}
	}
	return nil
}

// ValidateTimeOfDay checks that s is a 24-hour HH:MM time.
func ValidateTimeOfDay(s string) error {
	if !timeRe.MatchString(s) {
		return &ValidationError{Field: "time", Value: s, Reason: "expected HH:MM"}
	}
	if _, err := time.Parse(TimeLayout, s); err != nil {
		return &ValidationError{Field: "time", Value: s, Reason: "not a valid time of day"}
	}
	return nil
}

// ValidateYear checks that s is a four-digit year.
func ValidateYear(s string) error {
	if !yearRe.MatchString(s) {
		return &ValidationError{Field: "year", Value: s, Reason: "expected four digits"}
	}
	return nil
}

// FormatYear renders a year the way date keys start.
func FormatYear(year int) (string, error) {
	if year < 0 || year > 9999 {
		return "", &ValidationError{Field: "year", Value: strconv.Itoa(year), Reason: "out of range"}
	}
	s := strconv.Itoa(year)
	for len(s) < 4 {
		s = "0" + s
	}
	return s, nil
}

// ValidColor reports whether s is a #RRGGBB hex color.
func ValidColor(s string) bool {
	return colorRe.MatchString(s)
}
