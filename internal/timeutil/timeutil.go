package timeutil

import (
	"time"
)

// Location is the zone used when presenting dates. Defaults to UTC.
var Location = time.UTC

// SetLocation switches the presentation zone. An unknown name keeps the current zone.
func SetLocation(name string) error {
	if name == "" {
		return nil
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return err
	}
	Location = loc
	return nil
}

// Now returns the current time in the presentation zone
func Now() time.Time {
	return time.Now().In(Location)
}

// FormatDate renders t as a calendar date, or NoDate when t is zero
func FormatDate(t time.Time) string {
	if t.IsZero() {
		return NoDate
	}
	return t.In(Location).Format(DateLayout)
}

// Common layouts
const (
	DateLayout     = "2006-01-02"
	DateTimeLayout = "2006-01-02 15:04:05"
	NoDate         = "—"
)
