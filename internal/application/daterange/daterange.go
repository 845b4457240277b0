// Package daterange materializes the list of calendar days a seeding run
// covers. Days strictly in the future relative to now are skipped here, in
// one place, so every caller behaves identically.
package daterange

import (
	"errors"
	"regexp"
	"strconv"
	"time"
)

// ErrBadMonth is returned for month strings not matching YYYY-MM.
var ErrBadMonth = errors.New("month must be in YYYY-MM format")

var monthPattern = regexp.MustCompile(`^(\d{4})-(0[1-9]|1[0-2])$`)

// ValidateMonth checks a month string without generating dates, so malformed
// configuration fails before any store writes.
func ValidateMonth(month string) error {
	if !monthPattern.MatchString(month) {
		return ErrBadMonth
	}
	return nil
}

// Month produces every calendar day of the given YYYY-MM month in ascending
// order, normalized to local midnight, using the calendar's actual day count.
// Days after now are skipped.
// POST: Result has 28-31 entries for a fully past month
func Month(month string, now time.Time) ([]time.Time, error) {
	m := monthPattern.FindStringSubmatch(month)
	if m == nil {
		return nil, ErrBadMonth
	}
	year, _ := strconv.Atoi(m[1])
	mon, _ := strconv.Atoi(m[2])

	first := time.Date(year, time.Month(mon), 1, 0, 0, 0, 0, now.Location())
	days := first.AddDate(0, 1, -1).Day()

	var out []time.Time
	for i := 0; i < days; i++ {
		d := first.AddDate(0, 0, i)
		if d.After(now) {
			continue
		}
		out = append(out, d)
	}
	return out, nil
}

// LastN produces n dates ending at and including the current local day, in
// descending order (today, yesterday, ...), each normalized to local
// midnight. Days after now are skipped.
func LastN(now time.Time, n int) []time.Time {
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	var out []time.Time
	for i := 0; i < n; i++ {
		d := today.AddDate(0, 0, -i)
		if d.After(now) {
			continue
		}
		out = append(out, d)
	}
	return out
}
