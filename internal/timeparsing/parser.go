// Package timeparsing turns user-supplied time expressions into instants.
//
// Used by --since and --until. Inputs are tried in layers, first match wins:
//  1. Unix seconds (1433152800)
//  2. Compact duration (+6h, -1d, 2w)
//  3. Absolute timestamp (2006-01-02, 2006-01-02 15:04, RFC3339)
//  4. Natural language (yesterday, 3 days ago, last monday)
package timeparsing

import (
	"fmt"
	"regexp"
	"strconv"
	"time"
)

// compactDurationRe matches compact duration patterns: [+-]?(\d+)([hdwmy])
// Examples: +6h, -1d, +2w, 3m, 1y
var compactDurationRe = regexp.MustCompile(`^([+-]?)(\d+)([hdwmy])$`)

// ParseCompactDuration parses compact duration syntax relative to now.
//
// Units: h hours, d days, w weeks, m months, y years. No sign means
// positive, so "-2d" is the usual way to say "two days ago".
func ParseCompactDuration(s string, now time.Time) (time.Time, error) {
	matches := compactDurationRe.FindStringSubmatch(s)
	if matches == nil {
		return time.Time{}, fmt.Errorf("not a compact duration: %q", s)
	}

	amount, err := strconv.Atoi(matches[2])
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid duration amount: %q", matches[2])
	}
	if matches[1] == "-" {
		amount = -amount
	}

	return applyDuration(now, amount, matches[3]), nil
}

// applyDuration applies the given amount and unit to the base time.
func applyDuration(base time.Time, amount int, unit string) time.Time {
	switch unit {
	case "h":
		return base.Add(time.Duration(amount) * time.Hour)
	case "d":
		return base.AddDate(0, 0, amount)
	case "w":
		return base.AddDate(0, 0, amount*7)
	case "m":
		return base.AddDate(0, amount, 0)
	case "y":
		return base.AddDate(amount, 0, 0)
	default:
		return base
	}
}

// IsCompactDuration returns true if the string matches compact duration syntax.
func IsCompactDuration(s string) bool {
	return compactDurationRe.MatchString(s)
}

var unixSecondsRe = regexp.MustCompile(`^\d+$`)

// ParseUnixSeconds parses a non-negative count of seconds since the epoch.
func ParseUnixSeconds(s string) (time.Time, error) {
	if !unixSecondsRe.MatchString(s) {
		return time.Time{}, fmt.Errorf("not a unix timestamp: %q", s)
	}
	secs, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid unix timestamp %q: %w", s, err)
	}
	return time.Unix(secs, 0), nil
}

var absoluteLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
}

// ParseAbsolute parses an absolute timestamp. Layouts without a zone are
// read in now's location.
func ParseAbsolute(s string, now time.Time) (time.Time, error) {
	for _, layout := range absoluteLayouts {
		if t, err := time.ParseInLocation(layout, s, now.Location()); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("not an absolute timestamp: %q", s)
}
