// Package schedule turns the human-edited agenda fields of a session
// ("SÁB 21 FEB", "17:00" or "Tarde") into concrete timestamps.  The
// computed end time is the sole definition of "session over": it both
// hides the session from the active agenda and opens its contest.
package schedule

import (
	"strconv"
	"strings"
	"time"
)

// months maps Spanish month abbreviations to their time.Month value.
var months = map[string]time.Month{
	"ENE": time.January, "FEB": time.February, "MAR": time.March,
	"ABR": time.April, "MAY": time.May, "JUN": time.June,
	"JUL": time.July, "AGO": time.August, "SEP": time.September,
	"OCT": time.October, "NOV": time.November, "DIC": time.December,
}

// Start parses a session's date and time into its start timestamp.
// Dates are "<weekday> <day> <month>" with Spanish abbreviations and
// always refer to the current calendar year (taken from now).  Times
// are "HH:MM" or a day-part keyword: mañana 11:00, tarde 17:00, noche
// 21:00; anything else defaults to 10:00.  Minutes are not significant
// on the agenda and are dropped.
//
// A malformed date resolves to January 1 of next year instead of an
// error, so a bad admin entry only hides the session from "ended"
// computations rather than crashing a reader.
func Start(dateStr, timeStr string, now time.Time) time.Time {
	year := now.Year()
	parts := strings.Fields(strings.TrimSpace(dateStr))
	if len(parts) < 3 {
		return neverEnds(year, now.Location())
	}
	day, err := strconv.Atoi(parts[1])
	if err != nil || day < 1 || day > 31 {
		return neverEnds(year, now.Location())
	}
	month, ok := months[strings.ToUpper(parts[2])]
	if !ok {
		// Unknown month abbreviations fall back to January rather than
		// invalidating the whole date.
		month = time.January
	}
	return time.Date(year, month, day, hourOf(timeStr), 0, 0, 0, now.Location())
}

// End returns Start plus the configured session duration.
func End(dateStr, timeStr string, now time.Time, duration time.Duration) time.Time {
	return Start(dateStr, timeStr, now).Add(duration)
}

// hourOf resolves the scheduled hour.  Explicit "HH:MM" wins over the
// day-part keywords.
func hourOf(timeStr string) int {
	if strings.Contains(timeStr, ":") {
		if h, err := strconv.Atoi(strings.SplitN(timeStr, ":", 2)[0]); err == nil && h >= 0 && h <= 23 {
			return h
		}
		return 10
	}
	lower := strings.ToLower(timeStr)
	switch {
	case strings.Contains(lower, "tarde"):
		return 17
	case strings.Contains(lower, "noche"):
		return 21
	case strings.Contains(lower, "mañana"):
		return 11
	}
	return 10
}

// neverEnds is the fail-safe start for unparseable dates: far enough in
// the future that the session never counts as over.
func neverEnds(currentYear int, loc *time.Location) time.Time {
	return time.Date(currentYear+1, time.January, 1, 0, 0, 0, 0, loc)
}
