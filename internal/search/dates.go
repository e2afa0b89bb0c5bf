package search

import (
	"regexp"
	"strconv"
	"time"
)

var (
	// "12 Mar 2024", "3 January 2025", "2024-03-12", "12/03/2024"
	dateRe = regexp.MustCompile(`(?i)(\d{1,2}\s+(?:Jan|Feb|Mar|Apr|May|Jun|Jul|Aug|Sep|Oct|Nov|Dec)[a-z]*\.?\s+\d{4})|(\d{4}-\d{2}-\d{2})|(\d{2}/\d{2}/\d{4})`)
	// "3 days ago", "2 weeks ago"
	timeAgoRe = regexp.MustCompile(`(?i)(\d+\s+(?:minute|hour|day|week|month)s?\s+ago)`)
	yearRe    = regexp.MustCompile(`\b(20\d{2})\b`)
)

// dateLayouts are attempted in order when parsing an extracted date string.
var dateLayouts = []string{
	"2006-01-02",
	"2 Jan 2006",
	"2 January 2006",
	"Jan 2, 2006",
	"January 2, 2006",
	"02/01/2006",
	"2006",
}

// extractDateFromSnippet pulls a publish date and a relative-time phrase out
// of snippet text. When only year mentions are present, the most recent year
// within the last two years is used as the date.
func extractDateFromSnippet(snippet string) (date, timeAgo string) {
	if m := dateRe.FindString(snippet); m != "" {
		date = m
	}

	if m := timeAgoRe.FindStringSubmatch(snippet); m != nil {
		timeAgo = m[1]
	}

	if date == "" {
		if year, ok := MostRecentYear(snippet); ok {
			if time.Now().Year()-year <= 2 {
				date = strconv.Itoa(year)
			}
		}
	}

	return date, timeAgo
}

// MostRecentYear returns the latest 20xx year mentioned in text.
func MostRecentYear(text string) (int, bool) {
	matches := yearRe.FindAllString(text, -1)
	if len(matches) == 0 {
		return 0, false
	}

	best := 0
	for _, m := range matches {
		if y, err := strconv.Atoi(m); err == nil && y > best {
			best = y
		}
	}
	return best, best > 0
}

// ParseDate attempts to parse an extracted date string with the known layouts.
func ParseDate(value string) (time.Time, bool) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
