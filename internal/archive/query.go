package archive

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/TobiSchelling/dailybrief/internal/brief"
)

// MonthlyArchive is one calendar month of briefs.
type MonthlyArchive struct {
	Month  string             `json:"month"`
	Year   int                `json:"year"`
	Count  int                `json:"count"`
	Briefs []brief.DailyBrief `json:"briefs"`
}

// undatedLabel groups briefs whose date cannot be parsed.
const undatedLabel = "Undated"

// sortKey orders briefs by calendar day. Unparseable dates sort after all
// parseable ones and among themselves by raw string.
func sortKey(date string) (string, bool) {
	if canonical, ok := brief.CanonicalDate(date); ok {
		return canonical, true
	}
	return date, false
}

// SortByDateDesc sorts briefs newest first, in place.
func SortByDateDesc(briefs []brief.DailyBrief) {
	type keyed struct {
		key    string
		parsed bool
	}
	keys := make(map[string]keyed, len(briefs))
	for _, b := range briefs {
		if _, ok := keys[b.Date]; !ok {
			k, parsed := sortKey(b.Date)
			keys[b.Date] = keyed{k, parsed}
		}
	}

	sort.SliceStable(briefs, func(i, j int) bool {
		ki, kj := keys[briefs[i].Date], keys[briefs[j].Date]
		if ki.parsed != kj.parsed {
			return ki.parsed
		}
		if ki.key != kj.key {
			return ki.key > kj.key
		}
		return briefs[i].Date > briefs[j].Date
	})
}

// Matches reports whether b matches a search query and optional category.
// The query is a case-insensitive substring of the title, the primary focus
// title or the primary focus summary. A non-empty category must equal the
// primary focus category or one of the section ids, ignoring case.
func Matches(b *brief.DailyBrief, query, category string) bool {
	q := strings.ToLower(query)
	if !strings.Contains(strings.ToLower(b.Title), q) &&
		!strings.Contains(strings.ToLower(b.PrimaryFocus.Title), q) &&
		!strings.Contains(strings.ToLower(b.PrimaryFocus.Summary), q) {
		return false
	}

	if category == "" {
		return true
	}
	if strings.EqualFold(b.PrimaryFocus.Category, category) {
		return true
	}
	for _, s := range b.Sections {
		if strings.EqualFold(s.ID, category) {
			return true
		}
	}
	return false
}

// Filter returns the briefs matching query and category, date descending.
func Filter(briefs []brief.DailyBrief, query, category string) []brief.DailyBrief {
	results := []brief.DailyBrief{}
	for i := range briefs {
		if Matches(&briefs[i], query, category) {
			results = append(results, briefs[i])
		}
	}
	SortByDateDesc(results)
	return results
}

// Group partitions briefs by calendar month. Groups are ordered by year
// descending, then by month label descending; briefs inside a group are
// date descending.
func Group(briefs []brief.DailyBrief) []MonthlyArchive {
	groups := make(map[string]*MonthlyArchive)
	var order []string

	for _, b := range briefs {
		key, label, year := undatedLabel, undatedLabel, 0
		if t, ok := brief.ParseDate(b.Date); ok {
			key = t.Format("2006-01")
			label = t.Format("January 2006")
			year = t.Year()
		}

		g, ok := groups[key]
		if !ok {
			g = &MonthlyArchive{Month: label, Year: year}
			groups[key] = g
			order = append(order, key)
		}
		g.Count++
		g.Briefs = append(g.Briefs, b)
	}

	result := make([]MonthlyArchive, 0, len(order))
	for _, key := range order {
		g := groups[key]
		SortByDateDesc(g.Briefs)
		result = append(result, *g)
	}

	sort.SliceStable(result, func(i, j int) bool {
		if result[i].Year != result[j].Year {
			return result[i].Year > result[j].Year
		}
		return result[i].Month > result[j].Month
	})
	return result
}

// Range narrows a search to recent briefs.
type Range string

const (
	RangeAll   Range = "all"
	RangeToday Range = "today"
	RangeWeek  Range = "week"
	RangeMonth Range = "month"
)

// ParseRange parses a range name. The empty string means RangeAll.
func ParseRange(s string) (Range, error) {
	switch r := Range(strings.ToLower(strings.TrimSpace(s))); r {
	case "":
		return RangeAll, nil
	case RangeAll, RangeToday, RangeWeek, RangeMonth:
		return r, nil
	default:
		return "", fmt.Errorf("unknown date range %q", s)
	}
}

// WithinRange keeps the briefs dated inside r relative to now. Week covers
// the last 7 days and month the last 30, both including today. Briefs with
// unparseable dates only survive RangeAll.
func WithinRange(briefs []brief.DailyBrief, r Range, now time.Time) []brief.DailyBrief {
	if r == RangeAll || r == "" {
		return briefs
	}

	today := now.Format(brief.DateLayout)
	var from string
	switch r {
	case RangeToday:
		from = today
	case RangeWeek:
		from = now.AddDate(0, 0, -6).Format(brief.DateLayout)
	case RangeMonth:
		from = now.AddDate(0, 0, -29).Format(brief.DateLayout)
	}

	kept := []brief.DailyBrief{}
	for _, b := range briefs {
		d, ok := brief.CanonicalDate(b.Date)
		if !ok {
			continue
		}
		if d >= from && d <= today {
			kept = append(kept, b)
		}
	}
	return kept
}
