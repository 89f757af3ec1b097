package archive

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/TobiSchelling/dailybrief/internal/brief"
)

func seeded(t *testing.T) *Archive {
	t.Helper()
	ctx := context.Background()
	a := New(NewMemoryStore(), nil, Options{Clock: fixedClock("2025-09-08")})

	gst := makeBrief("2025-09-07", "General Studies Brief")
	gst.PrimaryFocus.Title = "GST 2.0 Reforms"
	gst.PrimaryFocus.Summary = "Two-tier tax structure"
	gst.PrimaryFocus.Category = "Economic"

	space := makeBrief("2025-09-08", "Science Brief")
	space.PrimaryFocus.Title = "Chandrayaan update"
	space.PrimaryFocus.Summary = "Lunar mission"
	space.PrimaryFocus.Category = "Science"
	space.Sections = []brief.Section{{ID: "international"}}

	old := makeBrief("2025-08-15", "Independence Day Brief")
	old.PrimaryFocus.Title = "Tax reform roadmap"
	old.PrimaryFocus.Category = "Governance"

	for _, b := range []*brief.DailyBrief{gst, space, old} {
		if _, err := a.Upsert(ctx, b); err != nil {
			t.Fatalf("seeding: %v", err)
		}
	}
	return a
}

func dates(briefs []brief.DailyBrief) string {
	var ds []string
	for _, b := range briefs {
		ds = append(ds, b.Date)
	}
	return strings.Join(ds, ",")
}

func TestSearchMatchesFields(t *testing.T) {
	a := seeded(t)
	ctx := context.Background()

	tests := []struct {
		query, category, want string
	}{
		{"tax", "", "2025-09-07,2025-08-15"},
		{"LUNAR", "", "2025-09-08"},
		{"brief", "", "2025-09-08,2025-09-07,2025-08-15"},
		{"tax", "economic", "2025-09-07"},
		{"", "INTERNATIONAL", "2025-09-08"},
		{"", "governance", "2025-09-07,2025-08-15"},
		{"nothing matches this", "", ""},
	}

	for _, tt := range tests {
		results, err := a.Search(ctx, tt.query, tt.category)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got := dates(results); got != tt.want {
			t.Errorf("Search(%q, %q) = %q, want %q", tt.query, tt.category, got, tt.want)
		}
	}
}

func TestSearchEmptyResultIsNotNil(t *testing.T) {
	results, _ := seeded(t).Search(context.Background(), "zzz", "")
	if results == nil || len(results) != 0 {
		t.Errorf("expected empty non-nil slice, got %#v", results)
	}
}

func TestGroupByMonthPartitions(t *testing.T) {
	a := seeded(t)
	ctx := context.Background()
	a.Upsert(ctx, makeBrief("2024-12-31", "last year"))
	a.Upsert(ctx, makeBrief("someday", "undated"))

	groups, err := a.GroupByMonth(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []struct {
		month string
		year  int
		count int
	}{
		{"September 2025", 2025, 2},
		{"August 2025", 2025, 1},
		{"December 2024", 2024, 1},
		{"Undated", 0, 1},
	}
	if len(groups) != len(want) {
		t.Fatalf("expected %d groups, got %d", len(want), len(groups))
	}

	total := 0
	for i, g := range groups {
		if g.Month != want[i].month || g.Year != want[i].year || g.Count != want[i].count {
			t.Errorf("group %d: got %s/%d/%d, want %+v", i, g.Month, g.Year, g.Count, want[i])
		}
		if g.Count != len(g.Briefs) {
			t.Errorf("group %s: count %d but %d briefs", g.Month, g.Count, len(g.Briefs))
		}
		total += g.Count
	}
	if total != 5 {
		t.Errorf("expected counts to sum to 5, got %d", total)
	}

	if dates(groups[0].Briefs) != "2025-09-08,2025-09-07" {
		t.Errorf("expected briefs newest first, got %s", dates(groups[0].Briefs))
	}
}

func TestGroupSameYearByLabelDescending(t *testing.T) {
	var briefs []brief.DailyBrief
	for _, d := range []string{"2025-01-10", "2025-10-01", "2025-09-01"} {
		briefs = append(briefs, *makeBrief(d, d))
	}
	groups := Group(briefs)
	var labels []string
	for _, g := range groups {
		labels = append(labels, g.Month)
	}
	if got := strings.Join(labels, "|"); got != "September 2025|October 2025|January 2025" {
		t.Errorf("unexpected label order %s", got)
	}
}

func TestWithinRange(t *testing.T) {
	briefs := []brief.DailyBrief{
		*makeBrief("2025-09-08", "today"),
		*makeBrief("2025-09-03", "this week"),
		*makeBrief("2025-08-20", "this month"),
		*makeBrief("2025-06-01", "old"),
		*makeBrief("whenever", "undated"),
	}
	now, _ := time.Parse(brief.DateLayout, "2025-09-08")

	tests := []struct {
		r    Range
		want string
	}{
		{RangeAll, "2025-09-08,2025-09-03,2025-08-20,2025-06-01,whenever"},
		{RangeToday, "2025-09-08"},
		{RangeWeek, "2025-09-08,2025-09-03"},
		{RangeMonth, "2025-09-08,2025-09-03,2025-08-20"},
	}
	for _, tt := range tests {
		if got := dates(WithinRange(briefs, tt.r, now)); got != tt.want {
			t.Errorf("WithinRange(%s) = %q, want %q", tt.r, got, tt.want)
		}
	}
}

func TestParseRange(t *testing.T) {
	if r, err := ParseRange(""); err != nil || r != RangeAll {
		t.Errorf("expected all for empty range, got %q (%v)", r, err)
	}
	if r, err := ParseRange("Week"); err != nil || r != RangeWeek {
		t.Errorf("expected week, got %q (%v)", r, err)
	}
	if _, err := ParseRange("fortnight"); err == nil {
		t.Error("expected error for unknown range")
	}
}
