package main

import (
	"strings"
	"testing"

	"github.com/mattn/go-runewidth"

	"github.com/TobiSchelling/dailybrief/internal/brief"
)

func TestBriefTableAligned(t *testing.T) {
	briefs := []brief.DailyBrief{
		{Date: "2025-09-07", Title: "Monetary policy", PrimaryFocus: brief.PrimaryFocus{Article: brief.Article{Title: "Repo rate"}, Category: "Economic"}},
		{Date: "2025-09-06", Title: "Asia briefing", PrimaryFocus: brief.PrimaryFocus{Article: brief.Article{Title: "日本の経済"}, Category: "International"}},
	}

	lines := briefTable(briefs)
	if len(lines) != 4 {
		t.Fatalf("expected 4 lines, got %d", len(lines))
	}
	if !strings.HasPrefix(lines[1], "| ---") {
		t.Errorf("expected separator line, got %q", lines[1])
	}

	want := runewidth.StringWidth(lines[0])
	for i, line := range lines {
		if got := runewidth.StringWidth(line); got != want {
			t.Errorf("line %d has width %d, want %d: %q", i, got, want, line)
		}
	}
}

func TestBriefTableTruncates(t *testing.T) {
	long := strings.Repeat("x", 100)
	lines := briefTable([]brief.DailyBrief{{Date: "2025-09-07", Title: long}})
	if strings.Contains(lines[2], long) {
		t.Error("expected long title to be truncated")
	}
	if !strings.Contains(lines[2], "...") {
		t.Error("expected truncation marker")
	}
}
