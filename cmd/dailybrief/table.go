package main

import (
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/TobiSchelling/dailybrief/internal/brief"
)

const maxTitleWidth = 48

// briefTable renders briefs as an aligned Markdown-style table. Widths are
// display widths, so titles in wide scripts line up.
func briefTable(briefs []brief.DailyBrief) []string {
	rows := [][]string{{"Date", "Title", "Primary focus", "Category"}}
	for _, b := range briefs {
		rows = append(rows, []string{
			b.Date,
			runewidth.Truncate(b.Title, maxTitleWidth, "..."),
			runewidth.Truncate(b.PrimaryFocus.Title, maxTitleWidth, "..."),
			b.PrimaryFocus.Category,
		})
	}

	widths := make([]int, len(rows[0]))
	for _, row := range rows {
		for i, cell := range row {
			if w := runewidth.StringWidth(cell); w > widths[i] {
				widths[i] = w
			}
		}
	}
	// Minimum width for the "---" separator
	for i := range widths {
		if widths[i] < 3 {
			widths[i] = 3
		}
	}

	lines := make([]string, 0, len(rows)+1)
	for i, row := range rows {
		lines = append(lines, tableLine(row, widths))
		if i == 0 {
			sep := make([]string, len(widths))
			for j, w := range widths {
				sep[j] = strings.Repeat("-", w)
			}
			lines = append(lines, tableLine(sep, widths))
		}
	}
	return lines
}

func tableLine(cells []string, widths []int) string {
	var sb strings.Builder
	sb.WriteString("|")
	for i, cell := range cells {
		sb.WriteString(" ")
		sb.WriteString(runewidth.FillRight(cell, widths[i]))
		sb.WriteString(" |")
	}
	return sb.String()
}
