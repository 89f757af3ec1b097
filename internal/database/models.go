package database

import "github.com/TobiSchelling/dailybrief/internal/brief"

// BriefRecord is a stored brief with its row metadata.
type BriefRecord struct {
	ID        string
	Brief     brief.DailyBrief
	CreatedAt string
	UpdatedAt string
}
