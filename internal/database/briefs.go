package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/TobiSchelling/dailybrief/internal/brief"
)

const briefColumns = `id, title, date, meta, impact_summary, primary_focus, sections, rapid_updates,
	exam_intelligence, knowledge_synthesis, weekly_analysis, created_at, updated_at`

// Upsert inserts a brief or replaces the one stored under the same date.
// The row id and created_at of an existing brief are kept.
func (db *DB) Upsert(ctx context.Context, b *brief.DailyBrief) error {
	if b == nil {
		return fmt.Errorf("upsert: nil brief")
	}

	cols, err := encodeColumns(b)
	if err != nil {
		return err
	}
	now := time.Now().UTC().Format(time.RFC3339)

	query := rebind(db.dialect, `INSERT INTO daily_briefs (`+briefColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (date) DO UPDATE SET
			title = excluded.title,
			meta = excluded.meta,
			impact_summary = excluded.impact_summary,
			primary_focus = excluded.primary_focus,
			sections = excluded.sections,
			rapid_updates = excluded.rapid_updates,
			exam_intelligence = excluded.exam_intelligence,
			knowledge_synthesis = excluded.knowledge_synthesis,
			weekly_analysis = excluded.weekly_analysis,
			updated_at = excluded.updated_at`)

	args := append([]any{uuid.NewString(), b.Title, b.Date}, cols...)
	args = append(args, now, now)

	if _, err := db.conn.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("upserting brief %s: %w", b.Date, err)
	}
	return nil
}

// GetByDate returns the brief stored under exactly this date.
// Returns nil, nil when there is none.
func (db *DB) GetByDate(ctx context.Context, date string) (*brief.DailyBrief, error) {
	rec, err := db.GetRecord(ctx, date)
	if err != nil || rec == nil {
		return nil, err
	}
	return &rec.Brief, nil
}

// GetRecord returns the stored row for a date, or nil, nil.
func (db *DB) GetRecord(ctx context.Context, date string) (*BriefRecord, error) {
	row := db.conn.QueryRowContext(ctx,
		rebind(db.dialect, "SELECT "+briefColumns+" FROM daily_briefs WHERE date = ?"), date)

	rec, err := scanRecord(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return rec, nil
}

// GetAll returns every stored brief ordered by date descending.
func (db *DB) GetAll(ctx context.Context) ([]brief.DailyBrief, error) {
	rows, err := db.conn.QueryContext(ctx,
		"SELECT "+briefColumns+" FROM daily_briefs ORDER BY date DESC")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var briefs []brief.DailyBrief
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		briefs = append(briefs, rec.Brief)
	}
	return briefs, rows.Err()
}

// CountBriefs returns the number of stored briefs.
func (db *DB) CountBriefs(ctx context.Context) (int, error) {
	var n int
	err := db.conn.QueryRowContext(ctx, "SELECT COUNT(*) FROM daily_briefs").Scan(&n)
	return n, err
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRecord(s scanner) (*BriefRecord, error) {
	var (
		rec                                  BriefRecord
		meta, impact, focus, sections, rapid string
		exam, knowledge                      string
		weekly                               sql.NullString
	)
	if err := s.Scan(&rec.ID, &rec.Brief.Title, &rec.Brief.Date,
		&meta, &impact, &focus, &sections, &rapid, &exam, &knowledge, &weekly,
		&rec.CreatedAt, &rec.UpdatedAt); err != nil {
		return nil, err
	}

	b := &rec.Brief
	targets := []struct {
		name string
		raw  string
		dst  any
	}{
		{"meta", meta, &b.Meta},
		{"impact_summary", impact, &b.ImpactSummary},
		{"primary_focus", focus, &b.PrimaryFocus},
		{"sections", sections, &b.Sections},
		{"rapid_updates", rapid, &b.RapidUpdates},
		{"exam_intelligence", exam, &b.ExamIntelligence},
		{"knowledge_synthesis", knowledge, &b.KnowledgeSynthesis},
	}
	for _, t := range targets {
		if err := json.Unmarshal([]byte(t.raw), t.dst); err != nil {
			return nil, fmt.Errorf("decoding %s of brief %s: %w", t.name, b.Date, err)
		}
	}
	if weekly.Valid && weekly.String != "" && weekly.String != "null" {
		var w brief.WeeklyAnalysis
		if err := json.Unmarshal([]byte(weekly.String), &w); err != nil {
			return nil, fmt.Errorf("decoding weekly_analysis of brief %s: %w", b.Date, err)
		}
		b.WeeklyAnalysis = &w
	}
	return &rec, nil
}

// encodeColumns returns the JSON document columns in briefColumns order,
// from meta through weekly_analysis.
func encodeColumns(b *brief.DailyBrief) ([]any, error) {
	docs := []any{b.Meta, b.ImpactSummary, b.PrimaryFocus, b.Sections, b.RapidUpdates,
		b.ExamIntelligence, b.KnowledgeSynthesis}

	cols := make([]any, 0, len(docs)+1)
	for _, d := range docs {
		data, err := json.Marshal(d)
		if err != nil {
			return nil, fmt.Errorf("encoding brief %s: %w", b.Date, err)
		}
		cols = append(cols, string(data))
	}

	if b.WeeklyAnalysis == nil {
		cols = append(cols, nil)
	} else {
		data, err := json.Marshal(b.WeeklyAnalysis)
		if err != nil {
			return nil, fmt.Errorf("encoding brief %s: %w", b.Date, err)
		}
		cols = append(cols, string(data))
	}
	return cols, nil
}
