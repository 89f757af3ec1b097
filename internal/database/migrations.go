package database

import "database/sql"

// Migration represents a single schema migration step.
type Migration struct {
	Version     int
	Description string
	Up          func(tx *sql.Tx) error
}

// migrations is the ordered list of all schema migrations. The DDL has to
// run unchanged on both SQLite and PostgreSQL, so JSON documents are TEXT
// and timestamps are RFC 3339 strings written by the application.
var migrations = []Migration{
	{
		Version:     1,
		Description: "daily briefs",
		Up: func(tx *sql.Tx) error {
			_, err := tx.Exec(`
CREATE TABLE IF NOT EXISTS daily_briefs (
    id TEXT PRIMARY KEY,
    title TEXT NOT NULL DEFAULT '',
    date TEXT UNIQUE NOT NULL,
    meta TEXT NOT NULL DEFAULT '{}',
    impact_summary TEXT NOT NULL DEFAULT '{}',
    primary_focus TEXT NOT NULL DEFAULT '{}',
    sections TEXT NOT NULL DEFAULT '[]',
    rapid_updates TEXT NOT NULL DEFAULT '[]',
    exam_intelligence TEXT NOT NULL DEFAULT '{}',
    knowledge_synthesis TEXT NOT NULL DEFAULT '{}',
    weekly_analysis TEXT,
    created_at TEXT NOT NULL,
    updated_at TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_daily_briefs_updated ON daily_briefs(updated_at);
`)
			return err
		},
	},
}

// latestVersion returns the highest migration version number.
func latestVersion() int {
	if len(migrations) == 0 {
		return 0
	}
	return migrations[len(migrations)-1].Version
}
