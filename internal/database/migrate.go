package database

import (
	"database/sql"
	"fmt"
	"log"
)

// versionSQL holds the statements that track the applied schema version.
// SQLite keeps it in PRAGMA user_version; PostgreSQL in a one-row
// schema_version table.
type versionSQL struct {
	prepare string // empty when nothing needs creating first
	read    string
	clear   string
	write   func(version int) (string, []any)
	legacy  string
}

func versionStatements(d Dialect) versionSQL {
	if d == Postgres {
		return versionSQL{
			prepare: "CREATE TABLE IF NOT EXISTS schema_version (version INTEGER NOT NULL)",
			read:    "SELECT COALESCE(MAX(version), 0) FROM schema_version",
			clear:   "DELETE FROM schema_version",
			write: func(version int) (string, []any) {
				return "INSERT INTO schema_version (version) VALUES ($1)", []any{version}
			},
			legacy: "SELECT COUNT(*) FROM information_schema.tables WHERE table_name = 'daily_briefs'",
		}
	}
	return versionSQL{
		read: "PRAGMA user_version",
		write: func(version int) (string, []any) {
			// PRAGMA does not take bind parameters.
			return fmt.Sprintf("PRAGMA user_version = %d", version), nil
		},
		legacy: "SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name='daily_briefs'",
	}
}

// getSchemaVersion reads the applied schema version.
func getSchemaVersion(conn *sql.DB, d Dialect) (int, error) {
	q := versionStatements(d)
	if q.prepare != "" {
		if _, err := conn.Exec(q.prepare); err != nil {
			return 0, fmt.Errorf("creating schema_version table: %w", err)
		}
	}

	var version int
	if err := conn.QueryRow(q.read).Scan(&version); err != nil {
		return 0, fmt.Errorf("reading schema version: %w", err)
	}
	return version, nil
}

func setSchemaVersion(conn *sql.DB, d Dialect, version int) error {
	q := versionStatements(d)
	if q.clear != "" {
		if _, err := conn.Exec(q.clear); err != nil {
			return err
		}
	}
	stmt, args := q.write(version)
	_, err := conn.Exec(stmt, args...)
	return err
}

// isLegacyDB returns true if daily_briefs exists but no version was recorded,
// which is how databases created by hand before migrations look.
func isLegacyDB(conn *sql.DB, d Dialect) (bool, error) {
	var count int
	if err := conn.QueryRow(versionStatements(d).legacy).Scan(&count); err != nil {
		return false, fmt.Errorf("checking for legacy tables: %w", err)
	}
	return count > 0, nil
}

// migrate brings the database schema up to the latest version.
func migrate(conn *sql.DB, d Dialect) error {
	current, err := getSchemaVersion(conn, d)
	if err != nil {
		return err
	}

	// Tables exist but nothing recorded: the schema already matches
	// migration 1, so stamp it rather than re-create.
	if current == 0 {
		legacy, err := isLegacyDB(conn, d)
		if err != nil {
			return err
		}
		if legacy {
			log.Printf("detected legacy database, stamping as version 1")
			if err := setSchemaVersion(conn, d, 1); err != nil {
				return fmt.Errorf("stamping legacy version: %w", err)
			}
			current = 1
		}
	}

	latest := latestVersion()
	if current >= latest {
		return nil
	}

	for _, m := range migrations {
		if m.Version <= current {
			continue
		}

		log.Printf("applying migration %d: %s", m.Version, m.Description)

		tx, err := conn.Begin()
		if err != nil {
			return fmt.Errorf("begin migration %d: %w", m.Version, err)
		}

		if err := m.Up(tx); err != nil {
			tx.Rollback()
			return fmt.Errorf("migration %d (%s): %w", m.Version, m.Description, err)
		}

		if err := tx.Commit(); err != nil {
			return fmt.Errorf("commit migration %d: %w", m.Version, err)
		}

		// Recorded outside the transaction (modernc/sqlite requirement).
		// The DDL is idempotent, so a crash here just re-runs the migration.
		if err := setSchemaVersion(conn, d, m.Version); err != nil {
			return fmt.Errorf("setting version %d: %w", m.Version, err)
		}
	}

	return nil
}
