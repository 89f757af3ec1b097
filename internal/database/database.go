package database

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"
)

// Dialect identifies the SQL backend behind a DB.
type Dialect string

const (
	SQLite   Dialect = "sqlite"
	Postgres Dialect = "postgres"
)

// DB wraps a connection to the durable brief store.
type DB struct {
	conn    *sql.DB
	dialect Dialect
	target  string
}

// Open connects to the store named by rawURL and brings its schema up to
// date. Accepted forms:
//
//	sqlite:///var/lib/dailybrief/briefs.db
//	/var/lib/dailybrief/briefs.db
//	postgres://user@host:5432/briefs?sslmode=disable
//
// For PostgreSQL, accessKey is used as the password when the URL has none.
func Open(rawURL, accessKey string) (*DB, error) {
	dialect, dsn, err := resolve(rawURL, accessKey)
	if err != nil {
		return nil, err
	}

	switch dialect {
	case SQLite:
		return openSQLite(dsn)
	default:
		return openPostgres(dsn)
	}
}

func openSQLite(dbPath string) (*DB, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	conn, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	if _, err := conn.Exec("PRAGMA journal_mode=WAL"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("setting journal mode: %w", err)
	}
	if _, err := conn.Exec("PRAGMA busy_timeout=5000"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("setting busy timeout: %w", err)
	}

	if err := migrate(conn, SQLite); err != nil {
		conn.Close()
		return nil, fmt.Errorf("migrating schema: %w", err)
	}

	return &DB{conn: conn, dialect: SQLite, target: dbPath}, nil
}

func openPostgres(dsn string) (*DB, error) {
	conn, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("connecting to database: %w", err)
	}

	if err := migrate(conn, Postgres); err != nil {
		conn.Close()
		return nil, fmt.Errorf("migrating schema: %w", err)
	}

	return &DB{conn: conn, dialect: Postgres, target: redact(dsn)}, nil
}

// Close closes the database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}

// Dialect returns the backend in use.
func (db *DB) Dialect() Dialect {
	return db.dialect
}

// Target returns the database file path, or the URL without credentials.
func (db *DB) Target() string {
	return db.target
}

// Ping checks that the store is reachable.
func (db *DB) Ping(ctx context.Context) error {
	return db.conn.PingContext(ctx)
}

// resolve maps a store URL to a driver dialect and DSN.
func resolve(rawURL, accessKey string) (Dialect, string, error) {
	rawURL = strings.TrimSpace(rawURL)
	switch {
	case rawURL == "":
		return "", "", fmt.Errorf("store URL is empty")

	case strings.HasPrefix(rawURL, "postgres://"), strings.HasPrefix(rawURL, "postgresql://"):
		u, err := url.Parse(rawURL)
		if err != nil {
			return "", "", fmt.Errorf("parsing store URL: %w", err)
		}
		if accessKey != "" {
			if _, hasPassword := u.User.Password(); !hasPassword {
				u.User = url.UserPassword(u.User.Username(), accessKey)
			}
		}
		return Postgres, u.String(), nil

	case strings.HasPrefix(rawURL, "sqlite://"):
		path := strings.TrimPrefix(rawURL, "sqlite://")
		if path == "" {
			return "", "", fmt.Errorf("sqlite store URL has no path")
		}
		return SQLite, path, nil

	case strings.Contains(rawURL, "://"):
		return "", "", fmt.Errorf("unsupported store URL scheme: %s", rawURL)

	default:
		return SQLite, rawURL, nil
	}
}

// rebind rewrites ? placeholders to the dialect's form.
func rebind(d Dialect, query string) string {
	if d != Postgres {
		return query
	}
	var b strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

func redact(dsn string) string {
	u, err := url.Parse(dsn)
	if err != nil {
		return "postgres"
	}
	return u.Redacted()
}
