package database

import (
	"database/sql"
	"strings"

	_ "github.com/jackc/pgx/v5/stdlib" // Postgres driver
	_ "modernc.org/sqlite"             // SQLite driver
)

// New creates a new database connection pool. A postgres:// URL selects the
// pgx driver; anything else is treated as a SQLite file path.
func New(databaseURL string) (*sql.DB, error) {
	driver, dsn := driverFor(databaseURL)
	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, err
	}
	if err = db.Ping(); err != nil {
		return nil, err
	}
	return db, nil
}

func driverFor(databaseURL string) (driver, dsn string) {
	if strings.HasPrefix(databaseURL, "postgres://") || strings.HasPrefix(databaseURL, "postgresql://") {
		return "pgx", databaseURL
	}
	if databaseURL == ":memory:" || strings.Contains(databaseURL, "?") {
		return "sqlite", databaseURL
	}
	return "sqlite", databaseURL + "?_pragma=foreign_keys(1)"
}

// Migrate runs the SQL statements to set up the database schema for the
// given database URL. The username UNIQUE constraint is load-bearing:
// concurrent registrations of the same name are resolved here, not by the
// application-level existence check.
func Migrate(db *sql.DB, databaseURL string) error {
	driver, _ := driverFor(databaseURL)
	stmts := sqliteSchema
	if driver == "pgx" {
		stmts = postgresSchema
	}
	for _, stmt := range stmts {
		if _, err := db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

var sqliteSchema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		username TEXT NOT NULL UNIQUE,
		password_hash TEXT NOT NULL,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);`,
	`CREATE TABLE IF NOT EXISTS expenses (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		user_id INTEGER NOT NULL REFERENCES users(id),
		category TEXT NOT NULL DEFAULT '',
		amount_cents INTEGER NOT NULL,
		date TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);`,
	`CREATE INDEX IF NOT EXISTS idx_expenses_user_date ON expenses(user_id, date);`,
}

var postgresSchema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id BIGSERIAL PRIMARY KEY,
		username TEXT NOT NULL UNIQUE,
		password_hash TEXT NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	);`,
	`CREATE TABLE IF NOT EXISTS expenses (
		id BIGSERIAL PRIMARY KEY,
		user_id BIGINT NOT NULL REFERENCES users(id),
		category TEXT NOT NULL DEFAULT '',
		amount_cents BIGINT NOT NULL,
		date TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	);`,
	`CREATE INDEX IF NOT EXISTS idx_expenses_user_date ON expenses(user_id, date);`,
}
