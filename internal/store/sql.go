package store

import (
	"fmt"

	"github.com/jmoiron/sqlx"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite"
)

// Driver names accepted by the SQL store.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "pgx"
)

// SQLStore implements the Store interface over a SQL database. One body
// of SQL serves both supported drivers: queries are written with ?
// placeholders and passed through sqlx.Rebind, and the migration lists
// carry the per-dialect DDL.
type SQLStore struct {
	db     *sqlx.DB
	driver string
}

var _ Store = (*SQLStore)(nil)

// NewSQLiteStore opens (or creates) a SQLite database at dbPath,
// enables WAL mode, and runs any pending schema migrations.
func NewSQLiteStore(dbPath string) (*SQLStore, error) {
	db, err := sqlx.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite db: %w", err)
	}

	// SQLite allows a single writer. One pooled connection avoids
	// SQLITE_BUSY, keeps per-connection pragmas in force, and gives
	// :memory: databases a single consistent view.
	db.SetMaxOpenConns(1)

	// Enable WAL mode for better concurrent read performance.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling WAL mode: %w", err)
	}

	// Enable foreign keys.
	if _, err := db.Exec("PRAGMA foreign_keys=ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling foreign keys: %w", err)
	}

	s := &SQLStore{db: db, driver: DriverSQLite}
	if err := s.runMigrations(); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// NewPostgresStore connects to a PostgreSQL database with the given DSN
// and runs any pending schema migrations.
func NewPostgresStore(dsn string) (*SQLStore, error) {
	db, err := sqlx.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening postgres db: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("connecting to postgres: %w", err)
	}

	s := &SQLStore{db: db, driver: DriverPostgres}
	if err := s.runMigrations(); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Close closes the underlying database connection.
func (s *SQLStore) Close() error {
	return s.db.Close()
}

// SchemaVersion returns the highest applied migration version.
func (s *SQLStore) SchemaVersion() (int, error) {
	exists, err := s.schemaVersionTableExists()
	if err != nil {
		return 0, err
	}
	if !exists {
		return 0, nil
	}

	var version int
	err = s.db.Get(&version, "SELECT COALESCE(MAX(version), 0) FROM schema_version")
	if err != nil {
		return 0, fmt.Errorf("reading schema version: %w", err)
	}
	return version, nil
}

// runMigrations checks the current schema version and applies any
// outstanding migrations for the active driver in order.
func (s *SQLStore) runMigrations() error {
	currentVersion, err := s.SchemaVersion()
	if err != nil {
		return err
	}

	list := sqliteMigrations
	if s.driver == DriverPostgres {
		list = postgresMigrations
	}

	for _, m := range list {
		if m.version <= currentVersion {
			continue
		}
		if _, err := s.db.Exec(m.sql); err != nil {
			return fmt.Errorf("applying migration v%d: %w", m.version, err)
		}
	}

	return nil
}

// schemaVersionTableExists reports whether the schema_version table has
// been created yet, using the driver's own catalog.
func (s *SQLStore) schemaVersionTableExists() (bool, error) {
	var query string
	switch s.driver {
	case DriverPostgres:
		query = "SELECT COUNT(*) FROM information_schema.tables " +
			"WHERE table_name = 'schema_version'"
	default:
		query = "SELECT COUNT(*) FROM sqlite_master " +
			"WHERE type='table' AND name='schema_version'"
	}

	var count int
	if err := s.db.Get(&count, query); err != nil {
		return false, fmt.Errorf("checking schema_version table: %w", err)
	}
	return count > 0, nil
}

// boolToInt converts a boolean to 0 or 1 for storage.
func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
