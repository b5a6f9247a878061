// Package sqlite implements the repository interfaces using SQLite as the storage backend.
//
// WHY SQLITE?
// SQLite is an embedded database: the whole store is one file next to the binary
// (or nothing at all, with ":memory:"). No database server to run, which suits a
// small CRUD service and keeps the tests self-contained.
//
// WHY modernc.org/sqlite?
// It is a pure Go translation of the SQLite C code, so there is no CGo and no C
// compiler needed to build or cross-compile.
//
// LAYOUT:
// DB owns the connection pool and the schema. The per-table stores
// (AcronymDB, UserDB, CategoryDB) share that pool and each implement one
// interface from the repository package:
//
//	db, _ := sqlite.New("data/acronyms.db")
//	db.Acronyms()   -> repository.AcronymRepository
//	db.Users()      -> repository.UserRepository
//	db.Categories() -> repository.CategoryRepository
package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"

	"github.com/pressly/goose/v3"

	// BLANK IMPORT:
	// The driver registers itself with database/sql under the name "sqlite"
	// from its init() function. We never call it directly.
	_ "modernc.org/sqlite"
)

// MIGRATIONS:
// The schema lives in versioned .sql files compiled into the binary with
// go:embed. goose records which versions have run in its own table, so New is
// safe to call on a fresh database and on one that is already up to date.
//
//go:embed migrations/*.sql
var migrationFS embed.FS

// memoryPath is SQLite's name for a private in-memory database.
const memoryPath = ":memory:"

// DB wraps a sql.DB connection pool.
type DB struct {
	conn *sql.DB
}

// New opens the database at dbPath and brings its schema up to date.
//
// dbPath examples:
//   - "data/acronyms.db" -> file-based database (persistent)
//   - ":memory:"         -> in-memory database (tests; gone on Close)
//
// PRAGMAS IN THE DSN:
// PRAGMA foreign_keys is per connection, and sql.DB opens connections lazily.
// Running "PRAGMA foreign_keys=ON" once with Exec would only reach whichever
// connection happened to serve it. modernc applies every _pragma query
// parameter to each new connection, so every pooled connection enforces the
// acronyms.user_id and join-table references.
func New(dbPath string) (*DB, error) {
	conn, err := sql.Open("sqlite", dsn(dbPath))
	if err != nil {
		return nil, fmt.Errorf("sqlite: opening database: %w", err)
	}

	// Every connection to ":memory:" gets its OWN empty database. Pinning the
	// pool to one connection keeps all requests looking at the same data.
	if dbPath == memoryPath {
		conn.SetMaxOpenConns(1)
	}

	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: pinging database: %w", err)
	}

	db := &DB{conn: conn}

	if err := db.migrate(context.Background()); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: running migrations: %w", err)
	}

	return db, nil
}

func dsn(dbPath string) string {
	d := dbPath + "?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"
	if dbPath != memoryPath {
		// WAL lets readers proceed while a write is in progress.
		d += "&_pragma=journal_mode(WAL)"
	}
	return d
}

// Close closes the database connection pool.
func (db *DB) Close() error {
	return db.conn.Close()
}

// Ping reports whether the database is reachable. Used by the health check.
func (db *DB) Ping(ctx context.Context) error {
	if err := db.conn.PingContext(ctx); err != nil {
		return fmt.Errorf("sqlite: ping: %w", err)
	}
	return nil
}

// Acronyms returns the store for the acronyms table.
func (db *DB) Acronyms() *AcronymDB {
	return &AcronymDB{conn: db.conn}
}

// Users returns the store for the users table.
func (db *DB) Users() *UserDB {
	return &UserDB{conn: db.conn}
}

// Categories returns the store for the categories table and the
// acronym_category join table.
func (db *DB) Categories() *CategoryDB {
	return &CategoryDB{conn: db.conn}
}

// migrate applies every pending embedded migration in version order.
func (db *DB) migrate(ctx context.Context) error {
	fsys, err := fs.Sub(migrationFS, "migrations")
	if err != nil {
		return fmt.Errorf("opening embedded migrations: %w", err)
	}

	provider, err := goose.NewProvider(goose.DialectSQLite3, db.conn, fsys)
	if err != nil {
		return fmt.Errorf("creating migration provider: %w", err)
	}

	if _, err := provider.Up(ctx); err != nil {
		return fmt.Errorf("applying migrations: %w", err)
	}
	return nil
}
