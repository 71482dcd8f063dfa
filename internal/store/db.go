// Package store is the SQL datastore behind the credential and history
// stores. It supports SQLite (mattn/go-sqlite3) and PostgreSQL (pgx) and
// applies the embedded goose migrations for the selected driver on Open.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/rs/zerolog"
)

const (
	DriverSQLite   = "sqlite3"
	DriverPostgres = "pgx"
)

// DB is a *sql.DB that knows which placeholder dialect its driver speaks.
type DB struct {
	*sql.DB
	driver string
}

// New wraps an already opened connection pool.
func New(db *sql.DB, driver string) *DB {
	return &DB{DB: db, driver: driver}
}

// Open connects to the datastore, verifies it answers and brings the schema
// up to date.
func Open(ctx context.Context, driver, dsn string, log zerolog.Logger) (*DB, error) {
	switch driver {
	case DriverSQLite:
		dsn = sqliteDSN(dsn)
	case DriverPostgres:
	default:
		return nil, fmt.Errorf("unsupported driver %q", driver)
	}

	sqlDB, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", driver, err)
	}
	if driver == DriverSQLite {
		// SQLite serializes writers; a single connection also keeps
		// shared-cache in-memory databases alive and lock free.
		sqlDB.SetMaxOpenConns(1)
	}

	if err := sqlDB.PingContext(ctx); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping %s: %w", driver, err)
	}

	db := New(sqlDB, driver)
	if err := migrate(ctx, db, log); err != nil {
		_ = sqlDB.Close()
		return nil, err
	}
	return db, nil
}

// Driver returns the database/sql driver name.
func (db *DB) Driver() string {
	return db.driver
}

// rebind rewrites '?' placeholders into the driver's native form.
func (db *DB) rebind(query string) string {
	if db.driver != DriverPostgres {
		return query
	}

	var b strings.Builder
	b.Grow(len(query) + 8)
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

// sqliteDSN turns on foreign keys and a busy timeout unless the DSN already
// sets them.
func sqliteDSN(dsn string) string {
	if dsn == "" {
		dsn = "weather.db"
	}
	var params []string
	if !strings.Contains(dsn, "_foreign_keys") && !strings.Contains(dsn, "_fk=") {
		params = append(params, "_foreign_keys=on")
	}
	if !strings.Contains(dsn, "_busy_timeout") && !strings.Contains(dsn, "_timeout=") {
		params = append(params, "_busy_timeout=5000")
	}
	if len(params) == 0 {
		return dsn
	}

	sep := "?"
	if strings.Contains(dsn, "?") {
		sep = "&"
	}
	return dsn + sep + strings.Join(params, "&")
}
