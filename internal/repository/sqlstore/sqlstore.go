// Package sqlstore implements the repository interfaces on database/sql.
//
// ONE IMPLEMENTATION, THREE DATABASES:
// The same repository code runs against SQLite (modernc.org/sqlite, the
// default and what the tests use), PostgreSQL (pgx through its database/sql
// adapter) and MySQL (go-sql-driver/mysql). Queries are written once with
// "?" placeholders; the dialect rewrites them to "$1, $2, ..." for Postgres,
// picks the right DDL, reads back generated ids and recognises each driver's
// foreign key violation so it can be reported as apperror.ErrIntegrity.
//
// TRANSACTIONS:
// Every write (create, update, delete) runs inside withTx, which commits on
// success and rolls back on any error, so a failed write leaves no partial
// row behind. Reads use the pool directly.
package sqlstore

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// DB wraps a sql.DB connection pool and provides repository methods.
type DB struct {
	conn    *sql.DB
	dialect *dialect
}

// querier is satisfied by both *sql.DB and *sql.Tx.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// rowScanner is satisfied by both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

// New opens a SQLite database at dbPath and runs migrations.
//
// dbPath examples:
//   - "data/stagebook.db"  → file-based database (persistent)
//   - ":memory:"           → in-memory database (tests; lost on close)
func New(dbPath string) (*DB, error) {
	return Open(context.Background(), "sqlite", dbPath)
}

// Open connects to the database named by driver ("sqlite", "postgres" or
// "mysql"), verifies the connection and creates any missing tables.
func Open(ctx context.Context, driver, dsn string) (*DB, error) {
	d, err := dialectFor(driver)
	if err != nil {
		return nil, err
	}

	dsn, err = d.prepareDSN(dsn)
	if err != nil {
		return nil, fmt.Errorf("sqlstore: preparing %s dsn: %w", d.name, err)
	}

	conn, err := sql.Open(d.driverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("sqlstore: opening %s database: %w", d.name, err)
	}

	d.configurePool(conn)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := conn.PingContext(pingCtx); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlstore: pinging %s database: %w", d.name, err)
	}

	for _, pragma := range d.session {
		if _, err := conn.ExecContext(ctx, pragma); err != nil {
			conn.Close()
			return nil, fmt.Errorf("sqlstore: %s: %w", pragma, err)
		}
	}

	db := &DB{conn: conn, dialect: d}
	if err := db.migrate(ctx); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlstore: running migrations: %w", err)
	}

	return db, nil
}

// Close closes the connection pool.
func (db *DB) Close() error {
	return db.conn.Close()
}

// Ping reports whether the store is reachable. Used by the health check.
func (db *DB) Ping(ctx context.Context) error {
	return db.conn.PingContext(ctx)
}

// Driver returns the configured driver name.
func (db *DB) Driver() string {
	return db.dialect.name
}

// migrate creates the schema. Every statement is idempotent.
func (db *DB) migrate(ctx context.Context) error {
	for _, stmt := range db.dialect.schema {
		if _, err := db.conn.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("applying schema: %w", err)
		}
	}
	return nil
}

// withTx runs fn inside a transaction. The deferred Rollback is a no-op once
// Commit has succeeded.
func (db *DB) withTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	if err := fn(tx); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// insert runs an INSERT and returns the generated id.
func (db *DB) insert(ctx context.Context, q querier, query string, args ...any) (int64, error) {
	if db.dialect.returning {
		var id int64
		err := q.QueryRowContext(ctx, db.rebind(query+" RETURNING id"), args...).Scan(&id)
		return id, err
	}

	res, err := q.ExecContext(ctx, db.rebind(query), args...)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// exists reports whether table has a row with the given id.
func (db *DB) exists(ctx context.Context, q querier, table string, id int64) (bool, error) {
	var one int
	err := q.QueryRowContext(ctx,
		db.rebind(fmt.Sprintf(`SELECT 1 FROM %s WHERE id = ?`, table)), id,
	).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (db *DB) rebind(query string) string {
	return db.dialect.rebind(query)
}

// now is the timestamp written to created_at/updated_at. Microsecond
// precision is the finest all three databases keep.
func now() time.Time {
	return time.Now().UTC().Truncate(time.Microsecond)
}
