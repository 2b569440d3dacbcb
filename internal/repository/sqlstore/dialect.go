package sqlstore

import (
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/jackc/pgx/v5/pgconn"
	_ "github.com/jackc/pgx/v5/stdlib" // registers the "pgx" database/sql driver
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

// dialect captures everything that differs between the supported databases.
type dialect struct {
	name       string // DATABASE_DRIVER value
	driverName string // database/sql driver name
	numbered   bool   // $1-style placeholders
	returning  bool   // INSERT ... RETURNING id instead of LastInsertId
	lower      string // Unicode-aware lower-case SQL function
	session    []string
	schema     []string

	prepareDSN    func(dsn string) (string, error)
	configurePool func(conn *sql.DB)
	isFKViolation func(err error) bool
}

func dialectFor(driver string) (*dialect, error) {
	switch driver {
	case "sqlite":
		return sqliteDialect, nil
	case "postgres":
		return postgresDialect, nil
	case "mysql":
		return mysqlDialect, nil
	}
	return nil, fmt.Errorf("sqlstore: unsupported driver %q", driver)
}

// rebind rewrites "?" placeholders for databases that number them.
// Question marks inside single-quoted literals are left alone.
func (d *dialect) rebind(query string) string {
	if !d.numbered {
		return query
	}

	var b strings.Builder
	b.Grow(len(query) + 8)
	n := 0
	inQuote := false
	for _, r := range query {
		switch {
		case r == '\'':
			inQuote = !inQuote
			b.WriteRune(r)
		case r == '?' && !inQuote:
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

// =========================================================================
// SQLITE
// =========================================================================

// SQLite keeps PRAGMAs per connection and an in-memory database per
// connection too, so the pool is pinned to one connection. With a single
// connection every query must finish (rows closed) before the next starts.
var sqliteDialect = &dialect{
	name:       "sqlite",
	driverName: "sqlite",
	lower:      "go_lower",
	session: []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys=ON",
		"PRAGMA busy_timeout=5000",
	},
	schema: []string{
		`CREATE TABLE IF NOT EXISTS venues (
			id                  INTEGER PRIMARY KEY AUTOINCREMENT,
			name                VARCHAR(120) NOT NULL,
			city                VARCHAR(120) NOT NULL,
			state               VARCHAR(120) NOT NULL,
			address             VARCHAR(120) NOT NULL DEFAULT '',
			phone               VARCHAR(120) NOT NULL DEFAULT '',
			image_link          VARCHAR(500) NOT NULL DEFAULT '',
			facebook_link       VARCHAR(120) NOT NULL DEFAULT '',
			website_link        VARCHAR(120) NOT NULL DEFAULT '',
			genres              VARCHAR(120) NOT NULL DEFAULT '',
			seeking_talent      BOOLEAN NOT NULL DEFAULT 0,
			seeking_description VARCHAR(500) NOT NULL DEFAULT '',
			created_at          DATETIME NOT NULL,
			updated_at          DATETIME NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_venues_area ON venues(state, city)`,
		`CREATE TABLE IF NOT EXISTS artists (
			id                  INTEGER PRIMARY KEY AUTOINCREMENT,
			name                VARCHAR(120) NOT NULL,
			city                VARCHAR(120) NOT NULL,
			state               VARCHAR(120) NOT NULL,
			phone               VARCHAR(120) NOT NULL DEFAULT '',
			image_link          VARCHAR(500) NOT NULL DEFAULT '',
			facebook_link       VARCHAR(120) NOT NULL DEFAULT '',
			website_link        VARCHAR(120) NOT NULL DEFAULT '',
			genres              VARCHAR(120) NOT NULL DEFAULT '',
			seeking_venue       BOOLEAN NOT NULL DEFAULT 0,
			seeking_description VARCHAR(500) NOT NULL DEFAULT '',
			created_at          DATETIME NOT NULL,
			updated_at          DATETIME NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS shows (
			id         INTEGER PRIMARY KEY AUTOINCREMENT,
			start_time DATETIME NOT NULL,
			artist_id  INTEGER NOT NULL REFERENCES artists(id) ON DELETE RESTRICT,
			venue_id   INTEGER NOT NULL REFERENCES venues(id) ON DELETE CASCADE
		)`,
		`CREATE INDEX IF NOT EXISTS idx_shows_venue_id ON shows(venue_id)`,
		`CREATE INDEX IF NOT EXISTS idx_shows_artist_id ON shows(artist_id)`,
	},
	// _time_format=sqlite writes times as "2006-01-02 15:04:05.999999999-07:00",
	// which sorts correctly as text for a fixed offset.
	prepareDSN: func(dsn string) (string, error) {
		if strings.Contains(dsn, "_time_format=") {
			return dsn, nil
		}
		sep := "?"
		if strings.Contains(dsn, "?") {
			sep = "&"
		}
		return dsn + sep + "_time_format=sqlite", nil
	},
	configurePool: func(conn *sql.DB) {
		conn.SetMaxOpenConns(1)
	},
	isFKViolation: func(err error) bool {
		var se *sqlite.Error
		if !errors.As(err, &se) {
			return false
		}
		// Extended result codes may be off, in which case only the primary
		// SQLITE_CONSTRAINT code is reported.
		return se.Code() == sqlite3.SQLITE_CONSTRAINT_FOREIGNKEY ||
			(se.Code()&0xff == sqlite3.SQLITE_CONSTRAINT && strings.Contains(se.Error(), "FOREIGN KEY"))
	},
}

// SQLite's built-in LOWER only folds ASCII, so searches go through go_lower,
// which applies the same folding as strings.ToLower on the search term.
// Scalar functions are registered process-wide and must exist before the
// first connection opens.
func init() {
	if err := sqlite.RegisterDeterministicScalarFunction("go_lower", 1, goLower); err != nil {
		panic(fmt.Sprintf("sqlstore: registering go_lower: %v", err))
	}
}

func goLower(_ *sqlite.FunctionContext, args []driver.Value) (driver.Value, error) {
	switch v := args[0].(type) {
	case string:
		return strings.ToLower(v), nil
	case []byte:
		return strings.ToLower(string(v)), nil
	default:
		return v, nil
	}
}

// =========================================================================
// POSTGRES
// =========================================================================

var postgresDialect = &dialect{
	name:       "postgres",
	driverName: "pgx",
	lower:      "LOWER",
	numbered:   true,
	returning:  true,
	schema: []string{
		`CREATE TABLE IF NOT EXISTS venues (
			id                  BIGSERIAL PRIMARY KEY,
			name                VARCHAR(120) NOT NULL,
			city                VARCHAR(120) NOT NULL,
			state               VARCHAR(120) NOT NULL,
			address             VARCHAR(120) NOT NULL DEFAULT '',
			phone               VARCHAR(120) NOT NULL DEFAULT '',
			image_link          VARCHAR(500) NOT NULL DEFAULT '',
			facebook_link       VARCHAR(120) NOT NULL DEFAULT '',
			website_link        VARCHAR(120) NOT NULL DEFAULT '',
			genres              VARCHAR(120) NOT NULL DEFAULT '',
			seeking_talent      BOOLEAN NOT NULL DEFAULT FALSE,
			seeking_description VARCHAR(500) NOT NULL DEFAULT '',
			created_at          TIMESTAMPTZ NOT NULL,
			updated_at          TIMESTAMPTZ NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_venues_area ON venues(state, city)`,
		`CREATE TABLE IF NOT EXISTS artists (
			id                  BIGSERIAL PRIMARY KEY,
			name                VARCHAR(120) NOT NULL,
			city                VARCHAR(120) NOT NULL,
			state               VARCHAR(120) NOT NULL,
			phone               VARCHAR(120) NOT NULL DEFAULT '',
			image_link          VARCHAR(500) NOT NULL DEFAULT '',
			facebook_link       VARCHAR(120) NOT NULL DEFAULT '',
			website_link        VARCHAR(120) NOT NULL DEFAULT '',
			genres              VARCHAR(120) NOT NULL DEFAULT '',
			seeking_venue       BOOLEAN NOT NULL DEFAULT FALSE,
			seeking_description VARCHAR(500) NOT NULL DEFAULT '',
			created_at          TIMESTAMPTZ NOT NULL,
			updated_at          TIMESTAMPTZ NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS shows (
			id         BIGSERIAL PRIMARY KEY,
			start_time TIMESTAMPTZ NOT NULL,
			artist_id  BIGINT NOT NULL REFERENCES artists(id) ON DELETE RESTRICT,
			venue_id   BIGINT NOT NULL REFERENCES venues(id) ON DELETE CASCADE
		)`,
		`CREATE INDEX IF NOT EXISTS idx_shows_venue_id ON shows(venue_id)`,
		`CREATE INDEX IF NOT EXISTS idx_shows_artist_id ON shows(artist_id)`,
	},
	prepareDSN: func(dsn string) (string, error) { return dsn, nil },
	configurePool: func(conn *sql.DB) {
		conn.SetMaxOpenConns(25)
		conn.SetMaxIdleConns(5)
		conn.SetConnMaxIdleTime(5 * time.Minute)
	},
	isFKViolation: func(err error) bool {
		var pgErr *pgconn.PgError
		return errors.As(err, &pgErr) && pgErr.Code == "23503"
	},
}

// =========================================================================
// MYSQL
// =========================================================================

// MySQL creates an index for every foreign key, so shows needs no explicit
// index statements (and MySQL has no CREATE INDEX IF NOT EXISTS).
var mysqlDialect = &dialect{
	name:       "mysql",
	driverName: "mysql",
	lower:      "LOWER",
	schema: []string{
		`CREATE TABLE IF NOT EXISTS venues (
			id                  BIGINT NOT NULL AUTO_INCREMENT PRIMARY KEY,
			name                VARCHAR(120) NOT NULL,
			city                VARCHAR(120) NOT NULL,
			state               VARCHAR(120) NOT NULL,
			address             VARCHAR(120) NOT NULL DEFAULT '',
			phone               VARCHAR(120) NOT NULL DEFAULT '',
			image_link          VARCHAR(500) NOT NULL DEFAULT '',
			facebook_link       VARCHAR(120) NOT NULL DEFAULT '',
			website_link        VARCHAR(120) NOT NULL DEFAULT '',
			genres              VARCHAR(120) NOT NULL DEFAULT '',
			seeking_talent      BOOLEAN NOT NULL DEFAULT FALSE,
			seeking_description VARCHAR(500) NOT NULL DEFAULT '',
			created_at          DATETIME(6) NOT NULL,
			updated_at          DATETIME(6) NOT NULL,
			INDEX idx_venues_area (state, city)
		) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
		`CREATE TABLE IF NOT EXISTS artists (
			id                  BIGINT NOT NULL AUTO_INCREMENT PRIMARY KEY,
			name                VARCHAR(120) NOT NULL,
			city                VARCHAR(120) NOT NULL,
			state               VARCHAR(120) NOT NULL,
			phone               VARCHAR(120) NOT NULL DEFAULT '',
			image_link          VARCHAR(500) NOT NULL DEFAULT '',
			facebook_link       VARCHAR(120) NOT NULL DEFAULT '',
			website_link        VARCHAR(120) NOT NULL DEFAULT '',
			genres              VARCHAR(120) NOT NULL DEFAULT '',
			seeking_venue       BOOLEAN NOT NULL DEFAULT FALSE,
			seeking_description VARCHAR(500) NOT NULL DEFAULT '',
			created_at          DATETIME(6) NOT NULL,
			updated_at          DATETIME(6) NOT NULL
		) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
		`CREATE TABLE IF NOT EXISTS shows (
			id         BIGINT NOT NULL AUTO_INCREMENT PRIMARY KEY,
			start_time DATETIME(6) NOT NULL,
			artist_id  BIGINT NOT NULL,
			venue_id   BIGINT NOT NULL,
			CONSTRAINT fk_shows_artist FOREIGN KEY (artist_id) REFERENCES artists(id) ON DELETE RESTRICT,
			CONSTRAINT fk_shows_venue FOREIGN KEY (venue_id) REFERENCES venues(id) ON DELETE CASCADE
		) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
	},
	// parseTime makes DATETIME scan into time.Time; loc=UTC keeps times
	// consistent; clientFoundRows makes RowsAffected count matched rows so an
	// UPDATE that changes nothing is not mistaken for "not found".
	prepareDSN: func(dsn string) (string, error) {
		cfg, err := mysql.ParseDSN(dsn)
		if err != nil {
			return "", err
		}
		cfg.ParseTime = true
		cfg.Loc = time.UTC
		cfg.ClientFoundRows = true
		return cfg.FormatDSN(), nil
	},
	configurePool: func(conn *sql.DB) {
		conn.SetMaxOpenConns(25)
		conn.SetMaxIdleConns(25)
		conn.SetConnMaxLifetime(30 * time.Minute)
	},
	isFKViolation: func(err error) bool {
		var myErr *mysql.MySQLError
		// 1451: parent row still referenced, 1452: child references a missing parent.
		return errors.As(err, &myErr) && (myErr.Number == 1451 || myErr.Number == 1452)
	},
}
