package storage

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"sync"

	"github.com/pressly/goose/v3"
	"github.com/rs/zerolog"
	_ "modernc.org/sqlite"
)

//go:embed migrations/*.sql
var migrations embed.FS

// goose keeps its base FS, dialect and logger in package globals.
var migrateMu sync.Mutex

var (
	// ErrNotFound is returned when a referenced row does not exist.
	ErrNotFound = errors.New("not found")
	// ErrInvalidWinner is returned when a series winner is not one of its teams.
	ErrInvalidWinner = errors.New("winner must be team A or team B of the series")
	// ErrSameTeam is returned when both series slots name the same team.
	ErrSameTeam = errors.New("team A and team B must differ")
)

// DB wraps a sql.DB for the statistics store.
type DB struct {
	conn   *sql.DB
	logger zerolog.Logger
}

// Open opens (or creates) the SQLite database at the given path and migrates
// it to the latest schema.
func Open(path string, logger zerolog.Logger) (*DB, error) {
	dsn := fmt.Sprintf("file:%s?_pragma=foreign_keys(1)&_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)", path)
	conn, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	if path == ":memory:" {
		// Every connection to :memory: is a separate database.
		conn.SetMaxOpenConns(1)
	}
	if err := migrate(conn, logger); err != nil {
		conn.Close()
		return nil, fmt.Errorf("apply migrations: %w", err)
	}
	logger.Debug().Str("path", path).Msg("database ready")
	return &DB{conn: conn, logger: logger}, nil
}

func migrate(conn *sql.DB, logger zerolog.Logger) error {
	migrateMu.Lock()
	defer migrateMu.Unlock()

	goose.SetBaseFS(migrations)
	goose.SetLogger(gooseLogger{logger})
	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("set goose dialect: %w", err)
	}
	return goose.Up(conn, "migrations")
}

// Close closes the underlying connection.
func (db *DB) Close() error {
	return db.conn.Close()
}

// gooseLogger routes goose output through zerolog at debug level.
type gooseLogger struct {
	l zerolog.Logger
}

func (g gooseLogger) Printf(format string, v ...interface{}) {
	g.l.Debug().Msgf(format, v...)
}

func (g gooseLogger) Fatalf(format string, v ...interface{}) {
	g.l.Fatal().Msgf(format, v...)
}
