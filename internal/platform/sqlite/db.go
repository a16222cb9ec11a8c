package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	_ "modernc.org/sqlite"
)

// pingTimeout bounds the connectivity check when opening a database.
const pingTimeout = 5 * time.Second

// Open opens the SQLite database at the given path and verifies connectivity.
// The special path ":memory:" opens a private in-memory database.
//
// The connection pool is pinned to a single connection: SQLite allows one
// writer at a time, and a single pooled connection also keeps every statement
// on the same in-memory database when ":memory:" is used.
func Open(ctx context.Context, path string) (*sql.DB, error) {
	log := slog.Default().With(slog.String("component", "sqlite"))

	dsn := path
	if path != ":memory:" {
		// busy_timeout retries briefly instead of failing with SQLITE_BUSY,
		// and WAL keeps readers from blocking the writer.
		dsn = fmt.Sprintf("file:%s?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)", path)
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		log.Error("failed to open database",
			slog.String("path", path),
			slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Minute * 5)

	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		log.Error("database ping failed",
			slog.String("path", path),
			slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	log.Debug("database connection verified", slog.String("path", path))
	return db, nil
}
