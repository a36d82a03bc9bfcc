// Package database opens the PostgreSQL connection used by the Postgres
// store implementations. The schema lives in schema.sql at the repository
// root; applying it is deployment territory, not this process's job.
package database

import (
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	_ "github.com/lib/pq"
)

// Connect opens a database handle and verifies it with a short ping-retry
// loop, tolerating transient DNS or network blips at startup.
func Connect(url string, log *slog.Logger) (*sql.DB, error) {
	db, err := sql.Open("postgres", url)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	for attempt := 0; attempt < 5; attempt++ {
		if err = db.Ping(); err == nil {
			return db, nil
		}
		log.Warn("database ping failed, retrying", "attempt", attempt+1, "error", err)
		time.Sleep(2 * time.Second)
	}
	db.Close()
	return nil, fmt.Errorf("connect to database: %w", err)
}
