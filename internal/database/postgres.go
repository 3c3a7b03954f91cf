package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq"
)

// NewPostgresConnection opens a postgres pool and verifies it with a ping
func NewPostgresConnection(databaseURL string) (*sql.DB, error) {
	db, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return db, nil
}

// Migrate creates the tables the service reads from when they do not exist yet
func Migrate(ctx context.Context, db *sql.DB) error {
	if _, err := db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}
	return nil
}

const schema = `
CREATE TABLE IF NOT EXISTS users (
	id          BIGSERIAL PRIMARY KEY,
	username    VARCHAR(50)  NOT NULL UNIQUE,
	name        VARCHAR(255) NOT NULL DEFAULT '',
	email       VARCHAR(255) NOT NULL UNIQUE,
	avatar_url  TEXT,
	is_admin    BOOLEAN      NOT NULL DEFAULT FALSE,
	banned      BOOLEAN      NOT NULL DEFAULT FALSE,
	icon_time   TIMESTAMPTZ,
	created_at  TIMESTAMPTZ  NOT NULL DEFAULT NOW()
);
`
