package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// seq columns preserve insertion order for List.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		seq        BIGSERIAL,
		id         TEXT PRIMARY KEY,
		name       TEXT NOT NULL,
		username   TEXT NOT NULL UNIQUE,
		headline   TEXT,
		location   TEXT,
		avatar_url TEXT,
		push_token TEXT,
		created_at TIMESTAMPTZ NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS connections (
		seq          BIGSERIAL,
		id           TEXT NOT NULL,
		follower_id  TEXT NOT NULL,
		following_id TEXT NOT NULL,
		status       TEXT NOT NULL,
		message      TEXT,
		created_at   TIMESTAMPTZ NOT NULL,
		connected_at TIMESTAMPTZ,
		PRIMARY KEY (follower_id, following_id)
	)`,
	`CREATE INDEX IF NOT EXISTS connections_following_idx ON connections (following_id, status)`,
	`CREATE TABLE IF NOT EXISTS posts (
		seq            BIGSERIAL,
		id             TEXT PRIMARY KEY,
		author_id      TEXT NOT NULL,
		content        TEXT NOT NULL,
		image_url      TEXT,
		likes_count    INTEGER NOT NULL DEFAULT 0,
		comments_count INTEGER NOT NULL DEFAULT 0,
		created_at     TIMESTAMPTZ NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS impact_entries (
		seq               BIGSERIAL,
		id                TEXT PRIMARY KEY,
		user_id           TEXT NOT NULL,
		opportunity_title TEXT NOT NULL,
		organization_name TEXT NOT NULL,
		hours             DOUBLE PRECISION NOT NULL,
		status            TEXT NOT NULL,
		date              TEXT NOT NULL DEFAULT '',
		created_at        TIMESTAMPTZ NOT NULL
	)`,
}

// EnsureSchema creates the tables if they do not exist (idempotent)
func EnsureSchema(ctx context.Context, db *pgxpool.Pool) error {
	for _, stmt := range schema {
		if _, err := db.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("failed to apply schema: %w", err)
		}
	}
	return nil
}
