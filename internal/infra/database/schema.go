package database

import (
	"context"
	"database/sql"
	"fmt"
)

// CreatePostgresSchema is safe to call on every start.
func CreatePostgresSchema(ctx context.Context, db *sql.DB) error {
	if _, err := db.ExecContext(ctx, postgresSchema); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	return nil
}

func CreateSQLiteSchema(ctx context.Context, db *sql.DB) error {
	if _, err := db.ExecContext(ctx, sqliteSchema); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	return nil
}

const postgresSchema = `
CREATE TABLE IF NOT EXISTS signatures (
    id UUID PRIMARY KEY,
    email TEXT NOT NULL,
    name TEXT NOT NULL DEFAULT '',
    image_data TEXT NOT NULL,
    signed_at TIMESTAMPTZ NOT NULL,
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    CONSTRAINT signatures_email_key UNIQUE (email),
    CONSTRAINT signatures_email_normalized CHECK (email = lower(btrim(email)) AND email <> '')
);

CREATE INDEX IF NOT EXISTS idx_signatures_created_at ON signatures(created_at);
`

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS signatures (
    id TEXT PRIMARY KEY,
    email TEXT NOT NULL UNIQUE CHECK (email <> ''),
    name TEXT NOT NULL DEFAULT '',
    image_data TEXT NOT NULL,
    signed_at INTEGER NOT NULL,
    created_at INTEGER NOT NULL,
    updated_at INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_signatures_created_at ON signatures(created_at);
`
