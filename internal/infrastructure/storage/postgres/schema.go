package postgres

import (
	"context"
	"fmt"
)

// schemaStatements are idempotent; EnsureSchema may run on every start.
var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS cat_manufacturers (
		id          BIGSERIAL PRIMARY KEY,
		name        VARCHAR(255) NOT NULL,
		nationality VARCHAR(255) NOT NULL DEFAULT '',
		active      BOOLEAN NOT NULL DEFAULT TRUE,
		version     INTEGER NOT NULL DEFAULT 1,
		created_at  TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at  TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	// Backstop for the service-level name check under concurrent writes.
	`CREATE UNIQUE INDEX IF NOT EXISTS ux_cat_manufacturers_name ON cat_manufacturers (name)`,
	`CREATE INDEX IF NOT EXISTS ix_cat_manufacturers_active ON cat_manufacturers (active)`,
}

// EnsureSchema creates the tables and indexes used by the repositories.
func EnsureSchema(ctx context.Context, q Querier) error {
	for _, stmt := range schemaStatements {
		if _, err := q.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}
	return nil
}
