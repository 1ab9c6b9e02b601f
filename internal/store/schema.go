package store

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// schema — DDL хранилища. Применяется идемпотентно на старте.
const schema = `
CREATE TABLE IF NOT EXISTS orders (
    id         text PRIMARY KEY,
    created    timestamptz NOT NULL,
    status     text NOT NULL,
    doc        jsonb NOT NULL
);

CREATE TABLE IF NOT EXISTS processing_items (
    id              text PRIMARY KEY,
    order_id        text NOT NULL,
    order_doc       jsonb NOT NULL,
    created         timestamptz NOT NULL,
    started         timestamptz,
    processing_time integer NOT NULL,
    finished        timestamptz,
    status          text NOT NULL
);

CREATE UNIQUE INDEX IF NOT EXISTS processing_items_order_id_key
    ON processing_items (order_id);

CREATE INDEX IF NOT EXISTS processing_items_status_created_idx
    ON processing_items (status, created DESC);
`

// EnsureSchema применяет DDL хранилища.
func EnsureSchema(ctx context.Context, pool *pgxpool.Pool) error {
	if _, err := pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}
	return nil
}
