package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/alfredjeanlab/marketmaps/internal/model"
	"github.com/alfredjeanlab/marketmaps/internal/store"
)

// mapColumns is the column list used for SELECT and RETURNING clauses on the
// market_maps table.
const mapColumns = `id, map_data, created_at, updated_at`

// executor is the interface satisfied by both *sql.DB and *sql.Tx.
type executor interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// queryPutMap upserts a map in a single statement. created_at is only written
// on insert; a conflicting row keeps its original value.
func queryPutMap(ctx context.Context, db executor, id, mapData string, now time.Time) (*model.MarketMap, error) {
	row := db.QueryRowContext(ctx, `
		INSERT INTO market_maps (id, map_data, created_at, updated_at)
		VALUES ($1, $2, $3, $3)
		ON CONFLICT (id) DO UPDATE SET map_data = EXCLUDED.map_data, updated_at = EXCLUDED.updated_at
		RETURNING `+mapColumns,
		id, mapData, now,
	)
	return scanMap(row)
}

func queryGetMap(ctx context.Context, db executor, id string) (*model.MarketMap, error) {
	row := db.QueryRowContext(ctx, `SELECT `+mapColumns+` FROM market_maps WHERE id = $1`, id)
	m, err := scanMap(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrNotFound
	}
	return m, err
}
