package postgres

import (
	"github.com/alfredjeanlab/marketmaps/internal/model"
)

// scannable is the interface satisfied by both *sql.Row and *sql.Rows.
type scannable interface {
	Scan(dest ...any) error
}

// scanMap scans a single row into a model.MarketMap.
// The row must contain columns in the order defined by mapColumns.
func scanMap(row scannable) (*model.MarketMap, error) {
	var m model.MarketMap
	if err := row.Scan(&m.ID, &m.MapData, &m.CreatedAt, &m.UpdatedAt); err != nil {
		return nil, err
	}
	m.CreatedAt = m.CreatedAt.UTC()
	m.UpdatedAt = m.UpdatedAt.UTC()
	return &m, nil
}
