// Package store implements the contracts repository interfaces on PostgreSQL.
// All SQL lives here; no other package issues queries.
package store

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/battcast/backend/internal/contracts"
)

// PriceRepository implements contracts.PriceRepository
type PriceRepository struct {
	pool *pgxpool.Pool
}

// NewPriceRepository creates a new price repository
func NewPriceRepository(pool *pgxpool.Pool) *PriceRepository {
	return &PriceRepository{pool: pool}
}

// SaveBatch upserts raw monthly observations. Re-imports of the same
// (material, month) overwrite the stored price.
func (r *PriceRepository) SaveBatch(ctx context.Context, rows []contracts.PriceRow) error {
	if len(rows) == 0 {
		return nil
	}

	batch := &pgx.Batch{}
	query := `
		INSERT INTO prices_monthly (material, month, usd_per_ton)
		VALUES ($1, $2, $3)
		ON CONFLICT (material, month) DO UPDATE SET
			usd_per_ton = EXCLUDED.usd_per_ton
	`

	for _, row := range rows {
		batch.Queue(query, row.Material, contracts.MonthStart(row.Month), row.USDPerTon)
	}

	br := r.pool.SendBatch(ctx, batch)
	defer br.Close()

	for range rows {
		if _, err := br.Exec(); err != nil {
			return fmt.Errorf("failed to save price batch: %w", err)
		}
	}

	return nil
}

// GetPanel returns all observations grouped by material, ordered by month.
func (r *PriceRepository) GetPanel(ctx context.Context) (map[string][]contracts.PricePoint, error) {
	query := `
		SELECT material, month, usd_per_ton
		FROM prices_monthly
		ORDER BY material, month
	`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query price panel: %w", err)
	}
	defer rows.Close()

	panel := make(map[string][]contracts.PricePoint)
	for rows.Next() {
		var material string
		var point contracts.PricePoint

		if err := rows.Scan(&material, &point.Month, &point.USDPerTon); err != nil {
			return nil, fmt.Errorf("failed to scan price row: %w", err)
		}
		point.Kind = contracts.KindHistory
		panel[material] = append(panel[material], point)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating price rows: %w", err)
	}

	return panel, nil
}

// Materials returns the distinct materials present in the panel.
func (r *PriceRepository) Materials(ctx context.Context) ([]string, error) {
	query := `SELECT DISTINCT material FROM prices_monthly ORDER BY material`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query materials: %w", err)
	}
	defer rows.Close()

	var materials []string
	for rows.Next() {
		var m string
		if err := rows.Scan(&m); err != nil {
			return nil, fmt.Errorf("failed to scan material: %w", err)
		}
		materials = append(materials, m)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating materials: %w", err)
	}

	return materials, nil
}
