package store

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/battcast/backend/internal/contracts"
)

// IntensityRepository implements contracts.IntensityRepository
type IntensityRepository struct {
	pool *pgxpool.Pool
}

// NewIntensityRepository creates a new intensity repository
func NewIntensityRepository(pool *pgxpool.Pool) *IntensityRepository {
	return &IntensityRepository{pool: pool}
}

// GetAll returns the full intensity baseline.
func (r *IntensityRepository) GetAll(ctx context.Context) ([]contracts.IntensityRecord, error) {
	query := `
		SELECT chemistry, material, tons_per_gwh
		FROM intensity_baseline
		ORDER BY chemistry, material
	`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query intensity baseline: %w", err)
	}
	defer rows.Close()

	var records []contracts.IntensityRecord
	for rows.Next() {
		var rec contracts.IntensityRecord
		if err := rows.Scan(&rec.Chemistry, &rec.Material, &rec.TonsPerGWh); err != nil {
			return nil, fmt.Errorf("failed to scan intensity row: %w", err)
		}
		// Rows written before ingest normalized casing may still carry it.
		rec.Chemistry = contracts.CanonicalChemistry(rec.Chemistry)
		records = append(records, rec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating intensity rows: %w", err)
	}

	return records, nil
}

// ReplaceAll swaps the whole baseline in one transaction. The baseline is
// small and externally maintained, so replace is simpler than diffing.
func (r *IntensityRepository) ReplaceAll(ctx context.Context, records []contracts.IntensityRecord) error {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM intensity_baseline`); err != nil {
		return fmt.Errorf("failed to clear intensity baseline: %w", err)
	}

	batch := &pgx.Batch{}
	query := `
		INSERT INTO intensity_baseline (chemistry, material, tons_per_gwh)
		VALUES ($1, $2, $3)
	`
	for _, rec := range records {
		batch.Queue(query, contracts.CanonicalChemistry(rec.Chemistry), rec.Material, rec.TonsPerGWh)
	}

	if err := execBatch(ctx, tx, batch); err != nil {
		return fmt.Errorf("failed to insert intensity baseline: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit intensity baseline: %w", err)
	}

	return nil
}
