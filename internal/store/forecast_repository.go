package store

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/battcast/backend/internal/contracts"
)

// ForecastRepository implements contracts.ForecastRepository
type ForecastRepository struct {
	pool *pgxpool.Pool
}

// execBatch sends the queued statements on tx and drains every result.
func execBatch(ctx context.Context, tx pgx.Tx, batch *pgx.Batch) error {
	br := tx.SendBatch(ctx, batch)
	for i := 0; i < batch.Len(); i++ {
		if _, err := br.Exec(); err != nil {
			br.Close()
			return err
		}
	}
	return br.Close()
}

// NewForecastRepository creates a new forecast repository
func NewForecastRepository(pool *pgxpool.Pool) *ForecastRepository {
	return &ForecastRepository{pool: pool}
}

// SaveMaterialSeries replaces the stored forecast table with a fresh rebuild.
// Delete plus insert inside one transaction so readers never see a partial
// rebuild.
func (r *ForecastRepository) SaveMaterialSeries(ctx context.Context, series []contracts.MaterialPriceSeries) error {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM material_forecasts`); err != nil {
		return fmt.Errorf("failed to clear material forecasts: %w", err)
	}

	batch := &pgx.Batch{}
	query := `
		INSERT INTO material_forecasts (material, month, usd_per_ton, kind)
		VALUES ($1, $2, $3, $4)
	`
	for _, s := range series {
		for _, p := range s.Points {
			batch.Queue(query, s.Material, p.Month, p.USDPerTon, string(p.Kind))
		}
	}

	if err := execBatch(ctx, tx, batch); err != nil {
		return fmt.Errorf("failed to insert material forecasts: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit material forecasts: %w", err)
	}

	return nil
}

// GetMaterialSeries loads the forecast table keyed by material.
func (r *ForecastRepository) GetMaterialSeries(ctx context.Context) (map[string]contracts.MaterialPriceSeries, error) {
	query := `
		SELECT material, month, usd_per_ton, kind
		FROM material_forecasts
		ORDER BY material, month
	`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query material forecasts: %w", err)
	}
	defer rows.Close()

	result := make(map[string]contracts.MaterialPriceSeries)
	for rows.Next() {
		var material, kind string
		var point contracts.PricePoint

		if err := rows.Scan(&material, &point.Month, &point.USDPerTon, &kind); err != nil {
			return nil, fmt.Errorf("failed to scan forecast row: %w", err)
		}
		point.Kind = contracts.Kind(kind)

		s := result[material]
		s.Material = material
		s.Points = append(s.Points, point)
		result[material] = s
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating forecast rows: %w", err)
	}

	return result, nil
}

// SaveChemistryCosts replaces the monthly chemistry cost table.
func (r *ForecastRepository) SaveChemistryCosts(ctx context.Context, series []contracts.ChemistryCostSeries) error {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM chemistry_costs_monthly`); err != nil {
		return fmt.Errorf("failed to clear chemistry costs: %w", err)
	}

	batch := &pgx.Batch{}
	query := `
		INSERT INTO chemistry_costs_monthly
			(chemistry, month, kind, usd_per_gwh, usd_per_kwh_material, usd_per_kwh_battery, local_per_kwh_battery)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	for _, s := range series {
		for _, p := range s.Points {
			batch.Queue(query,
				s.Chemistry, p.Month, string(p.Kind),
				p.USDPerGWh, p.USDPerKWhMaterial, p.USDPerKWhBattery, p.LocalPerKWhBattery,
			)
		}
	}

	if err := execBatch(ctx, tx, batch); err != nil {
		return fmt.Errorf("failed to insert chemistry costs: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit chemistry costs: %w", err)
	}

	return nil
}

// GetChemistryCosts loads the monthly cost table keyed by chemistry.
func (r *ForecastRepository) GetChemistryCosts(ctx context.Context) (map[string]contracts.ChemistryCostSeries, error) {
	query := `
		SELECT chemistry, month, kind, usd_per_gwh, usd_per_kwh_material, usd_per_kwh_battery, local_per_kwh_battery
		FROM chemistry_costs_monthly
		ORDER BY chemistry, month, kind
	`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query chemistry costs: %w", err)
	}
	defer rows.Close()

	result := make(map[string]contracts.ChemistryCostSeries)
	for rows.Next() {
		var chemistry, kind string
		var point contracts.ChemistryCostPoint

		err := rows.Scan(
			&chemistry, &point.Month, &kind,
			&point.USDPerGWh, &point.USDPerKWhMaterial, &point.USDPerKWhBattery, &point.LocalPerKWhBattery,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan chemistry cost row: %w", err)
		}
		point.Kind = contracts.Kind(kind)

		s := result[chemistry]
		s.Chemistry = chemistry
		s.Points = append(s.Points, point)
		result[chemistry] = s
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating chemistry cost rows: %w", err)
	}

	return result, nil
}

// SaveAnnualCosts replaces the annual roll-up table.
func (r *ForecastRepository) SaveAnnualCosts(ctx context.Context, costs []contracts.AnnualCost) error {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM chemistry_costs_annual`); err != nil {
		return fmt.Errorf("failed to clear annual costs: %w", err)
	}

	batch := &pgx.Batch{}
	query := `
		INSERT INTO chemistry_costs_annual (chemistry, year, kind, usd_per_gwh)
		VALUES ($1, $2, $3, $4)
	`
	for _, c := range costs {
		batch.Queue(query, c.Chemistry, c.Year, string(c.Kind), c.USDPerGWh)
	}

	if err := execBatch(ctx, tx, batch); err != nil {
		return fmt.Errorf("failed to insert annual costs: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit annual costs: %w", err)
	}

	return nil
}
