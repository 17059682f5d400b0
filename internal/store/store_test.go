package store

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/battcast/backend/internal/contracts"
)

// testPool connects to the database named by TEST_DATABASE_URL. The schema
// must already exist; these tests exercise real SQL round-trips.
func testPool(t *testing.T) *pgxpool.Pool {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping integration test")
	}
	url := os.Getenv("TEST_DATABASE_URL")
	if url == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	pool, err := pgxpool.New(context.Background(), url)
	require.NoError(t, err, "database connection failed")
	t.Cleanup(pool.Close)
	return pool
}

func TestPriceRepository_RoundTrip(t *testing.T) {
	pool := testPool(t)
	repo := NewPriceRepository(pool)
	ctx := context.Background()

	jan := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	rows := []contracts.PriceRow{
		{Material: "test_nickel", Month: jan, USDPerTon: 20000},
		{Material: "test_nickel", Month: jan.AddDate(0, 1, 0), USDPerTon: 21000},
	}
	require.NoError(t, repo.SaveBatch(ctx, rows))

	// Upsert: same month again overwrites.
	require.NoError(t, repo.SaveBatch(ctx, []contracts.PriceRow{
		{Material: "test_nickel", Month: jan, USDPerTon: 19500},
	}))

	panel, err := repo.GetPanel(ctx)
	require.NoError(t, err)
	require.Contains(t, panel, "test_nickel")

	points := panel["test_nickel"]
	require.GreaterOrEqual(t, len(points), 2)
	assert.Equal(t, 19500.0, points[0].USDPerTon)
	assert.Equal(t, contracts.KindHistory, points[0].Kind)

	materials, err := repo.Materials(ctx)
	require.NoError(t, err)
	assert.Contains(t, materials, "test_nickel")
}

func TestIntensityRepository_ReplaceAll(t *testing.T) {
	pool := testPool(t)
	repo := NewIntensityRepository(pool)
	ctx := context.Background()

	first := []contracts.IntensityRecord{
		{Chemistry: "test_lfp", Material: "test_iron", TonsPerGWh: 30},
		{Chemistry: "test_lfp", Material: "test_phosphate", TonsPerGWh: 5},
	}
	require.NoError(t, repo.ReplaceAll(ctx, first))

	second := []contracts.IntensityRecord{
		{Chemistry: "TEST_LFP", Material: "test_iron", TonsPerGWh: 28},
	}
	require.NoError(t, repo.ReplaceAll(ctx, second))

	records, err := repo.GetAll(ctx)
	require.NoError(t, err)
	assert.Len(t, records, 1)
	assert.Equal(t, "test_lfp", records[0].Chemistry)
	assert.Equal(t, 28.0, records[0].TonsPerGWh)
}

func TestForecastRepository_RoundTrip(t *testing.T) {
	pool := testPool(t)
	repo := NewForecastRepository(pool)
	ctx := context.Background()

	jan := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	series := []contracts.MaterialPriceSeries{
		{
			Material: "test_cobalt",
			Points: []contracts.PricePoint{
				{Month: jan, USDPerTon: 35000, Kind: contracts.KindHistory},
				{Month: jan.AddDate(0, 1, 0), USDPerTon: 35500, Kind: contracts.KindForecast},
			},
		},
	}
	require.NoError(t, repo.SaveMaterialSeries(ctx, series))

	got, err := repo.GetMaterialSeries(ctx)
	require.NoError(t, err)
	require.Contains(t, got, "test_cobalt")
	require.Len(t, got["test_cobalt"].Points, 2)
	assert.Equal(t, contracts.KindForecast, got["test_cobalt"].Points[1].Kind)

	costs := []contracts.ChemistryCostSeries{
		{
			Chemistry: "test_lfp",
			Points: []contracts.ChemistryCostPoint{
				{Month: jan, Kind: contracts.KindHistory, USDPerGWh: 600000, USDPerKWhMaterial: 600, USDPerKWhBattery: 750, LocalPerKWhBattery: 62250},
			},
		},
	}
	require.NoError(t, repo.SaveChemistryCosts(ctx, costs))

	gotCosts, err := repo.GetChemistryCosts(ctx)
	require.NoError(t, err)
	require.Contains(t, gotCosts, "test_lfp")
	assert.Equal(t, 750.0, gotCosts["test_lfp"].Points[0].USDPerKWhBattery)

	annual := []contracts.AnnualCost{
		{Chemistry: "test_lfp", Year: 2026, Kind: contracts.KindHistory, USDPerGWh: 600000},
	}
	assert.NoError(t, repo.SaveAnnualCosts(ctx, annual))
}
