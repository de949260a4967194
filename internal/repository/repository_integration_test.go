package repository_test

import (
	"context"
	"database/sql"
	"testing"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/godilite/csat-server/internal/gauge"
	"github.com/godilite/csat-server/internal/repository"
	"github.com/godilite/csat-server/internal/repository/models"
)

func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := sql.Open("sqlite3", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })

	require.NoError(t, repository.EnsureSchema(context.Background(), db))
	return db
}

func TestEnsureSchema_Idempotent(t *testing.T) {
	db := setupTestDB(t)
	require.NoError(t, repository.EnsureSchema(context.Background(), db))
}

func TestCSATRepository_Integration(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	repo := repository.NewCSATRepository(db, "sqlite3")

	n, err := repo.InsertRecords(ctx, "csat", []models.CSATRow{
		{ID: "r1", ResponseDate: "2024-01-05", Rating: "Gold Star", Company: "Acme", TechFirstName: "Ann"},
		{ResponseDate: "2024-03-01", Rating: "Red Light", Company: "Globex", TechFirstName: "Bob", Comments: "slow"},
		{ID: "r3", ResponseDate: "2024-02-10", Rating: "Yellow Light", Company: "Acme", TechFirstName: "Ann"},
	})
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	t.Run("FetchRecords newest first", func(t *testing.T) {
		records, err := repo.FetchRecords(ctx, "csat")
		require.NoError(t, err)
		require.Len(t, records, 3)

		assert.Equal(t, "2024-03-01", records[0].String(gauge.FieldResponseDate))
		assert.Equal(t, "2024-01-05", records[2].String(gauge.FieldResponseDate))
		assert.Equal(t, gauge.RatingRedLight, records[0].Rating())
		assert.Equal(t, "slow", records[0].String("comments"))
		assert.NotEmpty(t, records[0].String("id"))
		assert.Equal(t, "Acme", records[1].Company())
	})

	t.Run("invalid data source", func(t *testing.T) {
		_, err := repo.FetchRecords(ctx, "csat; DROP TABLE csat")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid data source")
	})

	t.Run("missing table", func(t *testing.T) {
		_, err := repo.FetchRecords(ctx, "no_such_table")
		require.Error(t, err)
	})

	t.Run("duplicate id rolls back the batch", func(t *testing.T) {
		_, err := repo.InsertRecords(ctx, "csat", []models.CSATRow{
			{ID: "r9", ResponseDate: "2024-04-01", Rating: "Gold Star"},
			{ID: "r1", ResponseDate: "2024-04-02", Rating: "Gold Star"},
		})
		require.Error(t, err)

		records, err := repo.FetchRecords(ctx, "csat")
		require.NoError(t, err)
		assert.Len(t, records, 3)
	})
}

func TestConfigRepository_Integration(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	repo := repository.NewConfigRepository(db, "sqlite3")

	require.NoError(t, repo.SaveDashboard(ctx, models.Dashboard{ID: "b", Slug: "b", Name: "Beta", DataSource: "csat", DisplayOrder: 2, IsActive: true}))
	require.NoError(t, repo.SaveDashboard(ctx, models.Dashboard{ID: "a", Slug: "a", Name: "Alpha", DataSource: "csat", DisplayOrder: 1, IsActive: true}))
	require.NoError(t, repo.SaveDashboard(ctx, models.Dashboard{ID: "z", Slug: "z", Name: "Hidden", DataSource: "csat", IsActive: false}))

	kpi := gauge.Definition{
		ID:           "g1",
		DashboardID:  "a",
		Title:        "Gold Star Rate",
		TypeKey:      gauge.TypeKPICard,
		DataParams:   gauge.Params{"aggregation": "percentage", "numeratorValue": "Gold Star"},
		DrillDown:    &gauge.DrillDownParams{Title: "Gold", FilterField: "rating", FilterValue: "Gold Star", MaxRows: 10},
		Position:     gauge.Position{X: 0, Y: 0, Width: 3, Height: 2},
		Section:      "Overview",
		DisplayOrder: 2,
	}
	pie := gauge.Definition{ID: "g2", DashboardID: "a", Title: "Mix", TypeKey: gauge.TypePieChart, DisplayOrder: 1}
	require.NoError(t, repo.SaveGauge(ctx, kpi))
	require.NoError(t, repo.SaveGauge(ctx, pie))

	t.Run("ListDashboards skips inactive and orders", func(t *testing.T) {
		dashboards, err := repo.ListDashboards(ctx)
		require.NoError(t, err)
		require.Len(t, dashboards, 2)
		assert.Equal(t, "Alpha", dashboards[0].Name)
		assert.Equal(t, "Beta", dashboards[1].Name)
	})

	t.Run("ListGauges decodes JSON columns", func(t *testing.T) {
		defs, err := repo.ListGauges(ctx, "a")
		require.NoError(t, err)
		require.Len(t, defs, 2)

		assert.Equal(t, "g2", defs[0].ID)
		assert.Nil(t, defs[0].DrillDown)
		assert.Nil(t, defs[0].DataParams)

		got := defs[1]
		assert.Equal(t, "percentage", got.DataParams.String("", "aggregation"))
		require.NotNil(t, got.DrillDown)
		assert.Equal(t, 10, got.DrillDown.MaxRows)
		assert.Equal(t, 3, got.Position.Width)
		assert.Equal(t, "Overview", got.Section)
	})

	t.Run("SaveGauge upserts", func(t *testing.T) {
		pie.Title = "Rating Mix"
		require.NoError(t, repo.SaveGauge(ctx, pie))

		defs, err := repo.ListGauges(ctx, "a")
		require.NoError(t, err)
		require.Len(t, defs, 2)
		assert.Equal(t, "Rating Mix", defs[0].Title)
	})

	t.Run("unknown dashboard has no gauges", func(t *testing.T) {
		defs, err := repo.ListGauges(ctx, "nope")
		require.NoError(t, err)
		assert.Empty(t, defs)
	})
}
