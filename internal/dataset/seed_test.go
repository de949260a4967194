package dataset_test

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/godilite/csat-server/internal/dataset"
	"github.com/godilite/csat-server/internal/gauge"
	"github.com/godilite/csat-server/internal/repository"
	"github.com/godilite/csat-server/internal/repository/models"
)

const seedYAML = `
dashboards:
  - id: support
    name: Support Desk
    dataSource: csat
    gauges:
      - id: gold-kpi
        title: Gold Star Rate
        typeKey: kpi_card
        dataParams:
          aggregation: percentage
          numeratorField: rating
          numeratorValue: Gold Star
        drillDown:
          filterField: rating
          filterValue: Gold Star
          maxRows: 50
      - id: trend
        title: Monthly Trend
        typeKey: line_chart
        displayOrder: 2
  - id: exec
    slug: executive
    name: Executive
    dataSource: csat
    displayOrder: 1
`

func TestSeedConfig(t *testing.T) {
	ctx := context.Background()

	db, err := sql.Open("sqlite3", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, repository.EnsureSchema(ctx, db))

	src, err := repository.ParseFileConfig([]byte(seedYAML))
	require.NoError(t, err)
	dst := repository.NewConfigRepository(db, "sqlite3")

	n, err := dataset.SeedConfig(ctx, src, dst)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	dashboards, err := dst.ListDashboards(ctx)
	require.NoError(t, err)
	require.Len(t, dashboards, 2)
	assert.Equal(t, "executive", dashboards[1].Slug)

	defs, err := dst.ListGauges(ctx, "support")
	require.NoError(t, err)
	require.Len(t, defs, 2)
	assert.Equal(t, "gold-kpi", defs[0].ID)
	require.NotNil(t, defs[0].DrillDown)
	assert.Equal(t, 50, defs[0].DrillDown.MaxRows)
	assert.Equal(t, "Gold Star", defs[0].DataParams["numeratorValue"])

	// Seeding twice updates in place.
	n, err = dataset.SeedConfig(ctx, src, dst)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	defs, err = dst.ListGauges(ctx, "support")
	require.NoError(t, err)
	assert.Len(t, defs, 2)
}

type failingWriter struct{}

func (failingWriter) SaveDashboard(context.Context, models.Dashboard) error {
	return errors.New("read-only")
}

func (failingWriter) SaveGauge(context.Context, gauge.Definition) error { return nil }

func TestSeedConfig_WriteError(t *testing.T) {
	src, err := repository.ParseFileConfig([]byte(seedYAML))
	require.NoError(t, err)

	_, err = dataset.SeedConfig(context.Background(), src, failingWriter{})
	assert.ErrorContains(t, err, "save dashboard support")
}
