package repository_test

import (
	"context"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/godilite/csat-server/internal/repository"
	"github.com/godilite/csat-server/internal/repository/models"
)

func TestConfigRepository_PostgresPlaceholders(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(regexp.QuoteMeta("WHERE dashboard_id = $1 AND is_active = TRUE")).
		WithArgs("support").
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "dashboard_id", "title", "type_key", "data_config", "drill_down_config", "position", "section", "display_order",
		}).AddRow("g1", "support", "Gold", "kpi_card", `{"aggregation":"count"}`, nil, `{"x":1,"y":2,"w":3,"h":4}`, "", 0))

	repo := repository.NewConfigRepository(db, repository.DriverPostgres)
	defs, err := repo.ListGauges(context.Background(), "support")
	require.NoError(t, err)
	require.Len(t, defs, 1)
	assert.Equal(t, "count", defs[0].DataParams.String("", "aggregation"))
	assert.Equal(t, 4, defs[0].Position.Height)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestConfigRepository_BadJSON(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("FROM gauge_configs").
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "dashboard_id", "title", "type_key", "data_config", "drill_down_config", "position", "section", "display_order",
		}).AddRow("g1", "support", "Gold", "kpi_card", `{not json`, nil, nil, "", 0))

	_, err = repository.NewConfigRepository(db, repository.DriverPostgres).ListGauges(context.Background(), "support")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "g1 data_config")
}

func TestCSATRepository_PostgresInsert(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectBegin()
	prep := mock.ExpectPrepare(regexp.QuoteMeta("VALUES ($1, $2, $3, $4, $5, $6)"))
	prep.ExpectExec().
		WithArgs("r1", "2024-01-05", "Gold Star", "Acme", "Ann", "").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	n, err := repository.NewCSATRepository(db, repository.DriverPostgres).InsertRecords(context.Background(), "csat",
		[]models.CSATRow{{ID: "r1", ResponseDate: "2024-01-05", Rating: "Gold Star", Company: "Acme", TechFirstName: "Ann"}})
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.NoError(t, mock.ExpectationsWereMet())
}
