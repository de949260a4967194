package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/godilite/csat-server/internal/gauge"
	"github.com/godilite/csat-server/internal/repository/models"
)

// CSATRepository reads survey rows from whichever table a dashboard names.
type CSATRepository struct {
	db     *sql.DB
	driver string
}

func NewCSATRepository(db *sql.DB, driver string) *CSATRepository {
	return &CSATRepository{db: db, driver: driver}
}

// FetchRecords returns every row of the data source, newest first, as
// column-keyed records.
func (r *CSATRepository) FetchRecords(ctx context.Context, dataSource string) ([]gauge.Record, error) {
	table, err := quoteTable(dataSource)
	if err != nil {
		return nil, err
	}

	query := fmt.Sprintf(`SELECT * FROM %s ORDER BY %s DESC`, table, gauge.FieldResponseDate)
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query FetchRecords: %w", err)
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("columns FetchRecords: %w", err)
	}

	records := make([]gauge.Record, 0)
	for rows.Next() {
		values := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, fmt.Errorf("scan FetchRecords row: %w", err)
		}

		rec := make(gauge.Record, len(cols))
		for i, col := range cols {
			rec[col] = normalize(values[i])
		}
		records = append(records, rec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate FetchRecords: %w", err)
	}
	return records, nil
}

// InsertRecords writes rows into the data source in a single transaction.
func (r *CSATRepository) InsertRecords(ctx context.Context, dataSource string, rows []models.CSATRow) (int, error) {
	table, err := quoteTable(dataSource)
	if err != nil {
		return 0, err
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin InsertRecords: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	stmt, err := tx.PrepareContext(ctx, rebind(r.driver, fmt.Sprintf(`
		INSERT INTO %s (id, response_date, rating, company, tech_first_name, comments)
		VALUES (?, ?, ?, ?, ?, ?)
	`, table)))
	if err != nil {
		return 0, fmt.Errorf("prepare InsertRecords: %w", err)
	}
	defer stmt.Close()

	for _, row := range rows {
		id := row.ID
		if id == "" {
			id = uuid.NewString()
		}
		if _, err := stmt.ExecContext(ctx, id, row.ResponseDate, row.Rating, row.Company, row.TechFirstName, row.Comments); err != nil {
			return 0, fmt.Errorf("exec InsertRecords: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit InsertRecords: %w", err)
	}
	return len(rows), nil
}

func normalize(v any) any {
	switch t := v.(type) {
	case []byte:
		return string(t)
	case int64:
		return float64(t)
	case int32:
		return float64(t)
	default:
		return t
	}
}
