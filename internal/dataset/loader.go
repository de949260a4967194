package dataset

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/godilite/csat-server/internal/repository/models"
)

var ErrNoRows = errors.New("no data rows")

var dateLayouts = []string{
	time.DateOnly,
	time.RFC3339,
	"01-02-06",
	"1/2/2006",
	"1/2/06",
	"2006/01/02",
}

type columns struct {
	id, date, rating, company, tech, comments int
}

// LoadXLSX reads CSAT responses from the first sheet of an Excel workbook.
// Columns are matched by header name; rows with neither a date nor a rating
// are skipped.
func LoadXLSX(path string) ([]models.CSATRow, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("no sheets")
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("read rows: %w", err)
	}
	if len(rows) <= 1 {
		return nil, ErrNoRows
	}

	cols, err := matchHeader(rows[0])
	if err != nil {
		return nil, err
	}

	out := make([]models.CSATRow, 0, len(rows)-1)
	for _, r := range rows[1:] {
		row := models.CSATRow{
			ID:            cell(r, cols.id),
			ResponseDate:  normalizeDate(cell(r, cols.date)),
			Rating:        cell(r, cols.rating),
			Company:       cell(r, cols.company),
			TechFirstName: cell(r, cols.tech),
			Comments:      cell(r, cols.comments),
		}
		if row.ResponseDate == "" && row.Rating == "" {
			continue
		}
		out = append(out, row)
	}
	return out, nil
}

func matchHeader(header []string) (columns, error) {
	cols := columns{id: -1, date: -1, rating: -1, company: -1, tech: -1, comments: -1}
	set := func(dst *int, i int) {
		if *dst == -1 {
			*dst = i
		}
	}
	for i, h := range header {
		l := strings.ToLower(strings.TrimSpace(h))
		switch {
		case l == "id" || l == "response id":
			set(&cols.id, i)
		case strings.Contains(l, "date"):
			set(&cols.date, i)
		case strings.Contains(l, "rating"):
			set(&cols.rating, i)
		case strings.Contains(l, "company") || strings.Contains(l, "customer"):
			set(&cols.company, i)
		case strings.Contains(l, "tech"):
			set(&cols.tech, i)
		case strings.Contains(l, "comment"):
			set(&cols.comments, i)
		}
	}
	if cols.date == -1 || cols.rating == -1 {
		return cols, fmt.Errorf("header must name a date and a rating column, got %q", header)
	}
	return cols, nil
}

func cell(r []string, i int) string {
	if i < 0 || i >= len(r) {
		return ""
	}
	return strings.TrimSpace(r[i])
}

// normalizeDate rewrites recognised dates and Excel serial numbers as
// YYYY-MM-DD. Anything else is kept as written.
func normalizeDate(s string) string {
	if s == "" {
		return s
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format(time.DateOnly)
		}
	}
	if serial, err := strconv.ParseFloat(s, 64); err == nil {
		if t, err := excelize.ExcelDateToTime(serial, false); err == nil {
			return t.Format(time.DateOnly)
		}
	}
	return s
}
