package repository

import (
	"context"
	"database/sql"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

const DriverPostgres = "postgres"

var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS dashboard_configs (
		id TEXT PRIMARY KEY,
		slug TEXT NOT NULL UNIQUE,
		name TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		data_source TEXT NOT NULL,
		display_order INTEGER NOT NULL DEFAULT 0,
		is_active BOOLEAN NOT NULL DEFAULT TRUE
	)`,
	`CREATE TABLE IF NOT EXISTS gauge_configs (
		id TEXT PRIMARY KEY,
		dashboard_id TEXT NOT NULL,
		title TEXT NOT NULL,
		type_key TEXT NOT NULL,
		data_config TEXT,
		drill_down_config TEXT,
		position TEXT,
		section TEXT NOT NULL DEFAULT '',
		display_order INTEGER NOT NULL DEFAULT 0,
		is_active BOOLEAN NOT NULL DEFAULT TRUE
	)`,
	`CREATE TABLE IF NOT EXISTS csat (
		id TEXT PRIMARY KEY,
		response_date TEXT NOT NULL,
		rating TEXT NOT NULL,
		company TEXT NOT NULL DEFAULT '',
		tech_first_name TEXT NOT NULL DEFAULT '',
		comments TEXT NOT NULL DEFAULT ''
	)`,
}

// EnsureSchema creates the dashboard tables when they are missing.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	for _, stmt := range schemaStatements {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}
	return nil
}

var identRe = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// quoteTable validates a data source name; table names cannot be bound as
// parameters.
func quoteTable(name string) (string, error) {
	if !identRe.MatchString(name) {
		return "", fmt.Errorf("invalid data source %q", name)
	}
	return `"` + name + `"`, nil
}

// rebind rewrites ? placeholders to $n for drivers that need it.
func rebind(driver, query string) string {
	if driver != DriverPostgres {
		return query
	}
	var b strings.Builder
	b.Grow(len(query) + 8)
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
