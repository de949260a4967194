package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/godilite/csat-server/internal/gauge"
	"github.com/godilite/csat-server/internal/repository/models"
)

// ConfigRepository stores dashboards and their gauge definitions. Gauge
// parameters, drill-down settings and positions live in JSON text columns.
type ConfigRepository struct {
	db     *sql.DB
	driver string
}

func NewConfigRepository(db *sql.DB, driver string) *ConfigRepository {
	return &ConfigRepository{db: db, driver: driver}
}

// ListDashboards returns active dashboards in display order.
func (r *ConfigRepository) ListDashboards(ctx context.Context) ([]models.Dashboard, error) {
	const query = `
		SELECT id, slug, name, description, data_source, display_order, is_active
		FROM dashboard_configs
		WHERE is_active = TRUE
		ORDER BY display_order, name
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query ListDashboards: %w", err)
	}
	defer rows.Close()

	dashboards := make([]models.Dashboard, 0)
	for rows.Next() {
		var d models.Dashboard
		if err := rows.Scan(&d.ID, &d.Slug, &d.Name, &d.Description, &d.DataSource, &d.DisplayOrder, &d.IsActive); err != nil {
			return nil, fmt.Errorf("scan ListDashboards row: %w", err)
		}
		dashboards = append(dashboards, d)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate ListDashboards: %w", err)
	}
	return dashboards, nil
}

// ListGauges returns the active gauges of a dashboard in display order.
func (r *ConfigRepository) ListGauges(ctx context.Context, dashboardID string) ([]gauge.Definition, error) {
	query := rebind(r.driver, `
		SELECT id, dashboard_id, title, type_key, data_config, drill_down_config, position, section, display_order
		FROM gauge_configs
		WHERE dashboard_id = ? AND is_active = TRUE
		ORDER BY display_order, id
	`)

	rows, err := r.db.QueryContext(ctx, query, dashboardID)
	if err != nil {
		return nil, fmt.Errorf("query ListGauges: %w", err)
	}
	defer rows.Close()

	defs := make([]gauge.Definition, 0)
	for rows.Next() {
		var (
			def                       gauge.Definition
			dataCfg, drillCfg, posCfg sql.NullString
		)
		if err := rows.Scan(&def.ID, &def.DashboardID, &def.Title, &def.TypeKey, &dataCfg, &drillCfg, &posCfg, &def.Section, &def.DisplayOrder); err != nil {
			return nil, fmt.Errorf("scan ListGauges row: %w", err)
		}
		if err := decodeJSON(dataCfg, &def.DataParams); err != nil {
			return nil, fmt.Errorf("gauge %s data_config: %w", def.ID, err)
		}
		if drillCfg.Valid && drillCfg.String != "" && drillCfg.String != "null" {
			def.DrillDown = &gauge.DrillDownParams{}
			if err := decodeJSON(drillCfg, def.DrillDown); err != nil {
				return nil, fmt.Errorf("gauge %s drill_down_config: %w", def.ID, err)
			}
		}
		if err := decodeJSON(posCfg, &def.Position); err != nil {
			return nil, fmt.Errorf("gauge %s position: %w", def.ID, err)
		}
		defs = append(defs, def)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate ListGauges: %w", err)
	}
	return defs, nil
}

// SaveDashboard inserts or replaces a dashboard.
func (r *ConfigRepository) SaveDashboard(ctx context.Context, d models.Dashboard) error {
	query := rebind(r.driver, `
		INSERT INTO dashboard_configs (id, slug, name, description, data_source, display_order, is_active)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			slug = excluded.slug,
			name = excluded.name,
			description = excluded.description,
			data_source = excluded.data_source,
			display_order = excluded.display_order,
			is_active = excluded.is_active
	`)
	if _, err := r.db.ExecContext(ctx, query, d.ID, d.Slug, d.Name, d.Description, d.DataSource, d.DisplayOrder, d.IsActive); err != nil {
		return fmt.Errorf("exec SaveDashboard: %w", err)
	}
	return nil
}

// SaveGauge inserts or replaces a gauge definition.
func (r *ConfigRepository) SaveGauge(ctx context.Context, def gauge.Definition) error {
	dataCfg, err := json.Marshal(def.DataParams)
	if err != nil {
		return fmt.Errorf("encode data_config: %w", err)
	}
	var drillCfg sql.NullString
	if def.DrillDown != nil {
		b, err := json.Marshal(def.DrillDown)
		if err != nil {
			return fmt.Errorf("encode drill_down_config: %w", err)
		}
		drillCfg = sql.NullString{String: string(b), Valid: true}
	}
	posCfg, err := json.Marshal(def.Position)
	if err != nil {
		return fmt.Errorf("encode position: %w", err)
	}

	query := rebind(r.driver, `
		INSERT INTO gauge_configs (id, dashboard_id, title, type_key, data_config, drill_down_config, position, section, display_order, is_active)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, TRUE)
		ON CONFLICT (id) DO UPDATE SET
			dashboard_id = excluded.dashboard_id,
			title = excluded.title,
			type_key = excluded.type_key,
			data_config = excluded.data_config,
			drill_down_config = excluded.drill_down_config,
			position = excluded.position,
			section = excluded.section,
			display_order = excluded.display_order,
			is_active = excluded.is_active
	`)
	if _, err := r.db.ExecContext(ctx, query, def.ID, def.DashboardID, def.Title, def.TypeKey,
		string(dataCfg), drillCfg, string(posCfg), def.Section, def.DisplayOrder); err != nil {
		return fmt.Errorf("exec SaveGauge: %w", err)
	}
	return nil
}

func decodeJSON(col sql.NullString, dst any) error {
	if !col.Valid || col.String == "" {
		return nil
	}
	return json.Unmarshal([]byte(col.String), dst)
}
