package dataset

import (
	"context"
	"fmt"

	"github.com/godilite/csat-server/internal/gauge"
	"github.com/godilite/csat-server/internal/repository/models"
)

type ConfigReader interface {
	ListDashboards(ctx context.Context) ([]models.Dashboard, error)
	ListGauges(ctx context.Context, dashboardID string) ([]gauge.Definition, error)
}

type ConfigWriter interface {
	SaveDashboard(ctx context.Context, d models.Dashboard) error
	SaveGauge(ctx context.Context, def gauge.Definition) error
}

// SeedConfig copies every dashboard and gauge from src into dst and returns
// the number of gauges written.
func SeedConfig(ctx context.Context, src ConfigReader, dst ConfigWriter) (int, error) {
	dashboards, err := src.ListDashboards(ctx)
	if err != nil {
		return 0, fmt.Errorf("list dashboards: %w", err)
	}

	n := 0
	for _, d := range dashboards {
		if err := dst.SaveDashboard(ctx, d); err != nil {
			return n, fmt.Errorf("save dashboard %s: %w", d.ID, err)
		}
		defs, err := src.ListGauges(ctx, d.ID)
		if err != nil {
			return n, fmt.Errorf("list gauges of %s: %w", d.ID, err)
		}
		for _, def := range defs {
			if err := dst.SaveGauge(ctx, def); err != nil {
				return n, fmt.Errorf("save gauge %s: %w", def.ID, err)
			}
			n++
		}
	}
	return n, nil
}
