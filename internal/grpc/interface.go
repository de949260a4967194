package grpc

import (
	"context"

	"github.com/godilite/csat-server/internal/dashboard"
	"github.com/godilite/csat-server/internal/gauge"
	"github.com/godilite/csat-server/internal/service"
)

// DashboardService is the service surface the transport exposes.
type DashboardService interface {
	ListDashboards(ctx context.Context) []service.DashboardSummary
	SelectDashboard(ctx context.Context, slug string) (service.DashboardSummary, error)
	SetFilters(ctx context.Context, u dashboard.FilterUpdate) (gauge.FilterState, error)
	ResetFilters(ctx context.Context) gauge.FilterState
	GaugeData(ctx context.Context) (service.DashboardData, error)
	DrillDown(ctx context.Context, gaugeID string, click *gauge.ClickContext) (service.DrillDownData, error)
	ToggleGauge(ctx context.Context, gaugeID string) (string, error)
	Refresh(ctx context.Context) (service.Status, error)
	Status(ctx context.Context) service.Status
	GaugeTypes(ctx context.Context) []service.GaugeTypeInfo
	FilterOptions(ctx context.Context) service.FilterOptions
}
