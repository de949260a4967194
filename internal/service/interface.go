package service

import (
	"context"

	"github.com/godilite/csat-server/internal/dashboard"
	"github.com/godilite/csat-server/internal/gauge"
)

// Coordinator defines the dashboard state operations the service drives.
type Coordinator interface {
	Snapshot() dashboard.State
	View() (dashboard.State, []gauge.Record)
	SelectDashboard(ctx context.Context, slug string) error
	Refresh(ctx context.Context) error
	SetFilters(u dashboard.FilterUpdate) (gauge.FilterState, error)
	ResetFilters()
	ToggleExpanded(id string) string
}
