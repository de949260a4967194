package mocks

import (
	"context"
	"errors"

	"github.com/godilite/csat-server/internal/dashboard"
	"github.com/godilite/csat-server/internal/gauge"
	"github.com/godilite/csat-server/internal/service"
)

// MockDashboardService is a mock implementation of the DashboardService interface
// for testing the handler layer. It uses function-based mocking for flexibility.
type MockDashboardService struct {
	ListDashboardsFunc  func(ctx context.Context) []service.DashboardSummary
	SelectDashboardFunc func(ctx context.Context, slug string) (service.DashboardSummary, error)
	SetFiltersFunc      func(ctx context.Context, u dashboard.FilterUpdate) (gauge.FilterState, error)
	ResetFiltersFunc    func(ctx context.Context) gauge.FilterState
	GaugeDataFunc       func(ctx context.Context) (service.DashboardData, error)
	DrillDownFunc       func(ctx context.Context, gaugeID string, click *gauge.ClickContext) (service.DrillDownData, error)
	ToggleGaugeFunc     func(ctx context.Context, gaugeID string) (string, error)
	RefreshFunc         func(ctx context.Context) (service.Status, error)
	StatusFunc          func(ctx context.Context) service.Status
	GaugeTypesFunc      func(ctx context.Context) []service.GaugeTypeInfo
	FilterOptionsFunc   func(ctx context.Context) service.FilterOptions
}

var errNotImplemented = errors.New("not implemented")

// ListDashboards implements the DashboardService interface
func (m *MockDashboardService) ListDashboards(ctx context.Context) []service.DashboardSummary {
	if m.ListDashboardsFunc != nil {
		return m.ListDashboardsFunc(ctx)
	}
	return nil
}

// SelectDashboard implements the DashboardService interface
func (m *MockDashboardService) SelectDashboard(ctx context.Context, slug string) (service.DashboardSummary, error) {
	if m.SelectDashboardFunc != nil {
		return m.SelectDashboardFunc(ctx, slug)
	}
	return service.DashboardSummary{}, errNotImplemented
}

// SetFilters implements the DashboardService interface
func (m *MockDashboardService) SetFilters(ctx context.Context, u dashboard.FilterUpdate) (gauge.FilterState, error) {
	if m.SetFiltersFunc != nil {
		return m.SetFiltersFunc(ctx, u)
	}
	return gauge.FilterState{}, errNotImplemented
}

// ResetFilters implements the DashboardService interface
func (m *MockDashboardService) ResetFilters(ctx context.Context) gauge.FilterState {
	if m.ResetFiltersFunc != nil {
		return m.ResetFiltersFunc(ctx)
	}
	return gauge.FilterState{}
}

// GaugeData implements the DashboardService interface
func (m *MockDashboardService) GaugeData(ctx context.Context) (service.DashboardData, error) {
	if m.GaugeDataFunc != nil {
		return m.GaugeDataFunc(ctx)
	}
	return service.DashboardData{}, errNotImplemented
}

// DrillDown implements the DashboardService interface
func (m *MockDashboardService) DrillDown(ctx context.Context, gaugeID string, click *gauge.ClickContext) (service.DrillDownData, error) {
	if m.DrillDownFunc != nil {
		return m.DrillDownFunc(ctx, gaugeID, click)
	}
	return service.DrillDownData{}, errNotImplemented
}

// ToggleGauge implements the DashboardService interface
func (m *MockDashboardService) ToggleGauge(ctx context.Context, gaugeID string) (string, error) {
	if m.ToggleGaugeFunc != nil {
		return m.ToggleGaugeFunc(ctx, gaugeID)
	}
	return "", errNotImplemented
}

// Refresh implements the DashboardService interface
func (m *MockDashboardService) Refresh(ctx context.Context) (service.Status, error) {
	if m.RefreshFunc != nil {
		return m.RefreshFunc(ctx)
	}
	return service.Status{}, errNotImplemented
}

// Status implements the DashboardService interface
func (m *MockDashboardService) Status(ctx context.Context) service.Status {
	if m.StatusFunc != nil {
		return m.StatusFunc(ctx)
	}
	return service.Status{}
}

// GaugeTypes implements the DashboardService interface
func (m *MockDashboardService) GaugeTypes(ctx context.Context) []service.GaugeTypeInfo {
	if m.GaugeTypesFunc != nil {
		return m.GaugeTypesFunc(ctx)
	}
	return nil
}

// FilterOptions implements the DashboardService interface
func (m *MockDashboardService) FilterOptions(ctx context.Context) service.FilterOptions {
	if m.FilterOptionsFunc != nil {
		return m.FilterOptionsFunc(ctx)
	}
	return service.FilterOptions{}
}
