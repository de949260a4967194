package mocks

import (
	"context"
	"errors"

	"github.com/godilite/csat-server/internal/gauge"
	"github.com/godilite/csat-server/internal/repository/models"
)

// MockConfigSource is a mock implementation of the ConfigSource interface
// for testing the coordinator.
type MockConfigSource struct {
	ListDashboardsFunc func(ctx context.Context) ([]models.Dashboard, error)
	ListGaugesFunc     func(ctx context.Context, dashboardID string) ([]gauge.Definition, error)
}

// ListDashboards implements the ConfigSource interface
func (m *MockConfigSource) ListDashboards(ctx context.Context) ([]models.Dashboard, error) {
	if m.ListDashboardsFunc != nil {
		return m.ListDashboardsFunc(ctx)
	}
	return nil, errors.New("ListDashboardsFunc not implemented")
}

// ListGauges implements the ConfigSource interface
func (m *MockConfigSource) ListGauges(ctx context.Context, dashboardID string) ([]gauge.Definition, error) {
	if m.ListGaugesFunc != nil {
		return m.ListGaugesFunc(ctx, dashboardID)
	}
	return nil, nil
}

// MockRecordSource is a mock implementation of the RecordSource and
// Invalidator interfaces.
type MockRecordSource struct {
	FetchRecordsFunc func(ctx context.Context, dataSource string) ([]gauge.Record, error)
	InvalidateFunc   func(ctx context.Context, dataSource string) error
}

// FetchRecords implements the RecordSource interface
func (m *MockRecordSource) FetchRecords(ctx context.Context, dataSource string) ([]gauge.Record, error) {
	if m.FetchRecordsFunc != nil {
		return m.FetchRecordsFunc(ctx, dataSource)
	}
	return nil, errors.New("FetchRecordsFunc not implemented")
}

// Invalidate implements the Invalidator interface
func (m *MockRecordSource) Invalidate(ctx context.Context, dataSource string) error {
	if m.InvalidateFunc != nil {
		return m.InvalidateFunc(ctx, dataSource)
	}
	return nil
}
