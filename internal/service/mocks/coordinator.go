package mocks

import (
	"context"
	"errors"

	"github.com/godilite/csat-server/internal/dashboard"
	"github.com/godilite/csat-server/internal/gauge"
)

// MockCoordinator is a mock implementation of the Coordinator interface
// for testing the service layer. Unset transitions operate on State.
type MockCoordinator struct {
	State dashboard.State

	SelectDashboardFunc func(ctx context.Context, slug string) error
	RefreshFunc         func(ctx context.Context) error
	SetFiltersFunc      func(u dashboard.FilterUpdate) (gauge.FilterState, error)
}

// Snapshot implements the Coordinator interface
func (m *MockCoordinator) Snapshot() dashboard.State {
	return m.State
}

// View implements the Coordinator interface
func (m *MockCoordinator) View() (dashboard.State, []gauge.Record) {
	return m.State, gauge.Filter(m.State.Records, m.State.Filters)
}

// SelectDashboard implements the Coordinator interface
func (m *MockCoordinator) SelectDashboard(ctx context.Context, slug string) error {
	if m.SelectDashboardFunc != nil {
		return m.SelectDashboardFunc(ctx, slug)
	}
	for _, d := range m.State.Dashboards {
		if d.Slug == slug || d.ID == slug {
			d := d
			m.State.Current = &d
			return nil
		}
	}
	return dashboard.ErrUnknownDashboard
}

// Refresh implements the Coordinator interface
func (m *MockCoordinator) Refresh(ctx context.Context) error {
	if m.RefreshFunc != nil {
		return m.RefreshFunc(ctx)
	}
	if m.State.Current == nil {
		return dashboard.ErrNoDashboard
	}
	return errors.New("RefreshFunc not implemented")
}

// SetFilters implements the Coordinator interface. Without SetFiltersFunc the
// update is applied to State through a real Store.
func (m *MockCoordinator) SetFilters(u dashboard.FilterUpdate) (gauge.FilterState, error) {
	if m.SetFiltersFunc != nil {
		return m.SetFiltersFunc(u)
	}
	store := dashboard.NewStore()
	if _, err := store.SetFilters(dashboard.FilterUpdate{
		StartDate:    &m.State.Filters.StartDate,
		EndDate:      &m.State.Filters.EndDate,
		FieldFilters: m.State.Filters.FieldFilters,
	}); err != nil {
		return m.State.Filters, err
	}
	f, err := store.SetFilters(u)
	if err != nil {
		return m.State.Filters, err
	}
	m.State.Filters = f
	return f, nil
}

// ResetFilters implements the Coordinator interface
func (m *MockCoordinator) ResetFilters() {
	m.State.Filters = gauge.FilterState{}
}

// ToggleExpanded implements the Coordinator interface
func (m *MockCoordinator) ToggleExpanded(id string) string {
	if m.State.ExpandedGaugeID == id {
		m.State.ExpandedGaugeID = ""
	} else {
		m.State.ExpandedGaugeID = id
	}
	return m.State.ExpandedGaugeID
}
