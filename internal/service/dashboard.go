package service

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"go.uber.org/zap"

	"github.com/godilite/csat-server/internal/dashboard"
	"github.com/godilite/csat-server/internal/gauge"
	"github.com/godilite/csat-server/internal/metrics"
)

var (
	ErrNoDashboard      = dashboard.ErrNoDashboard
	ErrUnknownDashboard = dashboard.ErrUnknownDashboard
	ErrUnknownGauge     = errors.New("unknown gauge")
	ErrInvalidFilter    = errors.New("invalid filter")
)

// DashboardService serves shaped gauge data for the active dashboard.
type DashboardService struct {
	coord    Coordinator
	registry *gauge.Registry
	router   *gauge.Router
	logger   *zap.Logger
}

// NewDashboardService creates a new DashboardService instance.
func NewDashboardService(coord Coordinator, registry *gauge.Registry, logger *zap.Logger) *DashboardService {
	if coord == nil {
		panic("coordinator must not be nil")
	}
	if logger == nil {
		l, _ := zap.NewProduction()
		logger = l
	}
	if registry == nil {
		registry = gauge.NewRegistry(logger)
	}
	return &DashboardService{
		coord:    coord,
		registry: registry,
		router:   gauge.NewRouter(registry, logger),
		logger:   logger.Named("dashboard-service"),
	}
}

func (s *DashboardService) ListDashboards(_ context.Context) []DashboardSummary {
	st := s.coord.Snapshot()
	out := make([]DashboardSummary, 0, len(st.Dashboards))
	for _, d := range st.Dashboards {
		out = append(out, DashboardSummary{
			ID:          d.ID,
			Slug:        d.Slug,
			Name:        d.Name,
			Description: d.Description,
			Current:     st.Current != nil && st.Current.ID == d.ID,
		})
	}
	return out
}

// SelectDashboard switches the active dashboard. A record fetch failure still
// switches; the error is reported alongside the summary.
func (s *DashboardService) SelectDashboard(ctx context.Context, slug string) (DashboardSummary, error) {
	err := s.coord.SelectDashboard(ctx, slug)
	if errors.Is(err, dashboard.ErrUnknownDashboard) {
		return DashboardSummary{}, err
	}

	st := s.coord.Snapshot()
	if st.Current == nil {
		return DashboardSummary{}, ErrNoDashboard
	}
	summary := summarize(st)
	if err != nil {
		s.logger.Warn("dashboard selected with fetch error", zap.String("dashboard", slug), zap.Error(err))
		return summary, err
	}
	return summary, nil
}

// SetFilters merges u into the current filters and returns the result.
func (s *DashboardService) SetFilters(_ context.Context, u dashboard.FilterUpdate) (gauge.FilterState, error) {
	filters, err := s.coord.SetFilters(u)
	if errors.Is(err, dashboard.ErrInvalidRange) {
		return gauge.FilterState{}, fmt.Errorf("%w: %v", ErrInvalidFilter, err)
	}
	if err != nil {
		return gauge.FilterState{}, err
	}
	return filters, nil
}

func (s *DashboardService) ResetFilters(_ context.Context) gauge.FilterState {
	s.coord.ResetFilters()
	return s.coord.Snapshot().Filters
}

// GaugeData shapes every gauge of the active dashboard from the filtered
// records, grouped into sections. A gauge that fails is reported on its own
// entry and never fails the request.
func (s *DashboardService) GaugeData(_ context.Context) (DashboardData, error) {
	st, filtered := s.coord.View()
	if st.Current == nil {
		return DashboardData{}, ErrNoDashboard
	}

	sections := gauge.GroupSections(st.Gauges)
	out := DashboardData{
		Dashboard:     summarize(st),
		Filters:       st.Filters,
		Sections:      make([]SectionData, 0, len(sections)),
		RecordCount:   len(st.Records),
		FilteredCount: len(filtered),
		Status:        statusOf(st),
	}
	for _, sec := range sections {
		sd := SectionData{Name: sec.Name, Gauges: make([]GaugeData, 0, len(sec.Gauges))}
		for _, def := range sec.Gauges {
			sd.Gauges = append(sd.Gauges, s.shape(def, filtered, st.ExpandedGaugeID))
		}
		out.Sections = append(out.Sections, sd)
	}
	return out, nil
}

func (s *DashboardService) shape(def gauge.Definition, records []gauge.Record, expanded string) (gd GaugeData) {
	gd = GaugeData{
		ID:       def.ID,
		Title:    def.Title,
		TypeKey:  def.TypeKey,
		Known:    s.router.Known(def.TypeKey),
		Expanded: def.ID == expanded,
		Position: def.Position,
	}
	if info, ok := s.registry.Lookup(def.TypeKey); ok {
		gd.Visualization = string(info.Visualization)
		gd.DrillDown = info.SupportsDrillDown && def.DrillDown != nil
	}
	if !gd.Known {
		metrics.ObserveGauge(def.TypeKey, metrics.GaugeUnknown)
		gd.Error = fmt.Sprintf("unknown gauge type %q", def.TypeKey)
	}

	defer func() {
		if r := recover(); r != nil {
			metrics.ObserveGauge(def.TypeKey, metrics.GaugePanic)
			s.logger.Error("gauge transform panicked",
				zap.String("gauge", def.ID),
				zap.String("type", def.TypeKey),
				zap.Any("panic", r))
			gd.Result = nil
			gd.Kind = ""
			gd.Error = fmt.Sprintf("gauge %s failed: %v", def.ID, r)
		}
	}()

	gd.Result = s.router.Transform(def, records)
	switch {
	case gd.Result == nil:
		metrics.ObserveGauge(def.TypeKey, metrics.GaugeEmpty)
	case gd.Known:
		gd.Kind = string(gd.Result.Kind())
		metrics.ObserveGauge(def.TypeKey, metrics.GaugeOK)
	default:
		gd.Kind = string(gd.Result.Kind())
	}
	return gd
}

// DrillDown returns the detail rows of a gauge, optionally narrowed by a click.
func (s *DashboardService) DrillDown(_ context.Context, gaugeID string, click *gauge.ClickContext) (DrillDownData, error) {
	st, filtered := s.coord.View()
	if st.Current == nil {
		return DrillDownData{}, ErrNoDashboard
	}
	def, ok := st.Gauge(gaugeID)
	if !ok {
		return DrillDownData{}, fmt.Errorf("%w: %s", ErrUnknownGauge, gaugeID)
	}

	out := DrillDownData{
		GaugeID: def.ID,
		Title:   def.Title,
		Rows:    gauge.ResolveDrillDown(def, filtered, click),
	}
	if def.DrillDown != nil {
		if def.DrillDown.Title != "" {
			out.Title = def.DrillDown.Title
		}
		out.Columns = def.DrillDown.Columns
	}
	return out, nil
}

// ToggleGauge expands or collapses a gauge's drill-down and returns the gauge
// now expanded, if any.
func (s *DashboardService) ToggleGauge(_ context.Context, gaugeID string) (string, error) {
	st := s.coord.Snapshot()
	if _, ok := st.Gauge(gaugeID); !ok {
		return "", fmt.Errorf("%w: %s", ErrUnknownGauge, gaugeID)
	}
	return s.coord.ToggleExpanded(gaugeID), nil
}

// Refresh reloads the active dashboard's records.
func (s *DashboardService) Refresh(ctx context.Context) (Status, error) {
	if err := s.coord.Refresh(ctx); err != nil {
		return statusOf(s.coord.Snapshot()), err
	}
	return statusOf(s.coord.Snapshot()), nil
}

func (s *DashboardService) Status(_ context.Context) Status {
	return statusOf(s.coord.Snapshot())
}

func (s *DashboardService) GaugeTypes(_ context.Context) []GaugeTypeInfo {
	all := s.registry.All()
	out := make([]GaugeTypeInfo, 0, len(all))
	for _, info := range all {
		out = append(out, GaugeTypeInfo{
			Key:               info.Key,
			DisplayName:       info.DisplayName,
			Visualization:     string(info.Visualization),
			SupportsDrillDown: info.SupportsDrillDown,
			DefaultParams:     info.DefaultParams,
		})
	}
	return out
}

// FilterOptions lists the values the field filters can take, drawn from the
// unfiltered records.
func (s *DashboardService) FilterOptions(_ context.Context) FilterOptions {
	st := s.coord.Snapshot()
	ratings := make([]string, len(gauge.Ratings))
	for i, r := range gauge.Ratings {
		ratings[i] = string(r)
	}
	return FilterOptions{
		Technicians: distinct(st.Records, gauge.FieldTechnician),
		Companies:   distinct(st.Records, gauge.FieldCompany),
		Ratings:     ratings,
	}
}

func distinct(records []gauge.Record, field string) []string {
	seen := make(map[string]struct{})
	out := make([]string, 0)
	for _, r := range records {
		v := r.String(field)
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}

func summarize(st dashboard.State) DashboardSummary {
	if st.Current == nil {
		return DashboardSummary{}
	}
	d := st.Current
	return DashboardSummary{ID: d.ID, Slug: d.Slug, Name: d.Name, Description: d.Description, Current: true}
}

func statusOf(st dashboard.State) Status {
	out := Status{LastUpdated: st.LastUpdated, Loading: st.Loading}
	if st.Current != nil {
		out.Dashboard = st.Current.Slug
	}
	if st.Err != nil {
		out.Error = st.Err.Error()
	}
	return out
}
