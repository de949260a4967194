package gauge

import "go.uber.org/zap"

// DrillDownParams configures a gauge's row-level detail view.
type DrillDownParams struct {
	Title       string   `json:"title,omitempty" yaml:"title"`
	FilterField string   `json:"filterField,omitempty" yaml:"filterField"`
	FilterValue string   `json:"filterValue,omitempty" yaml:"filterValue"`
	MaxRows     int      `json:"maxRows,omitempty" yaml:"maxRows"`
	Columns     []string `json:"columns,omitempty" yaml:"columns"`
}

// Position is the gauge's layout slot; the pipeline does not interpret it.
type Position struct {
	X      int `json:"x" yaml:"x"`
	Y      int `json:"y" yaml:"y"`
	Width  int `json:"w" yaml:"w"`
	Height int `json:"h" yaml:"h"`
}

// Definition is one configured gauge on a dashboard.
type Definition struct {
	ID           string           `json:"id" yaml:"id"`
	DashboardID  string           `json:"dashboardId" yaml:"dashboardId"`
	Title        string           `json:"title" yaml:"title"`
	TypeKey      string           `json:"typeKey" yaml:"typeKey"`
	DataParams   Params           `json:"dataParams" yaml:"dataParams"`
	DrillDown    *DrillDownParams `json:"drillDown,omitempty" yaml:"drillDown"`
	Position     Position         `json:"position" yaml:"position"`
	Section      string           `json:"section" yaml:"section"`
	DisplayOrder int              `json:"displayOrder" yaml:"displayOrder"`
}

// Router dispatches a gauge to its registered aggregation.
type Router struct {
	registry *Registry
	logger   *zap.Logger
}

func NewRouter(registry *Registry, logger *zap.Logger) *Router {
	if registry == nil {
		panic("registry must not be nil")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Router{registry: registry, logger: logger.Named("gauge-router")}
}

// Known reports whether typeKey resolves in the registry.
func (r *Router) Known(typeKey string) bool {
	_, ok := r.registry.Lookup(typeKey)
	return ok
}

// Transform shapes records for def. It returns nil when there is nothing to show
// (no records or no data parameters) and a Passthrough copy of the records when
// the type key is unknown.
func (r *Router) Transform(def Definition, records []Record) Result {
	if len(records) == 0 || def.DataParams == nil {
		return nil
	}

	info, ok := r.registry.Lookup(def.TypeKey)
	if !ok {
		r.logger.Debug("unknown gauge type, passing records through",
			zap.String("gauge_id", def.ID),
			zap.String("type_key", def.TypeKey))
		return passthrough(records, nil)
	}

	return info.Aggregate(records, Merge(info.DefaultParams, def.DataParams))
}
