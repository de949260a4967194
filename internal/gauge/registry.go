package gauge

import (
	"sync"

	"go.uber.org/zap"
)

// Built-in gauge type keys.
const (
	TypeKPICard        = "kpi_card"
	TypePieChart       = "pie_chart"
	TypeLineChart      = "line_chart"
	TypeBarChart       = "bar_chart"
	TypeMultiLineChart = "multi_line_chart"
	TypeDataTable      = "data_table"
)

// Visualization names the widget that renders a type's result.
type Visualization string

const (
	VisualKPICard   Visualization = "kpi_card"
	VisualPie       Visualization = "pie"
	VisualLine      Visualization = "line"
	VisualBar       Visualization = "bar"
	VisualMultiLine Visualization = "multi_line"
	VisualTable     Visualization = "table"
)

// AggregateFunc shapes filtered records for one gauge type. params already
// contains the type defaults merged under the gauge's own parameters.
type AggregateFunc func(records []Record, params Params) Result

type TypeInfo struct {
	Key               string        `json:"typeKey"`
	DisplayName       string        `json:"displayName"`
	Visualization     Visualization `json:"visualization"`
	SupportsDrillDown bool          `json:"supportsDrillDown"`
	DefaultParams     Params        `json:"defaultParams"`
	Aggregate         AggregateFunc `json:"-"`
}

// Registry maps gauge type keys to their aggregation and presentation settings.
// It is safe for concurrent use.
type Registry struct {
	mu     sync.RWMutex
	types  map[string]TypeInfo
	order  []string
	logger *zap.Logger
}

// NewRegistry returns a registry preloaded with the built-in gauge types.
func NewRegistry(logger *zap.Logger) *Registry {
	if logger == nil {
		logger = zap.NewNop()
	}
	r := &Registry{
		types:  make(map[string]TypeInfo),
		logger: logger.Named("gauge-registry"),
	}
	for _, info := range builtinTypes() {
		r.put(info)
	}
	return r
}

// Lookup returns the registration for key; ok is false for unknown keys.
func (r *Registry) Lookup(key string) (TypeInfo, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	info, ok := r.types[key]
	return info, ok
}

// SupportsDrillDown is false for unknown keys.
func (r *Registry) SupportsDrillDown(key string) bool {
	info, ok := r.Lookup(key)
	return ok && info.SupportsDrillDown
}

// All returns every registration in first-registration order.
func (r *Registry) All() []TypeInfo {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]TypeInfo, 0, len(r.order))
	for _, k := range r.order {
		out = append(out, r.types[k])
	}
	return out
}

// Register adds or replaces a gauge type. Replacing an existing key is allowed
// (last write wins); it is logged and reported through the return value.
func (r *Registry) Register(info TypeInfo) (overwritten bool) {
	if info.DisplayName == "" {
		info.DisplayName = info.Key
	}
	if info.DefaultParams == nil {
		info.DefaultParams = Params{}
	}
	if info.Aggregate == nil {
		info.Aggregate = passthrough
	}

	r.mu.Lock()
	overwritten = r.put(info)
	r.mu.Unlock()

	if overwritten {
		r.logger.Warn("gauge type already registered, overwriting", zap.String("type_key", info.Key))
	} else {
		r.logger.Debug("gauge type registered", zap.String("type_key", info.Key))
	}
	return overwritten
}

func (r *Registry) put(info TypeInfo) bool {
	_, exists := r.types[info.Key]
	if !exists {
		r.order = append(r.order, info.Key)
	}
	r.types[info.Key] = info
	return exists
}

func builtinTypes() []TypeInfo {
	return []TypeInfo{
		{
			Key:               TypeKPICard,
			DisplayName:       "KPI Card",
			Visualization:     VisualKPICard,
			SupportsDrillDown: true,
			DefaultParams:     Params{"showChange": true},
			Aggregate:         aggregateKPI,
		},
		{
			Key:               TypePieChart,
			DisplayName:       "Pie Chart",
			Visualization:     VisualPie,
			SupportsDrillDown: true,
			DefaultParams:     Params{},
			Aggregate:         aggregatePie,
		},
		{
			Key:               TypeLineChart,
			DisplayName:       "Line Chart",
			Visualization:     VisualLine,
			SupportsDrillDown: true,
			DefaultParams: Params{
				"showTarget":     true,
				"targetValue":    90,
				"dateField":      FieldResponseDate,
				"numeratorField": FieldRating,
				"numeratorValue": string(RatingGoldStar),
				"limit":          defaultTrendLimit,
			},
			Aggregate: aggregateTrend,
		},
		{
			Key:               TypeBarChart,
			DisplayName:       "Bar Chart",
			Visualization:     VisualBar,
			SupportsDrillDown: true,
			DefaultParams: Params{
				"groupBy":        FieldTechnician,
				"numeratorField": FieldRating,
				"numeratorValue": string(RatingGoldStar),
				"minCount":       defaultMinCount,
				"orderBy":        OrderBySatisfaction,
				"orderDirection": OrderDesc,
			},
			Aggregate: aggregateRank,
		},
		{
			Key:               TypeMultiLineChart,
			DisplayName:       "Multi-Line Chart",
			Visualization:     VisualMultiLine,
			SupportsDrillDown: false,
			DefaultParams:     Params{},
			Aggregate:         aggregateMultiLine,
		},
		{
			Key:               TypeDataTable,
			DisplayName:       "Data Table",
			Visualization:     VisualTable,
			SupportsDrillDown: false,
			DefaultParams:     Params{"limit": defaultTableLimit},
			Aggregate:         aggregateTable,
		},
	}
}

func passthrough(records []Record, _ Params) Result {
	return Passthrough{Rows: append([]Record(nil), records...)}
}

func numerator(p Params) (string, string) {
	return p.String(FieldRating, "numeratorField", "numerator_field"),
		p.String(string(RatingGoldStar), "numeratorValue", "numerator_value")
}

// aggregateKPI picks the KPI computation from "aggregation", falling back to
// "metric". Neither set means a plain count; an unrecognised value passes the
// records through rather than guessing.
func aggregateKPI(records []Record, p Params) Result {
	mode := p.String("", "aggregation")
	if mode == "" {
		mode = p.String("", "metric")
	}
	switch mode {
	case "percentage", "satisfaction_rate":
		field, value := numerator(p)
		return KPI{Value: Percentage(records, field, value), Format: FormatPercent}
	case "count", "total_count", "filtered_count":
		return KPI{Value: Count(records, p.String("", "filterField"), p.String("", "filterValue")), Format: FormatNumber}
	case "distinct", "unique_count":
		return KPI{Value: DistinctCount(records, p.String("", "field")), Format: FormatNumber}
	case "":
		return KPI{Value: len(records), Format: FormatNumber}
	default:
		return passthrough(records, p)
	}
}

func aggregatePie(records []Record, p Params) Result {
	return PieSlices{Slices: GroupTally(records, p.String(FieldRating, "groupBy"), p.StringMap("colors"))}
}

func aggregateTrend(records []Record, p Params) Result {
	field, value := numerator(p)
	return TrendSeries{Points: Trend(records, TrendParams{
		DateField:      p.String(FieldResponseDate, "dateField"),
		NumeratorField: field,
		NumeratorValue: value,
		Limit:          p.Int(defaultTrendLimit, "limit"),
	})}
}

func aggregateRank(records []Record, p Params) Result {
	field, value := numerator(p)
	return RankSeries{Entries: GroupedRank(records, RankParams{
		GroupBy:        p.String(FieldTechnician, "groupBy"),
		NumeratorField: field,
		NumeratorValue: value,
		MinCount:       p.Int(defaultMinCount, "minCount"),
		OrderBy:        p.String(OrderBySatisfaction, "orderBy"),
		OrderDirection: p.String(OrderDesc, "orderDirection"),
	})}
}

func aggregateMultiLine(records []Record, p Params) Result {
	var metrics []LineMetric
	for _, m := range p.Maps("metrics") {
		metrics = append(metrics, LineMetric{
			Name:  m.String("", "name"),
			Field: m.String("", "field"),
			Value: m.String("", "value"),
			Color: m.String("", "color"),
		})
	}
	return MultiLine(records, MultiLineParams{
		DateField:        p.String(FieldResponseDate, "dateField"),
		Metrics:          metrics,
		Limit:            p.Int(defaultTrendLimit, "limit"),
		IncludeTotalLine: p.Bool(false, "includeTotalLine"),
	})
}

func aggregateTable(records []Record, p Params) Result {
	return Table{Rows: TableRows(records, TableParams{
		OrderBy:        p.String("", "orderBy"),
		OrderDirection: p.String(OrderDesc, "orderDirection"),
		Limit:          p.Int(defaultTableLimit, "pageSize", "limit"),
	})}
}
