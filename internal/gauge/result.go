package gauge

// ResultKind discriminates the shapes a gauge transform can produce.
type ResultKind string

const (
	KindKPI         ResultKind = "kpi"
	KindPie         ResultKind = "pie"
	KindTrend       ResultKind = "trend"
	KindRank        ResultKind = "rank"
	KindMultiSeries ResultKind = "multi_series"
	KindTable       ResultKind = "table"
	KindPassthrough ResultKind = "passthrough"
)

// Result is the shaped data for one gauge. The set of implementations is closed.
type Result interface {
	Kind() ResultKind
	isResult()
}

type ValueFormat string

const (
	FormatPercent ValueFormat = "percent"
	FormatNumber  ValueFormat = "number"
)

// KPI is a single scalar with its display format.
type KPI struct {
	Value  int         `json:"value"`
	Format ValueFormat `json:"format"`
}

// Slice is one named share of a distribution.
type Slice struct {
	Name  string `json:"name"`
	Value int    `json:"value"`
	Color string `json:"color"`
}

type PieSlices struct {
	Slices []Slice `json:"slices"`
}

// TrendPoint is one period of a satisfaction trend.
type TrendPoint struct {
	Key   string `json:"key"`
	Label string `json:"label"`
	Ratio int    `json:"satisfaction"`
	Count int    `json:"responses"`
}

type TrendSeries struct {
	Points []TrendPoint `json:"points"`
}

// RankEntry is one group of a grouped ranking.
type RankEntry struct {
	Name  string `json:"name"`
	Ratio int    `json:"satisfaction"`
	Count int    `json:"responses"`
}

type RankSeries struct {
	Entries []RankEntry `json:"entries"`
}

// SeriesLine describes one line of a multi-line chart.
type SeriesLine struct {
	DataKey string `json:"dataKey"`
	Name    string `json:"name"`
	Color   string `json:"color"`
	Dashed  bool   `json:"dashed,omitempty"`
}

// SeriesRow holds one period's values keyed by line name.
type SeriesRow struct {
	Label  string         `json:"label"`
	Values map[string]int `json:"values"`
}

type MultiSeries struct {
	Rows  []SeriesRow  `json:"rows"`
	Lines []SeriesLine `json:"lines"`
}

// Table is an ordered, capped row set.
type Table struct {
	Rows []Record `json:"rows"`
}

// Passthrough carries the filtered records unchanged for generic presentation.
type Passthrough struct {
	Rows []Record `json:"rows"`
}

func (KPI) Kind() ResultKind         { return KindKPI }
func (PieSlices) Kind() ResultKind   { return KindPie }
func (TrendSeries) Kind() ResultKind { return KindTrend }
func (RankSeries) Kind() ResultKind  { return KindRank }
func (MultiSeries) Kind() ResultKind { return KindMultiSeries }
func (Table) Kind() ResultKind       { return KindTable }
func (Passthrough) Kind() ResultKind { return KindPassthrough }

func (KPI) isResult()         {}
func (PieSlices) isResult()   {}
func (TrendSeries) isResult() {}
func (RankSeries) isResult()  {}
func (MultiSeries) isResult() {}
func (Table) isResult()       {}
func (Passthrough) isResult() {}
