package gauge

import (
	"hash/fnv"
	"sort"
)

const (
	defaultMinCount   = 5
	defaultTrendLimit = 12
	defaultTableLimit = 10

	OrderBySatisfaction = "satisfaction"
	OrderByResponses    = "responses"
	OrderAsc            = "asc"
	OrderDesc           = "desc"
)

var ratingColors = map[string]string{
	string(RatingGoldStar):    "#22c55e",
	string(RatingYellowLight): "#eab308",
	string(RatingRedLight):    "#ef4444",
}

var fallbackPalette = []string{
	"#3498db", "#9b59b6", "#1abc9c", "#e67e22", "#34495e", "#16a085", "#d35400", "#8e44ad",
}

// ratio returns part/total as a whole percent rounded half-up, or 0 for an empty total.
func ratio(part, total int) int {
	if total <= 0 {
		return 0
	}
	return (200*part + total) / (2 * total)
}

// Percentage is the share of records whose field equals value.
func Percentage(records []Record, field, value string) int {
	n := 0
	for _, r := range records {
		if matches(r, field, value) {
			n++
		}
	}
	return ratio(n, len(records))
}

// Count counts all records, or only those whose field equals value when both
// field and value are set.
func Count(records []Record, field, value string) int {
	if field == "" || value == "" {
		return len(records)
	}
	n := 0
	for _, r := range records {
		if matches(r, field, value) {
			n++
		}
	}
	return n
}

// DistinctCount counts the distinct non-empty values of field.
func DistinctCount(records []Record, field string) int {
	seen := make(map[string]struct{})
	for _, r := range records {
		if v := r.String(field); v != "" {
			seen[v] = struct{}{}
		}
	}
	return len(seen)
}

// ColorFor resolves a slice color: explicit mapping, then the rating palette, then
// a palette entry chosen by hashing the value.
func ColorFor(value string, colors map[string]string) string {
	if c, ok := colors[value]; ok && c != "" {
		return c
	}
	if c, ok := ratingColors[value]; ok {
		return c
	}
	h := fnv.New32a()
	_, _ = h.Write([]byte(value))
	return fallbackPalette[h.Sum32()%uint32(len(fallbackPalette))]
}

// GroupTally counts records per distinct non-empty groupBy value, in first
// encounter order.
func GroupTally(records []Record, groupBy string, colors map[string]string) []Slice {
	index := make(map[string]int)
	out := make([]Slice, 0)
	for _, r := range records {
		key := r.String(groupBy)
		if key == "" {
			continue
		}
		i, ok := index[key]
		if !ok {
			i = len(out)
			index[key] = i
			out = append(out, Slice{Name: key, Color: ColorFor(key, colors)})
		}
		out[i].Value++
	}
	return out
}

type TrendParams struct {
	DateField      string
	NumeratorField string
	NumeratorValue string
	Limit          int
}

// Trend buckets records by month and reports each month's ratio and population,
// oldest first.
func Trend(records []Record, p TrendParams) []TrendPoint {
	buckets := BucketByTime(records, p.DateField, GranularityMonth, p.Limit)
	out := make([]TrendPoint, 0, len(buckets))
	for _, b := range buckets {
		out = append(out, TrendPoint{
			Key:   b.Key,
			Label: b.Label,
			Ratio: Percentage(b.Members, p.NumeratorField, p.NumeratorValue),
			Count: len(b.Members),
		})
	}
	return out
}

type RankParams struct {
	GroupBy        string
	NumeratorField string
	NumeratorValue string
	MinCount       int
	OrderBy        string
	OrderDirection string
}

// GroupedRank computes a ratio per groupBy value, drops groups smaller than
// MinCount, and sorts the rest. Ties keep first-encounter order.
func GroupedRank(records []Record, p RankParams) []RankEntry {
	type stats struct {
		name     string
		positive int
		total    int
	}
	index := make(map[string]int)
	var groups []stats
	for _, r := range records {
		key := r.String(p.GroupBy)
		if key == "" {
			continue
		}
		i, ok := index[key]
		if !ok {
			i = len(groups)
			index[key] = i
			groups = append(groups, stats{name: key})
		}
		groups[i].total++
		if matches(r, p.NumeratorField, p.NumeratorValue) {
			groups[i].positive++
		}
	}

	out := make([]RankEntry, 0, len(groups))
	for _, g := range groups {
		if g.total < p.MinCount {
			continue
		}
		out = append(out, RankEntry{Name: g.name, Ratio: ratio(g.positive, g.total), Count: g.total})
	}

	value := func(e RankEntry) int {
		if p.OrderBy == OrderByResponses {
			return e.Count
		}
		return e.Ratio
	}
	asc := p.OrderDirection == OrderAsc
	sort.SliceStable(out, func(i, j int) bool {
		if asc {
			return value(out[i]) < value(out[j])
		}
		return value(out[i]) > value(out[j])
	})
	return out
}

// LineMetric is one counted line of a multi-line chart.
type LineMetric struct {
	Name  string
	Field string
	Value string
	Color string
}

type MultiLineParams struct {
	DateField        string
	Metrics          []LineMetric
	Limit            int
	IncludeTotalLine bool
}

const totalLine = "Total"

// MultiLine counts each metric per month and optionally adds a dashed total line.
func MultiLine(records []Record, p MultiLineParams) MultiSeries {
	buckets := BucketByTime(records, p.DateField, GranularityMonth, p.Limit)
	rows := make([]SeriesRow, 0, len(buckets))
	for _, b := range buckets {
		row := SeriesRow{Label: b.Label, Values: make(map[string]int, len(p.Metrics)+1)}
		for _, m := range p.Metrics {
			row.Values[m.Name] = Count(b.Members, m.Field, m.Value)
		}
		if p.IncludeTotalLine {
			row.Values[totalLine] = len(b.Members)
		}
		rows = append(rows, row)
	}

	lines := make([]SeriesLine, 0, len(p.Metrics)+1)
	for _, m := range p.Metrics {
		color := m.Color
		if color == "" {
			color = "blue"
		}
		lines = append(lines, SeriesLine{DataKey: m.Name, Name: m.Name, Color: color})
	}
	if p.IncludeTotalLine {
		lines = append(lines, SeriesLine{DataKey: totalLine, Name: totalLine, Color: "blue", Dashed: true})
	}
	return MultiSeries{Rows: rows, Lines: lines}
}

type TableParams struct {
	OrderBy        string
	OrderDirection string
	Limit          int
}

// TableRows copies records, orders them by OrderBy when set and caps them at Limit.
func TableRows(records []Record, p TableParams) []Record {
	out := append([]Record(nil), records...)
	if p.OrderBy != "" {
		desc := p.OrderDirection != OrderAsc
		sort.SliceStable(out, func(i, j int) bool {
			c := compareField(out[i], out[j], p.OrderBy)
			if desc {
				return c > 0
			}
			return c < 0
		})
	}
	if p.Limit > 0 && len(out) > p.Limit {
		out = out[:p.Limit]
	}
	return out
}

// compareField orders numbers numerically, dates chronologically and anything
// else as strings.
func compareField(a, b Record, field string) int {
	av, bv := a[field], b[field]
	if af, ok := toFloat(av); ok {
		if bf, ok := toFloat(bv); ok {
			switch {
			case af < bf:
				return -1
			case af > bf:
				return 1
			}
			return 0
		}
	}
	if at, ok := a.Time(field); ok {
		if bt, ok := b.Time(field); ok {
			return at.Compare(bt)
		}
	}
	as, bs := a.String(field), b.String(field)
	switch {
	case as < bs:
		return -1
	case as > bs:
		return 1
	}
	return 0
}

func toFloat(v any) (float64, bool) {
	switch t := v.(type) {
	case float64:
		return t, true
	case float32:
		return float64(t), true
	case int:
		return float64(t), true
	case int64:
		return float64(t), true
	case int32:
		return float64(t), true
	}
	return 0, false
}
