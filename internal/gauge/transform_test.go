package gauge

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func sampleRecords() []Record {
	var records []Record
	records = append(records, repeat(5, "2024-01-10", RatingGoldStar, "Ann")...)
	records = append(records, repeat(3, "2024-02-10", RatingRedLight, "Bob")...)
	records = append(records, repeat(2, "2024-02-11", RatingGoldStar, "Bob")...)
	return records
}

func TestRegistry(t *testing.T) {
	t.Run("builtins", func(t *testing.T) {
		r := NewRegistry(nil)

		keys := make([]string, 0)
		for _, info := range r.All() {
			keys = append(keys, info.Key)
		}
		assert.Equal(t, []string{TypeKPICard, TypePieChart, TypeLineChart, TypeBarChart, TypeMultiLineChart, TypeDataTable}, keys)

		info, ok := r.Lookup(TypeBarChart)
		require.True(t, ok)
		assert.Equal(t, "Bar Chart", info.DisplayName)
		assert.Equal(t, VisualBar, info.Visualization)

		bar, _ := r.Lookup(TypeBarChart)
		assert.Equal(t, defaultMinCount, bar.DefaultParams["minCount"])
		assert.NotContains(t, bar.DefaultParams, "minResponses")
		table, _ := r.Lookup(TypeDataTable)
		assert.Equal(t, Params{"limit": defaultTableLimit}, table.DefaultParams)

		assert.True(t, r.SupportsDrillDown(TypePieChart))
		assert.False(t, r.SupportsDrillDown(TypeDataTable))
		assert.False(t, r.SupportsDrillDown("nope"))
	})

	t.Run("lookup of unknown key", func(t *testing.T) {
		_, ok := NewRegistry(nil).Lookup("gauge_of_doom")
		assert.False(t, ok)
	})

	t.Run("register new and overwrite", func(t *testing.T) {
		core, logs := observer.New(zap.DebugLevel)
		r := NewRegistry(zap.New(core))

		overwritten := r.Register(TypeInfo{Key: "heatmap"})
		assert.False(t, overwritten)
		info, ok := r.Lookup("heatmap")
		require.True(t, ok)
		assert.Equal(t, "heatmap", info.DisplayName)
		assert.NotNil(t, info.Aggregate)

		overwritten = r.Register(TypeInfo{Key: "heatmap", DisplayName: "Heat Map", SupportsDrillDown: true})
		assert.True(t, overwritten)
		info, _ = r.Lookup("heatmap")
		assert.Equal(t, "Heat Map", info.DisplayName)
		assert.True(t, r.SupportsDrillDown("heatmap"))

		assert.Len(t, r.All(), 7)
		assert.Equal(t, 1, logs.FilterMessage("gauge type already registered, overwriting").Len())
	})
}

func TestRouter_Transform(t *testing.T) {
	router := NewRouter(NewRegistry(nil), zap.NewNop())
	records := sampleRecords()

	t.Run("nil router registry panics", func(t *testing.T) {
		assert.Panics(t, func() { NewRouter(nil, nil) })
	})

	t.Run("no records", func(t *testing.T) {
		assert.Nil(t, router.Transform(Definition{TypeKey: TypeKPICard, DataParams: Params{}}, nil))
	})

	t.Run("no data params", func(t *testing.T) {
		assert.Nil(t, router.Transform(Definition{TypeKey: TypeKPICard}, records))
	})

	t.Run("unknown type passes records through", func(t *testing.T) {
		res := router.Transform(Definition{TypeKey: "sparkline", DataParams: Params{}}, records)
		pt, ok := res.(Passthrough)
		require.True(t, ok)
		assert.Equal(t, records, pt.Rows)
		assert.False(t, router.Known("sparkline"))
	})

	t.Run("kpi percentage", func(t *testing.T) {
		res := router.Transform(Definition{TypeKey: TypeKPICard, DataParams: Params{
			"aggregation":    "percentage",
			"numeratorField": FieldRating,
			"numeratorValue": string(RatingGoldStar),
		}}, records)
		assert.Equal(t, KPI{Value: 70, Format: FormatPercent}, res)
	})

	t.Run("kpi metric aliases", func(t *testing.T) {
		res := router.Transform(Definition{TypeKey: TypeKPICard, DataParams: Params{"metric": "unique_count", "field": FieldTechnician}}, records)
		assert.Equal(t, KPI{Value: 2, Format: FormatNumber}, res)

		res = router.Transform(Definition{TypeKey: TypeKPICard, DataParams: Params{
			"metric": "filtered_count", "filterField": FieldTechnician, "filterValue": "Bob",
		}}, records)
		assert.Equal(t, KPI{Value: 5, Format: FormatNumber}, res)
	})

	t.Run("kpi without aggregation counts", func(t *testing.T) {
		res := router.Transform(Definition{TypeKey: TypeKPICard, DataParams: Params{}}, records)
		assert.Equal(t, KPI{Value: 10, Format: FormatNumber}, res)
	})

	t.Run("kpi with unrecognised aggregation passes through", func(t *testing.T) {
		res := router.Transform(Definition{TypeKey: TypeKPICard, DataParams: Params{"aggregation": "median"}}, records)
		assert.Equal(t, KindPassthrough, res.Kind())
	})

	t.Run("pie", func(t *testing.T) {
		res := router.Transform(Definition{TypeKey: TypePieChart, DataParams: Params{"groupBy": FieldRating}}, records)
		pie, ok := res.(PieSlices)
		require.True(t, ok)
		require.Len(t, pie.Slices, 2)
		assert.Equal(t, 7, pie.Slices[0].Value)
		assert.Equal(t, 3, pie.Slices[1].Value)
	})

	t.Run("line uses registry defaults", func(t *testing.T) {
		res := router.Transform(Definition{TypeKey: TypeLineChart, DataParams: Params{}}, records)
		trend, ok := res.(TrendSeries)
		require.True(t, ok)
		assert.Equal(t, []TrendPoint{
			{Key: "2024-01", Label: "Jan 24", Ratio: 100, Count: 5},
			{Key: "2024-02", Label: "Feb 24", Ratio: 40, Count: 5},
		}, trend.Points)
	})

	t.Run("bar gauge params win over defaults", func(t *testing.T) {
		def := Definition{TypeKey: TypeBarChart, DataParams: Params{}}
		rank := router.Transform(def, records).(RankSeries)
		assert.Equal(t, []RankEntry{{Name: "Ann", Ratio: 100, Count: 5}, {Name: "Bob", Ratio: 40, Count: 5}}, rank.Entries)

		def.DataParams = Params{"minCount": float64(6)}
		rank = router.Transform(def, records).(RankSeries)
		assert.Empty(t, rank.Entries)

		def.DataParams = Params{"orderDirection": "asc"}
		rank = router.Transform(def, records).(RankSeries)
		assert.Equal(t, "Bob", rank.Entries[0].Name)
	})

	t.Run("multi line from JSON-shaped params", func(t *testing.T) {
		res := router.Transform(Definition{TypeKey: TypeMultiLineChart, DataParams: Params{
			"metrics": []any{
				map[string]any{"name": "Red", "field": FieldRating, "value": string(RatingRedLight), "color": "red"},
			},
			"includeTotalLine": true,
		}}, records)
		series, ok := res.(MultiSeries)
		require.True(t, ok)
		require.Len(t, series.Rows, 2)
		assert.Equal(t, 3, series.Rows[1].Values["Red"])
		assert.Equal(t, 5, series.Rows[1].Values["Total"])
		assert.Len(t, series.Lines, 2)
	})

	t.Run("table default limit", func(t *testing.T) {
		var many []Record
		for i := 0; i < 15; i++ {
			many = append(many, Record{"n": float64(i)})
		}
		res := router.Transform(Definition{TypeKey: TypeDataTable, DataParams: Params{"orderBy": "n"}}, many)
		table, ok := res.(Table)
		require.True(t, ok)
		require.Len(t, table.Rows, 10)
		assert.Equal(t, float64(14), table.Rows[0]["n"])
	})

	t.Run("table page size alias", func(t *testing.T) {
		var many []Record
		for i := 0; i < 15; i++ {
			many = append(many, Record{"n": float64(i)})
		}
		res := router.Transform(Definition{TypeKey: TypeDataTable, DataParams: Params{"pageSize": 4}}, many)
		assert.Len(t, res.(Table).Rows, 4)

		res = router.Transform(Definition{TypeKey: TypeDataTable, DataParams: Params{"limit": float64(3)}}, many)
		assert.Len(t, res.(Table).Rows, 3)
	})

	t.Run("runtime registered type is dispatched", func(t *testing.T) {
		reg := NewRegistry(nil)
		reg.Register(TypeInfo{
			Key:           "company_count",
			DefaultParams: Params{"field": FieldCompany},
			Aggregate: func(records []Record, p Params) Result {
				return KPI{Value: DistinctCount(records, p.String("", "field")), Format: FormatNumber}
			},
		})
		res := NewRouter(reg, nil).Transform(Definition{TypeKey: "company_count", DataParams: Params{}}, records)
		assert.Equal(t, KPI{Value: 2, Format: FormatNumber}, res)
	})
}

func TestMerge(t *testing.T) {
	defaults := Params{"a": 1, "b": 2}
	out := Merge(defaults, Params{"b": 3, "c": 4})
	assert.Equal(t, Params{"a": 1, "b": 3, "c": 4}, out)
	assert.Equal(t, Params{"a": 1, "b": 2}, defaults)
}

func TestParams(t *testing.T) {
	p := Params{
		"limit":  float64(6),
		"zero":   0,
		"str":    "7",
		"flag":   "true",
		"colors": map[string]any{"Gold Star": "#fff", "bad": 3},

		"numerator_field": "rating",
	}

	assert.Equal(t, 6, p.Int(12, "limit"))
	assert.Equal(t, 0, p.Int(5, "zero"))
	assert.Equal(t, 7, p.Int(0, "str"))
	assert.Equal(t, 12, p.Int(12, "missing"))
	assert.True(t, p.Bool(false, "flag"))
	assert.Equal(t, map[string]string{"Gold Star": "#fff"}, p.StringMap("colors"))
	assert.Equal(t, "rating", p.String("", "numeratorField", "numerator_field"))
	assert.True(t, p.Has("missing", "limit"))
	assert.False(t, p.Has("missing"))
}
