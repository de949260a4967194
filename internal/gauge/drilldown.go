package gauge

import "sort"

// ClickContext is the value the operator clicked on the parent gauge.
type ClickContext struct {
	Field string `json:"field"`
	Value string `json:"value"`
}

// ResolveDrillDown derives the detail rows for def: the configured filter and the
// click context are applied as independent equality filters, rows are ordered
// newest first by response date and capped at MaxRows when it is set. records is
// never modified.
func ResolveDrillDown(def Definition, records []Record, click *ClickContext) []Record {
	dd := def.DrillDown
	if dd == nil {
		return []Record{}
	}

	out := make([]Record, 0, len(records))
	for _, r := range records {
		if dd.FilterField != "" && dd.FilterValue != "" && !matches(r, dd.FilterField, dd.FilterValue) {
			continue
		}
		if click != nil && click.Field != "" && click.Value != "" && !matches(r, click.Field, click.Value) {
			continue
		}
		out = append(out, r)
	}

	SortByDateDesc(out, FieldResponseDate)

	if dd.MaxRows > 0 && len(out) > dd.MaxRows {
		out = out[:dd.MaxRows]
	}
	return out
}

// SortByDateDesc orders records newest first in place. Records without a parseable
// date sort after all dated ones.
func SortByDateDesc(records []Record, field string) {
	sort.SliceStable(records, func(i, j int) bool {
		a, aok := records[i].Time(field)
		b, bok := records[j].Time(field)
		switch {
		case aok && bok:
			return a.After(b)
		case aok:
			return true
		default:
			return false
		}
	})
}
