package gauge

import "time"

// FilterState holds the operator's current filters. A zero StartDate or EndDate
// leaves that side of the range open.
type FilterState struct {
	StartDate    time.Time           `json:"startDate" yaml:"startDate"`
	EndDate      time.Time           `json:"endDate" yaml:"endDate"`
	FieldFilters map[string][]string `json:"fieldFilters" yaml:"fieldFilters"`
}

// IsEmpty reports whether the state restricts nothing.
func (f FilterState) IsEmpty() bool {
	if !f.StartDate.IsZero() || !f.EndDate.IsZero() {
		return false
	}
	for _, vals := range f.FieldFilters {
		if len(vals) > 0 {
			return false
		}
	}
	return true
}

// EndOfDay returns the last millisecond of t's calendar day in t's location.
func EndOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 23, 59, 59, int(999*time.Millisecond), t.Location())
}

// Filter returns the records that pass the date range and every non-empty field
// filter, in input order. Values within a field are OR-combined and fields are
// AND-combined.
func Filter(records []Record, state FilterState) []Record {
	out := make([]Record, 0, len(records))
	if len(records) == 0 {
		return out
	}

	sets := make(map[string]map[string]struct{}, len(state.FieldFilters))
	for field, allowed := range state.FieldFilters {
		if len(allowed) == 0 {
			continue
		}
		set := make(map[string]struct{}, len(allowed))
		for _, v := range allowed {
			set[v] = struct{}{}
		}
		sets[field] = set
	}

	var end time.Time
	if !state.EndDate.IsZero() {
		end = EndOfDay(state.EndDate)
	}

	for _, r := range records {
		if !inRange(r, state.StartDate, end) {
			continue
		}
		pass := true
		for field, set := range sets {
			if _, ok := set[r.String(field)]; !ok {
				pass = false
				break
			}
		}
		if pass {
			out = append(out, r)
		}
	}
	return out
}

// inRange treats an unparseable date as passing; only time-bucketed aggregations
// drop such records.
func inRange(r Record, start, end time.Time) bool {
	if start.IsZero() && end.IsZero() {
		return true
	}
	date, ok := r.ResponseDate()
	if !ok {
		return true
	}
	if !start.IsZero() && date.Before(start) {
		return false
	}
	if !end.IsZero() && date.After(end) {
		return false
	}
	return true
}
