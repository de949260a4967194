package gauge

import (
	"sort"
	"time"
)

type Granularity string

const (
	GranularityDay   Granularity = "day"
	GranularityWeek  Granularity = "week"
	GranularityMonth Granularity = "month"
)

// Bucket is a calendar-aligned group of records. Keys sort lexicographically in
// chronological order.
type Bucket struct {
	Key     string
	Label   string
	Members []Record
}

// BucketByTime groups records by the calendar period of dateField, sorts the
// buckets ascending by key and keeps the most recent limit of them. A limit of
// zero or less keeps every bucket. Records with an unparseable date are skipped.
func BucketByTime(records []Record, dateField string, g Granularity, limit int) []Bucket {
	if len(records) == 0 {
		return nil
	}

	groups := make(map[string]*Bucket)
	for _, r := range records {
		date, ok := r.Time(dateField)
		if !ok {
			continue
		}
		key, start := bucketKey(date.UTC(), g)
		b, ok := groups[key]
		if !ok {
			b = &Bucket{Key: key, Label: bucketLabel(start, g)}
			groups[key] = b
		}
		b.Members = append(b.Members, r)
	}

	keys := make([]string, 0, len(groups))
	for k := range groups {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	if limit > 0 && len(keys) > limit {
		keys = keys[len(keys)-limit:]
	}

	out := make([]Bucket, 0, len(keys))
	for _, k := range keys {
		out = append(out, *groups[k])
	}
	return out
}

func bucketKey(t time.Time, g Granularity) (string, time.Time) {
	day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	switch g {
	case GranularityDay:
		return day.Format("2006-01-02"), day
	case GranularityWeek:
		// weeks start on Sunday
		start := day.AddDate(0, 0, -int(day.Weekday()))
		return start.Format("2006-01-02"), start
	default:
		start := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
		return start.Format("2006-01"), start
	}
}

func bucketLabel(start time.Time, g Granularity) string {
	if g == GranularityDay || g == GranularityWeek {
		return start.Format("Jan 2")
	}
	return start.Format("Jan 06")
}
