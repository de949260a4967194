package gauge

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Well-known CSAT fields.
const (
	FieldResponseDate = "response_date"
	FieldRating       = "rating"
	FieldCompany      = "company"
	FieldTechnician   = "tech_first_name"
)

type Rating string

const (
	RatingGoldStar    Rating = "Gold Star"
	RatingYellowLight Rating = "Yellow Light"
	RatingRedLight    Rating = "Red Light"
)

// Ratings lists the rating values in display order.
var Ratings = []Rating{RatingGoldStar, RatingYellowLight, RatingRedLight}

// Record is one satisfaction response. Fields other than the well-known ones are
// carried through untouched.
type Record map[string]any

var dateLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04:05Z07:00",
	"2006-01-02",
}

// String returns the field formatted as a string; missing and nil fields are "".
func (r Record) String(field string) string {
	v, ok := r[field]
	if !ok || v == nil {
		return ""
	}
	switch t := v.(type) {
	case string:
		return t
	case []byte:
		return string(t)
	case time.Time:
		return t.Format(time.RFC3339Nano)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	default:
		return fmt.Sprint(t)
	}
}

// Time parses the field as a timestamp. Date-only values are read as UTC midnight.
func (r Record) Time(field string) (time.Time, bool) {
	v, ok := r[field]
	if !ok || v == nil {
		return time.Time{}, false
	}
	switch t := v.(type) {
	case time.Time:
		return t, !t.IsZero()
	case *time.Time:
		if t == nil {
			return time.Time{}, false
		}
		return *t, !t.IsZero()
	}
	return parseDate(r.String(field))
}

func (r Record) ResponseDate() (time.Time, bool) { return r.Time(FieldResponseDate) }

func (r Record) Rating() Rating { return Rating(r.String(FieldRating)) }

func (r Record) Company() string { return r.String(FieldCompany) }

func (r Record) Technician() string { return r.String(FieldTechnician) }

func parseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

func matches(r Record, field, value string) bool {
	return r.String(field) == value
}
