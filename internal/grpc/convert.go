package grpc

import (
	"encoding/json"
	"fmt"
	"time"

	"google.golang.org/protobuf/types/known/structpb"

	"github.com/godilite/csat-server/internal/dashboard"
	"github.com/godilite/csat-server/internal/gauge"
)

var dateLayouts = []string{time.RFC3339Nano, time.RFC3339, time.DateOnly}

// toStruct encodes v through its JSON form.
func toStruct(v any) (*structpb.Struct, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encode response: %w", err)
	}
	var m map[string]any
	if err := json.Unmarshal(b, &m); err != nil {
		return nil, fmt.Errorf("encode response: %w", err)
	}
	return structpb.NewStruct(m)
}

func stringField(in *structpb.Struct, key string) string {
	return in.GetFields()[key].GetStringValue()
}

func structField(in *structpb.Struct, key string) *structpb.Struct {
	return in.GetFields()[key].GetStructValue()
}

// parseFilterUpdate reads startDate, endDate and fieldFilters. A present date
// that is null or "" clears that side of the range.
func parseFilterUpdate(in *structpb.Struct) (dashboard.FilterUpdate, error) {
	var u dashboard.FilterUpdate
	fields := in.GetFields()

	for key, dst := range map[string]**time.Time{"startDate": &u.StartDate, "endDate": &u.EndDate} {
		v, ok := fields[key]
		if !ok {
			continue
		}
		t, err := parseDate(v)
		if err != nil {
			return dashboard.FilterUpdate{}, fmt.Errorf("%s: %w", key, err)
		}
		*dst = &t
	}

	if ff := structField(in, "fieldFilters"); ff != nil {
		u.FieldFilters = make(map[string][]string, len(ff.GetFields()))
		for field, v := range ff.GetFields() {
			vals := make([]string, 0)
			for _, item := range v.GetListValue().GetValues() {
				s, ok := item.GetKind().(*structpb.Value_StringValue)
				if !ok {
					return dashboard.FilterUpdate{}, fmt.Errorf("fieldFilters.%s: values must be strings", field)
				}
				vals = append(vals, s.StringValue)
			}
			u.FieldFilters[field] = vals
		}
	}
	return u, nil
}

func parseDate(v *structpb.Value) (time.Time, error) {
	switch k := v.GetKind().(type) {
	case *structpb.Value_NullValue:
		return time.Time{}, nil
	case *structpb.Value_StringValue:
		if k.StringValue == "" {
			return time.Time{}, nil
		}
		for _, layout := range dateLayouts {
			if t, err := time.Parse(layout, k.StringValue); err == nil {
				return t, nil
			}
		}
		return time.Time{}, fmt.Errorf("unrecognised date %q", k.StringValue)
	default:
		return time.Time{}, fmt.Errorf("date must be a string")
	}
}

func parseClick(in *structpb.Struct) *gauge.ClickContext {
	click := structField(in, "click")
	if click == nil {
		return nil
	}
	field := stringField(click, "field")
	if field == "" {
		return nil
	}
	return &gauge.ClickContext{Field: field, Value: stringField(click, "value")}
}
