package gauge

import (
	"encoding/json"
	"strconv"
	"strings"
)

// Params is a gauge's declarative data configuration as stored in the config store.
type Params map[string]any

// Merge returns a new Params with defaults overlaid by overrides; overrides win.
func Merge(defaults, overrides Params) Params {
	out := make(Params, len(defaults)+len(overrides))
	for k, v := range defaults {
		out[k] = v
	}
	for k, v := range overrides {
		out[k] = v
	}
	return out
}

// Has reports whether any of keys is present with a non-nil value.
func (p Params) Has(keys ...string) bool {
	for _, k := range keys {
		if v, ok := p[k]; ok && v != nil {
			return true
		}
	}
	return false
}

// String returns the first present key as a string, or def.
func (p Params) String(def string, keys ...string) string {
	for _, k := range keys {
		v, ok := p[k]
		if !ok || v == nil {
			continue
		}
		switch t := v.(type) {
		case string:
			return t
		case float64:
			return strconv.FormatFloat(t, 'f', -1, 64)
		case int:
			return strconv.Itoa(t)
		case bool:
			return strconv.FormatBool(t)
		}
	}
	return def
}

// Int returns the first present key as an int, or def. JSON numbers and numeric
// strings are accepted.
func (p Params) Int(def int, keys ...string) int {
	for _, k := range keys {
		v, ok := p[k]
		if !ok || v == nil {
			continue
		}
		switch t := v.(type) {
		case int:
			return t
		case int64:
			return int(t)
		case int32:
			return int(t)
		case float64:
			return int(t)
		case float32:
			return int(t)
		case json.Number:
			if n, err := t.Int64(); err == nil {
				return int(n)
			}
		case string:
			if n, err := strconv.Atoi(strings.TrimSpace(t)); err == nil {
				return n
			}
		}
	}
	return def
}

func (p Params) Bool(def bool, keys ...string) bool {
	for _, k := range keys {
		v, ok := p[k]
		if !ok || v == nil {
			continue
		}
		switch t := v.(type) {
		case bool:
			return t
		case string:
			if b, err := strconv.ParseBool(t); err == nil {
				return b
			}
		}
	}
	return def
}

// StringMap returns a map[string]string view of key, dropping non-string values.
func (p Params) StringMap(key string) map[string]string {
	out := make(map[string]string)
	switch t := p[key].(type) {
	case map[string]string:
		for k, v := range t {
			out[k] = v
		}
	case map[string]any:
		for k, v := range t {
			if s, ok := v.(string); ok {
				out[k] = s
			}
		}
	case Params:
		for k, v := range t {
			if s, ok := v.(string); ok {
				out[k] = s
			}
		}
	}
	return out
}

// Maps returns key as a list of Params, skipping entries that are not objects.
func (p Params) Maps(key string) []Params {
	var out []Params
	switch t := p[key].(type) {
	case []Params:
		return append(out, t...)
	case []map[string]any:
		for _, m := range t {
			out = append(out, Params(m))
		}
	case []any:
		for _, item := range t {
			switch m := item.(type) {
			case map[string]any:
				out = append(out, Params(m))
			case Params:
				out = append(out, m)
			}
		}
	}
	return out
}
