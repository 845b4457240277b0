// Package doc provides field coercion helpers for schemaless document maps.
// Stores hand back documents with driver-dependent value types (JSON decodes
// numbers as float64, BSON as int32/int64, times as either time.Time or
// RFC 3339 strings), so domain FromDoc constructors go through these.
package doc

import (
	"time"
)

// AsString returns the string value of a field, or "" if absent or not a string.
func AsString(d map[string]any, key string) string {
	if v, ok := d[key].(string); ok {
		return v
	}
	return ""
}

// AsBool returns the bool value of a field, or false if absent or not a bool.
func AsBool(d map[string]any, key string) bool {
	if v, ok := d[key].(bool); ok {
		return v
	}
	return false
}

// AsInt returns the integer value of a field regardless of the numeric type
// the store decoded it into, or 0 if absent.
func AsInt(d map[string]any, key string) int {
	switch v := d[key].(type) {
	case int:
		return v
	case int32:
		return int(v)
	case int64:
		return int(v)
	case float64:
		return int(v)
	}
	return 0
}

// AsFloat returns the float value of a field, or 0 if absent.
func AsFloat(d map[string]any, key string) float64 {
	switch v := d[key].(type) {
	case float64:
		return v
	case float32:
		return float64(v)
	case int:
		return float64(v)
	case int32:
		return float64(v)
	case int64:
		return float64(v)
	}
	return 0
}

// AsTime returns the time value of a field, accepting either a time.Time or
// an RFC 3339 string. Returns the zero time if absent or unparseable.
func AsTime(d map[string]any, key string) time.Time {
	switch v := d[key].(type) {
	case time.Time:
		return v
	case string:
		if t, err := time.Parse(time.RFC3339Nano, v); err == nil {
			return t
		}
		if t, err := time.Parse(time.RFC3339, v); err == nil {
			return t
		}
	}
	return time.Time{}
}

// AsMap returns a nested document field, or nil if absent.
func AsMap(d map[string]any, key string) map[string]any {
	if v, ok := d[key].(map[string]any); ok {
		return v
	}
	return nil
}

// AsSlice returns a list field, or nil if absent.
func AsSlice(d map[string]any, key string) []any {
	if v, ok := d[key].([]any); ok {
		return v
	}
	return nil
}

// Has reports whether the field is present in the document.
func Has(d map[string]any, key string) bool {
	_, ok := d[key]
	return ok
}
