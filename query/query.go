package query

import (
	"fmt"
	"net/url"
	"reflect"
	"sort"
	"strconv"
	"strings"

	qs "github.com/google/go-querystring/query"
)

// Stringify encodes params as a query string without a leading "?".
// Keys are sorted, nil values are omitted and sequence values are written
// once per element as key[]=value.
func Stringify(params map[string]any) string {
	if len(params) == 0 {
		return ""
	}
	parts := make([]string, 0, len(params))
	for _, key := range sortedKeys(params) {
		parts = appendValue(parts, Encode(key), params[key])
	}
	return strings.Join(parts, "&")
}

// Encode percent-encodes s, leaving only RFC 3986 unreserved characters.
func Encode(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}

func appendValue(parts []string, key string, value any) []string {
	if isNil(value) {
		return parts
	}
	switch v := value.(type) {
	case map[string]any:
		for _, k := range sortedKeys(v) {
			parts = appendValue(parts, key+"["+Encode(k)+"]", v[k])
		}
		return parts
	case []byte:
		return append(parts, key+"="+Encode(string(v)))
	}

	rv := reflect.ValueOf(value)
	switch rv.Kind() {
	case reflect.Map:
		if rv.Type().Key().Kind() != reflect.String {
			break
		}
		m := make(map[string]any, rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			m[iter.Key().String()] = iter.Value().Interface()
		}
		return appendValue(parts, key, m)
	case reflect.Slice, reflect.Array:
		for i := 0; i < rv.Len(); i++ {
			elem := rv.Index(i).Interface()
			switch {
			case isNil(elem):
				parts = append(parts, key+"[]")
			case reflect.ValueOf(elem).Kind() == reflect.Map:
				parts = appendValue(parts, key+"[]", elem)
			default:
				parts = append(parts, key+"[]="+Encode(format(elem)))
			}
		}
		return parts
	}
	return append(parts, key+"="+Encode(format(value)))
}

// format renders a scalar the way it should appear in a query string.
func format(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case bool:
		return strconv.FormatBool(t)
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(t), 'f', -1, 32)
	case fmt.Stringer:
		return t.String()
	default:
		rv := reflect.ValueOf(v)
		if rv.Kind() == reflect.Pointer {
			return format(rv.Elem().Interface())
		}
		return fmt.Sprint(v)
	}
}

func isNil(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Interface:
		return rv.IsNil()
	}
	return false
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// FromStruct converts a struct with `url` tags into a parameter map.
// Fields producing a single value map to a string, repeated fields to a
// []string.
func FromStruct(v any) (map[string]any, error) {
	values, err := qs.Values(v)
	if err != nil {
		return nil, fmt.Errorf("query: encode struct: %w", err)
	}
	out := make(map[string]any, len(values))
	for k, vals := range values {
		if len(vals) == 1 {
			out[k] = vals[0]
			continue
		}
		out[k] = vals
	}
	return out, nil
}
