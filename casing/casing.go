package casing

import (
	"cmp"
	"maps"
	"reflect"
	"regexp"
	"slices"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Converter rewrites a single key.
type Converter func(key string) string

// allCaps matches keys that are treated as constants. The pattern is not
// anchored at the end, so any key whose first character is an uppercase
// ASCII letter or a digit matches.
var allCaps = regexp.MustCompile(`^([A-Z0-9])+_*`)

// IsAllCaps reports whether key is left alone by SkipAllCaps.
func IsAllCaps(key string) bool {
	return allCaps.MatchString(key)
}

// SkipAllCaps wraps convert so that constant-style keys pass through unchanged.
func SkipAllCaps(convert Converter) Converter {
	return func(key string) string {
		if IsAllCaps(key) {
			return key
		}
		return convert(key)
	}
}

// Decamelizer returns a converter that splits a key before every uppercase
// ASCII letter, joins the parts with sep and lowercases the result.
func Decamelizer(sep string) Converter {
	return func(key string) string {
		var b strings.Builder
		b.Grow(len(key) + 4)
		for i, r := range key {
			if i > 0 && r >= 'A' && r <= 'Z' {
				b.WriteString(sep)
			}
			b.WriteRune(r)
		}
		return strings.ToLower(b.String())
	}
}

var (
	// Decamelize converts camelCase to snake_case ("firstName" -> "first_name").
	Decamelize = Decamelizer("_")
	// Kebab converts camelCase to kebab-case ("firstName" -> "first-name").
	Kebab = Decamelizer("-")
)

// Camelize converts snake_case, kebab-case and space separated keys to
// camelCase ("first_name" -> "firstName").
func Camelize(key string) string {
	var b strings.Builder
	b.Grow(len(key))
	upper := false
	for _, r := range key {
		if r == '-' || r == '_' || unicode.IsSpace(r) {
			upper = true
			continue
		}
		if upper {
			r = unicode.ToUpper(r)
			upper = false
		}
		b.WriteRune(r)
	}
	s := b.String()
	if s == "" {
		return s
	}
	first, size := utf8.DecodeRuneInString(s)
	return string(unicode.ToLower(first)) + s[size:]
}

// TransformKeys returns a copy of v with every map key passed through
// convert. Maps with string keys and slices of maps are rewritten
// recursively whatever their element types; any other value is returned as
// is. The input is never modified.
//
// When two keys convert to the same key, a key that convert leaves
// unchanged wins; otherwise the last key in sorted order wins.
func TransformKeys(v any, convert Converter) any {
	switch t := v.(type) {
	case nil:
		return nil
	case map[string]any:
		return transformMap(t, convert)
	case map[string]string:
		out := make(map[string]string, len(t))
		for _, k := range orderedKeys(t, convert) {
			out[convert(k)] = t[k]
		}
		return out
	case []any:
		return transformSlice(reflect.ValueOf(t), convert)
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Map:
		if rv.Type().Key().Kind() != reflect.String || rv.IsNil() {
			return v
		}
		m := make(map[string]any, rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			m[iter.Key().String()] = iter.Value().Interface()
		}
		return transformMap(m, convert)
	case reflect.Slice, reflect.Array:
		if !holdsContainers(rv.Type().Elem()) {
			return v
		}
		if rv.Kind() == reflect.Slice && rv.IsNil() {
			return v
		}
		return transformSlice(rv, convert)
	default:
		return v
	}
}

func transformMap(m map[string]any, convert Converter) map[string]any {
	out := make(map[string]any, len(m))
	for _, k := range orderedKeys(m, convert) {
		out[convert(k)] = TransformKeys(m[k], convert)
	}
	return out
}

func transformSlice(rv reflect.Value, convert Converter) []any {
	out := make([]any, rv.Len())
	for i := range out {
		out[i] = TransformKeys(rv.Index(i).Interface(), convert)
	}
	return out
}

// holdsContainers reports whether elements of type t may carry map keys.
func holdsContainers(t reflect.Type) bool {
	switch t.Kind() {
	case reflect.Map, reflect.Slice, reflect.Array, reflect.Interface:
		return true
	default:
		return false
	}
}

// orderedKeys returns the keys of m sorted, with keys that convert leaves
// unchanged moved last so they overwrite colliding converted keys.
func orderedKeys[V any](m map[string]V, convert Converter) []string {
	keys := slices.Sorted(maps.Keys(m))
	slices.SortStableFunc(keys, func(a, b string) int {
		return cmp.Compare(boolRank(convert(a) == a), boolRank(convert(b) == b))
	})
	return keys
}

func boolRank(b bool) int {
	if b {
		return 1
	}
	return 0
}

// DecamelizeKeys converts every non-constant key of v to snake_case.
func DecamelizeKeys(v any) any {
	return TransformKeys(v, SkipAllCaps(Decamelize))
}

// CamelizeKeys converts every non-constant key of v to camelCase.
func CamelizeKeys(v any) any {
	return TransformKeys(v, SkipAllCaps(Camelize))
}
