// Package query serializes request parameters into a URL query string.
//
// Sequences use bracket notation and nested maps use bracketed child keys:
//
//	query.Stringify(map[string]any{
//	    "tags":  []string{"a", "b"},
//	    "scope": map[string]any{"id": 3},
//	})
//	// "scope[id]=3&tags[]=a&tags[]=b"
//
// Structs tagged for github.com/google/go-querystring can be turned into a
// parameter map with FromStruct.
package query
