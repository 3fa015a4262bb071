// Package casing rewrites the keys of JSON-shaped values between Go/JS style
// camelCase and the wire conventions of REST APIs (snake_case, kebab-case).
//
// Keys that already look like constants (they start with an uppercase letter
// or a digit, e.g. "ID", "A", "FOO_") are left untouched by SkipAllCaps:
//
//	body := casing.DecamelizeKeys(map[string]any{
//	    "firstName": "Ada",
//	    "ID":        7,
//	})
//	// map[string]any{"first_name": "Ada", "ID": 7}
package casing
