package requester

import (
	"encoding/json"

	"github.com/kbukum/requester/httpclient"
)

// Enrich copies the server's explanation from a failed response into the
// error's Description. The "error" field wins over "message"; non-string
// values are JSON-encoded. Errors without a response, or whose body is not
// a JSON object carrying either field, are left as they are. The same error
// value is always returned.
func Enrich(err error) error {
	herr, ok := httpclient.AsError(err)
	if !ok || herr.Response == nil {
		return err
	}

	data, readErr := herr.Response.Bytes()
	if readErr != nil || len(data) == 0 {
		return err
	}

	var body map[string]any
	if json.Unmarshal(data, &body) != nil {
		return err
	}

	for _, key := range []string{"error", "message"} {
		if v, found := body[key]; found && truthy(v) {
			herr.Description = describe(v)
			break
		}
	}
	return err
}

func describe(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	b, err := json.Marshal(v)
	if err != nil {
		return ""
	}
	return string(b)
}

// truthy treats nil, false, 0 and "" as absent.
func truthy(v any) bool {
	switch t := v.(type) {
	case nil:
		return false
	case bool:
		return t
	case string:
		return t != ""
	case float64:
		return t != 0
	default:
		return true
	}
}
