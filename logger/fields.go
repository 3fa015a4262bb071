package logger

import "time"

// Keys used on requester and CLI log lines.
const (
	FieldComponent = "component"
	FieldRequestID = "request_id"
	FieldTraceID   = "trace_id"
	FieldSpanID    = "span_id"
	FieldMethod    = "method"
	FieldEndpoint  = "endpoint"
	FieldStatus    = "status"
	FieldOperation = "operation"
	FieldError     = "error"
	FieldDuration  = "duration_ms"
)

// Fields pairs up alternating keys and values. A pair whose key is not a
// string is dropped, as is a trailing key without a value.
//
//	logger.Debug("sent", logger.Fields(logger.FieldStatus, 200))
func Fields(kvs ...any) map[string]any {
	m := make(map[string]any, len(kvs)/2)
	for i := 0; i+1 < len(kvs); i += 2 {
		if key, ok := kvs[i].(string); ok {
			m[key] = kvs[i+1]
		}
	}
	return m
}

// ErrorFields describes a failed operation.
func ErrorFields(op string, err error) map[string]any {
	return map[string]any{FieldOperation: op, FieldError: err.Error()}
}

// MergeWithDuration records d in milliseconds on fields, allocating the map
// when it is nil.
func MergeWithDuration(fields map[string]any, d time.Duration) map[string]any {
	if fields == nil {
		fields = make(map[string]any, 1)
	}
	fields[FieldDuration] = d.Milliseconds()
	return fields
}
