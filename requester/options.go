package requester

import (
	"io"

	"github.com/kbukum/requester/httpclient"
)

// Method is one of the dispatch verbs.
type Method string

const (
	MethodGet    Method = "get"
	MethodPost   Method = "post"
	MethodPut    Method = "put"
	MethodDelete Method = "delete"
	// MethodStream is a GET whose body is handed back unread.
	MethodStream Method = "stream"
)

// Methods lists every dispatch verb.
var Methods = []Method{MethodGet, MethodPost, MethodPut, MethodDelete, MethodStream}

// ParseMethod maps a verb name onto a Method.
func ParseMethod(s string) (Method, bool) {
	for _, m := range Methods {
		if string(m) == s {
			return m, true
		}
	}
	return "", false
}

// transportVerb is the HTTP method sent on the wire.
func (m Method) transportVerb() string {
	switch m {
	case MethodStream, MethodGet:
		return "GET"
	case MethodPost:
		return "POST"
	case MethodPut:
		return "PUT"
	case MethodDelete:
		return "DELETE"
	default:
		return ""
	}
}

// Options are the per-call inputs.
type Options struct {
	// Body is sent as the request payload. Nil sends no body.
	Body Body
	// Query holds search parameters. Keys are converted to snake_case.
	Query map[string]any
	// QueryStruct is a struct with `url` field tags whose fields are merged
	// into Query. Entries in Query take precedence.
	QueryStruct any
	// Sudo, when set, is sent as the "sudo" header.
	Sudo string
}

// Body is a request payload. Only JSON bodies are key-cased and encoded;
// the other variants reach the transport untouched.
type Body interface {
	payload() any
}

type jsonBody struct{ v any }

func (b jsonBody) payload() any { return b.v }

type multipartBody struct{ m *httpclient.MultipartBody }

func (b multipartBody) payload() any { return b.m }

type rawBody struct{ v any }

func (b rawBody) payload() any { return b.v }

// JSON wraps a keyed structure (map, slice or struct) to be sent as JSON.
func JSON(v any) Body { return jsonBody{v: v} }

// Multipart wraps a form payload. The transport sets its content type.
func Multipart(m *httpclient.MultipartBody) Body { return multipartBody{m: m} }

// Raw wraps a reader whose content is sent as is.
func Raw(r io.Reader) Body { return rawBody{v: r} }

// Text wraps a string sent as is.
func Text(s string) Body { return rawBody{v: s} }
