package httpclient

import (
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/kbukum/requester/security"
)

// Options describes one outbound request.
type Options struct {
	// Method is the HTTP verb. Defaults to GET.
	Method string
	// PrefixURL is joined with the endpoint passed to Do.
	PrefixURL string
	// SearchParams is an encoded query string without the leading "?".
	// It replaces any query present on the endpoint.
	SearchParams string
	// Headers are sent as is, overriding Config.Headers.
	Headers http.Header
	// Body accepts string, []byte, io.Reader or *MultipartBody.
	Body any
	// Timeout bounds the request until response headers arrive. Zero disables it.
	Timeout time.Duration
	// Agent presents a client certificate for this request only.
	Agent *security.Agent
	// OnProgress is called as the response body is read.
	OnProgress ProgressFunc
}

// resolveURL joins prefix and endpoint with a single slash. Absolute
// endpoints are used as given.
func resolveURL(prefix, endpoint, search string) (string, error) {
	target := endpoint
	if prefix != "" && !strings.HasPrefix(endpoint, "http://") && !strings.HasPrefix(endpoint, "https://") {
		target = strings.TrimRight(prefix, "/") + "/" + strings.TrimLeft(endpoint, "/")
	}
	u, err := url.Parse(target)
	if err != nil {
		return "", err
	}
	if search != "" {
		u.RawQuery = strings.TrimPrefix(search, "?")
	}
	return u.String(), nil
}
