// Package httpclient is the HTTP transport underneath the requester: it
// resolves a prefix URL and endpoint, sends the request over a pooled
// net/http transport, and reports non-2xx responses as classified errors
// that still carry the response.
//
// # Basic Usage
//
//	client, err := httpclient.New(httpclient.Config{})
//
//	resp, err := client.Do(ctx, "projects", &httpclient.Options{
//	    Method:       http.MethodGet,
//	    PrefixURL:    "https://gitlab.example.com/api/v4",
//	    SearchParams: "per_page=20",
//	    Timeout:      30 * time.Second,
//	})
//	if err != nil {
//	    var herr *httpclient.Error
//	    if errors.As(err, &herr) && herr.Response != nil {
//	        // the server answered with a non-2xx status
//	    }
//	}
//	defer resp.Close()
//
// # Mutual TLS
//
// Options.Agent attaches a client key pair to a single request. The pooled
// transport is cloned for that request and its connections are dropped once
// the response body is closed.
package httpclient
