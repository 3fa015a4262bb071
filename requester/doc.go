// Package requester adapts the generic HTTP transport to a REST API that
// speaks snake_case JSON.
//
// Callers describe a call with a Service (base URL, default headers and
// timeout), a verb and Options. The requester builds a transport request
// (casing body and query keys, encoding the query string in bracket form,
// attaching a client certificate when one is configured), sends it, and
// normalizes the answer into a Response. Failed calls come back as the
// transport's *httpclient.Error, with the server's explanation copied into
// Description when the error body carries one.
//
//	client, _ := httpclient.New(httpclient.Config{})
//	r := requester.New(requester.NewHTTPTransport(client),
//	    requester.WithAgentFiles(security.AgentFilesFromEnv()))
//
//	svc := requester.Service{
//	    URL:     "https://gitlab.example.com/api/v4",
//	    Headers: map[string]string{"private-token": token},
//	}
//	resp, err := r.Get(ctx, svc, "projects", requester.Options{
//	    Query: map[string]any{"perPage": 20, "orderBy": "id"},
//	})
//
// # Streaming
//
// Stream sends a GET and leaves the body unread in Response.Stream.
// Response.Events decodes a text/event-stream body lazily. The caller
// must close the stream.
package requester
