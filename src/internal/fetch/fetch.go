// Package fetch is the HTTP fetch surface shared by the telemetry agent's
// request wrapper and the asset cache worker's network path.
package fetch

import "context"

// Request describes one outgoing HTTP request.
type Request struct {
	Method string // defaults to GET when empty
	URL    string
	Header map[string]string
	Body   []byte
}

// Response is a fully captured HTTP response.
type Response struct {
	StatusCode int
	Header     map[string]string
	Body       []byte
}

// OK reports whether the response carries a success status.
func (r *Response) OK() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

// Fetcher performs HTTP requests.
type Fetcher interface {
	Do(ctx context.Context, req Request) (*Response, error)
}
