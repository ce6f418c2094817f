package fetch

import (
	"context"
	"time"

	"github.com/valyala/fasthttp"
)

// Client is a Fetcher backed by a shared fasthttp client.
type Client struct {
	client  *fasthttp.Client
	timeout time.Duration
}

// NewClient creates a fetch client. A zero timeout defaults to 30 seconds.
func NewClient(timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		client: &fasthttp.Client{
			MaxConnsPerHost:     10,
			MaxIdleConnDuration: 10 * time.Second,
			ReadTimeout:         timeout,
			WriteTimeout:        timeout,
		},
		timeout: timeout,
	}
}

// Do performs the request and captures the full response. The context
// deadline, when earlier than the client timeout, bounds the request.
func (c *Client) Do(ctx context.Context, r Request) (*Response, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	timeout := c.timeout
	if deadline, ok := ctx.Deadline(); ok {
		if remaining := time.Until(deadline); remaining < timeout {
			timeout = remaining
		}
	}

	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()

	method := r.Method
	if method == "" {
		method = fasthttp.MethodGet
	}
	req.SetRequestURI(r.URL)
	req.Header.SetMethod(method)
	for k, v := range r.Header {
		req.Header.Set(k, v)
	}
	if len(r.Body) > 0 {
		req.SetBody(r.Body)
	}

	err := c.client.DoTimeout(req, resp, timeout)

	// Capture everything before releasing the pooled response
	var captured *Response
	if err == nil {
		captured = &Response{
			StatusCode: resp.StatusCode(),
			Header:     make(map[string]string),
		}
		resp.Header.VisitAll(func(key, value []byte) {
			captured.Header[string(key)] = string(value)
		})
		if len(resp.Body()) > 0 {
			captured.Body = make([]byte, len(resp.Body()))
			copy(captured.Body, resp.Body())
		}
	}

	fasthttp.ReleaseRequest(req)
	fasthttp.ReleaseResponse(resp)

	if err != nil {
		return nil, err
	}
	return captured, nil
}
