package canvas

import (
	"time"

	"github.com/canvasgit/canvasgit/internal/version"
	"github.com/imroc/req/v3"
)

const apiPrefix = "/api/v1"

// Client is a thin typed client for the Canvas LMS REST API. Only the
// endpoints the sync and submit paths need are implemented.
type Client struct {
	http    *req.Client
	raw     *req.Client
	baseURL string
}

// New creates a Canvas API client for the given instance URL and bearer token.
func New(baseURL, token string) *Client {
	http := req.C().
		SetBaseURL(baseURL + apiPrefix).
		SetCommonBearerAuthToken(token).
		SetCommonHeader("Accept", "application/json").
		SetUserAgent("canvasgit/" + version.Version).
		SetTimeout(2 * time.Minute)

	// Pre-signed upload/download URLs must not carry the Authorization
	// header, so they go through a separate unauthenticated client.
	raw := req.C().
		SetUserAgent("canvasgit/" + version.Version).
		SetTimeout(10 * time.Minute)

	return &Client{
		http:    http,
		raw:     raw,
		baseURL: baseURL,
	}
}

// BaseURL returns the Canvas instance URL without the API prefix.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Close releases idle connections.
func (c *Client) Close() {
	c.http.CloseIdleConnections()
	c.raw.CloseIdleConnections()
}
