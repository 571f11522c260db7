// Package httpclient builds the outbound HTTP client shared by the backend API
// client, print-time image fetches and remote downloads on save.
package httpclient

import (
	"net/http"
	"time"

	"github.com/shouni/go-http-kit/pkg/httpkit"
)

// DefaultTimeout bounds one request when the caller passes no timeout
const DefaultTimeout = 30 * time.Second

// Doer sends a prepared request. httpkit clients satisfy it, and so does
// *http.Client, which tests use to reach httptest servers directly.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// New returns an httpkit client with the given per-request timeout
func New(timeout time.Duration) Doer {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return httpkit.New(timeout)
}
