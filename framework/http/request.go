package http

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/km-arc/go-lifetime/framework/container"
)

// Request wraps *http.Request with small input helpers and access to the
// request Scope.
type Request struct {
	raw *http.Request
}

// NewRequest wraps a standard *http.Request.
func NewRequest(r *http.Request) *Request {
	return &Request{raw: r}
}

// Raw returns the underlying *http.Request.
func (req *Request) Raw() *http.Request { return req.raw }

// Scope returns the Scope opened by ScopeMiddleware for this request, or nil
// when the middleware is not installed.
func (req *Request) Scope() *container.Scope {
	return ScopeFrom(req.raw.Context())
}

// ID returns the request id assigned by chi's RequestID middleware.
func (req *Request) ID() string {
	return middleware.GetReqID(req.raw.Context())
}

// ── Input helpers ────────────────────────────────────────────────────────────

// Query returns a query-string value.
func (req *Request) Query(key string, fallback ...string) string {
	v := req.raw.URL.Query().Get(key)
	if v == "" && len(fallback) > 0 {
		return fallback[0]
	}
	return v
}

// QueryInt returns a query-string value as int, or fallback when it is
// missing or not a number.
func (req *Request) QueryInt(key string, fallback int) int {
	n, err := strconv.Atoi(req.raw.URL.Query().Get(key))
	if err != nil {
		return fallback
	}
	return n
}

// RouteParam returns a URL route parameter (chi).
func (req *Request) RouteParam(key string) string {
	return chi.URLParam(req.raw, key)
}

// Header returns a request header value.
func (req *Request) Header(key string) string {
	return req.raw.Header.Get(key)
}
