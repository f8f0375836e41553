package http

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/km-arc/go-lifetime/framework/container"
)

// scopeKey is the unexported key used to store the request Scope in context.
type scopeKey struct{}

// WithScope stores scope in ctx.
func WithScope(ctx context.Context, scope *container.Scope) context.Context {
	return context.WithValue(ctx, scopeKey{}, scope)
}

// ScopeFrom returns the request Scope stored by ScopeMiddleware, or nil.
func ScopeFrom(ctx context.Context) *container.Scope {
	scope, _ := ctx.Value(scopeKey{}).(*container.Scope)
	return scope
}

// ScopeMiddleware opens one container Scope per request, exposes it through
// ScopeFrom(r.Context()), and disposes it when the handler returns, on every
// exit path including panics. Dispose errors are logged, never sent to the
// client.
//
//	r.Use(gohttp.ScopeMiddleware(app.Container, log))
func ScopeMiddleware(c *container.Container, log *zap.Logger) func(http.Handler) http.Handler {
	if log == nil {
		log = zap.NewNop()
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			scope := c.NewScope()
			defer func() {
				if err := scope.Dispose(); err != nil {
					log.Error("dispose request scope",
						zap.String("request_id", middleware.GetReqID(r.Context())),
						zap.Error(err),
					)
				}
			}()
			next.ServeHTTP(w, r.WithContext(WithScope(r.Context(), scope)))
		})
	}
}

// RequestLogger logs each request with method, path, status, duration and
// the request_id injected by chi's RequestID middleware.
func RequestLogger(log *zap.Logger) func(http.Handler) http.Handler {
	if log == nil {
		log = zap.NewNop()
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

			next.ServeHTTP(ww, r)

			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			log.Info("request",
				zap.String("request_id", middleware.GetReqID(r.Context())),
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", status),
				zap.Duration("duration", time.Since(start)),
				zap.String("ip", r.RemoteAddr),
			)
		})
	}
}
