package server

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/zjrosen/glint/internal/log"
	"github.com/zjrosen/glint/internal/metrics"
	"github.com/zjrosen/glint/internal/tracing"
)

// unmatchedRoute labels requests that hit no route, keeping metric
// cardinality bounded.
const unmatchedRoute = "unmatched"

func routeOf(c *gin.Context) string {
	if route := c.FullPath(); route != "" {
		return route
	}
	return unmatchedRoute
}

// requestLogger logs one line per request through the debug log.
func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		fields := []any{
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", status,
			"elapsed", time.Since(start),
		}
		if status >= http.StatusInternalServerError {
			log.Error(log.CatServer, "request failed", append(fields, "errors", c.Errors.String())...)
			return
		}
		log.Debug(log.CatServer, "request", fields...)
	}
}

// tracingMiddleware opens a span per request. A nil tracer is a pass-through.
func tracingMiddleware(tracer trace.Tracer) gin.HandlerFunc {
	if tracer == nil {
		return func(c *gin.Context) { c.Next() }
	}

	return func(c *gin.Context) {
		route := routeOf(c)
		ctx, span := tracer.Start(c.Request.Context(), tracing.SpanHTTPPrefix+c.Request.Method+" "+route,
			trace.WithSpanKind(trace.SpanKindServer),
			trace.WithAttributes(attribute.String(tracing.AttrHTTPRoute, route)),
		)
		defer span.End()

		c.Request = c.Request.WithContext(ctx)
		c.Next()

		status := c.Writer.Status()
		span.SetAttributes(attribute.Int(tracing.AttrHTTPStatus, status))
		if status >= http.StatusInternalServerError {
			span.SetStatus(codes.Error, http.StatusText(status))
		} else {
			span.SetStatus(codes.Ok, "")
		}
	}
}

// metricsMiddleware counts requests by route and status code.
func metricsMiddleware(m *metrics.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()
		m.ObserveRequest(routeOf(c), strconv.Itoa(c.Writer.Status()))
	}
}

// bodyLimit caps the request body. Reads past the limit fail with
// *http.MaxBytesError.
func bodyLimit(limit int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if limit > 0 && c.Request.Body != nil {
			c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, limit)
		}
		c.Next()
	}
}
