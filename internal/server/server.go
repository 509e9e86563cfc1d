// Package server exposes highlighting over an HTTP JSON API.
package server

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/trace"

	"github.com/zjrosen/glint/internal/blocks"
	"github.com/zjrosen/glint/internal/log"
	"github.com/zjrosen/glint/internal/metrics"
	"github.com/zjrosen/glint/internal/page"
)

// Config configures the API server.
type Config struct {
	// Addr is host:port. Port 0 lets the OS pick one; see Port().
	Addr string
	// Processor renders code (required).
	Processor *blocks.Processor
	// Page controls POST /api/page.
	Page page.Options
	// Metrics is served on /metrics and records request counts (optional).
	Metrics *metrics.Metrics
	// Tracer opens a span per request (optional).
	Tracer trace.Tracer
	// CORSOrigins enables CORS for the listed origins. "*" allows all.
	CORSOrigins []string
	// MaxBodyBytes caps request bodies; 0 means unlimited.
	MaxBodyBytes int64
	// Version is reported by /api/health.
	Version string
	// ReadTimeout is the maximum duration for reading the entire request.
	ReadTimeout time.Duration
	// WriteTimeout is the maximum duration before timing out writes of the response.
	WriteTimeout time.Duration
}

// Server is the glint HTTP API.
type Server struct {
	engine   *gin.Engine
	server   *http.Server
	listener net.Listener
	port     int
}

// NewEngine builds the gin engine with middleware and routes registered.
// It does not listen; tests drive it through httptest.
func NewEngine(cfg Config) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(requestLogger())
	engine.Use(tracingMiddleware(cfg.Tracer))
	engine.Use(metricsMiddleware(cfg.Metrics))

	if len(cfg.CORSOrigins) > 0 {
		corsConfig := cors.DefaultConfig()
		if len(cfg.CORSOrigins) == 1 && cfg.CORSOrigins[0] == "*" {
			corsConfig.AllowAllOrigins = true
		} else {
			corsConfig.AllowOrigins = cfg.CORSOrigins
		}
		corsConfig.AllowMethods = []string{http.MethodGet, http.MethodPost, http.MethodOptions}
		corsConfig.AllowHeaders = []string{"Origin", "Content-Type"}
		engine.Use(cors.New(corsConfig))
	}

	h := newHandler(cfg)

	api := engine.Group("/api")
	api.Use(bodyLimit(cfg.MaxBodyBytes))
	api.GET("/health", h.health)
	api.GET("/rules", h.rules)
	api.POST("/highlight", h.highlight)
	api.POST("/page", h.page)

	engine.GET("/metrics", gin.WrapH(cfg.Metrics.Handler()))

	return engine
}

// New creates a server listening on cfg.Addr.
// If Addr uses port 0 (e.g., "localhost:0"), the OS will assign an available port.
func New(cfg Config) (*Server, error) {
	if cfg.Processor == nil {
		return nil, fmt.Errorf("server: processor is required")
	}

	readTimeout := cfg.ReadTimeout
	if readTimeout == 0 {
		readTimeout = 30 * time.Second
	}
	writeTimeout := cfg.WriteTimeout
	if writeTimeout == 0 {
		writeTimeout = 30 * time.Second
	}

	listener, err := net.Listen("tcp", cfg.Addr)
	if err != nil {
		return nil, fmt.Errorf("failed to listen on %s: %w", cfg.Addr, err)
	}

	port := 0
	if tcpAddr, ok := listener.Addr().(*net.TCPAddr); ok {
		port = tcpAddr.Port
	}

	engine := NewEngine(cfg)
	return &Server{
		engine:   engine,
		listener: listener,
		port:     port,
		server: &http.Server{
			Handler:           engine,
			ReadTimeout:       readTimeout,
			ReadHeaderTimeout: 10 * time.Second,
			WriteTimeout:      writeTimeout,
		},
	}, nil
}

// Start serves until Stop is called or the listener fails.
// It returns nil after a graceful Stop.
func (s *Server) Start() error {
	log.Info(log.CatServer, "Starting API server", "addr", s.listener.Addr().String(), "port", s.port)
	if err := s.server.Serve(s.listener); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Stop gracefully shuts down the server.
func (s *Server) Stop(ctx context.Context) error {
	log.Info(log.CatServer, "Stopping API server")
	return s.server.Shutdown(ctx)
}

// Port returns the actual port the server is listening on.
func (s *Server) Port() int {
	return s.port
}

// Handler returns the routed engine.
func (s *Server) Handler() http.Handler {
	return s.engine
}
