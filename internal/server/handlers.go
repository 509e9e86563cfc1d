package server

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/zjrosen/glint/internal/blocks"
	"github.com/zjrosen/glint/internal/highlight"
	"github.com/zjrosen/glint/internal/log"
	"github.com/zjrosen/glint/internal/page"
	"github.com/zjrosen/glint/internal/presentation"
)

// Output formats for POST /api/highlight.
const (
	FormatHTML     = "html"
	FormatSegments = "segments"
)

// APIResponse is the envelope for every JSON response.
type APIResponse struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
}

// HealthResponse is the body of GET /api/health.
type HealthResponse struct {
	Status      string `json:"status"`
	Version     string `json:"version"`
	Uptime      string `json:"uptime"`
	Rules       int    `json:"rules"`
	Fingerprint string `json:"fingerprint"`
}

// HighlightRequest is the body of POST /api/highlight.
type HighlightRequest struct {
	Code     string `json:"code"`
	Format   string `json:"format,omitempty"` // "html" (default) or "segments"
	Language string `json:"language,omitempty"`
}

// HighlightResponse is returned for format "html".
type HighlightResponse struct {
	ID          string `json:"id"`
	HTML        string `json:"html"`
	Result      string `json:"result"` // rendered, cached or stored
	Fingerprint string `json:"fingerprint"`
}

// Response headers set by POST /api/page.
const (
	HeaderBlocksFound     = "X-Glint-Blocks-Found"
	HeaderBlocksProcessed = "X-Glint-Blocks-Processed"
)

type handler struct {
	processor *blocks.Processor
	pageOpts  page.Options
	version   string
	started   time.Time
}

func newHandler(cfg Config) *handler {
	version := cfg.Version
	if version == "" {
		version = "dev"
	}
	return &handler{
		processor: cfg.Processor,
		pageOpts:  cfg.Page,
		version:   version,
		started:   time.Now(),
	}
}

func (h *handler) health(c *gin.Context) {
	rules := h.processor.Rules()
	c.JSON(http.StatusOK, APIResponse{
		Success: true,
		Data: HealthResponse{
			Status:      "ok",
			Version:     h.version,
			Uptime:      time.Since(h.started).Round(time.Second).String(),
			Rules:       rules.Len(),
			Fingerprint: rules.Fingerprint(),
		},
	})
}

func (h *handler) rules(c *gin.Context) {
	c.JSON(http.StatusOK, APIResponse{
		Success: true,
		Data:    presentation.FromRuleSet(h.processor.Rules()),
	})
}

// highlight accepts empty code: it yields empty HTML or zero segments.
func (h *handler) highlight(c *gin.Context) {
	var req HighlightRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, err)
		return
	}

	switch req.Format {
	case "", FormatHTML:
		b := &blocks.Block{Language: req.Language, Source: req.Code}
		result, err := h.processor.Process(c.Request.Context(), b)
		if err != nil {
			h.internalError(c, err)
			return
		}
		c.JSON(http.StatusOK, APIResponse{
			Success: true,
			Data: HighlightResponse{
				ID:          b.ID,
				HTML:        b.HTML,
				Result:      result.String(),
				Fingerprint: h.processor.Rules().Fingerprint(),
			},
		})

	case FormatSegments:
		rules := h.processor.Rules()
		segments := highlight.Tokenize(req.Code, rules)
		c.JSON(http.StatusOK, APIResponse{
			Success: true,
			Data:    presentation.FromSegments(req.Code, segments, rules),
		})

	default:
		h.badRequest(c, fmt.Errorf("unknown format %q (valid: %s, %s)", req.Format, FormatHTML, FormatSegments))
	}
}

func (h *handler) page(c *gin.Context) {
	report, out, err := page.Highlight(c.Request.Context(), c.Request.Body, h.processor, h.pageOpts)
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			h.badRequest(c, err)
			return
		}
		h.internalError(c, err)
		return
	}

	c.Header(HeaderBlocksFound, strconv.Itoa(report.Found))
	c.Header(HeaderBlocksProcessed, strconv.Itoa(report.Processed()))
	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(out))
}

// badRequest answers 400, or 413 when the body exceeded the size limit.
func (h *handler) badRequest(c *gin.Context, err error) {
	status := http.StatusBadRequest
	var maxErr *http.MaxBytesError
	if errors.As(err, &maxErr) {
		status = http.StatusRequestEntityTooLarge
	}
	_ = c.Error(err)
	c.JSON(status, APIResponse{Success: false, Error: fmt.Sprintf("invalid request: %v", err)})
}

func (h *handler) internalError(c *gin.Context, err error) {
	_ = c.Error(err)
	log.ErrorErr(log.CatServer, "request failed", err, "path", c.Request.URL.Path)
	c.JSON(http.StatusInternalServerError, APIResponse{Success: false, Error: err.Error()})
}
