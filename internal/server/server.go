// Package server exposes the dashboard over a read-only JSON API.
package server

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/finewise-dev/finewise/internal/dashboard"
)

// RequestIDHeader carries the per-request ID.
const RequestIDHeader = "X-Request-ID"

// Error codes used in the error envelope.
const (
	CodeBadRequest    = "BAD_REQUEST"
	CodeUpstreamError = "UPSTREAM_ERROR"
)

// Server serves dashboard reports.
type Server struct {
	dash   *dashboard.Service
	clock  func() time.Time
	logger *slog.Logger
}

// New creates a Server. clock supplies the reference date when a request
// does not pass one; nil means time.Now.
func New(dash *dashboard.Service, clock func() time.Time, logger *slog.Logger) *Server {
	if clock == nil {
		clock = time.Now
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{dash: dash, clock: clock, logger: logger}
}

// Handler builds the gin engine with all routes registered.
func (s *Server) Handler() http.Handler {
	r := gin.New()
	r.Use(gin.Recovery(), s.requestLogger())

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/api/v1")
	api.GET("/analytics", s.handleAnalytics)

	return r
}

// handleAnalytics returns the dashboard. Query parameters:
// now=YYYY-MM-DD (default today), year=YYYY (default the year of now).
func (s *Server) handleAnalytics(c *gin.Context) {
	loc := s.dash.Location()

	now := s.clock().In(loc)
	if v := c.Query("now"); v != "" {
		t, err := time.ParseInLocation("2006-01-02", v, loc)
		if err != nil {
			abortWithError(c, http.StatusBadRequest, CodeBadRequest, "now must be a date in YYYY-MM-DD form")
			return
		}
		now = t
	}

	year := now.Year()
	if v := c.Query("year"); v != "" {
		y, err := strconv.Atoi(v)
		if err != nil || y < 1 || y > 9999 {
			abortWithError(c, http.StatusBadRequest, CodeBadRequest, "year must be a four digit year")
			return
		}
		year = y
	}

	view, err := s.dash.Report(c.Request.Context(), now, year)
	if err != nil {
		s.logger.ErrorContext(c.Request.Context(), "building analytics failed",
			"request_id", c.GetString(RequestIDHeader), "error", err)
		abortWithError(c, http.StatusBadGateway, CodeUpstreamError, "failed to fetch expenses")
		return
	}

	c.JSON(http.StatusOK, view)
}

func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(RequestIDHeader)
		if _, err := uuid.Parse(id); err != nil {
			id = uuid.NewString()
		}
		c.Set(RequestIDHeader, id)
		c.Header(RequestIDHeader, id)

		start := time.Now()
		c.Next()

		s.logger.Info("request",
			"request_id", id,
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status_code", c.Writer.Status(),
			"duration_ms", time.Since(start).Milliseconds(),
		)
	}
}

type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func abortWithError(c *gin.Context, status int, code, message string) {
	c.AbortWithStatusJSON(status, gin.H{"error": errorBody{Code: code, Message: message}})
}

