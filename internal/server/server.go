// Package server exposes the scan pipeline over HTTP.
package server

import (
	"errors"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/gin-gonic/gin"

	"NewsScanner/internal/config"
	"NewsScanner/internal/domain"
	"NewsScanner/internal/usecase"
)

// Server serves the scan API and, optionally, the static frontend.
type Server struct {
	scanner *usecase.Scanner
	cfg     config.Config
	logger  *slog.Logger
}

// New wires the scanner into an HTTP surface.
func New(scanner *usecase.Scanner, cfg config.Config, log *slog.Logger) *Server {
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Server{scanner: scanner, cfg: cfg, logger: log}
}

// Router builds the gin engine with all routes registered.
func (s *Server) Router() *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())

	r.GET("/health", s.health)
	r.GET("/api", s.info)
	r.POST("/api/scan", s.scan)

	if dir := s.cfg.Server.StaticDir; dir != "" {
		if _, err := os.Stat(dir); err == nil {
			r.Static("/static", dir)
			r.StaticFile("/", filepath.Join(dir, "index.html"))
		}
	}

	return r
}

// Run blocks serving HTTP on the configured address.
func (s *Server) Run() error {
	s.logger.Info("http server listening", "addr", s.cfg.Server.Addr)
	return s.Router().Run(s.cfg.Server.Addr)
}

type scanRequest struct {
	SearchSource string `json:"search_source"`
}

func (s *Server) scan(c *gin.Context) {
	var req scanRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "invalid request body"})
		return
	}

	source, ok := parseSource(req.SearchSource)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "search_source must be \"feed\" or \"web\""})
		return
	}

	rep, err := s.scanner.Scan(c.Request.Context(), source)
	if err != nil {
		s.logger.Error("scan failed", "source", source, "error", err)
		status := http.StatusInternalServerError
		if errors.Is(err, usecase.ErrNoStrategicContext) || errors.Is(err, usecase.ErrNoCollector) {
			status = http.StatusServiceUnavailable
		}
		c.JSON(status, gin.H{"detail": "scan failed: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, rep)
}

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "healthy",
		"timestamp": time.Now().Format(time.RFC3339),
		"config":    s.cfg.Status(),
	})
}

func (s *Server) info(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"name":    "Industry News Scanner API",
		"version": "1.0.0",
		"endpoints": gin.H{
			"health": "/health",
			"scan":   "/api/scan (POST)",
		},
	})
}

// parseSource accepts the enum plus the legacy "rss" alias; an empty
// value defaults to feed collection.
func parseSource(raw string) (domain.SearchSource, bool) {
	switch raw {
	case "", "feed", "rss":
		return domain.SourceFeed, true
	case "web":
		return domain.SourceWeb, true
	default:
		return "", false
	}
}
