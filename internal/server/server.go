package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"summarizer-service/backend/internal/config"
	"summarizer-service/backend/internal/handler"
	"summarizer-service/backend/internal/log"
	"summarizer-service/backend/internal/metrics"
	"summarizer-service/backend/internal/middleware"
	"summarizer-service/backend/internal/summarizer"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// Server owns the router and the HTTP listener
type Server struct {
	cfg      *config.Config
	engine   *summarizer.Engine
	exporter *metrics.Exporter

	router *gin.Engine
	http   *http.Server
}

// New creates a server around a loaded engine
func New(cfg *config.Config, engine *summarizer.Engine) *Server {
	s := &Server{
		cfg:    cfg,
		engine: engine,
	}
	if cfg.MetricsEnabled {
		s.exporter = metrics.NewExporter(metrics.DefaultConfig())
	}

	handler.Init(engine, s.exporter)
	s.setupRouter()
	return s
}

// Router returns the configured gin engine
func (s *Server) Router() *gin.Engine {
	return s.router
}

func (s *Server) setupRouter() {
	if !s.cfg.IsDevelopment() {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.CustomRecovery(recoverJSON))
	r.Use(middleware.RequestID())
	r.Use(log.GinLogger())
	if s.exporter != nil {
		r.Use(s.exporter.Middleware())
	}
	r.Use(middleware.SecurityHeaders())
	if corsCfg := s.corsConfig(); len(corsCfg.AllowOrigins) > 0 {
		r.Use(cors.New(corsCfg))
	}
	r.Use(gzip.Gzip(gzip.DefaultCompression))
	if err := r.SetTrustedProxies(nil); err != nil {
		log.Warn().Err(err).Msg("failed to disable trusted proxies")
	}

	r.GET("/", handler.HandleHome)
	r.GET("/favicon.ico", handler.HandleFavicon)
	r.GET("/health", handler.HandleHealth)
	r.GET("/ready", handler.HandleReadiness)
	if s.exporter != nil {
		r.GET("/metrics", gin.WrapH(s.exporter.Handler()))
	}

	limit := s.rateLimit()
	r.POST("/summarize", limit, handler.HandleSummarize)
	r.POST("/api/summarize", limit, handler.HandleSummarize)

	s.router = r
}

func (s *Server) corsConfig() cors.Config {
	allowedOrigins := append([]string{}, s.cfg.AllowedOrigins...)
	if s.cfg.IsDevelopment() {
		allowedOrigins = append(allowedOrigins, "http://localhost:3000", "http://localhost:5173")
	}

	return cors.Config{
		AllowOrigins:     allowedOrigins,
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Content-Type", middleware.HeaderRequestID},
		ExposeHeaders:    []string{middleware.HeaderRequestID},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}
}

// rateLimit builds the optional limiter chain; both limits are off by default
func (s *Server) rateLimit() gin.HandlerFunc {
	var (
		ipLimiter *middleware.IPRateLimiter
		quota     *middleware.DailyQuota
	)
	if s.cfg.RateLimitRPS > 0 {
		ipLimiter = middleware.NewIPRateLimiter(rate.Limit(s.cfg.RateLimitRPS), max(s.cfg.RateLimitBurst, 1))
	}
	if s.cfg.DailyQuota > 0 {
		quota = middleware.NewDailyQuota(s.cfg.DailyQuota)
	}
	if ipLimiter != nil || quota != nil {
		log.Info().
			Float64("rps", s.cfg.RateLimitRPS).
			Int64("daily_quota", s.cfg.DailyQuota).
			Msg("rate limiting enabled")
	}
	return middleware.RateLimitMiddleware(ipLimiter, quota)
}

// recoverJSON answers a panic with a 500 error body so the process keeps serving
func recoverJSON(c *gin.Context, recovered any) {
	log.Error().Interface("panic", recovered).Str("path", c.Request.URL.Path).Msg("recovered from panic")
	c.AbortWithStatusJSON(http.StatusInternalServerError, handler.ErrorResponse{
		Error: fmt.Sprint(recovered),
	})
}

// Start runs the HTTP server and blocks until it stops
func (s *Server) Start() error {
	s.http = &http.Server{
		Addr:              s.cfg.Addr(),
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
		ErrorLog:          log.StdErrorLogger(),
	}

	log.Info().
		Str("addr", s.http.Addr).
		Str("env", s.cfg.Env).
		Str("backend", s.engine.BackendName()).
		Str("model", s.engine.Model()).
		Msg("HTTP server starting")

	if err := s.http.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown stops accepting requests and waits for in-flight ones
func (s *Server) Shutdown(ctx context.Context) error {
	log.Info().Msg("shutting down server")
	if s.http == nil {
		return nil
	}
	if err := s.http.Shutdown(ctx); err != nil {
		return fmt.Errorf("http server shutdown: %w", err)
	}
	return nil
}
