// Package server exposes analysis, matching, search and job-description
// generation over HTTP.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spigell/skillmatch/internal/cv"
	"github.com/spigell/skillmatch/internal/jobdesc"
	"github.com/spigell/skillmatch/internal/logger"
	"github.com/spigell/skillmatch/internal/matching"
)

type Analyzer interface {
	Analyze(ctx context.Context, text string) cv.CandidateProfile
}

type Matcher interface {
	Match(ctx context.Context, job matching.JobPosting, candidate cv.CandidateProfile) matching.MatchResult
	RankCandidates(ctx context.Context, job matching.JobPosting, candidates []cv.CandidateProfile, limit int) []matching.RankedCandidate
	RecommendJobs(ctx context.Context, candidate cv.CandidateProfile, jobs []matching.JobPosting, limit int) []matching.JobRecommendation
}

type Generator interface {
	Generate(ctx context.Context, req jobdesc.Request) (string, error)
}

type TextExtractor interface {
	ExtractText(ctx context.Context, path string) (string, error)
}

type Deps struct {
	Analyzer  Analyzer
	Matcher   Matcher
	Generator Generator
	Documents TextExtractor
	// ModelAvailable is reported by the health endpoint.
	ModelAvailable func() bool
}

type Options struct {
	MaxUploadBytes int64
	DefaultLimit   int
}

type Server struct {
	deps   Deps
	opts   Options
	logger *zap.Logger
	engine *gin.Engine
}

func New(deps Deps, opts Options, log *zap.Logger) *Server {
	if opts.MaxUploadBytes <= 0 {
		opts.MaxUploadBytes = 10 << 20
	}
	if opts.DefaultLimit <= 0 {
		opts.DefaultLimit = matching.DefaultRankLimit
	}
	if deps.ModelAvailable == nil {
		deps.ModelAvailable = func() bool { return false }
	}

	s := &Server{deps: deps, opts: opts, logger: logger.OrNop(log)}
	s.engine = s.routes()
	return s
}

func (s *Server) Handler() http.Handler {
	return s.engine
}

func (s *Server) routes() *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.MaxMultipartMemory = s.opts.MaxUploadBytes
	r.Use(gin.Recovery(), requestID(), s.accessLog())

	r.GET("/healthz", s.health)

	api := r.Group("/api")
	api.POST("/cv/analyze", s.analyze)
	api.POST("/cv/upload", s.upload)
	api.POST("/match", s.match)
	api.POST("/jobs/recommend", s.recommend)
	api.POST("/candidates/rank", s.rank)
	api.POST("/candidates/search", s.search)
	api.POST("/generate-job-description", s.generate)

	return r
}

// Run serves on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("http server listening", zap.String("addr", addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	s.logger.Info("http server shutting down")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http server shutdown: %w", err)
	}
	return nil
}

const requestIDHeader = "X-Request-ID"

func requestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set("request_id", id)
		c.Header(requestIDHeader, id)
		c.Next()
	}
}

func (s *Server) accessLog() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		fields := []zap.Field{
			zap.String("request_id", c.GetString("request_id")),
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("duration", time.Since(start)),
			zap.String("client_ip", c.ClientIP()),
		}
		switch status := c.Writer.Status(); {
		case status >= 500:
			s.logger.Error("http request", fields...)
		case status >= 400:
			s.logger.Warn("http request", fields...)
		default:
			s.logger.Info("http request", fields...)
		}
	}
}

func abort(c *gin.Context, status int, err error) {
	c.AbortWithStatusJSON(status, gin.H{"error": err.Error()})
}
