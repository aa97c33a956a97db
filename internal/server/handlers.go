package server

import (
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/spigell/skillmatch/internal/ai"
	"github.com/spigell/skillmatch/internal/cv"
	"github.com/spigell/skillmatch/internal/document"
	"github.com/spigell/skillmatch/internal/export"
	"github.com/spigell/skillmatch/internal/filtering"
	"github.com/spigell/skillmatch/internal/jobdesc"
	"github.com/spigell/skillmatch/internal/matching"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

var errUnavailable = errors.New("not configured")

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok", "model": s.deps.ModelAvailable()})
}

type analyzeRequest struct {
	Text string `json:"text" binding:"required"`
}

func (s *Server) analyze(c *gin.Context) {
	var req analyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abort(c, http.StatusBadRequest, err)
		return
	}
	text, err := document.CheckText(req.Text)
	if err != nil {
		abort(c, http.StatusBadRequest, err)
		return
	}
	if s.deps.Analyzer == nil {
		abort(c, http.StatusServiceUnavailable, fmt.Errorf("analyzer %w", errUnavailable))
		return
	}

	c.JSON(http.StatusOK, s.deps.Analyzer.Analyze(c.Request.Context(), text))
}

// upload stores the multipart "cv" file in a temporary file that is removed
// before the handler returns.
func (s *Server) upload(c *gin.Context) {
	if s.deps.Analyzer == nil || s.deps.Documents == nil {
		abort(c, http.StatusServiceUnavailable, fmt.Errorf("analyzer %w", errUnavailable))
		return
	}

	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, s.opts.MaxUploadBytes)
	fh, err := c.FormFile("cv")
	if err != nil {
		abort(c, http.StatusBadRequest, fmt.Errorf("cv file is required: %w", err))
		return
	}

	ext := strings.ToLower(filepath.Ext(fh.Filename))
	tmp, err := os.CreateTemp("", "skillmatch-cv-*"+ext)
	if err != nil {
		abort(c, http.StatusInternalServerError, err)
		return
	}
	path := tmp.Name()
	tmp.Close()
	defer func() {
		if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
			s.logger.Warn("remove upload", zap.String("path", path), zap.Error(err))
		}
	}()

	if err := c.SaveUploadedFile(fh, path); err != nil {
		abort(c, http.StatusInternalServerError, err)
		return
	}

	text, err := s.deps.Documents.ExtractText(c.Request.Context(), path)
	if err != nil {
		abort(c, http.StatusUnprocessableEntity, err)
		return
	}

	c.JSON(http.StatusOK, s.deps.Analyzer.Analyze(c.Request.Context(), text))
}

type matchRequest struct {
	Job       matching.JobPosting `json:"job"`
	Candidate cv.CandidateProfile `json:"candidate"`
}

func (s *Server) match(c *gin.Context) {
	var req matchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abort(c, http.StatusBadRequest, err)
		return
	}
	if s.deps.Matcher == nil {
		abort(c, http.StatusServiceUnavailable, fmt.Errorf("matcher %w", errUnavailable))
		return
	}

	c.JSON(http.StatusOK, s.deps.Matcher.Match(c.Request.Context(), req.Job, req.Candidate))
}

type recommendRequest struct {
	Candidate cv.CandidateProfile   `json:"candidate"`
	Jobs      []matching.JobPosting `json:"jobs"`
	Limit     int                   `json:"limit"`
}

func (s *Server) recommend(c *gin.Context) {
	var req recommendRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abort(c, http.StatusBadRequest, err)
		return
	}
	if s.deps.Matcher == nil {
		abort(c, http.StatusServiceUnavailable, fmt.Errorf("matcher %w", errUnavailable))
		return
	}

	recs := s.deps.Matcher.RecommendJobs(c.Request.Context(), req.Candidate, req.Jobs, s.limit(req.Limit))
	c.JSON(http.StatusOK, gin.H{"recommendations": recs})
}

type rankRequest struct {
	Job        matching.JobPosting   `json:"job"`
	Candidates []cv.CandidateProfile `json:"candidates"`
	Limit      int                   `json:"limit"`
}

// rank answers with JSON, or with a workbook when format=xlsx.
func (s *Server) rank(c *gin.Context) {
	var req rankRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abort(c, http.StatusBadRequest, err)
		return
	}
	if s.deps.Matcher == nil {
		abort(c, http.StatusServiceUnavailable, fmt.Errorf("matcher %w", errUnavailable))
		return
	}

	ranked := s.deps.Matcher.RankCandidates(c.Request.Context(), req.Job, req.Candidates, s.limit(req.Limit))

	if c.Query("format") != "xlsx" {
		c.JSON(http.StatusOK, gin.H{"candidates": ranked})
		return
	}

	c.Header("Content-Disposition", `attachment; filename="ranking.xlsx"`)
	c.Header("Content-Type", xlsxContentType)
	c.Status(http.StatusOK)
	if err := export.WriteRanking(c.Writer, export.Report{Job: req.Job, Ranked: ranked}); err != nil {
		s.logger.Error("write ranking workbook", zap.Error(err))
	}
}

type searchRequest struct {
	Criteria   filtering.Criteria    `json:"criteria"`
	Candidates []cv.CandidateProfile `json:"candidates"`
}

func (s *Server) search(c *gin.Context) {
	req := searchRequest{Criteria: filtering.DefaultCriteria()}
	if err := c.ShouldBindJSON(&req); err != nil {
		abort(c, http.StatusBadRequest, err)
		return
	}

	res, err := filtering.Search(c.Request.Context(), req.Criteria, s.logger, req.Candidates)
	if err != nil {
		abort(c, http.StatusBadRequest, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"results": res.Hits, "total": len(res.Hits), "steps": res.Steps})
}

func (s *Server) generate(c *gin.Context) {
	var req jobdesc.Request
	if err := c.ShouldBindJSON(&req); err != nil {
		abort(c, http.StatusBadRequest, err)
		return
	}
	if s.deps.Generator == nil {
		abort(c, http.StatusServiceUnavailable, fmt.Errorf("job description generator %w", errUnavailable))
		return
	}

	text, err := s.deps.Generator.Generate(c.Request.Context(), req)
	switch {
	case errors.Is(err, jobdesc.ErrEmptyTitle):
		abort(c, http.StatusBadRequest, err)
		return
	case errors.Is(err, ai.ErrUnavailable):
		abort(c, http.StatusServiceUnavailable, err)
		return
	case err != nil:
		abort(c, http.StatusBadGateway, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"description": text})
}

func (s *Server) limit(requested int) int {
	if requested > 0 {
		return requested
	}
	return s.opts.DefaultLimit
}
