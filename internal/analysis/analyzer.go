// Package analysis turns raw CV text into a candidate profile. It tries the
// staged model extraction first, then the heuristic extractor, then a fixed
// emergency record, and never fails.
package analysis

import (
	"context"
	"errors"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spigell/skillmatch/internal/ai"
	"github.com/spigell/skillmatch/internal/cache"
	"github.com/spigell/skillmatch/internal/cv"
	"github.com/spigell/skillmatch/internal/logger"
	"github.com/spigell/skillmatch/internal/staged"
)

type ModelExtractor interface {
	Extract(ctx context.Context, text string) (staged.Result, error)
}

type HeuristicExtractor interface {
	Extract(text string) cv.CandidateProfile
}

type Config struct {
	Validator cv.Validator
	Defaults  cv.Defaults
	Cache     cache.Store
	Now       func() time.Time
	NewID     func() string
}

type Analyzer struct {
	model     ModelExtractor
	heuristic HeuristicExtractor
	cfg       Config
	logger    *zap.Logger
}

// New wires the extractors. model may be nil when no backend is configured.
func New(model ModelExtractor, heuristic HeuristicExtractor, cfg Config, log *zap.Logger) *Analyzer {
	if cfg.Validator.Threshold <= 0 {
		cfg.Validator = cv.NewValidator(cfg.Validator.Threshold)
	}
	if cfg.Cache == nil {
		cfg.Cache = cache.Nop{}
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if cfg.NewID == nil {
		cfg.NewID = uuid.NewString
	}

	return &Analyzer{
		model:     model,
		heuristic: heuristic,
		cfg:       cfg,
		logger:    logger.OrNop(log),
	}
}

type state int

const (
	stateTryModel state = iota
	stateTryHeuristic
	stateEmergency
	stateDone
)

func (s state) String() string {
	switch s {
	case stateTryModel:
		return "try-model"
	case stateTryHeuristic:
		return "try-heuristic"
	case stateEmergency:
		return "emergency"
	default:
		return "done"
	}
}

// Triggers of the transition from the model state to the heuristic one.
const (
	triggerModelError   = "model-error"
	triggerNoModelStage = "no-model-stage"
	triggerValidation   = "validation-failure"
	triggerOther        = "extractor-error"
)

func modelTrigger(err error) string {
	switch {
	case errors.Is(err, staged.ErrNoModelStage):
		return triggerNoModelStage
	case ai.IsModelError(err):
		return triggerModelError
	default:
		return triggerOther
	}
}

// run carries the state of one analysis.
type run struct {
	id     string
	text   string
	logger *zap.Logger
}

// Analyze always returns a profile; quality is reported through its metadata.
func (a *Analyzer) Analyze(ctx context.Context, text string) cv.CandidateProfile {
	r := run{id: a.cfg.NewID(), text: text}
	r.logger = logger.WithAnalysis(a.logger, r.id)

	key := cache.Key(text)
	if cached, ok := a.lookup(ctx, key, r.logger); ok {
		if profile, ok := a.revalidate(cached, r); ok {
			return profile
		}
	}

	var (
		profile cv.CandidateProfile
		st      = stateTryModel
	)
	for st != stateDone {
		r.logger.Debug("analysis state", zap.Stringer("state", st))
		switch st {
		case stateTryModel:
			profile, st = a.tryModel(ctx, r)
		case stateTryHeuristic:
			profile, st = a.tryHeuristic(r)
		case stateEmergency:
			profile, st = a.emergency(r), stateDone
		}
	}

	r.logger.Info("cv analysed",
		zap.String(logger.FieldMethod, string(profile.Metadata.Method)),
		zap.Int("validation_score", profile.Metadata.ValidationScore),
		zap.String("confidence", string(profile.Metadata.ConfidenceLevel)),
	)

	if profile.Metadata.Method == cv.MethodModelStaged {
		if err := a.cfg.Cache.Set(ctx, key, profile); err != nil {
			r.logger.Warn("cache profile", zap.Error(err))
		}
	}

	return profile
}

func (a *Analyzer) lookup(ctx context.Context, key string, log *zap.Logger) (cv.CandidateProfile, bool) {
	cached, ok, err := a.cfg.Cache.Get(ctx, key)
	if err != nil {
		log.Warn("read cached profile", zap.Error(err))
		return cv.CandidateProfile{}, false
	}
	if ok {
		log.Debug("profile served from cache", zap.String("cached_analysis_id", cached.Metadata.AnalysisID))
	}
	return cached, ok
}

// revalidate rebuilds a cached profile for this run: the score is recomputed
// and the metadata belongs to the current analysis.
func (a *Analyzer) revalidate(cached cv.CandidateProfile, r run) (cv.CandidateProfile, bool) {
	profile := cv.Normalize(cached.Draft(), a.cfg.Defaults)
	validation := a.cfg.Validator.Validate(profile)
	if !validation.Passed {
		r.logger.Info("cached profile no longer passes validation, extracting again",
			zap.Int("validation_score", validation.Score),
		)
		return cv.CandidateProfile{}, false
	}

	a.attach(&profile, r, cv.MethodModelStaged, validation)
	profile.Metadata.Stages = cached.Metadata.Stages
	return profile, true
}

func (a *Analyzer) tryModel(ctx context.Context, r run) (profile cv.CandidateProfile, next state) {
	if a.model == nil {
		return profile, stateTryHeuristic
	}

	defer func() {
		if rec := recover(); rec != nil {
			r.logger.Error("model extraction panicked", zap.Any("panic", rec))
			profile, next = cv.CandidateProfile{}, stateTryHeuristic
		}
	}()

	res, err := a.model.Extract(ctx, r.text)
	if err != nil {
		r.logger.Warn("model extraction unusable, trying heuristic",
			zap.String("trigger", modelTrigger(err)),
			zap.Error(err),
		)
		return profile, stateTryHeuristic
	}

	profile = cv.Normalize(res.Draft, a.cfg.Defaults)
	validation := a.cfg.Validator.Validate(profile)
	if !validation.Passed {
		r.logger.Warn("model extraction failed validation, trying heuristic",
			zap.String("trigger", triggerValidation),
			zap.Int("validation_score", validation.Score),
			zap.Strings("details", validation.Details),
		)
		return cv.CandidateProfile{}, stateTryHeuristic
	}

	a.attach(&profile, r, cv.MethodModelStaged, validation)
	profile.Metadata.Stages = res.Stages
	return profile, stateDone
}

func (a *Analyzer) tryHeuristic(r run) (profile cv.CandidateProfile, next state) {
	if a.heuristic == nil {
		r.logger.Error("heuristic extractor is not configured")
		return profile, stateEmergency
	}

	defer func() {
		if rec := recover(); rec != nil {
			r.logger.Error("heuristic extraction panicked", zap.Any("panic", rec))
			profile, next = cv.CandidateProfile{}, stateEmergency
		}
	}()

	profile = cv.Normalize(a.heuristic.Extract(r.text).Draft(), a.cfg.Defaults)
	validation := a.cfg.Validator.Validate(profile)

	method := cv.MethodHeuristic
	if !validation.Passed {
		method = cv.MethodHeuristicLowConfidence
	}
	a.attach(&profile, r, method, validation)
	return profile, stateDone
}

func (a *Analyzer) emergency(r run) cv.CandidateProfile {
	profile := cv.Emergency(a.cfg.Defaults)
	profile.Metadata.AnalysisID = r.id
	profile.Metadata.ProcessedAt = a.cfg.Now()
	profile.Metadata.SourceTextLength = utf8.RuneCountInString(r.text)
	return profile
}

func (a *Analyzer) attach(p *cv.CandidateProfile, r run, method cv.Method, v cv.Validation) {
	p.Metadata = cv.Metadata{
		AnalysisID:        r.id,
		Method:            method,
		ValidationScore:   v.Score,
		ValidationDetails: v.Details,
		ProcessedAt:       a.cfg.Now(),
		SourceTextLength:  utf8.RuneCountInString(r.text),
		ConfidenceLevel:   cv.Confidence(method, v.Score),
	}
}
