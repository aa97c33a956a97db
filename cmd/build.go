package cmd

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/spigell/skillmatch/internal/ai"
	"github.com/spigell/skillmatch/internal/ai/chat"
	"github.com/spigell/skillmatch/internal/ai/gemini"
	"github.com/spigell/skillmatch/internal/analysis"
	"github.com/spigell/skillmatch/internal/cache"
	"github.com/spigell/skillmatch/internal/config"
	"github.com/spigell/skillmatch/internal/cv"
	"github.com/spigell/skillmatch/internal/document"
	"github.com/spigell/skillmatch/internal/heuristic"
	"github.com/spigell/skillmatch/internal/jobdesc"
	"github.com/spigell/skillmatch/internal/logger"
	"github.com/spigell/skillmatch/internal/matching"
	"github.com/spigell/skillmatch/internal/secrets"
	"github.com/spigell/skillmatch/internal/staged"
)

// services holds everything a command may need, built from one config.
type services struct {
	config    *config.Config
	logger    *zap.Logger
	gateway   *ai.Gateway
	analyzer  *analysis.Analyzer
	matcher   *matching.Matcher
	generator *jobdesc.Generator
	documents *document.Extractor

	closers []func() error
}

// setup builds the logger and the services or exits the process.
func setup(ctx context.Context) *services {
	l, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}

	cfg, err := getConfig()
	if err != nil {
		l.Fatal("getting a config", zap.Error(err))
	}

	l.Debug("starting", zap.String("app", app), zap.String("version", version), zap.Any("config", redacted(cfg)))

	s, err := buildServices(ctx, cfg, l)
	if err != nil {
		l.Fatal("building services", zap.Error(err))
	}
	return s
}

func buildServices(ctx context.Context, cfg *config.Config, l *zap.Logger) (*services, error) {
	s := &services{config: cfg, logger: l, documents: document.New()}

	completer, err := newCompleter(ctx, cfg.AI, l)
	if err != nil {
		l.Warn("model backend disabled, using heuristics only", zap.Error(err))
		completer = nil
	}
	s.gateway = ai.NewGateway(completer, l, cfg.AI.MaxLogLength)

	tables := heuristic.DefaultTables()
	heur := heuristic.New(tables, cfg.Defaults, time.Now)

	var model analysis.ModelExtractor
	if s.gateway.Available() {
		model = staged.New(s.gateway, heur, staged.Config{
			Taxonomy: tables.DomainLabels(),
			Retry:    cfg.Retry,
			Parallel: cfg.AI.ParallelStages,
		}, l)
	}

	store := cache.Store(cache.Nop{})
	if cfg.Cache.Enabled {
		r := cache.NewRedis(ctx, cfg.Cache.Redis, l)
		s.closers = append(s.closers, r.Close)
		store = r
	}

	s.analyzer = analysis.New(model, heur, analysis.Config{
		Validator: cv.NewValidator(cfg.Validation.Threshold),
		Defaults:  cfg.Defaults,
		Cache:     store,
	}, l)

	s.matcher = matching.New(s.gateway, matching.Config{
		Retry:       cfg.Retry,
		Concurrency: cfg.Match.Concurrency,
	}, l)

	if s.gateway.Available() {
		s.generator = jobdesc.New(s.gateway, cfg.Retry, l)
	}

	return s, nil
}

var errAIDisabled = errors.New("ai is disabled in configuration")

func newCompleter(ctx context.Context, cfg *config.AIConfig, l *zap.Logger) (ai.Completer, error) {
	if cfg == nil || !cfg.Enabled {
		return nil, errAIDisabled
	}

	switch cfg.Provider {
	case config.ProviderGemini:
		key, err := secrets.Load(cfg.Gemini.Secret())
		if err != nil {
			return nil, fmt.Errorf("%w (set ai.gemini.api-key-file or %s)", err, cfg.Gemini.APIKeyEnv)
		}
		return gemini.NewGenerator(ctx, key, cfg.Gemini.Model, l)
	case config.ProviderChat, "":
		if cfg.Chat.Endpoint == "" {
			return nil, errors.New("ai.chat.endpoint is not configured")
		}
		key, err := secrets.Load(cfg.Chat.Secret())
		if err != nil {
			return nil, err
		}
		return chat.New(cfg.Chat.Endpoint, cfg.Chat.Model, key, l)
	default:
		return nil, fmt.Errorf("unsupported ai provider: %s", cfg.Provider)
	}
}

func (s *services) close() {
	for _, c := range s.closers {
		if err := c(); err != nil {
			s.logger.Warn("closing", zap.Error(err))
		}
	}
	_ = s.logger.Sync()
}

// redacted returns a copy of cfg without inline credentials.
func redacted(cfg *config.Config) config.Config {
	out := *cfg
	aiCfg := *cfg.AI
	chatCfg, geminiCfg := *cfg.AI.Chat, *cfg.AI.Gemini
	if chatCfg.APIKey != "" {
		chatCfg.APIKey = "***"
	}
	if geminiCfg.APIKey != "" {
		geminiCfg.APIKey = "***"
	}
	aiCfg.Chat, aiCfg.Gemini = &chatCfg, &geminiCfg
	out.AI = &aiCfg
	if out.Cache.Redis.Password != "" {
		out.Cache.Redis.Password = "***"
	}
	return out
}
