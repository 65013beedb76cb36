package coursegen

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	types "github.com/yungbote/pathwise-backend/internal/domain"
	"github.com/yungbote/pathwise-backend/internal/platform/llm"
	"github.com/yungbote/pathwise-backend/internal/platform/logger"
)

const (
	DefaultProvider = "anthropic"
	DefaultModel    = "claude-3-5-sonnet-20241022"
)

// Kind says which path produced a curriculum.
type Kind string

const (
	KindAI       Kind = "ai"
	KindTemplate Kind = "template"
)

// FallbackReason classifies why the template path ran. It is safe to show
// to end users; the underlying error only goes to logs and traces.
type FallbackReason string

const (
	FallbackNotConfigured       FallbackReason = "not_configured"
	FallbackUnsupportedProvider FallbackReason = "unsupported_provider"
	FallbackTimeout             FallbackReason = "timeout"
	FallbackTransport           FallbackReason = "transport"
	FallbackPanic               FallbackReason = "panic"
)

var (
	errGenerationPanic = errors.New("course generation panicked")
	errNoLLM           = errors.New("no LLM configured")
)

// ClassifyFallback maps an AI-path failure onto a FallbackReason.
func ClassifyFallback(ctx context.Context, err error) FallbackReason {
	var nErr *llm.ProviderNotConfiguredError
	var uErr *llm.UnsupportedProviderError
	switch {
	case errors.Is(err, errGenerationPanic):
		return FallbackPanic
	case errors.As(err, &nErr), errors.Is(err, errNoLLM):
		return FallbackNotConfigured
	case errors.As(err, &uErr):
		return FallbackUnsupportedProvider
	case ctx.Err() != nil:
		return FallbackTimeout
	default:
		return FallbackTransport
	}
}

// Result is what Generate hands back. FallbackReason is set only for
// KindTemplate.
type Result struct {
	Kind           Kind             `json:"kind"`
	Curriculum     types.Curriculum `json:"curriculum"`
	FallbackReason FallbackReason   `json:"fallbackReason,omitempty"`
}

// LLM sends one prompt to a named provider.
type LLM interface {
	Send(ctx context.Context, provider, model, prompt string) (string, error)
}

type VideoSource interface {
	SearchVideos(ctx context.Context, topic string, count int) []types.Resource
	CurateEducationalContent(ctx context.Context, topic string, level types.Level) []types.Resource
}

type ArticleSource interface {
	CurateByLevel(ctx context.Context, topic string, level types.Level) []types.Resource
	FindProjectArticles(ctx context.Context, topic string) []types.Resource
}

type Observer interface {
	ObserveCourseGeneration(kind string, d time.Duration)
}

type Config struct {
	Provider string
	Model    string
	// IncludePlaylists swaps the main-topic video search for the combined
	// video and playlist curation.
	IncludePlaylists bool
}

type Deps struct {
	Log      *logger.Logger
	LLM      LLM
	Videos   VideoSource
	Articles ArticleSource
	Observer Observer
}

type Generator struct {
	log      *logger.Logger
	llm      LLM
	videos   VideoSource
	articles ArticleSource
	observer Observer
	cfg      Config
}

func New(deps Deps, cfg Config) *Generator {
	if cfg.Provider == "" {
		cfg.Provider = DefaultProvider
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	return &Generator{
		log:      deps.Log.With("service", "CourseGenerator"),
		llm:      deps.LLM,
		videos:   deps.Videos,
		articles: deps.Articles,
		observer: deps.Observer,
		cfg:      cfg,
	}
}

func tracer() trace.Tracer { return otel.Tracer("pathwise/coursegen") }

// Generate always returns a curriculum. Any failure on the AI path (provider
// error, undecodable output, panic) switches to the template path, and the
// reason is reported in the result rather than as an error.
func (g *Generator) Generate(ctx context.Context, req Request) Result {
	ctx, span := tracer().Start(ctx, "coursegen.generate")
	defer span.End()
	span.SetAttributes(
		attribute.String("coursegen.topic", req.Topic),
		attribute.String("coursegen.level", string(req.Level)),
		attribute.String("coursegen.pace", string(req.Pace)),
		attribute.String("coursegen.provider", g.cfg.Provider),
	)
	start := time.Now()

	cur, err := g.generateAI(ctx, span, req)
	if err == nil {
		span.AddEvent("done", trace.WithAttributes(attribute.String("kind", string(KindAI))))
		g.observe(KindAI, start)
		return Result{Kind: KindAI, Curriculum: cur}
	}

	g.log.Warn("AI course generation failed, using template",
		"topic", req.Topic,
		"provider", g.cfg.Provider,
		"model", g.cfg.Model,
		"error", err.Error(),
	)
	reason := ClassifyFallback(ctx, err)
	span.AddEvent("template_fallback", trace.WithAttributes(
		attribute.String("reason", string(reason)),
		attribute.String("error", err.Error()),
	))
	cur = g.Template(ctx, req)
	span.AddEvent("done", trace.WithAttributes(attribute.String("kind", string(KindTemplate))))
	g.observe(KindTemplate, start)
	return Result{Kind: KindTemplate, Curriculum: cur, FallbackReason: reason}
}

func (g *Generator) generateAI(ctx context.Context, span trace.Span, req Request) (cur types.Curriculum, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", errGenerationPanic, r)
		}
	}()
	if g.llm == nil {
		return types.Curriculum{}, errNoLLM
	}

	prompt := BuildPrompt(req)
	span.AddEvent("prompt_built")

	text, err := g.llm.Send(ctx, g.cfg.Provider, g.cfg.Model, prompt)
	if err != nil {
		return types.Curriculum{}, err
	}
	span.AddEvent("llm_called")

	parsed, perr := DecodeCurriculum(text)
	if perr != nil {
		g.log.Warn("Model output was not a JSON object, using skeleton", "topic", req.Topic, "error", perr.Error())
		parsed = Skeleton()
	}
	span.AddEvent("parsed", trace.WithAttributes(
		attribute.Int("modules", len(parsed.Modules)),
		attribute.Bool("skeleton", perr != nil),
	))

	return g.Enrich(ctx, parsed, req.Topic, req.Level), nil
}

// Summary is the preview shown before a learner spends a credit.
type Summary struct {
	Topic             string      `json:"topic"`
	Level             types.Level `json:"level"`
	EstimatedModules  string      `json:"estimatedModules"`
	EstimatedProjects string      `json:"estimatedProjects"`
	CreditsRequired   int         `json:"creditsRequired"`
	ApproxDuration    string      `json:"approxDuration"`
}

func (g *Generator) Summary(topic string, level types.Level) Summary {
	return Summary{
		Topic:             topic,
		Level:             level,
		EstimatedModules:  "4-6 modules",
		EstimatedProjects: "3-5 hands-on projects",
		CreditsRequired:   1,
		ApproxDuration:    "4-8 weeks",
	}
}

func (g *Generator) observe(kind Kind, start time.Time) {
	if g.observer != nil {
		g.observer.ObserveCourseGeneration(string(kind), time.Since(start))
	}
}
