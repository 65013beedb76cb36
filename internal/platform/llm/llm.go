package llm

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/yungbote/pathwise-backend/internal/platform/envutil"
	"github.com/yungbote/pathwise-backend/internal/platform/httpx"
	"github.com/yungbote/pathwise-backend/internal/platform/logger"
)

const (
	ProviderOpenAI    = "openai"
	ProviderAnthropic = "anthropic"
	ProviderGemini    = "gemini"

	DefaultMaxAttempts = 3
	DefaultRetryDelay  = time.Second

	// maxTokens caps completion length for every backend.
	maxTokens = 1024
)

// KeyEnv names the credential each provider reads at call time.
var KeyEnv = map[string]string{
	ProviderOpenAI:    "OPENAI_API_KEY",
	ProviderAnthropic: "ANTHROPIC_API_KEY",
	ProviderGemini:    "GEMINI_API_KEY",
}

// Backend performs one completion round-trip. It must not retry.
type Backend interface {
	Complete(ctx context.Context, apiKey, model, prompt string) (string, error)
}

type BackendFunc func(ctx context.Context, apiKey, model, prompt string) (string, error)

func (f BackendFunc) Complete(ctx context.Context, apiKey, model, prompt string) (string, error) {
	return f(ctx, apiKey, model, prompt)
}

// Observer receives one call per Send outcome. observability.Metrics implements it.
type Observer interface {
	ObserveLLMRequest(provider, outcome string, attempts int, d time.Duration)
}

type Options struct {
	Backends    map[string]Backend
	Credentials envutil.Source
	MaxAttempts int
	RetryDelay  time.Duration
	Observer    Observer
}

type Adapter struct {
	log         *logger.Logger
	backends    map[string]Backend
	creds       envutil.Source
	maxAttempts int
	retryDelay  time.Duration
	observer    Observer
}

func NewAdapter(log *logger.Logger, opts Options) *Adapter {
	if opts.Credentials == nil {
		opts.Credentials = envutil.OS()
	}
	if opts.MaxAttempts <= 0 {
		opts.MaxAttempts = DefaultMaxAttempts
	}
	if opts.RetryDelay < 0 {
		opts.RetryDelay = 0
	}
	backends := make(map[string]Backend, len(opts.Backends))
	for name, b := range opts.Backends {
		backends[strings.ToLower(strings.TrimSpace(name))] = b
	}
	return &Adapter{
		log:         log.With("service", "LLMAdapter"),
		backends:    backends,
		creds:       opts.Credentials,
		maxAttempts: opts.MaxAttempts,
		retryDelay:  opts.RetryDelay,
		observer:    opts.Observer,
	}
}

// DefaultBackends wires the three production providers.
func DefaultBackends(log *logger.Logger) map[string]Backend {
	return map[string]Backend{
		ProviderOpenAI:    NewOpenAI(log, OpenAIConfig{}),
		ProviderAnthropic: NewAnthropic(log, AnthropicConfig{}),
		ProviderGemini:    NewGemini(log, GeminiConfig{}),
	}
}

// Send delivers prompt to provider/model and returns the completion text.
// Unknown providers and missing keys fail before any attempt; transient
// failures are retried with a fixed delay; permanent ones (bad key, bad
// request, unknown model) stop immediately.
func (a *Adapter) Send(ctx context.Context, provider, model, prompt string) (string, error) {
	name := strings.ToLower(strings.TrimSpace(provider))
	backend, ok := a.backends[name]
	if !ok {
		return "", &UnsupportedProviderError{Provider: provider}
	}
	envKey := KeyEnv[name]
	apiKey := ""
	if envKey != "" {
		apiKey = a.creds.Get(envKey)
	}
	if apiKey == "" {
		a.observe(name, "not_configured", 0, 0)
		return "", &ProviderNotConfiguredError{Provider: name, EnvKey: envKey}
	}

	ctx, span := otel.Tracer("pathwise/llm").Start(ctx, "llm.send")
	defer span.End()
	span.SetAttributes(attribute.String("llm.provider", name), attribute.String("llm.model", model))

	start := time.Now()
	var lastErr error
	for attempt := 1; attempt <= a.maxAttempts; attempt++ {
		text, err := backend.Complete(ctx, apiKey, model, prompt)
		if err == nil {
			span.SetAttributes(attribute.Int("llm.attempts", attempt))
			a.observe(name, "ok", attempt, time.Since(start))
			return text, nil
		}
		lastErr = err
		a.log.Warn("LLM request failed",
			"provider", name,
			"model", model,
			"attempt", attempt,
			"max_attempts", a.maxAttempts,
			"error", err.Error(),
		)
		if ctx.Err() != nil || !httpx.IsRetryableError(err) || attempt == a.maxAttempts {
			return "", a.fail(span, name, attempt, start, err)
		}
		if sErr := httpx.Sleep(ctx, a.retryDelay); sErr != nil {
			return "", a.fail(span, name, attempt, start, errors.Join(lastErr, sErr))
		}
	}
	return "", a.fail(span, name, a.maxAttempts, start, lastErr)
}

func (a *Adapter) fail(span trace.Span, provider string, attempts int, start time.Time, err error) error {
	tErr := &ProviderTransportError{Provider: provider, Attempts: attempts, Err: err}
	span.RecordError(tErr)
	span.SetStatus(codes.Error, "llm request failed")
	a.observe(provider, "error", attempts, time.Since(start))
	return tErr
}

func (a *Adapter) observe(provider, outcome string, attempts int, d time.Duration) {
	if a.observer != nil {
		a.observer.ObserveLLMRequest(provider, outcome, attempts, d)
	}
}

// Configured reports whether the provider is known and has a key right now.
func (a *Adapter) Configured(provider string) bool {
	name := strings.ToLower(strings.TrimSpace(provider))
	if _, ok := a.backends[name]; !ok {
		return false
	}
	return a.creds.Get(KeyEnv[name]) != ""
}
