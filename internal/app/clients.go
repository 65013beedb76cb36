package app

import (
	"github.com/yungbote/pathwise-backend/internal/clients/redis"
	"github.com/yungbote/pathwise-backend/internal/modules/learning/coursegen"
	"github.com/yungbote/pathwise-backend/internal/observability"
	"github.com/yungbote/pathwise-backend/internal/platform/articles"
	"github.com/yungbote/pathwise-backend/internal/platform/llm"
	"github.com/yungbote/pathwise-backend/internal/platform/logger"
	"github.com/yungbote/pathwise-backend/internal/platform/youtube"
)

type Clients struct {
	LLM       *llm.Adapter
	YouTube   *youtube.Client
	Articles  *articles.Client
	Generator *coursegen.Generator
	Limiter   redis.Limiter
}

// wireClients builds the course pipeline. Missing API keys are not an error:
// each adapter checks its key per call and degrades to fallback content.
func wireClients(log *logger.Logger, cfg Config, metrics *observability.Metrics) Clients {
	log.Info("Wiring clients...")

	adapter := llm.NewAdapter(log, llm.Options{
		Backends:    llm.DefaultBackends(log),
		MaxAttempts: cfg.LLMMaxAttempts,
		RetryDelay:  cfg.LLMRetryDelay,
		Observer:    metrics,
	})
	if !adapter.Configured(cfg.CourseGen.Provider) {
		log.Warn("Course generation provider has no API key, courses will use the template",
			"provider", cfg.CourseGen.Provider,
		)
	}

	yt := youtube.New(log, youtube.Config{Observer: metrics})
	arts := articles.New(log, articles.Config{Observer: metrics})

	gen := coursegen.New(coursegen.Deps{
		Log:      log,
		LLM:      adapter,
		Videos:   yt,
		Articles: arts,
		Observer: metrics,
	}, cfg.CourseGen)

	limiter := redis.NoopLimiter()
	if cfg.RedisAddr != "" {
		l, err := redis.NewLimiter(log, redis.LimiterConfig{
			Addr:   cfg.RedisAddr,
			Prefix: "pathwise",
			Limit:  cfg.CourseGenRateLimit,
			Window: cfg.CourseGenRateWindow,
		})
		if err != nil {
			log.Warn("Redis limiter unavailable, course generation is not rate limited", "error", err)
		} else {
			limiter = l
		}
	}

	return Clients{
		LLM:       adapter,
		YouTube:   yt,
		Articles:  arts,
		Generator: gen,
		Limiter:   limiter,
	}
}

func (c *Clients) Close() {
	if c == nil {
		return
	}
	if c.Limiter != nil {
		_ = c.Limiter.Close()
	}
}
