package app

import (
	"strings"
	"time"

	"github.com/yungbote/pathwise-backend/internal/data/db"
	"github.com/yungbote/pathwise-backend/internal/modules/learning/coursegen"
	"github.com/yungbote/pathwise-backend/internal/observability"
	"github.com/yungbote/pathwise-backend/internal/platform/envutil"
	"github.com/yungbote/pathwise-backend/internal/platform/llm"
	"github.com/yungbote/pathwise-backend/internal/platform/logger"
)

const ServiceName = "pathwise-backend"

type Config struct {
	Port        string
	LogMode     string
	Environment string
	Version     string

	JWTSecretKey   string
	AccessTokenTTL time.Duration
	AdminToken     string
	CORSOrigins    []string

	DB db.Config

	CourseGen           coursegen.Config
	CourseGenTimeout    time.Duration
	LLMMaxAttempts      int
	LLMRetryDelay       time.Duration
	RedisAddr           string
	CourseGenRateLimit  int
	CourseGenRateWindow time.Duration

	Otel observability.OtelConfig
}

func LoadConfig(log *logger.Logger) Config {
	env := envutil.String("APP_ENV", "development")
	version := envutil.String("APP_VERSION", "dev")
	cfg := Config{
		Port:        envutil.String("PORT", "8080"),
		LogMode:     envutil.String("LOG_MODE", "development"),
		Environment: env,
		Version:     version,

		JWTSecretKey:   envutil.String("JWT_SECRET_KEY", ""),
		AccessTokenTTL: envutil.Seconds("ACCESS_TOKEN_TTL", 24*time.Hour),
		AdminToken:     envutil.String("ADMIN_TOKEN", ""),
		CORSOrigins:    envutil.List("CORS_ORIGINS", nil),

		DB: db.ConfigFromEnv(),

		CourseGen: coursegen.Config{
			Provider:         strings.ToLower(envutil.String("COURSEGEN_PROVIDER", coursegen.DefaultProvider)),
			Model:            envutil.String("COURSEGEN_MODEL", coursegen.DefaultModel),
			IncludePlaylists: envutil.Bool("COURSEGEN_INCLUDE_PLAYLISTS", false),
		},
		CourseGenTimeout:    envutil.Seconds("COURSEGEN_TIMEOUT_SECONDS", 120*time.Second),
		LLMMaxAttempts:      envutil.Int("LLM_MAX_ATTEMPTS", llm.DefaultMaxAttempts),
		LLMRetryDelay:       envutil.Seconds("LLM_RETRY_DELAY_SECONDS", llm.DefaultRetryDelay),
		RedisAddr:           envutil.String("REDIS_ADDR", ""),
		CourseGenRateLimit:  envutil.Int("COURSEGEN_RATE_LIMIT", 10),
		CourseGenRateWindow: envutil.Seconds("COURSEGEN_RATE_WINDOW_SECONDS", time.Hour),

		Otel: observability.OtelConfigFromEnv(ServiceName, env, version),
	}

	if cfg.JWTSecretKey == "" {
		cfg.JWTSecretKey = "defaultsecret"
		if log != nil {
			log.Warn("JWT_SECRET_KEY not set, using insecure default")
		}
	}
	if log != nil && cfg.AdminToken == "" {
		log.Warn("ADMIN_TOKEN not set, admin routes are disabled")
	}
	return cfg
}
