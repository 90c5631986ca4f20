package app

import (
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/yungbote/courseforge-backend/internal/data/db"
	"github.com/yungbote/courseforge-backend/internal/modules/authoring/buildstate"
	"github.com/yungbote/courseforge-backend/internal/modules/authoring/generation"
	"github.com/yungbote/courseforge-backend/internal/observability"
	"github.com/yungbote/courseforge-backend/internal/platform/envutil"
	"github.com/yungbote/courseforge-backend/internal/platform/openai"
)

type Config struct {
	Port string

	LogMode             string
	LogRedactionEnabled bool
	LogHashSalt         string

	DB db.Config

	JWTSecretKey string
	CORSOrigins  []string

	OpenAI             openai.Config
	Retry              generation.RetryPolicy
	LLMRateLimitRPS    float64
	LLMRateLimitBurst  int
	SourceFetchTimeout time.Duration

	RedisAddr     string
	CourseLockTTL time.Duration

	Sweeper buildstate.SweeperConfig

	StandardsProfilePath string

	MetricsEnabled bool
	Otel           observability.OtelConfig
}

// LoadConfig reads an optional .env file and then the process environment.
// Variables already set in the environment win over .env.
func LoadConfig() Config {
	_ = godotenv.Load()

	retry := generation.DefaultRetryPolicy()
	return Config{
		Port: envutil.String("PORT", "8080"),

		LogMode:             envutil.String("LOG_MODE", "development"),
		LogRedactionEnabled: envutil.Bool("LOG_REDACTION_ENABLED", true),
		LogHashSalt:         envutil.String("LOG_HASH_SALT", ""),

		DB: db.Config{
			Driver:           strings.ToLower(envutil.String("DB_DRIVER", db.DriverPostgres)),
			PostgresHost:     envutil.String("POSTGRES_HOST", "localhost"),
			PostgresPort:     envutil.String("POSTGRES_PORT", "5432"),
			PostgresUser:     envutil.String("POSTGRES_USER", "postgres"),
			PostgresPassword: envutil.String("POSTGRES_PASSWORD", ""),
			PostgresName:     envutil.String("POSTGRES_NAME", "courseforge"),
			PostgresSSLMode:  envutil.String("POSTGRES_SSLMODE", "disable"),
			SQLitePath:       envutil.String("SQLITE_PATH", "courseforge.db"),
		},

		JWTSecretKey: envutil.String("JWT_SECRET_KEY", ""),
		CORSOrigins:  envutil.List("CORS_ALLOWED_ORIGINS", nil),

		OpenAI: openai.Config{
			APIKey:  envutil.String("OPENAI_API_KEY", ""),
			BaseURL: envutil.String("OPENAI_BASE_URL", "https://api.openai.com/v1"),
			Model:   envutil.String("OPENAI_MODEL", "gpt-4o-mini"),
			Timeout: envutil.Seconds("OPENAI_TIMEOUT_SECONDS", 120*time.Second),
		},
		Retry: generation.RetryPolicy{
			MaxAttempts: envutil.Int("GENERATION_MAX_ATTEMPTS", retry.MaxAttempts),
			BaseBackoff: envutil.Millis("GENERATION_BACKOFF_BASE_MS", retry.BaseBackoff),
			MaxBackoff:  envutil.Millis("GENERATION_BACKOFF_MAX_MS", retry.MaxBackoff),
			Timeout:     envutil.Seconds("GENERATION_TIMEOUT_SECONDS", retry.Timeout),
		},
		LLMRateLimitRPS:    envutil.Float("LLM_RATE_LIMIT_RPS", 2),
		LLMRateLimitBurst:  envutil.Int("LLM_RATE_LIMIT_BURST", 4),
		SourceFetchTimeout: envutil.Seconds("SOURCE_FETCH_TIMEOUT_SECONDS", 15*time.Second),

		RedisAddr:     envutil.String("REDIS_ADDR", ""),
		CourseLockTTL: envutil.Seconds("COURSE_LOCK_TTL_SECONDS", 2*time.Minute),

		Sweeper: buildstate.SweeperConfig{
			Schedule:   envutil.String("STALE_SWEEP_SCHEDULE", buildstate.DefaultSweepSchedule),
			StaleAfter: envutil.Seconds("STALE_GENERATION_AFTER_SECONDS", buildstate.DefaultStaleAfter),
		},

		StandardsProfilePath: envutil.String("STANDARDS_PROFILE_PATH", ""),

		MetricsEnabled: envutil.Bool("METRICS_ENABLED", true),
		Otel: observability.OtelConfig{
			Enabled:     envutil.Bool("OTEL_ENABLED", false),
			ServiceName: envutil.String("OTEL_SERVICE_NAME", "courseforge-backend"),
			Environment: envutil.String("OTEL_ENVIRONMENT", "development"),
			Version:     envutil.String("OTEL_SERVICE_VERSION", "dev"),
			SampleRatio: envutil.Float("OTEL_SAMPLE_RATIO", 1),
			Endpoint:    envutil.String("OTEL_EXPORTER_OTLP_ENDPOINT", ""),
			Headers:     observability.ParseHeaders(envutil.String("OTEL_EXPORTER_OTLP_HEADERS", "")),
			Insecure:    envutil.Bool("OTEL_EXPORTER_OTLP_INSECURE", false),
		},
	}
}
