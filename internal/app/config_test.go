package app

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/yungbote/courseforge-backend/internal/data/db"
	"github.com/yungbote/courseforge-backend/internal/modules/authoring/buildstate"
)

// unset clears key for the test and restores it afterwards.
func unset(t *testing.T, key string) {
	t.Helper()
	t.Setenv(key, "")
	if err := os.Unsetenv(key); err != nil {
		t.Fatalf("unsetenv %s: %v", key, err)
	}
}

func TestLoadConfigDefaults(t *testing.T) {
	t.Chdir(t.TempDir())
	for _, k := range []string{"PORT", "DB_DRIVER", "STALE_SWEEP_SCHEDULE", "STALE_GENERATION_AFTER_SECONDS", "CORS_ALLOWED_ORIGINS", "GENERATION_MAX_ATTEMPTS"} {
		unset(t, k)
	}
	cfg := LoadConfig()
	if cfg.Port != "8080" || cfg.DB.Driver != db.DriverPostgres {
		t.Fatalf("unexpected defaults: port=%q driver=%q", cfg.Port, cfg.DB.Driver)
	}
	if cfg.Sweeper.Schedule != buildstate.DefaultSweepSchedule || cfg.Sweeper.StaleAfter != buildstate.DefaultStaleAfter {
		t.Fatalf("unexpected sweeper defaults: %+v", cfg.Sweeper)
	}
	if len(cfg.CORSOrigins) != 0 {
		t.Fatalf("expected no configured origins, got %v", cfg.CORSOrigins)
	}
	if cfg.Retry.MaxAttempts < 1 {
		t.Fatalf("expected a positive attempt budget, got %d", cfg.Retry.MaxAttempts)
	}
}

func TestLoadConfigReadsEnvironment(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("DB_DRIVER", "SQLite")
	t.Setenv("STALE_GENERATION_AFTER_SECONDS", "90")
	t.Setenv("GENERATION_BACKOFF_BASE_MS", "250")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://author.example.com, https://review.example.com")

	cfg := LoadConfig()
	if cfg.DB.Driver != "sqlite" {
		t.Fatalf("expected lower-cased driver, got %q", cfg.DB.Driver)
	}
	if cfg.Sweeper.StaleAfter != 90*time.Second {
		t.Fatalf("expected 90s stale window, got %s", cfg.Sweeper.StaleAfter)
	}
	if cfg.Retry.BaseBackoff != 250*time.Millisecond {
		t.Fatalf("expected 250ms backoff, got %s", cfg.Retry.BaseBackoff)
	}
	if len(cfg.CORSOrigins) != 2 || cfg.CORSOrigins[1] != "https://review.example.com" {
		t.Fatalf("unexpected origins: %v", cfg.CORSOrigins)
	}
}

func TestLoadConfigDotEnvDoesNotOverrideEnvironment(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	body := "OPENAI_MODEL=from-dotenv\nREDIS_ADDR=redis.internal:6379\n"
	if err := os.WriteFile(filepath.Join(dir, ".env"), []byte(body), 0o600); err != nil {
		t.Fatalf("write .env: %v", err)
	}
	unset(t, "REDIS_ADDR")
	t.Setenv("OPENAI_MODEL", "from-env")

	cfg := LoadConfig()
	if cfg.OpenAI.Model != "from-env" {
		t.Fatalf("process environment must win, got %q", cfg.OpenAI.Model)
	}
	if cfg.RedisAddr != "redis.internal:6379" {
		t.Fatalf("expected .env value, got %q", cfg.RedisAddr)
	}
}
