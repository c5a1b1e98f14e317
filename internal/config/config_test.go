package config

import (
	"log/slog"
	"reflect"
	"testing"
)

// TestParseCSVEnv проверяет разбор списка email из ENV.
func TestParseCSVEnv(t *testing.T) {
	t.Setenv("ADMIN_EMAILS", " Admin@example.com, ,USER@Example.com ")

	got := parseCSVEnv("ADMIN_EMAILS")
	want := []string{"admin@example.com", "user@example.com"}

	if !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

// TestParseCSVEnvMissing проверяет поведение при отсутствии переменной.
func TestParseCSVEnvMissing(t *testing.T) {
	got := parseCSVEnv("MISSING_ENV")
	if got != nil {
		t.Fatalf("expected nil, got %v", got)
	}
}

// TestParseBoolEnv проверяет разбор булевых переменных.
func TestParseBoolEnv(t *testing.T) {
	t.Setenv("CATALOGUE_SEED_ON_START", " true ")

	got, err := parseBoolEnv("CATALOGUE_SEED_ON_START", false)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if !got {
		t.Fatal("expected true")
	}

	t.Setenv("CATALOGUE_SEED_ON_START", "maybe")
	if _, err := parseBoolEnv("CATALOGUE_SEED_ON_START", false); err == nil {
		t.Fatal("expected error for invalid boolean")
	}

	got, err = parseBoolEnv("MISSING_BOOL_ENV", true)
	if err != nil || !got {
		t.Fatalf("expected fallback true, got %v (err=%v)", got, err)
	}
}

// TestParseLogLevel проверяет разбор уровня логирования.
func TestParseLogLevel(t *testing.T) {
	level, err := parseLogLevel("DEBUG")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if level != slog.LevelDebug {
		t.Fatalf("expected debug, got %v", level)
	}

	if _, err := parseLogLevel("verbose"); err == nil {
		t.Fatal("expected error for unknown level")
	}
}

// TestLoadDefaults проверяет значения по умолчанию.
func TestLoadDefaults(t *testing.T) {
	t.Setenv("ENV_FILE", "")
	t.Setenv("JWT_SECRET", "test-secret")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if cfg.Planner.RateLimitPerMinute != 30 {
		t.Fatalf("expected planner rate limit 30, got %d", cfg.Planner.RateLimitPerMinute)
	}
	if cfg.Catalogue.SeedOnStart {
		t.Fatal("expected seeding to be disabled by default")
	}
	if cfg.Database.ConnectRetries != 5 {
		t.Fatalf("expected 5 connect retries, got %d", cfg.Database.ConnectRetries)
	}
	if cfg.Auth.JWTIssuer != "ayur-diet-planner" {
		t.Fatalf("unexpected issuer %s", cfg.Auth.JWTIssuer)
	}
}

// TestLoadMissingSecret проверяет обязательность JWT_SECRET.
func TestLoadMissingSecret(t *testing.T) {
	t.Setenv("ENV_FILE", "")
	t.Setenv("JWT_SECRET", "")

	if _, err := Load(); err == nil {
		t.Fatal("expected error without JWT_SECRET")
	}
}

// TestLoadMissingCatalogueFile проверяет проверку пути к каталогу.
func TestLoadMissingCatalogueFile(t *testing.T) {
	t.Setenv("ENV_FILE", "")
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("CATALOGUE_FILE", "/nonexistent/foods.yaml")

	if _, err := Load(); err == nil {
		t.Fatal("expected error for missing catalogue file")
	}
}
