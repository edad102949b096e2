package config

import (
	"os"
	"testing"
)

func TestGetEnvOrDefault(t *testing.T) {
	tests := []struct {
		name       string
		key        string
		envValue   string
		defaultVal string
		expected   string
	}{
		{"uses env value", "TEST_VAR_1", "hello", "default", "hello"},
		{"uses default when empty", "TEST_VAR_2", "", "default", "default"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if tc.envValue != "" {
				os.Setenv(tc.key, tc.envValue)
				defer os.Unsetenv(tc.key)
			}

			result := getEnvOrDefault(tc.key, tc.defaultVal)
			if result != tc.expected {
				t.Errorf("Expected %q, got %q", tc.expected, result)
			}
		})
	}
}

func TestGetEnvAsIntOrDefault(t *testing.T) {
	tests := []struct {
		name       string
		key        string
		envValue   string
		defaultVal int
		expected   int
	}{
		{"parses integer", "TEST_INT_1", "42", 10, 42},
		{"uses default for empty", "TEST_INT_2", "", 10, 10},
		{"uses default for non-numeric", "TEST_INT_3", "abc", 10, 10},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if tc.envValue != "" {
				os.Setenv(tc.key, tc.envValue)
				defer os.Unsetenv(tc.key)
			}

			result := getEnvAsIntOrDefault(tc.key, tc.defaultVal)
			if result != tc.expected {
				t.Errorf("Expected %d, got %d", tc.expected, result)
			}
		})
	}
}

func setRequiredEnv(t *testing.T) {
	t.Helper()
	required := map[string]string{
		"DATABASE_URL": "postgres://localhost/certify_test",
		"REDIS_URL":    "redis://localhost:6379",
		"JWT_SECRET":   "test-secret",
	}
	for k, v := range required {
		os.Setenv(k, v)
	}
	t.Cleanup(func() {
		for k := range required {
			os.Unsetenv(k)
		}
	})
}

func TestLoadDefaults(t *testing.T) {
	setRequiredEnv(t)

	cfg := Load()

	if cfg.Port != "8080" {
		t.Errorf("Expected default port 8080, got %q", cfg.Port)
	}
	if cfg.TickIntervalMS != 1000 {
		t.Errorf("Expected 1s default tick interval, got %dms", cfg.TickIntervalMS)
	}
	if cfg.AutosaveInterval != 10 {
		t.Errorf("Expected autosave every 10s, got %d", cfg.AutosaveInterval)
	}
	if cfg.WorkerCount != 5 {
		t.Errorf("Expected 5 workers, got %d", cfg.WorkerCount)
	}
	if cfg.SMTPPort != "587" || cfg.SMTPFrom != "noreply@certify.app" {
		t.Errorf("Unexpected SMTP defaults: port %q from %q", cfg.SMTPPort, cfg.SMTPFrom)
	}
	if cfg.SMTPHost != "" {
		t.Errorf("SMTP host should default empty (dev mode), got %q", cfg.SMTPHost)
	}
}

func TestLoadPlayerOverrides(t *testing.T) {
	setRequiredEnv(t)
	os.Setenv("PLAYER_TICK_INTERVAL_MS", "50")
	os.Setenv("PLAYER_AUTOSAVE_SECONDS", "2")
	os.Setenv("WORKER_COUNT", "2")
	defer func() {
		os.Unsetenv("PLAYER_TICK_INTERVAL_MS")
		os.Unsetenv("PLAYER_AUTOSAVE_SECONDS")
		os.Unsetenv("WORKER_COUNT")
	}()

	cfg := Load()

	if cfg.TickIntervalMS != 50 {
		t.Errorf("Expected tick interval 50ms, got %d", cfg.TickIntervalMS)
	}
	if cfg.AutosaveInterval != 2 {
		t.Errorf("Expected autosave every 2s, got %d", cfg.AutosaveInterval)
	}
	if cfg.WorkerCount != 2 {
		t.Errorf("Expected 2 workers, got %d", cfg.WorkerCount)
	}
}

func TestMustGetEnv_Panics(t *testing.T) {
	defer func() {
		if r := recover(); r == nil {
			t.Error("Expected panic for missing required env var")
		}
	}()

	os.Unsetenv("NONEXISTENT_REQUIRED_VAR")
	mustGetEnv("NONEXISTENT_REQUIRED_VAR")
}

func TestMustGetEnv_ReturnsValue(t *testing.T) {
	os.Setenv("TEST_REQUIRED", "value123")
	defer os.Unsetenv("TEST_REQUIRED")

	result := mustGetEnv("TEST_REQUIRED")
	if result != "value123" {
		t.Errorf("Expected 'value123', got %q", result)
	}
}
