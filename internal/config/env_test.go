package config

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/nao1215/siteaudit/internal/ai"
)

// TestProviderSettingsFromEnv tests reading provider settings from the environment.
// Tests using t.Setenv cannot run in parallel.
func TestProviderSettingsFromEnv(t *testing.T) {
	t.Run("reads keys and options", func(t *testing.T) {
		t.Setenv(EnvProvider, "gemini")
		t.Setenv(EnvModel, "gemini-1.5-flash")
		t.Setenv(EnvOpenAIKey, "sk-test")
		t.Setenv(EnvAnthropicKey, "sk-ant-test")
		t.Setenv(EnvGeminiKeys, "AIzaOne,AIzaTwo")
		t.Setenv(EnvGeminiKey, "AIzaSingle")
		t.Setenv(EnvRequestsPerMinute, "30")
		t.Setenv(EnvRequestTimeout, "45s")

		s := ProviderSettingsFromEnv("")
		if s.Provider != "gemini" || s.Model != "gemini-1.5-flash" {
			t.Errorf("unexpected provider/model %q/%q", s.Provider, s.Model)
		}
		if s.OpenAIKey != "sk-test" || s.AnthropicKey != "sk-ant-test" {
			t.Errorf("unexpected keys %+v", s)
		}
		if s.GeminiKeys != "AIzaOne,AIzaTwo" {
			t.Errorf("expected GEMINI_API_KEYS to win, got %q", s.GeminiKeys)
		}
		if s.RequestsPerMinute != 30 || s.Timeout != 45*time.Second {
			t.Errorf("unexpected rpm/timeout %d/%v", s.RequestsPerMinute, s.Timeout)
		}
	})

	t.Run("falls back to defaults", func(t *testing.T) {
		t.Setenv(EnvProvider, "")
		t.Setenv(EnvGeminiKeys, "")
		t.Setenv(EnvGeminiKey, "AIzaSingle")
		t.Setenv(EnvRequestsPerMinute, "not-a-number")
		t.Setenv(EnvRequestTimeout, "")

		s := ProviderSettingsFromEnv("")
		if s.Provider != DefaultProvider {
			t.Errorf("expected default provider, got %q", s.Provider)
		}
		if s.GeminiKeys != "AIzaSingle" {
			t.Errorf("expected single gemini key, got %q", s.GeminiKeys)
		}
		if s.RequestsPerMinute != ai.DefaultRequestsPerMinute {
			t.Errorf("expected default rpm, got %d", s.RequestsPerMinute)
		}
		if s.BreakerFailures != ai.DefaultBreakerFailures || s.BreakerDelay != ai.DefaultBreakerDelay {
			t.Errorf("unexpected breaker settings %+v", s)
		}
	})

	t.Run("argument overrides environment", func(t *testing.T) {
		t.Setenv(EnvProvider, "gemini")

		if s := ProviderSettingsFromEnv("none"); s.Provider != "none" {
			t.Errorf("expected none, got %q", s.Provider)
		}
	})
}

// TestLoadEnv tests loading .env files.
func TestLoadEnv(t *testing.T) {
	t.Setenv(EnvOpenAIKey, "from-process")
	t.Setenv(EnvAnthropicKey, "")

	dir := t.TempDir()
	base := filepath.Join(dir, ".env")
	local := filepath.Join(dir, ".env.local")
	if err := os.WriteFile(base, []byte("OPENAI_API_KEY=from-env\nANTHROPIC_API_KEY=ant-from-env\n"), 0600); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(local, []byte("OPENAI_API_KEY=from-local\n"), 0600); err != nil {
		t.Fatal(err)
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	loaded := LoadEnv(logger, base, local, filepath.Join(dir, "missing.env"))
	if len(loaded) != 2 {
		t.Fatalf("expected 2 files loaded, got %v", loaded)
	}
	if got := os.Getenv(EnvOpenAIKey); got != "from-local" {
		t.Errorf("expected later file to win, got %q", got)
	}
	if got := os.Getenv(EnvAnthropicKey); got != "ant-from-env" {
		t.Errorf("expected key from .env, got %q", got)
	}
}
