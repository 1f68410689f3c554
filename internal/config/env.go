package config

import (
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/nao1215/siteaudit/internal/ai"
)

// Environment variables read by ProviderSettingsFromEnv.
const (
	EnvProvider          = "SITEAUDIT_AI_PROVIDER"
	EnvModel             = "SITEAUDIT_AI_MODEL"
	EnvRequestsPerMinute = "SITEAUDIT_AI_RPM"
	EnvRequestTimeout    = "SITEAUDIT_AI_TIMEOUT"
	EnvOpenAIKey         = "OPENAI_API_KEY"
	EnvAnthropicKey      = "ANTHROPIC_API_KEY"
	EnvGeminiKey         = "GOOGLE_GEMINI_API_KEY"
	EnvGeminiKeys        = "GEMINI_API_KEYS"
)

// DefaultEnvFiles are loaded by LoadEnv, later files overriding earlier ones.
var DefaultEnvFiles = []string{".env", ".env.local"}

// LoadEnv loads environment variables from the given files, or from
// DefaultEnvFiles when none are given. Missing files are skipped.
// It returns the files that were loaded.
func LoadEnv(logger *slog.Logger, files ...string) []string {
	if logger == nil {
		logger = slog.Default()
	}
	if len(files) == 0 {
		files = DefaultEnvFiles
	}

	loaded := make([]string, 0, len(files))
	for _, file := range files {
		if _, err := os.Stat(file); err != nil {
			continue
		}
		if err := godotenv.Overload(file); err != nil {
			logger.Warn("failed to load env file", "file", file, "error", err)
			continue
		}
		loaded = append(loaded, file)
	}

	if len(loaded) == 0 {
		logger.Debug("no env files loaded, using process environment")
	} else {
		logger.Debug("loaded env files", "files", strings.Join(loaded, ", "))
	}
	return loaded
}

// ProviderSettingsFromEnv builds the AI provider settings from the
// environment. provider, when non-empty, overrides SITEAUDIT_AI_PROVIDER.
// GEMINI_API_KEYS takes precedence over GOOGLE_GEMINI_API_KEY.
func ProviderSettingsFromEnv(provider string) ai.Settings {
	if provider == "" {
		provider = getEnv(EnvProvider, DefaultProvider)
	}

	geminiKeys := os.Getenv(EnvGeminiKeys)
	if strings.TrimSpace(geminiKeys) == "" {
		geminiKeys = os.Getenv(EnvGeminiKey)
	}

	return ai.Settings{
		Provider:          provider,
		Model:             os.Getenv(EnvModel),
		OpenAIKey:         os.Getenv(EnvOpenAIKey),
		AnthropicKey:      os.Getenv(EnvAnthropicKey),
		GeminiKeys:        geminiKeys,
		RequestsPerMinute: getEnvInt(EnvRequestsPerMinute, ai.DefaultRequestsPerMinute),
		BreakerFailures:   ai.DefaultBreakerFailures,
		BreakerDelay:      ai.DefaultBreakerDelay,
		Timeout:           getEnvDuration(EnvRequestTimeout, 0),
	}
}

func getEnv(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil && parsed >= 0 {
			return parsed
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if parsed, err := time.ParseDuration(value); err == nil && parsed > 0 {
			return parsed
		}
	}
	return defaultValue
}
