// Package config loads worker configuration from the environment. A .env
// file next to the process is honored when present. Everything has a
// default; recognition knobs are passed explicitly at construction time
// instead of mutating process-global state.
package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	// Engine selects the recognition backend: "tesseract" or "ollama".
	Engine string

	// Languages are hints handed to the backend (e.g. "eng,deu").
	Languages []string

	// ScratchDir holds per-request working images. Empty means the system
	// temp directory.
	ScratchDir string

	// MaxDimension overrides the engine's resolution cap when positive.
	MaxDimension int

	// GapThreshold is the vertical paragraph-break distance in bounding-box
	// units.
	GapThreshold float64

	// ScriptPath points at an optional JavaScript post-processing hook.
	ScriptPath string

	// Ollama backend settings.
	OllamaURL    string
	OllamaModel  string
	OllamaPrompt string

	// LogLevel is a zap level name ("debug", "info", ...).
	LogLevel string
}

// Load reads configuration from the environment, after loading a .env file
// if one exists.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		Engine:       getEnv("OCRKIT_ENGINE", "tesseract"),
		Languages:    getListEnv("OCRKIT_LANGUAGES", []string{"eng"}),
		ScratchDir:   getEnv("OCRKIT_SCRATCH_DIR", ""),
		MaxDimension: getIntEnv("OCRKIT_MAX_DIMENSION", 0),
		GapThreshold: getFloatEnv("OCRKIT_GAP_THRESHOLD", 40),
		ScriptPath:   getEnv("OCRKIT_SCRIPT", ""),
		OllamaURL:    getEnv("OCRKIT_OLLAMA_URL", ""),
		OllamaModel:  getEnv("OCRKIT_OLLAMA_MODEL", ""),
		OllamaPrompt: getEnv("OCRKIT_OLLAMA_PROMPT", ""),
		LogLevel:     getEnv("OCRKIT_LOG_LEVEL", "info"),
	}
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getIntEnv(key string, fallback int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return fallback
}

func getFloatEnv(key string, fallback float64) float64 {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseFloat(value, 64); err == nil {
			return parsed
		}
	}
	return fallback
}

func getListEnv(key string, fallback []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	var out []string
	for _, item := range strings.Split(value, ",") {
		if trimmed := strings.TrimSpace(item); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	if len(out) == 0 {
		return fallback
	}
	return out
}
