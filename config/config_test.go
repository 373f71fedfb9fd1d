package config

import (
	"reflect"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{
		"OCRKIT_ENGINE", "OCRKIT_LANGUAGES", "OCRKIT_SCRATCH_DIR",
		"OCRKIT_MAX_DIMENSION", "OCRKIT_GAP_THRESHOLD", "OCRKIT_SCRIPT",
		"OCRKIT_OLLAMA_URL", "OCRKIT_OLLAMA_MODEL", "OCRKIT_OLLAMA_PROMPT",
		"OCRKIT_LOG_LEVEL",
	} {
		t.Setenv(key, "")
	}

	cfg := Load()
	if cfg.Engine != "tesseract" {
		t.Fatalf("unexpected default engine: %s", cfg.Engine)
	}
	if !reflect.DeepEqual(cfg.Languages, []string{"eng"}) {
		t.Fatalf("unexpected default languages: %v", cfg.Languages)
	}
	if cfg.MaxDimension != 0 {
		t.Fatalf("dimension override should default to unset, got %d", cfg.MaxDimension)
	}
	if cfg.GapThreshold != 40 {
		t.Fatalf("unexpected default gap threshold: %v", cfg.GapThreshold)
	}
	if cfg.LogLevel != "info" {
		t.Fatalf("unexpected default log level: %s", cfg.LogLevel)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("OCRKIT_ENGINE", "ollama")
	t.Setenv("OCRKIT_LANGUAGES", "eng, deu ,")
	t.Setenv("OCRKIT_MAX_DIMENSION", "1024")
	t.Setenv("OCRKIT_GAP_THRESHOLD", "55.5")
	t.Setenv("OCRKIT_OLLAMA_URL", "http://gpu-box:11434")

	cfg := Load()
	if cfg.Engine != "ollama" {
		t.Fatalf("unexpected engine: %s", cfg.Engine)
	}
	if !reflect.DeepEqual(cfg.Languages, []string{"eng", "deu"}) {
		t.Fatalf("unexpected languages: %v", cfg.Languages)
	}
	if cfg.MaxDimension != 1024 {
		t.Fatalf("unexpected max dimension: %d", cfg.MaxDimension)
	}
	if cfg.GapThreshold != 55.5 {
		t.Fatalf("unexpected gap threshold: %v", cfg.GapThreshold)
	}
	if cfg.OllamaURL != "http://gpu-box:11434" {
		t.Fatalf("unexpected ollama url: %s", cfg.OllamaURL)
	}
}

func TestLoadIgnoresMalformedNumbers(t *testing.T) {
	t.Setenv("OCRKIT_MAX_DIMENSION", "huge")
	t.Setenv("OCRKIT_GAP_THRESHOLD", "wide")

	cfg := Load()
	if cfg.MaxDimension != 0 {
		t.Fatalf("malformed int should fall back, got %d", cfg.MaxDimension)
	}
	if cfg.GapThreshold != 40 {
		t.Fatalf("malformed float should fall back, got %v", cfg.GapThreshold)
	}
}
