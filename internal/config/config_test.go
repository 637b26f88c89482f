package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/seclens/seclens/internal/model"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"SECLENS_LISTEN_ADDR", "SECLENS_STORAGE_ROOT", "GEMINI_API_KEY",
		"GEMINI_MODEL", "GEMINI_EMBEDDING_MODEL", "SECLENS_CONFIG_FILE",
		"SECLENS_GENERATION_TIMEOUT", "SECLENS_MAX_WORKERS", "SECLENS_HISTORY_LIMIT",
		"SECLENS_SIMILARITY_WEIGHT", "SECLENS_INDICATOR_WEIGHT", "SECLENS_CONTEXT_WEIGHT",
		"SECLENS_VALIDATION_THRESHOLD", "SECLENS_BOOST_THRESHOLD", "SECLENS_REDUCE_THRESHOLD",
		"SECLENS_BOOST_FACTOR", "SECLENS_REDUCE_FACTOR", "SECLENS_DEFAULT_CONFIDENCE",
		"SECLENS_MAX_PRIORITY_ACTIONS",
	} {
		t.Setenv(key, "")
	}
}

func mustLoad(t *testing.T) *Config {
	t.Helper()
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	return cfg
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg := mustLoad(t)
	if cfg.ListenAddr != ":8000" {
		t.Errorf("ListenAddr = %q", cfg.ListenAddr)
	}
	if cfg.StorageRoot != "./data" {
		t.Errorf("StorageRoot = %q", cfg.StorageRoot)
	}
	if cfg.GeminiAPIKey != "" {
		t.Errorf("GeminiAPIKey = %q, want empty", cfg.GeminiAPIKey)
	}
	if cfg.GenerationTimeout != 30*time.Second {
		t.Errorf("GenerationTimeout = %v", cfg.GenerationTimeout)
	}
	if cfg.MaxWorkers != 4 || cfg.HistoryLimit != 50 {
		t.Errorf("MaxWorkers/HistoryLimit = %d/%d", cfg.MaxWorkers, cfg.HistoryLimit)
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("SECLENS_LISTEN_ADDR", ":9090")
	t.Setenv("GEMINI_API_KEY", "test-key")
	t.Setenv("SECLENS_GENERATION_TIMEOUT", "5s")
	t.Setenv("SECLENS_MAX_WORKERS", "8")

	cfg := mustLoad(t)
	if cfg.ListenAddr != ":9090" {
		t.Errorf("ListenAddr = %q", cfg.ListenAddr)
	}
	if cfg.GeminiAPIKey != "test-key" {
		t.Errorf("GeminiAPIKey = %q", cfg.GeminiAPIKey)
	}
	if cfg.GenerationTimeout != 5*time.Second {
		t.Errorf("GenerationTimeout = %v", cfg.GenerationTimeout)
	}
	if cfg.MaxWorkers != 8 {
		t.Errorf("MaxWorkers = %d", cfg.MaxWorkers)
	}
}

func TestLoad_InvalidValuesFallBack(t *testing.T) {
	clearEnv(t)
	t.Setenv("SECLENS_MAX_WORKERS", "zero")
	t.Setenv("SECLENS_GENERATION_TIMEOUT", "-3s")

	cfg := mustLoad(t)
	if cfg.MaxWorkers != 4 {
		t.Errorf("MaxWorkers = %d, want default 4", cfg.MaxWorkers)
	}
	if cfg.GenerationTimeout != 30*time.Second {
		t.Errorf("GenerationTimeout = %v, want default", cfg.GenerationTimeout)
	}
}

func TestEngineConfig_Defaults(t *testing.T) {
	clearEnv(t)

	ec := mustLoad(t).EngineConfig()
	if ec.ValidationThreshold != 0.75 || ec.BoostThreshold != 0.80 || ec.ReduceThreshold != 0.45 {
		t.Errorf("thresholds = %v/%v/%v", ec.ValidationThreshold, ec.BoostThreshold, ec.ReduceThreshold)
	}
	if ec.SimilarityWeight != 0.4 || ec.IndicatorWeight != 0.3 || ec.ContextWeight != 0.3 {
		t.Errorf("weights = %v/%v/%v", ec.SimilarityWeight, ec.IndicatorWeight, ec.ContextWeight)
	}
	if ec.MaxWorkers != 4 || ec.GenerationTimeout != 30*time.Second {
		t.Errorf("workers/timeout = %d/%v", ec.MaxWorkers, ec.GenerationTimeout)
	}
}

func TestEngineConfig_CalibrationFromEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("SECLENS_VALIDATION_THRESHOLD", "0.8")
	t.Setenv("SECLENS_BOOST_FACTOR", "1.25")
	t.Setenv("SECLENS_SIMILARITY_WEIGHT", "0.5")
	t.Setenv("SECLENS_MAX_PRIORITY_ACTIONS", "3")

	ec := mustLoad(t).EngineConfig()
	if ec.ValidationThreshold != 0.8 {
		t.Errorf("ValidationThreshold = %v", ec.ValidationThreshold)
	}
	if ec.BoostFactor != 1.25 {
		t.Errorf("BoostFactor = %v", ec.BoostFactor)
	}
	if ec.SimilarityWeight != 0.5 {
		t.Errorf("SimilarityWeight = %v", ec.SimilarityWeight)
	}
	if ec.MaxPriorityActions != 3 {
		t.Errorf("MaxPriorityActions = %d", ec.MaxPriorityActions)
	}
	// Untouched knobs keep their defaults.
	if ec.ReduceThreshold != 0.45 || ec.IndicatorWeight != 0.3 {
		t.Errorf("unrelated knobs changed: %v/%v", ec.ReduceThreshold, ec.IndicatorWeight)
	}
}

func TestLoad_YAMLFileOverrides(t *testing.T) {
	clearEnv(t)

	path := filepath.Join(t.TempDir(), "seclens.yaml")
	doc := `
listen_addr: ":7070"
history_limit: 10
engine:
  validation_threshold: 0.7
  reduce_threshold: 0.4
  severity_penalties:
    HIGH: 25
    bogus: 99
`
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		t.Fatalf("write config file: %v", err)
	}
	t.Setenv("SECLENS_CONFIG_FILE", path)

	cfg := mustLoad(t)
	if cfg.ListenAddr != ":7070" || cfg.HistoryLimit != 10 {
		t.Errorf("file overrides not applied: %q/%d", cfg.ListenAddr, cfg.HistoryLimit)
	}

	ec := cfg.EngineConfig()
	if ec.ValidationThreshold != 0.7 || ec.ReduceThreshold != 0.4 {
		t.Errorf("engine thresholds = %v/%v", ec.ValidationThreshold, ec.ReduceThreshold)
	}
	if ec.SeverityPenalties[model.SeverityHigh] != 25 {
		t.Errorf("HIGH penalty = %v", ec.SeverityPenalties[model.SeverityHigh])
	}
	// Unknown severity names are dropped, known ones keep their defaults.
	if ec.SeverityPenalties[model.SeverityCritical] != 30 {
		t.Errorf("CRITICAL penalty = %v", ec.SeverityPenalties[model.SeverityCritical])
	}
	if _, ok := ec.SeverityPenalties[model.Severity("BOGUS")]; ok {
		t.Error("unknown severity name accepted")
	}
}

func TestLoad_EnvWinsOverFile(t *testing.T) {
	clearEnv(t)

	path := filepath.Join(t.TempDir(), "seclens.yaml")
	doc := `
listen_addr: ":7070"
engine:
  validation_threshold: 0.7
`
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		t.Fatalf("write config file: %v", err)
	}
	t.Setenv("SECLENS_CONFIG_FILE", path)
	t.Setenv("SECLENS_LISTEN_ADDR", ":9999")
	t.Setenv("SECLENS_VALIDATION_THRESHOLD", "0.9")

	cfg := mustLoad(t)
	if cfg.ListenAddr != ":9999" {
		t.Errorf("ListenAddr = %q, env should win", cfg.ListenAddr)
	}
	if ec := cfg.EngineConfig(); ec.ValidationThreshold != 0.9 {
		t.Errorf("ValidationThreshold = %v, env should win", ec.ValidationThreshold)
	}
}

func TestLoad_BadConfigFileIsError(t *testing.T) {
	clearEnv(t)

	path := filepath.Join(t.TempDir(), "broken.yaml")
	if err := os.WriteFile(path, []byte("{{not yaml"), 0o644); err != nil {
		t.Fatalf("write config file: %v", err)
	}
	t.Setenv("SECLENS_CONFIG_FILE", path)
	if _, err := Load(); err == nil {
		t.Error("expected error for malformed config file")
	}

	t.Setenv("SECLENS_CONFIG_FILE", filepath.Join(t.TempDir(), "missing.yaml"))
	if _, err := Load(); err == nil {
		t.Error("expected error for missing config file")
	}
}
