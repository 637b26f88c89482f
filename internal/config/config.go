// Package config loads process configuration from the environment, with an
// optional .env file for local development and an optional YAML file for
// engine calibration overrides. Precedence: defaults, then the YAML file,
// then environment variables.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/seclens/seclens/internal/assessor"
	"github.com/seclens/seclens/internal/model"
)

// Config is the process-level configuration.
type Config struct {
	// ListenAddr is the HTTP listen address.
	ListenAddr string

	// StorageRoot is the directory holding the assessment database.
	StorageRoot string

	// GeminiAPIKey enables the live Gemini backend. When empty the service
	// runs with the deterministic mock generator and embedder.
	GeminiAPIKey         string
	GeminiModel          string
	GeminiEmbeddingModel string

	// GenerationTimeout bounds each upstream generation call.
	GenerationTimeout time.Duration

	// MaxWorkers bounds the per-finding validation fan-out.
	MaxWorkers int

	// HistoryLimit is the default page size of the assessment list endpoint.
	HistoryLimit int

	// Engine holds calibration overrides applied on top of the assessor
	// defaults by EngineConfig.
	Engine EngineOverrides
}

// EngineOverrides are optional calibration overrides for the scoring engine.
// Nil fields keep the documented defaults. They load from the `engine`
// section of the YAML file named by SECLENS_CONFIG_FILE and from SECLENS_*
// environment variables, which win over the file.
type EngineOverrides struct {
	SimilarityWeight    *float64 `yaml:"similarity_weight"`
	IndicatorWeight     *float64 `yaml:"indicator_weight"`
	ContextWeight       *float64 `yaml:"context_weight"`
	ValidationThreshold *float64 `yaml:"validation_threshold"`
	BoostThreshold      *float64 `yaml:"boost_threshold"`
	ReduceThreshold     *float64 `yaml:"reduce_threshold"`
	BoostFactor         *float64 `yaml:"boost_factor"`
	ReduceFactor        *float64 `yaml:"reduce_factor"`
	DefaultConfidence   *float64 `yaml:"default_confidence"`
	MaxPriorityActions  *int     `yaml:"max_priority_actions"`

	// SeverityPenalties overrides individual penalty points by severity name
	// (e.g. HIGH: 25). Unknown severity names are ignored. File-only: there
	// is no environment form for this map.
	SeverityPenalties map[string]float64 `yaml:"severity_penalties"`
}

// fileConfig is the YAML file shape. Only the settings that make sense in a
// committed file are accepted; credentials stay in the environment.
type fileConfig struct {
	ListenAddr   string          `yaml:"listen_addr"`
	StorageRoot  string          `yaml:"storage_root"`
	HistoryLimit int             `yaml:"history_limit"`
	Engine       EngineOverrides `yaml:"engine"`
}

// Load reads configuration. A .env file in the working directory is loaded
// first when present; a YAML file named by SECLENS_CONFIG_FILE is applied
// next; real environment variables win over both. Naming a config file that
// cannot be read or parsed is an error.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		ListenAddr:        ":8000",
		StorageRoot:       "./data",
		GenerationTimeout: 30 * time.Second,
		MaxWorkers:        4,
		HistoryLimit:      50,
	}

	if path := os.Getenv("SECLENS_CONFIG_FILE"); path != "" {
		if err := cfg.applyFile(path); err != nil {
			return nil, err
		}
	}

	cfg.ListenAddr = envStr("SECLENS_LISTEN_ADDR", cfg.ListenAddr)
	cfg.StorageRoot = envStr("SECLENS_STORAGE_ROOT", cfg.StorageRoot)
	cfg.GeminiAPIKey = os.Getenv("GEMINI_API_KEY")
	cfg.GeminiModel = envStr("GEMINI_MODEL", cfg.GeminiModel)
	cfg.GeminiEmbeddingModel = envStr("GEMINI_EMBEDDING_MODEL", cfg.GeminiEmbeddingModel)
	cfg.GenerationTimeout = envDuration("SECLENS_GENERATION_TIMEOUT", cfg.GenerationTimeout)
	cfg.MaxWorkers = envInt("SECLENS_MAX_WORKERS", cfg.MaxWorkers)
	cfg.HistoryLimit = envInt("SECLENS_HISTORY_LIMIT", cfg.HistoryLimit)

	o := &cfg.Engine
	applyEnvFloat("SECLENS_SIMILARITY_WEIGHT", &o.SimilarityWeight)
	applyEnvFloat("SECLENS_INDICATOR_WEIGHT", &o.IndicatorWeight)
	applyEnvFloat("SECLENS_CONTEXT_WEIGHT", &o.ContextWeight)
	applyEnvFloat("SECLENS_VALIDATION_THRESHOLD", &o.ValidationThreshold)
	applyEnvFloat("SECLENS_BOOST_THRESHOLD", &o.BoostThreshold)
	applyEnvFloat("SECLENS_REDUCE_THRESHOLD", &o.ReduceThreshold)
	applyEnvFloat("SECLENS_BOOST_FACTOR", &o.BoostFactor)
	applyEnvFloat("SECLENS_REDUCE_FACTOR", &o.ReduceFactor)
	applyEnvFloat("SECLENS_DEFAULT_CONFIDENCE", &o.DefaultConfidence)
	applyEnvInt("SECLENS_MAX_PRIORITY_ACTIONS", &o.MaxPriorityActions)

	return cfg, nil
}

func (c *Config) applyFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("config: reading %s: %w", path, err)
	}
	var f fileConfig
	if err := yaml.Unmarshal(data, &f); err != nil {
		return fmt.Errorf("config: parsing %s: %w", path, err)
	}

	if f.ListenAddr != "" {
		c.ListenAddr = f.ListenAddr
	}
	if f.StorageRoot != "" {
		c.StorageRoot = f.StorageRoot
	}
	if f.HistoryLimit > 0 {
		c.HistoryLimit = f.HistoryLimit
	}
	c.Engine = f.Engine
	return nil
}

// EngineConfig builds the scoring calibration: assessor defaults, the
// process-level knobs, then any explicit overrides.
func (c *Config) EngineConfig() *assessor.Config {
	ec := assessor.DefaultConfig()
	ec.MaxWorkers = c.MaxWorkers
	ec.GenerationTimeout = c.GenerationTimeout

	o := c.Engine
	setFloat(&ec.SimilarityWeight, o.SimilarityWeight)
	setFloat(&ec.IndicatorWeight, o.IndicatorWeight)
	setFloat(&ec.ContextWeight, o.ContextWeight)
	setFloat(&ec.ValidationThreshold, o.ValidationThreshold)
	setFloat(&ec.BoostThreshold, o.BoostThreshold)
	setFloat(&ec.ReduceThreshold, o.ReduceThreshold)
	setFloat(&ec.BoostFactor, o.BoostFactor)
	setFloat(&ec.ReduceFactor, o.ReduceFactor)
	setFloat(&ec.DefaultConfidence, o.DefaultConfidence)
	if o.MaxPriorityActions != nil && *o.MaxPriorityActions > 0 {
		ec.MaxPriorityActions = *o.MaxPriorityActions
	}
	for name, points := range o.SeverityPenalties {
		sev := model.Severity(strings.ToUpper(strings.TrimSpace(name)))
		if sev.Rank() == 0 || points < 0 {
			continue
		}
		ec.SeverityPenalties[sev] = points
	}
	return ec
}

func setFloat(dst *float64, v *float64) {
	if v != nil {
		*dst = *v
	}
}

func applyEnvFloat(key string, dst **float64) {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil && f >= 0 {
			*dst = &f
		}
	}
}

func applyEnvInt(key string, dst **int) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			*dst = &n
		}
	}
}

func envStr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			return d
		}
	}
	return fallback
}
