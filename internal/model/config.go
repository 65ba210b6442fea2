package model

import (
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// ErrInvalidConfig is returned when configuration values are out of range.
var ErrInvalidConfig = errors.New("invalid configuration")

// Config is the complete reformcast configuration.
// Tags cover YAML output (config show/init) and viper decoding.
type Config struct {
	Marginals  Marginals        `json:"marginals" yaml:"marginals" mapstructure:"marginals"`
	Priors     Priors           `json:"priors" yaml:"priors" mapstructure:"priors"`
	Curated    []CuratedEntry   `json:"curated,omitempty" yaml:"curated,omitempty" mapstructure:"curated"`
	Baseline   Assignment       `json:"baseline" yaml:"baseline" mapstructure:"baseline"`
	Scenarios  []Scenario       `json:"scenarios,omitempty" yaml:"scenarios,omitempty" mapstructure:"scenarios"`
	Simulation SimulationConfig `json:"simulation" yaml:"simulation" mapstructure:"simulation"`
	Cache      CacheConfig      `json:"cache" yaml:"cache" mapstructure:"cache"`
	Output     OutputConfig     `json:"output" yaml:"output" mapstructure:"output"`
	LLM        LLMConfig        `json:"llm" yaml:"llm" mapstructure:"llm"`
}

// Priors are reported alongside results; they do not enter the table.
type Priors struct {
	HistoricalBaseRate float64 `json:"historical_base_rate" yaml:"historical_base_rate" mapstructure:"historical_base_rate"`
	HistoricalAttempts int     `json:"historical_attempts" yaml:"historical_attempts" mapstructure:"historical_attempts"`
	BayesianPrior      float64 `json:"bayesian_prior" yaml:"bayesian_prior" mapstructure:"bayesian_prior"`
}

// CuratedEntry is one literal table value. Factors is a canonical-order tuple.
type CuratedEntry struct {
	Factors     []bool  `json:"factors" yaml:"factors,flow" mapstructure:"factors"`
	Probability float64 `json:"probability" yaml:"probability" mapstructure:"probability"`
	Label       string  `json:"label,omitempty" yaml:"label,omitempty" mapstructure:"label"`
}

// SimulationConfig controls Monte Carlo runs.
type SimulationConfig struct {
	Trials    int   `json:"trials" yaml:"trials" mapstructure:"trials"`
	Seed      int64 `json:"seed" yaml:"seed" mapstructure:"seed"`          // 0 = time-based
	Workers   int   `json:"workers" yaml:"workers" mapstructure:"workers"` // 0 = runtime.NumCPU
	ChunkSize int   `json:"chunk_size" yaml:"chunk_size" mapstructure:"chunk_size"`
}

// CacheConfig controls caching of seeded simulation runs.
type CacheConfig struct {
	Enabled   bool          `json:"enabled" yaml:"enabled" mapstructure:"enabled"`
	Dir       string        `json:"dir" yaml:"dir" mapstructure:"dir"`
	MemoryTTL time.Duration `json:"memory_ttl" yaml:"memory_ttl" mapstructure:"memory_ttl"`
	DiskTTL   time.Duration `json:"disk_ttl" yaml:"disk_ttl" mapstructure:"disk_ttl"`
}

// OutputConfig controls rendering.
type OutputConfig struct {
	Verbose       bool `json:"verbose" yaml:"verbose" mapstructure:"verbose"`
	IncludeFooter bool `json:"include_footer" yaml:"include_footer" mapstructure:"include_footer"`
}

// LLMConfig configures the optional narrative summary.
type LLMConfig struct {
	Provider      string `json:"provider" yaml:"provider" mapstructure:"provider"` // openai, ollama, "" (disabled)
	Model         string `json:"model" yaml:"model" mapstructure:"model"`
	APIKey        string `json:"-" yaml:"-" mapstructure:"api_key"`
	BaseURL       string `json:"base_url,omitempty" yaml:"base_url,omitempty" mapstructure:"base_url"`
	Timeout       int    `json:"timeout" yaml:"timeout" mapstructure:"timeout"` // seconds
	MaxTokens     int    `json:"max_tokens" yaml:"max_tokens" mapstructure:"max_tokens"`
	StrictNumbers bool   `json:"strict_numbers" yaml:"strict_numbers" mapstructure:"strict_numbers"`
	HTTPProxy     string `json:"http_proxy,omitempty" yaml:"http_proxy,omitempty" mapstructure:"http_proxy"`
	HTTPSProxy    string `json:"https_proxy,omitempty" yaml:"https_proxy,omitempty" mapstructure:"https_proxy"`
	NoProxy       string `json:"no_proxy,omitempty" yaml:"no_proxy,omitempty" mapstructure:"no_proxy"`
}

// DefaultConfig returns the built-in configuration.
// Curated and Scenarios are left nil, meaning "use the built-in sets".
func DefaultConfig() *Config {
	cacheDir := filepath.Join(os.TempDir(), "reformcast-cache")
	if home, err := os.UserHomeDir(); err == nil {
		cacheDir = filepath.Join(home, ".reformcast", "cache")
	}

	return &Config{
		Marginals: DefaultMarginals(),
		Priors: Priors{
			HistoricalBaseRate: 0.0, // 0 sustained successes
			HistoricalAttempts: 23,
			BayesianPrior:      0.05,
		},
		Baseline: NewAssignment(true, false, false, true, true),
		Simulation: SimulationConfig{
			Trials:    10000,
			Seed:      42,
			Workers:   0,
			ChunkSize: 1000,
		},
		Cache: CacheConfig{
			Enabled:   true,
			Dir:       cacheDir,
			MemoryTTL: time.Hour,
			DiskTTL:   7 * 24 * time.Hour,
		},
		Output: OutputConfig{
			Verbose:       false,
			IncludeFooter: true,
		},
		LLM: LLMConfig{
			Provider:      "",
			Model:         "gpt-4o-mini",
			Timeout:       30,
			MaxTokens:     600,
			StrictNumbers: true,
		},
	}
}

// Validate checks ranges. Curated entries are checked in depth when the
// table is built.
func (c *Config) Validate() error {
	if err := c.Marginals.Validate(); err != nil {
		return err
	}

	p := c.Priors
	for name, v := range map[string]float64{"historical_base_rate": p.HistoricalBaseRate, "bayesian_prior": p.BayesianPrior} {
		if math.IsNaN(v) || v < 0 || v > 1 {
			return fmt.Errorf("%w: prior %s = %v outside [0,1]", ErrInvalidConfig, name, v)
		}
	}

	for i, s := range c.Scenarios {
		if strings.TrimSpace(s.Name) == "" {
			return fmt.Errorf("%w: scenario %d has no name", ErrInvalidConfig, i)
		}
	}

	if c.Simulation.Trials < 0 {
		return fmt.Errorf("%w: simulation.trials must be >= 0, got %d", ErrInvalidConfig, c.Simulation.Trials)
	}
	if c.Simulation.Workers < 0 {
		return fmt.Errorf("%w: simulation.workers must be >= 0, got %d", ErrInvalidConfig, c.Simulation.Workers)
	}
	if c.Simulation.ChunkSize < 0 {
		return fmt.Errorf("%w: simulation.chunk_size must be >= 0, got %d", ErrInvalidConfig, c.Simulation.ChunkSize)
	}

	switch strings.ToLower(c.LLM.Provider) {
	case "", "openai", "ollama":
	default:
		return fmt.Errorf("%w: unknown llm.provider %q (supported: openai, ollama)", ErrInvalidConfig, c.LLM.Provider)
	}

	return nil
}
