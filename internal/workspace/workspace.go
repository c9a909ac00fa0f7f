// Package workspace loads the tool-level run configuration: where the
// parameter files, spatial inputs and results live, and which engine
// executes the scenarios. Order: defaults -> YAML file -> REGROW_* env vars.
package workspace

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// EngineConfig selects and configures the simulation executor.
type EngineConfig struct {
	// Kind is "builtin" (in-process simulator) or "exec" (external engine).
	Kind string `yaml:"kind"`

	// Command is the external engine argv template. The placeholders
	// {model}, {data} and {output} are substituted per scenario run.
	Command []string `yaml:"command,omitempty"`
}

// Config is the full workspace configuration.
type Config struct {
	// Params is the mandatory base parameter file.
	Params string `yaml:"params"`

	// Overrides are optional parameter fragments layered over the base file
	// in order, e.g. sweep-generated params.jshc files.
	Overrides []string `yaml:"overrides,omitempty"`

	// FireData is the fire-severity raster, one scalar per patch.
	FireData string `yaml:"fire_data"`

	// ResultsDir receives per-scenario and combined outputs.
	ResultsDir string `yaml:"results_dir"`

	Seed       int64 `yaml:"seed"`
	Replicates int   `yaml:"replicates"`

	Engine EngineConfig `yaml:"engine"`

	// LogLevel is "info" (default) or "debug".
	LogLevel string `yaml:"log_level"`
}

// Default returns a workspace config with sensible defaults.
func Default() *Config {
	return &Config{
		Params:     "configs/params.jshc",
		FireData:   "preprocessed/fire_severity.csv",
		ResultsDir: "results",
		Seed:       1337,
		Replicates: 1,
		Engine:     EngineConfig{Kind: "builtin"},
		LogLevel:   "info",
	}
}

// Load reads configuration from path when it exists, then applies
// environment overrides. A missing file is not an error; defaults apply.
func Load(path string) (*Config, error) {
	cfg := Default()
	if _, err := os.Stat(path); err == nil {
		loaded, err := LoadFromFile(path)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}
	applyEnvOverrides(cfg)
	return cfg, nil
}

// LoadFromFile loads configuration from a specific YAML file.
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading workspace config: %w", err)
	}
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing workspace config: %w", err)
	}
	return cfg, nil
}

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	if c.Params == "" {
		return fmt.Errorf("params path must be set")
	}
	if c.ResultsDir == "" {
		return fmt.Errorf("results_dir must be set")
	}
	if c.Replicates < 1 {
		return fmt.Errorf("replicates must be at least 1, got %d", c.Replicates)
	}
	switch c.Engine.Kind {
	case "builtin":
	case "exec":
		if len(c.Engine.Command) == 0 {
			return fmt.Errorf("exec engine requires a command template")
		}
	default:
		return fmt.Errorf("invalid engine kind: %s (valid: builtin, exec)", c.Engine.Kind)
	}
	return nil
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("REGROW_PARAMS"); v != "" {
		cfg.Params = v
	}
	if v := os.Getenv("REGROW_FIRE_DATA"); v != "" {
		cfg.FireData = v
	}
	if v := os.Getenv("REGROW_RESULTS_DIR"); v != "" {
		cfg.ResultsDir = v
	}
	if v := os.Getenv("REGROW_SEED"); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			cfg.Seed = n
		}
	}
	if v := os.Getenv("REGROW_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
}
