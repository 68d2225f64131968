// Package config provides configuration loading, defaults, and
// validation for the evaluator. Settings come from an optional YAML file
// merged with SECTION7_* environment variables; the resulting Config is
// read once at startup and passed by parameter, never consulted as
// global state.
package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// envPrefix is the environment variable prefix for all settings, e.g.
// SECTION7_OUTPUT_DIR, SECTION7_GENERATOR_TIMEOUT_SECONDS.
const envPrefix = "SECTION7"

// Config is the full evaluator configuration.
type Config struct {
	// OutputDir is where the generator (or an external pipeline) writes
	// produced documents, one {id}.md per case.
	OutputDir string `mapstructure:"output_dir"`
	// ReportDir is where per-case JSON reports are written.
	ReportDir string `mapstructure:"report_dir"`

	Generator GeneratorConfig `mapstructure:"generator"`
	Review    ReviewConfig    `mapstructure:"review"`
	Log       LogConfig       `mapstructure:"log"`
}

// GeneratorConfig controls the optional external generation step.
type GeneratorConfig struct {
	// Command is the argument vector to run when a case's output file is
	// absent. Arguments may embed the placeholders {id}, {input} and
	// {output}. Empty means generation is disabled.
	Command []string `mapstructure:"command"`
	// TimeoutSeconds bounds one generator invocation.
	TimeoutSeconds int `mapstructure:"timeout_seconds"`
}

// ReviewConfig controls the manager-review collaborator.
type ReviewConfig struct {
	// Model selects the provider and model, e.g. "openai:gpt-4o" or
	// "anthropic:claude-sonnet-4-5".
	Model string `mapstructure:"model"`
	// PromptPath points at the French manager prompt template. Empty
	// selects the built-in template.
	PromptPath string `mapstructure:"prompt_path"`
	// ChecklistPath points at the JSON conformity checklist. Optional.
	ChecklistPath string `mapstructure:"checklist_path"`
	// ExcerptLimit caps, in runes, the gold and output excerpts inserted
	// into the prompt.
	ExcerptLimit int `mapstructure:"excerpt_limit"`
	// Temperature for the review call.
	Temperature float64 `mapstructure:"temperature"`
}

// LogConfig controls the zap logger.
type LogConfig struct {
	// Level: debug, info, warn or error. Defaults to info.
	Level string `mapstructure:"level"`
	// Format: "console" (default for the CLI) or "json".
	Format string `mapstructure:"format"`
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	return v
}

// Load builds a Config from the optional YAML file at configPath (empty
// means env-and-defaults only), merges SECTION7_* environment overrides,
// applies defaults, and validates the result.
func Load(configPath string) (*Config, error) {
	v := newViper()
	bindKeys(v)
	if configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("config: reading %q: %w", configPath, err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("config: unmarshaling: %w", err)
	}
	applyDefaults(cfg)
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return cfg, nil
}

// bindKeys registers every known key so AutomaticEnv resolves it even
// when no config file sets it.
func bindKeys(v *viper.Viper) {
	for _, k := range []string{
		"output_dir",
		"report_dir",
		"generator.command",
		"generator.timeout_seconds",
		"review.model",
		"review.prompt_path",
		"review.checklist_path",
		"review.excerpt_limit",
		"review.temperature",
		"log.level",
		"log.format",
	} {
		if err := v.BindEnv(k); err != nil {
			// BindEnv only errors on an empty key list.
			panic(err)
		}
	}
}

func applyDefaults(cfg *Config) {
	if cfg.OutputDir == "" {
		cfg.OutputDir = "outputs/section7"
	}
	if cfg.ReportDir == "" {
		cfg.ReportDir = "eval/reports"
	}
	if cfg.Generator.TimeoutSeconds == 0 {
		cfg.Generator.TimeoutSeconds = 1200
	}
	if cfg.Review.Model == "" {
		cfg.Review.Model = "openai:gpt-4o"
	}
	if cfg.Review.ExcerptLimit == 0 {
		cfg.Review.ExcerptLimit = 2000
	}
	if cfg.Review.Temperature == 0 {
		cfg.Review.Temperature = 0.1
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "console"
	}
}

// Validate rejects values no component can run with.
func (c *Config) Validate() error {
	if c.Generator.TimeoutSeconds < 0 {
		return fmt.Errorf("generator.timeout_seconds must be positive, got %d", c.Generator.TimeoutSeconds)
	}
	if c.Review.ExcerptLimit < 0 {
		return fmt.Errorf("review.excerpt_limit must be positive, got %d", c.Review.ExcerptLimit)
	}
	if c.Review.Temperature < 0 || c.Review.Temperature > 2 {
		return fmt.Errorf("review.temperature must be in [0,2], got %g", c.Review.Temperature)
	}
	switch c.Log.Format {
	case "console", "json":
	default:
		return fmt.Errorf("log.format must be console or json, got %q", c.Log.Format)
	}
	return nil
}
