package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_DefaultsWithoutFileOrEnv(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "outputs/section7", cfg.OutputDir)
	assert.Equal(t, "eval/reports", cfg.ReportDir)
	assert.Empty(t, cfg.Generator.Command)
	assert.Equal(t, 1200, cfg.Generator.TimeoutSeconds)
	assert.Equal(t, "openai:gpt-4o", cfg.Review.Model)
	assert.Equal(t, 2000, cfg.Review.ExcerptLimit)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "console", cfg.Log.Format)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("SECTION7_OUTPUT_DIR", "/tmp/out")
	t.Setenv("SECTION7_REPORT_DIR", "/tmp/reports")
	t.Setenv("SECTION7_GENERATOR_TIMEOUT_SECONDS", "60")
	t.Setenv("SECTION7_LOG_LEVEL", "debug")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "/tmp/out", cfg.OutputDir)
	assert.Equal(t, "/tmp/reports", cfg.ReportDir)
	assert.Equal(t, 60, cfg.Generator.TimeoutSeconds)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestLoad_YAMLFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `output_dir: produced
report_dir: rapports
generator:
  command: ["python", "scripts/formatter.py", "--in", "{input}", "--out", "{output}"]
  timeout_seconds: 300
review:
  model: anthropic:claude-sonnet-4-5
  excerpt_limit: 500
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "produced", cfg.OutputDir)
	assert.Equal(t, "rapports", cfg.ReportDir)
	assert.Equal(t, []string{"python", "scripts/formatter.py", "--in", "{input}", "--out", "{output}"}, cfg.Generator.Command)
	assert.Equal(t, 300, cfg.Generator.TimeoutSeconds)
	assert.Equal(t, "anthropic:claude-sonnet-4-5", cfg.Review.Model)
	assert.Equal(t, 500, cfg.Review.ExcerptLimit)
}

func TestLoad_MissingFileIsError(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestValidate_RejectsBadValues(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
	}{
		{"negative timeout", func(c *Config) { c.Generator.TimeoutSeconds = -1 }},
		{"negative excerpt limit", func(c *Config) { c.Review.ExcerptLimit = -5 }},
		{"temperature out of range", func(c *Config) { c.Review.Temperature = 3.0 }},
		{"unknown log format", func(c *Config) { c.Log.Format = "xml" }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := &Config{}
			applyDefaults(cfg)
			tc.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}
