package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeYAML(t *testing.T, body string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "lifeexp.yaml")
	require.NoError(t, os.WriteFile(p, []byte(body), 0o644))
	return p
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, DefaultInputPath, cfg.Input.Path)
	assert.Equal(t, []string{":"}, cfg.Input.NAValues)
	assert.Equal(t, "PT", cfg.Region.Code)
	assert.True(t, cfg.Region.IsStrict())
	assert.Equal(t, filepath.Join("data", "pt_life_expectancy.csv"), cfg.OutputPath())
	assert.Equal(t, 30*time.Second, cfg.HTTP.Timeout)
	assert.Equal(t, 0, cfg.HTTP.MaxRetries)
	assert.Equal(t, "none", cfg.Metrics.Backend)
	assert.Equal(t, DefaultJob, cfg.Metrics.Job)
	assert.Equal(t, Default(), cfg)
}

func TestLoad_YAML(t *testing.T) {
	p := writeYAML(t, `
input:
  path: raw.zip
  comma: "\t"
  na_values: [":", "n/a"]
  trim_space: true
region:
  code: ES
  strict: false
output:
  path: out/es.csv
sinks:
  - kind: SQLite
    dsn: file:out.db
  - kind: postgres
    dsn: postgres://localhost/lifeexp
    table: public.le
    batch_size: 50
    replace: true
http:
  timeout: 5s
  max_retries: 2
log:
  level: debug
  json: true
`)
	cfg, err := Load(p)
	require.NoError(t, err)

	assert.Equal(t, "raw.zip", cfg.Input.Path)
	assert.Equal(t, '\t', cfg.Input.CommaRune())
	assert.Equal(t, []string{":", "n/a"}, cfg.Input.NAValues)
	assert.True(t, cfg.Input.TrimSpace)
	assert.Equal(t, "ES", cfg.Region.Code)
	assert.False(t, cfg.Region.IsStrict())
	assert.Equal(t, "out/es.csv", cfg.OutputPath())

	require.Len(t, cfg.Sinks, 2)
	assert.Equal(t, SinkConfig{Kind: "sqlite", DSN: "file:out.db", Table: DefaultTable, BatchSize: DefaultBatchSize}, cfg.Sinks[0])
	assert.Equal(t, SinkConfig{Kind: "postgres", DSN: "postgres://localhost/lifeexp", Table: "public.le", BatchSize: 50, Replace: true}, cfg.Sinks[1])

	assert.Equal(t, 5*time.Second, cfg.HTTP.Timeout)
	assert.Equal(t, 2, cfg.HTTP.MaxRetries)
	assert.Equal(t, LogConfig{Level: "debug", JSON: true}, cfg.Log)
}

func TestLoad_EnvOverridesYAML(t *testing.T) {
	p := writeYAML(t, "region:\n  code: ES\nlog:\n  level: warn\n")
	t.Setenv("LIFEEXP__REGION__CODE", "FR")
	t.Setenv("LIFEEXP__METRICS__PUSHGATEWAY_URL", "http://pgw:9091")

	cfg, err := Load(p)
	require.NoError(t, err)
	assert.Equal(t, "FR", cfg.Region.Code)
	assert.Equal(t, "warn", cfg.Log.Level)
	assert.Equal(t, "http://pgw:9091", cfg.Metrics.PushgatewayURL)
	assert.Equal(t, filepath.Join("data", "fr_life_expectancy.csv"), cfg.OutputPath())
}

func TestLoad_Errors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)

	_, err = Load(writeYAML(t, "region: [unclosed\n"))
	require.Error(t, err)
}

func TestEnvKey(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "region.code", envKey("LIFEEXP__REGION__CODE"))
	assert.Equal(t, "metrics.datadog_addr", envKey("LIFEEXP__METRICS__DATADOG_ADDR"))
}

func TestCommaRune(t *testing.T) {
	t.Parallel()
	assert.Equal(t, rune(0), InputConfig{}.CommaRune())
	assert.Equal(t, ';', InputConfig{Comma: ";"}.CommaRune())
}
