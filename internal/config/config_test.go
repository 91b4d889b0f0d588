package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rovshanmuradov/bonding-curves/pkg/curve"
)

const validYAML = `
debug_logging: true
export_format: json
scenarios:
  - name: bancor-launch
    stop_on_error: true
    curve:
      type: bancor
      reserve: "1000"
      supply: 10000
      connector_weight: 0.2
    steps:
      - action: buy
        amount: 100
      - action: SELL
        amount: "200"
        repeat: 2
      - action: price
  - name: sigmoid
    curve:
      type: sigmoid
      max_price: 100
      steepness: 0.1
      midpoint: 50
    steps:
      - action: buy
        amount: 0.5
`

func writeConfig(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadConfig(t *testing.T) {
	cfg, err := LoadConfig(writeConfig(t, "curvesim.yaml", validYAML))
	require.NoError(t, err)

	assert.True(t, cfg.DebugLogging)
	assert.Equal(t, "json", cfg.ExportFormat)
	assert.Equal(t, DefaultWorkers, cfg.Workers)
	assert.Equal(t, DefaultMaxHistory, cfg.MaxHistory)
	assert.Equal(t, DefaultOutputDir, cfg.OutputDir)
	assert.Equal(t, DefaultLogFormat, cfg.LogFormat)
	assert.Empty(t, cfg.JournalDir)

	require.Len(t, cfg.Scenarios, 2)
	sc := cfg.Scenarios[0]
	assert.Equal(t, "bancor-launch", sc.Name)
	assert.True(t, sc.StopOnError)
	require.Len(t, sc.Steps, 3)
	assert.Equal(t, ActionSell, sc.Steps[1].Action, "actions are normalized")
	assert.Equal(t, 2, sc.Steps[1].Times())
	assert.Equal(t, 1, sc.Steps[0].Times())

	amount, err := sc.Steps[0].Value()
	require.NoError(t, err)
	assert.Equal(t, "100", amount.String())

	small, err := cfg.Scenarios[1].Steps[0].Value()
	require.NoError(t, err)
	assert.Equal(t, "0.5", small.String())

	params, err := sc.Curve.Params()
	require.NoError(t, err)
	assert.Equal(t, curve.TypeBancor, params.Type)
	assert.Equal(t, "1000", params.Reserve.String())
	assert.Equal(t, "10000", params.Supply.String())
	assert.Equal(t, 0.2, params.ConnectorWeight)
}

func TestLoadConfigEnvOverride(t *testing.T) {
	t.Setenv("CURVESIM_WORKERS", "8")
	t.Setenv("CURVESIM_OUTPUT_DIR", "/tmp/curves")

	cfg, err := LoadConfig(writeConfig(t, "curvesim.yaml", validYAML))
	require.NoError(t, err)
	assert.Equal(t, 8, cfg.Workers)
	assert.Equal(t, "/tmp/curves", cfg.OutputDir)
}

func TestLoadConfigJSON(t *testing.T) {
	body := `{"scenarios":[{"name":"lin","curve":{"type":"linear","slope":0.01},"steps":[{"action":"buy","amount":"50"}]}]}`
	cfg, err := LoadConfig(writeConfig(t, "curvesim.json", body))
	require.NoError(t, err)
	require.Len(t, cfg.Scenarios, 1)
	assert.Equal(t, 0.01, cfg.Scenarios[0].Curve.Slope)
}

func TestLoadConfigMissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestValidateConfig(t *testing.T) {
	base := func() *Config {
		return &Config{
			LogFormat:    "pretty",
			Workers:      1,
			MaxHistory:   10,
			ExportFormat: "csv",
			Scenarios: []ScenarioConfig{{
				Name:  "lin",
				Curve: CurveConfig{Type: "linear", Slope: 0.01},
				Steps: []StepConfig{{Action: "buy", Amount: "1"}},
			}},
		}
	}
	require.NoError(t, validateConfig(base()))

	tests := []struct {
		name   string
		mutate func(*Config)
		errMsg string
	}{
		{"no scenarios", func(c *Config) { c.Scenarios = nil }, "scenarios list is empty"},
		{"zero workers", func(c *Config) { c.Workers = 0 }, "invalid workers count"},
		{"zero history", func(c *Config) { c.MaxHistory = 0 }, "invalid max_history"},
		{"export format", func(c *Config) { c.ExportFormat = "xml" }, "invalid export_format"},
		{"log format", func(c *Config) { c.LogFormat = "text" }, "invalid log_format"},
		{"unnamed", func(c *Config) { c.Scenarios[0].Name = "" }, "has no name"},
		{"duplicate", func(c *Config) { c.Scenarios = append(c.Scenarios, c.Scenarios[0]) }, "duplicate scenario name"},
		{"journal clash", func(c *Config) {
			a, b := c.Scenarios[0], c.Scenarios[0]
			a.Name, b.Name = "launch v2", "launch_v2"
			c.Scenarios = []ScenarioConfig{a, b}
		}, "share journal file launch_v2.csv"},
		{"unknown curve", func(c *Config) { c.Scenarios[0].Curve.Type = "quadratic" }, "unknown curve type"},
		{"bad reserve", func(c *Config) { c.Scenarios[0].Curve.Reserve = "lots" }, "invalid reserve"},
		{"no steps", func(c *Config) { c.Scenarios[0].Steps = nil }, "no steps"},
		{"unknown action", func(c *Config) { c.Scenarios[0].Steps[0].Action = "hold" }, "unknown action"},
		{"missing amount", func(c *Config) { c.Scenarios[0].Steps[0].Amount = "" }, "missing amount"},
		{"bad amount", func(c *Config) { c.Scenarios[0].Steps[0].Amount = "1e5" }, "invalid amount"},
		{"negative repeat", func(c *Config) { c.Scenarios[0].Steps[0].Repeat = -1 }, "negative repeat"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := base()
			tt.mutate(cfg)
			err := validateConfig(cfg)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}

func TestJournalFile(t *testing.T) {
	assert.Equal(t, "bancor_launch_v2.csv", ScenarioConfig{Name: "bancor launch/v2"}.JournalFile())
	assert.Equal(t, "a_b.csv", ScenarioConfig{Name: `a\b`}.JournalFile())
	assert.Equal(t, "lin.csv", ScenarioConfig{Name: "lin"}.JournalFile())
}

func TestPriceStepNeedsNoAmount(t *testing.T) {
	sc := ScenarioConfig{
		Name:  "quote",
		Curve: CurveConfig{Type: "exponential", Coefficient: 2, Exponent: 1.5},
		Steps: []StepConfig{{Action: " Price "}},
	}
	require.NoError(t, sc.validate())
	assert.Equal(t, ActionPrice, sc.Steps[0].Action)
}
