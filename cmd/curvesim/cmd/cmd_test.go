package cmd

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, ctx context.Context, args ...string) (string, error) {
	t.Helper()
	root := NewRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.ExecuteContext(ctx)
	return out.String(), err
}

const scenarioYAML = `
workers: 2
export_format: json
scenarios:
  - name: launch
    curve:
      type: bancor
      reserve: "1000"
      supply: "10000"
      connector_weight: 0.5
    steps:
      - action: buy
        amount: 100
      - action: sell
        amount: 50
  - name: broken
    stop_on_error: true
    curve:
      type: linear
      slope: 1
    steps:
      - action: sell
        amount: 5
`

func writeScenario(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "curvesim.yaml")
	require.NoError(t, os.WriteFile(path, []byte(scenarioYAML), 0o644))
	return path
}

func TestRunCommand(t *testing.T) {
	cfgPath := writeScenario(t)
	outDir := t.TempDir()
	metricsFile := filepath.Join(t.TempDir(), "curvesim.prom")

	out, err := execute(t, context.Background(), "run", cfgPath,
		"--output-dir", outDir, "--metrics-file", metricsFile)
	require.NoError(t, err)

	assert.Contains(t, out, "launch")
	assert.Contains(t, out, "broken")
	assert.Contains(t, out, "trades exported to")

	files, err := filepath.Glob(filepath.Join(outDir, "trades_all_*.json"))
	require.NoError(t, err)
	assert.Len(t, files, 1)

	prom, err := os.ReadFile(metricsFile)
	require.NoError(t, err)
	assert.Contains(t, string(prom), "curvesim_trades_total")
	assert.Contains(t, string(prom), `market="launch"`)
}

func TestRunCommandStrict(t *testing.T) {
	_, err := execute(t, context.Background(), "run", writeScenario(t), "--no-export", "--strict")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "1 of 2 scenarios failed")
}

func TestRunCommandFormatOverride(t *testing.T) {
	outDir := t.TempDir()
	_, err := execute(t, context.Background(), "run", writeScenario(t), "-o", outDir, "--format", "yml")
	require.NoError(t, err)

	files, err := filepath.Glob(filepath.Join(outDir, "*.yaml"))
	require.NoError(t, err)
	assert.Len(t, files, 1)

	_, err = execute(t, context.Background(), "run", writeScenario(t), "--format", "xml")
	assert.ErrorContains(t, err, "unsupported format")
}

func TestRunCommandInterrupted(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := execute(t, ctx, "run", writeScenario(t), "--no-export")
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRunCommandMissingConfig(t *testing.T) {
	_, err := execute(t, context.Background(), "run", filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)

	_, err = execute(t, context.Background(), "run")
	assert.Error(t, err, "config path is required")
}

func TestQuoteCommand(t *testing.T) {
	out, err := execute(t, context.Background(), "quote",
		"--type", "linear", "--slope", "0.5", "--buy", "10", "--sell", "4")
	require.NoError(t, err)

	assert.Contains(t, out, "buy 10 → cost 25")
	assert.Contains(t, out, "sell 4 → received 16")
	lines := strings.Split(strings.TrimSpace(out), "\n")
	assert.Contains(t, lines[len(lines)-1], "3", "final price is slope times supply")
	assert.Contains(t, out, "supply")
}

func TestQuoteCommandBancor(t *testing.T) {
	out, err := execute(t, context.Background(), "quote",
		"--type", "bancor", "--reserve", "1000", "--supply", "10000", "--connector-weight", "1", "--buy", "100")
	require.NoError(t, err)
	assert.Contains(t, out, "tokens issued")
	assert.Contains(t, out, "reserve")
}

func TestQuoteCommandRejectedTrade(t *testing.T) {
	out, err := execute(t, context.Background(), "quote", "--type", "linear", "--slope", "1", "--sell", "1")
	require.NoError(t, err)
	assert.Contains(t, out, "rejected")
}

func TestQuoteCommandErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{"missing type", []string{"quote", "--slope", "1"}, "type"},
		{"unknown type", []string{"quote", "--type", "cubic"}, "cubic"},
		{"invalid parameters", []string{"quote", "--type", "linear", "--slope=-1"}, "slope must be positive"},
		{"invalid amount", []string{"quote", "--type", "linear", "--slope", "1", "--buy", "ten"}, "invalid amount"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := execute(t, context.Background(), tt.args...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}
