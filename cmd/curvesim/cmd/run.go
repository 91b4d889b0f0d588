package cmd

import (
	"errors"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/rovshanmuradov/bonding-curves/internal/config"
	"github.com/rovshanmuradov/bonding-curves/internal/export"
	"github.com/rovshanmuradov/bonding-curves/internal/metrics"
	"github.com/rovshanmuradov/bonding-curves/internal/report"
	"github.com/rovshanmuradov/bonding-curves/internal/simulator"
)

type runCmd struct {
	root *rootFlags

	format      string
	outputDir   string
	noExport    bool
	metricsFile string
	strict      bool
}

func newRunCmd(root *rootFlags) *cobra.Command {
	r := &runCmd{root: root}
	cmd := &cobra.Command{
		Use:   "run [config]",
		Short: "Replay the scenarios of a configuration file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return r.run(cmd, args[0])
		},
	}

	cmd.Flags().StringVar(&r.format, "format", "", "export format override: csv, json or yaml")
	cmd.Flags().StringVarP(&r.outputDir, "output-dir", "o", "", "export directory override")
	cmd.Flags().BoolVar(&r.noExport, "no-export", false, "skip writing the trade export")
	cmd.Flags().StringVar(&r.metricsFile, "metrics-file", "", "write final metrics in Prometheus text format to this file")
	cmd.Flags().BoolVar(&r.strict, "strict", false, "exit with an error when any scenario fails")
	return cmd
}

func (r *runCmd) run(cmd *cobra.Command, path string) error {
	cfg, err := config.LoadConfig(path)
	if err != nil {
		return err
	}
	if r.outputDir != "" {
		cfg.OutputDir = r.outputDir
	}
	if r.format != "" {
		cfg.ExportFormat = r.format
	}
	format, err := export.ParseFormat(cfg.ExportFormat)
	if err != nil {
		return err
	}

	log, err := r.root.newLogger(cfg.DebugLogging, cfg.LogFormat)
	if err != nil {
		return err
	}
	defer syncLogger(log)

	registry := prometheus.NewRegistry()
	collector, err := metrics.NewCollector(registry)
	if err != nil {
		return fmt.Errorf("failed to create metrics collector: %w", err)
	}

	results, runErr := simulator.New(cfg, collector, log).Run(cmd.Context())

	out := cmd.OutOrStdout()
	fmt.Fprint(out, report.Results(results))

	if !r.noExport {
		path, err := export.NewTradeExporter(log).ExportTrades(simulator.AllTrades(results), export.ExportOptions{
			Format:    format,
			OutputDir: cfg.OutputDir,
		})
		switch {
		case errors.Is(err, export.ErrNoTrades):
			fmt.Fprint(out, report.Warning("no trades to export"))
		case err != nil:
			return fmt.Errorf("export failed: %w", err)
		default:
			fmt.Fprintf(out, "trades exported to %s\n", path)
		}
	}

	if r.metricsFile != "" {
		if err := prometheus.WriteToTextfile(r.metricsFile, registry); err != nil {
			return fmt.Errorf("failed to write metrics: %w", err)
		}
		log.Debug("Metrics written", zap.String("path", r.metricsFile))
	}

	if runErr != nil {
		return fmt.Errorf("simulation interrupted: %w", runErr)
	}
	if r.strict {
		failed := 0
		for _, res := range results {
			if res.Err != nil {
				failed++
			}
		}
		if failed > 0 {
			return fmt.Errorf("%d of %d scenarios failed", failed, len(results))
		}
	}
	return nil
}
