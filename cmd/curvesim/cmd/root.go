package cmd

import (
	"errors"
	"fmt"
	"os"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/rovshanmuradov/bonding-curves/internal/logger"
)

type rootFlags struct {
	debug     bool
	logFormat string
}

// NewRootCmd builds the curvesim command tree.
func NewRootCmd() *cobra.Command {
	flags := &rootFlags{}

	cmd := &cobra.Command{
		Use:   "curvesim",
		Short: "Simulate bonding-curve markets",
		Long: "curvesim prices token issuance along Bancor, linear, exponential,\n" +
			"logarithmic and sigmoid bonding curves. Use `run` to replay scenario\n" +
			"files and `quote` for one-off calculations.",
		SilenceErrors: true,
		SilenceUsage:  true,
	}
	cmd.CompletionOptions.HiddenDefaultCmd = true
	cmd.SetHelpCommand(&cobra.Command{Hidden: true})

	cmd.PersistentFlags().BoolVar(&flags.debug, "debug", false, "enable debug logging")
	cmd.PersistentFlags().StringVar(&flags.logFormat, "log-format", "", "log format: pretty or json")

	cmd.AddCommand(
		newRunCmd(flags),
		newQuoteCmd(flags),
	)
	return cmd
}

func (f *rootFlags) newLogger(debug bool, format string) (*zap.Logger, error) {
	if f.logFormat != "" {
		format = f.logFormat
	}
	log, err := logger.New(f.debug || debug, format)
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}
	return log, nil
}

// syncLogger flushes log output, ignoring the errors terminals return for
// fsync on stdout and stderr.
func syncLogger(log *zap.Logger) {
	if err := log.Sync(); err != nil {
		if os.IsNotExist(err) || errors.Is(err, syscall.EINVAL) || errors.Is(err, syscall.ENOTTY) {
			return
		}
		fmt.Fprintf(os.Stderr, "failed to sync logger: %v\n", err)
	}
}
