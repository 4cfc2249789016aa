// Package cli wires the simulator command line.
package cli

import (
	"errors"

	"github.com/ayo6706/transfer-simulator/internal/app"
	"github.com/ayo6706/transfer-simulator/internal/config"
	"github.com/ayo6706/transfer-simulator/internal/simulation"
	"github.com/spf13/cobra"
)

// NewRootCommand creates the simulator command.
func NewRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "simulator <workers> <amount> <accounts>",
		Short: "Run concurrent random transfers until one account reaches zero",
		Long: "Starts <workers> goroutines that move <amount> between random pairs of <accounts>\n" +
			"in-memory accounts until one account is drained to zero, then prints a report.\n" +
			"Arguments may also come from SIM_WORKERS, SIM_AMOUNT and SIM_ACCOUNTS.",
		Example:       "  simulator 8 10.00 100\n  simulator --format json --timeout 1m 0x10 2.5 50",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(cmd.Flags(), args)
			if err != nil {
				return WrapExitError(ExitUsage, "invalid arguments", err)
			}
			if err := app.Run(cmd.Context(), cfg, cmd.OutOrStdout()); err != nil {
				if errors.Is(err, simulation.ErrInvalidConfig) {
					return WrapExitError(ExitUsage, "invalid settings", err)
				}
				return WrapExitError(ExitFailure, "simulation failed", err)
			}
			return nil
		},
	}
	cmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return WrapExitError(ExitUsage, "invalid flags", err)
	})

	flags := cmd.Flags()
	flags.Uint64("seed", 0, "seed for balances and account selection (0 = random)")
	flags.String("log-level", "info", "log level (debug|info|warn|error)")
	flags.String("format", config.FormatText, "report format (text|json|yaml)")
	flags.String("metrics-addr", "", "serve /metrics, /health/live and /v1/simulation on this address")
	flags.Int("rate-limit", 10, "requests per second per IP on /v1/simulation")
	flags.Duration("timeout", 0, "give up if no account reached zero in time (0 = no limit)")
	flags.Duration("progress-interval", 0, "log run progress at this interval (0 = off)")

	return cmd
}
