package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/oshokin/thermostat-panel/internal/config"
	"github.com/oshokin/thermostat-panel/internal/service/runner"
	"github.com/oshokin/thermostat-panel/internal/version"
	"github.com/oshokin/thermostat-panel/internal/viewer"
)

var (
	// configPath stores the path to the configuration YAML file.
	configPath string
	// backend overrides the board backend from the configuration file.
	backend string
	// serialPort overrides the serial port of the GPIO bridge.
	serialPort string
	// logFile receives the simulator logs.
	logFile string

	// rootCmd represents the base command of the thermostat panel.
	rootCmd = &cobra.Command{
		Use:   "thermostat",
		Short: "Thermostat panel control loop.",
		Long: `Control loop of a thermostat panel with five pushbuttons,
a three digit seven-segment display, four range LEDs and an alarm output.

The loop can drive a GPIO bridge attached over a serial line, or an
in-memory board shown in the terminal.`,
		SilenceUsage: true,
	}

	// runCmd runs the loop against the configured board.
	runCmd = &cobra.Command{
		Use:   "run",
		Short: "Run the control loop.",
		Long: `Run the control loop until interrupted.

Board settings are loaded from the configuration file; a missing file means
defaults (simulated board). Flags override the file.`,
		Args: cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			// Setup graceful shutdown handling.
			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
			defer stop()

			runOptions := &runner.Options{
				ConfigPath: configPath,
				Backend:    backend,
				SerialPort: serialPort,
			}

			return runner.Run(ctx, runOptions)
		},
	}

	// simCmd shows the loop on a simulated board in the terminal.
	simCmd = &cobra.Command{
		Use:   "sim",
		Short: "Show the panel in the terminal.",
		Long: `Run the control loop on a simulated board and draw the panel in the terminal.

Keys: +/- change temperature, u toggles Celsius/Fahrenheit, m toggles the
range indicator, s stops the alarm, q quits.`,
		Args: cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
			defer stop()

			return viewer.Run(ctx, &viewer.Options{LogFile: logFile})
		},
	}

	// portsCmd lists serial ports a GPIO bridge may be attached to.
	portsCmd = &cobra.Command{
		Use:   "ports",
		Short: "List serial ports.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ports, err := runner.ListPorts(cmd.Context())
			if err != nil {
				return err
			}

			if len(ports) == 0 {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "No serial ports found.")

				return nil
			}

			for _, port := range ports {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), port.Name)
			}

			return nil
		},
	}
)

// Execute runs the thermostat CLI and exits with non-zero status on error.
func Execute() {
	version.AttachCobraVersionCommand(rootCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

//nolint:gochecknoinits // Required by Cobra CLI framework architecture.
func init() {
	runCmd.Flags().StringVarP(&configPath, "config", "c", config.DefaultConfigFilename, "path to configuration file")
	runCmd.Flags().StringVarP(&backend, "backend", "b", "", "board backend: sim or serial")
	runCmd.Flags().StringVarP(&serialPort, "port", "p", "", "serial port of the GPIO bridge")

	simCmd.Flags().StringVar(&logFile, "log-file", "", "write loop logs to this file")

	rootCmd.AddCommand(runCmd, simCmd, portsCmd)
}
