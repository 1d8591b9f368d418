package runner

import (
	"context"
	"fmt"

	"github.com/oshokin/thermostat-panel/internal/config"
	"github.com/oshokin/thermostat-panel/internal/hal"
	"github.com/oshokin/thermostat-panel/internal/logger"
	"github.com/oshokin/thermostat-panel/internal/service/controller"
)

// Options controls the thermostat process.
type Options struct {
	// ConfigPath specifies the path to the settings YAML file.
	ConfigPath string
	// Backend provides an optional backend override.
	Backend string
	// SerialPort provides an optional serial port override.
	SerialPort string
}

// Run loads settings, opens the backend and runs the loop until ctx is cancelled.
func Run(ctx context.Context, opts *Options) error {
	// Set context with logger name for tracking.
	ctx = logger.WithName(ctx, "thermostat")

	cfg, err := loadSettings(opts)
	if err != nil {
		return err
	}

	lvl, _ := logger.ParseLogLevel(cfg.LogLevel)
	logger.SetLevel(lvl)

	ctx = logger.WithKV(ctx, "backend", string(cfg.Backend))

	b, closeBoard, err := openBackend(ctx, cfg)
	if err != nil {
		return err
	}

	defer func() {
		if closeErr := closeBoard(); closeErr != nil {
			logger.ErrorKV(ctx, "Failed to close backend", "error", closeErr)
		}
	}()

	ctrl := controller.New(b, hal.NewRealClock())

	logger.Info(ctx, "Starting thermostat loop")

	if err = ctrl.Run(ctx); err != nil {
		logger.ErrorKV(ctx, "Thermostat loop failed", "error", err)

		return fmt.Errorf("run loop: %w", err)
	}

	return nil
}

// ListPorts returns the serial ports a bridge could be attached to.
func ListPorts(ctx context.Context) ([]hal.PortInfo, error) {
	ports, err := hal.Ports()
	if err != nil {
		return nil, err
	}

	logger.DebugKV(ctx, "Serial ports listed", "count", len(ports))

	return ports, nil
}

// loadSettings reads the config file and applies command line overrides.
func loadSettings(opts *Options) (*config.Config, error) {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return nil, fmt.Errorf("load settings: %w", err)
	}

	if opts.Backend != "" {
		cfg.Backend = config.Backend(opts.Backend)
	}

	if opts.SerialPort != "" {
		cfg.Serial.Port = opts.SerialPort
	}

	if err = config.Validate(cfg); err != nil {
		return nil, fmt.Errorf("validate settings: %w", err)
	}

	return cfg, nil
}

// openBackend opens the board selected by the settings and returns its closer.
func openBackend(ctx context.Context, cfg *config.Config) (hal.Board, func() error, error) {
	switch cfg.Backend {
	case config.BackendSimulator:
		logger.Info(ctx, "Using simulated board, no buttons will be pressed")

		return hal.NewSimulator(hal.NewRealClock(), hal.WithoutEventLog()), func() error { return nil }, nil
	case config.BackendSerial:
		claims, err := newPortClaims()
		if err != nil {
			return nil, nil, err
		}

		release, err := claims.claim(ctx, cfg.Serial.Port)
		if err != nil {
			return nil, nil, err
		}

		b, err := hal.OpenSerial(cfg.Serial.Port, cfg.Serial.BaudRate, cfg.Serial.ReadTimeout)
		if err != nil {
			release()

			return nil, nil, fmt.Errorf("open serial backend: %w", err)
		}

		logger.InfoKV(ctx, "Serial bridge opened", "port", cfg.Serial.Port, "baud_rate", cfg.Serial.BaudRate)

		closeBoard := func() error {
			defer release()

			return b.Close()
		}

		return b, closeBoard, nil
	default:
		return nil, nil, fmt.Errorf("%w: %q", config.ErrUnknownBackend, cfg.Backend)
	}
}
