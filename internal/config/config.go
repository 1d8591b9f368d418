package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/oshokin/thermostat-panel/internal/logger"
)

// Backend names a hardware backend.
type Backend string

const (
	// BackendSimulator runs the loop against the in-memory board.
	BackendSimulator Backend = "sim"
	// BackendSerial runs the loop against a GPIO bridge on a serial line.
	BackendSerial Backend = "serial"
)

// Config holds the settings of the thermostat binary.
type Config struct {
	// Backend selects the hardware backend.
	Backend Backend `yaml:"backend"`
	// LogLevel is the minimum level of log messages.
	LogLevel string `yaml:"log_level"`
	// Serial configures the serial GPIO bridge.
	Serial SerialConfig `yaml:"serial"`
}

// SerialConfig holds the serial GPIO bridge settings.
type SerialConfig struct {
	// Port is the OS device name of the bridge.
	Port string `yaml:"port"`
	// BaudRate is the line speed.
	BaudRate int `yaml:"baud_rate"`
	// ReadTimeout bounds how long a bridge reply may take.
	ReadTimeout time.Duration `yaml:"read_timeout"`
}

const (
	// DefaultConfigFilename is the default filename for settings.
	DefaultConfigFilename = "thermostat-settings.yaml"

	// DefaultBaudRate is the default line speed of the bridge.
	DefaultBaudRate = 115200

	// DefaultReadTimeout is the default bridge reply timeout.
	DefaultReadTimeout = time.Second

	// DefaultFilePermissions is the default file permission for config files.
	DefaultFilePermissions = 0o600
)

var (
	// errConfigIsNotSet is returned when a nil configuration is provided.
	errConfigIsNotSet = errors.New("configuration is not set")
	// ErrUnknownBackend is returned for a backend name that is not supported.
	ErrUnknownBackend = errors.New("unknown backend")
	// ErrSerialPortRequired is returned when the serial backend has no port.
	ErrSerialPortRequired = errors.New("serial port must be provided for the serial backend")
	// ErrInvalidLogLevel is returned for an unparsable log level.
	ErrInvalidLogLevel = errors.New("invalid log level")
)

// Default returns the settings used when no file exists.
func Default() *Config {
	return &Config{
		Backend:  BackendSimulator,
		LogLevel: "info",
		Serial: SerialConfig{
			BaudRate:    DefaultBaudRate,
			ReadTimeout: DefaultReadTimeout,
		},
	}
}

// Load reads settings from path. A missing file yields the defaults;
// fields missing from the file keep their default values.
// The result is not validated so that callers can apply overrides first.
func Load(path string) (*Config, error) {
	if path == "" {
		path = DefaultConfigFilename
	}

	cfg := Default()

	contents, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}

		return nil, fmt.Errorf("read settings: %w", err)
	}

	if err = yaml.Unmarshal(contents, cfg); err != nil {
		return nil, fmt.Errorf("unmarshal settings: %w", err)
	}

	return cfg, nil
}

// Save writes settings to path.
func Save(path string, cfg *Config) error {
	if cfg == nil {
		return errConfigIsNotSet
	}

	if path == "" {
		path = DefaultConfigFilename
	}

	if err := Validate(cfg); err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal settings: %w", err)
	}

	if err := os.WriteFile(filepath.Clean(path), data, DefaultFilePermissions); err != nil {
		return fmt.Errorf("write settings: %w", err)
	}

	return nil
}

// Validate checks the settings and fills zero values with defaults.
func Validate(cfg *Config) error {
	if cfg == nil {
		return errConfigIsNotSet
	}

	if cfg.Backend == "" {
		cfg.Backend = BackendSimulator
	}

	if cfg.Serial.BaudRate <= 0 {
		cfg.Serial.BaudRate = DefaultBaudRate
	}

	if cfg.Serial.ReadTimeout <= 0 {
		cfg.Serial.ReadTimeout = DefaultReadTimeout
	}

	if _, ok := logger.ParseLogLevel(cfg.LogLevel); !ok {
		return fmt.Errorf("%w: %q", ErrInvalidLogLevel, cfg.LogLevel)
	}

	switch cfg.Backend {
	case BackendSimulator:
		return nil
	case BackendSerial:
		if cfg.Serial.Port == "" {
			return ErrSerialPortRequired
		}

		return nil
	default:
		return fmt.Errorf("%w: %q", ErrUnknownBackend, cfg.Backend)
	}
}
