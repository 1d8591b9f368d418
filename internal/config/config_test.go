package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// TestValidate checks required fields, defaults and format validations.
func TestValidate(t *testing.T) {
	t.Parallel()

	// Empty settings fall back to the simulator.
	cfg := new(Config)
	require.NoError(t, Validate(cfg))
	require.Equal(t, BackendSimulator, cfg.Backend)
	require.Equal(t, DefaultBaudRate, cfg.Serial.BaudRate)
	require.Equal(t, DefaultReadTimeout, cfg.Serial.ReadTimeout)

	// Serial backend without a port.
	cfg = &Config{Backend: BackendSerial}
	require.ErrorIs(t, Validate(cfg), ErrSerialPortRequired)

	// Unknown backend.
	cfg = &Config{Backend: "gpio-over-carrier-pigeon"}
	require.ErrorIs(t, Validate(cfg), ErrUnknownBackend)

	// Bad log level.
	cfg = &Config{LogLevel: "loud"}
	require.ErrorIs(t, Validate(cfg), ErrInvalidLogLevel)

	// Okay with serial port.
	cfg = &Config{Backend: BackendSerial, Serial: SerialConfig{Port: "/dev/ttyUSB0"}}
	require.NoError(t, Validate(cfg))

	require.Error(t, Validate(nil))
}

// TestLoad_MissingFileGivesDefaults verifies a missing file is not an error.
func TestLoad_MissingFileGivesDefaults(t *testing.T) {
	t.Parallel()

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	require.Equal(t, Default(), cfg)
}

// TestLoad_PartialFileKeepsDefaults verifies fields absent from YAML keep default values.
func TestLoad_PartialFileKeepsDefaults(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "settings.yaml")
	contents := "backend: serial\nserial:\n  port: /dev/ttyACM0\n  read_timeout: 250ms\n"
	require.NoError(t, os.WriteFile(path, []byte(contents), DefaultFilePermissions))

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, BackendSerial, cfg.Backend)
	require.Equal(t, "/dev/ttyACM0", cfg.Serial.Port)
	require.Equal(t, 250*time.Millisecond, cfg.Serial.ReadTimeout)
	require.Equal(t, DefaultBaudRate, cfg.Serial.BaudRate)
	require.Equal(t, "info", cfg.LogLevel)
}

// TestSaveLoadRoundtrip ensures settings are persisted and loaded back correctly.
func TestSaveLoadRoundtrip(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "settings.yaml")

	cfg := &Config{
		Backend:  BackendSerial,
		LogLevel: "debug",
		Serial: SerialConfig{
			Port:        "COM3",
			BaudRate:    57600,
			ReadTimeout: 2 * time.Second,
		},
	}

	require.NoError(t, Save(path, cfg))

	loaded, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, cfg, loaded)

	require.ErrorIs(t, Save(path, nil), errConfigIsNotSet)
}
