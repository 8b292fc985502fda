package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func writeTemp(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_TOML(t *testing.T) {
	path := writeTemp(t, "bridge.toml", `
device = "/dev/ttyUSB0"
baud = 115200
sync_period_ms = 1000
connection_timeout_ms = 3000
`)
	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "/dev/ttyUSB0", cfg.Device)
	require.Equal(t, 115200, cfg.Baud)
	require.Equal(t, uint32(1000), cfg.SyncPeriodMs)
	require.Equal(t, uint32(3000), cfg.ConnectionTimeoutMs)
	// Fields left unset in the file still carry the package defaults.
	require.Equal(t, 25, cfg.MaxPublishers)
}

func TestLoad_YAML(t *testing.T) {
	path := writeTemp(t, "bridge.yaml", "device: /dev/ttyACM0\nbaud: 9600\n")
	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "/dev/ttyACM0", cfg.Device)
	require.Equal(t, 9600, cfg.Baud)
}

func TestLoad_UnrecognizedExtension(t *testing.T) {
	path := writeTemp(t, "bridge.conf", "device: /dev/ttyACM0\n")
	_, err := Load(path)
	require.Error(t, err)
}

func TestLoad_MissingDevice(t *testing.T) {
	path := writeTemp(t, "bridge.toml", "baud = 9600\n")
	_, err := Load(path)
	require.ErrorContains(t, err, "device is required")
}

func TestValidate_ConnectionTimeoutMustBeAtLeastTwiceSyncPeriod(t *testing.T) {
	cfg := defaults()
	cfg.Device = "/dev/ttyUSB0"
	cfg.SyncPeriodMs = 5000
	cfg.ConnectionTimeoutMs = 6000
	require.ErrorContains(t, Validate(cfg), "at least twice")
}

func TestValidate_InputCapacityMustBePositive(t *testing.T) {
	cfg := defaults()
	cfg.Device = "/dev/ttyUSB0"
	cfg.InputCapacity = 0
	require.ErrorContains(t, Validate(cfg), "input_capacity must be positive")
}

func TestValidate_TopicSpaceOverflow(t *testing.T) {
	cfg := defaults()
	cfg.Device = "/dev/ttyUSB0"
	cfg.MaxPublishers = 40000
	cfg.MaxSubscribers = 40000
	require.ErrorContains(t, Validate(cfg), "overflows")
}

func TestNodeConfig_ProjectsFields(t *testing.T) {
	cfg := defaults()
	cfg.Device = "/dev/ttyUSB0"
	nc := cfg.NodeConfig()
	require.Equal(t, cfg.MaxPublishers, nc.MaxPublishers)
	require.Equal(t, cfg.SyncPeriodMs, nc.SyncPeriodMs)
}
