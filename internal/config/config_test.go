package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "station.conf")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadDefaultsWhenFileIsEmpty(t *testing.T) {
	cfg, err := Load(writeConfig(t, "# nothing overridden\n"))
	require.NoError(t, err)
	require.Equal(t, "tcp://localhost:1883", cfg.MQTTBroker)
	require.Equal(t, "esp32/moving_average_temperature", cfg.TopicAvgTemperature)
	require.Equal(t, 10, cfg.WindowSize)
	require.Equal(t, 3000, cfg.SampleInterval)
	require.Equal(t, 5000, cfg.ReconnectDelay)
	require.Equal(t, uint16(0x76), cfg.SensorI2CAddr)
}

func TestLoadOverrides(t *testing.T) {
	cfg, err := Load(writeConfig(t, `
MQTT_BROKER = tcp://broker.lan:1883
WINDOW_SIZE = 5
SAMPLE_INTERVAL = 1000
SENSOR_I2C_ADDR = 0x77
SERIAL_PORT = /dev/ttyUSB0
`))
	require.NoError(t, err)
	require.Equal(t, "tcp://broker.lan:1883", cfg.MQTTBroker)
	require.Equal(t, 5, cfg.WindowSize)
	require.Equal(t, 1000, cfg.SampleInterval)
	require.Equal(t, uint16(0x77), cfg.SensorI2CAddr)
	require.Equal(t, "/dev/ttyUSB0", cfg.SerialPort)
}

func TestLoadRejectsUnknownKey(t *testing.T) {
	_, err := Load(writeConfig(t, "NO_SUCH_KEY=1\n"))
	require.Error(t, err)
	require.Contains(t, err.Error(), "unknown config key")
}

func TestLoadRejectsMalformedLine(t *testing.T) {
	_, err := Load(writeConfig(t, "MQTT_BROKER\n"))
	require.Error(t, err)
}

func TestLoadRejectsBadWindowSize(t *testing.T) {
	_, err := Load(writeConfig(t, "WINDOW_SIZE=0\n"))
	require.Error(t, err)

	_, err = Load(writeConfig(t, "WINDOW_SIZE=ten\n"))
	require.Error(t, err)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.conf"))
	require.Error(t, err)
}
