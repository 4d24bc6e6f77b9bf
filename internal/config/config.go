package config

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"
	"sync"
)

// Config holds all application configuration values.
type Config struct {
	// MQTT
	MQTTBroker          string
	MQTTClientIDStation string
	MQTTClientIDConsole string
	MQTTClientIDDisplay string

	// Topics
	TopicTemperature    string
	TopicHumidity       string
	TopicAvgTemperature string
	TopicAvgHumidity    string

	// Sensor hardware
	SensorI2CBus  string // empty selects the first available bus
	SensorI2CAddr uint16

	// Smoothing
	WindowSize int

	// Timing
	SampleInterval int // milliseconds
	ReconnectDelay int // milliseconds

	// Web server
	WebServerPort int

	// Console serial mirror
	SerialPort     string // empty disables the serial mirror
	SerialBaudRate int

	// Display
	DisplayUpdateInterval int // milliseconds
}

// Package-level unexported variables for the config singleton. External code
// must use InitGlobal() to set and Get() to read.
var (
	globalConfig *Config
	configOnce   sync.Once
	configMu     sync.RWMutex
)

// defaults returns the built-in configuration, matching the constants the
// original firmware compiled in. A config file only overrides what it names.
func defaults() *Config {
	return &Config{
		MQTTBroker:          "tcp://localhost:1883",
		MQTTClientIDStation: "ESP32Client",
		MQTTClientIDConsole: "weather-console",
		MQTTClientIDDisplay: "weather-display",

		TopicTemperature:    "esp32/temperature",
		TopicHumidity:       "esp32/humidity",
		TopicAvgTemperature: "esp32/moving_average_temperature",
		TopicAvgHumidity:    "esp32/moving_average_humidity",

		SensorI2CAddr: 0x76,

		WindowSize: 10,

		SampleInterval: 3000,
		ReconnectDelay: 5000,

		WebServerPort: 8080,

		SerialBaudRate: 115200,

		DisplayUpdateInterval: 1000,
	}
}

// Load reads the configuration file and returns a Config struct.
func Load(configPath string) (*Config, error) {
	file, err := os.Open(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open config file: %w", err)
	}
	defer file.Close()

	cfg := defaults()
	scanner := bufio.NewScanner(file)
	lineNum := 0

	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())

		// Skip empty lines and comments
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		// Parse KEY=VALUE
		parts := strings.SplitN(line, "=", 2)
		if len(parts) != 2 {
			return nil, fmt.Errorf("invalid config line %d: %q", lineNum, line)
		}

		key := strings.TrimSpace(parts[0])
		value := strings.TrimSpace(parts[1])

		if err := cfg.setValue(key, value); err != nil {
			return nil, fmt.Errorf("config line %d: %w", lineNum, err)
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// setValue sets a config value based on the key.
func (c *Config) setValue(key, value string) error {
	switch key {
	// MQTT
	case "MQTT_BROKER":
		c.MQTTBroker = value
	case "MQTT_CLIENT_ID_STATION":
		c.MQTTClientIDStation = value
	case "MQTT_CLIENT_ID_CONSOLE":
		c.MQTTClientIDConsole = value
	case "MQTT_CLIENT_ID_DISPLAY":
		c.MQTTClientIDDisplay = value

	// Topics
	case "TOPIC_TEMPERATURE":
		c.TopicTemperature = value
	case "TOPIC_HUMIDITY":
		c.TopicHumidity = value
	case "TOPIC_AVG_TEMPERATURE":
		c.TopicAvgTemperature = value
	case "TOPIC_AVG_HUMIDITY":
		c.TopicAvgHumidity = value

	// Sensor hardware
	case "SENSOR_I2C_BUS":
		c.SensorI2CBus = value
	case "SENSOR_I2C_ADDR":
		addr, err := strconv.ParseUint(value, 0, 16)
		if err != nil {
			return fmt.Errorf("invalid SENSOR_I2C_ADDR %q: %w", value, err)
		}
		c.SensorI2CAddr = uint16(addr)

	// Smoothing
	case "WINDOW_SIZE":
		size, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid WINDOW_SIZE %q: %w", value, err)
		}
		if size < 1 {
			return fmt.Errorf("WINDOW_SIZE must be at least 1, got %d", size)
		}
		c.WindowSize = size

	// Timing
	case "SAMPLE_INTERVAL":
		interval, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid SAMPLE_INTERVAL %q: %w", value, err)
		}
		c.SampleInterval = interval
	case "RECONNECT_DELAY":
		delay, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid RECONNECT_DELAY %q: %w", value, err)
		}
		c.ReconnectDelay = delay

	// Web server
	case "WEB_SERVER_PORT":
		port, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid WEB_SERVER_PORT %q: %w", value, err)
		}
		c.WebServerPort = port

	// Console serial mirror
	case "SERIAL_PORT":
		c.SerialPort = value
	case "SERIAL_BAUD_RATE":
		rate, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid SERIAL_BAUD_RATE %q: %w", value, err)
		}
		c.SerialBaudRate = rate

	// Display
	case "DISPLAY_UPDATE_INTERVAL":
		interval, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid DISPLAY_UPDATE_INTERVAL %q: %w", value, err)
		}
		c.DisplayUpdateInterval = interval

	default:
		return fmt.Errorf("unknown config key: %q", key)
	}

	return nil
}

// validate checks that all required fields are set.
func (c *Config) validate() error {
	if c.MQTTBroker == "" {
		return fmt.Errorf("MQTT_BROKER is required")
	}
	if c.MQTTClientIDStation == "" {
		return fmt.Errorf("MQTT_CLIENT_ID_STATION is required")
	}
	if c.SampleInterval <= 0 {
		return fmt.Errorf("SAMPLE_INTERVAL must be positive")
	}
	if c.ReconnectDelay <= 0 {
		return fmt.Errorf("RECONNECT_DELAY must be positive")
	}
	return nil
}

// InitGlobal initializes the global configuration from file. Uses sync.Once
// so only the first call loads; later calls are no-ops.
func InitGlobal(configPath string) error {
	var err error
	configOnce.Do(func() {
		configMu.Lock()
		defer configMu.Unlock()
		globalConfig, err = Load(configPath)
	})
	return err
}

// Get returns the global configuration instance. InitGlobal must be called
// first, or this will return nil.
func Get() *Config {
	configMu.RLock()
	defer configMu.RUnlock()
	return globalConfig
}
