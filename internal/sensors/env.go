package sensors

import (
	"fmt"
	"math"
	"sync"
	"time"

	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/devices/v3/bmxx80"
	"periph.io/x/host/v3"

	"github.com/joaoalexarruda/esp32-dht11-webserver-mqtt/internal/config"
	"github.com/joaoalexarruda/esp32-dht11-webserver-mqtt/internal/reading"
)

var (
	envDev     *bmxx80.Dev
	envOnce    sync.Once
	envInitErr error
)

// initEnv initializes the environmental sensor once
func initEnv() {
	envOnce.Do(func() {
		cfg := config.Get()

		// Initialize periph host
		if _, err := host.Init(); err != nil {
			envInitErr = fmt.Errorf("periph host init: %w", err)
			return
		}

		bus, err := i2creg.Open(cfg.SensorI2CBus)
		if err != nil {
			envInitErr = fmt.Errorf("sensor I2C open: %w", err)
			return
		}

		envDev, err = bmxx80.NewI2C(bus, cfg.SensorI2CAddr, &bmxx80.DefaultOpts)
		if err != nil {
			envInitErr = fmt.Errorf("sensor init: %w", err)
			return
		}

		fmt.Println("environmental sensor initialized successfully")
	})
}

// EnvSource reads the station's BME280 (temp + humidity) over I2C.
type EnvSource struct{}

// NewEnvSource returns a Source backed by the real sensor. Hardware access
// is deferred to the first Read so construction never fails.
func NewEnvSource() *EnvSource {
	return &EnvSource{}
}

// Read senses the BME280 and returns one sample.
func (s *EnvSource) Read() (reading.Sample, error) {
	initEnv()
	if envInitErr != nil {
		return reading.Sample{}, envInitErr
	}

	var e physic.Env
	if err := envDev.Sense(&e); err != nil {
		return reading.Sample{}, fmt.Errorf("sensor sense: %w", err)
	}

	temp := e.Temperature.Celsius()
	hum := float64(e.Humidity) / float64(physic.PercentRH)
	if math.IsNaN(temp) || math.IsNaN(hum) {
		// The DHT-style "nan" fault: the bus answered but the value is junk.
		return reading.Sample{}, fmt.Errorf("sensor sense: reading is not a number")
	}

	return reading.Sample{
		Temperature: temp,
		Humidity:    hum,
		Time:        time.Now(),
	}, nil
}
