package sensors

import "github.com/joaoalexarruda/esp32-dht11-webserver-mqtt/internal/reading"

// Source produces one environmental sample per call. A non-nil error means
// the sensor had no valid value this cycle (a fault); the caller must skip
// the cycle and leave its windows untouched.
type Source interface {
	Read() (reading.Sample, error)
}
