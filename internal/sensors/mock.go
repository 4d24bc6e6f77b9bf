package sensors

import (
	"fmt"
	"math"
	"time"

	"github.com/joaoalexarruda/esp32-dht11-webserver-mqtt/internal/reading"
)

// MockSource generates smooth changing temperature/humidity values so the
// station can run without the sensor attached. FaultEvery > 0 makes every
// n-th read fail, for exercising the skip-cycle path.
type MockSource struct {
	start      time.Time
	FaultEvery int

	calls int
}

// NewMockSource creates a mock sensor source.
func NewMockSource() *MockSource {
	return &MockSource{start: time.Now()}
}

func (m *MockSource) Read() (reading.Sample, error) {
	m.calls++
	if m.FaultEvery > 0 && m.calls%m.FaultEvery == 0 {
		return reading.Sample{}, fmt.Errorf("mock sensor fault (read %d)", m.calls)
	}

	t := time.Since(m.start).Seconds()
	return reading.Sample{
		Temperature: 22.0 + 3.0*math.Sin(t/30.0),
		Humidity:    55.0 + 10.0*math.Sin(t/45.0),
		Time:        time.Now(),
	}, nil
}
