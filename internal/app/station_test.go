package app

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/joaoalexarruda/esp32-dht11-webserver-mqtt/internal/reading"
)

var testTopics = Topics{
	Temperature:    "esp32/temperature",
	Humidity:       "esp32/humidity",
	AvgTemperature: "esp32/moving_average_temperature",
	AvgHumidity:    "esp32/moving_average_humidity",
}

type published struct {
	topic   string
	payload string
}

type fakePublisher struct {
	connected bool
	connects  int
	messages  []published
}

func (f *fakePublisher) IsConnected() bool { return f.connected }

func (f *fakePublisher) EnsureConnected() {
	f.connects++
	f.connected = true
}

func (f *fakePublisher) Publish(topic, payload string) {
	f.messages = append(f.messages, published{topic, payload})
}

// scriptedSource replays a fixed sequence of samples and faults.
type scriptedSource struct {
	steps []func() (reading.Sample, error)
	i     int
}

func (s *scriptedSource) Read() (reading.Sample, error) {
	step := s.steps[s.i%len(s.steps)]
	s.i++
	return step()
}

func sampleStep(temp, hum float64) func() (reading.Sample, error) {
	return func() (reading.Sample, error) {
		return reading.Sample{Temperature: temp, Humidity: hum, Time: time.Now()}, nil
	}
}

func faultStep() func() (reading.Sample, error) {
	return func() (reading.Sample, error) {
		return reading.Sample{}, errors.New("sensor fault")
	}
}

func TestTickPublishesRawAndSmoothedValues(t *testing.T) {
	pub := &fakePublisher{}
	src := &scriptedSource{steps: []func() (reading.Sample, error){sampleStep(20.0, 60.0)}}
	st := NewStation(src, pub, 10, testTopics)

	st.Tick()

	require.Equal(t, []published{
		{"esp32/temperature", "20.00"},
		{"esp32/humidity", "60.00"},
		{"esp32/moving_average_temperature", "20.00"},
		{"esp32/moving_average_humidity", "60.00"},
	}, pub.messages)
}

func TestTickConnectsBeforePublishing(t *testing.T) {
	pub := &fakePublisher{}
	src := &scriptedSource{steps: []func() (reading.Sample, error){sampleStep(21.0, 50.0)}}
	st := NewStation(src, pub, 10, testTopics)

	require.False(t, pub.connected)
	st.Tick()
	require.True(t, pub.connected)
	require.Equal(t, 1, pub.connects)

	// Still connected: no extra connect attempts.
	st.Tick()
	require.Equal(t, 1, pub.connects)
}

func TestFaultBeforeFirstReadingLeavesWindowsEmpty(t *testing.T) {
	pub := &fakePublisher{}
	src := &scriptedSource{steps: []func() (reading.Sample, error){
		faultStep(),
		sampleStep(19.5, 48.0),
	}}
	st := NewStation(src, pub, 10, testTopics)

	st.Tick()
	require.Empty(t, pub.messages)
	_, ok := st.Temperature.Average()
	require.False(t, ok)
	_, ok = st.Humidity.Average()
	require.False(t, ok)

	// The next valid reading starts the windows.
	st.Tick()
	require.Len(t, pub.messages, 4)
	avg, ok := st.Temperature.Average()
	require.True(t, ok)
	require.Equal(t, 19.5, avg)
}

func TestFaultMidRunKeepsPreviousAverage(t *testing.T) {
	pub := &fakePublisher{}
	src := &scriptedSource{steps: []func() (reading.Sample, error){
		sampleStep(20.0, 60.0),
		faultStep(),
	}}
	st := NewStation(src, pub, 10, testTopics)

	st.Tick()
	st.Tick() // fault: windows untouched, nothing published

	require.Len(t, pub.messages, 4)
	avg, ok := st.Temperature.Average()
	require.True(t, ok)
	require.Equal(t, 20.0, avg)
	require.Equal(t, 1, st.Temperature.Len())
}

func TestMovingAverageAcrossTicks(t *testing.T) {
	values := []float64{5.0, 10.0, 15.0, 20.0, 25.0, 30.0}
	steps := make([]func() (reading.Sample, error), len(values))
	for i, v := range values {
		steps[i] = sampleStep(v, v)
	}

	pub := &fakePublisher{}
	st := NewStation(&scriptedSource{steps: steps}, pub, 5, testTopics)

	for range values[:5] {
		st.Tick()
	}
	// After five readings the smoothed topic carries their mean.
	require.Equal(t, "15.00", pub.messages[len(pub.messages)-2].payload)

	// The sixth reading evicts the oldest (5.0).
	st.Tick()
	require.Equal(t, "20.00", pub.messages[len(pub.messages)-2].payload)
}

func TestReconnectPublishesCurrentValuesWithoutBacklog(t *testing.T) {
	pub := &fakePublisher{}
	src := &scriptedSource{steps: []func() (reading.Sample, error){sampleStep(22.0, 55.0)}}
	st := NewStation(src, pub, 10, testTopics)

	st.Tick()
	require.Equal(t, 1, pub.connects)

	// Connection drops between ticks.
	pub.connected = false
	st.Tick()
	require.Equal(t, 2, pub.connects)

	// Exactly one cycle's worth of messages per tick: nothing queued or
	// replayed for the time spent disconnected.
	require.Len(t, pub.messages, 8)
}

func TestFormatValue(t *testing.T) {
	require.Equal(t, "20.00", FormatValue(20.0))
	require.Equal(t, "19.99", FormatValue(19.994))
	require.Equal(t, "0.00", FormatValue(0.0))
	require.Equal(t, "-3.50", FormatValue(-3.5))
}
