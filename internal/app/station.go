package app

import (
	"log"
	"strconv"
	"time"

	"github.com/joaoalexarruda/esp32-dht11-webserver-mqtt/internal/reading"
	"github.com/joaoalexarruda/esp32-dht11-webserver-mqtt/internal/sensors"
	"github.com/joaoalexarruda/esp32-dht11-webserver-mqtt/internal/window"
)

// Publisher is the slice of the broker client the poll loop needs.
type Publisher interface {
	IsConnected() bool
	EnsureConnected()
	Publish(topic, payload string)
}

// Topics names the four fixed MQTT topics the station publishes to.
type Topics struct {
	Temperature    string
	Humidity       string
	AvgTemperature string
	AvgHumidity    string
}

// Station owns the two smoothing windows and drives the poll/publish cycle.
// The web layer reads the same windows concurrently; the station is the only
// writer.
type Station struct {
	Source      sensors.Source
	Pub         Publisher
	Topics      Topics
	Temperature *window.Window
	Humidity    *window.Window

	everConnected bool
}

// NewStation builds a station with one empty window per metric.
func NewStation(src sensors.Source, pub Publisher, windowSize int, topics Topics) *Station {
	return &Station{
		Source:      src,
		Pub:         pub,
		Topics:      topics,
		Temperature: window.New(windowSize),
		Humidity:    window.New(windowSize),
	}
}

// Run drives the poll loop forever on the given interval. The ticker's
// monotonic clock keeps the cadence stable under wall-clock jitter.
func (s *Station) Run(interval time.Duration) {
	log.Printf("station: starting publish loop, interval %s", interval)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for range ticker.C {
		s.Tick()
	}
}

// Tick performs one poll cycle: reconnect if needed, read the sensor, record
// both metrics, publish raw and smoothed values.
func (s *Station) Tick() {
	if !s.Pub.IsConnected() {
		if s.everConnected {
			brokerReconnects.Inc()
		}
		s.Pub.EnsureConnected()
	}
	s.everConnected = true

	sample, err := s.Source.Read()
	if err != nil {
		// Fault: skip the whole cycle. The windows keep their previous
		// contents, so the last good averages remain the answer.
		sensorFaults.Inc()
		log.Printf("station: failed to read from sensor, skipping cycle: %v", err)
		return
	}

	s.Temperature.Record(sample.Temperature)
	s.Humidity.Record(sample.Humidity)

	// Both windows were just written, so the averages exist.
	avgTemp, _ := s.Temperature.Average()
	avgHum, _ := s.Humidity.Average()

	smoothedTemperature.Set(avgTemp)
	smoothedHumidity.Set(avgHum)

	s.publish(s.Topics.Temperature, sample.Temperature)
	s.publish(s.Topics.Humidity, sample.Humidity)
	s.publish(s.Topics.AvgTemperature, avgTemp)
	s.publish(s.Topics.AvgHumidity, avgHum)
	publishCycles.Inc()

	s.logCycle(sample, avgTemp, avgHum)
}

func (s *Station) publish(topic string, v float64) {
	s.Pub.Publish(topic, FormatValue(v))
	mqttPublishes.Inc()
}

// logCycle is the per-tick status dump the firmware sent to its serial
// monitor: raw and averaged values plus the topics they went to.
func (s *Station) logCycle(sample reading.Sample, avgTemp, avgHum float64) {
	log.Printf("station: temp=%.2f hum=%.2f | avg temp=%.2f avg hum=%.2f | topics=[%s %s %s %s]",
		sample.Temperature, sample.Humidity,
		avgTemp, avgHum,
		s.Topics.Temperature, s.Topics.Humidity,
		s.Topics.AvgTemperature, s.Topics.AvgHumidity,
	)
}

// FormatValue renders a reading as the wire format the firmware used:
// fixed two-decimal text.
func FormatValue(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}
