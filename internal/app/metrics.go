package app

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	publishCycles = promauto.NewCounter(prometheus.CounterOpts{
		Name: "station_publish_cycles_total",
		Help: "Total number of completed poll/publish cycles",
	})

	sensorFaults = promauto.NewCounter(prometheus.CounterOpts{
		Name: "station_sensor_faults_total",
		Help: "Total number of poll cycles skipped because the sensor faulted",
	})

	brokerReconnects = promauto.NewCounter(prometheus.CounterOpts{
		Name: "station_broker_reconnects_total",
		Help: "Total number of times the broker connection had to be reestablished",
	})

	mqttPublishes = promauto.NewCounter(prometheus.CounterOpts{
		Name: "station_mqtt_publishes_total",
		Help: "Total number of MQTT messages published",
	})

	smoothedTemperature = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "station_smoothed_temperature_celsius",
		Help: "Current sliding-window average temperature",
	})

	smoothedHumidity = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "station_smoothed_humidity_percent",
		Help: "Current sliding-window average relative humidity",
	})
)
