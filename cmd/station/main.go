package main

import (
	"log"
	"time"

	"github.com/alecthomas/kong"

	"github.com/joaoalexarruda/esp32-dht11-webserver-mqtt/internal/app"
	"github.com/joaoalexarruda/esp32-dht11-webserver-mqtt/internal/broker"
	"github.com/joaoalexarruda/esp32-dht11-webserver-mqtt/internal/config"
	"github.com/joaoalexarruda/esp32-dht11-webserver-mqtt/internal/sensors"
)

var cli struct {
	Config string `name:"config" short:"c" default:"station.conf" help:"Path to the station config file."`
	Mock   bool   `name:"mock" help:"Use the mock sensor instead of the real one."`
}

func main() {
	kong.Parse(&cli,
		kong.Name("station"),
		kong.Description("Weather station: samples the sensor, smooths both metrics with a sliding window, publishes to MQTT and serves the values over HTTP."))

	log.Println("starting weather station")

	// Load configuration
	if err := config.InitGlobal(cli.Config); err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	cfg := config.Get()

	var src sensors.Source
	if cli.Mock {
		log.Println("using mock sensor source")
		src = sensors.NewMockSource()
	} else {
		src = sensors.NewEnvSource()
	}

	broker.WaitForNetwork(cfg.MQTTBroker)

	pub := broker.New(cfg.MQTTBroker, cfg.MQTTClientIDStation,
		time.Duration(cfg.ReconnectDelay)*time.Millisecond)
	defer pub.Disconnect()

	st := app.NewStation(src, pub, cfg.WindowSize, app.Topics{
		Temperature:    cfg.TopicTemperature,
		Humidity:       cfg.TopicHumidity,
		AvgTemperature: cfg.TopicAvgTemperature,
		AvgHumidity:    cfg.TopicAvgHumidity,
	})

	web := app.NewWebServer(st)
	go func() {
		if err := web.Run(cfg.WebServerPort); err != nil {
			log.Fatalf("web server: %v", err)
		}
	}()

	st.Run(time.Duration(cfg.SampleInterval) * time.Millisecond)
}
