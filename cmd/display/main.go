package main

import (
	"log"
	"time"

	"github.com/alecthomas/kong"

	"github.com/joaoalexarruda/esp32-dht11-webserver-mqtt/internal/app"
	"github.com/joaoalexarruda/esp32-dht11-webserver-mqtt/internal/broker"
	"github.com/joaoalexarruda/esp32-dht11-webserver-mqtt/internal/config"
)

var cli struct {
	Config string `name:"config" short:"c" default:"station.conf" help:"Path to the station config file."`
}

func main() {
	kong.Parse(&cli,
		kong.Name("display"),
		kong.Description("Subscribes to the station's smoothed topics and renders them on an SSD1306 OLED."))

	log.Println("starting weather station display (MQTT subscriber)")

	// Load configuration
	if err := config.InitGlobal(cli.Config); err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	cfg := config.Get()

	client := broker.New(cfg.MQTTBroker, cfg.MQTTClientIDDisplay,
		time.Duration(cfg.ReconnectDelay)*time.Millisecond)
	client.EnsureConnected()
	defer client.Disconnect()
	log.Printf("display: connected to MQTT broker at %s", cfg.MQTTBroker)

	if err := app.RunDisplay(client); err != nil {
		log.Fatalf("fatal: %v", err)
	}
}
