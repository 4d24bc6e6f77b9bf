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
		kong.Name("console"),
		kong.Description("Subscribes to the station's MQTT topics and prints every reading, optionally mirrored to a serial port."))

	log.Println("starting weather station console (MQTT subscriber)")

	// Load configuration
	if err := config.InitGlobal(cli.Config); err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	cfg := config.Get()

	client := broker.New(cfg.MQTTBroker, cfg.MQTTClientIDConsole,
		time.Duration(cfg.ReconnectDelay)*time.Millisecond)
	client.EnsureConnected()
	defer client.Disconnect()
	log.Printf("console: connected to MQTT broker at %s", cfg.MQTTBroker)

	if err := app.RunConsole(client); err != nil {
		log.Fatalf("fatal: %v", err)
	}
}
