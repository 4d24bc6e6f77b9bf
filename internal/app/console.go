package app

import (
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	serial "github.com/jacobsa/go-serial/serial"

	"github.com/joaoalexarruda/esp32-dht11-webserver-mqtt/internal/broker"
	"github.com/joaoalexarruda/esp32-dht11-webserver-mqtt/internal/config"
)

// RunConsole subscribes to the station's four topics and prints every
// message as an aligned line. When the config names a serial port the output
// is mirrored there too, the inverse of the firmware's serial monitor.
func RunConsole(client *broker.Client) error {
	cfg := config.Get()

	out := io.Writer(os.Stdout)
	if cfg.SerialPort != "" {
		serialOpts := serial.OpenOptions{
			PortName:        cfg.SerialPort,
			BaudRate:        uint(cfg.SerialBaudRate),
			DataBits:        8,
			StopBits:        1,
			MinimumReadSize: 1,
			ParityMode:      serial.PARITY_NONE,
		}

		port, err := serial.Open(serialOpts)
		if err != nil {
			return fmt.Errorf("console: open serial port: %w", err)
		}
		defer port.Close()
		log.Printf("console: mirroring output to %s at %d baud", cfg.SerialPort, cfg.SerialBaudRate)
		out = io.MultiWriter(os.Stdout, port)
	}

	subscriptions := []struct {
		topic string
		tag   string
	}{
		{cfg.TopicTemperature, "[TEMP]"},
		{cfg.TopicHumidity, "[HUM ]"},
		{cfg.TopicAvgTemperature, "[AVGT]"},
		{cfg.TopicAvgHumidity, "[AVGH]"},
	}

	for _, sub := range subscriptions {
		topic, tag := sub.topic, sub.tag
		err := client.Subscribe(topic, func(_ mqtt.Client, msg mqtt.Message) {
			fmt.Fprintf(out, "%s  %-40s %s\r\n", tag, topic, msg.Payload())
		})
		if err != nil {
			return fmt.Errorf("console: subscribe %s: %w", topic, err)
		}
		log.Printf("console: subscribed to %s", topic)
	}

	// Wait for Ctrl+C
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	log.Println("console: shutting down")
	return nil
}
