package app

import (
	"fmt"
	"image"
	"log"
	"strconv"
	"sync"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/devices/v3/ssd1306"
	"periph.io/x/devices/v3/ssd1306/image1bit"
	"periph.io/x/host/v3"

	"github.com/joaoalexarruda/esp32-dht11-webserver-mqtt/internal/broker"
	"github.com/joaoalexarruda/esp32-dht11-webserver-mqtt/internal/config"
)

// displayData holds the latest smoothed values received over MQTT.
type displayData struct {
	mu sync.RWMutex

	avgTemp     float64
	haveAvgTemp bool

	avgHum     float64
	haveAvgHum bool
}

// RunDisplay subscribes to the smoothed topics and renders both values on an
// SSD1306 OLED until the process is stopped.
func RunDisplay(client *broker.Client) error {
	cfg := config.Get()

	// Initialize periph
	if _, err := host.Init(); err != nil {
		return fmt.Errorf("failed to initialize periph: %w", err)
	}

	// Open I2C bus
	bus, err := i2creg.Open("")
	if err != nil {
		return fmt.Errorf("failed to open I2C bus: %w", err)
	}
	defer bus.Close()

	dev, err := ssd1306.NewI2C(bus, &ssd1306.DefaultOpts)
	if err != nil {
		return fmt.Errorf("failed to initialize display: %w", err)
	}
	log.Println("display: initialized")

	data := &displayData{}

	if err := subscribeAverage(client, cfg.TopicAvgTemperature, func(v float64) {
		data.mu.Lock()
		data.avgTemp = v
		data.haveAvgTemp = true
		data.mu.Unlock()
	}); err != nil {
		return err
	}

	if err := subscribeAverage(client, cfg.TopicAvgHumidity, func(v float64) {
		data.mu.Lock()
		data.avgHum = v
		data.haveAvgHum = true
		data.mu.Unlock()
	}); err != nil {
		return err
	}

	// Display update loop
	ticker := time.NewTicker(time.Duration(cfg.DisplayUpdateInterval) * time.Millisecond)
	defer ticker.Stop()

	log.Println("display: starting update loop")

	for range ticker.C {
		data.mu.RLock()
		snapshot := displayData{
			avgTemp:     data.avgTemp,
			haveAvgTemp: data.haveAvgTemp,
			avgHum:      data.avgHum,
			haveAvgHum:  data.haveAvgHum,
		}
		data.mu.RUnlock()

		if err := updateDisplay(dev, &snapshot); err != nil {
			log.Printf("display: error updating display: %v", err)
		}
	}

	return nil
}

// subscribeAverage wires a topic carrying fixed-decimal text to a setter.
func subscribeAverage(client *broker.Client, topic string, set func(float64)) error {
	err := client.Subscribe(topic, func(_ mqtt.Client, msg mqtt.Message) {
		v, err := strconv.ParseFloat(string(msg.Payload()), 64)
		if err != nil {
			log.Printf("display: bad payload on %s: %v", topic, err)
			return
		}
		set(v)
	})
	if err != nil {
		return fmt.Errorf("failed to subscribe to %s: %w", topic, err)
	}
	log.Printf("display: subscribed to %s", topic)
	return nil
}

func updateDisplay(dev *ssd1306.Dev, data *displayData) error {
	img := image1bit.NewVerticalLSB(image.Rect(0, 0, 128, 64))

	// Blank image
	for i := range img.Pix {
		img.Pix[i] = 0
	}

	drawer := &font.Drawer{
		Dst:  img,
		Src:  &image.Uniform{image1bit.On},
		Face: basicfont.Face7x13,
	}

	drawer.Dot = fixed.P(0, 13)
	drawer.DrawBytes([]byte("Weather Station"))

	drawer.Dot = fixed.P(0, 33)
	drawer.DrawBytes([]byte(fmt.Sprintf("T: %s C", displayField(data.avgTemp, data.haveAvgTemp))))

	drawer.Dot = fixed.P(0, 46)
	drawer.DrawBytes([]byte(fmt.Sprintf("H: %s %%", displayField(data.avgHum, data.haveAvgHum))))

	return dev.Draw(dev.Bounds(), img, image.Point{})
}

func displayField(v float64, have bool) string {
	if !have {
		return "--.-"
	}
	return fmt.Sprintf("%6.2f", v)
}
