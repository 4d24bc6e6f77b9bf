package reading

import "time"

// Sample represents one temperature/humidity measurement from the sensor.
type Sample struct {
	Temperature float64   `json:"temp_c"`   // °C
	Humidity    float64   `json:"humidity"` // %RH
	Time        time.Time `json:"time"`
}
