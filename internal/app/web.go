package app

import (
	"fmt"
	"html/template"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/joaoalexarruda/esp32-dht11-webserver-mqtt/internal/window"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow all origins for local development
	},
}

// indexTemplate is the page the firmware served at /: two numeric fields,
// each refreshed from its plain-text endpoint every 10 seconds.
var indexTemplate = template.Must(template.New("index").Parse(`<!DOCTYPE html>
<html>
<head>
  <meta charset="utf-8">
  <title>Weather Station</title>
  <style>
    body { font-family: sans-serif; text-align: center; margin-top: 4em; }
    .value { font-size: 2.5em; }
  </style>
</head>
<body>
  <h1>Weather Station</h1>
  <p>Temperature <span class="value" id="temperature">{{.Temperature}}</span> &deg;C</p>
  <p>Humidity <span class="value" id="humidity">{{.Humidity}}</span> %</p>
  <script>
    function refresh(id, path) {
      fetch(path)
        .then(function(r) { return r.ok ? r.text() : "--"; })
        .then(function(v) { document.getElementById(id).innerText = v; });
    }
    setInterval(function() { refresh("temperature", "/temperature"); }, 10000);
    setInterval(function() { refresh("humidity", "/humidity"); }, 10000);
  </script>
</body>
</html>
`))

// WebServer serves the smoothed values alongside the poll loop. It only
// reads the station's windows; all writes stay in the poll loop.
type WebServer struct {
	station *Station

	// PushInterval is the cadence of the /ws live feed.
	PushInterval time.Duration
}

// NewWebServer creates a web server over the given station's windows.
func NewWebServer(st *Station) *WebServer {
	return &WebServer{
		station:      st,
		PushInterval: 2 * time.Second,
	}
}

// Router builds the route table.
func (ws *WebServer) Router() *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/", ws.handleIndex).Methods("GET")
	r.HandleFunc("/temperature", ws.handleTemperature).Methods("GET")
	r.HandleFunc("/humidity", ws.handleHumidity).Methods("GET")
	r.HandleFunc("/ws", ws.handleLive)
	r.Handle("/metrics", promhttp.Handler()).Methods("GET")
	return r
}

// Run blocks serving HTTP on the given port.
func (ws *WebServer) Run(port int) error {
	addr := fmt.Sprintf(":%d", port)
	log.Printf("web server listening on %s", addr)
	return http.ListenAndServe(addr, ws.Router())
}

func (ws *WebServer) handleIndex(w http.ResponseWriter, r *http.Request) {
	// Values are substituted at request time; "--" stands in until the
	// first reading arrives.
	page := struct {
		Temperature string
		Humidity    string
	}{
		Temperature: displayValue(ws.station.Temperature),
		Humidity:    displayValue(ws.station.Humidity),
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := indexTemplate.Execute(w, page); err != nil {
		log.Printf("web: template execute error: %v", err)
	}
}

func (ws *WebServer) handleTemperature(w http.ResponseWriter, r *http.Request) {
	writeAverage(w, ws.station.Temperature)
}

func (ws *WebServer) handleHumidity(w http.ResponseWriter, r *http.Request) {
	writeAverage(w, ws.station.Humidity)
}

// writeAverage renders a window's current mean as plain text, or 503 while
// the window is still empty. An empty window must not read as a zero.
func writeAverage(w http.ResponseWriter, win *window.Window) {
	avg, ok := win.Average()
	if !ok {
		http.Error(w, "no data yet", http.StatusServiceUnavailable)
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	fmt.Fprint(w, FormatValue(avg))
}

func displayValue(win *window.Window) string {
	avg, ok := win.Average()
	if !ok {
		return "--"
	}
	return FormatValue(avg)
}

// liveUpdate is one /ws frame. Nil fields mean no data yet.
type liveUpdate struct {
	Temperature *float64 `json:"temperature"`
	Humidity    *float64 `json:"humidity"`
}

// handleLive pushes the current smoothed values over a websocket on a fixed
// interval until the peer goes away.
func (ws *WebServer) handleLive(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("web: websocket upgrade error: %v", err)
		return
	}
	defer conn.Close()

	ticker := time.NewTicker(ws.PushInterval)
	defer ticker.Stop()

	for {
		var update liveUpdate
		if avg, ok := ws.station.Temperature.Average(); ok {
			update.Temperature = &avg
		}
		if avg, ok := ws.station.Humidity.Average(); ok {
			update.Humidity = &avg
		}

		if err := conn.WriteJSON(update); err != nil {
			log.Printf("web: websocket write error: %v", err)
			return
		}

		<-ticker.C
	}
}
