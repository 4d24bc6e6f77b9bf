package broker

import (
	"log"
	"net"
	"strings"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
)

// Client wraps the MQTT connection with the station's retry policy:
// connectivity problems are never fatal, they stall publishing until the
// broker answers again. Reconnection is driven from the poll loop instead of
// paho's auto-reconnect so the Connected/Disconnected transitions stay
// observable.
type Client struct {
	mqtt       mqtt.Client
	broker     string
	retryDelay time.Duration
}

// New creates a client for the given broker URL. No connection is attempted
// until EnsureConnected.
func New(brokerURL, clientID string, retryDelay time.Duration) *Client {
	opts := mqtt.NewClientOptions().
		AddBroker(brokerURL).
		SetClientID(clientID).
		SetAutoReconnect(false)

	return &Client{
		mqtt:       mqtt.NewClient(opts),
		broker:     brokerURL,
		retryDelay: retryDelay,
	}
}

// IsConnected reports connection liveness as seen by the paho client.
func (c *Client) IsConnected() bool {
	return c.mqtt.IsConnected()
}

// EnsureConnected blocks until the client is connected, pausing retryDelay
// between attempts. It never gives up.
func (c *Client) EnsureConnected() {
	for !c.mqtt.IsConnected() {
		log.Printf("broker: trying to connect to %s...", c.broker)
		token := c.mqtt.Connect()
		if token.Wait() && token.Error() == nil {
			log.Println("broker: connected")
			return
		}
		log.Printf("broker: connect failed: %v, retrying in %s", token.Error(), c.retryDelay)
		time.Sleep(c.retryDelay)
	}
}

// Publish sends payload at QoS 0, fire and forget: the token is not awaited
// and a lost message is not retried. A lost connection is picked up by
// EnsureConnected on the next tick.
func (c *Client) Publish(topic, payload string) {
	c.mqtt.Publish(topic, 0, false, payload)
}

// Subscribe registers handler for topic at QoS 0 and waits for the broker
// to acknowledge the subscription.
func (c *Client) Subscribe(topic string, handler mqtt.MessageHandler) error {
	token := c.mqtt.Subscribe(topic, 0, handler)
	token.Wait()
	return token.Error()
}

// Disconnect closes the connection, allowing 250ms for in-flight work.
func (c *Client) Disconnect() {
	c.mqtt.Disconnect(250)
}

// WaitForNetwork blocks until the broker's host answers TCP, probing once
// per second. On the original device this was the Wi-Fi association loop;
// on a hosted OS the link is up once the broker is reachable.
func WaitForNetwork(brokerURL string) {
	addr := HostPort(brokerURL)
	for {
		conn, err := net.DialTimeout("tcp", addr, 2*time.Second)
		if err == nil {
			conn.Close()
			log.Printf("network: %s reachable", addr)
			return
		}
		log.Printf("network: waiting for %s: %v", addr, err)
		time.Sleep(1 * time.Second)
	}
}

// HostPort strips the scheme from a broker URL, leaving host:port.
func HostPort(brokerURL string) string {
	s := brokerURL
	if i := strings.Index(s, "://"); i >= 0 {
		s = s[i+3:]
	}
	return s
}
