package broker

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestHostPort(t *testing.T) {
	require.Equal(t, "localhost:1883", HostPort("tcp://localhost:1883"))
	require.Equal(t, "broker.lan:8883", HostPort("ssl://broker.lan:8883"))
	require.Equal(t, "192.168.29.165:1883", HostPort("192.168.29.165:1883"))
}

func TestNewDoesNotConnect(t *testing.T) {
	c := New("tcp://127.0.0.1:1", "test-client", 0)
	require.False(t, c.IsConnected())
}
