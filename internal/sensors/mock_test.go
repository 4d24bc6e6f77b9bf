package sensors

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMockSourceProducesPlausibleValues(t *testing.T) {
	src := NewMockSource()
	s, err := src.Read()
	require.NoError(t, err)
	require.InDelta(t, 22.0, s.Temperature, 3.5)
	require.InDelta(t, 55.0, s.Humidity, 10.5)
	require.False(t, s.Time.IsZero())
}

func TestMockSourceFaultInjection(t *testing.T) {
	src := NewMockSource()
	src.FaultEvery = 3

	var faults int
	for i := 0; i < 9; i++ {
		if _, err := src.Read(); err != nil {
			faults++
		}
	}
	require.Equal(t, 3, faults)
}
