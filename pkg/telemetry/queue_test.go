package telemetry

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewQueueFromURL(t *testing.T) {
	testCases := []struct {
		name   string
		url    string
		prefix string
	}{
		{"with prefix", "mqtt://localhost:1883/crab/", "crab/"},
		{"prefix without slash", "mqtt://localhost:1883/crab", "crab/"},
		{"no prefix", "mqtt://localhost:1883", ""},
		{"explicit tcp", "tcp://broker:1883/lab/crab", "lab/crab/"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			q, err := NewQueueFromURL(tc.url)
			require.NoError(t, err)
			require.Equal(t, tc.prefix, q.TopicPrefix)
		})
	}
}

func TestDeviceID(t *testing.T) {
	require.NotEmpty(t, DeviceID())
}
