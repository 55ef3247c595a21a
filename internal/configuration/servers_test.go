package configuration

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAddress(t *testing.T) {
	assert.Equal(t, ":4567", TelemetryConfig{Port: 4567}.Address())
	assert.Equal(t, "localhost:9001", ApiConfig{Host: "localhost", Port: 9001}.Address())
	assert.Equal(t, ":9000", StatisticsConfig{Port: 9000}.Address())
	assert.Equal(t, "127.0.0.1:6060", ProfilingConfig{Host: "127.0.0.1", Port: 6060}.Address())
	assert.Equal(t, "[::1]:6060", ProfilingConfig{Host: "::1", Port: 6060}.Address())
}
