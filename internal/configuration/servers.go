package configuration

import (
	"net"
	"strconv"
)

// TelemetryConfig configures the websocket endpoint the simulator connects to
type TelemetryConfig struct {
	Host string `json:"host"`
	Port int    `json:"port"`
}

func (c TelemetryConfig) Address() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

// ApiConfig configures the REST API used to inspect and steer the tuners at runtime
type ApiConfig struct {
	Enabled bool   `json:"enabled"`
	Host    string `json:"host"`
	Port    int    `json:"port"`
}

func (c ApiConfig) Address() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

// StatisticsConfig configures the prometheus /metrics endpoint, served on all interfaces
type StatisticsConfig struct {
	Enabled bool `json:"enabled"`
	Port    int  `json:"port"`
}

func (c StatisticsConfig) Address() string {
	return net.JoinHostPort("", strconv.Itoa(c.Port))
}

type ProfilingConfig struct {
	Enabled bool   `json:"enabled"`
	Host    string `json:"host"`
	Port    int    `json:"port,omitempty"`
}

func (c ProfilingConfig) Address() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}
