package control

import (
	"fmt"
	"sync"

	"github.com/markusressel/steer2go/internal/configuration"
)

// Sample is a single telemetry message of the vehicle
type Sample struct {
	Cte           float64 `json:"cte"`
	Speed         float64 `json:"speed"`
	SteeringAngle float64 `json:"steeringAngle"`
}

// Command is the reply to a Sample
type Command struct {
	SteeringAngle float64 `json:"steering_angle"`
	Throttle      float64 `json:"throttle"`
}

// Driver computes a Command for every Sample, using one Channel per output.
type Driver struct {
	mu sync.Mutex

	steering *Channel
	// nil if no controller drives the throttle
	throttle        *Channel
	defaultThrottle float64

	samples    uint64
	lastSample Sample
}

func NewDriver(steering *Channel, throttle *Channel, defaultThrottle float64) *Driver {
	return &Driver{
		steering:        steering,
		throttle:        throttle,
		defaultThrottle: defaultThrottle,
	}
}

// NewDriverFromConfig creates all channels of the given configuration, registers them
// in registry and returns a Driver using them.
func NewDriverFromConfig(config configuration.Configuration, registry *Registry, sink EventSink) (*Driver, error) {
	var steering, throttle *Channel
	for _, controllerConfig := range config.Controllers {
		channel, err := NewChannel(controllerConfig, config.RollingWindowSize, sink)
		if err != nil {
			return nil, fmt.Errorf("controller %s: %w", controllerConfig.ID, err)
		}

		switch controllerConfig.Output {
		case configuration.OutputSteering:
			steering = channel
		case configuration.OutputThrottle:
			throttle = channel
		default:
			return nil, fmt.Errorf("controller %s: unknown output: %s", controllerConfig.ID, controllerConfig.Output)
		}

		if registry != nil {
			registry.Register(channel)
		}
	}

	if steering == nil {
		return nil, fmt.Errorf("no controller for output '%s' configured", configuration.OutputSteering)
	}

	return NewDriver(steering, throttle, config.DefaultThrottle), nil
}

// Tick computes the Command for the given Sample
func (d *Driver) Tick(sample Sample) Command {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.samples++
	d.lastSample = sample

	command := Command{
		SteeringAngle: d.steering.Tick(sample.Cte),
		Throttle:      d.defaultThrottle,
	}
	if d.throttle != nil {
		command.Throttle = d.throttle.Tick(sample.Cte)
	}
	return command
}

// LastSample returns the most recent Sample and the number of samples seen so far
func (d *Driver) LastSample() (Sample, uint64) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.lastSample, d.samples
}

func (d *Driver) Steering() *Channel {
	return d.steering
}

func (d *Driver) Throttle() *Channel {
	return d.throttle
}
