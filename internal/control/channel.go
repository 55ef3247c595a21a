package control

import (
	"errors"
	"math"
	"sync"

	"github.com/asecurityteam/rolling"
	"github.com/markusressel/steer2go/internal/configuration"
	"github.com/markusressel/steer2go/internal/pid"
	"github.com/markusressel/steer2go/internal/tuner"
	"github.com/markusressel/steer2go/internal/ui"
	"github.com/markusressel/steer2go/internal/util"
)

var ErrNoTuner = errors.New("controller has no tuner")

// EventSink receives the tuner events of all channels. Offer must not block.
type EventSink interface {
	Offer(controllerId string, event tuner.Event) bool
}

// Channel drives a single output with a pid.Controller, optionally tuned by a tuner.Tuner.
type Channel struct {
	mu sync.Mutex

	id     string
	output string
	input  InputMode

	offset float64
	min    float64
	max    float64

	controller *pid.Controller
	tuner      *tuner.Tuner
	sink       EventSink

	// |cte| of the most recent ticks
	cteWindow *rolling.PointPolicy

	ticks      uint64
	lastCte    float64
	lastOutput float64
	outcomes   map[tuner.Outcome]uint64
}

// NewChannel creates a Channel from the given controller config.
// sink may be nil, in which case tuner events are only logged.
func NewChannel(config configuration.ControllerConfig, windowSize int, sink EventSink) (*Channel, error) {
	input, err := ParseInputMode(config.Input, config.Output)
	if err != nil {
		return nil, err
	}

	controller, err := NewPidController(config)
	if err != nil {
		return nil, err
	}

	if windowSize <= 0 {
		windowSize = 1
	}

	c := &Channel{
		id:         config.ID,
		output:     config.Output,
		input:      input,
		offset:     config.Offset,
		min:        config.Min,
		max:        config.Max,
		controller: controller,
		sink:       sink,
		cteWindow:  util.CreateRollingWindow(windowSize),
		outcomes:   map[tuner.Outcome]uint64{},
	}

	if config.Tuner != nil {
		tunerConfig, err := NewTunerConfig(*config.Tuner)
		if err != nil {
			return nil, err
		}
		c.tuner = tuner.New(controller, tunerConfig, c.onTunerEvent)
		c.tuner.SetEnabled(config.Tuner.Enabled.Get())
	}

	return c, nil
}

// Tick feeds the next cross-track error into the channel and returns the new output value
func (c *Channel) Tick(cte float64) float64 {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.ticks++
	c.lastCte = cte
	c.cteWindow.Append(math.Abs(cte))

	input := c.input.Apply(cte)

	var response float64
	if c.tuner != nil {
		response = c.tuner.Step(input)
	} else {
		c.controller.UpdateError(input)
		response = c.controller.Response()
	}

	output := c.offset + response
	if c.min < c.max {
		output = util.Coerce(output, c.min, c.max)
	}
	c.lastOutput = output
	return output
}

// onTunerEvent is called by the tuner while c.mu is held
func (c *Channel) onTunerEvent(event tuner.Event) {
	c.outcomes[event.Outcome]++

	if event.Outcome == tuner.OutcomeRollover {
		ui.Info("Controller '%s': window rollover at tick %d, best error: %.6f, best gains: %v",
			c.id, event.Tick, event.BestError, event.BestGains.Vector())
	} else {
		ui.Debug("Controller '%s': %s gain %d at tick %d, error: %.6f, best error: %.6f, step: %v",
			c.id, event.Outcome, event.Index, event.Tick, event.Error, event.BestError, event.Step)
	}

	if c.sink != nil && !c.sink.Offer(c.id, event) {
		ui.Debug("Controller '%s': dropped %s event of tick %d", c.id, event.Outcome, event.Tick)
	}
}

// SetTunerIndex selects the gain that is tuned from now on
func (c *Channel) SetTunerIndex(index int) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.tuner == nil {
		return ErrNoTuner
	}
	return c.tuner.SetActiveIndex(index)
}

// SetTunerEnabled pauses or resumes tuning
func (c *Channel) SetTunerEnabled(enabled bool) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.tuner == nil {
		return ErrNoTuner
	}
	c.tuner.SetEnabled(enabled)
	return nil
}

func (c *Channel) GetId() string {
	return c.id
}

func (c *Channel) GetOutput() string {
	return c.output
}

func (c *Channel) HasTuner() bool {
	return c.tuner != nil
}

// Snapshot is a copy of the channel state
type Snapshot struct {
	Id     string `json:"id"`
	Output string `json:"output"`
	Input  string `json:"input"`

	Gains  pid.Gains `json:"gains"`
	Offset float64   `json:"offset"`
	Min    float64   `json:"min"`
	Max    float64   `json:"max"`

	ProportionalError float64 `json:"proportionalError"`
	IntegralError     float64 `json:"integralError"`
	DerivativeError   float64 `json:"derivativeError"`
	TotalError        float64 `json:"totalError"`

	Ticks      uint64  `json:"ticks"`
	LastCte    float64 `json:"lastCte"`
	LastOutput float64 `json:"lastOutput"`
	CteMean    float64 `json:"cteMean"`
	CteMax     float64 `json:"cteMax"`

	Tuner    *tuner.Snapshot   `json:"tuner,omitempty"`
	Outcomes map[string]uint64 `json:"outcomes,omitempty"`
}

func (c *Channel) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	window := util.GetWindowValues(c.cteWindow, c.ticks)
	// |cte| is never negative, so unwritten slots cannot exceed the max
	cteMax := util.GetWindowMax(c.cteWindow)

	snapshot := Snapshot{
		Id:                c.id,
		Output:            c.output,
		Input:             c.input.String(),
		Gains:             c.controller.Gains(),
		Offset:            c.offset,
		Min:               c.min,
		Max:               c.max,
		ProportionalError: c.controller.ProportionalError(),
		IntegralError:     c.controller.IntegralError(),
		DerivativeError:   c.controller.DerivativeError(),
		TotalError:        c.controller.TotalError(),
		Ticks:             c.ticks,
		LastCte:           c.lastCte,
		LastOutput:        c.lastOutput,
		CteMean:           util.Avg(window),
		CteMax:            cteMax,
	}

	if c.tuner != nil {
		tunerSnapshot := c.tuner.Snapshot()
		snapshot.Tuner = &tunerSnapshot
		snapshot.Outcomes = map[string]uint64{}
		for outcome, count := range c.outcomes {
			snapshot.Outcomes[string(outcome)] = count
		}
	}

	return snapshot
}
