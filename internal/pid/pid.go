package pid

import "math"

// FirstSampleMode selects how the controller detects the very first error sample.
type FirstSampleMode int

const (
	// FirstSampleTracked uses an explicit flag, so negative errors are handled correctly.
	FirstSampleTracked FirstSampleMode = iota
	// FirstSampleLegacySentinel treats any negative previous error as "no sample yet"
	// and reseeds it. Kept for configs tuned against that behavior.
	FirstSampleLegacySentinel
)

// legacySentinel is the "uninitialized" marker used in FirstSampleLegacySentinel mode
const legacySentinel = -1.0

// Gains holds the proportional, integral and derivative constants of a controller.
type Gains struct {
	P float64 `json:"p"`
	I float64 `json:"i"`
	D float64 `json:"d"`
}

// NewGains creates Gains from a p/i/d vector
func NewGains(v [3]float64) Gains {
	return Gains{P: v[0], I: v[1], D: v[2]}
}

// Vector returns the gains as a p/i/d vector
func (g Gains) Vector() [3]float64 {
	return [3]float64{g.P, g.I, g.D}
}

type Controller struct {
	gains Gains

	firstSampleMode FirstSampleMode
	// maximum absolute value of the integral error, 0 means unbounded
	integralLimit float64

	// last seen error, i.e. the proportional error
	pError float64
	// sum of all errors since the last Init
	iError float64
	// difference between the last two errors
	dError float64
	// whether pError holds a real sample
	hasPriorSample bool
}

type Option func(c *Controller)

// WithFirstSampleMode selects the first-sample detection strategy
func WithFirstSampleMode(mode FirstSampleMode) Option {
	return func(c *Controller) {
		c.firstSampleMode = mode
	}
}

// WithIntegralLimit clamps the integral error to [-limit, limit].
// A limit <= 0 leaves the integral error unbounded.
func WithIntegralLimit(limit float64) Option {
	return func(c *Controller) {
		c.integralLimit = math.Max(limit, 0)
	}
}

func NewController(gains Gains, options ...Option) *Controller {
	c := &Controller{}
	for _, option := range options {
		option(c)
	}
	c.Init(gains.P, gains.I, gains.D)
	return c
}

// Init sets the gains and resets all accumulated error state.
func (c *Controller) Init(kp, ki, kd float64) {
	c.gains = Gains{P: kp, I: ki, D: kd}
	c.hasPriorSample = false
	c.pError = 0
	if c.firstSampleMode == FirstSampleLegacySentinel {
		c.pError = legacySentinel
	}
	c.iError = 0
	c.dError = 0
}

// SetGains replaces the gains without touching the accumulated error state.
func (c *Controller) SetGains(gains Gains) {
	c.gains = gains
}

// UpdateError feeds the next cross-track error sample into the controller.
func (c *Controller) UpdateError(cte float64) {
	switch c.firstSampleMode {
	case FirstSampleLegacySentinel:
		if c.pError < 0 {
			c.pError = cte
		}
	default:
		if !c.hasPriorSample {
			c.pError = cte
		}
	}
	c.hasPriorSample = true

	c.dError = cte - c.pError
	c.pError = cte
	c.iError += cte

	if c.integralLimit > 0 {
		c.iError = math.Max(-c.integralLimit, math.Min(c.integralLimit, c.iError))
	}
}

// Response calculates the control output for the current error state.
// The result is not clamped, callers have to coerce it to their valid range.
func (c *Controller) Response() float64 {
	return -c.gains.P*c.pError - c.gains.D*c.dError - c.gains.I*c.iError
}

// TotalError returns the sum of the proportional, integral and derivative errors
func (c *Controller) TotalError() float64 {
	return c.pError + c.dError + c.iError
}

func (c *Controller) Gains() Gains {
	return c.gains
}

func (c *Controller) ProportionalError() float64 {
	return c.pError
}

func (c *Controller) IntegralError() float64 {
	return c.iError
}

func (c *Controller) DerivativeError() float64 {
	return c.dError
}

// HasPriorSample reports whether at least one sample has been seen since the last Init
func (c *Controller) HasPriorSample() bool {
	return c.hasPriorSample
}
