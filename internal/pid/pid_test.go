package pid

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewController(t *testing.T) {
	// GIVEN
	gains := Gains{P: 1.0, I: 2.0, D: 3.0}

	// WHEN
	c := NewController(gains)

	// THEN
	assert.Equal(t, gains, c.Gains())
	assert.False(t, c.HasPriorSample())
	assert.Equal(t, 0.0, c.IntegralError())
	assert.Equal(t, 0.0, c.DerivativeError())
}

func TestController_P(t *testing.T) {
	// GIVEN
	c := NewController(Gains{P: 1, I: 0, D: 0})

	// WHEN
	c.UpdateError(2.0)

	// THEN
	assert.Equal(t, -2.0, c.Response())
}

func TestController_D(t *testing.T) {
	// GIVEN
	c := NewController(Gains{P: 0, I: 0, D: 1})

	// WHEN
	c.UpdateError(1.0)
	c.UpdateError(3.0)

	// THEN
	assert.Equal(t, 2.0, c.DerivativeError())
	assert.Equal(t, -2.0, c.Response())
}

func TestController_I(t *testing.T) {
	// GIVEN
	c := NewController(Gains{P: 0, I: 1, D: 0})

	// WHEN
	c.UpdateError(1.0)
	c.UpdateError(2.0)
	c.UpdateError(3.0)

	// THEN
	assert.Equal(t, 6.0, c.IntegralError())
	assert.Equal(t, -6.0, c.Response())
}

func TestController_FirstSampleHasNoDerivativeSpike(t *testing.T) {
	// GIVEN
	c := NewController(Gains{P: 0, I: 0, D: 1})

	// WHEN
	c.UpdateError(5.0)

	// THEN
	assert.Equal(t, 0.0, c.DerivativeError())
	assert.Equal(t, 5.0, c.ProportionalError())
	assert.True(t, c.HasPriorSample())
}

func TestController_ErrorTermsFollowSamples(t *testing.T) {
	// GIVEN
	c := NewController(Gains{P: 0.2, I: 0.004, D: 3.0})
	samples := []float64{0.7, -0.3, -1.25, 2.5, 0.0, -0.75, 1.5}

	sum := 0.0
	for idx, cte := range samples {
		// WHEN
		c.UpdateError(cte)
		sum += cte

		// THEN
		if idx > 0 {
			assert.Equal(t, cte-samples[idx-1], c.DerivativeError(), "sample: %d", idx)
		}
		assert.InDelta(t, sum, c.IntegralError(), 1e-12, "sample: %d", idx)
		assert.Equal(t, cte, c.ProportionalError(), "sample: %d", idx)
	}
}

func TestController_TrackedModeHandlesNegativeErrors(t *testing.T) {
	// GIVEN
	c := NewController(Gains{P: 0, I: 0, D: 1})

	// WHEN
	c.UpdateError(-1.0)
	c.UpdateError(-3.0)

	// THEN
	assert.Equal(t, -2.0, c.DerivativeError())
	assert.Equal(t, 2.0, c.Response())
}

func TestController_LegacySentinelReseedsOnNegativeErrors(t *testing.T) {
	// GIVEN
	c := NewController(Gains{P: 0, I: 0, D: 1}, WithFirstSampleMode(FirstSampleLegacySentinel))
	assert.Equal(t, -1.0, c.ProportionalError())

	// WHEN
	c.UpdateError(-1.0)
	c.UpdateError(-3.0)

	// THEN
	// the previous error was negative, so it was treated as "uninitialized"
	assert.Equal(t, 0.0, c.DerivativeError())
	assert.Equal(t, -4.0, c.IntegralError())
	assert.Equal(t, -0.0, c.Response())
}

func TestController_LegacySentinelKeepsPositiveHistory(t *testing.T) {
	// GIVEN
	c := NewController(Gains{P: 0, I: 0, D: 1}, WithFirstSampleMode(FirstSampleLegacySentinel))

	// WHEN
	c.UpdateError(1.0)
	c.UpdateError(3.0)

	// THEN
	assert.Equal(t, 2.0, c.DerivativeError())
	assert.Equal(t, -2.0, c.Response())
}

func TestController_IntegralLimit(t *testing.T) {
	// GIVEN
	c := NewController(Gains{P: 0, I: 1, D: 0}, WithIntegralLimit(2.5))

	// WHEN
	c.UpdateError(2.0)
	c.UpdateError(2.0)
	c.UpdateError(2.0)

	// THEN
	assert.Equal(t, 2.5, c.IntegralError())
	assert.Equal(t, -2.5, c.Response())

	// WHEN
	for i := 0; i < 10; i++ {
		c.UpdateError(-1.0)
	}

	// THEN
	assert.Equal(t, -2.5, c.IntegralError())
}

func TestController_IntegralUnboundedByDefault(t *testing.T) {
	// GIVEN
	c := NewController(Gains{P: 0, I: 1, D: 0})

	// WHEN
	for i := 0; i < 1000; i++ {
		c.UpdateError(10.0)
	}

	// THEN
	assert.Equal(t, 10000.0, c.IntegralError())
}

func TestController_InitResetsState(t *testing.T) {
	// GIVEN
	c := NewController(Gains{P: 1, I: 1, D: 1})
	c.UpdateError(1.0)
	c.UpdateError(4.0)

	// WHEN
	c.Init(0.5, 0.25, 2.0)

	// THEN
	assert.Equal(t, Gains{P: 0.5, I: 0.25, D: 2.0}, c.Gains())
	assert.False(t, c.HasPriorSample())
	assert.Equal(t, 0.0, c.IntegralError())
	assert.Equal(t, 0.0, c.DerivativeError())

	// WHEN
	c.UpdateError(3.0)

	// THEN
	assert.Equal(t, 0.0, c.DerivativeError())
}

func TestController_SetGainsKeepsState(t *testing.T) {
	// GIVEN
	c := NewController(Gains{P: 1, I: 0, D: 0})
	c.UpdateError(2.0)

	// WHEN
	c.SetGains(Gains{P: 3, I: 0, D: 0})

	// THEN
	assert.Equal(t, -6.0, c.Response())
}

func TestController_TotalError(t *testing.T) {
	// GIVEN
	c := NewController(Gains{})

	// WHEN
	c.UpdateError(1.0)
	c.UpdateError(3.0)

	// THEN
	// p = 3, i = 4, d = 2
	assert.Equal(t, 9.0, c.TotalError())
}

func TestGains_Vector(t *testing.T) {
	// GIVEN
	v := [3]float64{0.1, 0.2, 0.3}

	// WHEN
	g := NewGains(v)

	// THEN
	assert.Equal(t, Gains{P: 0.1, I: 0.2, D: 0.3}, g)
	assert.Equal(t, v, g.Vector())
}
