package configuration

import (
	"testing"

	"github.com/mitchellh/mapstructure"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// helper function to decode the given input the same way viper.Unmarshal does in LoadConfig
func decode(t *testing.T, input interface{}, target interface{}) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook:       decodeHooks(),
		WeaklyTypedInput: true,
		Result:           target,
	})
	require.NoError(t, err)
	return decoder.Decode(input)
}

func TestDefaultTrueBool_Get(t *testing.T) {
	tests := []struct {
		name     string
		input    DefaultTrueBool
		expected bool
	}{
		{
			name: "Present and True returns True",
			input: DefaultTrueBool{
				Optional: Optional[bool]{Value: true, Present: true},
			},
			expected: true,
		},
		{
			name: "Present and False returns False",
			input: DefaultTrueBool{
				Optional: Optional[bool]{Value: false, Present: true},
			},
			expected: false,
		},
		{
			name: "Not Present returns True (Default)",
			input: DefaultTrueBool{
				Optional: Optional[bool]{Value: false, Present: false},
			},
			expected: true,
		},
		{
			name: "Runtime Override wins over Missing",
			input: func() DefaultTrueBool {
				b := DefaultTrueBool{}
				b.SetOverride(false)
				return b
			}(),
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.input.Get())
		})
	}
}

func TestDefaultTrueBoolHookFunc(t *testing.T) {
	tests := []struct {
		name         string
		input        map[string]interface{}
		expectedPres bool
		expectedGet  bool
	}{
		{
			name:         "Explicit false in config",
			input:        map[string]interface{}{"enabled": false},
			expectedPres: true,
			expectedGet:  false,
		},
		{
			name:         "Explicit true in config",
			input:        map[string]interface{}{"enabled": true},
			expectedPres: true,
			expectedGet:  true,
		},
		{
			name:         "String value in config",
			input:        map[string]interface{}{"enabled": "false"},
			expectedPres: true,
			expectedGet:  false,
		},
		{
			name:         "Missing in config",
			input:        map[string]interface{}{"warmup": 10},
			expectedPres: false,
			expectedGet:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// GIVEN
			var result TunerConfig

			// WHEN
			err := decode(t, tt.input, &result)

			// THEN
			assert.NoError(t, err)
			assert.Equal(t, tt.expectedPres, result.Enabled.Present)
			assert.Equal(t, tt.expectedGet, result.Enabled.Get())
		})
	}
}

func TestGainsHookFunc_List(t *testing.T) {
	// GIVEN
	input := map[string]interface{}{
		"id":    "steering",
		"gains": []interface{}{1.1147, "0.000342", 12},
	}
	var result ControllerConfig

	// WHEN
	err := decode(t, input, &result)

	// THEN
	assert.NoError(t, err)
	assert.Equal(t, GainsConfig{P: 1.1147, I: 0.000342, D: 12}, result.Gains)
}

func TestGainsHookFunc_Map(t *testing.T) {
	// GIVEN
	input := map[string]interface{}{
		"gains": map[string]interface{}{"p": 0.5, "i": 0.01, "d": 2.0},
	}
	var result ControllerConfig

	// WHEN
	err := decode(t, input, &result)

	// THEN
	assert.NoError(t, err)
	assert.Equal(t, GainsConfig{P: 0.5, I: 0.01, D: 2.0}, result.Gains)
}

func TestGainsHookFunc_WrongLength(t *testing.T) {
	// GIVEN
	input := map[string]interface{}{
		"gains": []interface{}{1.0, 2.0},
	}
	var result ControllerConfig

	// WHEN
	err := decode(t, input, &result)

	// THEN
	assert.ErrorContains(t, err, "gains: expected 3 values [p, i, d], got 2")
}

func TestGainsHookFunc_InvalidValue(t *testing.T) {
	// GIVEN
	input := map[string]interface{}{
		"gains": []interface{}{1.0, "abc", 2.0},
	}
	var result ControllerConfig

	// WHEN
	err := decode(t, input, &result)

	// THEN
	assert.ErrorContains(t, err, "gains: invalid value at index 1")
}

func TestDecodeControllerWithTuner(t *testing.T) {
	// GIVEN
	input := map[string]interface{}{
		"id":     "throttle",
		"output": "throttle",
		"input":  "absolute",
		"gains":  []interface{}{0.179356, 0.000771561, 5.65027},
		"offset": 0.5,
		"tuner": map[string]interface{}{
			"warmup":     50,
			"steps":      []interface{}{0.01, 0.0001, 0.1},
			"resetSteps": "0.01,0.00001,0.1",
			"evaluation": "window",
		},
	}
	var result ControllerConfig

	// WHEN
	err := decode(t, input, &result)

	// THEN
	assert.NoError(t, err)
	assert.Equal(t, 0.5, result.Offset)
	assert.NotNil(t, result.Tuner)
	assert.Equal(t, 50, result.Tuner.Warmup)
	assert.Equal(t, []float64{0.01, 0.0001, 0.1}, result.Tuner.Steps)
	assert.Equal(t, []float64{0.01, 0.00001, 0.1}, result.Tuner.ResetSteps)
	assert.Equal(t, "window", result.Tuner.Evaluation)
	assert.True(t, result.Tuner.Enabled.Get())
}
