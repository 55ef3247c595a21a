package control

import (
	"fmt"

	"github.com/markusressel/steer2go/internal/configuration"
	"github.com/markusressel/steer2go/internal/pid"
	"github.com/markusressel/steer2go/internal/tuner"
)

// NewTunerConfig maps the tuner section of a controller config to a tuner.Config.
// Zero values fall back to tuner.DefaultConfig.
func NewTunerConfig(config configuration.TunerConfig) (tuner.Config, error) {
	result := tuner.DefaultConfig()

	if config.Warmup > 0 {
		result.Warmup = config.Warmup
	}
	if config.ActiveIndex != nil {
		result.ActiveIndex = *config.ActiveIndex
	}

	if len(config.Steps) > 0 {
		steps, err := toVector("steps", config.Steps)
		if err != nil {
			return result, err
		}
		result.Steps = steps
	}
	if len(config.ResetSteps) > 0 {
		resetSteps, err := toVector("resetSteps", config.ResetSteps)
		if err != nil {
			return result, err
		}
		result.ResetSteps = &resetSteps
	}

	if config.InitialBestError > 0 {
		result.InitialBestError = config.InitialBestError
	}
	if config.IncreaseFactor > 0 {
		result.IncreaseFactor = config.IncreaseFactor
	}
	if config.DecreaseFactor > 0 {
		result.DecreaseFactor = config.DecreaseFactor
	}

	evaluation, err := tuner.ParseEvaluationMode(config.Evaluation)
	if err != nil {
		return result, err
	}
	result.Evaluation = evaluation
	result.Rotate = config.Rotate
	result.ApplyCandidates = config.ApplyCandidates

	return result, nil
}

// NewPidController creates the pid.Controller described by the given controller config
func NewPidController(config configuration.ControllerConfig) (*pid.Controller, error) {
	var options []pid.Option
	switch config.FirstSample {
	case "", configuration.FirstSampleTracked:
		options = append(options, pid.WithFirstSampleMode(pid.FirstSampleTracked))
	case configuration.FirstSampleSentinel:
		options = append(options, pid.WithFirstSampleMode(pid.FirstSampleLegacySentinel))
	default:
		return nil, fmt.Errorf("unknown first sample mode: %s", config.FirstSample)
	}
	if config.IntegralLimit > 0 {
		options = append(options, pid.WithIntegralLimit(config.IntegralLimit))
	}

	gains := pid.Gains{P: config.Gains.P, I: config.Gains.I, D: config.Gains.D}
	return pid.NewController(gains, options...), nil
}

func toVector(name string, values []float64) (result [tuner.GainCount]float64, err error) {
	if len(values) != tuner.GainCount {
		return result, fmt.Errorf("%s: expected %d values, got %d", name, tuner.GainCount, len(values))
	}
	copy(result[:], values)
	return result, nil
}
