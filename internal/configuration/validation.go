package configuration

import (
	"errors"
	"fmt"

	"github.com/markusressel/steer2go/internal/ui"
	"golang.org/x/exp/slices"
)

var (
	validOutputs      = []string{OutputSteering, OutputThrottle}
	validInputs       = []string{"", InputSigned, InputAbsolute}
	validFirstSamples = []string{"", FirstSampleTracked, FirstSampleSentinel}
	validEvaluations  = []string{"", EvaluationContinuous, EvaluationWindow}
)

func Validate() error {
	return validateConfig(&CurrentConfig)
}

func validateConfig(config *Configuration) error {
	err := validateControllers(config)
	if err != nil {
		return err
	}

	err = validatePort("telemetry", config.Telemetry.Port)
	if err != nil {
		return err
	}
	if config.Api.Enabled {
		err = validatePort("api", config.Api.Port)
		if err != nil {
			return err
		}
	}
	if config.Statistics.Enabled {
		err = validatePort("statistics", config.Statistics.Port)
		if err != nil {
			return err
		}
	}
	if config.Profiling.Enabled {
		err = validatePort("profiling", config.Profiling.Port)
		if err != nil {
			return err
		}
	}

	if config.Journal.Enabled && config.Journal.BufferSize <= 0 {
		return errors.New("journal: bufferSize must be > 0")
	}
	if config.RollingWindowSize <= 0 {
		return errors.New("rollingWindowSize must be > 0")
	}

	return nil
}

func validatePort(name string, port int) error {
	if port <= 0 || port > 65535 {
		return fmt.Errorf("%s: invalid port %d, must be in (0, 65535]", name, port)
	}
	return nil
}

func validateControllers(config *Configuration) error {
	if len(config.Controllers) == 0 {
		return errors.New("no controllers configured")
	}

	var ids []string
	var outputs []string
	for _, controllerConfig := range config.Controllers {
		if len(controllerConfig.ID) <= 0 {
			return errors.New("controller id must not be empty")
		}
		if slices.Contains(ids, controllerConfig.ID) {
			return fmt.Errorf("duplicate controller id detected: %s", controllerConfig.ID)
		}
		ids = append(ids, controllerConfig.ID)

		if !slices.Contains(validOutputs, controllerConfig.Output) {
			return fmt.Errorf("controller %s: invalid output '%s', use one of: steering | throttle", controllerConfig.ID, controllerConfig.Output)
		}
		if slices.Contains(outputs, controllerConfig.Output) {
			return fmt.Errorf("controller %s: output '%s' is already driven by another controller", controllerConfig.ID, controllerConfig.Output)
		}
		outputs = append(outputs, controllerConfig.Output)

		err := validateController(controllerConfig)
		if err != nil {
			return err
		}
	}

	if !slices.Contains(outputs, OutputSteering) {
		return errors.New("no controller for output 'steering' configured")
	}
	if !slices.Contains(outputs, OutputThrottle) {
		ui.Warning("No controller for output 'throttle' configured, using a constant throttle of %.2f", config.DefaultThrottle)
	}

	return nil
}

func validateController(config ControllerConfig) error {
	if !slices.Contains(validInputs, config.Input) {
		return fmt.Errorf("controller %s: invalid input '%s', use one of: signed | absolute", config.ID, config.Input)
	}
	if !slices.Contains(validFirstSamples, config.FirstSample) {
		return fmt.Errorf("controller %s: invalid firstSample '%s', use one of: tracked | sentinel", config.ID, config.FirstSample)
	}
	if config.IntegralLimit < 0 {
		return fmt.Errorf("controller %s: integralLimit must be >= 0", config.ID)
	}
	if (config.Min != 0 || config.Max != 0) && config.Min >= config.Max {
		return fmt.Errorf("controller %s: min (%v) must be smaller than max (%v)", config.ID, config.Min, config.Max)
	}

	if config.Tuner != nil {
		return validateTuner(config.ID, *config.Tuner)
	}
	return nil
}

func validateTuner(controllerId string, config TunerConfig) error {
	if config.Warmup < 0 {
		return fmt.Errorf("controller %s: tuner warmup must not be negative", controllerId)
	}
	if config.ActiveIndex != nil && (*config.ActiveIndex < 0 || *config.ActiveIndex > 2) {
		return fmt.Errorf("controller %s: tuner activeIndex must be one of: 0 (p) | 1 (i) | 2 (d)", controllerId)
	}
	if len(config.Steps) != 0 && len(config.Steps) != 3 {
		return fmt.Errorf("controller %s: tuner steps must contain exactly 3 values", controllerId)
	}
	if len(config.ResetSteps) != 0 && len(config.ResetSteps) != 3 {
		return fmt.Errorf("controller %s: tuner resetSteps must contain exactly 3 values", controllerId)
	}
	if config.InitialBestError < 0 {
		return fmt.Errorf("controller %s: tuner initialBestError must be >= 0", controllerId)
	}
	if config.IncreaseFactor < 0 || config.DecreaseFactor < 0 {
		return fmt.Errorf("controller %s: tuner increaseFactor and decreaseFactor must not be negative", controllerId)
	}
	if !slices.Contains(validEvaluations, config.Evaluation) {
		return fmt.Errorf("controller %s: invalid tuner evaluation '%s', use one of: continuous | window", controllerId, config.Evaluation)
	}
	return nil
}
