package tuner

import "fmt"

// EvaluationMode controls how often a running trial is judged.
type EvaluationMode int

const (
	// EvaluationContinuous judges the running trial on every tick after the warmup,
	// using the running mean squared error of the current window.
	EvaluationContinuous EvaluationMode = iota
	// EvaluationWindow starts one trial per window and judges it once,
	// on the last tick of the window.
	EvaluationWindow
)

func (m EvaluationMode) String() string {
	switch m {
	case EvaluationContinuous:
		return "continuous"
	case EvaluationWindow:
		return "window"
	default:
		return fmt.Sprintf("EvaluationMode(%d)", int(m))
	}
}

// ParseEvaluationMode parses the configuration representation of an EvaluationMode
func ParseEvaluationMode(s string) (EvaluationMode, error) {
	switch s {
	case "", "continuous":
		return EvaluationContinuous, nil
	case "window":
		return EvaluationWindow, nil
	default:
		return EvaluationContinuous, fmt.Errorf("unknown evaluation mode: %s", s)
	}
}

type Config struct {
	// number of samples to wait before tuning starts, also the length of an evaluation window
	Warmup int
	// index of the gain (0 = p, 1 = i, 2 = d) that is tuned
	ActiveIndex int
	// initial perturbation step per gain
	Steps [3]float64
	// steps restored on every window rollover, nil keeps the adapted steps
	ResetSteps *[3]float64
	// error that has to be beaten by the first trial
	InitialBestError float64
	// step scale applied after a successful trial
	IncreaseFactor float64
	// step scale applied after a failed trial
	DecreaseFactor float64

	Evaluation EvaluationMode
	// advance the active index after every settled trial
	Rotate bool
	// push candidate gains into the controller while they are being tried
	ApplyCandidates bool
}

// DefaultConfig returns the tuning parameters used for the throttle controller
func DefaultConfig() Config {
	resetSteps := [3]float64{0.01, 0.00001, 0.1}
	return Config{
		Warmup:           50,
		ActiveIndex:      1,
		Steps:            [3]float64{0.01, 0.0001, 0.1},
		ResetSteps:       &resetSteps,
		InitialBestError: 100000.0,
		IncreaseFactor:   1.1,
		DecreaseFactor:   0.9,
		Evaluation:       EvaluationContinuous,
	}
}
