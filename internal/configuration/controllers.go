package configuration

const (
	OutputSteering = "steering"
	OutputThrottle = "throttle"
)

const (
	// InputSigned feeds the cross-track error as is
	InputSigned = "signed"
	// InputAbsolute feeds the magnitude of the cross-track error
	InputAbsolute = "absolute"
)

const (
	FirstSampleTracked  = "tracked"
	FirstSampleSentinel = "sentinel"
)

const (
	EvaluationContinuous = "continuous"
	EvaluationWindow     = "window"
)

type ControllerConfig struct {
	ID     string `json:"id"`
	Output string `json:"output"`
	Input  string `json:"input"`

	Gains GainsConfig `json:"gains"`

	// added to the controller response
	Offset float64 `json:"offset"`
	// output range, unclamped when both are 0
	Min float64 `json:"min"`
	Max float64 `json:"max"`

	FirstSample   string  `json:"firstSample"`
	IntegralLimit float64 `json:"integralLimit"`

	Tuner *TunerConfig `json:"tuner,omitempty"`
}

// GainsConfig can be written as a [p, i, d] list or as a map with p, i and d keys
type GainsConfig struct {
	P float64 `json:"p"`
	I float64 `json:"i"`
	D float64 `json:"d"`
}

type TunerConfig struct {
	Enabled DefaultTrueBool `json:"enabled"`

	Warmup int `json:"warmup"`
	// nil selects the default index
	ActiveIndex *int `json:"activeIndex,omitempty"`

	Steps      []float64 `json:"steps"`
	ResetSteps []float64 `json:"resetSteps"`

	InitialBestError float64 `json:"initialBestError"`
	IncreaseFactor   float64 `json:"increaseFactor"`
	DecreaseFactor   float64 `json:"decreaseFactor"`

	Evaluation      string `json:"evaluation"`
	Rotate          bool   `json:"rotate"`
	ApplyCandidates bool   `json:"applyCandidates"`
}
