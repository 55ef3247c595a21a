package tuner

import (
	"fmt"

	"github.com/markusressel/steer2go/internal/pid"
)

// GainCount is the number of tunable gains of a pid.Controller
const GainCount = 3

// Phase is the state of the trial for the active gain.
type Phase int

const (
	// PhaseUntried means no perturbation is applied to the active gain
	PhaseUntried Phase = iota
	// PhaseTryingIncrease means the active gain is baseline + step
	PhaseTryingIncrease
	// PhaseTryingDecrease means the active gain is baseline - step
	PhaseTryingDecrease
)

func (p Phase) String() string {
	switch p {
	case PhaseUntried:
		return "untried"
	case PhaseTryingIncrease:
		return "tryingIncrease"
	case PhaseTryingDecrease:
		return "tryingDecrease"
	default:
		return fmt.Sprintf("Phase(%d)", int(p))
	}
}

type Outcome string

const (
	// OutcomeAccepted means the candidate improved the best error and was kept
	OutcomeAccepted Outcome = "accepted"
	// OutcomeEscalated means the increase failed and the decrease is tried next
	OutcomeEscalated Outcome = "escalated"
	// OutcomeReverted means both candidates failed and the baseline was restored
	OutcomeReverted Outcome = "reverted"
	// OutcomeRollover means the window ended and the controller was reset to the best gains
	OutcomeRollover Outcome = "rollover"
)

// IsDecision reports whether the outcome concludes a trial step
func (o Outcome) IsDecision() bool {
	return o == OutcomeAccepted || o == OutcomeEscalated || o == OutcomeReverted
}

// Event describes a single tuner decision or rollover.
type Event struct {
	Outcome   Outcome   `json:"outcome"`
	Tick      uint64    `json:"tick"`
	Index     int       `json:"index"`
	Error     float64   `json:"error"`
	BestError float64   `json:"bestError"`
	Gains     pid.Gains `json:"gains"`
	BestGains pid.Gains `json:"bestGains"`
	Step      float64   `json:"step"`
}

// Listener is notified synchronously about every Event, it must not block.
type Listener func(event Event)

// Tuner searches the gains of a pid.Controller that minimize the mean squared error,
// perturbing a single gain at a time ("twiddle").
type Tuner struct {
	controller *pid.Controller
	config     Config
	listener   Listener

	enabled bool

	// candidate gains
	p [GainCount]float64
	// perturbation step per gain
	dp [GainCount]float64
	// gains that achieved bestError
	bestP     [GainCount]float64
	bestError float64
	// running mean squared error of the current window
	err float64

	activeIndex int
	phase       Phase

	sampleCount       int
	squaredErrorAccum float64

	ticks     uint64
	decisions uint64
	rollovers uint64
}

// New creates a Tuner for the given controller, starting from its current gains.
func New(controller *pid.Controller, config Config, listener Listener) *Tuner {
	t := &Tuner{
		controller:  controller,
		config:      config,
		listener:    listener,
		enabled:     true,
		dp:          config.Steps,
		bestError:   config.InitialBestError,
		activeIndex: config.ActiveIndex,
	}
	if t.activeIndex < 0 || t.activeIndex >= GainCount {
		t.activeIndex = 0
	}
	t.p = controller.Gains().Vector()
	t.bestP = t.p
	return t
}

// Step feeds cte into the controller, advances the tuning state machine
// and returns the controller response.
func (t *Tuner) Step(cte float64) float64 {
	t.ticks++
	t.controller.UpdateError(cte)
	if t.enabled {
		t.tune(cte)
	}
	return t.controller.Response()
}

func (t *Tuner) tune(cte float64) {
	warmup := t.config.Warmup

	t.sampleCount++
	if t.sampleCount <= warmup {
		return
	}

	t.squaredErrorAccum += cte * cte
	t.err = t.squaredErrorAccum / float64(t.sampleCount-warmup)

	switch t.config.Evaluation {
	case EvaluationWindow:
		if t.sampleCount == warmup+1 {
			t.startTrial()
		}
		if t.sampleCount == 2*warmup {
			t.decide()
		}
	default:
		if t.phase == PhaseUntried {
			t.startTrial()
		} else {
			t.decide()
		}
	}

	if t.sampleCount > 2*warmup {
		t.rollover()
	}
}

func (t *Tuner) startTrial() {
	i := t.activeIndex
	switch t.phase {
	case PhaseUntried:
		t.p[i] += t.dp[i]
		t.phase = PhaseTryingIncrease
	case PhaseTryingDecrease:
		// an escalation left over from the previous window, the rollover restored the baseline
		t.p[i] -= t.dp[i]
	}
	t.applyCandidate()
}

func (t *Tuner) decide() {
	i := t.activeIndex

	switch t.phase {
	case PhaseUntried:
		return
	case PhaseTryingIncrease:
		if t.err < t.bestError {
			t.accept()
			return
		}
		t.p[i] -= 2 * t.dp[i]
		t.phase = PhaseTryingDecrease
		t.applyCandidate()
		t.emit(OutcomeEscalated)
	case PhaseTryingDecrease:
		if t.err < t.bestError {
			t.accept()
			return
		}
		t.p[i] += t.dp[i]
		t.dp[i] *= t.config.DecreaseFactor
		t.applyCandidate()
		t.emit(OutcomeReverted)
		t.settle()
	}
}

func (t *Tuner) accept() {
	i := t.activeIndex
	t.bestError = t.err
	t.bestP[i] = t.p[i]
	t.dp[i] *= t.config.IncreaseFactor
	t.emit(OutcomeAccepted)
	t.settle()
}

func (t *Tuner) settle() {
	t.phase = PhaseUntried
	if t.config.Rotate {
		t.activeIndex = (t.activeIndex + 1) % GainCount
	}
}

// rollover restarts the evaluation from the best gains found so far
func (t *Tuner) rollover() {
	t.sampleCount = 0
	t.squaredErrorAccum = 0
	t.p = t.bestP
	if t.config.ResetSteps != nil {
		t.dp = *t.config.ResetSteps
	}
	if t.config.Evaluation != EvaluationWindow || t.phase != PhaseTryingDecrease {
		t.phase = PhaseUntried
	}
	t.controller.Init(t.bestP[0], t.bestP[1], t.bestP[2])
	t.rollovers++
	t.emit(OutcomeRollover)
}

func (t *Tuner) applyCandidate() {
	if t.config.ApplyCandidates {
		t.controller.SetGains(pid.NewGains(t.p))
	}
}

func (t *Tuner) emit(outcome Outcome) {
	if outcome.IsDecision() {
		t.decisions++
	}
	if t.listener == nil {
		return
	}
	t.listener(Event{
		Outcome:   outcome,
		Tick:      t.ticks,
		Index:     t.activeIndex,
		Error:     t.err,
		BestError: t.bestError,
		Gains:     pid.NewGains(t.p),
		BestGains: pid.NewGains(t.bestP),
		Step:      t.dp[t.activeIndex],
	})
}

// discardTrial drops the in-flight candidate and the current window
func (t *Tuner) discardTrial() {
	t.p = t.bestP
	t.phase = PhaseUntried
	t.sampleCount = 0
	t.squaredErrorAccum = 0
	t.applyCandidate()
}

// SetActiveIndex selects the gain that is tuned from now on.
// A running trial on the previous gain is discarded.
func (t *Tuner) SetActiveIndex(index int) error {
	if index < 0 || index >= GainCount {
		return fmt.Errorf("invalid gain index %d, must be in [0, %d]", index, GainCount-1)
	}
	if index == t.activeIndex {
		return nil
	}
	t.discardTrial()
	t.activeIndex = index
	return nil
}

// SetEnabled pauses or resumes tuning. The controller keeps running either way.
func (t *Tuner) SetEnabled(enabled bool) {
	if t.enabled == enabled {
		return
	}
	t.discardTrial()
	t.enabled = enabled
}

func (t *Tuner) Enabled() bool {
	return t.enabled
}

func (t *Tuner) Controller() *pid.Controller {
	return t.controller
}

// Gains returns the current candidate gains
func (t *Tuner) Gains() pid.Gains {
	return pid.NewGains(t.p)
}

// BestGains returns the gains that achieved the lowest error so far
func (t *Tuner) BestGains() pid.Gains {
	return pid.NewGains(t.bestP)
}

func (t *Tuner) BestError() float64 {
	return t.bestError
}

// Error returns the running mean squared error of the current window
func (t *Tuner) Error() float64 {
	return t.err
}

func (t *Tuner) Steps() [GainCount]float64 {
	return t.dp
}

func (t *Tuner) ActiveIndex() int {
	return t.activeIndex
}

func (t *Tuner) Phase() Phase {
	return t.phase
}

func (t *Tuner) SampleCount() int {
	return t.sampleCount
}

func (t *Tuner) SquaredErrorAccum() float64 {
	return t.squaredErrorAccum
}

// Snapshot is a copy of the tuner state, safe to hand out to other goroutines.
type Snapshot struct {
	Enabled           bool               `json:"enabled"`
	Evaluation        string             `json:"evaluation"`
	Warmup            int                `json:"warmup"`
	ActiveIndex       int                `json:"activeIndex"`
	Phase             string             `json:"phase"`
	SampleCount       int                `json:"sampleCount"`
	SquaredErrorAccum float64            `json:"squaredErrorAccum"`
	Error             float64            `json:"error"`
	BestError         float64            `json:"bestError"`
	Gains             pid.Gains          `json:"gains"`
	BestGains         pid.Gains          `json:"bestGains"`
	Steps             [GainCount]float64 `json:"steps"`
	Ticks             uint64             `json:"ticks"`
	Decisions         uint64             `json:"decisions"`
	Rollovers         uint64             `json:"rollovers"`
}

func (t *Tuner) Snapshot() Snapshot {
	return Snapshot{
		Enabled:           t.enabled,
		Evaluation:        t.config.Evaluation.String(),
		Warmup:            t.config.Warmup,
		ActiveIndex:       t.activeIndex,
		Phase:             t.phase.String(),
		SampleCount:       t.sampleCount,
		SquaredErrorAccum: t.squaredErrorAccum,
		Error:             t.err,
		BestError:         t.bestError,
		Gains:             pid.NewGains(t.p),
		BestGains:         pid.NewGains(t.bestP),
		Steps:             t.dp,
		Ticks:             t.ticks,
		Decisions:         t.decisions,
		Rollovers:         t.rollovers,
	}
}
