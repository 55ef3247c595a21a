package journal

import (
	"math"

	"github.com/markusressel/steer2go/internal/persistence"
	"github.com/markusressel/steer2go/internal/tuner"
	"github.com/markusressel/steer2go/internal/util"
	"gonum.org/v1/gonum/stat"
)

// Summary describes the trial decisions of a journal
type Summary struct {
	Decisions int
	Accepted  int
	Escalated int
	Reverted  int
	Rollovers int

	ErrorMean   float64
	ErrorStdDev float64
	BestError   float64
}

// Summarize computes the Summary of the given records
func Summarize(records []persistence.Record) Summary {
	summary := Summary{
		BestError: math.Inf(1),
	}

	var errs []float64
	for _, record := range records {
		switch record.Outcome {
		case tuner.OutcomeAccepted:
			summary.Accepted++
		case tuner.OutcomeEscalated:
			summary.Escalated++
		case tuner.OutcomeReverted:
			summary.Reverted++
		case tuner.OutcomeRollover:
			summary.Rollovers++
		}
		if !record.Outcome.IsDecision() {
			continue
		}
		summary.Decisions++
		errs = append(errs, record.Error)
		summary.BestError = math.Min(summary.BestError, record.BestError)
	}

	if len(errs) > 0 {
		summary.ErrorMean, summary.ErrorStdDev = stat.MeanStdDev(errs, nil)
	}
	if len(errs) < 2 {
		summary.ErrorStdDev = 0
	}
	if math.IsInf(summary.BestError, 1) {
		summary.BestError = 0
	}
	return summary
}

// errorSeries returns the error of every decision and the best error known at that time.
// The best error is capped at the largest error, so the initial best error does not hide the trend.
func errorSeries(records []persistence.Record) (errs []float64, best []float64) {
	var decisions []persistence.Record
	for _, record := range records {
		if record.Outcome.IsDecision() {
			decisions = append(decisions, record)
			errs = append(errs, record.Error)
		}
	}
	maxErr := util.Max(errs)
	for _, record := range decisions {
		best = append(best, math.Min(record.BestError, maxErr))
	}
	return errs, best
}
