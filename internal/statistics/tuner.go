package statistics

import (
	"github.com/markusressel/steer2go/internal/tuner"
	"github.com/prometheus/client_golang/prometheus"
)

const tunerSubsystem = "tuner"

var decisionOutcomes = []tuner.Outcome{tuner.OutcomeAccepted, tuner.OutcomeEscalated, tuner.OutcomeReverted}

type TunerCollector struct {
	source SnapshotSource

	enabled       *prometheus.Desc
	bestError     *prometheus.Desc
	currentError  *prometheus.Desc
	step          *prometheus.Desc
	bestGain      *prometheus.Desc
	activeIndex   *prometheus.Desc
	sampleCount   *prometheus.Desc
	decisionCount *prometheus.Desc
	rolloverCount *prometheus.Desc
}

func NewTunerCollector(source SnapshotSource) *TunerCollector {
	return &TunerCollector{
		source: source,
		enabled: prometheus.NewDesc(prometheus.BuildFQName(namespace, tunerSubsystem, "enabled"),
			"Whether the tuner of this controller is running (1) or paused (0)",
			[]string{"id"}, nil,
		),
		bestError: prometheus.NewDesc(prometheus.BuildFQName(namespace, tunerSubsystem, "best_error"),
			"Lowest mean squared error achieved by the tuner of this controller",
			[]string{"id"}, nil,
		),
		currentError: prometheus.NewDesc(prometheus.BuildFQName(namespace, tunerSubsystem, "error"),
			"Mean squared error of the current evaluation window",
			[]string{"id"}, nil,
		),
		step: prometheus.NewDesc(prometheus.BuildFQName(namespace, tunerSubsystem, "step"),
			"Current perturbation step of each gain",
			[]string{"id", "term"}, nil,
		),
		bestGain: prometheus.NewDesc(prometheus.BuildFQName(namespace, tunerSubsystem, "best_gain"),
			"Gains that achieved the lowest error so far",
			[]string{"id", "term"}, nil,
		),
		activeIndex: prometheus.NewDesc(prometheus.BuildFQName(namespace, tunerSubsystem, "active_index"),
			"Index of the gain that is currently tuned (0 = p, 1 = i, 2 = d)",
			[]string{"id"}, nil,
		),
		sampleCount: prometheus.NewDesc(prometheus.BuildFQName(namespace, tunerSubsystem, "sample_count"),
			"Number of samples in the current tuning cycle",
			[]string{"id"}, nil,
		),
		decisionCount: prometheus.NewDesc(prometheus.BuildFQName(namespace, tunerSubsystem, "decision_count"),
			"Number of trial decisions by outcome",
			[]string{"id", "outcome"}, nil,
		),
		rolloverCount: prometheus.NewDesc(prometheus.BuildFQName(namespace, tunerSubsystem, "rollover_count"),
			"Number of tuning cycles that ended with a reset to the best gains",
			[]string{"id"}, nil,
		),
	}
}

func (collector *TunerCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- collector.enabled
	ch <- collector.bestError
	ch <- collector.currentError
	ch <- collector.step
	ch <- collector.bestGain
	ch <- collector.activeIndex
	ch <- collector.sampleCount
	ch <- collector.decisionCount
	ch <- collector.rolloverCount
}

// Collect implements required collect function for all prometheus collectors
func (collector *TunerCollector) Collect(ch chan<- prometheus.Metric) {
	for id, snapshot := range collector.source.Snapshots() {
		t := snapshot.Tuner
		if t == nil {
			continue
		}

		enabled := 0.0
		if t.Enabled {
			enabled = 1
		}
		ch <- prometheus.MustNewConstMetric(collector.enabled, prometheus.GaugeValue, enabled, id)
		ch <- prometheus.MustNewConstMetric(collector.bestError, prometheus.GaugeValue, t.BestError, id)
		ch <- prometheus.MustNewConstMetric(collector.currentError, prometheus.GaugeValue, t.Error, id)
		ch <- prometheus.MustNewConstMetric(collector.activeIndex, prometheus.GaugeValue, float64(t.ActiveIndex), id)
		ch <- prometheus.MustNewConstMetric(collector.sampleCount, prometheus.GaugeValue, float64(t.SampleCount), id)
		ch <- prometheus.MustNewConstMetric(collector.rolloverCount, prometheus.CounterValue, float64(t.Rollovers), id)

		bestGains := t.BestGains.Vector()
		for idx, term := range gainTerms {
			ch <- prometheus.MustNewConstMetric(collector.step, prometheus.GaugeValue, t.Steps[idx], id, term)
			ch <- prometheus.MustNewConstMetric(collector.bestGain, prometheus.GaugeValue, bestGains[idx], id, term)
		}

		for _, outcome := range decisionOutcomes {
			count := snapshot.Outcomes[string(outcome)]
			ch <- prometheus.MustNewConstMetric(collector.decisionCount, prometheus.CounterValue, float64(count), id, string(outcome))
		}
	}
}
