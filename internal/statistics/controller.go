package statistics

import (
	"github.com/markusressel/steer2go/internal/control"
	"github.com/prometheus/client_golang/prometheus"
)

const controllerSubsystem = "controller"

// SnapshotSource provides the current state of all controllers
type SnapshotSource interface {
	Snapshots() map[string]control.Snapshot
}

type ControllerCollector struct {
	source SnapshotSource

	cteMean   *prometheus.Desc
	cteMax    *prometheus.Desc
	output    *prometheus.Desc
	gain      *prometheus.Desc
	errorTerm *prometheus.Desc
	tickCount *prometheus.Desc
}

func NewControllerCollector(source SnapshotSource) *ControllerCollector {
	return &ControllerCollector{
		source: source,
		cteMean: prometheus.NewDesc(prometheus.BuildFQName(namespace, controllerSubsystem, "cte_mean"),
			"Mean absolute cross-track error over the rolling window of this controller",
			[]string{"id"}, nil,
		),
		cteMax: prometheus.NewDesc(prometheus.BuildFQName(namespace, controllerSubsystem, "cte_max"),
			"Max absolute cross-track error over the rolling window of this controller",
			[]string{"id"}, nil,
		),
		output: prometheus.NewDesc(prometheus.BuildFQName(namespace, controllerSubsystem, "output"),
			"Last output value of this controller",
			[]string{"id", "output"}, nil,
		),
		gain: prometheus.NewDesc(prometheus.BuildFQName(namespace, controllerSubsystem, "gain"),
			"Gain currently used by this controller",
			[]string{"id", "term"}, nil,
		),
		errorTerm: prometheus.NewDesc(prometheus.BuildFQName(namespace, controllerSubsystem, "error"),
			"Proportional, integral, derivative and total error of this controller",
			[]string{"id", "term"}, nil,
		),
		tickCount: prometheus.NewDesc(prometheus.BuildFQName(namespace, controllerSubsystem, "tick_count"),
			"Number of telemetry samples processed by this controller",
			[]string{"id"}, nil,
		),
	}
}

func (collector *ControllerCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- collector.cteMean
	ch <- collector.cteMax
	ch <- collector.output
	ch <- collector.gain
	ch <- collector.errorTerm
	ch <- collector.tickCount
}

// Collect implements required collect function for all prometheus collectors
func (collector *ControllerCollector) Collect(ch chan<- prometheus.Metric) {
	for id, snapshot := range collector.source.Snapshots() {
		ch <- prometheus.MustNewConstMetric(collector.cteMean, prometheus.GaugeValue, snapshot.CteMean, id)
		ch <- prometheus.MustNewConstMetric(collector.cteMax, prometheus.GaugeValue, snapshot.CteMax, id)
		ch <- prometheus.MustNewConstMetric(collector.output, prometheus.GaugeValue, snapshot.LastOutput, id, snapshot.Output)
		ch <- prometheus.MustNewConstMetric(collector.tickCount, prometheus.CounterValue, float64(snapshot.Ticks), id)

		gains := snapshot.Gains.Vector()
		for idx, term := range gainTerms {
			ch <- prometheus.MustNewConstMetric(collector.gain, prometheus.GaugeValue, gains[idx], id, term)
		}

		errorTerms := []float64{snapshot.ProportionalError, snapshot.IntegralError, snapshot.DerivativeError}
		for idx, term := range gainTerms {
			ch <- prometheus.MustNewConstMetric(collector.errorTerm, prometheus.GaugeValue, errorTerms[idx], id, term)
		}
		ch <- prometheus.MustNewConstMetric(collector.errorTerm, prometheus.GaugeValue, snapshot.TotalError, id, "total")
	}
}
