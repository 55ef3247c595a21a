package statistics

import "github.com/prometheus/client_golang/prometheus"

const journalSubsystem = "journal"

// JournalSource provides the write statistics of the trial journal
type JournalSource interface {
	Recorded() uint64
	Dropped() uint64
}

type JournalCollector struct {
	source JournalSource

	recordedCount *prometheus.Desc
	droppedCount  *prometheus.Desc
}

func NewJournalCollector(source JournalSource) *JournalCollector {
	return &JournalCollector{
		source: source,
		recordedCount: prometheus.NewDesc(prometheus.BuildFQName(namespace, journalSubsystem, "recorded_count"),
			"Number of tuner events written to the journal",
			nil, nil,
		),
		droppedCount: prometheus.NewDesc(prometheus.BuildFQName(namespace, journalSubsystem, "dropped_count"),
			"Number of tuner events dropped because the journal buffer was full",
			nil, nil,
		),
	}
}

func (collector *JournalCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- collector.recordedCount
	ch <- collector.droppedCount
}

// Collect implements required collect function for all prometheus collectors
func (collector *JournalCollector) Collect(ch chan<- prometheus.Metric) {
	ch <- prometheus.MustNewConstMetric(collector.recordedCount, prometheus.CounterValue, float64(collector.source.Recorded()))
	ch <- prometheus.MustNewConstMetric(collector.droppedCount, prometheus.CounterValue, float64(collector.source.Dropped()))
}
