package statistics

import (
	"github.com/markusressel/steer2go/internal/control"
	"github.com/prometheus/client_golang/prometheus"
)

const telemetrySubsystem = "telemetry"

// SampleSource provides the most recent telemetry sample
type SampleSource interface {
	LastSample() (control.Sample, uint64)
}

type TelemetryCollector struct {
	source SampleSource

	cte           *prometheus.Desc
	speed         *prometheus.Desc
	steeringAngle *prometheus.Desc
	sampleCount   *prometheus.Desc
}

func NewTelemetryCollector(source SampleSource) *TelemetryCollector {
	return &TelemetryCollector{
		source: source,
		cte: prometheus.NewDesc(prometheus.BuildFQName(namespace, telemetrySubsystem, "cte"),
			"Last reported cross-track error",
			nil, nil,
		),
		speed: prometheus.NewDesc(prometheus.BuildFQName(namespace, telemetrySubsystem, "speed"),
			"Last reported speed of the vehicle",
			nil, nil,
		),
		steeringAngle: prometheus.NewDesc(prometheus.BuildFQName(namespace, telemetrySubsystem, "steering_angle"),
			"Last reported steering angle of the vehicle",
			nil, nil,
		),
		sampleCount: prometheus.NewDesc(prometheus.BuildFQName(namespace, telemetrySubsystem, "sample_count"),
			"Number of telemetry samples received",
			nil, nil,
		),
	}
}

func (collector *TelemetryCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- collector.cte
	ch <- collector.speed
	ch <- collector.steeringAngle
	ch <- collector.sampleCount
}

// Collect implements required collect function for all prometheus collectors
func (collector *TelemetryCollector) Collect(ch chan<- prometheus.Metric) {
	sample, count := collector.source.LastSample()
	ch <- prometheus.MustNewConstMetric(collector.cte, prometheus.GaugeValue, sample.Cte)
	ch <- prometheus.MustNewConstMetric(collector.speed, prometheus.GaugeValue, sample.Speed)
	ch <- prometheus.MustNewConstMetric(collector.steeringAngle, prometheus.GaugeValue, sample.SteeringAngle)
	ch <- prometheus.MustNewConstMetric(collector.sampleCount, prometheus.CounterValue, float64(count))
}
