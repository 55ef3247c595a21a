package statistics

import "github.com/prometheus/client_golang/prometheus"

const (
	namespace = "steer2go"
)

var gainTerms = []string{"p", "i", "d"}

func Register(collector prometheus.Collector) {
	prometheus.MustRegister(collector)
}
