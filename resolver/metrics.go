package resolver

import "github.com/prometheus/client_golang/prometheus"

const (
	metricsNamespace = "objectgraph"
	metricsSubsystem = "resolver"
)

var instancesTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
	Namespace: metricsNamespace,
	Subsystem: metricsSubsystem,
	Name:      "instances_total",
	Help:      "Count of Resolve calls by requested interface and outcome (constructed, cache_hit, constructor_error).",
}, []string{"interface", "outcome"})

func init() {
	prometheus.MustRegister(instancesTotal)
}
