package registry

import "github.com/prometheus/client_golang/prometheus"

// Metric names follow a fixed Namespace/Subsystem pair per package and one
// CounterVec per countable event, registered eagerly in init() rather than
// lazily on first use.
const (
	metricsNamespace = "objectgraph"
	metricsSubsystem = "registry"
)

var (
	registrationsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: metricsNamespace,
		Subsystem: metricsSubsystem,
		Name:      "registrations_total",
		Help:      "Count of Register calls by interface and outcome (ok, duplicate_tag, duplicate_default).",
	}, []string{"interface", "outcome"})

	derivedLinksTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: metricsNamespace,
		Subsystem: metricsSubsystem,
		Name:      "derived_links_total",
		Help:      "Count of RegisterDerived calls by parent and sub interface.",
	}, []string{"parent_interface", "sub_interface"})
)

func init() {
	prometheus.MustRegister(registrationsTotal, derivedLinksTotal)
}
