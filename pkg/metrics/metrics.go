package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	rowsGenerated = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fixture_rows_generated_total",
			Help: "Total fixture rows generated",
		},
		[]string{"profile", "kind"},
	)

	fixtureRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fixture_requests_total",
			Help: "Total fixture requests served",
		},
		[]string{"profile", "kind", "status"},
	)

	profileFeasible = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "fixture_profile_feasible",
			Help: "1 when the profile's roster capacity covers its schedule demand",
		},
		[]string{"profile"},
	)
)

// RecordRows counts rows emitted for a profile
func RecordRows(profile, kind string, rows int) {
	rowsGenerated.WithLabelValues(profile, kind).Add(float64(rows))
}

// RecordRequest counts one served fixture request
func RecordRequest(profile, kind, status string) {
	fixtureRequests.WithLabelValues(profile, kind, status).Inc()
}

// RecordFeasibility publishes the last computed feasibility of a profile
func RecordFeasibility(profile string, feasible bool) {
	v := 0.0
	if feasible {
		v = 1
	}
	profileFeasible.WithLabelValues(profile).Set(v)
}
