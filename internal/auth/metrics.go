// AngelaMos | 2026
// metrics.go

package auth

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var authEvents = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: "rpg",
		Subsystem: "auth",
		Name:      "events_total",
		Help:      "Authentication events by type and outcome.",
	},
	[]string{"event", "outcome"},
)

func recordAuthEvent(event string, err error) {
	outcome := "success"
	if err != nil {
		outcome = "failure"
	}
	authEvents.WithLabelValues(event, outcome).Inc()
}
