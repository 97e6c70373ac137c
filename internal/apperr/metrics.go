package apperr

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var classifiedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: "draftmill_client",
		Name:      "errors_classified_total",
		Help:      "Failures classified, labelled by taxonomy kind.",
	},
	[]string{"kind"},
)
