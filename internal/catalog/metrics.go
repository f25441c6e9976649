package catalog

import (
	"github.com/prometheus/client_golang/prometheus"
)

var requestCount = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "catalog_request_total",
		Help: "Requests sent to the remote catalog API",
	},
	[]string{"endpoint", "outcome"},
)

func init() {
	prometheus.MustRegister(requestCount)
}

func recordRequest(endpoint string, err error) {
	outcome := "success"
	if err != nil {
		outcome = "failure"
	}
	requestCount.WithLabelValues(endpoint, outcome).Inc()
}
