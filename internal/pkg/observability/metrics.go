package observability

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	PagesParsed = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "heatprice_pages_parsed_total",
			Help: "Report pages run through the layout parser",
		},
	)
	RowsAccepted = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "heatprice_rows_accepted_total",
			Help: "Rows that validated into canonical records",
		},
	)
	RowsRejected = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "heatprice_rows_rejected_total",
			Help: "Rows routed to the rejection report, by reason",
		},
		[]string{"reason"},
	)
	MergeCollisions = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "heatprice_merge_collisions_total",
			Help: "Duplicate (locality, year) keys resolved at merge time",
		},
	)
)

func Start(port string) {
	prometheus.MustRegister(PagesParsed, RowsAccepted, RowsRejected, MergeCollisions)
	http.Handle("/metrics", promhttp.Handler())
	go http.ListenAndServe(":"+port, nil)
}
