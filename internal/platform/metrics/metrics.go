package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the application
type Metrics struct {
	DatasetsCreated prometheus.Counter
	DatasetsUpdated prometheus.Counter
	DatasetsDeleted prometheus.Counter
	UsersRegistered prometheus.Counter
	ReportsBuilt    *prometheus.CounterVec
	RequestLatency  *prometheus.HistogramVec
}

// New creates and registers all Prometheus metrics with the default registry.
func New() *Metrics {
	return NewWith(prometheus.DefaultRegisterer)
}

// NewWith registers the metrics with an explicit registerer; tests pass a
// fresh registry so repeated construction does not collide.
func NewWith(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		DatasetsCreated: factory.NewCounter(prometheus.CounterOpts{
			Name: "ordr_datasets_created_total",
			Help: "Total number of dataset records created",
		}),
		DatasetsUpdated: factory.NewCounter(prometheus.CounterOpts{
			Name: "ordr_datasets_updated_total",
			Help: "Total number of dataset record updates",
		}),
		DatasetsDeleted: factory.NewCounter(prometheus.CounterOpts{
			Name: "ordr_datasets_deleted_total",
			Help: "Total number of dataset records deleted",
		}),
		UsersRegistered: factory.NewCounter(prometheus.CounterOpts{
			Name: "ordr_users_registered_total",
			Help: "Total number of user registrations",
		}),
		ReportsBuilt: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "ordr_scoring_reports_built_total",
			Help: "Scoring reports built, by report kind",
		}, []string{"report"}),
		RequestLatency: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "ordr_http_request_duration_seconds",
			Help:    "HTTP request latency by route and status",
			Buckets: prometheus.DefBuckets,
		}, []string{"route", "status"}),
	}
}
