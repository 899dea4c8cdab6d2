package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the application.
type Metrics struct {
	UsersCreated       prometheus.Counter
	TransfersCreated   prometheus.Counter
	TransfersAccepted  prometheus.Counter
	TransfersCancelled prometheus.Counter
	DocumentsLogged    prometheus.Counter
}

// New creates and registers all Prometheus metrics.
func New() *Metrics {
	return &Metrics{
		UsersCreated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "docroute_users_created_total",
			Help: "Total number of user accounts created",
		}),
		TransfersCreated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "docroute_transfers_created_total",
			Help: "Total number of transfers created",
		}),
		TransfersAccepted: promauto.NewCounter(prometheus.CounterOpts{
			Name: "docroute_transfers_accepted_total",
			Help: "Total number of transfers accepted by their recipient",
		}),
		TransfersCancelled: promauto.NewCounter(prometheus.CounterOpts{
			Name: "docroute_transfers_cancelled_total",
			Help: "Total number of transfers cancelled by their sender",
		}),
		DocumentsLogged: promauto.NewCounter(prometheus.CounterOpts{
			Name: "docroute_registry_documents_total",
			Help: "Total number of inbound documents logged in the registry",
		}),
	}
}
