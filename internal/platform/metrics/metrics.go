package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the Prometheus instruments for one binary. Each service
// registers against its own registry so tests can construct Metrics freely
// without duplicate-registration panics.
type Metrics struct {
	Registry *prometheus.Registry

	// Gateway.
	RequestsRejected *prometheus.CounterVec

	// Identity service.
	UsersRegistered prometheus.Counter
	LoginsTotal     prometheus.Counter
	RoleMutations   *prometheus.CounterVec

	// Employee service.
	EmployeesCreated prometheus.Counter
	SagaFailures     *prometheus.CounterVec
	EventsPublished  *prometheus.CounterVec

	// Notifier.
	NotificationsSent   prometheus.Counter
	NotificationsFailed prometheus.Counter
}

// New creates and registers all instruments under the given namespace.
func New(namespace string) *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		Registry: reg,
		RequestsRejected: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "requests_rejected_total",
			Help:      "Requests rejected at the trust boundary, by reason.",
		}, []string{"reason"}),
		UsersRegistered: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "users_registered_total",
			Help:      "Total users registered.",
		}),
		LoginsTotal: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "logins_total",
			Help:      "Total successful logins.",
		}),
		RoleMutations: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "role_mutations_total",
			Help:      "Role list mutations applied, by action.",
		}, []string{"action"}),
		EmployeesCreated: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "employees_created_total",
			Help:      "Total employee records created.",
		}),
		SagaFailures: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "saga_failures_total",
			Help:      "Role-mutation saga failures, by failed step.",
		}, []string{"step"}),
		EventsPublished: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "events_published_total",
			Help:      "Domain events handed to the broker, by topic.",
		}, []string{"topic"}),
		NotificationsSent: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "notifications_sent_total",
			Help:      "Notification emails sent.",
		}),
		NotificationsFailed: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "notifications_failed_total",
			Help:      "Notification emails that failed to send.",
		}),
	}
}

// Handler exposes the registry for the /metrics endpoint.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{})
}
