package metrics

import (
	"strconv"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	once sync.Once

	updatesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bot_updates_total",
			Help: "Inbound updates by kind (command/action/text/other).",
		},
		[]string{"kind"},
	)

	updateErrors = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "bot_update_errors_total",
			Help: "Updates whose handling returned an error.",
		},
	)

	rendersTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bot_renders_total",
			Help: "Renderer decisions (edit/send/delete_send/fallback_send).",
		},
		[]string{"outcome"},
	)

	notificationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bot_notifications_total",
			Help: "Pub/sub notifications by result (ok/malformed/failed).",
		},
		[]string{"result"},
	)

	managerDecisions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bot_manager_decisions_total",
			Help: "Manager approve/reject decisions by outcome.",
		},
		[]string{"decision", "success"},
	)

	backendLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "bot_backend_latency_ms",
			Help:    "Backend API call latency in milliseconds.",
			Buckets: []float64{5, 10, 25, 50, 100, 200, 400, 800, 1600, 3000},
		},
		[]string{"method", "success"},
	)

	supervisorRestarts = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bot_supervisor_restarts_total",
			Help: "Worker restarts issued by the supervisor.",
		},
		[]string{"worker"},
	)
)

// Register registers all collectors exactly once.
func Register(reg prometheus.Registerer) {
	once.Do(func() {
		reg.MustRegister(
			updatesTotal,
			updateErrors,
			rendersTotal,
			notificationsTotal,
			managerDecisions,
			backendLatency,
			supervisorRestarts,
		)
	})
}

func IncUpdate(kind string)      { updatesTotal.WithLabelValues(kind).Inc() }
func IncUpdateError()            { updateErrors.Inc() }
func IncRender(outcome string)   { rendersTotal.WithLabelValues(outcome).Inc() }
func IncNotification(res string) { notificationsTotal.WithLabelValues(res).Inc() }

func IncManagerDecision(decision string, success bool) {
	managerDecisions.WithLabelValues(decision, strconv.FormatBool(success)).Inc()
}

func ObserveBackend(method string, success bool, ms float64) {
	backendLatency.WithLabelValues(method, strconv.FormatBool(success)).Observe(ms)
}

func IncSupervisorRestart(worker string) {
	supervisorRestarts.WithLabelValues(worker).Inc()
}
