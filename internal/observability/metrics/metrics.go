package metrics

import "github.com/prometheus/client_golang/prometheus"

const DefaultService = "wicki"

// Base vectors carry a "service" label. Callers use the exported, curried
// vectors below, which are usable before registration.
var (
	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests.",
		},
		[]string{"service", "method", "path", "status"},
	)

	httpDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"service", "method", "path"},
	)

	signups = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "auth_signups_total",
			Help: "Total number of signup attempts.",
		},
		[]string{"service", "result"},
	)

	logins = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "auth_logins_total",
			Help: "Total number of login attempts.",
		},
		[]string{"service", "result"},
	)

	sessionsResolved = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "auth_sessions_resolved_total",
			Help: "Session cookie resolutions by outcome.",
		},
		[]string{"service", "result"},
	)

	permissionChecks = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "auth_permission_checks_total",
			Help: "Permission and role checks by kind and outcome.",
		},
		[]string{"service", "kind", "result"},
	)

	verifications = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "auth_verifications_total",
			Help: "One-time code operations by type, operation and outcome.",
		},
		[]string{"service", "type", "op", "result"},
	)
)

var (
	HTTPRequestsTotal          *prometheus.CounterVec
	HTTPRequestDurationSeconds *prometheus.HistogramVec
	AuthSignupsTotal           *prometheus.CounterVec
	AuthLoginsTotal            *prometheus.CounterVec
	SessionsResolvedTotal      *prometheus.CounterVec
	PermissionChecksTotal      *prometheus.CounterVec
	VerificationsTotal         *prometheus.CounterVec
)

func init() { curry(DefaultService) }

func curry(serviceName string) {
	labels := prometheus.Labels{"service": serviceName}
	HTTPRequestsTotal = httpRequests.MustCurryWith(labels)
	HTTPRequestDurationSeconds = httpDuration.MustCurryWith(labels).(*prometheus.HistogramVec)
	AuthSignupsTotal = signups.MustCurryWith(labels)
	AuthLoginsTotal = logins.MustCurryWith(labels)
	SessionsResolvedTotal = sessionsResolved.MustCurryWith(labels)
	PermissionChecksTotal = permissionChecks.MustCurryWith(labels)
	VerificationsTotal = verifications.MustCurryWith(labels)
}

func MustRegister(serviceName string) {
	MustRegisterWith(prometheus.DefaultRegisterer, serviceName)
}

// MustRegisterWith sets the service label and registers every collector
// with reg. It must be called at most once per registry.
func MustRegisterWith(reg prometheus.Registerer, serviceName string) {
	curry(serviceName)
	reg.MustRegister(
		httpRequests,
		httpDuration,
		signups,
		logins,
		sessionsResolved,
		permissionChecks,
		verifications,
	)
}

// Result maps an error to the "result" label value.
func Result(err error) string {
	if err != nil {
		return "error"
	}
	return "success"
}
