package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	ResultSuccess = "success"
	ResultFailure = "failure"
)

var (
	// ProbeAttempts counts readiness probe invocations per dependency.
	ProbeAttempts = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "readiness_probe_attempts_total",
		Help: "Readiness probe invocations by service and result",
	}, []string{"service", "result"})

	// AccountsCreated counts successfully persisted accounts.
	AccountsCreated = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "accounts_created_total",
		Help: "Accounts created by kind (user or superuser)",
	}, []string{"kind"})

	// LoginAttempts counts authentication attempts by result.
	LoginAttempts = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "account_login_attempts_total",
		Help: "Login attempts by result",
	}, []string{"result"})
)
