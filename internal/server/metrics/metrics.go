// Package metrics collects Prometheus metrics for vault instructions and
// serves them over HTTP.
package metrics

import (
	"errors"
	"time"

	"github.com/dmitrijs2005/timevault/internal/common"
	"github.com/prometheus/client_golang/prometheus"
)

var outcomes = []struct {
	err   error
	label string
}{
	{common.ErrorNotFound, "not_found"},
	{common.ErrorAlreadyExists, "already_exists"},
	{common.ErrorUnauthorized, "unauthorized"},
	{common.ErrInvalidAccountBinding, "invalid_account_binding"},
	{common.ErrMintMismatch, "mint_mismatch"},
	{common.ErrOverflow, "overflow"},
	{common.ErrLockNotExpired, "lock_not_expired"},
	{common.ErrTransferFailed, "transfer_failed"},
	{common.ErrInvalidAmount, "invalid_amount"},
}

// Outcome is the metric label for an instruction result.
func Outcome(err error) string {
	if err == nil {
		return "ok"
	}
	for _, o := range outcomes {
		if errors.Is(err, o.err) {
			return o.label
		}
	}
	return "internal"
}

// Collector records instruction and transport metrics.
type Collector struct {
	instructions *prometheus.CounterVec
	latency      *prometheus.HistogramVec
	rateLimited  prometheus.Counter
}

// NewCollector creates a Collector and registers its metrics with reg.
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		instructions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "timevault_instructions_total",
			Help: "Vault instructions by kind and outcome.",
		}, []string{"kind", "outcome"}),
		latency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "timevault_instruction_duration_seconds",
			Help:    "Wall time of vault instructions, transaction included.",
			Buckets: prometheus.DefBuckets,
		}, []string{"kind"}),
		rateLimited: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "timevault_rate_limited_total",
			Help: "Requests rejected by the per-identity rate limiter.",
		}),
	}

	reg.MustRegister(c.instructions, c.latency, c.rateLimited)
	return c
}

func (c *Collector) ObserveInstruction(kind string, err error, elapsed time.Duration) {
	c.instructions.WithLabelValues(kind, Outcome(err)).Inc()
	c.latency.WithLabelValues(kind).Observe(elapsed.Seconds())
}

func (c *Collector) RecordRateLimited() {
	c.rateLimited.Inc()
}
