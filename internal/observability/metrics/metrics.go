// Package metrics collects and exposes Prometheus metrics for the portal.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Recorder is the slice of metrics collection the HTTP layer uses.
// A nil *Collector is a valid no-op Recorder.
type Recorder interface {
	RecordGateDecision(class, outcome string)
	RecordIdentityCheck(result string)
	RecordLogin(outcome string)
}

// Identity check result labels.
const (
	IdentityAuthenticated = "authenticated"
	IdentityAnonymous     = "anonymous"
	IdentityError         = "error"
)

// Login outcome labels.
const (
	LoginSuccess  = "success"
	LoginRejected = "rejected"
	LoginError    = "error"
)

// Collector collects the portal's Prometheus metrics.
type Collector struct {
	gateDecisions  *prometheus.CounterVec
	identityChecks *prometheus.CounterVec
	logins         *prometheus.CounterVec
}

// NewCollector creates a Collector and registers its metrics on reg.
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		gateDecisions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "portal_gate_decisions_total",
			Help: "Edge gate decisions by route class and outcome.",
		}, []string{"class", "outcome"}),
		identityChecks: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "portal_identity_checks_total",
			Help: "Identity endpoint checks by result.",
		}, []string{"result"}),
		logins: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "portal_logins_total",
			Help: "Login attempts by outcome.",
		}, []string{"outcome"}),
	}

	reg.MustRegister(c.gateDecisions, c.identityChecks, c.logins)
	return c
}

// RecordGateDecision counts one edge gate decision.
func (c *Collector) RecordGateDecision(class, outcome string) {
	if c == nil {
		return
	}
	c.gateDecisions.WithLabelValues(class, outcome).Inc()
}

// RecordIdentityCheck counts one identity check.
func (c *Collector) RecordIdentityCheck(result string) {
	if c == nil {
		return
	}
	c.identityChecks.WithLabelValues(result).Inc()
}

// RecordLogin counts one login attempt.
func (c *Collector) RecordLogin(outcome string) {
	if c == nil {
		return
	}
	c.logins.WithLabelValues(outcome).Inc()
}

// NewRegistry builds a registry preloaded with the standard process and
// Go runtime collectors.
func NewRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return reg
}

// Handler exposes the registry in Prometheus text format.
func Handler(reg *prometheus.Registry) http.Handler {
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{})
}
