package activitypub

import (
	"github.com/davecheney/fedi/models"
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics counts follow graph changes and activity delivery across every
// server sharing it. A nil *Metrics discards all observations.
type Metrics struct {
	follows    *prometheus.CounterVec
	unfollows  *prometheus.CounterVec
	activities *prometheus.CounterVec
	batches    *prometheus.CounterVec
	recipients *prometheus.CounterVec
	failures   *prometheus.CounterVec
}

// NewMetrics creates the federation counters and registers them with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	counter := func(name, help string, labels ...string) *prometheus.CounterVec {
		c := prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "fedi",
			Name:      name,
			Help:      help,
		}, append([]string{"server"}, labels...))
		reg.MustRegister(c)
		return c
	}
	return &Metrics{
		follows:    counter("follows_total", "Follow requests, by whether a new edge was created.", "result"),
		unfollows:  counter("unfollows_total", "Unfollow requests, by whether an edge was removed.", "result"),
		activities: counter("activities_total", "Activities authored.", "type"),
		batches:    counter("delivery_batches_total", "ReceiveActivity calls issued during fan-out.", "destination"),
		recipients: counter("delivery_recipients_total", "Recipients addressed during fan-out.", "destination"),
		failures:   counter("delivery_failures_total", "Fan-out batches that failed.", "destination"),
	}
}

func (m *Metrics) follow(server string, created bool) {
	if m == nil {
		return
	}
	result := "existing"
	if created {
		result = "created"
	}
	m.follows.WithLabelValues(server, result).Inc()
}

func (m *Metrics) unfollow(server string, removed bool) {
	if m == nil {
		return
	}
	result := "noop"
	if removed {
		result = "removed"
	}
	m.unfollows.WithLabelValues(server, result).Inc()
}

func (m *Metrics) activity(server string, typ models.ActivityType) {
	if m == nil {
		return
	}
	m.activities.WithLabelValues(server, typ.String()).Inc()
}

func (m *Metrics) batch(server, destination string, recipients int) {
	if m == nil {
		return
	}
	m.batches.WithLabelValues(server, destination).Inc()
	m.recipients.WithLabelValues(server, destination).Add(float64(recipients))
}

func (m *Metrics) failure(server, destination string) {
	if m == nil {
		return
	}
	m.failures.WithLabelValues(server, destination).Inc()
}
