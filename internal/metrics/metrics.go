// Package metrics exposes Prometheus counters for the organizer.
// Each Metrics value owns its own registry so isolated instances never share
// counters.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/mmynk/lifesync/internal/storage"
)

// Ensure Metrics implements the storage side channel
var (
	_ storage.FailureReporter = (*Metrics)(nil)
	_ storage.Observer        = (*Metrics)(nil)
)

// Metrics holds the organizer's counters.
type Metrics struct {
	registry *prometheus.Registry

	writes          *prometheus.CounterVec
	failures        *prometheus.CounterVec
	decodeFallbacks *prometheus.CounterVec
	links           *prometheus.CounterVec
}

// New creates the counters and registers them on a fresh registry.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		writes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "lifesync_persist_writes_total",
			Help: "Successful durable writes by key.",
		}, []string{"key"}),
		failures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "lifesync_persist_failures_total",
			Help: "Swallowed persistence failures by key and operation.",
		}, []string{"key", "op"}),
		decodeFallbacks: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "lifesync_decode_fallbacks_total",
			Help: "Reads that fell back to the default because the stored entry did not decode.",
		}, []string{"key"}),
		links: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "lifesync_link_attempts_total",
			Help: "Partner link attempts by result.",
		}, []string{"result"}),
	}
	m.registry.MustRegister(m.writes, m.failures, m.decodeFallbacks, m.links)
	return m
}

// Registry returns the registry holding every counter.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// ReportFailure counts a swallowed persistence failure.
func (m *Metrics) ReportFailure(key string, op storage.Op, _ error) {
	if op == storage.OpDecode {
		m.decodeFallbacks.WithLabelValues(key).Inc()
		return
	}
	m.failures.WithLabelValues(key, string(op)).Inc()
}

// ObserveWrite counts a successful durable write.
func (m *Metrics) ObserveWrite(key string) {
	m.writes.WithLabelValues(key).Inc()
}

// LinkAttempt counts a link attempt. result is "ok" or an error reason.
func (m *Metrics) LinkAttempt(result string) {
	m.links.WithLabelValues(result).Inc()
}

// Sample is one counter value from Snapshot.
type Sample struct {
	Name   string            `json:"name"`
	Labels map[string]string `json:"labels,omitempty"`
	Value  float64           `json:"value"`
}

// Snapshot gathers every counter series created so far.
func (m *Metrics) Snapshot() ([]Sample, error) {
	families, err := m.registry.Gather()
	if err != nil {
		return nil, err
	}

	var out []Sample
	for _, mf := range families {
		for _, metric := range mf.GetMetric() {
			labels := make(map[string]string, len(metric.GetLabel()))
			for _, lp := range metric.GetLabel() {
				labels[lp.GetName()] = lp.GetValue()
			}
			out = append(out, Sample{
				Name:   mf.GetName(),
				Labels: labels,
				Value:  metric.GetCounter().GetValue(),
			})
		}
	}
	return out, nil
}
