package metrics

import (
	"fmt"
	"sort"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

const namespace = "codebot"

// Sync counts what the sync engine does. Each instance owns a private
// registry so tests and multiple workspaces never collide.
type Sync struct {
	registry *prometheus.Registry

	Reconciliations    *prometheus.CounterVec // label outcome: preserved|regenerated
	Persists           *prometheus.CounterVec // label trigger
	WriteFailures      prometheus.Counter
	Extractions        prometheus.Counter
	Substitutions      prometheus.Counter
	Insertions         prometheus.Counter
	RejectedInsertions prometheus.Counter
	Reloads            prometheus.Counter
	ModeSwitches       *prometheus.CounterVec // label to: structured|raw
}

// New registers a fresh set of sync counters.
func New() *Sync {
	s := &Sync{
		registry: prometheus.NewRegistry(),
		Reconciliations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Name: "reconciliations_total",
			Help: "Header/logic reconciliations by outcome.",
		}, []string{"outcome"}),
		Persists: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Name: "persists_total",
			Help: "Successful artifact writes by trigger.",
		}, []string{"trigger"}),
		WriteFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Name: "write_failures_total",
			Help: "Artifact writes that failed.",
		}),
		Extractions: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Name: "extractions_total",
			Help: "Parameter extractions from edited text.",
		}),
		Substitutions: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Name: "substitutions_total",
			Help: "Assignment values rewritten in place.",
		}),
		Insertions: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Name: "insertions_total",
			Help: "Snippet insertions accepted by the edit guard.",
		}),
		RejectedInsertions: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Name: "rejected_insertions_total",
			Help: "Snippet insertions refused by the edit guard.",
		}),
		Reloads: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Name: "reloads_total",
			Help: "Reloads caused by external changes to the artifact.",
		}),
		ModeSwitches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Name: "mode_switches_total",
			Help: "View switches by target mode.",
		}, []string{"to"}),
	}
	s.registry.MustRegister(
		s.Reconciliations, s.Persists, s.WriteFailures, s.Extractions,
		s.Substitutions, s.Insertions, s.RejectedInsertions, s.Reloads, s.ModeSwitches,
	)
	return s
}

// Registry exposes the private registry, e.g. for an HTTP handler.
func (s *Sync) Registry() *prometheus.Registry { return s.registry }

// Sample is one flattened counter value.
type Sample struct {
	Name   string
	Labels string
	Value  float64
}

// String renders the sample the way the text exposition format would.
func (s Sample) String() string {
	if s.Labels == "" {
		return fmt.Sprintf("%s %g", s.Name, s.Value)
	}
	return fmt.Sprintf("%s{%s} %g", s.Name, s.Labels, s.Value)
}

// Snapshot gathers every counter that has been touched, sorted by name.
func (s *Sync) Snapshot() ([]Sample, error) {
	families, err := s.registry.Gather()
	if err != nil {
		return nil, fmt.Errorf("gather metrics: %w", err)
	}
	var out []Sample
	for _, mf := range families {
		for _, m := range mf.GetMetric() {
			out = append(out, Sample{
				Name:   mf.GetName(),
				Labels: labelString(m.GetLabel()),
				Value:  valueOf(mf.GetType(), m),
			})
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].Labels < out[j].Labels
	})
	return out, nil
}

// Total sums every sample of the named family (without namespace prefix).
func (s *Sync) Total(name string) float64 {
	samples, err := s.Snapshot()
	if err != nil {
		return 0
	}
	full := namespace + "_" + name
	var total float64
	for _, sm := range samples {
		if sm.Name == full {
			total += sm.Value
		}
	}
	return total
}

func labelString(pairs []*dto.LabelPair) string {
	parts := make([]string, 0, len(pairs))
	for _, lp := range pairs {
		parts = append(parts, fmt.Sprintf("%s=%q", lp.GetName(), lp.GetValue()))
	}
	return strings.Join(parts, ",")
}

func valueOf(t dto.MetricType, m *dto.Metric) float64 {
	switch t {
	case dto.MetricType_COUNTER:
		return m.GetCounter().GetValue()
	case dto.MetricType_GAUGE:
		return m.GetGauge().GetValue()
	case dto.MetricType_UNTYPED:
		return m.GetUntyped().GetValue()
	}
	return 0
}
