package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCountersAreIndependentPerInstance(t *testing.T) {
	a := New()
	b := New()

	a.Reconciliations.WithLabelValues("preserved").Inc()
	a.Reconciliations.WithLabelValues("preserved").Inc()
	a.Reconciliations.WithLabelValues("regenerated").Inc()

	assert.Equal(t, 2.0, testutil.ToFloat64(a.Reconciliations.WithLabelValues("preserved")))
	assert.Equal(t, 0.0, testutil.ToFloat64(b.Reconciliations.WithLabelValues("preserved")))
	assert.Equal(t, 3.0, a.Total("reconciliations_total"))
}

func TestSnapshot(t *testing.T) {
	s := New()
	s.Persists.WithLabelValues("save").Inc()
	s.WriteFailures.Add(2)

	samples, err := s.Snapshot()
	require.NoError(t, err)

	byName := map[string]Sample{}
	for _, sm := range samples {
		byName[sm.Name+"|"+sm.Labels] = sm
	}
	persist, ok := byName[`codebot_persists_total|trigger="save"`]
	require.True(t, ok, "samples: %v", samples)
	assert.Equal(t, 1.0, persist.Value)
	assert.Equal(t, `codebot_persists_total{trigger="save"} 1`, persist.String())

	failures, ok := byName["codebot_write_failures_total|"]
	require.True(t, ok)
	assert.Equal(t, "codebot_write_failures_total 2", failures.String())
}
