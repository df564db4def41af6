package metrics

import (
	"bytes"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestRecordersIncrementLabelledCounters(t *testing.T) {
	t.Parallel()

	m := New()
	m.RecordResolution("nstxu", OutcomeOK)
	m.RecordResolution("nstxu", OutcomeOK)
	m.RecordPluginLoad("top", OutcomeAbsent)
	m.RecordPathCache(true)
	m.RecordPathCache(false)
	m.RecordPathCache(true)

	require.Equal(t, 2.0, testutil.ToFloat64(m.Resolutions.WithLabelValues("nstxu", OutcomeOK)))
	require.Equal(t, 1.0, testutil.ToFloat64(m.PluginLoads.WithLabelValues("top", OutcomeAbsent)))
	require.Equal(t, 2.0, testutil.ToFloat64(m.PathCache.WithLabelValues(CacheHit)))
	require.Equal(t, 1.0, testutil.ToFloat64(m.PathCache.WithLabelValues(CacheMiss)))

	families, err := m.Registry().Gather()
	require.NoError(t, err)
	require.Len(t, families, 3)
}

func TestNilMetricsIsNoop(t *testing.T) {
	t.Parallel()

	var m *Metrics
	require.NotPanics(t, func() {
		m.RecordResolution("cmod", OutcomeInvalid)
		m.RecordPluginLoad("branch", OutcomeFault)
		m.RecordPathCache(false)
	})
	require.Nil(t, m.Registry())
}

func TestWriteTextUsesExpositionFormat(t *testing.T) {
	t.Parallel()

	m := New()
	m.RecordResolution("d3d", OutcomeOK)
	m.RecordPathCache(false)

	var buf bytes.Buffer
	require.NoError(t, m.WriteText(&buf))

	out := buf.String()
	require.Contains(t, out, "# HELP fdp_namespace_resolutions_total")
	require.Contains(t, out, `fdp_namespace_resolutions_total{machine="d3d",outcome="ok"} 1`)
	require.Contains(t, out, `fdp_signal_path_cache_total{result="miss"} 1`)
}

func TestWriteTextOnNilMetrics(t *testing.T) {
	t.Parallel()

	var m *Metrics
	var buf bytes.Buffer
	require.NoError(t, m.WriteText(&buf))
	require.Empty(t, buf.String())
}
