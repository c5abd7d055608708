package metrics_test

import (
	"bytes"
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/assurrussa/chicagotime/internal/metrics"
)

func TestMetricsCountScopesAndResolutions(t *testing.T) {
	t.Parallel()

	m := metrics.New(prometheus.NewRegistry())

	m.ScopeBegun("a")
	m.ScopeBegun("b")
	m.Resolved("datewriter.DateWriter", nil)
	m.Resolved("datewriter.DateWriter", errors.New("boom"))
	m.ScopeReleased("a", nil)
	m.ScopeReleased("b", errors.New("close failed"))

	assert.InDelta(t, 2, testutil.ToFloat64(m.ScopesBegun), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(m.ScopesReleased.WithLabelValues("ok")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(m.ScopesReleased.WithLabelValues("error")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(m.Resolutions.WithLabelValues("datewriter.DateWriter", "ok")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(m.Resolutions.WithLabelValues("datewriter.DateWriter", "error")), 0)
}

func TestLogSnapshotWritesCounters(t *testing.T) {
	t.Parallel()

	reg := prometheus.NewRegistry()
	m := metrics.New(reg)
	m.ScopeBegun("a")

	var buf bytes.Buffer
	require.NoError(t, metrics.LogSnapshot(reg, zerolog.New(&buf)))
	assert.Contains(t, buf.String(), `"metric":"chicagotime_scopes_begun_total"`)
	assert.Contains(t, buf.String(), `"value":1`)
}
