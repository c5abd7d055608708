// Package metrics records container activity as Prometheus counters.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog"
)

const (
	resultOK    = "ok"
	resultError = "error"
)

// Metrics implements di.Observer.
type Metrics struct {
	ScopesBegun    prometheus.Counter
	ScopesReleased *prometheus.CounterVec
	Resolutions    *prometheus.CounterVec
}

// New registers the container metrics with reg.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		ScopesBegun: factory.NewCounter(prometheus.CounterOpts{
			Name: "chicagotime_scopes_begun_total",
			Help: "Total number of resolution scopes opened",
		}),
		ScopesReleased: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "chicagotime_scopes_released_total",
			Help: "Total number of resolution scopes released, by result",
		}, []string{"result"}),
		Resolutions: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "chicagotime_resolutions_total",
			Help: "Total number of capability resolutions, by capability and result",
		}, []string{"capability", "result"}),
	}
}

func (m *Metrics) ScopeBegun(string) {
	m.ScopesBegun.Inc()
}

func (m *Metrics) ScopeReleased(_ string, err error) {
	m.ScopesReleased.WithLabelValues(result(err)).Inc()
}

func (m *Metrics) Resolved(capability string, err error) {
	m.Resolutions.WithLabelValues(capability, result(err)).Inc()
}

func result(err error) string {
	if err != nil {
		return resultError
	}
	return resultOK
}

// LogSnapshot writes every counter gathered from g as a debug event.
func LogSnapshot(g prometheus.Gatherer, logger zerolog.Logger) error {
	families, err := g.Gather()
	if err != nil {
		return err
	}
	for _, family := range families {
		for _, metric := range family.GetMetric() {
			event := logger.Debug().Str("metric", family.GetName())
			for _, label := range metric.GetLabel() {
				event = event.Str(label.GetName(), label.GetValue())
			}
			event.Float64("value", metric.GetCounter().GetValue()).Msg("metric")
		}
	}
	return nil
}
