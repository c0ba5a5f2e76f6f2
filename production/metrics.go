package production

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/comalice/scenenav"
)

// Metrics exports navigator transitions as Prometheus metrics.
type Metrics struct {
	transitions *prometheus.CounterVec
	finished    *prometheus.CounterVec
	observed    prometheus.Gauge
}

// NewMetrics registers the navigator metrics with reg. A nil reg uses the
// default registerer.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	f := promauto.With(reg)
	return &Metrics{
		transitions: f.NewCounterVec(prometheus.CounterOpts{
			Name: "scenenav_scene_changes_total",
			Help: "Scene changes by navigator, scene and direction",
		}, []string{"navigator", "scene", "direction"}),
		finished: f.NewCounterVec(prometheus.CounterOpts{
			Name: "scenenav_finished_total",
			Help: "Navigators that ran out of scenes",
		}, []string{"navigator"}),
		observed: f.NewGauge(prometheus.GaugeOpts{
			Name: "scenenav_observed_navigators",
			Help: "Navigators currently observed",
		}),
	}
}

// Observe counts the transitions of nav under the given label until the
// returned Disposable is disposed. An empty label uses the navigator key.
func (m *Metrics) Observe(nav scenenav.Navigator, label string) scenenav.Disposable {
	if label == "" {
		label = string(nav.Key())
		if label == "" {
			label = string(scenenav.KeyOf(nav))
		}
	}
	m.observed.Inc()
	return &observation{
		Disposable: nav.AddListener(&metricsListener{m: m, label: label}),
		gauge:      m.observed,
	}
}

type metricsListener struct {
	m     *Metrics
	label string
}

func (l *metricsListener) SceneChanged(scene scenenav.Scene, data scenenav.TransitionData) {
	direction := "forward"
	if data.Backwards {
		direction = "backward"
	}
	l.m.transitions.WithLabelValues(l.label, string(sceneKey(scene)), direction).Inc()
}

func (l *metricsListener) Finished() {
	l.m.finished.WithLabelValues(l.label).Inc()
}

type observation struct {
	scenenav.Disposable
	gauge prometheus.Gauge
}

func (o *observation) Dispose() {
	if o.IsDisposed() {
		return
	}
	o.Disposable.Dispose()
	o.gauge.Dec()
}
