package server

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics are the counters exported on /metrics.
type Metrics struct {
	rows          *prometheus.GaugeVec
	hovers        *prometheus.CounterVec
	events        *prometheus.CounterVec
	renderSeconds prometheus.Histogram
}

// NewMetrics creates the collectors and registers them on reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		rows: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "dcviz_dataset_rows",
				Help: "Rows of each dataset by validation outcome.",
			},
			[]string{"dataset", "outcome"},
		),
		hovers: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "dcviz_hover_lookups_total",
				Help: "Hover lookups by target and outcome.",
			},
			[]string{"target", "outcome"},
		),
		events: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "dcviz_events_total",
				Help: "Interaction events dispatched, by kind.",
			},
			[]string{"kind"},
		),
		renderSeconds: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "dcviz_render_duration_seconds",
				Help:    "Time spent rendering the page bundle.",
				Buckets: prometheus.DefBuckets,
			},
		),
	}
	reg.MustRegister(m.rows, m.hovers, m.events, m.renderSeconds)
	return m
}

// ObserveDataset records validation counts; it satisfies state.Observer.
func (m *Metrics) ObserveDataset(name string, accepted, rejected int) {
	m.rows.WithLabelValues(name, "accepted").Set(float64(accepted))
	m.rows.WithLabelValues(name, "rejected").Set(float64(rejected))
}

func (m *Metrics) hover(target, outcome string) {
	m.hovers.WithLabelValues(target, outcome).Inc()
}

func (m *Metrics) event(kind string) {
	m.events.WithLabelValues(kind).Inc()
}
