package production

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/comalice/fsmx/internal/primitives"
)

// MetricsSource is anything exposing a machine ID and a metrics snapshot.
// Engines of every type parameterization satisfy it.
type MetricsSource interface {
	ID() string
	Metrics() primitives.Metrics
}

// Collector exposes the metrics of a set of machines to Prometheus.
// Values are read from each source's snapshot at scrape time.
type Collector struct {
	sources []MetricsSource

	total       *prometheus.Desc
	succeeded   *prometheus.Desc
	failed      *prometheus.Desc
	visits      *prometheus.Desc
	successRate *prometheus.Desc
	avgSeconds  *prometheus.Desc
}

// NewCollector creates a Collector over the given sources, with metric names
// under namespace (e.g. "fsmx").
func NewCollector(namespace string, sources ...MetricsSource) *Collector {
	machine := []string{"machine"}
	return &Collector{
		sources: sources,
		total: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "", "transitions_total"),
			"Total number of firing attempts.", machine, nil),
		succeeded: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "", "transitions_succeeded_total"),
			"Number of firings that selected a transition.", machine, nil),
		failed: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "", "transitions_failed_total"),
			"Number of firings that selected no transition.", machine, nil),
		visits: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "", "state_visits_total"),
			"Successful arrivals per destination state.", []string{"machine", "state"}, nil),
		successRate: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "", "success_rate"),
			"Succeeded over total firings.", machine, nil),
		avgSeconds: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "", "transition_duration_average_seconds"),
			"Mean firing duration.", machine, nil),
	}
}

// Describe implements prometheus.Collector.
func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.total
	ch <- c.succeeded
	ch <- c.failed
	ch <- c.visits
	ch <- c.successRate
	ch <- c.avgSeconds
}

// Collect implements prometheus.Collector.
func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	for _, src := range c.sources {
		id := src.ID()
		m := src.Metrics()

		ch <- prometheus.MustNewConstMetric(c.total, prometheus.CounterValue, float64(m.Total), id)
		ch <- prometheus.MustNewConstMetric(c.succeeded, prometheus.CounterValue, float64(m.Succeeded), id)
		ch <- prometheus.MustNewConstMetric(c.failed, prometheus.CounterValue, float64(m.Failed), id)
		ch <- prometheus.MustNewConstMetric(c.successRate, prometheus.GaugeValue, m.SuccessRate(), id)
		for state, n := range m.Visits {
			ch <- prometheus.MustNewConstMetric(c.visits, prometheus.CounterValue, float64(n), id, state)
		}
		if avg, ok := m.AverageTransitionTime(); ok {
			ch <- prometheus.MustNewConstMetric(c.avgSeconds, prometheus.GaugeValue, avg.Seconds(), id)
		}
	}
}
