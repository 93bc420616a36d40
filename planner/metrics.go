package planner

import "github.com/prometheus/client_golang/prometheus"

// StatsCollector exposes the planner's per-edge extension statistics as
// prometheus metrics. Register it with a caller-owned registry and scrape
// between steps; the planner mutates statistics while a step executes.
type StatsCollector struct {
	planner *ManipulationPlanner
	success *prometheus.Desc
	failure *prometheus.Desc
}

// NewStatsCollector creates a collector over the planner's statistics.
func NewStatsCollector(m *ManipulationPlanner) *StatsCollector {
	return &StatsCollector{
		planner: m,
		success: prometheus.NewDesc(
			"manipplan_extension_success_total",
			"Successful extensions per constraint graph edge",
			[]string{"edge"}, nil,
		),
		failure: prometheus.NewDesc(
			"manipplan_extension_failure_total",
			"Failed extensions per constraint graph edge and reason",
			[]string{"edge", "reason"}, nil,
		),
	}
}

// Describe implements prometheus.Collector.
func (c *StatsCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.success
	ch <- c.failure
}

// Collect implements prometheus.Collector.
func (c *StatsCollector) Collect(ch chan<- prometheus.Metric) {
	for _, edge := range c.planner.problem.ConstraintGraph().Edges() {
		s := c.planner.stats.lookup(edge)
		if s == nil {
			continue
		}
		ch <- prometheus.MustNewConstMetric(
			c.success, prometheus.CounterValue, float64(s.NumSuccess()), edge.Name(),
		)
		for r := ReasonProjection; r < numReasons; r++ {
			ch <- prometheus.MustNewConstMetric(
				c.failure, prometheus.CounterValue, float64(s.NumFailure(r)), edge.Name(), r.String(),
			)
		}
	}
}

var _ prometheus.Collector = (*StatsCollector)(nil)
