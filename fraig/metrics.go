package fraig

import (
	"github.com/prometheus/client_golang/prometheus"
)

const (
	checkConstLabel = "const"
	checkEquivLabel = "equiv"
)

var (
	satChecksDesc = prometheus.NewDesc(
		"fraig_sat_checks_total",
		"Number of SAT checks performed by the manager, by kind of check and result",
		[]string{"check", "result"}, nil,
	)
	nodesDesc = prometheus.NewDesc(
		"fraig_nodes",
		"Number of nodes of the manager, inputs included",
		nil, nil,
	)
	inputsDesc = prometheus.NewDesc(
		"fraig_inputs",
		"Number of inputs of the manager",
		nil, nil,
	)
	patternWidthDesc = prometheus.NewDesc(
		"fraig_pattern_width",
		"Width of the simulation patterns, in 32-bit words",
		nil, nil,
	)
	simulationsDesc = prometheus.NewDesc(
		"fraig_simulations_total",
		"Number of counterexamples added to the simulation patterns",
		nil, nil,
	)
	conflictsDesc = prometheus.NewDesc(
		"fraig_sat_conflicts_total",
		"Number of conflicts met by the SAT solver",
		nil, nil,
	)
)

// A Collector exports the statistics of a Mgr as prometheus metrics.
type Collector struct {
	m *Mgr
}

var _ prometheus.Collector = (*Collector)(nil)

// NewCollector returns a collector for the statistics of m.
// Like m, it must not be used concurrently with the manager.
func NewCollector(m *Mgr) *Collector {
	return &Collector{m: m}
}

// Describe implements prometheus.Collector.
func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	ch <- satChecksDesc
	ch <- nodesDesc
	ch <- inputsDesc
	ch <- patternWidthDesc
	ch <- simulationsDesc
	ch <- conflictsDesc
}

// Collect implements prometheus.Collector.
func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	for check, stat := range map[string]SatStat{
		checkConstLabel: c.m.constStat,
		checkEquivLabel: c.m.equivStat,
	} {
		ch <- prometheus.MustNewConstMetric(satChecksDesc, prometheus.CounterValue, float64(stat.Success.Count), check, "success")
		ch <- prometheus.MustNewConstMetric(satChecksDesc, prometheus.CounterValue, float64(stat.Failure.Count), check, "failure")
		ch <- prometheus.MustNewConstMetric(satChecksDesc, prometheus.CounterValue, float64(stat.Abort.Count), check, "abort")
	}
	ch <- prometheus.MustNewConstMetric(nodesDesc, prometheus.GaugeValue, float64(c.m.NodeNum()))
	ch <- prometheus.MustNewConstMetric(inputsDesc, prometheus.GaugeValue, float64(c.m.InputNum()))
	ch <- prometheus.MustNewConstMetric(patternWidthDesc, prometheus.GaugeValue, float64(c.m.patUsed))
	ch <- prometheus.MustNewConstMetric(simulationsDesc, prometheus.CounterValue, float64(c.m.simCount))
	ch <- prometheus.MustNewConstMetric(conflictsDesc, prometheus.CounterValue, float64(c.m.sat.Stats().NbConflicts))
}
