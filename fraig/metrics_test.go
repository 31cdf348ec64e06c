package fraig

import (
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// checkCount returns the value of fraig_sat_checks_total for the given labels.
func checkCount(t *testing.T, families []*dto.MetricFamily, check, result string) float64 {
	t.Helper()
	for _, mf := range families {
		if mf.GetName() != "fraig_sat_checks_total" {
			continue
		}
		for _, metric := range mf.GetMetric() {
			labels := make(map[string]string)
			for _, lp := range metric.GetLabel() {
				labels[lp.GetName()] = lp.GetValue()
			}
			if labels["check"] == check && labels["result"] == result {
				return metric.GetCounter().GetValue()
			}
		}
	}
	t.Fatalf("no sample for check=%s result=%s", check, result)
	return 0
}

func TestCollector(t *testing.T) {
	m := newMgr(t, Config{})
	x, y := buildXors(m)
	require.Equal(t, x, y)

	c := NewCollector(m)
	reg := prometheus.NewPedanticRegistry()
	require.NoError(t, reg.Register(c))
	families, err := reg.Gather()
	require.NoError(t, err)
	assert.Equal(t, float64(m.EquivStats().Success.Count), checkCount(t, families, "equiv", "success"))
	assert.Equal(t, float64(m.ConstStats().Abort.Count), checkCount(t, families, "const", "abort"))
	assert.Equal(t, 6, testutil.CollectAndCount(c, "fraig_sat_checks_total"))

	const want = `
# HELP fraig_nodes Number of nodes of the manager, inputs included
# TYPE fraig_nodes gauge
fraig_nodes 8
# HELP fraig_inputs Number of inputs of the manager
# TYPE fraig_inputs gauge
fraig_inputs 2
`
	assert.NoError(t, testutil.CollectAndCompare(c, strings.NewReader(want), "fraig_nodes", "fraig_inputs"))
}
