package fraig

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig(t *testing.T) {
	const yml = `
pattern_width: 4
sat_backend: gini
sat_options: analyzer=simple
loop_limit: 50
log_level: 1
`
	cfg, err := LoadConfig(strings.NewReader(yml))
	require.NoError(t, err)
	want := Config{
		PatternWidth: 4,
		SatBackend:   BackendGini,
		SatOptions:   "analyzer=simple",
		LoopLimit:    50,
		LogLevel:     1,
		Seed:         DefaultConfig.Seed,
	}
	if diff := cmp.Diff(want, cfg, cmpopts.IgnoreFields(Config{}, "SatLog", "Logger")); diff != "" {
		t.Errorf("unexpected config (-want +got):\n%s", diff)
	}
}

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig(strings.NewReader(""))
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig, cfg)
	assert.Equal(t, DefaultConfig, Config{}.withDefaults())
}

func TestLoadConfigErrors(t *testing.T) {
	for _, yml := range []string{
		"pattern_width: 0",
		"loop_limit: -3",
		"pattern_widht: 3",
		"pattern_width: [1, 2]",
	} {
		_, err := LoadConfig(strings.NewReader(yml))
		assert.Error(t, err, "config %q", yml)
	}
}
