package fraig

import (
	"io"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v2"
)

// Names of the available SAT backends.
const (
	BackendDefault = "ymsat"  // The CDCL solver of package solver
	BackendGini    = "gini"   // github.com/go-air/gini
	BackendSatlog  = "satlog" // The default solver, logging all calls in the satlog format
)

// Config is the configuration of a Mgr.
type Config struct {
	// PatternWidth is the initial # of 32-bit words of the simulation patterns.
	PatternWidth int `yaml:"pattern_width"`
	// SatBackend is the name of the SAT solver used to prove equivalences.
	// The gini backend has no conflict budget: its checks always run to completion,
	// so they never give up and CheckEquiv never returns Unknown with it.
	SatBackend string `yaml:"sat_backend"`
	// SatOptions are the options of the solver, see solver.ParseOptions.
	SatOptions string `yaml:"sat_options"`
	// SatLog is where the satlog backend writes. Defaults to os.Stdout.
	SatLog io.Writer `yaml:"-"`
	// LogLevel is 0 to log nothing, 1 to log the result of each SAT check, 2 to trace node creation.
	LogLevel int `yaml:"log_level"`
	// Logger receives the logs. By default, they are discarded.
	Logger *logrus.Logger `yaml:"-"`
	// LoopLimit is the max # of simulation refinements performed while creating a single node.
	// Once it is reached, the node is considered distinct from all others.
	LoopLimit int `yaml:"loop_limit"`
	// Seed initializes the generator of random patterns.
	Seed int64 `yaml:"seed"`
}

// DefaultConfig is the configuration used for unspecified fields.
var DefaultConfig = Config{
	PatternWidth: 2,
	SatBackend:   BackendDefault,
	LoopLimit:    1000,
	Seed:         1,
}

// withDefaults returns cfg where zero fields are replaced by their default value.
func (cfg Config) withDefaults() Config {
	if cfg.PatternWidth <= 0 {
		cfg.PatternWidth = DefaultConfig.PatternWidth
	}
	if cfg.SatBackend == "" {
		cfg.SatBackend = DefaultConfig.SatBackend
	}
	if cfg.LoopLimit <= 0 {
		cfg.LoopLimit = DefaultConfig.LoopLimit
	}
	if cfg.Seed == 0 {
		cfg.Seed = DefaultConfig.Seed
	}
	return cfg
}

// LoadConfig reads a YAML configuration, such as
//
//	pattern_width: 4
//	sat_backend: gini
//	loop_limit: 100
//	log_level: 1
//
// Missing keys take their default value.
func LoadConfig(r io.Reader) (Config, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return Config{}, errors.Wrap(err, "could not read config")
	}
	cfg := DefaultConfig
	if err := yaml.UnmarshalStrict(data, &cfg); err != nil {
		return Config{}, errors.Wrap(err, "invalid config")
	}
	if cfg.PatternWidth <= 0 {
		return Config{}, errors.Errorf("invalid pattern_width %d", cfg.PatternWidth)
	}
	if cfg.LoopLimit <= 0 {
		return Config{}, errors.Errorf("invalid loop_limit %d", cfg.LoopLimit)
	}
	return cfg, nil
}
