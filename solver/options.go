package solver

import (
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// Params are the parameters of the search heuristics.
type Params struct {
	VarDecay    float64 // On each var decay, how much the var bump should be decayed
	ClauseDecay float64 // On each clause decay, how much the clause bump should be decayed
}

// DefaultParams are the parameters used when none are provided.
var DefaultParams = Params{
	VarDecay:    0.95,
	ClauseDecay: 0.999,
}

// An Option configures a Solver.
type Option func(s *Solver)

// WithParams sets the search parameters.
func WithParams(p Params) Option {
	return func(s *Solver) {
		s.params = p
	}
}

// WithAnalyzer selects the conflict analysis strategy.
func WithAnalyzer(kind AnalyzerKind) Option {
	return func(s *Solver) {
		s.analyzer = newAnalyzer(kind, s)
	}
}

// WithMaxConflict sets the max # of conflicts of a single restart.
// Once a restart reaches that limit without an answer, Solve returns Unknown.
func WithMaxConflict(n int) Option {
	return func(s *Solver) {
		s.maxConflict = n
	}
}

// WithLogger sets the logger used to report the progress of the search.
// By default, nothing is logged.
func WithLogger(logger *logrus.Logger) Option {
	return func(s *Solver) {
		if logger != nil {
			s.log = logger
		}
	}
}

// WithTimer enables time measurement of Solve calls, reported in Stats.
func WithTimer(on bool) Option {
	return func(s *Solver) {
		s.timerOn = on
	}
}

// ParseOptions parses a whitespace-separated list of key=value settings, such as
//
//	analyzer=simple max_conflict=5000 var_decay=0.9
//
// Recognized keys are analyzer, max_conflict, var_decay, clause_decay and timer.
func ParseOptions(str string) ([]Option, error) {
	var (
		opts   []Option
		params = DefaultParams
		custom bool
	)
	for _, field := range strings.Fields(str) {
		key, val, ok := strings.Cut(field, "=")
		if !ok {
			return nil, errors.Errorf("invalid solver option %q: expected key=value", field)
		}
		switch key {
		case "analyzer":
			kind, err := ParseAnalyzerKind(val)
			if err != nil {
				return nil, err
			}
			opts = append(opts, WithAnalyzer(kind))
		case "max_conflict":
			n, err := strconv.Atoi(val)
			if err != nil || n <= 0 {
				return nil, errors.Errorf("invalid max_conflict %q", val)
			}
			opts = append(opts, WithMaxConflict(n))
		case "var_decay", "clause_decay":
			d, err := strconv.ParseFloat(val, 64)
			if err != nil {
				return nil, errors.Wrapf(err, "invalid %s", key)
			}
			if d <= 0 || d > 1 {
				return nil, errors.Errorf("%s must be in ]0, 1], got %v", key, d)
			}
			if key == "var_decay" {
				params.VarDecay = d
			} else {
				params.ClauseDecay = d
			}
			custom = true
		case "timer":
			on, err := strconv.ParseBool(val)
			if err != nil {
				return nil, errors.Wrap(err, "invalid timer")
			}
			opts = append(opts, WithTimer(on))
		default:
			return nil, errors.Errorf("unknown solver option %q", key)
		}
	}
	if custom {
		opts = append(opts, WithParams(params))
	}
	return opts, nil
}
