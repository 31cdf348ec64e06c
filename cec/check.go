package cec

import (
	"context"
	"fmt"
	"io"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/gocec/gocec/fraig"
	"github.com/gocec/gocec/solver"
)

// A Result is the outcome of the comparison of two outputs.
type Result struct {
	Output1 string
	Output2 string
	// Status is True if the outputs are equivalent, False if they are not,
	// and Unknown if the SAT solver gave up.
	Status solver.Bool3
}

func (r Result) String() string {
	var verdict string
	switch r.Status {
	case solver.True:
		verdict = "equivalent"
	case solver.False:
		verdict = "not equivalent"
	default:
		verdict = "unknown"
	}
	return fmt.Sprintf("%s / %s: %s", r.Output1, r.Output2, verdict)
}

// A Checker compares networks. All networks are built in the same manager, so that
// the work done for a comparison benefits to the next ones.
type Checker struct {
	mgr *fraig.Mgr
	log *logrus.Logger
}

// NewChecker returns a checker whose manager is configured by cfg.
func NewChecker(cfg fraig.Config) (*Checker, error) {
	mgr, err := fraig.NewMgr(cfg)
	if err != nil {
		return nil, errors.Wrap(err, "could not create manager")
	}
	log := cfg.Logger
	if log == nil {
		log = logrus.New()
		log.SetOutput(io.Discard)
	}
	return &Checker{mgr: mgr, log: log}, nil
}

// Mgr returns the manager of c.
func (c *Checker) Mgr() *fraig.Mgr {
	return c.mgr
}

// Close releases the resources of the checker.
func (c *Checker) Close() error {
	return c.mgr.Close()
}

// Check compares the outputs of net1 and net2.
//
// inputMatch associates inputs of net1 to inputs of net2. Matching inputs are considered equal,
// the others are free. When inputMatch is nil, inputs with the same name are matched.
//
// outputMatch associates outputs of net1 to the outputs of net2 they are compared to.
// When it is nil, outputs with the same name are compared.
//
// Results are sorted in the order of the outputs of net1.
// The context is checked between two comparisons.
func (c *Checker) Check(ctx context.Context, net1, net2 *Network, inputMatch, outputMatch map[string]string) ([]Result, error) {
	for _, net := range []*Network{net1, net2} {
		if err := net.Validate(); err != nil {
			return nil, err
		}
	}
	for name1 := range outputMatch {
		if _, ok := net1.output(name1); !ok {
			return nil, errors.Errorf("network %q has no output %q", net1.Name, name1)
		}
	}
	if inputMatch == nil {
		inputMatch = make(map[string]string)
		for _, name := range net1.Inputs {
			if net2.hasInput(name) {
				inputMatch[name] = name
			}
		}
	}
	inputs1 := make(map[string]fraig.Handle, len(net1.Inputs))
	for _, name := range net1.Inputs {
		inputs1[name] = c.mgr.MakeInput()
	}
	inputs2 := make(map[string]fraig.Handle, len(net2.Inputs))
	for name1, name2 := range inputMatch {
		h, ok := inputs1[name1]
		if !ok {
			return nil, errors.Errorf("network %q has no input %q", net1.Name, name1)
		}
		if !net2.hasInput(name2) {
			return nil, errors.Errorf("network %q has no input %q", net2.Name, name2)
		}
		if _, ok := inputs2[name2]; ok {
			return nil, errors.Errorf("input %q of network %q matched twice", name2, net2.Name)
		}
		inputs2[name2] = h
	}
	for _, name := range net2.Inputs {
		if _, ok := inputs2[name]; !ok {
			inputs2[name] = c.mgr.MakeInput()
		}
	}

	var results []Result
	for _, out1 := range net1.Outputs {
		name2, ok := out1.Name, true
		if outputMatch != nil {
			name2, ok = outputMatch[out1.Name]
		}
		if !ok {
			continue
		}
		out2, found := net2.output(name2)
		if !found {
			if outputMatch == nil {
				continue
			}
			return nil, errors.Errorf("network %q has no output %q", net2.Name, name2)
		}
		if err := ctx.Err(); err != nil {
			return results, errors.Wrap(err, "comparison interrupted")
		}
		h1, err := c.mgr.MakeLogic(out1.Expr, inputs1)
		if err != nil {
			return nil, errors.Wrapf(err, "network %q: output %q", net1.Name, out1.Name)
		}
		h2, err := c.mgr.MakeLogic(out2.Expr, inputs2)
		if err != nil {
			return nil, errors.Wrapf(err, "network %q: output %q", net2.Name, out2.Name)
		}
		res := Result{Output1: out1.Name, Output2: out2.Name, Status: c.mgr.CheckEquiv(h1, h2)}
		c.log.WithFields(logrus.Fields{
			"output1": res.Output1,
			"output2": res.Output2,
			"status":  res.Status,
		}).Debug("outputs compared")
		results = append(results, res)
	}
	return results, nil
}

// CheckCEQ checks the combinational equivalence of net1 and net2, with a new manager
// configured by cfg. See Checker.Check for the meaning of the other parameters.
func CheckCEQ(ctx context.Context, net1, net2 *Network, inputMatch, outputMatch map[string]string, cfg fraig.Config) ([]Result, error) {
	c, err := NewChecker(cfg)
	if err != nil {
		return nil, err
	}
	results, err := c.Check(ctx, net1, net2, inputMatch, outputMatch)
	if cerr := c.Close(); err == nil && cerr != nil {
		err = errors.Wrap(cerr, "could not write SAT log")
	}
	return results, err
}

// Equivalent is true iff all results have the True status.
func Equivalent(results []Result) bool {
	for _, r := range results {
		if r.Status != solver.True {
			return false
		}
	}
	return true
}
