package cec

import (
	"io"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v2"

	"github.com/gocec/gocec/bf"
)

// An Output is a named output of a network, defined by a formula over the inputs.
type Output struct {
	Name string
	Expr bf.Formula
}

// A Network is a combinational circuit: a list of named inputs and of outputs computed from them.
type Network struct {
	Name    string
	Inputs  []string
	Outputs []Output
}

// networkYAML is the serialized form of a Network.
type networkYAML struct {
	Name    string   `yaml:"name"`
	Inputs  []string `yaml:"inputs"`
	Outputs []struct {
		Name string `yaml:"name"`
		Expr string `yaml:"expr"`
	} `yaml:"outputs"`
}

// LoadNetwork reads a network described in YAML, such as
//
//	name: half-adder
//	inputs: [a, b]
//	outputs:
//	  - name: sum
//	    expr: a xor b
//	  - name: carry
//	    expr: a & b
//
// Expressions use the syntax of bf.Parse.
func LoadNetwork(r io.Reader) (*Network, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.Wrap(err, "could not read network")
	}
	var desc networkYAML
	if err := yaml.UnmarshalStrict(data, &desc); err != nil {
		return nil, errors.Wrap(err, "invalid network description")
	}
	net := &Network{Name: desc.Name, Inputs: desc.Inputs}
	for _, out := range desc.Outputs {
		expr, err := bf.ParseString(out.Expr)
		if err != nil {
			return nil, errors.Wrapf(err, "network %q: output %q", desc.Name, out.Name)
		}
		net.Outputs = append(net.Outputs, Output{Name: out.Name, Expr: expr})
	}
	if err := net.Validate(); err != nil {
		return nil, err
	}
	return net, nil
}

// Validate checks that names are unique and that outputs only depend on inputs of the network.
func (net *Network) Validate() error {
	inputs := make(map[string]bool, len(net.Inputs))
	for _, name := range net.Inputs {
		if name == "" {
			return errors.Errorf("network %q: empty input name", net.Name)
		}
		if inputs[name] {
			return errors.Errorf("network %q: duplicate input %q", net.Name, name)
		}
		inputs[name] = true
	}
	outputs := make(map[string]bool, len(net.Outputs))
	for _, out := range net.Outputs {
		if out.Name == "" {
			return errors.Errorf("network %q: empty output name", net.Name)
		}
		if outputs[out.Name] {
			return errors.Errorf("network %q: duplicate output %q", net.Name, out.Name)
		}
		outputs[out.Name] = true
		if out.Expr == nil {
			return errors.Errorf("network %q: output %q has no expression", net.Name, out.Name)
		}
		for _, v := range bf.Vars(out.Expr) {
			if !inputs[v] {
				return errors.Errorf("network %q: output %q depends on unknown input %q", net.Name, out.Name, v)
			}
		}
	}
	return nil
}

// output returns the output with the given name.
func (net *Network) output(name string) (Output, bool) {
	for _, out := range net.Outputs {
		if out.Name == name {
			return out, true
		}
	}
	return Output{}, false
}

func (net *Network) hasInput(name string) bool {
	for _, in := range net.Inputs {
		if in == name {
			return true
		}
	}
	return false
}
