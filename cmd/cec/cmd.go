package cec

import (
	"fmt"
	"io"
	"os"

	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/gocec/gocec/cec"
	"github.com/gocec/gocec/fraig"
)

type options struct {
	config      string
	backend     string
	satlog      string
	inputMatch  map[string]string
	outputMatch map[string]string
	stats       bool
	metrics     bool
}

func NewCECCommand(logger *logrus.Logger) *cobra.Command {
	var opts options
	cmd := &cobra.Command{
		Use:   "cec <net1.yaml> <net2.yaml>",
		Short: "Checks the combinational equivalence of two networks",
		Long: `Checks whether the outputs of two networks compute the same functions.
Networks are described in YAML:

name: half-adder
inputs: [a, b]
outputs:
  - name: sum
    expr: a xor b
  - name: carry
    expr: a & b

By default, inputs and outputs are matched by name.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, args, opts, logger)
		},
	}
	cmd.Flags().StringVarP(&opts.config, "config", "c", "", "YAML configuration of the equivalence checker")
	cmd.Flags().StringVar(&opts.backend, "backend", "", "SAT solver (ymsat, gini, satlog); overrides the configuration")
	cmd.Flags().StringVar(&opts.satlog, "satlog", "", "file where all the calls to the solver are recorded; implies --backend=satlog")
	cmd.Flags().StringToStringVar(&opts.inputMatch, "input-match", nil, "input correspondence, as in1=in2,...")
	cmd.Flags().StringToStringVar(&opts.outputMatch, "output-match", nil, "output correspondence, as out1=out2,...")
	cmd.Flags().BoolVar(&opts.stats, "stats", false, "prints statistics about the checks")
	cmd.Flags().BoolVar(&opts.metrics, "metrics", false, "prints statistics in the prometheus text format")
	return cmd
}

func loadNetwork(path string) (*cec.Network, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "could not open %q", path)
	}
	defer f.Close()
	net, err := cec.LoadNetwork(f)
	if err != nil {
		return nil, errors.Wrapf(err, "could not load %q", path)
	}
	return net, nil
}

func loadConfig(opts options, logger *logrus.Logger) (fraig.Config, error) {
	cfg := fraig.DefaultConfig
	if opts.config != "" {
		f, err := os.Open(opts.config)
		if err != nil {
			return cfg, errors.Wrapf(err, "could not open %q", opts.config)
		}
		defer f.Close()
		if cfg, err = fraig.LoadConfig(f); err != nil {
			return cfg, errors.Wrapf(err, "could not load %q", opts.config)
		}
	}
	if opts.backend != "" {
		cfg.SatBackend = opts.backend
	}
	if opts.satlog != "" {
		cfg.SatBackend = fraig.BackendSatlog
	}
	cfg.Logger = logger
	return cfg, nil
}

func run(cmd *cobra.Command, args []string, opts options, logger *logrus.Logger) error {
	net1, err := loadNetwork(args[0])
	if err != nil {
		return err
	}
	net2, err := loadNetwork(args[1])
	if err != nil {
		return err
	}
	cfg, err := loadConfig(opts, logger)
	if err != nil {
		return err
	}
	if opts.satlog != "" {
		logFile, err := os.Create(opts.satlog)
		if err != nil {
			return errors.Wrap(err, "could not create satlog")
		}
		defer logFile.Close()
		cfg.SatLog = logFile
	}
	checker, err := cec.NewChecker(cfg)
	if err != nil {
		return err
	}
	defer checker.Close()
	results, err := checker.Check(cmd.Context(), net1, net2, opts.inputMatch, opts.outputMatch)
	if err != nil {
		return err
	}
	w := cmd.OutOrStdout()
	for _, res := range results {
		fmt.Fprintln(w, res)
	}
	if opts.stats {
		checker.Mgr().DumpStats(w)
	}
	if opts.metrics {
		if err := writeMetrics(w, checker.Mgr()); err != nil {
			return err
		}
	}
	if err := checker.Close(); err != nil {
		return errors.Wrap(err, "could not write satlog")
	}
	if !cec.Equivalent(results) {
		return errors.Errorf("%s and %s are not equivalent", net1.Name, net2.Name)
	}
	return nil
}

func writeMetrics(w io.Writer, mgr *fraig.Mgr) error {
	reg := prometheus.NewRegistry()
	if err := reg.Register(fraig.NewCollector(mgr)); err != nil {
		return errors.Wrap(err, "could not register collector")
	}
	families, err := reg.Gather()
	if err != nil {
		return errors.Wrap(err, "could not gather metrics")
	}
	for _, mf := range families {
		if _, err := expfmt.MetricFamilyToText(w, mf); err != nil {
			return errors.Wrap(err, "could not write metrics")
		}
	}
	return nil
}
