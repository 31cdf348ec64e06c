package root

import (
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/gocec/gocec/cmd/cec"
	"github.com/gocec/gocec/cmd/replay"
	"github.com/gocec/gocec/cmd/solve"
)

// levelValue is a pflag.Value setting the level of a logger.
type levelValue struct {
	logger *logrus.Logger
}

var _ pflag.Value = levelValue{}

func (v levelValue) String() string {
	if v.logger == nil {
		return logrus.WarnLevel.String()
	}
	return v.logger.GetLevel().String()
}

func (v levelValue) Set(s string) error {
	level, err := logrus.ParseLevel(s)
	if err != nil {
		return err
	}
	v.logger.SetLevel(level)
	return nil
}

func (v levelValue) Type() string { return "level" }

func NewRootCmd() *cobra.Command {
	logger := logrus.New()
	logger.SetLevel(logrus.WarnLevel)
	rootCmd := &cobra.Command{
		Use:   "gocec",
		Short: "gocec is a SAT solver and combinational equivalence checker",
		Long: `A CDCL SAT solver, and a combinational equivalence checker built on
functionally reduced and-inverter graphs.`,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logger.SetOutput(cmd.ErrOrStderr())
		},
	}
	addLogFlags(rootCmd.PersistentFlags(), logger)

	// add sub-commands
	rootCmd.AddCommand(solve.NewSolveCommand(logger))
	rootCmd.AddCommand(cec.NewCECCommand(logger))
	rootCmd.AddCommand(replay.NewReplayCommand(logger))

	return rootCmd
}

func addLogFlags(flags *pflag.FlagSet, logger *logrus.Logger) {
	flags.Var(levelValue{logger: logger}, "log-level", "logging level (panic, fatal, error, warning, info, debug, trace)")
}
