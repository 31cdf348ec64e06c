package replay

import (
	"fmt"
	"os"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/gocec/gocec/fraig"
	"github.com/gocec/gocec/solver"
	"github.com/gocec/gocec/solver/giniback"
)

func NewReplayCommand(logger *logrus.Logger) *cobra.Command {
	var backend string
	cmd := &cobra.Command{
		Use:   "replay <file.satlog>",
		Short: "Replays a recorded SAT session and checks its results",
		Long: `Replays the calls recorded in a satlog file on a new solver, and checks that
every call to Solve gives the recorded result. satlog files are created by the
--satlog option of the solve and cec commands.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var s solver.Interface
			switch backend {
			case fraig.BackendDefault:
				s = solver.New(solver.WithLogger(logger))
			case fraig.BackendGini:
				s = giniback.New()
			default:
				return errors.Errorf("unknown backend %q", backend)
			}
			f, err := os.Open(args[0])
			if err != nil {
				return errors.Wrapf(err, "could not open %q", args[0])
			}
			defer f.Close()
			stats, err := solver.Replay(f, s)
			if err != nil {
				return err
			}
			logger.WithFields(logrus.Fields{"file": args[0], "backend": backend}).Info("replay done")
			nbSat, nbUnsat := 0, 0
			for _, res := range stats.Results {
				switch res {
				case solver.True:
					nbSat++
				case solver.False:
					nbUnsat++
				}
			}
			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "vars: %d\nclauses: %d\nsolves: %d (%d SAT, %d UNSAT, %d UNKNOWN)\n",
				stats.NbVars, stats.NbClauses, stats.NbSolves, nbSat, nbUnsat, stats.NbSolves-nbSat-nbUnsat)
			return nil
		},
	}
	cmd.Flags().StringVar(&backend, "backend", fraig.BackendDefault, "SAT solver the session is replayed on (ymsat, gini)")
	return cmd
}
