package solve

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/gocec/gocec/bf"
	"github.com/gocec/gocec/fraig"
	"github.com/gocec/gocec/solver"
	"github.com/gocec/gocec/solver/giniback"
)

type options struct {
	backend    string
	satOptions string
	satlog     string
	verbose    bool
}

func NewSolveCommand(logger *logrus.Logger) *cobra.Command {
	var opts options
	cmd := &cobra.Command{
		Use:   "solve <file.cnf|file.bf>",
		Short: "Solves a SAT problem given in DIMACS format, or a boolean formula",
		Long: `Solves a SAT problem given in DIMACS format (.cnf files), such as

p cnf 2 2
1 2 0
1 -2 0

or a boolean formula (.bf files), such as

a & ^(b -> c) & (c = d | ^a)
`,
		Args: cobra.ExactArgs(1),
		PreRunE: func(cmd *cobra.Command, args []string) error {
			if _, err := os.Stat(args[0]); err != nil {
				return errors.Wrapf(err, "could not find %s", args[0])
			}
			switch opts.backend {
			case fraig.BackendDefault, fraig.BackendGini:
				return nil
			default:
				return errors.Errorf("unknown backend %q", opts.backend)
			}
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "c solving %s\n", path)
			if filepath.Ext(path) == ".bf" {
				return solveBF(w, path)
			}
			return solveCNF(w, path, opts, logger)
		},
	}
	cmd.Flags().StringVar(&opts.backend, "backend", fraig.BackendDefault, "SAT solver used for CNF problems (ymsat, gini)")
	cmd.Flags().StringVar(&opts.satOptions, "sat-options", "", "options of the ymsat solver, such as \"analyzer=simple max_conflict=5000\"")
	cmd.Flags().StringVar(&opts.satlog, "satlog", "", "file where all the calls to the solver are recorded")
	cmd.Flags().BoolVarP(&opts.verbose, "verbose", "v", false, "prints statistics about the search")
	return cmd
}

func newSolver(opts options, logger *logrus.Logger) (solver.Interface, error) {
	if opts.backend == fraig.BackendGini {
		return giniback.New(), nil
	}
	solverOpts, err := solver.ParseOptions(opts.satOptions)
	if err != nil {
		return nil, err
	}
	return solver.New(append(solverOpts, solver.WithLogger(logger), solver.WithTimer(opts.verbose))...), nil
}

func solveCNF(w io.Writer, path string, opts options, logger *logrus.Logger) error {
	f, err := os.Open(path)
	if err != nil {
		return errors.Wrapf(err, "could not open %q", path)
	}
	defer f.Close()
	pb, err := solver.ParseCNF(f)
	if err != nil {
		return errors.Wrapf(err, "could not parse DIMACS file %q", path)
	}
	s, err := newSolver(opts, logger)
	if err != nil {
		return err
	}
	if opts.satlog != "" {
		logFile, err := os.Create(opts.satlog)
		if err != nil {
			return errors.Wrap(err, "could not create satlog")
		}
		defer logFile.Close()
		rec := solver.NewRecorder(logFile, s)
		defer rec.Flush()
		s = rec
	}
	if opts.verbose {
		fmt.Fprintf(w, "c ======================================================================================\n")
		fmt.Fprintf(w, "c | Number of clauses   : %9d                                                    |\n", len(pb.Clauses))
		fmt.Fprintf(w, "c | Number of variables : %9d                                                    |\n", pb.NbVars)
	}
	if err := pb.Load(s); err != nil {
		return err
	}
	status, model := s.Solve(nil)
	if opts.verbose {
		stats := s.Stats()
		fmt.Fprintf(w, "c nb conflicts: %d\nc nb restarts: %d\nc nb decisions: %d\n", stats.NbConflicts, stats.NbRestarts, stats.NbDecisions)
		fmt.Fprintf(w, "c nb propagations: %d\nc nb learned: %d\nc time: %v\n", stats.NbPropagations, stats.NbLearntClauses, stats.Time)
	}
	return solver.OutputModel(w, status, model)
}

func solveBF(w io.Writer, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return errors.Wrapf(err, "could not open %q", path)
	}
	defer f.Close()
	form, err := bf.Parse(f)
	if err != nil {
		return errors.Wrapf(err, "could not parse formula in %q", path)
	}
	model := bf.Solve(form)
	if model == nil {
		fmt.Fprintln(w, "UNSATISFIABLE")
		return nil
	}
	fmt.Fprintln(w, "SATISFIABLE")
	keys := make(sort.StringSlice, 0, len(model))
	for k := range model {
		keys = append(keys, k)
	}
	sort.Sort(keys)
	for _, k := range keys {
		fmt.Fprintf(w, "%s: %t\n", k, model[k])
	}
	return nil
}
