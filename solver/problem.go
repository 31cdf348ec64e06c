package solver

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/pkg/errors"
)

// A Problem is a list of clauses & a nb of vars.
type Problem struct {
	NbVars  int     // Total nb of vars
	Clauses [][]Lit // List of clauses, possibly empty or unit
}

// CNF returns a DIMACS CNF representation of the problem.
func (pb *Problem) CNF() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "p cnf %d %d\n", pb.NbVars, len(pb.Clauses))
	for _, clause := range pb.Clauses {
		for _, lit := range clause {
			fmt.Fprintf(&sb, "%d ", lit.Int())
		}
		sb.WriteString("0\n")
	}
	return sb.String()
}

// Load declares the vars of the problem in s and adds all its clauses.
// s must not contain any variable yet, so that CNF variable i is mapped to Var i-1.
func (pb *Problem) Load(s Interface) error {
	for i := 0; i < pb.NbVars; i++ {
		if v := s.NewVar(); int(v) != i {
			return errors.Errorf("solver already had variables: expected var %d, got %d", i, v)
		}
	}
	for _, clause := range pb.Clauses {
		s.AddClause(clause...)
	}
	return nil
}

// OutputModel writes the result of a call to Solve in the usual competition format,
// i.e a status line possibly followed by a model line.
func OutputModel(w io.Writer, status Bool3, model []Bool3) error {
	bw := bufio.NewWriter(w)
	switch status {
	case True:
		fmt.Fprintf(bw, "s SATISFIABLE\nv ")
		for i, val := range model {
			if val == False {
				fmt.Fprintf(bw, "%d ", -i-1)
			} else {
				fmt.Fprintf(bw, "%d ", i+1)
			}
		}
		fmt.Fprintf(bw, "0\n")
	case False:
		fmt.Fprintf(bw, "s UNSATISFIABLE\n")
	default:
		fmt.Fprintf(bw, "s INDETERMINATE\n")
	}
	return errors.Wrap(bw.Flush(), "could not write model")
}
