package solver

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// The satlog format records every call made to a solver, one per line:
//
//	N <var>                 a variable was declared
//	A <lit> ... <lit> 0     a clause was added (DIMACS literals)
//	S <lit> ... <lit> 0     Solve was called with the given assumptions
//	R SAT|UNSAT|UNKNOWN     result of the preceding Solve
//	M <n>                   SetMaxConflict was called
//
// Such a log can be replayed later, on any solver, to reproduce and check a session.

// A Recorder is a solver that logs all the calls it receives in the satlog format
// before forwarding them to another solver.
type Recorder struct {
	inner Interface
	w     *bufio.Writer
	err   error // First write error, if any.
}

var _ Interface = (*Recorder)(nil)

// NewRecorder returns a solver that logs calls on w and delegates them to inner.
func NewRecorder(w io.Writer, inner Interface) *Recorder {
	return &Recorder{inner: inner, w: bufio.NewWriter(w)}
}

func (r *Recorder) printf(format string, args ...interface{}) {
	if r.err != nil {
		return
	}
	if _, err := fmt.Fprintf(r.w, format, args...); err != nil {
		r.err = errors.Wrap(err, "could not write satlog")
	}
}

func (r *Recorder) printLits(prefix byte, lits []Lit) {
	var sb strings.Builder
	sb.WriteByte(prefix)
	for _, l := range lits {
		sb.WriteByte(' ')
		sb.WriteString(strconv.Itoa(int(l.Int())))
	}
	sb.WriteString(" 0\n")
	r.printf("%s", sb.String())
}

// NewVar implements Interface.
func (r *Recorder) NewVar() Var {
	v := r.inner.NewVar()
	r.printf("N %d\n", v)
	return v
}

// AddClause implements Interface.
func (r *Recorder) AddClause(lits ...Lit) {
	r.printLits('A', lits)
	r.inner.AddClause(lits...)
}

// Solve implements Interface. The log is flushed after each call.
func (r *Recorder) Solve(assumptions []Lit) (Bool3, []Bool3) {
	r.printLits('S', assumptions)
	res, model := r.inner.Solve(assumptions)
	r.printf("R %s\n", res)
	r.Flush()
	return res, model
}

// Sane implements Interface.
func (r *Recorder) Sane() bool { return r.inner.Sane() }

// Stats implements Interface.
func (r *Recorder) Stats() Stats { return r.inner.Stats() }

// SetMaxConflict implements Interface.
func (r *Recorder) SetMaxConflict(n int) int {
	r.printf("M %d\n", n)
	return r.inner.SetMaxConflict(n)
}

// Flush writes buffered log lines to the underlying writer.
func (r *Recorder) Flush() {
	if r.err != nil {
		return
	}
	if err := r.w.Flush(); err != nil {
		r.err = errors.Wrap(err, "could not flush satlog")
	}
}

// Err returns the first error met while writing the log.
func (r *Recorder) Err() error {
	return r.err
}

// ReplayStats summarizes a replayed satlog.
type ReplayStats struct {
	NbVars    int
	NbClauses int
	NbSolves  int
	Results   []Bool3 // Result of each call to Solve, in order
}

func parseResult(str string) (Bool3, error) {
	switch str {
	case "SAT":
		return True, nil
	case "UNSAT":
		return False, nil
	case "UNKNOWN":
		return Unknown, nil
	default:
		return Unknown, errors.Errorf("invalid result %q", str)
	}
}

func parseLitList(fields []string) ([]Lit, error) {
	if len(fields) == 0 || fields[len(fields)-1] != "0" {
		return nil, errors.New("literal list must end with 0")
	}
	lits := make([]Lit, 0, len(fields)-1)
	for _, f := range fields[:len(fields)-1] {
		val, err := strconv.Atoi(f)
		if err != nil || val == 0 {
			return nil, errors.Errorf("invalid literal %q", f)
		}
		lits = append(lits, IntToLit(int32(val)))
	}
	return lits, nil
}

// Replay executes the calls recorded in a satlog on s.
// It returns an error if the log is malformed, or if s does not give the recorded answer
// to a call to Solve, unless either answer is Unknown.
func Replay(r io.Reader, s Interface) (ReplayStats, error) {
	var (
		stats   ReplayStats
		last    = Unknown
		pending bool // Was a Solve call seen but not its result yet?
	)
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1<<26)
	lineNo := 0
	for sc.Scan() {
		lineNo++
		fields := strings.Fields(sc.Text())
		if len(fields) == 0 {
			continue
		}
		args := fields[1:]
		switch fields[0] {
		case "N":
			if len(args) != 1 {
				return stats, errors.Errorf("line %d: expected a var id", lineNo)
			}
			want, err := strconv.Atoi(args[0])
			if err != nil {
				return stats, errors.Wrapf(err, "line %d: invalid var id", lineNo)
			}
			if v := s.NewVar(); int(v) != want {
				return stats, errors.Errorf("line %d: new var is %d, recorded %d", lineNo, v, want)
			}
			stats.NbVars++
		case "A":
			lits, err := parseLitList(args)
			if err != nil {
				return stats, errors.Wrapf(err, "line %d", lineNo)
			}
			s.AddClause(lits...)
			stats.NbClauses++
		case "S":
			lits, err := parseLitList(args)
			if err != nil {
				return stats, errors.Wrapf(err, "line %d", lineNo)
			}
			last, _ = s.Solve(lits)
			stats.NbSolves++
			stats.Results = append(stats.Results, last)
			pending = true
		case "R":
			if !pending || len(args) != 1 {
				return stats, errors.Errorf("line %d: unexpected result line", lineNo)
			}
			want, err := parseResult(args[0])
			if err != nil {
				return stats, errors.Wrapf(err, "line %d", lineNo)
			}
			if want != Unknown && last != Unknown && want != last {
				return stats, errors.Errorf("line %d: solver answered %v, recorded %v", lineNo, last, want)
			}
			pending = false
		case "M":
			if len(args) != 1 {
				return stats, errors.Errorf("line %d: expected a conflict limit", lineNo)
			}
			n, err := strconv.Atoi(args[0])
			if err != nil {
				return stats, errors.Wrapf(err, "line %d: invalid conflict limit", lineNo)
			}
			s.SetMaxConflict(n)
		default:
			return stats, errors.Errorf("line %d: unknown command %q", lineNo, fields[0])
		}
	}
	if err := sc.Err(); err != nil {
		return stats, errors.Wrap(err, "could not read satlog")
	}
	return stats, nil
}
