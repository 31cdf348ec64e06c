package bf

import (
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/gocec/gocec/solver"
)

// A Formula is any kind of boolean formula, not necessarily in CNF.
type Formula interface {
	nnf() Formula
	String() string
	Eval(model map[string]bool) bool
}

// Solve solves the given formula.
// f is first converted as a CNF formula. It is then given to the solver.
// The function returns a model associating each variable name with its binding, or nil if the formula was not satisfiable.
func Solve(f Formula) map[string]bool {
	return asCnf(f).solve()
}

// Dimacs writes the DIMACS CNF version of the formula on w.
// It is useful so as to feed it to any SAT solver.
// The original names of variables is associated with their DIMACS integer counterparts
// in comments, between the prolog and the set of clauses.
// For instance, if the variable "a" is associated with the index 1, there will be a comment line
// "c a=1".
func Dimacs(f Formula, w io.Writer) error {
	cnf := asCnf(f)
	var sb strings.Builder
	fmt.Fprintf(&sb, "p cnf %d %d\n", cnf.vars.nb, len(cnf.clauses))
	for _, name := range cnf.vars.sortedNames() {
		fmt.Fprintf(&sb, "c %s=%d\n", name, cnf.vars.named[name])
	}
	for _, clause := range cnf.clauses {
		for _, lit := range clause {
			sb.WriteString(strconv.Itoa(lit))
			sb.WriteByte(' ')
		}
		sb.WriteString("0\n")
	}
	_, err := io.WriteString(w, sb.String())
	return errors.Wrap(err, "could not write DIMACS output")
}

// The "true" constant.
type trueConst struct{}

// True is the constant denoting a tautology.
var True Formula = trueConst{}

func (t trueConst) nnf() Formula   { return t }
func (t trueConst) String() string { return "1" }
func (t trueConst) Eval(model map[string]bool) bool { return true }

// The "false" constant.
type falseConst struct{}

// False is the constant denoting a contradiction.
var False Formula = falseConst{}

func (f falseConst) nnf() Formula   { return f }
func (f falseConst) String() string { return "0" }
func (f falseConst) Eval(model map[string]bool) bool { return false }

// Var generates a named boolean variable in a formula.
func Var(name string) Formula {
	return variable(name)
}

type variable string

func (v variable) nnf() Formula {
	return lit{signed: false, v: v}
}

func (v variable) String() string {
	return string(v)
}

func (v variable) Eval(model map[string]bool) bool {
	b, ok := model[string(v)]
	if !ok {
		panic(fmt.Errorf("model lacks binding for variable %s", string(v)))
	}
	return b
}

type lit struct {
	v      variable
	signed bool
}

func (l lit) nnf() Formula {
	return l
}

func (l lit) String() string {
	if l.signed {
		return "not(" + string(l.v) + ")"
	}
	return string(l.v)
}

func (l lit) Eval(model map[string]bool) bool {
	b := l.v.Eval(model)
	if l.signed {
		return !b
	}
	return b
}

// Not represents a negation. It negates the given subformula.
func Not(f Formula) Formula {
	return not{f}
}

type not [1]Formula

func (n not) nnf() Formula {
	switch f := n[0].(type) {
	case variable:
		l := f.nnf().(lit)
		l.signed = true
		return l
	case lit:
		f.signed = !f.signed
		return f
	case not:
		return f[0].nnf()
	case and:
		subs := make([]Formula, len(f))
		for i, sub := range f {
			subs[i] = not{sub}
		}
		return or(subs).nnf()
	case or:
		subs := make([]Formula, len(f))
		for i, sub := range f {
			subs[i] = not{sub}
		}
		return and(subs).nnf()
	case xor:
		return not{f.expand()}.nnf()
	case trueConst:
		return False
	case falseConst:
		return True
	default:
		panic("invalid formula type")
	}
}

func (n not) String() string {
	return "not(" + n[0].String() + ")"
}

func (n not) Eval(model map[string]bool) bool {
	return !n[0].Eval(model)
}

// And generates a conjunction of subformulas.
// The conjunction of no formula is True.
func And(subs ...Formula) Formula {
	return and(subs)
}

type and []Formula

func (a and) nnf() Formula {
	var res and
	for _, s := range a {
		nnf := s.nnf()
		switch nnf := nnf.(type) {
		case and: // Simplify: "and"s in the "and" get to the higher level
			res = append(res, nnf...)
		case trueConst: // True is ignored
		case falseConst:
			return False
		default:
			res = append(res, nnf)
		}
	}
	if len(res) == 1 {
		return res[0]
	}
	if len(res) == 0 {
		return True
	}
	return res
}

func (a and) String() string {
	return "and(" + joinFormulas(a) + ")"
}

func (a and) Eval(model map[string]bool) bool {
	for _, s := range a {
		if !s.Eval(model) {
			return false
		}
	}
	return true
}

// Or generates a disjunction of subformulas.
// The disjunction of no formula is False.
func Or(subs ...Formula) Formula {
	return or(subs)
}

type or []Formula

func (o or) nnf() Formula {
	var res or
	for _, s := range o {
		nnf := s.nnf()
		switch nnf := nnf.(type) {
		case or: // Simplify: "or"s in the "or" get to the higher level
			res = append(res, nnf...)
		case falseConst: // False is ignored
		case trueConst:
			return True
		default:
			res = append(res, nnf)
		}
	}
	if len(res) == 1 {
		return res[0]
	}
	if len(res) == 0 {
		return False
	}
	return res
}

func (o or) String() string {
	return "or(" + joinFormulas(o) + ")"
}

func (o or) Eval(model map[string]bool) bool {
	for _, s := range o {
		if s.Eval(model) {
			return true
		}
	}
	return false
}

func joinFormulas(fs []Formula) string {
	strs := make([]string, len(fs))
	for i, f := range fs {
		strs[i] = f.String()
	}
	return strings.Join(strs, ", ")
}

// Xor indicates exactly one of the two given subformulas is true.
func Xor(f1, f2 Formula) Formula {
	return xor{f1, f2}
}

type xor [2]Formula

// expand returns the equivalent formula made of conjunctions and disjunctions.
func (x xor) expand() Formula {
	return and{or{not{x[0]}, not{x[1]}}, or{x[0], x[1]}}
}

func (x xor) nnf() Formula {
	return x.expand().nnf()
}

func (x xor) String() string {
	return "xor(" + x[0].String() + ", " + x[1].String() + ")"
}

func (x xor) Eval(model map[string]bool) bool {
	return x[0].Eval(model) != x[1].Eval(model)
}

// Implies indicates a subformula implies another one.
func Implies(f1, f2 Formula) Formula {
	return or{not{f1}, f2}
}

// Eq indicates a subformula is equivalent to another one.
func Eq(f1, f2 Formula) Formula {
	return and{or{not{f1}, f2}, or{f1, not{f2}}}
}

// Vars returns the names of the variables appearing in f, sorted alphabetically.
func Vars(f Formula) []string {
	set := make(map[string]struct{})
	collectVars(f, set)
	res := make([]string, 0, len(set))
	for name := range set {
		res = append(res, name)
	}
	sort.Strings(res)
	return res
}

func collectVars(f Formula, set map[string]struct{}) {
	switch f := f.(type) {
	case variable:
		set[string(f)] = struct{}{}
	case lit:
		set[string(f.v)] = struct{}{}
	case not:
		collectVars(f[0], set)
	case and:
		for _, sub := range f {
			collectVars(sub, set)
		}
	case or:
		for _, sub := range f {
			collectVars(sub, set)
		}
	case xor:
		collectVars(f[0], set)
		collectVars(f[1], set)
	}
}

// vars associate variable names with numeric indices.
type vars struct {
	named map[string]int // Only the vars that appeared originally in the problem
	nb    int            // Total nb of vars, including those created when converting the formula
}

// litValue returns the int value associated with the given problem var.
// If the var was not referenced yet, it is created first.
func (vars *vars) litValue(l lit) int {
	val, ok := vars.named[string(l.v)]
	if !ok {
		vars.nb++
		val = vars.nb
		vars.named[string(l.v)] = val
	}
	if l.signed {
		return -val
	}
	return val
}

// dummy creates a dummy variable and returns its associated index.
func (vars *vars) dummy() int {
	vars.nb++
	return vars.nb
}

func (vars *vars) sortedNames() []string {
	names := make([]string, 0, len(vars.named))
	for name := range vars.named {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// A CNF is the representation of a boolean formula as a conjunction of disjunction.
// It can be solved by a SAT solver.
type cnf struct {
	vars    vars
	clauses [][]int
}

// solve solves the given formula.
// If it is satisfiable, the function returns a model, associating each variable name with its binding.
// Else, the function returns nil.
func (cnf *cnf) solve() map[string]bool {
	pb := solver.ParseSlice(cnf.clauses)
	if pb.NbVars < cnf.vars.nb {
		pb.NbVars = cnf.vars.nb
	}
	s := solver.New()
	if err := pb.Load(s); err != nil {
		panic(err) // Cannot happen on a fresh solver
	}
	status, model := s.Solve(nil)
	if status != solver.True {
		return nil
	}
	res := make(map[string]bool, len(cnf.vars.named))
	for name, idx := range cnf.vars.named {
		res[name] = model[idx-1] == solver.True
	}
	return res
}

// asCnf returns a CNF representation of the given formula.
func asCnf(f Formula) *cnf {
	res := &cnf{vars: vars{named: make(map[string]int)}}
	res.clauses = cnfRec(f.nnf(), &res.vars, nil)
	return res
}

// cnfRec transforms the f NNF formula into a set of clauses.
// Each generated clause is extended with the guard literals, i.e the clauses are only
// required to hold when all the guards are false.
// A dummy variable d is introduced for each conjunction nested in a disjunction,
// along with clauses stating d implies that conjunction.
func cnfRec(f Formula, vars *vars, guard []int) [][]int {
	withGuard := func(lits ...int) []int {
		return append(append(make([]int, 0, len(guard)+len(lits)), guard...), lits...)
	}
	switch f := f.(type) {
	case lit:
		return [][]int{withGuard(vars.litValue(f))}
	case and:
		var res [][]int
		for _, sub := range f {
			res = append(res, cnfRec(sub, vars, guard)...)
		}
		return res
	case or:
		var res [][]int
		lits := withGuard()
		for _, sub := range f {
			if l, ok := sub.(lit); ok {
				lits = append(lits, vars.litValue(l))
				continue
			}
			d := vars.dummy()
			lits = append(lits, d)
			res = append(res, cnfRec(sub, vars, []int{-d})...)
		}
		return append(res, lits)
	case trueConst: // True clauses are ignored
		return nil
	case falseConst:
		return [][]int{withGuard()}
	default:
		panic("invalid NNF formula")
	}
}
