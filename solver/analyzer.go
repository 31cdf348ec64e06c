package solver

import (
	"fmt"

	"github.com/pkg/errors"
)

// AnalyzerKind is the name of a conflict analysis strategy.
type AnalyzerKind string

const (
	// UIP1 learns the clause associated with the first unique implication point.
	UIP1 = AnalyzerKind("uip1")
	// Simple keeps resolving until the decision of the conflict level is reached.
	Simple = AnalyzerKind("simple")
)

// ParseAnalyzerKind returns the analysis strategy with the given name.
// The empty string denotes the default strategy, UIP1.
func ParseAnalyzerKind(name string) (AnalyzerKind, error) {
	switch AnalyzerKind(name) {
	case "", UIP1:
		return UIP1, nil
	case Simple:
		return Simple, nil
	default:
		return "", errors.Errorf("unknown analyzer %q", name)
	}
}

// An analyzer turns a conflict into a learned clause.
// The first literal of the learned clause is the asserting literal,
// and the second one, if any, has the highest decision level among the others.
// btLevel is the level the solver must go back to before adding the clause.
type analyzer interface {
	analyze(confl Reason) (learnt []Lit, btLevel int)
}

func newAnalyzer(kind AnalyzerKind, s *Solver) analyzer {
	base := analyzerBase{s: s}
	switch kind {
	case UIP1:
		return &uip1Analyzer{base}
	case Simple:
		return &simpleAnalyzer{base}
	default:
		panic(fmt.Sprintf("invalid analyzer kind %q", kind))
	}
}

// analyzerBase holds the buffers shared by all strategies.
type analyzerBase struct {
	s       *Solver
	seen    []bool // For each var, whether it was met during analysis
	toClear []Var  // Vars whose seen flag must be reset at the end of the analysis
	stack   []Lit  // Worklist for the redundancy check
	learnt  []Lit
	binBuf  [1]Lit
}

// reset prepares buffers for a new analysis.
func (a *analyzerBase) reset() {
	if n := len(a.s.value); len(a.seen) < n {
		a.seen = append(a.seen, make([]bool, n-len(a.seen))...)
	}
	a.learnt = append(a.learnt[:0], LitUndef) // Room for the asserting literal
}

func (a *analyzerBase) mark(v Var) {
	a.seen[v] = true
	a.toClear = append(a.toClear, v)
}

func (a *analyzerBase) clearMarks() {
	for _, v := range a.toClear {
		a.seen[v] = false
	}
	a.toClear = a.toClear[:0]
}

// reasonLits returns the false literals of reason r.
// If implied is true, r is the reason of an assignment and its first literal,
// the implied one, is excluded. Otherwise r is a conflicting clause and all its literals are returned.
// The returned slice must not be modified.
func (a *analyzerBase) reasonLits(r Reason, implied bool) []Lit {
	if r.IsBinary() {
		a.binBuf[0] = r.Lit()
		return a.binBuf[:]
	}
	c := a.s.clauses.get(r.Clause())
	if implied {
		return c.lits[1:]
	}
	return c.lits
}

// addReason marks the literals of r that were not met yet.
// Lits from the current level are counted and returned, lits from lower levels (but level 0) are
// appended to the learned clause.
func (a *analyzerBase) addReason(r Reason, implied bool) (nbCurLevel int) {
	s := a.s
	lvl := s.trail.Level()
	if r.IsClause() {
		s.clauseBumpActivity(s.clauses.get(r.Clause()))
	}
	for _, q := range a.reasonLits(r, implied) {
		v := q.Var()
		if a.seen[v] || s.level[v] == 0 {
			continue
		}
		a.mark(v)
		s.varBumpActivity(v)
		if s.level[v] >= lvl {
			nbCurLevel++
		} else {
			a.learnt = append(a.learnt, q)
		}
	}
	return nbCurLevel
}

// resolve walks the trail backwards from the conflict, resolving reasons of current-level lits.
// stop is called each time the walk reaches a literal p, with the number of current-level
// lits remaining once p is removed; when it returns true, p's negation becomes the asserting literal.
func (a *analyzerBase) resolve(confl Reason, stop func(p Lit, remaining int) bool) {
	s := a.s
	pathC := a.addReason(confl, false)
	idx := s.trail.Size() - 1
	for {
		for !a.seen[s.trail.Get(idx).Var()] {
			idx--
		}
		p := s.trail.Get(idx)
		idx--
		a.seen[p.Var()] = false
		pathC--
		if stop(p, pathC) {
			a.learnt[0] = p.Negation()
			return
		}
		pathC += a.addReason(s.reason[p.Var()], true)
	}
}

// finish minimizes the learned clause, moves the literal with the highest level to position 1
// and computes the backtrack level.
func (a *analyzerBase) finish() ([]Lit, int) {
	learnt := a.minimize(a.learnt)
	a.clearMarks()
	if len(learnt) == 1 {
		return learnt, 0
	}
	s := a.s
	maxI := 1
	for i := 2; i < len(learnt); i++ {
		if s.level[learnt[i].Var()] > s.level[learnt[maxI].Var()] {
			maxI = i
		}
	}
	learnt[1], learnt[maxI] = learnt[maxI], learnt[1]
	res := make([]Lit, len(learnt))
	copy(res, learnt)
	return res, s.level[res[1].Var()]
}

func abstractLevel(level int) uint32 {
	return 1 << (uint(level) & 31)
}

// minimize removes redundant literals from the learned clause.
// The asserting literal at position 0 is always kept.
func (a *analyzerBase) minimize(learnt []Lit) []Lit {
	s := a.s
	var levels uint32
	for _, l := range learnt[1:] {
		levels |= abstractLevel(s.level[l.Var()])
	}
	j := 1
	for _, l := range learnt[1:] {
		if s.reason[l.Var()].IsNone() || !a.redundant(l, levels) {
			learnt[j] = l
			j++
		}
	}
	return learnt[:j]
}

// redundant returns true iff p is implied by the other lits of the learned clause,
// i.e if every path in the implication graph from p leads to lits already in the clause.
// Vars found redundant stay marked, so that later checks can stop on them.
func (a *analyzerBase) redundant(p Lit, levels uint32) bool {
	s := a.s
	top := len(a.toClear)
	a.stack = append(a.stack[:0], p)
	for len(a.stack) > 0 {
		q := a.stack[len(a.stack)-1]
		a.stack = a.stack[:len(a.stack)-1]
		for _, x := range a.reasonLits(s.reason[q.Var()], true) {
			v := x.Var()
			if a.seen[v] || s.level[v] == 0 {
				continue
			}
			if !s.reason[v].IsNone() && abstractLevel(s.level[v])&levels != 0 {
				a.mark(v)
				a.stack = append(a.stack, x)
				continue
			}
			for _, w := range a.toClear[top:] {
				a.seen[w] = false
			}
			a.toClear = a.toClear[:top]
			return false
		}
	}
	return true
}

// uip1Analyzer stops at the first unique implication point.
type uip1Analyzer struct {
	analyzerBase
}

func (a *uip1Analyzer) analyze(confl Reason) ([]Lit, int) {
	a.reset()
	a.resolve(confl, func(_ Lit, remaining int) bool {
		return remaining == 0
	})
	return a.finish()
}

// simpleAnalyzer resolves until the decision literal of the conflict level is reached.
type simpleAnalyzer struct {
	analyzerBase
}

func (a *simpleAnalyzer) analyze(confl Reason) ([]Lit, int) {
	a.reset()
	s := a.s
	a.resolve(confl, func(p Lit, remaining int) bool {
		if remaining != 0 {
			return false
		}
		r := s.reason[p.Var()]
		return r.IsNone() || !a.hasCurrentLevelLit(r)
	})
	return a.finish()
}

// hasCurrentLevelLit returns true iff resolving with r would bring new lits from the current level.
func (a *simpleAnalyzer) hasCurrentLevelLit(r Reason) bool {
	s := a.s
	lvl := s.trail.Level()
	var lits []Lit
	if r.IsBinary() {
		lits = []Lit{r.Lit()}
	} else {
		lits = s.clauses.get(r.Clause()).lits[1:]
	}
	for _, q := range lits {
		if s.level[q.Var()] >= lvl {
			return true
		}
	}
	return false
}
