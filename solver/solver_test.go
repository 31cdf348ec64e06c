package solver

import (
	"fmt"
	"math/rand"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newSolver returns a solver containing the given clauses.
func newSolver(t testing.TB, cnf [][]int, opts ...Option) *Solver {
	t.Helper()
	s := New(opts...)
	require.NoError(t, ParseSlice(cnf).Load(s))
	return s
}

// satisfies returns true iff model satisfies every clause of cnf.
func satisfies(model []Bool3, cnf [][]int) bool {
	for _, clause := range cnf {
		ok := false
		for _, val := range clause {
			if IntToLit(int32(val)).Eval(model[IntToVar(abs(int32(val)))]) == True {
				ok = true
				break
			}
		}
		if !ok {
			return false
		}
	}
	return true
}

// bruteForce returns true iff cnf has a model over nbVars vars that makes all assumptions true.
func bruteForce(nbVars int, cnf [][]int, assumptions []int) bool {
	model := make([]Bool3, nbVars)
	for bits := 0; bits < 1<<nbVars; bits++ {
		for i := range model {
			model[i] = FromBool(bits&(1<<i) != 0)
		}
		if satisfies(model, cnf) && satisfies(model, unitClauses(assumptions)) {
			return true
		}
	}
	return false
}

func unitClauses(lits []int) [][]int {
	res := make([][]int, len(lits))
	for i, l := range lits {
		res[i] = []int{l}
	}
	return res
}

func toLits(vals []int) []Lit {
	lits := make([]Lit, len(vals))
	for i, val := range vals {
		lits[i] = IntToLit(int32(val))
	}
	return lits
}

func random3SAT(rng *rand.Rand, nbVars, nbClauses int) [][]int {
	cnf := make([][]int, nbClauses)
	for i := range cnf {
		clause := make([]int, 3)
		for j := range clause {
			clause[j] = rng.Intn(nbVars) + 1
			if rng.Intn(2) == 0 {
				clause[j] = -clause[j]
			}
		}
		cnf[i] = clause
	}
	return cnf
}

// pigeonHole returns the unsatisfiable problem of putting n+1 pigeons in n holes.
func pigeonHole(n int) [][]int {
	x := func(pigeon, hole int) int { return pigeon*n + hole + 1 }
	var cnf [][]int
	for p := 0; p <= n; p++ {
		clause := make([]int, n)
		for h := 0; h < n; h++ {
			clause[h] = x(p, h)
		}
		cnf = append(cnf, clause)
	}
	for h := 0; h < n; h++ {
		for p1 := 0; p1 <= n; p1++ {
			for p2 := p1 + 1; p2 <= n; p2++ {
				cnf = append(cnf, []int{-x(p1, h), -x(p2, h)})
			}
		}
	}
	return cnf
}

var analyzers = []AnalyzerKind{UIP1, Simple}

func TestSmallSat(t *testing.T) {
	cnf := [][]int{{1, 2}, {-1, 3}, {-2, -3}}
	for _, kind := range analyzers {
		s := newSolver(t, cnf, WithAnalyzer(kind))
		status, model := s.Solve(nil)
		require.Equal(t, True, status, "analyzer %s", kind)
		assert.True(t, satisfies(model, cnf), "invalid model %v", model)
		assert.Equal(t, model[0], s.Value(0))
	}
}

func TestSmallUnsat(t *testing.T) {
	s := newSolver(t, [][]int{{1}, {-1}})
	status, model := s.Solve(nil)
	assert.Equal(t, False, status)
	assert.Nil(t, model)
	assert.False(t, s.Sane())
	status, _ = s.Solve(nil)
	assert.Equal(t, False, status, "an insane solver must keep answering UNSAT")
}

func TestEmptyClause(t *testing.T) {
	s := New()
	s.NewVar()
	s.AddClause()
	assert.False(t, s.Sane())
	s.AddClause(IntToLit(1)) // No-op
	status, _ := s.Solve(nil)
	assert.Equal(t, False, status)
}

func TestAddClauseSimplification(t *testing.T) {
	s := New()
	for i := 0; i < 4; i++ {
		s.NewVar()
	}
	s.AddClause(toLits([]int{1, -1, 2})...) // Tautology
	assert.Equal(t, 0, s.NbClauses())
	s.AddClause(toLits([]int{2, 2, 3, 3})...) // Duplicates: binary clause
	assert.Equal(t, 1, s.NbClauses())
	assert.Equal(t, 2, s.NbLiterals())
	s.AddClause(IntToLit(-4))
	s.AddClause(toLits([]int{4, 1, 2, 3})...) // 4 is false: 3 lits remain
	assert.Equal(t, 2, s.NbClauses())
	assert.Equal(t, 6, s.NbLiterals())
	s.AddClause(toLits([]int{-4, 1})...) // Satisfied
	assert.Equal(t, 2, s.NbClauses())
	assert.True(t, s.Sane())
}

func TestAddClausePanics(t *testing.T) {
	s := New()
	s.NewVar()
	assert.Panics(t, func() { s.AddClause(IntToLit(2)) }, "var 2 was not declared")
	assert.Panics(t, func() { s.AddClause(LitUndef) })
	s.NewVar()
	s.trail.SetMarker()
	assert.Panics(t, func() { s.AddClause(IntToLit(1)) }, "clauses cannot be added during search")
	assert.Panics(t, func() { s.NewVar() })
}

func TestAssumptions(t *testing.T) {
	cnf := [][]int{{1, 2}, {-1, 3}, {-2, -3}}
	s := newSolver(t, cnf)
	status, model := s.Solve(toLits([]int{1}))
	require.Equal(t, True, status)
	assert.Equal(t, True, model[0])
	assert.Equal(t, True, model[2])
	assert.Equal(t, False, model[1])

	status, _ = s.Solve(toLits([]int{1, 2}))
	assert.Equal(t, False, status)
	assert.True(t, s.Sane(), "failing under assumptions does not make the problem UNSAT")

	status, _ = s.Solve(toLits([]int{-3, -2}))
	assert.Equal(t, False, status)

	status, model = s.Solve(nil)
	require.Equal(t, True, status)
	assert.True(t, satisfies(model, cnf))
	assert.Equal(t, 0, s.trail.Level(), "solver must be back at level 0")
}

func TestIncremental(t *testing.T) {
	cnf := [][]int{{1, 2, 3}, {-1, -2}, {-2, -3}, {-1, -3}}
	s := newSolver(t, cnf)
	var models [][]Bool3
	for {
		status, model := s.Solve(nil)
		if status != True {
			require.Equal(t, False, status)
			break
		}
		require.True(t, satisfies(model, cnf))
		models = append(models, model)
		block := make([]Lit, len(model))
		for i, val := range model {
			block[i] = Var(i).SignedLit(val == True)
		}
		s.AddClause(block...)
	}
	assert.Len(t, models, 3, "exactly one of the three vars must be true")
}

func TestRandomAgainstBruteForce(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	for i := 0; i < 200; i++ {
		nbVars := 4 + rng.Intn(8)
		cnf := random3SAT(rng, nbVars, int(float64(nbVars)*4.3))
		var assumptions []int
		for j := 0; j < rng.Intn(3); j++ {
			a := rng.Intn(nbVars) + 1
			if rng.Intn(2) == 0 {
				a = -a
			}
			assumptions = append(assumptions, a)
		}
		want := FromBool(bruteForce(nbVars, cnf, assumptions))
		for _, kind := range analyzers {
			s := New(WithAnalyzer(kind))
			for j := 0; j < nbVars; j++ {
				s.NewVar()
			}
			for _, clause := range cnf {
				s.AddClause(toLits(clause)...)
			}
			status, model := s.Solve(toLits(assumptions))
			require.Equal(t, want, status, "instance #%d, analyzer %s: %v under %v", i, kind, cnf, assumptions)
			if status == True {
				require.True(t, satisfies(model, cnf), "instance #%d: invalid model", i)
				require.True(t, satisfies(model, unitClauses(assumptions)), "instance #%d: assumptions not honored", i)
			}
		}
	}
}

func TestPigeonHole(t *testing.T) {
	maxHoles := map[AnalyzerKind]int{UIP1: 6, Simple: 5}
	for _, kind := range analyzers {
		for n := 2; n <= maxHoles[kind]; n++ {
			t.Run(fmt.Sprintf("%s/%d", kind, n), func(t *testing.T) {
				s := newSolver(t, pigeonHole(n), WithAnalyzer(kind))
				status, _ := s.Solve(nil)
				assert.Equal(t, False, status)
				stats := s.Stats()
				assert.Positive(t, stats.NbConflicts)
				assert.Equal(t, n*(n+1), stats.NbVars)
			})
		}
	}
}

func TestMaxConflict(t *testing.T) {
	s := newSolver(t, pigeonHole(8), WithMaxConflict(1))
	status, model := s.Solve(nil)
	assert.Equal(t, Unknown, status)
	assert.Nil(t, model)
	assert.True(t, s.Sane())
	assert.Equal(t, 1, s.SetMaxConflict(100000))
}

func TestMsgHandler(t *testing.T) {
	s := newSolver(t, pigeonHole(5), WithTimer(true))
	var calls int
	s.RegisterMsgHandler(func(st Stats) {
		calls++
		assert.Equal(t, calls-1, st.NbRestarts)
	})
	status, _ := s.Solve(nil)
	require.Equal(t, False, status)
	assert.Equal(t, s.Stats().NbRestarts, calls)
	assert.Positive(t, s.Stats().Time)
}

func TestAnalyzeFirstUIP(t *testing.T) {
	cnf := [][]int{{-1, 3}, {-2, -3, 4}, {-2, 5}, {-3, -4, -5}, {1, 6}}
	for _, kind := range analyzers {
		s := newSolver(t, cnf, WithAnalyzer(kind))
		s.trail.SetMarker()
		s.assign(IntToLit(1), NoReason)
		require.True(t, s.propagate().IsNone())
		s.trail.SetMarker()
		s.assign(IntToLit(2), NoReason)
		confl := s.propagate()
		require.False(t, confl.IsNone(), "x2 must lead to a conflict")
		learnt, btLevel := s.analyzer.analyze(confl)
		assert.Equal(t, IntToLit(-2), learnt[0], "analyzer %s", kind)
		if diff := cmp.Diff([]Lit{IntToLit(-3)}, learnt[1:]); diff != "" {
			t.Errorf("analyzer %s: unexpected learned clause (-want +got):\n%s", kind, diff)
		}
		assert.Equal(t, 1, btLevel)
		for _, seen := range analyzerMarks(s.analyzer) {
			assert.False(t, seen, "marks must be cleared after analysis")
		}
	}
}

// x2 is implied by x1 alone, so it must be removed from the learned clause.
func TestAnalyzeMinimization(t *testing.T) {
	cnf := [][]int{{-1, 2}, {-3, -2, 4}, {-3, -1, -4}, {1, 3, 5}}
	for _, kind := range analyzers {
		s := newSolver(t, cnf, WithAnalyzer(kind))
		s.trail.SetMarker()
		s.assign(IntToLit(1), NoReason)
		require.True(t, s.propagate().IsNone())
		require.Equal(t, True, s.litValue(IntToLit(2)))
		s.trail.SetMarker()
		s.assign(IntToLit(3), NoReason)
		confl := s.propagate()
		require.False(t, confl.IsNone(), "x3 must lead to a conflict")
		learnt, btLevel := s.analyzer.analyze(confl)
		if diff := cmp.Diff([]Lit{IntToLit(-3), IntToLit(-1)}, learnt); diff != "" {
			t.Errorf("analyzer %s: unexpected learned clause (-want +got):\n%s", kind, diff)
		}
		assert.Equal(t, 1, btLevel, "analyzer %s", kind)
		for _, seen := range analyzerMarks(s.analyzer) {
			assert.False(t, seen, "marks must be cleared after analysis")
		}
	}
}

func TestBacktrackRestoresHeap(t *testing.T) {
	s := newSolver(t, [][]int{{-1, 2}, {-2, 3}, {-3, 4}, {-4, 5}, {-5, 6}})
	s.trail.SetMarker()
	s.assign(IntToLit(1), NoReason)
	require.True(t, s.propagate().IsNone())
	require.Equal(t, 6, s.trail.Size())
	for !s.heap.empty() {
		s.heap.popTop()
	}
	s.backtrack(0)
	assert.Equal(t, 0, s.trail.Level())
	assert.Equal(t, 0, s.trail.Size())
	for v := Var(0); v < 6; v++ {
		assert.Equal(t, Unknown, s.value[v], "var %d", v)
		assert.True(t, s.reason[v].IsNone(), "var %d", v)
		assert.True(t, s.heap.contains(v), "var %d must be back in the heap", v)
	}
	assert.NotPanics(t, s.heap.check)
}

func analyzerMarks(a analyzer) []bool {
	switch a := a.(type) {
	case *uip1Analyzer:
		return a.seen
	case *simpleAnalyzer:
		return a.seen
	default:
		panic("unknown analyzer")
	}
}

func TestReduceDBKeepsLockedClauses(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	const nbVars = 60
	cnf := random3SAT(rng, nbVars, 250)
	s := newSolver(t, cnf, WithMaxConflict(300))
	s.Solve(nil)
	require.Equal(t, 0, s.trail.Level())
	if !s.Sane() {
		t.Skip("instance proven UNSAT at the root level")
	}
	for v := Var(0); int(v) < nbVars; v++ {
		if s.value[v] != Unknown {
			continue
		}
		s.trail.SetMarker()
		s.assign(v.SignedLit(rng.Intn(2) == 0), NoReason)
		if confl := s.propagate(); !confl.IsNone() {
			s.backtrack(s.trail.Level() - 1)
			s.trail.SkipAll()
		}
	}
	s.reduceDB()
	live := make(map[ClauseRef]bool)
	for _, ref := range append(append([]ClauseRef{}, s.learnts...), s.constrs...) {
		live[ref] = true
	}
	assert.Equal(t, len(live)+1, s.clauses.len(), "arena must only hold live clauses and the binary placeholder")
	for _, l := range s.trail.Lits() {
		if r := s.reason[l.Var()]; r.IsClause() {
			assert.True(t, live[r.Clause()], "reason of %v was removed", l)
			assert.NotPanics(t, func() { s.clauses.get(r.Clause()) })
		}
	}
	s.backtrack(0)
}

func TestProblemCNF(t *testing.T) {
	pb := ParseSlice([][]int{{1, -2}, {3}})
	assert.Equal(t, 3, pb.NbVars)
	assert.Equal(t, "p cnf 3 2\n1 -2 0\n3 0\n", pb.CNF())
	s := New()
	s.NewVar()
	assert.Error(t, pb.Load(s), "vars must be numbered from 0")
}
