package solver

import (
	"fmt"
	"io"
	"time"

	"github.com/kr/pretty"
	"github.com/sirupsen/logrus"
)

const (
	defaultMaxConflict = 1024 * 10 // Max # of conflicts of a single restart.
	initConflictLimit  = 100       // # of conflicts allowed during the first restart.
	incrConflictLimit  = 1.5       // By how much the conflict limit is multiplied at each restart.
	incrLearntLimit    = 1.1       // By how much the max # of learned clauses is multiplied at each restart.
)

// Stats are statistics about the resolution of the problem.
// They are provided for information purpose only.
type Stats struct {
	NbRestarts      int
	NbVars          int
	NbConstrClauses int // Original clauses, including binary ones
	NbConstrLits    int
	NbLearntClauses int // Learned clauses, including binary ones
	NbLearntLits    int
	NbConflicts     int
	NbDecisions     int
	NbPropagations  int
	ConflictLimit   int // Conflict limit of the current or last restart
	LearntLimit     int // Learned clauses limit of the current or last restart
	Time            time.Duration
}

// A Solver is a CDCL SAT solver.
// It is incremental: variables and clauses can be added between two calls to Solve,
// and learned clauses are kept from one call to the next.
// A Solver is not safe for concurrent use.
type Solver struct {
	params       Params
	analyzer     analyzer
	log          *logrus.Logger
	sane         bool        // False once the problem was proven UNSAT.
	clauses      clauseArena // Storage for all non-binary clauses
	constrs      []ClauseRef // Original non-binary clauses
	learnts      []ClauseRef // Learned non-binary clauses
	nbConstrBin  int         // # of original binary clauses
	nbLearntBin  int         // # of learned binary clauses
	nbConstrLits int
	nbLearntLits int
	value        []Bool3    // Current value of each var
	level        []int      // Decision level of each assigned var
	reason       []Reason   // Why each var was assigned; NoReason for decisions and top-level facts
	watches      [][]Reason // For each lit, watchers to examine when the lit becomes true
	heap         varHeap
	trail        AssignList
	rootLevel    int       // Level of the last assumption; conflicts at that level mean UNSAT
	varInc       float64   // On each var bump, how big the increment should be
	clauseInc    float64   // On each clause bump, how big the increment should be
	tmpBin       ClauseRef // Placeholder clause used to report conflicts on binary clauses
	maxConflict  int
	confLimit    int
	learntLimit  int
	nbRestarts   int
	nbConflicts  int
	nbDecisions  int
	nbProps      int
	simpAssigns  int // Size of the trail at level 0 during the last simplification
	timerOn      bool
	elapsed      time.Duration
	handlers     []func(Stats)
	lastModel    []Bool3
	tmpLits      []Lit // Buffer for AddClause
}

// New returns an empty solver, configured with the given options.
func New(opts ...Option) *Solver {
	s := &Solver{
		params:      DefaultParams,
		sane:        true,
		varInc:      1.0,
		clauseInc:   1.0,
		maxConflict: defaultMaxConflict,
	}
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	s.log = logger
	s.analyzer = newAnalyzer(UIP1, s)
	for _, opt := range opts {
		opt(s)
	}
	s.tmpBin = s.clauses.alloc([]Lit{0, 0}, false)
	return s
}

// Sane returns false once the problem was proven unsatisfiable independently of any assumption.
// In that case, AddClause becomes a no-op and Solve always returns False.
func (s *Solver) Sane() bool {
	return s.sane
}

// NbVars returns the number of variables declared so far.
func (s *Solver) NbVars() int {
	return len(s.value)
}

// NbClauses returns the number of original clauses, including binary ones.
func (s *Solver) NbClauses() int {
	return len(s.constrs) + s.nbConstrBin
}

// NbLiterals returns the total number of literals in original clauses.
func (s *Solver) NbLiterals() int {
	return s.nbConstrLits
}

// NewVar declares a new variable and returns it.
// Variables are numbered from 0, in creation order.
func (s *Solver) NewVar() Var {
	if s.trail.Level() != 0 {
		panic("NewVar: decision level must be 0")
	}
	v := s.heap.addVar()
	s.value = append(s.value, Unknown)
	s.level = append(s.level, 0)
	s.reason = append(s.reason, NoReason)
	s.watches = append(s.watches, nil, nil)
	return v
}

// SetMaxConflict sets the max # of conflicts a restart can reach before Solve gives up.
// It returns the previous value.
func (s *Solver) SetMaxConflict(n int) int {
	old := s.maxConflict
	s.maxConflict = n
	return old
}

// RegisterMsgHandler registers a function that will be called with current statistics at each restart.
func (s *Solver) RegisterMsgHandler(h func(Stats)) {
	s.handlers = append(s.handlers, h)
}

// Stats returns statistics about the solver.
func (s *Solver) Stats() Stats {
	return Stats{
		NbRestarts:      s.nbRestarts,
		NbVars:          len(s.value),
		NbConstrClauses: s.NbClauses(),
		NbConstrLits:    s.nbConstrLits,
		NbLearntClauses: len(s.learnts) + s.nbLearntBin,
		NbLearntLits:    s.nbLearntLits,
		NbConflicts:     s.nbConflicts,
		NbDecisions:     s.nbDecisions,
		NbPropagations:  s.nbProps,
		ConflictLimit:   s.confLimit,
		LearntLimit:     s.learntLimit,
		Time:            s.elapsed,
	}
}

// checkLit panics if l is not a valid literal for the solver.
func (s *Solver) checkLit(l Lit) {
	if l < 0 || int(l.Var()) >= len(s.value) {
		panic(fmt.Sprintf("literal %v: out of range (%d vars)", l, len(s.value)))
	}
}

// litValue returns the current value of l.
func (s *Solver) litValue(l Lit) Bool3 {
	return l.Eval(s.value[l.Var()])
}

// assign makes l true at the current decision level.
func (s *Solver) assign(l Lit, r Reason) {
	v := l.Var()
	s.value[v] = FromBool(l.IsPositive())
	s.level[v] = s.trail.Level()
	s.reason[v] = r
	s.trail.Put(l)
}

// checkAndAssign makes l true if it is unassigned.
// It returns false iff l was already false.
func (s *Solver) checkAndAssign(l Lit) bool {
	switch s.litValue(l) {
	case True:
		return true
	case False:
		return false
	}
	s.assign(l, NoReason)
	return true
}

// AddClause adds a clause to the problem.
// Duplicate and false literals are removed; clauses that are already satisfied or tautological are ignored.
// Adding the empty clause makes the solver permanently unsatisfiable.
// It must be called at decision level 0, i.e outside of Solve.
func (s *Solver) AddClause(lits ...Lit) {
	if s.trail.Level() != 0 {
		panic("AddClause: decision level must be 0")
	}
	if !s.sane {
		return
	}
	tmp := append(s.tmpLits[:0], lits...)
	sortLits(tmp)
	j := 0
	for _, l := range tmp {
		s.checkLit(l)
		if j > 0 {
			if prev := tmp[j-1]; prev == l {
				continue
			} else if prev == l.Negation() {
				s.tmpLits = tmp
				return
			}
		}
		switch s.litValue(l) {
		case True:
			s.tmpLits = tmp
			return
		case False:
			continue
		}
		tmp[j] = l
		j++
	}
	s.tmpLits = tmp
	tmp = tmp[:j]
	s.nbConstrLits += len(tmp)
	switch len(tmp) {
	case 0:
		s.log.Debug("empty clause added, problem is unsatisfiable")
		s.sane = false
	case 1:
		if !s.checkAndAssign(tmp[0]) {
			s.sane = false
		}
	case 2:
		s.addWatcher(tmp[0].Negation(), BinaryReason(tmp[1]))
		s.addWatcher(tmp[1].Negation(), BinaryReason(tmp[0]))
		s.nbConstrBin++
	default:
		ref := s.clauses.alloc(tmp, false)
		s.constrs = append(s.constrs, ref)
		s.watchClause(ref)
	}
}

// addLearntClause registers the clause learned after a conflict and assigns its first literal.
// The solver must have backtracked so that lits[0] is the only unassigned literal.
func (s *Solver) addLearntClause(lits []Lit) {
	s.nbLearntLits += len(lits)
	switch len(lits) {
	case 0:
		s.sane = false
	case 1:
		if !s.checkAndAssign(lits[0]) {
			s.sane = false
		}
	case 2:
		s.addWatcher(lits[0].Negation(), BinaryReason(lits[1]))
		s.addWatcher(lits[1].Negation(), BinaryReason(lits[0]))
		s.nbLearntBin++
		s.assign(lits[0], BinaryReason(lits[1]))
	default:
		ref := s.clauses.alloc(lits, true)
		s.learnts = append(s.learnts, ref)
		s.watchClause(ref)
		s.clauseBumpActivity(s.clauses.get(ref))
		s.assign(lits[0], ClauseReason(ref))
	}
}

// Solve solves the problem under the given assumptions.
// It returns True and the value of every variable if a model was found,
// False if the problem is unsatisfiable under the assumptions,
// and Unknown if the conflict limit was reached first.
// The solver always goes back to decision level 0 before returning.
func (s *Solver) Solve(assumptions []Lit) (Bool3, []Bool3) {
	var start time.Time
	if s.timerOn {
		start = time.Now()
		defer func() { s.elapsed = time.Since(start) }()
	}
	s.lastModel = nil
	if !s.simplifyDB() {
		return False, nil
	}
	confLimit := float64(initConflictLimit)
	learntLimit := float64(len(s.constrs)) / 3
	for _, l := range assumptions {
		s.checkLit(l)
		s.trail.SetMarker()
		if !s.checkAndAssign(l) || !s.propagate().IsNone() {
			s.log.WithField("assumption", l).Debug("assumption contradicts the problem")
			s.backtrack(0)
			return False, nil
		}
	}
	s.rootLevel = s.trail.Level()
	res := Unknown
	for {
		s.confLimit = int(confLimit)
		if s.confLimit > s.maxConflict {
			s.confLimit = s.maxConflict
		}
		s.learntLimit = int(learntLimit)
		if len(s.handlers) > 0 || s.log.IsLevelEnabled(logrus.TraceLevel) {
			stats := s.Stats()
			s.log.Tracef("restart %# v", pretty.Formatter(stats))
			for _, h := range s.handlers {
				h(stats)
			}
		}
		s.nbRestarts++
		res = s.search()
		if res != Unknown || s.confLimit == s.maxConflict {
			break
		}
		confLimit *= incrConflictLimit
		learntLimit *= incrLearntLimit
	}
	var model []Bool3
	if res == True {
		model = make([]Bool3, len(s.value))
		copy(model, s.value)
		s.lastModel = model
	}
	s.backtrack(0)
	s.rootLevel = 0
	s.log.WithFields(logrus.Fields{
		"assumptions": len(assumptions),
		"result":      res,
		"conflicts":   s.nbConflicts,
	}).Debug("solve done")
	return res, model
}

// Value returns the binding of v in the last model found.
// It returns Unknown if the last call to Solve did not return True.
func (s *Solver) Value(v Var) Bool3 {
	if int(v) >= len(s.lastModel) {
		return Unknown
	}
	return s.lastModel[v]
}

// Model returns the last model found, or nil.
func (s *Solver) Model() []Bool3 {
	return s.lastModel
}

// search propagates, learns and decides until a model is found, the problem is proven
// unsatisfiable at the root level, or the conflict limit is reached.
func (s *Solver) search() Bool3 {
	nbConfl := 0
	for {
		if confl := s.propagate(); !confl.IsNone() {
			nbConfl++
			s.nbConflicts++
			if s.trail.Level() == s.rootLevel {
				if s.rootLevel == 0 {
					s.sane = false
				}
				return False
			}
			if nbConfl > s.confLimit {
				s.backtrack(s.rootLevel)
				return Unknown
			}
			learnt, btLevel := s.analyzer.analyze(confl)
			if btLevel < s.rootLevel {
				btLevel = s.rootLevel
			}
			s.backtrack(btLevel)
			s.addLearntClause(learnt)
			s.varDecayActivity()
			s.clauseDecayActivity()
		} else {
			if s.trail.Level() == 0 && !s.simplifyDB() {
				return False
			}
			if len(s.learnts) > s.learntLimit {
				s.reduceDB()
			}
			lit := s.nextDecision()
			if lit == LitUndef { // All vars are bound
				return True
			}
			s.nbDecisions++
			s.trail.SetMarker()
			s.assign(lit, NoReason)
		}
	}
}

// backtrack unassigns all vars bound at a level greater than level.
func (s *Solver) backtrack(level int) {
	s.trail.Backtrack(level, func(l Lit) {
		v := l.Var()
		s.value[v] = Unknown
		s.reason[v] = NoReason
		s.heap.push(v)
	})
}

// nextDecision returns the negation of the most active unbound var, or LitUndef
// if all the variables are already bound.
func (s *Solver) nextDecision() Lit {
	for !s.heap.empty() {
		if v := s.heap.popTop(); s.value[v] == Unknown {
			return v.SignedLit(true)
		}
	}
	return LitUndef
}

// simplifyDB propagates top-level facts and removes the clauses they satisfy.
// It returns false if the problem was proven unsatisfiable.
func (s *Solver) simplifyDB() bool {
	if !s.sane {
		return false
	}
	if s.trail.Level() != 0 {
		panic("simplifyDB: decision level must be 0")
	}
	if !s.propagate().IsNone() {
		s.sane = false
		return false
	}
	if s.trail.Size() == s.simpAssigns {
		return true
	}
	s.learnts = s.removeSatisfied(s.learnts)
	s.constrs = s.removeSatisfied(s.constrs)
	s.simpAssigns = s.trail.Size()
	return true
}

// removeSatisfied deletes the clauses of refs that are satisfied at level 0.
func (s *Solver) removeSatisfied(refs []ClauseRef) []ClauseRef {
	j := 0
	for _, ref := range refs {
		c := s.clauses.get(ref)
		if s.satisfied(c) {
			if v := c.First().Var(); s.reason[v].IsClause() && s.reason[v].Clause() == ref {
				s.reason[v] = NoReason
			}
			s.deleteClause(ref)
		} else {
			refs[j] = ref
			j++
		}
	}
	return refs[:j]
}

func (s *Solver) satisfied(c *Clause) bool {
	for _, l := range c.lits {
		if s.litValue(l) == True {
			return true
		}
	}
	return false
}

// isLocked returns true iff the clause is currently the reason of its first literal.
func (s *Solver) isLocked(ref ClauseRef) bool {
	v := s.clauses.get(ref).First().Var()
	r := s.reason[v]
	return s.value[v] != Unknown && r.IsClause() && r.Clause() == ref
}

// reduceDB removes about half of the learned clauses, the least active ones first.
// Binary and locked clauses are never removed.
func (s *Solver) reduceDB() {
	n := len(s.learnts)
	n2 := n / 2
	limit := s.clauseInc / float64(n)
	sortLearnts(s.learnts, &s.clauses)
	j := 0
	for i, ref := range s.learnts {
		c := s.clauses.get(ref)
		if c.Len() > 2 && !s.isLocked(ref) && (i < n2 || c.activity < limit) {
			s.deleteClause(ref)
		} else {
			s.learnts[j] = ref
			j++
		}
	}
	s.log.WithFields(logrus.Fields{"before": n, "after": j}).Trace("learned clauses reduced")
	s.learnts = s.learnts[:j]
}

// deleteClause unwatches the clause and frees it.
func (s *Solver) deleteClause(ref ClauseRef) {
	c := s.clauses.get(ref)
	s.unwatchClause(ref)
	if c.learnt {
		s.nbLearntLits -= c.Len()
	} else {
		s.nbConstrLits -= c.Len()
	}
	s.clauses.release(ref)
}

func (s *Solver) varDecayActivity() {
	s.varInc /= s.params.VarDecay
}

func (s *Solver) varBumpActivity(v Var) {
	if s.heap.bump(v, s.varInc) {
		s.varInc *= 1e-100
	}
}

// Decays each clause's activity
func (s *Solver) clauseDecayActivity() {
	s.clauseInc /= s.params.ClauseDecay
}

// Bumps the given clause's activity.
func (s *Solver) clauseBumpActivity(c *Clause) {
	if !c.learnt {
		return
	}
	c.activity += s.clauseInc
	if c.activity > 1e100 { // Rescale to avoid overflow
		for _, ref := range s.learnts {
			s.clauses.get(ref).activity *= 1e-100
		}
		s.clauseInc *= 1e-100
	}
}
