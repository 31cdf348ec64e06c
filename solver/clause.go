package solver

import (
	"fmt"
	"strings"
)

// A Clause is a list of Lit, associated with possible data (for learned clauses).
// The first two literals of a clause are its watched literals.
type Clause struct {
	lits     []Lit
	activity float64
	learnt   bool
}

// A ClauseRef is a stable reference to a clause stored in the solver's arena.
// It remains valid until the clause is removed from the database.
type ClauseRef uint32

// Len returns the nb of lits in the clause.
func (c *Clause) Len() int {
	return len(c.lits)
}

// First returns the first lit from the clause.
func (c *Clause) First() Lit {
	return c.lits[0]
}

// Second returns the second lit from the clause.
func (c *Clause) Second() Lit {
	return c.lits[1]
}

// Get returns the ith literal from the clause.
func (c *Clause) Get(i int) Lit {
	return c.lits[i]
}

// Learnt returns true iff c was a learned clause.
func (c *Clause) Learnt() bool {
	return c.learnt
}

// Activity returns the current activity of a learned clause.
func (c *Clause) Activity() float64 {
	return c.activity
}

// swap swaps the ith and jth lits from the clause.
func (c *Clause) swap(i, j int) {
	c.lits[i], c.lits[j] = c.lits[j], c.lits[i]
}

// CNF returns a DIMACS CNF representation of the clause.
func (c *Clause) CNF() string {
	var sb strings.Builder
	for _, lit := range c.lits {
		fmt.Fprintf(&sb, "%d ", lit.Int())
	}
	sb.WriteString("0")
	return sb.String()
}

func (c *Clause) String() string {
	strs := make([]string, len(c.lits))
	for i, l := range c.lits {
		strs[i] = l.String()
	}
	return "(" + strings.Join(strs, " + ") + ")"
}

// clauseArena stores every clause of a solver.
// Clauses are referenced by their index, so the underlying slice can grow
// without invalidating watchers or reasons.
type clauseArena struct {
	clauses []*Clause
	free    []ClauseRef // Slots of deleted clauses, available for reuse.
	pool    litPool
	nbLive  int
}

// alloc stores a new clause made of a copy of lits and returns its reference.
func (a *clauseArena) alloc(lits []Lit, learnt bool) ClauseRef {
	c := &Clause{lits: a.pool.newLits(lits...), learnt: learnt}
	a.nbLive++
	if n := len(a.free); n > 0 {
		ref := a.free[n-1]
		a.free = a.free[:n-1]
		a.clauses[ref] = c
		return ref
	}
	a.clauses = append(a.clauses, c)
	return ClauseRef(len(a.clauses) - 1)
}

// get returns the clause associated with ref.
func (a *clauseArena) get(ref ClauseRef) *Clause {
	c := a.clauses[ref]
	if c == nil {
		panic(fmt.Sprintf("invalid reference to deleted clause #%d", ref))
	}
	return c
}

// release removes the clause and makes its slot available.
func (a *clauseArena) release(ref ClauseRef) {
	a.get(ref).lits = nil
	a.clauses[ref] = nil
	a.free = append(a.free, ref)
	a.nbLive--
}

// len returns the number of live clauses in the arena.
func (a *clauseArena) len() int {
	return a.nbLive
}
