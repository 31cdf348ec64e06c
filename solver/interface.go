package solver

// Interface is any type implementing an incremental SAT solver.
// The basic Solver defined in this package implements it.
// Other backends (e.g an external solver, or a recording wrapper) can implement it, too,
// so that higher-level tools do not depend on a particular engine.
type Interface interface {
	// NewVar declares a new variable. Variables are numbered from 0, in creation order.
	NewVar() Var
	// AddClause adds a clause to the problem. It must not be called during Solve.
	AddClause(lits ...Lit)
	// Solve solves the problem under the given assumptions.
	// If the result is True, the value of each variable is returned too.
	// Unknown is returned if the solver gave up.
	Solve(assumptions []Lit) (Bool3, []Bool3)
	// Sane returns false once the problem is known to be unsatisfiable without assumptions.
	Sane() bool
	// Stats returns statistics about the solving process.
	Stats() Stats
	// SetMaxConflict sets the conflict budget of a call to Solve and returns the previous value.
	SetMaxConflict(n int) int
}

var _ Interface = (*Solver)(nil)
