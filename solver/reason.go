package solver

import "fmt"

type reasonKind uint8

const (
	reasonNone reasonKind = iota
	reasonBinary
	reasonClause
)

// A Reason explains why a literal was assigned.
// It is either empty (decisions, assumptions and unit clauses), a single literal
// (the assignment follows from a binary clause) or a reference to a longer clause.
// Watcher lists store Reasons too: a binary watcher holds the other literal
// of the clause, a long watcher holds the clause itself.
type Reason struct {
	kind reasonKind
	lit  Lit
	ref  ClauseRef
}

// NoReason is the reason of decisions and top-level facts.
var NoReason = Reason{}

// BinaryReason returns a reason made of the single literal l.
func BinaryReason(l Lit) Reason {
	return Reason{kind: reasonBinary, lit: l}
}

// ClauseReason returns a reason referencing the given clause.
func ClauseReason(ref ClauseRef) Reason {
	return Reason{kind: reasonClause, ref: ref}
}

// IsNone returns true iff r is the empty reason.
func (r Reason) IsNone() bool { return r.kind == reasonNone }

// IsBinary returns true iff r is a single literal.
func (r Reason) IsBinary() bool { return r.kind == reasonBinary }

// IsClause returns true iff r references a clause.
func (r Reason) IsClause() bool { return r.kind == reasonClause }

// Lit returns the literal of a binary reason.
func (r Reason) Lit() Lit {
	if r.kind != reasonBinary {
		panic("Lit called on a non-binary reason")
	}
	return r.lit
}

// Clause returns the clause reference of a clause reason.
func (r Reason) Clause() ClauseRef {
	if r.kind != reasonClause {
		panic("Clause called on a non-clause reason")
	}
	return r.ref
}

func (r Reason) String() string {
	switch r.kind {
	case reasonBinary:
		return r.lit.String()
	case reasonClause:
		return fmt.Sprintf("#%d", r.ref)
	default:
		return "NULL"
	}
}
