package solver

import "fmt"

// Describes basic types and constants that are used in the solver

// Bool3 is a three-valued boolean: True, False or Unknown (X).
// It is used both for variable assignments and for results of the solver.
type Bool3 int8

const (
	// False means the variable is false, or the problem was proven unsatisfiable.
	False = Bool3(-1)
	// Unknown means the variable is unassigned, or the solver gave up.
	Unknown = Bool3(0)
	// True means the variable is true, or the problem was proven satisfiable.
	True = Bool3(1)
)

// X is a shorthand for Unknown.
const X = Unknown

// FromBool converts a boolean to its Bool3 counterpart.
func FromBool(b bool) Bool3 {
	if b {
		return True
	}
	return False
}

// Negate returns the negation of b. The negation of Unknown is Unknown.
func (b Bool3) Negate() Bool3 {
	return -b
}

func (b Bool3) String() string {
	switch b {
	case True:
		return "SAT"
	case False:
		return "UNSAT"
	case Unknown:
		return "UNKNOWN"
	default:
		panic("invalid Bool3 value")
	}
}

// Var start at 0 ; thus the CNF variable 1 is encoded as the Var 0.
type Var int32

// VarUndef is returned when no variable is available.
const VarUndef = Var(-1)

// Lit start at 0 and are positive ; the sign is the last bit.
// Thus the CNF literal -3 is encoded as 2 * (3-1) + 1 = 5.
type Lit int32

// LitUndef is the null literal, returned when no literal is available.
const LitUndef = Lit(-1)

// IntToLit converts a CNF literal to a Lit.
func IntToLit(i int32) Lit {
	if i < 0 {
		return Lit(2*(-i-1) + 1)
	}
	return Lit(2 * (i - 1))
}

// IntToVar converts a CNF variable to a Var.
func IntToVar(i int32) Var {
	return Var(i - 1)
}

// Lit returns the positive Lit associated to v.
func (v Var) Lit() Lit {
	return Lit(v * 2)
}

// SignedLit returns the Lit associated to v, negated if 'signed', positive else.
func (v Var) SignedLit(signed bool) Lit {
	if signed {
		return Lit(v*2) + 1
	}
	return Lit(v * 2)
}

// Int returns the equivalent CNF variable.
func (v Var) Int() int32 {
	return int32(v + 1)
}

// Var returns the variable of l.
func (l Lit) Var() Var {
	return Var(l / 2)
}

// Int returns the equivalent CNF literal.
func (l Lit) Int() int32 {
	sign := l&1 == 1
	res := int32(l/2 + 1)
	if sign {
		return -res
	}
	return res
}

// IsPositive is true iff l is > 0
func (l Lit) IsPositive() bool {
	return l%2 == 0
}

// Negation returns -l, i.e the positive version of l if it is negative,
// or the negative version otherwise.
func (l Lit) Negation() Lit {
	return l ^ 1
}

func (l Lit) String() string {
	if l == LitUndef {
		return "X"
	}
	return fmt.Sprintf("%d", l.Int())
}

// Eval returns the value of l given the value of its variable.
func (l Lit) Eval(val Bool3) Bool3 {
	if l.IsPositive() {
		return val
	}
	return val.Negate()
}
