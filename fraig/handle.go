package fraig

import (
	"fmt"

	"github.com/gocec/gocec/solver"
)

// A Handle references a function of a graph: a node, possibly inverted, or a constant.
// Handles are comparable values: two handles are equal iff they reference the same node
// with the same polarity.
// The zero value is the constant Zero.
type Handle struct {
	n   *node // nil for constants
	inv bool  // Is the node (or constant 0) inverted?
}

var (
	// Zero is the constant false function.
	Zero = Handle{}
	// One is the constant true function.
	One = Handle{inv: true}
)

// Not returns the negation of h.
func (h Handle) Not() Handle {
	return Handle{n: h.n, inv: !h.inv}
}

// Inv is true iff h references its node, or the constant 0, through an inverter.
func (h Handle) Inv() bool {
	return h.inv
}

// IsConst is true iff h is Zero or One.
func (h Handle) IsConst() bool {
	return h.n == nil
}

// IsZero is true iff h is the constant Zero.
func (h Handle) IsZero() bool {
	return h == Zero
}

// IsOne is true iff h is the constant One.
func (h Handle) IsOne() bool {
	return h == One
}

// IsInput is true iff h references a primary input.
func (h Handle) IsInput() bool {
	return h.n != nil && h.n.input
}

// IsAnd is true iff h references an AND node.
func (h Handle) IsAnd() bool {
	return h.n != nil && !h.n.input
}

// InputID returns the index of the input referenced by h, or -1 if h is not an input.
func (h Handle) InputID() int {
	if !h.IsInput() {
		return -1
	}
	return h.n.inputID
}

// VarID returns the SAT variable of the node referenced by h, or VarUndef for constants.
func (h Handle) VarID() solver.Var {
	if h.n == nil {
		return solver.VarUndef
	}
	return h.n.v
}

// Fanin returns the i-th fanin of the AND node referenced by h.
// The polarity of h is not applied to the result.
func (h Handle) Fanin(i int) Handle {
	if !h.IsAnd() {
		panic(fmt.Errorf("handle %v has no fanin", h))
	}
	return h.n.fanins[i]
}

// lit returns the SAT literal equivalent to h. h must not be a constant.
func (h Handle) lit() solver.Lit {
	return h.n.v.SignedLit(h.inv)
}

// varKey is a dense value identifying h, used for structural hashing.
func (h Handle) varKey() uint32 {
	if h.n == nil {
		if h.inv {
			return 1
		}
		return 0
	}
	return uint32(h.lit()) + 2
}

func (h Handle) String() string {
	switch {
	case h.IsZero():
		return "ZERO"
	case h.IsOne():
		return "ONE"
	}
	prefix := ""
	if h.inv {
		prefix = "~"
	}
	if h.n.input {
		return fmt.Sprintf("%sI%d", prefix, h.n.inputID)
	}
	return fmt.Sprintf("%sA%d", prefix, h.n.v)
}
