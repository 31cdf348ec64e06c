package bf

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCNF(t *testing.T) {
	f := And(Or(Var("a"), Var("b")), Var("i"), Or(Var("g"), Var("h"), And(Var("c"), Or(Var("d"), Var("e")), Var("f"))))
	model := Solve(f)
	require.NotNil(t, model, "problem was declared UNSAT")
	assert.True(t, f.Eval(model), "invalid model %v", model)
}

// Conjunctions nested twice in disjunctions must be guarded properly.
func TestNestedCNF(t *testing.T) {
	f := And(
		Or(Var("a"), And(Var("b"), Or(Var("c"), And(Var("d"), Var("e"))))),
		Not(Var("a")),
		Not(Var("c")),
	)
	model := Solve(f)
	require.NotNil(t, model)
	assert.True(t, model["b"] && model["d"] && model["e"], "invalid model %v", model)
	f = And(f, Not(Var("e")))
	assert.Nil(t, Solve(f))
}

func TestConstants(t *testing.T) {
	assert.NotNil(t, Solve(True))
	assert.Nil(t, Solve(False))
	assert.Nil(t, Solve(And(Var("a"), Or(False, Not(True)))))
	assert.True(t, And().Eval(nil))
	assert.False(t, Or().Eval(nil))
	assert.NotNil(t, Solve(And()))
}

func TestXor(t *testing.T) {
	f := And(Xor(Var("a"), Var("b")), Var("a"))
	model := Solve(f)
	require.NotNil(t, model)
	assert.Equal(t, map[string]bool{"a": true, "b": false}, model)
	assert.Nil(t, Solve(And(Xor(Var("a"), Var("b")), Eq(Var("a"), Var("b")))))
	assert.Nil(t, Solve(Not(Or(Xor(Var("a"), Var("b")), Eq(Var("a"), Var("b"))))))
}

func TestString(t *testing.T) {
	f := And(Or(Var("a"), Not(Var("b"))), Not(Var("c")), Xor(Var("d"), True))
	const expected = "and(or(a, not(b)), not(c), xor(d, 1))"
	assert.Equal(t, expected, f.String())
}

func TestVars(t *testing.T) {
	f := Implies(And(Var("b"), Var("a")), Xor(Var("c"), Not(Var("a"))))
	assert.Equal(t, []string{"a", "b", "c"}, Vars(f))
}

func TestDimacs(t *testing.T) {
	var sb strings.Builder
	require.NoError(t, Dimacs(And(Var("a"), Or(Not(Var("a")), Var("b"))), &sb))
	assert.Equal(t, "p cnf 2 2\nc a=1\nc b=2\n1 0\n-1 2 0\n", sb.String())
}

func ExampleSolve() {
	f := Not(Implies(
		And(Var("a"), Var("b")), And(Or(Var("c"), Not(Var("d"))),
			Not(And(Var("c"), Eq(Var("e"), Not(Var("c"))))), Not(Xor(Var("a"), Var("b"))))))
	model := Solve(f)
	if model != nil {
		fmt.Printf("Problem is satisfiable")
	} else {
		fmt.Printf("Problem is unsatisfiable")
	}
	// Output: Problem is satisfiable
}
