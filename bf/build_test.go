package bf

import (
	"math/rand"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// evalBuilder builds the value of a formula under a given model.
type evalBuilder map[string]bool

func (b evalBuilder) Const(val bool) bool { return val }
func (b evalBuilder) Not(x bool) bool     { return !x }
func (b evalBuilder) And(x, y bool) bool  { return x && y }
func (b evalBuilder) Or(x, y bool) bool   { return x || y }
func (b evalBuilder) Xor(x, y bool) bool  { return x != y }

func (b evalBuilder) Var(name string) (bool, error) {
	val, ok := b[name]
	if !ok {
		return false, errors.Errorf("unknown variable %q", name)
	}
	return val, nil
}

func randomFormula(rng *rand.Rand, depth int) Formula {
	names := []string{"a", "b", "c", "d"}
	if depth == 0 {
		switch rng.Intn(10) {
		case 0:
			return True
		case 1:
			return False
		default:
			return Var(names[rng.Intn(len(names))])
		}
	}
	sub := func() Formula { return randomFormula(rng, depth-1) }
	switch rng.Intn(7) {
	case 0:
		return Not(sub())
	case 1:
		return And(sub(), sub(), sub())
	case 2:
		return Or(sub(), sub())
	case 3:
		return Xor(sub(), sub())
	case 4:
		return Implies(sub(), sub())
	case 5:
		return Eq(sub(), sub())
	default:
		return Not(sub()).nnf()
	}
}

func TestBuildMatchesEval(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	for i := 0; i < 300; i++ {
		f := randomFormula(rng, 1+rng.Intn(4))
		model := evalBuilder{"a": rng.Intn(2) == 0, "b": rng.Intn(2) == 0, "c": rng.Intn(2) == 0, "d": rng.Intn(2) == 0}
		got, err := Build[bool](f, model)
		require.NoError(t, err)
		assert.Equal(t, f.Eval(model), got, "formula %v under %v", f, model)
		assert.Equal(t, f.Eval(model), f.nnf().Eval(model), "nnf of %v", f)
	}
}

func TestBuildEmpty(t *testing.T) {
	val, err := Build[bool](And(), evalBuilder{})
	require.NoError(t, err)
	assert.True(t, val)
	val, err = Build[bool](Or(), evalBuilder{})
	require.NoError(t, err)
	assert.False(t, val)
}

func TestBuildUnknownVar(t *testing.T) {
	_, err := Build[bool](And(Var("a"), Not(Var("z"))), evalBuilder{"a": true})
	assert.ErrorContains(t, err, `"z"`)
}
