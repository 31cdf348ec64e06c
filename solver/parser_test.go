package solver

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCNF(t *testing.T) {
	const cnf = `c a small problem
p cnf 3 3
1 -2 0
c a comment between clauses
2 3 0
-1
 -3 0
`
	pb, err := ParseCNF(strings.NewReader(cnf))
	require.NoError(t, err)
	assert.Equal(t, 3, pb.NbVars)
	want := [][]Lit{toLits([]int{1, -2}), toLits([]int{2, 3}), toLits([]int{-1, -3})}
	if diff := cmp.Diff(want, pb.Clauses); diff != "" {
		t.Errorf("unexpected clauses (-want +got):\n%s", diff)
	}
}

func TestParseCNFNoTrailingNewline(t *testing.T) {
	pb, err := ParseCNF(strings.NewReader("p cnf 2 1\n1 -2 0"))
	require.NoError(t, err)
	require.Len(t, pb.Clauses, 1)
	assert.Equal(t, toLits([]int{1, -2}), pb.Clauses[0])
}

func TestParseCNFErrors(t *testing.T) {
	for name, cnf := range map[string]string{
		"clause before header": "1 2 0\np cnf 2 1\n",
		"bad header":           "p dnf 2 1\n1 2 0\n",
		"var out of range":     "p cnf 2 1\n1 3 0\n",
		"unfinished clause":    "p cnf 2 1\n1 2",
		"not a number":         "p cnf 2 1\n1 x 0\n",
	} {
		_, err := ParseCNF(strings.NewReader(cnf))
		assert.Error(t, err, name)
	}
}

func TestParseAndSolve(t *testing.T) {
	const cnf = `p cnf 6 7
1 2 3 0
4 5 6 0
-1 -4 0
-2 -5 0
-3 -6 0
-1 -3 0
-4 -6 0
`
	pb, err := ParseCNF(strings.NewReader(cnf))
	require.NoError(t, err)
	s := New()
	require.NoError(t, pb.Load(s))
	status, model := s.Solve(nil)
	require.Equal(t, True, status)
	var sb strings.Builder
	require.NoError(t, OutputModel(&sb, status, model))
	assert.True(t, strings.HasPrefix(sb.String(), "s SATISFIABLE\nv "))
	assert.True(t, strings.HasSuffix(sb.String(), " 0\n"))

	sb.Reset()
	require.NoError(t, OutputModel(&sb, False, nil))
	assert.Equal(t, "s UNSATISFIABLE\n", sb.String())
}

func TestParseSlicePanicsOnZero(t *testing.T) {
	assert.Panics(t, func() { ParseSlice([][]int{{1, 0, 2}}) })
}
