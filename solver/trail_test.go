package solver

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
)

func TestAssignListBacktrack(t *testing.T) {
	var a AssignList
	a.Put(IntToLit(1))
	a.SetMarker()
	a.Put(IntToLit(2))
	a.Put(IntToLit(-3))
	a.SetMarker()
	a.Put(IntToLit(4))
	assert.Equal(t, 2, a.Level())
	assert.Equal(t, 4, a.Size())
	assert.Equal(t, 1, a.Marker(0))
	for a.HasElem() {
		a.GetNext()
	}

	var undone []Lit
	a.Backtrack(1, func(l Lit) { undone = append(undone, l) })
	if diff := cmp.Diff([]Lit{IntToLit(4)}, undone); diff != "" {
		t.Errorf("unexpected undone lits (-want +got):\n%s", diff)
	}
	assert.Equal(t, 1, a.Level())
	assert.Equal(t, 3, a.Size())
	assert.False(t, a.HasElem(), "head must be moved back to the end of the list")

	undone = undone[:0]
	a.Backtrack(0, func(l Lit) { undone = append(undone, l) })
	if diff := cmp.Diff([]Lit{IntToLit(-3), IntToLit(2)}, undone); diff != "" {
		t.Errorf("lits must be undone in reverse order (-want +got):\n%s", diff)
	}
	assert.Equal(t, 0, a.Level())
	assert.Equal(t, []Lit{IntToLit(1)}, a.Lits())

	a.Backtrack(0, func(Lit) { t.Error("nothing should be undone") })
}

func TestAssignListQueue(t *testing.T) {
	var a AssignList
	a.Put(IntToLit(1))
	a.Put(IntToLit(2))
	assert.Equal(t, IntToLit(1), a.GetNext())
	a.Put(IntToLit(3))
	a.SkipAll()
	assert.False(t, a.HasElem())
	a.Put(IntToLit(4))
	assert.True(t, a.HasElem())
	assert.Equal(t, IntToLit(4), a.GetNext())
}
