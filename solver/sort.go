package solver

import "sort"

// litSorter sorts literals in increasing order, so that duplicates and
// complementary literals end up next to each other.
type litSorter []Lit

func (ls litSorter) Len() int           { return len(ls) }
func (ls litSorter) Less(i, j int) bool { return ls[i] < ls[j] }
func (ls litSorter) Swap(i, j int)      { ls[i], ls[j] = ls[j], ls[i] }

func sortLits(lits []Lit) {
	sort.Sort(litSorter(lits))
}

// learntSorter is a structure to facilitate the sorting of learned clauses before a reduction.
// Clauses that should be removed first come first: long clauses before binary ones,
// then by increasing activity.
type learntSorter struct {
	refs  []ClauseRef
	arena *clauseArena
}

func (ls *learntSorter) Len() int { return len(ls.refs) }
func (ls *learntSorter) Less(i, j int) bool {
	a := ls.arena.get(ls.refs[i])
	b := ls.arena.get(ls.refs[j])
	return a.Len() > 2 && (b.Len() == 2 || a.activity < b.activity)
}
func (ls *learntSorter) Swap(i, j int) { ls.refs[i], ls.refs[j] = ls.refs[j], ls.refs[i] }

func sortLearnts(refs []ClauseRef, arena *clauseArena) {
	sort.Sort(&learntSorter{refs: refs, arena: arena})
}
