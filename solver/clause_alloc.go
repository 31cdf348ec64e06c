package solver

// This file deals with an efficient allocator for the literals of clauses.
// Lots of small clauses are created during search, so their literals are
// sliced from large preallocated chunks to relax the GC's work.

const (
	nbLitsAlloc = 1 << 16 // How many literals are allocated in each chunk.
)

type litPool struct {
	lits    []Lit // Current chunk, sliced to make []Lit
	ptrFree int   // Index of the first free item in lits
}

// newLits returns a slice of lits containing the given literals.
// It is taken from the current chunk if possible; a new chunk is allocated otherwise.
// Slices larger than a chunk get their own backing array.
func (p *litPool) newLits(lits ...Lit) []Lit {
	n := len(lits)
	if n > nbLitsAlloc/4 {
		res := make([]Lit, n)
		copy(res, lits)
		return res
	}
	if p.ptrFree+n > len(p.lits) {
		p.lits = make([]Lit, nbLitsAlloc)
		p.ptrFree = 0
	}
	res := p.lits[p.ptrFree : p.ptrFree+n : p.ptrFree+n]
	copy(res, lits)
	p.ptrFree += n
	return res
}
