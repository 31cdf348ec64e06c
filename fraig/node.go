package fraig

import "github.com/gocec/gocec/solver"

// Multipliers of the pattern hash function, one per word (modulo their number).
var hashPrimes = [...]uint32{2654435761, 2246822519, 3266489917, 668265263, 374761393}

// A node is either a primary input or an AND gate.
// Its simulation pattern holds 32 bits per word; all nodes of a manager share the same width.
type node struct {
	v       solver.Var // SAT variable; also the creation order of the node
	input   bool
	inputID int       // Index of the input, meaningful iff input
	fanins  [2]Handle // Fanins of an AND node, the one with the highest var first
	pat     []uint32  // Simulation pattern
	hash    uint32    // Hash of the normalized pattern
	hashInv bool      // Was the pattern inverted before hashing?
	has0    bool      // Has the node been 0 in some pattern?
	has1    bool      // Has the node been 1 in some pattern?
	rep     *node     // Representative; the node itself if distinct, nil if constant
	repInv  bool      // Polarity of the node relative to its representative
	eqNext  *node     // Next member of the equivalence class of rep
	eqTail  *node     // Last member of the class; only meaningful on representatives
	strash  *node     // Next node in the structural hash bucket
	patNext *node     // Next node in the pattern hash bucket
}

// repHandle is the handle of the function the node was proven equivalent to.
func (n *node) repHandle() Handle {
	return Handle{n: n.rep, inv: n.repInv}
}

// setRep records that n is equivalent to rep, inverted if inv.
// rep is nil when n is constant.
func (n *node) setRep(rep *node, inv bool) {
	n.rep = rep
	n.repInv = inv
	if rep == nil {
		return
	}
	tail := rep.eqTail
	if tail == nil {
		tail = rep
	}
	tail.eqNext = n
	rep.eqTail = n
}

// distinct is true iff n was not merged with another function.
func (n *node) distinct() bool {
	return n.rep == n
}

// setPat stores words from position start on, and updates the hash of the pattern.
func (n *node) setPat(start int, words ...uint32) {
	copy(n.pat[start:], words)
	n.calcHash(start, start+len(words))
}

// calcPat computes the pattern of an AND node between start and end from its fanins.
func (n *node) calcPat(start, end int) {
	dst := n.pat[start:end]
	src0 := n.fanins[0].n.pat[start:end]
	src1 := n.fanins[1].n.pat[start:end]
	switch inv0, inv1 := n.fanins[0].inv, n.fanins[1].inv; {
	case inv0 && inv1:
		for i := range dst {
			dst[i] = ^(src0[i] | src1[i])
		}
	case inv0:
		for i := range dst {
			dst[i] = ^src0[i] & src1[i]
		}
	case inv1:
		for i := range dst {
			dst[i] = src0[i] &^ src1[i]
		}
	default:
		for i := range dst {
			dst[i] = src0[i] & src1[i]
		}
	}
	n.calcHash(start, end)
}

// calcHash adds words between start and end to the pattern hash and updates the 0/1 marks.
// The polarity of the hash is fixed by the first bit of the pattern, so that a function
// and its negation get the same hash.
func (n *node) calcHash(start, end int) {
	if start == 0 {
		n.hash = 0
		n.has0, n.has1 = false, false
		n.hashInv = n.pat[0]&1 == 1
	}
	for i := start; i < end; i++ {
		w := n.pat[i]
		if w != 0 {
			n.has1 = true
		}
		if w != ^uint32(0) {
			n.has0 = true
		}
		if n.hashInv {
			w = ^w
		}
		n.hash ^= w * hashPrimes[i%len(hashPrimes)]
	}
}

// comparePat is true iff the first nbWords words of the patterns of n1 and n2 are equal,
// or complementary if inv.
func comparePat(n1, n2 *node, inv bool, nbWords int) bool {
	var mask uint32
	if inv {
		mask = ^uint32(0)
	}
	p1, p2 := n1.pat[:nbWords], n2.pat[:nbWords]
	for i := range p1 {
		if p1[i] != p2[i]^mask {
			return false
		}
	}
	return true
}
