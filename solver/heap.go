/******************************************************************************************[Heap.h]
Copyright (c) 2003-2006, Niklas Een, Niklas Sorensson
Copyright (c) 2007-2010, Niklas Sorensson

Permission is hereby granted, free of charge, to any person obtaining a copy of this software and
associated documentation files (the "Software"), to deal in the Software without restriction,
including without limitation the rights to use, copy, modify, merge, publish, distribute,
sublicense, and/or sell copies of the Software, and to permit persons to whom the Software is
furnished to do so, subject to the following conditions:

The above copyright notice and this permission notice shall be included in all copies or
substantial portions of the Software.

THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR IMPLIED, INCLUDING BUT
NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY, FITNESS FOR A PARTICULAR PURPOSE AND
NONINFRINGEMENT. IN NO EVENT SHALL THE AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM,
DAMAGES OR OTHER LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM, OUT
OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE SOFTWARE.
**************************************************************************************************/

package solver

// An activity heap with support for dynamic growth and key increase.
// This is strongly inspired from Minisat's mtl/Heap.h.
// The variable with the highest activity is always at the top.

type varHeap struct {
	activity []float64 // Activity of each variable.
	content  []Var     // Actual content.
	indices  []int     // Reverse heap, i.e position of each var in content; -1 means absence.
}

// Traversal functions.
func left(i int) int   { return i*2 + 1 }
func right(i int) int  { return (i + 1) * 2 }
func parent(i int) int { return (i - 1) >> 1 }

func (h *varHeap) lt(v, w Var) bool {
	return h.activity[v] > h.activity[w]
}

// addVar registers a new variable, with a null activity, and pushes it on the heap.
func (h *varHeap) addVar() Var {
	v := Var(len(h.activity))
	h.activity = append(h.activity, 0)
	h.indices = append(h.indices, -1)
	h.push(v)
	return v
}

func (h *varHeap) percolateUp(i int) {
	x := h.content[i]
	p := parent(i)
	for i != 0 && h.lt(x, h.content[p]) {
		h.content[i] = h.content[p]
		h.indices[h.content[p]] = i
		i = p
		p = parent(p)
	}
	h.content[i] = x
	h.indices[x] = i
}

func (h *varHeap) percolateDown(i int) {
	x := h.content[i]
	for left(i) < len(h.content) {
		var child int
		if right(i) < len(h.content) && h.lt(h.content[right(i)], h.content[left(i)]) {
			child = right(i)
		} else {
			child = left(i)
		}
		if !h.lt(h.content[child], x) {
			break
		}
		h.content[i] = h.content[child]
		h.indices[h.content[i]] = i
		i = child
	}
	h.content[i] = x
	h.indices[x] = i
}

func (h *varHeap) len() int    { return len(h.content) }
func (h *varHeap) empty() bool { return len(h.content) == 0 }

func (h *varHeap) contains(v Var) bool {
	return int(v) < len(h.indices) && h.indices[v] >= 0
}

// push inserts v in the heap, unless it is already there.
func (h *varHeap) push(v Var) {
	if h.contains(v) {
		return
	}
	h.indices[v] = len(h.content)
	h.content = append(h.content, v)
	h.percolateUp(h.indices[v])
}

// popTop removes and returns the var with the highest activity.
func (h *varHeap) popTop() Var {
	x := h.content[0]
	last := len(h.content) - 1
	h.content[0] = h.content[last]
	h.indices[h.content[0]] = 0
	h.indices[x] = -1
	h.content = h.content[:last]
	if len(h.content) > 1 {
		h.percolateDown(0)
	}
	return x
}

// bump increases the activity of v by inc and restores the heap property.
// It returns true iff activities had to be rescaled to avoid an overflow,
// in which case the caller must rescale its increment by the same factor.
func (h *varHeap) bump(v Var, inc float64) (rescaled bool) {
	h.activity[v] += inc
	if h.activity[v] > 1e100 {
		for i := range h.activity {
			h.activity[i] *= 1e-100
		}
		rescaled = true
	}
	if h.contains(v) {
		h.percolateUp(h.indices[v])
	}
	return rescaled
}

// check verifies the heap property and the consistency of the reverse index.
// It panics if the heap is corrupted.
func (h *varHeap) check() {
	for i, v := range h.content {
		if h.indices[v] != i {
			panic("heap: inconsistent reverse index")
		}
		if i > 0 && h.lt(v, h.content[parent(i)]) {
			panic("heap: heap property violated")
		}
	}
}
