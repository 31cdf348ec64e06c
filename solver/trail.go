package solver

// An AssignList records assignments in the order they were made.
// It also acts as the propagation queue: literals between the head and the end
// of the list still have to be propagated.
// A marker is recorded for each decision level, giving the position where that level began.
type AssignList struct {
	list    []Lit
	head    int   // Next literal to be propagated
	markers []int // For each decision level, the size of the list when it started
}

// Put appends a new assignment.
func (a *AssignList) Put(l Lit) {
	a.list = append(a.list, l)
}

// SetMarker opens a new decision level.
func (a *AssignList) SetMarker() {
	a.markers = append(a.markers, len(a.list))
}

// Level returns the current decision level.
func (a *AssignList) Level() int {
	return len(a.markers)
}

// Size returns the number of assignments.
func (a *AssignList) Size() int {
	return len(a.list)
}

// Get returns the ith assignment.
func (a *AssignList) Get(i int) Lit {
	return a.list[i]
}

// Marker returns the position in the list where the given level started.
func (a *AssignList) Marker(level int) int {
	return a.markers[level]
}

// HasElem returns true iff some assignments were not propagated yet.
func (a *AssignList) HasElem() bool {
	return a.head < len(a.list)
}

// GetNext returns the next assignment to be propagated and moves the head forward.
func (a *AssignList) GetNext() Lit {
	l := a.list[a.head]
	a.head++
	return l
}

// SkipAll empties the propagation queue.
func (a *AssignList) SkipAll() {
	a.head = len(a.list)
}

// Backtrack removes every assignment made at a level strictly greater than level.
// undo is called on each removed literal, in reverse assignment order.
// Backtracking to a level greater or equal to the current one does nothing.
func (a *AssignList) Backtrack(level int, undo func(Lit)) {
	if level >= len(a.markers) {
		return
	}
	pos := a.markers[level]
	for i := len(a.list) - 1; i >= pos; i-- {
		undo(a.list[i])
	}
	a.list = a.list[:pos]
	a.markers = a.markers[:level]
	if a.head > pos {
		a.head = pos
	}
}

// Lits returns the current content of the list. It must not be modified.
func (a *AssignList) Lits() []Lit {
	return a.list
}
