package solver

// Watcher lists.
// For each literal l, s.watches[l] holds the watchers that must be examined when l becomes true,
// i.e the clauses where the negation of l is watched.
// A binary clause (a | b) is not stored as a clause: it is represented by a binary watcher b
// in the list of -a and a binary watcher a in the list of -b.
// A longer clause is watched on its first two literals.

// addWatcher appends a watcher to the list of lit.
func (s *Solver) addWatcher(lit Lit, w Reason) {
	s.watches[lit] = append(s.watches[lit], w)
}

// watchClause watches the first two literals of the given clause.
func (s *Solver) watchClause(ref ClauseRef) {
	c := s.clauses.get(ref)
	w := ClauseReason(ref)
	s.addWatcher(c.First().Negation(), w)
	s.addWatcher(c.Second().Negation(), w)
}

// unwatchClause removes the watchers of the given clause.
func (s *Solver) unwatchClause(ref ClauseRef) {
	c := s.clauses.get(ref)
	w := ClauseReason(ref)
	for i := 0; i < 2; i++ {
		neg := c.Get(i).Negation()
		s.watches[neg] = removeWatcher(s.watches[neg], w)
	}
}

// Removes the first occurrence of w from lst, keeping the order of other watchers.
func removeWatcher(lst []Reason, w Reason) []Reason {
	for i := range lst {
		if lst[i] == w {
			copy(lst[i:], lst[i+1:])
			return lst[:len(lst)-1]
		}
	}
	return lst
}

// propagate runs unit propagation on all pending assignments.
// It returns the conflicting clause, or NoReason if no conflict arose.
// In case of conflict, the propagation queue is emptied.
func (s *Solver) propagate() Reason {
	for s.trail.HasElem() {
		l := s.trail.GetNext()
		s.nbProps++
		nl := l.Negation()
		wlist := s.watches[l]
		n := len(wlist)
		rpos, wpos := 0, 0
		var conflict Reason
		for rpos < n {
			w := wlist[rpos]
			wlist[wpos] = w
			rpos++
			wpos++
			if w.IsBinary() {
				l0 := w.Lit()
				switch s.litValue(l0) {
				case Unknown:
					s.assign(l0, BinaryReason(nl))
				case False:
					tmp := s.clauses.get(s.tmpBin)
					tmp.lits[0] = l0
					tmp.lits[1] = nl
					conflict = ClauseReason(s.tmpBin)
				}
				if !conflict.IsNone() {
					break
				}
				continue
			}
			c := s.clauses.get(w.Clause())
			if c.lits[0] == nl { // Make sure nl is the second literal
				c.swap(0, 1)
			}
			l0 := c.lits[0]
			val0 := s.litValue(l0)
			if val0 == True {
				continue
			}
			found := false
			for i := 2; i < len(c.lits); i++ {
				if l2 := c.lits[i]; s.litValue(l2) != False {
					c.lits[i] = nl
					c.lits[1] = l2
					wpos-- // Remove from the list of l...
					s.addWatcher(l2.Negation(), w) // ... and add it to the list of -l2
					found = true
					break
				}
			}
			if found {
				continue
			}
			if val0 == Unknown {
				s.assign(l0, w)
			} else {
				conflict = w
				break
			}
		}
		if wpos != rpos {
			for ; rpos < n; rpos++ {
				wlist[wpos] = wlist[rpos]
				wpos++
			}
			wlist = wlist[:wpos]
		}
		s.watches[l] = wlist
		if !conflict.IsNone() {
			s.trail.SkipAll()
			return conflict
		}
	}
	return NoReason
}
