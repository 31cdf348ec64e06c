package fraig

import (
	"io"
	"math/rand"
	"time"

	"github.com/kr/pretty"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/gocec/gocec/bf"
	"github.com/gocec/gocec/solver"
)

// A Mgr builds a functionally reduced and-inverter graph: a graph of AND gates and inverters
// where no two nodes compute the same function, up to negation.
//
// Structurally identical nodes are merged through hashing. Candidate equivalences are found
// by random simulation and proven by an incremental SAT solver; each counterexample found by
// the solver becomes a new simulation pattern.
//
// A Mgr is not safe for concurrent use.
type Mgr struct {
	log       *logrus.Logger
	logLevel  int
	loopLimit int
	rng       *rand.Rand
	sat       solver.Interface
	model     []solver.Bool3 // Last model found by the solver
	nodes     []*node        // All nodes, indexed by their SAT var
	inputs    []*node
	strash    *table // Structural hash table
	patHash   *table // Pattern hash table
	patSize   int    // Capacity of the patterns, in words
	patUsed   int    // Width of the patterns, in words
	simCount  int
	simTime   time.Duration
	constStat SatStat
	equivStat SatStat
}

// NewMgr returns an empty manager.
func NewMgr(cfg Config) (*Mgr, error) {
	cfg = cfg.withDefaults()
	log := cfg.Logger
	if log == nil {
		log = logrus.New()
		log.SetOutput(io.Discard)
	}
	sat, err := newSatSolver(cfg, log)
	if err != nil {
		return nil, err
	}
	m := &Mgr{
		log:       log,
		logLevel:  cfg.LogLevel,
		loopLimit: cfg.LoopLimit,
		rng:       rand.New(rand.NewSource(cfg.Seed)),
		sat:       sat,
		patSize:   cfg.PatternWidth * 2,
		patUsed:   cfg.PatternWidth,
	}
	m.strash = newTable(
		func(n *node) uint32 { return structKey(n.fanins[0], n.fanins[1]) },
		func(n *node) **node { return &n.strash },
	)
	m.patHash = newTable(
		func(n *node) uint32 { return n.hash },
		func(n *node) **node { return &n.patNext },
	)
	return m, nil
}

// SetLogLevel sets the verbosity of the manager: 0 for nothing, 1 for SAT check results, 2 for traces.
func (m *Mgr) SetLogLevel(level int) {
	m.logLevel = level
}

// SetLoopLimit sets the max # of simulation refinements performed while creating a single node.
func (m *Mgr) SetLoopLimit(limit int) {
	if limit <= 0 {
		panic(errors.Errorf("invalid loop limit %d", limit))
	}
	m.loopLimit = limit
}

// NodeNum returns the # of nodes, inputs included, that were created so far.
func (m *Mgr) NodeNum() int { return len(m.nodes) }

// InputNum returns the # of inputs.
func (m *Mgr) InputNum() int { return len(m.inputs) }

// PatternWidth returns the current width of the simulation patterns, in 32-bit words.
func (m *Mgr) PatternWidth() int { return m.patUsed }

// Input returns the handle of the input #id.
func (m *Mgr) Input(id int) Handle {
	return Handle{n: m.inputs[id]}
}

// Sane is false if the SAT solver became inconsistent.
// In that case, the answers of CheckEquiv are meaningless.
func (m *Mgr) Sane() bool { return m.sat.Sane() }

// Close flushes the SAT log, if any, and returns the first error that occurred while writing it.
func (m *Mgr) Close() error {
	if rec, ok := m.sat.(*solver.Recorder); ok {
		rec.Flush()
		return rec.Err()
	}
	return nil
}

// MakeZero returns the constant 0.
func (m *Mgr) MakeZero() Handle { return Zero }

// MakeOne returns the constant 1.
func (m *Mgr) MakeOne() Handle { return One }

func (m *Mgr) newNode() *node {
	n := &node{
		v:   m.sat.NewVar(),
		pat: make([]uint32, m.patSize),
	}
	if int(n.v) != len(m.nodes) {
		panic(errors.Errorf("SAT variable %d created for node #%d", n.v, len(m.nodes)))
	}
	n.rep = n
	m.nodes = append(m.nodes, n)
	return n
}

// MakeInput creates a new primary input, with a random simulation pattern.
func (m *Mgr) MakeInput() Handle {
	n := m.newNode()
	n.input = true
	n.inputID = len(m.inputs)
	m.inputs = append(m.inputs, n)
	words := make([]uint32, m.patUsed)
	for i := range words {
		words[i] = m.rng.Uint32()
	}
	n.setPat(0, words...)
	m.patHash.add(n)
	return Handle{n: n}
}

// MakeAnd returns the conjunction of h1 and h2.
// If a node computing the same function, or its negation, already exists, its handle is returned.
func (m *Mgr) MakeAnd(h1, h2 Handle) Handle {
	switch {
	case h1.IsZero() || h2.IsZero():
		return Zero
	case h1.IsOne():
		return h2
	case h2.IsOne():
		return h1
	case h1 == h2:
		return h1
	case h1.n == h2.n:
		return Zero
	}
	if h1.n.v < h2.n.v {
		h1, h2 = h2, h1
	}
	key := structKey(h1, h2)
	for n1 := m.strash.first(key); n1 != nil; n1 = m.strash.next(n1) {
		if n1.fanins[0] == h1 && n1.fanins[1] == h2 {
			return n1.repHandle()
		}
	}
	n := m.newNode()
	n.fanins = [2]Handle{h1, h2}
	n.calcPat(0, m.patUsed)
	m.strash.add(n)
	lito, lit1, lit2 := n.v.Lit(), h1.lit(), h2.lit()
	m.sat.AddClause(lit1.Negation(), lit2.Negation(), lito)
	m.sat.AddClause(lit1, lito.Negation())
	m.sat.AddClause(lit2, lito.Negation())
	if m.logLevel >= 2 {
		m.log.WithFields(logrus.Fields{
			"node":   Handle{n: n},
			"fanin0": h1,
			"fanin1": h2,
		}).Debugf("new AND node, pattern %s", pretty.Sprint(n.pat[:m.patUsed]))
	}
	if res, merged := m.reduce(n); merged {
		return res
	}
	m.patHash.add(n)
	return Handle{n: n}
}

// reduce looks for a constant or a node equivalent to the newly created n.
// Each disproved candidate adds a new pattern and the search goes on, until no candidate
// remains or the loop limit is reached.
func (m *Mgr) reduce(n *node) (Handle, bool) {
	for loop := 0; loop < m.loopLimit; loop++ {
		switch {
		case !n.has1:
			switch m.checkConst(n, false) {
			case solver.True:
				n.setRep(nil, false)
				return Zero, true
			case solver.False:
				m.addPat(n)
				continue
			}
			return Handle{}, false
		case !n.has0:
			switch m.checkConst(n, true) {
			case solver.True:
				n.setRep(nil, true)
				return One, true
			case solver.False:
				m.addPat(n)
				continue
			}
			return Handle{}, false
		}
		refuted := false
		for n1 := m.patHash.first(n.hash); n1 != nil && !refuted; n1 = m.patHash.next(n1) {
			inv := n1.hashInv != n.hashInv
			if n1.hash != n.hash || !comparePat(n1, n, inv, m.patUsed) {
				continue
			}
			switch m.checkEquiv(n1, n, inv) {
			case solver.True:
				n.setRep(n1, inv)
				return Handle{n: n1, inv: inv}, true
			case solver.False:
				refuted = true
			}
		}
		if !refuted {
			return Handle{}, false
		}
		m.addPat(n)
	}
	m.log.WithFields(logrus.Fields{
		"node":  Handle{n: n},
		"limit": m.loopLimit,
	}).Warn("loop limit reached, node considered distinct")
	return Handle{}, false
}

// addPat adds the last model found by the SAT solver as a new column of the patterns.
// Inputs take the value of the model in the first bit, and random variations of it in the others.
// The pattern hash table is then rebuilt, without cur.
func (m *Mgr) addPat(cur *node) {
	start := time.Now()
	if m.patSize <= m.patUsed {
		m.resizePat(m.patSize * 2)
	}
	m.patHash.clear()
	for _, n := range m.nodes {
		if n.input {
			var word uint32
			if m.model[n.v] == solver.True {
				word = ^uint32(0)
			}
			for b := 1; b < 32; b++ {
				if m.rng.Intn(100) <= 3 {
					word ^= 1 << b
				}
			}
			n.setPat(m.patUsed, word)
		} else {
			n.calcPat(m.patUsed, m.patUsed+1)
		}
		if n != cur && (n.input || n.distinct()) {
			m.patHash.add(n)
		}
	}
	m.patUsed++
	m.simCount++
	m.simTime += time.Since(start)
}

func (m *Mgr) resizePat(size int) {
	for _, n := range m.nodes {
		pat := make([]uint32, size)
		copy(pat, n.pat[:m.patUsed])
		n.pat = pat
	}
	m.patSize = size
}

// MakeOr returns the disjunction of h1 and h2.
func (m *Mgr) MakeOr(h1, h2 Handle) Handle {
	return m.MakeAnd(h1.Not(), h2.Not()).Not()
}

// MakeXor returns the exclusive or of h1 and h2.
func (m *Mgr) MakeXor(h1, h2 Handle) Handle {
	return m.MakeOr(m.MakeAnd(h1, h2.Not()), m.MakeAnd(h1.Not(), h2))
}

// CheckEquiv checks whether h1 and h2 compute the same function.
// It returns Unknown if the SAT solver gave up.
func (m *Mgr) CheckEquiv(h1, h2 Handle) solver.Bool3 {
	switch {
	case h1 == h2:
		return solver.True
	case h1.n == h2.n:
		return solver.False
	case h1.IsConst():
		return m.checkConst(h2.n, h1.IsZero() == h2.inv)
	case h2.IsConst():
		return m.checkConst(h1.n, h2.IsZero() == h1.inv)
	}
	return m.checkEquiv(h1.n, h2.n, h1.inv != h2.inv)
}

// Class returns the nodes that were proven equivalent to the node referenced by h,
// including itself, with their polarity relative to it.
func (m *Mgr) Class(h Handle) []Handle {
	if h.IsConst() || !h.n.distinct() {
		return nil
	}
	res := []Handle{{n: h.n}}
	for n := h.n.eqNext; n != nil; n = n.eqNext {
		res = append(res, Handle{n: n, inv: n.repInv})
	}
	return res
}

// builder builds formulas as nodes of a manager.
type builder struct {
	m      *Mgr
	inputs map[string]Handle
}

func (b builder) Const(val bool) Handle {
	if val {
		return One
	}
	return Zero
}

func (b builder) Var(name string) (Handle, error) {
	h, ok := b.inputs[name]
	if !ok {
		return Zero, errors.Errorf("no handle for variable %q", name)
	}
	return h, nil
}

func (b builder) Not(h Handle) Handle      { return h.Not() }
func (b builder) And(h1, h2 Handle) Handle { return b.m.MakeAnd(h1, h2) }
func (b builder) Or(h1, h2 Handle) Handle  { return b.m.MakeOr(h1, h2) }
func (b builder) Xor(h1, h2 Handle) Handle { return b.m.MakeXor(h1, h2) }

// MakeLogic builds the function described by f, where each variable is replaced by its handle in inputs.
func (m *Mgr) MakeLogic(f bf.Formula, inputs map[string]Handle) (Handle, error) {
	return bf.Build[Handle](f, builder{m: m, inputs: inputs})
}

// MakeCofactor returns the cofactor of h where the input #inputID is replaced by pol.
func (m *Mgr) MakeCofactor(h Handle, inputID int, pol bool) Handle {
	if h.IsConst() {
		return h
	}
	done := make(map[*node]Handle)
	get := func(h Handle) Handle {
		if h.IsConst() {
			return h
		}
		res := done[h.n]
		if h.inv {
			res = res.Not()
		}
		return res
	}
	stack := []*node{h.n}
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		if _, ok := done[n]; ok {
			stack = stack[:len(stack)-1]
			continue
		}
		if n.input {
			switch {
			case n.inputID != inputID:
				done[n] = Handle{n: n}
			case pol:
				done[n] = One
			default:
				done[n] = Zero
			}
			stack = stack[:len(stack)-1]
			continue
		}
		pending := false
		for _, fanin := range n.fanins {
			if _, ok := done[fanin.n]; !ok && !fanin.IsConst() {
				stack = append(stack, fanin.n)
				pending = true
			}
		}
		if pending {
			continue
		}
		stack = stack[:len(stack)-1]
		done[n] = m.MakeAnd(get(n.fanins[0]), get(n.fanins[1]))
	}
	return get(h)
}
