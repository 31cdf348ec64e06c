package fraig

const (
	initTableSize = 1024 // Initial # of buckets of a table
	maxLoadFactor = 1.8  // A table is expanded when it holds that many elements per bucket
)

// A table is a hash table of nodes, chained through a link field of the nodes themselves.
// A node can thus belong to at most one bucket of a given table.
type table struct {
	buckets []*node
	num     int                 // # of nodes in the table
	key     func(n *node) uint32 // Hash value of a node
	link    func(n *node) **node // Link field used by the table
}

func newTable(key func(n *node) uint32, link func(n *node) **node) *table {
	return &table{
		buckets: make([]*node, initTableSize),
		key:     key,
		link:    link,
	}
}

// first returns the first node of the bucket associated with hash value k.
func (t *table) first(k uint32) *node {
	return t.buckets[k%uint32(len(t.buckets))]
}

// next returns the node following n in its bucket.
func (t *table) next(n *node) *node {
	return *t.link(n)
}

// add inserts n at the head of its bucket, expanding the table first if needed.
func (t *table) add(n *node) {
	if float64(t.num) >= float64(len(t.buckets))*maxLoadFactor {
		t.resize(len(t.buckets) * 2)
	}
	t.push(n)
	t.num++
}

func (t *table) push(n *node) {
	pos := t.key(n) % uint32(len(t.buckets))
	*t.link(n) = t.buckets[pos]
	t.buckets[pos] = n
}

// resize reallocates the buckets and dispatches all nodes again.
func (t *table) resize(size int) {
	old := t.buckets
	t.buckets = make([]*node, size)
	for _, n := range old {
		for n != nil {
			next := *t.link(n)
			t.push(n)
			n = next
		}
	}
}

// clear removes all nodes from the table, keeping its size.
func (t *table) clear() {
	for i := range t.buckets {
		t.buckets[i] = nil
	}
	t.num = 0
}

// structKey is the structural hash of an AND node with the given fanins.
func structKey(h0, h1 Handle) uint32 {
	return h0.varKey()*2654435761 ^ h1.varKey()
}
