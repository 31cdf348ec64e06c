/*
Package fraig builds functionally reduced and-inverter graphs (FRAIGs).

An and-inverter graph describes boolean functions with two-input AND gates and inverters.
In a functionally reduced graph, two different nodes never compute the same function, nor
the negation of each other. Proving that two functions are equivalent thus amounts to
building both of them and comparing their handles.

	m, err := fraig.NewMgr(fraig.Config{})
	if err != nil {
		...
	}
	a, b := m.MakeInput(), m.MakeInput()
	x := m.MakeXor(a, b)
	y := m.MakeAnd(m.MakeOr(a, b), m.MakeAnd(a, b).Not())
	fmt.Println(x == y) // true

Each new node is first looked up in a structural hash table. Otherwise, its simulation pattern,
i.e its values under a set of input patterns, is compared to the ones of the existing nodes.
When the patterns of two nodes match, a SAT solver decides whether they are really equivalent.
If they are not, the counterexample found by the solver is added to the simulation patterns,
so that it will distinguish the two nodes from then on.

The SAT solver is used incrementally: the clauses it learns while answering a query make later
queries cheaper. It can be the solver of package solver (the default), gini, or the default
solver recording all its calls in a satlog file.
*/
package fraig
