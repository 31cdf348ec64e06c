// Package bf describes generic boolean formulas over named variables.
//
// Formulas are built with the connectors of the package (Var, Not, And, Or,
// Xor, Implies, Eq and the True/False constants), or parsed from text:
//
//	a & ^(b -> c) & (c = d | ^a)
//
// where ^, ~ and ! are negations, & is a conjunction, | a disjunction, xor an
// exclusive or, -> an implication and = an equivalence, from the highest to
// the lowest precedence.
//
// A formula can be checked directly: Solve converts it to CNF, introducing
// new variables for nested conjunctions, and gives it to the solver package.
// The returned model only binds the variables of the formula:
//
//	map[a:true b:true c:false d:false]
//
// Dimacs writes the same CNF in DIMACS format.
//
// Formulas are also the way outputs of a network are described in an
// equivalence check. Build walks a formula bottom-up through a Builder,
// so that it can be turned into another structure, such as an and-inverter
// graph node.
package bf
