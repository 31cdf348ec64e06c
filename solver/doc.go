/*
Package solver gives access to an incremental CDCL SAT solver.
Its input can be either a DIMACS CNF file, a solver.Problem object,
or clauses added one by one through the AddClause method.

Describing a problem

A problem can be described in several ways:

1. parse a DIMACS stream (io.Reader). If the io.Reader produces the following content:

    p cnf 6 7
    1 2 3 0
    4 5 6 0
    -1 -4 0
    -2 -5 0
    -3 -6 0
    -1 -3 0
    -4 -6 0

the programmer can create the Problem by doing:

    pb, err := solver.ParseCNF(f)

2. create the equivalent list of list of literals. The problem above can be created programatically this way:

    clauses := [][]int{
        []int{1, 2, 3},
        []int{4, 5, 6},
        []int{-1, -4},
        []int{-2, -5},
        []int{-3, -6},
        []int{-1, -3},
        []int{-4, -6},
    }
    pb := solver.ParseSlice(clauses)

A Problem is then loaded in a solver:

    s := solver.New()
    if err := pb.Load(s); err != nil {
        ...
    }

3. declare variables and add clauses directly:

    s := solver.New()
    a, b := s.NewVar(), s.NewVar()
    s.AddClause(a.Lit(), b.Lit())
    s.AddClause(a.Lit().Negation())

Literals are built from variables, or from DIMACS integers with IntToLit.
Internally, the positive literal of var v is 2*v and its negation is 2*v+1.

Solving a problem

The Solve method takes a (possibly empty) list of assumptions, i.e literals that must be true
for this call only, and returns True, False or Unknown. In the first case, the value of each variable is returned too:

    status, model := s.Solve([]solver.Lit{b.Lit()})

Unknown is returned when the solver reached its conflict limit (see WithMaxConflict and SetMaxConflict).
Learned clauses are kept between calls, so a sequence of related queries becomes cheaper over time.

Once the problem is unsatisfiable without any assumption, Sane returns false and every later call to Solve returns False.

Recording a session

NewRecorder wraps a solver and writes every call it receives in a simple line-oriented log,
that Replay can execute later on any solver.Interface, checking the answers along the way.
*/
package solver
