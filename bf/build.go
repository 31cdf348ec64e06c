package bf

import "github.com/pkg/errors"

// A Builder turns formulas into another representation of boolean functions,
// such as a circuit. T is the type of a built function.
type Builder[T any] interface {
	Const(val bool) T
	// Var returns the function associated with the named variable.
	Var(name string) (T, error)
	Not(x T) T
	And(x, y T) T
	Or(x, y T) T
	Xor(x, y T) T
}

// Build builds f with b, following the structure of the formula.
// n-ary conjunctions and disjunctions are built as left-nested binary ones.
func Build[T any](f Formula, b Builder[T]) (T, error) {
	var zero T
	switch f := f.(type) {
	case trueConst:
		return b.Const(true), nil
	case falseConst:
		return b.Const(false), nil
	case variable:
		x, err := b.Var(string(f))
		if err != nil {
			return zero, errors.Wrapf(err, "could not build variable %q", string(f))
		}
		return x, nil
	case lit:
		x, err := Build[T](f.v, b)
		if err != nil || !f.signed {
			return x, err
		}
		return b.Not(x), nil
	case not:
		x, err := Build(f[0], b)
		if err != nil {
			return zero, err
		}
		return b.Not(x), nil
	case and:
		return buildNary(f, b, true, b.And)
	case or:
		return buildNary(f, b, false, b.Or)
	case xor:
		x, err := Build(f[0], b)
		if err != nil {
			return zero, err
		}
		y, err := Build(f[1], b)
		if err != nil {
			return zero, err
		}
		return b.Xor(x, y), nil
	default:
		return zero, errors.Errorf("unexpected formula %v", f)
	}
}

// buildNary builds the given list of subformulas, combined with op.
// The empty list gives the neutral element of op.
func buildNary[T any](subs []Formula, b Builder[T], neutral bool, op func(x, y T) T) (T, error) {
	if len(subs) == 0 {
		return b.Const(neutral), nil
	}
	res, err := Build(subs[0], b)
	if err != nil {
		return res, err
	}
	for _, sub := range subs[1:] {
		x, err := Build(sub, b)
		if err != nil {
			return x, err
		}
		res = op(res, x)
	}
	return res, nil
}
