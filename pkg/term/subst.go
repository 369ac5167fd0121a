package term

import "fmt"

// Shift adds by to every variable index at or above cutoff. A negative by
// strengthens the term; the caller guarantees that no variable in
// [cutoff, cutoff-by) occurs.
func Shift(t Term, by, cutoff int) Term {
	if by == 0 {
		return t
	}
	switch t := t.(type) {
	case Var:
		if t.Index >= cutoff {
			return Var{Index: t.Index + by, Name: t.Name}
		}
		return t
	case Const, Meta, Sort:
		return t
	case App:
		return App{Head: Shift(t.Head, by, cutoff), Args: mapTerms(t.Args, func(a Term) Term {
			return Shift(a, by, cutoff)
		})}
	case Lam:
		return Lam{Name: t.Name, Body: Shift(t.Body, by, cutoff+1)}
	case Pi:
		return Pi{
			Name:     t.Name,
			Domain:   Shift(t.Domain, by, cutoff),
			Codomain: Shift(t.Codomain, by, cutoff+1),
		}
	}
	panic(fmt.Sprintf("term: unknown node %T", t))
}

// Subst replaces the innermost len(env) variables of t: #i becomes env[i]
// for i < len(env), and every other free variable is lowered by len(env).
// The terms in env live in the scope that remains after removing those
// variables.
func Subst(t Term, env []Term) Term {
	if len(env) == 0 {
		return t
	}
	return subst(t, env, 0)
}

func subst(t Term, env []Term, depth int) Term {
	switch t := t.(type) {
	case Var:
		if t.Index < depth {
			return t
		}
		j := t.Index - depth
		if j < len(env) {
			return Shift(env[j], depth, 0)
		}
		return Var{Index: t.Index - len(env), Name: t.Name}
	case Const, Meta, Sort:
		return t
	case App:
		head := subst(t.Head, env, depth)
		args := mapTerms(t.Args, func(a Term) Term {
			return subst(a, env, depth)
		})
		return Apply(head, args...)
	case Lam:
		return Lam{Name: t.Name, Body: subst(t.Body, env, depth+1)}
	case Pi:
		return Pi{
			Name:     t.Name,
			Domain:   subst(t.Domain, env, depth),
			Codomain: subst(t.Codomain, env, depth+1),
		}
	}
	panic(fmt.Sprintf("term: unknown node %T", t))
}

// Instantiate substitutes arg for the variable bound by a binder whose body
// is body.
func Instantiate(body, arg Term) Term {
	return Subst(body, []Term{arg})
}

// ReplaceMetas rebuilds t bottom-up, offering every metavariable-headed
// spine to fn. Arguments are rewritten before fn sees them. When fn returns
// false the spine is kept.
func ReplaceMetas(t Term, fn func(id MetaID, args []Term) (Term, bool)) Term {
	switch t := t.(type) {
	case Var, Const, Sort:
		return t
	case Meta:
		if r, ok := fn(t.ID, nil); ok {
			return r
		}
		return t
	case App:
		head, args := Spine(t)
		args = mapTerms(args, func(a Term) Term {
			return ReplaceMetas(a, fn)
		})
		if m, ok := head.(Meta); ok {
			if r, ok := fn(m.ID, args); ok {
				return r
			}
			return Apply(head, args...)
		}
		return Apply(ReplaceMetas(head, fn), args...)
	case Lam:
		return Lam{Name: t.Name, Body: ReplaceMetas(t.Body, fn)}
	case Pi:
		return Pi{
			Name:     t.Name,
			Domain:   ReplaceMetas(t.Domain, fn),
			Codomain: ReplaceMetas(t.Codomain, fn),
		}
	}
	panic(fmt.Sprintf("term: unknown node %T", t))
}

func mapTerms(ts []Term, fn func(Term) Term) []Term {
	if ts == nil {
		return nil
	}
	out := make([]Term, len(ts))
	for i, t := range ts {
		out[i] = fn(t)
	}
	return out
}
