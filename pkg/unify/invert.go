package unify

import (
	"fmt"

	"github.com/vito/unify/pkg/headed"
	"github.com/vito/unify/pkg/meta"
	"github.com/vito/unify/pkg/sig"
	"github.com/vito/unify/pkg/term"
)

// invert solves call = target, where call is a stuck application of a
// function and target is rigid, by finding the one clause that can produce
// target's head. It reports false when the function is not
// constructor-headed, leaving the equation to be deferred rather than
// failed, as recorded among the open question decisions in DESIGN.md.
func (u *Unifier) invert(eq Equation, call, target term.Term) (Result, bool) {
	head, args := term.Spine(call)
	fn := head.(term.Const)
	sym, _ := u.sig().Lookup(fn.Name)
	if len(args) != sym.Arity {
		return Result{}, false
	}
	hs, ok := u.heads.Lookup(fn.Name)
	if !ok || !hs.Headed() {
		return Result{}, false
	}
	symbol, ok := headed.RigidHead(u.sig(), target)
	if !ok {
		return Result{}, false
	}

	candidates := hs.RigidClauses(symbol)
	if len(candidates) > 1 {
		return Result{Outcome: Failed, Err: &UnificationError{
			Reason:  Internal,
			LHS:     call,
			RHS:     target,
			Context: eq.Context,
			Detail:  fmt.Sprintf("%s has %d clauses headed by %s", fn.Name, len(candidates), symbol),
			Origin:  eq.Origin,
		}}, true
	}

	// A clause returning an argument can also produce the target unless
	// the argument at the call site can never have the target's head.
	var competing []int
	for _, i := range hs.ArgumentClauses() {
		arg := u.reducer.Whnf(args[hs.Heads[i].Position])
		if u.couldHaveHead(arg, symbol) {
			competing = append(competing, i)
		}
	}

	switch {
	case len(candidates)+len(competing) == 0:
		return Result{Outcome: Failed, Err: &UnificationError{
			Reason:    Mismatch,
			LHS:       eq.LHS,
			RHS:       eq.RHS,
			Context:   eq.Context,
			LeftHead:  fn.Name,
			RightHead: symbol,
			Detail:    fmt.Sprintf("no clause of %s returns %s", fn.Name, symbol),
			Origin:    eq.Origin,
		}}, true
	case len(candidates)+len(competing) > 1:
		u.logger.Debug("invert blocked", "function", fn.Name, "clauses", len(candidates)+len(competing), "head", symbol)
		return u.deferral(eq), true
	}

	chosen := candidates
	if len(chosen) == 0 {
		chosen = competing
	}
	i := chosen[0]
	u.logger.Debug("invert", "function", fn.Name, "clause", i+1, "head", symbol)
	return Result{Outcome: Simplified, Equations: u.clauseEquations(eq, sym, i, args, target)}, true
}

// couldHaveHead reports whether arg may still reduce to a term headed by
// symbol. A call stuck only on bound variables never will.
func (u *Unifier) couldHaveHead(arg term.Term, symbol string) bool {
	switch u.shape(arg) {
	case flexible:
		return true
	case stuck:
		return len(term.Metas(u.reducer.Instantiate(arg))) > 0
	}
	h, ok := headed.RigidHead(u.sig(), arg)
	return ok && h == symbol
}

// clauseEquations instantiates the clause's pattern variables with fresh
// metavariables and equates the call's arguments with the patterns, the
// type of every constructor pattern with the type expected where it
// occurs, and the clause body with the target.
func (u *Unifier) clauseEquations(eq Equation, sym *sig.Symbol, index int, args []term.Term, target term.Term) []Equation {
	cl := sym.Clauses[index]
	n := len(cl.Vars)
	env := make([]term.Term, n)
	metas := make([]*meta.Meta, n)
	for v := 0; v < n; v++ {
		origin := fmt.Sprintf("%s clause %d pattern %s", sym.Name, index+1, cl.Vars[v])
		metas[v] = u.metas.Fresh(eq.Context, nil, origin)
		env[n-1-v] = metas[v].Occurrence()
	}

	pt := &patternTyper{sig: u.sig(), eq: eq, metas: metas}
	var eqs []Equation
	typ := sym.Type
	for p, pat := range cl.Patterns {
		var expected term.Term
		if pi, ok := typ.(term.Pi); ok {
			expected = term.Subst(pi.Domain, telescopeEnv(args[:p]))
			typ = pi.Codomain
		}
		eqs = append(eqs, eq.derive(args[p], pt.pattern(pat, expected), eq.Context))
	}
	eqs = append(eqs, pt.types...)
	return append(eqs, eq.derive(term.Subst(cl.Body, env), target, eq.Context))
}

// patternTyper walks a clause's patterns left to right, giving each
// pattern variable's metavariable the type of the binder it is matched
// against and collecting equations between the result type of each
// constructor pattern and the type expected where it occurs.
type patternTyper struct {
	sig   *sig.Signature
	eq    Equation
	metas []*meta.Meta
	next  int
	types []Equation
}

// pattern returns the term matched by p. expected is nil when unknown.
func (pt *patternTyper) pattern(p sig.Pattern, expected term.Term) term.Term {
	switch p := p.(type) {
	case sig.PVar:
		m := pt.metas[pt.next]
		pt.next++
		m.Type = expected
		return m.Occurrence()
	case sig.PCon:
		var typ term.Term
		if c, ok := pt.sig.Lookup(p.Name); ok {
			typ = c.Type
		}
		vals := make([]term.Term, len(p.Args))
		for i, a := range p.Args {
			var dom term.Term
			if pi, ok := typ.(term.Pi); ok {
				dom = term.Subst(pi.Domain, telescopeEnv(vals[:i]))
				typ = pi.Codomain
			} else {
				typ = nil
			}
			vals[i] = pt.pattern(a, dom)
		}
		if typ != nil && expected != nil {
			result := term.Subst(typ, telescopeEnv(vals))
			pt.types = append(pt.types, pt.eq.derive(result, expected, pt.eq.Context))
		}
		return term.C(p.Name, vals...)
	}
	panic(fmt.Sprintf("unify: unknown pattern %T", p))
}

// telescopeEnv is the substitution for a type under the binders of a
// telescope already applied to vals: the last value is #0.
func telescopeEnv(vals []term.Term) []term.Term {
	env := make([]term.Term, len(vals))
	for j := range vals {
		env[j] = vals[len(vals)-1-j]
	}
	return env
}
