package reduce

import (
	"fmt"

	"github.com/vito/unify/pkg/meta"
	"github.com/vito/unify/pkg/sig"
	"github.com/vito/unify/pkg/term"
)

// Reducer evaluates terms against a signature and the solutions recorded in
// a metavariable store. Both are read, never written.
type Reducer struct {
	sig   *sig.Signature
	metas *meta.Store
}

// New creates a reducer. metas may be nil, in which case every
// metavariable is treated as unsolved.
func New(s *sig.Signature, metas *meta.Store) *Reducer {
	return &Reducer{sig: s, metas: metas}
}

// Signature returns the signature the reducer unfolds definitions from.
func (r *Reducer) Signature() *sig.Signature {
	return r.sig
}

// Whnf reduces t to weak head normal form: beta, delta, iota and solved
// metavariables at the head, until none applies.
func (r *Reducer) Whnf(t term.Term) term.Term {
	for {
		next, ok := r.step(t, true)
		if !ok {
			return t
		}
		t = next
	}
}

// Normalize fully normalizes t, including under binders. Clause bodies of
// global functions are never entered: an unapplied pattern-matching
// function stays a bare constant.
func (r *Reducer) Normalize(t term.Term) term.Term {
	t = r.Whnf(t)
	switch t := t.(type) {
	case term.Var, term.Const, term.Meta, term.Sort:
		return t
	case term.App:
		head, spine := term.Spine(t)
		if len(spine) == 0 {
			return r.Normalize(head)
		}
		args := make([]term.Term, len(spine))
		for i, a := range spine {
			args[i] = r.Normalize(a)
		}
		return term.Apply(head, args...)
	case term.Lam:
		return term.Lam{Name: t.Name, Body: r.Normalize(t.Body)}
	case term.Pi:
		return term.Pi{
			Name:     t.Name,
			Domain:   r.Normalize(t.Domain),
			Codomain: r.Normalize(t.Codomain),
		}
	}
	panic(fmt.Sprintf("reduce: unknown node %T", t))
}

// UnfoldOnce reduces the head of t by beta and solved metavariables, then
// performs at most one delta or iota step, then beta again. It reports
// whether a global definition was unfolded.
func (r *Reducer) UnfoldOnce(t term.Term) (term.Term, bool) {
	t = r.whnfNoDelta(t)
	next, ok := r.step(t, true)
	if !ok {
		return t, false
	}
	return r.whnfNoDelta(next), true
}

// Instantiate replaces solved metavariables everywhere in t.
func (r *Reducer) Instantiate(t term.Term) term.Term {
	if r.metas == nil {
		return t
	}
	return r.metas.Instantiate(t)
}

func (r *Reducer) whnfNoDelta(t term.Term) term.Term {
	for {
		next, ok := r.step(t, false)
		if !ok {
			return t
		}
		t = next
	}
}

// step performs one head reduction. Delta and iota are only tried when
// delta is set.
func (r *Reducer) step(t term.Term, delta bool) (term.Term, bool) {
	head, args := term.Spine(t)
	switch h := head.(type) {
	case term.Lam:
		if len(args) == 0 {
			return nil, false
		}
		return term.Apply(term.Instantiate(h.Body, args[0]), args[1:]...), true
	case term.Meta:
		if r.metas == nil {
			return nil, false
		}
		return r.metas.Unfold(h.ID, args)
	case term.Const:
		if !delta {
			return nil, false
		}
		sym, ok := r.sig.Lookup(h.Name)
		if !ok || sym.Kind != sig.Function || len(args) < sym.Arity {
			return nil, false
		}
		return r.unfold(sym, args)
	}
	return nil, false
}

type outcome int

const (
	matched outcome = iota
	mismatched
	stuck
)

// unfold tries the clauses of sym in order. The first clause whose
// patterns all match fires. A clause that needs to inspect an argument that
// is not in constructor form blocks the whole call.
func (r *Reducer) unfold(sym *sig.Symbol, args []term.Term) (term.Term, bool) {
	scrutinees := append([]term.Term(nil), args[:sym.Arity]...)
	for _, cl := range sym.Clauses {
		var vals []term.Term
		result := matched
		for i, p := range cl.Patterns {
			var o outcome
			vals, scrutinees[i], o = r.match(p, scrutinees[i], vals)
			if o != matched {
				result = o
				break
			}
		}
		switch result {
		case matched:
			env := make([]term.Term, len(vals))
			for i, v := range vals {
				env[len(vals)-1-i] = v
			}
			return term.Apply(term.Subst(cl.Body, env), args[sym.Arity:]...), true
		case stuck:
			return nil, false
		}
	}
	return nil, false
}

// match matches one pattern, appending bound values to vals. It returns
// the scrutinee as far as it had to be reduced.
func (r *Reducer) match(p sig.Pattern, arg term.Term, vals []term.Term) ([]term.Term, term.Term, outcome) {
	switch p := p.(type) {
	case sig.PVar:
		return append(vals, arg), arg, matched
	case sig.PCon:
		arg = r.Whnf(arg)
		head, args := term.Spine(arg)
		c, ok := head.(term.Const)
		if !ok {
			return vals, arg, stuck
		}
		sym, ok := r.sig.Lookup(c.Name)
		if !ok || sym.Kind != sig.Constructor {
			return vals, arg, stuck
		}
		if c.Name != p.Name || len(args) != len(p.Args) {
			return vals, arg, mismatched
		}
		for i, sub := range p.Args {
			var o outcome
			vals, _, o = r.match(sub, args[i], vals)
			if o != matched {
				return vals, arg, o
			}
		}
		return vals, arg, matched
	}
	panic(fmt.Sprintf("reduce: unknown pattern %T", p))
}
