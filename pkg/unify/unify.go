// Package unify solves equations between terms by assigning
// metavariables.
//
// Each equation is reduced to weak head normal form and then, in order:
// assigned when one side is a pattern metavariable, decomposed when both
// sides are rigid, inverted through a constructor-headed function when one
// side is a stuck call and the other rigid, or deferred until one of the
// metavariables it mentions is solved.
package unify

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/vito/unify/pkg/headed"
	"github.com/vito/unify/pkg/meta"
	"github.com/vito/unify/pkg/reduce"
	"github.com/vito/unify/pkg/sig"
	"github.com/vito/unify/pkg/term"
)

// Equation asks for LHS and RHS to be definitionally equal in Context.
type Equation struct {
	LHS, RHS term.Term
	Context  term.Context
	// Origin is carried into diagnostics.
	Origin string
}

func (eq Equation) String() string {
	s := fmt.Sprintf("%s = %s", term.Named(eq.Context, eq.LHS), term.Named(eq.Context, eq.RHS))
	if len(eq.Context) > 0 {
		s = eq.Context.String() + " ⊢ " + s
	}
	return s
}

func (eq Equation) derive(lhs, rhs term.Term, ctx term.Context) Equation {
	return Equation{LHS: lhs, RHS: rhs, Context: ctx, Origin: eq.Origin}
}

// Outcome is the result of one step on an equation.
type Outcome int

const (
	// Solved equations hold, possibly after assigning a metavariable.
	Solved Outcome = iota
	// Simplified equations were replaced by Result.Equations.
	Simplified
	// Deferred equations wait for one of Result.Blockers to be solved.
	Deferred
	// Failed equations can never hold.
	Failed
)

func (o Outcome) String() string {
	switch o {
	case Solved:
		return "solved"
	case Simplified:
		return "simplified"
	case Deferred:
		return "deferred"
	case Failed:
		return "failed"
	}
	return fmt.Sprintf("Outcome(%d)", int(o))
}

// Result describes what Step did.
type Result struct {
	Outcome   Outcome
	Equations []Equation
	Blockers  term.MetaSet
	Err       *UnificationError
	// Assigned is the metavariable solved by this step, if any.
	Assigned *term.MetaID
}

// Options configure a Unifier.
type Options struct {
	// MaxPasses bounds how many deferred equations may be woken. Zero
	// means no bound.
	MaxPasses int
	// Inversion enables solving through constructor-headed functions.
	Inversion bool
	// Eta enables function eta: λ x. b = u becomes b = u x.
	Eta bool
	// Logger receives debug events. Defaults to slog.Default().
	Logger *slog.Logger
}

// DefaultOptions enables every rule.
func DefaultOptions() Options {
	return Options{Inversion: true, Eta: true}
}

// Unifier solves equations for one definition, recording solutions in a
// shared metavariable store.
type Unifier struct {
	metas   *meta.Store
	reducer *reduce.Reducer
	heads   *headed.Cache
	opts    Options
	logger  *slog.Logger

	queue   []*pending
	parked  []*pending
	blocked map[term.MetaID][]*pending
	wakes   int
}

type pending struct {
	eq       Equation
	blockers term.MetaSet
	parked   bool
}

// New creates a unifier. The reducer must read solutions from metas, and
// heads must analyze functions with the same reducer.
func New(r *reduce.Reducer, heads *headed.Cache, metas *meta.Store, opts Options) *Unifier {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Unifier{
		metas:   metas,
		reducer: r,
		heads:   heads,
		opts:    opts,
		logger:  logger,
		blocked: map[term.MetaID][]*pending{},
	}
}

func (u *Unifier) sig() *sig.Signature {
	return u.reducer.Signature()
}

// Step performs one decomposition step on eq. Assignments are recorded in
// the store immediately; Simplified equations are returned for the caller
// to process.
func (u *Unifier) Step(eq Equation) Result {
	lhs := u.reducer.Whnf(eq.LHS)
	rhs := u.reducer.Whnf(eq.RHS)
	whnf := eq.derive(lhs, rhs, eq.Context)

	if term.Equal(lhs, rhs) {
		return Result{Outcome: Solved}
	}

	// pattern metavariables
	lp, lok := u.patternMeta(lhs)
	rp, rok := u.patternMeta(rhs)
	switch {
	case lok && rok:
		young, old, youngSide, oldSide := lp, rp, lhs, rhs
		if rp.id > lp.id {
			young, old, youngSide, oldSide = rp, lp, rhs, lhs
		}
		if res, ok := u.assign(whnf, young, youngSide, oldSide); ok {
			return res
		}
		if res, ok := u.assign(whnf, old, oldSide, youngSide); ok {
			return res
		}
		return u.deferral(whnf)
	case lok:
		if res, ok := u.assign(whnf, lp, lhs, rhs); ok {
			return res
		}
		return u.deferral(whnf)
	case rok:
		if res, ok := u.assign(whnf, rp, rhs, lhs); ok {
			return res
		}
		return u.deferral(whnf)
	}

	if u.opts.Eta {
		if res, ok := u.eta(whnf); ok {
			return res
		}
	}

	// rigid against rigid
	ls, rs := u.shape(lhs), u.shape(rhs)
	if ls == rigid && rs == rigid {
		return u.decompose(whnf)
	}

	// inversion through a constructor-headed function
	if u.opts.Inversion {
		if ls == stuck && rs == rigid {
			if res, ok := u.invert(whnf, lhs, rhs); ok {
				return res
			}
		}
		if rs == stuck && ls == rigid {
			if res, ok := u.invert(whnf, rhs, lhs); ok {
				return res
			}
		}
	}

	// equal once fully normalized
	if term.Equal(u.reducer.Normalize(lhs), u.reducer.Normalize(rhs)) {
		return Result{Outcome: Solved}
	}

	// wait for more information
	return u.deferral(whnf)
}

type shape int

const (
	// rigid terms are headed by a constructor, type former, postulate,
	// bound variable, Pi, sort or lambda.
	rigid shape = iota
	// flexible terms are headed by an unsolved metavariable.
	flexible
	// stuck terms are calls to functions that did not reduce.
	stuck
)

func (u *Unifier) shape(t term.Term) shape {
	head, _ := term.Spine(t)
	switch h := head.(type) {
	case term.Meta:
		return flexible
	case term.Const:
		if sym, ok := u.sig().Lookup(h.Name); ok && sym.Kind == sig.Function {
			return stuck
		}
	}
	return rigid
}

type patternOccurrence struct {
	id   term.MetaID
	meta *meta.Meta
	// shift is the number of binders entered between the metavariable's
	// context and the equation's.
	shift int
}

// patternMeta recognizes an unsolved metavariable applied to exactly the
// variables of its context, in order, as seen from under zero or more
// further binders.
func (u *Unifier) patternMeta(t term.Term) (patternOccurrence, bool) {
	head, args := term.Spine(t)
	h, ok := head.(term.Meta)
	if !ok {
		return patternOccurrence{}, false
	}
	m, ok := u.metas.Get(h.ID)
	if !ok || m.Solved() || len(args) != len(m.Context) {
		return patternOccurrence{}, false
	}
	n := len(args)
	if n == 0 {
		return patternOccurrence{id: h.ID, meta: m}, true
	}
	last, ok := args[n-1].(term.Var)
	if !ok {
		return patternOccurrence{}, false
	}
	for j, a := range args {
		v, ok := a.(term.Var)
		if !ok || v.Index != last.Index+(n-1-j) {
			return patternOccurrence{}, false
		}
	}
	return patternOccurrence{id: h.ID, meta: m, shift: last.Index}, true
}

// assign solves a pattern metavariable with other. It reports false when
// other mentions variables the metavariable cannot see.
func (u *Unifier) assign(eq Equation, p patternOccurrence, side, other term.Term) (Result, bool) {
	other = u.reducer.Instantiate(other)
	if term.Occurs(p.id, other) {
		other = u.reducer.Normalize(other)
		if term.Occurs(p.id, other) {
			return Result{Outcome: Failed, Err: &UnificationError{
				Reason:  OccursCheck,
				LHS:     side,
				RHS:     other,
				Context: eq.Context,
				Meta:    p.id,
				Origin:  eq.Origin,
			}}, true
		}
	}

	n := len(p.meta.Context)
	for v := range term.FreeVars(other) {
		if v < p.shift || v >= p.shift+n {
			return Result{}, false
		}
	}
	sol := term.Shift(other, -p.shift, 0)

	if err := u.metas.Record(p.id, sol); err != nil {
		return Result{Outcome: Failed, Err: &UnificationError{
			Reason:  Internal,
			LHS:     side,
			RHS:     other,
			Context: eq.Context,
			Detail:  err.Error(),
			Origin:  eq.Origin,
		}}, true
	}
	u.logger.Debug("assign", "meta", p.id.String(), "solution", term.Named(p.meta.Context, sol).String())
	u.wake(p.id)
	id := p.id
	return Result{Outcome: Solved, Assigned: &id}, true
}

// eta turns λ x. b = u into b = u x when exactly one side is a lambda.
func (u *Unifier) eta(eq Equation) (Result, bool) {
	lam, lok := eq.LHS.(term.Lam)
	rlam, rok := eq.RHS.(term.Lam)
	if lok == rok {
		return Result{}, false
	}
	if rok {
		lam = rlam
	}
	other := eq.RHS
	if rok {
		other = eq.LHS
	}
	ctx := eq.Context.Extend(lam.Name, nil)
	applied := term.Apply(term.Shift(other, 1, 0), term.Var{Index: 0, Name: lam.Name})
	sub := eq.derive(lam.Body, applied, ctx)
	if rok {
		sub = eq.derive(applied, lam.Body, ctx)
	}
	return Result{Outcome: Simplified, Equations: []Equation{sub}}, true
}

// decompose compares two rigid terms: injectivity for matching heads,
// Mismatch otherwise.
func (u *Unifier) decompose(eq Equation) Result {
	switch l := eq.LHS.(type) {
	case term.Lam:
		if r, ok := eq.RHS.(term.Lam); ok {
			ctx := eq.Context.Extend(l.Name, nil)
			return Result{Outcome: Simplified, Equations: []Equation{eq.derive(l.Body, r.Body, ctx)}}
		}
	case term.Pi:
		if r, ok := eq.RHS.(term.Pi); ok {
			ctx := eq.Context.Extend(l.Name, l.Domain)
			return Result{Outcome: Simplified, Equations: []Equation{
				eq.derive(l.Domain, r.Domain, eq.Context),
				eq.derive(l.Codomain, r.Codomain, ctx),
			}}
		}
	case term.Sort:
		if r, ok := eq.RHS.(term.Sort); ok && r.Level == l.Level {
			return Result{Outcome: Solved}
		}
	}

	lh, largs := term.Spine(eq.LHS)
	rh, rargs := term.Spine(eq.RHS)
	if !sameHead(lh, rh) {
		return u.mismatch(eq, "")
	}
	if len(largs) != len(rargs) {
		return u.mismatch(eq, fmt.Sprintf("%d arguments against %d", len(largs), len(rargs)))
	}
	eqs := make([]Equation, len(largs))
	for i := range largs {
		eqs[i] = eq.derive(largs[i], rargs[i], eq.Context)
	}
	return Result{Outcome: Simplified, Equations: eqs}
}

func sameHead(a, b term.Term) bool {
	switch a := a.(type) {
	case term.Const:
		b, ok := b.(term.Const)
		return ok && a.Name == b.Name
	case term.Var:
		b, ok := b.(term.Var)
		return ok && a.Index == b.Index
	}
	return false
}

func (u *Unifier) mismatch(eq Equation, detail string) Result {
	return Result{Outcome: Failed, Err: &UnificationError{
		Reason:    Mismatch,
		LHS:       eq.LHS,
		RHS:       eq.RHS,
		Context:   eq.Context,
		LeftHead:  headName(eq.Context, eq.LHS),
		RightHead: headName(eq.Context, eq.RHS),
		Detail:    detail,
		Origin:    eq.Origin,
	}}
}

func headName(ctx term.Context, t term.Term) string {
	head, _ := term.Spine(t)
	switch h := head.(type) {
	case term.Pi:
		return "→"
	case term.Lam:
		return "λ"
	case term.Var:
		return term.Named(ctx, h).String()
	}
	return head.String()
}

// deferral parks an equation on the unsolved metavariables it mentions.
func (u *Unifier) deferral(eq Equation) Result {
	blockers := term.Metas(u.reducer.Instantiate(eq.LHS)).Union(term.Metas(u.reducer.Instantiate(eq.RHS)))
	for id := range blockers {
		if m, ok := u.metas.Get(id); ok && m.Solved() {
			blockers.Remove(id)
		}
	}
	return Result{Outcome: Deferred, Blockers: blockers}
}

func idList(ids []term.MetaID) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = id.String()
	}
	return strings.Join(parts, " ")
}
