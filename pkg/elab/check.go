package elab

import (
	"context"

	"github.com/vito/unify/pkg/term"
)

// Check elaborates t against ty in tctx and returns t with its holes
// replaced by metavariable occurrences.
func (s *Session) Check(ctx context.Context, tctx term.Context, t, ty term.Term) (term.Term, error) {
	switch t := t.(type) {
	case term.Lam:
		if pi, ok := s.reducer.Whnf(ty).(term.Pi); ok {
			body, err := s.Check(ctx, tctx.Extend(t.Name, pi.Domain), t.Body, pi.Codomain)
			if err != nil {
				return nil, err
			}
			return term.Lam{Name: t.Name, Body: body}, nil
		}
	case term.Meta:
		if origin, ok := s.placeholders[t.ID]; ok {
			return s.fill(tctx, ty, origin), nil
		}
	}

	et, inferred, err := s.Infer(ctx, tctx, t)
	if err != nil {
		return nil, err
	}
	if err := s.Unify(ctx, inferred, ty, tctx); err != nil {
		return nil, err
	}
	return et, nil
}

// Infer elaborates t in tctx and returns it with its type.
func (s *Session) Infer(ctx context.Context, tctx term.Context, t term.Term) (term.Term, term.Term, error) {
	switch t := t.(type) {
	case term.Var:
		b, ok := tctx.Lookup(t.Index)
		if !ok || b.Type == nil {
			return nil, nil, &TypeError{Term: t, Context: tctx, Msg: "unbound variable"}
		}
		return t, b.Type, nil

	case term.Const:
		sym, ok := s.sig.Lookup(t.Name)
		if !ok {
			return nil, nil, &TypeError{Term: t, Context: tctx, Msg: "unknown symbol"}
		}
		if sym.Type == nil {
			return nil, nil, &TypeError{Term: t, Context: tctx, Msg: "has no type"}
		}
		return t, sym.Type, nil

	case term.Sort:
		return t, term.Sort{Level: t.Level + 1}, nil

	case term.Meta:
		if origin, ok := s.placeholders[t.ID]; ok {
			typ := s.Hole(tctx, term.Sort{}, "type of "+origin)
			return s.fill(tctx, typ, origin), typ, nil
		}
		m, ok := s.metas.Get(t.ID)
		if !ok || m.Type == nil || len(m.Context) > 0 {
			return nil, nil, &TypeError{Term: t, Context: tctx, Msg: "cannot infer the type of a metavariable"}
		}
		return t, m.Type, nil

	case term.Pi:
		dom, l1, err := s.inferSort(ctx, tctx, t.Domain)
		if err != nil {
			return nil, nil, err
		}
		cod, l2, err := s.inferSort(ctx, tctx.Extend(t.Name, dom), t.Codomain)
		if err != nil {
			return nil, nil, err
		}
		return term.Pi{Name: t.Name, Domain: dom, Codomain: cod}, term.Sort{Level: max(l1, l2)}, nil

	case term.Lam:
		dom := s.Hole(tctx, term.Sort{}, "domain of λ "+t.Name)
		body, bodyTy, err := s.Infer(ctx, tctx.Extend(t.Name, dom), t.Body)
		if err != nil {
			return nil, nil, err
		}
		return term.Lam{Name: t.Name, Body: body}, term.Pi{Name: t.Name, Domain: dom, Codomain: bodyTy}, nil

	case term.App:
		return s.inferApp(ctx, tctx, t)
	}
	return nil, nil, &TypeError{Term: t, Context: tctx, Msg: "cannot infer a type"}
}

func (s *Session) inferApp(ctx context.Context, tctx term.Context, t term.App) (term.Term, term.Term, error) {
	head, args := t.Head, t.Args

	var (
		fn   term.Term
		fnTy term.Term
		err  error
	)
	if hm, ok := head.(term.Meta); ok && s.placeholders[hm.ID] == "" {
		// an occurrence of a metavariable created earlier: its type lives in
		// its own context, so the leading arguments instantiate it
		m, found := s.metas.Get(hm.ID)
		if !found || m.Type == nil || len(args) < len(m.Context) {
			return nil, nil, &TypeError{Term: t, Context: tctx, Msg: "cannot infer the type of a metavariable"}
		}
		n := len(m.Context)
		env := make([]term.Term, n)
		for i := range n {
			env[i] = args[n-1-i]
		}
		fn = term.Apply(head, args[:n]...)
		fnTy = term.Subst(m.Type, env)
		args = args[n:]
	} else {
		fn, fnTy, err = s.Infer(ctx, tctx, head)
		if err != nil {
			return nil, nil, err
		}
	}

	for _, arg := range args {
		pi, err := s.expectPi(ctx, tctx, fn, fnTy)
		if err != nil {
			return nil, nil, err
		}
		ea, err := s.Check(ctx, tctx, arg, pi.Domain)
		if err != nil {
			return nil, nil, err
		}
		fn = term.Apply(fn, ea)
		fnTy = term.Instantiate(pi.Codomain, ea)
	}
	return fn, fnTy, nil
}

// expectPi views fnTy as a function type, inventing one when it is still a
// metavariable.
func (s *Session) expectPi(ctx context.Context, tctx term.Context, fn, fnTy term.Term) (term.Pi, error) {
	w := s.reducer.Whnf(fnTy)
	if pi, ok := w.(term.Pi); ok {
		return pi, nil
	}
	if !flexible(w) {
		return term.Pi{}, &TypeError{Term: fn, Context: tctx, Msg: "not a function: has type " + term.Named(tctx, w).String()}
	}
	dom := s.Hole(tctx, term.Sort{}, "domain of "+term.Named(tctx, fn).String())
	cod := s.Hole(tctx.Extend("x", dom), term.Sort{}, "codomain of "+term.Named(tctx, fn).String())
	pi := term.Pi{Name: "x", Domain: dom, Codomain: cod}
	if err := s.Unify(ctx, w, pi, tctx); err != nil {
		return term.Pi{}, err
	}
	return pi, nil
}

// inferSort elaborates a type and returns its universe level.
func (s *Session) inferSort(ctx context.Context, tctx term.Context, t term.Term) (term.Term, int, error) {
	et, ty, err := s.Infer(ctx, tctx, t)
	if err != nil {
		return nil, 0, err
	}
	w := s.reducer.Whnf(ty)
	if sort, ok := w.(term.Sort); ok {
		return et, sort.Level, nil
	}
	if !flexible(w) {
		return nil, 0, &TypeError{Term: et, Context: tctx, Msg: "not a type: has type " + term.Named(tctx, w).String()}
	}
	if err := s.Unify(ctx, w, term.Sort{}, tctx); err != nil {
		return nil, 0, err
	}
	return et, 0, nil
}

// fill turns a parsed placeholder into a metavariable and remembers it for
// the report.
func (s *Session) fill(tctx term.Context, ty term.Term, origin string) term.Term {
	m := s.metas.Fresh(tctx, ty, origin)
	s.holes = append(s.holes, hole{origin: origin, meta: m})
	return m.Occurrence()
}

func flexible(t term.Term) bool {
	head, _ := term.Spine(t)
	_, ok := head.(term.Meta)
	return ok
}
