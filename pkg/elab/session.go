// Package elab drives the unifier the way a bidirectional type checker
// does: checking a term against a type unifies the inferred type with the
// expected one, and holes become metavariables solved along the way.
package elab

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/vito/unify/pkg/headed"
	"github.com/vito/unify/pkg/ioctx"
	"github.com/vito/unify/pkg/meta"
	"github.com/vito/unify/pkg/problem"
	"github.com/vito/unify/pkg/reduce"
	"github.com/vito/unify/pkg/sig"
	"github.com/vito/unify/pkg/term"
	"github.com/vito/unify/pkg/unify"
)

const instrumentationName = "github.com/vito/unify/pkg/elab"

// Tracer returns a tracer from the span in ctx, or the global provider.
func Tracer(ctx context.Context) trace.Tracer {
	if span := trace.SpanFromContext(ctx); span.SpanContext().IsValid() {
		return span.TracerProvider().Tracer(instrumentationName)
	}
	return otel.Tracer(instrumentationName)
}

// Session elaborates the definitions of one problem file in order. It owns
// the signature, which grows as definitions are accepted, and the
// metavariable store shared by all of them.
type Session struct {
	ID     string
	Source string

	sig     *sig.Signature
	metas   *meta.Store
	reducer *reduce.Reducer
	heads   *headed.Cache
	opts    unify.Options
	logger  *slog.Logger

	unifier *unify.Unifier
	// placeholders maps the parser's hole ids to their origins while a
	// definition is being checked.
	placeholders map[term.MetaID]string
	holes        []hole
}

type hole struct {
	origin string
	meta   *meta.Meta
}

// NewSession starts a session over s. The logger is taken from ctx unless
// opts carries one.
func NewSession(ctx context.Context, s *sig.Signature, opts unify.Options) *Session {
	id := uuid.NewString()
	logger := opts.Logger
	if logger == nil {
		logger = ioctx.LoggerFromContext(ctx)
	}
	logger = logger.With("session", id)
	opts.Logger = logger

	store := meta.NewStore()
	r := reduce.New(s, store)
	sess := &Session{
		ID:      id,
		sig:     s,
		metas:   store,
		reducer: r,
		heads:   headed.NewCache(r),
		opts:    opts,
		logger:  logger,
	}
	sess.Begin("")
	return sess
}

// Open starts a session for a built problem file, with project defaults
// under the file's own options.
func Open(ctx context.Context, mod *problem.Module, defaults problem.Options) *Session {
	sess := NewSession(ctx, mod.Signature, Options(mod.Options.Over(defaults)))
	sess.Source = mod.Source
	return sess
}

// Options converts problem file options to unifier options.
func Options(o problem.Options) unify.Options {
	return unify.Options{
		MaxPasses: o.MaxPasses,
		Inversion: o.InversionEnabled(),
		Eta:       o.EtaEnabled(),
	}
}

func (s *Session) Signature() *sig.Signature { return s.sig }
func (s *Session) Metas() *meta.Store        { return s.metas }
func (s *Session) Heads() *headed.Cache      { return s.heads }

// Begin starts a new definition with a fresh worklist. Metavariables
// created from here on belong to it.
func (s *Session) Begin(definition string) {
	s.metas.Begin(definition)
	s.unifier = unify.New(s.reducer, s.heads, s.metas, s.opts)
	s.holes = nil
}

// Hole creates a metavariable of type ty over tctx and returns its
// occurrence.
func (s *Session) Hole(tctx term.Context, ty term.Term, origin string) term.Term {
	return s.metas.Fresh(tctx, ty, origin).Occurrence()
}

// Unify requires lhs and rhs to be equal in tctx.
func (s *Session) Unify(ctx context.Context, lhs, rhs term.Term, tctx term.Context) error {
	return s.unifier.Unify(lhs, rhs, tctx)
}

// Finalize closes the current definition. Equations that are still
// deferred are reported alongside the unsolved metavariables.
func (s *Session) Finalize(definition string) (meta.Substitution, error) {
	var constraints []string
	for _, eq := range s.unifier.Pending() {
		constraints = append(constraints, eq.String())
	}
	sub, err := s.metas.Finalize(definition)
	if err != nil {
		var unresolved *meta.UnresolvedError
		if errors.As(err, &unresolved) {
			unresolved.Constraints = constraints
		}
		return nil, err
	}
	if len(constraints) > 0 {
		return nil, &meta.UnresolvedError{Definition: definition, Constraints: constraints}
	}
	return sub, nil
}

// CheckDefinition elaborates a definition's type and body, solves what it
// can and finalizes. An accepted definition is added to the signature so
// later definitions can use it; a rejected one changes nothing else.
func (s *Session) CheckDefinition(ctx context.Context, def *problem.Definition) (rep Report) {
	ctx, span := Tracer(ctx).Start(ctx, "definition "+def.Name, trace.WithAttributes(
		attribute.String("unify.session", s.ID),
		attribute.String("unify.name", def.Name),
	))
	defer func() { s.end(span, rep) }()

	rep = Report{Kind: DefinitionKind, Name: def.Name, Source: s.Source}
	s.Begin(def.Name)
	s.placeholders = def.Holes
	defer func() { s.placeholders = nil }()

	typ, _, err := s.inferSort(ctx, nil, def.Type)
	if err != nil {
		rep.Err = err
		return rep
	}
	body, err := s.Check(ctx, nil, def.Body, typ)
	if err != nil {
		rep.Err = err
		return rep
	}

	sub, err := s.Finalize(def.Name)
	if err != nil {
		rep.Err = err
		return rep
	}
	rep.Type = sub.Apply(s.metas.Instantiate(typ))
	rep.Value = sub.Apply(s.metas.Instantiate(body))
	for _, h := range s.holes {
		sol := sub[h.meta.ID]
		rep.Solutions = append(rep.Solutions, Assignment{
			Name:  h.origin,
			Value: term.Named(sol.Context, sol.Term),
		})
	}

	if err := s.sig.Add(&sig.Symbol{
		Name:    def.Name,
		Kind:    sig.Function,
		Type:    rep.Type,
		Clauses: []sig.Clause{{Body: rep.Value}},
	}); err != nil {
		rep.Err = errors.Wrapf(err, "definition %s", def.Name)
		return rep
	}
	s.logger.Debug("accepted", "definition", def.Name, "type", rep.Type.String())
	return rep
}

// SolveProblem solves a standalone set of equations over declared
// metavariables.
func (s *Session) SolveProblem(ctx context.Context, prob *problem.Problem) (rep Report) {
	_, span := Tracer(ctx).Start(ctx, "problem "+prob.Name, trace.WithAttributes(
		attribute.String("unify.session", s.ID),
		attribute.String("unify.name", prob.Name),
	))
	defer func() { s.end(span, rep) }()

	rep = Report{Kind: ProblemKind, Name: prob.Name, Source: s.Source}
	s.Begin(prob.Name)

	ids := map[term.MetaID]term.MetaID{}
	declared := make([]*meta.Meta, len(prob.Metas))
	for i, d := range prob.Metas {
		declared[i] = s.metas.Fresh(nil, nil, "declared ?"+d.Name)
		ids[d.ID] = declared[i].ID
	}
	realize := func(t term.Term) term.Term {
		return term.ReplaceMetas(t, func(id term.MetaID, args []term.Term) (term.Term, bool) {
			real, ok := ids[id]
			if !ok {
				return nil, false
			}
			return term.Apply(term.Meta{ID: real}, args...), true
		})
	}
	for i, d := range prob.Metas {
		declared[i].Type = realize(d.Type)
	}
	for _, eq := range prob.Equations {
		s.unifier.Add(unify.Equation{LHS: realize(eq.LHS), RHS: realize(eq.RHS), Origin: eq.Source})
	}
	if err := s.unifier.Run(); err != nil {
		rep.Err = err
		return rep
	}

	sub, err := s.Finalize(prob.Name)
	if err != nil {
		rep.Err = err
		return rep
	}
	for i, d := range prob.Metas {
		value, _ := sub.Get(declared[i].ID)
		rep.Solutions = append(rep.Solutions, Assignment{Name: "?" + d.Name, Value: value})
	}
	return rep
}

// Run checks every definition and then every problem of a module. Parse
// errors reject only the entry they occur in.
func (s *Session) Run(ctx context.Context, mod *problem.Module) []Report {
	ctx, span := Tracer(ctx).Start(ctx, "check "+mod.Source, trace.WithAttributes(
		attribute.String("unify.session", s.ID),
	))
	defer span.End()

	var reports []Report
	for _, decl := range mod.Definitions {
		def, err := decl.Parse(s.sig, mod.Source)
		if err != nil {
			reports = append(reports, Report{Kind: DefinitionKind, Name: decl.Name, Source: mod.Source, Err: err})
			continue
		}
		reports = append(reports, s.CheckDefinition(ctx, def))
	}
	for _, pd := range mod.Problems {
		prob, err := pd.Parse(s.sig)
		if err != nil {
			reports = append(reports, Report{Kind: ProblemKind, Name: pd.Name, Source: mod.Source, Err: err})
			continue
		}
		reports = append(reports, s.SolveProblem(ctx, prob))
	}

	failed := 0
	for _, r := range reports {
		if r.Status() != Accepted {
			failed++
		}
	}
	span.SetAttributes(attribute.Int("unify.reports", len(reports)), attribute.Int("unify.failed", failed))
	s.logger.Debug("checked", "source", mod.Source, "reports", len(reports), "failed", failed)
	return reports
}

func (s *Session) end(span trace.Span, rep Report) {
	status := rep.Status()
	span.SetAttributes(
		attribute.String("unify.status", status.String()),
		attribute.Int("unify.metas", len(s.metas.Metas(rep.Name))),
	)
	if rep.Err != nil {
		span.RecordError(rep.Err)
		span.SetStatus(codes.Error, status.String())
		s.logger.Debug(fmt.Sprintf("%s %s", rep.Kind, status), "name", rep.Name, "error", rep.Err.Error())
	}
	span.End()
}
