package meta

import (
	"fmt"

	"github.com/pkg/errors"
	"github.com/vito/unify/pkg/term"
)

// Meta is a metavariable: a placeholder for a term of type Type in the local
// context Context. Its solution slot is written at most once.
type Meta struct {
	ID      term.MetaID
	Type    term.Term
	Context term.Context
	// Origin is an opaque tag from the surface layer, such as a source
	// location, used in diagnostics only.
	Origin string
	// Definition is the definition being elaborated when the meta was
	// created.
	Definition string

	solution term.Term
}

// Solved reports whether the metavariable has a solution.
func (m *Meta) Solved() bool {
	return m.solution != nil
}

// Solution returns the recorded solution, or nil.
func (m *Meta) Solution() term.Term {
	return m.solution
}

// Occurrence returns the metavariable applied to its whole context.
func (m *Meta) Occurrence() term.Term {
	return term.MetaApp(m.ID, len(m.Context))
}

func (m *Meta) String() string {
	typ := "_"
	if m.Type != nil {
		typ = term.Named(m.Context, m.Type).String()
	}
	if m.Origin == "" {
		return fmt.Sprintf("%s : %s", m.ID, typ)
	}
	return fmt.Sprintf("%s : %s (%s)", m.ID, typ, m.Origin)
}

// Store is the arena of metavariables of one elaboration session, indexed
// by id. Solutions are append-only: once recorded they never change.
type Store struct {
	metas      []*Meta
	definition string
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{}
}

// Begin marks the start of elaborating definition; metas created from now
// on belong to it.
func (s *Store) Begin(definition string) {
	s.definition = definition
}

// Definition returns the definition currently being elaborated.
func (s *Store) Definition() string {
	return s.definition
}

// Fresh allocates a metavariable of type typ in context ctx.
func (s *Store) Fresh(ctx term.Context, typ term.Term, origin string) *Meta {
	m := &Meta{
		ID:         term.MetaID(len(s.metas)),
		Type:       typ,
		Context:    ctx,
		Origin:     origin,
		Definition: s.definition,
	}
	s.metas = append(s.metas, m)
	return m
}

// Get returns the metavariable with the given id.
func (s *Store) Get(id term.MetaID) (*Meta, bool) {
	if id < 0 || int(id) >= len(s.metas) {
		return nil, false
	}
	return s.metas[id], true
}

// Lookup returns the solution of id, if it has one.
func (s *Store) Lookup(id term.MetaID) (term.Term, bool) {
	m, ok := s.Get(id)
	if !ok || !m.Solved() {
		return nil, false
	}
	return m.solution, true
}

// Record writes the solution of id. The solution lives in the meta's
// context. Recording a second solution is an internal error.
func (s *Store) Record(id term.MetaID, t term.Term) error {
	m, ok := s.Get(id)
	if !ok {
		return errors.Errorf("record: unknown metavariable %s", id)
	}
	if m.Solved() {
		return &AlreadySolvedError{Meta: m, Existing: m.solution, Proposed: t}
	}
	for v := range term.FreeVars(t) {
		if v >= len(m.Context) {
			return errors.Errorf("record %s: solution %s escapes its context %s", id, t, m.Context)
		}
	}
	m.solution = t
	return nil
}

// Metas returns the metavariables created for definition, in creation
// order.
func (s *Store) Metas(definition string) []*Meta {
	var out []*Meta
	for _, m := range s.metas {
		if m.Definition == definition {
			out = append(out, m)
		}
	}
	return out
}

// Unsolved returns the metavariables of definition without a solution.
func (s *Store) Unsolved(definition string) []*Meta {
	var out []*Meta
	for _, m := range s.Metas(definition) {
		if !m.Solved() {
			out = append(out, m)
		}
	}
	return out
}

// Instantiate replaces every solved metavariable in t by its solution,
// recursively. No other reduction is performed, so the result may contain
// beta redexes when a solution is a lambda applied to further arguments.
func (s *Store) Instantiate(t term.Term) term.Term {
	return term.ReplaceMetas(t, func(id term.MetaID, args []term.Term) (term.Term, bool) {
		m, ok := s.Get(id)
		if !ok || !m.Solved() {
			return nil, false
		}
		return instantiateOccurrence(s.Instantiate(m.solution), len(m.Context), args)
	})
}

// Unfold instantiates a single occurrence ?id args of a solved
// metavariable, without looking into the arguments.
func (s *Store) Unfold(id term.MetaID, args []term.Term) (term.Term, bool) {
	m, ok := s.Get(id)
	if !ok || !m.Solved() {
		return nil, false
	}
	return instantiateOccurrence(m.solution, len(m.Context), args)
}

// instantiateOccurrence plugs the arguments of an occurrence into a
// solution that lives in a context of ctxLen variables.
func instantiateOccurrence(sol term.Term, ctxLen int, args []term.Term) (term.Term, bool) {
	if len(args) < ctxLen {
		return nil, false
	}
	env := make([]term.Term, ctxLen)
	for i := 0; i < ctxLen; i++ {
		env[i] = args[ctxLen-1-i]
	}
	return term.Apply(term.Subst(sol, env), args[ctxLen:]...), true
}

// Finalize closes elaboration of definition. When every metavariable
// created for it is solved, it returns their solutions instantiated in
// dependency order. Otherwise it returns an *UnresolvedError listing exactly
// the unsolved ones.
func (s *Store) Finalize(definition string) (Substitution, error) {
	if unsolved := s.Unsolved(definition); len(unsolved) > 0 {
		return nil, &UnresolvedError{Definition: definition, Metas: unsolved}
	}

	order, err := s.dependencyOrder(s.Metas(definition))
	if err != nil {
		return nil, err
	}

	subs := NewSubstitution()
	for _, id := range order {
		m, _ := s.Get(id)
		if m.Definition != definition {
			continue
		}
		subs.Add(id, Solution{
			Term:    subs.Apply(s.Instantiate(m.solution)),
			Context: m.Context,
		})
	}
	return subs, nil
}

// dependencyOrder sorts solved metas so that every meta comes after the
// metas its solution mentions.
func (s *Store) dependencyOrder(metas []*Meta) ([]term.MetaID, error) {
	const (
		visiting = iota + 1
		done
	)
	state := map[term.MetaID]int{}
	var order []term.MetaID
	var visit func(m *Meta) error
	visit = func(m *Meta) error {
		switch state[m.ID] {
		case done:
			return nil
		case visiting:
			return errors.Errorf("finalize: solution of %s depends on itself", m.ID)
		}
		state[m.ID] = visiting
		if m.Solved() {
			for _, dep := range term.Metas(m.solution).ToSlice() {
				if d, ok := s.Get(dep); ok {
					if err := visit(d); err != nil {
						return err
					}
				}
			}
		}
		state[m.ID] = done
		order = append(order, m.ID)
		return nil
	}
	for _, m := range metas {
		if err := visit(m); err != nil {
			return nil, err
		}
	}
	return order, nil
}
