package problem

import (
	"fmt"

	"github.com/vito/unify/pkg/sig"
	"github.com/vito/unify/pkg/term"
)

//go:generate go tool pigeon -optimize-parser -alternate-entrypoints Equation,Clause -o problem.peg.go problem.peg

// ParseError is a syntax or scoping error in a term or clause.
type ParseError struct {
	Source string
	Pos    Pos
	Msg    string
}

func (e *ParseError) Error() string {
	if e.Source == "" {
		return fmt.Sprintf("%s: %s", e.Pos, e.Msg)
	}
	return fmt.Sprintf("%s:%s: %s", e.Source, e.Pos, e.Msg)
}

// Placeholders allocates the metavariable ids that stand for holes and
// named metavariables in parsed terms. The elaborator replaces them with
// metavariables of its own store.
type Placeholders struct {
	// Holes maps each _ to its origin.
	Holes map[term.MetaID]string
	// Named maps ?X names to their ids.
	Named map[string]term.MetaID
	next  term.MetaID
}

// NewPlaceholders creates an empty allocator.
func NewPlaceholders() *Placeholders {
	return &Placeholders{
		Holes: map[term.MetaID]string{},
		Named: map[string]term.MetaID{},
	}
}

// Declare allocates an id for a named metavariable.
func (ph *Placeholders) Declare(name string) term.MetaID {
	id := ph.next
	ph.next++
	ph.Named[name] = id
	return id
}

func (ph *Placeholders) hole(origin string) term.MetaID {
	id := ph.next
	ph.next++
	ph.Holes[id] = origin
	return id
}

// parse runs the grammar from rule over src.
func parse(rule, source, src string) (any, error) {
	v, err := Parse(source, []byte(src), Entrypoint(rule))
	if err != nil {
		return nil, syntaxError(err, source, src)
	}
	return v, nil
}

// ParseTerm parses a term whose free names are resolved against ctx and
// the signature. source labels error positions and hole origins.
func ParseTerm(s *sig.Signature, ctx term.Context, ph *Placeholders, source, src string) (term.Term, error) {
	v, err := parse("Term", source, src)
	if err != nil {
		return nil, err
	}
	r := newResolver(s, ph, source)
	r.scope = ctx.Names()
	return r.term(toNode(v))
}

// ParseEquation parses "lhs = rhs".
func ParseEquation(s *sig.Signature, ph *Placeholders, source, src string) (term.Term, term.Term, error) {
	v, err := parse("Equation", source, src)
	if err != nil {
		return nil, nil, err
	}
	eq := v.(*equationNode)
	r := newResolver(s, ph, source)
	lhs, err := r.term(eq.lhs)
	if err != nil {
		return nil, nil, err
	}
	rhs, err := r.term(eq.rhs)
	if err != nil {
		return nil, nil, err
	}
	return lhs, rhs, nil
}

// ParseClause parses one defining equation "fn p1 .. pn = body" of fn.
func ParseClause(s *sig.Signature, fn, source, src string) (sig.Clause, error) {
	v, err := parse("Clause", source, src)
	if err != nil {
		return sig.Clause{}, err
	}
	r := newResolver(s, nil, source)
	r.self = fn
	return r.clause(v.(*clauseNode))
}
