package problem

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/vito/unify/pkg/sig"
	"github.com/vito/unify/pkg/term"
)

// Pos is a 1-based line and column in a source string.
type Pos struct {
	Line   int
	Column int
}

func (p Pos) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

// node is a term as written, before names are resolved.
type node interface {
	pos() Pos
}

type nameNode struct {
	at   Pos
	name string
}

type holeNode struct {
	at Pos
}

type metaNode struct {
	at   Pos
	name string
}

type appNode struct {
	head node
	args []node
}

type lamNode struct {
	at    Pos
	names []string
	body  node
}

// piNode is (x y : A) (z : B) -> C.
type piNode struct {
	at   Pos
	tels []telescope
	cod  node
}

type telescope struct {
	names []string
	dom   node
}

type arrowNode struct {
	dom, cod node
}

type equationNode struct {
	lhs, rhs node
}

type clauseNode struct {
	head *nameNode
	pats []*patternNode
	body node
}

// patternNode is _, a name, or a parenthesized name applied to patterns.
type patternNode struct {
	at   Pos
	name string
	hole bool
	args []*patternNode
}

func (n *nameNode) pos() Pos  { return n.at }
func (n *holeNode) pos() Pos  { return n.at }
func (n *metaNode) pos() Pos  { return n.at }
func (n *appNode) pos() Pos   { return n.head.pos() }
func (n *lamNode) pos() Pos   { return n.at }
func (n *piNode) pos() Pos    { return n.at }
func (n *arrowNode) pos() Pos { return n.dom.pos() }

// Helpers for grammar actions. Values from a failed action may be nil, so
// none of these assume a type.

func toNode(v any) node {
	n, _ := v.(node)
	return n
}

// firstOf picks the first element of each matched sequence.
func firstOf(v any) []any {
	return nthOf(v, 0)
}

// secondOf picks the second element of each matched sequence, skipping
// the leading whitespace.
func secondOf(v any) []any {
	return nthOf(v, 1)
}

func nthOf(v any, i int) []any {
	seqs, _ := v.([]any)
	out := make([]any, 0, len(seqs))
	for _, s := range seqs {
		if seq, ok := s.([]any); ok && len(seq) > i {
			out = append(out, seq[i])
		}
	}
	return out
}

func firstStrings(v any) []string {
	var out []string
	for _, s := range firstOf(v) {
		if str, ok := s.(string); ok {
			out = append(out, str)
		}
	}
	return out
}

func newApp(head any, args []any) node {
	if len(args) == 0 {
		return toNode(head)
	}
	app := &appNode{head: toNode(head)}
	for _, a := range args {
		app.args = append(app.args, toNode(a))
	}
	return app
}

func newPi(at Pos, tels []any, cod any) node {
	pi := &piNode{at: at, cod: toNode(cod)}
	for _, t := range tels {
		if tel, ok := t.(telescope); ok {
			pi.tels = append(pi.tels, tel)
		}
	}
	return pi
}

func newClause(head any, pats []any, body any) *clauseNode {
	cl := &clauseNode{body: toNode(body)}
	cl.head, _ = head.(*nameNode)
	for _, p := range pats {
		if pat, ok := p.(*patternNode); ok {
			cl.pats = append(cl.pats, pat)
		}
	}
	return cl
}

func applyPattern(head any, args []any) *patternNode {
	pat, _ := head.(*patternNode)
	if pat == nil || len(args) == 0 {
		return pat
	}
	app := *pat
	for _, a := range args {
		if arg, ok := a.(*patternNode); ok {
			app.args = append(app.args, arg)
		}
	}
	return &app
}

// resolver turns syntax into terms, resolving names against a scope of
// bound variables and the signature.
type resolver struct {
	sig    *sig.Signature
	ph     *Placeholders
	source string
	scope  []string
	// self is a function whose clauses are being parsed; it may be
	// referenced before it is added to the signature.
	self string
}

func newResolver(s *sig.Signature, ph *Placeholders, source string) *resolver {
	if ph == nil {
		ph = NewPlaceholders()
	}
	return &resolver{sig: s, ph: ph, source: source}
}

func (r *resolver) errorf(at Pos, format string, args ...any) error {
	return &ParseError{Source: r.source, Pos: at, Msg: fmt.Sprintf(format, args...)}
}

// bind extends the scope for the duration of a resolution.
func (r *resolver) bind(names ...string) func() {
	depth := len(r.scope)
	r.scope = append(r.scope, names...)
	return func() { r.scope = r.scope[:depth] }
}

func (r *resolver) term(n node) (term.Term, error) {
	switch n := n.(type) {
	case *nameNode:
		return r.name(n)
	case *holeNode:
		origin := n.at.String()
		if r.source != "" {
			origin = r.source + ":" + origin
		}
		return term.Meta{ID: r.ph.hole(origin)}, nil
	case *metaNode:
		id, ok := r.ph.Named[n.name]
		if !ok {
			return nil, r.errorf(n.at, "undeclared metavariable ?%s", n.name)
		}
		return term.Meta{ID: id}, nil
	case *appNode:
		head, err := r.term(n.head)
		if err != nil {
			return nil, err
		}
		args := make([]term.Term, len(n.args))
		for i, a := range n.args {
			if args[i], err = r.term(a); err != nil {
				return nil, err
			}
		}
		return term.Apply(head, args...), nil
	case *lamNode:
		unbind := r.bind(n.names...)
		body, err := r.term(n.body)
		unbind()
		if err != nil {
			return nil, err
		}
		for i := len(n.names) - 1; i >= 0; i-- {
			body = term.Lam{Name: n.names[i], Body: body}
		}
		return body, nil
	case *piNode:
		return r.pi(n)
	case *arrowNode:
		dom, err := r.term(n.dom)
		if err != nil {
			return nil, err
		}
		// the codomain of a non-dependent arrow sees an anonymous binder
		unbind := r.bind("")
		cod, err := r.term(n.cod)
		unbind()
		if err != nil {
			return nil, err
		}
		return term.Pi{Name: "_", Domain: dom, Codomain: cod}, nil
	}
	return nil, errors.Errorf("problem: unexpected syntax %T", n)
}

func (r *resolver) pi(n *piNode) (term.Term, error) {
	type binder struct {
		name string
		dom  term.Term
	}
	var binders []binder
	defer r.bind()()
	for _, tel := range n.tels {
		dom, err := r.term(tel.dom)
		if err != nil {
			return nil, err
		}
		// (x y : A) binds y under x, so later names see a shifted A
		for i, name := range tel.names {
			binders = append(binders, binder{name: name, dom: term.Shift(dom, i, 0)})
		}
		r.scope = append(r.scope, tel.names...)
	}
	cod, err := r.term(n.cod)
	if err != nil {
		return nil, err
	}
	for i := len(binders) - 1; i >= 0; i-- {
		cod = term.Pi{Name: binders[i].name, Domain: binders[i].dom, Codomain: cod}
	}
	return cod, nil
}

func (r *resolver) name(n *nameNode) (term.Term, error) {
	for i := len(r.scope) - 1; i >= 0; i-- {
		if r.scope[i] == n.name {
			return term.Var{Index: len(r.scope) - 1 - i, Name: n.name}, nil
		}
	}
	if level, ok := sortLevel(n.name); ok {
		return term.Sort{Level: level}, nil
	}
	if _, ok := r.sig.Lookup(n.name); ok || n.name == r.self {
		return term.Const{Name: n.name}, nil
	}
	return nil, r.errorf(n.at, "unknown name %s", n.name)
}

func sortLevel(name string) (int, bool) {
	if name == "Set" {
		return 0, true
	}
	rest, ok := strings.CutPrefix(name, "Set")
	if !ok || rest == "" {
		return 0, false
	}
	n, err := strconv.Atoi(rest)
	if err != nil || n < 0 {
		return 0, false
	}
	return n, true
}

func (r *resolver) clause(n *clauseNode) (sig.Clause, error) {
	if n.head == nil || n.head.name != r.self {
		var at Pos
		if n.head != nil {
			at = n.head.at
		}
		return sig.Clause{}, r.errorf(at, "clause must start with %s", r.self)
	}
	var pats []sig.Pattern
	var vars []string
	for _, p := range n.pats {
		pat, err := r.pattern(p, &vars)
		if err != nil {
			return sig.Clause{}, err
		}
		pats = append(pats, pat)
	}

	r.scope = append([]string(nil), vars...)
	body, err := r.term(n.body)
	if err != nil {
		return sig.Clause{}, err
	}
	if len(r.ph.Holes) > 0 {
		return sig.Clause{}, r.errorf(n.head.at, "clause bodies may not contain holes")
	}
	return sig.Clause{Patterns: pats, Vars: vars, Body: body}, nil
}

// pattern resolves one clause pattern, appending the variables it binds
// to vars from left to right. Only constructors take arguments.
func (r *resolver) pattern(p *patternNode, vars *[]string) (sig.Pattern, error) {
	if p.hole {
		if len(p.args) > 0 {
			return nil, r.errorf(p.at, "_ is not a constructor")
		}
		*vars = append(*vars, "_")
		return sig.PVar{Name: "_"}, nil
	}
	if !r.isConstructor(p.name) {
		if len(p.args) > 0 {
			return nil, r.errorf(p.at, "%s is not a constructor", p.name)
		}
		*vars = append(*vars, p.name)
		return sig.PVar{Name: p.name}, nil
	}
	con := sig.PCon{Name: p.name}
	for _, a := range p.args {
		arg, err := r.pattern(a, vars)
		if err != nil {
			return nil, err
		}
		con.Args = append(con.Args, arg)
	}
	return con, nil
}

func (r *resolver) isConstructor(name string) bool {
	sym, ok := r.sig.Lookup(name)
	return ok && sym.Kind == sig.Constructor
}
