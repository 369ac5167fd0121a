package term

import (
	"fmt"
	"strings"
)

// Term is a node of the core syntax the engine operates over. The set of
// variants is closed: Var, Const, Meta, App, Lam, Pi and Sort.
type Term interface {
	isTerm()
	fmt.Stringer
}

// MetaID identifies a metavariable within a store.
type MetaID int

func (id MetaID) String() string {
	return fmt.Sprintf("?%d", int(id))
}

// Var is a bound variable, as a de Bruijn index. Name is only a hint for
// printing and is ignored by Equal.
type Var struct {
	Index int
	Name  string
}

// Const is a global symbol: a type former, data constructor, function or
// postulate. What it is depends on the signature it is resolved against.
type Const struct {
	Name string
}

// Meta is a metavariable head. An occurrence of a metavariable created in a
// context of n variables is normally App{Meta, [#n-1 .. #0]}; see MetaApp.
type Meta struct {
	ID MetaID
}

// App is an application spine. Head is a Var, Const or Meta for terms built
// with Apply; a Lam head only appears transiently as a beta redex.
type App struct {
	Head Term
	Args []Term
}

// Lam is a lambda abstraction binding one variable in Body.
type Lam struct {
	Name string
	Body Term
}

// Pi is a dependent function type; Codomain is under one binder.
type Pi struct {
	Name     string
	Domain   Term
	Codomain Term
}

// Sort is a universe, Set(Level).
type Sort struct {
	Level int
}

func (Var) isTerm()   {}
func (Const) isTerm() {}
func (Meta) isTerm()  {}
func (App) isTerm()   {}
func (Lam) isTerm()   {}
func (Pi) isTerm()    {}
func (Sort) isTerm()  {}

func (v Var) String() string {
	if v.Name != "" {
		return v.Name
	}
	return fmt.Sprintf("#%d", v.Index)
}

func (c Const) String() string {
	return c.Name
}

func (m Meta) String() string {
	return m.ID.String()
}

func (a App) String() string {
	if len(a.Args) == 0 {
		return a.Head.String()
	}
	var b strings.Builder
	b.WriteString(atom(a.Head))
	for _, arg := range a.Args {
		b.WriteByte(' ')
		b.WriteString(atom(arg))
	}
	return b.String()
}

func (l Lam) String() string {
	return fmt.Sprintf("λ %s. %s", binderName(l.Name), l.Body)
}

func (p Pi) String() string {
	if p.Name == "" || p.Name == "_" {
		return fmt.Sprintf("%s → %s", arrowDomain(p.Domain), p.Codomain)
	}
	return fmt.Sprintf("(%s : %s) → %s", p.Name, p.Domain, p.Codomain)
}

func (s Sort) String() string {
	if s.Level == 0 {
		return "Set"
	}
	return fmt.Sprintf("Set%d", s.Level)
}

func binderName(name string) string {
	if name == "" {
		return "_"
	}
	return name
}

func atom(t Term) string {
	switch t := t.(type) {
	case App:
		if len(t.Args) == 0 {
			return atom(t.Head)
		}
		return "(" + t.String() + ")"
	case Lam, Pi:
		return "(" + t.String() + ")"
	default:
		return t.String()
	}
}

func arrowDomain(t Term) string {
	switch t.(type) {
	case Pi, Lam:
		return "(" + t.String() + ")"
	default:
		return t.String()
	}
}

// Apply applies head to args, flattening nested spines.
func Apply(head Term, args ...Term) Term {
	if len(args) == 0 {
		return head
	}
	if app, ok := head.(App); ok {
		spine := make([]Term, 0, len(app.Args)+len(args))
		spine = append(spine, app.Args...)
		spine = append(spine, args...)
		return App{Head: app.Head, Args: spine}
	}
	return App{Head: head, Args: args}
}

// Spine splits a term into its head and argument list. Non-application
// terms are their own head with no arguments.
func Spine(t Term) (Term, []Term) {
	if app, ok := t.(App); ok {
		if len(app.Args) == 0 {
			return Spine(app.Head)
		}
		head, inner := Spine(app.Head)
		if len(inner) == 0 {
			return head, app.Args
		}
		args := make([]Term, 0, len(inner)+len(app.Args))
		args = append(args, inner...)
		args = append(args, app.Args...)
		return head, args
	}
	return t, nil
}

// MetaApp is the occurrence of metavariable id created in a context of
// ctxLen variables: the metavariable applied to all of them, outermost first.
func MetaApp(id MetaID, ctxLen int) Term {
	if ctxLen == 0 {
		return Meta{ID: id}
	}
	args := make([]Term, ctxLen)
	for i := range args {
		args[i] = Var{Index: ctxLen - 1 - i}
	}
	return App{Head: Meta{ID: id}, Args: args}
}

// Arrow is the non-dependent function type from dom to cod. cod is given in
// the outer scope and shifted under the binder.
func Arrow(dom, cod Term) Term {
	return Pi{Domain: dom, Codomain: Shift(cod, 1, 0)}
}

// C is shorthand for applying a global symbol.
func C(name string, args ...Term) Term {
	return Apply(Const{Name: name}, args...)
}

// V is shorthand for a bound variable.
func V(index int) Term {
	return Var{Index: index}
}

// M is shorthand for a metavariable applied to args.
func M(id MetaID, args ...Term) Term {
	return Apply(Meta{ID: id}, args...)
}
