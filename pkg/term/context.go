package term

import (
	"fmt"
	"strings"
)

// Binding is one entry of a local context.
type Binding struct {
	Name string
	Type Term
}

// Context is an ordered local context, outermost binding first. Variable #0
// refers to the last entry.
type Context []Binding

// Extend returns a copy of the context with one more binding.
func (ctx Context) Extend(name string, typ Term) Context {
	ext := make(Context, len(ctx), len(ctx)+1)
	copy(ext, ctx)
	return append(ext, Binding{Name: name, Type: typ})
}

// Lookup returns the binding for variable #index with its type shifted into
// the current scope.
func (ctx Context) Lookup(index int) (Binding, bool) {
	if index < 0 || index >= len(ctx) {
		return Binding{}, false
	}
	b := ctx[len(ctx)-1-index]
	if b.Type != nil {
		b.Type = Shift(b.Type, index+1, 0)
	}
	return b, true
}

// Index finds the innermost variable with the given name.
func (ctx Context) Index(name string) (int, bool) {
	for i := len(ctx) - 1; i >= 0; i-- {
		if ctx[i].Name == name {
			return len(ctx) - 1 - i, true
		}
	}
	return 0, false
}

// Names returns the binder names, outermost first.
func (ctx Context) Names() []string {
	names := make([]string, len(ctx))
	for i, b := range ctx {
		names[i] = b.Name
	}
	return names
}

// Vars returns the variables of the context as terms, outermost first, so
// that Apply(f, ctx.Vars()...) applies f to the whole context.
func (ctx Context) Vars() []Term {
	vars := make([]Term, len(ctx))
	for i := range ctx {
		vars[i] = Var{Index: len(ctx) - 1 - i, Name: ctx[i].Name}
	}
	return vars
}

func (ctx Context) String() string {
	parts := make([]string, len(ctx))
	for i, b := range ctx {
		if b.Type == nil {
			parts[i] = binderName(b.Name)
			continue
		}
		parts[i] = fmt.Sprintf("%s : %s", binderName(b.Name), b.Type)
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

// Named rewrites the variable name hints of t using the binder names of
// ctx, so that diagnostics print source names instead of indices.
func Named(ctx Context, t Term) Term {
	return named(ctx.Names(), t, nil)
}

func named(outer []string, t Term, inner []string) Term {
	switch t := t.(type) {
	case Var:
		if t.Index < len(inner) {
			t.Name = inner[len(inner)-1-t.Index]
			return t
		}
		j := t.Index - len(inner)
		if j < len(outer) {
			t.Name = outer[len(outer)-1-j]
		}
		return t
	case Const, Meta, Sort:
		return t
	case App:
		return App{Head: named(outer, t.Head, inner), Args: mapTerms(t.Args, func(a Term) Term {
			return named(outer, a, inner)
		})}
	case Lam:
		return Lam{Name: t.Name, Body: named(outer, t.Body, append(inner[:len(inner):len(inner)], t.Name))}
	case Pi:
		return Pi{
			Name:     t.Name,
			Domain:   named(outer, t.Domain, inner),
			Codomain: named(outer, t.Codomain, append(inner[:len(inner):len(inner)], t.Name)),
		}
	}
	panic(fmt.Sprintf("term: unknown node %T", t))
}
