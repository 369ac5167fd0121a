// Package headed decides which pattern-matching functions can be inverted
// from the shape of their result.
//
// A function is constructor-headed when every clause body, reduced one
// level, either has a rigid head that no other clause shares or is one of
// the clause's own arguments returned whole. Only one level of unfolding is
// performed, so wrapping a headed helper in a further reducible call can
// make an otherwise invertible function NotHeaded.
package headed

import (
	"fmt"
	"strings"

	"github.com/vito/unify/pkg/reduce"
	"github.com/vito/unify/pkg/sig"
	"github.com/vito/unify/pkg/term"
)

// Kind classifies the head of one clause body.
type Kind int

const (
	// Rigid bodies are headed by a constructor, type former, Pi or sort.
	Rigid Kind = iota
	// Argument bodies return a whole argument pattern variable unchanged.
	Argument
	// Flexible bodies are anything else.
	Flexible
)

func (k Kind) String() string {
	switch k {
	case Rigid:
		return "rigid"
	case Argument:
		return "argument"
	case Flexible:
		return "flexible"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Head is the classified head of a clause body.
type Head struct {
	Kind Kind
	// Symbol is the rigid head, see RigidHead.
	Symbol string
	// Position is the argument returned by an Argument clause.
	Position int
	// Body is the clause body after one level of unfolding.
	Body term.Term
}

func (h Head) String() string {
	switch h.Kind {
	case Rigid:
		return h.Symbol
	case Argument:
		return fmt.Sprintf("argument %d", h.Position+1)
	}
	return fmt.Sprintf("flexible %s", h.Body)
}

// Verdict is the outcome of the analysis.
type Verdict int

const (
	NotHeaded Verdict = iota
	Headed
)

func (v Verdict) String() string {
	if v == Headed {
		return "Headed"
	}
	return "NotHeaded"
}

// Signature is the head signature of a function: one head per clause, in
// clause order.
type Signature struct {
	Function string
	Heads    []Head
	Verdict  Verdict
	// Reason explains a NotHeaded verdict.
	Reason string
}

func (s Signature) Headed() bool {
	return s.Verdict == Headed
}

// RigidClauses returns the clauses whose rigid head is symbol.
func (s Signature) RigidClauses(symbol string) []int {
	var out []int
	for i, h := range s.Heads {
		if h.Kind == Rigid && h.Symbol == symbol {
			out = append(out, i)
		}
	}
	return out
}

// ArgumentClauses returns the clauses that return one of their arguments.
func (s Signature) ArgumentClauses() []int {
	var out []int
	for i, h := range s.Heads {
		if h.Kind == Argument {
			out = append(out, i)
		}
	}
	return out
}

func (s Signature) String() string {
	heads := make([]string, len(s.Heads))
	for i, h := range s.Heads {
		heads[i] = h.String()
	}
	out := fmt.Sprintf("%s: %s [%s]", s.Function, s.Verdict, strings.Join(heads, ", "))
	if s.Reason != "" {
		out += " (" + s.Reason + ")"
	}
	return out
}

// RigidHead names the head of a term in weak head normal form when it is
// rigid: a constructor or type former, Pi, or a sort. Postulates are not
// rigid heads.
func RigidHead(s *sig.Signature, t term.Term) (string, bool) {
	head, _ := term.Spine(t)
	switch h := head.(type) {
	case term.Const:
		sym, ok := s.Lookup(h.Name)
		if ok && sym.Rigid() {
			return h.Name, true
		}
	case term.Pi:
		return "→", true
	case term.Sort:
		return h.String(), true
	}
	return "", false
}

// Analyze computes the head signature of a function. Each clause body is
// unfolded at most once.
func Analyze(r *reduce.Reducer, sym *sig.Symbol) Signature {
	hs := Signature{Function: sym.Name}
	if sym.Kind != sig.Function {
		hs.Reason = fmt.Sprintf("%s is a %s", sym.Name, sym.Kind)
		return hs
	}
	if len(sym.Clauses) == 0 {
		hs.Reason = "no clauses"
		return hs
	}

	for _, cl := range sym.Clauses {
		hs.Heads = append(hs.Heads, classify(r, cl))
	}

	seen := map[string]int{}
	for i, h := range hs.Heads {
		switch h.Kind {
		case Flexible:
			hs.Reason = fmt.Sprintf("clause %d returns %s", i+1, term.Named(sym.Clauses[i].Context(), h.Body))
			return hs
		case Rigid:
			if j, dup := seen[h.Symbol]; dup {
				hs.Reason = fmt.Sprintf("clauses %d and %d both return %s", j+1, i+1, h.Symbol)
				return hs
			}
			seen[h.Symbol] = i
		}
	}
	hs.Verdict = Headed
	return hs
}

func classify(r *reduce.Reducer, cl sig.Clause) Head {
	body, _ := r.UnfoldOnce(cl.Body)
	if symbol, ok := RigidHead(r.Signature(), body); ok {
		return Head{Kind: Rigid, Symbol: symbol, Body: body}
	}
	if v, ok := body.(term.Var); ok {
		if pos, ok := cl.WholeArgument(v); ok {
			return Head{Kind: Argument, Position: pos, Body: body}
		}
	}
	return Head{Kind: Flexible, Body: body}
}

// Cache remembers head signatures until the signature changes.
type Cache struct {
	reducer    *reduce.Reducer
	generation int
	entries    map[string]Signature
}

func NewCache(r *reduce.Reducer) *Cache {
	return &Cache{reducer: r, generation: -1}
}

// Lookup returns the head signature of the named function. It reports
// false for names that are not functions.
func (c *Cache) Lookup(name string) (Signature, bool) {
	s := c.reducer.Signature()
	if gen := s.Generation(); gen != c.generation {
		c.generation = gen
		c.entries = map[string]Signature{}
	}
	if hs, ok := c.entries[name]; ok {
		return hs, true
	}
	sym, ok := s.Lookup(name)
	if !ok || sym.Kind != sig.Function {
		return Signature{}, false
	}
	hs := Analyze(c.reducer, sym)
	c.entries[name] = hs
	return hs, true
}

// All analyzes every function of the signature, in definition order.
func (c *Cache) All() []Signature {
	var out []Signature
	for _, sym := range c.reducer.Signature().Symbols() {
		if sym.Kind != sig.Function {
			continue
		}
		hs, _ := c.Lookup(sym.Name)
		out = append(out, hs)
	}
	return out
}
