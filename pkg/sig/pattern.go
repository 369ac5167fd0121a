package sig

import (
	"strings"

	"github.com/vito/unify/pkg/term"
)

// Pattern is a clause pattern: PVar or PCon.
type Pattern interface {
	isPattern()
	String() string
}

// PVar binds the matched argument to the next pattern variable.
type PVar struct {
	Name string
}

// PCon matches a constructor application.
type PCon struct {
	Name string
	Args []Pattern
}

func (PVar) isPattern() {}
func (PCon) isPattern() {}

func (p PVar) String() string { return p.Name }

func (p PCon) String() string {
	if len(p.Args) == 0 {
		return p.Name
	}
	parts := []string{p.Name}
	for _, a := range p.Args {
		parts = append(parts, patternAtom(a))
	}
	return strings.Join(parts, " ")
}

func patternAtom(p Pattern) string {
	if c, ok := p.(PCon); ok && len(c.Args) > 0 {
		return "(" + c.String() + ")"
	}
	return p.String()
}

func countVars(ps []Pattern) int {
	n := 0
	for _, p := range ps {
		switch p := p.(type) {
		case PVar:
			n++
		case PCon:
			n += countVars(p.Args)
		}
	}
	return n
}

// PatternTerm converts a pattern into the term it matches. first is the
// number of pattern variables bound before this pattern and total the
// number bound by the whole clause; variables are numbered as in a clause
// body. It returns the term and the number of variables consumed.
func PatternTerm(p Pattern, first, total int) (term.Term, int) {
	switch p := p.(type) {
	case PVar:
		return term.Var{Index: total - 1 - first, Name: p.Name}, 1
	case PCon:
		args := make([]term.Term, len(p.Args))
		used := 0
		for i, a := range p.Args {
			var n int
			args[i], n = PatternTerm(a, first+used, total)
			used += n
		}
		return term.C(p.Name, args...), used
	}
	panic("sig: unknown pattern")
}

// PatternTerms converts all of a clause's patterns, in order.
func (c Clause) PatternTerms() []term.Term {
	total := len(c.Vars)
	out := make([]term.Term, len(c.Patterns))
	used := 0
	for i, p := range c.Patterns {
		var n int
		out[i], n = PatternTerm(p, used, total)
		used += n
	}
	return out
}

// WholeArgument returns the argument position whose pattern is exactly the
// given clause-body variable, if any.
func (c Clause) WholeArgument(v term.Var) (int, bool) {
	for i, pt := range c.PatternTerms() {
		if pv, ok := pt.(term.Var); ok && pv.Index == v.Index {
			return i, true
		}
	}
	return 0, false
}
