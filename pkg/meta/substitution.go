package meta

import (
	"fmt"
	"strings"

	"github.com/vito/unify/pkg/term"
)

// Solution is a metavariable's solution together with the context it is
// expressed in. The term mentions no variables beyond that context.
type Solution struct {
	Term    term.Term
	Context term.Context
}

func (s Solution) String() string {
	return term.Named(s.Context, s.Term).String()
}

// Substitution maps metavariables to their solutions. An occurrence
// ?m a1 .. an is replaced by the solution with a1 .. an substituted for the
// context variables.
type Substitution map[term.MetaID]Solution

// NewSubstitution creates an empty substitution.
func NewSubstitution() Substitution {
	return make(Substitution)
}

// Add adds a mapping and returns the updated substitution.
func (s Substitution) Add(id term.MetaID, sol Solution) Substitution {
	s[id] = sol
	return s
}

// Get gets the solution term for a metavariable.
func (s Substitution) Get(id term.MetaID) (term.Term, bool) {
	sol, ok := s[id]
	return sol.Term, ok
}

// Apply replaces every metavariable of t that s maps.
func (s Substitution) Apply(t term.Term) term.Term {
	if len(s) == 0 {
		return t
	}
	return term.ReplaceMetas(t, func(id term.MetaID, args []term.Term) (term.Term, bool) {
		sol, ok := s[id]
		if !ok {
			return nil, false
		}
		return instantiateOccurrence(s.Apply(sol.Term), len(sol.Context), args)
	})
}

// Compose returns the substitution that applies s and then other.
func (s Substitution) Compose(other Substitution) Substitution {
	result := make(Substitution, len(s)+len(other))
	for id, sol := range s {
		result[id] = Solution{Term: other.Apply(sol.Term), Context: sol.Context}
	}
	for id, sol := range other {
		if _, exists := result[id]; !exists {
			result[id] = sol
		}
	}
	return result
}

// Sorted returns the mapped metavariables in id order.
func (s Substitution) Sorted() []term.MetaID {
	set := term.NewMetaSet()
	for id := range s {
		set.Add(id)
	}
	return set.ToSlice()
}

func (s Substitution) String() string {
	parts := []string{}
	for _, id := range s.Sorted() {
		parts = append(parts, fmt.Sprintf("%s := %s", id, s[id]))
	}
	return "{" + strings.Join(parts, ", ") + "}"
}
