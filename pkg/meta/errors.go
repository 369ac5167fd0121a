package meta

import (
	"fmt"
	"strings"

	"github.com/vito/unify/pkg/term"
)

// AlreadySolvedError is returned by Record when a metavariable already has
// a solution. It indicates a bug in the caller, not in the user's program.
type AlreadySolvedError struct {
	Meta     *Meta
	Existing term.Term
	Proposed term.Term
}

func (e *AlreadySolvedError) Error() string {
	return fmt.Sprintf("internal error: %s is already solved as %s (proposed %s)",
		e.Meta.ID, e.Existing, e.Proposed)
}

// UnresolvedError reports the metavariables of a definition that were
// never solved, and any constraints that were still waiting on them.
type UnresolvedError struct {
	Definition  string
	Metas       []*Meta
	Constraints []string
}

func (e *UnresolvedError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "unresolved metavariables in %s:", e.Definition)
	for _, m := range e.Metas {
		fmt.Fprintf(&b, "\n  %s", m)
	}
	if len(e.Constraints) > 0 {
		b.WriteString("\nunsolved constraints:")
		for _, c := range e.Constraints {
			fmt.Fprintf(&b, "\n  %s", c)
		}
	}
	return b.String()
}

// IDs returns the ids of the unresolved metavariables.
func (e *UnresolvedError) IDs() []term.MetaID {
	ids := make([]term.MetaID, len(e.Metas))
	for i, m := range e.Metas {
		ids[i] = m.ID
	}
	return ids
}
