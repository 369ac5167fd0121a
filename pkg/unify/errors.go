package unify

import (
	"fmt"

	"github.com/vito/unify/pkg/term"
)

// Reason classifies a failed equation.
type Reason int

const (
	// Mismatch means two rigid terms have incompatible heads.
	Mismatch Reason = iota
	// OccursCheck means a metavariable's solution would mention itself.
	OccursCheck
	// Internal means an invariant of the engine was violated.
	Internal
)

func (r Reason) String() string {
	switch r {
	case Mismatch:
		return "mismatch"
	case OccursCheck:
		return "occurs check"
	case Internal:
		return "internal error"
	}
	return fmt.Sprintf("Reason(%d)", int(r))
}

// UnificationError is a definite failure to unify two terms.
type UnificationError struct {
	Reason Reason
	// LHS and RHS are the sides of the equation that failed, after
	// reduction to weak head normal form.
	LHS, RHS term.Term
	Context  term.Context
	// LeftHead and RightHead are the incompatible heads of a Mismatch.
	LeftHead, RightHead string
	// Meta is the metavariable of an OccursCheck failure.
	Meta term.MetaID
	// Detail adds context to Mismatch and Internal failures.
	Detail string
	// Origin is the origin of the equation.
	Origin string
}

func (e *UnificationError) Error() string {
	lhs := term.Named(e.Context, e.LHS)
	rhs := term.Named(e.Context, e.RHS)
	switch e.Reason {
	case Mismatch:
		msg := fmt.Sprintf("cannot unify %s with %s: %s ≠ %s", lhs, rhs, e.LeftHead, e.RightHead)
		if e.Detail != "" {
			msg += " (" + e.Detail + ")"
		}
		return msg
	case OccursCheck:
		return fmt.Sprintf("cannot unify %s with %s: %s occurs in %s", lhs, rhs, e.Meta, rhs)
	default:
		return fmt.Sprintf("internal error unifying %s with %s: %s", lhs, rhs, e.Detail)
	}
}
