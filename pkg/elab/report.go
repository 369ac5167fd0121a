package elab

import (
	"github.com/pkg/errors"

	"github.com/vito/unify/pkg/meta"
	"github.com/vito/unify/pkg/term"
	"github.com/vito/unify/pkg/unify"
)

// Kind says what a report is about.
type Kind int

const (
	DefinitionKind Kind = iota
	ProblemKind
)

func (k Kind) String() string {
	if k == ProblemKind {
		return "problem"
	}
	return "definition"
}

// Status summarizes a report.
type Status int

const (
	// Accepted: every metavariable was solved.
	Accepted Status = iota
	// Rejected: a definite error such as a mismatch.
	Rejected
	// Unresolved: some metavariables were never solved.
	Unresolved
)

func (s Status) String() string {
	switch s {
	case Accepted:
		return "accepted"
	case Rejected:
		return "rejected"
	default:
		return "unresolved"
	}
}

// Assignment is the solution found for a hole or declared metavariable.
type Assignment struct {
	// Name is ?X for declared metavariables and the source location for
	// holes.
	Name  string
	Value term.Term
}

// Report is the outcome of checking one definition or solving one problem.
type Report struct {
	Kind   Kind
	Name   string
	Source string
	// Type and Value are the instantiated definition, once accepted.
	Type  term.Term
	Value term.Term
	// Solutions lists holes or declared metavariables in source order.
	Solutions []Assignment
	Err       error
}

func (r Report) Status() Status {
	if r.Err == nil {
		return Accepted
	}
	var unresolved *meta.UnresolvedError
	if errors.As(r.Err, &unresolved) {
		return Unresolved
	}
	return Rejected
}

// Unresolved returns the unresolved metavariables of the report, if any.
func (r Report) Unresolved() []*meta.Meta {
	var unresolved *meta.UnresolvedError
	if errors.As(r.Err, &unresolved) {
		return unresolved.Metas
	}
	return nil
}

// Failure returns the unification failure behind a rejection, if any.
func (r Report) Failure() *unify.UnificationError {
	var uerr *unify.UnificationError
	if errors.As(r.Err, &uerr) {
		return uerr
	}
	return nil
}
