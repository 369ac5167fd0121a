package elab

import (
	"fmt"

	"github.com/vito/unify/pkg/term"
)

// TypeError is an elaboration failure that is not an equation between two
// terms, such as applying something that is not a function.
type TypeError struct {
	Term    term.Term
	Context term.Context
	Msg     string
}

func (e *TypeError) Error() string {
	if e.Term == nil {
		return e.Msg
	}
	return fmt.Sprintf("%s: %s", term.Named(e.Context, e.Term), e.Msg)
}
