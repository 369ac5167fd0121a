package problem

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/pkg/errors"
)

func (e errList) Unwrap() []error {
	return e
}

func (p *parserError) Unwrap() error {
	return p.Inner
}

func (p *parserError) ParseErrorLocation() Pos {
	return Pos{
		Line:   p.pos.line,
		Column: p.pos.col,
	}
}

func (c current) Loc() Pos {
	return Pos{
		Line:   c.pos.line,
		Column: c.pos.col,
	}
}

// syntaxError turns an error from the generated parser into a *ParseError
// labelled with source.
func syntaxError(err error, source, src string) error {
	var perr *ParseError
	if errors.As(err, &perr) {
		perr.Source = source
		return perr
	}
	var pe *parserError
	if !errors.As(err, &pe) {
		return err
	}
	msg := pe.Inner.Error()
	if len(pe.expected) > 0 {
		msg = unexpected(src, pe.pos.offset, pe.expected)
	}
	return &ParseError{Source: source, Pos: pe.ParseErrorLocation(), Msg: msg}
}

func unexpected(src string, offset int, expected []string) string {
	found := "end of input"
	if offset < len(src) {
		r, _ := utf8.DecodeRuneInString(src[offset:])
		found = strconv.QuoteRune(r)
	}
	var want []string
	seen := map[string]bool{}
	for _, e := range expected {
		name, ok := expectation(e)
		if !ok || seen[name] {
			continue
		}
		seen[name] = true
		want = append(want, name)
	}
	if len(want) == 0 {
		return "unexpected " + found
	}
	return fmt.Sprintf("unexpected %s, expected %s", found, listJoin(want, ", ", "or"))
}

// expectation names a failed match for an error message. Whitespace,
// comments and lookaheads are left out.
func expectation(want string) (string, bool) {
	switch want {
	case "EOF":
		return "end of input", true
	case "[-\\pL\\pN_'+*<>]":
		return "identifier", true
	case "[ \\t\\r\\n]", `"--"`:
		return "", false
	}
	if strings.HasPrefix(want, "!") {
		return "", false
	}
	return want, true
}
