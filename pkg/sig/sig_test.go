package sig

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vito/unify/pkg/term"
)

func listSignature(t *testing.T) *Signature {
	s := New()
	set := term.Sort{}
	// List : Set → Set
	require.NoError(t, s.AddData("List", term.Arrow(set, set),
		&Symbol{Name: "nil", Type: term.Pi{Name: "A", Domain: set, Codomain: term.C("List", term.V(0))}},
		&Symbol{Name: "cons", Type: term.Pi{Name: "A", Domain: set, Codomain: term.Arrow(term.V(0),
			term.Arrow(term.C("List", term.V(0)), term.C("List", term.V(0))))}},
	))
	return s
}

func TestAddData(t *testing.T) {
	s := listSignature(t)

	list, ok := s.Lookup("List")
	require.True(t, ok)
	assert.Equal(t, TypeFormer, list.Kind)
	assert.Equal(t, 1, list.Arity)

	cons, ok := s.Lookup("cons")
	require.True(t, ok)
	assert.Equal(t, Constructor, cons.Kind)
	assert.Equal(t, "List", cons.Data)
	assert.Equal(t, 3, cons.Arity)
	assert.True(t, cons.Rigid())

	names := []string{}
	for _, sym := range s.Symbols() {
		names = append(names, sym.Name)
	}
	assert.Equal(t, []string{"List", "nil", "cons"}, names)
}

func TestAddRejectsRedefinition(t *testing.T) {
	s := listSignature(t)
	err := s.Add(&Symbol{Name: "cons", Kind: Postulate})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already defined")
}

func TestAddChecksClauseShape(t *testing.T) {
	s := New()
	err := s.Add(&Symbol{
		Name:  "f",
		Kind:  Function,
		Arity: 2,
		Clauses: []Clause{
			{Patterns: []Pattern{PVar{Name: "x"}}, Vars: []string{"x"}, Body: term.V(0)},
		},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "expected 2")

	err = s.Add(&Symbol{
		Name:  "g",
		Kind:  Function,
		Arity: 1,
		Clauses: []Clause{
			{Patterns: []Pattern{PVar{Name: "x"}}, Vars: nil, Body: term.V(0)},
		},
	})
	require.Error(t, err)
}

func TestPatternTerms(t *testing.T) {
	// append (cons A x xs) ys: four variables, ys is #0
	cl := Clause{
		Patterns: []Pattern{
			PCon{Name: "cons", Args: []Pattern{PVar{Name: "A"}, PVar{Name: "x"}, PVar{Name: "xs"}}},
			PVar{Name: "ys"},
		},
		Vars: []string{"A", "x", "xs", "ys"},
		Body: term.V(0),
	}
	pts := cl.PatternTerms()
	require.Len(t, pts, 2)
	assert.True(t, term.Equal(term.C("cons", term.V(3), term.V(2), term.V(1)), pts[0]), pts[0].String())
	assert.True(t, term.Equal(term.V(0), pts[1]))

	pos, ok := cl.WholeArgument(term.Var{Index: 0})
	require.True(t, ok)
	assert.Equal(t, 1, pos)

	_, ok = cl.WholeArgument(term.Var{Index: 2})
	assert.False(t, ok, "xs is inside a constructor pattern")

	assert.Equal(t, "(cons A x xs) ys = ys", cl.String())
}

func TestClone(t *testing.T) {
	s := listSignature(t)
	c := s.Clone()
	require.NoError(t, c.Add(&Symbol{Name: "p", Kind: Postulate}))

	_, ok := s.Lookup("p")
	assert.False(t, ok)
	assert.NotEqual(t, s.Generation(), c.Generation())
}
