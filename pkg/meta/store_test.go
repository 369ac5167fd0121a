package meta

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vito/unify/pkg/term"
)

func TestFreshStampsDefinition(t *testing.T) {
	s := NewStore()
	s.Begin("first")
	a := s.Fresh(nil, term.Sort{}, "first:1:3")
	s.Begin("second")
	b := s.Fresh(nil, term.Sort{}, "")

	assert.Equal(t, term.MetaID(0), a.ID)
	assert.Equal(t, term.MetaID(1), b.ID)
	assert.Equal(t, "first", a.Definition)
	assert.Equal(t, "second", b.Definition)
	assert.Equal(t, []*Meta{a}, s.Metas("first"))
}

func TestRecordIsAppendOnly(t *testing.T) {
	s := NewStore()
	m := s.Fresh(nil, term.Sort{}, "")

	require.NoError(t, s.Record(m.ID, term.C("Nat")))

	err := s.Record(m.ID, term.C("Bool"))
	var already *AlreadySolvedError
	require.True(t, errors.As(err, &already), "got %v", err)
	assert.Equal(t, "Nat", already.Existing.String())

	sol, ok := s.Lookup(m.ID)
	require.True(t, ok)
	assert.True(t, term.Equal(term.C("Nat"), sol))
}

func TestRecordRejectsEscapingVariables(t *testing.T) {
	s := NewStore()
	ctx := term.Context{}.Extend("A", term.Sort{})
	m := s.Fresh(ctx, term.Sort{}, "")

	require.Error(t, s.Record(m.ID, term.V(1)))
	require.NoError(t, s.Record(m.ID, term.C("List", term.V(0))))
}

func TestInstantiatePlugsArguments(t *testing.T) {
	s := NewStore()
	ctx := term.Context{}.Extend("A", term.Sort{})
	m := s.Fresh(ctx, term.Sort{}, "")
	require.NoError(t, s.Record(m.ID, term.C("List", term.V(0))))

	// ?0 Nat  ~>  List Nat
	got := s.Instantiate(term.M(m.ID, term.C("Nat")))
	assert.True(t, term.Equal(term.C("List", term.C("Nat")), got), got.String())
}

func TestInstantiateFollowsChains(t *testing.T) {
	s := NewStore()
	a := s.Fresh(nil, term.Sort{}, "")
	b := s.Fresh(nil, term.Sort{}, "")
	require.NoError(t, s.Record(a.ID, term.C("List", term.M(b.ID))))
	require.NoError(t, s.Record(b.ID, term.C("Nat")))

	got := s.Instantiate(term.M(a.ID))
	assert.True(t, term.Equal(term.C("List", term.C("Nat")), got), got.String())
}

func TestFinalizeReportsExactlyUnsolved(t *testing.T) {
	s := NewStore()
	s.Begin("def")
	a := s.Fresh(nil, term.C("Nat"), "def:2:7")
	b := s.Fresh(nil, term.Sort{}, "")
	require.NoError(t, s.Record(b.ID, term.C("Nat")))

	_, err := s.Finalize("def")
	var unresolved *UnresolvedError
	require.True(t, errors.As(err, &unresolved))
	assert.Equal(t, []term.MetaID{a.ID}, unresolved.IDs())
	assert.Contains(t, err.Error(), "?0 : Nat (def:2:7)")
}

func TestFinalizeInstantiatesInDependencyOrder(t *testing.T) {
	s := NewStore()
	s.Begin("def")
	x := s.Fresh(nil, term.Sort{}, "")
	y := s.Fresh(nil, term.Sort{}, "")
	z := s.Fresh(nil, term.Sort{}, "")
	// X := f Y Z, recorded before Y and Z are known
	require.NoError(t, s.Record(x.ID, term.C("f", term.M(y.ID), term.M(z.ID))))
	require.NoError(t, s.Record(z.ID, term.C("two")))
	require.NoError(t, s.Record(y.ID, term.C("one")))

	subs, err := s.Finalize("def")
	require.NoError(t, err)
	assert.Equal(t, []term.MetaID{0, 1, 2}, subs.Sorted())

	got, ok := subs.Get(x.ID)
	require.True(t, ok)
	assert.True(t, term.Equal(term.C("f", term.C("one"), term.C("two")), got), got.String())
	assert.Equal(t, "{?0 := f one two, ?1 := one, ?2 := two}", subs.String())
}

func TestFinalizeIgnoresOtherDefinitions(t *testing.T) {
	s := NewStore()
	s.Begin("a")
	s.Fresh(nil, term.Sort{}, "")
	s.Begin("b")
	m := s.Fresh(nil, term.Sort{}, "")
	require.NoError(t, s.Record(m.ID, term.C("Nat")))

	subs, err := s.Finalize("b")
	require.NoError(t, err)
	assert.Len(t, subs, 1)
}

func TestSubstitutionApplyAndCompose(t *testing.T) {
	ctx := term.Context{}.Extend("A", term.Sort{})
	s1 := NewSubstitution().Add(0, Solution{Term: term.C("List", term.V(0)), Context: ctx})
	s2 := NewSubstitution().Add(1, Solution{Term: term.C("Nat")})

	got := s1.Apply(term.M(0, term.M(1)))
	assert.True(t, term.Equal(term.C("List", term.M(1)), got), got.String())

	composed := s1.Compose(s2)
	got = composed.Apply(term.M(0, term.M(1)))
	assert.True(t, term.Equal(term.C("List", term.C("Nat")), got), got.String())
}
