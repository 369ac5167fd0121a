package reduce_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vito/unify/pkg/meta"
	"github.com/vito/unify/pkg/problem"
	"github.com/vito/unify/pkg/reduce"
	"github.com/vito/unify/pkg/sig"
	"github.com/vito/unify/pkg/term"
)

const prelude = `
[[data]]
name = "Nat"
type = "Set"
constructors = [
  { name = "zero", type = "Nat" },
  { name = "suc", type = "Nat -> Nat" },
]

[[data]]
name = "Bool"
type = "Set"
constructors = [
  { name = "true", type = "Bool" },
  { name = "false", type = "Bool" },
]

[[data]]
name = "List"
type = "Set -> Set"
constructors = [
  { name = "nil", type = "(A : Set) -> List A" },
  { name = "cons", type = "(A : Set) -> A -> List A -> List A" },
]

[[function]]
name = "one"
type = "Nat"
clauses = ["one = suc zero"]

[[function]]
name = "append"
type = "(A : Set) -> List A -> List A -> List A"
clauses = [
  "append A (nil _) ys = ys",
  "append A (cons _ x xs) ys = cons A x (append A xs ys)",
]

[[function]]
name = "isZero"
type = "Nat -> Bool"
clauses = [
  "isZero zero = true",
  "isZero (suc n) = false",
]

[[function]]
name = "first"
type = "Nat -> Nat -> Nat"
clauses = [
  "first zero y = y",
  "first x zero = x",
  "first (suc x) (suc y) = x",
]

[[function]]
name = "notA"
type = "Bool -> Bool"
clauses = ["notA true = false", "notA false = true"]

[[function]]
name = "notB"
type = "Bool -> Bool"
clauses = ["notB true = false", "notB false = true"]

[[function]]
name = "Code"
type = "Bool -> Set"
clauses = ["Code true = Bool", "Code false = Nat"]

[[function]]
name = "Wrap"
type = "Bool -> Set"
clauses = ["Wrap b = Code b"]
`

func setup(t *testing.T) (*sig.Signature, *meta.Store, *reduce.Reducer) {
	t.Helper()
	mod, err := problem.Read([]byte(prelude), problem.TOML)
	require.NoError(t, err)
	store := meta.NewStore()
	return mod.Signature, store, reduce.New(mod.Signature, store)
}

func parse(t *testing.T, s *sig.Signature, ctx term.Context, src string) term.Term {
	t.Helper()
	tm, err := problem.ParseTerm(s, ctx, nil, "", src)
	require.NoError(t, err)
	return tm
}

func TestWhnf(t *testing.T) {
	s, _, r := setup(t)

	for _, tc := range []struct {
		name string
		src  string
		want string
	}{
		{"beta", "(\\x -> suc x) zero", "suc zero"},
		{"delta", "one", "suc zero"},
		{"iota", "isZero (suc zero)", "false"},
		{"iota through delta", "isZero one", "false"},
		{"iota stops at head", "append Nat (cons Nat zero (nil Nat)) (nil Nat)", "cons Nat zero (append Nat (nil Nat) (nil Nat))"},
		{"extra arguments", "(\\f -> f) suc zero", "suc zero"},
		{"first match", "first zero zero", "zero"},
		{"constructor", "suc one", "suc one"},
	} {
		t.Run(tc.name, func(t *testing.T) {
			got := r.Whnf(parse(t, s, nil, tc.src))
			assert.Equal(t, tc.want, got.String())
		})
	}
}

func TestNormalize(t *testing.T) {
	s, _, r := setup(t)

	got := r.Normalize(parse(t, s, nil, "append Nat (cons Nat one (nil Nat)) (cons Nat zero (nil Nat))"))
	assert.Equal(t, "cons Nat (suc zero) (cons Nat zero (nil Nat))", got.String())

	// reduces under binders
	got = r.Normalize(parse(t, s, nil, "\\x -> (\\y -> suc y) x"))
	assert.True(t, term.Equal(term.Lam{Name: "x", Body: term.C("suc", term.V(0))}, got), "got %s", got)

	got = r.Normalize(parse(t, s, nil, "(b : Bool) -> Code true -> Code b"))
	assert.Equal(t, "(b : Bool) → Bool → Code b", got.String())
}

func TestStuck(t *testing.T) {
	s, _, r := setup(t)
	ctx := term.Context{{Name: "n", Type: term.C("Nat")}}

	t.Run("neutral variable", func(t *testing.T) {
		in := parse(t, s, ctx, "isZero n")
		assert.True(t, term.Equal(in, r.Whnf(in)))
	})

	t.Run("unsolved metavariable", func(t *testing.T) {
		in := term.C("isZero", term.M(0))
		assert.True(t, term.Equal(in, r.Whnf(in)))
	})

	t.Run("first clause blocks later ones", func(t *testing.T) {
		// the second clause would match, but the first needs n
		in := parse(t, s, ctx, "first n zero")
		assert.True(t, term.Equal(in, r.Whnf(in)))
	})

	t.Run("partial application", func(t *testing.T) {
		in := parse(t, s, nil, "append Nat (nil Nat)")
		assert.True(t, term.Equal(in, r.Whnf(in)))
	})
}

func TestSolvedMetas(t *testing.T) {
	s, store, r := setup(t)
	ctx := term.Context{{Name: "n", Type: term.C("Nat")}}

	m := store.Fresh(ctx, term.C("Nat"), "test")
	require.NoError(t, store.Record(m.ID, term.C("suc", term.V(0))))

	got := r.Whnf(term.C("isZero", m.Occurrence()))
	assert.Equal(t, "false", got.String())

	// the occurrence's argument replaces the solution's variable
	got = r.Normalize(term.M(m.ID, parse(t, s, nil, "one")))
	assert.Equal(t, "suc (suc zero)", got.String())

	assert.Equal(t, "isZero (suc zero)", r.Instantiate(term.C("isZero", term.M(m.ID, term.C("zero")))).String())
}

// Closures with identical clauses are different symbols. The reducer
// only identifies them once they are applied to constructors.
func TestClosuresAreNotCompared(t *testing.T) {
	s, _, r := setup(t)
	ctx := term.Context{{Name: "b", Type: term.C("Bool")}}

	a := r.Normalize(parse(t, s, nil, "notA"))
	b := r.Normalize(parse(t, s, nil, "notB"))
	assert.False(t, term.Equal(a, b))

	a = r.Normalize(parse(t, s, nil, "\\x -> notA x"))
	b = r.Normalize(parse(t, s, nil, "\\x -> notB x"))
	assert.False(t, term.Equal(a, b))

	a = r.Normalize(parse(t, s, ctx, "notA b"))
	b = r.Normalize(parse(t, s, ctx, "notB b"))
	assert.False(t, term.Equal(a, b))

	a = r.Normalize(parse(t, s, nil, "notA true"))
	b = r.Normalize(parse(t, s, nil, "notB true"))
	assert.True(t, term.Equal(a, b))
}

func TestUnfoldOnce(t *testing.T) {
	s, _, r := setup(t)

	got, unfolded := r.UnfoldOnce(parse(t, s, nil, "Wrap true"))
	assert.True(t, unfolded)
	assert.Equal(t, "Code true", got.String())

	got, unfolded = r.UnfoldOnce(parse(t, s, nil, "(\\b -> Code b) false"))
	assert.True(t, unfolded)
	assert.Equal(t, "Nat", got.String())

	got, unfolded = r.UnfoldOnce(parse(t, s, nil, "List Nat"))
	assert.False(t, unfolded)
	assert.Equal(t, "List Nat", got.String())
}
