package unify_test

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/kr/pretty"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vito/unify/pkg/headed"
	"github.com/vito/unify/pkg/meta"
	"github.com/vito/unify/pkg/problem"
	"github.com/vito/unify/pkg/reduce"
	"github.com/vito/unify/pkg/sig"
	"github.com/vito/unify/pkg/term"
	"github.com/vito/unify/pkg/unify"
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

[[postulate]]
name = "f"
type = "Nat -> Nat -> Nat"

[[postulate]]
name = "g"
type = "Nat -> Nat"

[[function]]
name = "plus"
type = "Nat -> Nat -> Nat"
clauses = [
  "plus zero n = n",
  "plus (suc m) n = suc (plus m n)",
]

[[function]]
name = "append"
type = "(A : Set) -> List A -> List A -> List A"
clauses = [
  "append A (nil _) ys = ys",
  "append A (cons _ x xs) ys = cons A x (append A xs ys)",
]

[[function]]
name = "Code"
type = "Bool -> Set"
clauses = ["Code true = Bool", "Code false = Nat"]

[[function]]
name = "pick"
type = "Bool -> List Nat"
clauses = ["pick true = nil Nat", "pick false = cons Nat zero (nil Nat)"]

[[function]]
name = "Lists"
type = "Bool -> Set"
clauses = ["Lists true = List Bool", "Lists false = List Nat"]
`

type fixture struct {
	t     *testing.T
	sig   *sig.Signature
	store *meta.Store
	ph    *problem.Placeholders
	u     *unify.Unifier
}

// setup declares closed metavariables named metas, with store ids equal to
// their placeholder ids.
func setup(t *testing.T, opts unify.Options, metas ...string) *fixture {
	t.Helper()
	mod, err := problem.Read([]byte(prelude), problem.TOML)
	require.NoError(t, err)

	store := meta.NewStore()
	store.Begin("test")
	ph := problem.NewPlaceholders()
	for _, name := range metas {
		store.Fresh(nil, nil, name)
		ph.Declare(name)
	}
	r := reduce.New(mod.Signature, store)
	return &fixture{
		t:     t,
		sig:   mod.Signature,
		store: store,
		ph:    ph,
		u:     unify.New(r, headed.NewCache(r), store, opts),
	}
}

func (f *fixture) term(src string) term.Term {
	f.t.Helper()
	tm, err := problem.ParseTerm(f.sig, nil, f.ph, "", src)
	require.NoError(f.t, err)
	return tm
}

func (f *fixture) equation(src string) unify.Equation {
	f.t.Helper()
	lhs, rhs, err := problem.ParseEquation(f.sig, f.ph, "", src)
	require.NoError(f.t, err)
	return unify.Equation{LHS: lhs, RHS: rhs, Origin: src}
}

func (f *fixture) unify(src string) error {
	f.t.Helper()
	f.u.Add(f.equation(src))
	return f.u.Run()
}

func (f *fixture) solution(name string) string {
	f.t.Helper()
	id, ok := f.ph.Named[name]
	require.True(f.t, ok, "no metavariable %s", name)
	if _, solved := f.store.Lookup(id); !solved {
		return "unsolved"
	}
	return f.store.Instantiate(term.Meta{ID: id}).String()
}

func unificationError(t *testing.T, err error) *unify.UnificationError {
	t.Helper()
	var uerr *unify.UnificationError
	require.True(t, errors.As(err, &uerr), "expected a UnificationError, got %v", err)
	return uerr
}

func TestInjectivity(t *testing.T) {
	f := setup(t, unify.DefaultOptions(), "x")
	require.NoError(t, f.unify("cons Nat (suc zero) (nil Nat) = cons Nat ?x (nil Nat)"))
	assert.Equal(t, "suc zero", f.solution("x"))
	assert.Empty(t, f.u.Pending())

	f = setup(t, unify.DefaultOptions(), "x")
	err := f.unify("cons Nat zero (nil Nat) = cons Nat (suc ?x) (nil Nat)")
	uerr := unificationError(t, err)
	assert.Equal(t, unify.Mismatch, uerr.Reason)
	assert.Equal(t, "zero", uerr.LeftHead)
	assert.Equal(t, "suc", uerr.RightHead)
}

func TestConstructorMismatch(t *testing.T) {
	for _, src := range []string{
		"cons Nat (suc zero) (nil Nat) = nil Nat",
		"cons Nat ?x (nil Nat) = nil Nat",
		"cons ?A ?x ?xs = nil ?A",
		"nil Nat = cons Nat zero ?xs",
	} {
		t.Run(src, func(t *testing.T) {
			f := setup(t, unify.DefaultOptions(), "x", "xs", "A")
			uerr := unificationError(t, f.unify(src))
			assert.Equal(t, unify.Mismatch, uerr.Reason)
			assert.ElementsMatch(t, []string{"cons", "nil"}, []string{uerr.LeftHead, uerr.RightHead})
		})
	}
}

func TestMismatchMessage(t *testing.T) {
	f := setup(t, unify.DefaultOptions())
	err := f.unify("List Nat = List Bool")
	assert.EqualError(t, err, "cannot unify Nat with Bool: Nat ≠ Bool")

	f = setup(t, unify.DefaultOptions())
	err = f.unify("Set = Set1")
	assert.EqualError(t, err, "cannot unify Set with Set1: Set ≠ Set1")

	f = setup(t, unify.DefaultOptions())
	err = f.unify("Nat -> Nat = Nat")
	assert.EqualError(t, err, "cannot unify Nat → Nat with Nat: → ≠ Nat")
}

func TestOccursCheck(t *testing.T) {
	f := setup(t, unify.DefaultOptions(), "x")
	uerr := unificationError(t, f.unify("?x = suc ?x"))
	assert.Equal(t, unify.OccursCheck, uerr.Reason)
	assert.Equal(t, f.ph.Named["x"], uerr.Meta)
	assert.EqualError(t, uerr, "cannot unify ?0 with suc ?0: ?0 occurs in suc ?0")
	assert.Equal(t, "unsolved", f.solution("x"))

	// identical sides never reach the occurs check
	f = setup(t, unify.DefaultOptions(), "x")
	require.NoError(t, f.unify("?x = ?x"))
	require.NoError(t, f.unify("suc ?x = suc ?x"))
	assert.Equal(t, "unsolved", f.solution("x"))
}

func TestVariables(t *testing.T) {
	f := setup(t, unify.DefaultOptions())
	ctx := term.Context{{Name: "x", Type: term.C("Nat")}, {Name: "y", Type: term.C("Nat")}}

	require.NoError(t, f.u.Unify(term.C("g", term.V(1)), term.C("g", term.V(1)), ctx))

	err := f.u.Unify(term.V(1), term.V(0), ctx)
	uerr := unificationError(t, err)
	assert.Equal(t, unify.Mismatch, uerr.Reason)
	assert.Equal(t, "x", uerr.LeftHead)
	assert.Equal(t, "y", uerr.RightHead)
}

func permutations(n int) [][]int {
	if n == 0 {
		return [][]int{{}}
	}
	var out [][]int
	for _, p := range permutations(n - 1) {
		for i := 0; i <= len(p); i++ {
			q := append(append(append([]int{}, p[:i]...), n-1), p[i:]...)
			out = append(out, q)
		}
	}
	return out
}

func TestConfluence(t *testing.T) {
	for _, tc := range []struct {
		name      string
		metas     []string
		equations []string
		want      map[string]string
	}{
		{
			name:      "postponed arguments",
			metas:     []string{"X", "Y", "Z"},
			equations: []string{"?X = f ?Y ?Z", "?Y = suc zero", "?Z = suc (suc zero)"},
			want:      map[string]string{"X": "f (suc zero) (suc (suc zero))", "Y": "suc zero", "Z": "suc (suc zero)"},
		},
		{
			name:      "flipped sides",
			metas:     []string{"X", "Y", "Z"},
			equations: []string{"f ?Y ?Z = ?X", "suc zero = ?Y", "?Z = ?Y"},
			want:      map[string]string{"X": "f (suc zero) (suc zero)", "Y": "suc zero", "Z": "suc zero"},
		},
		{
			name:      "deferred inversion",
			metas:     []string{"N", "M"},
			equations: []string{"plus ?N ?M = suc (suc zero)", "?M = suc zero", "?N = suc zero"},
			want:      map[string]string{"N": "suc zero", "M": "suc zero"},
		},
	} {
		t.Run(tc.name, func(t *testing.T) {
			var first map[string]string
			for _, perm := range permutations(len(tc.equations)) {
				f := setup(t, unify.DefaultOptions(), tc.metas...)
				for _, i := range perm {
					require.NoError(t, f.unify(tc.equations[i]), "order %v", perm)
				}
				assert.Empty(t, f.u.Pending(), "order %v", perm)

				got := map[string]string{}
				for _, m := range tc.metas {
					got[m] = f.solution(m)
				}
				if first == nil {
					first = got
				}
				assert.Equal(t, tc.want, got, "order %v: %s", perm, pretty.Diff(tc.want, got))
				assert.Equal(t, first, got, "order %v", perm)
			}
		})
	}
}

func TestListScenarios(t *testing.T) {
	f := setup(t, unify.DefaultOptions(), "A")
	require.NoError(t, f.unify("List ?A = List Nat"))
	assert.Equal(t, "Nat", f.solution("A"))

	for _, order := range [][]string{
		{"List ?A = List (?B -> ?B)", "List ?A = List (Nat -> Nat)"},
		{"List ?A = List (Nat -> Nat)", "List ?A = List (?B -> ?B)"},
	} {
		f := setup(t, unify.DefaultOptions(), "A", "B")
		for _, src := range order {
			require.NoError(t, f.unify(src))
		}
		assert.Equal(t, "Nat → Nat", f.solution("A"))
		assert.Equal(t, "Nat", f.solution("B"))
	}
}

func TestInversion(t *testing.T) {
	f := setup(t, unify.DefaultOptions(), "b")
	require.NoError(t, f.unify("Code ?b = Nat"))
	assert.Equal(t, "false", f.solution("b"))

	f = setup(t, unify.DefaultOptions(), "b")
	uerr := unificationError(t, f.unify("Code ?b = List Nat"))
	assert.Equal(t, unify.Mismatch, uerr.Reason)
	assert.Equal(t, "Code", uerr.LeftHead)
	assert.Equal(t, "List", uerr.RightHead)
	assert.Equal(t, "no clause of Code returns List", uerr.Detail)

	// not constructor-headed: both clauses return List
	f = setup(t, unify.DefaultOptions(), "b")
	require.NoError(t, f.unify("Lists ?b = List Nat"))
	assert.Equal(t, "unsolved", f.solution("b"))
	require.Len(t, f.u.Pending(), 1)

	opts := unify.DefaultOptions()
	opts.Inversion = false
	f = setup(t, opts, "b")
	require.NoError(t, f.unify("Code ?b = Nat"))
	assert.Equal(t, "unsolved", f.solution("b"))
	assert.Equal(t, []unify.Equation{f.equation("Code ?b = Nat")}, f.u.Pending())
}

func TestArgumentHeaded(t *testing.T) {
	ctx := term.Context{
		{Name: "ys", Type: term.C("List", term.C("Nat"))},
		{Name: "zs", Type: term.C("List", term.C("Nat"))},
	}
	ys, zs := term.Var{Index: 1, Name: "ys"}, term.Var{Index: 0, Name: "zs"}
	nat := term.C("Nat")
	listNat := term.C("List", nat)

	t.Run("neutral argument does not block", func(t *testing.T) {
		f := setup(t, unify.DefaultOptions())
		xs := f.store.Fresh(ctx, listNat, "xs")
		x := f.store.Fresh(ctx, nat, "x")

		call := term.C("append", nat, xs.Occurrence(), ys)
		target := term.C("cons", nat, x.Occurrence(), ys)
		res := f.u.Step(unify.Equation{LHS: call, RHS: target, Context: ctx})
		require.Equal(t, unify.Simplified, res.Outcome)
		// three patterns, the type of the cons pattern, and the body
		require.Len(t, res.Equations, 5)

		require.NoError(t, f.u.Unify(call, term.C("cons", nat, term.C("zero"), ys), ctx))
		sol, ok := f.store.Lookup(xs.ID)
		require.True(t, ok)
		head, args := term.Spine(sol)
		assert.Equal(t, term.Const{Name: "cons"}, head)
		assert.Len(t, args, 3)

		// the tail is compared against a neutral list, which waits
		pending := f.u.Pending()
		require.Len(t, pending, 1)
		assert.Equal(t, "ys", pending[0].RHS.String())
	})

	t.Run("rigid argument with another head does not block", func(t *testing.T) {
		f := setup(t, unify.DefaultOptions())
		xs := f.store.Fresh(ctx, listNat, "xs")
		call := term.C("append", nat, xs.Occurrence(), term.C("nil", nat))
		res := f.u.Step(unify.Equation{LHS: call, RHS: term.C("cons", nat, term.C("zero"), term.C("nil", nat)), Context: ctx})
		assert.Equal(t, unify.Simplified, res.Outcome)
	})

	t.Run("call stuck on a bound variable does not block", func(t *testing.T) {
		bctx := term.Context{{Name: "b", Type: term.C("Bool")}}
		picked := term.C("pick", term.Var{Index: 0, Name: "b"})

		f := setup(t, unify.DefaultOptions())
		xs := f.store.Fresh(bctx, listNat, "xs")
		call := term.C("append", nat, xs.Occurrence(), picked)
		res := f.u.Step(unify.Equation{LHS: call, RHS: term.C("cons", nat, term.C("zero"), term.C("nil", nat)), Context: bctx})
		require.Equal(t, unify.Simplified, res.Outcome)

		// pick b is neutral, so the tail can never be nil
		f = setup(t, unify.DefaultOptions())
		xs = f.store.Fresh(bctx, listNat, "xs")
		call = term.C("append", nat, xs.Occurrence(), picked)
		uerr := unificationError(t, f.u.Unify(call, term.C("cons", nat, term.C("zero"), term.C("nil", nat)), bctx))
		assert.Equal(t, unify.Mismatch, uerr.Reason)
		assert.Equal(t, "no clause of append returns nil", uerr.Detail)
	})

	t.Run("call stuck on a metavariable blocks", func(t *testing.T) {
		f := setup(t, unify.DefaultOptions())
		xs := f.store.Fresh(ctx, listNat, "xs")
		c := f.store.Fresh(ctx, term.C("Bool"), "c")
		call := term.C("append", nat, xs.Occurrence(), term.C("pick", c.Occurrence()))
		res := f.u.Step(unify.Equation{LHS: call, RHS: term.C("cons", nat, term.C("zero"), ys), Context: ctx})
		assert.Equal(t, unify.Deferred, res.Outcome)
		assert.Equal(t, term.NewMetaSet(xs.ID, c.ID), res.Blockers)
	})

	t.Run("unsolved argument blocks", func(t *testing.T) {
		f := setup(t, unify.DefaultOptions())
		xs := f.store.Fresh(ctx, listNat, "xs")
		rest := f.store.Fresh(ctx, listNat, "rest")
		call := term.C("append", nat, xs.Occurrence(), rest.Occurrence())
		res := f.u.Step(unify.Equation{LHS: call, RHS: term.C("cons", nat, term.C("zero"), ys), Context: ctx})
		assert.Equal(t, unify.Deferred, res.Outcome)
		assert.Equal(t, term.NewMetaSet(xs.ID, rest.ID), res.Blockers)
	})

	t.Run("same rigid head blocks", func(t *testing.T) {
		f := setup(t, unify.DefaultOptions())
		xs := f.store.Fresh(ctx, listNat, "xs")
		call := term.C("append", nat, xs.Occurrence(), term.C("cons", nat, term.C("zero"), zs))
		res := f.u.Step(unify.Equation{LHS: call, RHS: term.C("cons", nat, term.C("zero"), ys), Context: ctx})
		assert.Equal(t, unify.Deferred, res.Outcome)
	})

	t.Run("neutral result defers", func(t *testing.T) {
		f := setup(t, unify.DefaultOptions())
		xs := f.store.Fresh(ctx, listNat, "xs")
		res := f.u.Step(unify.Equation{LHS: term.C("append", nat, xs.Occurrence(), ys), RHS: zs, Context: ctx})
		assert.Equal(t, unify.Deferred, res.Outcome)
	})
}

func TestInversionSolvesPatternTypes(t *testing.T) {
	f := setup(t, unify.DefaultOptions(), "xs")
	require.NoError(t, f.unify("append Nat ?xs (nil Nat) = cons Nat zero (nil Nat)"))
	assert.Equal(t, "cons Nat zero (nil Nat)", f.solution("xs"))
	assert.Empty(t, f.u.Pending())
	assert.Empty(t, f.store.Unsolved("test"))

	// the metas standing for cons _ x xs carry their constructor types
	for _, m := range f.store.Metas("test")[1:] {
		require.NotNil(t, m.Type, m.Origin)
	}
}

func TestInversionThroughArgumentClause(t *testing.T) {
	// only append's first clause can return nil
	f := setup(t, unify.DefaultOptions(), "xs", "ys")
	require.NoError(t, f.unify("append Nat ?xs ?ys = nil Nat"))
	assert.Equal(t, "nil Nat", f.solution("xs"))
	assert.Equal(t, "nil Nat", f.solution("ys"))
	assert.Empty(t, f.store.Unsolved("test"))
}

func TestScope(t *testing.T) {
	ctx := term.Context{{Name: "x", Type: term.C("Nat")}}

	// a closed metavariable cannot depend on x
	f := setup(t, unify.DefaultOptions(), "M")
	m := term.Meta{ID: f.ph.Named["M"]}
	require.NoError(t, f.u.Unify(m, term.C("suc", term.V(0)), ctx))
	assert.Equal(t, "unsolved", f.solution("M"))
	require.Len(t, f.u.Pending(), 1)

	f = setup(t, unify.DefaultOptions(), "M")
	m = term.Meta{ID: f.ph.Named["M"]}
	require.NoError(t, f.u.Unify(m, term.C("suc", term.C("zero")), ctx))
	assert.Equal(t, "suc zero", f.solution("M"))

	// a metavariable over [A] seen from under x
	f = setup(t, unify.DefaultOptions())
	outer := term.Context{{Name: "A", Type: term.Sort{}}}
	inner := outer.Extend("x", term.V(0))
	k := f.store.Fresh(outer, term.Sort{}, "k")
	occ := term.Shift(k.Occurrence(), 1, 0)
	require.NoError(t, f.u.Unify(occ, term.C("List", term.V(1)), inner))
	sol, ok := f.store.Lookup(k.ID)
	require.True(t, ok)
	assert.True(t, term.Equal(term.C("List", term.V(0)), sol), "got %s", sol)
}

func TestBinders(t *testing.T) {
	f := setup(t, unify.DefaultOptions(), "B")
	require.NoError(t, f.unify("Nat -> ?B = Nat -> Bool"))
	assert.Equal(t, "Bool", f.solution("B"))

	f = setup(t, unify.DefaultOptions(), "F")
	require.NoError(t, f.unify("?F = \\x -> suc x"))
	require.NoError(t, f.unify("\\y -> ?F y = \\z -> suc z"))
	assert.Empty(t, f.u.Pending())
}

func TestEta(t *testing.T) {
	f := setup(t, unify.DefaultOptions())
	require.NoError(t, f.unify("\\x -> g x = g"))
	require.NoError(t, f.unify("g = \\x -> g x"))

	opts := unify.DefaultOptions()
	opts.Eta = false
	f = setup(t, opts)
	uerr := unificationError(t, f.unify("\\x -> g x = g"))
	assert.Equal(t, "λ", uerr.LeftHead)
	assert.Equal(t, "g", uerr.RightHead)
}

func TestWake(t *testing.T) {
	f := setup(t, unify.DefaultOptions(), "F")
	require.NoError(t, f.unify("?F zero = suc zero"))
	require.Len(t, f.u.Pending(), 1)
	assert.Equal(t, term.NewMetaSet(f.ph.Named["F"]), f.u.Blockers())

	require.NoError(t, f.unify("?F = \\n -> suc n"))
	assert.Empty(t, f.u.Pending())
	assert.Empty(t, f.u.Blockers())
}

func TestMaxPasses(t *testing.T) {
	opts := unify.DefaultOptions()
	opts.MaxPasses = 1
	f := setup(t, opts, "N", "M")
	require.NoError(t, f.unify("plus ?N ?M = suc (suc zero)"))
	require.NoError(t, f.unify("?M = suc zero"))
	require.NoError(t, f.unify("?N = suc zero"))
	assert.Len(t, f.u.Pending(), 1)
}

func TestPermutations(t *testing.T) {
	assert.Len(t, permutations(3), 6)
	assert.Contains(t, permutations(3), []int{2, 0, 1})
}

func TestLogging(t *testing.T) {
	var buf bytes.Buffer
	opts := unify.DefaultOptions()
	opts.Logger = slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	f := setup(t, opts, "F", "x")
	require.NoError(t, f.unify("?F zero = suc zero"))
	require.NoError(t, f.unify("?F = \\n -> suc n"))
	require.NoError(t, f.unify("Code ?x = Bool"))

	out := buf.String()
	assert.Contains(t, out, "msg=defer")
	assert.Contains(t, out, "msg=wake")
	assert.Contains(t, out, "msg=assign")
	assert.Contains(t, out, "msg=invert")
	assert.Contains(t, out, "msg=step")
}
