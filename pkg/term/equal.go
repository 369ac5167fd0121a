package term

import "fmt"

// Equal reports whether a and b are alpha-equivalent. Binder and variable
// names are hints only, so this is structural equality of de Bruijn terms.
func Equal(a, b Term) bool {
	ha, as := Spine(a)
	hb, bs := Spine(b)
	if len(as) != len(bs) {
		return false
	}
	if len(as) > 0 {
		if !Equal(ha, hb) {
			return false
		}
		for i := range as {
			if !Equal(as[i], bs[i]) {
				return false
			}
		}
		return true
	}
	switch a := ha.(type) {
	case Var:
		bv, ok := hb.(Var)
		return ok && a.Index == bv.Index
	case Const:
		bc, ok := hb.(Const)
		return ok && a.Name == bc.Name
	case Meta:
		bm, ok := hb.(Meta)
		return ok && a.ID == bm.ID
	case Sort:
		bsort, ok := hb.(Sort)
		return ok && a.Level == bsort.Level
	case Lam:
		bl, ok := hb.(Lam)
		return ok && Equal(a.Body, bl.Body)
	case Pi:
		bp, ok := hb.(Pi)
		return ok && Equal(a.Domain, bp.Domain) && Equal(a.Codomain, bp.Codomain)
	}
	panic(fmt.Sprintf("term: unknown node %T", ha))
}

// Metas collects the metavariables occurring in t.
func Metas(t Term) MetaSet {
	set := NewMetaSet()
	collectMetas(t, set)
	return set
}

func collectMetas(t Term, set MetaSet) {
	switch t := t.(type) {
	case Meta:
		set.Add(t.ID)
	case App:
		collectMetas(t.Head, set)
		for _, a := range t.Args {
			collectMetas(a, set)
		}
	case Lam:
		collectMetas(t.Body, set)
	case Pi:
		collectMetas(t.Domain, set)
		collectMetas(t.Codomain, set)
	}
}

// Occurs reports whether metavariable id occurs in t.
func Occurs(id MetaID, t Term) bool {
	switch t := t.(type) {
	case Meta:
		return t.ID == id
	case App:
		if Occurs(id, t.Head) {
			return true
		}
		for _, a := range t.Args {
			if Occurs(id, a) {
				return true
			}
		}
		return false
	case Lam:
		return Occurs(id, t.Body)
	case Pi:
		return Occurs(id, t.Domain) || Occurs(id, t.Codomain)
	default:
		return false
	}
}

// FreeVars returns the indices of the variables free in t, relative to the
// scope t lives in.
func FreeVars(t Term) map[int]bool {
	vars := map[int]bool{}
	freeVars(t, 0, vars)
	return vars
}

func freeVars(t Term, depth int, vars map[int]bool) {
	switch t := t.(type) {
	case Var:
		if t.Index >= depth {
			vars[t.Index-depth] = true
		}
	case App:
		freeVars(t.Head, depth, vars)
		for _, a := range t.Args {
			freeVars(a, depth, vars)
		}
	case Lam:
		freeVars(t.Body, depth+1, vars)
	case Pi:
		freeVars(t.Domain, depth, vars)
		freeVars(t.Codomain, depth+1, vars)
	}
}

// MentionsVarBelow reports whether any free variable of t has an index
// smaller than n.
func MentionsVarBelow(t Term, n int) bool {
	for i := range FreeVars(t) {
		if i < n {
			return true
		}
	}
	return false
}
