package term

import "sort"

// MetaSet represents a set of metavariables
type MetaSet map[MetaID]bool

// NewMetaSet creates a new MetaSet
func NewMetaSet(ids ...MetaID) MetaSet {
	set := make(MetaSet)
	for _, id := range ids {
		set[id] = true
	}
	return set
}

// Union returns the union of two MetaSets
func (ms MetaSet) Union(other MetaSet) MetaSet {
	result := make(MetaSet, len(ms)+len(other))
	for id := range ms {
		result[id] = true
	}
	for id := range other {
		result[id] = true
	}
	return result
}

// Contains checks if a metavariable is in the set
func (ms MetaSet) Contains(id MetaID) bool {
	return ms[id]
}

// Add adds a metavariable to the set
func (ms MetaSet) Add(id MetaID) {
	ms[id] = true
}

// Remove removes a metavariable from the set
func (ms MetaSet) Remove(id MetaID) {
	delete(ms, id)
}

// ToSlice converts the set to a slice ordered by id.
func (ms MetaSet) ToSlice() []MetaID {
	result := make([]MetaID, 0, len(ms))
	for id := range ms {
		result = append(result, id)
	}
	sort.Slice(result, func(i, j int) bool { return result[i] < result[j] })
	return result
}
