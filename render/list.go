package render

import (
	"iter"
	"maps"
	"slices"
)

// RenderList is one bucket of tokens sorted by one policy.
type RenderList struct {
	Key    float32
	Tokens []*Token
	// Sorter overrides the compiler's default for this bucket.
	Sorter Sorter
}

func (l *RenderList) Len() int { return len(l.Tokens) }

// Sort orders the tokens with l.Sorter or def. Sorting is stable so the
// result does not depend on the starting order for sorters that order
// every pair.
func (l *RenderList) Sort(def Sorter) {
	s := l.Sorter
	if s == nil {
		s = def
	}
	SortTokens(l.Tokens, s)
}

// SortTokens sorts tokens in place with s.
func SortTokens(tokens []*Token, s Sorter) {
	slices.SortStableFunc(tokens, func(a, b *Token) int {
		switch {
		case s.Less(a, b):
			return -1
		case s.Less(b, a):
			return 1
		}
		return 0
	})
}

// RenderLists maps bucket keys to lists. Iteration is in ascending key order.
type RenderLists struct {
	lists map[float32]*RenderList
}

func newRenderLists() RenderLists {
	return RenderLists{lists: make(map[float32]*RenderList)}
}

// Get returns the list for key or nil.
func (r *RenderLists) Get(key float32) *RenderList {
	return r.lists[key]
}

func (r *RenderLists) getOrCreate(key float32, s Sorter) *RenderList {
	l, ok := r.lists[key]
	if !ok {
		l = &RenderList{Key: key, Sorter: s}
		r.lists[key] = l
	}
	return l
}

func (r *RenderLists) Len() int { return len(r.lists) }

// Keys returns the bucket keys in ascending order.
func (r *RenderLists) Keys() []float32 {
	return slices.Sorted(maps.Keys(r.lists))
}

// All yields the lists in ascending key order.
func (r *RenderLists) All() iter.Seq2[float32, *RenderList] {
	return func(yield func(float32, *RenderList) bool) {
		for _, k := range r.Keys() {
			if !yield(k, r.lists[k]) {
				return
			}
		}
	}
}

// Tokens is the total number of first-pass tokens.
func (r *RenderLists) Tokens() int {
	n := 0
	for _, l := range r.lists {
		n += len(l.Tokens)
	}
	return n
}

func (r *RenderLists) clearTokens() {
	for _, l := range r.lists {
		clear(l.Tokens)
		l.Tokens = l.Tokens[:0]
	}
}

func (r *RenderLists) deleteEmpty() {
	maps.DeleteFunc(r.lists, func(_ float32, l *RenderList) bool { return len(l.Tokens) == 0 })
}
