package internal

import (
	"iter"
	"maps"
	"slices"
)

// Concat2 concatenates multiple dual-return iterators into a single iterator sequence.
func Concat2[K any, V any](seqs ...iter.Seq2[K, V]) iter.Seq2[K, V] {
	return func(yield func(K, V) bool) {
		for _, seq := range seqs {
			for key, value := range seq {
				if !yield(key, value) {
					return
				}
			}
		}
	}
}

// Collect gathers a key/value sequence into a map. Later keys win.
func Collect[V any](seq iter.Seq2[string, V]) map[string]V {
	return maps.Collect(seq)
}

// SortedKeys returns the keys of a map in ascending order.
func SortedKeys[V any](m map[string]V) []string {
	return slices.Sorted(maps.Keys(m))
}
