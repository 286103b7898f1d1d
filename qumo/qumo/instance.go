// Package qumo lowers an unconstrained quadratic model into the canonical
// QUMO tuple: an objective of the form
// ½xᵀQx + cᵀx + k with Q sparse, a distinguished binary subset of
// variables, and the rest continuous in [0,1].
package qumo

import "sort"

// Triple is one coordinate-form entry of the sparse Q matrix.
type Triple struct {
	I, J int // 0-based indices into C/Names
	V    float64
}

// Instance is the QUMO artifact the reducer pipeline produces.
type Instance struct {
	Q        []Triple
	C        []float64
	K        float64
	Binaries []int // sorted, 0-based
	Names    []string
}

// SortedBinaries returns a defensive copy of Binaries, sorted ascending.
// Binaries is already expected to be sorted by Extract; this exists so
// callers that received an Instance from an untrusted source can
// normalise it before relying on sortedness.
func SortedBinaries(binaries []int) []int {
	out := append([]int(nil), binaries...)
	sort.Ints(out)
	return out
}
