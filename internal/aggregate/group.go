// Package aggregate derives grouped statistics from validated records.
// Every function is pure: same input, same output, same order.
package aggregate

import (
	"cmp"
	"errors"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// ErrNoData is returned when a derivation has no validated record to work on.
var ErrNoData = errors.New("no data")

// Group is the summary of one distinct key.
type Group[K cmp.Ordered] struct {
	Key   K
	Count int
	Mean  float64
	Min   float64
	Max   float64
}

// GroupBy produces exactly one group per distinct key, in order of first
// appearance.
func GroupBy[T any, K cmp.Ordered](records []T, key func(T) K, measure func(T) float64) []Group[K] {
	index := map[K]int{}
	var keys []K
	var values [][]float64
	for _, r := range records {
		k := key(r)
		i, ok := index[k]
		if !ok {
			i = len(keys)
			index[k] = i
			keys = append(keys, k)
			values = append(values, nil)
		}
		values[i] = append(values[i], measure(r))
	}
	out := make([]Group[K], len(keys))
	for i, k := range keys {
		v := values[i]
		out[i] = Group[K]{
			Key:   k,
			Count: len(v),
			Mean:  stat.Mean(v, nil),
			Min:   floats.Min(v),
			Max:   floats.Max(v),
		}
	}
	return out
}

// SortByMean orders groups by ascending mean; equal means fall back to the key
// so the order never depends on input order.
func SortByMean[K cmp.Ordered](groups []Group[K]) {
	sort.SliceStable(groups, func(i, j int) bool {
		if groups[i].Mean != groups[j].Mean {
			return groups[i].Mean < groups[j].Mean
		}
		return groups[i].Key < groups[j].Key
	})
}

// SortByKey orders groups by ascending key.
func SortByKey[K cmp.Ordered](groups []Group[K]) {
	sort.SliceStable(groups, func(i, j int) bool { return groups[i].Key < groups[j].Key })
}

// Mean is the arithmetic mean of measure over records; ErrNoData when empty.
func Mean[T any](records []T, measure func(T) float64) (float64, error) {
	if len(records) == 0 {
		return 0, ErrNoData
	}
	v := make([]float64, len(records))
	for i, r := range records {
		v[i] = measure(r)
	}
	return stat.Mean(v, nil), nil
}
