// Package normalize maps validated measures into the bounded coordinate cube
// of the point cloud.
package normalize

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

// Extent is the closed interval spanned by a set of values.
type Extent struct {
	Min, Max float64
	// Empty is set when the extent was computed over no values.
	Empty bool
}

// ExtentOf computes min and max over values. Callers pass validated values
// only; excluded rows must never widen an extent.
func ExtentOf(values []float64) Extent {
	if len(values) == 0 {
		return Extent{Empty: true}
	}
	return Extent{Min: floats.Min(values), Max: floats.Max(values)}
}

// Degenerate reports whether the extent cannot be interpolated over.
func (e Extent) Degenerate() bool {
	return e.Empty || e.Max <= e.Min || math.IsInf(e.Max-e.Min, 0) || math.IsNaN(e.Max-e.Min)
}

// Span is Max - Min, or 0 when degenerate.
func (e Extent) Span() float64 {
	if e.Degenerate() {
		return 0
	}
	return e.Max - e.Min
}

// Axis describes how one measure becomes a coordinate.
type Axis struct {
	Name  string
	Scale float64
	// Centered shifts the output by -Scale/2 so the axis is symmetric around 0.
	Centered bool
	// Log takes log10 of the measure before interpolation.
	Log bool
}

// Transform applies the axis pre-transform (log10 for log axes).
func (a Axis) Transform(v float64) float64 {
	if a.Log {
		return math.Log10(v)
	}
	return v
}

// Fit computes the extent of the transformed values.
func (a Axis) Fit(values []float64) Extent {
	tv := make([]float64, len(values))
	for i, v := range values {
		tv[i] = a.Transform(v)
	}
	return ExtentOf(tv)
}

// Map linearly interpolates an already transformed value into the axis range.
// A degenerate extent maps every value to the axis midpoint.
func (a Axis) Map(v float64, e Extent) float64 {
	t := 0.5
	if !e.Degenerate() {
		t = (v - e.Min) / e.Span()
	}
	if math.IsNaN(t) || math.IsInf(t, 0) {
		t = 0.5
	}
	c := t * a.Scale
	if a.Centered {
		c -= a.Scale / 2
	}
	return c
}

// Range is the declared output interval of the axis.
func (a Axis) Range() (lo, hi float64) {
	if a.Centered {
		return -a.Scale / 2, a.Scale / 2
	}
	return 0, a.Scale
}

// Midpoint is where values of a degenerate axis land.
func (a Axis) Midpoint() float64 {
	lo, hi := a.Range()
	return (lo + hi) / 2
}

// Projection is a fitted set of axes: one extent per axis.
type Projection struct {
	Axes    []Axis
	Extents []Extent
}

// Fit builds a projection from column-major values: columns[i] holds the raw
// measure of axis i for every record.
func Fit(axes []Axis, columns [][]float64) Projection {
	p := Projection{Axes: axes, Extents: make([]Extent, len(axes))}
	for i, a := range axes {
		if i < len(columns) {
			p.Extents[i] = a.Fit(columns[i])
		} else {
			p.Extents[i] = Extent{Empty: true}
		}
	}
	return p
}

// Project maps one record's raw measures (one per axis) to coordinates.
func (p Projection) Project(raw ...float64) []float64 {
	out := make([]float64, len(p.Axes))
	for i, a := range p.Axes {
		v := math.NaN()
		if i < len(raw) {
			v = a.Transform(raw[i])
		}
		out[i] = a.Map(v, p.Extents[i])
	}
	return out
}
