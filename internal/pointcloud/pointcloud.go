// Package pointcloud builds the normalized, coloured point sets of the chip
// explorer and resolves picked indices back to their records.
package pointcloud

import (
	"errors"
	"fmt"
	"math"
	"strconv"

	"github.com/KaramelBytes/dcviz/internal/dataset"
	"github.com/KaramelBytes/dcviz/internal/normalize"
)

// ErrNoPoint is returned for an index outside the current cloud.
var ErrNoPoint = errors.New("no point at index")

// LegendEntry is one colour swatch of a view legend.
type LegendEntry struct {
	Label string `json:"label"`
	Color string `json:"color"`
}

// Spec describes a view: its axes, caption, colour mapping and tooltip.
type Spec struct {
	View    dataset.ChipView
	Caption string
	Axes    [3]normalize.Axis
	Legend  []LegendEntry
	measure func(dataset.ChipRecord) [3]float64
	color   func(dataset.ChipRecord) string
	fields  func(dataset.ChipRecord) []Field
}

var vendorColors = map[dataset.Vendor]string{
	dataset.VendorAMD:    "#ff0000",
	dataset.VendorIntel:  "#0000ff",
	dataset.VendorNVIDIA: "#00ff00",
	dataset.VendorATI:    "#ff00ff",
	dataset.VendorOther:  "#ffffff",
}

var typeColors = map[dataset.ChipType]string{
	dataset.TypeCPU:   "#4facfe",
	dataset.TypeGPU:   "#ff0055",
	dataset.TypeOther: "#aaaaaa",
}

var specs = map[dataset.ChipView]*Spec{
	dataset.ViewTransistors: {
		View:    dataset.ViewTransistors,
		Caption: "X: Release Year | Y: Transistors (Log Scale) | Z: Process Size (nm)",
		Axes: [3]normalize.Axis{
			{Name: "Release Year", Scale: 100, Centered: true},
			{Name: "Transistors (log10 M)", Scale: 60, Log: true},
			{Name: "Process Size (nm)", Scale: 60, Centered: true},
		},
		Legend: legend(dataset.Vendors, func(v dataset.Vendor) (string, string) { return string(v), vendorColors[v] }),
		measure: func(r dataset.ChipRecord) [3]float64 {
			return [3]float64{r.Year, r.Transistors, r.ProcessSize}
		},
		color: func(r dataset.ChipRecord) string { return vendorColors[r.Vendor] },
		fields: func(r dataset.ChipRecord) []Field {
			return []Field{
				{"Vendor", r.RawVendor},
				{"Year", strconv.Itoa(int(math.Floor(r.Year)))},
				{"Transistors", fmtNum(r.Transistors) + " M"},
				{"Process", fmtNum(r.ProcessSize) + " nm"},
			}
		},
	},
	dataset.ViewPerformance: {
		View:    dataset.ViewPerformance,
		Caption: "X: Release Year | Y: Frequency (MHz) | Z: TDP (Watts)",
		Axes: [3]normalize.Axis{
			{Name: "Release Year", Scale: 120, Centered: true},
			{Name: "Frequency (MHz)", Scale: 60},
			{Name: "TDP (W)", Scale: 60, Centered: true},
		},
		Legend: legend(dataset.ChipTypes, func(t dataset.ChipType) (string, string) { return string(t), typeColors[t] }),
		measure: func(r dataset.ChipRecord) [3]float64 {
			return [3]float64{r.Year, r.Freq, r.TDP}
		},
		color: func(r dataset.ChipRecord) string { return typeColors[r.Type] },
		fields: func(r dataset.ChipRecord) []Field {
			return []Field{
				{"Type", r.RawType},
				{"Year", strconv.Itoa(int(math.Floor(r.Year)))},
				{"Freq", fmtNum(r.Freq) + " MHz"},
				{"TDP", fmtNum(r.TDP) + " W"},
			}
		},
	},
}

// SpecFor returns the view description.
func SpecFor(v dataset.ChipView) (*Spec, error) {
	s, ok := specs[v]
	if !ok {
		return nil, fmt.Errorf("%w %q", dataset.ErrUnknownView, v)
	}
	return s, nil
}

// Point is one positioned, coloured point.
type Point struct {
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	Z     float64 `json:"z"`
	Color string  `json:"color"`
}

// Cloud is the point set of one view. Points[i] was derived from Records[i];
// both slices are fixed for the lifetime of the cloud.
type Cloud struct {
	Spec       *Spec
	Points     []Point
	Records    []dataset.ChipRecord
	Projection normalize.Projection
}

// Build normalizes validated records for their view. The extents are computed
// over records only, so rows rejected upstream cannot widen them.
func Build(view dataset.ChipView, records []dataset.ChipRecord) (*Cloud, error) {
	spec, err := SpecFor(view)
	if err != nil {
		return nil, err
	}
	cols := [][]float64{
		make([]float64, len(records)),
		make([]float64, len(records)),
		make([]float64, len(records)),
	}
	for i, r := range records {
		m := spec.measure(r)
		for a := range cols {
			cols[a][i] = m[a]
		}
	}
	proj := normalize.Fit(spec.Axes[:], cols)
	c := &Cloud{
		Spec:       spec,
		Points:     make([]Point, len(records)),
		Records:    append([]dataset.ChipRecord(nil), records...),
		Projection: proj,
	}
	for i, r := range records {
		m := spec.measure(r)
		xyz := proj.Project(m[0], m[1], m[2])
		c.Points[i] = Point{X: xyz[0], Y: xyz[1], Z: xyz[2], Color: spec.color(r)}
	}
	return c, nil
}

// Len is the number of points.
func (c *Cloud) Len() int {
	if c == nil {
		return 0
	}
	return len(c.Points)
}

// Lookup resolves a picked index to its record in constant time.
func (c *Cloud) Lookup(i int) (dataset.ChipRecord, error) {
	if c == nil || i < 0 || i >= len(c.Records) {
		return dataset.ChipRecord{}, fmt.Errorf("%w %d", ErrNoPoint, i)
	}
	return c.Records[i], nil
}

// Overlay builds the hover overlay for index i.
func (c *Cloud) Overlay(i int) (Overlay, error) {
	r, err := c.Lookup(i)
	if err != nil {
		return Overlay{}, err
	}
	return Overlay{Title: r.Product, Fields: c.Spec.fields(r)}, nil
}

func legend[T any](items []T, f func(T) (string, string)) []LegendEntry {
	out := make([]LegendEntry, len(items))
	for i, it := range items {
		l, c := f(it)
		out[i] = LegendEntry{Label: l, Color: c}
	}
	return out
}

func fmtNum(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
