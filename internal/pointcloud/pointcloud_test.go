package pointcloud

import (
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KaramelBytes/dcviz/internal/dataset"
)

func chips(t *testing.T, view dataset.ChipView) *dataset.Result[dataset.ChipRecord] {
	t.Helper()
	doc := "Product,Type,Release Date,Process Size (nm),TDP (W),Transistors (million),Freq (GHz),Vendor\n" +
		"Pentium,CPU,1993-03-22,800,15,3.1,60,Intel\n" +
		"Athlon,CPU,1999-06-23,250,42,22,500,AMD\n" +
		"Broken,CPU,2001-01-01,abc,,1e9,9999,Intel\n" +
		"Radeon 9700,GPU,2002-08-19,150,37,107,325,ATI\n" +
		"H100,GPU,2022-03-22,4,700,80000,1755,NVIDIA\n"
	tbl, err := dataset.ReadTable(strings.NewReader(doc), "chips.csv")
	require.NoError(t, err)
	return dataset.DecodeChips(tbl, view, nil)
}

func TestBuildTransistors(t *testing.T) {
	res := chips(t, dataset.ViewTransistors)
	c, err := Build(dataset.ViewTransistors, res.Records)
	require.NoError(t, err)
	assert.Equal(t, len(res.Records), c.Len(), "one point per validated record")
	assert.Equal(t, 4, c.Len())

	for i, p := range c.Points {
		for a, v := range []float64{p.X, p.Y, p.Z} {
			lo, hi := c.Spec.Axes[a].Range()
			assert.False(t, math.IsNaN(v))
			assert.GreaterOrEqual(t, v, lo-1e-9, "point %d axis %d", i, a)
			assert.LessOrEqual(t, v, hi+1e-9, "point %d axis %d", i, a)
		}
	}
	// the rejected row's huge transistor count must not stretch the Y extent
	assert.InDelta(t, math.Log10(80000), c.Projection.Extents[1].Max, 1e-9)
	assert.Equal(t, "#0000ff", c.Points[0].Color)
	assert.Equal(t, "#ff00ff", c.Points[2].Color)
}

func TestBuildPerformanceColours(t *testing.T) {
	res := chips(t, dataset.ViewPerformance)
	c, err := Build(dataset.ViewPerformance, res.Records)
	require.NoError(t, err)
	require.Equal(t, 4, c.Len())
	assert.Equal(t, "#4facfe", c.Points[0].Color)
	assert.Equal(t, "#ff0055", c.Points[3].Color)
	assert.InDelta(t, 0, c.Points[0].Y, 1e-9, "lowest frequency sits at the bottom of a non-centered axis")
}

func TestLookupIndexParity(t *testing.T) {
	res := chips(t, dataset.ViewTransistors)
	c, err := Build(dataset.ViewTransistors, res.Records)
	require.NoError(t, err)
	for i := range c.Points {
		r, err := c.Lookup(i)
		require.NoError(t, err)
		assert.Equal(t, res.Records[i].Product, r.Product)
	}
	_, err = c.Lookup(c.Len())
	assert.ErrorIs(t, err, ErrNoPoint)
	_, err = c.Lookup(-1)
	assert.ErrorIs(t, err, ErrNoPoint)

	var nilCloud *Cloud
	_, err = nilCloud.Lookup(0)
	assert.ErrorIs(t, err, ErrNoPoint)
}

func TestOverlay(t *testing.T) {
	res := chips(t, dataset.ViewTransistors)
	c, err := Build(dataset.ViewTransistors, res.Records)
	require.NoError(t, err)
	o, err := c.Overlay(3)
	require.NoError(t, err)
	assert.Equal(t, "H100", o.Title)
	assert.Contains(t, o.Text(), "Year: 2022")
	assert.Contains(t, o.Text(), "Transistors: 80000 M")
	assert.Contains(t, o.HTML(), "<strong>H100</strong>")
}

func TestConstantAxisNoNaN(t *testing.T) {
	recs := []dataset.ChipRecord{
		{Product: "a", Year: 2020, Freq: 1000, TDP: 65},
		{Product: "b", Year: 2020, Freq: 1000, TDP: 65},
	}
	c, err := Build(dataset.ViewPerformance, recs)
	require.NoError(t, err)
	for _, p := range c.Points {
		assert.Equal(t, 0.0, p.X)
		assert.Equal(t, 30.0, p.Y)
		assert.Equal(t, 0.0, p.Z)
	}
}

func TestEmptyAndUnknownView(t *testing.T) {
	c, err := Build(dataset.ViewTransistors, nil)
	require.NoError(t, err)
	assert.Equal(t, 0, c.Len())

	_, err = Build(dataset.ChipView("heatmap"), nil)
	assert.ErrorIs(t, err, dataset.ErrUnknownView)
}
