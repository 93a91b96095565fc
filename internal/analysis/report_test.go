package analysis

import (
	"context"
	"math"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KaramelBytes/dcviz/internal/config"
	"github.com/KaramelBytes/dcviz/internal/dataset"
	"github.com/KaramelBytes/dcviz/internal/state"
	"github.com/KaramelBytes/dcviz/internal/testfixture"
)

func load(t *testing.T, mutate func(*config.Global)) *state.App {
	t.Helper()
	cfg := testfixture.Write(t, t.TempDir())
	if mutate != nil {
		mutate(cfg)
	}
	return state.Load(context.Background(), cfg, nil, state.Options{})
}

func TestAccumulatorMatchesTwoPass(t *testing.T) {
	vals := []float64{10, 20, 30, 45.5}
	a := newAccumulator("x")
	for _, v := range vals {
		a.add(v)
	}
	s := a.summary()

	var sum float64
	for _, v := range vals {
		sum += v
	}
	mean := sum / float64(len(vals))
	var ss float64
	for _, v := range vals {
		ss += (v - mean) * (v - mean)
	}
	assert.Equal(t, 4, s.Count)
	assert.InDelta(t, mean, s.Mean, 1e-12)
	assert.InDelta(t, math.Sqrt(ss/3), s.Std, 1e-12)
	assert.Equal(t, 10.0, s.Min)
	assert.Equal(t, 45.5, s.Max)

	one := newAccumulator("y")
	one.add(7)
	assert.Zero(t, one.summary().Std)
	assert.Zero(t, newAccumulator("z").summary().Count)
}

func TestPUEReport(t *testing.T) {
	app := load(t, nil)
	r := PUE(app.PUE, app.Config.GlobalSite)

	assert.Equal(t, "pue.csv", r.Name)
	assert.Equal(t, 11, r.Rows)
	assert.Equal(t, 9, r.Accepted)
	assert.Equal(t, 2, r.Rejected)
	require.NotEmpty(t, r.Reasons)

	require.Len(t, r.Fields, 2)
	assert.Equal(t, 9, r.Fields[0].Count)
	assert.InDelta(t, 9.89/9, r.Fields[0].Mean, 1e-9)
	assert.Equal(t, 8, r.Fields[1].Count, "PUE12 skips the empty value")

	require.Len(t, r.Groups, 2)
	regions := r.Groups[0]
	assert.Equal(t, dataset.ColPUERegion, regions.By)
	require.Len(t, regions.Groups, 3)
	assert.Equal(t, "Europe", regions.Groups[0].Key)
	assert.InDelta(t, 1.09, regions.Groups[0].Mean, 1e-9)
	assert.Equal(t, 3, regions.Groups[0].Count)

	years := r.Groups[1]
	require.Len(t, years.Groups, 2)
	assert.Equal(t, "2023", years.Groups[0].Key)
	assert.InDelta(t, 1.11, years.Groups[0].Mean, 1e-9)

	md := r.Markdown()
	assert.Contains(t, md, "[DATASET SUMMARY]")
	assert.Contains(t, md, "Rows: 11 (accepted 9, rejected 2)")
	assert.Contains(t, md, "[REJECTIONS]")
	assert.Contains(t, md, "PUE_trimestriel")
	assert.Contains(t, md, "[GROUP-BY Region: mean PUE_trimestriel]")
	assert.Contains(t, md, "- Europe (n=3): mean 1.09")
}

func TestServersReport(t *testing.T) {
	app := load(t, nil)
	r := Servers(app.Servers)
	assert.Equal(t, 4, r.Accepted)
	assert.Equal(t, 1, r.Rejected)
	require.Len(t, r.Fields, 3)
	assert.Equal(t, 280.0, r.Fields[0].Min)
	assert.Equal(t, 410.0, r.Fields[0].Max)

	years := r.Groups[0]
	require.Len(t, years.Groups, 3)
	assert.Equal(t, "2016", years.Groups[1].Key)
	assert.InDelta(t, 10678.5, years.Groups[1].Mean, 1e-9)
	assert.Equal(t, 2, years.Groups[1].Count)

	vendors := r.Groups[1]
	var keys []string
	for _, g := range vendors.Groups {
		keys = append(keys, g.Key)
	}
	assert.Contains(t, keys, dataset.UnknownVendor)
}

func TestChipsReportPerView(t *testing.T) {
	app := load(t, nil)
	reports := All(app)
	require.Len(t, reports, 4)

	tr := reports[2]
	assert.Equal(t, "chips.csv[transistors]", tr.Name)
	assert.Equal(t, 3, tr.Accepted)
	require.Len(t, tr.Fields, 3)
	assert.Equal(t, dataset.ColChipTransistors, tr.Fields[1].Name)
	assert.Equal(t, 5.5, tr.Fields[1].Min)

	perf := reports[3]
	assert.Equal(t, "chips.csv[performance]", perf.Name)
	assert.Equal(t, 3, perf.Accepted)
	assert.Equal(t, dataset.ColChipFreq, perf.Fields[1].Name)
	require.Len(t, perf.Groups, 1)
	assert.Equal(t, dataset.ColChipType, perf.Groups[0].By)

	md := Markdown(reports)
	assert.Equal(t, 4, strings.Count(md, "[DATASET SUMMARY]"))
}

func TestLoadFailureReport(t *testing.T) {
	app := load(t, func(cfg *config.Global) {
		cfg.Data.Servers = filepath.Join(t.TempDir(), "gone.csv")
		cfg.Data.Chips = filepath.Join(t.TempDir(), "gone-chips.csv")
	})
	reports := All(app)

	srv := reports[1]
	require.Error(t, srv.Err)
	assert.True(t, dataset.IsLoadError(srv.Err))
	md := srv.Markdown()
	assert.Contains(t, md, "File: gone.csv")
	assert.Contains(t, md, "Error:")
	assert.NotContains(t, md, "Rows:")

	assert.Equal(t, "gone-chips.csv[transistors]", reports[2].Name)
	assert.Equal(t, 9, reports[0].Accepted, "other datasets are unaffected")
}

func TestEmptyDatasetNotes(t *testing.T) {
	r := PUE(state.Dataset[dataset.PUERecord]{
		Source: "empty.csv",
		Result: &dataset.Result[dataset.PUERecord]{Name: "empty.csv", Missing: []string{dataset.ColPUEValue}, Reasons: map[string]int{}},
	}, "Parc (Global)")
	md := r.Markdown()
	assert.Contains(t, md, "[NOTES]")
	assert.Contains(t, md, "required columns not found: PUE_trimestriel")
	assert.Contains(t, md, "no valid rows")
	assert.Nil(t, r.Fields)
	assert.NoError(t, r.Err)
}
