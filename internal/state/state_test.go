package state

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KaramelBytes/dcviz/internal/aggregate"
	"github.com/KaramelBytes/dcviz/internal/dataset"
	"github.com/KaramelBytes/dcviz/internal/testfixture"
)

type countingObserver map[string][2]int

func (o countingObserver) ObserveDataset(name string, accepted, rejected int) {
	o[name] = [2]int{accepted, rejected}
}

func TestLoad(t *testing.T) {
	cfg := testfixture.Write(t, t.TempDir())
	obs := countingObserver{}
	app := Load(context.Background(), cfg, nil, Options{Observer: obs})

	require.False(t, app.PUE.Failed())
	assert.Len(t, app.PUE.Records(), 9)
	assert.Equal(t, 2, app.PUE.Result.Rejected)
	assert.Len(t, app.Servers.Records(), 4)
	assert.Equal(t, dataset.ViewTransistors, app.View)
	require.NotNil(t, app.Cloud)
	assert.Equal(t, 3, app.Cloud.Len())
	assert.Equal(t, 2024, app.SiteYear, "latest year with site data is selected")

	assert.Equal(t, [2]int{9, 2}, obs["pue.csv"])
	assert.Equal(t, [2]int{3, 1}, obs["chips.csv[transistors]"])
}

func TestLoadIsolatesFailures(t *testing.T) {
	dir := t.TempDir()
	cfg := testfixture.Write(t, dir)
	cfg.Data.Servers = filepath.Join(dir, "missing.csv")
	app := Load(context.Background(), cfg, nil, Options{})

	assert.True(t, app.Servers.Failed())
	assert.True(t, dataset.IsLoadError(app.Servers.Err))
	assert.False(t, app.PUE.Failed())
	assert.NotNil(t, app.Cloud)
	assert.Len(t, app.LoadErrors(), 1)
	assert.False(t, app.AllFailed())
}

func TestSetViewReplacesCloud(t *testing.T) {
	app := Load(context.Background(), testfixture.Write(t, t.TempDir()), nil, Options{})
	before := app.Cloud
	require.NoError(t, app.SetView(dataset.ViewPerformance))
	assert.NotSame(t, before, app.Cloud)
	assert.Equal(t, dataset.ViewPerformance, app.View)
	assert.Equal(t, 3, app.Cloud.Len())

	err := app.SetView("heatmap")
	assert.ErrorIs(t, err, dataset.ErrUnknownView)
	assert.Equal(t, dataset.ViewPerformance, app.View, "invalid view leaves state untouched")
}

func TestSetSiteYear(t *testing.T) {
	app := Load(context.Background(), testfixture.Write(t, t.TempDir()), nil, Options{})
	assert.Equal(t, []int{2023, 2024}, app.SiteYears())

	require.NoError(t, app.SetSiteYear(2023))
	v, err := app.Sites()
	require.NoError(t, err)
	require.Len(t, v.Sites, 1)
	assert.Equal(t, "Saint-Ghislain", v.Sites[0].Site)

	assert.ErrorIs(t, app.SetSiteYear(1990), aggregate.ErrNoData)
	assert.Equal(t, 2023, app.SiteYear)
}
