package render

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KaramelBytes/dcviz/internal/config"
	"github.com/KaramelBytes/dcviz/internal/dataset"
	"github.com/KaramelBytes/dcviz/internal/state"
	"github.com/KaramelBytes/dcviz/internal/testfixture"
	"github.com/KaramelBytes/dcviz/internal/utils"
)

func load(t *testing.T, mutate func(*config.Global)) *state.App {
	t.Helper()
	cfg := testfixture.Write(t, t.TempDir())
	if mutate != nil {
		mutate(cfg)
	}
	return state.Load(context.Background(), cfg, nil, state.Options{})
}

func page(t *testing.T, pages []Page, name string) string {
	t.Helper()
	for _, p := range pages {
		if p.Name == name {
			return string(p.HTML)
		}
	}
	t.Fatalf("page %s not rendered", name)
	return ""
}

func TestAllPages(t *testing.T) {
	pages, err := New(load(t, nil), nil, Options{}).All()
	require.NoError(t, err)
	require.Len(t, pages, 6)

	pue := page(t, pages, PagePUE)
	for _, id := range []string{config.ContainerPUETimeline, config.ContainerPUEStats, config.ContainerPUERegions, config.ContainerPUESites} {
		assert.Contains(t, pue, `id="`+id+`"`)
	}
	assert.Contains(t, pue, "Moyenne industrie (1.6)")
	assert.Contains(t, pue, "Amélioration")
	assert.NotContains(t, pue, `id="viz-overlay"`, "static pages carry no hover script")

	servers := page(t, pages, PageServers)
	assert.Contains(t, servers, `id="`+config.ContainerServerScatter+`"`)
	assert.Contains(t, servers, `id="`+config.ContainerServerTrend+`"`)

	cloud := page(t, pages, CloudPageName(dataset.ViewTransistors))
	assert.Contains(t, cloud, `id="`+config.ContainerChipCloud+`"`)
	assert.Contains(t, cloud, "A100")
	assert.NotContains(t, cloud, "EPYC 7763", "rows invalid for the view are not plotted")
	assert.Contains(t, cloud, "#ff00ff")

	perf := page(t, pages, CloudPageName(dataset.ViewPerformance))
	assert.Contains(t, perf, "EPYC 7763")
	assert.Contains(t, perf, "X: Release Year | Y: Frequency (MHz) | Z: TDP (Watts)")

	idx := page(t, pages, PageIndex)
	assert.Contains(t, idx, "servers.html")
	assert.Contains(t, idx, "chips.csv[performance]")
}

func TestSitesPageStacksYears(t *testing.T) {
	p, err := New(load(t, nil), nil, Options{}).SitesTabs()
	require.NoError(t, err)
	html := string(p.HTML)

	assert.Contains(t, html, `<nav id="`+config.ContainerPUESites+`" class="viz-block viz-years">`)
	assert.Contains(t, html, `<a href="#viz-pue-sites-2024">2024</a>`)
	assert.Contains(t, html, `<a href="#viz-pue-sites-2023">2023</a>`)
	assert.Contains(t, html, `id="viz-pue-sites-2024"`)
	assert.Contains(t, html, `id="viz-pue-sites-2023"`)
	assert.Less(t, strings.Index(html, `id="viz-pue-sites-2024"`), strings.Index(html, `id="viz-pue-sites-2023"`), "latest year first")
	assert.Contains(t, html, "Saint-Ghislain")
	assert.Equal(t, "viz-pue-sites-2023", SitesYearContainer(2023))
}

func TestLoadFailureIsInlineAndIsolated(t *testing.T) {
	app := load(t, func(c *config.Global) { c.Data.PUE = filepath.Join(filepath.Dir(c.Data.PUE), "gone.csv") })
	pages, err := New(app, nil, Options{}).All()
	require.NoError(t, err)

	pue := page(t, pages, PagePUE)
	assert.Contains(t, pue, `class="viz-block viz-error"`)
	assert.Contains(t, pue, "gone.csv")
	assert.Contains(t, page(t, pages, PageSites), `class="viz-block viz-error"`)

	servers := page(t, pages, PageServers)
	assert.NotContains(t, servers, `class="viz-block viz-error"`)
	assert.Contains(t, servers, `id="`+config.ContainerServerScatter+`"`)
}

func TestMissingContainerSkipped(t *testing.T) {
	app := load(t, func(c *config.Global) {
		c.Layout.Containers = []string{config.ContainerPUETimeline}
	})
	r := New(app, nil, Options{})
	p, err := r.PUE()
	require.NoError(t, err)
	html := string(p.HTML)
	assert.Contains(t, html, `id="`+config.ContainerPUETimeline+`"`)
	assert.NotContains(t, html, config.ContainerPUERegions)
	assert.NotContains(t, html, `id="`+config.ContainerPUEStats+`"`)

	s, err := r.Servers()
	require.NoError(t, err)
	assert.NotContains(t, string(s.HTML), config.ContainerServerScatter)
}

func TestNoDataBlock(t *testing.T) {
	app := load(t, func(c *config.Global) {
		dir := filepath.Dir(c.Data.Servers)
		bad := "Hardware release year,Average watts @ 100% of target load\nsoon,lots\n"
		if err := os.WriteFile(filepath.Join(dir, "servers.csv"), []byte(bad), 0o644); err != nil {
			t.Fatalf("write: %v", err)
		}
	})
	p, err := New(app, nil, Options{}).Servers()
	require.NoError(t, err)
	html := string(p.HTML)
	assert.Equal(t, 2, strings.Count(html, "viz-block viz-empty"))
}

func TestInteractivePages(t *testing.T) {
	pages, err := New(load(t, nil), nil, Options{Interactive: true}).All()
	require.NoError(t, err)
	pue := page(t, pages, PagePUE)
	assert.Contains(t, pue, `id="yearSelector"`)
	assert.Contains(t, pue, `<option value="2024" selected>2024</option>`)
	assert.Contains(t, pue, "/api/hover")
	assert.Contains(t, page(t, pages, CloudPageName(dataset.ViewTransistors)), `data-view="transistors"`)
	assert.Contains(t, pue, "'&view='")
	assert.NotContains(t, pue, "/api/view", "pages never switch the shared view on load")
}

func TestWriteBundle(t *testing.T) {
	app := load(t, nil)
	pages, err := New(app, nil, Options{}).All()
	require.NoError(t, err)
	dir := filepath.Join(t.TempDir(), "site")
	m := NewManifest(app, pages)
	require.NoError(t, WriteBundle(dir, pages, m))

	for _, p := range pages {
		_, err := os.Stat(filepath.Join(dir, p.File()))
		assert.NoError(t, err, p.File())
	}
	b, err := os.ReadFile(filepath.Join(dir, utils.ManifestName))
	require.NoError(t, err)
	var got Manifest
	require.NoError(t, json.Unmarshal(b, &got))
	assert.Equal(t, m.RunID, got.RunID)
	assert.Len(t, got.RunID, 36)
	assert.Len(t, got.Pages, 6)
	require.Len(t, got.Datasets, 4)
	assert.Equal(t, 9, got.Datasets[0].Accepted)
	assert.Equal(t, 2, got.Datasets[0].Rejected)
}

func TestSVG(t *testing.T) {
	app := load(t, nil)
	var buf bytes.Buffer
	require.NoError(t, TimelineSVG(&buf, app.Timeline(), 1.6))
	assert.True(t, strings.HasPrefix(strings.TrimSpace(buf.String()), "<svg"))

	buf.Reset()
	require.NoError(t, TrendSVG(&buf, app.Servers.Records()))
	assert.Contains(t, buf.String(), "<svg")

	assert.Error(t, TimelineSVG(&buf, nil, 1.6))
}
