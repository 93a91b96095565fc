package render

import (
	"errors"
	"fmt"
	"html"
	"strings"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/KaramelBytes/dcviz/internal/aggregate"
	"github.com/KaramelBytes/dcviz/internal/config"
	"github.com/KaramelBytes/dcviz/internal/dataset"
	"github.com/KaramelBytes/dcviz/internal/pointcloud"
)

// Cloud renders the 3D explorer of one view. Points form a single series in
// record order so the chart's dataIndex is the cloud index.
func (r *Renderer) Cloud(view dataset.ChipView) (Page, error) {
	spec, err := pointcloud.SpecFor(view)
	if err != nil {
		return Page{}, err
	}
	name := CloudPageName(view)
	title := "Explorateur de puces: " + string(view)
	if !r.has(config.ContainerChipCloud) {
		return r.assemble(name, title, nil, "")
	}
	if r.app.ChipErr != nil {
		return r.assemble(name, title, []section{errorBlock(config.ContainerChipCloud, r.app.ChipSource, r.app.ChipErr)}, "")
	}
	cloud, _, err := r.app.CloudFor(view)
	if err != nil && !errors.Is(err, aggregate.ErrNoData) {
		return Page{}, err
	}
	if cloud.Len() == 0 {
		return r.assemble(name, title, []section{noDataBlock(config.ContainerChipCloud, "Aucune puce valide pour cette vue.")}, legendBlock(spec))
	}
	return r.assemble(name, title, []section{{container: config.ContainerChipCloud, chart: cloudChart(cloud)}}, legendBlock(spec))
}

func cloudChart(c *pointcloud.Cloud) *charts.Scatter3D {
	s := charts.NewScatter3D()
	ax := c.Spec.Axes
	lo0, hi0 := ax[0].Range()
	lo1, hi1 := ax[1].Range()
	lo2, hi2 := ax[2].Range()
	s.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			ChartID:         chartID(config.ContainerChipCloud),
			Width:           "100%",
			Height:          "640px",
			BackgroundColor: "#050505",
		}),
		charts.WithTitleOpts(opts.Title{Title: c.Spec.Caption}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(false)}),
		charts.WithXAxis3DOpts(opts.XAxis3D{Name: ax[0].Name, Show: opts.Bool(true), Min: lo0, Max: hi0}),
		charts.WithYAxis3DOpts(opts.YAxis3D{Name: ax[1].Name, Show: opts.Bool(true), Min: lo1, Max: hi1}),
		charts.WithZAxis3DOpts(opts.ZAxis3D{Name: ax[2].Name, Show: opts.Bool(true), Min: lo2, Max: hi2}),
	)
	data := make([]opts.Chart3DData, c.Len())
	for i, p := range c.Points {
		data[i] = opts.Chart3DData{
			Name:      c.Records[i].Product,
			Value:     []interface{}{round2(p.X), round2(p.Y), round2(p.Z)},
			ItemStyle: &opts.ItemStyle{Color: p.Color},
		}
	}
	s.AddSeries(string(c.Spec.View), data)
	return s
}

func legendBlock(spec *pointcloud.Spec) string {
	var b strings.Builder
	fmt.Fprintf(&b, `<div class="viz-axis-info">%s</div><div class="viz-legend" data-view="%s">`,
		html.EscapeString(spec.Caption), html.EscapeString(string(spec.View)))
	for _, e := range spec.Legend {
		fmt.Fprintf(&b, `<div class="legend-item"><div class="color-box" style="background: %s;"></div>%s</div>`,
			e.Color, html.EscapeString(e.Label))
	}
	b.WriteString("</div>\n")
	return b.String()
}
