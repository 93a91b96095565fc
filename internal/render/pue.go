package render

import (
	"fmt"
	"html"
	"strconv"
	"strings"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/KaramelBytes/dcviz/internal/aggregate"
	"github.com/KaramelBytes/dcviz/internal/config"
	"github.com/KaramelBytes/dcviz/internal/dataset"
)

const (
	colorPrimary = "#5096d7"
	colorSuccess = "#34a853"
	colorInfo    = "#4285f4"
	colorWarning = "#fbbc05"
	colorMuted   = "#999999"
)

// PUE renders the chart pipeline page: timeline, stats cards, regions and
// the per-site chart of the selected year.
func (r *Renderer) PUE() (Page, error) {
	var secs []section
	ds := r.app.PUE
	containers := []string{config.ContainerPUETimeline, config.ContainerPUEStats, config.ContainerPUERegions, config.ContainerPUESites}
	if ds.Failed() {
		for _, c := range containers {
			if r.has(c) {
				secs = append(secs, errorBlock(c, ds.Source, ds.Err))
			}
		}
		return r.assemble(PagePUE, "Efficacité énergétique des datacenters (PUE)", secs, "")
	}

	series := r.app.Timeline()
	if r.has(config.ContainerPUETimeline) {
		if len(series) == 0 {
			secs = append(secs, noDataBlock(config.ContainerPUETimeline, "Pas de données PUE pour le parc global."))
		} else {
			secs = append(secs, section{container: config.ContainerPUETimeline, chart: r.timelineChart(series)})
		}
	}
	if r.has(config.ContainerPUEStats) {
		stats, err := aggregate.ComputeStats(series)
		if err != nil {
			secs = append(secs, noDataBlock(config.ContainerPUEStats, "Pas de statistiques disponibles."))
		} else {
			secs = append(secs, section{container: config.ContainerPUEStats, html: statsCards(stats)})
		}
	}
	if r.has(config.ContainerPUERegions) {
		groups := aggregate.Regions(ds.Records(), r.app.Config.RecentYears)
		if len(groups) == 0 {
			secs = append(secs, noDataBlock(config.ContainerPUERegions, "Pas de données régionales."))
		} else {
			secs = append(secs, section{container: config.ContainerPUERegions, chart: r.regionsChart(groups)})
		}
	}
	extra := ""
	if r.has(config.ContainerPUESites) {
		view, err := r.app.Sites()
		if err != nil {
			secs = append(secs, noDataBlock(config.ContainerPUESites, fmt.Sprintf("Pas de données par site pour %d.", r.app.SiteYear)))
		} else {
			secs = append(secs, section{container: config.ContainerPUESites, chart: sitesChart(view, config.ContainerPUESites)})
			if r.opt.Interactive {
				extra = yearSelector(r.app.SiteYears(), r.app.SiteYear)
			}
		}
	}
	return r.assemble(PagePUE, "Efficacité énergétique des datacenters (PUE)", secs, extra)
}

func (r *Renderer) timelineChart(series []dataset.PUERecord) *charts.Line {
	line := charts.NewLine()
	first, last := series[0], series[len(series)-1]
	line.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			ChartID: chartID(config.ContainerPUETimeline),
			Width:   "100%",
			Height:  "420px",
		}),
		charts.WithTitleOpts(opts.Title{
			Title:    fmt.Sprintf("Évolution du PUE Global (%d-%d)", first.Year, last.Year),
			Subtitle: r.app.Config.GlobalSite,
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true), Right: "10%"}),
		charts.WithXAxisOpts(opts.XAxis{Name: "Trimestre", Type: "category"}),
		charts.WithYAxisOpts(opts.YAxis{Name: "PUE", Type: "value", Min: 1.0}),
	)
	labels := make([]string, len(series))
	data := make([]opts.LineData, len(series))
	for i, rec := range series {
		labels[i] = rec.QuarterLabel()
		data[i] = opts.LineData{Name: labels[i], Value: rec.PUE}
	}
	line.SetXAxis(labels).AddSeries("PUE trimestriel", data,
		charts.WithLineChartOpts(opts.LineChart{Smooth: opts.Bool(true), ShowSymbol: opts.Bool(true)}),
		charts.WithAreaStyleOpts(opts.AreaStyle{Opacity: 0.2}),
		charts.WithItemStyleOpts(opts.ItemStyle{Color: colorPrimary}),
		charts.WithMarkLineNameYAxisItemOpts(opts.MarkLineNameYAxisItem{
			Name:  fmt.Sprintf("Moyenne industrie (%.1f)", r.app.Config.IndustryAveragePUE),
			YAxis: r.app.Config.IndustryAveragePUE,
		}),
		charts.WithMarkLineStyleOpts(opts.MarkLineStyle{
			Symbol:    []string{"none"},
			LineStyle: &opts.LineStyle{Type: "dashed", Color: colorMuted},
		}),
	)
	return line
}

func statsCards(s aggregate.Stats) string {
	cards := []struct{ label, value, color string }{
		{fmt.Sprintf("PUE Actuel (%s)", s.Latest.QuarterLabel()), strconv.FormatFloat(s.Latest.PUE, 'f', 2, 64), colorPrimary},
		{"Meilleur PUE", strconv.FormatFloat(s.Best, 'f', 2, 64), colorSuccess},
		{"PUE Moyen", strconv.FormatFloat(s.Mean, 'f', 2, 64), colorInfo},
		{"Amélioration", strconv.FormatFloat(s.Improvement, 'f', 1, 64) + "%", colorWarning},
	}
	var b strings.Builder
	fmt.Fprintf(&b, `<div id="%s" class="viz-block viz-stats">`, config.ContainerPUEStats)
	for _, c := range cards {
		fmt.Fprintf(&b, `<div class="viz-card" style="border-color:%s"><div class="viz-card-value" style="color:%s">%s</div><div class="viz-card-label">%s</div></div>`,
			c.color, c.color, html.EscapeString(c.value), html.EscapeString(c.label))
	}
	b.WriteString("</div>\n")
	return b.String()
}

func (r *Renderer) regionsChart(groups []aggregate.Group[string]) *charts.Bar {
	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			ChartID: chartID(config.ContainerPUERegions),
			Width:   "100%",
			Height:  "320px",
		}),
		charts.WithTitleOpts(opts.Title{
			Title:    "PUE moyen par région",
			Subtitle: fmt.Sprintf("%d dernières années", r.app.Config.RecentYears),
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(false)}),
		charts.WithXAxisOpts(opts.XAxis{Name: "PUE", Type: "value"}),
		charts.WithYAxisOpts(opts.YAxis{Type: "category"}),
	)
	labels := make([]string, len(groups))
	data := make([]opts.BarData, len(groups))
	for i, g := range groups {
		labels[i] = g.Key
		data[i] = opts.BarData{Name: g.Key, Value: round2(g.Mean)}
	}
	bar.SetXAxis(labels).AddSeries("PUE moyen", data,
		charts.WithItemStyleOpts(opts.ItemStyle{Color: colorPrimary}),
		charts.WithLabelOpts(opts.Label{Show: opts.Bool(true), Position: "right"}),
	)
	bar.XYReversal()
	return bar
}

// sitesChart draws one year of per-site means, best site first, with the
// average of the site means as a reference line.
func sitesChart(v aggregate.SitesView, container string) *charts.Bar {
	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			ChartID: chartID(container),
			Width:   "100%",
			Height:  "380px",
		}),
		charts.WithTitleOpts(opts.Title{Title: fmt.Sprintf("PUE par site (%d)", v.Year)}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "item"}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(false)}),
		charts.WithXAxisOpts(opts.XAxis{Type: "category", AxisLabel: &opts.AxisLabel{Rotate: 45}}),
		charts.WithYAxisOpts(opts.YAxis{Name: "PUE", Type: "value", Min: 1.0}),
	)
	labels := make([]string, len(v.Sites))
	data := make([]opts.BarData, len(v.Sites))
	for i, s := range v.Sites {
		labels[i] = s.Site
		data[i] = opts.BarData{Name: s.Site + " (" + s.Country + ")", Value: round2(s.PUE)}
	}
	bar.SetXAxis(labels).AddSeries("PUE", data,
		charts.WithItemStyleOpts(opts.ItemStyle{Color: colorPrimary}),
		charts.WithLabelOpts(opts.Label{Show: opts.Bool(true), Position: "top"}),
		charts.WithMarkLineNameYAxisItemOpts(opts.MarkLineNameYAxisItem{
			Name:  fmt.Sprintf("Moy: %.2f", v.Mean),
			YAxis: round2(v.Mean),
		}),
		charts.WithMarkLineStyleOpts(opts.MarkLineStyle{
			Symbol:    []string{"none"},
			LineStyle: &opts.LineStyle{Type: "dashed", Color: colorMuted},
		}),
	)
	return bar
}

// SitesTabs renders one sites chart per year on a single page, latest year
// first, behind an anchor nav.
func (r *Renderer) SitesTabs() (Page, error) {
	title := "PUE par site"
	if !r.has(config.ContainerPUESites) {
		return r.assemble(PageSites, title, nil, "")
	}
	if r.app.PUE.Failed() {
		return r.assemble(PageSites, title, []section{errorBlock(config.ContainerPUESites, r.app.PUE.Source, r.app.PUE.Err)}, "")
	}
	years := r.app.SiteYears()
	if len(years) == 0 {
		return r.assemble(PageSites, title, []section{noDataBlock(config.ContainerPUESites, "Pas de données par site.")}, "")
	}

	// Years are stacked latest first; the nav links to each chart.
	var navLinks strings.Builder
	var yearly []section
	for i := len(years) - 1; i >= 0; i-- {
		v, err := aggregate.Sites(r.app.PUE.Records(), years[i], r.app.Config.GlobalSite)
		if err != nil {
			continue
		}
		container := SitesYearContainer(years[i])
		fmt.Fprintf(&navLinks, `<a href="#%s">%d</a>`, container, years[i])
		yearly = append(yearly, section{container: container, chart: sitesChart(v, container)})
	}
	secs := []section{{
		container: config.ContainerPUESites,
		html: fmt.Sprintf("<nav id=\"%s\" class=\"viz-block viz-years\">Année %s</nav>\n",
			config.ContainerPUESites, navLinks.String()),
	}}
	return r.assemble(PageSites, title, append(secs, yearly...), "")
}

// SitesYearContainer is the element id of the sites chart for one year.
func SitesYearContainer(year int) string {
	return fmt.Sprintf("%s-%d", config.ContainerPUESites, year)
}

func yearSelector(years []int, selected int) string {
	var b strings.Builder
	b.WriteString(`<label class="viz-selector">Année <select id="yearSelector">`)
	for _, y := range years {
		sel := ""
		if y == selected {
			sel = " selected"
		}
		fmt.Fprintf(&b, `<option value="%d"%s>%d</option>`, y, sel, y)
	}
	b.WriteString("</select></label>\n")
	return b.String()
}
