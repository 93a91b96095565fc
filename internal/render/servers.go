package render

import (
	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/KaramelBytes/dcviz/internal/aggregate"
	"github.com/KaramelBytes/dcviz/internal/config"
	"github.com/KaramelBytes/dcviz/internal/dataset"
)

// viridis stops, dark for old hardware, yellow for recent.
var viridis = []string{"#440154", "#3b528b", "#21918c", "#5ec962", "#fde725"}

// Servers renders the power/performance scatter and the efficiency trend.
func (r *Renderer) Servers() (Page, error) {
	const title = "Efficacité des serveurs (SPECpower)"
	ds := r.app.Servers
	var secs []section
	for _, c := range []string{config.ContainerServerScatter, config.ContainerServerTrend} {
		if !r.has(c) {
			continue
		}
		switch {
		case ds.Failed():
			secs = append(secs, errorBlock(c, ds.Source, ds.Err))
		case len(ds.Records()) == 0:
			secs = append(secs, noDataBlock(c, "Aucun serveur valide dans le jeu de données."))
		case c == config.ContainerServerScatter:
			secs = append(secs, section{container: c, chart: scatterChart(ds.Records())})
		default:
			secs = append(secs, section{container: c, chart: trendChart(ds.Records())})
		}
	}
	return r.assemble(PageServers, title, secs, "")
}

// scatterChart plots average power against ssj_ops, coloured by release year.
// Point i is record i so hover indices resolve directly.
func scatterChart(recs []dataset.ServerRecord) *charts.Scatter {
	lo, hi, _ := aggregate.YearRange(recs)
	if hi == lo {
		hi = lo + 1
	}
	sc := charts.NewScatter()
	sc.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			ChartID: chartID(config.ContainerServerScatter),
			Width:   "100%",
			Height:  "460px",
		}),
		charts.WithTitleOpts(opts.Title{
			Title:    "Puissance vs performance",
			Subtitle: "Couleur: année de sortie du matériel",
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "item"}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(false)}),
		charts.WithXAxisOpts(opts.XAxis{Name: "Watts @ 100%", Type: "value", Min: 0}),
		charts.WithYAxisOpts(opts.YAxis{Name: "ssj_ops @ 100%", Type: "value", Min: 0}),
		charts.WithVisualMapOpts(opts.VisualMap{
			Type:       "continuous",
			Calculable: opts.Bool(true),
			Dimension:  "2",
			Min:        float32(lo),
			Max:        float32(hi),
			InRange:    &opts.VisualMapInRange{Color: viridis},
		}),
	)
	data := make([]opts.ScatterData, len(recs))
	for i, s := range recs {
		data[i] = opts.ScatterData{
			Name:       s.System + " (" + s.Vendor + ")",
			Value:      []interface{}{s.Power, s.Perf, s.Year},
			SymbolSize: 8,
		}
	}
	sc.AddSeries("Serveurs", data)
	return sc
}

// trendChart draws yearly mean efficiency over the individual servers.
func trendChart(recs []dataset.ServerRecord) *charts.Line {
	yearly := aggregate.YearlyEfficiency(recs)
	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			ChartID: chartID(config.ContainerServerTrend),
			Width:   "100%",
			Height:  "420px",
		}),
		charts.WithTitleOpts(opts.Title{Title: "Efficacité (ssj_ops/W) par année"}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "item"}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true), Right: "10%"}),
		charts.WithXAxisOpts(opts.XAxis{Name: "Année", Type: "value", Min: yearly[0].Year, Max: yearly[len(yearly)-1].Year}),
		charts.WithYAxisOpts(opts.YAxis{Name: "ssj_ops/W", Type: "value", Min: 0}),
	)
	avg := make([]opts.LineData, len(yearly))
	for i, y := range yearly {
		avg[i] = opts.LineData{Name: "Moyenne", Value: []interface{}{y.Year, round2(y.Avg)}}
	}
	line.AddSeries("Moyenne annuelle", avg,
		charts.WithLineChartOpts(opts.LineChart{ShowSymbol: opts.Bool(true)}),
		charts.WithItemStyleOpts(opts.ItemStyle{Color: colorSuccess}),
	)

	dots := charts.NewScatter()
	points := make([]opts.ScatterData, len(recs))
	for i, s := range recs {
		points[i] = opts.ScatterData{Name: s.System, Value: []interface{}{s.Year, s.Efficiency}, SymbolSize: 5}
	}
	dots.AddSeries("Serveurs", points, charts.WithItemStyleOpts(opts.ItemStyle{Color: "#cccccc"}))
	line.Overlap(dots)
	return line
}
