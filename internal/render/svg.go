package render

import (
	"fmt"
	"io"

	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/KaramelBytes/dcviz/internal/aggregate"
	"github.com/KaramelBytes/dcviz/internal/dataset"
)

// pointStyle renders points only, no connecting line.
func pointStyle(col drawing.Color) chart.Style {
	return chart.Style{
		StrokeWidth: 0,
		DotWidth:    3,
		DotColor:    col,
	}
}

// padX makes a single-point series drawable; go-chart needs a non-empty range.
func padX(xs, ys []float64) ([]float64, []float64) {
	if len(xs) == 1 {
		return []float64{xs[0], xs[0] + 1}, []float64{ys[0], ys[0]}
	}
	return xs, ys
}

// TimelineSVG writes the global PUE series with the industry reference line.
func TimelineSVG(w io.Writer, series []dataset.PUERecord, industry float64) error {
	if len(series) == 0 {
		return fmt.Errorf("timeline svg: %w", aggregate.ErrNoData)
	}
	xs := make([]float64, len(series))
	ys := make([]float64, len(series))
	for i, r := range series {
		xs[i] = aggregate.ChronoKey(r)
		ys[i] = r.PUE
	}
	xs, ys = padX(xs, ys)
	ch := chart.Chart{
		Title:      "PUE Global",
		Width:      960,
		Height:     420,
		Background: chart.Style{Padding: chart.Box{Top: 40, Left: 16, Right: 12, Bottom: 16}},
		XAxis:      chart.XAxis{Name: "Année"},
		YAxis:      chart.YAxis{Name: "PUE"},
		Series: []chart.Series{
			chart.ContinuousSeries{
				Name:    "PUE trimestriel",
				XValues: xs,
				YValues: ys,
				Style:   chart.Style{StrokeColor: drawing.ColorFromHex("5096d7"), StrokeWidth: 2, FillColor: drawing.ColorFromHex("5096d7").WithAlpha(48)},
			},
			chart.ContinuousSeries{
				Name:    fmt.Sprintf("Moyenne industrie (%.1f)", industry),
				XValues: []float64{xs[0], xs[len(xs)-1]},
				YValues: []float64{industry, industry},
				Style:   chart.Style{StrokeColor: drawing.ColorFromHex("999999"), StrokeDashArray: []float64{5, 5}},
			},
		},
	}
	ch.Elements = []chart.Renderable{chart.Legend(&ch)}
	if err := ch.Render(chart.SVG, w); err != nil {
		return fmt.Errorf("timeline svg: %w", err)
	}
	return nil
}

// TrendSVG writes yearly mean server efficiency over the individual servers.
func TrendSVG(w io.Writer, recs []dataset.ServerRecord) error {
	if len(recs) == 0 {
		return fmt.Errorf("trend svg: %w", aggregate.ErrNoData)
	}
	yearly := aggregate.YearlyEfficiency(recs)
	ax := make([]float64, len(yearly))
	ay := make([]float64, len(yearly))
	for i, y := range yearly {
		ax[i] = float64(y.Year)
		ay[i] = y.Avg
	}
	px := make([]float64, len(recs))
	py := make([]float64, len(recs))
	for i, r := range recs {
		px[i] = float64(r.Year)
		py[i] = r.Efficiency
	}
	ax, ay = padX(ax, ay)
	px, py = padX(px, py)
	ch := chart.Chart{
		Title:      "Efficacité des serveurs (ssj_ops/W)",
		Width:      960,
		Height:     420,
		Background: chart.Style{Padding: chart.Box{Top: 40, Left: 16, Right: 12, Bottom: 16}},
		XAxis:      chart.XAxis{Name: "Année"},
		YAxis:      chart.YAxis{Name: "ssj_ops/W"},
		Series: []chart.Series{
			chart.ContinuousSeries{Name: "Serveurs", XValues: px, YValues: py, Style: pointStyle(drawing.ColorFromHex("cccccc"))},
			chart.ContinuousSeries{
				Name:    "Moyenne annuelle",
				XValues: ax,
				YValues: ay,
				Style:   chart.Style{StrokeColor: drawing.ColorFromHex("34a853"), StrokeWidth: 2},
			},
		},
	}
	ch.Elements = []chart.Renderable{chart.Legend(&ch)}
	if err := ch.Render(chart.SVG, w); err != nil {
		return fmt.Errorf("trend svg: %w", err)
	}
	return nil
}
