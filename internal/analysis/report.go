// Package analysis builds Markdown summaries of the validated datasets.
package analysis

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/KaramelBytes/dcviz/internal/aggregate"
	"github.com/KaramelBytes/dcviz/internal/dataset"
	"github.com/KaramelBytes/dcviz/internal/state"
)

// Report is a markdown-friendly summary of one dataset.
type Report struct {
	Name     string
	Source   string
	Rows     int
	Accepted int
	Rejected int
	Reasons  []dataset.ReasonCount
	Missing  []string
	Fields   []FieldSummary
	Groups   []GroupSummary
	Warnings []string
	// Err is the load failure, if any; nothing else is set in that case.
	Err error
}

// FieldSummary captures the statistics of one numeric field over accepted rows.
type FieldSummary struct {
	Name  string
	Count int
	Min   float64
	Max   float64
	Mean  float64
	Std   float64
}

// GroupSummary is the mean of Metric for each distinct value of By.
type GroupSummary struct {
	By     string
	Metric string
	Groups []aggregate.Group[string]
}

// accumulator keeps running numeric stats via Welford.
type accumulator struct {
	name string
	n    int
	mean float64
	m2   float64
	min  float64
	max  float64
}

func newAccumulator(name string) *accumulator {
	return &accumulator{name: name, min: math.Inf(1), max: math.Inf(-1)}
}

func (a *accumulator) add(x float64) {
	a.n++
	delta := x - a.mean
	a.mean += delta / float64(a.n)
	a.m2 += delta * (x - a.mean)
	if x < a.min {
		a.min = x
	}
	if x > a.max {
		a.max = x
	}
}

func (a *accumulator) summary() FieldSummary {
	s := FieldSummary{Name: a.name, Count: a.n}
	if a.n == 0 {
		return s
	}
	s.Min, s.Max, s.Mean = a.min, a.max, a.mean
	if a.n > 1 {
		s.Std = math.Sqrt(a.m2 / float64(a.n-1))
	}
	return s
}

// fields runs one accumulator per measure over records. A measure returning
// ok=false skips that record for that field only.
func fields[T any](records []T, names []string, measure func(T, int) (float64, bool)) []FieldSummary {
	accs := make([]*accumulator, len(names))
	for i, n := range names {
		accs[i] = newAccumulator(n)
	}
	for _, r := range records {
		for i, a := range accs {
			if v, ok := measure(r, i); ok {
				a.add(v)
			}
		}
	}
	out := make([]FieldSummary, len(accs))
	for i, a := range accs {
		out[i] = a.summary()
	}
	return out
}

func base[T any](source string, res *dataset.Result[T], err error) *Report {
	r := &Report{Name: displayName(source), Source: source, Err: err}
	if err != nil || res == nil {
		return r
	}
	r.Name = res.Name
	r.Rows = res.Total
	r.Accepted = len(res.Records)
	r.Rejected = res.Rejected
	r.Reasons = res.TopReasons()
	r.Missing = res.Missing
	if len(res.Missing) > 0 {
		r.Warnings = append(r.Warnings, fmt.Sprintf("required columns not found: %s", strings.Join(res.Missing, ", ")))
	}
	if res.Empty() {
		r.Warnings = append(r.Warnings, "no valid rows; charts for this dataset show a no-data block")
	}
	return r
}

// PUE summarizes the PUE dataset. The region breakdown excludes the fleet-wide
// global series; the yearly breakdown uses it only.
func PUE(ds state.Dataset[dataset.PUERecord], globalSite string) *Report {
	r := base(ds.Source, ds.Result, ds.Err)
	recs := ds.Records()
	if len(recs) == 0 {
		return r
	}
	r.Fields = fields(recs, []string{dataset.ColPUEValue, dataset.ColPUE12}, func(rec dataset.PUERecord, i int) (float64, bool) {
		if i == 0 {
			return rec.PUE, true
		}
		if rec.PUE12 == nil {
			return 0, false
		}
		return *rec.PUE12, true
	})

	var sites, global []dataset.PUERecord
	for _, rec := range recs {
		if rec.Site == globalSite {
			global = append(global, rec)
		} else if rec.Region != "" {
			sites = append(sites, rec)
		}
	}
	pue := func(rec dataset.PUERecord) float64 { return rec.PUE }
	if len(sites) > 0 {
		g := aggregate.GroupBy(sites, func(rec dataset.PUERecord) string { return rec.Region }, pue)
		aggregate.SortByMean(g)
		r.Groups = append(r.Groups, GroupSummary{By: dataset.ColPUERegion, Metric: dataset.ColPUEValue, Groups: g})
	}
	if len(global) > 0 {
		g := aggregate.GroupBy(global, func(rec dataset.PUERecord) string { return strconv.Itoa(rec.Year) }, pue)
		aggregate.SortByKey(g)
		r.Groups = append(r.Groups, GroupSummary{By: dataset.ColPUEYear, Metric: dataset.ColPUEValue, Groups: g})
	} else {
		r.Warnings = append(r.Warnings, fmt.Sprintf("no row for global site %q; the timeline is empty", globalSite))
	}
	return r
}

// Servers summarizes the server dataset with yearly efficiency means.
func Servers(ds state.Dataset[dataset.ServerRecord]) *Report {
	r := base(ds.Source, ds.Result, ds.Err)
	recs := ds.Records()
	if len(recs) == 0 {
		return r
	}
	names := []string{dataset.ColServerPower, dataset.ColServerPerf, dataset.ColServerEfficiency}
	r.Fields = fields(recs, names, func(rec dataset.ServerRecord, i int) (float64, bool) {
		switch i {
		case 0:
			return rec.Power, true
		case 1:
			return rec.Perf, true
		}
		return rec.Efficiency, true
	})
	eff := func(rec dataset.ServerRecord) float64 { return rec.Efficiency }
	years := aggregate.GroupBy(recs, func(rec dataset.ServerRecord) string { return strconv.Itoa(rec.Year) }, eff)
	aggregate.SortByKey(years)
	vendors := aggregate.GroupBy(recs, func(rec dataset.ServerRecord) string { return rec.Vendor }, eff)
	aggregate.SortByMean(vendors)
	r.Groups = []GroupSummary{
		{By: dataset.ColServerYear, Metric: dataset.ColServerEfficiency, Groups: years},
		{By: dataset.ColServerVendor, Metric: dataset.ColServerEfficiency, Groups: vendors},
	}
	return r
}

// Chips summarizes the chip dataset as validated for view.
func Chips(source string, res *dataset.Result[dataset.ChipRecord], err error, view dataset.ChipView) *Report {
	r := base(source, res, err)
	if res == nil {
		r.Name = fmt.Sprintf("%s[%s]", r.Name, view)
	}
	if res.Empty() {
		return r
	}
	recs := res.Records
	names := view.Required()[1:]
	r.Fields = fields(recs, append([]string{"Year"}, names...), func(rec dataset.ChipRecord, i int) (float64, bool) {
		switch i {
		case 0:
			return rec.Year, true
		case 1:
			if view == dataset.ViewPerformance {
				return rec.Freq, true
			}
			return rec.Transistors, true
		}
		if view == dataset.ViewPerformance {
			return rec.TDP, true
		}
		return rec.ProcessSize, true
	})
	measure := func(rec dataset.ChipRecord) float64 { return rec.Transistors }
	metric := dataset.ColChipTransistors
	by := dataset.ColChipVendor
	key := func(rec dataset.ChipRecord) string { return string(rec.Vendor) }
	if view == dataset.ViewPerformance {
		measure = func(rec dataset.ChipRecord) float64 { return rec.Freq }
		metric = dataset.ColChipFreq
		by = dataset.ColChipType
		key = func(rec dataset.ChipRecord) string { return string(rec.Type) }
	}
	g := aggregate.GroupBy(recs, key, measure)
	aggregate.SortByKey(g)
	r.Groups = []GroupSummary{{By: by, Metric: metric, Groups: g}}
	return r
}

// All summarizes every dataset of app, one chip report per view.
func All(app *state.App) []*Report {
	out := []*Report{
		PUE(app.PUE, app.Config.GlobalSite),
		Servers(app.Servers),
	}
	for _, v := range dataset.ChipViews {
		var res *dataset.Result[dataset.ChipRecord]
		if app.ChipTable != nil {
			if v == app.View && app.Chips != nil {
				res = app.Chips
			} else {
				res = dataset.DecodeChips(app.ChipTable, v, nil)
			}
		}
		out = append(out, Chips(app.ChipSource, res, app.ChipErr, v))
	}
	return out
}

// Markdown renders the report.
func (r *Report) Markdown() string {
	var b strings.Builder
	b.WriteString("[DATASET SUMMARY]\n")
	b.WriteString(fmt.Sprintf("File: %s\n", r.Name))
	if r.Source != "" && r.Source != r.Name {
		b.WriteString(fmt.Sprintf("Source: %s\n", r.Source))
	}
	if r.Err != nil {
		b.WriteString(fmt.Sprintf("Error: %v\n", r.Err))
		return b.String()
	}
	b.WriteString(fmt.Sprintf("Rows: %d (accepted %d, rejected %d)\n", r.Rows, r.Accepted, r.Rejected))

	if len(r.Reasons) > 0 {
		b.WriteString("\n[REJECTIONS]\n")
		for _, rc := range r.Reasons {
			b.WriteString(fmt.Sprintf("- %s: %d\n", safeVal(rc.Reason), rc.Count))
		}
	}
	if len(r.Fields) > 0 {
		b.WriteString("\n[FIELDS]\n")
		for _, f := range r.Fields {
			if f.Count == 0 {
				b.WriteString(fmt.Sprintf("- %s: no values\n", f.Name))
				continue
			}
			b.WriteString(fmt.Sprintf("- %s: n %d, min %.4g, max %.4g, mean %.4g, std %.4g\n", f.Name, f.Count, f.Min, f.Max, f.Mean, f.Std))
		}
	}
	for _, g := range r.Groups {
		b.WriteString(fmt.Sprintf("\n[GROUP-BY %s: mean %s]\n", g.By, g.Metric))
		for _, grp := range g.Groups {
			key := grp.Key
			if key == "" {
				key = "(empty)"
			}
			b.WriteString(fmt.Sprintf("- %s (n=%d): mean %.4g (min %.4g, max %.4g)\n", safeVal(key), grp.Count, grp.Mean, grp.Min, grp.Max))
		}
	}
	if len(r.Warnings) > 0 {
		b.WriteString("\n[NOTES]\n")
		for _, w := range r.Warnings {
			b.WriteString("- ")
			b.WriteString(w)
			b.WriteString("\n")
		}
	}
	return b.String()
}

// Markdown renders several reports separated by blank lines, ordered as given.
func Markdown(reports []*Report) string {
	parts := make([]string, len(reports))
	for i, r := range reports {
		parts[i] = r.Markdown()
	}
	return strings.Join(parts, "\n")
}

func safeVal(s string) string { return strings.ReplaceAll(strings.ReplaceAll(s, "\n", " "), "|", "/") }

func displayName(source string) string {
	if i := strings.LastIndexAny(source, `/\`); i >= 0 && i < len(source)-1 {
		return source[i+1:]
	}
	return source
}
