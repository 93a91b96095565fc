package aggregate

import (
	"sort"

	"github.com/KaramelBytes/dcviz/internal/dataset"
)

// ChronoKey is the fractional position of a record in time: year plus the
// zero-based first month of its quarter over 12.
func ChronoKey(r dataset.PUERecord) float64 {
	return float64(r.Year) + float64(r.Quarter.StartMonth())/12
}

// Chronological returns a copy of records ordered by ChronoKey. Records with
// equal keys keep their input order.
func Chronological(records []dataset.PUERecord) []dataset.PUERecord {
	out := append([]dataset.PUERecord(nil), records...)
	sort.SliceStable(out, func(i, j int) bool { return ChronoKey(out[i]) < ChronoKey(out[j]) })
	return out
}

// Timeline is the chronological series of the global fleet site.
func Timeline(records []dataset.PUERecord, globalSite string) []dataset.PUERecord {
	var g []dataset.PUERecord
	for _, r := range records {
		if r.Site == globalSite {
			g = append(g, r)
		}
	}
	return Chronological(g)
}

// Stats are the headline figures of the global series.
type Stats struct {
	Latest      dataset.PUERecord
	First       dataset.PUERecord
	Best        float64
	Mean        float64
	Improvement float64 // percent, positive when PUE went down
}

// ComputeStats summarizes a chronological series.
func ComputeStats(series []dataset.PUERecord) (Stats, error) {
	if len(series) == 0 {
		return Stats{}, ErrNoData
	}
	mean, _ := Mean(series, pueOf)
	s := Stats{
		First:  series[0],
		Latest: series[len(series)-1],
		Best:   series[0].PUE,
		Mean:   mean,
	}
	for _, r := range series[1:] {
		if r.PUE < s.Best {
			s.Best = r.PUE
		}
	}
	s.Improvement = (s.First.PUE - s.Latest.PUE) / s.First.PUE * 100
	return s, nil
}

// NewestYear returns the largest year present.
func NewestYear(records []dataset.PUERecord) (int, bool) {
	if len(records) == 0 {
		return 0, false
	}
	y := records[0].Year
	for _, r := range records[1:] {
		if r.Year > y {
			y = r.Year
		}
	}
	return y, true
}

// Regions is the mean PUE per region over the last recentYears years
// (relative to the newest year present), best region first. Records without a
// region are ignored.
func Regions(records []dataset.PUERecord, recentYears int) []Group[string] {
	newest, ok := NewestYear(records)
	if !ok {
		return nil
	}
	if recentYears < 1 {
		recentYears = 1
	}
	from := newest - recentYears + 1
	var recent []dataset.PUERecord
	for _, r := range records {
		if r.Year >= from && r.Region != "" {
			recent = append(recent, r)
		}
	}
	g := GroupBy(recent, func(r dataset.PUERecord) string { return r.Region }, pueOf)
	SortByMean(g)
	return g
}

// SiteYears lists, ascending, the years that carry per-site data.
func SiteYears(records []dataset.PUERecord, globalSite string) []int {
	seen := map[int]bool{}
	var years []int
	for _, r := range records {
		if r.Site == globalSite || r.Site == "" || seen[r.Year] {
			continue
		}
		seen[r.Year] = true
		years = append(years, r.Year)
	}
	sort.Ints(years)
	return years
}

// SiteMean is one bar of the per-site chart.
type SiteMean struct {
	Site    string  `json:"site"`
	Country string  `json:"country"`
	Region  string  `json:"region"`
	PUE     float64 `json:"pue"`
	Count   int     `json:"count"`
}

// SitesView is the per-site chart for one year.
type SitesView struct {
	Year  int        `json:"year"`
	Sites []SiteMean `json:"sites"`
	// Mean is the average of the site means (the reference line).
	Mean float64 `json:"mean"`
}

// Sites averages each site's PUE for year, global fleet excluded, best first.
// Country and region come from the site's first record.
func Sites(records []dataset.PUERecord, year int, globalSite string) (SitesView, error) {
	var rows []dataset.PUERecord
	for _, r := range records {
		if r.Year == year && r.Site != globalSite && r.Site != "" {
			rows = append(rows, r)
		}
	}
	if len(rows) == 0 {
		return SitesView{Year: year}, ErrNoData
	}
	groups := GroupBy(rows, func(r dataset.PUERecord) string { return r.Site }, pueOf)
	SortByMean(groups)

	first := map[string]dataset.PUERecord{}
	for _, r := range rows {
		if _, ok := first[r.Site]; !ok {
			first[r.Site] = r
		}
	}
	v := SitesView{Year: year, Sites: make([]SiteMean, len(groups))}
	for i, g := range groups {
		f := first[g.Key]
		v.Sites[i] = SiteMean{Site: g.Key, Country: f.Country, Region: f.Region, PUE: g.Mean, Count: g.Count}
	}
	v.Mean, _ = Mean(v.Sites, func(s SiteMean) float64 { return s.PUE })
	return v, nil
}

func pueOf(r dataset.PUERecord) float64 { return r.PUE }
