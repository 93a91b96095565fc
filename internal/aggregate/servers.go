package aggregate

import "github.com/KaramelBytes/dcviz/internal/dataset"

// YearStat is the efficiency summary of one hardware release year.
type YearStat struct {
	Year  int     `json:"year"`
	Avg   float64 `json:"avg"`
	Max   float64 `json:"max"`
	Count int     `json:"count"`
}

// YearlyEfficiency groups servers by release year, ascending.
func YearlyEfficiency(records []dataset.ServerRecord) []YearStat {
	g := GroupBy(records,
		func(r dataset.ServerRecord) int { return r.Year },
		func(r dataset.ServerRecord) float64 { return r.Efficiency })
	SortByKey(g)
	out := make([]YearStat, len(g))
	for i, y := range g {
		out[i] = YearStat{Year: y.Key, Avg: y.Mean, Max: y.Max, Count: y.Count}
	}
	return out
}

// YearRange returns the smallest and largest release year.
func YearRange(records []dataset.ServerRecord) (lo, hi int, ok bool) {
	if len(records) == 0 {
		return 0, 0, false
	}
	lo, hi = records[0].Year, records[0].Year
	for _, r := range records[1:] {
		if r.Year < lo {
			lo = r.Year
		}
		if r.Year > hi {
			hi = r.Year
		}
	}
	return lo, hi, true
}
