package dataset

import (
	"strings"

	"github.com/KaramelBytes/dcviz/internal/logging"
)

// PUE dataset columns.
const (
	ColPUEYear    = "Année"
	ColPUEQuarter = "Trimestre"
	ColPUESite    = "Site"
	ColPUECountry = "Pays"
	ColPUERegion  = "Region"
	ColPUEValue   = "PUE_trimestriel"
	ColPUE12      = "PUE_12_derniers_mois"
)

// Quarter of a year; NoQuarter is the null value.
type Quarter int

const (
	NoQuarter Quarter = iota
	Q1
	Q2
	Q3
	Q4
)

// ParseQuarter maps "Q1".."Q4" (case and space tolerant) to a Quarter.
// Anything else is NoQuarter.
func ParseQuarter(s string) Quarter {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "Q1":
		return Q1
	case "Q2":
		return Q2
	case "Q3":
		return Q3
	case "Q4":
		return Q4
	}
	return NoQuarter
}

func (q Quarter) String() string {
	switch q {
	case Q1:
		return "Q1"
	case Q2:
		return "Q2"
	case Q3:
		return "Q3"
	case Q4:
		return "Q4"
	}
	return ""
}

// StartMonth is the zero-based first month of the quarter; NoQuarter maps to 0.
func (q Quarter) StartMonth() int {
	if q == NoQuarter {
		return 0
	}
	return (int(q) - 1) * 3
}

// PUERecord is one measurement row of the PUE time series.
type PUERecord struct {
	Year    int      `json:"year"`
	Quarter Quarter  `json:"-"`
	Site    string   `json:"site"`
	Country string   `json:"country"`
	Region  string   `json:"region"`
	PUE     float64  `json:"pue"`
	PUE12   *float64 `json:"pue12,omitempty"`
}

// QuarterLabel renders the quarter for display, e.g. "Q3 2024".
func (r PUERecord) QuarterLabel() string {
	if r.Quarter == NoQuarter {
		return itoa(r.Year)
	}
	return r.Quarter.String() + " " + itoa(r.Year)
}

// PUERequired are the columns without which no PUE row can validate.
var PUERequired = []string{ColPUEYear, ColPUEValue}

// ParsePUERow validates one PUE row. Year and quarterly PUE are required;
// the trailing-twelve-month PUE is optional and never rejects a row.
func ParsePUERow(row Row) (PUERecord, error) {
	year, err := row.Int(ColPUEYear)
	if err != nil {
		return PUERecord{}, err
	}
	pue, err := row.Positive(ColPUEValue)
	if err != nil {
		return PUERecord{}, err
	}
	rec := PUERecord{
		Year:    year,
		Quarter: ParseQuarter(row.String(ColPUEQuarter, "")),
		Site:    row.String(ColPUESite, ""),
		Country: row.String(ColPUECountry, ""),
		Region:  row.String(ColPUERegion, ""),
		PUE:     pue,
	}
	if v, err := row.Positive(ColPUE12); err == nil {
		rec.PUE12 = &v
	}
	return rec, nil
}

// DecodePUE validates every row of a PUE table.
func DecodePUE(t *Table, log *logging.Logger) *Result[PUERecord] {
	return Decode(t, PUERequired, ParsePUERow, log)
}
