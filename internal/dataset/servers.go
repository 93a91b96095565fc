package dataset

import (
	"strconv"

	"github.com/KaramelBytes/dcviz/internal/logging"
)

// SPECpower server dataset columns.
const (
	ColServerYear       = "Hardware release year"
	ColServerPower      = "Average watts @ 100% of target load"
	ColServerPerf       = "ssj_ops @ 100% of target load"
	ColServerEfficiency = "Performance/power @ 100% of target load"
	ColServerSystem     = "System"
	ColServerVendor     = "Hardware Vendor"
)

const (
	UnknownSystem = "Unknown System"
	UnknownVendor = "Unknown Vendor"
)

// ServerRecord is one benchmarked server.
type ServerRecord struct {
	Year       int     `json:"year"`
	Power      float64 `json:"power"`
	Perf       float64 `json:"perf"`
	Efficiency float64 `json:"efficiency"`
	System     string  `json:"system"`
	Vendor     string  `json:"vendor"`
}

// ServerRequired are the numeric columns every server row must carry.
var ServerRequired = []string{ColServerYear, ColServerPower, ColServerPerf, ColServerEfficiency}

// ParseServerRow validates one server row: all four numeric fields must parse
// or the row is excluded entirely.
func ParseServerRow(row Row) (ServerRecord, error) {
	year, err := row.Int(ColServerYear)
	if err != nil {
		return ServerRecord{}, err
	}
	power, err := row.Float(ColServerPower)
	if err != nil {
		return ServerRecord{}, err
	}
	perf, err := row.Float(ColServerPerf)
	if err != nil {
		return ServerRecord{}, err
	}
	eff, err := row.Float(ColServerEfficiency)
	if err != nil {
		return ServerRecord{}, err
	}
	return ServerRecord{
		Year:       year,
		Power:      power,
		Perf:       perf,
		Efficiency: eff,
		System:     row.String(ColServerSystem, UnknownSystem),
		Vendor:     row.String(ColServerVendor, UnknownVendor),
	}, nil
}

// DecodeServers validates every row of a server table.
func DecodeServers(t *Table, log *logging.Logger) *Result[ServerRecord] {
	return Decode(t, ServerRequired, ParseServerRow, log)
}

func itoa(n int) string { return strconv.Itoa(n) }
