package dataset

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/KaramelBytes/dcviz/internal/logging"
)

// Chip dataset columns. The frequency column is labelled GHz upstream but
// carries MHz values.
const (
	ColChipProduct     = "Product"
	ColChipType        = "Type"
	ColChipRelease     = "Release Date"
	ColChipProcessSize = "Process Size (nm)"
	ColChipTDP         = "TDP (W)"
	ColChipTransistors = "Transistors (million)"
	ColChipFreq        = "Freq (GHz)"
	ColChipVendor      = "Vendor"
)

// Vendor is the colour category of the transistors view.
type Vendor string

const (
	VendorAMD    Vendor = "AMD"
	VendorIntel  Vendor = "Intel"
	VendorNVIDIA Vendor = "NVIDIA"
	VendorATI    Vendor = "ATI"
	VendorOther  Vendor = "Other"
)

// Vendors lists the vendor categories in legend order.
var Vendors = []Vendor{VendorAMD, VendorIntel, VendorNVIDIA, VendorATI, VendorOther}

// ParseVendor matches the vendor name exactly; anything else is Other.
func ParseVendor(s string) Vendor {
	switch v := Vendor(strings.TrimSpace(s)); v {
	case VendorAMD, VendorIntel, VendorNVIDIA, VendorATI:
		return v
	}
	return VendorOther
}

// ChipType is the colour category of the performance view.
type ChipType string

const (
	TypeCPU   ChipType = "CPU"
	TypeGPU   ChipType = "GPU"
	TypeOther ChipType = "Other"
)

// ChipTypes lists the chip types in legend order.
var ChipTypes = []ChipType{TypeCPU, TypeGPU, TypeOther}

func ParseChipType(s string) ChipType {
	switch t := ChipType(strings.TrimSpace(s)); t {
	case TypeCPU, TypeGPU:
		return t
	}
	return TypeOther
}

// ChipView selects which fields a chip row must carry.
type ChipView string

const (
	ViewTransistors ChipView = "transistors"
	ViewPerformance ChipView = "performance"
)

// ErrUnknownView is returned for a view name other than transistors or performance.
var ErrUnknownView = errors.New("unknown view")

// ChipViews lists the supported views.
var ChipViews = []ChipView{ViewTransistors, ViewPerformance}

// ParseChipView validates a view name.
func ParseChipView(s string) (ChipView, error) {
	switch v := ChipView(strings.ToLower(strings.TrimSpace(s))); v {
	case ViewTransistors, ViewPerformance:
		return v, nil
	}
	return "", fmt.Errorf("%w %q (use transistors|performance)", ErrUnknownView, s)
}

// Required returns the columns a row must carry for the view.
func (v ChipView) Required() []string {
	if v == ViewPerformance {
		return []string{ColChipRelease, ColChipFreq, ColChipTDP}
	}
	return []string{ColChipRelease, ColChipTransistors, ColChipProcessSize}
}

// ChipRecord is one chip validated for a view. Only the fields required by
// that view are guaranteed to be set.
type ChipRecord struct {
	Product string   `json:"product"`
	Year    float64  `json:"year"`
	Vendor  Vendor   `json:"vendor"`
	Type    ChipType `json:"type"`
	// RawVendor and RawType keep the dataset spelling for display.
	RawVendor   string  `json:"rawVendor"`
	RawType     string  `json:"rawType"`
	Transistors float64 `json:"transistors,omitempty"`
	ProcessSize float64 `json:"processSize,omitempty"`
	Freq        float64 `json:"freq,omitempty"`
	TDP         float64 `json:"tdp,omitempty"`
}

// FractionalYear is year + zero-based month / 12.
func FractionalYear(t time.Time) float64 {
	return float64(t.Year()) + float64(int(t.Month())-1)/12
}

// ChipRowFunc returns the row validator for a view. A row is rejected when the
// release date or either view measure is missing, unparseable or not positive.
func ChipRowFunc(view ChipView) RowFunc[ChipRecord] {
	return func(row Row) (ChipRecord, error) {
		date, err := row.Date(ColChipRelease)
		if err != nil {
			return ChipRecord{}, err
		}
		rec := ChipRecord{
			Product:   row.String(ColChipProduct, "Unknown"),
			Year:      FractionalYear(date),
			RawVendor: row.String(ColChipVendor, ""),
			RawType:   row.String(ColChipType, ""),
		}
		rec.Vendor = ParseVendor(rec.RawVendor)
		rec.Type = ParseChipType(rec.RawType)
		switch view {
		case ViewPerformance:
			if rec.Freq, err = row.Positive(ColChipFreq); err != nil {
				return ChipRecord{}, err
			}
			if rec.TDP, err = row.Positive(ColChipTDP); err != nil {
				return ChipRecord{}, err
			}
		default:
			if rec.Transistors, err = row.Positive(ColChipTransistors); err != nil {
				return ChipRecord{}, err
			}
			if rec.ProcessSize, err = row.Positive(ColChipProcessSize); err != nil {
				return ChipRecord{}, err
			}
		}
		return rec, nil
	}
}

// DecodeChips validates every row of a chip table for view.
func DecodeChips(t *Table, view ChipView, log *logging.Logger) *Result[ChipRecord] {
	res := Decode(t, view.Required(), ChipRowFunc(view), log)
	res.Name = fmt.Sprintf("%s[%s]", t.Name, view)
	return res
}
