package dataset

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

var (
	// ErrMissing marks a required field that is absent or empty.
	ErrMissing = errors.New("missing")
	// ErrNotNumber marks a field that does not parse as a number.
	ErrNotNumber = errors.New("not a number")
	// ErrNotFinite marks NaN or infinite values.
	ErrNotFinite = errors.New("not finite")
	// ErrOutOfRange marks a value outside the field's domain.
	ErrOutOfRange = errors.New("out of range")
	// ErrNotDate marks an unparseable date.
	ErrNotDate = errors.New("not a date")
)

// FieldError explains why a row was rejected.
type FieldError struct {
	Field string
	Value string
	Err   error
}

func (e *FieldError) Error() string {
	if e.Value == "" {
		return fmt.Sprintf("%s: %v", e.Field, e.Err)
	}
	return fmt.Sprintf("%s=%q: %v", e.Field, e.Value, e.Err)
}

func (e *FieldError) Unwrap() error { return e.Err }

// Reason is the accounting key for a rejection: "<field>: <cause>".
func (e *FieldError) Reason() string {
	return fmt.Sprintf("%s: %v", strings.TrimSpace(e.Field), e.Err)
}

// Row is one CSV record accessed through the table's canonical header.
type Row struct {
	header *Header
	values []string
	// Line is the 1-based line number in the source document.
	Line int
}

// NewRow builds a row against h; used by tests and in-memory sources.
func NewRow(h *Header, values []string, line int) Row {
	return Row{header: h, values: values, Line: line}
}

// Get returns the raw value of field. Unresolvable fields and short rows are absent.
func (r Row) Get(field string) (string, bool) {
	i, ok := r.header.Index(field)
	if !ok || i >= len(r.values) {
		return "", false
	}
	return r.values[i], true
}

// String returns the trimmed value of field, or def when absent or empty.
func (r Row) String(field, def string) string {
	v, ok := r.Get(field)
	v = strings.TrimSpace(v)
	if !ok || v == "" {
		return def
	}
	return v
}

// Float parses field strictly as a finite number.
func (r Row) Float(field string) (float64, error) {
	v, _ := r.Get(field)
	f, err := ParseFloat(v)
	if err != nil {
		return 0, &FieldError{Field: field, Value: strings.TrimSpace(v), Err: err}
	}
	return f, nil
}

// Positive parses field as a finite number greater than zero.
func (r Row) Positive(field string) (float64, error) {
	f, err := r.Float(field)
	if err != nil {
		return 0, err
	}
	if f <= 0 {
		v, _ := r.Get(field)
		return 0, &FieldError{Field: field, Value: strings.TrimSpace(v), Err: ErrOutOfRange}
	}
	return f, nil
}

// Int parses field as an integer; integral decimals such as "2019.0" are accepted.
func (r Row) Int(field string) (int, error) {
	v, _ := r.Get(field)
	n, err := ParseInt(v)
	if err != nil {
		return 0, &FieldError{Field: field, Value: strings.TrimSpace(v), Err: err}
	}
	return n, nil
}

// Date parses field with the supported layouts.
func (r Row) Date(field string) (time.Time, error) {
	v, _ := r.Get(field)
	t, err := ParseDate(v)
	if err != nil {
		return time.Time{}, &FieldError{Field: field, Value: strings.TrimSpace(v), Err: err}
	}
	return t, nil
}

// ParseFloat is the strict numeric coercion used for every measure.
func ParseFloat(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, ErrMissing
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, ErrNotNumber
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, ErrNotFinite
	}
	return f, nil
}

// ParseInt parses an integer field.
func ParseInt(s string) (int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, ErrMissing
	}
	if n, err := strconv.Atoi(s); err == nil {
		return n, nil
	}
	f, err := ParseFloat(s)
	if err != nil {
		return 0, err
	}
	if f != math.Trunc(f) || f > math.MaxInt32 || f < math.MinInt32 {
		return 0, ErrNotNumber
	}
	return int(f), nil
}

var dateLayouts = []string{
	"2006-01-02", "2006/01/02", "2006-01-02 15:04:05", time.RFC3339,
	"1/2/2006", "01/02/2006", "1/2/2006 15:04", "Jan 2, 2006", "2006-01", "2006",
}

// ParseDate accepts the release-date formats found in chip datasets.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, ErrMissing
	}
	for _, l := range dateLayouts {
		if t, err := time.Parse(l, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, ErrNotDate
}
