package dataset

import (
	"errors"
	"sort"

	"github.com/KaramelBytes/dcviz/internal/logging"
)

// Result holds the validated records of one dataset and the rejection accounting.
type Result[T any] struct {
	Name    string
	Records []T
	// Total is the number of data rows read, malformed lines included.
	Total    int
	Rejected int
	Reasons  map[string]int
	// Missing lists required fields absent from the header.
	Missing []string
}

// Empty reports whether no row passed validation.
func (r *Result[T]) Empty() bool { return r == nil || len(r.Records) == 0 }

// ReasonCount is one rejection cause with its count.
type ReasonCount struct {
	Reason string
	Count  int
}

// TopReasons returns rejection causes, most frequent first, ties by name.
func (r *Result[T]) TopReasons() []ReasonCount {
	out := make([]ReasonCount, 0, len(r.Reasons))
	for k, v := range r.Reasons {
		out = append(out, ReasonCount{Reason: k, Count: v})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count == out[j].Count {
			return out[i].Reason < out[j].Reason
		}
		return out[i].Count > out[j].Count
	})
	return out
}

// RowFunc maps one row to a record. A non-nil error rejects the row.
type RowFunc[T any] func(Row) (T, error)

// Decode applies fn to every row of t. Rejected rows are skipped and logged at
// debug level only; a dataset with bad rows degrades to fewer records.
func Decode[T any](t *Table, required []string, fn RowFunc[T], log *logging.Logger) *Result[T] {
	if log == nil {
		log = logging.Discard()
	}
	res := &Result[T]{
		Name:     t.Name,
		Total:    len(t.Rows) + t.Malformed,
		Rejected: t.Malformed,
		Reasons:  map[string]int{},
		Missing:  t.Header.Missing(required...),
	}
	if t.Malformed > 0 {
		res.Reasons["malformed csv line"] = t.Malformed
	}
	if len(res.Missing) > 0 {
		log.Warn("%s: required columns not found: %v (header: %q)", t.Name, res.Missing, t.Header.Raw)
	}
	for _, row := range t.Rows {
		rec, err := fn(row)
		if err != nil {
			res.Rejected++
			reason := err.Error()
			var fe *FieldError
			if errors.As(err, &fe) {
				reason = fe.Reason()
			}
			res.Reasons[reason]++
			log.Debug("%s line %d rejected: %v", t.Name, row.Line, err)
			continue
		}
		res.Records = append(res.Records, rec)
	}
	log.Debug("%s: %d/%d rows valid", t.Name, len(res.Records), res.Total)
	return res
}
