package dataset

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
)

// LoadError reports that a CSV resource could not be fetched or read.
// It is terminal for the views fed by that resource; other views are unaffected.
type LoadError struct {
	Source string
	Err    error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("load %s: %v", e.Source, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }

// IsLoadError reports whether err is (or wraps) a LoadError.
func IsLoadError(err error) bool {
	var le *LoadError
	return errors.As(err, &le)
}

// Table is a parsed CSV document: the normalized header and the raw rows.
type Table struct {
	Name   string
	Header Header
	Rows   []Row
	// Malformed counts lines the CSV reader could not tokenize.
	Malformed int
}

// Open returns a reader for location, which is either a local path or an
// http(s) URL. A non-2xx response is a load failure.
func Open(ctx context.Context, location string, client *http.Client) (io.ReadCloser, error) {
	if isURL(location) {
		if client == nil {
			client = http.DefaultClient
		}
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, location, nil)
		if err != nil {
			return nil, &LoadError{Source: location, Err: fmt.Errorf("build request: %w", err)}
		}
		resp, err := client.Do(req)
		if err != nil {
			return nil, &LoadError{Source: location, Err: fmt.Errorf("fetch: %w", err)}
		}
		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			b, _ := io.ReadAll(io.LimitReader(resp.Body, 4<<10))
			resp.Body.Close()
			return nil, &LoadError{Source: location, Err: fmt.Errorf("unexpected status %s: %s", resp.Status, strings.TrimSpace(string(b)))}
		}
		return resp.Body, nil
	}
	f, err := os.Open(location)
	if err != nil {
		return nil, &LoadError{Source: location, Err: fmt.Errorf("open csv: %w", err)}
	}
	return f, nil
}

// Load opens location and parses it into a Table.
func Load(ctx context.Context, location string, client *http.Client) (*Table, error) {
	rc, err := Open(ctx, location, client)
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	t, err := ReadTable(rc, displayName(location))
	if err != nil {
		return nil, &LoadError{Source: location, Err: err}
	}
	return t, nil
}

// ReadTable parses a CSV document with a header row. Lines the tokenizer
// rejects are counted in Malformed and skipped; I/O errors abort the read.
func ReadTable(r io.Reader, name string) (*Table, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	raw, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("read header: empty document")
		}
		return nil, fmt.Errorf("read header: %w", err)
	}
	t := &Table{Name: name, Header: NewHeader(raw)}
	for {
		rec, err := cr.Read()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			var pe *csv.ParseError
			if errors.As(err, &pe) {
				t.Malformed++
				continue
			}
			return nil, fmt.Errorf("read row: %w", err)
		}
		if blank(rec) {
			continue
		}
		// FieldPos reports where the record starts, so skipped malformed
		// lines and quoted newlines do not shift later line numbers.
		line, _ := cr.FieldPos(0)
		t.Rows = append(t.Rows, Row{header: &t.Header, values: rec, Line: line})
	}
	return t, nil
}

func blank(rec []string) bool {
	for _, v := range rec {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

func isURL(s string) bool {
	l := strings.ToLower(strings.TrimSpace(s))
	return strings.HasPrefix(l, "http://") || strings.HasPrefix(l, "https://")
}

func displayName(location string) string {
	if isURL(location) {
		if i := strings.LastIndex(location, "/"); i >= 0 && i < len(location)-1 {
			return location[i+1:]
		}
		return location
	}
	return filepath.Base(location)
}
