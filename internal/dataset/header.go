package dataset

import "strings"

// Header is the canonical key set of a CSV header, built once per load.
// Lookups resolve a logical field name with priority: exact key, key with a
// trailing space, trimmed-key match. The first column wins within a priority.
type Header struct {
	Raw     []string
	exact   map[string]int
	trimmed map[string]int
}

// NewHeader builds the canonical key set for raw header names.
func NewHeader(raw []string) Header {
	h := Header{
		Raw:     make([]string, len(raw)),
		exact:   make(map[string]int, len(raw)),
		trimmed: make(map[string]int, len(raw)),
	}
	for i, name := range raw {
		if i == 0 {
			name = strings.TrimPrefix(name, "\ufeff")
		}
		h.Raw[i] = name
		if _, ok := h.exact[name]; !ok {
			h.exact[name] = i
		}
		t := strings.TrimSpace(name)
		if _, ok := h.trimmed[t]; !ok {
			h.trimmed[t] = i
		}
	}
	return h
}

// Index returns the column index for field, or false if it cannot be resolved.
func (h Header) Index(field string) (int, bool) {
	if i, ok := h.exact[field]; ok {
		return i, true
	}
	if i, ok := h.exact[field+" "]; ok {
		return i, true
	}
	if i, ok := h.trimmed[strings.TrimSpace(field)]; ok {
		return i, true
	}
	return 0, false
}

// Missing returns the fields that do not resolve to any column.
func (h Header) Missing(fields ...string) []string {
	var out []string
	for _, f := range fields {
		if _, ok := h.Index(f); !ok {
			out = append(out, f)
		}
	}
	return out
}
