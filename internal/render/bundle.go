package render

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/KaramelBytes/dcviz/internal/dataset"
	"github.com/KaramelBytes/dcviz/internal/state"
	"github.com/KaramelBytes/dcviz/internal/utils"
)

// DatasetSummary is the health line of one input.
type DatasetSummary struct {
	Name     string `json:"name"`
	Source   string `json:"source"`
	Accepted int    `json:"accepted"`
	Rejected int    `json:"rejected"`
	Error    string `json:"error,omitempty"`
}

// Manifest describes a rendered bundle.
type Manifest struct {
	RunID       string           `json:"run_id"`
	GeneratedAt time.Time        `json:"generated_at"`
	Pages       []string         `json:"pages"`
	Datasets    []DatasetSummary `json:"datasets"`
}

// Summaries reports the validation outcome of every dataset of app.
func Summaries(app *state.App) []DatasetSummary {
	out := []DatasetSummary{
		summarize(app.PUE.Source, app.PUE.Result, app.PUE.Err),
		summarize(app.Servers.Source, app.Servers.Result, app.Servers.Err),
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
		s := summarize(app.ChipSource, res, app.ChipErr)
		if res == nil {
			s.Name = fmt.Sprintf("%s[%s]", s.Name, v)
		}
		out = append(out, s)
	}
	return out
}

func summarize[T any](source string, res *dataset.Result[T], err error) DatasetSummary {
	s := DatasetSummary{Name: filepath.Base(source), Source: source}
	if err != nil {
		s.Error = err.Error()
		return s
	}
	if res != nil {
		s.Name = res.Name
		s.Accepted = len(res.Records)
		s.Rejected = res.Rejected
	}
	return s
}

// NewManifest stamps a bundle with a fresh run id.
func NewManifest(app *state.App, pages []Page) Manifest {
	m := Manifest{
		RunID:       uuid.NewString(),
		GeneratedAt: time.Now().UTC(),
		Datasets:    Summaries(app),
	}
	for _, p := range pages {
		m.Pages = append(m.Pages, p.File())
	}
	return m
}

// WriteBundle writes every page and the manifest into dir, replacing
// previous files atomically one by one.
func WriteBundle(dir string, pages []Page, m Manifest) error {
	for _, p := range pages {
		if err := utils.WriteFileAtomic(filepath.Join(dir, p.File()), p.HTML); err != nil {
			return fmt.Errorf("write %s: %w", p.File(), err)
		}
	}
	b, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal manifest: %w", err)
	}
	if err := utils.WriteFileAtomic(filepath.Join(dir, utils.ManifestName), b); err != nil {
		return fmt.Errorf("write manifest: %w", err)
	}
	return nil
}
