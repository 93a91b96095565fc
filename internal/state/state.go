// Package state holds the explicit application state handed to renderers and
// event handlers. Nothing here is package-global.
package state

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/KaramelBytes/dcviz/internal/aggregate"
	"github.com/KaramelBytes/dcviz/internal/config"
	"github.com/KaramelBytes/dcviz/internal/dataset"
	"github.com/KaramelBytes/dcviz/internal/logging"
	"github.com/KaramelBytes/dcviz/internal/pointcloud"
)

// Dataset is one loaded input: either validated records or the load failure.
type Dataset[T any] struct {
	Source string
	Result *dataset.Result[T]
	Err    error
}

// Failed reports a load failure.
func (d Dataset[T]) Failed() bool { return d.Err != nil }

// Records returns the validated records, nil after a load failure.
func (d Dataset[T]) Records() []T {
	if d.Result == nil {
		return nil
	}
	return d.Result.Records
}

// Observer is notified of per-dataset validation outcomes.
type Observer interface {
	ObserveDataset(name string, accepted, rejected int)
}

// App is everything one run (or one served session) knows.
type App struct {
	Config *config.Global
	Log    *logging.Logger

	PUE     Dataset[dataset.PUERecord]
	Servers Dataset[dataset.ServerRecord]

	// Chip rows are kept raw: validation depends on the active view.
	ChipSource string
	ChipTable  *dataset.Table
	ChipErr    error

	View  dataset.ChipView
	Chips *dataset.Result[dataset.ChipRecord]
	Cloud *pointcloud.Cloud

	// SiteYear is the year shown by the per-site chart; 0 when none.
	SiteYear int

	observer Observer
}

// Options tune Load.
type Options struct {
	Client   *http.Client
	Observer Observer
}

// Load reads all three datasets. A failing dataset is recorded on the App and
// never prevents the others from loading.
func Load(ctx context.Context, cfg *config.Global, log *logging.Logger, opt Options) *App {
	if log == nil {
		log = logging.Discard()
	}
	client := opt.Client
	if client == nil {
		client = &http.Client{Timeout: time.Duration(cfg.HTTPTimeoutSec) * time.Second}
	}
	a := &App{Config: cfg, Log: log, observer: opt.Observer}

	a.PUE.Source = cfg.Data.PUE
	if t, err := dataset.Load(ctx, cfg.Data.PUE, client); err != nil {
		a.PUE.Err = err
		log.Error("%v", err)
	} else {
		a.PUE.Result = dataset.DecodePUE(t, log)
		a.observe(a.PUE.Result.Name, len(a.PUE.Result.Records), a.PUE.Result.Rejected)
	}

	a.Servers.Source = cfg.Data.Servers
	if t, err := dataset.Load(ctx, cfg.Data.Servers, client); err != nil {
		a.Servers.Err = err
		log.Error("%v", err)
	} else {
		a.Servers.Result = dataset.DecodeServers(t, log)
		a.observe(a.Servers.Result.Name, len(a.Servers.Result.Records), a.Servers.Result.Rejected)
	}

	a.ChipSource = cfg.Data.Chips
	if t, err := dataset.Load(ctx, cfg.Data.Chips, client); err != nil {
		a.ChipErr = err
		log.Error("%v", err)
	} else {
		a.ChipTable = t
	}

	view, err := dataset.ParseChipView(cfg.DefaultView)
	if err != nil {
		log.Warn("default view: %v; using %s", err, dataset.ViewTransistors)
		view = dataset.ViewTransistors
	}
	if err := a.SetView(view); err != nil && a.ChipErr == nil {
		log.Warn("build cloud: %v", err)
	}

	if years := a.SiteYears(); len(years) > 0 {
		a.SiteYear = years[len(years)-1]
	}
	return a
}

func (a *App) observe(name string, accepted, rejected int) {
	if a.observer != nil {
		a.observer.ObserveDataset(name, accepted, rejected)
	}
}

// AllFailed reports that no dataset could be loaded.
func (a *App) AllFailed() bool {
	return a.PUE.Failed() && a.Servers.Failed() && a.ChipErr != nil
}

// LoadErrors lists every dataset load failure.
func (a *App) LoadErrors() []error {
	var errs []error
	for _, err := range []error{a.PUE.Err, a.Servers.Err, a.ChipErr} {
		if err != nil {
			errs = append(errs, err)
		}
	}
	return errs
}

// SetView validates the chip rows for view and replaces the current cloud.
// The previous cloud is released before the new one is built.
func (a *App) SetView(view dataset.ChipView) error {
	if _, err := pointcloud.SpecFor(view); err != nil {
		return err
	}
	a.View = view
	a.Cloud = nil
	a.Chips = nil
	if a.ChipTable == nil {
		if a.ChipErr != nil {
			return a.ChipErr
		}
		return fmt.Errorf("chips: %w", aggregate.ErrNoData)
	}
	a.Chips = dataset.DecodeChips(a.ChipTable, view, a.Log)
	a.observe(a.Chips.Name, len(a.Chips.Records), a.Chips.Rejected)
	cloud, err := pointcloud.Build(view, a.Chips.Records)
	if err != nil {
		return err
	}
	a.Cloud = cloud
	return nil
}

// CloudFor builds the cloud of a view without touching the active one.
func (a *App) CloudFor(view dataset.ChipView) (*pointcloud.Cloud, *dataset.Result[dataset.ChipRecord], error) {
	if view == a.View && a.Cloud != nil {
		return a.Cloud, a.Chips, nil
	}
	if a.ChipTable == nil {
		if a.ChipErr != nil {
			return nil, nil, a.ChipErr
		}
		return nil, nil, fmt.Errorf("chips: %w", aggregate.ErrNoData)
	}
	res := dataset.DecodeChips(a.ChipTable, view, a.Log)
	c, err := pointcloud.Build(view, res.Records)
	if err != nil {
		return nil, nil, err
	}
	return c, res, nil
}

// SiteYears lists the years with per-site data.
func (a *App) SiteYears() []int {
	return aggregate.SiteYears(a.PUE.Records(), a.Config.GlobalSite)
}

// SetSiteYear selects the year of the per-site chart.
func (a *App) SetSiteYear(year int) error {
	for _, y := range a.SiteYears() {
		if y == year {
			a.SiteYear = year
			return nil
		}
	}
	return fmt.Errorf("year %d: %w", year, aggregate.ErrNoData)
}

// Sites derives the per-site chart for the selected year.
func (a *App) Sites() (aggregate.SitesView, error) {
	return aggregate.Sites(a.PUE.Records(), a.SiteYear, a.Config.GlobalSite)
}

// Timeline is the chronological global series.
func (a *App) Timeline() []dataset.PUERecord {
	return aggregate.Timeline(a.PUE.Records(), a.Config.GlobalSite)
}
