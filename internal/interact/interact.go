// Package interact turns input events into state transitions and overlays.
// Each handler runs to completion before the next event is processed.
package interact

import (
	"errors"
	"fmt"
	"strconv"
	"sync"

	"github.com/KaramelBytes/dcviz/internal/aggregate"
	"github.com/KaramelBytes/dcviz/internal/dataset"
	"github.com/KaramelBytes/dcviz/internal/pointcloud"
	"github.com/KaramelBytes/dcviz/internal/state"
)

// Target names the visualization an event comes from.
type Target string

const (
	TargetCloud    Target = "cloud"
	TargetSites    Target = "sites"
	TargetTimeline Target = "timeline"
	TargetServers  Target = "servers"
)

// ErrUnknownTarget is returned for a pointer event on an unsupported target.
var ErrUnknownTarget = errors.New("unknown target")

// ParseTarget validates a target name.
func ParseTarget(s string) (Target, error) {
	switch t := Target(s); t {
	case TargetCloud, TargetSites, TargetTimeline, TargetServers:
		return t, nil
	}
	return "", fmt.Errorf("%w %q", ErrUnknownTarget, s)
}

// Event is any input the dispatcher accepts.
type Event interface{ isEvent() }

// PointerMove reports that the pointer is over the shape with Index on Target.
// View and Year name the chart the page drew; when set they are resolved
// for this event only and the App selections are left untouched.
type PointerMove struct {
	Target Target
	Index  int
	View   dataset.ChipView
	Year   int
}

// PointerExit reports that the pointer left every shape.
type PointerExit struct{}

// SelectYear changes the year of the per-site chart.
type SelectYear struct{ Year int }

// SwitchView replaces the point-cloud view.
type SwitchView struct{ View dataset.ChipView }

func (PointerMove) isEvent() {}
func (PointerExit) isEvent() {}
func (SelectYear) isEvent()  {}
func (SwitchView) isEvent()  {}

// Outcome is what the page must show after an event.
type Outcome struct {
	// Overlay is nil when the overlay must be hidden.
	Overlay *pointcloud.Overlay `json:"overlay"`
	// Sites is set after a year change.
	Sites *aggregate.SitesView `json:"sites,omitempty"`
	// View and Points are set after a view switch.
	View   dataset.ChipView   `json:"view,omitempty"`
	Points []pointcloud.Point `json:"points,omitempty"`
}

// Dispatcher serializes events against one App.
type Dispatcher struct {
	mu      sync.Mutex
	app     *state.App
	overlay *pointcloud.Overlay
}

// NewDispatcher binds a dispatcher to app.
func NewDispatcher(app *state.App) *Dispatcher {
	return &Dispatcher{app: app}
}

// With runs fn while holding the dispatcher lock, for read access to the App.
func (d *Dispatcher) With(fn func(*state.App)) {
	d.mu.Lock()
	defer d.mu.Unlock()
	fn(d.app)
}

// Overlay returns the overlay currently shown, nil when hidden.
func (d *Dispatcher) Overlay() *pointcloud.Overlay {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.overlay
}

// Dispatch applies ev. A pointer move with no resolvable record hides the
// overlay and returns the lookup error.
func (d *Dispatcher) Dispatch(ev Event) (Outcome, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	switch e := ev.(type) {
	case PointerMove:
		o, err := d.resolve(e)
		if err != nil {
			d.overlay = nil
			return Outcome{}, err
		}
		d.overlay = &o
		return Outcome{Overlay: &o}, nil
	case PointerExit:
		d.overlay = nil
		return Outcome{}, nil
	case SelectYear:
		if err := d.app.SetSiteYear(e.Year); err != nil {
			return Outcome{}, err
		}
		v, err := d.app.Sites()
		if err != nil {
			return Outcome{}, err
		}
		return Outcome{Sites: &v}, nil
	case SwitchView:
		d.overlay = nil
		if err := d.app.SetView(e.View); err != nil {
			return Outcome{}, err
		}
		return Outcome{View: d.app.View, Points: d.app.Cloud.Points}, nil
	}
	return Outcome{}, fmt.Errorf("unsupported event %T", ev)
}

func (d *Dispatcher) resolve(e PointerMove) (pointcloud.Overlay, error) {
	switch e.Target {
	case TargetCloud:
		if e.View == "" {
			return d.app.Cloud.Overlay(e.Index)
		}
		c, _, err := d.app.CloudFor(e.View)
		if err != nil {
			return pointcloud.Overlay{}, err
		}
		return c.Overlay(e.Index)
	case TargetTimeline:
		series := d.app.Timeline()
		if e.Index < 0 || e.Index >= len(series) {
			return pointcloud.Overlay{}, fmt.Errorf("%w %d", pointcloud.ErrNoPoint, e.Index)
		}
		return TimelineOverlay(series[e.Index]), nil
	case TargetSites:
		v, err := d.sites(e.Year)
		if err != nil {
			return pointcloud.Overlay{}, err
		}
		if e.Index < 0 || e.Index >= len(v.Sites) {
			return pointcloud.Overlay{}, fmt.Errorf("%w %d", pointcloud.ErrNoPoint, e.Index)
		}
		return SiteOverlay(v.Sites[e.Index]), nil
	case TargetServers:
		recs := d.app.Servers.Records()
		if e.Index < 0 || e.Index >= len(recs) {
			return pointcloud.Overlay{}, fmt.Errorf("%w %d", pointcloud.ErrNoPoint, e.Index)
		}
		return ServerOverlay(recs[e.Index]), nil
	}
	return pointcloud.Overlay{}, fmt.Errorf("%w %q", ErrUnknownTarget, e.Target)
}

func (d *Dispatcher) sites(year int) (aggregate.SitesView, error) {
	if year == 0 {
		return d.app.Sites()
	}
	return aggregate.Sites(d.app.PUE.Records(), year, d.app.Config.GlobalSite)
}

// TimelineOverlay is the tooltip of one timeline point.
func TimelineOverlay(r dataset.PUERecord) pointcloud.Overlay {
	o := pointcloud.Overlay{
		Title:  r.QuarterLabel(),
		Fields: []pointcloud.Field{{Label: "PUE", Value: strconv.FormatFloat(r.PUE, 'f', 2, 64)}},
	}
	if r.PUE12 != nil {
		o.Fields = append(o.Fields, pointcloud.Field{Label: "PUE 12 mois", Value: strconv.FormatFloat(*r.PUE12, 'f', 2, 64)})
	}
	return o
}

// SiteOverlay is the tooltip of one site bar.
func SiteOverlay(s aggregate.SiteMean) pointcloud.Overlay {
	return pointcloud.Overlay{
		Title: s.Site,
		Fields: []pointcloud.Field{
			{Label: "Pays", Value: s.Country},
			{Label: "PUE", Value: strconv.FormatFloat(s.PUE, 'f', 2, 64)},
		},
	}
}

// ServerOverlay is the tooltip of one server point.
func ServerOverlay(r dataset.ServerRecord) pointcloud.Overlay {
	return pointcloud.Overlay{
		Title: r.System,
		Fields: []pointcloud.Field{
			{Label: "Vendor", Value: r.Vendor},
			{Label: "Year", Value: strconv.Itoa(r.Year)},
			{Label: "Power", Value: strconv.FormatFloat(r.Power, 'f', 0, 64) + " W"},
			{Label: "Perf", Value: strconv.FormatFloat(r.Perf, 'f', 0, 64) + " ssj_ops"},
			{Label: "Efficiency", Value: strconv.FormatFloat(r.Efficiency, 'f', 0, 64) + " ops/W"},
		},
	}
}
