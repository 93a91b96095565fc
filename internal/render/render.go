// Package render turns the application state into HTML pages built with
// go-echarts. Each visualization targets one container id; a container absent
// from the layout is skipped, a failed dataset becomes an inline error block
// and an empty one a "no data" block.
package render

import (
	"bytes"
	"fmt"
	"html"
	"math"
	"strings"

	"github.com/go-echarts/go-echarts/v2/components"

	"github.com/KaramelBytes/dcviz/internal/dataset"
	"github.com/KaramelBytes/dcviz/internal/logging"
	"github.com/KaramelBytes/dcviz/internal/state"
)

// Options tune rendering.
type Options struct {
	// Interactive adds the scripts that forward hover and selector events to
	// the HTTP API. Static bundles leave it off.
	Interactive bool
}

// Renderer renders the pages of one App.
type Renderer struct {
	app *state.App
	log *logging.Logger
	opt Options
}

// New binds a renderer to app.
func New(app *state.App, log *logging.Logger, opt Options) *Renderer {
	if log == nil {
		log = logging.Discard()
	}
	return &Renderer{app: app, log: log, opt: opt}
}

// Page is one rendered HTML document.
type Page struct {
	Name  string
	Title string
	HTML  []byte
}

// File is the page's file name inside a bundle.
func (p Page) File() string { return p.Name + ".html" }

// Page names.
const (
	PagePUE         = "pue"
	PageSites       = "sites"
	PageServers     = "servers"
	PageIndex       = "index"
	cloudPagePrefix = "cloud-"
)

// CloudPageName is the page of a point-cloud view.
func CloudPageName(v dataset.ChipView) string { return cloudPagePrefix + string(v) }

// All renders every page of the bundle, index last. A page that fails to
// render aborts the bundle; data problems never do.
func (r *Renderer) All() ([]Page, error) {
	var pages []Page
	builders := []func() (Page, error){r.PUE, r.SitesTabs, r.Servers}
	for _, v := range dataset.ChipViews {
		v := v
		builders = append(builders, func() (Page, error) { return r.Cloud(v) })
	}
	for _, b := range builders {
		p, err := b()
		if err != nil {
			return nil, err
		}
		pages = append(pages, p)
	}
	idx, err := r.Index(pages)
	if err != nil {
		return nil, err
	}
	return append(pages, idx), nil
}

// section is one container of a page: a chart or a raw HTML block.
type section struct {
	container string
	chart     components.Charter
	html      string
}

func (r *Renderer) has(container string) bool {
	if r.app.Config.Layout.Has(container) {
		return true
	}
	r.log.Debug("container %s not in layout, skipping", container)
	return false
}

// assemble renders the charts through a go-echarts page and injects the HTML
// blocks, stylesheet and scripts around them.
func (r *Renderer) assemble(name, title string, secs []section, extra string) (Page, error) {
	page := components.NewPage()
	page.PageTitle = title

	var blocks strings.Builder
	ids := map[string]string{}
	for _, s := range secs {
		if s.chart != nil {
			page.AddCharts(s.chart)
			ids[chartID(s.container)] = s.container
			continue
		}
		blocks.WriteString(s.html)
	}

	var buf bytes.Buffer
	if err := page.Render(&buf); err != nil {
		return Page{}, fmt.Errorf("render %s: %w", name, err)
	}
	out := buf.String()
	// echarts uses the chart id in a JS identifier, so charts are rendered
	// with underscores and only the quoted element ids are rewritten.
	for cid, container := range ids {
		out = strings.ReplaceAll(out, `"`+cid+`"`, `"`+container+`"`)
		out = strings.ReplaceAll(out, `'`+cid+`'`, `'`+container+`'`)
	}
	out = strings.Replace(out, "</head>", styleSheet+"</head>", 1)
	head := fmt.Sprintf("<body>\n<header class=\"viz-header\"><h1>%s</h1><nav>%s</nav></header>\n%s%s",
		html.EscapeString(title), r.nav(), blocks.String(), extra)
	out = strings.Replace(out, "<body>", head, 1)
	if r.opt.Interactive {
		out = strings.Replace(out, "</body>", overlayElement+hoverScript+"</body>", 1)
	}
	return Page{Name: name, Title: title, HTML: []byte(out)}, nil
}

func (r *Renderer) nav() string {
	links := []struct{ href, label string }{
		{PageIndex + ".html", "Accueil"},
		{PagePUE + ".html", "PUE"},
		{PageSites + ".html", "Sites"},
		{PageServers + ".html", "Serveurs"},
	}
	for _, v := range dataset.ChipViews {
		links = append(links, struct{ href, label string }{CloudPageName(v) + ".html", "Puces: " + string(v)})
	}
	var b strings.Builder
	for _, l := range links {
		fmt.Fprintf(&b, `<a href="%s">%s</a>`, l.href, html.EscapeString(l.label))
	}
	return b.String()
}

func chartID(container string) string {
	return strings.ReplaceAll(container, "-", "_")
}

// errorBlock is the inline message shown in place of a chart whose dataset
// could not be loaded.
func errorBlock(container, source string, err error) section {
	return section{container: container, html: fmt.Sprintf(
		`<div id="%s" class="viz-block viz-error" role="alert"><p>Impossible de charger les données (%s).</p><p class="viz-detail">%s</p></div>`+"\n",
		container, html.EscapeString(source), html.EscapeString(err.Error()))}
}

// noDataBlock replaces a chart that has no validated record to show.
func noDataBlock(container, msg string) section {
	return section{container: container, html: fmt.Sprintf(
		`<div id="%s" class="viz-block viz-empty"><p>%s</p></div>`+"\n",
		container, html.EscapeString(msg))}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
