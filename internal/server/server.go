// Package server serves a rendered bundle together with the interaction API.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/KaramelBytes/dcviz/internal/aggregate"
	"github.com/KaramelBytes/dcviz/internal/config"
	"github.com/KaramelBytes/dcviz/internal/dataset"
	"github.com/KaramelBytes/dcviz/internal/interact"
	"github.com/KaramelBytes/dcviz/internal/logging"
	"github.com/KaramelBytes/dcviz/internal/pointcloud"
	"github.com/KaramelBytes/dcviz/internal/render"
	"github.com/KaramelBytes/dcviz/internal/state"
)

// Options tune New.
type Options struct {
	// Client fetches remote datasets; nil uses a client with the configured timeout.
	Client *http.Client
}

// Server owns one App, its dispatcher and its rendered pages.
type Server struct {
	cfg      *config.Global
	log      *logging.Logger
	app      *state.App
	disp     *interact.Dispatcher
	metrics  *Metrics
	registry *prometheus.Registry
	pages    map[string][]byte
}

// New loads the datasets and renders the interactive bundle in memory.
func New(ctx context.Context, cfg *config.Global, log *logging.Logger, opt Options) (*Server, error) {
	if log == nil {
		log = logging.Discard()
	}
	reg := prometheus.NewRegistry()
	s := &Server{cfg: cfg, log: log, registry: reg, metrics: NewMetrics(reg)}

	s.app = state.Load(ctx, cfg, log, state.Options{Client: opt.Client, Observer: s.metrics})
	s.disp = interact.NewDispatcher(s.app)

	start := time.Now()
	pages, err := render.New(s.app, log, render.Options{Interactive: true}).All()
	if err != nil {
		return nil, fmt.Errorf("render pages: %w", err)
	}
	s.metrics.renderSeconds.Observe(time.Since(start).Seconds())
	s.pages = make(map[string][]byte, len(pages))
	for _, p := range pages {
		s.pages[p.File()] = p.HTML
	}
	return s, nil
}

// App exposes the served state, mostly for tests.
func (s *Server) App() *state.App { return s.app }

// Handler returns the HTTP routes.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", s.handlePage)
	mux.HandleFunc("GET /{page}", s.handlePage)
	mux.HandleFunc("GET /api/hover", s.handleHover)
	mux.HandleFunc("DELETE /api/hover", s.handleExit)
	mux.HandleFunc("POST /api/sites", s.handleSites)
	mux.HandleFunc("POST /api/view", s.handleView)
	mux.HandleFunc("GET /api/points", s.handlePoints)
	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.Handle("GET /metrics", promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{}))
	return mux
}

// Run serves on the configured address until ctx is cancelled, then shuts
// down gracefully.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.cfg.ListenAddr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", s.cfg.ListenAddr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve is Run on an existing listener.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		ErrorLog:          slog.NewLogLogger(s.log.Slog().Handler(), slog.LevelWarn),
	}
	errCh := make(chan error, 1)
	go func() {
		s.log.Info("serving on http://%s", ln.Addr())
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		s.log.Info("shutting down")
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		return nil
	}
}

func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("page")
	if name == "" {
		name = render.PageIndex + ".html"
	}
	if !strings.HasSuffix(name, ".html") {
		name += ".html"
	}
	body, ok := s.pages[name]
	if !ok {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(body)
}

type hoverResponse struct {
	Overlay *pointcloud.Overlay `json:"overlay"`
	HTML    string              `json:"html,omitempty"`
}

func (s *Server) handleHover(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	target, err := interact.ParseTarget(q.Get("target"))
	if err != nil {
		s.metrics.hover(q.Get("target"), "bad_request")
		writeError(w, http.StatusBadRequest, err)
		return
	}
	index, err := strconv.Atoi(q.Get("index"))
	if err != nil {
		s.metrics.hover(string(target), "bad_request")
		writeError(w, http.StatusBadRequest, fmt.Errorf("index: %w", err))
		return
	}
	move := interact.PointerMove{Target: target, Index: index}
	if v := q.Get("view"); v != "" {
		if move.View, err = dataset.ParseChipView(v); err != nil {
			s.metrics.hover(string(target), "bad_request")
			writeError(w, http.StatusBadRequest, err)
			return
		}
	}
	if y := q.Get("year"); y != "" {
		if move.Year, err = strconv.Atoi(y); err != nil {
			s.metrics.hover(string(target), "bad_request")
			writeError(w, http.StatusBadRequest, fmt.Errorf("year: %w", err))
			return
		}
	}
	s.metrics.event("pointer_move")
	out, err := s.disp.Dispatch(move)
	if err != nil {
		s.metrics.hover(string(target), "miss")
		writeError(w, statusFor(err), err)
		return
	}
	s.metrics.hover(string(target), "hit")
	writeJSON(w, http.StatusOK, hoverResponse{Overlay: out.Overlay, HTML: out.Overlay.HTML()})
}

func (s *Server) handleExit(w http.ResponseWriter, r *http.Request) {
	s.metrics.event("pointer_exit")
	_, _ = s.disp.Dispatch(interact.PointerExit{})
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleSites(w http.ResponseWriter, r *http.Request) {
	year, err := strconv.Atoi(r.URL.Query().Get("year"))
	if err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("year: %w", err))
		return
	}
	s.metrics.event("select_year")
	out, err := s.disp.Dispatch(interact.SelectYear{Year: year})
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleView(w http.ResponseWriter, r *http.Request) {
	view, err := dataset.ParseChipView(r.URL.Query().Get("name"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	s.metrics.event("switch_view")
	out, err := s.disp.Dispatch(interact.SwitchView{View: view})
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

type pointsResponse struct {
	View    dataset.ChipView         `json:"view"`
	Caption string                   `json:"caption"`
	Legend  []pointcloud.LegendEntry `json:"legend"`
	Points  []pointcloud.Point       `json:"points"`
}

func (s *Server) handlePoints(w http.ResponseWriter, r *http.Request) {
	var view dataset.ChipView
	if name := r.URL.Query().Get("view"); name != "" {
		v, err := dataset.ParseChipView(name)
		if err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}
		view = v
	}
	var (
		cloud *pointcloud.Cloud
		err   error
	)
	s.disp.With(func(app *state.App) {
		if view == "" {
			view = app.View
		}
		cloud, _, err = app.CloudFor(view)
	})
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}
	writeJSON(w, http.StatusOK, pointsResponse{
		View:    view,
		Caption: cloud.Spec.Caption,
		Legend:  cloud.Spec.Legend,
		Points:  cloud.Points,
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	var (
		sums   []render.DatasetSummary
		status = "ok"
	)
	s.disp.With(func(app *state.App) {
		sums = render.Summaries(app)
		if len(app.LoadErrors()) > 0 {
			status = "degraded"
		}
	})
	writeJSON(w, http.StatusOK, map[string]any{"status": status, "datasets": sums})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, pointcloud.ErrNoPoint), errors.Is(err, aggregate.ErrNoData):
		return http.StatusNotFound
	case errors.Is(err, dataset.ErrUnknownView), errors.Is(err, interact.ErrUnknownTarget):
		return http.StatusBadRequest
	case dataset.IsLoadError(err):
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}
