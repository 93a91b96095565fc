// Package snapshot captures PNG images of rendered pages with headless Chrome.
package snapshot

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"github.com/chromedp/chromedp"

	"github.com/KaramelBytes/dcviz/internal/config"
	"github.com/KaramelBytes/dcviz/internal/logging"
	"github.com/KaramelBytes/dcviz/internal/utils"
)

// ErrNoPages is returned when a capture is requested for an empty page list.
var ErrNoPages = errors.New("no pages to capture")

// Target is one page to capture. Container, when set, restricts the image to
// that element; otherwise the full page is captured.
type Target struct {
	Name      string
	URL       string
	Container string
}

// Snapshotter drives one headless browser for a batch of captures.
type Snapshotter struct {
	cfg *config.Global
	log *logging.Logger
	// Settle is how long to wait after the page is visible so chart animations finish.
	Settle time.Duration
}

// New returns a snapshotter using the browser and viewport from cfg.
func New(cfg *config.Global, log *logging.Logger) *Snapshotter {
	if log == nil {
		log = logging.Discard()
	}
	return &Snapshotter{cfg: cfg, log: log, Settle: 1500 * time.Millisecond}
}

func (s *Snapshotter) allocatorOptions() []chromedp.ExecAllocatorOption {
	w, h := s.cfg.SnapshotWidth, s.cfg.SnapshotHeight
	if w <= 0 {
		w = 1280
	}
	if h <= 0 {
		h = 900
	}
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("allow-file-access-from-files", true),
		chromedp.WindowSize(w, h),
	)
	if s.cfg.ChromePath != "" {
		opts = append(opts, chromedp.ExecPath(s.cfg.ChromePath))
	}
	return opts
}

// Capture writes one PNG per target into dir and returns the written paths.
// A target that fails is logged and skipped; the error reports the first failure.
func (s *Snapshotter) Capture(ctx context.Context, dir string, targets []Target) ([]string, error) {
	if len(targets) == 0 {
		return nil, ErrNoPages
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create snapshot dir: %w", err)
	}

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, s.allocatorOptions()...)
	defer cancelAlloc()
	bctx, cancel := chromedp.NewContext(allocCtx, chromedp.WithLogf(func(string, ...interface{}) {}))
	defer cancel()

	var (
		paths    []string
		firstErr error
	)
	for _, t := range targets {
		img, err := s.shoot(bctx, t)
		if err != nil {
			s.log.Warn("snapshot %s: %v", t.Name, err)
			if firstErr == nil {
				firstErr = fmt.Errorf("snapshot %s: %w", t.Name, err)
			}
			continue
		}
		path := filepath.Join(dir, t.Name+".png")
		if err := utils.WriteFileAtomic(path, img); err != nil {
			return paths, err
		}
		s.log.Debug("wrote %s (%d bytes)", path, len(img))
		paths = append(paths, path)
	}
	return paths, firstErr
}

func (s *Snapshotter) shoot(ctx context.Context, t Target) ([]byte, error) {
	var img []byte
	actions := []chromedp.Action{
		chromedp.Navigate(t.URL),
		chromedp.WaitVisible("body", chromedp.ByQuery),
	}
	if t.Container != "" {
		actions = append(actions,
			chromedp.WaitVisible(t.Container, chromedp.ByID),
			chromedp.Sleep(s.Settle),
			chromedp.Screenshot(t.Container, &img, chromedp.NodeVisible, chromedp.ByID),
		)
	} else {
		actions = append(actions,
			chromedp.Sleep(s.Settle),
			chromedp.FullScreenshot(&img, 100),
		)
	}
	if err := chromedp.Run(ctx, actions...); err != nil {
		return nil, err
	}
	return img, nil
}

// BundleTargets lists full-page targets for every .html file of a rendered bundle.
func BundleTargets(dir string, pages []string) ([]Target, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, err
	}
	out := make([]Target, 0, len(pages))
	for _, p := range pages {
		path := filepath.Join(abs, p)
		if _, err := os.Stat(path); err != nil {
			return nil, fmt.Errorf("page %s: %w", p, err)
		}
		name := p[:len(p)-len(filepath.Ext(p))]
		out = append(out, Target{Name: name, URL: FileURL(path)})
	}
	return out, nil
}

// FileURL converts an absolute path to a file:// URL.
func FileURL(path string) string {
	return (&url.URL{Scheme: "file", Path: filepath.ToSlash(path)}).String()
}
