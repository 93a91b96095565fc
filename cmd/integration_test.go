package cmd

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	cfgpkg "github.com/KaramelBytes/dcviz/internal/config"
	"github.com/KaramelBytes/dcviz/internal/render"
	"github.com/KaramelBytes/dcviz/internal/testfixture"
	"github.com/KaramelBytes/dcviz/internal/utils"
)

// resetFlags clears flag values and Changed state that persist across invocations.
func resetFlags(c *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	c.Flags().VisitAll(reset)
	c.PersistentFlags().VisitAll(reset)
	for _, sub := range c.Commands() {
		resetFlags(sub)
	}
}

// execute runs the root command with args and returns its stdout.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	resetFlags(rootCmd)
	var out, errOut bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

// runCmd is a helper to execute the root command with args; it fails the test on error.
func runCmd(t *testing.T, args ...string) string {
	t.Helper()
	out, err := execute(t, args...)
	if err != nil {
		t.Fatalf("command %v failed: %v", args, err)
	}
	return out
}

// setup writes the fixture datasets and a config file pointing at them.
func setup(t *testing.T) (string, *cfgpkg.Global) {
	t.Helper()
	dir := t.TempDir()
	c := testfixture.Write(t, dir)
	path := filepath.Join(dir, "config.yaml")
	if err := cfgpkg.Save(c, path); err != nil {
		t.Fatalf("save config: %v", err)
	}
	return path, c
}

func TestCLI_RenderBundle(t *testing.T) {
	cfgPath, c := setup(t)
	out := runCmd(t, "--config", cfgPath, "render")

	if !strings.Contains(out, "✓ Wrote 6 pages to "+c.OutputDir) {
		t.Fatalf("unexpected output:\n%s", out)
	}
	if !strings.Contains(out, "✓ pue.csv: 9 rows accepted, 2 rejected") {
		t.Fatalf("missing dataset line:\n%s", out)
	}
	for _, name := range []string{"index.html", "pue.html", "sites.html", "servers.html", "cloud-transistors.html", "cloud-performance.html", utils.ManifestName} {
		if _, err := os.Stat(filepath.Join(c.OutputDir, name)); err != nil {
			t.Fatalf("expected %s in bundle: %v", name, err)
		}
	}
	b, err := os.ReadFile(filepath.Join(c.OutputDir, utils.ManifestName))
	if err != nil {
		t.Fatal(err)
	}
	var m render.Manifest
	if err := json.Unmarshal(b, &m); err != nil {
		t.Fatalf("manifest: %v", err)
	}
	if m.RunID == "" || len(m.Pages) != 6 {
		t.Fatalf("unexpected manifest: %+v", m)
	}

	alt := filepath.Join(t.TempDir(), "alt")
	runCmd(t, "--config", cfgPath, "render", "-o", alt)
	if _, err := os.Stat(filepath.Join(alt, "index.html")); err != nil {
		t.Fatalf("--out not honoured: %v", err)
	}
}

func TestCLI_RenderPartialFailure(t *testing.T) {
	cfgPath, _ := setup(t)
	missing := filepath.Join(t.TempDir(), "missing.csv")

	out := runCmd(t, "--config", cfgPath, "--chips", missing, "render")
	if !strings.Contains(out, "⚠ missing.csv") {
		t.Fatalf("expected a warning line for the missing chips file:\n%s", out)
	}

	if _, err := execute(t, "--config", cfgPath, "--chips", missing, "render", "--strict"); err == nil {
		t.Fatal("expected --strict to fail on a load error")
	}

	dir := filepath.Join(t.TempDir(), "failed")
	out, err := execute(t, "--config", cfgPath, "--pue", missing, "--servers", missing, "--chips", missing, "render", "-o", dir)
	if err == nil || !strings.Contains(err.Error(), "no dataset could be loaded") {
		t.Fatalf("expected total failure error, got %v", err)
	}
	if !strings.Contains(out, "✓ Wrote 6 pages to "+dir) {
		t.Fatalf("expected the error bundle to be written:\n%s", out)
	}
	b, err := os.ReadFile(filepath.Join(dir, "pue.html"))
	if err != nil {
		t.Fatalf("expected pue.html in the error bundle: %v", err)
	}
	if !strings.Contains(string(b), "viz-error") {
		t.Fatalf("pue.html carries no error block")
	}
	if _, err := os.Stat(filepath.Join(dir, "index.html")); err != nil {
		t.Fatalf("expected index.html in the error bundle: %v", err)
	}
}

func TestCLI_Inspect(t *testing.T) {
	cfgPath, _ := setup(t)

	out := runCmd(t, "--config", cfgPath, "inspect", "cloud", "1")
	if !strings.HasPrefix(out, "Radeon HD 5870") {
		t.Fatalf("unexpected overlay:\n%s", out)
	}

	out = runCmd(t, "--config", cfgPath, "inspect", "cloud", "2", "--view", "performance", "--json")
	var o struct {
		Title string `json:"title"`
	}
	if err := json.Unmarshal([]byte(out), &o); err != nil {
		t.Fatalf("json overlay: %v\n%s", err, out)
	}
	if o.Title != "EPYC 7763" {
		t.Fatalf("got %q, want EPYC 7763", o.Title)
	}

	out = runCmd(t, "--config", cfgPath, "inspect", "sites", "0", "--year", "2023")
	if !strings.HasPrefix(out, "Saint-Ghislain") {
		t.Fatalf("unexpected site overlay:\n%s", out)
	}

	if _, err := execute(t, "--config", cfgPath, "inspect", "cloud", "99"); err == nil {
		t.Fatal("expected out-of-range index to fail")
	}
	if _, err := execute(t, "--config", cfgPath, "inspect", "radar", "0"); err == nil {
		t.Fatal("expected unknown target to fail")
	}
	if _, err := execute(t, "--config", cfgPath, "inspect", "cloud", "0", "--view", "power"); err == nil {
		t.Fatal("expected unknown view to fail")
	}
}

func TestCLI_SummaryAndSVG(t *testing.T) {
	cfgPath, c := setup(t)

	out := runCmd(t, "--config", cfgPath, "summary")
	if got := strings.Count(out, "[DATASET SUMMARY]"); got != 4 {
		t.Fatalf("expected 4 dataset sections, got %d:\n%s", got, out)
	}
	if !strings.Contains(out, "chips.csv[performance]") {
		t.Fatalf("missing performance view section:\n%s", out)
	}

	file := filepath.Join(t.TempDir(), "summary.md")
	runCmd(t, "--config", cfgPath, "summary", "-o", file)
	if b, err := os.ReadFile(file); err != nil || !strings.Contains(string(b), "[FIELDS]") {
		t.Fatalf("summary file: %v", err)
	}

	out = runCmd(t, "--config", cfgPath, "svg")
	for _, name := range []string{"pue-timeline.svg", "server-trend.svg"} {
		b, err := os.ReadFile(filepath.Join(c.OutputDir, name))
		if err != nil {
			t.Fatalf("expected %s: %v\n%s", name, err, out)
		}
		if !bytes.Contains(b, []byte("<svg")) {
			t.Fatalf("%s is not an SVG", name)
		}
	}
}

func TestCLI_ConfigShowSet(t *testing.T) {
	cfgPath, _ := setup(t)

	runCmd(t, "--config", cfgPath, "config", "set", "default_view", "performance")
	runCmd(t, "--config", cfgPath, "config", "set", "layout.containers", "viz-pue-timeline, viz-chip-cloud")
	out := runCmd(t, "--config", cfgPath, "config", "show")
	if !strings.Contains(out, "default_view: performance") {
		t.Fatalf("default_view not saved:\n%s", out)
	}
	if !strings.Contains(out, "layout.containers: viz-pue-timeline,viz-chip-cloud") {
		t.Fatalf("layout not saved:\n%s", out)
	}

	if _, err := execute(t, "--config", cfgPath, "config", "set", "default_view", "power"); err == nil {
		t.Fatal("expected invalid view to fail")
	}
	if _, err := execute(t, "--config", cfgPath, "config", "set", "nope", "1"); err == nil {
		t.Fatal("expected unknown key to fail")
	}
}

func TestCLI_SnapshotNeedsBundle(t *testing.T) {
	cfgPath, _ := setup(t)
	_, err := execute(t, "--config", cfgPath, "snapshot", "--bundle", t.TempDir())
	if err == nil || !strings.Contains(err.Error(), "locate bundle") {
		t.Fatalf("expected missing bundle error, got %v", err)
	}
}
