package cmd

import (
	"context"
	"fmt"
	"os"

	cfgpkg "github.com/KaramelBytes/dcviz/internal/config"
	"github.com/KaramelBytes/dcviz/internal/logging"
	"github.com/KaramelBytes/dcviz/internal/state"
	"github.com/spf13/cobra"
)

var (
	// Global flags
	cfgFile string
	debug   bool
	// Data/HTTP flags (override config if set)
	flagPUE            string
	flagServers        string
	flagChips          string
	flagHTTPTimeoutSec int

	// Loaded configuration
	cfg    *cfgpkg.Global
	logger = logging.Default()
)

var rootCmd = &cobra.Command{
	Use:   "dcviz",
	Short: "dcviz: data-center energy-efficiency charts and chip point cloud",
	Long: `dcviz loads the PUE, SPECpower server and chip datasets, validates them and
renders the efficiency charts and the 3D chip point cloud as an HTML bundle,
or serves them together with the hover and year-selector API.`,
	SilenceUsage: true,
}

// Execute is the entry point called by main.main()
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "✗ Error:", err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(loadConfig)
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ~/.dcviz/config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug output (rejected rows, skipped containers)")
	rootCmd.PersistentFlags().StringVar(&flagPUE, "pue", "", "PUE CSV path or URL (overrides config)")
	rootCmd.PersistentFlags().StringVar(&flagServers, "servers", "", "server CSV path or URL (overrides config)")
	rootCmd.PersistentFlags().StringVar(&flagChips, "chips", "", "chip CSV path or URL (overrides config)")
	rootCmd.PersistentFlags().IntVar(&flagHTTPTimeoutSec, "http-timeout", 0, "HTTP client timeout in seconds for remote CSVs (overrides config)")
}

func loadConfig() {
	logger.SetDebug(debug)
	c, err := cfgpkg.Load(cfgFile)
	if err != nil {
		// Non-fatal: commands fall back to requireConfig's error
		fmt.Fprintf(os.Stderr, "⚠ Warning: failed to load config: %v\n", err)
		cfg = nil
		return
	}
	cfg = c

	// Apply CLI overrides if provided
	f := rootCmd.PersistentFlags()
	if f.Changed("pue") {
		cfg.Data.PUE = flagPUE
	}
	if f.Changed("servers") {
		cfg.Data.Servers = flagServers
	}
	if f.Changed("chips") {
		cfg.Data.Chips = flagChips
	}
	if f.Changed("http-timeout") && flagHTTPTimeoutSec > 0 {
		cfg.HTTPTimeoutSec = flagHTTPTimeoutSec
	}
}

func requireConfig() (*cfgpkg.Global, error) {
	if cfg == nil {
		return nil, fmt.Errorf("no configuration loaded (see --config)")
	}
	return cfg, nil
}

// loadApp reads every dataset. It only fails when none of them could be loaded.
func loadApp(ctx context.Context) (*state.App, error) {
	c, err := requireConfig()
	if err != nil {
		return nil, err
	}
	app := state.Load(ctx, c, logger, state.Options{})
	if app.AllFailed() {
		return app, fmt.Errorf("no dataset could be loaded: %v", app.LoadErrors())
	}
	return app, nil
}
