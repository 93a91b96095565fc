package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/KaramelBytes/dcviz/internal/config"
	"github.com/KaramelBytes/dcviz/internal/render"
	"github.com/KaramelBytes/dcviz/internal/snapshot"
	"github.com/KaramelBytes/dcviz/internal/utils"
	"github.com/spf13/cobra"
)

var (
	snapBundle string
	snapURL    string
	snapOut    string
)

var snapshotCmd = &cobra.Command{
	Use:   "snapshot",
	Short: "Capture PNG screenshots of rendered pages with headless Chrome",
	Long: `Captures one PNG per page listed in a bundle's manifest.json. Pages are
opened from disk, or from a running "dcviz serve" when --url is given.
Point-cloud pages are cropped to the cloud container.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := requireConfig()
		if err != nil {
			return err
		}
		bundle := snapBundle
		if bundle == "" {
			bundle = c.OutputDir
		}
		root, err := utils.FindBundleRoot(bundle)
		if err != nil {
			return fmt.Errorf("locate bundle (run dcviz render first): %w", err)
		}
		b, err := os.ReadFile(filepath.Join(root, utils.ManifestName))
		if err != nil {
			return fmt.Errorf("read manifest: %w", err)
		}
		var m render.Manifest
		if err := json.Unmarshal(b, &m); err != nil {
			return fmt.Errorf("decode manifest: %w", err)
		}

		var targets []snapshot.Target
		if snapURL != "" {
			base := strings.TrimRight(snapURL, "/")
			for _, p := range m.Pages {
				targets = append(targets, snapshot.Target{Name: strings.TrimSuffix(p, ".html"), URL: base + "/" + p})
			}
		} else if targets, err = snapshot.BundleTargets(root, m.Pages); err != nil {
			return err
		}
		for i := range targets {
			if strings.HasPrefix(targets[i].Name, "cloud-") {
				targets[i].Container = config.ContainerChipCloud
			}
		}

		out := snapOut
		if out == "" {
			out = filepath.Join(root, "snapshots")
		}
		paths, err := snapshot.New(c, logger).Capture(cmd.Context(), out, targets)
		for _, p := range paths {
			fmt.Fprintf(cmd.OutOrStdout(), "✓ %s\n", p)
		}
		return err
	},
}

func init() {
	rootCmd.AddCommand(snapshotCmd)
	snapshotCmd.Flags().StringVar(&snapBundle, "bundle", "", "rendered bundle directory (default from config output_dir)")
	snapshotCmd.Flags().StringVar(&snapURL, "url", "", "base URL of a running dcviz serve instead of file:// pages")
	snapshotCmd.Flags().StringVarP(&snapOut, "out", "o", "", "directory for the PNG files (default <bundle>/snapshots)")
}
