package cmd

import (
	"fmt"
	"strconv"
	"strings"

	cfgpkg "github.com/KaramelBytes/dcviz/internal/config"
	"github.com/KaramelBytes/dcviz/internal/dataset"
	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "View or set dcviz configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show effective configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		w := cmd.OutOrStdout()
		if cfg == nil {
			fmt.Fprintln(w, "No config loaded")
			return nil
		}
		fmt.Fprintf(w, "data.pue: %s\n", cfg.Data.PUE)
		fmt.Fprintf(w, "data.servers: %s\n", cfg.Data.Servers)
		fmt.Fprintf(w, "data.chips: %s\n", cfg.Data.Chips)
		fmt.Fprintf(w, "output_dir: %s\n", cfg.OutputDir)
		fmt.Fprintf(w, "listen_addr: %s\n", cfg.ListenAddr)
		fmt.Fprintf(w, "global_site: %s\n", cfg.GlobalSite)
		fmt.Fprintf(w, "recent_years: %d\n", cfg.RecentYears)
		fmt.Fprintf(w, "industry_average_pue: %.2f\n", cfg.IndustryAveragePUE)
		fmt.Fprintf(w, "default_view: %s\n", cfg.DefaultView)
		fmt.Fprintf(w, "http_timeout_sec: %d\n", cfg.HTTPTimeoutSec)
		fmt.Fprintf(w, "layout.containers: %s\n", strings.Join(cfg.Layout.Containers, ","))
		if cfg.ChromePath != "" {
			fmt.Fprintf(w, "chrome_path: %s\n", cfg.ChromePath)
		}
		fmt.Fprintf(w, "snapshot_size: %dx%d\n", cfg.SnapshotWidth, cfg.SnapshotHeight)
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a config value and save to disk",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		key, val := args[0], args[1]
		if cfg == nil {
			c, err := cfgpkg.Load(cfgFile)
			if err != nil {
				return err
			}
			cfg = c
		}
		switch key {
		case "data.pue":
			cfg.Data.PUE = val
		case "data.servers":
			cfg.Data.Servers = val
		case "data.chips":
			cfg.Data.Chips = val
		case "output_dir":
			cfg.OutputDir = val
		case "listen_addr":
			cfg.ListenAddr = val
		case "global_site":
			cfg.GlobalSite = val
		case "recent_years":
			i, err := strconv.Atoi(val)
			if err != nil || i <= 0 {
				return fmt.Errorf("invalid int for recent_years: %v", val)
			}
			cfg.RecentYears = i
		case "industry_average_pue":
			f, err := strconv.ParseFloat(val, 64)
			if err != nil || f <= 0 {
				return fmt.Errorf("invalid float for industry_average_pue: %v", val)
			}
			cfg.IndustryAveragePUE = f
		case "default_view":
			v, err := dataset.ParseChipView(val)
			if err != nil {
				return fmt.Errorf("invalid default_view: %w", err)
			}
			cfg.DefaultView = string(v)
		case "http_timeout_sec":
			i, err := strconv.Atoi(val)
			if err != nil || i <= 0 {
				return fmt.Errorf("invalid int for http_timeout_sec: %v", val)
			}
			cfg.HTTPTimeoutSec = i
		case "layout.containers":
			var ids []string
			for _, id := range strings.Split(val, ",") {
				if id = strings.TrimSpace(id); id != "" {
					ids = append(ids, id)
				}
			}
			cfg.Layout.Containers = ids
		case "chrome_path":
			cfg.ChromePath = val
		case "snapshot_width", "snapshot_height":
			i, err := strconv.Atoi(val)
			if err != nil || i <= 0 {
				return fmt.Errorf("invalid int for %s: %v", key, val)
			}
			if key == "snapshot_width" {
				cfg.SnapshotWidth = i
			} else {
				cfg.SnapshotHeight = i
			}
		default:
			return fmt.Errorf("unknown key: %s", key)
		}
		if err := cfgpkg.Save(cfg, cfgFile); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Saved config")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
}
