package cmd

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/KaramelBytes/dcviz/internal/dataset"
	"github.com/KaramelBytes/dcviz/internal/interact"
	"github.com/spf13/cobra"
)

var (
	inspectView string
	inspectYear int
	inspectJSON bool
)

var inspectCmd = &cobra.Command{
	Use:   "inspect <cloud|sites|timeline|servers> <index>",
	Short: "Show the overlay of the record at an index, as a hover would",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		target, err := interact.ParseTarget(args[0])
		if err != nil {
			return err
		}
		index, err := strconv.Atoi(args[1])
		if err != nil {
			return fmt.Errorf("invalid index %q: %w", args[1], err)
		}
		app, err := loadApp(cmd.Context())
		if err != nil {
			return err
		}
		d := interact.NewDispatcher(app)
		if inspectView != "" {
			view, err := dataset.ParseChipView(inspectView)
			if err != nil {
				return err
			}
			if _, err := d.Dispatch(interact.SwitchView{View: view}); err != nil {
				return err
			}
		}
		if inspectYear != 0 {
			if _, err := d.Dispatch(interact.SelectYear{Year: inspectYear}); err != nil {
				return err
			}
		}
		out, err := d.Dispatch(interact.PointerMove{Target: target, Index: index})
		if err != nil {
			return err
		}
		w := cmd.OutOrStdout()
		if inspectJSON {
			enc := json.NewEncoder(w)
			enc.SetIndent("", "  ")
			return enc.Encode(out.Overlay)
		}
		fmt.Fprintln(w, out.Overlay.Text())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(inspectCmd)
	inspectCmd.Flags().StringVar(&inspectView, "view", "", "point-cloud view: transistors|performance (default from config)")
	inspectCmd.Flags().IntVar(&inspectYear, "year", 0, "year of the per-site chart (default latest)")
	inspectCmd.Flags().BoolVar(&inspectJSON, "json", false, "print the overlay as JSON")
}
