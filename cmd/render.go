package cmd

import (
	"fmt"

	"github.com/KaramelBytes/dcviz/internal/render"
	"github.com/spf13/cobra"
)

var (
	renderOut    string
	renderStrict bool
)

var renderCmd = &cobra.Command{
	Use:   "render",
	Short: "Render the charts and point-cloud pages into a static HTML bundle",
	RunE: func(cmd *cobra.Command, args []string) error {
		// A total load failure still writes the bundle of error blocks
		// before the command fails.
		app, loadErr := loadApp(cmd.Context())
		if app == nil {
			return loadErr
		}
		if errs := app.LoadErrors(); renderStrict && len(errs) > 0 {
			return fmt.Errorf("strict: %d dataset(s) failed to load: %v", len(errs), errs)
		}
		out := renderOut
		if out == "" {
			out = app.Config.OutputDir
		}
		pages, err := render.New(app, logger, render.Options{}).All()
		if err != nil {
			return err
		}
		m := render.NewManifest(app, pages)
		if err := render.WriteBundle(out, pages, m); err != nil {
			return err
		}
		w := cmd.OutOrStdout()
		for _, d := range m.Datasets {
			if d.Error != "" {
				fmt.Fprintf(w, "⚠ %s: %s\n", d.Name, d.Error)
				continue
			}
			fmt.Fprintf(w, "✓ %s: %d rows accepted, %d rejected\n", d.Name, d.Accepted, d.Rejected)
		}
		fmt.Fprintf(w, "✓ Wrote %d pages to %s (run %s)\n", len(pages), out, m.RunID)
		return loadErr
	},
}

func init() {
	rootCmd.AddCommand(renderCmd)
	renderCmd.Flags().StringVarP(&renderOut, "out", "o", "", "output directory (default from config output_dir)")
	renderCmd.Flags().BoolVar(&renderStrict, "strict", false, "fail if any dataset fails to load")
}
