package cmd

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/KaramelBytes/dcviz/internal/aggregate"
	"github.com/KaramelBytes/dcviz/internal/render"
	"github.com/KaramelBytes/dcviz/internal/utils"
	"github.com/spf13/cobra"
)

var svgOut string

var svgCmd = &cobra.Command{
	Use:   "svg",
	Short: "Write static SVG images of the PUE timeline and the efficiency trend",
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := loadApp(cmd.Context())
		if err != nil {
			return err
		}
		out := svgOut
		if out == "" {
			out = app.Config.OutputDir
		}
		if err := os.MkdirAll(out, 0o755); err != nil {
			return err
		}
		w := cmd.OutOrStdout()
		write := func(name string, draw func(*bytes.Buffer) error) error {
			var buf bytes.Buffer
			if err := draw(&buf); err != nil {
				if errors.Is(err, aggregate.ErrNoData) {
					fmt.Fprintf(w, "⚠ %s skipped: %v\n", name, err)
					return nil
				}
				return err
			}
			path := filepath.Join(out, name)
			if err := utils.WriteFileAtomic(path, buf.Bytes()); err != nil {
				return err
			}
			fmt.Fprintf(w, "✓ Wrote %s\n", path)
			return nil
		}
		if err := write("pue-timeline.svg", func(b *bytes.Buffer) error {
			return render.TimelineSVG(b, app.Timeline(), app.Config.IndustryAveragePUE)
		}); err != nil {
			return err
		}
		return write("server-trend.svg", func(b *bytes.Buffer) error {
			return render.TrendSVG(b, app.Servers.Records())
		})
	},
}

func init() {
	rootCmd.AddCommand(svgCmd)
	svgCmd.Flags().StringVarP(&svgOut, "out", "o", "", "output directory (default from config output_dir)")
}
