package cmd

import (
	"fmt"

	"github.com/KaramelBytes/dcviz/internal/analysis"
	"github.com/KaramelBytes/dcviz/internal/utils"
	"github.com/spf13/cobra"
)

var summaryOut string

var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Print a Markdown summary of every dataset (rows, rejections, stats, group means)",
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := loadApp(cmd.Context())
		if err != nil {
			return err
		}
		md := analysis.Markdown(analysis.All(app))
		if summaryOut == "" {
			fmt.Fprint(cmd.OutOrStdout(), md)
			return nil
		}
		if err := utils.WriteFileAtomic(summaryOut, []byte(md)); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "✓ Wrote summary to %s\n", summaryOut)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(summaryCmd)
	summaryCmd.Flags().StringVarP(&summaryOut, "out", "o", "", "write the summary to a file instead of stdout")
}
