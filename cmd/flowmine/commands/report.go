package commands

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/browser"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"flowmine/internal/dfg"
	"flowmine/internal/stats"
	"flowmine/internal/visuals"
)

var (
	reportOut  string
	reportOpen bool
)

var reportCmd = &cobra.Command{
	Use:   "report <file>",
	Short: "Render an event log as a self-contained HTML report",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		rows, err := loadEventLog(args[0])
		if err != nil {
			return err
		}

		out := reportOut
		if out == "" {
			base := strings.TrimSuffix(filepath.Base(args[0]), filepath.Ext(args[0]))
			out = base + ".html"
		}

		variants := dfg.Variants(rows, dfg.ColumnActivity)
		if len(variants) > 10 {
			variants = variants[:10]
		}
		rep := visuals.Report{
			Title:                 filepath.Base(args[0]),
			Overview:              stats.ComputeOverview(rows),
			ActivityBottlenecks:   stats.ActivityBottlenecks(rows),
			TransitionBottlenecks: stats.TransitionBottlenecks(rows),
			Variants:              variants,
			Elements:              dfg.Build(rows, dfg.ColumnActivity).Elements(),
		}

		f, err := os.Create(out)
		if err != nil {
			return err
		}
		if err := visuals.RenderReport(f, rep); err != nil {
			f.Close()
			return err
		}
		if err := f.Close(); err != nil {
			return err
		}

		log.Info().Str("path", out).Msg("Report written")
		fmt.Println(out)

		if reportOpen {
			if err := browser.OpenFile(out); err != nil {
				log.Warn().Err(err).Msg("Could not open the report in a browser")
			}
		}
		return nil
	},
}

func init() {
	reportCmd.Flags().StringVarP(&reportOut, "out", "o", "", "output path (defaults to <input>.html)")
	reportCmd.Flags().BoolVar(&reportOpen, "open", false, "open the report in the default browser")
}
