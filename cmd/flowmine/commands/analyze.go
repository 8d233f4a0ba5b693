package commands

import (
	"fmt"
	"os"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"flowmine/internal/dfg"
	"flowmine/internal/eventlog"
	"flowmine/internal/ingest"
	"flowmine/internal/stats"
)

var analyzeTop int

var analyzeCmd = &cobra.Command{
	Use:   "analyze <file>",
	Short: "Print overview, bottleneck and variant tables for an event log",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		rows, err := loadEventLog(args[0])
		if err != nil {
			return err
		}

		printOverview(stats.ComputeOverview(rows))
		printActivities(stats.ActivityFrequencies(rows))
		printActivityBottlenecks(stats.ActivityBottlenecks(rows))
		printTransitionBottlenecks(stats.TransitionBottlenecks(rows))
		printSlowestCases(stats.CaseSummaries(rows))
		printVariants(dfg.Variants(rows, dfg.ColumnActivity))
		return nil
	},
}

func init() {
	analyzeCmd.Flags().IntVar(&analyzeTop, "top", 10, "rows per ranking table")
}

// loadEventLog reads and normalizes a CSV/XLSX file with the default column
// mapping.
func loadEventLog(path string) (eventlog.EventLog, error) {
	t, err := ingest.ReadFile(path)
	if err != nil {
		return nil, err
	}
	rows, err := eventlog.Normalize(t.Header, t.Records, eventlog.DefaultOptions())
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("no usable events found in %s", path)
	}
	return rows, nil
}

func printOverview(o stats.Overview) {
	fmt.Println("\nOverview")
	tw := table.NewWriter()
	tw.SetOutputMirror(os.Stdout)
	tw.AppendRow(table.Row{"Rows", o.Rows})
	tw.AppendRow(table.Row{"Cases", o.Cases})
	tw.AppendRow(table.Row{"Activities", o.Activities})
	tw.AppendRow(table.Row{"Variants", o.Variants})
	tw.AppendRow(table.Row{"First event", o.FirstEvent.Format("2006-01-02 15:04")})
	tw.AppendRow(table.Row{"Last event", o.LastEvent.Format("2006-01-02 15:04")})
	tw.AppendRow(table.Row{"Mean case duration (min)", fmt.Sprintf("%.1f", o.MeanCaseDurationMinutes)})
	tw.AppendRow(table.Row{"Median case duration (min)", fmt.Sprintf("%.1f", o.MedianCaseDurationMinutes)})
	tw.Render()
}

func printActivities(freqs []stats.ActivityFrequency) {
	fmt.Println("\nTop activities")
	tw := table.NewWriter()
	tw.SetOutputMirror(os.Stdout)
	tw.AppendHeader(table.Row{"Activity", "Events"})
	for i, f := range freqs {
		if i >= analyzeTop {
			break
		}
		tw.AppendRow(table.Row{f.Activity, f.Count})
	}
	tw.Render()
}

func printActivityBottlenecks(bns []stats.ActivityBottleneck) {
	fmt.Println("\nActivity bottlenecks")
	tw := table.NewWriter()
	tw.SetOutputMirror(os.Stdout)
	tw.AppendHeader(table.Row{"Activity", "Count", "Mean (min)", "Score"})
	for i, b := range bns {
		if i >= analyzeTop {
			break
		}
		tw.AppendRow(table.Row{b.Activity, b.Frequency, fmt.Sprintf("%.1f", b.AvgDurationMinutes), fmt.Sprintf("%.0f", b.Score)})
	}
	tw.Render()
}

func printTransitionBottlenecks(bns []stats.TransitionBottleneck) {
	fmt.Println("\nTransition bottlenecks")
	tw := table.NewWriter()
	tw.SetOutputMirror(os.Stdout)
	tw.AppendHeader(table.Row{"From", "To", "Count", "Avg gap (min)", "Score"})
	for i, b := range bns {
		if i >= analyzeTop {
			break
		}
		tw.AppendRow(table.Row{b.Source, b.Target, b.Frequency, fmt.Sprintf("%.1f", b.AvgGapMinutes), fmt.Sprintf("%.0f", b.Score)})
	}
	tw.Render()
}

func printSlowestCases(cases []eventlog.Case) {
	fmt.Println("\nSlowest cases")
	tw := table.NewWriter()
	tw.SetOutputMirror(os.Stdout)
	tw.AppendHeader(table.Row{"Case", "Events", "Start", "Duration (min)"})
	for i, c := range cases {
		if i >= analyzeTop {
			break
		}
		tw.AppendRow(table.Row{c.ID, c.EventCount, c.Start.Format("2006-01-02 15:04"), fmt.Sprintf("%.1f", c.DurationMinutes)})
	}
	tw.Render()
}

func printVariants(variants []dfg.Variant) {
	fmt.Println("\nTop variants")
	tw := table.NewWriter()
	tw.SetOutputMirror(os.Stdout)
	tw.AppendHeader(table.Row{"#", "Trace", "Cases"})
	for i, v := range variants {
		if i >= analyzeTop {
			break
		}
		tw.AppendRow(table.Row{i + 1, strings.Join(v.Trace, " -> "), v.Count})
	}
	tw.Render()
}
