package cli

import (
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/spf13/cobra"

	"github.com/mlhartme/sushi-sub000/internal/app"
	"github.com/mlhartme/sushi-sub000/internal/diff"
)

// diffCmd represents the diff command
var diffCmd = &cobra.Command{
	Use:   "diff <src> <dest>",
	Short: "Preview what a copy would change",
	Long: `Render the source into a scratch directory and compare the destination
against it. The destination is not modified.

Brief markers:
  A  would be added
  R  exists only in the destination
  M  content differs
  m  only permissions differ (with --modes)

With --files, compare two plain files instead.

Examples:
  sushi diff ./template ./out
  sushi diff ./template ./out --brief
  sushi diff ./template ./out --stat
  sushi diff --files old.txt new.txt --context 1`,
	Args: cobra.ExactArgs(2),
	RunE: runDiff,
}

// Diff command flags
var (
	diffFlags   engineFlags
	diffBrief   bool
	diffStat    bool
	diffContext int
	diffNoRange bool
	diffFiles   bool
)

func init() {
	diffFlags.register(diffCmd)
	diffCmd.Flags().BoolVarP(&diffBrief, "brief", "b", false, "Show one marker line per changed path")
	diffCmd.Flags().BoolVar(&diffStat, "stat", false, "Show a change summary")
	diffCmd.Flags().IntVarP(&diffContext, "context", "U", diff.DefaultContext, "Number of context lines")
	diffCmd.Flags().BoolVar(&diffNoRange, "no-range", false, "Omit @@ range headers")
	diffCmd.Flags().BoolVar(&diffFiles, "files", false, "Compare two plain files")
}

// renderOptions applies explicitly given flags over the configured options.
func renderOptions(cmd *cobra.Command, opts diff.Options) (diff.Options, error) {
	if cmd.Flags().Changed("context") {
		if diffContext < 0 {
			return opts, fmt.Errorf("--context must not be negative: %d", diffContext)
		}
		opts.Context = diffContext
	}
	if diffNoRange {
		opts.Range = false
	}
	return opts, nil
}

func runDiff(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	color := colorEnabled(out)

	if diffFiles {
		opts, err := renderOptions(cmd, diff.DefaultOptions())
		if err != nil {
			return err
		}
		rendered, err := app.DiffFiles(args[0], args[1], opts)
		if err != nil {
			return err
		}
		fmt.Fprint(out, colorizeDiff(rendered, color))
		return nil
	}

	engineOpts, err := diffFlags.options(cmd, args)
	if err != nil {
		return err
	}
	result, err := app.Diff(cmd.Context(), engineOpts)
	if err != nil {
		return err
	}
	opts, err := renderOptions(cmd, result.Options)
	if err != nil {
		return err
	}

	switch {
	case diffStat:
		fmt.Fprintln(out, statsTable(result.Report.Stats()).Render())
	case result.Report.Empty():
		printInfo("No changes")
	case diffBrief:
		fmt.Fprint(out, colorizeBrief(result.Report, color))
	default:
		fmt.Fprint(out, colorizeDiff(result.Report.Full(opts), color))
	}
	return nil
}

// statsTable summarizes a report.
func statsTable(s diff.Stats) table.Writer {
	tw := table.NewWriter()
	tw.AppendHeader(table.Row{"CHANGE", "COUNT"})
	tw.AppendRows([]table.Row{
		{"added", s.Added},
		{"removed", s.Removed},
		{"modified", s.Modified},
		{"mode changed", s.ModeChanged},
		{"insertions (+)", s.Insertions},
		{"deletions (-)", s.Deletions},
	})
	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, Align: text.AlignLeft},
		{Number: 2, Align: text.AlignRight},
	})
	tw.SetStyle(table.StyleLight)
	return tw
}
