package cli

import (
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/spf13/cobra"

	"github.com/mlhartme/sushi-sub000/internal/app"
)

// copyCmd represents the copy command
var copyCmd = &cobra.Command{
	Use:   "copy <src> <dest>",
	Short: "Copy a source tree with substitution",
	Long: `Copy the source directory tree into the destination.

File and directory names are substituted with the path substitution
(default __name__), file contents with the content substitution
(default ${name}). Binary files are copied verbatim. Existing
destination files are overwritten; other destination files are kept.

Examples:
  sushi copy ./template ./out
  sushi copy ./template ./out --set name=demo --set lang=de
  sushi copy ./template ./out --vars vars.yaml --list
  sushi copy ./template ./out --dry-run`,
	Args: cobra.ExactArgs(2),
	RunE: runCopy,
}

// Copy command flags
var (
	copyFlags  engineFlags
	copyList   bool
	copyDryRun bool
)

func init() {
	copyFlags.register(copyCmd)
	copyCmd.Flags().BoolVarP(&copyList, "list", "l", false, "List copied entries")
	copyCmd.Flags().BoolVarP(&copyDryRun, FlagDryRun, "n", false, DescDryRun)
}

func runCopy(cmd *cobra.Command, args []string) error {
	opts, err := copyFlags.options(cmd, args)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()

	if copyDryRun {
		result, err := app.Diff(cmd.Context(), opts)
		if err != nil {
			return err
		}
		if result.Report.Empty() {
			printInfo("Destination is up to date")
			return nil
		}
		fmt.Fprint(out, colorizeBrief(result.Report, colorEnabled(out)))
		printWarning("Dry run: nothing was written")
		return nil
	}

	result, err := app.Copy(cmd.Context(), opts)
	if err != nil {
		return err
	}
	if copyList {
		fmt.Fprintln(out, copyTable(result).Render())
	}
	printSuccess(fmt.Sprintf("Copied %d files and %d directories to %s",
		result.Files, result.Directories, result.Dest))
	return nil
}

// copyTable lists copied entries in copy order.
func copyTable(result *app.CopyResult) table.Writer {
	tw := table.NewWriter()
	tw.AppendHeader(table.Row{"#", "TYPE", "PATH"})
	for i, e := range result.Entries {
		kind := "file"
		if e.Directory {
			kind = "dir"
		}
		tw.AppendRow(table.Row{i + 1, kind, e.Path})
	}
	tw.AppendFooter(table.Row{"", "total", fmt.Sprintf("%d files, %d directories", result.Files, result.Directories)})
	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, Align: text.AlignRight},
		{Number: 2, Align: text.AlignLeft},
		{Number: 3, Align: text.AlignLeft},
	})
	tw.SetStyle(table.StyleLight)
	tw.Style().Format.Footer = text.FormatDefault
	return tw
}
