package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mlhartme/sushi-sub000/internal/app"
)

// newCmd represents the new command
var newCmd = &cobra.Command{
	Use:   "new <path>",
	Short: "Create a sample source tree",
	Long: `Create a sample source tree with a .sushi.yaml configuration.

The sample shows path and content substitution, a fork and generators.
Copy it right away with "sushi copy <path> <dest>".

Examples:
  sushi new ./template
  sushi new ./template --force`,
	Args: cobra.ExactArgs(1),
	RunE: runNew,
}

// New command flags
var (
	newType  string
	newForce bool
)

func init() {
	newCmd.Flags().StringVarP(&newType, "type", "t", "default", "Scaffold type")
	newCmd.Flags().BoolVarP(&newForce, FlagForce, "f", false, DescForce)
}

func runNew(cmd *cobra.Command, args []string) error {
	result, err := app.NewSource(cmd.Context(), app.NewSourceOptions{
		Path:  args[0],
		Type:  newType,
		Force: newForce,
	})
	if err != nil {
		return err
	}

	for _, f := range result.Files {
		printInfo("  " + f)
	}
	printSuccess(fmt.Sprintf("Created %d files in %s", result.FilesCreated, result.Path))
	return nil
}
