// Package commands wires the CLI surface. Subcommands orchestrate the
// collaborators around the parsing core: PDF extraction in front, workbook
// and CSV writers behind.
package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ratetrack/ratetrack/internal/buildinfo"
)

// NewRootCommand creates the root CLI command with all subcommands registered.
func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:     "ratetrack",
		Short:   "Installment tracking from bank statement PDFs",
		Version: fmt.Sprintf("%s (commit: %s, built: %s)", buildinfo.Version, buildinfo.Commit, buildinfo.Date),
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage: true,
	}

	rootCmd.AddCommand(newConvertCommand())
	rootCmd.AddCommand(newServeCommand())
	rootCmd.AddCommand(newParsersCommand())

	return rootCmd
}
