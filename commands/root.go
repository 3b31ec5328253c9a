package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/paylesstax/taxcalc/buildinfo"
	"github.com/paylesstax/taxcalc/tax"
)

func versionString() string {
	return fmt.Sprintf("%s (commit: %s, built: %s)", buildinfo.Version, buildinfo.Commit, buildinfo.Date)
}

// NewRootCommand creates the root CLI command with all subcommands registered.
func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:     "taxcalc",
		Short:   "Personal income tax calculator",
		Version: versionString(),
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage: true,
	}

	rootCmd.AddCommand(
		newServeCommand(),
		newCalculateCommand(),
		newYearsCommand(),
		newVersionCommand(),
	)

	return rootCmd
}

// loadRates returns the embedded tables, or the tables in path when set.
func loadRates(path string) (*tax.Repository, error) {
	if path == "" {
		return tax.DefaultRepository(), nil
	}

	repo, err := tax.LoadRateTablesFile(path)
	if err != nil {
		return nil, fmt.Errorf("loading rate tables: %w", err)
	}

	return repo, nil
}
