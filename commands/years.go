package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newYearsCommand() *cobra.Command {
	var ratesFile string

	cmd := &cobra.Command{
		Use:   "years",
		Short: "List the supported assessment years",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			repo, err := loadRates(ratesFile)
			if err != nil {
				return err
			}

			for _, y := range repo.Years() {
				if _, err := fmt.Fprintln(cmd.OutOrStdout(), y); err != nil {
					return err
				}
			}

			return nil
		},
	}

	cmd.Flags().StringVar(&ratesFile, "rates", "", "rate table YAML file (defaults to the built-in tables)")

	return cmd
}
