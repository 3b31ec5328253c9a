package commands

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/paylesstax/taxcalc/handler"
	"github.com/paylesstax/taxcalc/tax"
)

func newCalculateCommand() *cobra.Command {
	var ratesFile string
	var format string

	cmd := &cobra.Command{
		Use:   "calculate <scenario.yaml>",
		Short: "Calculate the tax for a scenario file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if format != "json" && format != "yaml" {
				return fmt.Errorf("unsupported format %q, want json or yaml", format)
			}

			repo, err := loadRates(ratesFile)
			if err != nil {
				return err
			}

			req, err := readScenario(args[0])
			if err != nil {
				return err
			}

			in, err := req.ToInput()
			if err != nil {
				return err
			}

			result, err := tax.NewEngine(repo).Compute(in)
			if err != nil {
				return err
			}

			return writeResult(cmd, format, handler.NewTaxResponse(result))
		},
	}

	cmd.Flags().StringVar(&ratesFile, "rates", "", "rate table YAML file (defaults to the built-in tables)")
	cmd.Flags().StringVar(&format, "format", "json", "output format: json or yaml")

	return cmd
}

func readScenario(path string) (handler.TaxRequest, error) {
	var req handler.TaxRequest

	data, err := os.ReadFile(path)
	if err != nil {
		return req, fmt.Errorf("reading scenario: %w", err)
	}

	if err := yaml.Unmarshal(data, &req); err != nil {
		return req, fmt.Errorf("parsing scenario: %w", err)
	}

	if err := validator.New().Struct(req); err != nil {
		return req, fmt.Errorf("invalid scenario: %w", err)
	}

	return req, nil
}

func writeResult(cmd *cobra.Command, format string, resp handler.TaxResponse) error {
	out := cmd.OutOrStdout()

	if format == "yaml" {
		enc := yaml.NewEncoder(out)
		if err := enc.Encode(resp); err != nil {
			return err
		}
		return enc.Close()
	}

	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(resp)
}
