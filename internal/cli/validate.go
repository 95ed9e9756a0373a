package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"tradeverify/internal/consistency"
)

var (
	validateJSON   bool
	validateStrict bool
)

var validateCmd = &cobra.Command{
	Use:   "validate [file]",
	Short: "Cross-check the documents of one presentation",
	Long: `Read a JSON object mapping document type to extracted fields and run
the consistency rules over it. Use "-" to read from stdin.

Example input:
  {
    "letter_of_credit": {"lc_number": "LC-001", "amount_in_figures": "100000"},
    "commercial_invoice": {"lc_number": "LC-001", "amount_in_figures": "98000"}
  }`,
	Args: cobra.ExactArgs(1),
	RunE: runValidate,
}

func init() {
	validateCmd.Flags().BoolVar(&validateJSON, "json", false, "output the report as JSON")
	validateCmd.Flags().BoolVar(&validateStrict, "strict", false, "exit with an error when any error-severity check fails")
	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, args []string) error {
	docs, err := readDocuments(cmd, args[0])
	if err != nil {
		return err
	}

	a, _, err := loadApp(cmd)
	if err != nil {
		return err
	}
	defer func() { _ = a.Close(5 * time.Second) }()

	report := a.Validator.Validate(cmd.Context(), docs)

	if validateJSON {
		data, err := json.MarshalIndent(report, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal report: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(data))
	} else {
		for _, c := range report.Checks {
			status := "PASS"
			if !c.Passed {
				status = string(c.Severity)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "  [%s] %s %s: %s\n", status, c.RuleID, c.RuleName, c.Message)
		}
		s := report.Summary
		fmt.Fprintf(cmd.OutOrStdout(), "\n%d checks, %d passed, %d warnings, %d errors\n", s.Total, s.Passed, s.Warnings, s.Errors)
	}

	if validateStrict && report.Summary.Errors > 0 {
		return fmt.Errorf("%d consistency errors", report.Summary.Errors)
	}
	return nil
}

func readDocuments(cmd *cobra.Command, path string) (consistency.DocumentSet, error) {
	var r io.Reader
	if path == "-" {
		r = cmd.InOrStdin()
	} else {
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("opening documents: %w", err)
		}
		defer f.Close()
		r = f
	}

	var docs consistency.DocumentSet
	if err := json.NewDecoder(r).Decode(&docs); err != nil {
		return nil, fmt.Errorf("decoding documents: %w", err)
	}
	if len(docs) == 0 {
		return nil, fmt.Errorf("no documents in %s", path)
	}
	return docs, nil
}
