package cli

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"tradeverify/internal/verification"
)

var (
	verifyCountry     string
	verifyCountryCode string
	verifyContext     string
	verifyJSON        bool
)

var verifyCmd = &cobra.Command{
	Use:   "verify [kind] [value]",
	Short: "Verify one field",
	Long: `Run the verification cascade for one field value.

Kinds: swift, hs_code, port, company, bank_name, sanctions, shipment,
deep_research.

Examples:
  tradeverify verify swift BCITITMM
  tradeverify verify port "Tripoli and/or Khoms" --country-code LY
  tradeverify verify company "Acme Trading LLC" --country "United Arab Emirates"`,
	Args: cobra.ExactArgs(2),
	RunE: runVerify,
}

func init() {
	verifyCmd.Flags().StringVar(&verifyCountry, "country", "", "country name hint")
	verifyCmd.Flags().StringVar(&verifyCountryCode, "country-code", "", "ISO country code hint")
	verifyCmd.Flags().StringVar(&verifyContext, "context", "", "extra context for deep_research")
	verifyCmd.Flags().BoolVar(&verifyJSON, "json", false, "output the full result as JSON")
	rootCmd.AddCommand(verifyCmd)
}

func runVerify(cmd *cobra.Command, args []string) error {
	kind, err := verification.ParseKind(args[0])
	if err != nil {
		return err
	}

	a, _, err := loadApp(cmd)
	if err != nil {
		return err
	}
	defer func() { _ = a.Close(5 * time.Second) }()

	req := verification.Request{Kind: kind, Value: args[1], Context: map[string]string{}}
	for key, v := range map[string]string{
		verification.ContextCountry:     verifyCountry,
		verification.ContextCountryCode: verifyCountryCode,
		verification.ContextResearch:    verifyContext,
	} {
		if v != "" {
			req.Context[key] = v
		}
	}

	res, err := a.Verifier.Verify(cmd.Context(), req)
	if err != nil {
		return fmt.Errorf("verify failed: %w", err)
	}

	if verifyJSON {
		data, err := json.MarshalIndent(res, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal result: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(data))
		return nil
	}

	verdict := "NOT VERIFIED"
	if res.Verified {
		verdict = "VERIFIED"
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s (%.2f) via %s\n", verdict, res.Confidence, res.Source)
	fmt.Fprintln(cmd.OutOrStdout(), res.Message)
	return nil
}
