package cli

import (
	"fmt"

	"github.com/sentinel-audit/sentinel/internal/document"
	"github.com/sentinel-audit/sentinel/internal/model"
	"github.com/sentinel-audit/sentinel/internal/settle"
	"github.com/spf13/cobra"
)

var (
	settleDocID      string
	settleTarget     float64
	settleActual     float64
	settleUnverified bool
	settleBreachFrac float64
	settleAdjBps     float64
	settleBaseBps    float64
	settlePortfolio  float64
)

// settleCmd represents the settle command
var settleCmd = &cobra.Command{
	Use:   "settle",
	Short: "Run the settlement decision table and seal an audit report",
	Long: `Settle applies the margin ratchet to explicit verification results
and writes the sealed compliance report. Pass --unverified when the
satellite stage could not produce a reading.

Example:
  sentinel settle --doc-id 4f2a... --target 0.75 --actual 0.81 --adjustment-bps 5.0
  sentinel settle --doc-id 4f2a... --target 0.82 --actual 0.49 --breach-fraction 0.35 --adjustment-bps 7.5
  sentinel settle --doc-id 4f2a... --target 0.70 --unverified --adjustment-bps 2.5`,
	RunE: runSettle,
}

func init() {
	rootCmd.AddCommand(settleCmd)

	settleCmd.Flags().StringVar(&settleDocID, "doc-id", "", "document identity the report is issued against")
	settleCmd.Flags().Float64Var(&settleTarget, "target", 0, "contractual mean NDVI target")
	settleCmd.Flags().Float64Var(&settleActual, "actual", 0, "measured mean NDVI")
	settleCmd.Flags().BoolVar(&settleUnverified, "unverified", false, "no satellite reading available (declassifies the claim)")
	settleCmd.Flags().Float64Var(&settleBreachFrac, "breach-fraction", 0, "fraction of the site under critical degradation (0..1)")
	settleCmd.Flags().Float64Var(&settleAdjBps, "adjustment-bps", 0, "contractual margin adjustment in basis points")
	settleCmd.Flags().Float64Var(&settleBaseBps, "base-margin-bps", 0, "base margin in basis points (default 150)")
	settleCmd.Flags().Float64Var(&settlePortfolio, "portfolio", 0, "reference portfolio value (default 100,000,000)")
	settleCmd.Flags().StringVar(&reportsDir, "reports-dir", "", "directory for sealed reports")

	_ = settleCmd.MarkFlagRequired("doc-id")
	_ = settleCmd.MarkFlagRequired("target")
	_ = settleCmd.MarkFlagRequired("adjustment-bps")
}

func runSettle(cmd *cobra.Command, args []string) error {
	cfg := buildConfig()
	if settleBaseBps != 0 {
		cfg.Settlement.BaseMarginBps = settleBaseBps
	}
	if settlePortfolio != 0 {
		cfg.Settlement.PortfolioValue = settlePortfolio
	}

	var actual *float64
	if !settleUnverified {
		if !cmd.Flags().Changed("actual") {
			return fmt.Errorf("either --actual or --unverified is required")
		}
		actual = &settleActual
	}

	ledger := settle.NewLedger(document.NewPDFRenderer(), cfg.Storage.ReportsDir, cfg.Settlement)
	result, err := ledger.Settle(settle.Inputs{
		DocumentID:     settleDocID,
		Target:         settleTarget,
		Actual:         actual,
		BreachFraction: settleBreachFrac,
		AdjustmentBps:  settleAdjBps,
	})
	if err != nil {
		return fmt.Errorf("settlement failed: %w", err)
	}

	printSettlement(result)
	return nil
}

func printSettlement(r *model.SettlementResult) {
	fmt.Printf("Loan ref:        %s\n", r.LoanRef)
	fmt.Printf("Status:          %s\n", r.Status)
	fmt.Printf("Reason:          %s\n", r.Reason)
	fmt.Printf("Satellite NDVI:  %s\n", r.DisplayActual)
	fmt.Printf("Adjustment:      %+g bps\n", r.MarginAdjustmentBps)
	fmt.Printf("Final margin:    %g bps\n", r.FinalMarginBps)
	fmt.Printf("Revenue impact:  %.2f\n", r.RevenueImpact)
	fmt.Printf("Digital seal:    %s\n", r.DigitalSeal)
	if r.ReportPath != "" {
		fmt.Printf("Report:          %s\n", r.ReportPath)
	}
}
