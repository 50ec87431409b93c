package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
)

var auditTimeout time.Duration

// auditCmd represents the audit command
var auditCmd = &cobra.Command{
	Use:   "audit <file>",
	Short: "Run the full four-stage audit on a contract",
	Long: `Audit chains all four stages on a single contract:
- Redact PII and assign the content-hash identity
- Extract the covenant fields from sanitized text
- Verify the NDVI target against satellite imagery
- Settle the margin adjustment and seal the report

Example:
  sentinel audit contracts/LMA_Success_1.txt --offline
  sentinel audit facility.txt --imagery-url https://gee-gw.internal --llm-provider gemini`,
	Args: cobra.ExactArgs(1),
	RunE: runAudit,
}

func init() {
	rootCmd.AddCommand(auditCmd)

	auditCmd.Flags().DurationVar(&auditTimeout, "timeout", 5*time.Minute, "overall audit timeout")
	auditCmd.Flags().StringVar(&staticDir, "static-dir", "", "directory for sanitized artifacts and evidence images")
	auditCmd.Flags().StringVar(&reportsDir, "reports-dir", "", "directory for sealed reports")
	addLLMFlags(auditCmd)
	addBackendFlags(auditCmd)
}

func runAudit(cmd *cobra.Command, args []string) error {
	path := args[0]
	ctx, cancel := context.WithTimeout(context.Background(), auditTimeout)
	defer cancel()

	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read contract: %w", err)
	}

	cfg := buildConfig()
	auditor, err := buildAuditor(ctx, cfg, true, true)
	if err != nil {
		return err
	}

	if verbose {
		fmt.Fprintf(os.Stderr, "Auditing: %s\n", path)
		fmt.Fprintf(os.Stderr, "Imagery:  offline=%v cache=%v\n", offline, cfg.Cache.Enabled)
		fmt.Fprintln(os.Stderr)
	}

	outcome, err := auditor.Audit(ctx, raw, filepath.Base(path))
	if err != nil {
		return fmt.Errorf("audit failed: %w", err)
	}

	if verbose {
		fmt.Fprintf(os.Stderr, "✓ Masked document %s\n", outcome.Redaction.DocumentID)
		fmt.Fprintf(os.Stderr, "✓ Extracted covenant fields (GPS %s, target %s, ratchet %s bps)\n",
			outcome.Extraction.Fields.GPS.Value,
			outcome.Extraction.Fields.NDVI.Value,
			outcome.Extraction.Fields.Margin.Value)
		fmt.Fprintf(os.Stderr, "✓ Verification status: %s\n", outcome.Verification.Status)
		fmt.Fprintln(os.Stderr)
	}

	fmt.Printf("Document ID:   %s\n\n", outcome.Redaction.DocumentID)
	printVerification(outcome.Verification)
	fmt.Println()
	printSettlement(outcome.Settlement)
	return nil
}
