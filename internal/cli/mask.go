package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/sentinel-audit/sentinel/internal/document"
	"github.com/sentinel-audit/sentinel/internal/redact"
	"github.com/sentinel-audit/sentinel/internal/store"
	"github.com/spf13/cobra"
)

// maskCmd represents the mask command
var maskCmd = &cobra.Command{
	Use:   "mask <file>",
	Short: "Redact PII from a contract and store the sanitized record",
	Long: `Mask runs the redaction stage in isolation:
- Strip borrower, lender, IBAN, SWIFT, email and notice-contact details
- Assign the document its content-hash identity
- Write the sanitized artifact PDF

Example:
  sentinel mask contracts/LMA_Success_1.txt
  sentinel mask facility.txt --static-dir ./static`,
	Args: cobra.ExactArgs(1),
	RunE: runMask,
}

func init() {
	rootCmd.AddCommand(maskCmd)

	maskCmd.Flags().StringVar(&staticDir, "static-dir", "", "directory for sanitized artifacts")
}

func runMask(cmd *cobra.Command, args []string) error {
	path := args[0]
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read contract: %w", err)
	}

	cfg := buildConfig()
	vault := store.NewMemoryStore()
	shield := redact.NewShield(document.NewPlainReader(), document.NewPDFRenderer(), vault, cfg.Storage.StaticDir)

	result, err := shield.Redact(raw, filepath.Base(path))
	if err != nil {
		return fmt.Errorf("redaction failed: %w", err)
	}

	fmt.Printf("Document ID:  %s\n", result.DocumentID)
	fmt.Printf("Artifact:     %s\n", result.ArtifactPath)
	fmt.Printf("\n--- Sanitized preview ---\n%s\n", result.Preview)
	return nil
}
