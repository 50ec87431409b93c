package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
)

var extractTimeout time.Duration

// extractCmd represents the extract command
var extractCmd = &cobra.Command{
	Use:   "extract <file>",
	Short: "Extract covenant fields from a contract",
	Long: `Extract masks the contract and runs LLM field extraction on the
sanitized text, returning the Project Site coordinates, the NDVI target
and the margin ratchet, each paired with the contract text it was found in.

Example:
  sentinel extract contracts/LMA_Success_1.txt
  sentinel extract facility.txt --llm-provider openai --llm-model gpt-4o-mini`,
	Args: cobra.ExactArgs(1),
	RunE: runExtract,
}

func init() {
	rootCmd.AddCommand(extractCmd)

	extractCmd.Flags().DurationVar(&extractTimeout, "timeout", 2*time.Minute, "extraction timeout")
	extractCmd.Flags().StringVar(&staticDir, "static-dir", "", "directory for sanitized artifacts and evidence images")
	addLLMFlags(extractCmd)
}

func runExtract(cmd *cobra.Command, args []string) error {
	path := args[0]
	ctx, cancel := context.WithTimeout(context.Background(), extractTimeout)
	defer cancel()

	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read contract: %w", err)
	}

	cfg := buildConfig()
	auditor, err := buildAuditor(ctx, cfg, true, false)
	if err != nil {
		return err
	}

	redaction, err := auditor.SubmitDocument(raw, filepath.Base(path))
	if err != nil {
		return fmt.Errorf("redaction failed: %w", err)
	}
	if verbose {
		fmt.Fprintf(os.Stderr, "✓ Masked document %s\n", redaction.DocumentID)
	}

	result, err := auditor.RunExtraction(ctx, redaction.DocumentID)
	if err != nil {
		return fmt.Errorf("extraction failed: %w", err)
	}

	fmt.Printf("Document ID:  %s\n", redaction.DocumentID)
	fmt.Printf("GPS:          %s\n", result.Fields.GPS.Value)
	fmt.Printf("              found in: %q\n", result.Fields.GPS.RawTextFound)
	fmt.Printf("NDVI target:  %s\n", result.Fields.NDVI.Value)
	fmt.Printf("              found in: %q\n", result.Fields.NDVI.RawTextFound)
	fmt.Printf("Margin:       %s\n", result.Fields.Margin.Value)
	fmt.Printf("              found in: %q\n", result.Fields.Margin.RawTextFound)
	if result.EvidencePath != "" {
		fmt.Printf("Evidence:     %s (page %d)\n", result.EvidencePath, result.PageNum)
	}
	return nil
}
