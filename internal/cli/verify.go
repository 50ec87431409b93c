package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/sentinel-audit/sentinel/internal/model"
	"github.com/sentinel-audit/sentinel/internal/store"
	"github.com/sentinel-audit/sentinel/internal/verify"
	"github.com/spf13/cobra"
)

var (
	verifyLat     string
	verifyLon     string
	verifyTarget  float64
	verifyTimeout time.Duration
)

// verifyCmd represents the verify command
var verifyCmd = &cobra.Command{
	Use:   "verify",
	Short: "Verify an NDVI covenant against satellite imagery",
	Long: `Verify runs the satellite verification stage on explicit coordinates:
- Build a buffered square around the site centre
- Composite cloud-filtered Sentinel-2 imagery over the audit window
- Compare the mean NDVI against the contractual target
- Measure the fraction of the site under critical degradation

Example:
  sentinel verify --lat 61.5 --lon 24.3 --target 0.75 --offline
  sentinel verify --lat -10.1 --lon -55.2 --target 0.82 --imagery-url https://gee-gw.internal`,
	RunE: runVerify,
}

func init() {
	rootCmd.AddCommand(verifyCmd)

	verifyCmd.Flags().StringVar(&verifyLat, "lat", "", "site centre latitude (or NOT_PROVIDED)")
	verifyCmd.Flags().StringVar(&verifyLon, "lon", "", "site centre longitude (or NOT_PROVIDED)")
	verifyCmd.Flags().Float64Var(&verifyTarget, "target", 0, "contractual mean NDVI target")
	verifyCmd.Flags().DurationVar(&verifyTimeout, "timeout", 3*time.Minute, "verification timeout")
	addBackendFlags(verifyCmd)

	_ = verifyCmd.MarkFlagRequired("lat")
	_ = verifyCmd.MarkFlagRequired("lon")
	_ = verifyCmd.MarkFlagRequired("target")
}

func runVerify(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(context.Background(), verifyTimeout)
	defer cancel()

	cfg := buildConfig()
	backend, err := buildBackend(cfg)
	if err != nil {
		return err
	}

	verifier := verify.NewVerifier(backend, store.NewMemoryStore(), cfg.Imagery)
	result, err := verifier.Verify(ctx, verifyLat, verifyLon, verifyTarget)
	if err != nil {
		return fmt.Errorf("verification failed: %w", err)
	}

	printVerification(result)
	return nil
}

func printVerification(r *model.VerificationResult) {
	fmt.Printf("Status:        %s\n", r.Status)
	if r.Reason != "" {
		fmt.Printf("Reason:        %s\n", r.Reason)
	}
	if r.Status != model.VerificationSuccess {
		return
	}
	fmt.Printf("Images used:   %d\n", r.ImageCount)
	fmt.Printf("Target NDVI:   %g\n", r.TargetIndex)
	fmt.Printf("Actual NDVI:   %g\n", r.ActualIndex)
	fmt.Printf("Breach area:   %.2f%%\n", r.BreachPercentage())
	fmt.Printf("Verdict:       %s\n", r.Verdict)
	if r.Analysis != "" {
		fmt.Printf("Analysis:      %s\n", r.Analysis)
	}
	if r.MapThumbURL != "" {
		fmt.Printf("NDVI map:      %s\n", r.MapThumbURL)
	}
	if r.MaskThumbURL != "" {
		fmt.Printf("Breach mask:   %s\n", r.MaskThumbURL)
	}
}
