package model

import "math"

// VerificationStatus tags the outcome of the satellite verification stage.
type VerificationStatus string

const (
	// VerificationUnavailable means the contract never disclosed coordinates.
	// This is a valid terminal state, penalized downstream, not an error.
	VerificationUnavailable VerificationStatus = "UNAVAILABLE"

	// VerificationNoImagery means zero cloud-filtered images matched the
	// query window over the region of interest.
	VerificationNoImagery VerificationStatus = "NO_IMAGERY"

	// VerificationSuccess means at least one image contributed to the
	// composite and all statistics were computed.
	VerificationSuccess VerificationStatus = "SUCCESS"

	// VerificationError wraps an unexpected imagery backend fault. Reported,
	// never raised to the caller.
	VerificationError VerificationStatus = "ERROR"
)

// VerificationResult is the typed output of the verification stage.
// ActualIndex, BreachFraction and the visualization URLs are only
// meaningful on VerificationSuccess.
type VerificationResult struct {
	Status VerificationStatus `json:"status"`
	Reason string             `json:"reason,omitempty"`

	ActualIndex    float64 `json:"actual_ndvi,omitempty"`  // rounded to 4 dp
	TargetIndex    float64 `json:"target_ndvi,omitempty"`  // echoed input
	BreachFraction float64 `json:"breach_fraction,omitempty"` // in [0,1]
	IsBreach       bool    `json:"is_breach,omitempty"`
	ImageCount     int     `json:"image_count,omitempty"`

	Verdict  string `json:"verdict,omitempty"`
	Analysis string `json:"analysis,omitempty"`

	MapThumbURL  string `json:"map_thumb_url,omitempty"`
	MaskThumbURL string `json:"mask_thumb_url,omitempty"`
}

// BreachPercentage reports the breach fraction as a display percentage
// rounded to 2 decimal places. Settlement consumes the raw fraction.
func (r VerificationResult) BreachPercentage() float64 {
	return round2(r.BreachFraction * 100)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
