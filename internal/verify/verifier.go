// Package verify implements the satellite verification stage: given
// contractual coordinates and a target vegetation index, it queries the
// imagery backend for a cloud-filtered median composite over the site
// polygon and measures the claim against it.
package verify

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"strconv"
	"strings"

	"github.com/sentinel-audit/sentinel/internal/imagery"
	"github.com/sentinel-audit/sentinel/internal/model"
	"github.com/sentinel-audit/sentinel/internal/store"
)

// Verifier is the verification stage.
type Verifier struct {
	backend imagery.Backend
	vault   store.Store
	cfg     model.ImageryConfig
}

// NewVerifier creates the verification stage.
func NewVerifier(backend imagery.Backend, vault store.Store, cfg model.ImageryConfig) *Verifier {
	return &Verifier{
		backend: backend,
		vault:   vault,
		cfg:     cfg,
	}
}

// VerifyDocument runs verification for a previously extracted document and
// records the result. Requires a prior successful extraction.
func (v *Verifier) VerifyDocument(ctx context.Context, docID string) (*model.VerificationResult, error) {
	rec, err := v.vault.Get(docID)
	if err != nil {
		return nil, err
	}
	if rec.Extracted == nil {
		return nil, fmt.Errorf("%w: verification requires extracted fields", model.ErrStageOrder)
	}

	lat, lon := rec.Extracted.Coordinates()

	var target float64
	if lat != model.NotProvided {
		target, err = strconv.ParseFloat(strings.TrimSpace(rec.Extracted.NDVI.Value), 64)
		if err != nil {
			return nil, fmt.Errorf("target index %q is not numeric: %w", rec.Extracted.NDVI.Value, err)
		}
	}

	result, err := v.Verify(ctx, lat, lon, target)
	if err != nil {
		return nil, err
	}

	if err := v.vault.Update(docID, func(r *model.DocumentRecord) {
		r.Verification = result
	}); err != nil {
		return nil, err
	}
	return result, nil
}

// Verify measures a claimed vegetation index against the satellite record.
//
// The unavailable sentinel short-circuits before any backend call. Non-
// numeric coordinates fail with a *model.CoordinateParseError. Backend
// faults are caught and converted to an ERROR result so the pipeline never
// aborts mid-stage.
func (v *Verifier) Verify(ctx context.Context, lat, lon string, targetIndex float64) (*model.VerificationResult, error) {
	if lat == model.NotProvided || lon == model.NotProvided {
		return &model.VerificationResult{
			Status: model.VerificationUnavailable,
			Reason: "Borrower failed to provide Project Site coordinates.",
		}, nil
	}

	latF, err := strconv.ParseFloat(strings.TrimSpace(lat), 64)
	if err != nil {
		return nil, &model.CoordinateParseError{Axis: "latitude", Value: lat}
	}
	lonF, err := strconv.ParseFloat(strings.TrimSpace(lon), 64)
	if err != nil {
		return nil, &model.CoordinateParseError{Axis: "longitude", Value: lon}
	}

	q := imagery.Query{
		Collection:  v.cfg.Collection,
		Region:      imagery.Region{Lat: latF, Lon: lonF, BufferMeters: v.cfg.BufferMeters},
		StartDate:   v.cfg.StartDate,
		EndDate:     v.cfg.EndDate,
		MaxCloudPct: v.cfg.MaxCloudPct,
		BandNIR:     v.cfg.BandNIR,
		BandRed:     v.cfg.BandRed,
		Scale:       v.cfg.Scale,
	}
	slog.Info("Querying imagery backend.", "region", q.Region.String(),
		"window", q.StartDate+".."+q.EndDate, "maxCloudPct", q.MaxCloudPct)

	result, err := v.measure(ctx, q, targetIndex)
	if err != nil {
		// Reported, not retried. The raw message is a best-effort
		// diagnostic on this path.
		var backendErr *model.BackendError
		reason := err.Error()
		if errors.As(err, &backendErr) {
			reason = fmt.Sprintf("Verification Failure: %v", backendErr.Err)
		}
		return &model.VerificationResult{
			Status: model.VerificationError,
			Reason: reason,
		}, nil
	}
	return result, nil
}

// measure runs the sequential backend calls: stack count, composite mean,
// degradation mask mean, two thumbnails.
func (v *Verifier) measure(ctx context.Context, q imagery.Query, targetIndex float64) (*model.VerificationResult, error) {
	count, err := v.backend.Count(ctx, q)
	if err != nil {
		return nil, err
	}
	if count == 0 {
		return &model.VerificationResult{
			Status: model.VerificationNoImagery,
			Reason: "No clear satellite imagery found in the audit window.",
		}, nil
	}

	mean, err := v.backend.Reduce(ctx, q, imagery.MeanReduction())
	if err != nil {
		return nil, err
	}

	fraction, err := v.backend.Reduce(ctx, q, imagery.MaskMeanReduction(v.cfg.Degradation))
	if err != nil {
		return nil, err
	}
	fraction = clamp01(fraction)

	mapThumb, err := v.backend.ThumbURL(ctx, q, imagery.Visualization{
		Min:        0,
		Max:        1,
		Palette:    []string{"red", "yellow", "green"},
		Dimensions: v.cfg.ThumbSize,
	})
	if err != nil {
		return nil, err
	}
	maskThumb, err := v.backend.ThumbURL(ctx, q, imagery.Visualization{
		Palette:    []string{"black", "white"},
		MaskBelow:  &v.cfg.Degradation,
		Dimensions: v.cfg.ThumbSize,
	})
	if err != nil {
		return nil, err
	}

	actual := round4(mean)
	isBreach := actual < targetIndex

	verdict := "COMPLIANT: APPLY DISCOUNT"
	if isBreach {
		verdict = "BREACH: ADJUST MARGIN UP"
	}

	result := &model.VerificationResult{
		Status:         model.VerificationSuccess,
		ActualIndex:    actual,
		TargetIndex:    targetIndex,
		BreachFraction: fraction,
		IsBreach:       isBreach,
		ImageCount:     count,
		Verdict:        verdict,
		MapThumbURL:    mapThumb,
		MaskThumbURL:   maskThumb,
	}
	result.Analysis = fmt.Sprintf("Critical degradation detected in %.2f%% of the site polygon.",
		result.BreachPercentage())
	return result, nil
}

func round4(v float64) float64 {
	return math.Round(v*10_000) / 10_000
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
