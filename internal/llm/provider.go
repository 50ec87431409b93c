// Package llm adapts external reasoning backends to the extraction stage.
// A provider receives keyword-filtered text blocks from the sanitized
// contract and must return the fixed three-field JSON shape, with
// determinism requested and an explicit instruction not to fabricate
// values absent from the input.
package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/sentinel-audit/sentinel/internal/model"
)

// Provider defines the interface for reasoning backends.
type Provider interface {
	// Name returns the provider name.
	Name() string

	// ExtractFields submits the filtered blocks and parses the structured
	// three-field result.
	ExtractFields(ctx context.Context, req ExtractRequest) (*model.ExtractedFields, error)

	// IsAvailable checks if the provider is properly configured and
	// accessible.
	IsAvailable(ctx context.Context) bool
}

// TextBlock is one retained contract block sent to the backend, carrying
// its page index, text and bounding coordinates.
type TextBlock struct {
	Page int        `json:"p"` // 1-based
	Text string     `json:"t"`
	Box  [4]float64 `json:"b"` // y0, x0, y1, x1
}

// ExtractRequest contains the input for field extraction.
type ExtractRequest struct {
	// Blocks is the keyword-filtered block list from the sanitized document.
	Blocks []TextBlock

	// Model overrides the configured model name (provider-specific).
	Model string
}

// ExtractionPrompt is the strict instruction sent with every request.
// The backend must copy values verbatim and never invent data.
const ExtractionPrompt = `ACT AS: Data Extraction Robot.
INPUT: A list of text blocks from a legal document.

TASK: Extract the EXACT values for these three fields.
1. GPS: Find 'Latitude' and 'Longitude' in the text. Copy the numbers exactly.
   If they are not present, return "NOT_PROVIDED".
2. NDVI: Find 'Mean NDVI' or 'Threshold'. Extract the decimal (e.g., 0.75).
3. MARGIN BPS: Find the 'bps' value. If it says '-5.0 bps', return '5.0'.
   The '-' means 'reduction', it is NOT a negative number.

JSON STRUCTURE:
{
  "gps": {"value": "...", "raw_text_found": "..."},
  "ndvi": {"value": "...", "raw_text_found": "..."},
  "margin": {"value": "...", "raw_text_found": "..."}
}

STRICT: Do not invent data. Use ONLY the provided text blocks.`

// BuildUserContent serializes the block list for the backend request.
func BuildUserContent(blocks []TextBlock) (string, error) {
	payload, err := json.Marshal(blocks)
	if err != nil {
		return "", fmt.Errorf("marshal blocks: %w", err)
	}
	return "DOC_BLOCKS: " + string(payload), nil
}

// ParseExtraction parses a backend response into the three-field shape.
// A response missing any of the three top-level keys fails with a
// *model.ExtractionFormatError; the stage does not retry or repair.
func ParseExtraction(raw string) (*model.ExtractedFields, error) {
	cleaned := stripFences(raw)

	var keys map[string]json.RawMessage
	if err := json.Unmarshal([]byte(cleaned), &keys); err != nil {
		return nil, &model.ExtractionFormatError{Raw: raw, Err: err}
	}
	for _, key := range []string{"gps", "ndvi", "margin"} {
		if _, ok := keys[key]; !ok {
			return nil, &model.ExtractionFormatError{
				Raw: raw,
				Err: fmt.Errorf("missing %q key", key),
			}
		}
	}

	var fields model.ExtractedFields
	if err := json.Unmarshal([]byte(cleaned), &fields); err != nil {
		return nil, &model.ExtractionFormatError{Raw: raw, Err: err}
	}
	return &fields, nil
}

// stripFences removes a markdown code fence some models wrap around JSON
// output even when a JSON MIME type was requested.
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
