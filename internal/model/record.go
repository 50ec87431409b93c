package model

import (
	"strings"
)

// NotProvided is the sentinel the extraction backend returns when the
// contract does not disclose a value. Verification treats coordinates
// carrying this sentinel as a valid terminal state, not an error.
const NotProvided = "NOT_PROVIDED"

// DocumentRecord tracks one ingested contract through the audit pipeline.
// Records are keyed by a content-derived document identity and mutated in
// place as stages complete. Lifetime is the process lifetime; records are
// never evicted.
type DocumentRecord struct {
	DocumentID   string `json:"document_id"`
	Filename     string `json:"filename"`
	SafeText     string `json:"safe_text"`      // sanitized full text
	ArtifactPath string `json:"artifact_path"`  // masked document artifact

	Extracted    *ExtractedFields    `json:"extracted,omitempty"`    // set after Extraction
	Verification *VerificationResult `json:"verification,omitempty"` // set after Verification
}

// Field is one extracted contract field: a normalized value plus the literal
// contract text the reasoning backend found it in.
type Field struct {
	Value        string `json:"value"`
	RawTextFound string `json:"raw_text_found"`
}

// ExtractedFields is the three-field shape the reasoning backend must return.
type ExtractedFields struct {
	GPS    Field `json:"gps"`    // "lat, lon" or NOT_PROVIDED
	NDVI   Field `json:"ndvi"`   // contractual vegetation-index target
	Margin Field `json:"margin"` // margin adjustment in bps
}

// Coordinates splits the GPS field into latitude and longitude tokens.
// The raw value may be comma- or space-separated. Missing coordinates come
// back as the NotProvided sentinel for both tokens.
func (f ExtractedFields) Coordinates() (lat, lon string) {
	raw := strings.TrimSpace(f.GPS.Value)
	if raw == "" || raw == NotProvided {
		return NotProvided, NotProvided
	}

	var parts []string
	if strings.Contains(raw, ",") {
		parts = strings.SplitN(raw, ",", 2)
	} else {
		parts = strings.Fields(raw)
	}
	if len(parts) < 2 {
		return NotProvided, NotProvided
	}
	return strings.TrimSpace(parts[0]), strings.TrimSpace(parts[1])
}

// HighlightTargets returns the literal strings the evidence highlighter
// should locate in the sanitized document: the NDVI value, the margin value,
// and each coordinate token longer than 2 characters.
func (f ExtractedFields) HighlightTargets() []string {
	var targets []string
	for _, v := range []string{f.NDVI.Value, f.Margin.Value} {
		v = strings.TrimSpace(v)
		if v != "" && v != "None" && v != NotProvided {
			targets = append(targets, v)
		}
	}

	gps := strings.ReplaceAll(f.GPS.Value, ",", " ")
	for _, part := range strings.Fields(gps) {
		part = strings.TrimSpace(part)
		if len(part) > 2 && part != NotProvided {
			targets = append(targets, part)
		}
	}
	return targets
}
