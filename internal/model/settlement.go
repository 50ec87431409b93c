package model

// SettlementStatus is the compliance verdict from the settlement decision
// table.
type SettlementStatus string

const (
	// StatusDeclassified is the governance kill-switch: the claim could not
	// be verified, so the penalty applies by default.
	StatusDeclassified SettlementStatus = "DECLASSIFIED"

	// StatusDoubleBreach escalates the penalty when physical degradation
	// exceeds the material threshold, regardless of the mean index.
	StatusDoubleBreach SettlementStatus = "DOUBLE_BREACH"

	// StatusBreach is the standard ratchet: KPI missed on average.
	StatusBreach SettlementStatus = "BREACH"

	// StatusCompliant applies the reward as a margin reduction.
	StatusCompliant SettlementStatus = "COMPLIANT"
)

// SettlementResult is the final output of the audit pipeline.
type SettlementResult struct {
	LoanRef string           `json:"loan_ref"` // the document identity
	Status  SettlementStatus `json:"status"`
	Reason  string           `json:"reason"`

	DisplayActual  string  `json:"actual_ndvi"` // "UNVERIFIED" when declassified
	BreachFraction float64 `json:"breach_fraction"`

	MarginAdjustmentBps float64 `json:"margin_adjustment_bps"` // signed
	FinalMarginBps      float64 `json:"final_margin_bps"`
	RevenueImpact       float64 `json:"revenue_impact"`

	DigitalSeal string `json:"digital_seal"`
	ReportPath  string `json:"report_path"`
}
