package settle

import (
	"fmt"

	"github.com/sentinel-audit/sentinel/internal/model"
)

// Inputs are the business inputs to the settlement decision table.
type Inputs struct {
	DocumentID     string
	Target         float64
	Actual         *float64 // nil when verification was unavailable
	BreachFraction float64  // raw fraction in [0,1]
	AdjustmentBps  float64  // unsigned ratchet magnitude from the contract
}

// Rule is one priority-ordered branch of the decision table.
type Rule struct {
	Status     model.SettlementStatus
	Applies    func(Inputs) bool
	Adjustment func(Inputs) float64
	Reason     func(Inputs) string
}

// materialDegradation is the breach-area fraction above which the penalty
// escalates. Strictly greater-than: a fraction of exactly 0.10 does not
// escalate.
const materialDegradation = 0.10

// Rules returns the decision table in evaluation order. The branches are
// not mutually exclusive by condition alone; order encodes priority. In
// particular the escalation branch fires even when the mean index meets the
// target - locally degraded sites are penalized regardless of the average.
func Rules() []Rule {
	return []Rule{
		{
			// Governance kill-switch: unverifiable claims are penalized by
			// default, not given benefit of the doubt.
			Status:     model.StatusDeclassified,
			Applies:    func(in Inputs) bool { return in.Actual == nil },
			Adjustment: func(in Inputs) float64 { return in.AdjustmentBps },
			Reason: func(in Inputs) string {
				return "Data Stream Failure / Missing Coordinates"
			},
		},
		{
			Status:     model.StatusDoubleBreach,
			Applies:    func(in Inputs) bool { return in.BreachFraction > materialDegradation },
			Adjustment: func(in Inputs) float64 { return in.AdjustmentBps * 2 },
			Reason: func(in Inputs) string {
				return fmt.Sprintf("CRITICAL: %.1f%% Physical Degradation Detected", in.BreachFraction*100)
			},
		},
		{
			Status:     model.StatusBreach,
			Applies:    func(in Inputs) bool { return *in.Actual < in.Target },
			Adjustment: func(in Inputs) float64 { return in.AdjustmentBps },
			Reason: func(in Inputs) string {
				return "KPI Target Not Met (Average NDVI below target)"
			},
		},
		{
			Status:     model.StatusCompliant,
			Applies:    func(in Inputs) bool { return true },
			Adjustment: func(in Inputs) float64 { return -in.AdjustmentBps },
			Reason: func(in Inputs) string {
				return "KPI Target Satisfied"
			},
		},
	}
}
