// Package redact removes identifying strings from contract text before any
// other stage may see it. Masking is cumulative text substitution: rules are
// applied strictly in sequence, so the narrow financial patterns (IBAN,
// SWIFT, email) run independently of the broader entity patterns and cannot
// be short-circuited by them.
package redact

import "regexp"

// Sentinel format for masked values.
const redactedFormat = "[%s_REDACTED]"

// Rule is one ordered masking rule.
type Rule struct {
	Label   string
	Pattern *regexp.Regexp
}

// DefaultRules returns the fixed rule set in application order. Order is a
// load-bearing contract: specificity before breadth.
func DefaultRules() []Rule {
	return []Rule{
		// Entities in fixed legal boilerplate positions on the cover page.
		{"BORROWER", regexp.MustCompile(`(?i)\(1\)\s*([\s\S]+?)\s*\(as Borrower\)`)},
		{"LENDER", regexp.MustCompile(`(?i)\(2\)\s*([A-Z\s,]+)\s*\(as Original Lender\)`)},

		// Financial identifiers in the notices schedule.
		{"IBAN", regexp.MustCompile(`[A-Z]{2}\d{2}[a-zA-Z0-9]{11,30}`)},
		{"SWIFT", regexp.MustCompile(`\b[A-Z]{6}[A-Z0-9]{2}([A-Z0-9]{3})?\b`)},

		// Personal data.
		{"EMAIL", regexp.MustCompile(`\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}\b`)},

		// Contact and agent blocks.
		{"NOTICES", regexp.MustCompile(`(?i)(?:Attention:|Contact:|Director:|\(3\))\s*([A-Za-z\s.\-]+)`)},
	}
}
