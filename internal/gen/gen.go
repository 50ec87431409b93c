// Package gen produces demo loan contracts for exercising the audit
// pipeline end to end. Three categories cover the verdict space: a healthy
// boreal site, a degraded preservation zone, and a contract that never
// discloses its coordinates.
package gen

import (
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"strings"
)

// Category selects which covenant profile a generated contract carries.
type Category string

const (
	CategorySuccess Category = "Success"
	CategoryBreach  Category = "Breach"
	CategoryFailure Category = "Failure"
)

// Categories lists all profiles in generation order.
func Categories() []Category {
	return []Category{CategorySuccess, CategoryBreach, CategoryFailure}
}

type profile struct {
	latMin, latMax float64
	lonMin, lonMax float64
	coordsMissing  bool
	target         string
	marginBps      string
	desc           string
}

var profiles = map[Category]profile{
	CategorySuccess: {
		latMin: 61.0, latMax: 62.0, lonMin: 24.0, lonMax: 25.0,
		target: "0.75 (Seventy-five per centum)", marginBps: "5.0",
		desc: "Boreal Forest Asset",
	},
	CategoryBreach: {
		latMin: -10.5, latMax: -9.5, lonMin: -55.5, lonMax: -54.5,
		target: "0.82 (Eighty-two per centum)", marginBps: "7.5",
		desc: "Amazon Preservation Zone",
	},
	CategoryFailure: {
		coordsMissing: true,
		target:        "0.70", marginBps: "2.5",
		desc: "Incomplete Reporting",
	},
}

var (
	companyStems = []string{"NORDWALD", "VERDANT", "TAIGA", "AURUM", "CALDERA", "MERIDIAN", "HALCYON", "BASALT"}
	companyTails = []string{"HOLDINGS LTD", "FORESTRY OY", "AGRO S.A.", "RESOURCES PLC", "TIMBER AB", "CAPITAL GMBH"}
	bankNames    = []string{"HARTWELL", "DUNMORE", "KESTREL", "ALDGATE", "BRANNIG"}
	personNames  = []string{"Elena Vasquez", "Marcus Thorne", "Ingrid Solberg", "Tomas Werner", "Amara Diallo", "Henrik Lundqvist"}

	fillerSentences = []string{
		"The Borrower shall promptly deliver to the Agent such documentation as the Agent may reasonably require.",
		"No Default is continuing or would result from the proposed Utilisation.",
		"Each Obligor shall comply in all material respects with all laws to which it may be subject.",
		"The Repeating Representations are deemed to be made by each Obligor on the date of each Utilisation Request.",
		"Any term of a Finance Document may be amended or waived only with the consent of the Majority Lenders.",
		"The Agent may rely on any representation, notice or document believed by it to be genuine.",
		"All sums payable by an Obligor shall be paid free and clear of any deduction or withholding.",
		"The Borrower shall maintain insurances on and in relation to its business and assets.",
	}
)

// boilerplatePages is the count of filler covenant pages between the cover
// page and the schedules, keeping the needle well inside the haystack.
const boilerplatePages = 10

// Contract generates one demo contract in the plain-text page format
// (form-feed pages, blank-line blocks).
func Contract(category Category, rng *rand.Rand) ([]byte, error) {
	p, ok := profiles[category]
	if !ok {
		return nil, fmt.Errorf("unknown contract category %q", category)
	}

	borrower := companyStems[rng.Intn(len(companyStems))] + " " + companyTails[rng.Intn(len(companyTails))]
	lender := bankNames[rng.Intn(len(bankNames))] + " BANK PLC"
	agent := strings.ToUpper(personNames[rng.Intn(len(personNames))])
	contact := personNames[rng.Intn(len(personNames))]
	email := strings.ToLower(strings.ReplaceAll(contact, " ", ".")) + "@" + strings.ToLower(bankNames[rng.Intn(len(bankNames))]) + "bank.com"

	lat, lon := "NOT_PROVIDED", "NOT_PROVIDED"
	if !p.coordsMissing {
		lat = fmt.Sprintf("%.5f", p.latMin+rng.Float64()*(p.latMax-p.latMin))
		lon = fmt.Sprintf("%.5f", p.lonMin+rng.Float64()*(p.lonMax-p.lonMin))
	}

	var pages []string

	// Cover page: the sensitive entity block the masking rules must catch.
	pages = append(pages, strings.Join([]string{
		fmt.Sprintf("DATED %d JUNE %d", 1+rng.Intn(28), 2024+rng.Intn(2)),
		fmt.Sprintf("(1) %s (as Borrower)", borrower),
		fmt.Sprintf("(2) %s (as Original Lender)", lender),
		fmt.Sprintf("(3) %s (as Agent)", agent),
		"EUR 750,000,000 REVOLVING CREDIT FACILITY",
		fmt.Sprintf("relating to the %s", p.desc),
	}, "\n\n"))

	// Dense boilerplate, with the sustainability cross-reference buried at
	// a fixed clause the way the source contracts carry it.
	for i := 0; i < boilerplatePages; i++ {
		clause := i + 2
		var blocks []string
		blocks = append(blocks, fmt.Sprintf("CLAUSE %d. OPERATIONAL COVENANTS AND REPRESENTATIONS", clause))
		if clause == 8 {
			blocks = append(blocks, "8.3 Sustainability Margin Adjustment: As specified in Schedule 4, "+
				"the Margin shall be adjusted based on Satellite NDVI Verification.")
		} else {
			for j := 0; j < 4; j++ {
				blocks = append(blocks, fillerSentences[rng.Intn(len(fillerSentences))])
			}
		}
		pages = append(pages, strings.Join(blocks, "\n\n"))
	}

	// Schedule 4: the covenant needle the extraction stage must find.
	pages = append(pages, strings.Join([]string{
		"SCHEDULE 4: SUSTAINABILITY PERFORMANCE TARGETS (SPTs)",
		fmt.Sprintf("The Project Site is defined as the area centered at Latitude %s and Longitude %s. "+
			"The Borrower shall ensure the Mean NDVI exceeds the threshold of %s. "+
			"In the event the Sustainability Performance Target is met, the Sustainability Margin "+
			"Adjustment shall result in a reduction of the Margin by %s bps. "+
			"Verification will be performed by the Agent using Sentinel-2 Spectral Imagery.",
			lat, lon, p.target, p.marginBps),
	}, "\n\n"))

	// Schedule 5: notices block carrying the PII the masking rules target.
	pages = append(pages, strings.Join([]string{
		"SCHEDULE 5: ADDRESSES FOR NOTICES",
		fmt.Sprintf("THE BORROWER: %s\nAttention: %s\nEmail: %s\nAccount No: %s\nSWIFT: %s",
			borrower, contact, email, fakeBBAN(rng), fakeSWIFT(rng)),
		fmt.Sprintf("THE LENDER: %s\nIBAN: %s\nContact: %s (Director)",
			lender, fakeIBAN(rng), personNames[rng.Intn(len(personNames))]),
	}, "\n\n"))

	return []byte(strings.Join(pages, "\f")), nil
}

// WriteDataset writes perCategory contracts of every category into dir.
// The same seed reproduces the same dataset.
func WriteDataset(dir string, perCategory int, seed int64) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create dataset dir: %w", err)
	}

	rng := rand.New(rand.NewSource(seed))
	var paths []string
	for _, category := range Categories() {
		for i := 1; i <= perCategory; i++ {
			data, err := Contract(category, rng)
			if err != nil {
				return nil, err
			}
			path := filepath.Join(dir, fmt.Sprintf("LMA_%s_%d.txt", category, i))
			if err := os.WriteFile(path, data, 0o644); err != nil {
				return nil, fmt.Errorf("write contract: %w", err)
			}
			paths = append(paths, path)
		}
	}
	return paths, nil
}

func fakeIBAN(rng *rand.Rand) string {
	return fmt.Sprintf("DE%02d%018d", 10+rng.Intn(89), rng.Int63n(1_000_000_000_000_000_000))
}

func fakeBBAN(rng *rand.Rand) string {
	return fmt.Sprintf("%014d", rng.Int63n(100_000_000_000_000))
}

func fakeSWIFT(rng *rand.Rand) string {
	letters := "ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	b := make([]byte, 8)
	for i := 0; i < 6; i++ {
		b[i] = letters[rng.Intn(26)]
	}
	b[6] = byte('2' + rng.Intn(8))
	b[7] = letters[rng.Intn(26)]
	return string(b)
}
