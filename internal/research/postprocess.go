package research

import (
	"fmt"
	"sort"
)

// finalizeReport normalizes a freshly parsed report in place: every top risk
// gets a category, under-diverse risk lists are backfilled with placeholder
// entries, and risks end up sorted by score descending.
func finalizeReport(report *Report, profile BusinessProfile, classifier *Classifier) {
	for i := range report.TopRisks {
		if report.TopRisks[i].Category == "" {
			report.TopRisks[i].Category = classifier.Classify(report.TopRisks[i].Factor)
		}
	}

	distinct := make(map[string]bool)
	for _, risk := range report.TopRisks {
		distinct[risk.Category] = true
	}

	// Backfill one placeholder per unrepresented category, in table order,
	// until 5 distinct categories are covered or 10 risks total exist.
	if len(distinct) < 5 && len(report.TopRisks) < 10 {
		for _, cat := range classifier.Categories() {
			if len(distinct) >= 5 || len(report.TopRisks) >= 10 {
				break
			}
			if distinct[cat.Name] {
				continue
			}

			report.TopRisks = append(report.TopRisks, RiskFactor{
				Factor:   fmt.Sprintf("%s affecting %s in %s", cat.Name, profile.Industry, profile.Region),
				Score:    5,
				Source:   "Industry Analysis",
				Category: cat.Name,
			})
			distinct[cat.Name] = true
		}
	}

	sort.SliceStable(report.TopRisks, func(i, j int) bool {
		return report.TopRisks[i].Score > report.TopRisks[j].Score
	})
}
