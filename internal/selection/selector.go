package selection

import (
	"cmp"
	"fmt"
	"slices"
)

// selectItems is the admission-control pass: a single, irrevocable greedy
// walk over the items sorted by (tier, relevance desc). Each item is
// tested against the checks below in order and rejected at the first
// failure; there is no backtracking after a rejection, so a low-priority
// item in an under-used domain can still lose to the global cap.
func selectItems(items []Item, cfg Config) (included []Item, excluded []Exclusion) {
	ordered := make([]Item, len(items))
	copy(ordered, items)

	// Stable sort keeps the enrichment order as the final tie-break, which
	// makes the ordering reproducible for identical input.
	slices.SortStableFunc(ordered, func(a, b Item) int {
		if a.Tier != b.Tier {
			return cmp.Compare(a.Tier, b.Tier)
		}
		return cmp.Compare(b.Relevance, a.Relevance)
	})

	domainItems := make(map[Domain]int)
	domainChars := make(map[Domain]int)
	totalItems := 0
	totalChars := 0

	for _, item := range ordered {
		d := item.Candidate.Domain
		budget := cfg.BudgetFor(d)

		if exc, ok := admit(item, budget, cfg, domainItems[d], domainChars[d], totalItems, totalChars); !ok {
			excluded = append(excluded, exc)
			continue
		}

		included = append(included, item)
		domainItems[d]++
		domainChars[d] += item.CharCount
		totalItems++
		totalChars += item.CharCount
	}

	return included, excluded
}

// admit applies the seven admission checks in their contractual order and
// returns the exclusion for the first failing check.
func admit(item Item, budget DomainBudget, cfg Config, dItems, dChars, totalItems, totalChars int) (Exclusion, bool) {
	d := item.Candidate.Domain

	if item.Relevance < budget.MinRelevance {
		return scoredExclusion(item, ReasonBelowRelevance,
			fmt.Sprintf("relevance %.1f below domain minimum %.1f", item.Relevance, budget.MinRelevance)), false
	}

	if item.Confidence < budget.MinConfidence {
		return scoredExclusion(item, ReasonBelowConfidence,
			fmt.Sprintf("confidence %.1f below domain minimum %.1f", item.Confidence, budget.MinConfidence)), false
	}

	if dItems >= budget.MaxItems {
		return Exclusion{
			ID:     item.Candidate.ID,
			Domain: d,
			Reason: ReasonDomainCap,
			Detail: fmt.Sprintf("domain already holds %d of %d items", dItems, budget.MaxItems),
		}, false
	}

	if dChars+item.CharCount > budget.MaxChars {
		return Exclusion{
			ID:     item.Candidate.ID,
			Domain: d,
			Reason: ReasonCharLimit,
			Scope:  ScopeDomain,
			Detail: fmt.Sprintf("item of %d chars would exceed domain budget %d/%d", item.CharCount, dChars, budget.MaxChars),
		}, false
	}

	if totalItems >= cfg.TotalItems {
		return Exclusion{
			ID:     item.Candidate.ID,
			Domain: d,
			Reason: ReasonTotalCap,
			Detail: fmt.Sprintf("global item budget %d exhausted", cfg.TotalItems),
		}, false
	}

	if totalChars+item.CharCount > cfg.TotalChars {
		return Exclusion{
			ID:     item.Candidate.ID,
			Domain: d,
			Reason: ReasonCharLimit,
			Scope:  ScopeGlobal,
			Detail: fmt.Sprintf("item of %d chars would exceed global budget %d/%d", item.CharCount, totalChars, cfg.TotalChars),
		}, false
	}

	if cfg.IsSensitive(d) && dItems >= cfg.SensitiveSoftCap && item.Tier != TierCritical {
		return Exclusion{
			ID:     item.Candidate.ID,
			Domain: d,
			Reason: ReasonSensitiveDomain,
			Detail: fmt.Sprintf("sensitive domain at soft cap %d; only critical items bypass", cfg.SensitiveSoftCap),
		}, false
	}

	return Exclusion{}, true
}

func scoredExclusion(item Item, reason ExclusionReason, detail string) Exclusion {
	rel := item.Relevance
	conf := item.Confidence
	return Exclusion{
		ID:         item.Candidate.ID,
		Domain:     item.Candidate.Domain,
		Reason:     reason,
		Detail:     detail,
		Relevance:  &rel,
		Confidence: &conf,
	}
}
