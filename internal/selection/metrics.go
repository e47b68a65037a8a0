package selection

import "time"

// buildMetrics aggregates per-domain and global statistics from the two
// passes. Purely derived — no independent logic branches.
func buildMetrics(final []Item, excluded []Exclusion, cfg Config, diversity float64, duration time.Duration) Metrics {
	m := Metrics{
		Domains:       make(map[Domain]DomainStats),
		Diversity:     diversity,
		ExcludedTotal: len(excluded),
		Exclusions:    make(map[ExclusionReason]int),
		Duration:      duration,
	}

	for _, item := range final {
		d := item.Candidate.Domain
		stats := m.Domains[d]
		stats.Items++
		stats.Chars += item.CharCount
		m.Domains[d] = stats

		m.TotalItems++
		m.TotalChars += item.CharCount
		m.AvgRelevance += item.Relevance
		m.AvgConfidence += item.Confidence
	}

	if m.TotalItems > 0 {
		m.AvgRelevance /= float64(m.TotalItems)
		m.AvgConfidence /= float64(m.TotalItems)
	}

	for _, exc := range excluded {
		stats := m.Domains[exc.Domain]
		stats.Excluded++
		m.Domains[exc.Domain] = stats
		m.Exclusions[exc.Reason]++
	}

	for d, stats := range m.Domains {
		budget := cfg.BudgetFor(d)
		stats.MaxItems = budget.MaxItems
		stats.MaxChars = budget.MaxChars
		if budget.MaxItems > 0 {
			stats.ItemUtilization = float64(stats.Items) / float64(budget.MaxItems)
		}
		if budget.MaxChars > 0 {
			stats.CharUtilization = float64(stats.Chars) / float64(budget.MaxChars)
		}
		m.Domains[d] = stats
	}

	m.BelowMinDiversity = m.TotalItems > 1 && diversity < cfg.Saturation.MinDiversity

	return m
}
