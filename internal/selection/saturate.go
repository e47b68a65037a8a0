package selection

import (
	"fmt"

	"github.com/exafyltd/vitana-context/internal/lexical"
)

// desaturate is the second pass: it walks the admitted items in admission
// order (never re-sorted), drops near-duplicates of already-finalized
// items, caps per-topic repetition for non-exempt domains, and computes
// diversity over the survivors.
func desaturate(included []Item, cfg Config, sim lexical.Similarity, topics lexical.TopicExtractor) (final []Item, excluded []Exclusion, diversity float64) {
	topicCounts := make(map[string]int)

	for _, item := range included {
		if exc, dup := findDuplicate(item, final, cfg.Saturation.RedundancyThreshold, sim); dup {
			excluded = append(excluded, exc)
			continue
		}

		// Identity-exempt domains are never topic-capped; their items keep
		// an empty topic label.
		if !cfg.IsIdentityExempt(item.Candidate.Domain) {
			topic := topics.Topic(item.Candidate.Content)
			item.Topic = topic
			topicCounts[topic]++
			if topicCounts[topic] > cfg.Saturation.TopicRepetitionLimit {
				excluded = append(excluded, Exclusion{
					ID:     item.Candidate.ID,
					Domain: item.Candidate.Domain,
					Reason: ReasonTopicSaturation,
					Detail: fmt.Sprintf("topic %q already has %d of %d slots", topic, cfg.Saturation.TopicRepetitionLimit, cfg.Saturation.TopicRepetitionLimit),
				})
				continue
			}
		}

		final = append(final, item)
	}

	diversity = fillDiversity(final, cfg.Saturation, sim)
	return final, excluded, diversity
}

// findDuplicate compares the item against every finalized item and reports
// the first one meeting the redundancy threshold.
func findDuplicate(item Item, final []Item, threshold float64, sim lexical.Similarity) (Exclusion, bool) {
	for _, kept := range final {
		score := sim.Compare(item.Candidate.Content, kept.Candidate.Content)
		if score >= threshold {
			return Exclusion{
				ID:         item.Candidate.ID,
				Domain:     item.Candidate.Domain,
				Reason:     ReasonRedundant,
				Detail:     fmt.Sprintf("similarity %.2f to %s meets threshold %.2f", score, kept.Candidate.ID, threshold),
				SimilarTo:  kept.Candidate.ID,
				Similarity: score,
			}, true
		}
	}
	return Exclusion{}, false
}

// fillDiversity computes the set-level diversity (mean pairwise
// dissimilarity) and each item's DiversityGain. A set of zero or one
// items has diversity 1.0 by definition. An item's gain is its mean
// dissimilarity to the rest, with its strongest overlap scaled by the
// configured down-weight factor.
func fillDiversity(final []Item, sat SaturationConfig, sim lexical.Similarity) float64 {
	n := len(final)
	if n <= 1 {
		for i := range final {
			final[i].DiversityGain = 1.0
		}
		return 1.0
	}

	pairSum := 0.0
	pairs := 0

	for i := range final {
		rowSum := 0.0
		maxSim := 0.0
		for j := range final {
			if i == j {
				continue
			}
			s := sim.Compare(final[i].Candidate.Content, final[j].Candidate.Content)
			rowSum += 1 - s
			if s > maxSim {
				maxSim = s
			}
			if j > i {
				pairSum += 1 - s
				pairs++
			}
		}
		gain := rowSum / float64(n-1)
		if sat.SimilarityDownweight > 0 {
			gain *= 1 - maxSim*sat.SimilarityDownweight
		}
		final[i].DiversityGain = gain
	}

	return pairSum / float64(pairs)
}
