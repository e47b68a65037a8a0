package selection

import (
	"strings"
	"time"
)

// recentWindow is the age under which a fact counts as recent memory.
const recentWindow = 24 * time.Hour

// habitMarkers are the habitual-language cues that classify content as a
// behavioral pattern rather than a one-off fact.
var habitMarkers = []string{
	"always", "never", "usually", "prefer", "habit", "routine",
}

// Classify assigns the priority tier and memory type for a candidate.
// Pure function: no side effects, no hidden state.
//
// Tier rules are evaluated in order, first match wins:
//  1. personal with importance >= 30 is critical
//  2. relationships with importance >= 50 is critical
//  3. importance >= 70 is critical
//  4. importance >= 30 is relevant
//  5. health/goals/preferences with importance >= 20 is relevant
//  6. everything else is optional
func Classify(c Candidate, now time.Time) (Tier, MemoryType) {
	return classifyTier(c), classifyMemory(c, now)
}

func classifyTier(c Candidate) Tier {
	switch {
	case c.Domain == DomainPersonal && c.Importance >= 30:
		return TierCritical
	case c.Domain == DomainRelationships && c.Importance >= 50:
		return TierCritical
	case c.Importance >= 70:
		return TierCritical
	case c.Importance >= 30:
		return TierRelevant
	case c.Importance >= 20 &&
		(c.Domain == DomainHealth || c.Domain == DomainGoals || c.Domain == DomainPreferences):
		return TierRelevant
	default:
		return TierOptional
	}
}

func classifyMemory(c Candidate, now time.Time) MemoryType {
	if now.Sub(c.OccurredAt) < recentWindow {
		return MemoryRecent
	}

	lower := strings.ToLower(c.Content)
	for _, marker := range habitMarkers {
		if strings.Contains(lower, marker) {
			return MemoryPattern
		}
	}

	return MemoryLongTerm
}
