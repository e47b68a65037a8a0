package selection

import (
	"math"
	"time"
)

// Domain boosts applied to relevance. Domains absent from the table
// multiply by 1.0.
var domainBoosts = map[Domain]float64{
	DomainPersonal:      1.5,
	DomainRelationships: 1.3,
	DomainHealth:        1.2,
}

// Relevance scores how much a candidate deserves context space: its
// upstream importance, decayed exponentially by age (half-life and floor
// from cfg), boosted by domain, clamped to [0,100]. Pure and
// deterministic; the decay factor depends only on the age, never on
// evaluation order.
func Relevance(c Candidate, now time.Time, cfg ScoringConfig) float64 {
	halfLife := cfg.DecayHalfLife
	if halfLife <= 0 {
		halfLife = 14 * 24 * time.Hour
	}
	floor := cfg.DecayFloor
	if floor <= 0 {
		floor = 0.5
	}

	decay := 1.0
	if age := now.Sub(c.OccurredAt); age > 0 {
		decay = math.Exp2(-float64(age) / float64(halfLife))
		if decay < floor {
			decay = floor
		}
	}

	boost, ok := domainBoosts[c.Domain]
	if !ok {
		boost = 1.0
	}

	return clampScore(float64(c.Importance) * decay * boost)
}

// Confidence derives a per-candidate confidence from the externally
// supplied overall quality score, adjusted by provenance and importance,
// clamped to [0,100].
func Confidence(c Candidate, quality int) float64 {
	score := float64(quality)

	switch c.Source {
	case ProvenanceSystem:
		score += 10
	case ProvenanceTyped:
		score += 5
	case ProvenanceVoice:
		score -= 5
	}

	switch {
	case c.Importance >= 70:
		score += 10
	case c.Importance >= 50:
		score += 5
	}

	return clampScore(score)
}

func clampScore(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}

// enrich builds the per-call Item view of every candidate. Items keep the
// input order; sorting happens in the selector.
func enrich(candidates []Candidate, quality int, now time.Time, cfg Config) []Item {
	items := make([]Item, len(candidates))
	for i, c := range candidates {
		tier, memType := Classify(c, now)
		items[i] = Item{
			Candidate:  c,
			Relevance:  Relevance(c, now, cfg.Scoring),
			Confidence: Confidence(c, quality),
			Tier:       tier,
			MemoryType: memType,
			CharCount:  len([]rune(c.Content)),
		}
	}
	return items
}
