package selection

import "time"

// DomainBudget caps admission for a single domain.
type DomainBudget struct {
	MaxItems      int     `json:"max_items" yaml:"max_items"`
	MaxChars      int     `json:"max_chars" yaml:"max_chars"`
	MinRelevance  float64 `json:"min_relevance" yaml:"min_relevance"`
	MinConfidence float64 `json:"min_confidence" yaml:"min_confidence"`
}

// SaturationConfig tunes the second-pass redundancy and topic controls.
type SaturationConfig struct {
	// RedundancyThreshold is the similarity at or above which a candidate
	// is considered a duplicate of an already-admitted item.
	RedundancyThreshold float64 `json:"redundancy_threshold" yaml:"redundancy_threshold"`

	// TopicRepetitionLimit is the number of items allowed per topic in
	// non-exempt domains.
	TopicRepetitionLimit int `json:"topic_repetition_limit" yaml:"topic_repetition_limit"`

	// MinDiversity flags (never reshapes) a final set whose mean pairwise
	// dissimilarity falls below it.
	MinDiversity float64 `json:"min_diversity" yaml:"min_diversity"`

	// SimilarityDownweight scales each item's diversity contribution by
	// its strongest overlap with the rest of the set.
	SimilarityDownweight float64 `json:"similarity_downweight" yaml:"similarity_downweight"`
}

// ScoringConfig tunes the relevance decay curve.
type ScoringConfig struct {
	// DecayHalfLife is the age at which relevance decays to half.
	DecayHalfLife time.Duration `json:"decay_half_life" yaml:"decay_half_life"`

	// DecayFloor is the minimum decay multiplier; facts never decay below
	// this fraction of their importance.
	DecayFloor float64 `json:"decay_floor" yaml:"decay_floor"`
}

// Config is the full budget table consumed by the selector and the
// saturation controller. Callers must treat a Config obtained from a
// ConfigSource as immutable.
type Config struct {
	// TotalItems and TotalChars are the global admission caps.
	TotalItems int `json:"total_items" yaml:"total_items"`
	TotalChars int `json:"total_chars" yaml:"total_chars"`

	// Domains is the per-domain budget table. Every domain of the fixed
	// enumeration should have an entry; lookups for a missing domain fall
	// back to FallbackDomain's budget.
	Domains map[Domain]DomainBudget `json:"domains" yaml:"domains"`

	// FallbackDomain names the budget substituted for a domain missing
	// from the table.
	FallbackDomain Domain `json:"fallback_domain" yaml:"fallback_domain"`

	// MemoryTypeWeights are informational ratios surfaced to callers.
	// They never gate admission and need not sum to 1.
	MemoryTypeWeights map[MemoryType]float64 `json:"memory_type_weights" yaml:"memory_type_weights"`

	// SensitiveDomains receive extra protection: once SensitiveSoftCap
	// items of such a domain are admitted, further non-critical items are
	// rejected regardless of remaining budget.
	SensitiveDomains []Domain `json:"sensitive_domains" yaml:"sensitive_domains"`
	SensitiveSoftCap int      `json:"sensitive_soft_cap" yaml:"sensitive_soft_cap"`

	// IdentityExemptDomains are never topic-capped during desaturation.
	IdentityExemptDomains []Domain `json:"identity_exempt_domains" yaml:"identity_exempt_domains"`

	Saturation SaturationConfig `json:"saturation" yaml:"saturation"`
	Scoring    ScoringConfig    `json:"scoring" yaml:"scoring"`
}

// DefaultConfig returns the built-in budget table.
func DefaultConfig() Config {
	return Config{
		TotalItems: 20,
		TotalChars: 6000,
		Domains: map[Domain]DomainBudget{
			DomainPersonal:      {MaxItems: 5, MaxChars: 1000, MinRelevance: 20, MinConfidence: 30},
			DomainRelationships: {MaxItems: 4, MaxChars: 800, MinRelevance: 20, MinConfidence: 30},
			DomainHealth:        {MaxItems: 4, MaxChars: 800, MinRelevance: 30, MinConfidence: 40},
			DomainGoals:         {MaxItems: 3, MaxChars: 600, MinRelevance: 25, MinConfidence: 35},
			DomainPreferences:   {MaxItems: 4, MaxChars: 700, MinRelevance: 20, MinConfidence: 30},
			DomainConversation:  {MaxItems: 6, MaxChars: 1200, MinRelevance: 15, MinConfidence: 25},
			DomainTasks:         {MaxItems: 3, MaxChars: 500, MinRelevance: 25, MinConfidence: 35},
			DomainCommunity:     {MaxItems: 2, MaxChars: 400, MinRelevance: 30, MinConfidence: 40},
			DomainEvents:        {MaxItems: 3, MaxChars: 500, MinRelevance: 25, MinConfidence: 35},
			DomainProducts:      {MaxItems: 2, MaxChars: 400, MinRelevance: 35, MinConfidence: 45},
			DomainNotes:         {MaxItems: 2, MaxChars: 400, MinRelevance: 20, MinConfidence: 30},
		},
		FallbackDomain: DomainConversation,
		MemoryTypeWeights: map[MemoryType]float64{
			MemoryRecent:   0.4,
			MemoryLongTerm: 0.35,
			MemoryPattern:  0.25,
		},
		SensitiveDomains:      []Domain{DomainHealth},
		SensitiveSoftCap:      3,
		IdentityExemptDomains: []Domain{DomainPersonal, DomainRelationships},
		Saturation: SaturationConfig{
			RedundancyThreshold:  0.8,
			TopicRepetitionLimit: 2,
			MinDiversity:         0.3,
			SimilarityDownweight: 0.5,
		},
		Scoring: ScoringConfig{
			DecayHalfLife: 14 * 24 * time.Hour,
			DecayFloor:    0.5,
		},
	}
}

// BudgetFor returns the budget for d, substituting the fallback domain's
// budget when d has no entry. The zero budget is returned only when the
// fallback itself is missing, which validation prevents.
func (c Config) BudgetFor(d Domain) DomainBudget {
	if b, ok := c.Domains[d]; ok {
		return b
	}
	return c.Domains[c.FallbackDomain]
}

// IsSensitive reports whether d is under sensitive-domain protection.
func (c Config) IsSensitive(d Domain) bool {
	for _, s := range c.SensitiveDomains {
		if s == d {
			return true
		}
	}
	return false
}

// IsIdentityExempt reports whether d skips topic capping.
func (c Config) IsIdentityExempt(d Domain) bool {
	for _, s := range c.IdentityExemptDomains {
		if s == d {
			return true
		}
	}
	return false
}

// Clone returns a deep copy. Snapshot-on-read configuration sources use it
// so an in-flight selection never observes a concurrent update.
func (c Config) Clone() Config {
	cp := c

	cp.Domains = make(map[Domain]DomainBudget, len(c.Domains))
	for d, b := range c.Domains {
		cp.Domains[d] = b
	}

	cp.MemoryTypeWeights = make(map[MemoryType]float64, len(c.MemoryTypeWeights))
	for m, w := range c.MemoryTypeWeights {
		cp.MemoryTypeWeights[m] = w
	}

	cp.SensitiveDomains = append([]Domain(nil), c.SensitiveDomains...)
	cp.IdentityExemptDomains = append([]Domain(nil), c.IdentityExemptDomains...)

	return cp
}
