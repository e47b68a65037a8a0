package budget

import (
	"time"

	"github.com/exafyltd/vitana-context/internal/selection"
)

// Partial is a shallow-merge override of the budget configuration. Nil
// fields keep the current value; map entries replace whole per-key
// values (a domain override replaces that domain's entire budget).
type Partial struct {
	TotalItems *int `json:"total_items,omitempty" yaml:"total_items,omitempty"`
	TotalChars *int `json:"total_chars,omitempty" yaml:"total_chars,omitempty"`

	Domains map[selection.Domain]selection.DomainBudget `json:"domains,omitempty" yaml:"domains,omitempty"`

	FallbackDomain *selection.Domain `json:"fallback_domain,omitempty" yaml:"fallback_domain,omitempty"`

	MemoryTypeWeights map[selection.MemoryType]float64 `json:"memory_type_weights,omitempty" yaml:"memory_type_weights,omitempty"`

	SensitiveDomains *[]selection.Domain `json:"sensitive_domains,omitempty" yaml:"sensitive_domains,omitempty"`
	SensitiveSoftCap *int                `json:"sensitive_soft_cap,omitempty" yaml:"sensitive_soft_cap,omitempty"`

	IdentityExemptDomains *[]selection.Domain `json:"identity_exempt_domains,omitempty" yaml:"identity_exempt_domains,omitempty"`

	RedundancyThreshold  *float64 `json:"redundancy_threshold,omitempty" yaml:"redundancy_threshold,omitempty"`
	TopicRepetitionLimit *int     `json:"topic_repetition_limit,omitempty" yaml:"topic_repetition_limit,omitempty"`
	MinDiversity         *float64 `json:"min_diversity,omitempty" yaml:"min_diversity,omitempty"`
	SimilarityDownweight *float64 `json:"similarity_downweight,omitempty" yaml:"similarity_downweight,omitempty"`

	DecayHalfLife *time.Duration `json:"decay_half_life,omitempty" yaml:"decay_half_life,omitempty"`
	DecayFloor    *float64       `json:"decay_floor,omitempty" yaml:"decay_floor,omitempty"`
}

// Apply merges the override into cfg and returns it. cfg must already
// be a private copy.
func (p Partial) Apply(cfg selection.Config) selection.Config {
	if p.TotalItems != nil {
		cfg.TotalItems = *p.TotalItems
	}
	if p.TotalChars != nil {
		cfg.TotalChars = *p.TotalChars
	}
	for d, b := range p.Domains {
		cfg.Domains[d] = b
	}
	if p.FallbackDomain != nil {
		cfg.FallbackDomain = *p.FallbackDomain
	}
	for m, w := range p.MemoryTypeWeights {
		cfg.MemoryTypeWeights[m] = w
	}
	if p.SensitiveDomains != nil {
		cfg.SensitiveDomains = append([]selection.Domain(nil), (*p.SensitiveDomains)...)
	}
	if p.SensitiveSoftCap != nil {
		cfg.SensitiveSoftCap = *p.SensitiveSoftCap
	}
	if p.IdentityExemptDomains != nil {
		cfg.IdentityExemptDomains = append([]selection.Domain(nil), (*p.IdentityExemptDomains)...)
	}
	if p.RedundancyThreshold != nil {
		cfg.Saturation.RedundancyThreshold = *p.RedundancyThreshold
	}
	if p.TopicRepetitionLimit != nil {
		cfg.Saturation.TopicRepetitionLimit = *p.TopicRepetitionLimit
	}
	if p.MinDiversity != nil {
		cfg.Saturation.MinDiversity = *p.MinDiversity
	}
	if p.SimilarityDownweight != nil {
		cfg.Saturation.SimilarityDownweight = *p.SimilarityDownweight
	}
	if p.DecayHalfLife != nil {
		cfg.Scoring.DecayHalfLife = *p.DecayHalfLife
	}
	if p.DecayFloor != nil {
		cfg.Scoring.DecayFloor = *p.DecayFloor
	}
	return cfg
}
