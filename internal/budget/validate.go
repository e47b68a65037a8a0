package budget

import (
	"errors"
	"fmt"

	"github.com/exafyltd/vitana-context/internal/selection"
)

// Validate checks a full configuration and returns every problem found,
// joined. A nil return means the config is safe to make live.
func Validate(cfg selection.Config) error {
	var errs []error

	if cfg.TotalItems <= 0 {
		errs = append(errs, fmt.Errorf("total_items must be positive, got %d", cfg.TotalItems))
	}
	if cfg.TotalChars <= 0 {
		errs = append(errs, fmt.Errorf("total_chars must be positive, got %d", cfg.TotalChars))
	}

	if len(cfg.Domains) == 0 {
		errs = append(errs, errors.New("domains table is empty"))
	}
	for d, b := range cfg.Domains {
		if !d.Valid() {
			errs = append(errs, fmt.Errorf("domains: unknown domain %q", d))
		}
		if b.MaxItems < 0 {
			errs = append(errs, fmt.Errorf("domains.%s: max_items must not be negative, got %d", d, b.MaxItems))
		}
		if b.MaxChars < 0 {
			errs = append(errs, fmt.Errorf("domains.%s: max_chars must not be negative, got %d", d, b.MaxChars))
		}
		if b.MinRelevance < 0 || b.MinRelevance > 100 {
			errs = append(errs, fmt.Errorf("domains.%s: min_relevance must be in [0,100], got %v", d, b.MinRelevance))
		}
		if b.MinConfidence < 0 || b.MinConfidence > 100 {
			errs = append(errs, fmt.Errorf("domains.%s: min_confidence must be in [0,100], got %v", d, b.MinConfidence))
		}
	}

	if !cfg.FallbackDomain.Valid() {
		errs = append(errs, fmt.Errorf("fallback_domain: unknown domain %q", cfg.FallbackDomain))
	} else if _, ok := cfg.Domains[cfg.FallbackDomain]; !ok {
		errs = append(errs, fmt.Errorf("fallback_domain %q has no entry in the domains table", cfg.FallbackDomain))
	}

	for m, w := range cfg.MemoryTypeWeights {
		if w < 0 {
			errs = append(errs, fmt.Errorf("memory_type_weights.%s must not be negative, got %v", m, w))
		}
	}

	for _, d := range cfg.SensitiveDomains {
		if !d.Valid() {
			errs = append(errs, fmt.Errorf("sensitive_domains: unknown domain %q", d))
		}
	}
	if cfg.SensitiveSoftCap < 0 {
		errs = append(errs, fmt.Errorf("sensitive_soft_cap must not be negative, got %d", cfg.SensitiveSoftCap))
	}

	for _, d := range cfg.IdentityExemptDomains {
		if !d.Valid() {
			errs = append(errs, fmt.Errorf("identity_exempt_domains: unknown domain %q", d))
		}
	}

	sat := cfg.Saturation
	if sat.RedundancyThreshold < 0 {
		errs = append(errs, fmt.Errorf("saturation.redundancy_threshold must not be negative, got %v", sat.RedundancyThreshold))
	}
	if sat.TopicRepetitionLimit < 1 {
		errs = append(errs, fmt.Errorf("saturation.topic_repetition_limit must be at least 1, got %d", sat.TopicRepetitionLimit))
	}
	if sat.MinDiversity < 0 || sat.MinDiversity > 1 {
		errs = append(errs, fmt.Errorf("saturation.min_diversity must be in [0,1], got %v", sat.MinDiversity))
	}
	if sat.SimilarityDownweight < 0 || sat.SimilarityDownweight > 1 {
		errs = append(errs, fmt.Errorf("saturation.similarity_downweight must be in [0,1], got %v", sat.SimilarityDownweight))
	}

	if cfg.Scoring.DecayHalfLife <= 0 {
		errs = append(errs, fmt.Errorf("scoring.decay_half_life must be positive, got %v", cfg.Scoring.DecayHalfLife))
	}
	if cfg.Scoring.DecayFloor < 0 || cfg.Scoring.DecayFloor > 1 {
		errs = append(errs, fmt.Errorf("scoring.decay_floor must be in [0,1], got %v", cfg.Scoring.DecayFloor))
	}

	return errors.Join(errs...)
}
