package selection

import "time"

// ExclusionReason enumerates every way a candidate can be rejected.
// Rejection is the engine doing its job, never an error.
type ExclusionReason string

const (
	ReasonDomainCap       ExclusionReason = "domain_cap_exceeded"
	ReasonTotalCap        ExclusionReason = "total_cap_exceeded"
	ReasonBelowRelevance  ExclusionReason = "below_relevance_threshold"
	ReasonBelowConfidence ExclusionReason = "below_confidence_threshold"
	ReasonRedundant       ExclusionReason = "redundant_content"
	ReasonTopicSaturation ExclusionReason = "topic_saturation"
	ReasonCharLimit       ExclusionReason = "char_limit_exceeded"
	ReasonSensitiveDomain ExclusionReason = "sensitive_domain_protection"
)

// Exclusion scopes for char_limit_exceeded.
const (
	ScopeDomain = "domain"
	ScopeGlobal = "global"
)

// Exclusion records why a candidate was rejected, with enough detail that
// no truncation is ever silent.
type Exclusion struct {
	ID     string          `json:"id"`
	Domain Domain          `json:"domain"`
	Reason ExclusionReason `json:"reason"`
	Detail string          `json:"detail"`

	// Scope distinguishes domain-level from global char_limit_exceeded.
	Scope string `json:"scope,omitempty"`

	// Relevance and Confidence carry the scores that triggered a
	// threshold rejection.
	Relevance  *float64 `json:"relevance,omitempty"`
	Confidence *float64 `json:"confidence,omitempty"`

	// SimilarTo is the id of the already-admitted item this candidate
	// duplicates (redundant_content only).
	SimilarTo string `json:"similar_to,omitempty"`

	// Similarity is the overlap score against SimilarTo.
	Similarity float64 `json:"similarity,omitempty"`
}

// Request is the inbound contract for one selection call. Turn, user, and
// tenant ids are used only for the debug log, never for selection logic.
type Request struct {
	Candidates []Candidate `json:"candidates"`
	Quality    int         `json:"quality"` // 0..100, owned by the upstream quality subsystem
	TurnID     string      `json:"turn_id,omitempty"`
	UserID     string      `json:"user_id,omitempty"`
	TenantID   string      `json:"tenant_id,omitempty"`
}

// Result is the outcome of one selection call.
type Result struct {
	Included []Item      `json:"included"`
	Excluded []Exclusion `json:"excluded"`
	Metrics  Metrics     `json:"metrics"`

	SelectedAt time.Time `json:"selected_at"`

	// Deterministic is always true: the engine guarantees identical output
	// for identical input and configuration.
	Deterministic bool `json:"deterministic"`
}

// DomainStats aggregates per-domain admission accounting.
type DomainStats struct {
	Items           int     `json:"items"`
	Chars           int     `json:"chars"`
	MaxItems        int     `json:"max_items"`
	MaxChars        int     `json:"max_chars"`
	ItemUtilization float64 `json:"item_utilization"`
	CharUtilization float64 `json:"char_utilization"`
	Excluded        int     `json:"excluded"`
}

// Metrics summarizes a whole selection for observability. Everything here
// is derived from the admission and saturation outputs; Duration is the
// only field allowed to vary between otherwise identical runs.
type Metrics struct {
	Domains map[Domain]DomainStats `json:"domains"`

	TotalItems int `json:"total_items"`
	TotalChars int `json:"total_chars"`

	AvgRelevance  float64 `json:"avg_relevance"`
	AvgConfidence float64 `json:"avg_confidence"`

	// Diversity is the mean pairwise dissimilarity of the final set.
	Diversity float64 `json:"diversity"`

	// BelowMinDiversity flags a final set whose diversity fell under the
	// configured minimum. Informational; nothing is re-selected.
	BelowMinDiversity bool `json:"below_min_diversity,omitempty"`

	ExcludedTotal int                     `json:"excluded_total"`
	Exclusions    map[ExclusionReason]int `json:"exclusions"`

	Duration time.Duration `json:"duration_ns"`
}
