// Package selection implements the context selection and saturation
// control engine: enrichment (classification and scoring), budgeted
// admission control, and redundancy/topic desaturation over a pool of
// candidate memory facts. The engine is pure and deterministic — identical
// candidates, quality score, and configuration always produce an identical
// result, and every rejected candidate carries a typed exclusion reason.
package selection

import "time"

// Domain partitions candidates and budgets into a fixed enumeration.
type Domain string

const (
	DomainPersonal      Domain = "personal"
	DomainRelationships Domain = "relationships"
	DomainHealth        Domain = "health"
	DomainGoals         Domain = "goals"
	DomainPreferences   Domain = "preferences"
	DomainConversation  Domain = "conversation"
	DomainTasks         Domain = "tasks"
	DomainCommunity     Domain = "community"
	DomainEvents        Domain = "events"
	DomainProducts      Domain = "products"
	DomainNotes         Domain = "notes"
)

// Domains returns the full enumeration in its canonical order.
func Domains() []Domain {
	return []Domain{
		DomainPersonal,
		DomainRelationships,
		DomainHealth,
		DomainGoals,
		DomainPreferences,
		DomainConversation,
		DomainTasks,
		DomainCommunity,
		DomainEvents,
		DomainProducts,
		DomainNotes,
	}
}

// Valid reports whether d is part of the fixed enumeration.
func (d Domain) Valid() bool {
	switch d {
	case DomainPersonal, DomainRelationships, DomainHealth, DomainGoals,
		DomainPreferences, DomainConversation, DomainTasks, DomainCommunity,
		DomainEvents, DomainProducts, DomainNotes:
		return true
	}
	return false
}

// Provenance tags how a candidate entered the system upstream.
type Provenance string

const (
	ProvenanceSystem Provenance = "system"
	ProvenanceTyped  Provenance = "typed"
	ProvenanceVoice  Provenance = "voice"
)

// Candidate is a raw memory fact eligible for inclusion in the context
// window. Candidates are owned by the caller and treated as immutable for
// the duration of a selection call.
type Candidate struct {
	ID         string     `json:"id" yaml:"id"`
	Domain     Domain     `json:"domain" yaml:"domain"`
	Content    string     `json:"content" yaml:"content"`
	Importance int        `json:"importance" yaml:"importance"` // 0..100, assigned upstream
	OccurredAt time.Time  `json:"occurred_at" yaml:"occurred_at"`
	Source     Provenance `json:"source,omitempty" yaml:"source,omitempty"`
}

// Tier is the selection priority classification. Lower values sort first.
type Tier int

const (
	TierCritical Tier = iota
	TierRelevant
	TierOptional
)

// String implements fmt.Stringer.
func (t Tier) String() string {
	switch t {
	case TierCritical:
		return "critical"
	case TierRelevant:
		return "relevant"
	case TierOptional:
		return "optional"
	default:
		return "unknown"
	}
}

// MarshalText implements encoding.TextMarshaler so tiers serialize as
// their names in JSON results.
func (t Tier) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// MemoryType classifies how a candidate relates to time and habit.
type MemoryType string

const (
	MemoryRecent   MemoryType = "recent"
	MemoryLongTerm MemoryType = "long_term"
	MemoryPattern  MemoryType = "pattern"
)

// Item is a Candidate enriched with computed scores and classification.
// Items live only for the duration of one selection call. Topic and
// DiversityGain are populated by the saturation pass.
type Item struct {
	Candidate  Candidate  `json:"candidate"`
	Relevance  float64    `json:"relevance"`  // 0..100
	Confidence float64    `json:"confidence"` // 0..100
	Tier       Tier       `json:"tier"`
	MemoryType MemoryType `json:"memory_type"`
	CharCount  int        `json:"char_count"`

	// Topic is the coarse label assigned during desaturation. Empty for
	// items in identity-exempt domains, which skip topic capping.
	Topic string `json:"topic,omitempty"`

	// DiversityGain is this item's mean dissimilarity against the rest of
	// the final set. 1.0 when the final set has a single item.
	DiversityGain float64 `json:"diversity_gain,omitempty"`
}
