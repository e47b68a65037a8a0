// Package render turns a selection result into an LLM-ready prompt
// section: items grouped by domain, one line per item with a
// relative-time label and truncated content.
package render

import (
	"fmt"
	"strings"
	"time"

	"github.com/exafyltd/vitana-context/internal/selection"
)

// DefaultMaxContentLen is the per-line content cap before truncation.
const DefaultMaxContentLen = 150

// Renderer formats selection results into prompt text.
type Renderer struct {
	// MaxContentLen caps item content per line; longer content is cut
	// at a rune boundary and marked with an ellipsis. Zero means
	// DefaultMaxContentLen.
	MaxContentLen int

	// Now supplies the reference time for relative labels. Nil means
	// time.Now.
	Now func() time.Time
}

// headings in render order. Domains absent from a result are skipped.
var domainHeadings = []struct {
	domain  selection.Domain
	heading string
}{
	{selection.DomainPersonal, "About the user"},
	{selection.DomainRelationships, "Relationships"},
	{selection.DomainHealth, "Health"},
	{selection.DomainGoals, "Goals"},
	{selection.DomainPreferences, "Preferences"},
	{selection.DomainTasks, "Tasks"},
	{selection.DomainCommunity, "Community"},
	{selection.DomainEvents, "Events"},
	{selection.DomainProducts, "Products"},
	{selection.DomainNotes, "Notes"},
	{selection.DomainConversation, "Recent conversation"},
}

// Render formats the included items of a result as a prompt block.
// Returns an empty string when nothing was included.
func (r *Renderer) Render(res *selection.Result) string {
	if res == nil || len(res.Included) == 0 {
		return ""
	}

	maxLen := r.MaxContentLen
	if maxLen <= 0 {
		maxLen = DefaultMaxContentLen
	}
	now := time.Now()
	if r.Now != nil {
		now = r.Now()
	}

	byDomain := make(map[selection.Domain][]selection.Item, len(res.Included))
	for _, it := range res.Included {
		byDomain[it.Candidate.Domain] = append(byDomain[it.Candidate.Domain], it)
	}

	var b strings.Builder
	b.WriteString("## Relevant Context\n")
	for _, dh := range domainHeadings {
		items := byDomain[dh.domain]
		if len(items) == 0 {
			continue
		}
		b.WriteString("\n### ")
		b.WriteString(dh.heading)
		b.WriteString("\n")
		for _, it := range items {
			b.WriteString("- ")
			b.WriteString(truncate(it.Candidate.Content, maxLen))
			b.WriteString(" (")
			b.WriteString(relativeAge(now, it.Candidate.OccurredAt))
			b.WriteString(")\n")
		}
	}
	return b.String()
}

// truncate cuts s to max runes, appending an ellipsis when it cut.
func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max]) + "…"
}

// relativeAge renders the age of a timestamp as a coarse human label.
// Future timestamps render as "just now".
func relativeAge(now, at time.Time) string {
	age := now.Sub(at)
	switch {
	case age < time.Minute:
		return "just now"
	case age < time.Hour:
		return fmt.Sprintf("%dm ago", int(age.Minutes()))
	case age < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(age.Hours()))
	case age < 7*24*time.Hour:
		return plural(int(age.Hours()/24), "day")
	case age < 30*24*time.Hour:
		return plural(int(age.Hours()/(24*7)), "week")
	case age < 365*24*time.Hour:
		return plural(int(age.Hours()/(24*30)), "month")
	default:
		return plural(int(age.Hours()/(24*365)), "year")
	}
}

func plural(n int, unit string) string {
	if n <= 1 {
		return fmt.Sprintf("1 %s ago", unit)
	}
	return fmt.Sprintf("%d %ss ago", n, unit)
}
