package lexical_test

import (
	"testing"

	"github.com/exafyltd/vitana-context/internal/lexical"
)

var _ lexical.TopicExtractor = (*lexical.KeywordTopicExtractor)(nil)

func TestKeywordTopicExtractor_Topic(t *testing.T) {
	t.Parallel()

	e := lexical.NewKeywordTopicExtractor()

	tests := []struct {
		name    string
		content string
		want    string
	}{
		{name: "identity_name", content: "My name is Ada", want: lexical.TopicIdentity},
		{name: "identity_age", content: "She is 34 years old", want: lexical.TopicIdentity},
		{name: "spouse", content: "Her husband travels a lot", want: lexical.TopicSpouse},
		{name: "parents", content: "Visits her mother on Sundays", want: lexical.TopicParents},
		{name: "children", content: "Has a son in primary school", want: lexical.TopicChildren},
		{name: "children_word_boundary", content: "A very organized person overall", want: lexical.TopicGeneral},
		{name: "friends", content: "Plays chess with a friend on Fridays", want: lexical.TopicFriends},
		{name: "work", content: "Started a new job at a startup", want: lexical.TopicWork},
		{name: "health", content: "Allergic to shellfish", want: lexical.TopicHealth},
		{name: "goals", content: "Her goal is to run a marathon next spring", want: lexical.TopicGoals},
		{name: "preferences", content: "Prefers window seats on flights", want: lexical.TopicPreferences},
		{name: "location", content: "Recently moved to Lisbon", want: lexical.TopicLocation},
		{name: "general", content: "The meeting went fine", want: lexical.TopicGeneral},
		{name: "empty", content: "", want: lexical.TopicGeneral},
		{name: "case_insensitive", content: "ALLERGIC TO CATS", want: lexical.TopicHealth},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := e.Topic(tt.content); got != tt.want {
				t.Errorf("Topic(%q) = %q, want %q", tt.content, got, tt.want)
			}
		})
	}
}

// Rule order is part of the contract: identity outranks preferences even
// when both match.
func TestKeywordTopicExtractor_FirstMatchWins(t *testing.T) {
	t.Parallel()

	e := lexical.NewKeywordTopicExtractor()
	got := e.Topic("My name is Ada and I prefer tea")
	if got != lexical.TopicIdentity {
		t.Errorf("Topic = %q, want %q (identity rule is checked first)", got, lexical.TopicIdentity)
	}
}
