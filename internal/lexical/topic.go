package lexical

import (
	"strings"
	"unicode"
)

// Topic labels produced by the default extractor. "general" is the
// catch-all for content matching no rule.
const (
	TopicIdentity    = "identity"
	TopicSpouse      = "spouse"
	TopicParents     = "parents"
	TopicChildren    = "children"
	TopicFriends     = "friends"
	TopicWork        = "work"
	TopicHealth      = "health"
	TopicGoals       = "goals"
	TopicPreferences = "preferences"
	TopicLocation    = "location"
	TopicGeneral     = "general"
)

// topicRule maps a label to its trigger keywords. Single-word keywords
// match whole tokens only; multi-word keywords match as substrings.
type topicRule struct {
	label    string
	keywords []string
}

// defaultTopicRules are evaluated in order; the first matching rule wins.
var defaultTopicRules = []topicRule{
	{TopicIdentity, []string{"my name", "i am", "call me", "years old", "birthday", "born in"}},
	{TopicSpouse, []string{"wife", "husband", "spouse", "fiancee", "fiance", "my partner"}},
	{TopicParents, []string{"mother", "father", "mom", "dad", "parents"}},
	{TopicChildren, []string{"son", "daughter", "child", "children", "kids", "baby"}},
	{TopicFriends, []string{"friend", "friends", "roommate", "neighbor"}},
	{TopicWork, []string{"work", "job", "career", "company", "office", "colleague", "boss"}},
	{TopicHealth, []string{"doctor", "health", "medication", "allergy", "allergic", "therapy", "diagnosis", "sleep"}},
	{TopicGoals, []string{"goal", "goals", "want to", "plan to", "hope to", "dream", "ambition"}},
	{TopicPreferences, []string{"prefer", "prefers", "favorite", "favourite", "likes", "loves", "enjoys", "hates", "dislikes"}},
	{TopicLocation, []string{"live in", "lives in", "moved to", "city", "hometown", "address", "apartment"}},
}

// KeywordTopicExtractor labels content by scanning an ordered rule table.
type KeywordTopicExtractor struct {
	rules []topicRule
}

// NewKeywordTopicExtractor creates an extractor with the default rule table.
func NewKeywordTopicExtractor() *KeywordTopicExtractor {
	return &KeywordTopicExtractor{rules: defaultTopicRules}
}

// Topic returns the first matching topic label, or "general".
func (e *KeywordTopicExtractor) Topic(content string) string {
	lower := strings.ToLower(content)
	words := wordSet(lower)

	for _, rule := range e.rules {
		for _, kw := range rule.keywords {
			if strings.ContainsRune(kw, ' ') {
				if strings.Contains(lower, kw) {
					return rule.label
				}
				continue
			}
			if _, ok := words[kw]; ok {
				return rule.label
			}
		}
	}
	return TopicGeneral
}

// wordSet splits lowered text into whole words. Whole-token matching keeps
// short keywords like "son" from firing inside "person" or "season".
func wordSet(lower string) map[string]struct{} {
	fields := strings.FieldsFunc(lower, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '\''
	})
	set := make(map[string]struct{}, len(fields))
	for _, f := range fields {
		set[f] = struct{}{}
	}
	return set
}
