package classifier

import (
	"sort"
	"strings"

	"github.com/spec-kit/escalation-service/internal/domain"
)

// Result is the classifier verdict for one piece of issue text.
type Result struct {
	Sentiment    domain.Sentiment
	Urgency      domain.Urgency
	Criticality  domain.Criticality
	Trigger      bool
	MatchedTerms []string
}

// TriggerPolicy is the configurable escalation formula. The default fires on
// either a negative sentiment or a high urgency verdict.
type TriggerPolicy struct {
	OnNegativeSentiment bool
	OnHighUrgency       bool
}

// DefaultTriggerPolicy returns the shipped formula.
func DefaultTriggerPolicy() TriggerPolicy {
	return TriggerPolicy{OnNegativeSentiment: true, OnHighUrgency: true}
}

// Classifier derives sentiment, urgency, criticality and the escalation
// trigger from free text. It is deterministic, total and side-effect free.
type Classifier struct {
	negative    []string
	urgency     []string
	criticality []string
	policy      TriggerPolicy
}

// Option configures the classifier.
type Option func(*Classifier)

// WithTriggerPolicy overrides the escalation formula.
func WithTriggerPolicy(policy TriggerPolicy) Option {
	return func(c *Classifier) {
		c.policy = policy
	}
}

// New builds a classifier from the given lexicon. Phrase lists are ordered
// so repeated calls report matched terms identically.
func New(lex Lexicon, opts ...Option) *Classifier {
	c := &Classifier{
		negative:    orderedPhrases(lex.Negative),
		urgency:     orderedPhrases(lex.Urgency),
		criticality: orderedPhrases(lex.Criticality),
		policy:      DefaultTriggerPolicy(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Classify scans the text against the three phrase lists. Empty or
// whitespace-only input yields the safe default verdict, never an error.
func (c *Classifier) Classify(text string) Result {
	result := Result{
		Sentiment:    domain.SentimentNeutral,
		Urgency:      domain.UrgencyLow,
		Criticality:  domain.CriticalityLow,
		MatchedTerms: []string{},
	}

	normalized := normalize(text)
	if normalized == "" {
		return result
	}

	negativeHits := scan(normalized, c.negative)
	urgencyHits := scan(normalized, c.urgency)
	criticalityHits := scan(normalized, c.criticality)

	if len(negativeHits) > 0 {
		result.Sentiment = domain.SentimentNegative
	}
	if len(urgencyHits) > 0 || result.Sentiment == domain.SentimentNegative {
		result.Urgency = domain.UrgencyHigh
	}
	if len(criticalityHits) > 0 {
		result.Criticality = domain.CriticalityHigh
	}

	if c.policy.OnNegativeSentiment && result.Sentiment == domain.SentimentNegative {
		result.Trigger = true
	}
	if c.policy.OnHighUrgency && result.Urgency == domain.UrgencyHigh {
		result.Trigger = true
	}

	result.MatchedTerms = union(negativeHits, urgencyHits, criticalityHits)
	return result
}

func normalize(text string) string {
	return strings.Join(strings.Fields(strings.ToLower(text)), " ")
}

func scan(normalized string, phrases []string) []string {
	var hits []string
	for _, phrase := range phrases {
		if strings.Contains(normalized, phrase) {
			hits = append(hits, phrase)
		}
	}
	return hits
}

func orderedPhrases(list map[string]int) []string {
	phrases := make([]string, 0, len(list))
	for phrase := range list {
		normalized := normalize(phrase)
		if normalized == "" {
			continue
		}
		phrases = append(phrases, normalized)
	}
	sort.Strings(phrases)
	return phrases
}

func union(lists ...[]string) []string {
	seen := map[string]struct{}{}
	merged := []string{}
	for _, list := range lists {
		for _, phrase := range list {
			if _, ok := seen[phrase]; ok {
				continue
			}
			seen[phrase] = struct{}{}
			merged = append(merged, phrase)
		}
	}
	sort.Strings(merged)
	return merged
}
