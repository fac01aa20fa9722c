package classifier

import (
	"reflect"
	"testing"

	"github.com/spec-kit/escalation-service/internal/domain"
)

func TestClassifyEmptyInput(t *testing.T) {
	c := New(DefaultLexicon())

	for _, text := range []string{"", "   ", "\t\n  "} {
		got := c.Classify(text)

		if got.Sentiment != domain.SentimentNeutral {
			t.Errorf("Classify(%q).Sentiment = %q, want %q", text, got.Sentiment, domain.SentimentNeutral)
		}
		if got.Urgency != domain.UrgencyLow {
			t.Errorf("Classify(%q).Urgency = %q, want %q", text, got.Urgency, domain.UrgencyLow)
		}
		if got.Criticality != domain.CriticalityLow {
			t.Errorf("Classify(%q).Criticality = %q, want %q", text, got.Criticality, domain.CriticalityLow)
		}
		if got.Trigger {
			t.Errorf("Classify(%q).Trigger = true, want false", text)
		}
		if len(got.MatchedTerms) != 0 {
			t.Errorf("Classify(%q).MatchedTerms = %v, want empty", text, got.MatchedTerms)
		}
	}
}

func TestClassifyVerdicts(t *testing.T) {
	c := New(DefaultLexicon())

	tests := []struct {
		name            string
		text            string
		wantSentiment   domain.Sentiment
		wantUrgency     domain.Urgency
		wantCriticality domain.Criticality
		wantTrigger     bool
	}{
		{
			name:            "outage report triggers",
			text:            "System is completely down, URGENT, need immediate fix",
			wantSentiment:   domain.SentimentNegative,
			wantUrgency:     domain.UrgencyHigh,
			wantCriticality: domain.CriticalityHigh,
			wantTrigger:     true,
		},
		{
			name:            "thank-you note does not trigger",
			text:            "Thanks for the quick resolution",
			wantSentiment:   domain.SentimentNeutral,
			wantUrgency:     domain.UrgencyLow,
			wantCriticality: domain.CriticalityLow,
			wantTrigger:     false,
		},
		{
			name:            "urgency term alone raises urgency and trigger",
			text:            "please respond asap",
			wantSentiment:   domain.SentimentNeutral,
			wantUrgency:     domain.UrgencyHigh,
			wantCriticality: domain.CriticalityLow,
			wantTrigger:     true,
		},
		{
			name:            "negative sentiment alone raises urgency",
			text:            "this is unacceptable service",
			wantSentiment:   domain.SentimentNegative,
			wantUrgency:     domain.UrgencyHigh,
			wantCriticality: domain.CriticalityLow,
			wantTrigger:     true,
		},
		{
			name:            "criticality term alone does not trigger",
			text:            "scheduled security review notes",
			wantSentiment:   domain.SentimentNeutral,
			wantUrgency:     domain.UrgencyLow,
			wantCriticality: domain.CriticalityHigh,
			wantTrigger:     false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := c.Classify(tt.text)

			if got.Sentiment != tt.wantSentiment {
				t.Errorf("Sentiment = %q, want %q", got.Sentiment, tt.wantSentiment)
			}
			if got.Urgency != tt.wantUrgency {
				t.Errorf("Urgency = %q, want %q", got.Urgency, tt.wantUrgency)
			}
			if got.Criticality != tt.wantCriticality {
				t.Errorf("Criticality = %q, want %q", got.Criticality, tt.wantCriticality)
			}
			if got.Trigger != tt.wantTrigger {
				t.Errorf("Trigger = %v, want %v", got.Trigger, tt.wantTrigger)
			}
		})
	}
}

func TestClassifyDeterministic(t *testing.T) {
	c := New(DefaultLexicon())
	text := "URGENT outage, production completely down"

	first := c.Classify(text)
	for i := 0; i < 10; i++ {
		if got := c.Classify(text); !reflect.DeepEqual(got, first) {
			t.Fatalf("Classify run %d = %+v, want %+v", i, got, first)
		}
	}
}

func TestClassifyMatchedTerms(t *testing.T) {
	c := New(Lexicon{
		Negative:    map[string]int{"down": 1},
		Urgency:     map[string]int{"urgent": 1},
		Criticality: map[string]int{"down": 1},
	})

	got := c.Classify("server DOWN, urgent")
	want := []string{"down", "urgent"}
	if !reflect.DeepEqual(got.MatchedTerms, want) {
		t.Errorf("MatchedTerms = %v, want %v", got.MatchedTerms, want)
	}
}

func TestClassifyTriggerPolicy(t *testing.T) {
	c := New(DefaultLexicon(), WithTriggerPolicy(TriggerPolicy{OnNegativeSentiment: true}))

	if got := c.Classify("respond asap"); got.Trigger {
		t.Errorf("Trigger = true for urgency-only text with urgency disabled in policy")
	}
	if got := c.Classify("this is a failure"); !got.Trigger {
		t.Errorf("Trigger = false for negative text, want true")
	}
}

func TestClassifyCaseAndWhitespaceInsensitive(t *testing.T) {
	c := New(DefaultLexicon())

	a := c.Classify("SYSTEM   DOWN,\turgent")
	b := c.Classify("system down, urgent")
	if !reflect.DeepEqual(a, b) {
		t.Errorf("case/whitespace variants classified differently: %+v vs %+v", a, b)
	}
}
