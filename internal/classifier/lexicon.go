package classifier

import (
	"encoding/json"
	"fmt"
	"os"
)

// Lexicon holds the three disjoint phrase lists driving classification.
// Each maps a phrase to a weight; weight defaults to 1 and is kept for
// operator tuning even though the current verdicts are boolean.
type Lexicon struct {
	Negative    map[string]int `json:"negative"`
	Urgency     map[string]int `json:"urgency"`
	Criticality map[string]int `json:"criticality"`
}

// DefaultLexicon returns the built-in phrase lists. Operators replace them
// wholesale via a lexicon file rather than editing code.
func DefaultLexicon() Lexicon {
	return Lexicon{
		Negative: map[string]int{
			"angry":        1,
			"complaint":    1,
			"disappointed": 1,
			"down":         1,
			"escalate":     1,
			"fail":         1,
			"failure":      1,
			"frustrated":   1,
			"not working":  1,
			"outage":       1,
			"unacceptable": 1,
		},
		Urgency: map[string]int{
			"asap":        1,
			"critical":    1,
			"immediate":   1,
			"immediately": 1,
			"severely":    1,
			"urgent":      1,
		},
		Criticality: map[string]int{
			"completely down": 1,
			"data loss":       1,
			"outage":          1,
			"production":      1,
			"security":        1,
			"severity 1":      1,
			"system down":     1,
		},
	}
}

// LoadLexicon reads a lexicon JSON file. Missing lists fall back to the
// defaults so a partial override stays usable.
func LoadLexicon(path string) (Lexicon, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Lexicon{}, fmt.Errorf("read lexicon: %w", err)
	}

	var lex Lexicon
	if err := json.Unmarshal(data, &lex); err != nil {
		return Lexicon{}, fmt.Errorf("parse lexicon: %w", err)
	}

	defaults := DefaultLexicon()
	if len(lex.Negative) == 0 {
		lex.Negative = defaults.Negative
	}
	if len(lex.Urgency) == 0 {
		lex.Urgency = defaults.Urgency
	}
	if len(lex.Criticality) == 0 {
		lex.Criticality = defaults.Criticality
	}
	return lex, nil
}
