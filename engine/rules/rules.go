// Package rules implements the vehicle-aware diagnostic response engine:
// a keyword-triggered rule table that turns free-text symptoms into
// vehicle-specific guidance. Matching is first-match-wins in table order;
// that is a documented policy tradeoff, not a bug.
package rules

import (
	"errors"
	"fmt"
	"sync"
)

// Sentinel errors for rule-set configuration failures.
var (
	ErrDuplicateTopic = errors.New("rules: duplicate topic keyword")
	ErrEmptyTopic     = errors.New("rules: empty topic keyword")
	ErrNoTexts        = errors.New("rules: variant has no text options")
)

// Part describes a replacement part suggested alongside a response.
type Part struct {
	Name          string  `json:"name"`
	Description   string  `json:"description,omitempty"`
	ImageURL      string  `json:"image_url,omitempty"`
	EstimatedCost float64 `json:"estimated_cost,omitempty"`
}

// Variant is the default or make-specific text/media bundle within a
// rule. Texts must be non-empty; one entry is picked at random per
// resolution. The literal token {vehicle} in a text is replaced with the
// current vehicle's "YEAR MAKE MODEL" label.
type Variant struct {
	Texts    []string `json:"texts"`
	Parts    []Part   `json:"parts,omitempty"`
	ImageURL string   `json:"image_url,omitempty"`
}

// Rule is a keyword-triggered template entry. Topic is matched as a
// lowercase substring of the user input. Specific maps canonical make
// names to make-specific variants consulted before Default.
type Rule struct {
	Topic    string             `json:"topic"`
	Default  Variant            `json:"default"`
	Specific map[string]Variant `json:"specific,omitempty"`
}

func validateRule(r Rule) error {
	if r.Topic == "" {
		return ErrEmptyTopic
	}
	if len(r.Default.Texts) == 0 {
		return fmt.Errorf("%w: topic %q default", ErrNoTexts, r.Topic)
	}
	for make_, v := range r.Specific {
		if len(v.Texts) == 0 {
			return fmt.Errorf("%w: topic %q make %q", ErrNoTexts, r.Topic, make_)
		}
	}
	return nil
}

// Set is an explicit, process-wide rule configuration store. Rules keep
// their insertion order; topic keywords are unique across the set. The
// zero value is not usable, construct with NewSet.
type Set struct {
	mu     sync.RWMutex
	rules  []Rule
	topics map[string]bool
}

// NewSet builds a Set from the given rules, validating uniqueness and
// text presence.
func NewSet(rules ...Rule) (*Set, error) {
	s := &Set{topics: make(map[string]bool, len(rules))}
	for _, r := range rules {
		if err := s.Add(r); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// Add appends a rule to the set. It fails if the topic keyword is
// already present or the rule is malformed.
func (s *Set) Add(r Rule) error {
	if err := validateRule(r); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.topics[r.Topic] {
		return fmt.Errorf("%w: %q", ErrDuplicateTopic, r.Topic)
	}
	s.topics[r.Topic] = true
	s.rules = append(s.rules, r)
	return nil
}

// Rules returns a snapshot of the rule table in match order.
func (s *Set) Rules() []Rule {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Rule, len(s.rules))
	copy(out, s.rules)
	return out
}

// Len reports the number of rules in the set.
func (s *Set) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.rules)
}
