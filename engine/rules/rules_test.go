package rules

import (
	"errors"
	"testing"
)

func TestNewSetRejectsDuplicateTopic(t *testing.T) {
	_, err := NewSet(
		Rule{Topic: "oil", Default: Variant{Texts: []string{"a"}}},
		Rule{Topic: "oil", Default: Variant{Texts: []string{"b"}}},
	)
	if !errors.Is(err, ErrDuplicateTopic) {
		t.Errorf("expected ErrDuplicateTopic, got %v", err)
	}
}

func TestAddValidation(t *testing.T) {
	set, err := NewSet()
	if err != nil {
		t.Fatal(err)
	}

	if err := set.Add(Rule{Topic: "", Default: Variant{Texts: []string{"a"}}}); !errors.Is(err, ErrEmptyTopic) {
		t.Errorf("expected ErrEmptyTopic, got %v", err)
	}
	if err := set.Add(Rule{Topic: "oil"}); !errors.Is(err, ErrNoTexts) {
		t.Errorf("expected ErrNoTexts, got %v", err)
	}
	err = set.Add(Rule{
		Topic:    "oil",
		Default:  Variant{Texts: []string{"a"}},
		Specific: map[string]Variant{"Toyota": {}},
	})
	if !errors.Is(err, ErrNoTexts) {
		t.Errorf("expected ErrNoTexts for empty specific variant, got %v", err)
	}

	if err := set.Add(Rule{Topic: "oil", Default: Variant{Texts: []string{"a"}}}); err != nil {
		t.Fatalf("valid rule rejected: %v", err)
	}
	if set.Len() != 1 {
		t.Errorf("expected 1 rule, got %d", set.Len())
	}
}

func TestRulesSnapshotPreservesOrder(t *testing.T) {
	set, err := NewSet(
		Rule{Topic: "first", Default: Variant{Texts: []string{"a"}}},
		Rule{Topic: "second", Default: Variant{Texts: []string{"b"}}},
		Rule{Topic: "third", Default: Variant{Texts: []string{"c"}}},
	)
	if err != nil {
		t.Fatal(err)
	}
	rules := set.Rules()
	if len(rules) != 3 || rules[0].Topic != "first" || rules[2].Topic != "third" {
		t.Errorf("unexpected order: %+v", rules)
	}
}

func TestDefaultSetIsValid(t *testing.T) {
	set := DefaultSet()
	if set.Len() == 0 {
		t.Fatal("built-in table is empty")
	}
	for _, r := range set.Rules() {
		if len(r.Default.Texts) == 0 {
			t.Errorf("topic %q has no default texts", r.Topic)
		}
	}
}
