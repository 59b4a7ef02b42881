package rules

import (
	"strings"
	"testing"

	"github.com/WessleyAI/garage-mvp/engine/domain"
)

func testSet(t *testing.T) *Set {
	t.Helper()
	set, err := NewSet(
		Rule{
			Topic: "oil",
			Default: Variant{
				Texts:    []string{"Check the oil level on your {vehicle}.", "Your {vehicle} is likely due for an oil change."},
				ImageURL: "https://img.example/oil.png",
				Parts:    []Part{{Name: "Oil filter", EstimatedCost: 12}},
			},
			Specific: map[string]Variant{
				"Toyota": {Texts: []string{"Toyota recommends 0W-16 for the {vehicle}."}},
			},
		},
		Rule{
			Topic:   "brake",
			Default: Variant{Texts: []string{"Have the brakes on your {vehicle} inspected."}},
		},
	)
	if err != nil {
		t.Fatal(err)
	}
	return set
}

func firstPick(int) int { return 0 }

func corolla() *domain.Vehicle {
	return &domain.Vehicle{Make: "Toyota", Model: "Corolla", Year: 2020}
}

func TestResolveNilVehiclePrompts(t *testing.T) {
	r := NewResolver(testSet(t))
	resp := r.Resolve("oil is low", nil, true)
	if resp.Matched {
		t.Error("expected no match without a vehicle")
	}
	if resp.Text != RegisterPrompt {
		t.Errorf("expected register prompt, got %q", resp.Text)
	}
}

func TestResolveNoMatchFallsBack(t *testing.T) {
	r := NewResolver(testSet(t))
	resp := r.Resolve("the sunroof rattles", corolla(), false)
	if resp.Matched {
		t.Error("expected no match")
	}
	if resp.Text != FallbackText {
		t.Errorf("expected fallback, got %q", resp.Text)
	}
}

func TestResolveCaseInsensitiveSubstring(t *testing.T) {
	r := NewResolver(testSet(t), WithPick(firstPick))
	for _, input := range []string{"OIL warning light", "need an OiL change", "check oil"} {
		resp := r.Resolve(input, corolla(), false)
		if !resp.Matched || resp.Topic != "oil" {
			t.Errorf("input %q: expected oil match, got %+v", input, resp)
		}
	}
}

func TestResolveFirstMatchWins(t *testing.T) {
	r := NewResolver(testSet(t), WithPick(firstPick))
	// Mentions both topics; the earlier table entry wins.
	resp := r.Resolve("oil on my brake pads", corolla(), false)
	if resp.Topic != "oil" {
		t.Errorf("expected first rule to win, got topic %q", resp.Topic)
	}
}

func TestResolveMakeSpecificVariant(t *testing.T) {
	r := NewResolver(testSet(t), WithPick(firstPick))

	resp := r.Resolve("oil change due?", corolla(), false)
	want := "Toyota recommends 0W-16 for the 2020 Toyota Corolla."
	if resp.Text != want {
		t.Errorf("expected make-specific text, got %q", resp.Text)
	}

	honda := &domain.Vehicle{Make: "Honda", Model: "Civic", Year: 2019}
	resp = r.Resolve("oil change due?", honda, false)
	if !strings.Contains(resp.Text, "2019 Honda Civic") {
		t.Errorf("expected default variant with label substituted, got %q", resp.Text)
	}
}

func TestResolveVehicleTokenSubstitution(t *testing.T) {
	r := NewResolver(testSet(t), WithPick(firstPick))
	resp := r.Resolve("brake squeal", corolla(), false)
	if strings.Contains(resp.Text, "{vehicle}") {
		t.Errorf("token not substituted: %q", resp.Text)
	}
	if !strings.Contains(resp.Text, "2020 Toyota Corolla") {
		t.Errorf("expected vehicle label in %q", resp.Text)
	}
}

func TestResolvePremiumGatesMedia(t *testing.T) {
	r := NewResolver(testSet(t), WithPick(firstPick))
	honda := &domain.Vehicle{Make: "Honda", Model: "Civic", Year: 2019}

	free := r.Resolve("oil leak", honda, false)
	if free.ImageURL != "" || free.Parts != nil {
		t.Errorf("free tier must get no media, got %+v", free)
	}

	premium := r.Resolve("oil leak", honda, true)
	if premium.ImageURL == "" || len(premium.Parts) == 0 {
		t.Errorf("premium tier missing media, got %+v", premium)
	}
	if premium.Text != free.Text {
		t.Error("tier must not change the advice text")
	}
}

func TestResolvePickSelectsText(t *testing.T) {
	r := NewResolver(testSet(t), WithPick(func(n int) int { return n - 1 }))
	honda := &domain.Vehicle{Make: "Honda", Model: "Civic", Year: 2019}
	resp := r.Resolve("oil", honda, false)
	if !strings.Contains(resp.Text, "due for an oil change") {
		t.Errorf("expected last text option, got %q", resp.Text)
	}
}

func TestDefaultSetResolves(t *testing.T) {
	r := NewResolver(DefaultSet(), WithPick(firstPick))
	cases := []string{
		"my oil light is on",
		"brakes grind when stopping",
		"battery died overnight",
		"check engine light came on",
		"the engine is overheating",
		"transmission slips between gears",
		"tire pressure warning",
		"car won't start",
		"weird noise from the front",
		"ac blows warm air",
	}
	for _, input := range cases {
		resp := r.Resolve(input, corolla(), false)
		if !resp.Matched {
			t.Errorf("expected built-in table to match %q", input)
		}
	}
}
