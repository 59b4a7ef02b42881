package rules

import (
	"math/rand"
	"strings"

	"github.com/WessleyAI/garage-mvp/engine/domain"
	"github.com/WessleyAI/garage-mvp/pkg/metrics"
)

// RegisterPrompt is returned when no vehicle context is available.
const RegisterPrompt = "Please register a vehicle first so I can give you advice specific to your car."

// FallbackText is returned when no rule matches the input.
const FallbackText = "I'm not sure I understood that. Could you describe the symptom differently? For example: \"my brakes squeal when stopping\"."

// vehicleToken is the template token substituted with the vehicle label.
const vehicleToken = "{vehicle}"

// Response is a rendered assistant reply. Media fields are only
// populated for premium-tier callers; the gating happens here, not in
// any display layer.
type Response struct {
	Text     string `json:"text"`
	ImageURL string `json:"image_url,omitempty"`
	Parts    []Part `json:"parts,omitempty"`
	Matched  bool   `json:"matched"`
	Topic    string `json:"topic,omitempty"`
}

// Resolver resolves free-text symptoms against a rule set. It is a pure
// function of (input, vehicle, tier, rule table, random source) and
// never returns an error: absence of a match is a valid terminal
// outcome.
type Resolver struct {
	set  *Set
	pick func(n int) int

	matched  *metrics.Counter
	fallback *metrics.Counter
	prompted *metrics.Counter
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithPick injects the random source used to choose among text options.
// pick(n) must return a value in [0, n). Used by tests for determinism.
func WithPick(pick func(n int) int) Option {
	return func(r *Resolver) { r.pick = pick }
}

// WithMetrics wires resolution outcome counters into the registry.
func WithMetrics(reg *metrics.Registry) Option {
	return func(r *Resolver) {
		r.matched = reg.Counter(metrics.WithLabels("rules_resolve_total", "outcome", "matched"), "Resolutions by outcome")
		r.fallback = reg.Counter(metrics.WithLabels("rules_resolve_total", "outcome", "fallback"), "")
		r.prompted = reg.Counter(metrics.WithLabels("rules_resolve_total", "outcome", "no_vehicle"), "")
	}
}

// NewResolver creates a Resolver over the given rule set.
func NewResolver(set *Set, opts ...Option) *Resolver {
	r := &Resolver{set: set, pick: rand.Intn}
	for _, o := range opts {
		o(r)
	}
	return r
}

// Resolve matches input against the rule table and renders a reply for
// the given vehicle and tier. A nil vehicle short-circuits to the
// registration prompt; no rule lookup occurs.
func (r *Resolver) Resolve(input string, vehicle *domain.Vehicle, premium bool) Response {
	if vehicle == nil {
		inc(r.prompted)
		return Response{Text: RegisterPrompt}
	}

	normalized := strings.ToLower(input)
	for _, rule := range r.set.Rules() {
		if !strings.Contains(normalized, rule.Topic) {
			continue
		}

		variant := rule.Default
		if v, ok := rule.Specific[vehicle.Make]; ok {
			variant = v
		}

		text := variant.Texts[r.pick(len(variant.Texts))]
		text = strings.ReplaceAll(text, vehicleToken, vehicle.Label())

		resp := Response{Text: text, Matched: true, Topic: rule.Topic}
		if premium {
			resp.ImageURL = variant.ImageURL
			resp.Parts = variant.Parts
		}
		inc(r.matched)
		return resp
	}

	inc(r.fallback)
	return Response{Text: FallbackText}
}

func inc(c *metrics.Counter) {
	if c != nil {
		c.Inc()
	}
}
