package assist

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/WessleyAI/garage-mvp/engine/domain"
	"github.com/WessleyAI/garage-mvp/engine/rules"
	"github.com/WessleyAI/garage-mvp/engine/semantic"
)

type fakeEmbedder struct {
	err   error
	calls int
}

func (f *fakeEmbedder) Embed(context.Context, string) ([]float32, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return []float32{0.1, 0.2, 0.3}, nil
}

type fakeSearcher struct {
	results []semantic.SearchResult
	err     error
}

func (f *fakeSearcher) Search(context.Context, []float32, int) ([]semantic.SearchResult, error) {
	return f.results, f.err
}

func testResolver(t *testing.T) *rules.Resolver {
	t.Helper()
	set, err := rules.NewSet(rules.Rule{
		Topic:   "oil",
		Default: rules.Variant{Texts: []string{"Check the oil on your {vehicle}."}},
	})
	if err != nil {
		t.Fatal(err)
	}
	return rules.NewResolver(set, rules.WithPick(func(int) int { return 0 }))
}

func corolla() *domain.Vehicle {
	return &domain.Vehicle{Make: "Toyota", Model: "Corolla", Year: 2020}
}

func kbResult(score float32) semantic.SearchResult {
	return semantic.SearchResult{
		ID:      "kb-1",
		Score:   score,
		Title:   "Chasing a random misfire",
		Content: "Start with plugs and coils.",
		System:  "engine",
	}
}

func TestRespondNilVehicle(t *testing.T) {
	svc := New(testResolver(t), nil, nil, DefaultOptions(), nil)
	reply := svc.Respond(context.Background(), "oil light on", nil, domain.TierFree)
	if reply.Source != SourceNoVehicle {
		t.Errorf("expected no-vehicle source, got %q", reply.Source)
	}
	if reply.Text != rules.RegisterPrompt {
		t.Errorf("expected register prompt, got %q", reply.Text)
	}
}

func TestRespondRulesMatch(t *testing.T) {
	embed := &fakeEmbedder{}
	search := &fakeSearcher{results: []semantic.SearchResult{kbResult(0.99)}}
	svc := New(testResolver(t), embed, search, DefaultOptions(), nil)

	reply := svc.Respond(context.Background(), "oil light on", corolla(), domain.TierFree)
	if reply.Source != SourceRules {
		t.Errorf("expected rules source, got %q", reply.Source)
	}
	if !strings.Contains(reply.Text, "2020 Toyota Corolla") {
		t.Errorf("expected rendered rule text, got %q", reply.Text)
	}
	if embed.calls != 0 {
		t.Error("rule match must not consult the knowledge base")
	}
}

func TestRespondKnowledgeFallback(t *testing.T) {
	search := &fakeSearcher{results: []semantic.SearchResult{kbResult(0.9)}}
	svc := New(testResolver(t), &fakeEmbedder{}, search, DefaultOptions(), nil)

	reply := svc.Respond(context.Background(), "random misfire under load", corolla(), domain.TierFree)
	if reply.Source != SourceKnowledge {
		t.Errorf("expected knowledge source, got %q", reply.Source)
	}
	if !strings.Contains(reply.Text, "misfire") {
		t.Errorf("expected article text, got %q", reply.Text)
	}
	if len(reply.Articles) != 1 {
		t.Errorf("expected articles attached, got %d", len(reply.Articles))
	}
}

func TestRespondLowScoreFallsThrough(t *testing.T) {
	search := &fakeSearcher{results: []semantic.SearchResult{kbResult(0.2)}}
	svc := New(testResolver(t), &fakeEmbedder{}, search, DefaultOptions(), nil)

	reply := svc.Respond(context.Background(), "something unrelated", corolla(), domain.TierFree)
	if reply.Source != SourceFallback {
		t.Errorf("expected fallback below score threshold, got %q", reply.Source)
	}
	if reply.Text != rules.FallbackText {
		t.Errorf("expected fallback text, got %q", reply.Text)
	}
}

func TestRespondKnowledgeErrorsDegrade(t *testing.T) {
	cases := []struct {
		name   string
		embed  *fakeEmbedder
		search *fakeSearcher
	}{
		{"embed failure", &fakeEmbedder{err: errors.New("down")}, &fakeSearcher{}},
		{"search failure", &fakeEmbedder{}, &fakeSearcher{err: errors.New("down")}},
		{"no results", &fakeEmbedder{}, &fakeSearcher{}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			svc := New(testResolver(t), tc.embed, tc.search, DefaultOptions(), nil)
			reply := svc.Respond(context.Background(), "mystery symptom", corolla(), domain.TierFree)
			if reply.Source != SourceFallback {
				t.Errorf("expected fallback, got %q", reply.Source)
			}
		})
	}
}

func TestRespondWithoutKnowledgeStage(t *testing.T) {
	svc := New(testResolver(t), nil, nil, DefaultOptions(), nil)
	reply := svc.Respond(context.Background(), "mystery symptom", corolla(), domain.TierFree)
	if reply.Source != SourceFallback {
		t.Errorf("expected fallback, got %q", reply.Source)
	}
}

func TestSearchDirect(t *testing.T) {
	search := &fakeSearcher{results: []semantic.SearchResult{kbResult(0.9)}}
	svc := New(testResolver(t), &fakeEmbedder{}, search, DefaultOptions(), nil)

	results, err := svc.Search(context.Background(), "misfire")
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 1 || results[0].ID != "kb-1" {
		t.Errorf("unexpected results: %+v", results)
	}
}

func TestSearchDisabled(t *testing.T) {
	svc := New(testResolver(t), nil, nil, DefaultOptions(), nil)
	_, err := svc.Search(context.Background(), "misfire")
	if !errors.Is(err, ErrKnowledgeDisabled) {
		t.Errorf("expected ErrKnowledgeDisabled, got %v", err)
	}
}

func TestDefaultArticlesWellFormed(t *testing.T) {
	seen := make(map[string]bool)
	for _, a := range DefaultArticles() {
		if a.ID == "" || a.Title == "" || a.Content == "" || a.System == "" {
			t.Errorf("incomplete article: %+v", a)
		}
		if seen[a.ID] {
			t.Errorf("duplicate article id %q", a.ID)
		}
		seen[a.ID] = true
	}
}
