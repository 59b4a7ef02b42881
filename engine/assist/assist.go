// Package assist orchestrates the mechanic-chat reply pipeline. The
// rule table is consulted first; unmatched queries fall through to a
// semantic search over the knowledge base; the fixed fallback text is
// the terminal answer. The assistant always replies; knowledge-base
// failures degrade to the fallback instead of surfacing errors.
package assist

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/WessleyAI/garage-mvp/engine/domain"
	"github.com/WessleyAI/garage-mvp/engine/rules"
	"github.com/WessleyAI/garage-mvp/engine/semantic"
)

// Embedder turns text into an embedding vector.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// Searcher abstracts the knowledge-base vector search.
type Searcher interface {
	Search(ctx context.Context, embedding []float32, topK int) ([]semantic.SearchResult, error)
}

// Options configures the reply pipeline.
type Options struct {
	TopK          int
	MinScore      float32
	SearchTimeout time.Duration
	UseKnowledge  bool
}

// DefaultOptions returns sensible defaults.
func DefaultOptions() Options {
	return Options{
		TopK:          3,
		MinScore:      0.55,
		SearchTimeout: 5 * time.Second,
		UseKnowledge:  true,
	}
}

// ReplySource identifies which stage produced the reply text.
type ReplySource string

const (
	SourceRules     ReplySource = "rules"
	SourceKnowledge ReplySource = "knowledge_base"
	SourceFallback  ReplySource = "fallback"
	SourceNoVehicle ReplySource = "no_vehicle"
)

// Reply is the assistant's answer to one chat message.
type Reply struct {
	Text     string                  `json:"text"`
	ImageURL string                  `json:"image_url,omitempty"`
	Parts    []rules.Part            `json:"parts,omitempty"`
	Source   ReplySource             `json:"source"`
	Articles []semantic.SearchResult `json:"articles,omitempty"`
}

// Service is the chat reply orchestrator.
type Service struct {
	resolver *rules.Resolver
	embed    Embedder
	search   Searcher
	opts     Options
	logger   *slog.Logger
}

// New creates an assist Service. embed and search may be nil, which
// disables the knowledge-base stage.
func New(resolver *rules.Resolver, embed Embedder, search Searcher, opts Options, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		resolver: resolver,
		embed:    embed,
		search:   search,
		opts:     opts,
		logger:   logger,
	}
}

// Respond produces a reply for the given input and vehicle context.
func (s *Service) Respond(ctx context.Context, input string, vehicle *domain.Vehicle, tier domain.Tier) Reply {
	resp := s.resolver.Resolve(input, vehicle, tier.Premium())

	if vehicle == nil {
		return Reply{Text: resp.Text, Source: SourceNoVehicle}
	}
	if resp.Matched {
		return Reply{
			Text:     resp.Text,
			ImageURL: resp.ImageURL,
			Parts:    resp.Parts,
			Source:   SourceRules,
		}
	}

	if s.opts.UseKnowledge && s.embed != nil && s.search != nil {
		if reply, ok := s.consultKnowledge(ctx, input); ok {
			return reply
		}
	}

	return Reply{Text: resp.Text, Source: SourceFallback}
}

// ErrKnowledgeDisabled is returned by Search when no knowledge-base
// backends are configured.
var ErrKnowledgeDisabled = errors.New("assist: knowledge base disabled")

// Search runs a direct knowledge-base query, bypassing the rule table.
func (s *Service) Search(ctx context.Context, query string) ([]semantic.SearchResult, error) {
	if s.embed == nil || s.search == nil {
		return nil, ErrKnowledgeDisabled
	}
	embedding, err := s.embed.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("assist: embed query: %w", err)
	}
	searchCtx, cancel := context.WithTimeout(ctx, s.opts.SearchTimeout)
	defer cancel()
	return s.search.Search(searchCtx, embedding, s.opts.TopK)
}

// consultKnowledge runs the semantic fallback; failures are logged and
// skipped so the chat stays responsive.
func (s *Service) consultKnowledge(ctx context.Context, input string) (Reply, bool) {
	embedding, err := s.embed.Embed(ctx, input)
	if err != nil {
		s.logger.Warn("assist: embed failed, continuing without knowledge base", "err", err)
		return Reply{}, false
	}

	searchCtx, cancel := context.WithTimeout(ctx, s.opts.SearchTimeout)
	defer cancel()

	results, err := s.search.Search(searchCtx, embedding, s.opts.TopK)
	if err != nil {
		s.logger.Warn("assist: knowledge search failed, continuing without", "err", err)
		return Reply{}, false
	}
	if len(results) == 0 || results[0].Score < s.opts.MinScore {
		return Reply{}, false
	}

	top := results[0]
	text := fmt.Sprintf("%s: %s", top.Title, top.Content)
	return Reply{Text: text, Source: SourceKnowledge, Articles: results}, true
}
