// Package main implements the garage assistant API server.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/nats-io/nats.go"
	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"golang.org/x/time/rate"

	"github.com/WessleyAI/garage-mvp/engine/assist"
	"github.com/WessleyAI/garage-mvp/engine/domain"
	"github.com/WessleyAI/garage-mvp/engine/registry"
	"github.com/WessleyAI/garage-mvp/engine/remind"
	"github.com/WessleyAI/garage-mvp/engine/rules"
	"github.com/WessleyAI/garage-mvp/engine/semantic"
	"github.com/WessleyAI/garage-mvp/engine/tasks"
	"github.com/WessleyAI/garage-mvp/pkg/metrics"
	"github.com/WessleyAI/garage-mvp/pkg/mid"
	"github.com/WessleyAI/garage-mvp/pkg/natsutil"
	"github.com/WessleyAI/garage-mvp/pkg/ollama"
)

// NATS subjects for task lifecycle events and fired reminders.
const (
	subjectTaskEvents = "garage.tasks.events"
	subjectReminders  = "garage.reminders.fired"
)

// Config holds all environment-based configuration, prefixed GARAGE_.
// Backends with an empty URL are disabled and the server degrades to
// its in-process equivalents.
type Config struct {
	Port       string  `envconfig:"PORT" default:"8080"`
	UserID     string  `envconfig:"USER_ID" default:"local"`
	Tier       string  `envconfig:"TIER" default:"free"`
	DBPath     string  `envconfig:"DB_PATH" default:"garage.db"`
	Neo4jURL   string  `envconfig:"NEO4J_URL" default:""`
	Neo4jUser  string  `envconfig:"NEO4J_USER" default:"neo4j"`
	Neo4jPass  string  `envconfig:"NEO4J_PASS" default:"password"`
	QdrantURL  string  `envconfig:"QDRANT_URL" default:""`
	Collection string  `envconfig:"QDRANT_COLLECTION" default:"garage_kb"`
	EmbedDims  int     `envconfig:"EMBED_DIMS" default:"768"`
	OllamaURL  string  `envconfig:"OLLAMA_URL" default:""`
	EmbedModel string  `envconfig:"EMBED_MODEL" default:"nomic-embed-text"`
	NATSURL    string  `envconfig:"NATS_URL" default:""`
	CORSOrigin string  `envconfig:"CORS_ORIGIN" default:"*"`
	RateRPS    float64 `envconfig:"RATE_RPS" default:"10"`
	RateBurst  int     `envconfig:"RATE_BURST" default:"20"`
}

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	var cfg Config
	if err := envconfig.Process("garage", &cfg); err != nil {
		logger.Error("config", "err", err)
		os.Exit(1)
	}

	if err := run(cfg, logger); err != nil {
		logger.Error("server exited with error", "err", err)
		os.Exit(1)
	}
}

func run(cfg Config, logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	tier := domain.Tier(cfg.Tier)
	reg := metrics.New()

	// --- Vehicle registry, Neo4j-backed when configured ---
	var vehicleStore registry.Store
	if cfg.Neo4jURL != "" {
		driver, err := neo4j.NewDriverWithContext(cfg.Neo4jURL, neo4j.BasicAuth(cfg.Neo4jUser, cfg.Neo4jPass, ""))
		if err != nil {
			return fmt.Errorf("neo4j driver: %w", err)
		}
		defer driver.Close(ctx)
		vehicleStore = registry.NewGraphStore(driver)
	}
	vehicles := registry.New(cfg.UserID, tier, vehicleStore)
	if err := vehicles.Load(ctx); err != nil {
		logger.Warn("vehicle load failed, starting empty", "err", err)
	}

	// --- Task store with SQLite persistence ---
	taskStore := tasks.NewStore()
	sqliteStore, err := tasks.OpenSQLite(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("open task db: %w", err)
	}
	defer sqliteStore.Close()

	loaded, err := sqliteStore.LoadTasks(ctx)
	if err != nil {
		return fmt.Errorf("load tasks: %w", err)
	}
	taskStore.Load(loaded)
	tasks.AttachPersister(taskStore, sqliteStore, logger)

	if len(loaded) == 0 {
		for _, d := range tasks.SeedDrafts(time.Now()) {
			if _, err := taskStore.Create(d); err != nil {
				logger.Warn("seed task rejected", "title", d.Title, "err", err)
			}
		}
	}

	// --- NATS event fan-out ---
	var nc *nats.Conn
	if cfg.NATSURL != "" {
		nc, err = natsutil.Connect(ctx, cfg.NATSURL, "garage-api")
		if err != nil {
			return err
		}
		defer nc.Close()
		publishTaskEvents(taskStore, nc, logger)
	}

	// --- Reminder scheduler ---
	reminders := remind.New(&natsPlatform{nc: nc}, logger, remind.WithMetrics(reg))
	if _, err := reminders.RequestPermission(ctx); err != nil {
		logger.Warn("notification permission check failed", "err", err)
	}

	// --- Chat pipeline: rules plus optional knowledge base ---
	resolver := rules.NewResolver(rules.DefaultSet(), rules.WithMetrics(reg))

	var (
		embedder assist.Embedder
		searcher assist.Searcher
	)
	if cfg.QdrantURL != "" && cfg.OllamaURL != "" {
		vectorStore, err := semantic.New(cfg.QdrantURL, cfg.Collection)
		if err != nil {
			return fmt.Errorf("qdrant connect: %w", err)
		}
		defer vectorStore.Close()

		embed := ollama.NewEmbedClient(cfg.OllamaURL, cfg.EmbedModel)
		if err := seedKnowledge(ctx, vectorStore, embed, cfg.EmbedDims, logger); err != nil {
			logger.Warn("knowledge base seed failed, continuing without", "err", err)
		} else {
			embedder = embed
			searcher = vectorStore
		}
	}
	chat := assist.New(resolver, embedder, searcher, assist.DefaultOptions(), logger)

	// --- HTTP server ---
	srv := newServer(chat, vehicles, taskStore, reminders, tier, logger)
	mux := srv.routes()
	mux.Handle("GET /metrics", reg.Handler())

	handler := mid.Chain(mux,
		mid.Recover(logger),
		mid.Logger(logger),
		mid.Metrics(reg),
		mid.CORS(cfg.CORSOrigin),
		mid.RateLimit(rate.Limit(cfg.RateRPS), cfg.RateBurst, 1024),
		mid.OTel("garage-api"),
	)

	httpSrv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("api server starting", "port", cfg.Port, "tier", tier)
		errCh <- httpSrv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && err != http.ErrServerClosed {
			return err
		}
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	}

	shutCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return httpSrv.Shutdown(shutCtx)
}

// seedKnowledge embeds the built-in articles and upserts them into the
// vector store. Idempotent: upserts overwrite by article id.
func seedKnowledge(ctx context.Context, store *semantic.VectorStore, embed *ollama.EmbedClient, dims int, logger *slog.Logger) error {
	if err := store.EnsureCollection(ctx, dims); err != nil {
		return err
	}
	articles := assist.DefaultArticles()
	records := make([]semantic.ArticleRecord, 0, len(articles))
	for _, a := range articles {
		vec, err := embed.Embed(ctx, a.Title+"\n"+a.Content)
		if err != nil {
			return fmt.Errorf("embed article %s: %w", a.ID, err)
		}
		records = append(records, semantic.ArticleRecord{Article: a, Embedding: vec})
	}
	if err := store.Upsert(ctx, records); err != nil {
		return err
	}
	logger.Info("knowledge base seeded", "articles", len(records))
	return nil
}

// taskEventMsg is the NATS payload for task lifecycle events.
type taskEventMsg struct {
	Kind string                 `json:"kind"`
	Task domain.MaintenanceTask `json:"task"`
}

// publishTaskEvents mirrors store events onto the NATS bus.
func publishTaskEvents(store *tasks.Store, nc *nats.Conn, logger *slog.Logger) {
	store.Subscribe(func(ev tasks.Event) {
		if ev.Kind == tasks.EventLoaded {
			return
		}
		msg := taskEventMsg{Kind: string(ev.Kind), Task: ev.Task}
		if err := natsutil.Publish(context.Background(), nc, subjectTaskEvents, msg); err != nil {
			logger.Warn("task event publish failed", "kind", ev.Kind, "err", err)
		}
	})
}

// natsPlatform delivers reminder alerts over NATS. Without a broker
// connection, permission is denied and reminders skip cleanly.
type natsPlatform struct {
	nc *nats.Conn
}

func (p *natsPlatform) RequestPermission(context.Context) (bool, error) {
	return p.nc != nil, nil
}

func (p *natsPlatform) Deliver(ctx context.Context, a remind.Alert) error {
	return natsutil.Publish(ctx, p.nc, subjectReminders, a)
}
