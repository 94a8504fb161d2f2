package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/phrazzld/tales-api/internal/config"
	"github.com/phrazzld/tales-api/internal/events"
	"github.com/phrazzld/tales-api/internal/generation"
	"github.com/phrazzld/tales-api/internal/platform/gemini"
	"github.com/phrazzld/tales-api/internal/platform/memory"
	"github.com/phrazzld/tales-api/internal/platform/mongodb"
	"github.com/phrazzld/tales-api/internal/platform/natsbus"
	"github.com/phrazzld/tales-api/internal/platform/openai"
	"github.com/phrazzld/tales-api/internal/platform/postgres"
	"github.com/phrazzld/tales-api/internal/redact"
	"github.com/phrazzld/tales-api/internal/store"
	"github.com/phrazzld/tales-api/internal/story"
)

// CleanupFunc releases a resource opened during bootstrap.
type CleanupFunc func()

func noop() {}

// NewStoryGenerator builds the full pipeline: the configured text backend,
// the parser, and the illustrator over the OpenAI-compatible image endpoint.
func NewStoryGenerator(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*story.Pipeline, error) {
	openaiClient, err := openai.NewClient(openai.ConfigFromLLM(cfg.LLM), logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create completion client: %w", err)
	}

	var text generation.TextCompleter = openaiClient
	if cfg.LLM.Provider == "gemini" {
		text, err = gemini.NewTextClient(ctx, gemini.ConfigFromLLM(cfg.LLM), logger)
		if err != nil {
			return nil, fmt.Errorf("failed to create gemini client: %w", err)
		}
	}

	parser := story.NewParser(logger, story.WithStrictPageCount(cfg.Generation.StrictPageCount))

	illustrator, err := story.NewIllustrator(openaiClient, story.IllustratorConfig{
		Concurrency:  cfg.Illustration.Concurrency,
		RateInterval: cfg.Illustration.RateInterval,
	}, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create illustrator: %w", err)
	}

	pipeline, err := story.NewPipeline(text, parser, illustrator, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create story pipeline: %w", err)
	}

	logger.Info("story pipeline initialized",
		slog.String("text_provider", cfg.LLM.Provider),
		slog.Int("illustration_concurrency", cfg.Illustration.Concurrency),
		slog.Bool("strict_page_count", cfg.Generation.StrictPageCount))

	return pipeline, nil
}

// OpenStoryStore connects to the configured story backend. The returned
// cleanup closes the connection and is never nil.
func OpenStoryStore(ctx context.Context, cfg config.StoreConfig, logger *slog.Logger) (store.StoryStore, CleanupFunc, error) {
	switch cfg.Driver {
	case "", "memory":
		logger.Info("using in-memory story store")
		return memory.NewStoryStore(logger), noop, nil

	case "postgres":
		db, err := postgres.Open(ctx, cfg.PostgresURL)
		if err != nil {
			return nil, noop, fmt.Errorf("failed to open postgres: %s", redact.Error(err))
		}
		if err := postgres.Migrate(ctx, db, logger); err != nil {
			_ = db.Close()
			return nil, noop, err
		}
		logger.Info("using postgres story store")
		return postgres.NewPostgresStoryStore(db, logger), func() {
			if err := db.Close(); err != nil {
				logger.Error("error closing database connection", slog.String("error", err.Error()))
			}
		}, nil

	case "mongo":
		client, err := mongodb.Connect(ctx, cfg.MongoURI)
		if err != nil {
			return nil, noop, fmt.Errorf("failed to open mongodb: %s", redact.Error(err))
		}
		s := mongodb.NewStoryStore(client.Database(cfg.MongoDatabase), logger)
		if err := s.EnsureIndexes(ctx); err != nil {
			_ = client.Disconnect(context.Background())
			return nil, noop, err
		}
		logger.Info("using mongodb story store", slog.String("database", cfg.MongoDatabase))
		return s, func() {
			if err := client.Disconnect(context.Background()); err != nil {
				logger.Error("error disconnecting from mongodb", slog.String("error", err.Error()))
			}
		}, nil

	default:
		return nil, noop, fmt.Errorf("unknown store driver %q", cfg.Driver)
	}
}

// NewEventEmitter creates the in-process emitter and, when a NATS URL is
// configured, registers a publisher forwarding every event to NATS.
func NewEventEmitter(cfg config.EventsConfig, logger *slog.Logger) (*events.InMemoryEventEmitter, CleanupFunc, error) {
	emitter := events.NewInMemoryEventEmitter(logger)
	if cfg.NATSURL == "" {
		return emitter, noop, nil
	}

	nc, err := natsbus.Connect(cfg.NATSURL, logger)
	if err != nil {
		return nil, noop, fmt.Errorf("failed to set up event publishing: %s", redact.Error(err))
	}
	publisher, err := natsbus.NewPublisher(nc, cfg.Subject, logger)
	if err != nil {
		nc.Close()
		return nil, noop, err
	}
	emitter.RegisterHandler(publisher)

	logger.Info("publishing story events to NATS", slog.String("subject", cfg.Subject))
	return emitter, func() {
		if err := nc.Drain(); err != nil {
			logger.Warn("error draining NATS connection", slog.String("error", err.Error()))
		}
	}, nil
}
