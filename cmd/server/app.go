package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/phrazzld/tales-api/internal/app"
	"github.com/phrazzld/tales-api/internal/config"
	"github.com/phrazzld/tales-api/internal/events"
	"github.com/phrazzld/tales-api/internal/generation"
	"github.com/phrazzld/tales-api/internal/service"
	"github.com/phrazzld/tales-api/internal/store"
)

// application holds all the shared application dependencies to simplify management
// and ensure proper cleanup on shutdown.
type application struct {
	config *config.Config
	logger *slog.Logger

	generator    generation.StoryGenerator
	storyStore   store.StoryStore
	eventEmitter events.EventEmitter
	storyService service.StoryService

	cleanups []app.CleanupFunc
}

// newApplication creates a new application instance with all dependencies initialized.
// Resources opened before a failure are released before returning.
func newApplication(ctx context.Context, cfg *config.Config, logger *slog.Logger) (_ *application, err error) {
	a := &application{
		config: cfg,
		logger: logger,
	}
	defer func() {
		if err != nil {
			a.cleanup()
		}
	}()

	a.generator, err = app.NewStoryGenerator(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}

	var closeStore app.CleanupFunc
	a.storyStore, closeStore, err = app.OpenStoryStore(ctx, cfg.Store, logger)
	a.cleanups = append(a.cleanups, closeStore)
	if err != nil {
		return nil, fmt.Errorf("failed to open story store: %w", err)
	}

	emitter, closeEvents, err := app.NewEventEmitter(cfg.Events, logger)
	a.cleanups = append(a.cleanups, closeEvents)
	if err != nil {
		return nil, err
	}
	a.eventEmitter = emitter

	a.storyService, err = service.NewStoryService(a.generator, a.storyStore, a.eventEmitter, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create story service: %w", err)
	}

	return a, nil
}

// cleanup handles graceful shutdown of application resources, in reverse
// order of acquisition.
func (a *application) cleanup() {
	for i := len(a.cleanups) - 1; i >= 0; i-- {
		if a.cleanups[i] != nil {
			a.cleanups[i]()
		}
	}
	a.cleanups = nil
	a.logger.Info("application shutdown completed")
}
