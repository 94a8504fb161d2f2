package story

import (
	"context"
	"fmt"
	"log/slog"
	"time"
	"unicode/utf8"

	"github.com/phrazzld/tales-api/internal/domain"
	"github.com/phrazzld/tales-api/internal/generation"
	"github.com/phrazzld/tales-api/internal/metrics"
	"github.com/phrazzld/tales-api/internal/platform/logger"
	"github.com/phrazzld/tales-api/internal/redact"
)

// failurePrefix starts every failure message produced after validation.
const failurePrefix = "story generation failed"

// maxFailureDetailBytes caps the stage error carried in a failure message.
// Upstream bodies can be large and the message reaches API clients.
const maxFailureDetailBytes = 2048

// Pipeline generates an illustrated story from a request: prompt, text
// completion, parse, illustrate.
//
// A Pipeline holds no per-call state and may serve concurrent calls.
type Pipeline struct {
	text        generation.TextCompleter
	parser      *Parser
	illustrator *Illustrator
	logger      *slog.Logger
}

// Ensure Pipeline implements generation.StoryGenerator
var _ generation.StoryGenerator = (*Pipeline)(nil)

// NewPipeline wires the pipeline stages together.
func NewPipeline(
	text generation.TextCompleter,
	parser *Parser,
	illustrator *Illustrator,
	logger *slog.Logger,
) (*Pipeline, error) {
	if text == nil {
		return nil, fmt.Errorf("%w: text completer cannot be nil", generation.ErrInvalidConfig)
	}
	if parser == nil {
		return nil, fmt.Errorf("%w: parser cannot be nil", generation.ErrInvalidConfig)
	}
	if illustrator == nil {
		return nil, fmt.Errorf("%w: illustrator cannot be nil", generation.ErrInvalidConfig)
	}
	if logger == nil {
		return nil, fmt.Errorf("%w: logger cannot be nil", generation.ErrInvalidConfig)
	}

	return &Pipeline{
		text:        text,
		parser:      parser,
		illustrator: illustrator,
		logger:      logger.With(slog.String("component", "story_pipeline")),
	}, nil
}

// GenerateStory runs the whole pipeline. It never panics and never returns
// an error value: callers get either a story or a single failure message.
//
// Text completion and parse failures fail the call. Image failures do not;
// the story is then returned without images.
func (p *Pipeline) GenerateStory(ctx context.Context, req domain.StoryRequest) (result generation.Result) {
	log := logger.FromContextOrDefault(ctx, p.logger)
	start := time.Now()

	defer func() {
		if r := recover(); r != nil {
			log.Error("story generation panicked", slog.Any("panic", r))
			result = generation.Failed(fmt.Sprintf("%s: unexpected error: %v", failurePrefix, r))
		}
		metrics.ObserveStoryGeneration(result.OK(), time.Since(start))
	}()

	if err := req.Validate(); err != nil {
		log.Debug("rejecting invalid story request", slog.String("error", err.Error()))
		return generation.Failed(fmt.Errorf("%w: %w", generation.ErrInvalidRequest, err).Error())
	}

	log.Info("generating story",
		slog.String("story_type", req.StoryType),
		slog.Int("child_age", req.Personalization.ChildAge),
		slog.Int("additional_characters", len(req.Personalization.AdditionalCharacters)))

	raw, err := p.text.CompleteText(ctx, SystemInstruction, BuildPrompt(req))
	if err != nil {
		return p.fail(log, err)
	}

	story, err := p.parser.Parse(raw)
	if err != nil {
		return p.fail(log, err)
	}

	story = p.illustrator.Illustrate(ctx, story)

	log.Info("story generated",
		slog.Int("page_count", len(story.Pages)),
		slog.Bool("illustrated", story.Illustrated()),
		slog.Duration("elapsed", time.Since(start)))

	return generation.Succeeded(story)
}

func (p *Pipeline) fail(log *slog.Logger, err error) generation.Result {
	message := redact.Error(err)
	log.Error("story generation failed",
		slog.String("error", message),
		slog.String("kind", generation.FailureKind(err)))
	return generation.Failed(failurePrefix + ": " + truncateDetail(message, maxFailureDetailBytes))
}

// truncateDetail shortens s to at most limit bytes on a rune boundary and
// marks the cut with "...".
func truncateDetail(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	cut := limit
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut] + "..."
}
