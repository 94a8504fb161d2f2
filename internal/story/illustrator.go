package story

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/phrazzld/tales-api/internal/domain"
	"github.com/phrazzld/tales-api/internal/generation"
	"github.com/phrazzld/tales-api/internal/metrics"
	"github.com/phrazzld/tales-api/internal/platform/logger"
	"github.com/phrazzld/tales-api/internal/redact"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"
)

// IllustratorConfig bounds the page image fan-out.
type IllustratorConfig struct {
	// Concurrency is the maximum number of page images requested at once.
	// 1 requests pages strictly one after another.
	Concurrency int
	// RateInterval spaces out page requests. Zero disables pacing.
	RateInterval time.Duration
}

// Illustrator resolves a story's cover and page images.
type Illustrator struct {
	images       generation.ImageCompleter
	concurrency  int
	rateInterval time.Duration
	logger       *slog.Logger
}

// NewIllustrator creates an Illustrator backed by images.
func NewIllustrator(images generation.ImageCompleter, cfg IllustratorConfig, logger *slog.Logger) (*Illustrator, error) {
	if images == nil {
		return nil, fmt.Errorf("%w: image completer cannot be nil", generation.ErrInvalidConfig)
	}
	if logger == nil {
		return nil, fmt.Errorf("%w: logger cannot be nil", generation.ErrInvalidConfig)
	}
	if cfg.Concurrency < 1 {
		cfg.Concurrency = 1
	}

	return &Illustrator{
		images:       images,
		concurrency:  cfg.Concurrency,
		rateInterval: cfg.RateInterval,
		logger:       logger.With(slog.String("component", "story_illustrator")),
	}, nil
}

// CoverDescription builds the cover image brief from the story's title and description.
func CoverDescription(story *domain.Story) string {
	return fmt.Sprintf("Cover illustration for a children's story titled '%s'. %s", story.Title, story.Description)
}

// Illustrate returns a copy of story with the cover and every page image
// resolved. If any image request fails, the failure is logged and story is
// returned unchanged, without any of the images that did succeed.
// The input story is never modified.
func (i *Illustrator) Illustrate(ctx context.Context, story *domain.Story) *domain.Story {
	if story == nil {
		return nil
	}

	log := logger.FromContextOrDefault(ctx, i.logger)
	start := time.Now()

	illustrated, err := i.illustrate(ctx, story)
	if err != nil {
		metrics.IllustrationDegradedTotal.Inc()
		log.Warn("illustration failed, returning story without images",
			slog.String("error", redact.Error(err)),
			slog.String("kind", generation.FailureKind(err)),
			slog.String("title", story.Title),
			slog.Int("page_count", len(story.Pages)))
		return story
	}

	log.Info("story illustrated",
		slog.Int("page_count", len(illustrated.Pages)),
		slog.Duration("elapsed", time.Since(start)))
	return illustrated
}

// pageJob ties an image request to the slot of the page it belongs to.
type pageJob struct {
	slot        int
	pageNumber  int
	description string
}

func (i *Illustrator) illustrate(ctx context.Context, story *domain.Story) (*domain.Story, error) {
	out := story.Clone()

	cover, err := i.images.CompleteImage(ctx, CoverDescription(story))
	if err != nil {
		return nil, fmt.Errorf("cover image: %w", err)
	}
	out.CoverImageURL = cover

	jobs := make([]pageJob, len(out.Pages))
	for slot, page := range out.Pages {
		jobs[slot] = pageJob{slot: slot, pageNumber: page.PageNumber, description: page.ImageDescription}
	}
	sort.SliceStable(jobs, func(a, b int) bool {
		return jobs[a].pageNumber < jobs[b].pageNumber
	})

	var limiter *rate.Limiter
	if i.rateInterval > 0 {
		limiter = rate.NewLimiter(rate.Every(i.rateInterval), 1)
	}

	urls := make([]string, len(out.Pages))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(i.concurrency)

	var dispatchErr error
	for _, job := range jobs {
		if limiter != nil {
			if err := limiter.Wait(gctx); err != nil {
				dispatchErr = err
				break
			}
		}

		job := job
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			url, err := i.images.CompleteImage(gctx, job.description)
			if err != nil {
				return fmt.Errorf("page %d image: %w", job.pageNumber, err)
			}
			urls[job.slot] = url
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	if dispatchErr != nil {
		return nil, fmt.Errorf("dispatch page images: %w", dispatchErr)
	}

	for slot, url := range urls {
		if url == "" {
			return nil, errors.New("page image missing after fan-out")
		}
		out.Pages[slot].ImageURL = url
	}

	return out, nil
}
