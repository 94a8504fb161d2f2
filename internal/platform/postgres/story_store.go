package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/phrazzld/tales-api/internal/domain"
	"github.com/phrazzld/tales-api/internal/platform/logger"
	"github.com/phrazzld/tales-api/internal/store"
)

// PostgresStoryStore implements the store.StoryStore interface
// using a PostgreSQL database as the storage backend.
type PostgresStoryStore struct {
	db     *sql.DB
	logger *slog.Logger
}

// Ensure PostgresStoryStore implements store.StoryStore interface
var _ store.StoryStore = (*PostgresStoryStore)(nil)

// NewPostgresStoryStore creates a story store on db. The schema must have
// been migrated. If logger is nil, a default logger will be used.
func NewPostgresStoryStore(db *sql.DB, logger *slog.Logger) *PostgresStoryStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresStoryStore{
		db:     db,
		logger: logger.With(slog.String("component", "story_store")),
	}
}

// Save implements store.StoryStore.Save
// The story row is upserted and its pages replaced in a single transaction.
func (s *PostgresStoryStore) Save(ctx context.Context, story *domain.Story) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := store.ValidateStory(story); err != nil {
		log.Warn("story validation failed during save", slog.String("error", err.Error()))
		return err
	}

	id := story.ID
	if id == "" {
		id = uuid.NewString()
	}

	err := store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		const upsertStory = `
			INSERT INTO stories (id, title, description, cover_image_url, created_at)
			VALUES ($1, $2, $3, $4, $5)
			ON CONFLICT (id) DO UPDATE SET
				title = EXCLUDED.title,
				description = EXCLUDED.description,
				cover_image_url = EXCLUDED.cover_image_url,
				created_at = EXCLUDED.created_at
		`
		if _, err := tx.ExecContext(ctx, upsertStory,
			id, story.Title, story.Description, story.CoverImageURL, story.CreatedAt,
		); err != nil {
			return MapError(err)
		}

		if _, err := tx.ExecContext(ctx, `DELETE FROM story_pages WHERE story_id = $1`, id); err != nil {
			return MapError(err)
		}

		const insertPage = `
			INSERT INTO story_pages (story_id, position, page_number, text, image_description, image_url)
			VALUES ($1, $2, $3, $4, $5, $6)
		`
		for position, page := range story.Pages {
			if _, err := tx.ExecContext(ctx, insertPage,
				id, position, page.PageNumber, page.Text, page.ImageDescription, page.ImageURL,
			); err != nil {
				return MapError(err)
			}
		}
		return nil
	})
	if err != nil {
		log.Error("failed to save story",
			slog.String("error", err.Error()),
			slog.String("story_id", id))
		return store.NewStoreError("story", "save", "failed to save story", err)
	}

	story.ID = id
	log.Debug("story saved", slog.String("story_id", id), slog.Int("page_count", len(story.Pages)))
	return nil
}

// GetByID implements store.StoryStore.GetByID
// Returns store.ErrStoryNotFound if the story does not exist.
func (s *PostgresStoryStore) GetByID(ctx context.Context, id string) (*domain.Story, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	const query = `
		SELECT id, title, description, cover_image_url, created_at
		FROM stories
		WHERE id = $1
	`
	story, err := scanStory(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrStoryNotFound
		}
		log.Error("failed to get story", slog.String("error", err.Error()), slog.String("story_id", id))
		return nil, store.NewStoreError("story", "get", "failed to query story", MapError(err))
	}

	pages, err := s.loadPages(ctx, s.db, []string{id})
	if err != nil {
		return nil, store.NewStoreError("story", "get", "failed to query pages", err)
	}
	if p, ok := pages[id]; ok {
		story.Pages = p
	}

	return story, nil
}

// List implements store.StoryStore.List
func (s *PostgresStoryStore) List(ctx context.Context) ([]*domain.Story, error) {
	const query = `
		SELECT id, title, description, cover_image_url, created_at
		FROM stories
		ORDER BY created_at DESC, id
	`
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, store.NewStoreError("story", "list", "failed to query stories", MapError(err))
	}
	defer func() { _ = rows.Close() }()

	stories := make([]*domain.Story, 0)
	ids := make([]string, 0)
	for rows.Next() {
		story, err := scanStory(rows)
		if err != nil {
			return nil, store.NewStoreError("story", "list", "failed to scan story", err)
		}
		stories = append(stories, story)
		ids = append(ids, story.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, store.NewStoreError("story", "list", "failed to iterate stories", err)
	}

	if len(ids) == 0 {
		return stories, nil
	}

	pages, err := s.loadPages(ctx, s.db, ids)
	if err != nil {
		return nil, store.NewStoreError("story", "list", "failed to query pages", err)
	}
	for _, story := range stories {
		if p, ok := pages[story.ID]; ok {
			story.Pages = p
		}
	}

	return stories, nil
}

// Delete implements store.StoryStore.Delete
// Pages are removed by the ON DELETE CASCADE constraint.
func (s *PostgresStoryStore) Delete(ctx context.Context, id string) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	result, err := s.db.ExecContext(ctx, `DELETE FROM stories WHERE id = $1`, id)
	if err != nil {
		log.Error("failed to delete story", slog.String("error", err.Error()), slog.String("story_id", id))
		return store.NewStoreError("story", "delete", "failed to delete story", MapError(err))
	}

	if err := CheckRowsAffected(result, store.ErrStoryNotFound); err != nil {
		return err
	}

	log.Debug("story deleted", slog.String("story_id", id))
	return nil
}

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanStory(row rowScanner) (*domain.Story, error) {
	var story domain.Story
	if err := row.Scan(&story.ID, &story.Title, &story.Description, &story.CoverImageURL, &story.CreatedAt); err != nil {
		return nil, err
	}
	story.CreatedAt = story.CreatedAt.UTC()
	story.Pages = []domain.StoryPage{}
	return &story, nil
}

// loadPages returns the pages of the given stories keyed by story ID, each
// slice in stored position order.
func (s *PostgresStoryStore) loadPages(ctx context.Context, db store.DBTX, ids []string) (map[string][]domain.StoryPage, error) {
	const query = `
		SELECT story_id, page_number, text, image_description, image_url
		FROM story_pages
		WHERE story_id = ANY($1)
		ORDER BY story_id, position
	`
	rows, err := db.QueryContext(ctx, query, ids)
	if err != nil {
		return nil, MapError(err)
	}
	defer func() { _ = rows.Close() }()

	pages := make(map[string][]domain.StoryPage, len(ids))
	for rows.Next() {
		var storyID string
		var page domain.StoryPage
		if err := rows.Scan(&storyID, &page.PageNumber, &page.Text, &page.ImageDescription, &page.ImageURL); err != nil {
			return nil, fmt.Errorf("failed to scan page: %w", err)
		}
		pages[storyID] = append(pages[storyID], page)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return pages, nil
}
