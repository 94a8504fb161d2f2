package mongodb

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/tales-api/internal/domain"
	"github.com/phrazzld/tales-api/internal/platform/logger"
	"github.com/phrazzld/tales-api/internal/store"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// CollectionName is the collection stories are written to.
const CollectionName = "stories"

type pageDocument struct {
	PageNumber       int    `bson:"pageNumber"`
	Text             string `bson:"text"`
	ImageDescription string `bson:"imageDescription"`
	ImageURL         string `bson:"imageUrl"`
}

type storyDocument struct {
	ID            string         `bson:"_id"`
	Title         string         `bson:"title"`
	Description   string         `bson:"description"`
	CoverImageURL string         `bson:"coverImageUrl"`
	Pages         []pageDocument `bson:"pages"`
	CreatedAt     time.Time      `bson:"createdAt"`
}

func toDocument(id string, story *domain.Story) storyDocument {
	pages := make([]pageDocument, len(story.Pages))
	for i, p := range story.Pages {
		pages[i] = pageDocument{
			PageNumber:       p.PageNumber,
			Text:             p.Text,
			ImageDescription: p.ImageDescription,
			ImageURL:         p.ImageURL,
		}
	}
	return storyDocument{
		ID:            id,
		Title:         story.Title,
		Description:   story.Description,
		CoverImageURL: story.CoverImageURL,
		Pages:         pages,
		CreatedAt:     story.CreatedAt.UTC(),
	}
}

func (d storyDocument) toStory() *domain.Story {
	pages := make([]domain.StoryPage, len(d.Pages))
	for i, p := range d.Pages {
		pages[i] = domain.StoryPage{
			PageNumber:       p.PageNumber,
			Text:             p.Text,
			ImageDescription: p.ImageDescription,
			ImageURL:         p.ImageURL,
		}
	}
	return &domain.Story{
		ID:            d.ID,
		Title:         d.Title,
		Description:   d.Description,
		CoverImageURL: d.CoverImageURL,
		Pages:         pages,
		CreatedAt:     d.CreatedAt.UTC(),
	}
}

// StoryStore implements store.StoryStore on a MongoDB collection.
type StoryStore struct {
	coll   *mongo.Collection
	logger *slog.Logger
}

var _ store.StoryStore = (*StoryStore)(nil)

// Connect opens a client for uri and verifies it with a ping.
func Connect(ctx context.Context, uri string) (*mongo.Client, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongodb: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("failed to ping mongodb: %w", err)
	}
	return client, nil
}

// NewStoryStore returns a store backed by the stories collection of db.
// If logger is nil, a default logger will be used.
func NewStoryStore(db *mongo.Database, logger *slog.Logger) *StoryStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &StoryStore{
		coll:   db.Collection(CollectionName),
		logger: logger.With(slog.String("component", "story_store")),
	}
}

// EnsureIndexes creates the createdAt index that List sorts on.
func (s *StoryStore) EnsureIndexes(ctx context.Context) error {
	_, err := s.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "createdAt", Value: -1}},
		Options: options.Index().SetName("createdAt_desc"),
	})
	if err != nil {
		return fmt.Errorf("failed to create story indexes: %w", err)
	}
	return nil
}

// Save implements store.StoryStore.Save
func (s *StoryStore) Save(ctx context.Context, story *domain.Story) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := store.ValidateStory(story); err != nil {
		log.Warn("story validation failed during save", slog.String("error", err.Error()))
		return err
	}

	id := story.ID
	if id == "" {
		id = uuid.NewString()
	}

	_, err := s.coll.ReplaceOne(ctx,
		bson.M{"_id": id},
		toDocument(id, story),
		options.Replace().SetUpsert(true),
	)
	if err != nil {
		log.Error("failed to save story", slog.String("error", err.Error()), slog.String("story_id", id))
		return store.NewStoreError("story", "save", "failed to save story", err)
	}

	story.ID = id
	log.Debug("story saved", slog.String("story_id", id), slog.Int("page_count", len(story.Pages)))
	return nil
}

// GetByID implements store.StoryStore.GetByID
func (s *StoryStore) GetByID(ctx context.Context, id string) (*domain.Story, error) {
	var doc storyDocument
	err := s.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, store.ErrStoryNotFound
		}
		return nil, store.NewStoreError("story", "get", "failed to find story", err)
	}
	return doc.toStory(), nil
}

// List implements store.StoryStore.List
func (s *StoryStore) List(ctx context.Context) ([]*domain.Story, error) {
	opts := options.Find().SetSort(bson.D{
		{Key: "createdAt", Value: -1},
		{Key: "_id", Value: 1},
	})

	cursor, err := s.coll.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, store.NewStoreError("story", "list", "failed to find stories", err)
	}
	defer func() { _ = cursor.Close(ctx) }()

	var docs []storyDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, store.NewStoreError("story", "list", "failed to decode stories", err)
	}

	stories := make([]*domain.Story, 0, len(docs))
	for _, doc := range docs {
		stories = append(stories, doc.toStory())
	}
	return stories, nil
}

// Delete implements store.StoryStore.Delete
func (s *StoryStore) Delete(ctx context.Context, id string) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	result, err := s.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		log.Error("failed to delete story", slog.String("error", err.Error()), slog.String("story_id", id))
		return store.NewStoreError("story", "delete", "failed to delete story", err)
	}
	if result.DeletedCount == 0 {
		return store.ErrStoryNotFound
	}

	log.Debug("story deleted", slog.String("story_id", id))
	return nil
}
