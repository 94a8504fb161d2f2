package story

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/phrazzld/tales-api/internal/domain"
	"github.com/phrazzld/tales-api/internal/generation"
)

// Parser turns raw completion text into a domain.Story.
type Parser struct {
	now             func() time.Time
	strictPageCount bool
	logger          *slog.Logger
}

// ParserOption customizes a Parser.
type ParserOption func(*Parser)

// WithClock sets the source of the story creation timestamp.
func WithClock(now func() time.Time) ParserOption {
	return func(p *Parser) {
		p.now = now
	}
}

// WithStrictPageCount rejects stories whose page count falls outside
// generation.MinPages..generation.MaxPages. By default such stories are
// accepted and a warning is logged.
func WithStrictPageCount(strict bool) ParserOption {
	return func(p *Parser) {
		p.strictPageCount = strict
	}
}

// NewParser creates a Parser. A nil logger falls back to slog.Default().
func NewParser(logger *slog.Logger, opts ...ParserOption) *Parser {
	if logger == nil {
		logger = slog.Default()
	}

	p := &Parser{
		now:    time.Now,
		logger: logger.With(slog.String("component", "story_parser")),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// rawStory mirrors the requested payload. Pointer fields distinguish a
// missing key from a zero value.
type rawStory struct {
	Title       *string     `json:"title"`
	Description *string     `json:"description"`
	Pages       *[]*rawPage `json:"pages"`
}

type rawPage struct {
	PageNumber       *int    `json:"pageNumber"`
	Text             *string `json:"text"`
	ImageDescription *string `json:"imageDescription"`
}

// ExtractPayload returns the span from the first '{' to the last '}' in raw,
// or raw itself when no such span exists.
func ExtractPayload(raw string) string {
	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start < 0 || end < start {
		return raw
	}
	return raw[start : end+1]
}

// Parse extracts a story from raw. Every returned error wraps generation.ErrParse.
//
// The story has an empty ID and no image URLs; pages keep the order in which
// they appear in the payload.
func (p *Parser) Parse(raw string) (*domain.Story, error) {
	candidate := ExtractPayload(raw)

	var payload rawStory
	if err := json.Unmarshal([]byte(candidate), &payload); err != nil {
		return nil, fmt.Errorf("%w: invalid JSON: %v", generation.ErrParse, err)
	}

	if payload.Title == nil {
		return nil, missingField("title")
	}
	if payload.Description == nil {
		return nil, missingField("description")
	}
	if payload.Pages == nil {
		return nil, missingField("pages")
	}

	pages := make([]domain.StoryPage, 0, len(*payload.Pages))
	for i, rp := range *payload.Pages {
		page, err := convertPage(i, rp)
		if err != nil {
			return nil, err
		}
		pages = append(pages, page)
	}

	if err := p.checkPageCount(len(pages)); err != nil {
		return nil, err
	}

	return &domain.Story{
		Title:       *payload.Title,
		Description: *payload.Description,
		Pages:       pages,
		CreatedAt:   p.now().UTC(),
	}, nil
}

func convertPage(index int, rp *rawPage) (domain.StoryPage, error) {
	if rp == nil {
		return domain.StoryPage{}, fmt.Errorf("%w: page at index %d is not an object", generation.ErrParse, index)
	}

	switch {
	case rp.PageNumber == nil:
		return domain.StoryPage{}, missingField(fmt.Sprintf("pages[%d].pageNumber", index))
	case rp.Text == nil:
		return domain.StoryPage{}, missingField(fmt.Sprintf("pages[%d].text", index))
	case rp.ImageDescription == nil:
		return domain.StoryPage{}, missingField(fmt.Sprintf("pages[%d].imageDescription", index))
	}

	if strings.TrimSpace(*rp.Text) == "" {
		return domain.StoryPage{}, fmt.Errorf("%w: pages[%d].text is empty", generation.ErrParse, index)
	}

	return domain.StoryPage{
		PageNumber:       *rp.PageNumber,
		Text:             *rp.Text,
		ImageDescription: *rp.ImageDescription,
	}, nil
}

func (p *Parser) checkPageCount(n int) error {
	if n >= generation.MinPages && n <= generation.MaxPages {
		return nil
	}

	if p.strictPageCount {
		return fmt.Errorf("%w: got %d pages, want %d-%d",
			generation.ErrPageCount, n, generation.MinPages, generation.MaxPages)
	}

	p.logger.Warn("story page count outside requested range",
		slog.Int("page_count", n),
		slog.Int("min_pages", generation.MinPages),
		slog.Int("max_pages", generation.MaxPages))
	return nil
}

func missingField(name string) error {
	return fmt.Errorf("%w: missing required field %q", generation.ErrParse, name)
}
