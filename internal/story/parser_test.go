package story

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/phrazzld/tales-api/internal/generation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedTime = time.Date(2025, time.April, 1, 12, 0, 0, 0, time.UTC)

func fixedClock() time.Time { return fixedTime }

// storyJSON renders a payload with n pages.
func storyJSON(n int) string {
	pages := make([]string, n)
	for i := range pages {
		pages[i] = fmt.Sprintf(
			`{"pageNumber": %d, "text": "Page %d text.", "imageDescription": "scene %d"}`,
			i+1, i+1, i+1,
		)
	}
	return fmt.Sprintf(
		`{"title": "The Purple Fox", "description": "Mia paints with a fox.", "pages": [%s]}`,
		strings.Join(pages, ", "),
	)
}

func TestParse_WellFormed(t *testing.T) {
	t.Parallel()

	p := NewParser(testLogger(), WithClock(fixedClock))

	story, err := p.Parse(storyJSON(5))

	require.NoError(t, err)
	assert.Empty(t, story.ID)
	assert.Equal(t, "The Purple Fox", story.Title)
	assert.Equal(t, "Mia paints with a fox.", story.Description)
	assert.Empty(t, story.CoverImageURL)
	assert.Equal(t, fixedTime, story.CreatedAt)
	require.Len(t, story.Pages, 5)
	for i, page := range story.Pages {
		assert.Equal(t, i+1, page.PageNumber)
		assert.Equal(t, fmt.Sprintf("Page %d text.", i+1), page.Text)
		assert.Equal(t, fmt.Sprintf("scene %d", i+1), page.ImageDescription)
		assert.Empty(t, page.ImageURL)
	}
}

func TestParse_Idempotent(t *testing.T) {
	t.Parallel()

	p := NewParser(testLogger())
	raw := storyJSON(6)

	first, err := p.Parse(raw)
	require.NoError(t, err)
	second, err := p.Parse(raw)
	require.NoError(t, err)

	assert.Equal(t, first.Title, second.Title)
	assert.Equal(t, first.Description, second.Description)
	assert.Equal(t, first.Pages, second.Pages)
}

func TestParse_RecoversFromSurroundingProse(t *testing.T) {
	t.Parallel()

	p := NewParser(testLogger(), WithClock(fixedClock))
	bare := storyJSON(5)

	expected, err := p.Parse(bare)
	require.NoError(t, err)

	for _, raw := range []string{
		"Here is your story:\n" + bare + "\nEnjoy!",
		"```json\n" + bare + "\n```",
		"Sure!\n\n" + bare,
	} {
		got, err := p.Parse(raw)
		require.NoError(t, err)
		assert.Equal(t, expected, got)
	}
}

func TestParse_KeepsArrayOrderAndPageNumbers(t *testing.T) {
	t.Parallel()

	raw := `{"title":"T","description":"D","pages":[
		{"pageNumber":3,"text":"third","imageDescription":"c"},
		{"pageNumber":1,"text":"first","imageDescription":"a"},
		{"pageNumber":7,"text":"seventh","imageDescription":"g"}]}`

	story, err := NewParser(testLogger()).Parse(raw)

	require.NoError(t, err)
	require.Len(t, story.Pages, 3)
	assert.Equal(t, []int{3, 1, 7}, []int{story.Pages[0].PageNumber, story.Pages[1].PageNumber, story.Pages[2].PageNumber})
	assert.Equal(t, "third", story.Pages[0].Text)
}

func TestParse_Failures(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		raw     string
		wantMsg string
	}{
		{name: "no_json", raw: "I cannot write that story.", wantMsg: "invalid JSON"},
		{name: "empty", raw: "", wantMsg: "invalid JSON"},
		{name: "truncated", raw: `Here: {"title": "T", "pages": [`, wantMsg: "invalid JSON"},
		{name: "missing_title", raw: `{"description":"D","pages":[]}`, wantMsg: `"title"`},
		{name: "missing_description", raw: `{"title":"T","pages":[]}`, wantMsg: `"description"`},
		{name: "missing_pages", raw: `{"title":"T","description":"D"}`, wantMsg: `"pages"`},
		{name: "null_pages", raw: `{"title":"T","description":"D","pages":null}`, wantMsg: `"pages"`},
		{name: "title_not_string", raw: `{"title":42,"description":"D","pages":[]}`, wantMsg: "invalid JSON"},
		{name: "pages_not_array", raw: `{"title":"T","description":"D","pages":{}}`, wantMsg: "invalid JSON"},
		{
			name:    "page_missing_text",
			raw:     `{"title":"T","description":"D","pages":[{"pageNumber":1,"imageDescription":"x"}]}`,
			wantMsg: "pages[0].text",
		},
		{
			name:    "page_missing_number",
			raw:     `{"title":"T","description":"D","pages":[{"text":"a","imageDescription":"x"}]}`,
			wantMsg: "pages[0].pageNumber",
		},
		{
			name:    "page_missing_image_description",
			raw:     `{"title":"T","description":"D","pages":[{"pageNumber":1,"text":"a"}]}`,
			wantMsg: "pages[0].imageDescription",
		},
		{
			name:    "page_number_not_integer",
			raw:     `{"title":"T","description":"D","pages":[{"pageNumber":"one","text":"a","imageDescription":"x"}]}`,
			wantMsg: "invalid JSON",
		},
		{
			name:    "page_number_fractional",
			raw:     `{"title":"T","description":"D","pages":[{"pageNumber":1.5,"text":"a","imageDescription":"x"}]}`,
			wantMsg: "invalid JSON",
		},
		{
			name:    "page_null",
			raw:     `{"title":"T","description":"D","pages":[null]}`,
			wantMsg: "not an object",
		},
		{
			name:    "page_blank_text",
			raw:     `{"title":"T","description":"D","pages":[{"pageNumber":1,"text":"  ","imageDescription":"x"}]}`,
			wantMsg: "pages[0].text is empty",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			story, err := NewParser(testLogger()).Parse(tt.raw)

			assert.Nil(t, story)
			require.Error(t, err)
			assert.ErrorIs(t, err, generation.ErrParse)
			assert.Contains(t, err.Error(), tt.wantMsg)
		})
	}
}

func TestParse_PageCountAdvisoryByDefault(t *testing.T) {
	t.Parallel()

	p := NewParser(testLogger())

	for _, n := range []int{0, 1, 4, 9} {
		story, err := p.Parse(storyJSON(n))
		require.NoError(t, err, "n=%d", n)
		assert.Len(t, story.Pages, n)
	}
}

func TestParse_PageCountStrict(t *testing.T) {
	t.Parallel()

	p := NewParser(testLogger(), WithStrictPageCount(true))

	for _, n := range []int{1, 4, 9} {
		_, err := p.Parse(storyJSON(n))
		assert.ErrorIs(t, err, generation.ErrPageCount, "n=%d", n)
		assert.ErrorIs(t, err, generation.ErrParse, "n=%d", n)
	}
	for _, n := range []int{5, 8} {
		_, err := p.Parse(storyJSON(n))
		assert.NoError(t, err, "n=%d", n)
	}
}

func TestExtractPayload(t *testing.T) {
	t.Parallel()

	tests := []struct {
		raw  string
		want string
	}{
		{raw: `{"a":1}`, want: `{"a":1}`},
		{raw: "x {\n\"a\": {\"b\": 2}\n} y", want: "{\n\"a\": {\"b\": 2}\n}"},
		{raw: "no braces", want: "no braces"},
		{raw: "} backwards {", want: "} backwards {"},
		{raw: "only { open", want: "only { open"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, ExtractPayload(tt.raw))
	}
}
