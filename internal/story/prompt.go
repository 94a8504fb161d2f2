package story

import (
	"fmt"
	"strings"

	"github.com/phrazzld/tales-api/internal/domain"
	"github.com/phrazzld/tales-api/internal/generation"
)

// SystemInstruction is sent as the system message of every text completion.
const SystemInstruction = "You are a children's story author. You write stories suited to the " +
	"reader's age, using simple language and positive themes."

// responseSchema is the JSON shape the text model is asked to return.
const responseSchema = `{
  "title": "Story title",
  "description": "Short description of the story",
  "pages": [
    {
      "pageNumber": 1,
      "text": "Text of page 1",
      "imageDescription": "Detailed description of the illustration for page 1"
    }
  ]
}`

// BuildPrompt renders the user instruction for a story request.
// Every personalization field is interpolated even when empty; the
// additional-characters sentence appears only when there are characters.
func BuildPrompt(req domain.StoryRequest) string {
	p := req.Personalization

	var b strings.Builder
	fmt.Fprintf(&b, "Write a children's story suitable for a %d-year-old child.\n", p.ChildAge)
	fmt.Fprintf(&b, "The child's name is %s.\n", p.ChildName)
	fmt.Fprintf(&b, "Their favorite animal is %s.\n", p.FavoriteAnimal)
	fmt.Fprintf(&b, "Their favorite color is %s.\n", p.FavoriteColor)
	fmt.Fprintf(&b, "Their favorite activity is %s.\n", p.FavoriteActivity)
	if len(p.AdditionalCharacters) > 0 {
		fmt.Fprintf(&b, "Include these characters: %s.\n", strings.Join(p.AdditionalCharacters, ", "))
	}
	b.WriteString("\n")
	fmt.Fprintf(&b, "Story type: %s\n", req.StoryType)
	b.WriteString("\n")
	b.WriteString("Respond with JSON only, using exactly this structure:\n")
	b.WriteString(responseSchema)
	b.WriteString("\n\n")
	fmt.Fprintf(&b, "The story must have between %d and %d pages.\n", generation.MinPages, generation.MaxPages)
	b.WriteString("Each page must contain about 2-3 sentences suited to the child's age.\n")
	b.WriteString("For each page, include a detailed description of the image that should accompany it.\n")
	b.WriteString("Make sure the story is child-appropriate, positive and educational.")

	return b.String()
}
