// Package markdown renders conversations and pull request summaries as
// Markdown and MDX.
package markdown

import (
	"fmt"
	"strings"

	"github.com/helixml/hackai-log/domain/chat"
)

// DefaultCharacterThreshold is the summed message length above which a
// conversation is collapsed.
const DefaultCharacterThreshold = 1000

// Message headings.
const (
	PromptHeading   = "#### 💬 Prompt"
	ResponseHeading = "##### 🤖 LLM"
)

// isoMillis matches JavaScript's Date.toISOString output.
const isoMillis = "2006-01-02T15:04:05.000Z"

// Collapser decides whether a rendered conversation is wrapped in a
// disclosure element.
type Collapser func(totalLength, threshold int) bool

// ShouldCollapse collapses conversations strictly longer than threshold.
func ShouldCollapse(totalLength, threshold int) bool {
	return totalLength > threshold
}

// Renderer renders conversations as Markdown.
type Renderer struct {
	collapse Collapser
}

// NewRenderer creates a Renderer. A nil collapser uses ShouldCollapse.
func NewRenderer(collapse Collapser) Renderer {
	if collapse == nil {
		collapse = ShouldCollapse
	}
	return Renderer{collapse: collapse}
}

// RenderChat renders c with the default collapsing strategy.
func RenderChat(c chat.FormattedChat, characterThreshold int) string {
	return NewRenderer(nil).Render(c, characterThreshold)
}

// Render converts c into Markdown, one heading block per message in
// conversation order, wrapped in <details> when the collapser says so.
func (r Renderer) Render(c chat.FormattedChat, characterThreshold int) string {
	messages := c.Messages()
	blocks := make([]string, len(messages))
	for i, m := range messages {
		blocks[i] = messageBlock(m)
	}
	content := strings.Join(blocks, "\n")

	collapse := r.collapse
	if collapse == nil {
		collapse = ShouldCollapse
	}
	if !collapse(c.TotalLength(), characterThreshold) {
		return content
	}

	return fmt.Sprintf("<details>\n<summary>Chat from %s (ID: %s)</summary>\n\n%s\n</details>",
		c.Created().Format(isoMillis), c.ID(), content)
}

func messageBlock(m chat.Message) string {
	heading := ResponseHeading
	if m.Role == chat.RoleUser {
		heading = PromptHeading
	}
	return heading + "\n" + m.Content + "\n"
}
