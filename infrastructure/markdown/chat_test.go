package markdown

import (
	"strings"
	"testing"

	"github.com/helixml/hackai-log/domain/chat"
	"github.com/stretchr/testify/assert"
)

func chatOfLength(n int) chat.FormattedChat {
	half := n / 2
	return chat.NewFormattedChat("abc", 1700000000000, "", []chat.Message{
		{Role: chat.RoleUser, Content: strings.Repeat("q", half)},
		{Role: chat.RoleAssistant, Content: strings.Repeat("a", n-half)},
	})
}

func TestRenderChat_Headings(t *testing.T) {
	c := chat.NewFormattedChat("id", 0, "", []chat.Message{
		{Role: chat.RoleUser, Content: "How?"},
		{Role: chat.RoleAssistant, Content: "Like this."},
		{Role: chat.RoleUser, Content: "Thanks"},
	})

	got := RenderChat(c, 1000)

	want := "#### 💬 Prompt\nHow?\n\n##### 🤖 LLM\nLike this.\n\n#### 💬 Prompt\nThanks\n"
	assert.Equal(t, want, got)
}

func TestRenderChat_ThresholdIsStrict(t *testing.T) {
	atLimit := RenderChat(chatOfLength(1000), 1000)
	over := RenderChat(chatOfLength(1001), 1000)

	assert.False(t, strings.HasPrefix(atLimit, "<details>"))
	assert.True(t, strings.HasPrefix(over, "<details>"))
}

func TestRenderChat_DisclosureWrapper(t *testing.T) {
	c := chat.NewFormattedChat("abc", 1700000000000, "", []chat.Message{
		{Role: chat.RoleUser, Content: "long enough"},
	})

	got := RenderChat(c, 3)

	want := "<details>\n<summary>Chat from 2023-11-14T22:13:20.000Z (ID: abc)</summary>\n\n#### 💬 Prompt\nlong enough\n\n</details>"
	assert.Equal(t, want, got)
}

func TestRenderChat_CountsCodePoints(t *testing.T) {
	c := chat.NewFormattedChat("id", 0, "", []chat.Message{
		{Role: chat.RoleUser, Content: "ééé"},
	})

	assert.False(t, strings.HasPrefix(RenderChat(c, 3), "<details>"))
	assert.True(t, strings.HasPrefix(RenderChat(c, 2), "<details>"))
}

func TestRenderChat_EmptyConversation(t *testing.T) {
	assert.Equal(t, "", RenderChat(chat.NewFormattedChat("id", 0, "", nil), 0))
}

func TestRenderer_CustomCollapser(t *testing.T) {
	byCount := func(_, threshold int) bool { return threshold == 0 }
	r := NewRenderer(byCount)
	c := chatOfLength(5000)

	assert.False(t, strings.HasPrefix(r.Render(c, 1), "<details>"))
	assert.True(t, strings.HasPrefix(r.Render(c, 0), "<details>"))
}

func TestRenderChat_DoesNotMutateInput(t *testing.T) {
	c := chatOfLength(10)
	before := c.Messages()

	_ = RenderChat(c, 1)

	assert.Equal(t, before, c.Messages())
}
