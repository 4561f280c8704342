package markdown

import (
	"strings"
	"testing"
	"time"

	"github.com/helixml/hackai-log/domain/chat"
	"github.com/helixml/hackai-log/domain/diff"
	"github.com/helixml/hackai-log/domain/pullrequest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func testSummary() pullrequest.Summary {
	merged := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	pr := pullrequest.NewPullRequest(42, "Add parser", "Uses {braces}", []string{"feature"}, "abc123", &merged, "parser", "def456")
	d := diff.NewResult("raw", []diff.Hunk{
		diff.NewHunk("src/a.ts", "@@ -1,1 +1,1 @@\n-a\n+b", 3, 1, 4, true),
	})
	return pullrequest.NewSummary(pr, d, "https://github.com/o/r/commit/abc123")
}

func TestPage_FrontMatter(t *testing.T) {
	out, err := NewPage(NewRenderer(nil), 1000).Render(testSummary(), nil)
	require.NoError(t, err)

	require.True(t, strings.HasPrefix(out, "---\n"))
	parts := strings.SplitN(out, "---\n", 3)
	require.Len(t, parts, 3)

	var fm frontMatter
	require.NoError(t, yaml.Unmarshal([]byte(parts[1]), &fm))
	assert.Equal(t, "Add parser", fm.Title)
	assert.Equal(t, 42, fm.PR)
	assert.Equal(t, []string{"feature"}, fm.Labels)
	assert.Equal(t, "parser", fm.Branch)
	assert.Equal(t, "https://github.com/o/r/commit/abc123", fm.Commit)
	assert.Equal(t, "2024-05-01T12:00:00Z", fm.MergedAt)
}

func TestPage_Body(t *testing.T) {
	out, err := NewPage(NewRenderer(nil), 1000).Render(testSummary(), nil)
	require.NoError(t, err)

	assert.Contains(t, out, "# Add parser\n")
	assert.Contains(t, out, `Uses \{braces\}`)
	assert.Contains(t, out, "### `src/a.ts` (lines 1-4)\n\n```diff\n@@ -1,1 +1,1 @@\n-a\n+b\n```")
	assert.NotContains(t, out, "## Chats")
}

func TestPage_Chats(t *testing.T) {
	chats := []chat.FormattedChat{
		chat.NewFormattedChat("empty", 0, "", nil),
		chat.NewFormattedChat("c1", 0, "", []chat.Message{{Role: chat.RoleUser, Content: "hi"}}),
	}

	out, err := NewPage(NewRenderer(nil), 1000).Render(testSummary(), chats)
	require.NoError(t, err)

	assert.Contains(t, out, "## Chats\n\n#### 💬 Prompt\nhi\n")
}

func TestCodeFence(t *testing.T) {
	assert.Equal(t, "```", codeFence("plain"))
	assert.Equal(t, "````", codeFence("has ``` inside"))
}
