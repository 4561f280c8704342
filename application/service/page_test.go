package service

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/helixml/hackai-log/domain/chat"
	"github.com/helixml/hackai-log/infrastructure/markdown"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testPage(t *testing.T, store fakeStore) (*Page, string) {
	t.Helper()
	dir := t.TempDir()
	diffs := NewDiff(WithPullRequestSource(testSource()))
	renderer := markdown.NewPage(markdown.NewRenderer(nil), markdown.DefaultCharacterThreshold)
	return NewPage(diffs, NewExtractor(store), renderer, dir, nil), dir
}

func TestPage_Generate(t *testing.T) {
	p, dir := testPage(t, fakeStore{PromptsKey: promptsJSON, GenerationsKey: generationsJSON})

	path, err := p.Generate(context.Background(), 42)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "pr-42.mdx"), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	content := string(data)
	assert.Contains(t, content, "# Big change")
	assert.Contains(t, content, "### `src/big.ts`")
	assert.Contains(t, content, "## Chats")
	assert.Contains(t, content, markdown.PromptHeading+"\nfirst question\n")
}

func TestPage_EmptyChatHistory(t *testing.T) {
	p, _ := testPage(t, fakeStore{})

	content, err := p.Render(context.Background(), 42)
	require.NoError(t, err)
	assert.NotContains(t, content, "## Chats")
}

func TestPage_CorruptChatStoreAborts(t *testing.T) {
	p, dir := testPage(t, fakeStore{PromptsKey: "{not an array"})

	_, err := p.Generate(context.Background(), 42)
	require.ErrorIs(t, err, chat.ErrCorruptValue)
	assert.NoFileExists(t, filepath.Join(dir, "pr-42.mdx"))
}

func TestPage_DiffFailureAborts(t *testing.T) {
	p, _ := testPage(t, fakeStore{})

	_, err := p.Render(context.Background(), 7)
	require.Error(t, err)
}

func TestPage_WithoutExtractor(t *testing.T) {
	renderer := markdown.NewPage(markdown.NewRenderer(nil), 1000)
	p := NewPage(NewDiff(WithPullRequestSource(testSource())), nil, renderer, t.TempDir(), nil)

	content, err := p.Render(context.Background(), 42)
	require.NoError(t, err)
	assert.Contains(t, content, "# Big change")
}
