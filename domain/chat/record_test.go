package chat

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustDoc(t *testing.T, raw string) Document {
	t.Helper()
	d, err := ParseDocument([]byte(raw))
	require.NoError(t, err)
	return d
}

func TestPromptFromDocument(t *testing.T) {
	p, err := PromptFromDocument(mustDoc(t, `{"text":"hello","commandType":4,"unixMs":10,"uuid":"p1","model":"gpt","metadata":{"b":1,"a":2}}`))
	require.NoError(t, err)

	assert.Equal(t, "hello", p.Text())
	ct, ok := p.CommandType()
	assert.True(t, ok)
	assert.Equal(t, int64(4), ct)
	ms, ok := p.UnixMs()
	assert.True(t, ok)
	assert.Equal(t, int64(10), ms)
	assert.Equal(t, "p1", p.UUID())
	assert.Equal(t, "gpt", p.Model())
	assert.Equal(t, []string{"b", "a"}, p.Metadata().Keys())
}

func TestPromptFromDocument_RequiresText(t *testing.T) {
	_, err := PromptFromDocument(mustDoc(t, `{"commandType":1}`))
	assert.ErrorIs(t, err, ErrCorruptValue)
}

func TestPromptFromDocument_OptionalFieldsAbsent(t *testing.T) {
	p, err := PromptFromDocument(mustDoc(t, `{"text":"x"}`))
	require.NoError(t, err)

	_, ok := p.UnixMs()
	assert.False(t, ok)
	_, ok = p.CommandType()
	assert.False(t, ok)
	assert.Equal(t, 0, p.Metadata().Len())
}

func TestGenerationFromDocument(t *testing.T) {
	g, err := GenerationFromDocument(mustDoc(t, `{"unixMs":5,"generationUUID":"g1","type":"composer","textDescription":"desc","promptUUID":"p1","toolCalls":[{"name":"x"},{"name":"y"}]}`))
	require.NoError(t, err)

	assert.Equal(t, int64(5), g.UnixMs())
	assert.Equal(t, "g1", g.GenerationUUID())
	assert.Equal(t, "composer", g.Type())
	assert.Equal(t, "desc", g.Content())
	assert.Equal(t, "p1", g.PromptUUID())
	assert.Len(t, g.ToolCalls(), 2)
	assert.JSONEq(t, `{"name":"x"}`, string(g.ToolCalls()[0]))
}

func TestGenerationFromDocument_ContentPrefersText(t *testing.T) {
	g, err := GenerationFromDocument(mustDoc(t, `{"unixMs":5,"generationUUID":"g1","type":"composer","text":"full","textDescription":"desc"}`))
	require.NoError(t, err)
	assert.Equal(t, "full", g.Content())
}

func TestGenerationFromDocument_RequiredFields(t *testing.T) {
	for _, raw := range []string{
		`{"generationUUID":"g","type":"t"}`,
		`{"unixMs":1,"type":"t"}`,
		`{"unixMs":1,"generationUUID":"g"}`,
	} {
		_, err := GenerationFromDocument(mustDoc(t, raw))
		assert.ErrorIs(t, err, ErrCorruptValue, raw)
	}
}

func TestComposerFromDocument(t *testing.T) {
	c, err := ComposerFromDocument(mustDoc(t, `{"type":"head","composerId":"c1","name":"Refactor","lastUpdatedAt":20,"createdAt":1700000000000,"unifiedMode":"agent","forceMode":"edit"}`))
	require.NoError(t, err)

	assert.Equal(t, "c1", c.ComposerID())
	assert.Equal(t, "Refactor", c.Name())
	assert.Equal(t, int64(20), c.LastUpdatedAt())
	assert.Equal(t, "agent", c.UnifiedMode())
	assert.Equal(t, time.Date(2023, 11, 14, 22, 13, 20, 0, time.UTC), c.Created())

	_, err = ComposerFromDocument(mustDoc(t, `{"name":"no id"}`))
	assert.ErrorIs(t, err, ErrCorruptValue)
}

func TestFormattedChat_JSONRoundTrip(t *testing.T) {
	c := NewFormattedChat("c1", 1000, "name", []Message{
		{Role: RoleUser, Content: "hi", Timestamp: 1},
		{Role: RoleAssistant, Content: "hello", Timestamp: 2},
	})

	data, err := json.Marshal(c)
	require.NoError(t, err)

	var back FormattedChat
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, c, back)
	assert.Equal(t, 7, back.TotalLength())
}

func TestFormattedChat_MessagesAreCopied(t *testing.T) {
	msgs := []Message{{Role: RoleUser, Content: "a"}}
	c := NewFormattedChat("id", 0, "", msgs)

	msgs[0].Content = "changed"
	assert.Equal(t, "a", c.Messages()[0].Content)
}
