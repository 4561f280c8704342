package chat

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDocument_PreservesKeyOrder(t *testing.T) {
	input := `{"zeta":1,"alpha":{"nested":[1,2]},"mid":"x"}`

	doc, err := ParseDocument([]byte(input))
	require.NoError(t, err)

	assert.Equal(t, []string{"zeta", "alpha", "mid"}, doc.Keys())

	out, err := json.Marshal(doc)
	require.NoError(t, err)
	assert.JSONEq(t, input, string(out))
	assert.Equal(t, `{"zeta":1,"alpha":{"nested":[1,2]},"mid":"x"}`, string(out))
}

func TestParseDocument_RejectsNonObject(t *testing.T) {
	for _, input := range []string{`[1,2]`, `"text"`, `null`, ``, `42`} {
		_, err := ParseDocument([]byte(input))
		assert.Error(t, err, input)
	}
}

func TestDocument_TypedAccessors(t *testing.T) {
	doc, err := ParseDocument([]byte(`{"s":"hi","n":1700000000123,"f":12.9,"b":true,"o":{"k":"v"},"a":[{"x":1}],"nil":null}`))
	require.NoError(t, err)

	s, ok := doc.String("s")
	assert.True(t, ok)
	assert.Equal(t, "hi", s)

	n, ok := doc.Int64("n")
	assert.True(t, ok)
	assert.Equal(t, int64(1700000000123), n)

	f, ok := doc.Int64("f")
	assert.True(t, ok)
	assert.Equal(t, int64(12), f)

	b, ok := doc.Bool("b")
	assert.True(t, ok)
	assert.True(t, b)

	sub, ok := doc.Document("o")
	require.True(t, ok)
	v, _ := sub.String("k")
	assert.Equal(t, "v", v)

	arr, ok := doc.Array("a")
	require.True(t, ok)
	assert.Len(t, arr, 1)

	assert.True(t, doc.Has("nil"))
	_, ok = doc.String("nil")
	assert.False(t, ok)

	_, ok = doc.String("n")
	assert.False(t, ok, "number is not a string")
	_, ok = doc.Int64("missing")
	assert.False(t, ok)
}

func TestDocument_WithDoesNotMutate(t *testing.T) {
	doc, err := ParseDocument([]byte(`{"a":1}`))
	require.NoError(t, err)

	next, err := doc.With("b", "two")
	require.NoError(t, err)

	assert.Equal(t, []string{"a"}, doc.Keys())
	assert.Equal(t, []string{"a", "b"}, next.Keys())
}

func TestDocument_ZeroValue(t *testing.T) {
	var doc Document

	assert.Equal(t, 0, doc.Len())
	assert.Nil(t, doc.Keys())
	out, err := json.Marshal(doc)
	require.NoError(t, err)
	assert.Equal(t, "{}", string(out))
}
