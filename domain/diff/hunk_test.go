package diff

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewHunk(t *testing.T) {
	h := NewHunk("f.ts", "@@ -1,3 +1,3 @@", 1, 4, 5, true)

	assert.Equal(t, "f.ts", h.File())
	assert.Equal(t, "@@ -1,3 +1,3 @@", h.Content())
	assert.Equal(t, 1, h.LineCount())
	assert.Equal(t, 4, h.StartLine())
	assert.Equal(t, 5, h.EndLine())
	assert.True(t, h.HeaderParsed())
}

func TestNewHunk_ClampsRange(t *testing.T) {
	h := NewHunk("", "", 0, 0, -3, false)

	assert.Equal(t, 1, h.StartLine())
	assert.Equal(t, 1, h.EndLine())
	assert.False(t, h.HeaderParsed())
}

func TestResult_HunksAreCopied(t *testing.T) {
	hunks := []Hunk{NewHunk("a", "x", 1, 1, 2, true)}
	r := NewResult("raw", hunks)

	hunks[0] = NewHunk("b", "y", 1, 1, 2, true)
	assert.Equal(t, "a", r.Hunks()[0].File())

	got := r.Hunks()
	got[0] = NewHunk("c", "z", 1, 1, 2, true)
	assert.Equal(t, "a", r.Hunks()[0].File())
	assert.Equal(t, 1, r.Len())
	assert.Equal(t, "raw", r.Raw())
}
