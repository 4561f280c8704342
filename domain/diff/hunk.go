// Package diff provides domain types for processed unified diffs.
package diff

// Hunk is one file-scoped change region of a unified diff.
// Immutable value object.
type Hunk struct {
	file         string
	content      string
	lineCount    int
	startLine    int
	endLine      int
	headerParsed bool
}

// NewHunk creates a Hunk. A start line below 1 becomes 1 and the end line
// never precedes the start line.
func NewHunk(file, content string, lineCount, startLine, endLine int, headerParsed bool) Hunk {
	if startLine < 1 {
		startLine = 1
	}
	if endLine < startLine {
		endLine = startLine
	}
	return Hunk{
		file:         file,
		content:      content,
		lineCount:    lineCount,
		startLine:    startLine,
		endLine:      endLine,
		headerParsed: headerParsed,
	}
}

// File returns the path of the changed file, or empty if the file header
// could not be read.
func (h Hunk) File() string { return h.file }

// Content returns the (possibly cropped) hunk body.
func (h Hunk) Content() string { return h.content }

// LineCount returns the number of lines in the hunk body before cropping.
func (h Hunk) LineCount() int { return h.lineCount }

// StartLine returns the 1-based first source line.
func (h Hunk) StartLine() int { return h.startLine }

// EndLine returns the approximate last source line.
func (h Hunk) EndLine() int { return h.endLine }

// HeaderParsed reports whether StartLine came from an "@@ -A,x +B,y @@"
// header. When false, StartLine is the default of 1.
func (h Hunk) HeaderParsed() bool { return h.headerParsed }

// Result holds the original diff text and its hunks in diff order.
type Result struct {
	raw   string
	hunks []Hunk
}

// NewResult creates a Result.
func NewResult(raw string, hunks []Hunk) Result {
	h := make([]Hunk, len(hunks))
	copy(h, hunks)
	return Result{raw: raw, hunks: h}
}

// Raw returns the untouched diff text.
func (r Result) Raw() string { return r.raw }

// Hunks returns the hunks in the order they appear in the diff.
func (r Result) Hunks() []Hunk {
	h := make([]Hunk, len(r.hunks))
	copy(h, r.hunks)
	return h
}

// Len returns the number of hunks.
func (r Result) Len() int { return len(r.hunks) }
