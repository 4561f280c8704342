// Package diffing splits unified diffs into per-file hunks and crops
// oversized hunks to a bounded size.
package diffing

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/helixml/hackai-log/domain/diff"
)

// Default limits applied when the caller has no configuration.
const (
	DefaultMaxHunkLines = 20
	DefaultContextLines = 3
)

const (
	fileBoundary = "\ndiff --git "
	filePrefix   = "diff --git "
	hunkMarker   = "@@"
)

var hunkHeader = regexp.MustCompile(`@@ -(\d+),\d+ \+(\d+),\d+ @@`)

// Process splits rawDiff on file boundaries and returns one hunk per file
// segment, in diff order. Hunk bodies longer than maxHunkLines are cropped
// with Crop. Process never fails: segments it cannot make sense of get a
// start line of 1.
func Process(rawDiff string, maxHunkLines, contextLines int) diff.Result {
	segments := strings.Split(rawDiff, fileBoundary)
	hunks := make([]diff.Hunk, 0, len(segments))

	for _, segment := range segments {
		if segment == "" {
			continue
		}
		hunks = append(hunks, processSegment(segment, maxHunkLines, contextLines))
	}

	return diff.NewResult(rawDiff, hunks)
}

func processSegment(segment string, maxHunkLines, contextLines int) diff.Hunk {
	header, rest, _ := strings.Cut(segment, "\n")

	body := rest
	if idx := strings.Index(rest, hunkMarker); idx > -1 {
		body = rest[idx:]
	}

	startLine, parsed := parseStartLine(body)
	lineCount := strings.Count(body, "\n") + 1

	return diff.NewHunk(
		parseFilePath(header),
		Crop(body, maxHunkLines, contextLines),
		lineCount,
		startLine,
		startLine+lineCount,
		parsed,
	)
}

// parseStartLine returns the old-file start line from the first hunk
// header in body, or 1 when there is none.
func parseStartLine(body string) (int, bool) {
	m := hunkHeader.FindStringSubmatch(body)
	if m == nil {
		return 1, false
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return 1, false
	}
	return n, true
}

// parseFilePath reads the new path from an "a/<old> b/<new>" file header.
func parseFilePath(header string) string {
	header = strings.TrimPrefix(header, filePrefix)
	idx := strings.LastIndex(header, " b/")
	if idx < 0 {
		return ""
	}
	return strings.TrimSpace(header[idx+len(" b/"):])
}

// Crop bounds a hunk body to roughly maxLines lines.
//
// Bodies within maxLines are returned unchanged, as are bodies whose
// change lines (those starting with '+' or '-') fit within maxLines.
// Otherwise the first line is kept, followed by the first and last
// (maxLines-contextLines)/2 change lines around a marker reporting how many
// change lines exceeded the limit.
func Crop(content string, maxLines, contextLines int) string {
	lines := strings.Split(content, "\n")
	if len(lines) <= maxLines {
		return content
	}

	header := lines[0]
	changes := make([]string, 0, len(lines)-1)
	for _, line := range lines[1:] {
		if strings.HasPrefix(line, "+") || strings.HasPrefix(line, "-") {
			changes = append(changes, line)
		}
	}

	if len(changes) <= maxLines {
		return content
	}

	half := (maxLines - contextLines) / 2
	if half < 0 {
		half = 0
	}
	if half > len(changes)/2 {
		half = len(changes) / 2
	}

	out := make([]string, 0, 2*half+2)
	out = append(out, header)
	out = append(out, changes[:half]...)
	out = append(out, SkipMarker(len(changes)-maxLines))
	out = append(out, changes[len(changes)-half:]...)
	return strings.Join(out, "\n")
}

// SkipMarker returns the line that replaces n cropped lines.
func SkipMarker(n int) string {
	return fmt.Sprintf("@@ ... %d lines skipped ... @@", n)
}
