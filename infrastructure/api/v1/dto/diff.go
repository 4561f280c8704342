// Package dto holds the JSON shapes of the v1 API.
package dto

import "github.com/helixml/hackai-log/domain/diff"

// Hunk is one processed diff segment.
type Hunk struct {
	File         string `json:"file,omitempty"`
	Content      string `json:"content"`
	LineCount    int    `json:"lineCount"`
	StartLine    int    `json:"startLine"`
	EndLine      int    `json:"endLine"`
	HeaderParsed bool   `json:"headerParsed"`
}

// DiffResponse is the result of processing a raw diff.
type DiffResponse struct {
	TotalHunks int    `json:"totalHunks"`
	Hunks      []Hunk `json:"hunks"`
}

// NewDiffResponse converts a processed diff.
func NewDiffResponse(r diff.Result) DiffResponse {
	hunks := r.Hunks()
	out := make([]Hunk, len(hunks))
	for i, h := range hunks {
		out[i] = Hunk{
			File:         h.File(),
			Content:      h.Content(),
			LineCount:    h.LineCount(),
			StartLine:    h.StartLine(),
			EndLine:      h.EndLine(),
			HeaderParsed: h.HeaderParsed(),
		}
	}
	return DiffResponse{TotalHunks: len(out), Hunks: out}
}
