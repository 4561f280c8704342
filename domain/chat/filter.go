package chat

import (
	"strings"
	"unicode/utf8"
)

// ExtractionOptions selects which stored records survive extraction.
// Every filter is optional; an unset filter keeps all records.
type ExtractionOptions struct {
	nameFilter         *string
	minTimestamp       *int64
	maxTimestamp       *int64
	characterThreshold *int
	composerID         *string
}

// ExtractionOption is a functional option for ExtractionOptions.
type ExtractionOption func(*ExtractionOptions)

// WithNameFilter keeps records whose name (or text, when unnamed) contains
// filter, ignoring case.
func WithNameFilter(filter string) ExtractionOption {
	return func(o *ExtractionOptions) {
		o.nameFilter = &filter
	}
}

// WithMinTimestamp keeps records at or after ms (Unix milliseconds).
func WithMinTimestamp(ms int64) ExtractionOption {
	return func(o *ExtractionOptions) {
		o.minTimestamp = &ms
	}
}

// WithMaxTimestamp keeps records at or before ms (Unix milliseconds).
func WithMaxTimestamp(ms int64) ExtractionOption {
	return func(o *ExtractionOptions) {
		o.maxTimestamp = &ms
	}
}

// WithCharacterThreshold keeps records whose text has at least n characters.
func WithCharacterThreshold(n int) ExtractionOption {
	return func(o *ExtractionOptions) {
		o.characterThreshold = &n
	}
}

// WithComposerID keeps records tagged with the given composer.
func WithComposerID(id string) ExtractionOption {
	return func(o *ExtractionOptions) {
		o.composerID = &id
	}
}

// NewExtractionOptions applies opts to an empty option set.
func NewExtractionOptions(opts ...ExtractionOption) ExtractionOptions {
	var o ExtractionOptions
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// NameFilter returns the name filter, if set.
func (o ExtractionOptions) NameFilter() (string, bool) { return deref(o.nameFilter) }

// MinTimestamp returns the lower timestamp bound, if set.
func (o ExtractionOptions) MinTimestamp() (int64, bool) { return deref(o.minTimestamp) }

// MaxTimestamp returns the upper timestamp bound, if set.
func (o ExtractionOptions) MaxTimestamp() (int64, bool) { return deref(o.maxTimestamp) }

// CharacterThreshold returns the minimum text length, if set.
func (o ExtractionOptions) CharacterThreshold() (int, bool) { return deref(o.characterThreshold) }

// ComposerID returns the composer filter, if set.
func (o ExtractionOptions) ComposerID() (string, bool) { return deref(o.composerID) }

// Empty reports whether no filter is set.
func (o ExtractionOptions) Empty() bool {
	return o.nameFilter == nil && o.minTimestamp == nil && o.maxTimestamp == nil &&
		o.characterThreshold == nil && o.composerID == nil
}

// Match reports whether doc passes every set filter.
//
// Timestamp and composer filters only judge records that carry the
// inspected field; workspace-level records without it are kept. The name
// and length filters need text to compare, so records without it fail.
func (o ExtractionOptions) Match(doc Document) bool {
	if f, ok := o.NameFilter(); ok {
		name, found := doc.String("name")
		if !found {
			name, found = doc.String("text")
		}
		if !found || !strings.Contains(strings.ToLower(name), strings.ToLower(f)) {
			return false
		}
	}

	if ts, found := documentTimestamp(doc); found {
		if lo, ok := o.MinTimestamp(); ok && ts < lo {
			return false
		}
		if hi, ok := o.MaxTimestamp(); ok && ts > hi {
			return false
		}
	}

	if n, ok := o.CharacterThreshold(); ok {
		text, _ := doc.String("text")
		if utf8.RuneCountInString(text) < n {
			return false
		}
	}

	if id, ok := o.ComposerID(); ok {
		if got, found := documentComposerID(doc); found && got != id {
			return false
		}
	}

	return true
}

// Filter returns the documents that pass Match, in their original order.
func (o ExtractionOptions) Filter(docs []Document) []Document {
	if o.Empty() {
		out := make([]Document, len(docs))
		copy(out, docs)
		return out
	}
	out := make([]Document, 0, len(docs))
	for _, d := range docs {
		if o.Match(d) {
			out = append(out, d)
		}
	}
	return out
}

func documentTimestamp(doc Document) (int64, bool) {
	for _, key := range []string{"unixMs", "createdAt"} {
		if ts, ok := doc.Int64(key); ok {
			return ts, true
		}
	}
	return 0, false
}

func documentComposerID(doc Document) (string, bool) {
	if id, ok := doc.String("composerId"); ok {
		return id, true
	}
	if meta, ok := doc.Document("metadata"); ok {
		return meta.String("composerId")
	}
	return "", false
}

func deref[T any](p *T) (T, bool) {
	if p == nil {
		var zero T
		return zero, false
	}
	return *p, true
}
