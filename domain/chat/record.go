package chat

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// ErrCorruptValue indicates a stored value exists but does not have the
// shape the extractor expects.
var ErrCorruptValue = errors.New("corrupt chat store value")

// Prompt is a single user-authored query. Immutable value object.
type Prompt struct {
	text        string
	commandType *int64
	unixMs      *int64
	uuid        string
	model       string
	metadata    Document
	raw         Document
}

// PromptFromDocument decodes a prompt record. The text field is required.
func PromptFromDocument(doc Document) (Prompt, error) {
	text, ok := doc.String("text")
	if !ok {
		return Prompt{}, fmt.Errorf("%w: prompt record has no text", ErrCorruptValue)
	}
	p := Prompt{
		text: text,
		raw:  doc,
	}
	if v, ok := doc.Int64("commandType"); ok {
		p.commandType = &v
	}
	if v, ok := doc.Int64("unixMs"); ok {
		p.unixMs = &v
	}
	p.uuid, _ = doc.String("uuid")
	p.model, _ = doc.String("model")
	p.metadata, _ = doc.Document("metadata")
	return p, nil
}

// Text returns the prompt text.
func (p Prompt) Text() string { return p.text }

// CommandType returns the assistant command type, if recorded.
func (p Prompt) CommandType() (int64, bool) {
	if p.commandType == nil {
		return 0, false
	}
	return *p.commandType, true
}

// UnixMs returns the prompt timestamp in milliseconds, if recorded.
func (p Prompt) UnixMs() (int64, bool) {
	if p.unixMs == nil {
		return 0, false
	}
	return *p.unixMs, true
}

// UUID returns the prompt identifier, or empty.
func (p Prompt) UUID() string { return p.uuid }

// Model returns the model name, or empty.
func (p Prompt) Model() string { return p.model }

// Metadata returns free-form metadata.
func (p Prompt) Metadata() Document { return p.metadata }

// Document returns the record as stored.
func (p Prompt) Document() Document { return p.raw }

// Generation is a single assistant-authored response. Immutable value object.
type Generation struct {
	unixMs          int64
	generationUUID  string
	kind            string
	text            string
	textDescription string
	model           string
	promptUUID      string
	status          string
	errorText       string
	metadata        Document
	toolCalls       []json.RawMessage
	raw             Document
}

// GenerationFromDocument decodes a generation record. unixMs,
// generationUUID and type are required.
func GenerationFromDocument(doc Document) (Generation, error) {
	unixMs, ok := doc.Int64("unixMs")
	if !ok {
		return Generation{}, fmt.Errorf("%w: generation record has no unixMs", ErrCorruptValue)
	}
	id, ok := doc.String("generationUUID")
	if !ok {
		return Generation{}, fmt.Errorf("%w: generation record has no generationUUID", ErrCorruptValue)
	}
	kind, ok := doc.String("type")
	if !ok {
		return Generation{}, fmt.Errorf("%w: generation record has no type", ErrCorruptValue)
	}
	g := Generation{
		unixMs:         unixMs,
		generationUUID: id,
		kind:           kind,
		raw:            doc,
	}
	g.text, _ = doc.String("text")
	g.textDescription, _ = doc.String("textDescription")
	g.model, _ = doc.String("model")
	g.promptUUID, _ = doc.String("promptUUID")
	g.status, _ = doc.String("status")
	g.errorText, _ = doc.String("error")
	g.metadata, _ = doc.Document("metadata")
	g.toolCalls, _ = doc.Array("toolCalls")
	return g, nil
}

// UnixMs returns the generation timestamp in milliseconds.
func (g Generation) UnixMs() int64 { return g.unixMs }

// GenerationUUID returns the generation identifier.
func (g Generation) GenerationUUID() string { return g.generationUUID }

// Type returns the generation type (e.g. "composer", "apply").
func (g Generation) Type() string { return g.kind }

// Text returns the response text, or empty.
func (g Generation) Text() string { return g.text }

// TextDescription returns the short description Cursor stores, or empty.
func (g Generation) TextDescription() string { return g.textDescription }

// Content returns the text when present, otherwise the description.
func (g Generation) Content() string {
	if g.text != "" {
		return g.text
	}
	return g.textDescription
}

// Model returns the model name, or empty.
func (g Generation) Model() string { return g.model }

// PromptUUID returns the identifier of the prompt this answers, or empty.
func (g Generation) PromptUUID() string { return g.promptUUID }

// Status returns the generation status, or empty.
func (g Generation) Status() string { return g.status }

// Error returns the recorded error message, or empty.
func (g Generation) Error() string { return g.errorText }

// Metadata returns free-form metadata.
func (g Generation) Metadata() Document { return g.metadata }

// ToolCalls returns the undecoded tool call entries.
func (g Generation) ToolCalls() []json.RawMessage {
	out := make([]json.RawMessage, len(g.toolCalls))
	copy(out, g.toolCalls)
	return out
}

// Document returns the record as stored.
func (g Generation) Document() Document { return g.raw }

// Composer is a named, timestamped conversation session.
type Composer struct {
	composerID    string
	name          string
	createdAt     int64
	lastUpdatedAt int64
	kind          string
	unifiedMode   string
	forceMode     string
}

// NewComposer creates a Composer.
func NewComposer(composerID, name string, createdAt, lastUpdatedAt int64) Composer {
	return Composer{
		composerID:    composerID,
		name:          name,
		createdAt:     createdAt,
		lastUpdatedAt: lastUpdatedAt,
	}
}

// ComposerFromDocument decodes an entry of allComposers. composerId is required.
func ComposerFromDocument(doc Document) (Composer, error) {
	id, ok := doc.String("composerId")
	if !ok || id == "" {
		return Composer{}, fmt.Errorf("%w: composer has no composerId", ErrCorruptValue)
	}
	c := Composer{composerID: id}
	c.name, _ = doc.String("name")
	c.createdAt, _ = doc.Int64("createdAt")
	c.lastUpdatedAt, _ = doc.Int64("lastUpdatedAt")
	c.kind, _ = doc.String("type")
	c.unifiedMode, _ = doc.String("unifiedMode")
	c.forceMode, _ = doc.String("forceMode")
	return c, nil
}

// ComposerID returns the composer identifier.
func (c Composer) ComposerID() string { return c.composerID }

// Name returns the composer name.
func (c Composer) Name() string { return c.name }

// CreatedAt returns the creation time in milliseconds.
func (c Composer) CreatedAt() int64 { return c.createdAt }

// LastUpdatedAt returns the last update time in milliseconds.
func (c Composer) LastUpdatedAt() int64 { return c.lastUpdatedAt }

// Type returns the composer type.
func (c Composer) Type() string { return c.kind }

// UnifiedMode returns the composer mode (e.g. "agent").
func (c Composer) UnifiedMode() string { return c.unifiedMode }

// ForceMode returns the forced mode, or empty.
func (c Composer) ForceMode() string { return c.forceMode }

// Created returns the creation time.
func (c Composer) Created() time.Time { return time.UnixMilli(c.createdAt).UTC() }
