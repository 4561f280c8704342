// Package service implements the hackai-log pipelines on top of the domain
// capabilities.
package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"unicode/utf8"

	"github.com/helixml/hackai-log/domain/chat"
	domainservice "github.com/helixml/hackai-log/domain/service"
)

// Store keys read from the editor's state database.
const (
	PromptsKey     = "aiService.prompts"
	GenerationsKey = "aiService.generations"
	ComposersKey   = "composer.composerData"
)

// composersField holds the composer list inside the ComposersKey object.
const composersField = "allComposers"

// Extractor reads chat records from the editor's key/value store.
type Extractor struct {
	store     domainservice.KeyValueStore
	snapshots domainservice.SnapshotWriter
	selector  domainservice.ComposerSelector
	logger    *slog.Logger
}

// ExtractorOption configures an Extractor.
type ExtractorOption func(*Extractor)

// WithSnapshots writes every decoded record set to w.
func WithSnapshots(w domainservice.SnapshotWriter) ExtractorOption {
	return func(e *Extractor) { e.snapshots = w }
}

// WithComposerSelector asks s to choose between several composers.
func WithComposerSelector(s domainservice.ComposerSelector) ExtractorOption {
	return func(e *Extractor) { e.selector = s }
}

// WithExtractorLogger sets the logger.
func WithExtractorLogger(l *slog.Logger) ExtractorOption {
	return func(e *Extractor) { e.logger = l }
}

// NewExtractor creates a new Extractor over store.
func NewExtractor(store domainservice.KeyValueStore, opts ...ExtractorOption) *Extractor {
	e := &Extractor{store: store}
	for _, opt := range opts {
		opt(e)
	}
	if e.logger == nil {
		e.logger = slog.Default()
	}
	return e
}

// ExtractRecords returns the records stored under key that pass every
// filter, in storage order. An absent key yields no records.
func (e *Extractor) ExtractRecords(ctx context.Context, key string, opts ...chat.ExtractionOption) ([]chat.Document, error) {
	raw, ok, err := e.load(ctx, key)
	if err != nil || !ok {
		return []chat.Document{}, err
	}

	docs, err := decodeRecords(raw)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", key, err)
	}

	e.snapshot(ctx, key, docs)
	return chat.NewExtractionOptions(opts...).Filter(docs), nil
}

// Prompts returns the stored prompts that pass every filter.
func (e *Extractor) Prompts(ctx context.Context, opts ...chat.ExtractionOption) ([]chat.Prompt, error) {
	docs, err := e.ExtractRecords(ctx, PromptsKey, opts...)
	if err != nil {
		return nil, err
	}
	prompts := make([]chat.Prompt, 0, len(docs))
	for i, doc := range docs {
		p, err := chat.PromptFromDocument(doc)
		if err != nil {
			return nil, fmt.Errorf("prompt %d: %w", i, err)
		}
		prompts = append(prompts, p)
	}
	return prompts, nil
}

// Generations returns the stored generations that pass every filter.
func (e *Extractor) Generations(ctx context.Context, opts ...chat.ExtractionOption) ([]chat.Generation, error) {
	docs, err := e.ExtractRecords(ctx, GenerationsKey, opts...)
	if err != nil {
		return nil, err
	}
	generations := make([]chat.Generation, 0, len(docs))
	for i, doc := range docs {
		g, err := chat.GenerationFromDocument(doc)
		if err != nil {
			return nil, fmt.Errorf("generation %d: %w", i, err)
		}
		generations = append(generations, g)
	}
	return generations, nil
}

// Composers returns the stored composers that pass every filter.
func (e *Extractor) Composers(ctx context.Context, opts ...chat.ExtractionOption) ([]chat.Composer, error) {
	raw, ok, err := e.load(ctx, ComposersKey)
	if err != nil || !ok {
		return []chat.Composer{}, err
	}

	docs, err := decodeComposerData(raw)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", ComposersKey, err)
	}
	e.snapshot(ctx, ComposersKey, docs)

	docs = chat.NewExtractionOptions(opts...).Filter(docs)
	composers := make([]chat.Composer, 0, len(docs))
	for i, doc := range docs {
		c, err := chat.ComposerFromDocument(doc)
		if err != nil {
			return nil, fmt.Errorf("composer %d: %w", i, err)
		}
		composers = append(composers, c)
	}
	return composers, nil
}

// SelectComposer picks one composer. It reports false when no composer
// remains after filtering. A composer id that names no stored composer is
// ErrComposerNotFound. With several composers the injected selector
// decides; without a selector, or when nobody can answer, the most
// recently updated composer wins.
func (e *Extractor) SelectComposer(ctx context.Context, opts ...chat.ExtractionOption) (chat.Composer, bool, error) {
	composers, err := e.Composers(ctx, opts...)
	if err != nil {
		return chat.Composer{}, false, err
	}

	switch len(composers) {
	case 0:
		if id, ok := chat.NewExtractionOptions(opts...).ComposerID(); ok {
			return chat.Composer{}, false, e.checkComposerExists(ctx, id)
		}
		return chat.Composer{}, false, nil
	case 1:
		return composers[0], true, nil
	}

	if e.selector == nil {
		return mostRecent(composers), true, nil
	}

	id, err := e.selector.SelectComposer(ctx, composers)
	if errors.Is(err, domainservice.ErrNotInteractive) {
		latest := mostRecent(composers)
		e.logger.InfoContext(ctx, "no interactive terminal, using most recent composer",
			slog.String("composer_id", latest.ComposerID()),
		)
		return latest, true, nil
	}
	if err != nil {
		return chat.Composer{}, false, fmt.Errorf("select composer: %w", err)
	}

	for _, c := range composers {
		if c.ComposerID() == id {
			return c, true, nil
		}
	}
	return chat.Composer{}, false, fmt.Errorf("%w: %s", ErrComposerNotFound, id)
}

// checkComposerExists reports ErrComposerNotFound when composer data is
// stored and none of it carries id. An empty store, or a composer that
// other filters excluded, is not an error.
func (e *Extractor) checkComposerExists(ctx context.Context, id string) error {
	all, err := e.Composers(ctx)
	if err != nil {
		return err
	}
	if len(all) == 0 {
		return nil
	}
	for _, c := range all {
		if c.ComposerID() == id {
			return nil
		}
	}
	return fmt.Errorf("%w: %s", ErrComposerNotFound, id)
}

// Conversation assembles prompts and generations into one chat.
//
// The name and timestamp filters choose the composer. When no composer
// matches the name, the name filter judges prompt text instead. The length
// filter always judges prompt text. The text filters never apply to
// generations: a kept prompt keeps its replies, a dropped prompt drops
// them. A generation follows the prompt whose uuid it names. Remaining
// generations answer the unanswered prompts in order and any left over
// are appended when no text filter is set.
func (e *Extractor) Conversation(ctx context.Context, opts ...chat.ExtractionOption) (chat.FormattedChat, error) {
	o := chat.NewExtractionOptions(opts...)

	var scope []chat.ExtractionOption
	if lo, ok := o.MinTimestamp(); ok {
		scope = append(scope, chat.WithMinTimestamp(lo))
	}
	if hi, ok := o.MaxTimestamp(); ok {
		scope = append(scope, chat.WithMaxTimestamp(hi))
	}

	composerOpts := append([]chat.ExtractionOption{}, scope...)
	if id, ok := o.ComposerID(); ok {
		composerOpts = append(composerOpts, chat.WithComposerID(id))
	}
	name, hasName := o.NameFilter()
	if hasName {
		composerOpts = append(composerOpts, chat.WithNameFilter(name))
	}
	composer, hasComposer, err := e.SelectComposer(ctx, composerOpts...)
	if err != nil {
		return chat.FormattedChat{}, err
	}

	var text []chat.ExtractionOption
	if hasName && !hasComposer {
		text = append(text, chat.WithNameFilter(name))
	}
	if n, ok := o.CharacterThreshold(); ok {
		text = append(text, chat.WithCharacterThreshold(n))
	}

	switch id, ok := o.ComposerID(); {
	case hasComposer:
		scope = append(scope, chat.WithComposerID(composer.ComposerID()))
	case ok:
		scope = append(scope, chat.WithComposerID(id))
	}

	prompts, err := e.Prompts(ctx, scope...)
	if err != nil {
		return chat.FormattedChat{}, err
	}
	generations, err := e.Generations(ctx, scope...)
	if err != nil {
		return chat.FormattedChat{}, err
	}

	var keep func(chat.Prompt) bool
	if len(text) > 0 {
		textFilter := chat.NewExtractionOptions(text...)
		keep = func(p chat.Prompt) bool { return textFilter.Match(p.Document()) }
	}
	messages := pair(prompts, generations, keep)

	if hasComposer {
		return chat.NewFormattedChat(composer.ComposerID(), composer.CreatedAt(), composer.Name(), messages), nil
	}
	return chat.NewFormattedChat(chat.DefaultChatID, earliest(messages), "", messages), nil
}

// load reads key, treating an absent key as no data.
func (e *Extractor) load(ctx context.Context, key string) ([]byte, bool, error) {
	raw, err := e.store.Get(ctx, key)
	if errors.Is(err, domainservice.ErrKeyNotFound) {
		e.logger.WarnContext(ctx, "no data for key", slog.String("key", key))
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("read %s: %w", key, err)
	}
	return raw, true, nil
}

func (e *Extractor) snapshot(ctx context.Context, key string, docs []chat.Document) {
	if e.snapshots == nil {
		return
	}
	if err := e.snapshots.Write(ctx, key, docs); err != nil {
		e.logger.WarnContext(ctx, "snapshot failed",
			slog.String("key", key),
			slog.Any("error", err),
		)
	}
}

func decodeRecords(raw []byte) ([]chat.Document, error) {
	if !utf8.Valid(raw) {
		return nil, fmt.Errorf("%w: value is not valid UTF-8", chat.ErrCorruptValue)
	}
	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, fmt.Errorf("%w: %v", chat.ErrCorruptValue, err)
	}
	if items == nil {
		return nil, fmt.Errorf("%w: value is not an array", chat.ErrCorruptValue)
	}
	return decodeItems(items)
}

func decodeComposerData(raw []byte) ([]chat.Document, error) {
	if !utf8.Valid(raw) {
		return nil, fmt.Errorf("%w: value is not valid UTF-8", chat.ErrCorruptValue)
	}
	data, err := chat.ParseDocument(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", chat.ErrCorruptValue, err)
	}
	if !data.Has(composersField) {
		return []chat.Document{}, nil
	}
	items, ok := data.Array(composersField)
	if !ok {
		return nil, fmt.Errorf("%w: %s is not an array", chat.ErrCorruptValue, composersField)
	}
	return decodeItems(items)
}

func decodeItems(items []json.RawMessage) ([]chat.Document, error) {
	docs := make([]chat.Document, 0, len(items))
	for i, item := range items {
		doc, err := chat.ParseDocument(item)
		if err != nil {
			return nil, fmt.Errorf("%w: record %d: %v", chat.ErrCorruptValue, i, err)
		}
		docs = append(docs, doc)
	}
	return docs, nil
}

// pair interleaves prompts with their replies. A nil keep keeps every
// prompt and the unmatched generations.
func pair(prompts []chat.Prompt, generations []chat.Generation, keep func(chat.Prompt) bool) []chat.Message {
	byUUID := make(map[string]int, len(prompts))
	for i, p := range prompts {
		if p.UUID() == "" {
			continue
		}
		if _, seen := byUUID[p.UUID()]; !seen {
			byUUID[p.UUID()] = i
		}
	}

	replies := make([][]chat.Generation, len(prompts))
	var unmatched []chat.Generation
	for _, g := range generations {
		if i, ok := byUUID[g.PromptUUID()]; ok && g.PromptUUID() != "" {
			replies[i] = append(replies[i], g)
			continue
		}
		unmatched = append(unmatched, g)
	}

	for i := range prompts {
		if len(unmatched) == 0 {
			break
		}
		if len(replies[i]) == 0 {
			replies[i] = append(replies[i], unmatched[0])
			unmatched = unmatched[1:]
		}
	}

	messages := make([]chat.Message, 0, len(prompts)+len(generations))
	for i, p := range prompts {
		if keep != nil && !keep(p) {
			continue
		}
		messages = append(messages, promptMessage(p))
		for _, g := range replies[i] {
			messages = append(messages, generationMessage(g))
		}
	}
	if keep != nil {
		return messages
	}
	for _, g := range unmatched {
		messages = append(messages, generationMessage(g))
	}
	return messages
}

func promptMessage(p chat.Prompt) chat.Message {
	m := chat.Message{Role: chat.RoleUser, Content: p.Text()}
	if ts, ok := p.UnixMs(); ok {
		m.Timestamp = ts
	}
	if md := p.Metadata(); md.Len() > 0 {
		m.Metadata = &md
	}
	return m
}

func generationMessage(g chat.Generation) chat.Message {
	m := chat.Message{Role: chat.RoleAssistant, Content: g.Content(), Timestamp: g.UnixMs()}
	if md := g.Metadata(); md.Len() > 0 {
		m.Metadata = &md
	}
	return m
}

func earliest(messages []chat.Message) int64 {
	var first int64
	for _, m := range messages {
		if m.Timestamp > 0 && (first == 0 || m.Timestamp < first) {
			first = m.Timestamp
		}
	}
	return first
}

func mostRecent(composers []chat.Composer) chat.Composer {
	latest := composers[0]
	for _, c := range composers[1:] {
		if c.LastUpdatedAt() > latest.LastUpdatedAt() {
			latest = c
		}
	}
	return latest
}
