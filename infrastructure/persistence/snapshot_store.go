package persistence

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/helixml/hackai-log/domain/chat"
)

// PromptsKey is the store key holding the prompt history.
const PromptsKey = "aiService.prompts"

// SnapshotStore writes decoded record sets as pretty-printed JSON files.
// Writes are serialized and atomic.
type SnapshotStore struct {
	dir    string
	mu     *sync.Mutex
	logger *slog.Logger
}

// NewSnapshotStore creates a SnapshotStore writing into dir.
func NewSnapshotStore(dir string, logger *slog.Logger) SnapshotStore {
	if dir == "" {
		dir = "."
	}
	if logger == nil {
		logger = slog.Default()
	}
	return SnapshotStore{dir: dir, mu: &sync.Mutex{}, logger: logger}
}

// SnapshotFileName returns the file a key's snapshot is written to.
func SnapshotFileName(key string) string {
	if key == PromptsKey {
		return "extracted-prompts.json"
	}
	suffix := key
	if i := strings.LastIndex(key, "."); i >= 0 && i < len(key)-1 {
		suffix = key[i+1:]
	}
	suffix = strings.Map(func(r rune) rune {
		if r == '/' || r == '\\' || r == os.PathSeparator {
			return '_'
		}
		return r
	}, suffix)
	return "extracted-" + suffix + ".json"
}

// Path returns the snapshot path for key.
func (s SnapshotStore) Path(key string) string {
	return filepath.Join(s.dir, SnapshotFileName(key))
}

// Write replaces the snapshot of key with records.
func (s SnapshotStore) Write(ctx context.Context, key string, records []chat.Document) error {
	if records == nil {
		records = []chat.Document{}
	}
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("create snapshot dir: %w", err)
	}

	tmp, err := os.CreateTemp(s.dir, ".snapshot-*.tmp")
	if err != nil {
		return fmt.Errorf("create temp snapshot: %w", err)
	}
	tmpName := tmp.Name()
	defer func() { _ = os.Remove(tmpName) }()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write snapshot: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close snapshot: %w", err)
	}

	path := s.Path(key)
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("rename snapshot: %w", err)
	}

	s.logger.DebugContext(ctx, "snapshot written", slog.String("path", path), slog.Int("records", len(records)))
	return nil
}
