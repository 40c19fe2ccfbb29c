// Package contextstore persists the rolling conversation window as a JSON file.
package contextstore

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/doeshing/cmdllm/internal/domain"
	"github.com/doeshing/cmdllm/internal/pkg/filesystem"
	"github.com/doeshing/cmdllm/internal/ports"
)

// DefaultFileName is the context log name under ~/.cmdllm.
const DefaultFileName = "context.json"

// FixedLimit is a ContextLimiter that always returns the same window size.
type FixedLimit int

// MaxContextMessages implements ports.ContextLimiter.
func (l FixedLimit) MaxContextMessages(context.Context) int {
	return int(l)
}

// FileStore keeps the context log as an indented JSON array of {role, content}
// records, oldest first. The file is read and rewritten whole on every
// mutation. The window size is looked up on every call, so lowering it never
// rewrites the file until the next append.
type FileStore struct {
	path    string
	limiter ports.ContextLimiter
	logger  ports.Logger
	mu      sync.Mutex
}

// NewFileStore creates a store at path; an empty path selects ~/.cmdllm/context.json.
func NewFileStore(path string, limiter ports.ContextLimiter, logger ports.Logger) *FileStore {
	if path == "" {
		path = filesystem.AppPath(DefaultFileName)
	}
	return &FileStore{path: filesystem.ExpandHome(path), limiter: limiter, logger: logger}
}

// Path returns the backing file path.
func (s *FileStore) Path() string {
	return s.path
}

// Append adds entries at the end of the log and writes back the last
// maxMessages of them. Writing is best effort and not crash atomic.
func (s *FileStore) Append(ctx context.Context, entries ...domain.ContextEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	log := append(s.load(), entries...)
	log = tail(log, s.limit(ctx))

	if err := os.MkdirAll(filepath.Dir(s.path), domain.DirectoryPermissions); err != nil {
		return fmt.Errorf("create context dir: %w", err)
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(log); err != nil {
		return fmt.Errorf("encode context: %w", err)
	}
	if err := os.WriteFile(s.path, buf.Bytes(), domain.DataFilePermissions); err != nil {
		return fmt.Errorf("write context: %w", err)
	}
	return nil
}

// Recent returns at most maxMessages of the newest entries. ok is false when
// the log is empty, missing or unreadable.
func (s *FileStore) Recent(ctx context.Context) ([]domain.ContextEntry, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	log := tail(s.load(), s.limit(ctx))
	if len(log) == 0 {
		return nil, false
	}
	return log, true
}

// All returns the persisted log without applying the window.
func (s *FileStore) All(context.Context) []domain.ContextEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load()
}

// Clear deletes the log file. Clearing a missing log is not an error.
func (s *FileStore) Clear(context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := os.Remove(s.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove context: %w", err)
	}
	return nil
}

func (s *FileStore) load() []domain.ContextEntry {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			s.logger.Warn("context unreadable, starting empty", map[string]interface{}{"path": s.path, "error": err.Error()})
		}
		return nil
	}
	var log []domain.ContextEntry
	if err := json.Unmarshal(data, &log); err != nil {
		s.logger.Warn("context corrupt, starting empty", map[string]interface{}{"path": s.path, "error": err.Error()})
		return nil
	}
	return log
}

func (s *FileStore) limit(ctx context.Context) int {
	n := domain.DefaultMaxContextMessages
	if s.limiter != nil {
		n = s.limiter.MaxContextMessages(ctx)
	}
	if n < 1 {
		n = 1
	}
	return n
}

func tail(log []domain.ContextEntry, n int) []domain.ContextEntry {
	if len(log) <= n {
		return log
	}
	return log[len(log)-n:]
}

var _ ports.ContextStore = (*FileStore)(nil)
