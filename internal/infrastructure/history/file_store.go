package history

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/doeshing/cmdllm/internal/domain"
)

// FileStore appends history records to a jsonl file.
type FileStore struct {
	path string
	mu   sync.Mutex
}

// NewFileStore creates a store backed by the jsonl file at path.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Save appends record as one line.
func (f *FileStore) Save(_ context.Context, record domain.HistoryRecord) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if record.Timestamp.IsZero() {
		record.Timestamp = time.Now()
	}
	if err := os.MkdirAll(filepath.Dir(f.path), domain.DirectoryPermissions); err != nil {
		return err
	}
	file, err := os.OpenFile(f.path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, domain.DataFilePermissions)
	if err != nil {
		return err
	}
	defer file.Close()
	data, err := json.Marshal(record)
	if err != nil {
		return err
	}
	_, err = file.Write(append(data, '\n'))
	return err
}

// Records loads history entries newest first (best-effort; bad lines are skipped).
func (f *FileStore) Records(_ context.Context, limit int, search string) ([]domain.HistoryRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	all, err := f.readAll()
	if err != nil {
		return nil, err
	}
	var records []domain.HistoryRecord
	for i := len(all) - 1; i >= 0; i-- {
		if !matches(all[i], search) {
			continue
		}
		records = append(records, all[i])
		if limit > 0 && len(records) == limit {
			break
		}
	}
	return records, nil
}

// Clear removes the history file.
func (f *FileStore) Clear(context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := os.Remove(f.path); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// PruneOlderThan rewrites the file without records older than days.
func (f *FileStore) PruneOlderThan(_ context.Context, days int) (int64, error) {
	if days <= 0 {
		return 0, nil
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	all, err := f.readAll()
	if err != nil || len(all) == 0 {
		return 0, err
	}
	cutoff := time.Now().AddDate(0, 0, -days)
	var buf bytes.Buffer
	var removed int64
	for _, rec := range all {
		if rec.Timestamp.Before(cutoff) {
			removed++
			continue
		}
		data, err := json.Marshal(rec)
		if err != nil {
			return 0, err
		}
		buf.Write(append(data, '\n'))
	}
	if removed == 0 {
		return 0, nil
	}
	return removed, os.WriteFile(f.path, buf.Bytes(), domain.DataFilePermissions)
}

// Path returns the backing file path.
func (f *FileStore) Path() string {
	return f.path
}

// Close is a no-op.
func (f *FileStore) Close() error {
	return nil
}

func (f *FileStore) readAll() ([]domain.HistoryRecord, error) {
	data, err := os.ReadFile(f.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	var records []domain.HistoryRecord
	for _, line := range bytes.Split(bytes.TrimSpace(data), []byte("\n")) {
		if len(line) == 0 {
			continue
		}
		var rec domain.HistoryRecord
		if err := json.Unmarshal(line, &rec); err == nil {
			records = append(records, rec)
		}
	}
	return records, nil
}

var _ Store = (*FileStore)(nil)
