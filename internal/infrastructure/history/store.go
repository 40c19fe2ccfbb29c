// Package history keeps an audit log of processed turns.
package history

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/doeshing/cmdllm/internal/domain"
	"github.com/doeshing/cmdllm/internal/pkg/filesystem"
	"github.com/doeshing/cmdllm/internal/ports"
)

// DefaultFileName is the database name under ~/.cmdllm.
const DefaultFileName = "history.db"

// Store is a history repository that can also export itself.
type Store interface {
	ports.HistoryRepository
	Path() string
}

// Open returns a SQLite store at path, or a JSONL file store beside it when
// the database cannot be opened.
func Open(path string, logger ports.Logger) Store {
	if path == "" {
		path = filesystem.AppPath(DefaultFileName)
	}
	path = filesystem.ExpandHome(path)
	store, err := NewSQLiteStore(path)
	if err != nil {
		fallback := strings.TrimSuffix(path, filepath.Ext(path)) + ".jsonl"
		logger.Warn("sqlite history unavailable, using jsonl", map[string]interface{}{
			"error":    err.Error(),
			"fallback": fallback,
		})
		return NewFileStore(fallback)
	}
	return store
}

// ExportJSONL writes every record of repo, oldest first, one JSON object per line.
func ExportJSONL(ctx context.Context, repo ports.HistoryRepository, dest string) (int, error) {
	records, err := repo.Records(ctx, 0, "")
	if err != nil {
		return 0, err
	}
	if err := os.MkdirAll(filepath.Dir(dest), domain.DirectoryPermissions); err != nil {
		return 0, err
	}
	file, err := os.Create(dest)
	if err != nil {
		return 0, err
	}
	defer file.Close()

	enc := json.NewEncoder(file)
	enc.SetEscapeHTML(false)
	for i := len(records) - 1; i >= 0; i-- {
		if err := enc.Encode(records[i]); err != nil {
			return 0, fmt.Errorf("export record: %w", err)
		}
	}
	return len(records), nil
}

func matches(record domain.HistoryRecord, search string) bool {
	if search == "" {
		return true
	}
	search = strings.ToLower(search)
	return strings.Contains(strings.ToLower(record.Query), search) ||
		strings.Contains(strings.ToLower(record.Command), search)
}
