package store

import (
	"encoding/json"
	"fmt"

	"go.uber.org/zap"

	"github.com/noah-isme/sma-admin-tui/internal/models"
)

const snapshotFile = "students.json"

// fileStore abstracts the on-disk backing (pkg/storage.LocalStorage).
type fileStore interface {
	Save(filename string, data []byte) (string, error)
	Load(filename string) ([]byte, error)
}

// SnapshotStore mirrors the last successfully fetched student list to disk.
// The mirror is a best-effort read fallback only: it is overwritten by every
// successful fetch and never treated as authoritative.
type SnapshotStore struct {
	files  fileStore
	logger *zap.Logger
}

// NewSnapshotStore builds a snapshot store on top of a file store.
func NewSnapshotStore(files fileStore, logger *zap.Logger) *SnapshotStore {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SnapshotStore{files: files, logger: logger}
}

// Save replaces the snapshot with the given student list.
func (s *SnapshotStore) Save(students []models.Student) error {
	data, err := json.Marshal(students)
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}
	if _, err := s.files.Save(snapshotFile, data); err != nil {
		return fmt.Errorf("write snapshot: %w", err)
	}
	return nil
}

// Load reads the last saved student list back.
func (s *SnapshotStore) Load() ([]models.Student, error) {
	data, err := s.files.Load(snapshotFile)
	if err != nil {
		return nil, fmt.Errorf("read snapshot: %w", err)
	}
	var students []models.Student
	if err := json.Unmarshal(data, &students); err != nil {
		return nil, fmt.Errorf("decode snapshot: %w", err)
	}
	return students, nil
}
