package store

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/sma-admin-tui/internal/models"
)

type memoryFileStore struct {
	files map[string][]byte
}

func newMemoryFileStore() *memoryFileStore {
	return &memoryFileStore{files: map[string][]byte{}}
}

func (m *memoryFileStore) Save(filename string, data []byte) (string, error) {
	m.files[filename] = data
	return filename, nil
}

func (m *memoryFileStore) Load(filename string) ([]byte, error) {
	data, ok := m.files[filename]
	if !ok {
		return nil, errors.New("not found")
	}
	return data, nil
}

func TestSnapshotRoundTrip(t *testing.T) {
	files := newMemoryFileStore()
	store := NewSnapshotStore(files, nil)

	students := []models.Student{
		{ID: "1", StudentID: "S1", Name: "Ann Lee", Course: "science"},
		{ID: "2", StudentID: "S2", Name: "Bob Stone"},
	}
	require.NoError(t, store.Save(students))

	loaded, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, students, loaded)
}

func TestSnapshotSaveOverwrites(t *testing.T) {
	files := newMemoryFileStore()
	store := NewSnapshotStore(files, nil)

	require.NoError(t, store.Save([]models.Student{{ID: "1", Name: "Ann Lee"}}))
	require.NoError(t, store.Save([]models.Student{{ID: "2", Name: "Bob Stone"}}))

	loaded, err := store.Load()
	require.NoError(t, err)
	require.Len(t, loaded, 1)
	assert.Equal(t, "Bob Stone", loaded[0].Name)
}

func TestSnapshotLoadMissing(t *testing.T) {
	store := NewSnapshotStore(newMemoryFileStore(), nil)

	_, err := store.Load()

	require.Error(t, err)
}

func TestSnapshotLoadCorrupt(t *testing.T) {
	files := newMemoryFileStore()
	files.files["students.json"] = []byte("{not json")
	store := NewSnapshotStore(files, nil)

	_, err := store.Load()

	require.Error(t, err)
}
