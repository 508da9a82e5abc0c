package service

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/sma-admin-tui/internal/models"
)

type stubExportStorage struct {
	filename string
	data     []byte
}

func (s *stubExportStorage) Save(filename string, data []byte) (string, error) {
	s.filename = filename
	s.data = data
	return "/exports/" + filename, nil
}

func fixedNow() time.Time {
	return time.Date(2024, 3, 5, 14, 30, 0, 0, time.UTC)
}

func TestDirectoryCSV(t *testing.T) {
	storage := &stubExportStorage{}
	svc := NewExportService(storage, nil)
	svc.now = fixedNow

	path, err := svc.DirectoryCSV([]models.Student{
		{StudentID: "S1", Name: "Ann Lee", Email: "ann@example.com", Course: "science"},
	})

	require.NoError(t, err)
	assert.Equal(t, "/exports/students-20240305-143000.csv", path)

	content := string(storage.data)
	assert.True(t, strings.HasPrefix(content, "Student ID,Name"), "header row comes first")
	assert.Contains(t, content, "S1,Ann Lee")
	assert.Contains(t, content, "ann@example.com")
}

func TestReceiptPDF(t *testing.T) {
	storage := &stubExportStorage{}
	svc := NewExportService(storage, nil)
	svc.now = fixedNow

	path, err := svc.ReceiptPDF("S1", []models.Payment{
		{PaymentID: "p1", Amount: 150, Date: "2024-03-05"},
		{PaymentID: "p2", Amount: 100, Date: "2024-01-10"},
	})

	require.NoError(t, err)
	assert.Equal(t, "/exports/receipt-S1-20240305-143000.pdf", path)
	assert.True(t, strings.HasPrefix(string(storage.data), "%PDF"), "output is a PDF document")
}
