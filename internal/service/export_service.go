package service

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/sma-admin-tui/internal/models"
	"github.com/noah-isme/sma-admin-tui/pkg/export"
)

type exportStorage interface {
	Save(filename string, data []byte) (string, error)
}

// ExportService renders the student directory and payment receipts to files
// under the exports directory.
type ExportService struct {
	csv     *export.CSVExporter
	pdf     *export.PDFExporter
	storage exportStorage
	logger  *zap.Logger
	now     func() time.Time
}

// NewExportService constructs the export service.
func NewExportService(storage exportStorage, logger *zap.Logger) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ExportService{
		csv:     export.NewCSVExporter(),
		pdf:     export.NewPDFExporter(),
		storage: storage,
		logger:  logger,
		now:     time.Now,
	}
}

// DirectoryCSV writes the current student list as CSV and returns the
// written path.
func (s *ExportService) DirectoryCSV(students []models.Student) (string, error) {
	data := export.Dataset{
		Headers: []string{"Student ID", "Name", "Father's Name", "Email", "Phone", "Gender", "DOB", "Course", "Session", "Address"},
	}
	for _, st := range students {
		data.Rows = append(data.Rows, []string{
			st.StudentID, st.Name, st.FatherName, st.Email, st.Phone,
			st.Gender, st.DOB, st.Course, st.Session, st.Address,
		})
	}
	rendered, err := s.csv.Render(data)
	if err != nil {
		return "", err
	}
	filename := fmt.Sprintf("students-%s.csv", s.now().Format("20060102-150405"))
	path, err := s.storage.Save(filename, rendered)
	if err != nil {
		return "", err
	}
	s.logger.Info("directory exported", zap.String("path", path), zap.Int("students", len(students)))
	return path, nil
}

// ReceiptPDF writes a student's payment history as a PDF receipt and returns
// the written path.
func (s *ExportService) ReceiptPDF(studentID string, payments []models.Payment) (string, error) {
	data := export.Dataset{Headers: []string{"Payment ID", "Date", "Amount"}}
	var total float64
	for _, p := range payments {
		data.Rows = append(data.Rows, []string{p.PaymentID, p.Date, fmt.Sprintf("%.2f", p.Amount)})
		total += p.Amount
	}
	data.Rows = append(data.Rows, []string{"", "Total", fmt.Sprintf("%.2f", total)})

	subtitle := fmt.Sprintf("Student %s - generated %s", studentID, s.now().Format("2006-01-02"))
	rendered, err := s.pdf.Render(data, "Payment History", subtitle)
	if err != nil {
		return "", err
	}
	filename := fmt.Sprintf("receipt-%s-%s.pdf", studentID, s.now().Format("20060102-150405"))
	path, err := s.storage.Save(filename, rendered)
	if err != nil {
		return "", err
	}
	s.logger.Info("receipt exported", zap.String("path", path), zap.String("student_id", studentID))
	return path, nil
}
