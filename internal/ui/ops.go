package ui

import (
	"context"

	"github.com/noah-isme/sma-admin-tui/internal/models"
	"github.com/noah-isme/sma-admin-tui/internal/service"
)

// StudentOps is the directory service surface the UI depends on.
type StudentOps interface {
	List(ctx context.Context) (students []models.Student, fromCache bool, err error)
	Create(ctx context.Context, req service.StudentRequest) error
	Update(ctx context.Context, id string, req service.StudentRequest) error
	Delete(ctx context.Context, id string) error
}

// FeeOps is the ledger service surface the UI depends on.
type FeeOps interface {
	ListWithAmounts(ctx context.Context) ([]models.Fee, error)
	History(ctx context.Context, studentID string) ([]models.Payment, error)
	MarkPaid(ctx context.Context, studentID string, amount float64) (needsEntry bool, err error)
	Add(ctx context.Context, req service.FeeRequest) error
	UpdatePayment(ctx context.Context, paymentID string, amount float64, date string) error
	DeletePayment(ctx context.Context, paymentID string) error
	CheckOverdue(ctx context.Context) error
}

// ExportOps writes directory and receipt exports to disk.
type ExportOps interface {
	DirectoryCSV(students []models.Student) (string, error)
	ReceiptPDF(studentID string, payments []models.Payment) (string, error)
}
