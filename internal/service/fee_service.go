package service

import (
	"context"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/sma-admin-tui/internal/api"
	"github.com/noah-isme/sma-admin-tui/internal/models"
	appErrors "github.com/noah-isme/sma-admin-tui/pkg/errors"
)

const dateLayout = "2006-01-02"

type feeAPI interface {
	ListFees(ctx context.Context) ([]models.Fee, error)
	ListPaidFees(ctx context.Context) ([]models.Fee, error)
	PaymentHistory(ctx context.Context, studentID string) ([]models.Payment, error)
	AddFee(ctx context.Context, form api.FeeForm) error
	MarkPaid(ctx context.Context, studentID string, amount float64) error
	UpdatePayment(ctx context.Context, paymentID string, amount float64, date string) error
	DeletePayment(ctx context.Context, paymentID string) error
	CheckOverdue(ctx context.Context) error
}

// FeeRequest holds the payload for creating a fee entry.
type FeeRequest struct {
	StudentID string  `validate:"required"`
	Status    string  `validate:"required,oneof=unpaid paid overdue"`
	Amount    float64 `validate:"gt=0"`
	Date      string
}

// FeeService handles ledger use-cases: listing with derived amounts, payment
// history, and payment mutations.
type FeeService struct {
	client    feeAPI
	validator *validator.Validate
	logger    *zap.Logger
}

// NewFeeService constructs the fee service.
func NewFeeService(client feeAPI, validate *validator.Validate, logger *zap.Logger) *FeeService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FeeService{client: client, validator: validate, logger: logger}
}

// ListWithAmounts fetches the ledger and recomputes each fee's displayed
// amount from the student's most recent payment. A failed history lookup
// leaves that fee's stored amount in place; it never fails the whole list.
func (s *FeeService) ListWithAmounts(ctx context.Context) ([]models.Fee, error) {
	fees, err := s.client.ListFees(ctx)
	if err != nil {
		return nil, err
	}
	for i := range fees {
		if fees[i].StudentID == "" {
			continue
		}
		history, err := s.client.PaymentHistory(ctx, fees[i].StudentID)
		if err != nil {
			s.logger.Warn("history lookup failed",
				zap.String("student_id", fees[i].StudentID),
				zap.Error(err))
			continue
		}
		if latest, ok := models.LatestPayment(history); ok {
			fees[i].Amount = latest.Amount
		}
	}
	return fees, nil
}

// History returns a student's payments sorted newest-first.
func (s *FeeService) History(ctx context.Context, studentID string) ([]models.Payment, error) {
	payments, err := s.client.PaymentHistory(ctx, studentID)
	if err != nil {
		return nil, err
	}
	models.SortPaymentsByDateDesc(payments)
	return payments, nil
}

// FilterByMonth keeps payments whose date falls in the given "2006-01"
// month. An empty month returns the input unchanged.
func FilterByMonth(payments []models.Payment, month string) []models.Payment {
	if month == "" {
		return payments
	}
	filtered := make([]models.Payment, 0, len(payments))
	for _, p := range payments {
		if strings.HasPrefix(p.Date, month) {
			filtered = append(filtered, p)
		}
	}
	return filtered
}

// MarkPaid records a payment for the student. When the student has no paid
// history yet the backend cannot apply a bare payment, so the caller must
// collect a full fee entry instead; that case is reported with needsEntry.
func (s *FeeService) MarkPaid(ctx context.Context, studentID string, amount float64) (needsEntry bool, err error) {
	paid, err := s.client.ListPaidFees(ctx)
	if err != nil {
		return false, err
	}
	hasHistory := false
	for _, fee := range paid {
		if fee.StudentID == studentID {
			hasHistory = true
			break
		}
	}
	if !hasHistory {
		return true, nil
	}
	if err := s.client.MarkPaid(ctx, studentID, amount); err != nil {
		return false, err
	}
	return false, nil
}

// Add creates a fee entry.
func (s *FeeService) Add(ctx context.Context, req FeeRequest) error {
	if err := s.validator.Struct(req); err != nil {
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid fee details")
	}
	if req.Date != "" {
		if _, err := time.Parse(dateLayout, req.Date); err != nil {
			return appErrors.Clone(appErrors.ErrValidation, "date must be YYYY-MM-DD")
		}
	}
	return s.client.AddFee(ctx, api.FeeForm{
		StudentID: req.StudentID,
		Status:    req.Status,
		Amount:    req.Amount,
		Date:      req.Date,
	})
}

// UpdatePayment modifies a recorded payment.
func (s *FeeService) UpdatePayment(ctx context.Context, paymentID string, amount float64, date string) error {
	if paymentID == "" {
		return appErrors.Clone(appErrors.ErrValidation, "missing payment id")
	}
	if amount <= 0 {
		return appErrors.Clone(appErrors.ErrValidation, "amount must be positive")
	}
	if _, err := time.Parse(dateLayout, date); err != nil {
		return appErrors.Clone(appErrors.ErrValidation, "date must be YYYY-MM-DD")
	}
	return s.client.UpdatePayment(ctx, paymentID, amount, date)
}

// DeletePayment removes a recorded payment.
func (s *FeeService) DeletePayment(ctx context.Context, paymentID string) error {
	if paymentID == "" {
		return appErrors.Clone(appErrors.ErrValidation, "missing payment id")
	}
	return s.client.DeletePayment(ctx, paymentID)
}

// CheckOverdue asks the backend to recompute overdue statuses.
func (s *FeeService) CheckOverdue(ctx context.Context) error {
	return s.client.CheckOverdue(ctx)
}
