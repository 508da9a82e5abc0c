package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/sma-admin-tui/internal/api"
	"github.com/noah-isme/sma-admin-tui/internal/models"
	appErrors "github.com/noah-isme/sma-admin-tui/pkg/errors"
)

type stubFeeAPI struct {
	fees       []models.Fee
	paid       []models.Fee
	history    map[string][]models.Payment
	historyErr error

	addedFee    *api.FeeForm
	markedPaid  []string
	updatedID   string
	deletedID   string
	overdueRuns int
}

func (s *stubFeeAPI) ListFees(ctx context.Context) ([]models.Fee, error) { return s.fees, nil }
func (s *stubFeeAPI) ListPaidFees(ctx context.Context) ([]models.Fee, error) {
	return s.paid, nil
}
func (s *stubFeeAPI) PaymentHistory(ctx context.Context, studentID string) ([]models.Payment, error) {
	if s.historyErr != nil {
		return nil, s.historyErr
	}
	return s.history[studentID], nil
}
func (s *stubFeeAPI) AddFee(ctx context.Context, form api.FeeForm) error {
	s.addedFee = &form
	return nil
}
func (s *stubFeeAPI) MarkPaid(ctx context.Context, studentID string, amount float64) error {
	s.markedPaid = append(s.markedPaid, studentID)
	return nil
}
func (s *stubFeeAPI) UpdatePayment(ctx context.Context, paymentID string, amount float64, date string) error {
	s.updatedID = paymentID
	return nil
}
func (s *stubFeeAPI) DeletePayment(ctx context.Context, paymentID string) error {
	s.deletedID = paymentID
	return nil
}
func (s *stubFeeAPI) CheckOverdue(ctx context.Context) error {
	s.overdueRuns++
	return nil
}

func TestListWithAmountsUsesLatestPayment(t *testing.T) {
	client := &stubFeeAPI{
		fees: []models.Fee{{StudentID: "S1", Name: "Ann Lee", Status: models.FeeStatusPaid, Amount: 999}},
		history: map[string][]models.Payment{
			"S1": {
				{PaymentID: "p1", Amount: 100, Date: "2024-01-10"},
				{PaymentID: "p2", Amount: 150, Date: "2024-03-05"},
				{PaymentID: "p3", Amount: 120, Date: "2024-02-20"},
			},
		},
	}
	svc := NewFeeService(client, nil, nil)

	fees, err := svc.ListWithAmounts(context.Background())

	require.NoError(t, err)
	require.Len(t, fees, 1)
	assert.Equal(t, 150.0, fees[0].Amount, "displayed amount is the most recent payment")
}

func TestListWithAmountsSkipsFailedLookups(t *testing.T) {
	client := &stubFeeAPI{
		fees:       []models.Fee{{StudentID: "S1", Name: "Ann Lee", Amount: 75}},
		historyErr: errors.New("backend down"),
	}
	svc := NewFeeService(client, nil, nil)

	fees, err := svc.ListWithAmounts(context.Background())

	require.NoError(t, err, "one failed lookup never fails the whole list")
	require.Len(t, fees, 1)
	assert.Equal(t, 75.0, fees[0].Amount, "stored amount stays in place")
}

func TestListWithAmountsSkipsBlankStudentIDs(t *testing.T) {
	client := &stubFeeAPI{
		fees:    []models.Fee{{Name: "No ID", Amount: 50}},
		history: map[string][]models.Payment{},
	}
	svc := NewFeeService(client, nil, nil)

	fees, err := svc.ListWithAmounts(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 50.0, fees[0].Amount)
}

func TestHistorySortsNewestFirst(t *testing.T) {
	client := &stubFeeAPI{
		history: map[string][]models.Payment{
			"S1": {
				{PaymentID: "p1", Date: "2024-01-10"},
				{PaymentID: "p2", Date: "2024-03-05"},
			},
		},
	}
	svc := NewFeeService(client, nil, nil)

	payments, err := svc.History(context.Background(), "S1")

	require.NoError(t, err)
	require.Len(t, payments, 2)
	assert.Equal(t, "p2", payments[0].PaymentID)
}

func TestFilterByMonth(t *testing.T) {
	payments := []models.Payment{
		{PaymentID: "p1", Date: "2024-03-05"},
		{PaymentID: "p2", Date: "2024-01-10"},
		{PaymentID: "p3", Date: "2024-03-28"},
	}

	march := FilterByMonth(payments, "2024-03")
	require.Len(t, march, 2)
	assert.Equal(t, "p1", march[0].PaymentID)
	assert.Equal(t, "p3", march[1].PaymentID)

	all := FilterByMonth(payments, "")
	assert.Len(t, all, 3)

	none := FilterByMonth(payments, "2025-01")
	assert.Empty(t, none)
}

func TestMarkPaidWithHistory(t *testing.T) {
	client := &stubFeeAPI{
		paid: []models.Fee{{StudentID: "S1", Status: models.FeeStatusPaid}},
	}
	svc := NewFeeService(client, nil, nil)

	needsEntry, err := svc.MarkPaid(context.Background(), "S1", 150)

	require.NoError(t, err)
	assert.False(t, needsEntry)
	assert.Equal(t, []string{"S1"}, client.markedPaid)
}

func TestMarkPaidWithoutHistoryNeedsEntry(t *testing.T) {
	client := &stubFeeAPI{}
	svc := NewFeeService(client, nil, nil)

	needsEntry, err := svc.MarkPaid(context.Background(), "S1", 150)

	require.NoError(t, err)
	assert.True(t, needsEntry, "no paid history means a full fee entry is needed")
	assert.Empty(t, client.markedPaid)
}

func TestAddValidates(t *testing.T) {
	client := &stubFeeAPI{}
	svc := NewFeeService(client, nil, nil)

	err := svc.Add(context.Background(), FeeRequest{StudentID: "S1", Status: "paid", Amount: 0})
	require.Error(t, err)
	var appErr *appErrors.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, appErrors.ErrValidation.Code, appErr.Code)

	err = svc.Add(context.Background(), FeeRequest{StudentID: "S1", Status: "paid", Amount: 100, Date: "03-05-2024"})
	require.Error(t, err, "dates must be YYYY-MM-DD")

	err = svc.Add(context.Background(), FeeRequest{StudentID: "S1", Status: "paid", Amount: 100, Date: "2024-03-05"})
	require.NoError(t, err)
	require.NotNil(t, client.addedFee)
	assert.Equal(t, "S1", client.addedFee.StudentID)
}

func TestUpdatePaymentValidates(t *testing.T) {
	client := &stubFeeAPI{}
	svc := NewFeeService(client, nil, nil)

	require.Error(t, svc.UpdatePayment(context.Background(), "", 100, "2024-03-05"))
	require.Error(t, svc.UpdatePayment(context.Background(), "p1", 0, "2024-03-05"))
	require.Error(t, svc.UpdatePayment(context.Background(), "p1", 100, "not-a-date"))

	require.NoError(t, svc.UpdatePayment(context.Background(), "p1", 100, "2024-03-05"))
	assert.Equal(t, "p1", client.updatedID)
}

func TestDeletePayment(t *testing.T) {
	client := &stubFeeAPI{}
	svc := NewFeeService(client, nil, nil)

	require.Error(t, svc.DeletePayment(context.Background(), ""))

	require.NoError(t, svc.DeletePayment(context.Background(), "p1"))
	assert.Equal(t, "p1", client.deletedID)
}
