package ui

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/sma-admin-tui/internal/models"
	"github.com/noah-isme/sma-admin-tui/internal/service"
)

type stubFeeOps struct {
	fees          []models.Fee
	history       []models.Payment
	markPaidCalls int
}

func (s *stubFeeOps) ListWithAmounts(ctx context.Context) ([]models.Fee, error) { return s.fees, nil }
func (s *stubFeeOps) History(ctx context.Context, studentID string) ([]models.Payment, error) {
	return s.history, nil
}
func (s *stubFeeOps) MarkPaid(ctx context.Context, studentID string, amount float64) (bool, error) {
	s.markPaidCalls++
	return false, nil
}
func (s *stubFeeOps) Add(ctx context.Context, req service.FeeRequest) error { return nil }
func (s *stubFeeOps) UpdatePayment(ctx context.Context, paymentID string, amount float64, date string) error {
	return nil
}
func (s *stubFeeOps) DeletePayment(ctx context.Context, paymentID string) error { return nil }
func (s *stubFeeOps) CheckOverdue(ctx context.Context) error                    { return nil }

type stubExportOps struct{}

func (stubExportOps) DirectoryCSV(students []models.Student) (string, error) {
	return "students.csv", nil
}
func (stubExportOps) ReceiptPDF(studentID string, payments []models.Payment) (string, error) {
	return "receipt.pdf", nil
}

func newTestFeesModel(ops *stubFeeOps) feesModel {
	return newFeesModel(ops, stubExportOps{})
}

func TestFeesLoadedStaleTokenDiscarded(t *testing.T) {
	m := newTestFeesModel(&stubFeeOps{})

	_ = m.fetchCmd() // token 1
	_ = m.fetchCmd() // token 2

	fresh := []models.Fee{{StudentID: "S1", Name: "Ann Lee", Status: models.FeeStatusPaid}}
	m.update(feesLoadedMsg{token: 2, fees: fresh})
	require.Len(t, m.fees, 1)

	stale := []models.Fee{{StudentID: "S9", Name: "Old Data", Status: models.FeeStatusUnpaid}}
	m.update(feesLoadedMsg{token: 1, fees: stale})

	require.Len(t, m.fees, 1)
	assert.Equal(t, "Ann Lee", m.fees[0].Name, "stale response must not overwrite the newer one")
}

func TestHistoryStaleMonthFilterDiscarded(t *testing.T) {
	m := newTestFeesModel(&stubFeeOps{})

	// A month-filtered request goes out, then the user clears the filter
	// before it lands. The filtered response arrives last and must lose.
	_ = m.historyCmd("S1", "2024-03") // token 1
	_ = m.historyCmd("S1", "")        // token 2

	full := []models.Payment{
		{PaymentID: "p1", Amount: 150, Date: "2024-03-05"},
		{PaymentID: "p2", Amount: 100, Date: "2024-01-10"},
	}
	m.update(historyLoadedMsg{token: 2, studentID: "S1", payments: full})
	require.Len(t, m.history.payments, 2)

	filtered := []models.Payment{{PaymentID: "p1", Amount: 150, Date: "2024-03-05"}}
	m.update(historyLoadedMsg{token: 1, studentID: "S1", month: "2024-03", payments: filtered})

	assert.Len(t, m.history.payments, 2, "stale filtered history must not replace the unfiltered list")
	assert.Equal(t, "", m.history.month)
}

func TestHistoryLoadedOpensModal(t *testing.T) {
	m := newTestFeesModel(&stubFeeOps{})
	_ = m.historyCmd("S1", "")

	payments := []models.Payment{{PaymentID: "p1", Amount: 150, Date: "2024-03-05"}}
	m.update(historyLoadedMsg{token: 1, studentID: "S1", payments: payments})

	assert.Equal(t, feeModalHistory, m.modal)
	assert.Equal(t, "S1", m.history.studentID)
}

func TestHistoryEmptyWithoutMonthOpensFeeEntry(t *testing.T) {
	m := newTestFeesModel(&stubFeeOps{})
	m.setStudents([]models.Student{{StudentID: "S1", Name: "Ann Lee"}})
	_ = m.historyCmd("S1", "")

	m.update(historyLoadedMsg{token: 1, studentID: "S1"})

	require.Equal(t, feeModalAdd, m.modal)
	require.NotNil(t, m.form)
	assert.Equal(t, "Ann Lee: S1", m.form.studentInput.Value())
}

func TestMarkPaidNeedsEntryOpensPrefilledForm(t *testing.T) {
	m := newTestFeesModel(&stubFeeOps{})
	m.setStudents([]models.Student{{StudentID: "S1", Name: "Ann Lee"}})

	m.update(markPaidDoneMsg{studentID: "S1", amount: 200, needsEntry: true})

	require.Equal(t, feeModalAdd, m.modal)
	require.NotNil(t, m.form)
	assert.Equal(t, "Ann Lee: S1", m.form.studentInput.Value())
	assert.Equal(t, "200", m.form.amountInput.Value())
	assert.Equal(t, models.FeeStatusPaid, m.form.status())
}

func TestFeeSavedPatchesLocallyBeforeRefresh(t *testing.T) {
	m := newTestFeesModel(&stubFeeOps{})
	m.fees = []models.Fee{{StudentID: "S1", Name: "Ann Lee", Status: models.FeeStatusUnpaid}}
	m.applyVisible()
	m.form = newFeeForm(nil, time.Now())
	m.modal = feeModalAdd

	cmd := m.update(feeSavedMsg{studentID: "S1", amount: 300, status: models.FeeStatusPaid})

	assert.NotNil(t, cmd, "an authoritative refresh follows the local patch")
	assert.Equal(t, feeModalNone, m.modal)
	require.Len(t, m.fees, 1)
	assert.Equal(t, models.FeeStatusPaid, m.fees[0].Status)
	assert.Equal(t, 300.0, m.fees[0].Amount)
}

func TestFeeSavedFailureKeepsDialogOpen(t *testing.T) {
	m := newTestFeesModel(&stubFeeOps{})
	m.form = newFeeForm(nil, time.Now())
	m.form.submitting = true
	m.modal = feeModalAdd

	m.update(feeSavedMsg{err: assert.AnError})

	assert.Equal(t, feeModalAdd, m.modal)
	require.NotNil(t, m.form)
	assert.NotEmpty(t, m.form.errMsg)
}

func TestStatusFilterNarrowsVisible(t *testing.T) {
	m := newTestFeesModel(&stubFeeOps{})
	m.fees = []models.Fee{
		{StudentID: "S1", Name: "Ann Lee", Status: models.FeeStatusPaid},
		{StudentID: "S2", Name: "Bob Stone", Status: models.FeeStatusUnpaid},
	}
	m.statusFilter = models.FeeStatusUnpaid
	m.applyVisible()

	require.Len(t, m.visible, 1)
	assert.Equal(t, "Bob Stone", m.visible[0].Name)
}

func TestOverdueCyclesSerialized(t *testing.T) {
	m := newTestFeesModel(&stubFeeOps{})

	first := m.overdueCmd()
	require.NotNil(t, first)
	assert.True(t, m.syncing)

	assert.Nil(t, m.overdueCmd(), "a tick during an in-flight cycle is skipped")

	cmd := m.update(overdueCheckedMsg{})
	assert.False(t, m.syncing)
	assert.NotNil(t, cmd, "a completed cycle refreshes the ledger")
}
