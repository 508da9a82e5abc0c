package ui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/noah-isme/sma-admin-tui/internal/models"
	"github.com/noah-isme/sma-admin-tui/internal/search"
	"github.com/noah-isme/sma-admin-tui/internal/service"
)

type feeModal int

const (
	feeModalNone feeModal = iota
	feeModalHistory
	feeModalAdd
	feeModalEditPayment
	feeModalConfirmPayment
)

var feeStatusCycle = []string{"", models.FeeStatusUnpaid, models.FeeStatusPaid, models.FeeStatusOverdue}

// historyState is the payment-history modal: payments for one student,
// optionally narrowed to a month, with its own selection cursor.
type historyState struct {
	studentID  string
	payments   []models.Payment
	cursor     Cursor
	monthInput textinput.Model
	month      string
	loading    bool
}

// feesModel is the ledger screen. In-flight fee-list and history requests
// are keyed by monotonically increasing tokens; a response carrying anything
// but the latest token is dropped, so a stale month-filtered history can
// never overwrite a newer unfiltered one.
type feesModel struct {
	ops     FeeOps
	exports ExportOps

	fees         []models.Fee
	visible      []models.Fee
	statusFilter string

	students []models.Student

	searchInput textinput.Model
	cursor      Cursor

	modal          feeModal
	history        historyState
	form           *feeForm
	payForm        *paymentForm
	confirmPayment *models.Payment

	feesToken    uint64
	historyToken uint64

	loading bool
	syncing bool
	spin    spinner.Model
	status  string
	errMsg  string
}

func newFeesModel(ops FeeOps, exports ExportOps) feesModel {
	searchInput := textinput.New()
	searchInput.Placeholder = "search fees"
	searchInput.CharLimit = 80

	monthInput := textinput.New()
	monthInput.Placeholder = "YYYY-MM"
	monthInput.CharLimit = 7

	spin := spinner.New()
	spin.Spinner = spinner.Dot

	return feesModel{
		ops:         ops,
		exports:     exports,
		searchInput: searchInput,
		cursor:      NewCursor(),
		history:     historyState{cursor: NewCursor(), monthInput: monthInput},
		spin:        spin,
	}
}

// setStudents shares the directory with the ledger screen for autocomplete
// and prefill lookups.
func (m *feesModel) setStudents(students []models.Student) {
	m.students = students
	if m.form != nil {
		m.form.students = students
	}
}

func (m *feesModel) fetchCmd() tea.Cmd {
	m.feesToken++
	token := m.feesToken
	ops := m.ops
	return func() tea.Msg {
		fees, err := ops.ListWithAmounts(context.Background())
		return feesLoadedMsg{token: token, fees: fees, err: err}
	}
}

// historyCmd issues a tokenised history request, filtered to month when one
// is set.
func (m *feesModel) historyCmd(studentID, month string) tea.Cmd {
	m.historyToken++
	token := m.historyToken
	ops := m.ops
	return func() tea.Msg {
		payments, err := ops.History(context.Background(), studentID)
		if err == nil {
			payments = service.FilterByMonth(payments, month)
		}
		return historyLoadedMsg{token: token, studentID: studentID, month: month, payments: payments, err: err}
	}
}

func (m *feesModel) markPaidCmd(studentID string, amount float64) tea.Cmd {
	ops := m.ops
	return func() tea.Msg {
		needsEntry, err := ops.MarkPaid(context.Background(), studentID, amount)
		return markPaidDoneMsg{studentID: studentID, amount: amount, needsEntry: needsEntry, err: err}
	}
}

func (m *feesModel) addFeeCmd() tea.Cmd {
	ops := m.ops
	req := m.form.request()
	return func() tea.Msg {
		err := ops.Add(context.Background(), req)
		return feeSavedMsg{studentID: req.StudentID, amount: req.Amount, status: req.Status, err: err}
	}
}

func (m *feesModel) updatePaymentCmd() tea.Cmd {
	ops := m.ops
	form := m.payForm
	return func() tea.Msg {
		return paymentSavedMsg{err: ops.UpdatePayment(context.Background(), form.paymentID, form.amount(), form.date())}
	}
}

func (m *feesModel) deletePaymentCmd(paymentID string) tea.Cmd {
	ops := m.ops
	return func() tea.Msg {
		return paymentDeletedMsg{err: ops.DeletePayment(context.Background(), paymentID)}
	}
}

func (m *feesModel) exportReceiptCmd() tea.Cmd {
	exports := m.exports
	studentID := m.history.studentID
	payments := m.history.payments
	return func() tea.Msg {
		path, err := exports.ReceiptPDF(studentID, payments)
		return exportDoneMsg{path: path, err: err}
	}
}

// overdueCmd runs the periodic recheck. The syncing flag serialises cycles:
// a tick arriving while one is in flight is skipped.
func (m *feesModel) overdueCmd() tea.Cmd {
	if m.syncing {
		return nil
	}
	m.syncing = true
	ops := m.ops
	return func() tea.Msg {
		return overdueCheckedMsg{err: ops.CheckOverdue(context.Background())}
	}
}

func (m *feesModel) capturesInput() bool {
	return m.modal != feeModalNone || m.searchInput.Focused()
}

func (m *feesModel) applyVisible() {
	base := m.fees
	if m.statusFilter != "" {
		base = make([]models.Fee, 0, len(m.fees))
		for _, fee := range m.fees {
			if fee.Status == m.statusFilter {
				base = append(base, fee)
			}
		}
	}
	m.visible = search.FilterFees(m.searchInput.Value(), base)
	m.cursor.Reconcile(len(m.visible))
}

func (m *feesModel) update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case feesLoadedMsg:
		if msg.token != m.feesToken {
			return nil
		}
		m.loading = false
		if msg.err != nil {
			m.errMsg = msg.err.Error()
			return nil
		}
		m.errMsg = ""
		m.fees = msg.fees
		m.status = fmt.Sprintf("%d fee records", len(msg.fees))
		m.applyVisible()
		return nil

	case historyLoadedMsg:
		if msg.token != m.historyToken {
			return nil
		}
		m.history.loading = false
		if msg.err != nil {
			m.errMsg = msg.err.Error()
			return nil
		}
		// No history at all: collect a full fee entry instead.
		if len(msg.payments) == 0 && msg.month == "" {
			m.modal = feeModalAdd
			m.form = newFeeForm(m.students, time.Now())
			m.form.prefill(m.studentLabel(msg.studentID), 0)
			return textinput.Blink
		}
		m.history.studentID = msg.studentID
		m.history.payments = msg.payments
		m.history.month = msg.month
		m.history.cursor.Reconcile(len(msg.payments))
		if m.modal != feeModalEditPayment && m.modal != feeModalConfirmPayment {
			m.modal = feeModalHistory
		}
		return nil

	case markPaidDoneMsg:
		if msg.err != nil {
			m.errMsg = msg.err.Error()
			return nil
		}
		if msg.needsEntry {
			m.modal = feeModalAdd
			m.form = newFeeForm(m.students, time.Now())
			m.form.prefill(m.studentLabel(msg.studentID), msg.amount)
			return textinput.Blink
		}
		m.status = "fee marked as paid"
		m.loading = true
		return tea.Batch(m.spin.Tick, m.fetchCmd())

	case feeSavedMsg:
		if m.form == nil {
			return nil
		}
		if !m.form.handleResult(msg.err) {
			return nil
		}
		m.form = nil
		m.modal = feeModalNone
		m.status = "fee added"
		// Best-effort local patch before the authoritative refresh.
		for i := range m.fees {
			if m.fees[i].StudentID == msg.studentID {
				m.fees[i].Amount = msg.amount
				m.fees[i].Status = msg.status
				break
			}
		}
		m.applyVisible()
		m.loading = true
		return tea.Batch(m.spin.Tick, m.fetchCmd())

	case paymentSavedMsg:
		if m.payForm == nil {
			return nil
		}
		if !m.payForm.handleResult(msg.err) {
			return nil
		}
		m.payForm = nil
		m.modal = feeModalHistory
		m.status = "payment updated"
		m.history.loading = true
		return tea.Batch(m.historyCmd(m.history.studentID, m.history.month), m.fetchCmd())

	case paymentDeletedMsg:
		m.confirmPayment = nil
		m.modal = feeModalHistory
		if msg.err != nil {
			m.errMsg = msg.err.Error()
			return nil
		}
		m.status = "payment deleted"
		m.history.loading = true
		return tea.Batch(m.historyCmd(m.history.studentID, m.history.month), m.fetchCmd())

	case overdueCheckedMsg:
		m.syncing = false
		if msg.err != nil {
			m.errMsg = msg.err.Error()
			return nil
		}
		return m.fetchCmd()

	case exportDoneMsg:
		if msg.err != nil {
			m.errMsg = msg.err.Error()
		} else {
			m.status = "exported " + msg.path
		}
		return nil

	case spinner.TickMsg:
		if !m.loading && !m.history.loading {
			return nil
		}
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return cmd

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return nil
}

func (m *feesModel) studentLabel(studentID string) string {
	for _, s := range m.students {
		if s.StudentID == studentID {
			return s.Label()
		}
	}
	return studentID
}

func (m *feesModel) handleKey(msg tea.KeyMsg) tea.Cmd {
	switch m.modal {
	case feeModalAdd:
		return m.handleAddKey(msg)
	case feeModalHistory:
		return m.handleHistoryKey(msg)
	case feeModalEditPayment:
		return m.handleEditPaymentKey(msg)
	case feeModalConfirmPayment:
		return m.handleConfirmPaymentKey(msg)
	}

	if m.searchInput.Focused() {
		return m.handleSearchKey(msg)
	}

	switch {
	case key.Matches(msg, keys.Search):
		m.searchInput.Focus()
		return textinput.Blink
	case key.Matches(msg, keys.Up):
		m.cursor.Move(-1, len(m.visible))
	case key.Matches(msg, keys.Down):
		m.cursor.Move(1, len(m.visible))
	case key.Matches(msg, keys.Enter), key.Matches(msg, keys.History):
		if idx, ok := m.cursor.Selected(len(m.visible)); ok {
			fee := m.visible[idx]
			if fee.StudentID == "" {
				return nil
			}
			m.history.loading = true
			m.history.monthInput.SetValue("")
			return tea.Batch(m.spin.Tick, m.historyCmd(fee.StudentID, ""))
		}
	case key.Matches(msg, keys.MarkPaid):
		if idx, ok := m.cursor.Selected(len(m.visible)); ok {
			fee := m.visible[idx]
			if fee.Status == models.FeeStatusUnpaid || fee.Status == models.FeeStatusOverdue {
				return m.markPaidCmd(fee.StudentID, fee.Amount)
			}
		}
	case key.Matches(msg, keys.Add):
		m.form = newFeeForm(m.students, time.Now())
		m.modal = feeModalAdd
		return textinput.Blink
	case msg.String() == "s":
		m.statusFilter = cycleOption(feeStatusCycle, m.statusFilter, 1)
		m.applyVisible()
	case key.Matches(msg, keys.Refresh):
		m.loading = true
		return tea.Batch(m.spin.Tick, m.fetchCmd())
	}
	return nil
}

func (m *feesModel) handleAddKey(msg tea.KeyMsg) tea.Cmd {
	if msg.String() == "esc" && !m.form.submitting && !m.form.ac.visible {
		m.form = nil
		m.modal = feeModalNone
		return nil
	}
	submit, cmd := m.form.Update(msg)
	if submit {
		m.form.submitting = true
		m.form.errMsg = ""
		return m.addFeeCmd()
	}
	return cmd
}

func (m *feesModel) handleHistoryKey(msg tea.KeyMsg) tea.Cmd {
	if m.history.monthInput.Focused() {
		switch msg.String() {
		case "enter":
			month := strings.TrimSpace(m.history.monthInput.Value())
			m.history.monthInput.Blur()
			m.history.loading = true
			return tea.Batch(m.spin.Tick, m.historyCmd(m.history.studentID, month))
		case "esc":
			// Clearing the filter refetches unfiltered; the token rule
			// guarantees a late filtered response cannot win.
			m.history.monthInput.SetValue("")
			m.history.monthInput.Blur()
			m.history.loading = true
			return tea.Batch(m.spin.Tick, m.historyCmd(m.history.studentID, ""))
		}
		var cmd tea.Cmd
		m.history.monthInput, cmd = m.history.monthInput.Update(msg)
		return cmd
	}

	switch msg.String() {
	case "esc":
		m.modal = feeModalNone
	case "up", "k":
		m.history.cursor.Move(-1, len(m.history.payments))
	case "down", "j":
		m.history.cursor.Move(1, len(m.history.payments))
	case "m":
		m.history.monthInput.Focus()
		return textinput.Blink
	case "e":
		if idx, ok := m.history.cursor.Selected(len(m.history.payments)); ok {
			m.payForm = newPaymentForm(m.history.payments[idx])
			m.modal = feeModalEditPayment
			return textinput.Blink
		}
	case "d":
		if idx, ok := m.history.cursor.Selected(len(m.history.payments)); ok {
			payment := m.history.payments[idx]
			m.confirmPayment = &payment
			m.modal = feeModalConfirmPayment
		}
	case "x":
		return m.exportReceiptCmd()
	}
	return nil
}

func (m *feesModel) handleEditPaymentKey(msg tea.KeyMsg) tea.Cmd {
	if msg.String() == "esc" && !m.payForm.submitting {
		m.payForm = nil
		m.modal = feeModalHistory
		return nil
	}
	submit, cmd := m.payForm.Update(msg)
	if submit {
		m.payForm.submitting = true
		m.payForm.errMsg = ""
		return m.updatePaymentCmd()
	}
	return cmd
}

func (m *feesModel) handleConfirmPaymentKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "y", "enter":
		if m.confirmPayment != nil {
			return m.deletePaymentCmd(m.confirmPayment.PaymentID)
		}
	case "n", "esc":
		m.confirmPayment = nil
		m.modal = feeModalHistory
	}
	return nil
}

func (m *feesModel) handleSearchKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "esc":
		m.searchInput.SetValue("")
		m.searchInput.Blur()
		m.applyVisible()
		return nil
	case "enter":
		m.searchInput.Blur()
		return nil
	case "up", "down":
		m.searchInput.Blur()
		if msg.String() == "up" {
			m.cursor.Move(-1, len(m.visible))
		} else {
			m.cursor.Move(1, len(m.visible))
		}
		return nil
	}
	var cmd tea.Cmd
	m.searchInput, cmd = m.searchInput.Update(msg)
	m.applyVisible()
	return cmd
}

func (m *feesModel) view() string {
	switch m.modal {
	case feeModalAdd:
		return m.form.View()
	case feeModalHistory:
		return m.historyView()
	case feeModalEditPayment:
		return m.payForm.View()
	case feeModalConfirmPayment:
		return m.confirmPaymentView()
	}

	var b strings.Builder
	b.WriteString("Search: " + m.searchInput.View())
	if m.statusFilter != "" {
		b.WriteString("   " + helpStyle.Render("status="+m.statusFilter))
	}
	b.WriteString("\n\n")

	if m.loading {
		b.WriteString(m.spin.View() + " loading fees...\n")
	} else if len(m.visible) == 0 {
		b.WriteString(helpStyle.Render("No fee records found.") + "\n")
	} else {
		b.WriteString(m.feeTable())
	}

	b.WriteString("\n")
	if m.errMsg != "" {
		b.WriteString(errorLineStyle.Render(m.errMsg) + "\n")
	} else if m.status != "" {
		b.WriteString(statusLineStyle.Render(m.status) + "\n")
	}
	b.WriteString(helpStyle.Render("↑/↓ select · enter history · p mark paid · a add fee · s status filter · / search · r refresh"))
	return b.String()
}

func (m *feesModel) feeTable() string {
	var b strings.Builder
	headers := []string{"Student ID", "Name", "Status", "Amount"}
	widths := []int{12, 26, 10, 10}
	b.WriteString(tableHeaderStyle.Render(formatCells(headers, widths)))
	b.WriteString("\n")
	rows := FeeRows(m.visible, m.cursor.Index())
	for i, row := range rows {
		if row.Selected {
			b.WriteString(selectedRowStyle.Render(formatCells(row.Cells, widths)))
		} else {
			status := m.visible[i].Status
			b.WriteString(padCell(row.Cells[0], widths[0]) + "  " +
				padCell(row.Cells[1], widths[1]) + "  " +
				statusStyle(status).Render(padCell(row.Cells[2], widths[2])) + "  " +
				padCell(row.Cells[3], widths[3]))
		}
		b.WriteString("\n")
	}
	return b.String()
}

func (m *feesModel) historyView() string {
	var b strings.Builder
	b.WriteString(modalTitleStyle.Render("Payment History"))
	b.WriteString("  " + helpStyle.Render(m.studentLabel(m.history.studentID)))
	b.WriteString("\n\n")
	b.WriteString("Month: " + m.history.monthInput.View())
	b.WriteString("\n\n")

	if m.history.loading {
		b.WriteString(m.spin.View() + " loading history...\n")
	} else if len(m.history.payments) == 0 {
		b.WriteString(helpStyle.Render("No payment history found.") + "\n")
	} else {
		for i, p := range m.history.payments {
			line := fmt.Sprintf("%s  %10.2f", p.Date, p.Amount)
			if i == m.history.cursor.Index() {
				b.WriteString(selectedRowStyle.Render(line))
			} else {
				b.WriteString(line)
			}
			b.WriteString("\n")
		}
	}

	b.WriteString("\n" + helpStyle.Render("↑/↓ select · e edit · d delete · m month filter · x receipt PDF · esc close"))
	return modalStyle.Render(b.String())
}

func (m *feesModel) confirmPaymentView() string {
	detail := ""
	if m.confirmPayment != nil {
		detail = fmt.Sprintf("%s (%.2f)", m.confirmPayment.Date, m.confirmPayment.Amount)
	}
	body := fmt.Sprintf("Delete payment %s?\n\n%s", detail, helpStyle.Render("y confirm · n cancel"))
	return modalStyle.Render(body)
}
