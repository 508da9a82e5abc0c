package ui

import (
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/noah-isme/sma-admin-tui/internal/models"
	"github.com/noah-isme/sma-admin-tui/internal/service"
)

const (
	feeFieldStudent = iota
	feeFieldAmount
	feeFieldDate
	feeFieldStatus
	feeFieldCount
)

var feeStatuses = []string{models.FeeStatusPaid, models.FeeStatusUnpaid, models.FeeStatusOverdue}

// feeForm is the add-fee dialog: a combined "Name: student_id" field with
// autocomplete, amount, date and a cycling status selector. New forms default
// to status paid with today's date.
type feeForm struct {
	studentInput textinput.Model
	amountInput  textinput.Model
	dateInput    textinput.Model
	statusIdx    int
	focus        int
	ac           autocomplete
	students     []models.Student
	submitting   bool
	errMsg       string
}

func newFeeForm(students []models.Student, now time.Time) *feeForm {
	f := &feeForm{students: students}

	f.studentInput = textinput.New()
	f.studentInput.Placeholder = "student name or ID"
	f.studentInput.CharLimit = 120
	f.studentInput.Focus()

	f.amountInput = textinput.New()
	f.amountInput.Placeholder = "amount"
	f.amountInput.CharLimit = 20

	f.dateInput = textinput.New()
	f.dateInput.Placeholder = "YYYY-MM-DD"
	f.dateInput.CharLimit = 10
	f.dateInput.SetValue(now.Format("2006-01-02"))

	return f
}

// prefill fills the form for a known student, used when marking a fee paid
// for a student with no payment history yet.
func (f *feeForm) prefill(label string, amount float64) {
	f.studentInput.SetValue(label)
	f.studentInput.CursorEnd()
	if amount > 0 {
		f.amountInput.SetValue(strconv.FormatFloat(amount, 'f', -1, 64))
	}
}

func (f *feeForm) status() string {
	return feeStatuses[f.statusIdx]
}

// Update handles key input; it reports submit when the user confirms the
// whole form.
func (f *feeForm) Update(msg tea.Msg) (submit bool, cmd tea.Cmd) {
	if f.submitting {
		return false, nil
	}
	keyMsg, isKey := msg.(tea.KeyMsg)
	if !isKey {
		return false, f.updateFocused(msg)
	}

	// Suggestion navigation wins over field navigation while the list is up.
	if f.focus == feeFieldStudent && f.ac.visible {
		switch keyMsg.String() {
		case "down":
			f.ac.Cycle(1)
			return false, nil
		case "up":
			f.ac.Cycle(-1)
			return false, nil
		case "enter":
			if label, ok := f.ac.Current(); ok {
				f.studentInput.SetValue(label)
				f.studentInput.CursorEnd()
			}
			f.ac.Dismiss()
			return false, nil
		case "esc":
			f.ac.Dismiss()
			return false, nil
		}
	}

	switch keyMsg.String() {
	case "tab", "down":
		f.setFocus(f.focus + 1)
		return false, nil
	case "shift+tab", "up":
		f.setFocus(f.focus - 1)
		return false, nil
	case "left":
		if f.focus == feeFieldStatus {
			f.statusIdx = ((f.statusIdx-1)%len(feeStatuses) + len(feeStatuses)) % len(feeStatuses)
			return false, nil
		}
	case "right":
		if f.focus == feeFieldStatus {
			f.statusIdx = (f.statusIdx + 1) % len(feeStatuses)
			return false, nil
		}
	case "enter":
		if f.focus >= feeFieldStatus {
			return true, nil
		}
		f.setFocus(f.focus + 1)
		return false, nil
	case "ctrl+s":
		return true, nil
	}
	return false, f.updateFocused(msg)
}

func (f *feeForm) updateFocused(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	switch f.focus {
	case feeFieldStudent:
		before := f.studentInput.Value()
		f.studentInput, cmd = f.studentInput.Update(msg)
		if f.studentInput.Value() != before {
			f.ac.Refresh(f.studentInput.Value(), f.students)
		}
	case feeFieldAmount:
		f.amountInput, cmd = f.amountInput.Update(msg)
	case feeFieldDate:
		f.dateInput, cmd = f.dateInput.Update(msg)
	}
	return cmd
}

func (f *feeForm) setFocus(index int) {
	index = ((index % feeFieldCount) + feeFieldCount) % feeFieldCount
	f.studentInput.Blur()
	f.amountInput.Blur()
	f.dateInput.Blur()
	f.ac.Dismiss()
	f.focus = index
	switch index {
	case feeFieldStudent:
		f.studentInput.Focus()
	case feeFieldAmount:
		f.amountInput.Focus()
	case feeFieldDate:
		f.dateInput.Focus()
	}
}

// request builds the submission payload. The student identifier is whatever
// follows the last colon of the combined field, regardless of the display
// name before it.
func (f *feeForm) request() service.FeeRequest {
	amount, _ := strconv.ParseFloat(strings.TrimSpace(f.amountInput.Value()), 64)
	return service.FeeRequest{
		StudentID: ParseStudentID(f.studentInput.Value()),
		Status:    f.status(),
		Amount:    amount,
		Date:      strings.TrimSpace(f.dateInput.Value()),
	}
}

func (f *feeForm) handleResult(err error) (closed bool) {
	f.submitting = false
	if err != nil {
		f.errMsg = err.Error()
		return false
	}
	return true
}

// View renders the dialog with the suggestion list under the student field.
func (f *feeForm) View() string {
	var b strings.Builder
	b.WriteString(modalTitleStyle.Render("Add Fee Entry"))
	b.WriteString("\n\n")

	b.WriteString(fieldLabelStyle.Render("Student"))
	b.WriteString(f.studentInput.View())
	b.WriteString("\n")
	if f.ac.visible {
		for i, label := range f.ac.suggestions {
			style := suggestionStyle
			if i == f.ac.index {
				style = selectedSuggestionStyle
			}
			b.WriteString(style.Render(label))
			b.WriteString("\n")
		}
	}

	b.WriteString(fieldLabelStyle.Render("Amount"))
	b.WriteString(f.amountInput.View())
	b.WriteString("\n")
	b.WriteString(fieldLabelStyle.Render("Date"))
	b.WriteString(f.dateInput.View())
	b.WriteString("\n")
	b.WriteString(fieldLabelStyle.Render("Status"))
	if f.focus == feeFieldStatus {
		b.WriteString(selectedSuggestionStyle.Render("< " + f.status() + " >"))
	} else {
		b.WriteString(f.status())
	}
	b.WriteString("\n")

	if f.submitting {
		b.WriteString("\n" + statusLineStyle.Render("Saving..."))
	}
	if f.errMsg != "" {
		b.WriteString("\n" + errorLineStyle.Render(f.errMsg))
	}
	b.WriteString("\n" + helpStyle.Render("enter/tab next · ←/→ status · ctrl+s save · esc cancel"))
	return modalStyle.Render(b.String())
}
