package ui

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/noah-isme/sma-admin-tui/internal/models"
)

// paymentForm edits one recorded payment's amount and date.
type paymentForm struct {
	paymentID   string
	amountInput textinput.Model
	dateInput   textinput.Model
	focus       int
	submitting  bool
	errMsg      string
}

func newPaymentForm(p models.Payment) *paymentForm {
	f := &paymentForm{paymentID: p.PaymentID}

	f.amountInput = textinput.New()
	f.amountInput.CharLimit = 20
	f.amountInput.SetValue(strconv.FormatFloat(p.Amount, 'f', -1, 64))
	f.amountInput.Focus()

	f.dateInput = textinput.New()
	f.dateInput.Placeholder = "YYYY-MM-DD"
	f.dateInput.CharLimit = 10
	f.dateInput.SetValue(p.Date)

	return f
}

func (f *paymentForm) Update(msg tea.Msg) (submit bool, cmd tea.Cmd) {
	if f.submitting {
		return false, nil
	}
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "tab", "shift+tab", "up", "down":
			f.toggleFocus()
			return false, nil
		case "enter":
			if f.focus == 1 {
				return true, nil
			}
			f.toggleFocus()
			return false, nil
		case "ctrl+s":
			return true, nil
		}
	}
	var cmd2 tea.Cmd
	if f.focus == 0 {
		f.amountInput, cmd2 = f.amountInput.Update(msg)
	} else {
		f.dateInput, cmd2 = f.dateInput.Update(msg)
	}
	return false, cmd2
}

func (f *paymentForm) toggleFocus() {
	if f.focus == 0 {
		f.focus = 1
		f.amountInput.Blur()
		f.dateInput.Focus()
	} else {
		f.focus = 0
		f.dateInput.Blur()
		f.amountInput.Focus()
	}
}

func (f *paymentForm) amount() float64 {
	amount, _ := strconv.ParseFloat(strings.TrimSpace(f.amountInput.Value()), 64)
	return amount
}

func (f *paymentForm) date() string {
	return strings.TrimSpace(f.dateInput.Value())
}

func (f *paymentForm) handleResult(err error) (closed bool) {
	f.submitting = false
	if err != nil {
		f.errMsg = err.Error()
		return false
	}
	return true
}

func (f *paymentForm) View() string {
	var b strings.Builder
	b.WriteString(modalTitleStyle.Render("Edit Payment"))
	b.WriteString("\n\n")
	b.WriteString(fieldLabelStyle.Render("Amount"))
	b.WriteString(f.amountInput.View())
	b.WriteString("\n")
	b.WriteString(fieldLabelStyle.Render("Date"))
	b.WriteString(f.dateInput.View())
	b.WriteString("\n")
	if f.submitting {
		b.WriteString("\n" + statusLineStyle.Render("Saving..."))
	}
	if f.errMsg != "" {
		b.WriteString("\n" + errorLineStyle.Render(f.errMsg))
	}
	b.WriteString("\n" + helpStyle.Render("enter/tab switch · ctrl+s save · esc cancel"))
	return modalStyle.Render(b.String())
}
