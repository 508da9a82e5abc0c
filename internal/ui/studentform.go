package ui

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/noah-isme/sma-admin-tui/internal/models"
	"github.com/noah-isme/sma-admin-tui/internal/service"
)

// Field order within the student form. The photo field is always the last
// input and exists only for the lifetime of one open form: the form is
// rebuilt from scratch on every open and dropped entirely on close, so
// repeated open/close cycles can never accumulate extra photo controls.
const (
	fieldStudentID = iota
	fieldName
	fieldFatherName
	fieldEmail
	fieldPhone
	fieldPhone2
	fieldEmergency
	fieldGender
	fieldDOB
	fieldAddress
	fieldCourse
	fieldSession
	fieldPhoto
	fieldCount
)

var studentFieldLabels = [fieldCount]string{
	"Student ID", "Name", "Father's Name", "Email", "Phone", "Phone 2",
	"Emergency Contact", "Gender", "Date of Birth", "Address", "Course",
	"Session", "Photo path",
}

const photoPlaceholder = "path to image file (optional)"

// studentForm owns the add/edit dialog state machine: open, submitting, and
// the transient photo preview. Closed is represented by the owning screen
// dropping the form.
type studentForm struct {
	editing    bool
	id         string
	inputs     []textinput.Model
	focus      int
	submitting bool
	errMsg     string
	preview    string
}

func newStudentForm() *studentForm {
	f := &studentForm{}
	f.inputs = make([]textinput.Model, fieldCount)
	for i := range f.inputs {
		in := textinput.New()
		in.CharLimit = 120
		f.inputs[i] = in
	}
	f.inputs[fieldStudentID].Placeholder = "unique student ID"
	f.inputs[fieldName].Placeholder = "full name"
	f.inputs[fieldEmail].Placeholder = "email address"
	f.inputs[fieldGender].Placeholder = "Male / Female / Other"
	f.inputs[fieldDOB].Placeholder = "YYYY-MM-DD"
	f.inputs[fieldCourse].Placeholder = "science / commerce / arts / it"
	f.inputs[fieldSession].Placeholder = "e.g. 2023-2024"
	f.inputs[fieldPhoto].Placeholder = photoPlaceholder
	f.inputs[0].Focus()
	return f
}

// newAddStudentForm opens the dialog with all fields blank.
func newAddStudentForm() *studentForm {
	return newStudentForm()
}

// newEditStudentForm opens the dialog pre-populated from the target record,
// with the replace-photo control attached.
func newEditStudentForm(s models.Student) *studentForm {
	f := newStudentForm()
	f.editing = true
	f.id = s.ID
	f.inputs[fieldStudentID].SetValue(s.StudentID)
	f.inputs[fieldName].SetValue(s.Name)
	f.inputs[fieldFatherName].SetValue(s.FatherName)
	f.inputs[fieldEmail].SetValue(s.Email)
	f.inputs[fieldPhone].SetValue(s.Phone)
	f.inputs[fieldPhone2].SetValue(s.Phone2)
	f.inputs[fieldEmergency].SetValue(s.EmergencyContact)
	f.inputs[fieldGender].SetValue(s.Gender)
	f.inputs[fieldDOB].SetValue(s.DOB)
	f.inputs[fieldAddress].SetValue(s.Address)
	f.inputs[fieldCourse].SetValue(s.Course)
	f.inputs[fieldSession].SetValue(s.Session)
	return f
}

// photoControls counts the photo inputs attached to the form.
func (f *studentForm) photoControls() int {
	count := 0
	for _, in := range f.inputs {
		if in.Placeholder == photoPlaceholder {
			count++
		}
	}
	return count
}

// Update handles key input while the form is open. It returns true when the
// user asked to submit.
func (f *studentForm) Update(msg tea.Msg) (submit bool, cmd tea.Cmd) {
	if f.submitting {
		return false, nil
	}
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return false, f.updateFocused(msg)
	}

	switch keyMsg.String() {
	case "tab", "down":
		f.setFocus(f.focus + 1)
		return false, nil
	case "shift+tab", "up":
		f.setFocus(f.focus - 1)
		return false, nil
	case "enter":
		if f.focus == len(f.inputs)-1 {
			return true, nil
		}
		f.setFocus(f.focus + 1)
		return false, nil
	case "ctrl+s":
		return true, nil
	}
	return false, f.updateFocused(msg)
}

func (f *studentForm) updateFocused(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	f.inputs[f.focus], cmd = f.inputs[f.focus].Update(msg)
	if f.focus == fieldPhoto {
		f.refreshPreview()
	}
	return cmd
}

func (f *studentForm) setFocus(index int) {
	n := len(f.inputs)
	index = ((index % n) + n) % n
	f.inputs[f.focus].Blur()
	f.focus = index
	f.inputs[f.focus].Focus()
}

// refreshPreview stats the typed photo path and shows the file name and size
// when it resolves, standing in for the browser image preview.
func (f *studentForm) refreshPreview() {
	path := strings.TrimSpace(f.inputs[fieldPhoto].Value())
	if path == "" {
		f.preview = ""
		return
	}
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		f.preview = "file not found"
		return
	}
	f.preview = fmt.Sprintf("%s (%d bytes)", info.Name(), info.Size())
}

// request builds the submission payload from the current field values.
func (f *studentForm) request() service.StudentRequest {
	value := func(i int) string { return strings.TrimSpace(f.inputs[i].Value()) }
	return service.StudentRequest{
		StudentID:        value(fieldStudentID),
		Name:             value(fieldName),
		FatherName:       value(fieldFatherName),
		Email:            value(fieldEmail),
		Phone:            value(fieldPhone),
		Phone2:           value(fieldPhone2),
		EmergencyContact: value(fieldEmergency),
		Gender:           value(fieldGender),
		DOB:              value(fieldDOB),
		Address:          value(fieldAddress),
		Course:           value(fieldCourse),
		Session:          value(fieldSession),
		PhotoPath:        value(fieldPhoto),
	}
}

// handleResult applies the submission outcome: success closes the dialog
// (the caller drops the form), failure keeps it open with the entered values
// intact and the error shown.
func (f *studentForm) handleResult(err error) (closed bool) {
	f.submitting = false
	if err != nil {
		f.errMsg = err.Error()
		return false
	}
	return true
}

// View renders the dialog.
func (f *studentForm) View() string {
	title := "Add Student"
	if f.editing {
		title = "Edit Student"
	}
	var b strings.Builder
	b.WriteString(modalTitleStyle.Render(title))
	b.WriteString("\n\n")
	for i, in := range f.inputs {
		b.WriteString(fieldLabelStyle.Render(studentFieldLabels[i]))
		b.WriteString(in.View())
		if i == fieldPhoto && f.preview != "" {
			b.WriteString(helpStyle.Render("  " + f.preview))
		}
		b.WriteString("\n")
	}
	if f.submitting {
		b.WriteString("\n" + statusLineStyle.Render("Saving..."))
	}
	if f.errMsg != "" {
		b.WriteString("\n" + errorLineStyle.Render(f.errMsg))
	}
	b.WriteString("\n" + helpStyle.Render("enter/tab next field · ctrl+s save · esc cancel"))
	return modalStyle.Render(b.String())
}
