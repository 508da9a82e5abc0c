package ui

import (
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/sma-admin-tui/internal/models"
)

func TestStudentFormRebuiltPerOpenKeepsOnePhotoControl(t *testing.T) {
	student := models.Student{ID: "1", StudentID: "S1", Name: "Ann Lee"}

	// Opening the edit dialog repeatedly must never accumulate photo inputs.
	for i := 0; i < 3; i++ {
		form := newEditStudentForm(student)
		assert.Equal(t, 1, form.photoControls(), "open %d", i+1)
	}

	form := newAddStudentForm()
	assert.Equal(t, 1, form.photoControls())
}

func TestNewEditStudentFormPrefills(t *testing.T) {
	form := newEditStudentForm(models.Student{
		ID:        "internal-1",
		StudentID: "S1",
		Name:      "Ann Lee",
		Email:     "ann@example.com",
		Course:    "science",
	})

	require.True(t, form.editing)
	assert.Equal(t, "internal-1", form.id)

	req := form.request()
	assert.Equal(t, "S1", req.StudentID)
	assert.Equal(t, "Ann Lee", req.Name)
	assert.Equal(t, "ann@example.com", req.Email)
	assert.Equal(t, "science", req.Course)
}

func TestStudentFormFailureKeepsValuesAndError(t *testing.T) {
	form := newEditStudentForm(models.Student{ID: "1", StudentID: "S1", Name: "Ann Lee"})
	form.submitting = true

	closed := form.handleResult(errors.New("email already registered"))

	assert.False(t, closed)
	assert.False(t, form.submitting)
	assert.Equal(t, "email already registered", form.errMsg)
	assert.Equal(t, "Ann Lee", form.request().Name, "entered values survive a failed save")
}

func TestStudentFormSuccessCloses(t *testing.T) {
	form := newAddStudentForm()
	form.submitting = true

	assert.True(t, form.handleResult(nil))
	assert.False(t, form.submitting)
}

func TestStudentFormFocusCycles(t *testing.T) {
	form := newAddStudentForm()
	require.Equal(t, fieldStudentID, form.focus)

	form.setFocus(form.focus - 1)
	assert.Equal(t, fieldPhoto, form.focus, "backward from the first field wraps to the last")

	form.setFocus(form.focus + 1)
	assert.Equal(t, fieldStudentID, form.focus, "forward from the last field wraps to the first")
}

func TestStudentFormEnterAdvancesThenSubmits(t *testing.T) {
	form := newAddStudentForm()

	submit, _ := form.Update(tea.KeyMsg{Type: tea.KeyEnter})
	assert.False(t, submit)
	assert.Equal(t, fieldName, form.focus)

	form.setFocus(fieldPhoto)
	submit, _ = form.Update(tea.KeyMsg{Type: tea.KeyEnter})
	assert.True(t, submit, "enter on the last field submits")
}

func TestStudentFormIgnoresInputWhileSubmitting(t *testing.T) {
	form := newAddStudentForm()
	form.submitting = true

	submit, cmd := form.Update(tea.KeyMsg{Type: tea.KeyEnter})
	assert.False(t, submit)
	assert.Nil(t, cmd)
	assert.Equal(t, fieldStudentID, form.focus)
}
