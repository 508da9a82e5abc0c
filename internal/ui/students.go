package ui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/noah-isme/sma-admin-tui/internal/models"
	"github.com/noah-isme/sma-admin-tui/internal/search"
	"github.com/noah-isme/sma-admin-tui/internal/service"
)

type studentModal int

const (
	studentModalNone studentModal = iota
	studentModalDetail
	studentModalForm
	studentModalFilter
	studentModalConfirm
)

var (
	courseOptions = []string{"", "science", "commerce", "arts", "it"}
	genderOptions = []string{"", models.GenderMale, models.GenderFemale, models.GenderOther}
)

// studentsModel is the directory screen: master list, filtered view, search,
// selection cursor and the modal stack (detail, add/edit form, filter picker,
// delete confirmation).
type studentsModel struct {
	ops     StudentOps
	exports ExportOps

	master   []models.Student
	visible  []models.Student
	filter   models.StudentFilter
	sessions []string

	searchInput textinput.Model
	cursor      Cursor

	modal   studentModal
	detail  *models.Student
	form    *studentForm
	confirm *models.Student

	filterCursor  int
	pendingFilter models.StudentFilter

	loading bool
	spin    spinner.Model
	status  string
	errMsg  string
}

func newStudentsModel(ops StudentOps, exports ExportOps) studentsModel {
	searchInput := textinput.New()
	searchInput.Placeholder = "search students"
	searchInput.CharLimit = 80

	spin := spinner.New()
	spin.Spinner = spinner.Dot

	return studentsModel{
		ops:         ops,
		exports:     exports,
		searchInput: searchInput,
		cursor:      NewCursor(),
		spin:        spin,
	}
}

func (m *studentsModel) fetchCmd() tea.Cmd {
	ops := m.ops
	return func() tea.Msg {
		students, fromCache, err := ops.List(context.Background())
		return studentsLoadedMsg{students: students, fromCache: fromCache, err: err}
	}
}

func (m *studentsModel) saveCmd() tea.Cmd {
	ops := m.ops
	form := m.form
	req := form.request()
	editing := form.editing
	id := form.id
	return func() tea.Msg {
		var err error
		if editing {
			err = ops.Update(context.Background(), id, req)
		} else {
			err = ops.Create(context.Background(), req)
		}
		return studentSavedMsg{editing: editing, err: err}
	}
}

func (m *studentsModel) deleteCmd(id string) tea.Cmd {
	ops := m.ops
	return func() tea.Msg {
		return studentDeletedMsg{err: ops.Delete(context.Background(), id)}
	}
}

func (m *studentsModel) exportCmd() tea.Cmd {
	exports := m.exports
	students := m.visible
	return func() tea.Msg {
		path, err := exports.DirectoryCSV(students)
		return exportDoneMsg{path: path, err: err}
	}
}

// capturesInput reports whether the screen is consuming raw key input, which
// blocks app-level shortcuts like tab and q.
func (m *studentsModel) capturesInput() bool {
	return m.modal != studentModalNone || m.searchInput.Focused()
}

// applyVisible recomputes the rendered list from the master collection, the
// field filters and the search query, then reconciles the cursor against the
// new row count.
func (m *studentsModel) applyVisible() {
	base := service.FilterStudents(m.master, m.filter)
	m.visible = search.Rank(m.searchInput.Value(), base)
	m.cursor.Reconcile(len(m.visible))
}

func (m *studentsModel) update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case studentsLoadedMsg:
		m.loading = false
		if msg.err != nil {
			m.errMsg = msg.err.Error()
			return nil
		}
		m.errMsg = ""
		m.master = msg.students
		m.sessions = service.Sessions(msg.students)
		if msg.fromCache {
			m.status = "offline: showing last known student list"
		} else {
			m.status = fmt.Sprintf("%d students loaded", len(msg.students))
		}
		m.applyVisible()
		return nil

	case studentSavedMsg:
		if m.form == nil {
			return nil
		}
		if m.form.handleResult(msg.err) {
			m.form = nil
			m.modal = studentModalNone
			if msg.editing {
				m.status = "student updated"
			} else {
				m.status = "student added"
			}
			m.loading = true
			return tea.Batch(m.spin.Tick, m.fetchCmd())
		}
		return nil

	case studentDeletedMsg:
		if msg.err != nil {
			m.errMsg = msg.err.Error()
			m.modal = studentModalNone
			m.confirm = nil
			return nil
		}
		m.status = "student deleted"
		m.modal = studentModalNone
		m.confirm = nil
		m.detail = nil
		m.loading = true
		return tea.Batch(m.spin.Tick, m.fetchCmd())

	case exportDoneMsg:
		if msg.err != nil {
			m.errMsg = msg.err.Error()
		} else {
			m.status = "exported " + msg.path
		}
		return nil

	case spinner.TickMsg:
		if !m.loading {
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

func (m *studentsModel) handleKey(msg tea.KeyMsg) tea.Cmd {
	switch m.modal {
	case studentModalForm:
		return m.handleFormKey(msg)
	case studentModalDetail:
		return m.handleDetailKey(msg)
	case studentModalConfirm:
		return m.handleConfirmKey(msg)
	case studentModalFilter:
		return m.handleFilterKey(msg)
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
	case key.Matches(msg, keys.Enter):
		m.openSelected()
	case key.Matches(msg, keys.Add):
		m.form = newAddStudentForm()
		m.modal = studentModalForm
		return textinput.Blink
	case key.Matches(msg, keys.Edit):
		if idx, ok := m.cursor.Selected(len(m.visible)); ok {
			m.openEdit(m.visible[idx])
			return textinput.Blink
		}
	case key.Matches(msg, keys.Delete):
		if idx, ok := m.cursor.Selected(len(m.visible)); ok {
			student := m.visible[idx]
			m.confirm = &student
			m.modal = studentModalConfirm
		}
	case key.Matches(msg, keys.Filter):
		m.pendingFilter = m.filter
		m.filterCursor = 0
		m.modal = studentModalFilter
	case key.Matches(msg, keys.Export):
		return m.exportCmd()
	case key.Matches(msg, keys.Refresh):
		m.loading = true
		return tea.Batch(m.spin.Tick, m.fetchCmd())
	}
	return nil
}

// openSelected opens the detail view for the selected row of the currently
// rendered list. Without a selection it does nothing.
func (m *studentsModel) openSelected() {
	idx, ok := m.cursor.Selected(len(m.visible))
	if !ok {
		return
	}
	student := m.visible[idx]
	m.detail = &student
	m.modal = studentModalDetail
}

// openEdit rebuilds the edit form from scratch for the target student.
func (m *studentsModel) openEdit(student models.Student) {
	m.form = newEditStudentForm(student)
	m.modal = studentModalForm
}

func (m *studentsModel) handleFormKey(msg tea.KeyMsg) tea.Cmd {
	if msg.String() == "esc" && !m.form.submitting {
		m.form = nil
		m.modal = studentModalNone
		return nil
	}
	submit, cmd := m.form.Update(msg)
	if submit {
		m.form.submitting = true
		m.form.errMsg = ""
		return m.saveCmd()
	}
	return cmd
}

func (m *studentsModel) handleDetailKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "esc":
		m.detail = nil
		m.modal = studentModalNone
	case "e":
		if m.detail != nil {
			m.openEdit(*m.detail)
			return textinput.Blink
		}
	case "d":
		if m.detail != nil {
			m.confirm = m.detail
			m.modal = studentModalConfirm
		}
	}
	return nil
}

func (m *studentsModel) handleConfirmKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "y", "enter":
		if m.confirm != nil {
			return m.deleteCmd(m.confirm.ID)
		}
	case "n", "esc":
		m.confirm = nil
		if m.detail != nil {
			m.modal = studentModalDetail
		} else {
			m.modal = studentModalNone
		}
	}
	return nil
}

func (m *studentsModel) handleFilterKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "up", "k":
		if m.filterCursor > 0 {
			m.filterCursor--
		}
	case "down", "j":
		if m.filterCursor < 2 {
			m.filterCursor++
		}
	case "left":
		m.cycleFilter(-1)
	case "right":
		m.cycleFilter(1)
	case "enter":
		m.filter = m.pendingFilter
		m.modal = studentModalNone
		m.applyVisible()
	case "c":
		m.pendingFilter = models.StudentFilter{}
	case "esc":
		m.modal = studentModalNone
	}
	return nil
}

func (m *studentsModel) cycleFilter(delta int) {
	sessionOptions := append([]string{""}, m.sessions...)
	switch m.filterCursor {
	case 0:
		m.pendingFilter.Course = cycleOption(courseOptions, m.pendingFilter.Course, delta)
	case 1:
		m.pendingFilter.Gender = cycleOption(genderOptions, m.pendingFilter.Gender, delta)
	case 2:
		m.pendingFilter.Session = cycleOption(sessionOptions, m.pendingFilter.Session, delta)
	}
}

func cycleOption(options []string, current string, delta int) string {
	idx := 0
	for i, opt := range options {
		if opt == current {
			idx = i
			break
		}
	}
	n := len(options)
	return options[((idx+delta)%n+n)%n]
}

func (m *studentsModel) handleSearchKey(msg tea.KeyMsg) tea.Cmd {
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

func (m *studentsModel) view() string {
	switch m.modal {
	case studentModalForm:
		return m.form.View()
	case studentModalDetail:
		return m.detailView()
	case studentModalConfirm:
		return m.confirmView()
	case studentModalFilter:
		return m.filterView()
	}

	var b strings.Builder
	b.WriteString("Search: " + m.searchInput.View())
	if summary := filterSummary(m.filter); summary != "" {
		b.WriteString("   " + helpStyle.Render(summary))
	}
	b.WriteString("\n\n")

	if m.loading {
		b.WriteString(m.spin.View() + " loading students...\n")
	} else if len(m.visible) == 0 {
		b.WriteString(helpStyle.Render("No students found.") + "\n")
	} else {
		rows := StudentRows(m.visible, m.cursor.Index())
		b.WriteString(renderTable(
			[]string{"", "Name", "Course", "Student ID", "Session"},
			[]int{2, 24, 14, 12, 12},
			rows,
		))
	}

	b.WriteString("\n")
	if m.errMsg != "" {
		b.WriteString(errorLineStyle.Render(m.errMsg) + "\n")
	} else if m.status != "" {
		b.WriteString(statusLineStyle.Render(m.status) + "\n")
	}
	b.WriteString(helpStyle.Render("↑/↓ select · enter details · a add · e edit · d delete · f filter · / search · x export · r refresh"))
	return b.String()
}

func filterSummary(f models.StudentFilter) string {
	parts := []string{}
	if f.Course != "" {
		parts = append(parts, "course="+f.Course)
	}
	if f.Gender != "" {
		parts = append(parts, "gender="+f.Gender)
	}
	if f.Session != "" {
		parts = append(parts, "session="+f.Session)
	}
	if len(parts) == 0 {
		return ""
	}
	return "filters: " + strings.Join(parts, " ")
}

func (m *studentsModel) detailView() string {
	s := m.detail
	if s == nil {
		return ""
	}
	var b strings.Builder
	b.WriteString(modalTitleStyle.Render(s.Name))
	b.WriteString("\n" + helpStyle.Render(s.Course) + "\n\n")
	fields := []struct{ label, value string }{
		{"Student ID", orNA(s.StudentID)},
		{"Session", orNA(s.Session)},
		{"Email", s.Email},
		{"Phone", s.Phone},
		{"Father's Name", orNA(s.FatherName)},
		{"Secondary Phone", orNA(s.Phone2)},
		{"Date of Birth", orNA(s.DOB)},
		{"Emergency Contact", orNA(s.EmergencyContact)},
		{"Gender", orNA(s.Gender)},
		{"Address", orNA(s.Address)},
	}
	for _, field := range fields {
		b.WriteString(fieldLabelStyle.Render(field.label))
		b.WriteString(field.value)
		b.WriteString("\n")
	}
	if s.ProfilePicURL != "" {
		b.WriteString(fieldLabelStyle.Render("Photo"))
		b.WriteString(s.ProfilePicURL)
		b.WriteString("\n")
	}
	b.WriteString("\n" + helpStyle.Render("e edit · d delete · esc close"))
	return modalStyle.Render(b.String())
}

func (m *studentsModel) confirmView() string {
	name := ""
	if m.confirm != nil {
		name = m.confirm.Name
	}
	body := fmt.Sprintf("Delete %s?\n\n%s", name, helpStyle.Render("y confirm · n cancel"))
	return modalStyle.Render(body)
}

func (m *studentsModel) filterView() string {
	rows := []struct{ label, value string }{
		{"Course", orAny(m.pendingFilter.Course)},
		{"Gender", orAny(m.pendingFilter.Gender)},
		{"Session", orAny(m.pendingFilter.Session)},
	}
	var b strings.Builder
	b.WriteString(modalTitleStyle.Render("Filter Students"))
	b.WriteString("\n\n")
	for i, row := range rows {
		line := fieldLabelStyle.Render(row.label) + "< " + row.value + " >"
		if i == m.filterCursor {
			line = selectedSuggestionStyle.Render(line)
		}
		b.WriteString(line + "\n")
	}
	b.WriteString("\n" + helpStyle.Render("↑/↓ field · ←/→ value · enter apply · c clear · esc cancel"))
	return modalStyle.Render(b.String())
}

func orAny(value string) string {
	if value == "" {
		return "any"
	}
	return value
}
