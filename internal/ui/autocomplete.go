package ui

import (
	"strings"

	"github.com/noah-isme/sma-admin-tui/internal/models"
)

// autocomplete tracks the suggestion list shown under the combined
// "Name: student_id" field of the add-fee form. The filter is a plain
// case-insensitive substring on name or identifier; the heavier directory
// ranking is deliberately not used here.
type autocomplete struct {
	suggestions []string
	index       int
	visible     bool
}

// Refresh recomputes the suggestion list for the typed query. The highlight
// resets on every keystroke, matching how the suggestion box behaves in the
// admin panel this replaces.
func (a *autocomplete) Refresh(query string, students []models.Student) {
	a.suggestions = a.suggestions[:0]
	a.index = NoSelection
	q := strings.ToLower(query)
	if q == "" {
		a.visible = false
		return
	}
	for _, s := range students {
		if strings.Contains(strings.ToLower(s.Name), q) ||
			(s.StudentID != "" && strings.Contains(strings.ToLower(s.StudentID), q)) {
			a.suggestions = append(a.suggestions, s.Label())
		}
	}
	a.visible = len(a.suggestions) > 0
}

// Cycle moves the highlight by delta, wrapping around the suggestion count.
func (a *autocomplete) Cycle(delta int) {
	n := len(a.suggestions)
	if !a.visible || n == 0 {
		return
	}
	if a.index == NoSelection {
		if delta > 0 {
			a.index = 0
		} else {
			a.index = n - 1
		}
		return
	}
	a.index = ((a.index+delta)%n + n) % n
}

// Current returns the highlighted suggestion, if any.
func (a *autocomplete) Current() (string, bool) {
	if !a.visible || a.index < 0 || a.index >= len(a.suggestions) {
		return "", false
	}
	return a.suggestions[a.index], true
}

// Dismiss hides the suggestion list without committing.
func (a *autocomplete) Dismiss() {
	a.visible = false
	a.index = NoSelection
	a.suggestions = a.suggestions[:0]
}

// ParseStudentID extracts the authoritative identifier from a committed
// "Name: student_id" value: the text after the last colon, trimmed. A value
// without a colon is returned trimmed as-is.
func ParseStudentID(value string) string {
	idx := strings.LastIndex(value, ":")
	if idx == -1 {
		return strings.TrimSpace(value)
	}
	return strings.TrimSpace(value[idx+1:])
}
