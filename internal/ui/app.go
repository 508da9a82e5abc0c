package ui

import (
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"
)

type screen int

const (
	screenStudents screen = iota
	screenFees
)

// Model is the root program: two screens behind a tab bar. Screen models own
// their data and modal state; the root routes messages and global shortcuts.
type Model struct {
	logger          *zap.Logger
	overdueInterval time.Duration

	active   screen
	students studentsModel
	fees     feesModel

	width  int
	height int
}

// New wires the root model to its service dependencies.
func New(studentOps StudentOps, feeOps FeeOps, exportOps ExportOps, overdueInterval time.Duration, logger *zap.Logger) *Model {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Model{
		logger:          logger,
		overdueInterval: overdueInterval,
		students:        newStudentsModel(studentOps, exportOps),
		fees:            newFeesModel(feeOps, exportOps),
	}
}

func (m *Model) Init() tea.Cmd {
	m.students.loading = true
	m.fees.loading = true
	return tea.Batch(
		m.students.fetchCmd(),
		m.fees.fetchCmd(),
		m.students.spin.Tick,
		m.fees.spin.Tick,
		m.overdueTick(),
	)
}

func (m *Model) overdueTick() tea.Cmd {
	return tea.Tick(m.overdueInterval, func(t time.Time) tea.Msg {
		return overdueTickMsg(t)
	})
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		if !m.activeCaptures() {
			switch {
			case key.Matches(msg, keys.Quit):
				return m, tea.Quit
			case key.Matches(msg, keys.Tab):
				if m.active == screenStudents {
					m.active = screenFees
				} else {
					m.active = screenStudents
				}
				return m, nil
			}
		}
		return m, m.routeToActive(msg)

	// The directory load feeds both screens; the ledger needs students for
	// autocomplete and name lookups.
	case studentsLoadedMsg:
		if msg.err != nil {
			m.logger.Warn("student load failed", zap.Error(msg.err))
		}
		cmd := m.students.update(msg)
		m.fees.setStudents(m.students.master)
		return m, cmd

	case studentSavedMsg, studentDeletedMsg:
		return m, m.students.update(msg)

	case feesLoadedMsg, historyLoadedMsg, markPaidDoneMsg, feeSavedMsg,
		paymentSavedMsg, paymentDeletedMsg, overdueCheckedMsg:
		return m, m.fees.update(msg)

	case overdueTickMsg:
		return m, tea.Batch(m.fees.overdueCmd(), m.overdueTick())

	case exportDoneMsg:
		return m, m.routeToActive(msg)

	case spinner.TickMsg:
		return m, tea.Batch(m.students.update(msg), m.fees.update(msg))
	}

	return m, m.routeToActive(msg)
}

func (m *Model) activeCaptures() bool {
	if m.active == screenStudents {
		return m.students.capturesInput()
	}
	return m.fees.capturesInput()
}

func (m *Model) routeToActive(msg tea.Msg) tea.Cmd {
	if m.active == screenStudents {
		return m.students.update(msg)
	}
	return m.fees.update(msg)
}

func (m *Model) View() string {
	var b strings.Builder
	b.WriteString(m.tabBar())
	b.WriteString("\n\n")
	if m.active == screenStudents {
		b.WriteString(m.students.view())
	} else {
		b.WriteString(m.fees.view())
	}
	b.WriteString("\n" + helpStyle.Render("tab switch screen · q quit"))
	return appStyle.Render(b.String())
}

func (m *Model) tabBar() string {
	studentsTab := tabStyle.Render("Students")
	feesTab := tabStyle.Render("Fees")
	if m.active == screenStudents {
		studentsTab = activeTabStyle.Render("Students")
	} else {
		feesTab = activeTabStyle.Render("Fees")
	}
	return studentsTab + feesTab
}
