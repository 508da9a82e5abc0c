package ui

import (
	"time"

	"github.com/noah-isme/sma-admin-tui/internal/models"
)

type studentsLoadedMsg struct {
	students  []models.Student
	fromCache bool
	err       error
}

type studentSavedMsg struct {
	editing bool
	err     error
}

type studentDeletedMsg struct {
	err error
}

// feesLoadedMsg carries the request token so stale responses can be
// discarded by the update loop.
type feesLoadedMsg struct {
	token uint64
	fees  []models.Fee
	err   error
}

// historyLoadedMsg carries the token of the history request that produced
// it; only the latest issued token wins.
type historyLoadedMsg struct {
	token     uint64
	studentID string
	month     string
	payments  []models.Payment
	err       error
}

type markPaidDoneMsg struct {
	studentID  string
	amount     float64
	needsEntry bool
	err        error
}

// feeSavedMsg reports an add-fee submission; on success the saved values are
// used for a best-effort local patch before the authoritative refresh.
type feeSavedMsg struct {
	studentID string
	amount    float64
	status    string
	err       error
}

type paymentSavedMsg struct {
	err error
}

type paymentDeletedMsg struct {
	err error
}

type overdueTickMsg time.Time

type overdueCheckedMsg struct {
	err error
}

type exportDoneMsg struct {
	path string
	err  error
}
