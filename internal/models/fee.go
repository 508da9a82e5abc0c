package models

import "sort"

// Fee statuses as reported by the backend.
const (
	FeeStatusUnpaid  = "unpaid"
	FeeStatusPaid    = "paid"
	FeeStatusOverdue = "overdue"
)

// Fee is a per-student billing record. Amount is the derived current amount:
// the most recent payment's amount, not a stored running balance.
type Fee struct {
	StudentID string  `json:"student_id"`
	Name      string  `json:"name"`
	Status    string  `json:"status"`
	Amount    float64 `json:"amount"`
}

// Payment is one historical transaction applied against a fee. Date is a
// calendar date in "2006-01-02" form with no time component.
type Payment struct {
	PaymentID string  `json:"payment_id"`
	Amount    float64 `json:"amount"`
	Date      string  `json:"date"`
}

// SortPaymentsByDateDesc orders payments newest-first, preserving the
// relative order of payments on the same date.
func SortPaymentsByDateDesc(payments []Payment) {
	sort.SliceStable(payments, func(i, j int) bool {
		return payments[i].Date > payments[j].Date
	})
}

// LatestPayment returns the payment with the most recent date, if any.
func LatestPayment(payments []Payment) (Payment, bool) {
	if len(payments) == 0 {
		return Payment{}, false
	}
	latest := payments[0]
	for _, p := range payments[1:] {
		if p.Date > latest.Date {
			latest = p
		}
	}
	return latest, true
}
