package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLatestPayment(t *testing.T) {
	payments := []Payment{
		{PaymentID: "p1", Amount: 100, Date: "2024-01-10"},
		{PaymentID: "p2", Amount: 150, Date: "2024-03-05"},
		{PaymentID: "p3", Amount: 120, Date: "2024-02-20"},
	}

	latest, ok := LatestPayment(payments)

	require.True(t, ok)
	assert.Equal(t, "p2", latest.PaymentID)
	assert.Equal(t, 150.0, latest.Amount)
}

func TestLatestPaymentEmpty(t *testing.T) {
	_, ok := LatestPayment(nil)
	assert.False(t, ok)
}

func TestLatestPaymentTieKeepsFirst(t *testing.T) {
	payments := []Payment{
		{PaymentID: "p1", Amount: 100, Date: "2024-03-05"},
		{PaymentID: "p2", Amount: 150, Date: "2024-03-05"},
	}

	latest, ok := LatestPayment(payments)

	require.True(t, ok)
	assert.Equal(t, "p1", latest.PaymentID)
}

func TestSortPaymentsByDateDesc(t *testing.T) {
	payments := []Payment{
		{PaymentID: "p1", Date: "2024-01-10"},
		{PaymentID: "p2", Date: "2024-03-05"},
		{PaymentID: "p3", Date: "2024-03-05"},
	}

	SortPaymentsByDateDesc(payments)

	assert.Equal(t, "p2", payments[0].PaymentID)
	assert.Equal(t, "p3", payments[1].PaymentID, "equal dates keep their relative order")
	assert.Equal(t, "p1", payments[2].PaymentID)
}
