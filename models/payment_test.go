package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestPaymentTransitions(t *testing.T) {
	cases := []struct {
		from    string
		to      string
		allowed bool
	}{
		{PaymentStatusPending, PaymentStatusProcessing, true},
		{PaymentStatusPending, PaymentStatusFailed, true},
		{PaymentStatusPending, PaymentStatusCancelled, true},
		{PaymentStatusPending, PaymentStatusCompleted, false},
		{PaymentStatusProcessing, PaymentStatusCompleted, true},
		{PaymentStatusProcessing, PaymentStatusFailed, true},
		// a claimed payment cannot be claimed again; the second of two
		// concurrent processing attempts must fail this check
		{PaymentStatusProcessing, PaymentStatusProcessing, false},
		{PaymentStatusCompleted, PaymentStatusRefunded, true},
		{PaymentStatusCompleted, PaymentStatusPartiallyRefunded, true},
		{PaymentStatusCompleted, PaymentStatusPending, false},
		{PaymentStatusFailed, PaymentStatusProcessing, false},
		{PaymentStatusRefunded, PaymentStatusCompleted, false},
		{PaymentStatusCancelled, PaymentStatusProcessing, false},
	}
	for _, tc := range cases {
		p := Payment{Status: tc.from}
		assert.Equal(t, tc.allowed, p.CanTransitionTo(tc.to), "%s -> %s", tc.from, tc.to)
	}
}

func TestPaymentRefundGuard(t *testing.T) {
	p := Payment{Status: PaymentStatusCompleted, Amount: 100}

	assert.True(t, p.CanRefund(100))
	assert.True(t, p.CanRefund(40))
	assert.False(t, p.CanRefund(100.01), "refund cannot exceed amount")
	assert.False(t, p.CanRefund(0))
	assert.False(t, p.CanRefund(-5))

	p.RefundAmount = 60
	assert.True(t, p.CanRefund(40))
	assert.False(t, p.CanRefund(41), "cumulative refunds cannot exceed amount")

	pending := Payment{Status: PaymentStatusPending, Amount: 100}
	assert.False(t, pending.CanRefund(50), "only completed payments refund")
}

func TestPaymentIsRefundable(t *testing.T) {
	assert.True(t, (&Payment{Status: PaymentStatusCompleted, Amount: 100}).IsRefundable())
	assert.False(t, (&Payment{Status: PaymentStatusCompleted, Amount: 100, RefundAmount: 100}).IsRefundable())
	assert.False(t, (&Payment{Status: PaymentStatusProcessing, Amount: 100}).IsRefundable())
}

func TestInvoiceBalanceDue(t *testing.T) {
	inv := Invoice{TotalAmount: 500, PaidAmount: 120}
	assert.Equal(t, 380.0, inv.BalanceDue())
}

func TestInvoiceIsOverdue(t *testing.T) {
	now := time.Now()

	sent := Invoice{Status: InvoiceStatusSent, DueDate: now.Add(-24 * time.Hour)}
	assert.True(t, sent.IsOverdue(now))

	notDue := Invoice{Status: InvoiceStatusSent, DueDate: now.Add(24 * time.Hour)}
	assert.False(t, notDue.IsOverdue(now))

	paid := Invoice{Status: InvoiceStatusPaid, DueDate: now.Add(-24 * time.Hour)}
	assert.False(t, paid.IsOverdue(now), "paid invoices are never overdue")

	cancelled := Invoice{Status: InvoiceStatusCancelled, DueDate: now.Add(-24 * time.Hour)}
	assert.False(t, cancelled.IsOverdue(now))
}
