package utils

import (
	"errors"
	"fmt"
	"regexp"
	"testing"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/assert"
)

var fixedNow = time.Date(2026, time.August, 26, 14, 30, 0, 0, time.UTC)

func TestGenerateBookingReferenceFormat(t *testing.T) {
	ref, err := GenerateBookingReference(fixedNow)
	assert.NoError(t, err)
	assert.Regexp(t, regexp.MustCompile(`^BK260826\d{4}$`), ref)
}

func TestGenerateTransactionIDFormat(t *testing.T) {
	id, err := GenerateTransactionID(fixedNow)
	assert.NoError(t, err)
	assert.Regexp(t, regexp.MustCompile(`^TXN2608261430\d{4}$`), id)
}

func TestGenerateTicketNumberFormat(t *testing.T) {
	ticket, err := GenerateTicketNumber(fixedNow)
	assert.NoError(t, err)
	assert.Regexp(t, regexp.MustCompile(`^ISS260826\d{4}$`), ticket)
}

func TestInvoiceNumberFormatting(t *testing.T) {
	assert.Equal(t, "INV20260001", FormatInvoiceNumber(2026, 1))
	assert.Equal(t, "INV20260042", FormatInvoiceNumber(2026, 42))
	assert.Equal(t, "INV2026", InvoiceNumberPrefix(2026))

	seq, err := ParseInvoiceSequence("INV20260042")
	assert.NoError(t, err)
	assert.Equal(t, 42, seq)

	_, err = ParseInvoiceSequence("INV")
	assert.Error(t, err)
}

func TestInvoiceSequenceRoundTrip(t *testing.T) {
	for _, seq := range []int{1, 9, 99, 1234, 9999} {
		parsed, err := ParseInvoiceSequence(FormatInvoiceNumber(2026, seq))
		assert.NoError(t, err)
		assert.Equal(t, seq, parsed)
	}
}

func TestReceiptNumberFormatting(t *testing.T) {
	assert.Equal(t, "RCP2608260001", FormatReceiptNumber(fixedNow, 1))
	assert.Equal(t, "RCP2608260137", FormatReceiptNumber(fixedNow, 137))
	assert.Equal(t, "RCP260826", ReceiptNumberPrefix(fixedNow))
}

func TestGenerateSecureToken(t *testing.T) {
	token, err := GenerateSecureToken(32)
	assert.NoError(t, err)
	assert.Len(t, token, 64) // hex doubles the byte count

	other, err := GenerateSecureToken(32)
	assert.NoError(t, err)
	assert.NotEqual(t, token, other)

	_, err = GenerateSecureToken(0)
	assert.Error(t, err)
}

func TestNextInvoiceNumber(t *testing.T) {
	// first invoice of the year
	number, err := NextInvoiceNumber(2026, "")
	assert.NoError(t, err)
	assert.Equal(t, "INV20260001", number)

	// serialized creation increments the sequence
	number, err = NextInvoiceNumber(2026, "INV20260001")
	assert.NoError(t, err)
	assert.Equal(t, "INV20260002", number)

	number, err = NextInvoiceNumber(2026, "INV20260042")
	assert.NoError(t, err)
	assert.Equal(t, "INV20260043", number)

	// a new year restarts the sequence at 0001
	number, err = NextInvoiceNumber(2027, "INV20269999")
	assert.NoError(t, err)
	assert.Equal(t, "INV20270001", number)

	_, err = NextInvoiceNumber(2026, "INV2026abcd")
	assert.Error(t, err)
}

func TestIsDuplicateErr(t *testing.T) {
	assert.True(t, IsDuplicateErr(&mysql.MySQLError{Number: 1062, Message: "Duplicate entry 'BK2608261234' for key 'booking_reference'"}))
	assert.True(t, IsDuplicateErr(fmt.Errorf("create failed: %w",
		&mysql.MySQLError{Number: 1062, Message: "Duplicate entry 'INV20260001' for key 'invoice_number'"})))
	assert.True(t, IsDuplicateErr(errors.New("Error 1062: Duplicate entry 'BK2608261234' for key 'booking_reference'")))
	assert.True(t, IsDuplicateErr(errors.New("UNIQUE constraint failed: bookings.booking_reference")))

	// foreign-key and check violations are not duplicates
	assert.False(t, IsDuplicateErr(&mysql.MySQLError{Number: 1452, Message: "Cannot add or update a child row: a foreign key constraint fails"}))
	assert.False(t, IsDuplicateErr(errors.New("Error 1452: a foreign key constraint fails")))
	assert.False(t, IsDuplicateErr(errors.New("connection refused")))
	assert.False(t, IsDuplicateErr(nil))
}
