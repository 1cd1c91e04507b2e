package utils

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/go-sql-driver/mysql"
)

//
// ===========================================================
//  REFERENCE / IDENTIFIER GENERATORS
// ===========================================================
//
// Human-readable references: {PREFIX}{DATE}{SUFFIX}. The random suffixes are
// only probabilistically unique - callers must create these inside a
// retry-on-duplicate loop and treat a persistent collision as
// "duplicate identifier".
//

// randomDigits returns n decimal digits from crypto/rand (rand.Int over
// math/big to avoid modulo bias).
func randomDigits(n int) (string, error) {
	if n <= 0 {
		return "", errors.New("invalid length")
	}
	var sb strings.Builder
	ten := big.NewInt(10)
	for i := 0; i < n; i++ {
		d, err := rand.Int(rand.Reader, ten)
		if err != nil {
			return "", err
		}
		sb.WriteByte(byte('0' + d.Int64()))
	}
	return sb.String(), nil
}

// GenerateBookingReference -> "BK" + yymmdd + 4 random digits.
func GenerateBookingReference(now time.Time) (string, error) {
	suffix, err := randomDigits(4)
	if err != nil {
		return "", err
	}
	return "BK" + now.Format("060102") + suffix, nil
}

// GenerateTransactionID -> "TXN" + yymmddhhmm + 4 random digits.
func GenerateTransactionID(now time.Time) (string, error) {
	suffix, err := randomDigits(4)
	if err != nil {
		return "", err
	}
	return "TXN" + now.Format("0601021504") + suffix, nil
}

// GenerateTicketNumber -> "ISS" + yymmdd + 4 random digits.
func GenerateTicketNumber(now time.Time) (string, error) {
	suffix, err := randomDigits(4)
	if err != nil {
		return "", err
	}
	return "ISS" + now.Format("060102") + suffix, nil
}

// FormatInvoiceNumber -> "INV" + yyyy + zero-padded sequence, e.g. INV20260001.
func FormatInvoiceNumber(year int, seq int) string {
	return fmt.Sprintf("INV%d%04d", year, seq)
}

// InvoiceNumberPrefix is the per-year scope used to find the current maximum.
func InvoiceNumberPrefix(year int) string {
	return fmt.Sprintf("INV%d", year)
}

// ParseInvoiceSequence extracts the trailing sequence from an invoice number.
func ParseInvoiceSequence(invoiceNumber string) (int, error) {
	if len(invoiceNumber) < 4 {
		return 0, errors.New("invoice number too short")
	}
	var seq int
	if _, err := fmt.Sscanf(invoiceNumber[len(invoiceNumber)-4:], "%04d", &seq); err != nil {
		return 0, fmt.Errorf("malformed invoice number %q: %w", invoiceNumber, err)
	}
	return seq, nil
}

// NextInvoiceNumber computes the successor of the latest issued invoice
// number. An empty lastNumber, or one issued under an earlier year's prefix,
// restarts the sequence at 0001.
func NextInvoiceNumber(year int, lastNumber string) (string, error) {
	if !strings.HasPrefix(lastNumber, InvoiceNumberPrefix(year)) {
		return FormatInvoiceNumber(year, 1), nil
	}
	seq, err := ParseInvoiceSequence(lastNumber)
	if err != nil {
		return "", err
	}
	return FormatInvoiceNumber(year, seq+1), nil
}

// FormatReceiptNumber -> "RCP" + yymmdd + zero-padded per-day sequence.
func FormatReceiptNumber(day time.Time, seq int) string {
	return fmt.Sprintf("RCP%s%04d", day.Format("060102"), seq)
}

// ReceiptNumberPrefix is the per-day scope.
func ReceiptNumberPrefix(day time.Time) string {
	return "RCP" + day.Format("060102")
}

// GenerateSecureToken returns a hex token (length = bytes of entropy).
func GenerateSecureToken(length int) (string, error) {
	if length <= 0 {
		return "", errors.New("invalid token length")
	}
	b := make([]byte, length)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

// IsDuplicateErr detects a uniqueness-constraint failure. MySQL reports
// these as error 1062; the string fallback keeps other drivers working.
// Foreign-key and check violations are not duplicates and must not be
// retried.
func IsDuplicateErr(err error) bool {
	if err == nil {
		return false
	}
	var mysqlErr *mysql.MySQLError
	if errors.As(err, &mysqlErr) {
		return mysqlErr.Number == 1062
	}
	lc := strings.ToLower(err.Error())
	return strings.Contains(lc, "duplicate entry") || strings.Contains(lc, "unique constraint")
}
