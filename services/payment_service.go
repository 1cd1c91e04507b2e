package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Keithpaul98/Car-Hire-System/models"
	"github.com/Keithpaul98/Car-Hire-System/utils"
)

// PaymentService owns payment processing, refunds and billing documents.
type PaymentService struct {
	DB       *gorm.DB
	Bookings *BookingService
}

func NewPaymentService(db *gorm.DB, bookings *BookingService) *PaymentService {
	return &PaymentService{DB: db, Bookings: bookings}
}

// CreatePaymentInput is the validated request shape for a new payment.
type CreatePaymentInput struct {
	BookingID       uint
	PaymentType     string
	PaymentMethodID *uint
	Amount          float64
	Currency        string
	CardToken       string
	CardLastFour    string
	CardType        string
	Description     string
}

// Create records a pending payment against a booking. Transaction IDs get
// the same retry-on-collision treatment as booking references.
func (s *PaymentService) Create(in CreatePaymentInput) (models.Payment, error) {
	var booking models.Booking
	if err := s.DB.First(&booking, in.BookingID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Payment{}, ErrBookingNotFound
		}
		return models.Payment{}, fmt.Errorf("failed to load booking: %w", err)
	}

	if in.Amount <= 0 {
		return models.Payment{}, errors.New("invalid_amount")
	}
	if in.Currency == "" {
		in.Currency = "ZAR"
	}
	if in.PaymentType == "" {
		in.PaymentType = models.PaymentTypeBooking
	}

	payment := models.Payment{
		BookingID:       in.BookingID,
		CustomerID:      booking.CustomerID,
		PaymentType:     in.PaymentType,
		PaymentMethodID: in.PaymentMethodID,
		Amount:          utils.Round2(in.Amount),
		Currency:        in.Currency,
		Status:          models.PaymentStatusPending,
		CardToken:       in.CardToken,
		CardLastFour:    in.CardLastFour,
		CardType:        in.CardType,
		Description:     in.Description,
	}

	var createErr error
	for attempt := 0; attempt < maxReferenceRetries; attempt++ {
		txnID, gErr := utils.GenerateTransactionID(time.Now())
		if gErr != nil {
			return models.Payment{}, fmt.Errorf("failed to generate transaction id: %w", gErr)
		}
		payment.TransactionID = txnID

		createErr = s.DB.Create(&payment).Error
		if createErr == nil {
			break
		}
		if utils.IsDuplicateErr(createErr) {
			log.Printf("transaction id collision (attempt %d) - retrying", attempt+1)
			continue
		}
		return models.Payment{}, fmt.Errorf("failed to create payment: %w", createErr)
	}
	if createErr != nil {
		return models.Payment{}, ErrDuplicateIdentifier
	}

	return payment, nil
}

// Process pushes a pending payment through the gateway. Approval lands on
// completed; a decline lands on failed with the gateway response attached.
// The payment is claimed under a row lock first so two concurrent calls
// cannot both reach the gateway.
func (s *PaymentService) Process(paymentID uint, staffID *uint) (models.Payment, error) {
	var payment models.Payment
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&payment, paymentID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrPaymentNotFound
			}
			return fmt.Errorf("failed to load payment: %w", err)
		}
		if !payment.CanTransitionTo(models.PaymentStatusProcessing) {
			return ErrInvalidTransition
		}
		if err := tx.Model(&payment).Update("status", models.PaymentStatusProcessing).Error; err != nil {
			return fmt.Errorf("failed to mark processing: %w", err)
		}
		payment.Status = models.PaymentStatusProcessing
		return nil
	})
	if err != nil {
		return models.Payment{}, err
	}

	result, gwErr := utils.ChargeGatewayStub(payment.Amount, payment.Currency, payment.CardToken)
	raw, _ := json.Marshal(result)

	now := time.Now()
	if gwErr != nil {
		updates := map[string]interface{}{
			"status":           models.PaymentStatusFailed,
			"gateway_response": datatypes.JSON(raw),
		}
		if result != nil {
			updates["gateway_transaction_id"] = result.TransactionID
		}
		if err := s.DB.Model(&payment).Updates(updates).Error; err != nil {
			return models.Payment{}, fmt.Errorf("failed to record gateway failure: %w", err)
		}
		payment.Status = models.PaymentStatusFailed

		_ = s.DB.Model(&models.Booking{}).Where("id = ?", payment.BookingID).
			Update("payment_status", models.BookingPaymentFailed).Error
		return payment, nil
	}

	updates := map[string]interface{}{
		"status":                 models.PaymentStatusCompleted,
		"payment_date":           now,
		"gateway_transaction_id": result.TransactionID,
		"gateway_response":       datatypes.JSON(raw),
		"gateway_fee":            result.Fee,
	}
	if staffID != nil {
		updates["processed_by_id"] = *staffID
	}
	if err := s.DB.Model(&payment).Updates(updates).Error; err != nil {
		return models.Payment{}, fmt.Errorf("failed to complete payment: %w", err)
	}
	payment.Status = models.PaymentStatusCompleted
	payment.PaymentDate = &now
	payment.GatewayTransactionID = result.TransactionID
	payment.GatewayFee = result.Fee

	if err := s.Bookings.RefreshPaymentStatus(nil, payment.BookingID); err != nil {
		log.Printf("warning: payment status refresh failed for booking %d: %v", payment.BookingID, err)
	}

	return payment, nil
}

// Fail moves a pending/processing payment to failed (manual intervention).
func (s *PaymentService) Fail(paymentID uint, note string) (models.Payment, error) {
	var payment models.Payment
	if err := s.DB.First(&payment, paymentID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Payment{}, ErrPaymentNotFound
		}
		return models.Payment{}, err
	}
	if !payment.CanTransitionTo(models.PaymentStatusFailed) {
		return models.Payment{}, ErrInvalidTransition
	}
	if err := s.DB.Model(&payment).Updates(map[string]interface{}{
		"status": models.PaymentStatusFailed,
		"notes":  note,
	}).Error; err != nil {
		return models.Payment{}, err
	}
	payment.Status = models.PaymentStatusFailed
	return payment, nil
}

// Refund applies a (partial) refund to a completed payment. The invariant
// refund_amount <= amount is checked under a row lock so concurrent refunds
// cannot oversubscribe.
func (s *PaymentService) Refund(paymentID uint, amount float64, reason string, staffID *uint) (models.Payment, error) {
	var payment models.Payment
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&payment, paymentID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrPaymentNotFound
			}
			return err
		}

		if !payment.IsRefundable() {
			return ErrNotRefundable
		}
		if !payment.CanRefund(amount) {
			return ErrRefundExceedsAmount
		}

		newRefund := utils.Round2(payment.RefundAmount + amount)
		status := models.PaymentStatusPartiallyRefunded
		if newRefund >= payment.Amount {
			status = models.PaymentStatusRefunded
		}

		now := time.Now()
		updates := map[string]interface{}{
			"refund_amount": newRefund,
			"refund_date":   now,
			"refund_reason": reason,
			"status":        status,
		}
		if staffID != nil {
			updates["refunded_by_id"] = *staffID
		}
		if err := tx.Model(&payment).Updates(updates).Error; err != nil {
			return fmt.Errorf("failed to record refund: %w", err)
		}
		payment.RefundAmount = newRefund
		payment.Status = status
		payment.RefundDate = &now

		if status == models.PaymentStatusRefunded {
			if err := tx.Model(&models.Booking{}).Where("id = ?", payment.BookingID).
				Update("payment_status", models.BookingPaymentRefunded).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return models.Payment{}, err
	}
	return payment, nil
}

//
// ===========================================================
//  BILLING DOCUMENTS
// ===========================================================
//

// nextInvoiceNumber scans the current per-year maximum under a row lock so
// two invoices created at the same moment cannot take the same sequence.
func nextInvoiceNumber(tx *gorm.DB, now time.Time) (string, error) {
	year := now.Year()
	prefix := utils.InvoiceNumberPrefix(year)

	var last models.Invoice
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("invoice_number LIKE ?", prefix+"%").
		Order("invoice_number DESC").
		First(&last).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return utils.NextInvoiceNumber(year, "")
	}
	if err != nil {
		return "", fmt.Errorf("failed to scan invoice numbers: %w", err)
	}
	return utils.NextInvoiceNumber(year, last.InvoiceNumber)
}

// nextReceiptNumber counts today's receipts under a row lock.
func nextReceiptNumber(tx *gorm.DB, now time.Time) (string, error) {
	prefix := utils.ReceiptNumberPrefix(now)

	var receipts []models.Receipt
	if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("receipt_number LIKE ?", prefix+"%").
		Find(&receipts).Error; err != nil {
		return "", fmt.Errorf("failed to scan receipt numbers: %w", err)
	}
	return utils.FormatReceiptNumber(now, len(receipts)+1), nil
}

// invoiceLineItems renders the booking pricing as billing document lines.
func invoiceLineItems(b *models.Booking, addons []models.BookingAddOnAssignment) datatypes.JSON {
	type line struct {
		Description string  `json:"description"`
		Quantity    uint    `json:"quantity"`
		UnitPrice   float64 `json:"unit_price"`
		Total       float64 `json:"total"`
	}
	lines := []line{{
		Description: fmt.Sprintf("Vehicle rental (%s)", b.BookingReference),
		Quantity:    b.TotalDays,
		UnitPrice:   b.DailyRate,
		Total:       b.Subtotal,
	}}
	for _, a := range addons {
		lines = append(lines, line{
			Description: a.Addon.Name,
			Quantity:    a.Quantity,
			UnitPrice:   a.UnitPrice,
			Total:       a.TotalPrice,
		})
	}
	if b.InsuranceCost > 0 {
		lines = append(lines, line{Description: "Insurance", Quantity: 1, UnitPrice: b.InsuranceCost, Total: b.InsuranceCost})
	}
	raw, _ := json.Marshal(lines)
	return datatypes.JSON(raw)
}

// CreateInvoice rolls a booking's pricing up into a draft invoice with the
// next sequential number for the current year.
func (s *PaymentService) CreateInvoice(bookingID uint, dueInDays int, staffID *uint) (models.Invoice, error) {
	if dueInDays <= 0 {
		dueInDays = 14
	}

	var invoice models.Invoice
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		var booking models.Booking
		if err := tx.Preload("Addons.Addon").First(&booking, bookingID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrBookingNotFound
			}
			return err
		}

		now := time.Now()
		number, err := nextInvoiceNumber(tx, now)
		if err != nil {
			return err
		}

		invoice = models.Invoice{
			InvoiceNumber:  number,
			BookingID:      booking.ID,
			CustomerID:     booking.CustomerID,
			IssueDate:      now,
			DueDate:        now.AddDate(0, 0, dueInDays),
			Status:         models.InvoiceStatusDraft,
			Subtotal:       booking.Subtotal,
			TaxRate:        taxRate(),
			TaxAmount:      booking.TaxAmount,
			DiscountAmount: booking.DiscountAmount,
			TotalAmount:    booking.TotalAmount,
			LineItems:      invoiceLineItems(&booking, booking.Addons),
			CreatedByID:    staffID,
		}
		if err := tx.Create(&invoice).Error; err != nil {
			if utils.IsDuplicateErr(err) {
				return ErrDuplicateIdentifier
			}
			return fmt.Errorf("failed to create invoice: %w", err)
		}
		return nil
	})
	if err != nil {
		return models.Invoice{}, err
	}
	return invoice, nil
}

// MarkInvoiceSent stamps the send and flips draft -> sent.
func (s *PaymentService) MarkInvoiceSent(invoiceID uint, email string) (models.Invoice, error) {
	var invoice models.Invoice
	if err := s.DB.First(&invoice, invoiceID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Invoice{}, ErrInvoiceNotFound
		}
		return models.Invoice{}, err
	}
	if invoice.Status != models.InvoiceStatusDraft {
		return models.Invoice{}, ErrInvalidTransition
	}
	now := time.Now()
	if err := s.DB.Model(&invoice).Updates(map[string]interface{}{
		"status":        models.InvoiceStatusSent,
		"sent_date":     now,
		"sent_to_email": email,
	}).Error; err != nil {
		return models.Invoice{}, err
	}
	invoice.Status = models.InvoiceStatusSent
	invoice.SentDate = &now
	invoice.SentToEmail = email
	return invoice, nil
}

// RecordInvoicePayment applies a paid amount; reaching the total marks the
// invoice paid. Balance due never goes negative.
func (s *PaymentService) RecordInvoicePayment(invoiceID uint, amount float64) (models.Invoice, error) {
	var invoice models.Invoice
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&invoice, invoiceID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrInvoiceNotFound
			}
			return err
		}
		if invoice.Status == models.InvoiceStatusCancelled || invoice.Status == models.InvoiceStatusPaid {
			return ErrInvalidTransition
		}
		if amount <= 0 || invoice.PaidAmount+amount > invoice.TotalAmount {
			return errors.New("invalid_amount")
		}

		paid := utils.Round2(invoice.PaidAmount + amount)
		updates := map[string]interface{}{"paid_amount": paid}
		if paid >= invoice.TotalAmount {
			updates["status"] = models.InvoiceStatusPaid
		}
		if err := tx.Model(&invoice).Updates(updates).Error; err != nil {
			return err
		}
		invoice.PaidAmount = paid
		if paid >= invoice.TotalAmount {
			invoice.Status = models.InvoiceStatusPaid
		}
		return nil
	})
	if err != nil {
		return models.Invoice{}, err
	}
	return invoice, nil
}

// CreateReceipt snapshots a completed payment as a receipt. The unique
// payment_id index makes regeneration idempotent: a second call reports
// receipt_exists instead of minting a new number.
func (s *PaymentService) CreateReceipt(paymentID uint, staffID *uint) (models.Receipt, error) {
	var receipt models.Receipt
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		var payment models.Payment
		if err := tx.Preload("PaymentMethod").First(&payment, paymentID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrPaymentNotFound
			}
			return err
		}
		if payment.Status != models.PaymentStatusCompleted {
			return ErrInvalidTransition
		}

		var existing models.Receipt
		if err := tx.Where("payment_id = ?", paymentID).First(&existing).Error; err == nil {
			return ErrReceiptExists
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		now := time.Now()
		number, err := nextReceiptNumber(tx, now)
		if err != nil {
			return err
		}

		methodLabel := payment.PaymentType
		if payment.PaymentMethod != nil {
			methodLabel = payment.PaymentMethod.Name
		}

		lines, _ := json.Marshal([]map[string]interface{}{{
			"description": payment.Description,
			"amount":      payment.Amount,
			"currency":    payment.Currency,
		}})

		receipt = models.Receipt{
			ReceiptNumber:     number,
			PaymentID:         payment.ID,
			CustomerID:        payment.CustomerID,
			IssueDate:         now,
			Amount:            payment.Amount,
			Currency:          payment.Currency,
			PaymentMethodUsed: methodLabel,
			LineItems:         datatypes.JSON(lines),
			GeneratedByID:     staffID,
		}
		if err := tx.Create(&receipt).Error; err != nil {
			if utils.IsDuplicateErr(err) {
				return ErrReceiptExists
			}
			return fmt.Errorf("failed to create receipt: %w", err)
		}
		return nil
	})
	if err != nil {
		return models.Receipt{}, err
	}
	return receipt, nil
}
