package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	PaymentStatusPending           = "pending"
	PaymentStatusProcessing        = "processing"
	PaymentStatusCompleted         = "completed"
	PaymentStatusFailed            = "failed"
	PaymentStatusCancelled         = "cancelled"
	PaymentStatusRefunded          = "refunded"
	PaymentStatusPartiallyRefunded = "partially_refunded"
)

const (
	PaymentTypeBooking         = "booking_payment"
	PaymentTypeSecurityDeposit = "security_deposit"
	PaymentTypeAdditional      = "additional_charges"
	PaymentTypePenalty         = "penalty"
	PaymentTypeRefund          = "refund"
)

// paymentTransitions: status only moves forward, except the explicit refund
// edges out of completed.
var paymentTransitions = map[string][]string{
	PaymentStatusPending:    {PaymentStatusProcessing, PaymentStatusFailed, PaymentStatusCancelled},
	PaymentStatusProcessing: {PaymentStatusCompleted, PaymentStatusFailed, PaymentStatusCancelled},
	PaymentStatusCompleted:  {PaymentStatusRefunded, PaymentStatusPartiallyRefunded},
}

// PaymentMethod is a configured way to pay (card, cash, transfer, ...).
type PaymentMethod struct {
	ID                      uint      `gorm:"primaryKey" json:"id"`
	Name                    string    `gorm:"size:100" json:"name"`
	MethodType              string    `gorm:"size:20" json:"method_type"`
	Description             string    `gorm:"type:text" json:"description,omitempty"`
	ProcessingFeePercentage float64   `gorm:"default:0" json:"processing_fee_percentage"`
	ProcessingFeeFixed      float64   `gorm:"default:0" json:"processing_fee_fixed"`
	IsActive                bool      `gorm:"default:true" json:"is_active"`
	RequiresVerification    bool      `gorm:"default:false" json:"requires_verification"`
	CreatedAt               time.Time `json:"created_at"`
}

// Payment records one money movement against a booking. A booking can carry
// several payments (deposit, balance, penalties).
type Payment struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time      `gorm:"index" json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	TransactionID string `gorm:"uniqueIndex;size:50;column:transaction_id" json:"transaction_id"`
	BookingID     uint   `gorm:"index;column:booking_id" json:"booking_id"`
	CustomerID    uint   `gorm:"index;column:customer_id" json:"customer_id"`

	PaymentType     string  `gorm:"size:30" json:"payment_type"`
	PaymentMethodID *uint   `gorm:"column:payment_method_id" json:"payment_method_id,omitempty"`
	Amount          float64 `json:"amount"`
	Currency        string  `gorm:"size:3;default:ZAR" json:"currency"`

	Status      string     `gorm:"size:20;default:pending;index" json:"status"`
	PaymentDate *time.Time `json:"payment_date,omitempty"`
	DueDate     *time.Time `json:"due_date,omitempty"`

	GatewayTransactionID string         `gorm:"size:100" json:"gateway_transaction_id,omitempty"`
	GatewayResponse      datatypes.JSON `json:"gateway_response,omitempty"`
	GatewayFee           float64        `gorm:"default:0" json:"gateway_fee"`

	CardLastFour string `gorm:"size:4" json:"card_last_four,omitempty"`
	CardType     string `gorm:"size:20" json:"card_type,omitempty"`
	CardToken    string `gorm:"size:100" json:"-"`

	RefundAmount float64    `gorm:"default:0" json:"refund_amount"`
	RefundDate   *time.Time `json:"refund_date,omitempty"`
	RefundReason string     `gorm:"type:text" json:"refund_reason,omitempty"`
	RefundedByID *uint      `gorm:"column:refunded_by_id" json:"-"`

	Description   string `gorm:"type:text" json:"description,omitempty"`
	Notes         string `gorm:"type:text" json:"notes,omitempty"`
	ProcessedByID *uint  `gorm:"column:processed_by_id" json:"-"`

	Booking       Booking        `gorm:"foreignKey:BookingID;constraint:OnDelete:CASCADE" json:"-"`
	Customer      User           `gorm:"foreignKey:CustomerID;constraint:OnDelete:CASCADE" json:"-"`
	PaymentMethod *PaymentMethod `gorm:"foreignKey:PaymentMethodID;constraint:OnDelete:SET NULL" json:"payment_method,omitempty"`
}

// CanTransitionTo checks the payment status edge.
func (p *Payment) CanTransitionTo(next string) bool {
	for _, allowed := range paymentTransitions[p.Status] {
		if allowed == next {
			return true
		}
	}
	return false
}

// IsRefundable: completed and not yet fully refunded.
func (p *Payment) IsRefundable() bool {
	return p.Status == PaymentStatusCompleted && p.RefundAmount < p.Amount
}

// CanRefund checks the refund guard: refund_amount + r must never exceed
// amount, and r must be positive.
func (p *Payment) CanRefund(r float64) bool {
	return p.Status == PaymentStatusCompleted && r > 0 && p.RefundAmount+r <= p.Amount
}
