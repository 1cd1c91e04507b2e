package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	InvoiceStatusDraft     = "draft"
	InvoiceStatusSent      = "sent"
	InvoiceStatusPaid      = "paid"
	InvoiceStatusOverdue   = "overdue"
	InvoiceStatusCancelled = "cancelled"
)

// Invoice is a billing rollup for a booking. Numbers run sequentially per
// calendar year: INV{yyyy}{0001..}.
type Invoice struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	InvoiceNumber string `gorm:"uniqueIndex;size:50;column:invoice_number" json:"invoice_number"`
	BookingID     uint   `gorm:"index;column:booking_id" json:"booking_id"`
	CustomerID    uint   `gorm:"index;column:customer_id" json:"customer_id"`

	IssueDate time.Time `gorm:"index" json:"issue_date"`
	DueDate   time.Time `gorm:"index" json:"due_date"`
	Status    string    `gorm:"size:20;default:draft;index" json:"status"`

	Subtotal       float64 `json:"subtotal"`
	TaxRate        float64 `gorm:"default:15" json:"tax_rate"` // VAT percent
	TaxAmount      float64 `json:"tax_amount"`
	DiscountAmount float64 `gorm:"default:0" json:"discount_amount"`
	TotalAmount    float64 `json:"total_amount"`
	PaidAmount     float64 `gorm:"default:0" json:"paid_amount"`

	LineItems datatypes.JSON `json:"line_items,omitempty"`
	Notes     string         `gorm:"type:text" json:"notes,omitempty"`

	SentDate    *time.Time `json:"sent_date,omitempty"`
	SentToEmail string     `gorm:"size:150" json:"sent_to_email,omitempty"`

	CreatedByID *uint `gorm:"column:created_by_id" json:"-"`

	Booking  Booking `gorm:"foreignKey:BookingID;constraint:OnDelete:CASCADE" json:"-"`
	Customer User    `gorm:"foreignKey:CustomerID;constraint:OnDelete:CASCADE" json:"-"`
}

// BalanceDue is total minus what has been paid so far.
func (i *Invoice) BalanceDue() float64 {
	return i.TotalAmount - i.PaidAmount
}

// IsOverdue: unpaid past the due date.
func (i *Invoice) IsOverdue(now time.Time) bool {
	if i.Status == InvoiceStatusPaid || i.Status == InvoiceStatusCancelled {
		return false
	}
	return i.DueDate.Before(now)
}

// Receipt is an immutable snapshot of a completed payment. The unique
// payment_id index enforces one receipt per payment; regeneration is a no-op.
type Receipt struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`

	ReceiptNumber string `gorm:"uniqueIndex;size:50;column:receipt_number" json:"receipt_number"`
	PaymentID     uint   `gorm:"uniqueIndex;column:payment_id" json:"payment_id"`
	CustomerID    uint   `gorm:"index;column:customer_id" json:"customer_id"`

	IssueDate         time.Time `gorm:"index" json:"issue_date"`
	Amount            float64   `json:"amount"`
	Currency          string    `gorm:"size:3;default:ZAR" json:"currency"`
	PaymentMethodUsed string    `gorm:"size:100" json:"payment_method_used"`

	LineItems datatypes.JSON `json:"line_items,omitempty"`
	Notes     string         `gorm:"type:text" json:"notes,omitempty"`

	SentToCustomer bool       `gorm:"default:false" json:"sent_to_customer"`
	SentDate       *time.Time `json:"sent_date,omitempty"`

	GeneratedByID *uint `gorm:"column:generated_by_id" json:"-"`

	Payment  Payment `gorm:"foreignKey:PaymentID;constraint:OnDelete:CASCADE" json:"-"`
	Customer User    `gorm:"foreignKey:CustomerID;constraint:OnDelete:CASCADE" json:"-"`
}
