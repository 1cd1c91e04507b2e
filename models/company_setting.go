package models

import "time"

// CompanySetting holds the billing header printed on invoices and receipts.
type CompanySetting struct {
	ID        uint    `gorm:"primaryKey" json:"id"`
	Name      string  `gorm:"size:255" json:"name"`
	Address   string  `gorm:"type:text" json:"address"`
	Phone     string  `gorm:"size:50" json:"phone"`
	Email     string  `gorm:"size:150" json:"email"`
	Website   string  `gorm:"size:255" json:"website"`
	TaxNumber string  `gorm:"size:50" json:"tax_number"`
	Currency  string  `gorm:"size:3;default:ZAR" json:"currency"`
	TaxRate   float64 `gorm:"default:15" json:"tax_rate"`

	InvoiceFooter string `gorm:"type:text" json:"invoice_footer,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
