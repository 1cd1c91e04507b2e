package models

import (
	"time"

	"gorm.io/datatypes"
)

const (
	DiscountTypePercentage  = "percentage"
	DiscountTypeFixedAmount = "fixed_amount"
	DiscountTypeFreeDays    = "free_days"
)

// Promotion is a discount campaign redeemed by code at booking time.
type Promotion struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	Name        string `gorm:"size:200" json:"name"`
	Code        string `gorm:"uniqueIndex;size:50" json:"code"`
	Description string `gorm:"type:text" json:"description,omitempty"`

	DiscountType      string   `gorm:"size:20" json:"discount_type"`
	DiscountValue     float64  `json:"discount_value"`
	MaxDiscountAmount *float64 `json:"max_discount_amount,omitempty"`

	StartDate        time.Time `gorm:"index" json:"start_date"`
	EndDate          time.Time `gorm:"index" json:"end_date"`
	UsageLimit       *uint     `json:"usage_limit,omitempty"`
	UsageCount       uint      `gorm:"default:0" json:"usage_count"`
	PerCustomerLimit uint      `gorm:"default:1" json:"per_customer_limit"`

	MinBookingAmount            *float64       `json:"min_booking_amount,omitempty"`
	MinRentalDays               *uint          `json:"min_rental_days,omitempty"`
	ApplicableVehicleCategories datatypes.JSON `json:"applicable_vehicle_categories,omitempty"`

	IsActive bool `gorm:"default:true;index" json:"is_active"`
	IsPublic bool `gorm:"default:true" json:"is_public"`

	CreatedAt   time.Time `json:"created_at"`
	CreatedByID *uint     `gorm:"column:created_by_id" json:"-"`
}

// IsRedeemable checks the validity window, active flag, and usage limit.
func (p *Promotion) IsRedeemable(now time.Time) bool {
	if !p.IsActive {
		return false
	}
	if now.Before(p.StartDate) || now.After(p.EndDate) {
		return false
	}
	if p.UsageLimit != nil && p.UsageCount >= *p.UsageLimit {
		return false
	}
	return true
}
