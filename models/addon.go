package models

import "time"

const (
	AddonPricingPerDay     = "per_day"
	AddonPricingPerBooking = "per_booking"
	AddonPricingPercentage = "percentage"
)

// BookingAddOn is an optional paid extra (GPS, child seat, delivery, ...).
type BookingAddOn struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Name        string    `gorm:"size:100" json:"name"`
	AddonType   string    `gorm:"size:30" json:"addon_type"`
	Description string    `gorm:"type:text" json:"description,omitempty"`
	PricingType string    `gorm:"size:20;default:per_day" json:"pricing_type"`
	Price       float64   `json:"price"` // percentage value when pricing_type is percentage
	IsActive    bool      `gorm:"default:true" json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
}

// BookingAddOnAssignment attaches an add-on to a booking. TotalPrice is a
// snapshot computed when the assignment is priced, not a live view.
type BookingAddOnAssignment struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	BookingID  uint      `gorm:"index:idx_booking_addon,unique;column:booking_id" json:"booking_id"`
	AddonID    uint      `gorm:"index:idx_booking_addon,unique;column:addon_id" json:"addon_id"`
	Quantity   uint      `gorm:"default:1" json:"quantity"`
	UnitPrice  float64   `json:"unit_price"`
	TotalPrice float64   `json:"total_price"`
	Notes      string    `gorm:"type:text" json:"notes,omitempty"`
	CreatedAt  time.Time `json:"created_at"`

	Booking Booking      `gorm:"foreignKey:BookingID;constraint:OnDelete:CASCADE" json:"-"`
	Addon   BookingAddOn `gorm:"foreignKey:AddonID;constraint:OnDelete:CASCADE" json:"addon,omitempty"`
}
