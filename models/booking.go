package models

import (
	"time"

	"gorm.io/gorm"
)

const (
	BookingStatusPending   = "pending"
	BookingStatusConfirmed = "confirmed"
	BookingStatusActive    = "active"
	BookingStatusCompleted = "completed"
	BookingStatusCancelled = "cancelled"
	BookingStatusNoShow    = "no_show"
)

const (
	BookingPaymentPending  = "pending"
	BookingPaymentPartial  = "partial"
	BookingPaymentPaid     = "paid"
	BookingPaymentRefunded = "refunded"
	BookingPaymentFailed   = "failed"
)

// bookingTransitions lists the allowed edges of the lifecycle.
// completed, cancelled and no_show are terminal.
var bookingTransitions = map[string][]string{
	BookingStatusPending:   {BookingStatusConfirmed, BookingStatusCancelled},
	BookingStatusConfirmed: {BookingStatusActive, BookingStatusCancelled, BookingStatusNoShow},
	BookingStatusActive:    {BookingStatusCompleted},
}

// Booking reserves one vehicle for one customer over a date range.
type Booking struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time      `gorm:"index" json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	BookingReference string `gorm:"uniqueIndex;size:20;column:booking_reference" json:"booking_reference"`
	CustomerID       uint   `gorm:"index;column:customer_id" json:"customer_id"`
	VehicleID        uint   `gorm:"index;column:vehicle_id" json:"vehicle_id"`

	PickupDate       time.Time  `gorm:"index" json:"pickup_date"`
	ReturnDate       time.Time  `json:"return_date"`
	ActualPickupDate *time.Time `json:"actual_pickup_date,omitempty"`
	ActualReturnDate *time.Time `json:"actual_return_date,omitempty"`

	PickupLocation string `gorm:"size:200" json:"pickup_location"`
	ReturnLocation string `gorm:"size:200" json:"return_location"`
	PickupAddress  string `gorm:"type:text" json:"pickup_address,omitempty"`
	ReturnAddress  string `gorm:"type:text" json:"return_address,omitempty"`

	Status        string `gorm:"size:20;default:pending;index" json:"status"`
	PaymentStatus string `gorm:"size:20;default:pending" json:"payment_status"`

	DailyRate       float64 `json:"daily_rate"`
	TotalDays       uint    `json:"total_days"`
	Subtotal        float64 `json:"subtotal"`
	TaxAmount       float64 `gorm:"default:0" json:"tax_amount"`
	DiscountAmount  float64 `gorm:"default:0" json:"discount_amount"`
	AdditionalFees  float64 `gorm:"default:0" json:"additional_fees"`
	SecurityDeposit float64 `gorm:"default:0" json:"security_deposit"`
	TotalAmount     float64 `json:"total_amount"`

	PickupMileage   *uint    `json:"pickup_mileage,omitempty"`
	ReturnMileage   *uint    `json:"return_mileage,omitempty"`
	PickupFuelLevel *float64 `json:"pickup_fuel_level,omitempty"` // 0.0 .. 1.0
	ReturnFuelLevel *float64 `json:"return_fuel_level,omitempty"`

	SpecialRequests string `gorm:"type:text" json:"special_requests,omitempty"`
	CustomerNotes   string `gorm:"type:text" json:"customer_notes,omitempty"`
	StaffNotes      string `gorm:"type:text" json:"staff_notes,omitempty"`

	InsuranceSelected bool    `gorm:"default:false" json:"insurance_selected"`
	InsuranceType     string  `gorm:"size:50" json:"insurance_type,omitempty"`
	InsuranceCost     float64 `gorm:"default:0" json:"insurance_cost"`

	LoyaltyPointsUsed   uint   `gorm:"default:0" json:"loyalty_points_used"`
	LoyaltyPointsEarned uint   `gorm:"default:0" json:"loyalty_points_earned"`
	PromotionCode       string `gorm:"size:50" json:"promotion_code,omitempty"`

	ConfirmationSent bool `gorm:"default:false" json:"confirmation_sent"`
	ReminderSent     bool `gorm:"default:false" json:"reminder_sent"`
	ReviewEligible   bool `gorm:"default:false" json:"review_eligible"`

	// Staff references are nulled when the staff account goes away.
	AssignedStaffID *uint `gorm:"column:assigned_staff_id" json:"assigned_staff_id,omitempty"`
	PickupStaffID   *uint `gorm:"column:pickup_staff_id" json:"pickup_staff_id,omitempty"`
	ReturnStaffID   *uint `gorm:"column:return_staff_id" json:"return_staff_id,omitempty"`

	ConfirmedAt        *time.Time `json:"confirmed_at,omitempty"`
	CancelledAt        *time.Time `json:"cancelled_at,omitempty"`
	CancellationReason string     `gorm:"type:text" json:"cancellation_reason,omitempty"`

	Customer      User                      `gorm:"foreignKey:CustomerID;constraint:OnDelete:CASCADE" json:"customer,omitempty"`
	Vehicle       Vehicle                   `gorm:"foreignKey:VehicleID;constraint:OnDelete:CASCADE" json:"vehicle,omitempty"`
	AssignedStaff *User                     `gorm:"foreignKey:AssignedStaffID;constraint:OnDelete:SET NULL" json:"-"`
	Addons        []BookingAddOnAssignment  `gorm:"foreignKey:BookingID" json:"addons,omitempty"`
	Drivers       []BookingAdditionalDriver `gorm:"foreignKey:BookingID" json:"drivers,omitempty"`
}

// CanTransitionTo checks the lifecycle edge without touching the store.
func (b *Booking) CanTransitionTo(next string) bool {
	for _, allowed := range bookingTransitions[b.Status] {
		if allowed == next {
			return true
		}
	}
	return false
}

// IsTerminal reports whether no further status change is allowed.
func (b *Booking) IsTerminal() bool {
	return len(bookingTransitions[b.Status]) == 0
}

// CanBeCancelled: only pending/confirmed bookings whose pickup is still in
// the future may be cancelled.
func (b *Booking) CanBeCancelled(now time.Time) bool {
	return b.CanTransitionTo(BookingStatusCancelled) && b.PickupDate.After(now)
}

// IsOverdue reports an active rental past its agreed return date.
func (b *Booking) IsOverdue(now time.Time) bool {
	return b.Status == BookingStatusActive && b.ReturnDate.Before(now)
}

// BookingAdditionalDriver links extra approved drivers to a booking.
type BookingAdditionalDriver struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	BookingID     uint      `gorm:"index:idx_booking_driver,unique;column:booking_id" json:"booking_id"`
	DriverID      uint      `gorm:"index:idx_booking_driver,unique;column:driver_id" json:"driver_id"`
	AdditionalFee float64   `gorm:"default:0" json:"additional_fee"`
	IsApproved    bool      `gorm:"default:false" json:"is_approved"`
	CreatedAt     time.Time `json:"created_at"`

	Booking Booking `gorm:"foreignKey:BookingID;constraint:OnDelete:CASCADE" json:"-"`
	Driver  User    `gorm:"foreignKey:DriverID;constraint:OnDelete:CASCADE" json:"driver,omitempty"`
}
