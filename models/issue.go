package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	IssueStatusOpen       = "open"
	IssueStatusInProgress = "in_progress"
	IssueStatusResolved   = "resolved"
	IssueStatusClosed     = "closed"
	IssueStatusEscalated  = "escalated"
)

const (
	IssuePriorityLow    = "low"
	IssuePriorityMedium = "medium"
	IssuePriorityHigh   = "high"
	IssuePriorityUrgent = "urgent"
)

const (
	PenaltyStatusPending  = "pending"
	PenaltyStatusDisputed = "disputed"
	PenaltyStatusApproved = "approved"
	PenaltyStatusPaid     = "paid"
	PenaltyStatusWaived   = "waived"
)

const (
	PenaltyTypeLateReturn     = "late_return"
	PenaltyTypeFuelShortage   = "fuel_shortage"
	PenaltyTypeDamage         = "damage"
	PenaltyTypeCleaningFee    = "cleaning_fee"
	PenaltyTypeMileageOverage = "mileage_overage"
	PenaltyTypeLostKey        = "lost_key"
	PenaltyTypeOther          = "other"
)

// IssueReport is a customer complaint or incident ticket.
type IssueReport struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time      `gorm:"index" json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	TicketNumber string `gorm:"uniqueIndex;size:20;column:ticket_number" json:"ticket_number"`
	CustomerID   uint   `gorm:"index;column:customer_id" json:"customer_id"`
	BookingID    *uint  `gorm:"column:booking_id" json:"booking_id,omitempty"`
	VehicleID    *uint  `gorm:"column:vehicle_id" json:"vehicle_id,omitempty"`

	IssueType string `gorm:"size:30" json:"issue_type"`
	Priority  string `gorm:"size:20;default:medium;index" json:"priority"`
	Status    string `gorm:"size:20;default:open;index" json:"status"`

	Subject     string `gorm:"size:200" json:"subject"`
	Description string `gorm:"type:text" json:"description"`
	Location    string `gorm:"size:200" json:"location,omitempty"`

	AssignedToID   *uint      `gorm:"column:assigned_to_id" json:"assigned_to_id,omitempty"`
	Resolution     string     `gorm:"type:text" json:"resolution,omitempty"`
	ResolutionDate *time.Time `json:"resolution_date,omitempty"`
	ResolvedByID   *uint      `gorm:"column:resolved_by_id" json:"-"`

	CustomerSatisfaction *uint  `json:"customer_satisfaction,omitempty"` // 1..5
	CustomerFeedback     string `gorm:"type:text" json:"customer_feedback,omitempty"`

	Customer   User     `gorm:"foreignKey:CustomerID;constraint:OnDelete:CASCADE" json:"-"`
	Booking    *Booking `gorm:"foreignKey:BookingID;constraint:OnDelete:SET NULL" json:"-"`
	Vehicle    *Vehicle `gorm:"foreignKey:VehicleID;constraint:OnDelete:SET NULL" json:"-"`
	AssignedTo *User    `gorm:"foreignKey:AssignedToID;constraint:OnDelete:SET NULL" json:"-"`
}

// Penalty is an extra charge raised against a booking (late return, fuel
// shortage, damage, ...). Created by staff or by booking completion.
type Penalty struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `gorm:"index" json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	BookingID  uint `gorm:"index;column:booking_id" json:"booking_id"`
	CustomerID uint `gorm:"index;column:customer_id" json:"customer_id"`

	PenaltyType string  `gorm:"size:30;index" json:"penalty_type"`
	Description string  `gorm:"type:text" json:"description"`
	Amount      float64 `json:"amount"`
	Status      string  `gorm:"size:20;default:pending;index" json:"status"`

	EvidencePhotos datatypes.JSON `json:"evidence_photos,omitempty"`

	IsDisputed        bool       `gorm:"default:false" json:"is_disputed"`
	DisputeReason     string     `gorm:"type:text" json:"dispute_reason,omitempty"`
	DisputeDate       *time.Time `json:"dispute_date,omitempty"`
	DisputeResolution string     `gorm:"type:text" json:"dispute_resolution,omitempty"`

	AssessedByID *uint `gorm:"column:assessed_by_id" json:"-"`
	ApprovedByID *uint `gorm:"column:approved_by_id" json:"-"`

	Booking  Booking `gorm:"foreignKey:BookingID;constraint:OnDelete:CASCADE" json:"-"`
	Customer User    `gorm:"foreignKey:CustomerID;constraint:OnDelete:CASCADE" json:"-"`
}
