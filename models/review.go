package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Review is one customer's rating of one completed booking.
type Review struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time      `gorm:"index" json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	CustomerID uint `gorm:"index;column:customer_id" json:"customer_id"`
	BookingID  uint `gorm:"uniqueIndex;column:booking_id" json:"booking_id"`
	VehicleID  uint `gorm:"index;column:vehicle_id" json:"vehicle_id"`

	OverallRating          uint  `json:"overall_rating"` // 1..5
	VehicleConditionRating *uint `json:"vehicle_condition_rating,omitempty"`
	ServiceRating          *uint `json:"service_rating,omitempty"`
	ValueForMoneyRating    *uint `json:"value_for_money_rating,omitempty"`

	Title   string `gorm:"size:200" json:"title,omitempty"`
	Comment string `gorm:"type:text" json:"comment"`
	Pros    string `gorm:"type:text" json:"pros,omitempty"`
	Cons    string `gorm:"type:text" json:"cons,omitempty"`

	IsVerified    bool  `gorm:"default:false" json:"is_verified"`
	IsApproved    bool  `gorm:"default:false;index" json:"is_approved"`
	IsFeatured    bool  `gorm:"default:false" json:"is_featured"`
	ModeratedByID *uint `gorm:"column:moderated_by_id" json:"-"`

	HelpfulVotes uint `gorm:"default:0" json:"helpful_votes"`
	TotalVotes   uint `gorm:"default:0" json:"total_votes"`

	CompanyResponse string     `gorm:"type:text" json:"company_response,omitempty"`
	ResponseDate    *time.Time `json:"response_date,omitempty"`

	Customer User    `gorm:"foreignKey:CustomerID;constraint:OnDelete:CASCADE" json:"customer,omitempty"`
	Booking  Booking `gorm:"foreignKey:BookingID;constraint:OnDelete:CASCADE" json:"-"`
	Vehicle  Vehicle `gorm:"foreignKey:VehicleID;constraint:OnDelete:CASCADE" json:"-"`
}

// LoyaltyProgram configures a tier of the loyalty scheme.
type LoyaltyProgram struct {
	ID                 uint           `gorm:"primaryKey" json:"id"`
	Tier               string         `gorm:"uniqueIndex;size:20" json:"tier"`
	MinPointsRequired  uint           `json:"min_points_required"`
	PointsPerUnit      float64        `gorm:"default:1" json:"points_per_unit"`
	DiscountPercentage float64        `gorm:"default:0" json:"discount_percentage"`
	Benefits           datatypes.JSON `json:"benefits,omitempty"`
	IsActive           bool           `gorm:"default:true" json:"is_active"`
	CreatedAt          time.Time      `json:"created_at"`
}
