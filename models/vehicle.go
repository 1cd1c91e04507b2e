package models

import (
	"fmt"
	"time"

	"gorm.io/gorm"
)

const (
	VehicleStatusAvailable   = "available"
	VehicleStatusRented      = "rented"
	VehicleStatusMaintenance = "maintenance"
	VehicleStatusRepair      = "repair"
	VehicleStatusRetired     = "retired"
	VehicleStatusSold        = "sold"
)

const (
	VehicleConditionExcellent = "excellent"
	VehicleConditionGood      = "good"
	VehicleConditionFair      = "fair"
	VehicleConditionPoor      = "poor"
)

// VehicleCategory groups the fleet (Economy, SUV, Luxury, ...).
type VehicleCategory struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Name        string    `gorm:"uniqueIndex;size:50" json:"name"`
	Description string    `gorm:"type:text" json:"description,omitempty"`
	SortOrder   uint      `gorm:"default:0" json:"sort_order"`
	IsActive    bool      `gorm:"default:true" json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type VehicleBrand struct {
	ID              uint      `gorm:"primaryKey" json:"id"`
	Name            string    `gorm:"uniqueIndex;size:50" json:"name"`
	CountryOfOrigin string    `gorm:"size:50" json:"country_of_origin,omitempty"`
	Website         string    `gorm:"size:255" json:"website,omitempty"`
	IsActive        bool      `gorm:"default:true" json:"is_active"`
	CreatedAt       time.Time `json:"created_at"`
}

// VehicleModel is a catalogue entry (Corolla, X5, ...), unique per brand.
type VehicleModel struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	BrandID    uint      `gorm:"index:idx_brand_name,unique;column:brand_id" json:"brand_id"`
	Name       string    `gorm:"index:idx_brand_name,unique;size:100" json:"name"`
	CategoryID *uint     `gorm:"column:category_id" json:"category_id,omitempty"`
	IsActive   bool      `gorm:"default:true" json:"is_active"`
	CreatedAt  time.Time `json:"created_at"`

	Brand    VehicleBrand     `gorm:"foreignKey:BrandID" json:"brand,omitempty"`
	Category *VehicleCategory `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
}

// Vehicle is one fleet unit.
type Vehicle struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	ModelID      uint    `gorm:"index;column:model_id" json:"model_id"`
	Year         uint    `json:"year"`
	Color        string  `gorm:"size:50" json:"color,omitempty"`
	LicensePlate string  `gorm:"uniqueIndex;size:20" json:"license_plate"`
	VinNumber    *string `gorm:"uniqueIndex;size:17;column:vin_number" json:"vin_number,omitempty"`

	EngineSize      float64 `json:"engine_size,omitempty"`
	FuelType        string  `gorm:"size:20;default:petrol" json:"fuel_type"`
	Transmission    string  `gorm:"size:20;default:manual" json:"transmission"`
	SeatingCapacity uint    `gorm:"default:5" json:"seating_capacity"`
	Doors           uint    `gorm:"default:4" json:"doors"`

	Status    string `gorm:"size:20;default:available;index" json:"status"`
	Condition string `gorm:"size:20;default:good" json:"condition"`

	CurrentMileage     uint  `gorm:"default:0" json:"current_mileage"`
	LastServiceMileage *uint `json:"last_service_mileage,omitempty"`
	NextServiceDue     *uint `json:"next_service_due,omitempty"`

	DailyRate       float64  `gorm:"index" json:"daily_rate"`
	WeeklyRateSet   *float64 `gorm:"column:weekly_rate" json:"weekly_rate,omitempty"`
	MonthlyRateSet  *float64 `gorm:"column:monthly_rate" json:"monthly_rate,omitempty"`
	SecurityDeposit float64  `gorm:"default:0" json:"security_deposit"`

	CurrentLocation string `gorm:"size:200" json:"current_location,omitempty"`
	GPSEnabled      bool   `gorm:"default:false;column:gps_enabled" json:"gps_enabled"`

	RegistrationExpiry    *time.Time `json:"registration_expiry,omitempty"`
	InsuranceCompany      string     `gorm:"size:100" json:"insurance_company,omitempty"`
	InsurancePolicyNumber string     `gorm:"size:50" json:"insurance_policy_number,omitempty"`
	InsuranceExpiry       *time.Time `json:"insurance_expiry,omitempty"`

	Notes      string `gorm:"type:text" json:"notes,omitempty"`
	IsFeatured bool   `gorm:"default:false" json:"is_featured"`
	IsActive   bool   `gorm:"default:true" json:"is_active"`

	CreatedByID *uint `gorm:"column:created_by_id" json:"-"`

	Model VehicleModel `gorm:"foreignKey:ModelID" json:"model,omitempty"`
}

func (v *Vehicle) DisplayName() string {
	return fmt.Sprintf("%s %s %d", v.Model.Brand.Name, v.Model.Name, v.Year)
}

func (v *Vehicle) IsAvailableForBooking() bool {
	return v.Status == VehicleStatusAvailable && v.IsActive
}

// WeeklyRate falls back to daily_rate x 6.5 (~10% off) when no explicit
// weekly rate is configured.
func (v *Vehicle) WeeklyRate() float64 {
	if v.WeeklyRateSet != nil {
		return *v.WeeklyRateSet
	}
	return v.DailyRate * 6.5
}

// MonthlyRate falls back to daily_rate x 25 (~17% off).
func (v *Vehicle) MonthlyRate() float64 {
	if v.MonthlyRateSet != nil {
		return *v.MonthlyRateSet
	}
	return v.DailyRate * 25
}
