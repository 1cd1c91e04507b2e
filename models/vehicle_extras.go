package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	MaintenanceStatusScheduled  = "scheduled"
	MaintenanceStatusInProgress = "in_progress"
	MaintenanceStatusCompleted  = "completed"
	MaintenanceStatusCancelled  = "cancelled"
)

const (
	EquipmentStatusPresent = "present"
	EquipmentStatusMissing = "missing"
	EquipmentStatusDamaged = "damaged"
	EquipmentStatusExpired = "expired"
)

// VehicleFeature is a catalogue feature (GPS, Bluetooth, ...).
type VehicleFeature struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	Name           string    `gorm:"uniqueIndex;size:100" json:"name"`
	Description    string    `gorm:"type:text" json:"description,omitempty"`
	Category       string    `gorm:"size:50" json:"category,omitempty"` // Safety, Comfort, Technology
	IsPremium      bool      `gorm:"default:false" json:"is_premium"`
	AdditionalCost float64   `gorm:"default:0" json:"additional_cost"`
	IsActive       bool      `gorm:"default:true" json:"is_active"`
	CreatedAt      time.Time `json:"created_at"`
}

type VehicleFeatureAssignment struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	VehicleID uint      `gorm:"index:idx_vehicle_feature,unique;column:vehicle_id" json:"vehicle_id"`
	FeatureID uint      `gorm:"index:idx_vehicle_feature,unique;column:feature_id" json:"feature_id"`
	IsWorking bool      `gorm:"default:true" json:"is_working"`
	Notes     string    `gorm:"type:text" json:"notes,omitempty"`
	CreatedAt time.Time `json:"created_at"`

	Vehicle Vehicle        `gorm:"foreignKey:VehicleID;constraint:OnDelete:CASCADE" json:"-"`
	Feature VehicleFeature `gorm:"foreignKey:FeatureID;constraint:OnDelete:CASCADE" json:"feature,omitempty"`
}

type VehicleImage struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	VehicleID uint      `gorm:"index;column:vehicle_id" json:"vehicle_id"`
	URL       string    `gorm:"size:500" json:"url"`
	ImageType string    `gorm:"size:20;default:exterior" json:"image_type"`
	Caption   string    `gorm:"size:200" json:"caption,omitempty"`
	IsPrimary bool      `gorm:"default:false" json:"is_primary"`
	SortOrder uint      `gorm:"default:0" json:"sort_order"`
	CreatedAt time.Time `json:"created_at"`

	Vehicle Vehicle `gorm:"foreignKey:VehicleID;constraint:OnDelete:CASCADE" json:"-"`
}

type VehicleMaintenanceRecord struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	VehicleID       uint       `gorm:"index;column:vehicle_id" json:"vehicle_id"`
	MaintenanceType string     `gorm:"size:20;index" json:"maintenance_type"`
	Description     string     `gorm:"type:text" json:"description"`
	ScheduledDate   time.Time  `gorm:"index" json:"scheduled_date"`
	CompletedDate   *time.Time `json:"completed_date,omitempty"`
	Status          string     `gorm:"size:20;default:scheduled" json:"status"`

	ServiceProvider  string  `gorm:"size:200" json:"service_provider,omitempty"`
	TechnicianName   string  `gorm:"size:100" json:"technician_name,omitempty"`
	MileageAtService *uint   `json:"mileage_at_service,omitempty"`
	EstimatedCost    float64 `json:"estimated_cost,omitempty"`
	ActualCost       float64 `json:"actual_cost,omitempty"`

	PartsUsed  datatypes.JSON `json:"parts_used,omitempty"`
	LaborHours float64        `json:"labor_hours,omitempty"`
	Notes      string         `gorm:"type:text" json:"notes,omitempty"`

	CreatedByID *uint `gorm:"column:created_by_id" json:"-"`

	Vehicle Vehicle `gorm:"foreignKey:VehicleID;constraint:OnDelete:CASCADE" json:"-"`
}

type VehicleSafetyEquipment struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	VehicleID     uint   `gorm:"index:idx_vehicle_equipment,unique;column:vehicle_id" json:"vehicle_id"`
	EquipmentType string `gorm:"index:idx_vehicle_equipment,unique;size:30" json:"equipment_type"`
	Status        string `gorm:"size:20;default:present" json:"status"`

	Brand              string     `gorm:"size:50" json:"brand,omitempty"`
	SerialNumber       string     `gorm:"size:50" json:"serial_number,omitempty"`
	ExpiryDate         *time.Time `gorm:"index" json:"expiry_date,omitempty"`
	LastInspectionDate *time.Time `json:"last_inspection_date,omitempty"`
	NextInspectionDue  *time.Time `json:"next_inspection_due,omitempty"`
	Notes              string     `gorm:"type:text" json:"notes,omitempty"`

	Vehicle Vehicle `gorm:"foreignKey:VehicleID;constraint:OnDelete:CASCADE" json:"-"`
}

func (VehicleSafetyEquipment) TableName() string { return "vehicle_safety_equipment" }
