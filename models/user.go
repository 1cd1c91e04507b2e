package models

import (
	"strings"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	UserTypeCustomer = "customer"
	UserTypeStaff    = "staff"
	UserTypeManager  = "manager"
	UserTypeAdmin    = "admin"
)

// User covers both customers and staff; UserType decides what they can do.
type User struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	Username string `gorm:"uniqueIndex;size:150" json:"username"`
	Email    string `gorm:"uniqueIndex;size:150" json:"email"`
	Password string `gorm:"size:255" json:"-"` // bcrypt hash, never returned
	UserType string `gorm:"size:20;default:customer;index" json:"user_type"`

	FirstName   string     `gorm:"size:100" json:"first_name"`
	LastName    string     `gorm:"size:100" json:"last_name"`
	PhoneNumber string     `gorm:"size:17" json:"phone_number,omitempty"`
	DateOfBirth *time.Time `json:"date_of_birth,omitempty"`
	Gender      string     `gorm:"size:1" json:"gender,omitempty"`
	Bio         string     `gorm:"size:500" json:"bio,omitempty"`

	AddressLine1  string `gorm:"size:255" json:"address_line_1,omitempty"`
	AddressLine2  string `gorm:"size:255" json:"address_line_2,omitempty"`
	City          string `gorm:"size:100" json:"city,omitempty"`
	StateProvince string `gorm:"size:100" json:"state_province,omitempty"`
	PostalCode    string `gorm:"size:20" json:"postal_code,omitempty"`
	Country       string `gorm:"size:100;default:Malawi" json:"country,omitempty"`

	DriversLicenseNumber *string    `gorm:"uniqueIndex;size:50" json:"drivers_license_number,omitempty"`
	LicenseExpiryDate    *time.Time `json:"license_expiry_date,omitempty"`
	LicenseClass         string     `gorm:"size:10" json:"license_class,omitempty"`
	LicenseCountry       string     `gorm:"size:100" json:"license_country,omitempty"`

	EmergencyContactName  string `gorm:"size:100" json:"emergency_contact_name,omitempty"`
	EmergencyContactPhone string `gorm:"size:17" json:"emergency_contact_phone,omitempty"`

	PreferredLanguage       string         `gorm:"size:10;default:en" json:"preferred_language,omitempty"`
	NotificationPreferences datatypes.JSON `json:"notification_preferences,omitempty"`
	MarketingConsent        bool           `gorm:"default:false" json:"marketing_consent"`

	IsVerified       bool       `gorm:"default:false;index" json:"is_verified"`
	VerificationDate *time.Time `json:"verification_date,omitempty"`
	IsSuspended      bool       `gorm:"default:false" json:"is_suspended"`
	SuspensionReason string     `gorm:"type:text" json:"suspension_reason,omitempty"`

	LoyaltyPoints uint   `gorm:"default:0" json:"loyalty_points"`
	LoyaltyTier   string `gorm:"size:20;default:bronze;index" json:"loyalty_tier"`

	CompanyName         string `gorm:"size:200" json:"company_name,omitempty"`
	CompanyRegistration string `gorm:"size:50" json:"company_registration,omitempty"`
	TaxNumber           string `gorm:"size:50" json:"tax_number,omitempty"`

	LastLoginIP string `gorm:"size:45" json:"-"`
}

func (u *User) FullName() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}

// IsStaff reports whether the user may operate on other people's data.
func (u *User) IsStaff() bool {
	switch u.UserType {
	case UserTypeStaff, UserTypeManager, UserTypeAdmin:
		return true
	}
	return false
}

// UserSession tracks logins for security and the dashboard session list.
type UserSession struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	UserID       uint      `gorm:"index;column:user_id" json:"user_id"`
	SessionKey   string    `gorm:"uniqueIndex;size:64" json:"session_key"`
	IPAddress    string    `gorm:"size:45" json:"ip_address"`
	UserAgent    string    `gorm:"type:text" json:"user_agent,omitempty"`
	DeviceType   string    `gorm:"size:50" json:"device_type,omitempty"`
	IsActive     bool      `gorm:"default:true;index" json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`
	LastActivity time.Time `gorm:"autoUpdateTime" json:"last_activity"`

	User User `gorm:"foreignKey:UserID" json:"-"`
}

// TokenBlacklist stores revoked refresh-token IDs. Logout writes here
// best-effort; the auth middleware refuses any blacklisted token.
type TokenBlacklist struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	JTI       string    `gorm:"uniqueIndex;size:64;column:jti" json:"jti"`
	UserID    uint      `gorm:"index" json:"user_id"`
	ExpiresAt time.Time `gorm:"index" json:"expires_at"`
	CreatedAt time.Time `json:"created_at"`
}

func (TokenBlacklist) TableName() string { return "token_blacklist" }
