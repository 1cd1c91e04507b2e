package config

import (
	"fmt"
	"log"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/Keithpaul98/Car-Hire-System/models"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var DB *gorm.DB

// SeedDatabase fills reference data a fresh deployment needs: a default
// admin, payment methods, loyalty tiers, the vehicle catalogue skeleton
// and company billing details. Safe to call repeatedly.
func SeedDatabase() {
	// ---------------- Admin user ----------------
	var adminCount int64
	DB.Model(&models.User{}).Where("user_type = ?", models.UserTypeAdmin).Count(&adminCount)
	if adminCount == 0 {
		hash, err := bcrypt.GenerateFromPassword([]byte(envOrDefault("ADMIN_PASSWORD", "admin123")), bcrypt.DefaultCost)
		if err != nil {
			log.Printf("warning: failed to hash default admin password: %v", err)
		} else {
			admin := models.User{
				Username:   "admin",
				Email:      "admin@carhire.local",
				Password:   string(hash),
				FirstName:  "System",
				LastName:   "Administrator",
				UserType:   models.UserTypeAdmin,
				IsVerified: true,
			}
			if err := DB.Create(&admin).Error; err != nil {
				log.Printf("warning: failed to create default admin: %v", err)
			} else {
				log.Println("Default admin seeded")
			}
		}
	}

	// ---------------- Payment methods ----------------
	var pmCount int64
	DB.Model(&models.PaymentMethod{}).Count(&pmCount)
	if pmCount == 0 {
		methods := []models.PaymentMethod{
			{Name: "Credit Card", MethodType: "card", ProcessingFeePercentage: 2.9, IsActive: true},
			{Name: "Debit Card", MethodType: "card", ProcessingFeePercentage: 1.5, IsActive: true},
			{Name: "EFT Transfer", MethodType: "transfer", IsActive: true, RequiresVerification: true},
			{Name: "Cash", MethodType: "cash", IsActive: true},
		}
		DB.Create(&methods)
		log.Println("Payment methods seeded")
	}

	// ---------------- Loyalty tiers ----------------
	var tierCount int64
	DB.Model(&models.LoyaltyProgram{}).Count(&tierCount)
	if tierCount == 0 {
		tiers := []models.LoyaltyProgram{
			{Tier: "bronze", MinPointsRequired: 0, DiscountPercentage: 0},
			{Tier: "silver", MinPointsRequired: 500, DiscountPercentage: 5},
			{Tier: "gold", MinPointsRequired: 2000, DiscountPercentage: 10},
			{Tier: "platinum", MinPointsRequired: 5000, DiscountPercentage: 15},
		}
		DB.Create(&tiers)
		log.Println("Loyalty tiers seeded")
	}

	// ---------------- Vehicle categories ----------------
	var catCount int64
	DB.Model(&models.VehicleCategory{}).Count(&catCount)
	if catCount == 0 {
		categories := []models.VehicleCategory{
			{Name: "Economy", Description: "Small, fuel efficient cars"},
			{Name: "Compact", Description: "Compact hatchbacks and sedans"},
			{Name: "SUV", Description: "Sport utility vehicles"},
			{Name: "Luxury", Description: "Premium vehicles"},
			{Name: "Van", Description: "People carriers and panel vans"},
		}
		DB.Create(&categories)
		log.Println("Vehicle categories seeded")
	}

	// ---------------- Add-ons ----------------
	var addonCount int64
	DB.Model(&models.BookingAddOn{}).Count(&addonCount)
	if addonCount == 0 {
		addons := []models.BookingAddOn{
			{Name: "GPS Navigation", Price: 50, PricingType: models.AddonPricingPerDay, IsActive: true},
			{Name: "Child Seat", Price: 35, PricingType: models.AddonPricingPerDay, IsActive: true},
			{Name: "Additional Driver Cover", Price: 250, PricingType: models.AddonPricingPerBooking, IsActive: true},
			{Name: "Premium Insurance", Price: 10, PricingType: models.AddonPricingPercentage, IsActive: true},
		}
		DB.Create(&addons)
		log.Println("Booking add-ons seeded")
	}

	// ---------------- Company settings ----------------
	var settingCount int64
	DB.Model(&models.CompanySetting{}).Count(&settingCount)
	if settingCount == 0 {
		setting := models.CompanySetting{
			Name:          "Car Hire System",
			Email:         "billing@carhire.local",
			Currency:      "ZAR",
			TaxRate:       15,
			TaxNumber:     "0000000000",
			InvoiceFooter: "Thank you for renting with us.",
		}
		if err := DB.Create(&setting).Error; err != nil {
			log.Printf("warning: failed to seed company settings: %v", err)
		} else {
			log.Println("Company settings seeded")
		}
	}
}

func envOrDefault(key, def string) string {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return def
	}
	return value
}

func mysqlDSNFromURL(raw string) (string, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return "", err
	}

	user := u.User.Username()
	pass, _ := u.User.Password()
	host := u.Hostname()
	port := u.Port()
	if port == "" {
		port = "3306"
	}

	dbName := strings.TrimPrefix(u.Path, "/")
	if dbName == "" {
		return "", fmt.Errorf("mysql url missing database name")
	}

	q := u.Query()
	if q.Get("charset") == "" {
		q.Set("charset", "utf8mb4")
	}
	if q.Get("parseTime") == "" {
		q.Set("parseTime", "True")
	}
	if q.Get("loc") == "" {
		q.Set("loc", "Local")
	}

	return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?%s", user, pass, host, port, dbName, q.Encode()), nil
}

func resolveMySQLDSN() (string, error) {
	raw := strings.TrimSpace(os.Getenv("MYSQL_URL"))
	if raw == "" {
		raw = strings.TrimSpace(os.Getenv("DATABASE_URL"))
	}

	if raw != "" {
		if strings.HasPrefix(raw, "mysql://") {
			return mysqlDSNFromURL(raw)
		}
		return raw, nil
	}

	user := envOrDefault("DB_USER", "root")
	pass := envOrDefault("DB_PASS", "")
	host := envOrDefault("DB_HOST", "127.0.0.1")
	port := envOrDefault("DB_PORT", "3306")
	dbName := envOrDefault("DB_NAME", "car_hire_db")

	return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		user, pass, host, port, dbName,
	), nil
}

func ConnectDatabase() error {
	dsn, err := resolveMySQLDSN()
	if err != nil {
		return err
	}

	newLogger := logger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags),
		logger.Config{
			SlowThreshold: time.Second,
			LogLevel:      logger.Warn,
			Colorful:      true,
		},
	)

	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{Logger: newLogger})
	if err != nil {
		return err
	}

	DB = db

	// AutoMigrate in parent->child order
	if err := DB.AutoMigrate(
		&models.User{},
		&models.UserSession{},
		&models.TokenBlacklist{},
		&models.CompanySetting{},
		&models.LoyaltyProgram{},
		&models.VehicleCategory{},
		&models.VehicleBrand{},
		&models.VehicleModel{},
		&models.Vehicle{},
		&models.VehicleFeature{},
		&models.VehicleFeatureAssignment{},
		&models.VehicleImage{},
		&models.VehicleMaintenanceRecord{},
		&models.VehicleSafetyEquipment{},
		&models.Promotion{},
		&models.BookingAddOn{},
		&models.Booking{},
		&models.BookingAdditionalDriver{},
		&models.BookingAddOnAssignment{},
		&models.PaymentMethod{},
		&models.Payment{},
		&models.Invoice{},
		&models.Receipt{},
		&models.Review{},
		&models.IssueReport{},
		&models.Penalty{},
	); err != nil {
		return err
	}

	SeedDatabase()
	return nil
}
