package controllers

import (
	"net/http"
	"strings"
	"time"

	"github.com/Keithpaul98/Car-Hire-System/config"
	"github.com/Keithpaul98/Car-Hire-System/middleware"
	"github.com/Keithpaul98/Car-Hire-System/models"
	"github.com/Keithpaul98/Car-Hire-System/utils"

	"github.com/gin-gonic/gin"
)

type createVehiclePayload struct {
	ModelID         uint     `json:"model_id" binding:"required"`
	Year            uint     `json:"year" binding:"required"`
	Color           string   `json:"color"`
	LicensePlate    string   `json:"license_plate" binding:"required"`
	VinNumber       *string  `json:"vin_number"`
	EngineSize      float64  `json:"engine_size"`
	FuelType        string   `json:"fuel_type"`
	Transmission    string   `json:"transmission"`
	SeatingCapacity uint     `json:"seating_capacity"`
	Doors           uint     `json:"doors"`
	DailyRate       float64  `json:"daily_rate" binding:"required,gt=0"`
	WeeklyRate      *float64 `json:"weekly_rate"`
	MonthlyRate     *float64 `json:"monthly_rate"`
	SecurityDeposit float64  `json:"security_deposit"`
	CurrentMileage  uint     `json:"current_mileage"`
	CurrentLocation string   `json:"current_location"`
}

// CreateVehicle adds a unit to the fleet (staff only).
func CreateVehicle(c *gin.Context) {
	var payload createVehiclePayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		utils.JSONValidationError(c, http.StatusBadRequest, "invalid payload", err.Error())
		return
	}

	var model models.VehicleModel
	if err := config.DB.First(&model, payload.ModelID).Error; err != nil {
		utils.JSONError(c, http.StatusNotFound, "vehicle_model_not_found", "Vehicle model not found")
		return
	}

	staffID, _ := middleware.CurrentUserID(c)
	vehicle := models.Vehicle{
		ModelID:         payload.ModelID,
		Year:            payload.Year,
		Color:           payload.Color,
		LicensePlate:    strings.ToUpper(strings.TrimSpace(payload.LicensePlate)),
		VinNumber:       payload.VinNumber,
		EngineSize:      payload.EngineSize,
		FuelType:        payload.FuelType,
		Transmission:    payload.Transmission,
		SeatingCapacity: payload.SeatingCapacity,
		Doors:           payload.Doors,
		DailyRate:       payload.DailyRate,
		WeeklyRateSet:   payload.WeeklyRate,
		MonthlyRateSet:  payload.MonthlyRate,
		SecurityDeposit: payload.SecurityDeposit,
		CurrentMileage:  payload.CurrentMileage,
		CurrentLocation: payload.CurrentLocation,
		Status:          models.VehicleStatusAvailable,
		IsActive:        true,
		CreatedByID:     &staffID,
	}
	if err := config.DB.Create(&vehicle).Error; err != nil {
		if utils.IsDuplicateErr(err) {
			utils.JSONError(c, http.StatusConflict, "duplicate_vehicle", "License plate or VIN already registered")
			return
		}
		utils.JSONError(c, http.StatusInternalServerError, "internal_error", "Failed to create vehicle")
		return
	}
	utils.JSONSuccess(c, http.StatusCreated, vehicle)
}

// GetVehicle returns one unit with its catalogue relations.
func GetVehicle(c *gin.Context) {
	var vehicle models.Vehicle
	if err := config.DB.Preload("Model.Brand").Preload("Model.Category").
		First(&vehicle, "id = ?", c.Param("id")).Error; err != nil {
		utils.JSONError(c, http.StatusNotFound, "vehicle_not_found", "Vehicle not found")
		return
	}
	utils.JSONSuccess(c, http.StatusOK, gin.H{
		"vehicle":      vehicle,
		"weekly_rate":  vehicle.WeeklyRate(),
		"monthly_rate": vehicle.MonthlyRate(),
	})
}

// ListVehicles is the public fleet search.
func ListVehicles(c *gin.Context) {
	q := config.DB.Model(&models.Vehicle{}).
		Preload("Model.Brand").Preload("Model.Category").
		Where("is_active = ?", true)

	if status := c.Query("status"); status != "" {
		q = q.Where("status = ?", status)
	}
	if category := c.Query("category_id"); category != "" {
		q = q.Joins("JOIN vehicle_models ON vehicle_models.id = vehicles.model_id").
			Where("vehicle_models.category_id = ?", category)
	}
	if transmission := c.Query("transmission"); transmission != "" {
		q = q.Where("transmission = ?", transmission)
	}
	if fuelType := c.Query("fuel_type"); fuelType != "" {
		q = q.Where("fuel_type = ?", fuelType)
	}
	if maxRate := c.Query("max_daily_rate"); maxRate != "" {
		q = q.Where("daily_rate <= ?", maxRate)
	}
	if seats := c.Query("min_seats"); seats != "" {
		q = q.Where("seating_capacity >= ?", seats)
	}
	if c.Query("featured") == "true" {
		q = q.Where("is_featured = ?", true)
	}

	var vehicles []models.Vehicle
	if err := q.Order("daily_rate ASC").Limit(200).Find(&vehicles).Error; err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "internal_error", "Failed to list vehicles")
		return
	}
	utils.JSONSuccess(c, http.StatusOK, vehicles)
}

// UpdateVehicle applies a partial update (staff only).
func UpdateVehicle(c *gin.Context) {
	var vehicle models.Vehicle
	if err := config.DB.First(&vehicle, "id = ?", c.Param("id")).Error; err != nil {
		utils.JSONError(c, http.StatusNotFound, "vehicle_not_found", "Vehicle not found")
		return
	}

	var payload map[string]interface{}
	if err := c.ShouldBindJSON(&payload); err != nil {
		utils.JSONValidationError(c, http.StatusBadRequest, "invalid payload", err.Error())
		return
	}

	allowed := map[string]bool{
		"color": true, "status": true, "condition": true,
		"daily_rate": true, "weekly_rate": true, "monthly_rate": true,
		"security_deposit": true, "current_mileage": true,
		"current_location": true, "fuel_type": true, "transmission": true,
		"notes": true, "is_featured": true, "is_active": true,
		"next_service_due": true, "insurance_company": true,
		"insurance_policy_number": true, "gps_enabled": true,
	}
	updates := map[string]interface{}{}
	for k, v := range payload {
		if allowed[k] {
			updates[k] = v
		}
	}
	if len(updates) == 0 {
		utils.JSONError(c, http.StatusBadRequest, "invalid_payload", "No updatable fields provided")
		return
	}

	if err := config.DB.Model(&vehicle).Updates(updates).Error; err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "internal_error", "Failed to update vehicle")
		return
	}
	config.DB.Preload("Model.Brand").First(&vehicle, vehicle.ID)
	utils.JSONSuccess(c, http.StatusOK, vehicle)
}

// RetireVehicle takes a unit out of service permanently (staff only).
func RetireVehicle(c *gin.Context) {
	var vehicle models.Vehicle
	if err := config.DB.First(&vehicle, "id = ?", c.Param("id")).Error; err != nil {
		utils.JSONError(c, http.StatusNotFound, "vehicle_not_found", "Vehicle not found")
		return
	}
	if vehicle.Status == models.VehicleStatusRented {
		utils.JSONError(c, http.StatusConflict, "vehicle_on_rental", "Vehicle is currently rented out")
		return
	}
	if err := config.DB.Model(&vehicle).Updates(map[string]interface{}{
		"status":    models.VehicleStatusRetired,
		"is_active": false,
	}).Error; err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "internal_error", "Failed to retire vehicle")
		return
	}
	utils.JSONSuccess(c, http.StatusOK, gin.H{"message": "Vehicle retired"})
}

//
// -------- Catalogue: categories, brands, models --------
//

func ListCategories(c *gin.Context) {
	var categories []models.VehicleCategory
	config.DB.Where("is_active = ?", true).Order("sort_order ASC").Find(&categories)
	utils.JSONSuccess(c, http.StatusOK, categories)
}

func CreateCategory(c *gin.Context) {
	var category models.VehicleCategory
	if err := c.ShouldBindJSON(&category); err != nil {
		utils.JSONValidationError(c, http.StatusBadRequest, "invalid payload", err.Error())
		return
	}
	if strings.TrimSpace(category.Name) == "" {
		utils.JSONError(c, http.StatusBadRequest, "invalid_payload", "name required")
		return
	}
	if err := config.DB.Create(&category).Error; err != nil {
		if utils.IsDuplicateErr(err) {
			utils.JSONError(c, http.StatusConflict, "duplicate_category", "Category already exists")
			return
		}
		utils.JSONError(c, http.StatusInternalServerError, "internal_error", "Failed to create category")
		return
	}
	utils.JSONSuccess(c, http.StatusCreated, category)
}

func ListBrands(c *gin.Context) {
	var brands []models.VehicleBrand
	config.DB.Where("is_active = ?", true).Order("name ASC").Find(&brands)
	utils.JSONSuccess(c, http.StatusOK, brands)
}

func CreateBrand(c *gin.Context) {
	var brand models.VehicleBrand
	if err := c.ShouldBindJSON(&brand); err != nil {
		utils.JSONValidationError(c, http.StatusBadRequest, "invalid payload", err.Error())
		return
	}
	if strings.TrimSpace(brand.Name) == "" {
		utils.JSONError(c, http.StatusBadRequest, "invalid_payload", "name required")
		return
	}
	if err := config.DB.Create(&brand).Error; err != nil {
		if utils.IsDuplicateErr(err) {
			utils.JSONError(c, http.StatusConflict, "duplicate_brand", "Brand already exists")
			return
		}
		utils.JSONError(c, http.StatusInternalServerError, "internal_error", "Failed to create brand")
		return
	}
	utils.JSONSuccess(c, http.StatusCreated, brand)
}

func ListModels(c *gin.Context) {
	q := config.DB.Model(&models.VehicleModel{}).Preload("Brand").Preload("Category")
	if brandID := c.Query("brand_id"); brandID != "" {
		q = q.Where("brand_id = ?", brandID)
	}
	var vmodels []models.VehicleModel
	q.Where("is_active = ?", true).Order("name ASC").Find(&vmodels)
	utils.JSONSuccess(c, http.StatusOK, vmodels)
}

func CreateModel(c *gin.Context) {
	var model models.VehicleModel
	if err := c.ShouldBindJSON(&model); err != nil {
		utils.JSONValidationError(c, http.StatusBadRequest, "invalid payload", err.Error())
		return
	}
	if model.BrandID == 0 || strings.TrimSpace(model.Name) == "" {
		utils.JSONError(c, http.StatusBadRequest, "invalid_payload", "brand_id and name required")
		return
	}
	if err := config.DB.Create(&model).Error; err != nil {
		if utils.IsDuplicateErr(err) {
			utils.JSONError(c, http.StatusConflict, "duplicate_model", "Model already exists for this brand")
			return
		}
		utils.JSONError(c, http.StatusInternalServerError, "internal_error", "Failed to create model")
		return
	}
	utils.JSONSuccess(c, http.StatusCreated, model)
}

//
// -------- Per-vehicle detail: features, images, maintenance, safety --------
//

func ListVehicleFeatures(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var assignments []models.VehicleFeatureAssignment
	config.DB.Preload("Feature").Where("vehicle_id = ?", id).Find(&assignments)
	utils.JSONSuccess(c, http.StatusOK, assignments)
}

type assignFeaturePayload struct {
	FeatureID uint   `json:"feature_id" binding:"required"`
	IsWorking *bool  `json:"is_working"`
	Notes     string `json:"notes"`
}

func AssignVehicleFeature(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var payload assignFeaturePayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		utils.JSONValidationError(c, http.StatusBadRequest, "invalid payload", err.Error())
		return
	}
	assignment := models.VehicleFeatureAssignment{
		VehicleID: id,
		FeatureID: payload.FeatureID,
		IsWorking: payload.IsWorking == nil || *payload.IsWorking,
		Notes:     payload.Notes,
	}
	if err := config.DB.Create(&assignment).Error; err != nil {
		if utils.IsDuplicateErr(err) {
			utils.JSONError(c, http.StatusConflict, "feature_assigned", "Feature already assigned to this vehicle")
			return
		}
		utils.JSONError(c, http.StatusInternalServerError, "internal_error", "Failed to assign feature")
		return
	}
	utils.JSONSuccess(c, http.StatusCreated, assignment)
}

func AddVehicleImage(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var image models.VehicleImage
	if err := c.ShouldBindJSON(&image); err != nil {
		utils.JSONValidationError(c, http.StatusBadRequest, "invalid payload", err.Error())
		return
	}
	if image.URL == "" {
		utils.JSONError(c, http.StatusBadRequest, "invalid_payload", "url required")
		return
	}
	image.VehicleID = id
	if image.IsPrimary {
		config.DB.Model(&models.VehicleImage{}).
			Where("vehicle_id = ?", id).Update("is_primary", false)
	}
	if err := config.DB.Create(&image).Error; err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "internal_error", "Failed to add image")
		return
	}
	utils.JSONSuccess(c, http.StatusCreated, image)
}

type scheduleMaintenancePayload struct {
	MaintenanceType string  `json:"maintenance_type" binding:"required"`
	Description     string  `json:"description"`
	ScheduledDate   string  `json:"scheduled_date" binding:"required"`
	ServiceProvider string  `json:"service_provider"`
	EstimatedCost   float64 `json:"estimated_cost"`
}

// ScheduleMaintenance books a unit in for service and parks it out of the
// available pool.
func ScheduleMaintenance(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var payload scheduleMaintenancePayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		utils.JSONValidationError(c, http.StatusBadRequest, "invalid payload", err.Error())
		return
	}
	scheduled, err := parseDate(payload.ScheduledDate)
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid_date", "scheduled_date must be RFC3339 or YYYY-MM-DD")
		return
	}

	var vehicle models.Vehicle
	if err := config.DB.First(&vehicle, id).Error; err != nil {
		utils.JSONError(c, http.StatusNotFound, "vehicle_not_found", "Vehicle not found")
		return
	}
	if vehicle.Status == models.VehicleStatusRented {
		utils.JSONError(c, http.StatusConflict, "vehicle_on_rental", "Vehicle is currently rented out")
		return
	}

	staffID, _ := middleware.CurrentUserID(c)
	record := models.VehicleMaintenanceRecord{
		VehicleID:       id,
		MaintenanceType: payload.MaintenanceType,
		Description:     payload.Description,
		ScheduledDate:   scheduled,
		Status:          models.MaintenanceStatusScheduled,
		ServiceProvider: payload.ServiceProvider,
		EstimatedCost:   payload.EstimatedCost,
		CreatedByID:     &staffID,
	}
	if err := config.DB.Create(&record).Error; err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "internal_error", "Failed to schedule maintenance")
		return
	}
	config.DB.Model(&vehicle).Update("status", models.VehicleStatusMaintenance)
	utils.JSONSuccess(c, http.StatusCreated, record)
}

type completeMaintenancePayload struct {
	ActualCost       float64 `json:"actual_cost"`
	LaborHours       float64 `json:"labor_hours"`
	MileageAtService *uint   `json:"mileage_at_service"`
	Notes            string  `json:"notes"`
}

// CompleteMaintenance closes a service record and returns the vehicle to
// the available pool.
func CompleteMaintenance(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var payload completeMaintenancePayload
	if err := c.ShouldBindJSON(&payload); err != nil && err.Error() != "EOF" {
		utils.JSONValidationError(c, http.StatusBadRequest, "invalid payload", err.Error())
		return
	}

	var record models.VehicleMaintenanceRecord
	if err := config.DB.First(&record, id).Error; err != nil {
		utils.JSONError(c, http.StatusNotFound, "maintenance_not_found", "Maintenance record not found")
		return
	}
	if record.Status == models.MaintenanceStatusCompleted || record.Status == models.MaintenanceStatusCancelled {
		utils.JSONError(c, http.StatusConflict, "invalid_transition", "Maintenance record is already closed")
		return
	}

	now := time.Now()
	updates := map[string]interface{}{
		"status":         models.MaintenanceStatusCompleted,
		"completed_date": now,
		"actual_cost":    payload.ActualCost,
		"labor_hours":    payload.LaborHours,
		"notes":          payload.Notes,
	}
	if payload.MileageAtService != nil {
		updates["mileage_at_service"] = *payload.MileageAtService
	}
	if err := config.DB.Model(&record).Updates(updates).Error; err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "internal_error", "Failed to complete maintenance")
		return
	}

	vehicleUpdates := map[string]interface{}{"status": models.VehicleStatusAvailable}
	if payload.MileageAtService != nil {
		vehicleUpdates["last_service_mileage"] = *payload.MileageAtService
	}
	config.DB.Model(&models.Vehicle{}).Where("id = ?", record.VehicleID).Updates(vehicleUpdates)

	utils.JSONSuccess(c, http.StatusOK, record)
}

func ListMaintenanceRecords(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var records []models.VehicleMaintenanceRecord
	config.DB.Where("vehicle_id = ?", id).Order("scheduled_date DESC").Find(&records)
	utils.JSONSuccess(c, http.StatusOK, records)
}

func ListSafetyEquipment(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var equipment []models.VehicleSafetyEquipment
	config.DB.Where("vehicle_id = ?", id).Find(&equipment)
	utils.JSONSuccess(c, http.StatusOK, equipment)
}

func UpsertSafetyEquipment(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var item models.VehicleSafetyEquipment
	if err := c.ShouldBindJSON(&item); err != nil {
		utils.JSONValidationError(c, http.StatusBadRequest, "invalid payload", err.Error())
		return
	}
	if item.EquipmentType == "" {
		utils.JSONError(c, http.StatusBadRequest, "invalid_payload", "equipment_type required")
		return
	}
	item.VehicleID = id

	var existing models.VehicleSafetyEquipment
	err := config.DB.Where("vehicle_id = ? AND equipment_type = ?", id, item.EquipmentType).
		First(&existing).Error
	if err == nil {
		item.ID = existing.ID
		if err := config.DB.Save(&item).Error; err != nil {
			utils.JSONError(c, http.StatusInternalServerError, "internal_error", "Failed to update equipment")
			return
		}
		utils.JSONSuccess(c, http.StatusOK, item)
		return
	}
	if err := config.DB.Create(&item).Error; err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "internal_error", "Failed to record equipment")
		return
	}
	utils.JSONSuccess(c, http.StatusCreated, item)
}

// ListAddons returns the active booking add-ons catalogue.
func ListAddons(c *gin.Context) {
	var addons []models.BookingAddOn
	config.DB.Where("is_active = ?", true).Find(&addons)
	utils.JSONSuccess(c, http.StatusOK, addons)
}
