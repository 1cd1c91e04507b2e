package controllers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/Keithpaul98/Car-Hire-System/config"
	"github.com/Keithpaul98/Car-Hire-System/middleware"
	"github.com/Keithpaul98/Car-Hire-System/models"
	"github.com/Keithpaul98/Car-Hire-System/services"
	"github.com/Keithpaul98/Car-Hire-System/utils"

	"github.com/gin-gonic/gin"
)

type BookingController struct {
	Service *services.BookingService
}

func NewBookingController(service *services.BookingService) *BookingController {
	return &BookingController{Service: service}
}

type createBookingPayload struct {
	VehicleID       uint    `json:"vehicle_id" binding:"required"`
	PickupDate      string  `json:"pickup_date" binding:"required"`
	ReturnDate      string  `json:"return_date" binding:"required"`
	PickupLocation  string  `json:"pickup_location" binding:"required"`
	ReturnLocation  string  `json:"return_location"`
	SpecialRequests string  `json:"special_requests"`
	InsuranceType   string  `json:"insurance_type"`
	InsuranceCost   float64 `json:"insurance_cost"`
	PromotionCode   string  `json:"promotion_code"`
}

func parseIDParam(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil || id == 0 {
		utils.JSONError(c, http.StatusBadRequest, "invalid_id", "Invalid id parameter")
		return 0, false
	}
	return uint(id), true
}

func parseDate(value string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", value)
}

// Create books a vehicle for the authenticated customer.
func (ctl *BookingController) Create(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		utils.JSONError(c, http.StatusUnauthorized, "missing_token", "Not authenticated")
		return
	}

	var payload createBookingPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		utils.JSONValidationError(c, http.StatusBadRequest, "invalid payload", err.Error())
		return
	}

	pickup, err := parseDate(payload.PickupDate)
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid_date", "pickup_date must be RFC3339 or YYYY-MM-DD")
		return
	}
	ret, err := parseDate(payload.ReturnDate)
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid_date", "return_date must be RFC3339 or YYYY-MM-DD")
		return
	}

	returnLocation := payload.ReturnLocation
	if returnLocation == "" {
		returnLocation = payload.PickupLocation
	}

	booking, err := ctl.Service.Create(services.CreateBookingInput{
		CustomerID:      userID,
		VehicleID:       payload.VehicleID,
		PickupDate:      pickup,
		ReturnDate:      ret,
		PickupLocation:  payload.PickupLocation,
		ReturnLocation:  returnLocation,
		SpecialRequests: payload.SpecialRequests,
		InsuranceType:   payload.InsuranceType,
		InsuranceCost:   payload.InsuranceCost,
		PromotionCode:   payload.PromotionCode,
	})
	if err != nil {
		serviceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusCreated, booking)
}

// Get returns one booking. Customers only see their own.
func (ctl *BookingController) Get(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	booking, err := ctl.Service.GetByID(id)
	if err != nil {
		serviceError(c, err)
		return
	}

	userID, _ := middleware.CurrentUserID(c)
	if c.GetString("user_type") == models.UserTypeCustomer && booking.CustomerID != userID {
		utils.JSONError(c, http.StatusForbidden, "forbidden", "Not your booking")
		return
	}
	utils.JSONSuccess(c, http.StatusOK, booking)
}

// List returns bookings. Customers are scoped to their own; staff can
// filter by customer, vehicle and status.
func (ctl *BookingController) List(c *gin.Context) {
	q := config.DB.Model(&models.Booking{}).Preload("Vehicle").Preload("Customer")

	userID, _ := middleware.CurrentUserID(c)
	if c.GetString("user_type") == models.UserTypeCustomer {
		q = q.Where("customer_id = ?", userID)
	} else {
		if customerID := c.Query("customer_id"); customerID != "" {
			q = q.Where("customer_id = ?", customerID)
		}
		if vehicleID := c.Query("vehicle_id"); vehicleID != "" {
			q = q.Where("vehicle_id = ?", vehicleID)
		}
	}
	if status := c.Query("status"); status != "" {
		q = q.Where("status = ?", status)
	}
	if from := c.Query("from"); from != "" {
		if t, err := parseDate(from); err == nil {
			q = q.Where("pickup_date >= ?", t)
		}
	}
	if to := c.Query("to"); to != "" {
		if t, err := parseDate(to); err == nil {
			q = q.Where("pickup_date <= ?", t)
		}
	}

	var bookings []models.Booking
	if err := q.Order("created_at DESC").Limit(200).Find(&bookings).Error; err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "internal_error", "Failed to list bookings")
		return
	}
	utils.JSONSuccess(c, http.StatusOK, bookings)
}

// Confirm moves pending -> confirmed (staff only).
func (ctl *BookingController) Confirm(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	staffID, _ := middleware.CurrentUserID(c)
	booking, err := ctl.Service.Confirm(id, &staffID)
	if err != nil {
		serviceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, booking)
}

type startRentalPayload struct {
	PickupMileage   *uint    `json:"pickup_mileage"`
	PickupFuelLevel *float64 `json:"pickup_fuel_level"`
}

// Start hands the vehicle over: confirmed -> active (staff only).
func (ctl *BookingController) Start(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var payload startRentalPayload
	if err := c.ShouldBindJSON(&payload); err != nil && err.Error() != "EOF" {
		utils.JSONValidationError(c, http.StatusBadRequest, "invalid payload", err.Error())
		return
	}
	staffID, _ := middleware.CurrentUserID(c)
	booking, err := ctl.Service.Start(id, payload.PickupMileage, payload.PickupFuelLevel, &staffID)
	if err != nil {
		serviceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, booking)
}

type completeRentalPayload struct {
	ReturnMileage   *uint    `json:"return_mileage"`
	ReturnFuelLevel *float64 `json:"return_fuel_level"`
}

// Complete takes the vehicle back: active -> completed (staff only).
func (ctl *BookingController) Complete(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var payload completeRentalPayload
	if err := c.ShouldBindJSON(&payload); err != nil && err.Error() != "EOF" {
		utils.JSONValidationError(c, http.StatusBadRequest, "invalid payload", err.Error())
		return
	}
	staffID, _ := middleware.CurrentUserID(c)
	booking, err := ctl.Service.Complete(id, services.CompleteInput{
		ReturnMileage:   payload.ReturnMileage,
		ReturnFuelLevel: payload.ReturnFuelLevel,
		StaffID:         &staffID,
	})
	if err != nil {
		serviceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, booking)
}

type cancelBookingPayload struct {
	Reason string `json:"reason"`
}

// Cancel cancels a booking before pickup. Customers can only cancel their own.
func (ctl *BookingController) Cancel(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var payload cancelBookingPayload
	if err := c.ShouldBindJSON(&payload); err != nil && err.Error() != "EOF" {
		utils.JSONValidationError(c, http.StatusBadRequest, "invalid payload", err.Error())
		return
	}

	if c.GetString("user_type") == models.UserTypeCustomer {
		userID, _ := middleware.CurrentUserID(c)
		existing, err := ctl.Service.GetByID(id)
		if err != nil {
			serviceError(c, err)
			return
		}
		if existing.CustomerID != userID {
			utils.JSONError(c, http.StatusForbidden, "forbidden", "Not your booking")
			return
		}
	}

	booking, err := ctl.Service.Cancel(id, payload.Reason)
	if err != nil {
		serviceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, booking)
}

// MarkNoShow flags a confirmed booking where the customer never arrived.
func (ctl *BookingController) MarkNoShow(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	booking, err := ctl.Service.MarkNoShow(id)
	if err != nil {
		serviceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, booking)
}

// Reprice recomputes the booking totals from its current inputs (staff only).
func (ctl *BookingController) Reprice(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	booking, err := ctl.Service.Reprice(id)
	if err != nil {
		serviceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, booking)
}

type assignAddonPayload struct {
	AddonID  uint   `json:"addon_id" binding:"required"`
	Quantity uint   `json:"quantity"`
	Notes    string `json:"notes"`
}

// AssignAddon attaches an add-on to a booking and reprices it.
func (ctl *BookingController) AssignAddon(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var payload assignAddonPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		utils.JSONValidationError(c, http.StatusBadRequest, "invalid payload", err.Error())
		return
	}
	if payload.Quantity == 0 {
		payload.Quantity = 1
	}
	assignment, err := ctl.Service.AssignAddon(id, payload.AddonID, payload.Quantity, payload.Notes)
	if err != nil {
		serviceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusCreated, assignment)
}

type addDriverPayload struct {
	DriverID uint    `json:"driver_id" binding:"required"`
	Fee      float64 `json:"fee"`
}

// AddDriver registers an additional driver on the booking.
func (ctl *BookingController) AddDriver(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var payload addDriverPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		utils.JSONValidationError(c, http.StatusBadRequest, "invalid payload", err.Error())
		return
	}
	driver, err := ctl.Service.AddDriver(id, payload.DriverID, payload.Fee)
	if err != nil {
		serviceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusCreated, driver)
}

type quotePayload struct {
	VehicleID     uint    `json:"vehicle_id" binding:"required"`
	PickupDate    string  `json:"pickup_date" binding:"required"`
	ReturnDate    string  `json:"return_date" binding:"required"`
	InsuranceCost float64 `json:"insurance_cost"`
	PromotionCode string  `json:"promotion_code"`
}

// Quote prices a prospective rental without persisting anything.
func (ctl *BookingController) Quote(c *gin.Context) {
	var payload quotePayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		utils.JSONValidationError(c, http.StatusBadRequest, "invalid payload", err.Error())
		return
	}
	pickup, err := parseDate(payload.PickupDate)
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid_date", "pickup_date must be RFC3339 or YYYY-MM-DD")
		return
	}
	ret, err := parseDate(payload.ReturnDate)
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid_date", "return_date must be RFC3339 or YYYY-MM-DD")
		return
	}

	quote, err := ctl.Service.QuoteRental(payload.VehicleID, pickup, ret, payload.InsuranceCost, payload.PromotionCode)
	if err != nil {
		serviceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, quote)
}
