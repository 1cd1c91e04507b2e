package controllers

import (
	"net/http"
	"strings"
	"time"

	"github.com/Keithpaul98/Car-Hire-System/config"
	"github.com/Keithpaul98/Car-Hire-System/middleware"
	"github.com/Keithpaul98/Car-Hire-System/models"
	"github.com/Keithpaul98/Car-Hire-System/services"
	"github.com/Keithpaul98/Car-Hire-System/utils"

	"github.com/gin-gonic/gin"
)

type createPromotionPayload struct {
	Name              string   `json:"name" binding:"required"`
	Code              string   `json:"code" binding:"required"`
	Description       string   `json:"description"`
	DiscountType      string   `json:"discount_type" binding:"required,oneof=percentage fixed_amount free_days"`
	DiscountValue     float64  `json:"discount_value" binding:"required,gt=0"`
	MaxDiscountAmount *float64 `json:"max_discount_amount"`
	StartDate         string   `json:"start_date" binding:"required"`
	EndDate           string   `json:"end_date" binding:"required"`
	UsageLimit        *uint    `json:"usage_limit"`
	PerCustomerLimit  uint     `json:"per_customer_limit"`
	MinBookingAmount  *float64 `json:"min_booking_amount"`
	MinRentalDays     *uint    `json:"min_rental_days"`
	IsPublic          *bool    `json:"is_public"`
}

// CreatePromotion sets up a discount campaign (staff only).
func CreatePromotion(c *gin.Context) {
	var payload createPromotionPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		utils.JSONValidationError(c, http.StatusBadRequest, "invalid payload", err.Error())
		return
	}

	start, err := parseDate(payload.StartDate)
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid_date", "start_date must be RFC3339 or YYYY-MM-DD")
		return
	}
	end, err := parseDate(payload.EndDate)
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid_date", "end_date must be RFC3339 or YYYY-MM-DD")
		return
	}
	if !end.After(start) {
		utils.JSONError(c, http.StatusBadRequest, "invalid_date_range", "end_date must be after start_date")
		return
	}
	if payload.DiscountType == models.DiscountTypePercentage && payload.DiscountValue > 100 {
		utils.JSONError(c, http.StatusBadRequest, "invalid_discount", "percentage discount cannot exceed 100")
		return
	}

	staffID, _ := middleware.CurrentUserID(c)
	perCustomer := payload.PerCustomerLimit
	if perCustomer == 0 {
		perCustomer = 1
	}
	promo := models.Promotion{
		Name:              payload.Name,
		Code:              strings.ToUpper(strings.TrimSpace(payload.Code)),
		Description:       payload.Description,
		DiscountType:      payload.DiscountType,
		DiscountValue:     payload.DiscountValue,
		MaxDiscountAmount: payload.MaxDiscountAmount,
		StartDate:         start,
		EndDate:           end,
		UsageLimit:        payload.UsageLimit,
		PerCustomerLimit:  perCustomer,
		MinBookingAmount:  payload.MinBookingAmount,
		MinRentalDays:     payload.MinRentalDays,
		IsActive:          true,
		IsPublic:          payload.IsPublic == nil || *payload.IsPublic,
		CreatedByID:       &staffID,
	}
	if err := config.DB.Create(&promo).Error; err != nil {
		if utils.IsDuplicateErr(err) {
			utils.JSONError(c, http.StatusConflict, "duplicate_code", "Promotion code already exists")
			return
		}
		utils.JSONError(c, http.StatusInternalServerError, "internal_error", "Failed to create promotion")
		return
	}
	utils.JSONSuccess(c, http.StatusCreated, promo)
}

// ListPromotions returns campaigns. The public sees active public ones;
// staff see everything.
func ListPromotions(c *gin.Context) {
	q := config.DB.Model(&models.Promotion{})
	if c.GetString("user_type") == models.UserTypeCustomer || c.GetString("user_type") == "" {
		now := time.Now()
		q = q.Where("is_public = ? AND is_active = ? AND start_date <= ? AND end_date >= ?",
			true, true, now, now)
	}
	var promos []models.Promotion
	if err := q.Order("end_date ASC").Limit(200).Find(&promos).Error; err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "internal_error", "Failed to list promotions")
		return
	}
	utils.JSONSuccess(c, http.StatusOK, promos)
}

type validatePromotionPayload struct {
	Code       string `json:"code" binding:"required"`
	VehicleID  uint   `json:"vehicle_id" binding:"required"`
	PickupDate string `json:"pickup_date" binding:"required"`
	ReturnDate string `json:"return_date" binding:"required"`
}

// ValidatePromotion prices a code against a prospective rental so the
// customer sees the discount before booking.
func ValidatePromotion(bookings *services.BookingService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var payload validatePromotionPayload
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

		quote, err := bookings.QuoteRental(payload.VehicleID, pickup, ret, 0, strings.ToUpper(strings.TrimSpace(payload.Code)))
		if err != nil {
			serviceError(c, err)
			return
		}
		utils.JSONSuccess(c, http.StatusOK, gin.H{
			"valid": true,
			"quote": quote,
		})
	}
}

// UpdatePromotion applies a partial update (staff only).
func UpdatePromotion(c *gin.Context) {
	var promo models.Promotion
	if err := config.DB.First(&promo, "id = ?", c.Param("id")).Error; err != nil {
		utils.JSONError(c, http.StatusNotFound, "promotion_not_found", "Promotion not found")
		return
	}

	var payload map[string]interface{}
	if err := c.ShouldBindJSON(&payload); err != nil {
		utils.JSONValidationError(c, http.StatusBadRequest, "invalid payload", err.Error())
		return
	}

	allowed := map[string]bool{
		"name": true, "description": true, "discount_value": true,
		"max_discount_amount": true, "start_date": true, "end_date": true,
		"usage_limit": true, "per_customer_limit": true,
		"min_booking_amount": true, "min_rental_days": true,
		"is_active": true, "is_public": true,
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
	if err := config.DB.Model(&promo).Updates(updates).Error; err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "internal_error", "Failed to update promotion")
		return
	}
	config.DB.First(&promo, promo.ID)
	utils.JSONSuccess(c, http.StatusOK, promo)
}
