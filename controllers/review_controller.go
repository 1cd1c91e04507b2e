package controllers

import (
	"net/http"
	"time"

	"github.com/Keithpaul98/Car-Hire-System/config"
	"github.com/Keithpaul98/Car-Hire-System/middleware"
	"github.com/Keithpaul98/Car-Hire-System/models"
	"github.com/Keithpaul98/Car-Hire-System/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type createReviewPayload struct {
	BookingID              uint   `json:"booking_id" binding:"required"`
	OverallRating          uint   `json:"overall_rating" binding:"required,min=1,max=5"`
	VehicleConditionRating *uint  `json:"vehicle_condition_rating" binding:"omitempty,min=1,max=5"`
	ServiceRating          *uint  `json:"service_rating" binding:"omitempty,min=1,max=5"`
	ValueForMoneyRating    *uint  `json:"value_for_money_rating" binding:"omitempty,min=1,max=5"`
	Title                  string `json:"title"`
	Comment                string `json:"comment" binding:"required"`
	Pros                   string `json:"pros"`
	Cons                   string `json:"cons"`
}

// CreateReview lets a customer review their own completed booking, once.
func CreateReview(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		utils.JSONError(c, http.StatusUnauthorized, "missing_token", "Not authenticated")
		return
	}

	var payload createReviewPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		utils.JSONValidationError(c, http.StatusBadRequest, "invalid payload", err.Error())
		return
	}

	var booking models.Booking
	if err := config.DB.First(&booking, payload.BookingID).Error; err != nil {
		utils.JSONError(c, http.StatusNotFound, "booking_not_found", "Booking not found")
		return
	}
	if booking.CustomerID != userID {
		utils.JSONError(c, http.StatusForbidden, "forbidden", "Not your booking")
		return
	}
	if booking.Status != models.BookingStatusCompleted || !booking.ReviewEligible {
		utils.JSONError(c, http.StatusConflict, "not_review_eligible", "Only completed bookings can be reviewed")
		return
	}

	review := models.Review{
		CustomerID:             userID,
		BookingID:              booking.ID,
		VehicleID:              booking.VehicleID,
		OverallRating:          payload.OverallRating,
		VehicleConditionRating: payload.VehicleConditionRating,
		ServiceRating:          payload.ServiceRating,
		ValueForMoneyRating:    payload.ValueForMoneyRating,
		Title:                  payload.Title,
		Comment:                payload.Comment,
		Pros:                   payload.Pros,
		Cons:                   payload.Cons,
		IsVerified:             true, // tied to a real completed booking
	}
	if err := config.DB.Create(&review).Error; err != nil {
		if utils.IsDuplicateErr(err) {
			utils.JSONError(c, http.StatusConflict, "review_exists", "Booking has already been reviewed")
			return
		}
		utils.JSONError(c, http.StatusInternalServerError, "internal_error", "Failed to create review")
		return
	}
	utils.JSONSuccess(c, http.StatusCreated, review)
}

// ListVehicleReviews is the public, approved-only review feed for a vehicle.
func ListVehicleReviews(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var reviews []models.Review
	config.DB.Preload("Customer").
		Where("vehicle_id = ? AND is_approved = ?", id, true).
		Order("is_featured DESC, created_at DESC").Limit(100).Find(&reviews)

	var avg float64
	config.DB.Model(&models.Review{}).
		Where("vehicle_id = ? AND is_approved = ?", id, true).
		Select("COALESCE(AVG(overall_rating), 0)").Scan(&avg)

	utils.JSONSuccess(c, http.StatusOK, gin.H{
		"reviews":        reviews,
		"average_rating": utils.Round2(avg),
		"count":          len(reviews),
	})
}

// ListPendingReviews is the moderation queue (staff only).
func ListPendingReviews(c *gin.Context) {
	var reviews []models.Review
	config.DB.Preload("Customer").
		Where("is_approved = ?", false).
		Order("created_at ASC").Limit(200).Find(&reviews)
	utils.JSONSuccess(c, http.StatusOK, reviews)
}

type moderateReviewPayload struct {
	Approve  bool `json:"approve"`
	Featured bool `json:"featured"`
}

// ModerateReview approves/rejects and optionally features a review (staff only).
func ModerateReview(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var payload moderateReviewPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		utils.JSONValidationError(c, http.StatusBadRequest, "invalid payload", err.Error())
		return
	}

	var review models.Review
	if err := config.DB.First(&review, id).Error; err != nil {
		utils.JSONError(c, http.StatusNotFound, "review_not_found", "Review not found")
		return
	}

	staffID, _ := middleware.CurrentUserID(c)
	if err := config.DB.Model(&review).Updates(map[string]interface{}{
		"is_approved":     payload.Approve,
		"is_featured":     payload.Featured && payload.Approve,
		"moderated_by_id": staffID,
	}).Error; err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "internal_error", "Failed to moderate review")
		return
	}
	utils.JSONSuccess(c, http.StatusOK, gin.H{"message": "Review moderated"})
}

type reviewResponsePayload struct {
	Response string `json:"response" binding:"required"`
}

// RespondToReview posts the company's reply under a review (staff only).
func RespondToReview(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var payload reviewResponsePayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		utils.JSONValidationError(c, http.StatusBadRequest, "invalid payload", err.Error())
		return
	}

	var review models.Review
	if err := config.DB.First(&review, id).Error; err != nil {
		utils.JSONError(c, http.StatusNotFound, "review_not_found", "Review not found")
		return
	}
	now := time.Now()
	if err := config.DB.Model(&review).Updates(map[string]interface{}{
		"company_response": payload.Response,
		"response_date":    now,
	}).Error; err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "internal_error", "Failed to save response")
		return
	}
	utils.JSONSuccess(c, http.StatusOK, gin.H{"message": "Response saved"})
}

// VoteReviewHelpful bumps a review's helpfulness counters.
func VoteReviewHelpful(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var payload struct {
		Helpful bool `json:"helpful"`
	}
	if err := c.ShouldBindJSON(&payload); err != nil && err.Error() != "EOF" {
		utils.JSONValidationError(c, http.StatusBadRequest, "invalid payload", err.Error())
		return
	}

	updates := map[string]interface{}{"total_votes": gorm.Expr("total_votes + 1")}
	if payload.Helpful {
		updates["helpful_votes"] = gorm.Expr("helpful_votes + 1")
	}
	res := config.DB.Model(&models.Review{}).Where("id = ? AND is_approved = ?", id, true).
		Updates(updates)
	if res.Error != nil || res.RowsAffected == 0 {
		utils.JSONError(c, http.StatusNotFound, "review_not_found", "Review not found")
		return
	}
	utils.JSONSuccess(c, http.StatusOK, gin.H{"message": "Vote recorded"})
}

// ListLoyaltyTiers returns the configured loyalty scheme.
func ListLoyaltyTiers(c *gin.Context) {
	var tiers []models.LoyaltyProgram
	config.DB.Where("is_active = ?", true).Order("min_points_required ASC").Find(&tiers)
	utils.JSONSuccess(c, http.StatusOK, tiers)
}
