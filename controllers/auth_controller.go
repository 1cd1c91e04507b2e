package controllers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/Keithpaul98/Car-Hire-System/config"
	"github.com/Keithpaul98/Car-Hire-System/middleware"
	"github.com/Keithpaul98/Car-Hire-System/models"
	"github.com/Keithpaul98/Car-Hire-System/utils"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type registerPayload struct {
	Username    string `json:"username" binding:"required"`
	Email       string `json:"email" binding:"required,email"`
	Password    string `json:"password" binding:"required,min=8"`
	FirstName   string `json:"first_name" binding:"required"`
	LastName    string `json:"last_name" binding:"required"`
	PhoneNumber string `json:"phone_number"`
}

type loginPayload struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type refreshPayload struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

type changePasswordPayload struct {
	CurrentPassword string `json:"current_password" binding:"required"`
	NewPassword     string `json:"new_password" binding:"required,min=8"`
}

// Register creates a customer account and returns a token pair.
func Register(c *gin.Context) {
	var payload registerPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		utils.JSONValidationError(c, http.StatusBadRequest, "invalid payload", err.Error())
		return
	}

	username := strings.TrimSpace(payload.Username)
	email := strings.ToLower(strings.TrimSpace(payload.Email))

	var count int64
	config.DB.Model(&models.User{}).
		Where("username = ? OR email = ?", username, email).Count(&count)
	if count > 0 {
		utils.JSONError(c, http.StatusConflict, "account_exists", "Username or email already in use")
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(payload.Password), bcrypt.DefaultCost)
	if err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "internal_error", "Failed to hash password")
		return
	}

	user := models.User{
		Username:    username,
		Email:       email,
		Password:    string(hash),
		UserType:    models.UserTypeCustomer,
		FirstName:   strings.TrimSpace(payload.FirstName),
		LastName:    strings.TrimSpace(payload.LastName),
		PhoneNumber: strings.TrimSpace(payload.PhoneNumber),
	}
	if err := config.DB.Create(&user).Error; err != nil {
		if utils.IsDuplicateErr(err) {
			utils.JSONError(c, http.StatusConflict, "account_exists", "Username or email already in use")
			return
		}
		utils.JSONError(c, http.StatusInternalServerError, "internal_error", "Failed to create account")
		return
	}

	access, refresh, err := utils.GenerateTokenPair(user.ID, user.Username, user.UserType)
	if err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "internal_error", "Failed to issue tokens")
		return
	}

	utils.JSONSuccess(c, http.StatusCreated, gin.H{
		"user":          user,
		"access_token":  access,
		"refresh_token": refresh,
	})
}

// Login authenticates by username or email.
func Login(c *gin.Context) {
	var payload loginPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		utils.JSONValidationError(c, http.StatusBadRequest, "invalid payload", err.Error())
		return
	}

	identifier := strings.TrimSpace(payload.Username)

	var user models.User
	if err := config.DB.Where("username = ? OR email = ?", identifier, strings.ToLower(identifier)).
		First(&user).Error; err != nil {
		utils.JSONError(c, http.StatusUnauthorized, "invalid_credentials", "Invalid username or password")
		return
	}

	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(payload.Password)) != nil {
		utils.JSONError(c, http.StatusUnauthorized, "invalid_credentials", "Invalid username or password")
		return
	}
	if user.IsSuspended {
		utils.JSONError(c, http.StatusForbidden, "account_suspended", "Account is suspended")
		return
	}

	access, refresh, err := utils.GenerateTokenPair(user.ID, user.Username, user.UserType)
	if err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "internal_error", "Failed to issue tokens")
		return
	}

	sessionKey, _ := utils.GenerateSecureToken(32)
	session := models.UserSession{
		UserID:     user.ID,
		SessionKey: sessionKey,
		IPAddress:  c.ClientIP(),
		UserAgent:  c.Request.UserAgent(),
	}
	// login still succeeds, the session list just misses this entry
	_ = config.DB.Create(&session).Error
	config.DB.Model(&user).Update("last_login_ip", c.ClientIP())

	utils.JSONSuccess(c, http.StatusOK, gin.H{
		"user":          user,
		"access_token":  access,
		"refresh_token": refresh,
	})
}

// Logout blacklists the presented token. Always responds 200: a client
// that has already lost its token is logged out either way.
func Logout(c *gin.Context) {
	header := c.GetHeader("Authorization")
	raw := strings.TrimPrefix(header, "Bearer ")
	if raw != "" && raw != header {
		if claims, err := utils.ValidateToken(raw); err == nil {
			entry := models.TokenBlacklist{
				JTI:       claims.JTI,
				UserID:    claims.UserID,
				ExpiresAt: claims.Exp,
			}
			_ = config.DB.Create(&entry).Error
		}
	}
	utils.JSONSuccess(c, http.StatusOK, gin.H{"message": "Logged out"})
}

// RefreshToken exchanges a valid refresh token for a new pair. The old
// refresh token is blacklisted so it cannot be replayed.
func RefreshToken(c *gin.Context) {
	var payload refreshPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		utils.JSONValidationError(c, http.StatusBadRequest, "invalid payload", err.Error())
		return
	}

	claims, err := utils.ValidateToken(payload.RefreshToken)
	if err != nil {
		code := "invalid_token"
		if errors.Is(err, utils.ErrExpiredToken) {
			code = "expired_token"
		}
		utils.JSONError(c, http.StatusUnauthorized, code, "Refresh token is not valid")
		return
	}
	if claims.Kind != "refresh" {
		utils.JSONError(c, http.StatusUnauthorized, "invalid_token", "Refresh token required")
		return
	}

	var count int64
	config.DB.Model(&models.TokenBlacklist{}).Where("jti = ?", claims.JTI).Count(&count)
	if count > 0 {
		utils.JSONError(c, http.StatusUnauthorized, "token_revoked", "Refresh token has been revoked")
		return
	}

	var user models.User
	if err := config.DB.First(&user, claims.UserID).Error; err != nil {
		utils.JSONError(c, http.StatusUnauthorized, "invalid_token", "Account no longer exists")
		return
	}

	access, refresh, err := utils.GenerateTokenPair(user.ID, user.Username, user.UserType)
	if err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "internal_error", "Failed to issue tokens")
		return
	}

	_ = config.DB.Create(&models.TokenBlacklist{
		JTI:       claims.JTI,
		UserID:    claims.UserID,
		ExpiresAt: claims.Exp,
	}).Error

	utils.JSONSuccess(c, http.StatusOK, gin.H{
		"access_token":  access,
		"refresh_token": refresh,
	})
}

// GetProfile returns the authenticated user's account.
func GetProfile(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		utils.JSONError(c, http.StatusUnauthorized, "missing_token", "Not authenticated")
		return
	}

	var user models.User
	if err := config.DB.First(&user, userID).Error; err != nil {
		utils.JSONError(c, http.StatusNotFound, "customer_not_found", "Account not found")
		return
	}
	utils.JSONSuccess(c, http.StatusOK, user)
}

// UpdateProfile applies a partial update to the caller's own account.
// Credentials, role and loyalty fields are not writable here.
func UpdateProfile(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		utils.JSONError(c, http.StatusUnauthorized, "missing_token", "Not authenticated")
		return
	}

	var payload map[string]interface{}
	if err := c.ShouldBindJSON(&payload); err != nil {
		utils.JSONValidationError(c, http.StatusBadRequest, "invalid payload", err.Error())
		return
	}

	allowed := map[string]bool{
		"first_name": true, "last_name": true, "phone_number": true,
		"date_of_birth": true, "gender": true, "bio": true,
		"address_line_1": true, "address_line_2": true, "city": true,
		"state_province": true, "postal_code": true, "country": true,
		"drivers_license_number": true, "license_expiry_date": true,
		"license_class": true, "license_country": true,
		"emergency_contact_name": true, "emergency_contact_phone": true,
		"preferred_language": true, "notification_preferences": true,
		"marketing_consent": true,
		"company_name":      true, "company_registration": true, "tax_number": true,
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

	if err := config.DB.Model(&models.User{}).Where("id = ?", userID).
		Updates(updates).Error; err != nil {
		if utils.IsDuplicateErr(err) {
			utils.JSONError(c, http.StatusConflict, "duplicate_value", "A unique field already belongs to another account")
			return
		}
		utils.JSONError(c, http.StatusInternalServerError, "internal_error", "Failed to update profile")
		return
	}

	var user models.User
	config.DB.First(&user, userID)
	utils.JSONSuccess(c, http.StatusOK, user)
}

// ChangePassword verifies the current password before replacing it.
func ChangePassword(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		utils.JSONError(c, http.StatusUnauthorized, "missing_token", "Not authenticated")
		return
	}

	var payload changePasswordPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		utils.JSONValidationError(c, http.StatusBadRequest, "invalid payload", err.Error())
		return
	}

	var user models.User
	if err := config.DB.First(&user, userID).Error; err != nil {
		utils.JSONError(c, http.StatusNotFound, "customer_not_found", "Account not found")
		return
	}
	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(payload.CurrentPassword)) != nil {
		utils.JSONError(c, http.StatusUnauthorized, "invalid_credentials", "Current password is incorrect")
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(payload.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "internal_error", "Failed to hash password")
		return
	}
	if err := config.DB.Model(&user).Update("password", string(hash)).Error; err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "internal_error", "Failed to update password")
		return
	}
	utils.JSONSuccess(c, http.StatusOK, gin.H{"message": "Password updated"})
}

// CheckUsername reports availability without leaking which account owns it.
func CheckUsername(c *gin.Context) {
	username := strings.TrimSpace(c.Query("username"))
	if username == "" {
		utils.JSONError(c, http.StatusBadRequest, "invalid_payload", "username query parameter required")
		return
	}
	var count int64
	config.DB.Model(&models.User{}).Where("username = ?", username).Count(&count)
	utils.JSONSuccess(c, http.StatusOK, gin.H{"username": username, "available": count == 0})
}

// CheckEmail reports availability of an email address.
func CheckEmail(c *gin.Context) {
	email := strings.ToLower(strings.TrimSpace(c.Query("email")))
	if email == "" {
		utils.JSONError(c, http.StatusBadRequest, "invalid_payload", "email query parameter required")
		return
	}
	var count int64
	config.DB.Model(&models.User{}).Where("email = ?", email).Count(&count)
	utils.JSONSuccess(c, http.StatusOK, gin.H{"email": email, "available": count == 0})
}

// ListSessions returns the caller's login sessions, newest first.
func ListSessions(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		utils.JSONError(c, http.StatusUnauthorized, "missing_token", "Not authenticated")
		return
	}
	var sessions []models.UserSession
	config.DB.Where("user_id = ?", userID).Order("created_at DESC").Limit(50).Find(&sessions)
	utils.JSONSuccess(c, http.StatusOK, sessions)
}

// Dashboard summarizes the caller's account: active bookings, loyalty
// standing and outstanding amounts.
func Dashboard(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		utils.JSONError(c, http.StatusUnauthorized, "missing_token", "Not authenticated")
		return
	}

	var user models.User
	if err := config.DB.First(&user, userID).Error; err != nil {
		utils.JSONError(c, http.StatusNotFound, "customer_not_found", "Account not found")
		return
	}

	var activeBookings []models.Booking
	config.DB.Where("customer_id = ? AND status IN ?", userID,
		[]string{models.BookingStatusPending, models.BookingStatusConfirmed, models.BookingStatusActive}).
		Preload("Vehicle").Order("pickup_date ASC").Find(&activeBookings)

	var completedCount int64
	config.DB.Model(&models.Booking{}).
		Where("customer_id = ? AND status = ?", userID, models.BookingStatusCompleted).
		Count(&completedCount)

	var outstanding float64
	row := config.DB.Model(&models.Invoice{}).
		Where("customer_id = ? AND status IN ?", userID,
			[]string{models.InvoiceStatusSent, models.InvoiceStatusOverdue}).
		Select("COALESCE(SUM(total_amount - paid_amount), 0)").Row()
	if row != nil {
		if err := row.Scan(&outstanding); err != nil {
			outstanding = 0
		}
	}

	var totalSpent float64
	config.DB.Model(&models.Payment{}).
		Where("customer_id = ? AND status = ?", userID, models.PaymentStatusCompleted).
		Select("COALESCE(SUM(amount - refund_amount), 0)").Scan(&totalSpent)

	utils.JSONSuccess(c, http.StatusOK, gin.H{
		"user":               user,
		"active_bookings":    activeBookings,
		"completed_bookings": completedCount,
		"loyalty_points":     user.LoyaltyPoints,
		"loyalty_tier":       user.LoyaltyTier,
		"total_spent":        totalSpent,
		"outstanding_amount": outstanding,
	})
}

// GetUser is the staff view of any account.
func GetUser(c *gin.Context) {
	var user models.User
	if err := config.DB.First(&user, "id = ?", c.Param("id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.JSONError(c, http.StatusNotFound, "customer_not_found", "Account not found")
			return
		}
		utils.JSONError(c, http.StatusInternalServerError, "internal_error", "Failed to load account")
		return
	}
	utils.JSONSuccess(c, http.StatusOK, user)
}

// ListUsers returns accounts filtered by type or search text (staff only).
func ListUsers(c *gin.Context) {
	q := config.DB.Model(&models.User{})
	if userType := c.Query("user_type"); userType != "" {
		q = q.Where("user_type = ?", userType)
	}
	if search := strings.TrimSpace(c.Query("search")); search != "" {
		like := "%" + search + "%"
		q = q.Where("username LIKE ? OR email LIKE ? OR first_name LIKE ? OR last_name LIKE ?",
			like, like, like, like)
	}
	var users []models.User
	if err := q.Order("created_at DESC").Limit(200).Find(&users).Error; err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "internal_error", "Failed to list accounts")
		return
	}
	utils.JSONSuccess(c, http.StatusOK, users)
}

// VerifyUser marks an account's driver documents as checked (staff only).
func VerifyUser(c *gin.Context) {
	var user models.User
	if err := config.DB.First(&user, "id = ?", c.Param("id")).Error; err != nil {
		utils.JSONError(c, http.StatusNotFound, "customer_not_found", "Account not found")
		return
	}
	now := time.Now()
	if err := config.DB.Model(&user).Updates(map[string]interface{}{
		"is_verified":       true,
		"verification_date": now,
	}).Error; err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "internal_error", "Failed to verify account")
		return
	}
	utils.JSONSuccess(c, http.StatusOK, gin.H{"message": "Account verified"})
}

// SuspendUser suspends or reinstates an account (staff only).
func SuspendUser(c *gin.Context) {
	var payload struct {
		Suspend bool   `json:"suspend"`
		Reason  string `json:"reason"`
	}
	if err := c.ShouldBindJSON(&payload); err != nil {
		utils.JSONValidationError(c, http.StatusBadRequest, "invalid payload", err.Error())
		return
	}

	var user models.User
	if err := config.DB.First(&user, "id = ?", c.Param("id")).Error; err != nil {
		utils.JSONError(c, http.StatusNotFound, "customer_not_found", "Account not found")
		return
	}
	if err := config.DB.Model(&user).Updates(map[string]interface{}{
		"is_suspended":      payload.Suspend,
		"suspension_reason": payload.Reason,
	}).Error; err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "internal_error", "Failed to update account")
		return
	}
	utils.JSONSuccess(c, http.StatusOK, gin.H{"message": "Account updated"})
}
