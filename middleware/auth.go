package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/Keithpaul98/Car-Hire-System/config"
	"github.com/Keithpaul98/Car-Hire-System/models"
	"github.com/Keithpaul98/Car-Hire-System/utils"
)

// RequireAuth validates the bearer token, rejects blacklisted tokens and
// puts the claims on the context for handlers downstream.
func RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" || !strings.HasPrefix(header, "Bearer ") {
			utils.JSONError(c, http.StatusUnauthorized, "missing_token", "Authorization header required")
			c.Abort()
			return
		}
		raw := strings.TrimPrefix(header, "Bearer ")

		claims, err := utils.ValidateToken(raw)
		if err != nil {
			code := "invalid_token"
			if errors.Is(err, utils.ErrExpiredToken) {
				code = "expired_token"
			}
			utils.JSONError(c, http.StatusUnauthorized, code, "Token is not valid")
			c.Abort()
			return
		}
		if claims.Kind != "access" {
			utils.JSONError(c, http.StatusUnauthorized, "invalid_token", "Access token required")
			c.Abort()
			return
		}

		var count int64
		if err := config.DB.Model(&models.TokenBlacklist{}).
			Where("jti = ?", claims.JTI).Count(&count).Error; err == nil && count > 0 {
			utils.JSONError(c, http.StatusUnauthorized, "token_revoked", "Token has been revoked")
			c.Abort()
			return
		}

		c.Set("user_id", claims.UserID)
		c.Set("username", claims.Username)
		c.Set("user_type", claims.UserType)
		c.Set("jti", claims.JTI)
		c.Next()
	}
}

// RequireStaff gates routes to staff, manager and admin users. Must run
// after RequireAuth.
func RequireStaff() gin.HandlerFunc {
	return func(c *gin.Context) {
		userType := c.GetString("user_type")
		switch userType {
		case models.UserTypeStaff, models.UserTypeManager, models.UserTypeAdmin:
			c.Next()
		default:
			utils.JSONError(c, http.StatusForbidden, "forbidden", "Staff access required")
			c.Abort()
		}
	}
}

// RequireAdmin gates routes to admin users only. Must run after RequireAuth.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetString("user_type") != models.UserTypeAdmin {
			utils.JSONError(c, http.StatusForbidden, "forbidden", "Admin access required")
			c.Abort()
			return
		}
		c.Next()
	}
}

// CurrentUserID reads the authenticated user id set by RequireAuth.
func CurrentUserID(c *gin.Context) (uint, bool) {
	v, ok := c.Get("user_id")
	if !ok {
		return 0, false
	}
	id, ok := v.(uint)
	return id, ok
}
