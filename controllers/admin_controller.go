package controllers

import (
	"net/http"
	"time"

	"github.com/Keithpaul98/Car-Hire-System/config"
	"github.com/Keithpaul98/Car-Hire-System/models"
	"github.com/Keithpaul98/Car-Hire-System/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// bulkAction applies one guarded batch update. The WHERE clause carries the
// same status guard the single-record endpoint enforces, so rows in the
// wrong state are skipped rather than corrupted.
type bulkAction struct {
	Description string
	Apply       func(db *gorm.DB, ids []uint) (int64, error)
}

func guardedUpdate(db *gorm.DB, model interface{}, ids []uint, fromStatuses []string, updates map[string]interface{}) (int64, error) {
	res := db.Model(model).
		Where("id IN ? AND status IN ?", ids, fromStatuses).
		Updates(updates)
	return res.RowsAffected, res.Error
}

var bulkActions = map[string]bulkAction{
	"confirm_bookings": {
		Description: "Confirm pending bookings",
		Apply: func(db *gorm.DB, ids []uint) (int64, error) {
			return guardedUpdate(db, &models.Booking{}, ids,
				[]string{models.BookingStatusPending},
				map[string]interface{}{
					"status":       models.BookingStatusConfirmed,
					"confirmed_at": time.Now(),
				})
		},
	},
	"cancel_bookings": {
		Description: "Cancel pending or confirmed bookings",
		Apply: func(db *gorm.DB, ids []uint) (int64, error) {
			return guardedUpdate(db, &models.Booking{}, ids,
				[]string{models.BookingStatusPending, models.BookingStatusConfirmed},
				map[string]interface{}{
					"status":              models.BookingStatusCancelled,
					"cancelled_at":        time.Now(),
					"cancellation_reason": "bulk cancellation",
				})
		},
	},
	"mark_no_show": {
		Description: "Flag confirmed bookings where the customer never arrived",
		Apply: func(db *gorm.DB, ids []uint) (int64, error) {
			return guardedUpdate(db, &models.Booking{}, ids,
				[]string{models.BookingStatusConfirmed},
				map[string]interface{}{"status": models.BookingStatusNoShow})
		},
	},
	"fail_payments": {
		Description: "Fail stuck pending/processing payments",
		Apply: func(db *gorm.DB, ids []uint) (int64, error) {
			return guardedUpdate(db, &models.Payment{}, ids,
				[]string{models.PaymentStatusPending, models.PaymentStatusProcessing},
				map[string]interface{}{"status": models.PaymentStatusFailed})
		},
	},
	"cancel_payments": {
		Description: "Cancel pending/processing payments",
		Apply: func(db *gorm.DB, ids []uint) (int64, error) {
			return guardedUpdate(db, &models.Payment{}, ids,
				[]string{models.PaymentStatusPending, models.PaymentStatusProcessing},
				map[string]interface{}{"status": models.PaymentStatusCancelled})
		},
	},
	"mark_invoices_overdue": {
		Description: "Flip sent invoices past due to overdue",
		Apply: func(db *gorm.DB, ids []uint) (int64, error) {
			res := db.Model(&models.Invoice{}).
				Where("id IN ? AND status = ? AND due_date < ?", ids, models.InvoiceStatusSent, time.Now()).
				Update("status", models.InvoiceStatusOverdue)
			return res.RowsAffected, res.Error
		},
	},
	"mark_invoices_paid": {
		Description: "Settle sent or overdue invoices in full",
		Apply: func(db *gorm.DB, ids []uint) (int64, error) {
			res := db.Model(&models.Invoice{}).
				Where("id IN ? AND status IN ?", ids,
					[]string{models.InvoiceStatusSent, models.InvoiceStatusOverdue}).
				Updates(map[string]interface{}{
					"status":      models.InvoiceStatusPaid,
					"paid_amount": gorm.Expr("total_amount"),
				})
			return res.RowsAffected, res.Error
		},
	},
	"cancel_invoices": {
		Description: "Cancel draft or sent invoices",
		Apply: func(db *gorm.DB, ids []uint) (int64, error) {
			return guardedUpdate(db, &models.Invoice{}, ids,
				[]string{models.InvoiceStatusDraft, models.InvoiceStatusSent},
				map[string]interface{}{"status": models.InvoiceStatusCancelled})
		},
	},
	"approve_reviews": {
		Description: "Approve reviews awaiting moderation",
		Apply: func(db *gorm.DB, ids []uint) (int64, error) {
			res := db.Model(&models.Review{}).
				Where("id IN ? AND is_approved = ?", ids, false).
				Update("is_approved", true)
			return res.RowsAffected, res.Error
		},
	},
	"feature_reviews": {
		Description: "Feature approved reviews",
		Apply: func(db *gorm.DB, ids []uint) (int64, error) {
			res := db.Model(&models.Review{}).
				Where("id IN ? AND is_approved = ?", ids, true).
				Update("is_featured", true)
			return res.RowsAffected, res.Error
		},
	},
	"activate_promotions": {
		Description: "Activate promotions",
		Apply: func(db *gorm.DB, ids []uint) (int64, error) {
			res := db.Model(&models.Promotion{}).
				Where("id IN ? AND is_active = ?", ids, false).
				Update("is_active", true)
			return res.RowsAffected, res.Error
		},
	},
	"deactivate_promotions": {
		Description: "Deactivate promotions",
		Apply: func(db *gorm.DB, ids []uint) (int64, error) {
			res := db.Model(&models.Promotion{}).
				Where("id IN ? AND is_active = ?", ids, true).
				Update("is_active", false)
			return res.RowsAffected, res.Error
		},
	},
	"resolve_issues": {
		Description: "Resolve open or in-progress issues",
		Apply: func(db *gorm.DB, ids []uint) (int64, error) {
			return guardedUpdate(db, &models.IssueReport{}, ids,
				[]string{models.IssueStatusOpen, models.IssueStatusInProgress, models.IssueStatusEscalated},
				map[string]interface{}{
					"status":          models.IssueStatusResolved,
					"resolution":      "bulk resolution",
					"resolution_date": time.Now(),
				})
		},
	},
	"escalate_issues": {
		Description: "Escalate open or in-progress issues",
		Apply: func(db *gorm.DB, ids []uint) (int64, error) {
			return guardedUpdate(db, &models.IssueReport{}, ids,
				[]string{models.IssueStatusOpen, models.IssueStatusInProgress},
				map[string]interface{}{
					"status":   models.IssueStatusEscalated,
					"priority": models.IssuePriorityUrgent,
				})
		},
	},
	"approve_penalties": {
		Description: "Approve pending penalties",
		Apply: func(db *gorm.DB, ids []uint) (int64, error) {
			return guardedUpdate(db, &models.Penalty{}, ids,
				[]string{models.PenaltyStatusPending, models.PenaltyStatusDisputed},
				map[string]interface{}{"status": models.PenaltyStatusApproved})
		},
	},
	"waive_penalties": {
		Description: "Waive pending or disputed penalties",
		Apply: func(db *gorm.DB, ids []uint) (int64, error) {
			return guardedUpdate(db, &models.Penalty{}, ids,
				[]string{models.PenaltyStatusPending, models.PenaltyStatusDisputed},
				map[string]interface{}{"status": models.PenaltyStatusWaived})
		},
	},
	"retire_vehicles": {
		Description: "Retire vehicles not currently rented",
		Apply: func(db *gorm.DB, ids []uint) (int64, error) {
			res := db.Model(&models.Vehicle{}).
				Where("id IN ? AND status <> ?", ids, models.VehicleStatusRented).
				Updates(map[string]interface{}{
					"status":    models.VehicleStatusRetired,
					"is_active": false,
				})
			return res.RowsAffected, res.Error
		},
	},
}

type bulkActionPayload struct {
	Action string `json:"action" binding:"required"`
	IDs    []uint `json:"ids" binding:"required,min=1"`
}

// RunBulkAction executes a named batch action over a set of record ids.
func RunBulkAction(c *gin.Context) {
	var payload bulkActionPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		utils.JSONValidationError(c, http.StatusBadRequest, "invalid payload", err.Error())
		return
	}

	action, ok := bulkActions[payload.Action]
	if !ok {
		utils.JSONError(c, http.StatusBadRequest, "unknown_action", "No such bulk action")
		return
	}

	affected, err := action.Apply(config.DB, payload.IDs)
	if err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "internal_error", "Bulk action failed")
		return
	}
	utils.JSONSuccess(c, http.StatusOK, gin.H{
		"action":    payload.Action,
		"requested": len(payload.IDs),
		"updated":   affected,
		"skipped":   int64(len(payload.IDs)) - affected,
	})
}

// ListBulkActions documents the available batch actions.
func ListBulkActions(c *gin.Context) {
	actions := make(map[string]string, len(bulkActions))
	for name, a := range bulkActions {
		actions[name] = a.Description
	}
	utils.JSONSuccess(c, http.StatusOK, actions)
}

// AdminStats is the back-office dashboard rollup.
func AdminStats(c *gin.Context) {
	var stats struct {
		TotalCustomers    int64   `json:"total_customers"`
		TotalVehicles     int64   `json:"total_vehicles"`
		AvailableVehicles int64   `json:"available_vehicles"`
		ActiveRentals     int64   `json:"active_rentals"`
		PendingBookings   int64   `json:"pending_bookings"`
		OpenIssues        int64   `json:"open_issues"`
		PendingReviews    int64   `json:"pending_reviews"`
		RevenueThisMonth  float64 `json:"revenue_this_month"`
		OutstandingAmount float64 `json:"outstanding_amount"`
	}

	config.DB.Model(&models.User{}).Where("user_type = ?", models.UserTypeCustomer).Count(&stats.TotalCustomers)
	config.DB.Model(&models.Vehicle{}).Where("is_active = ?", true).Count(&stats.TotalVehicles)
	config.DB.Model(&models.Vehicle{}).Where("status = ? AND is_active = ?", models.VehicleStatusAvailable, true).Count(&stats.AvailableVehicles)
	config.DB.Model(&models.Booking{}).Where("status = ?", models.BookingStatusActive).Count(&stats.ActiveRentals)
	config.DB.Model(&models.Booking{}).Where("status = ?", models.BookingStatusPending).Count(&stats.PendingBookings)
	config.DB.Model(&models.IssueReport{}).Where("status IN ?",
		[]string{models.IssueStatusOpen, models.IssueStatusInProgress, models.IssueStatusEscalated}).Count(&stats.OpenIssues)
	config.DB.Model(&models.Review{}).Where("is_approved = ?", false).Count(&stats.PendingReviews)

	monthStart := time.Now().AddDate(0, 0, 1-time.Now().Day()).Truncate(24 * time.Hour)
	config.DB.Model(&models.Payment{}).
		Where("status = ? AND payment_date >= ?", models.PaymentStatusCompleted, monthStart).
		Select("COALESCE(SUM(amount - refund_amount), 0)").Scan(&stats.RevenueThisMonth)
	config.DB.Model(&models.Invoice{}).
		Where("status IN ?", []string{models.InvoiceStatusSent, models.InvoiceStatusOverdue}).
		Select("COALESCE(SUM(total_amount - paid_amount), 0)").Scan(&stats.OutstandingAmount)

	utils.JSONSuccess(c, http.StatusOK, stats)
}

// GetCompanySettings returns the billing header used on documents.
func GetCompanySettings(c *gin.Context) {
	var setting models.CompanySetting
	if err := config.DB.First(&setting).Error; err != nil {
		utils.JSONError(c, http.StatusNotFound, "settings_not_found", "Company settings not configured")
		return
	}
	utils.JSONSuccess(c, http.StatusOK, setting)
}

// UpdateCompanySettings edits the billing header (admin only).
func UpdateCompanySettings(c *gin.Context) {
	var setting models.CompanySetting
	if err := config.DB.First(&setting).Error; err != nil {
		utils.JSONError(c, http.StatusNotFound, "settings_not_found", "Company settings not configured")
		return
	}

	var payload map[string]interface{}
	if err := c.ShouldBindJSON(&payload); err != nil {
		utils.JSONValidationError(c, http.StatusBadRequest, "invalid payload", err.Error())
		return
	}
	allowed := map[string]bool{
		"name": true, "address": true, "phone": true, "email": true,
		"website": true, "tax_number": true, "currency": true,
		"tax_rate": true, "invoice_footer": true,
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
	if err := config.DB.Model(&setting).Updates(updates).Error; err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "internal_error", "Failed to update settings")
		return
	}
	config.DB.First(&setting)
	utils.JSONSuccess(c, http.StatusOK, setting)
}
