package controllers

import (
	"net/http"
	"time"

	"github.com/Keithpaul98/Car-Hire-System/config"
	"github.com/Keithpaul98/Car-Hire-System/middleware"
	"github.com/Keithpaul98/Car-Hire-System/models"
	"github.com/Keithpaul98/Car-Hire-System/utils"

	"github.com/gin-gonic/gin"
)

type createIssuePayload struct {
	BookingID   *uint  `json:"booking_id"`
	VehicleID   *uint  `json:"vehicle_id"`
	IssueType   string `json:"issue_type" binding:"required"`
	Priority    string `json:"priority"`
	Subject     string `json:"subject" binding:"required"`
	Description string `json:"description" binding:"required"`
	Location    string `json:"location"`
}

const maxTicketRetries = 5

// CreateIssue opens a ticket. Ticket numbers are random and retried on a
// uniqueness conflict like booking references.
func CreateIssue(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		utils.JSONError(c, http.StatusUnauthorized, "missing_token", "Not authenticated")
		return
	}

	var payload createIssuePayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		utils.JSONValidationError(c, http.StatusBadRequest, "invalid payload", err.Error())
		return
	}

	priority := payload.Priority
	if priority == "" {
		priority = models.IssuePriorityMedium
	}

	issue := models.IssueReport{
		CustomerID:  userID,
		BookingID:   payload.BookingID,
		VehicleID:   payload.VehicleID,
		IssueType:   payload.IssueType,
		Priority:    priority,
		Status:      models.IssueStatusOpen,
		Subject:     payload.Subject,
		Description: payload.Description,
		Location:    payload.Location,
	}

	var createErr error
	for attempt := 0; attempt < maxTicketRetries; attempt++ {
		ticket, gErr := utils.GenerateTicketNumber(time.Now())
		if gErr != nil {
			utils.JSONError(c, http.StatusInternalServerError, "internal_error", "Failed to generate ticket number")
			return
		}
		issue.TicketNumber = ticket

		createErr = config.DB.Create(&issue).Error
		if createErr == nil {
			break
		}
		if !utils.IsDuplicateErr(createErr) {
			utils.JSONError(c, http.StatusInternalServerError, "internal_error", "Failed to create issue")
			return
		}
	}
	if createErr != nil {
		utils.JSONError(c, http.StatusConflict, "duplicate_identifier", "Could not allocate a ticket number, try again")
		return
	}
	utils.JSONSuccess(c, http.StatusCreated, issue)
}

// GetIssue returns one ticket. Customers only see their own.
func GetIssue(c *gin.Context) {
	var issue models.IssueReport
	if err := config.DB.First(&issue, "id = ?", c.Param("id")).Error; err != nil {
		utils.JSONError(c, http.StatusNotFound, "issue_not_found", "Issue not found")
		return
	}
	userID, _ := middleware.CurrentUserID(c)
	if c.GetString("user_type") == models.UserTypeCustomer && issue.CustomerID != userID {
		utils.JSONError(c, http.StatusForbidden, "forbidden", "Not your issue")
		return
	}
	utils.JSONSuccess(c, http.StatusOK, issue)
}

// ListIssues returns tickets, scoped by role.
func ListIssues(c *gin.Context) {
	q := config.DB.Model(&models.IssueReport{})

	userID, _ := middleware.CurrentUserID(c)
	if c.GetString("user_type") == models.UserTypeCustomer {
		q = q.Where("customer_id = ?", userID)
	} else {
		if status := c.Query("status"); status != "" {
			q = q.Where("status = ?", status)
		}
		if priority := c.Query("priority"); priority != "" {
			q = q.Where("priority = ?", priority)
		}
		if assignee := c.Query("assigned_to"); assignee != "" {
			q = q.Where("assigned_to_id = ?", assignee)
		}
	}

	var issues []models.IssueReport
	if err := q.Order("created_at DESC").Limit(200).Find(&issues).Error; err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "internal_error", "Failed to list issues")
		return
	}
	utils.JSONSuccess(c, http.StatusOK, issues)
}

type assignIssuePayload struct {
	AssignedToID uint `json:"assigned_to_id" binding:"required"`
}

// AssignIssue hands a ticket to a staff member and moves it in progress.
func AssignIssue(c *gin.Context) {
	var payload assignIssuePayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		utils.JSONValidationError(c, http.StatusBadRequest, "invalid payload", err.Error())
		return
	}

	var issue models.IssueReport
	if err := config.DB.First(&issue, "id = ?", c.Param("id")).Error; err != nil {
		utils.JSONError(c, http.StatusNotFound, "issue_not_found", "Issue not found")
		return
	}
	if issue.Status == models.IssueStatusResolved || issue.Status == models.IssueStatusClosed {
		utils.JSONError(c, http.StatusConflict, "invalid_transition", "Issue is already closed")
		return
	}
	if err := config.DB.Model(&issue).Updates(map[string]interface{}{
		"assigned_to_id": payload.AssignedToID,
		"status":         models.IssueStatusInProgress,
	}).Error; err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "internal_error", "Failed to assign issue")
		return
	}
	utils.JSONSuccess(c, http.StatusOK, gin.H{"message": "Issue assigned"})
}

type resolveIssuePayload struct {
	Resolution string `json:"resolution" binding:"required"`
}

// ResolveIssue closes a ticket with its resolution text (staff only).
func ResolveIssue(c *gin.Context) {
	var payload resolveIssuePayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		utils.JSONValidationError(c, http.StatusBadRequest, "invalid payload", err.Error())
		return
	}

	var issue models.IssueReport
	if err := config.DB.First(&issue, "id = ?", c.Param("id")).Error; err != nil {
		utils.JSONError(c, http.StatusNotFound, "issue_not_found", "Issue not found")
		return
	}
	if issue.Status == models.IssueStatusResolved || issue.Status == models.IssueStatusClosed {
		utils.JSONError(c, http.StatusConflict, "invalid_transition", "Issue is already closed")
		return
	}

	staffID, _ := middleware.CurrentUserID(c)
	now := time.Now()
	if err := config.DB.Model(&issue).Updates(map[string]interface{}{
		"status":          models.IssueStatusResolved,
		"resolution":      payload.Resolution,
		"resolution_date": now,
		"resolved_by_id":  staffID,
	}).Error; err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "internal_error", "Failed to resolve issue")
		return
	}
	utils.JSONSuccess(c, http.StatusOK, gin.H{"message": "Issue resolved"})
}

type issueFeedbackPayload struct {
	Satisfaction uint   `json:"satisfaction" binding:"required,min=1,max=5"`
	Feedback     string `json:"feedback"`
}

// SubmitIssueFeedback records the customer's satisfaction after resolution.
func SubmitIssueFeedback(c *gin.Context) {
	userID, _ := middleware.CurrentUserID(c)

	var payload issueFeedbackPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		utils.JSONValidationError(c, http.StatusBadRequest, "invalid payload", err.Error())
		return
	}

	var issue models.IssueReport
	if err := config.DB.First(&issue, "id = ?", c.Param("id")).Error; err != nil {
		utils.JSONError(c, http.StatusNotFound, "issue_not_found", "Issue not found")
		return
	}
	if issue.CustomerID != userID {
		utils.JSONError(c, http.StatusForbidden, "forbidden", "Not your issue")
		return
	}
	if issue.Status != models.IssueStatusResolved {
		utils.JSONError(c, http.StatusConflict, "invalid_transition", "Feedback only applies to resolved issues")
		return
	}
	if err := config.DB.Model(&issue).Updates(map[string]interface{}{
		"customer_satisfaction": payload.Satisfaction,
		"customer_feedback":     payload.Feedback,
		"status":                models.IssueStatusClosed,
	}).Error; err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "internal_error", "Failed to save feedback")
		return
	}
	utils.JSONSuccess(c, http.StatusOK, gin.H{"message": "Feedback saved"})
}

//
// -------- Penalties --------
//

type createPenaltyPayload struct {
	BookingID   uint    `json:"booking_id" binding:"required"`
	PenaltyType string  `json:"penalty_type" binding:"required"`
	Description string  `json:"description" binding:"required"`
	Amount      float64 `json:"amount" binding:"required,gt=0"`
}

// CreatePenalty raises a manual charge against a booking (staff only).
func CreatePenalty(c *gin.Context) {
	var payload createPenaltyPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		utils.JSONValidationError(c, http.StatusBadRequest, "invalid payload", err.Error())
		return
	}

	var booking models.Booking
	if err := config.DB.First(&booking, payload.BookingID).Error; err != nil {
		utils.JSONError(c, http.StatusNotFound, "booking_not_found", "Booking not found")
		return
	}

	staffID, _ := middleware.CurrentUserID(c)
	penalty := models.Penalty{
		BookingID:    booking.ID,
		CustomerID:   booking.CustomerID,
		PenaltyType:  payload.PenaltyType,
		Description:  payload.Description,
		Amount:       utils.Round2(payload.Amount),
		Status:       models.PenaltyStatusPending,
		AssessedByID: &staffID,
	}
	if err := config.DB.Create(&penalty).Error; err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "internal_error", "Failed to create penalty")
		return
	}
	utils.JSONSuccess(c, http.StatusCreated, penalty)
}

// ListPenalties returns penalties, scoped by role.
func ListPenalties(c *gin.Context) {
	q := config.DB.Model(&models.Penalty{})

	userID, _ := middleware.CurrentUserID(c)
	if c.GetString("user_type") == models.UserTypeCustomer {
		q = q.Where("customer_id = ?", userID)
	} else {
		if status := c.Query("status"); status != "" {
			q = q.Where("status = ?", status)
		}
		if bookingID := c.Query("booking_id"); bookingID != "" {
			q = q.Where("booking_id = ?", bookingID)
		}
	}

	var penalties []models.Penalty
	if err := q.Order("created_at DESC").Limit(200).Find(&penalties).Error; err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "internal_error", "Failed to list penalties")
		return
	}
	utils.JSONSuccess(c, http.StatusOK, penalties)
}

type disputePenaltyPayload struct {
	Reason string `json:"reason" binding:"required"`
}

// DisputePenalty lets the charged customer contest a pending penalty.
func DisputePenalty(c *gin.Context) {
	userID, _ := middleware.CurrentUserID(c)

	var payload disputePenaltyPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		utils.JSONValidationError(c, http.StatusBadRequest, "invalid payload", err.Error())
		return
	}

	var penalty models.Penalty
	if err := config.DB.First(&penalty, "id = ?", c.Param("id")).Error; err != nil {
		utils.JSONError(c, http.StatusNotFound, "penalty_not_found", "Penalty not found")
		return
	}
	if penalty.CustomerID != userID {
		utils.JSONError(c, http.StatusForbidden, "forbidden", "Not your penalty")
		return
	}
	if penalty.Status != models.PenaltyStatusPending {
		utils.JSONError(c, http.StatusConflict, "invalid_transition", "Only pending penalties can be disputed")
		return
	}

	now := time.Now()
	if err := config.DB.Model(&penalty).Updates(map[string]interface{}{
		"status":         models.PenaltyStatusDisputed,
		"is_disputed":    true,
		"dispute_reason": payload.Reason,
		"dispute_date":   now,
	}).Error; err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "internal_error", "Failed to dispute penalty")
		return
	}
	utils.JSONSuccess(c, http.StatusOK, gin.H{"message": "Penalty disputed"})
}

type decidePenaltyPayload struct {
	Approve    bool   `json:"approve"`
	Resolution string `json:"resolution"`
}

// DecidePenalty approves or waives a pending/disputed penalty (staff only).
func DecidePenalty(c *gin.Context) {
	var payload decidePenaltyPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		utils.JSONValidationError(c, http.StatusBadRequest, "invalid payload", err.Error())
		return
	}

	var penalty models.Penalty
	if err := config.DB.First(&penalty, "id = ?", c.Param("id")).Error; err != nil {
		utils.JSONError(c, http.StatusNotFound, "penalty_not_found", "Penalty not found")
		return
	}
	if penalty.Status != models.PenaltyStatusPending && penalty.Status != models.PenaltyStatusDisputed {
		utils.JSONError(c, http.StatusConflict, "invalid_transition", "Penalty has already been decided")
		return
	}

	status := models.PenaltyStatusWaived
	if payload.Approve {
		status = models.PenaltyStatusApproved
	}
	staffID, _ := middleware.CurrentUserID(c)
	if err := config.DB.Model(&penalty).Updates(map[string]interface{}{
		"status":             status,
		"dispute_resolution": payload.Resolution,
		"approved_by_id":     staffID,
	}).Error; err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "internal_error", "Failed to decide penalty")
		return
	}
	utils.JSONSuccess(c, http.StatusOK, gin.H{"message": "Penalty " + status})
}
