package controllers

import (
	"net/http"
	"time"

	"github.com/Keithpaul98/Car-Hire-System/config"
	"github.com/Keithpaul98/Car-Hire-System/middleware"
	"github.com/Keithpaul98/Car-Hire-System/models"
	"github.com/Keithpaul98/Car-Hire-System/services"
	"github.com/Keithpaul98/Car-Hire-System/utils"

	"github.com/gin-gonic/gin"
)

type PaymentController struct {
	Service *services.PaymentService
}

func NewPaymentController(service *services.PaymentService) *PaymentController {
	return &PaymentController{Service: service}
}

type createPaymentPayload struct {
	BookingID       uint    `json:"booking_id" binding:"required"`
	PaymentType     string  `json:"payment_type"`
	PaymentMethodID *uint   `json:"payment_method_id"`
	Amount          float64 `json:"amount" binding:"required,gt=0"`
	Currency        string  `json:"currency"`
	CardToken       string  `json:"card_token"`
	CardLastFour    string  `json:"card_last_four"`
	CardType        string  `json:"card_type"`
	Description     string  `json:"description"`
}

// Create records a pending payment against a booking. Customers may only
// pay their own bookings.
func (ctl *PaymentController) Create(c *gin.Context) {
	var payload createPaymentPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		utils.JSONValidationError(c, http.StatusBadRequest, "invalid payload", err.Error())
		return
	}

	if c.GetString("user_type") == models.UserTypeCustomer {
		userID, _ := middleware.CurrentUserID(c)
		var booking models.Booking
		if err := config.DB.First(&booking, payload.BookingID).Error; err != nil {
			utils.JSONError(c, http.StatusNotFound, "booking_not_found", "Booking not found")
			return
		}
		if booking.CustomerID != userID {
			utils.JSONError(c, http.StatusForbidden, "forbidden", "Not your booking")
			return
		}
	}

	payment, err := ctl.Service.Create(services.CreatePaymentInput{
		BookingID:       payload.BookingID,
		PaymentType:     payload.PaymentType,
		PaymentMethodID: payload.PaymentMethodID,
		Amount:          payload.Amount,
		Currency:        payload.Currency,
		CardToken:       payload.CardToken,
		CardLastFour:    payload.CardLastFour,
		CardType:        payload.CardType,
		Description:     payload.Description,
	})
	if err != nil {
		serviceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusCreated, payment)
}

// Process charges a pending payment through the gateway.
func (ctl *PaymentController) Process(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var staffID *uint
	if c.GetString("user_type") != models.UserTypeCustomer {
		if uid, found := middleware.CurrentUserID(c); found {
			staffID = &uid
		}
	}
	payment, err := ctl.Service.Process(id, staffID)
	if err != nil {
		serviceError(c, err)
		return
	}
	status := http.StatusOK
	if payment.Status == models.PaymentStatusFailed {
		status = http.StatusPaymentRequired
	}
	utils.JSONSuccess(c, status, payment)
}

type refundPayload struct {
	Amount float64 `json:"amount" binding:"required,gt=0"`
	Reason string  `json:"reason"`
}

// Refund applies a partial or full refund (staff only).
func (ctl *PaymentController) Refund(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var payload refundPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		utils.JSONValidationError(c, http.StatusBadRequest, "invalid payload", err.Error())
		return
	}
	staffID, _ := middleware.CurrentUserID(c)
	payment, err := ctl.Service.Refund(id, payload.Amount, payload.Reason, &staffID)
	if err != nil {
		serviceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, payment)
}

// Get returns one payment. Customers only see their own.
func (ctl *PaymentController) Get(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var payment models.Payment
	if err := config.DB.Preload("PaymentMethod").First(&payment, id).Error; err != nil {
		utils.JSONError(c, http.StatusNotFound, "payment_not_found", "Payment not found")
		return
	}
	userID, _ := middleware.CurrentUserID(c)
	if c.GetString("user_type") == models.UserTypeCustomer && payment.CustomerID != userID {
		utils.JSONError(c, http.StatusForbidden, "forbidden", "Not your payment")
		return
	}
	utils.JSONSuccess(c, http.StatusOK, payment)
}

// List returns payments, scoped by role.
func (ctl *PaymentController) List(c *gin.Context) {
	q := config.DB.Model(&models.Payment{})

	userID, _ := middleware.CurrentUserID(c)
	if c.GetString("user_type") == models.UserTypeCustomer {
		q = q.Where("customer_id = ?", userID)
	} else if customerID := c.Query("customer_id"); customerID != "" {
		q = q.Where("customer_id = ?", customerID)
	}
	if bookingID := c.Query("booking_id"); bookingID != "" {
		q = q.Where("booking_id = ?", bookingID)
	}
	if status := c.Query("status"); status != "" {
		q = q.Where("status = ?", status)
	}

	var payments []models.Payment
	if err := q.Order("created_at DESC").Limit(200).Find(&payments).Error; err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "internal_error", "Failed to list payments")
		return
	}
	utils.JSONSuccess(c, http.StatusOK, payments)
}

// ListPaymentMethods returns the active ways to pay.
func ListPaymentMethods(c *gin.Context) {
	var methods []models.PaymentMethod
	if err := config.DB.Where("is_active = ?", true).Find(&methods).Error; err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "internal_error", "Failed to list payment methods")
		return
	}
	utils.JSONSuccess(c, http.StatusOK, methods)
}

type createInvoicePayload struct {
	BookingID uint `json:"booking_id" binding:"required"`
	DueInDays int  `json:"due_in_days"`
}

// CreateInvoice rolls a booking up into a draft invoice (staff only).
func (ctl *PaymentController) CreateInvoice(c *gin.Context) {
	var payload createInvoicePayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		utils.JSONValidationError(c, http.StatusBadRequest, "invalid payload", err.Error())
		return
	}
	staffID, _ := middleware.CurrentUserID(c)
	invoice, err := ctl.Service.CreateInvoice(payload.BookingID, payload.DueInDays, &staffID)
	if err != nil {
		serviceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusCreated, invoice)
}

// GetInvoice returns one invoice. Customers only see their own.
func (ctl *PaymentController) GetInvoice(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var invoice models.Invoice
	if err := config.DB.First(&invoice, id).Error; err != nil {
		utils.JSONError(c, http.StatusNotFound, "invoice_not_found", "Invoice not found")
		return
	}
	userID, _ := middleware.CurrentUserID(c)
	if c.GetString("user_type") == models.UserTypeCustomer && invoice.CustomerID != userID {
		utils.JSONError(c, http.StatusForbidden, "forbidden", "Not your invoice")
		return
	}
	utils.JSONSuccess(c, http.StatusOK, invoice)
}

// ListInvoices returns invoices, scoped by role.
func (ctl *PaymentController) ListInvoices(c *gin.Context) {
	q := config.DB.Model(&models.Invoice{})

	userID, _ := middleware.CurrentUserID(c)
	if c.GetString("user_type") == models.UserTypeCustomer {
		q = q.Where("customer_id = ?", userID)
	} else if customerID := c.Query("customer_id"); customerID != "" {
		q = q.Where("customer_id = ?", customerID)
	}
	if status := c.Query("status"); status != "" {
		q = q.Where("status = ?", status)
	}

	var invoices []models.Invoice
	if err := q.Order("issue_date DESC").Limit(200).Find(&invoices).Error; err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "internal_error", "Failed to list invoices")
		return
	}
	utils.JSONSuccess(c, http.StatusOK, invoices)
}

type sendInvoicePayload struct {
	Email string `json:"email" binding:"required,email"`
}

// SendInvoice marks a draft invoice as sent (staff only).
func (ctl *PaymentController) SendInvoice(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var payload sendInvoicePayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		utils.JSONValidationError(c, http.StatusBadRequest, "invalid payload", err.Error())
		return
	}
	invoice, err := ctl.Service.MarkInvoiceSent(id, payload.Email)
	if err != nil {
		serviceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, invoice)
}

type invoicePaymentPayload struct {
	Amount float64 `json:"amount" binding:"required,gt=0"`
}

// RecordInvoicePayment applies a paid amount to an invoice (staff only).
func (ctl *PaymentController) RecordInvoicePayment(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var payload invoicePaymentPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		utils.JSONValidationError(c, http.StatusBadRequest, "invalid payload", err.Error())
		return
	}
	invoice, err := ctl.Service.RecordInvoicePayment(id, payload.Amount)
	if err != nil {
		serviceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, invoice)
}

// CreateReceipt issues (or reports the existing) receipt for a completed
// payment (staff only).
func (ctl *PaymentController) CreateReceipt(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	staffID, _ := middleware.CurrentUserID(c)
	receipt, err := ctl.Service.CreateReceipt(id, &staffID)
	if err != nil {
		serviceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusCreated, receipt)
}

// GetReceipt returns one receipt. Customers only see their own.
func (ctl *PaymentController) GetReceipt(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var receipt models.Receipt
	if err := config.DB.First(&receipt, id).Error; err != nil {
		utils.JSONError(c, http.StatusNotFound, "receipt_not_found", "Receipt not found")
		return
	}
	userID, _ := middleware.CurrentUserID(c)
	if c.GetString("user_type") == models.UserTypeCustomer && receipt.CustomerID != userID {
		utils.JSONError(c, http.StatusForbidden, "forbidden", "Not your receipt")
		return
	}
	utils.JSONSuccess(c, http.StatusOK, receipt)
}

// MarkOverdueInvoices flips sent invoices past their due date to overdue
// (staff only). Returns how many rows changed.
func (ctl *PaymentController) MarkOverdueInvoices(c *gin.Context) {
	res := config.DB.Model(&models.Invoice{}).
		Where("status = ? AND due_date < ?", models.InvoiceStatusSent, time.Now()).
		Update("status", models.InvoiceStatusOverdue)
	if res.Error != nil {
		utils.JSONError(c, http.StatusInternalServerError, "internal_error", "Failed to mark overdue invoices")
		return
	}
	utils.JSONSuccess(c, http.StatusOK, gin.H{"updated": res.RowsAffected})
}
