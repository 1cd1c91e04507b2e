package controllers

import (
	"errors"
	"net/http"

	"github.com/Keithpaul98/Car-Hire-System/services"
	"github.com/Keithpaul98/Car-Hire-System/utils"

	"github.com/gin-gonic/gin"
)

// serviceError maps service sentinels onto HTTP statuses so every
// controller reports the same codes for the same failures.
func serviceError(c *gin.Context, err error) {
	var status int
	switch {
	case errors.Is(err, services.ErrBookingNotFound),
		errors.Is(err, services.ErrVehicleNotFound),
		errors.Is(err, services.ErrCustomerNotFound),
		errors.Is(err, services.ErrPaymentNotFound),
		errors.Is(err, services.ErrInvoiceNotFound),
		errors.Is(err, services.ErrAddonNotFound):
		status = http.StatusNotFound
	case errors.Is(err, services.ErrVehicleUnavailable),
		errors.Is(err, services.ErrVehicleDoubleBooked),
		errors.Is(err, services.ErrInvalidTransition),
		errors.Is(err, services.ErrCancelWindowClosed),
		errors.Is(err, services.ErrReceiptExists),
		errors.Is(err, services.ErrDuplicateIdentifier):
		status = http.StatusConflict
	case errors.Is(err, services.ErrInvalidPromotion),
		errors.Is(err, services.ErrNotRefundable),
		errors.Is(err, services.ErrRefundExceedsAmount),
		errors.Is(err, services.ErrInvalidDateRange):
		status = http.StatusUnprocessableEntity
	default:
		utils.JSONError(c, http.StatusInternalServerError, "internal_error", "Something went wrong")
		return
	}
	utils.JSONError(c, status, err.Error(), httpErrorMessage(err))
}

func httpErrorMessage(err error) string {
	switch {
	case errors.Is(err, services.ErrBookingNotFound):
		return "Booking not found"
	case errors.Is(err, services.ErrVehicleNotFound):
		return "Vehicle not found"
	case errors.Is(err, services.ErrCustomerNotFound):
		return "Customer not found"
	case errors.Is(err, services.ErrPaymentNotFound):
		return "Payment not found"
	case errors.Is(err, services.ErrInvoiceNotFound):
		return "Invoice not found"
	case errors.Is(err, services.ErrAddonNotFound):
		return "Add-on not found"
	case errors.Is(err, services.ErrVehicleUnavailable):
		return "Vehicle is not available for booking"
	case errors.Is(err, services.ErrVehicleDoubleBooked):
		return "Vehicle is already booked for those dates"
	case errors.Is(err, services.ErrInvalidTransition):
		return "The record cannot move to that status"
	case errors.Is(err, services.ErrCancelWindowClosed):
		return "Bookings cannot be cancelled after the pickup date"
	case errors.Is(err, services.ErrReceiptExists):
		return "A receipt already exists for this payment"
	case errors.Is(err, services.ErrDuplicateIdentifier):
		return "Could not allocate a unique identifier, try again"
	case errors.Is(err, services.ErrInvalidPromotion):
		return "Promotion code is not redeemable"
	case errors.Is(err, services.ErrNotRefundable):
		return "Payment is not refundable"
	case errors.Is(err, services.ErrRefundExceedsAmount):
		return "Refund would exceed the amount paid"
	case errors.Is(err, services.ErrInvalidDateRange):
		return "Return date must be after the pickup date"
	}
	return "Request failed"
}
