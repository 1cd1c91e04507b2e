package services

import "errors"

// Service errors use short snake_case codes; controllers map them onto HTTP
// statuses and the codes travel to the client as-is.
var (
	ErrBookingNotFound     = errors.New("booking_not_found")
	ErrVehicleNotFound     = errors.New("vehicle_not_found")
	ErrCustomerNotFound    = errors.New("customer_not_found")
	ErrPaymentNotFound     = errors.New("payment_not_found")
	ErrInvoiceNotFound     = errors.New("invoice_not_found")
	ErrAddonNotFound       = errors.New("addon_not_found")
	ErrVehicleUnavailable  = errors.New("vehicle_unavailable")
	ErrVehicleDoubleBooked = errors.New("vehicle_already_booked")
	ErrInvalidTransition   = errors.New("invalid_transition")
	ErrCancelWindowClosed  = errors.New("pickup_date_passed")
	ErrDuplicateIdentifier = errors.New("duplicate_identifier")
	ErrInvalidPromotion    = errors.New("invalid_promotion_code")
	ErrNotRefundable       = errors.New("payment_not_refundable")
	ErrRefundExceedsAmount = errors.New("refund_exceeds_amount")
	ErrReceiptExists       = errors.New("receipt_exists")
	ErrInvalidDateRange    = errors.New("invalid_date_range")
)
