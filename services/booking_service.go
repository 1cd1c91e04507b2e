package services

import (
	"errors"
	"fmt"
	"log"
	"strconv"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Keithpaul98/Car-Hire-System/models"
	"github.com/Keithpaul98/Car-Hire-System/utils"
)

// BookingService wraps *gorm.DB and owns the booking lifecycle.
type BookingService struct {
	DB *gorm.DB
}

func NewBookingService(db *gorm.DB) *BookingService {
	return &BookingService{DB: db}
}

// CreateBookingInput is the validated request shape for a new booking.
type CreateBookingInput struct {
	CustomerID      uint
	VehicleID       uint
	PickupDate      time.Time
	ReturnDate      time.Time
	PickupLocation  string
	ReturnLocation  string
	SpecialRequests string
	InsuranceType   string
	InsuranceCost   float64
	PromotionCode   string
}

const maxReferenceRetries = 5

// taxRate comes from env so deployments in different jurisdictions don't
// need a code change.
func taxRate() float64 {
	if v, err := strconv.ParseFloat(utils.EnvOrDefault("TAX_RATE_PERCENT", "15"), 64); err == nil {
		return v
	}
	return 15
}

// Create checks vehicle availability, prices the rental and persists the
// booking. The random booking reference is retried on a uniqueness conflict
// rather than trusted to be collision-free.
func (s *BookingService) Create(in CreateBookingInput) (models.Booking, error) {
	if !in.ReturnDate.After(in.PickupDate) {
		return models.Booking{}, ErrInvalidDateRange
	}

	var customer models.User
	if err := s.DB.First(&customer, in.CustomerID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Booking{}, ErrCustomerNotFound
		}
		return models.Booking{}, fmt.Errorf("failed to load customer: %w", err)
	}

	var vehicle models.Vehicle
	if err := s.DB.First(&vehicle, in.VehicleID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Booking{}, ErrVehicleNotFound
		}
		return models.Booking{}, fmt.Errorf("failed to load vehicle: %w", err)
	}
	if !vehicle.IsAvailableForBooking() {
		return models.Booking{}, ErrVehicleUnavailable
	}

	// Reject overlapping holds on the same vehicle.
	var overlapping int64
	if err := s.DB.Model(&models.Booking{}).
		Where("vehicle_id = ? AND status IN ? AND pickup_date < ? AND return_date > ?",
			in.VehicleID,
			[]string{models.BookingStatusPending, models.BookingStatusConfirmed, models.BookingStatusActive},
			in.ReturnDate, in.PickupDate).
		Count(&overlapping).Error; err != nil {
		return models.Booking{}, fmt.Errorf("failed to check overlapping bookings: %w", err)
	}
	if overlapping > 0 {
		return models.Booking{}, ErrVehicleDoubleBooked
	}

	pricing := PricingInput{
		DailyRate:     vehicle.DailyRate,
		PickupDate:    in.PickupDate,
		ReturnDate:    in.ReturnDate,
		TaxRate:       taxRate(),
		InsuranceCost: in.InsuranceCost,
	}
	quote := ComputeQuote(pricing)

	var promo *models.Promotion
	if in.PromotionCode != "" {
		p, err := s.redeemablePromotion(in.PromotionCode, quote)
		if err != nil {
			return models.Booking{}, err
		}
		promo = p
		pricing.DiscountAmount = PromotionDiscount(promo, quote.Subtotal, vehicle.DailyRate, quote.TotalDays)
		quote = ComputeQuote(pricing)
	}

	booking := models.Booking{
		CustomerID:        in.CustomerID,
		VehicleID:         in.VehicleID,
		PickupDate:        in.PickupDate,
		ReturnDate:        in.ReturnDate,
		PickupLocation:    in.PickupLocation,
		ReturnLocation:    in.ReturnLocation,
		SpecialRequests:   in.SpecialRequests,
		Status:            models.BookingStatusPending,
		PaymentStatus:     models.BookingPaymentPending,
		DailyRate:         vehicle.DailyRate,
		TotalDays:         quote.TotalDays,
		Subtotal:          quote.Subtotal,
		TaxAmount:         quote.TaxAmount,
		DiscountAmount:    quote.DiscountAmount,
		AdditionalFees:    quote.AdditionalFees,
		InsuranceSelected: in.InsuranceType != "",
		InsuranceType:     in.InsuranceType,
		InsuranceCost:     quote.InsuranceCost,
		SecurityDeposit:   vehicle.SecurityDeposit,
		TotalAmount:       quote.TotalAmount,
		PromotionCode:     in.PromotionCode,
	}

	var createErr error
	for attempt := 0; attempt < maxReferenceRetries; attempt++ {
		ref, gErr := utils.GenerateBookingReference(time.Now())
		if gErr != nil {
			return models.Booking{}, fmt.Errorf("failed to generate booking reference: %w", gErr)
		}
		booking.BookingReference = ref

		createErr = s.DB.Create(&booking).Error
		if createErr == nil {
			break
		}
		if utils.IsDuplicateErr(createErr) {
			log.Printf("booking reference collision (attempt %d) - retrying", attempt+1)
			continue
		}
		return models.Booking{}, fmt.Errorf("failed to create booking: %w", createErr)
	}
	if createErr != nil {
		return models.Booking{}, ErrDuplicateIdentifier
	}

	if promo != nil {
		if err := s.DB.Model(promo).UpdateColumn("usage_count", gorm.Expr("usage_count + 1")).Error; err != nil {
			log.Printf("warning: failed to bump promotion usage for %s: %v", promo.Code, err)
		}
	}

	return booking, nil
}

func (s *BookingService) redeemablePromotion(code string, quote Quote) (*models.Promotion, error) {
	var promo models.Promotion
	if err := s.DB.Where("code = ?", code).First(&promo).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidPromotion
		}
		return nil, fmt.Errorf("failed to load promotion: %w", err)
	}
	if !promo.IsRedeemable(time.Now()) {
		return nil, ErrInvalidPromotion
	}
	if promo.MinBookingAmount != nil && quote.Subtotal < *promo.MinBookingAmount {
		return nil, ErrInvalidPromotion
	}
	if promo.MinRentalDays != nil && quote.TotalDays < *promo.MinRentalDays {
		return nil, ErrInvalidPromotion
	}
	return &promo, nil
}

// QuoteRental prices a prospective rental without creating anything.
func (s *BookingService) QuoteRental(vehicleID uint, pickup, ret time.Time, insuranceCost float64, promotionCode string) (Quote, error) {
	if !ret.After(pickup) {
		return Quote{}, ErrInvalidDateRange
	}

	var vehicle models.Vehicle
	if err := s.DB.First(&vehicle, vehicleID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return Quote{}, ErrVehicleNotFound
		}
		return Quote{}, fmt.Errorf("failed to load vehicle: %w", err)
	}

	pricing := PricingInput{
		DailyRate:     vehicle.DailyRate,
		PickupDate:    pickup,
		ReturnDate:    ret,
		TaxRate:       taxRate(),
		InsuranceCost: insuranceCost,
	}
	quote := ComputeQuote(pricing)

	if promotionCode != "" {
		promo, err := s.redeemablePromotion(promotionCode, quote)
		if err != nil {
			return Quote{}, err
		}
		pricing.DiscountAmount = PromotionDiscount(promo, quote.Subtotal, vehicle.DailyRate, quote.TotalDays)
		quote = ComputeQuote(pricing)
	}
	return quote, nil
}

// GetByID loads a booking with its relations.
func (s *BookingService) GetByID(id uint) (models.Booking, error) {
	var booking models.Booking
	err := s.DB.
		Preload("Customer").
		Preload("Vehicle.Model.Brand").
		Preload("Addons.Addon").
		Preload("Drivers.Driver").
		First(&booking, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return booking, ErrBookingNotFound
	}
	return booking, err
}

// Confirm moves pending -> confirmed, stamps confirmed_at and dispatches a
// best-effort confirmation email.
func (s *BookingService) Confirm(bookingID uint, staffID *uint) (models.Booking, error) {
	var booking models.Booking
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Preload("Customer").
			First(&booking, bookingID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrBookingNotFound
			}
			return err
		}
		if !booking.CanTransitionTo(models.BookingStatusConfirmed) {
			return ErrInvalidTransition
		}

		now := time.Now()
		updates := map[string]interface{}{
			"status":       models.BookingStatusConfirmed,
			"confirmed_at": now,
		}
		if staffID != nil {
			updates["assigned_staff_id"] = *staffID
		}
		if err := tx.Model(&booking).Updates(updates).Error; err != nil {
			return fmt.Errorf("failed to confirm booking: %w", err)
		}
		booking.Status = models.BookingStatusConfirmed
		booking.ConfirmedAt = &now
		return nil
	})
	if err != nil {
		return models.Booking{}, err
	}

	// Notification dispatch is best-effort; a mail failure never rolls back
	// the confirmation.
	if booking.Customer.Email != "" {
		subject := fmt.Sprintf("Booking %s confirmed", booking.BookingReference)
		body := fmt.Sprintf("Hi %s,\n\nYour booking %s is confirmed. Pickup: %s at %s.\n",
			booking.Customer.FullName(), booking.BookingReference,
			booking.PickupDate.Format("2006-01-02 15:04"), booking.PickupLocation)
		if mailErr := utils.SendBookingNotification(booking.Customer.Email, subject, body); mailErr != nil {
			log.Printf("warning: confirmation email for %s failed: %v", booking.BookingReference, mailErr)
		} else {
			_ = s.DB.Model(&models.Booking{}).Where("id = ?", booking.ID).
				Update("confirmation_sent", true).Error
			booking.ConfirmationSent = true
		}
	}

	return booking, nil
}

// Start moves confirmed -> active, stamps the actual pickup and snapshots the
// vehicle condition; the vehicle leaves the available pool.
func (s *BookingService) Start(bookingID uint, mileage *uint, fuelLevel *float64, staffID *uint) (models.Booking, error) {
	var booking models.Booking
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&booking, bookingID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrBookingNotFound
			}
			return err
		}
		if !booking.CanTransitionTo(models.BookingStatusActive) {
			return ErrInvalidTransition
		}

		now := time.Now()
		updates := map[string]interface{}{
			"status":             models.BookingStatusActive,
			"actual_pickup_date": now,
		}
		if mileage != nil {
			updates["pickup_mileage"] = *mileage
		}
		if fuelLevel != nil {
			updates["pickup_fuel_level"] = *fuelLevel
		}
		if staffID != nil {
			updates["pickup_staff_id"] = *staffID
		}
		if err := tx.Model(&booking).Updates(updates).Error; err != nil {
			return fmt.Errorf("failed to start rental: %w", err)
		}

		if err := tx.Model(&models.Vehicle{}).Where("id = ?", booking.VehicleID).
			Update("status", models.VehicleStatusRented).Error; err != nil {
			return fmt.Errorf("failed to mark vehicle rented: %w", err)
		}

		booking.Status = models.BookingStatusActive
		booking.ActualPickupDate = &now
		return nil
	})
	if err != nil {
		return models.Booking{}, err
	}
	return booking, nil
}

// CompleteInput carries the return-time vehicle snapshot.
type CompleteInput struct {
	ReturnMileage   *uint
	ReturnFuelLevel *float64
	StaffID         *uint
}

// Complete moves active -> completed. It stamps the actual return, raises
// penalties from the condition deltas, accrues loyalty points and makes the
// booking review-eligible. The vehicle returns to the available pool.
func (s *BookingService) Complete(bookingID uint, in CompleteInput) (models.Booking, error) {
	var booking models.Booking
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&booking, bookingID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrBookingNotFound
			}
			return err
		}
		if !booking.CanTransitionTo(models.BookingStatusCompleted) {
			return ErrInvalidTransition
		}

		now := time.Now()
		earned := uint(booking.TotalAmount / 10) // 1 point per 10 spent

		updates := map[string]interface{}{
			"status":                models.BookingStatusCompleted,
			"actual_return_date":    now,
			"review_eligible":       true,
			"loyalty_points_earned": earned,
		}
		if in.ReturnMileage != nil {
			updates["return_mileage"] = *in.ReturnMileage
		}
		if in.ReturnFuelLevel != nil {
			updates["return_fuel_level"] = *in.ReturnFuelLevel
		}
		if in.StaffID != nil {
			updates["return_staff_id"] = *in.StaffID
		}
		if err := tx.Model(&booking).Updates(updates).Error; err != nil {
			return fmt.Errorf("failed to complete booking: %w", err)
		}
		booking.Status = models.BookingStatusCompleted
		booking.ActualReturnDate = &now
		if in.ReturnMileage != nil {
			booking.ReturnMileage = in.ReturnMileage
		}
		if in.ReturnFuelLevel != nil {
			booking.ReturnFuelLevel = in.ReturnFuelLevel
		}

		if err := s.raisePenalties(tx, &booking, now); err != nil {
			return err
		}

		vehicleUpdates := map[string]interface{}{"status": models.VehicleStatusAvailable}
		if in.ReturnMileage != nil {
			vehicleUpdates["current_mileage"] = *in.ReturnMileage
		}
		if err := tx.Model(&models.Vehicle{}).Where("id = ?", booking.VehicleID).
			Updates(vehicleUpdates).Error; err != nil {
			return fmt.Errorf("failed to release vehicle: %w", err)
		}

		// Loyalty accrual goes straight onto the customer row.
		if earned > 0 {
			if err := tx.Model(&models.User{}).Where("id = ?", booking.CustomerID).
				UpdateColumn("loyalty_points", gorm.Expr("loyalty_points + ?", earned)).Error; err != nil {
				return fmt.Errorf("failed to accrue loyalty points: %w", err)
			}
			if err := s.refreshLoyaltyTier(tx, booking.CustomerID); err != nil {
				log.Printf("warning: loyalty tier refresh failed for customer %d: %v", booking.CustomerID, err)
			}
		}
		return nil
	})
	if err != nil {
		return models.Booking{}, err
	}
	return booking, nil
}

// raisePenalties turns the return-condition deltas into Penalty rows. The
// amounts are rough assessments that staff review before approval.
func (s *BookingService) raisePenalties(tx *gorm.DB, b *models.Booking, now time.Time) error {
	var penalties []models.Penalty

	if b.PickupFuelLevel != nil && b.ReturnFuelLevel != nil && *b.ReturnFuelLevel < *b.PickupFuelLevel {
		rate, _ := strconv.ParseFloat(utils.EnvOrDefault("FUEL_PENALTY_RATE", "500"), 64)
		shortage := *b.PickupFuelLevel - *b.ReturnFuelLevel
		penalties = append(penalties, models.Penalty{
			BookingID:   b.ID,
			CustomerID:  b.CustomerID,
			PenaltyType: models.PenaltyTypeFuelShortage,
			Description: fmt.Sprintf("Returned with %.0f%% less fuel than at pickup", shortage*100),
			Amount:      utils.Round2(shortage * rate),
		})
	}

	if now.After(b.ReturnDate) {
		lateDays := uint(now.Sub(b.ReturnDate).Hours() / 24)
		if lateDays > 0 {
			penalties = append(penalties, models.Penalty{
				BookingID:   b.ID,
				CustomerID:  b.CustomerID,
				PenaltyType: models.PenaltyTypeLateReturn,
				Description: fmt.Sprintf("Returned %d day(s) after the agreed return date", lateDays),
				Amount:      utils.Round2(float64(lateDays) * b.DailyRate),
			})
		}
	}

	if len(penalties) == 0 {
		return nil
	}
	if err := tx.Create(&penalties).Error; err != nil {
		return fmt.Errorf("failed to raise penalties: %w", err)
	}
	return nil
}

func (s *BookingService) refreshLoyaltyTier(tx *gorm.DB, customerID uint) error {
	var user models.User
	if err := tx.First(&user, customerID).Error; err != nil {
		return err
	}
	var program models.LoyaltyProgram
	err := tx.Where("is_active = ? AND min_points_required <= ?", true, user.LoyaltyPoints).
		Order("min_points_required DESC").
		First(&program).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	return tx.Model(&user).Update("loyalty_tier", program.Tier).Error
}

// Cancel: only pending/confirmed bookings with a future pickup date may be
// cancelled; the attempt otherwise fails as an invalid transition.
func (s *BookingService) Cancel(bookingID uint, reason string) (models.Booking, error) {
	var booking models.Booking
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&booking, bookingID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrBookingNotFound
			}
			return err
		}

		now := time.Now()
		if !booking.CanTransitionTo(models.BookingStatusCancelled) {
			return ErrInvalidTransition
		}
		if !booking.CanBeCancelled(now) {
			return ErrCancelWindowClosed
		}

		if err := tx.Model(&booking).Updates(map[string]interface{}{
			"status":              models.BookingStatusCancelled,
			"cancelled_at":        now,
			"cancellation_reason": reason,
		}).Error; err != nil {
			return fmt.Errorf("failed to cancel booking: %w", err)
		}
		booking.Status = models.BookingStatusCancelled
		booking.CancelledAt = &now
		booking.CancellationReason = reason
		return nil
	})
	if err != nil {
		return models.Booking{}, err
	}
	return booking, nil
}

// MarkNoShow closes out a confirmed booking whose customer never arrived.
func (s *BookingService) MarkNoShow(bookingID uint) (models.Booking, error) {
	var booking models.Booking
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&booking, bookingID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrBookingNotFound
			}
			return err
		}
		if !booking.CanTransitionTo(models.BookingStatusNoShow) {
			return ErrInvalidTransition
		}
		if err := tx.Model(&booking).Update("status", models.BookingStatusNoShow).Error; err != nil {
			return fmt.Errorf("failed to mark no-show: %w", err)
		}
		booking.Status = models.BookingStatusNoShow
		return nil
	})
	if err != nil {
		return models.Booking{}, err
	}
	return booking, nil
}

// AssignAddon attaches an add-on to a booking (snapshotting the unit price)
// and reprices the booking. A second assignment of the same add-on trips the
// unique index and surfaces as a duplicate.
func (s *BookingService) AssignAddon(bookingID, addonID, quantity uint, notes string) (models.BookingAddOnAssignment, error) {
	var assignment models.BookingAddOnAssignment
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		var booking models.Booking
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&booking, bookingID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrBookingNotFound
			}
			return err
		}
		if booking.IsTerminal() {
			return ErrInvalidTransition
		}

		var addon models.BookingAddOn
		if err := tx.Where("id = ? AND is_active = ?", addonID, true).First(&addon).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrAddonNotFound
			}
			return err
		}

		if quantity == 0 {
			quantity = 1
		}
		line := AddonLine{PricingType: addon.PricingType, UnitPrice: addon.Price, Quantity: quantity}
		assignment = models.BookingAddOnAssignment{
			BookingID:  bookingID,
			AddonID:    addonID,
			Quantity:   quantity,
			UnitPrice:  addon.Price,
			TotalPrice: AddonTotal(line, booking.Subtotal, booking.TotalDays),
			Notes:      notes,
		}
		if err := tx.Create(&assignment).Error; err != nil {
			return err
		}
		return s.repriceTx(tx, &booking)
	})
	if err != nil {
		return models.BookingAddOnAssignment{}, err
	}
	return assignment, nil
}

// AddDriver registers an additional driver on a booking. The driver fee
// feeds the booking's additional fees, so the totals are recomputed in the
// same transaction.
func (s *BookingService) AddDriver(bookingID, driverID uint, fee float64) (models.BookingAdditionalDriver, error) {
	var assignment models.BookingAdditionalDriver
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		var booking models.Booking
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&booking, bookingID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrBookingNotFound
			}
			return err
		}
		if booking.IsTerminal() {
			return ErrInvalidTransition
		}

		var driver models.User
		if err := tx.First(&driver, driverID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrCustomerNotFound
			}
			return err
		}

		assignment = models.BookingAdditionalDriver{
			BookingID:     bookingID,
			DriverID:      driverID,
			AdditionalFee: fee,
		}
		if err := tx.Create(&assignment).Error; err != nil {
			return err
		}
		return s.repriceTx(tx, &booking)
	})
	if err != nil {
		return models.BookingAdditionalDriver{}, err
	}
	return assignment, nil
}

// Reprice recomputes every derived money column from the booking's current
// inputs and add-ons. Totals are never updated implicitly, so any edit to a
// pricing input must be followed by a Reprice call.
func (s *BookingService) Reprice(bookingID uint) (models.Booking, error) {
	var booking models.Booking
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&booking, bookingID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrBookingNotFound
			}
			return err
		}
		return s.repriceTx(tx, &booking)
	})
	if err != nil {
		return models.Booking{}, err
	}
	return booking, nil
}

func (s *BookingService) repriceTx(tx *gorm.DB, booking *models.Booking) error {
	var assignments []models.BookingAddOnAssignment
	if err := tx.Preload("Addon").Where("booking_id = ?", booking.ID).Find(&assignments).Error; err != nil {
		return fmt.Errorf("failed to load addon assignments: %w", err)
	}

	lines := make([]AddonLine, 0, len(assignments))
	for _, a := range assignments {
		lines = append(lines, AddonLine{
			PricingType: a.Addon.PricingType,
			UnitPrice:   a.UnitPrice,
			Quantity:    a.Quantity,
		})
	}

	var driverFees float64
	var drivers []models.BookingAdditionalDriver
	if err := tx.Where("booking_id = ?", booking.ID).Find(&drivers).Error; err != nil {
		return fmt.Errorf("failed to load additional drivers: %w", err)
	}
	for _, d := range drivers {
		driverFees += d.AdditionalFee
	}

	quote := ComputeQuote(PricingInput{
		DailyRate:      booking.DailyRate,
		PickupDate:     booking.PickupDate,
		ReturnDate:     booking.ReturnDate,
		TaxRate:        taxRate(),
		DiscountAmount: booking.DiscountAmount,
		AdditionalFees: booking.AdditionalFees + driverFees,
		InsuranceCost:  booking.InsuranceCost,
		Addons:         lines,
	})

	updates := map[string]interface{}{
		"total_days":   quote.TotalDays,
		"subtotal":     quote.Subtotal,
		"tax_amount":   quote.TaxAmount,
		"total_amount": quote.TotalAmount,
	}
	if err := tx.Model(booking).Updates(updates).Error; err != nil {
		return fmt.Errorf("failed to reprice booking: %w", err)
	}
	booking.TotalDays = quote.TotalDays
	booking.Subtotal = quote.Subtotal
	booking.TaxAmount = quote.TaxAmount
	booking.TotalAmount = quote.TotalAmount
	return nil
}

// RefreshPaymentStatus recomputes the booking's payment_status from its
// completed payments.
func (s *BookingService) RefreshPaymentStatus(tx *gorm.DB, bookingID uint) error {
	if tx == nil {
		tx = s.DB
	}

	var booking models.Booking
	if err := tx.First(&booking, bookingID).Error; err != nil {
		return err
	}

	var paid float64
	if err := tx.Model(&models.Payment{}).
		Where("booking_id = ? AND status = ?", bookingID, models.PaymentStatusCompleted).
		Select("COALESCE(SUM(amount - refund_amount), 0)").
		Scan(&paid).Error; err != nil {
		return fmt.Errorf("failed to sum payments: %w", err)
	}

	status := models.BookingPaymentPending
	switch {
	case paid >= booking.TotalAmount && booking.TotalAmount > 0:
		status = models.BookingPaymentPaid
	case paid > 0:
		status = models.BookingPaymentPartial
	}
	return tx.Model(&booking).Update("payment_status", status).Error
}
