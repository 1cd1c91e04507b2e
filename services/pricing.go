package services

import (
	"time"

	"github.com/Keithpaul98/Car-Hire-System/models"
	"github.com/Keithpaul98/Car-Hire-System/utils"
)

// PricingInput is everything the calculator needs for one booking quote.
type PricingInput struct {
	DailyRate      float64
	PickupDate     time.Time
	ReturnDate     time.Time
	TaxRate        float64 // percent, applied to subtotal
	DiscountAmount float64
	AdditionalFees float64
	InsuranceCost  float64
	Addons         []AddonLine
}

// AddonLine is one add-on assignment to price.
type AddonLine struct {
	PricingType string // per_day, per_booking, percentage
	UnitPrice   float64
	Quantity    uint
}

// Quote is the computed pricing breakdown. TotalAmount is always
// recomputed from its parts, never carried over.
type Quote struct {
	TotalDays      uint
	Subtotal       float64
	AddonTotal     float64
	TaxAmount      float64
	DiscountAmount float64
	AdditionalFees float64
	InsuranceCost  float64
	TotalAmount    float64
}

// TotalDays bills whole days between pickup and return; anything under
// 24 hours still counts as one day.
func TotalDays(pickup, ret time.Time) uint {
	days := int(ret.Sub(pickup).Hours() / 24)
	if days < 1 {
		days = 1
	}
	return uint(days)
}

// AddonTotal prices one add-on line against the rental subtotal and days.
// Percentage add-ons take their cut from the subtotal; per-day lines
// multiply across the rental length.
func AddonTotal(line AddonLine, subtotal float64, totalDays uint) float64 {
	qty := float64(line.Quantity)
	if qty == 0 {
		qty = 1
	}
	switch line.PricingType {
	case models.AddonPricingPercentage:
		return utils.Round2(subtotal * line.UnitPrice / 100 * qty)
	case models.AddonPricingPerBooking:
		return utils.Round2(line.UnitPrice * qty)
	default: // per_day
		return utils.Round2(line.UnitPrice * qty * float64(totalDays))
	}
}

// ComputeQuote derives the full pricing breakdown:
//
//	subtotal     = daily_rate x total_days
//	total_amount = subtotal + tax + addon total + additional fees
//	               + insurance - discount
func ComputeQuote(in PricingInput) Quote {
	days := TotalDays(in.PickupDate, in.ReturnDate)
	subtotal := utils.Round2(in.DailyRate * float64(days))

	var addonTotal float64
	for _, line := range in.Addons {
		addonTotal += AddonTotal(line, subtotal, days)
	}
	addonTotal = utils.Round2(addonTotal)

	tax := utils.Round2(subtotal * in.TaxRate / 100)
	total := utils.Round2(subtotal + tax + addonTotal + in.AdditionalFees + in.InsuranceCost - in.DiscountAmount)
	if total < 0 {
		total = 0
	}

	return Quote{
		TotalDays:      days,
		Subtotal:       subtotal,
		AddonTotal:     addonTotal,
		TaxAmount:      tax,
		DiscountAmount: utils.Round2(in.DiscountAmount),
		AdditionalFees: utils.Round2(in.AdditionalFees),
		InsuranceCost:  utils.Round2(in.InsuranceCost),
		TotalAmount:    total,
	}
}

// PromotionDiscount converts a redeemed promotion into a discount amount for
// the given subtotal and rental length.
func PromotionDiscount(p *models.Promotion, subtotal, dailyRate float64, totalDays uint) float64 {
	switch p.DiscountType {
	case models.DiscountTypePercentage:
		d := subtotal * p.DiscountValue / 100
		if p.MaxDiscountAmount != nil && d > *p.MaxDiscountAmount {
			d = *p.MaxDiscountAmount
		}
		return utils.Round2(d)
	case models.DiscountTypeFixedAmount:
		if p.DiscountValue > subtotal {
			return utils.Round2(subtotal)
		}
		return utils.Round2(p.DiscountValue)
	case models.DiscountTypeFreeDays:
		free := p.DiscountValue
		if free > float64(totalDays) {
			free = float64(totalDays)
		}
		return utils.Round2(dailyRate * free)
	}
	return 0
}
