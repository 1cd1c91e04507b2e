package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/Keithpaul98/Car-Hire-System/models"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 10, 0, 0, 0, time.UTC)
}

func TestTotalDays(t *testing.T) {
	pickup := day(2026, time.March, 1)

	assert.Equal(t, uint(3), TotalDays(pickup, pickup.AddDate(0, 0, 3)))
	assert.Equal(t, uint(1), TotalDays(pickup, pickup.Add(4*time.Hour)), "sub-day rentals bill one day")
	assert.Equal(t, uint(1), TotalDays(pickup, pickup.Add(30*time.Hour)), "partial second day is not billed")
	assert.Equal(t, uint(1), TotalDays(pickup, pickup), "zero duration still bills one day")
}

func TestComputeQuoteBasic(t *testing.T) {
	q := ComputeQuote(PricingInput{
		DailyRate:  100,
		PickupDate: day(2026, time.March, 1),
		ReturnDate: day(2026, time.March, 4),
		TaxRate:    15,
	})

	assert.Equal(t, uint(3), q.TotalDays)
	assert.Equal(t, 300.0, q.Subtotal)
	assert.Equal(t, 45.0, q.TaxAmount)
	assert.Equal(t, 345.0, q.TotalAmount)
}

func TestComputeQuoteNeverNegative(t *testing.T) {
	q := ComputeQuote(PricingInput{
		DailyRate:      50,
		PickupDate:     day(2026, time.March, 1),
		ReturnDate:     day(2026, time.March, 2),
		DiscountAmount: 10000,
	})
	assert.Equal(t, 0.0, q.TotalAmount)
}

func TestComputeQuoteWithExtras(t *testing.T) {
	q := ComputeQuote(PricingInput{
		DailyRate:      100,
		PickupDate:     day(2026, time.March, 1),
		ReturnDate:     day(2026, time.March, 5),
		TaxRate:        15,
		DiscountAmount: 40,
		AdditionalFees: 25,
		InsuranceCost:  60,
		Addons: []AddonLine{
			{PricingType: models.AddonPricingPerDay, UnitPrice: 50, Quantity: 1},
		},
	})

	// 400 subtotal + 60 tax + 200 addons + 25 fees + 60 insurance - 40 discount
	assert.Equal(t, 400.0, q.Subtotal)
	assert.Equal(t, 200.0, q.AddonTotal)
	assert.Equal(t, 705.0, q.TotalAmount)
}

func TestComputeQuoteFoldsDriverFees(t *testing.T) {
	in := PricingInput{
		DailyRate:  100,
		PickupDate: day(2026, time.March, 1),
		ReturnDate: day(2026, time.March, 4),
		TaxRate:    15,
	}
	without := ComputeQuote(in)

	// additional driver fees enter the quote through additional fees, so
	// registering a driver must raise the total by exactly the fee
	in.AdditionalFees += 150
	with := ComputeQuote(in)
	assert.Equal(t, 150.0, with.AdditionalFees)
	assert.Equal(t, without.TotalAmount+150, with.TotalAmount)
}

func TestAddonTotal(t *testing.T) {
	perDay := AddonLine{PricingType: models.AddonPricingPerDay, UnitPrice: 50, Quantity: 2}
	assert.Equal(t, 300.0, AddonTotal(perDay, 1000, 3))

	perBooking := AddonLine{PricingType: models.AddonPricingPerBooking, UnitPrice: 250, Quantity: 1}
	assert.Equal(t, 250.0, AddonTotal(perBooking, 1000, 3))

	percentage := AddonLine{PricingType: models.AddonPricingPercentage, UnitPrice: 10, Quantity: 1}
	assert.Equal(t, 100.0, AddonTotal(percentage, 1000, 3))

	zeroQty := AddonLine{PricingType: models.AddonPricingPerBooking, UnitPrice: 100}
	assert.Equal(t, 100.0, AddonTotal(zeroQty, 1000, 3), "zero quantity prices as one")
}

func TestPromotionDiscountPercentage(t *testing.T) {
	promo := &models.Promotion{DiscountType: models.DiscountTypePercentage, DiscountValue: 20}
	assert.Equal(t, 200.0, PromotionDiscount(promo, 1000, 100, 10))

	cap := 50.0
	promo.MaxDiscountAmount = &cap
	assert.Equal(t, 50.0, PromotionDiscount(promo, 1000, 100, 10), "discount is capped")
}

func TestPromotionDiscountFixedAmount(t *testing.T) {
	promo := &models.Promotion{DiscountType: models.DiscountTypeFixedAmount, DiscountValue: 150}
	assert.Equal(t, 150.0, PromotionDiscount(promo, 1000, 100, 10))
	assert.Equal(t, 100.0, PromotionDiscount(promo, 100, 100, 1), "fixed discount never exceeds subtotal")
}

func TestPromotionDiscountFreeDays(t *testing.T) {
	promo := &models.Promotion{DiscountType: models.DiscountTypeFreeDays, DiscountValue: 2}
	assert.Equal(t, 200.0, PromotionDiscount(promo, 1000, 100, 10))
	assert.Equal(t, 100.0, PromotionDiscount(promo, 100, 100, 1), "free days capped at rental length")
}
