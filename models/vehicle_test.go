package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestVehicleRateFallbacks(t *testing.T) {
	v := Vehicle{DailyRate: 100}
	assert.Equal(t, 650.0, v.WeeklyRate())
	assert.Equal(t, 2500.0, v.MonthlyRate())

	weekly := 580.0
	monthly := 2200.0
	v.WeeklyRateSet = &weekly
	v.MonthlyRateSet = &monthly
	assert.Equal(t, 580.0, v.WeeklyRate(), "explicit weekly rate wins")
	assert.Equal(t, 2200.0, v.MonthlyRate(), "explicit monthly rate wins")
}

func TestVehicleIsAvailableForBooking(t *testing.T) {
	assert.True(t, (&Vehicle{Status: VehicleStatusAvailable, IsActive: true}).IsAvailableForBooking())
	assert.False(t, (&Vehicle{Status: VehicleStatusRented, IsActive: true}).IsAvailableForBooking())
	assert.False(t, (&Vehicle{Status: VehicleStatusMaintenance, IsActive: true}).IsAvailableForBooking())
	assert.False(t, (&Vehicle{Status: VehicleStatusAvailable, IsActive: false}).IsAvailableForBooking())
}

func TestPromotionIsRedeemable(t *testing.T) {
	now := time.Now()
	promo := Promotion{
		IsActive:  true,
		StartDate: now.Add(-24 * time.Hour),
		EndDate:   now.Add(24 * time.Hour),
	}
	assert.True(t, promo.IsRedeemable(now))

	promo.IsActive = false
	assert.False(t, promo.IsRedeemable(now))
	promo.IsActive = true

	assert.False(t, promo.IsRedeemable(now.Add(-48*time.Hour)), "before the window")
	assert.False(t, promo.IsRedeemable(now.Add(48*time.Hour)), "after the window")

	limit := uint(10)
	promo.UsageLimit = &limit
	promo.UsageCount = 10
	assert.False(t, promo.IsRedeemable(now), "usage limit exhausted")

	promo.UsageCount = 9
	assert.True(t, promo.IsRedeemable(now))
}
